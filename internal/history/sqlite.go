package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS history (
	seq               INTEGER PRIMARY KEY AUTOINCREMENT,
	id                TEXT NOT NULL UNIQUE,
	learner_id        TEXT NOT NULL,
	timestamp         TEXT NOT NULL,
	input_fingerprint TEXT NOT NULL,
	fallbacks         TEXT NOT NULL,
	report            BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS history_learner ON history(learner_id);
`

// IsSQLitePath reports whether path names a SQLite history database rather than a JSONL file.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// SQLite stores entries in a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens or creates the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create history directory for %s", path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to open history database %s", path), err)
	}
	// one writer; concurrent invocations queue on the pool
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to initialize history database %s", path), err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Path returns the database location.
func (s *SQLite) Path() string {
	return s.path
}

// Record implements Sink.
func (s *SQLite) Record(ctx context.Context, e Entry) error {
	fallbacks, err := json.Marshal(e.Fallbacks)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to encode history fallbacks", err)
	}
	report := []byte(e.Report)
	if report == nil {
		report = []byte("null")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (id, learner_id, timestamp, input_fingerprint, fallbacks, report) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.LearnerID, e.Timestamp.UTC().Format(time.RFC3339Nano), e.InputFingerprint, string(fallbacks), report,
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write history entry", err)
	}
	return nil
}

// Entries returns the stored entries in insertion order. A non-empty learner
// restricts the result to that learner.
func (s *SQLite) Entries(ctx context.Context, learner string) ([]Entry, error) {
	query := `SELECT id, learner_id, timestamp, input_fingerprint, fallbacks, report FROM history`
	var args []any
	if learner != "" {
		query += ` WHERE learner_id = ?`
		args = append(args, learner)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to query history database %s", s.path), err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			ts        string
			fallbacks string
			report    []byte
		)
		if err := rows.Scan(&e.ID, &e.LearnerID, &ts, &e.InputFingerprint, &fallbacks, &report); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "failed to scan history entry", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, errors.NewFileUnmarshalError(s.path, "timestamp", err)
		}
		if err := json.Unmarshal([]byte(fallbacks), &e.Fallbacks); err != nil {
			return nil, errors.NewFileUnmarshalError(s.path, "JSON", err)
		}
		e.Report = json.RawMessage(report)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read history database %s", s.path), err)
	}
	return entries, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
