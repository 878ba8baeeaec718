package history

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

// Open returns the sink for path: a SQLite database for .db, .sqlite and
// .sqlite3 paths, a JSONL file otherwise. The returned close function is never nil.
func Open(ctx context.Context, path string) (Sink, func() error, error) {
	if IsSQLitePath(path) {
		db, err := NewSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}

	f, err := NewFile(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() error { return nil }, nil
}

// Load reads every entry stored at path, in recording order. A missing file
// or database is reported as IO-001.
func Load(ctx context.Context, path string) ([]Entry, error) {
	if !IsSQLitePath(path) {
		return Read(path)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to stat history database %s", path), err)
	}
	db, err := NewSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Entries(ctx, "")
}
