package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

// maxLineSize bounds one JSONL record when reading.
const maxLineSize = 16 * 1024 * 1024

// File appends entries as JSON lines to a file.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a sink appending to path. The parent directory is created.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create history directory for %s", path), err)
	}
	return &File{path: path}, nil
}

// Path returns the history file location.
func (f *File) Path() string {
	return f.path
}

// Record implements Sink.
func (f *File) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to encode history entry", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to open history file %s", f.path), err)
	}
	if _, err := fmt.Fprintf(out, "%s\n", line); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write history entry", err)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to close history file", err)
	}
	return nil
}

// Read loads every entry of a JSONL history file in file order.
func Read(path string) ([]Entry, error) {
	in, err := os.Open(path) // #nosec G304 - path comes from config or flags
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to open history file %s", path), err)
	}
	defer in.Close()

	var entries []Entry
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, errors.NewFileUnmarshalError(fmt.Sprintf("%s:%d", path, line), "JSON", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read history file %s", path), err)
	}
	return entries, nil
}
