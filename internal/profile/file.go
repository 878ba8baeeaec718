package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

const (
	employeesDir = "employees"
	feedbacksDir = "feedbacks"
	plansDir     = "plans"
)

// FileStore keeps one JSON document per record under a data directory:
//
//	<root>/employees/<id>.json
//	<root>/feedbacks/<id>.json
//	<root>/plans/<id>.json
type FileStore struct {
	root string
	now  func() time.Time
	mu   sync.RWMutex
}

// NewFileStore creates the directory layout under root if needed.
func NewFileStore(root string) (*FileStore, error) {
	fs := &FileStore{root: root, now: time.Now}
	if err := fs.initialize(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to initialize data directory %s", root), err)
	}
	return fs, nil
}

// Root returns the data directory.
func (fs *FileStore) Root() string {
	return fs.root
}

func (fs *FileStore) initialize() error {
	for _, dir := range []string{employeesDir, feedbacksDir, plansDir} {
		if err := os.MkdirAll(filepath.Join(fs.root, dir), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (fs *FileStore) path(kind, id string) string {
	return filepath.Join(fs.root, kind, id+".json")
}

// Get loads the profile with id.
func (fs *FileStore) Get(_ context.Context, id string) (*Profile, error) {
	if !ValidID(id) {
		return nil, errors.NewProfileNotFoundError(id)
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var p Profile
	if err := fs.loadJSON(fs.path(employeesDir, id), &p); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewProfileNotFoundError(id)
		}
		return nil, err
	}
	p.ApplyDefaults()
	return &p, nil
}

// Save validates and writes p, stamping CreatedAt and UpdatedAt.
func (fs *FileStore) Save(_ context.Context, p *Profile) error {
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return errors.NewProfileInvalidError(err.Error())
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := fs.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return fs.saveJSON(fs.path(employeesDir, p.ID), p)
}

// List returns every stored profile sorted by id. Unreadable files are skipped.
func (fs *FileStore) List(_ context.Context) ([]*Profile, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	ids, err := fs.ids(employeesDir)
	if err != nil {
		return nil, err
	}
	out := make([]*Profile, 0, len(ids))
	for _, id := range ids {
		var p Profile
		if err := fs.loadJSON(fs.path(employeesDir, id), &p); err != nil {
			continue
		}
		p.ApplyDefaults()
		out = append(out, &p)
	}
	return out, nil
}

// AddFeedback validates and writes f.
func (fs *FileStore) AddFeedback(_ context.Context, f *Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = fs.now().UTC()
	}
	if err := f.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeRecordInvalid, "invalid feedback record", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.saveJSON(fs.path(feedbacksDir, f.ID), f)
}

// ListFeedback returns the feedback for one learner, oldest first.
func (fs *FileStore) ListFeedback(_ context.Context, employeeID string) ([]*Feedback, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	ids, err := fs.ids(feedbacksDir)
	if err != nil {
		return nil, err
	}
	var out []*Feedback
	for _, id := range ids {
		var f Feedback
		if err := fs.loadJSON(fs.path(feedbacksDir, id), &f); err != nil {
			continue
		}
		if f.EmployeeID == employeeID {
			out = append(out, &f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// SavePlan writes plan as plans/<id>.json and returns the file path.
func (fs *FileStore) SavePlan(_ context.Context, id string, plan any) (string, error) {
	if !ValidID(id) {
		return "", errors.New(errors.ErrCodeRecordInvalid, fmt.Sprintf("invalid plan id %q", id))
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := fs.path(plansDir, id)
	if err := fs.saveJSON(path, plan); err != nil {
		return "", err
	}
	return path, nil
}

func (fs *FileStore) ids(kind string) ([]string, error) {
	dir := filepath.Join(fs.root, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to list %s", dir), err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// saveJSON writes to a temp file and renames it so readers never see a partial document.
func (fs *FileStore) saveJSON(path string, data any) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to create %s", tempPath), err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return errors.Wrap(errors.ErrCodeFileMarshal, fmt.Sprintf("failed to encode %s", path), err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write %s", tempPath), err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}

func (fs *FileStore) loadJSON(path string, target any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(target); err != nil {
		return errors.NewFileUnmarshalError(path, "JSON", err)
	}
	return nil
}
