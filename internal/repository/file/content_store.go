package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// ContentStore keeps the collection as <dir>/<key>.json. Writes go to a
// temporary file in the same directory and are renamed into place, so a
// crash never leaves a half-written record.
type ContentStore struct {
	dir  string
	path string
}

var _ repository.ContentStore = (*ContentStore)(nil)

// NewContentStore creates dir if needed.
func NewContentStore(dir, key string) (*ContentStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory is required")
	}
	if key == "" {
		return nil, fmt.Errorf("file store key is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &ContentStore{dir: dir, path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the record file path.
func (s *ContentStore) Path() string {
	return s.path
}

func (s *ContentStore) Load(ctx context.Context) ([]model.ContentItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ContentItem{}, nil
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return repository.Decode(data)
}

func (s *ContentStore) Save(ctx context.Context, items []model.ContentItem) error {
	data, err := repository.Encode(items)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

// Ping checks that the store directory is still there.
func (s *ContentStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
