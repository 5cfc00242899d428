package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// filePrefix namespaces the document files inside the data directory,
// mirroring the localStorage key prefix the original frontend used.
const filePrefix = "myConfigurableApp_"

// FileStore implements Store with one pretty-printed JSON file per
// document under a data directory. Saves are atomic: the document is
// written to a temp file and renamed into place.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory, for wiring a Watcher.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file a named document is stored at.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, filePrefix+name+".json")
}

// DocumentForPath maps a file path back to its document name, for the
// Watcher. Returns "" for files the store does not own.
func (s *FileStore) DocumentForPath(path string) string {
	base := filepath.Base(path)
	for _, name := range Names() {
		if base == filePrefix+name+".json" {
			return name
		}
	}
	return ""
}

func (s *FileStore) Load(_ context.Context, name string) (map[string]any, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return doc, nil
}

func (s *FileStore) Save(_ context.Context, name string, doc map[string]any) error {
	if err := checkName(name); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, filePrefix+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
