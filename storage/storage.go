// Package storage persists one JSON document on disk.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// JSON stores a single value as indented JSON at a fixed path.
type JSON struct {
	path string
}

// NewJSON returns storage at path, creating its parent directory.
func NewJSON(path string) (*JSON, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "create storage directory")
	}
	return &JSON{path: path}, nil
}

func (s *JSON) Path() string {
	return s.path
}

// Save replaces the stored document with v. The file is written next to the
// target and renamed into place so a crash never leaves half a document.
func (s *JSON) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode document")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path), "replace %s", s.path)
}

// Load decodes the stored document into v. It reports false, with no error,
// when nothing has been saved yet.
func (s *JSON) Load(v any) (bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "read %s", s.path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrapf(err, "decode %s", s.path)
	}
	return true, nil
}

// Clear deletes the stored document. Clearing empty storage is not an error.
func (s *JSON) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "remove %s", s.path)
	}
	return nil
}

func (s *JSON) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Backup copies the stored document to Path()+suffix. Backing up empty
// storage does nothing.
func (s *JSON) Backup(suffix string) error {
	if suffix == "" {
		suffix = ".backup"
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", s.path)
	}
	return errors.Wrap(os.WriteFile(s.path+suffix, data, 0644), "write backup")
}
