package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileNotFound the stored name does not exist
var ErrFileNotFound = errors.New("stored file not found")

// Store persists uploaded files under generated names
type Store interface {
	Save(r io.Reader, ext string) (storedName string, size int64, err error)
	Open(storedName string) (io.ReadCloser, error)
	Remove(storedName string) error
}

// LocalStore keeps files in one directory on local disk
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes r to "<uuid><ext>"
func (s *LocalStore) Save(r io.Reader, ext string) (string, int64, error) {
	name := uuid.New().String() + strings.ToLower(ext)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return name, n, nil
}

// Open opens a stored file for reading
func (s *LocalStore) Open(storedName string) (io.ReadCloser, error) {
	path, err := s.path(storedName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	return f, err
}

// Remove deletes a stored file; a missing file is not an error
func (s *LocalStore) Remove(storedName string) error {
	path, err := s.path(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// path rejects names that would escape the directory
func (s *LocalStore) path(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) {
		return "", ErrFileNotFound
	}
	return filepath.Join(s.dir, storedName), nil
}
