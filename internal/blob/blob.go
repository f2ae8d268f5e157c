// Package blob stores uploaded files and returns the URL they are served at.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists a named blob and returns its public URL.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Delete removes a blob stored under name. Missing blobs are not an error.
	Delete(ctx context.Context, name string) error
}

// LocalStore writes blobs into a directory served under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

// NewLocalStore creates dir if needed and returns a store serving from
// /uploads/.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{Dir: dir, URLPrefix: "/uploads/"}, nil
}

// Put writes data to Dir/name. Names must be plain file names.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("storing blob: %w", err)
	}

	return s.URLPrefix + name, nil
}

// Delete removes Dir/name.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return nil
}
