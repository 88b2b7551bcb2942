package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge  = errors.New("file exceeds upload limit")
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidName   = errors.New("invalid file name")
	ErrEmptyFileName = errors.New("file name is required")
)

// FileStore keeps uploaded bytes under generated names. The stored name is
// what callers persist and later pass back to Resolve or Remove.
type FileStore interface {
	Store(ctx context.Context, originalName string, r io.Reader) (string, error)
	Resolve(name string) (string, error)
	Remove(name string) error
}

// LocalStore writes uploads into a single directory on local disk.
type LocalStore struct {
	dir      string
	maxBytes int64
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Store copies r to <uuid><ext>. The client filename only contributes a
// sanitized extension.
func (s *LocalStore) Store(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if strings.TrimSpace(originalName) == "" {
		return "", ErrEmptyFileName
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.New().String() + SafeExtension(originalName)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	reader := r
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1)
	}
	written, err := io.Copy(tmp, reader)
	if err != nil {
		cleanup()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		cleanup()
		return "", ErrFileTooLarge
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to sync upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close upload: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	return name, nil
}

// Resolve maps a stored name to its path on disk.
func (s *LocalStore) Resolve(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", ErrFileNotFound
	}
	return path, nil
}

func (s *LocalStore) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// SafeExtension returns a lowercase alphanumeric extension with its dot, or "".
func SafeExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return ErrInvalidName
	}
	return nil
}
