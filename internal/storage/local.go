package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalObjectStore keeps objects as files under a base directory. It exists
// for single-machine runs and tests; keys map to relative file paths.
type LocalObjectStore struct {
	baseDir string
}

var _ ObjectStore = (*LocalObjectStore)(nil)

func NewLocalObjectStore(dir string) (*LocalObjectStore, error) {
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, wrapIO(err))
	}

	return &LocalObjectStore{baseDir: baseDir}, nil
}

func (s *LocalObjectStore) fullpath(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

func (s *LocalObjectStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(s.fullpath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s/%s: %w", s.baseDir, key, wrapIO(err))
	}
	return file, nil
}

// PutObject stages the data in a temp file next to the target and renames it
// into place. Rename is atomic within a filesystem, so a failed write never
// leaves a partial object under the key.
func (s *LocalObjectStore) PutObject(ctx context.Context, key string, data io.Reader) error {
	path := s.fullpath(key)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s/%s: %w", s.baseDir, key, wrapIO(err))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".staged-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file for %s/%s: %w", s.baseDir, key, wrapIO(err))
	}

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write object %s/%s: %w", s.baseDir, key, wrapIO(err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to flush object %s/%s: %w", s.baseDir, key, wrapIO(err))
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to promote staged object %s/%s: %w", s.baseDir, key, wrapIO(err))
	}

	return nil
}

func (s *LocalObjectStore) ListObjects(ctx context.Context, prefix string) ([]Object, error) {
	var objects []Object

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, Object{Name: key, Size: info.Size()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in %s/%s: %w", s.baseDir, prefix, wrapIO(err))
	}

	return objects, nil
}

func (s *LocalObjectStore) DeleteObjects(ctx context.Context, prefix string) error {
	if err := os.RemoveAll(s.fullpath(prefix)); err != nil {
		return fmt.Errorf("failed to delete objects in %s/%s: %w", s.baseDir, prefix, wrapIO(err))
	}
	return nil
}
