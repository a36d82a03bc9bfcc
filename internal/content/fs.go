package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	derrors "redink/pkg/domain-errors"
)

// FSStore stores files in a flat directory on the local filesystem.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory if needed and returns a store over it.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "create content directory")
	}
	return &FSStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) path(key string) (string, error) {
	// Keys are generated UUID-based names, but don't trust the caller:
	// reject anything that could escape the directory.
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", derrors.Newf(derrors.CodeStorage, "invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *FSStore) Write(_ context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	// Write through a temp file and rename so readers never observe a
	// half-written file under the final key.
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStorage, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return derrors.Wrap(err, derrors.CodeStorage, "write content")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return derrors.Wrap(err, derrors.CodeStorage, "close content file")
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return derrors.Wrap(err, derrors.CodeStorage, "publish content file")
	}
	return nil
}

func (s *FSStore) Read(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.Newf(derrors.CodeNotFound, "file %s not found", key)
		}
		return nil, derrors.Wrap(err, derrors.CodeStorage, "read content")
	}
	return data, nil
}

func (s *FSStore) Remove(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return derrors.Newf(derrors.CodeNotFound, "file %s not found", key)
		}
		return derrors.Wrap(err, derrors.CodeStorage, "remove content")
	}
	return nil
}

func (s *FSStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStorage, "list content directory")
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}
