package iolocal

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gnames/gncat/pkg/store"
)

// fileStore keeps the payload in <dir>/<key>.json.
type fileStore struct {
	dir string
	key string
}

// NewFile creates a file-based local storage inside dir.
func NewFile(dir, key string) (store.LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, OpenError("file", dir, err)
	}
	return &fileStore{dir: dir, key: key}, nil
}

func (f *fileStore) path() string {
	return filepath.Join(f.dir, f.key+".json")
}

func (f *fileStore) Load(context.Context) ([]byte, error) {
	res, err := os.ReadFile(f.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNoData
	}
	if err != nil {
		return nil, LoadError(f.key, err)
	}
	return res, nil
}

// Save writes to a temporary file and renames it over the old one.
func (f *fileStore) Save(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, "."+f.key+"-*")
	if err != nil {
		return SaveError(f.key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return SaveError(f.key, err)
	}
	if err = tmp.Close(); err != nil {
		return SaveError(f.key, err)
	}
	if err = os.Rename(tmp.Name(), f.path()); err != nil {
		return SaveError(f.key, err)
	}
	return nil
}

func (f *fileStore) Close() error { return nil }
