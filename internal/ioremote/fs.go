package ioremote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gnuuid"
)

// fsStore keeps the record list as a file on a shared directory.
// The version token is a UUID v5 of the content.
type fsStore struct {
	mu   sync.Mutex
	dir  string
	path string
}

// NewFS creates a backend for the file name inside dir.
func NewFS(dir, name string) (blob.Backend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ConfigError("fs", "dir")
	}
	name = filepath.Clean(strings.TrimPrefix(name, "/"))
	if name == "." || strings.HasPrefix(name, "..") {
		return nil, ConfigError("fs", "path")
	}
	return &fsStore{dir: dir, path: filepath.Join(dir, name)}, nil
}

// ContentVersion returns the version token of data.
func ContentVersion(data []byte) string {
	return gnuuid.New(string(data)).String()
}

func (s *fsStore) Driver() blob.Driver { return blob.DriverFS }

// HasCredential is always true, access to the directory is the credential.
func (s *fsStore) HasCredential() bool { return true }

func (s *fsStore) Check(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return RequestError("check directory", err)
	}
	if !info.IsDir() {
		return RequestError("check directory",
			fmt.Errorf("%s is not a directory", s.dir))
	}
	return nil
}

func (s *fsStore) Get(context.Context) (blob.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *fsStore) read() (blob.Object, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return blob.Object{}, blob.ErrNotExist
	}
	if err != nil {
		return blob.Object{}, RequestError("read file", err)
	}
	return blob.Object{Data: data, Version: ContentVersion(data)}, nil
}

func (s *fsStore) Put(
	_ context.Context,
	data []byte,
	opts blob.PutOptions,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := "write file"
	cur, err := s.read()
	switch {
	case errors.Is(err, blob.ErrNotExist):
	case err != nil:
		return "", err
	case cur.Version != opts.Version:
		return "", fmt.Errorf("%s: %w", op, blob.ErrConflict)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return "", RequestError(op, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".gncat-*")
	if err != nil {
		return "", RequestError(op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return "", RequestError(op, err)
	}
	if err = tmp.Close(); err != nil {
		return "", RequestError(op, err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return "", RequestError(op, err)
	}
	return ContentVersion(data), nil
}
