// Package blob keeps the whole record list in a single remote file.
//
// A Backend talks to a concrete storage (a GitHub repository file, an S3
// object, a file on a shared directory, or memory). Client wraps a Backend
// with an optimistic version token: the token returned by the last read or
// write is sent with the next write, so a backend that supports it can
// refuse overwriting a file that changed in between.
package blob

import (
	"context"
	"errors"
)

// Driver identifies a concrete backend implementation.
type Driver string

const (
	// DriverGitHub stores the list as a file in a GitHub repository.
	DriverGitHub Driver = "github"
	// DriverS3 stores the list as an S3 / MinIO object.
	DriverS3 Driver = "s3"
	// DriverFS stores the list as a file on a shared directory.
	DriverFS Driver = "fs"
	// DriverMemory keeps the list in memory (tests, dry runs).
	DriverMemory Driver = "memory"
)

var (
	// ErrNotExist is returned by Backend.Get when the remote file is missing.
	ErrNotExist = errors.New("remote file does not exist")

	// ErrConflict is returned when the remote file changed since the
	// version token was obtained.
	ErrConflict = errors.New("remote changed since last read")

	// ErrNotInitialized is returned by Client when Init did not succeed.
	ErrNotInitialized = errors.New("remote storage is not initialized")
)

// Object is the content of the remote file and its version token.
type Object struct {
	Data    []byte
	Version string
}

// PutOptions are parameters of a write.
type PutOptions struct {
	// Version is the token of the last known content. Empty means the
	// file is expected to be absent or the backend does not check.
	Version string
	// Message describes the change (a commit message for GitHub).
	Message string
}

// Backend is the minimal contract of a remote blob.
type Backend interface {
	// Check verifies that the remote location is reachable with the
	// current credential.
	Check(ctx context.Context) error

	// Get reads the file. Missing files give ErrNotExist.
	Get(ctx context.Context) (Object, error)

	// Put replaces the file and returns the new version token.
	Put(ctx context.Context, data []byte, opts PutOptions) (string, error)

	// Driver names the implementation.
	Driver() Driver

	// HasCredential is true when a credential is configured.
	HasCredential() bool
}
