package store

import (
	"context"
	"errors"
)

// ErrNoData is returned by LocalStorage.Load when nothing was saved yet.
var ErrNoData = errors.New("no saved data")

// LocalStorage keeps the serialized record list under one key on this
// machine. Implementations live in internal/iolocal.
type LocalStorage interface {
	// Load returns the saved payload or ErrNoData.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the payload.
	Save(ctx context.Context, data []byte) error

	// Close releases resources.
	Close() error
}
