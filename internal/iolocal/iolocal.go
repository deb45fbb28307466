// Package iolocal implements local persistent storage of the record
// list. This is an impure I/O package that implements the
// store.LocalStorage contract.
package iolocal

import (
	"context"

	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/store"
)

// New opens local storage selected by cfg.Local.Driver.
func New(ctx context.Context, cfg *config.Config) (store.LocalStorage, error) {
	key := cfg.Local.Key
	switch cfg.Local.Driver {
	case "sqlite", "":
		return NewSQLite(ctx, cfg.LocalPath(), key)
	case "file":
		return NewFile(cfg.LocalPath(), key)
	case "postgres":
		return NewPostgres(ctx, cfg.Local.Postgres, key)
	default:
		return nil, UnknownDriverError(cfg.Local.Driver)
	}
}
