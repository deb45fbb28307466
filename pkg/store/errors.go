package store

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

var (
	// ErrMissingCatalog means a record has a blank Catalog #.
	ErrMissingCatalog = errors.New("catalog number is empty")

	// ErrDuplicate means the Catalog # is already taken.
	ErrDuplicate = errors.New("duplicate catalog number")

	// ErrNotFound means no record has the Catalog #.
	ErrNotFound = errors.New("item not found")

	// ErrPersist means the change is kept in memory but local storage
	// could not be written.
	ErrPersist = errors.New("cannot persist data")
)

func MissingCatalogError() error {
	msg := "Record has no <em>Catalog #</em>"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return errcode.Mark(&gn.Error{
		Code: errcode.StoreMissingCatalogError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), ErrMissingCatalog),
	}, ErrMissingCatalog)
}

func DuplicateError(id string) error {
	msg := "Duplicate catalog number <em>%s</em>"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return errcode.Mark(&gn.Error{
		Code: errcode.StoreDuplicateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %q: %w", fn.Name(), id, ErrDuplicate),
	}, ErrDuplicate)
}

func NotFoundError(id string) error {
	msg := "Item <em>%s</em> not found"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return errcode.Mark(&gn.Error{
		Code: errcode.StoreNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %q: %w", fn.Name(), id, ErrNotFound),
	}, ErrNotFound)
}

func PersistError(err error) error {
	msg := "Change is kept in memory, but local storage could not be saved"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return errcode.Mark(&gn.Error{
		Code: errcode.StorePersistError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w: %w", fn.Name(), ErrPersist, err),
	}, ErrPersist)
}

func EncodeError(err error) error {
	msg := "Cannot serialize records"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreEncodeError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

func StorageModeError(mode string) error {
	msg := "Unknown storage mode <em>%s</em>, use 'local' or 'remote'"
	vars := []any{mode}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreModeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown storage mode %q", fn.Name(), mode),
	}
}

func ImportModeError(mode string) error {
	msg := "Unknown import mode <em>%s</em>, use 'append' or 'replace'"
	vars := []any{mode}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportModeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown import mode %q", fn.Name(), mode),
	}
}

func RemoteNotConfiguredError() error {
	msg := "Remote storage is not configured"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteConfigError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: no remote client", fn.Name()),
	}
}

func RemoteMissingError() error {
	msg := "Remote file does not exist yet, push records first"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteMissingError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: remote file is missing", fn.Name()),
	}
}
