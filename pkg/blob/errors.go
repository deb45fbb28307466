package blob

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

func NotInitializedError() error {
	msg := "Remote storage is not initialized, check settings and credential"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return errcode.Mark(&gn.Error{
		Code: errcode.RemoteNotInitializedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), ErrNotInitialized),
	}, ErrNotInitialized)
}

func ReadError(d Driver, err error) error {
	msg := "Cannot read data from <em>%s</em> remote storage"
	vars := []any{d}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read remote file: %w", fn.Name(), err),
	}
}

func DecodeError(d Driver, err error) error {
	msg := "Data in <em>%s</em> remote storage is not a valid record list"
	vars := []any{d}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode remote file: %w", fn.Name(), err),
	}
}

func EncodeError(err error) error {
	msg := "Cannot encode records for remote storage"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreEncodeError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot encode records: %w", fn.Name(), err),
	}
}

func WriteError(d Driver, err error) error {
	msg := "Cannot save data to <em>%s</em> remote storage"
	vars := []any{d}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write remote file: %w", fn.Name(), err),
	}
}

func ConflictError(d Driver, err error) error {
	msg := "Data in <em>%s</em> remote storage changed since last read, " +
		"pull it first"
	vars := []any{d}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return errcode.Mark(&gn.Error{
		Code: errcode.RemoteConflictError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}, ErrConflict)
}
