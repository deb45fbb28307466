package iolocal

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

func OpenError(driver, location string, err error) error {
	msg := "Cannot open <em>%s</em> local storage at %s"
	vars := []any{driver, location}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LocalOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s storage %s: %w",
			fn.Name(), driver, location, err),
	}
}

func ConnectionError(host string, port int, database, user string, err error) error {
	msg := "Cannot connect to PostgreSQL database <em>%s</em> at %s:%d as %s"
	vars := []any{database, host, port, user}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LocalOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: connection failed: %w", fn.Name(), err),
	}
}

func LoadError(key string, err error) error {
	msg := "Cannot load <em>%s</em> from local storage"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LocalLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot load %s: %w", fn.Name(), key, err),
	}
}

func SaveError(key string, err error) error {
	msg := "Cannot save <em>%s</em> to local storage"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LocalSaveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot save %s: %w", fn.Name(), key, err),
	}
}

func NotConnectedError() error {
	msg := "Local storage is not open"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LocalNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: storage is closed", fn.Name()),
	}
}

func UnknownDriverError(driver string) error {
	msg := "Unknown local storage driver <em>%s</em>"
	vars := []any{driver}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LocalOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown driver %s", fn.Name(), driver),
	}
}
