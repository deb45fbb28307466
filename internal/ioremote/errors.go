package ioremote

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

func ConfigError(driver, field string) error {
	msg := "Remote driver <em>%s</em> needs <em>%s</em> setting"
	vars := []any{driver, field}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteConfigError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: driver %s misses %s",
			fn.Name(), driver, field),
	}
}

func UnknownDriverError(driver string) error {
	msg := "Unknown remote driver <em>%s</em>"
	vars := []any{driver}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown driver %s", fn.Name(), driver),
	}
}

func RequestError(op string, err error) error {
	msg := "Remote request <em>%s</em> failed"
	vars := []any{op}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), op, err),
	}
}

func StatusError(op string, status int) error {
	msg := "Remote request <em>%s</em> returned status %d"
	vars := []any{op, status}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: status %d", fn.Name(), op, status),
	}
}

func DecodeError(op string, err error) error {
	msg := "Cannot decode response of <em>%s</em>"
	vars := []any{op}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RemoteDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), op, err),
	}
}
