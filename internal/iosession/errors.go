package iosession

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

func TokenError(op, path string, err error) error {
	msg := "Cannot %s session token at <em>%s</em>"
	vars := []any{op, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SessionTokenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s token %s: %w", fn.Name(), op, path, err),
	}
}
