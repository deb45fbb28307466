package ioserver

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

func ServeError(addr string, err error) error {
	msg := "Cannot serve HTTP API on <em>%s</em>"
	vars := []any{addr}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: listen %s: %w", fn.Name(), addr, err),
	}
}
