package iogroups

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

func GroupsConfigError(path string, err error) error {
	msg := "Cannot load taxonomic groups from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.GroupsConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: groups file %s: %w", fn.Name(), path, err),
	}
}
