package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

// DirError is returned when a catalog directory cannot be created.
func DirError(dir string, err error) error {
	return newError(errcode.CreateDirError,
		"Cannot prepare catalog directory <em>%s</em>", dir,
		fmt.Errorf("mkdir %s: %w", dir, err))
}

// DefaultFileError is returned when a default config.yaml or groups.yaml
// cannot be installed.
func DefaultFileError(path string, err error) error {
	return newError(errcode.CopyFileError,
		"Cannot install default settings file <em>%s</em>", path,
		fmt.Errorf("write default %s: %w", path, err))
}

// DemoError is returned when the bundled demonstration records do not
// decode.
func DemoError(err error) error {
	return newError(errcode.ReadFileError,
		"Bundled demonstration records <em>%s</em> are unreadable", "demo.json",
		fmt.Errorf("decode demo records: %w", err))
}

func newError(code gn.ErrorCode, msg, subject string, err error) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{subject},
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
