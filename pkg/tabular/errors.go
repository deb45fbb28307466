package tabular

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

// ErrFormat is matched by errors about unsupported file formats.
var ErrFormat = errors.New("unsupported format")

func FormatError(name string) error {
	msg := "Unsupported file format <em>%s</em>, use CSV or Excel"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return errcode.Mark(&gn.Error{
		Code: errcode.ImportFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), name, ErrFormat),
	}, ErrFormat)
}

func ReadError(format Format, err error) error {
	msg := "Cannot read %s data"
	vars := []any{format}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode %s: %w", fn.Name(), format, err),
	}
}

func WriteError(format Format, err error) error {
	msg := "Cannot write %s data"
	vars := []any{format}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot encode %s: %w", fn.Name(), format, err),
	}
}
