package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/errcode"
)

// LogFileError is returned when the catalog log file cannot be opened.
// The message points to the stderr destination as a way out.
func LogFileError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg: "Cannot open log file <em>%s</em>, " +
			"set log.destination to stderr to run without it",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: open log %s: %w", fn.Name(), path, err),
	}
}
