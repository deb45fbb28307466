package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

// Marked is a user-facing gn.Error that also matches a sentinel error,
// so callers can use errors.Is while the CLI still prints the message.
type Marked struct {
	GN       *gn.Error
	Sentinel error
}

// Mark attaches a sentinel to a gn.Error.
func Mark(err *gn.Error, sentinel error) error {
	return &Marked{GN: err, Sentinel: sentinel}
}

func (m *Marked) Error() string {
	if m.GN.Err != nil {
		return m.GN.Err.Error()
	}
	return m.Sentinel.Error()
}

// Is reports whether target is the attached sentinel.
func (m *Marked) Is(target error) bool {
	return target == m.Sentinel
}

// Unwrap exposes the gn.Error and its cause.
func (m *Marked) Unwrap() []error {
	res := []error{m.GN}
	if m.GN.Err != nil {
		res = append(res, m.GN.Err)
	}
	return res
}

// GNError finds a user-facing gn.Error in the chain of err.
func GNError(err error) (*gn.Error, bool) {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr, true
	}
	return nil, false
}
