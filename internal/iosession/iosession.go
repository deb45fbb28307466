// Package iosession keeps the remote credential for the current login
// session outside of durable configuration.
//
// The token lives in $XDG_RUNTIME_DIR/gncat/token, which is cleared by the
// system on logout. Without XDG_RUNTIME_DIR it goes to a per-user directory
// in the temporary directory. The file is readable only by its owner.
package iosession

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Holder stores one token in a file.
type Holder struct {
	path string
}

// New creates a holder at the default location.
func New() *Holder {
	return &Holder{path: DefaultPath()}
}

// NewAt creates a holder for an explicit file.
func NewAt(path string) *Holder {
	return &Holder{path: path}
}

// DefaultPath returns the session token location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "gncat", "token")
	}
	dir := fmt.Sprintf("gncat-%d", os.Getuid())
	return filepath.Join(os.TempDir(), dir, "token")
}

// Path returns the token file.
func (h *Holder) Path() string {
	return h.path
}

// Get returns the stored token, or an empty string when there is none.
func (h *Holder) Get() (string, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", TokenError("read", h.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Set saves the token, replacing a previous one.
func (h *Holder) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenError("save", h.path, errors.New("empty token"))
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err != nil {
		return TokenError("save", h.path, err)
	}
	if err := os.WriteFile(h.path, []byte(token), 0600); err != nil {
		return TokenError("save", h.path, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(h.path, 0600); err != nil {
		return TokenError("save", h.path, err)
	}
	return nil
}

// Clear removes the token. Clearing a missing token is not an error.
func (h *Holder) Clear() error {
	err := os.Remove(h.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return TokenError("remove", h.path, err)
	}
	return nil
}
