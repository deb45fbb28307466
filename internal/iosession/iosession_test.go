package iosession_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gncat/internal/iosession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHolder verifies set, get and clear of a token with owner-only
// permissions.
func TestHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gncat", "token")
	h := iosession.NewAt(path)

	tok, err := h.Get()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, h.Set("  ghp_secret\n"))
	tok, err = h.Get()
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", tok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, h.Set("ghp_other"))
	tok, _ = h.Get()
	assert.Equal(t, "ghp_other", tok)

	require.NoError(t, h.Clear())
	require.NoError(t, h.Clear())
	tok, err = h.Get()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

// TestHolderEmpty verifies an empty token is rejected.
func TestHolderEmpty(t *testing.T) {
	h := iosession.NewAt(filepath.Join(t.TempDir(), "token"))
	assert.Error(t, h.Set("   "))
}

// TestDefaultPath verifies XDG_RUNTIME_DIR is preferred.
func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/gncat/token", iosession.DefaultPath())

	t.Setenv("XDG_RUNTIME_DIR", "")
	path := iosession.DefaultPath()
	assert.Contains(t, path, os.TempDir())
	assert.Equal(t, "token", filepath.Base(path))
	assert.Equal(t, path, iosession.New().Path())
}
