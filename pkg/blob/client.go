package blob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gnames/gncat/pkg/record"
)

// State of a Client.
type State int

const (
	// Uninitialized client cannot read or write.
	Uninitialized State = iota
	// Ready client can read. A write goes without a version token.
	Ready
	// ReadyWithToken client caches the version token of the remote file.
	ReadyWithToken
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case ReadyWithToken:
		return "ready-with-token"
	default:
		return "uninitialized"
	}
}

// Client reads and writes the record list through a Backend.
// It is safe for concurrent use.
type Client struct {
	mu       sync.Mutex
	backend  Backend
	state    State
	version  string
	lastSync time.Time
	now      func() time.Time
}

// NewClient creates an uninitialized client.
func NewClient(b Backend) *Client {
	return &Client{backend: b, now: time.Now}
}

// Init checks the credential and connectivity. It returns false on any
// failure and never panics.
func (c *Client) Init(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Uninitialized
	c.version = ""
	if c.backend == nil {
		return false
	}
	if !c.backend.HasCredential() {
		slog.Warn("Remote storage has no credential",
			"driver", c.backend.Driver())
		return false
	}
	if err := c.backend.Check(ctx); err != nil {
		slog.Warn("Remote storage connection test failed",
			"driver", c.backend.Driver(), "error", err)
		return false
	}
	c.state = Ready
	slog.Info("Remote storage initialized", "driver", c.backend.Driver())
	return true
}

// HasCredential is true when the backend has a credential.
func (c *Client) HasCredential() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend != nil && c.backend.HasCredential()
}

// Driver returns the backend driver.
func (c *Client) Driver() Driver {
	if c.backend == nil {
		return ""
	}
	return c.backend.Driver()
}

// Read fetches the record list. A missing remote file is an empty list.
func (c *Client) Read(ctx context.Context) ([]record.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Uninitialized {
		return nil, NotInitializedError()
	}

	obj, err := c.backend.Get(ctx)
	if errors.Is(err, ErrNotExist) {
		c.version = ""
		c.state = Ready
		c.lastSync = c.now()
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, ReadError(c.backend.Driver(), err)
	}

	res, err := record.UnmarshalList(obj.Data)
	if err != nil {
		return nil, DecodeError(c.backend.Driver(), err)
	}

	c.version = obj.Version
	c.state = ReadyWithToken
	if c.version == "" {
		c.state = Ready
	}
	c.lastSync = c.now()
	return res, nil
}

// Write replaces the remote list. A conflict matches ErrConflict.
// Any failure drops the cached token, so the next write without a read
// goes unversioned.
func (c *Client) Write(ctx context.Context, recs []record.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Uninitialized {
		return NotInitializedError()
	}

	data, err := record.MarshalList(recs)
	if err != nil {
		return EncodeError(err)
	}

	opts := PutOptions{
		Version: c.version,
		Message: CommitMessage(c.now()),
	}
	ver, err := c.backend.Put(ctx, data, opts)
	if err != nil {
		c.version = ""
		c.state = Ready
		if errors.Is(err, ErrConflict) {
			return ConflictError(c.backend.Driver(), err)
		}
		return WriteError(c.backend.Driver(), err)
	}

	c.version = ver
	c.state = ReadyWithToken
	if ver == "" {
		c.state = Ready
	}
	c.lastSync = c.now()
	return nil
}

// State returns the current state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Version returns the cached version token.
func (c *Client) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// LastSync returns the time of the last successful read or write.
func (c *Client) LastSync() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync
}

// CommitMessage describes a write made at the given time.
func CommitMessage(t time.Time) string {
	return fmt.Sprintf("Update inventory data [%s]", t.UTC().Format(time.RFC3339))
}
