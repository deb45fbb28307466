package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/record"
)

// Operation names of sync events.
const (
	OpPush = "push"
	OpPull = "pull"
)

// SyncEvent describes the outcome of a remote read or write.
type SyncEvent struct {
	Time      time.Time `json:"time"`
	Operation string    `json:"operation"`
	Records   int       `json:"records"`
	Conflict  bool      `json:"conflict,omitempty"`
	Error     string    `json:"error,omitempty"`

	// Err is the original error, nil on success.
	Err error `json:"-"`
}

// OK is true for a successful sync.
func (e SyncEvent) OK() bool {
	return e.Err == nil
}

// background tracks remote writes running after mutations.
type background struct {
	wg sync.WaitGroup

	// writeMu serializes remote writes.
	writeMu sync.Mutex
	// seq numbers scheduled snapshots.
	seq atomic.Uint64
	// attempted is the newest snapshot sent, guarded by writeMu.
	attempted uint64

	evMu sync.Mutex
	last SyncEvent
}

// scheduleRemote pushes a snapshot in the background when the storage
// mode is remote and the client has a credential. Called with the write
// lock held.
func (s *Store) scheduleRemote(ctx context.Context, snapshot []record.Record) {
	if s.mode != config.StorageRemote || s.remote == nil {
		return
	}
	if !s.remote.HasCredential() {
		s.log.Debug("Remote write skipped, no credential")
		return
	}

	seq := s.bg.seq.Add(1)
	ctx = context.WithoutCancel(ctx)
	s.bg.wg.Add(1)
	go func() {
		defer s.bg.wg.Done()
		s.bg.writeMu.Lock()
		defer s.bg.writeMu.Unlock()

		// a newer snapshot was already sent
		if seq <= s.bg.attempted {
			s.log.Debug("Stale snapshot skipped", "seq", seq)
			return
		}
		s.bg.attempted = seq
		s.writeRemote(ctx, snapshot)
	}()
}

// writeRemote is called with writeMu held.
func (s *Store) writeRemote(ctx context.Context, recs []record.Record) error {
	if s.remote.State() == blob.Uninitialized && !s.remote.Init(ctx) {
		err := blob.NotInitializedError()
		s.record(SyncEvent{Operation: OpPush, Records: len(recs), Err: err})
		return err
	}

	err := s.remote.Write(ctx, recs)
	s.record(SyncEvent{Operation: OpPush, Records: len(recs), Err: err})
	return err
}

// Wait blocks until background remote writes finish.
func (s *Store) Wait() {
	s.bg.wg.Wait()
}

// LastSync returns the latest remote read or write outcome.
func (s *Store) LastSync() SyncEvent {
	s.bg.evMu.Lock()
	defer s.bg.evMu.Unlock()
	return s.bg.last
}

func (s *Store) record(ev SyncEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	if ev.Err != nil {
		ev.Error = ev.Err.Error()
		ev.Conflict = errors.Is(ev.Err, blob.ErrConflict)
		s.log.Warn("Remote sync failed",
			"operation", ev.Operation, "conflict", ev.Conflict, "error", ev.Err)
	} else {
		s.log.Info("Remote sync done",
			"operation", ev.Operation, "records", ev.Records)
	}

	s.bg.evMu.Lock()
	s.bg.last = ev
	s.bg.evMu.Unlock()

	if s.notify != nil {
		s.notify(ev)
	}
}

// PullRemote replaces the list with the remote one and caches it
// locally. Pending background writes finish first.
func (s *Store) PullRemote(ctx context.Context) error {
	if s.remote == nil {
		return RemoteNotConfiguredError()
	}
	s.Wait()

	s.bg.writeMu.Lock()
	defer s.bg.writeMu.Unlock()

	if s.remote.State() == blob.Uninitialized && !s.remote.Init(ctx) {
		err := blob.NotInitializedError()
		s.record(SyncEvent{Operation: OpPull, Err: err})
		return err
	}
	recs, err := s.remote.Read(ctx)
	if err == nil && s.remote.Version() == "" && len(recs) == 0 {
		err = RemoteMissingError()
	}
	s.record(SyncEvent{Operation: OpPull, Records: len(recs), Err: err})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = recs
	return s.saveLocal(ctx)
}

// PushRemote writes the current list to the remote blob and returns the
// remote error. Without a cached version token the remote is read first,
// so an explicit push replaces whatever is there.
func (s *Store) PushRemote(ctx context.Context) error {
	if s.remote == nil {
		return RemoteNotConfiguredError()
	}
	s.Wait()

	s.bg.writeMu.Lock()
	defer s.bg.writeMu.Unlock()
	// older scheduled snapshots must not land after this one
	s.bg.attempted = s.bg.seq.Add(1)

	if s.remote.State() == blob.Uninitialized && !s.remote.Init(ctx) {
		err := blob.NotInitializedError()
		s.record(SyncEvent{Operation: OpPush, Err: err})
		return err
	}
	if s.remote.Version() == "" {
		if _, err := s.remote.Read(ctx); err != nil {
			s.record(SyncEvent{Operation: OpPush, Err: err})
			return err
		}
	}

	return s.writeRemote(ctx, s.GetAll())
}
