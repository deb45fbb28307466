// Package store keeps the specimen record list of a session in memory and
// mediates every read, mutation and persistence call.
//
// Every mutation is written to LocalStorage before it returns. When the
// storage mode is remote, the whole list is also pushed to the remote blob
// in the background. A remote failure never fails the mutation, it is
// logged, kept in LastSync and sent to the sync notifier.
package store

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/nameparse"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/standardize"
	"github.com/google/uuid"
)

// Source tells where the initial record list came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceDemo   Source = "demo"
	SourceEmpty  Source = "empty"
)

// InitOptions are parameters of Initialize.
type InitOptions struct {
	// UseRemote tries the remote blob before local storage.
	UseRemote bool
}

// InitResult is the outcome of Initialize.
type InitResult struct {
	Records []record.Record
	Source  Source
}

// Store is the in-memory record list with its persistence policy.
// It is safe for concurrent use, mutations are serialized.
type Store struct {
	mu   sync.RWMutex
	recs []record.Record
	mode config.StorageMode

	local    LocalStorage
	remote   *blob.Client
	demo     DemoSource
	std      standardize.Table
	filler   nameparse.Filler
	jobs     int
	notify   func(SyncEvent)
	progress func()
	log      *slog.Logger

	bg background
}

// New creates an empty Store over local storage. Call Initialize to load
// data.
func New(local LocalStorage, opts ...Option) *Store {
	res := &Store{
		recs:  []record.Record{},
		mode:  config.StorageLocal,
		local: local,
		std:   standardize.DefaultTable(),
		jobs:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(res)
	}
	session := uuid.NewString()
	res.log = slog.With("session", session)
	res.log.Debug("Record store created", "mode", res.mode)
	return res
}

// Initialize loads the record list. It tries, in order, the remote blob
// (when requested), local storage, the demo dataset, and finally settles on
// an empty list. It never fails, every problem is logged and the next
// source is tried.
func (s *Store) Initialize(ctx context.Context, opts InitOptions) InitResult {
	if opts.UseRemote {
		if recs, ok := s.initRemote(ctx); ok {
			return s.adopt(ctx, recs, SourceRemote, true)
		}
	}

	if recs, ok := s.loadLocal(ctx); ok {
		return s.adopt(ctx, recs, SourceLocal, false)
	}

	if s.demo != nil {
		recs, err := s.demo()
		if err == nil {
			return s.adopt(ctx, recs, SourceDemo, true)
		}
		s.log.Warn("Cannot load demo data", "error", err)
	}

	return s.adopt(ctx, []record.Record{}, SourceEmpty, false)
}

func (s *Store) initRemote(ctx context.Context) ([]record.Record, bool) {
	if s.remote == nil {
		s.log.Info("Remote storage is not configured")
		return nil, false
	}
	if !s.remote.HasCredential() {
		s.log.Info("Remote storage has no credential, using local data")
		return nil, false
	}
	if !s.remote.Init(ctx) {
		return nil, false
	}
	recs, err := s.remote.Read(ctx)
	if err != nil {
		s.log.Warn("Cannot read remote data, using local data", "error", err)
		s.record(SyncEvent{Operation: OpPull, Err: err})
		return nil, false
	}
	s.record(SyncEvent{Operation: OpPull, Records: len(recs)})

	// a remote file that does not exist yet does not replace local data
	if s.remote.Version() == "" && len(recs) == 0 {
		s.log.Info("Remote data file does not exist yet")
		return nil, false
	}
	return recs, true
}

func (s *Store) loadLocal(ctx context.Context) ([]record.Record, bool) {
	data, err := s.local.Load(ctx)
	if errors.Is(err, ErrNoData) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("Cannot read local storage", "error", err)
		return nil, false
	}
	recs, err := record.UnmarshalList(data)
	if err != nil {
		s.log.Warn("Local data is corrupted, ignoring it", "error", err)
		return nil, false
	}
	return recs, true
}

// adopt replaces the list and optionally caches it locally.
func (s *Store) adopt(
	ctx context.Context,
	recs []record.Record,
	src Source,
	save bool,
) InitResult {
	s.mu.Lock()
	s.recs = recs
	if save {
		if err := s.saveLocal(ctx); err != nil {
			s.log.Warn("Cannot cache data locally", "source", src, "error", err)
		}
	}
	res := InitResult{Records: record.CloneAll(s.recs), Source: src}
	s.mu.Unlock()

	s.log.Info("Records loaded", "source", src, "records", len(recs))
	return res
}

// GetAll returns a copy of the list.
func (s *Store) GetAll() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return record.CloneAll(s.recs)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// GetByCatalog finds a record by its trimmed Catalog #.
func (s *Store) GetByCatalog(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.find(id)
	if i < 0 {
		return record.Record{}, false
	}
	return s.recs[i].Clone(), true
}

// Add appends a record with a new Catalog #.
func (s *Store) Add(ctx context.Context, rec record.Record) error {
	id := rec.CatalogKey()
	if id == "" {
		return MissingCatalogError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(id) >= 0 {
		return DuplicateError(id)
	}
	s.recs = append(s.recs, rec.Clone())
	s.log.Info("Record added", "catalog", id)
	return s.persist(ctx)
}

// Update merges supplied fields into the record. A changed Catalog #
// must stay unique and non-blank.
func (s *Store) Update(ctx context.Context, id string, partial record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.merge(id, partial); err != nil {
		return err
	}
	s.log.Info("Record updated", "catalog", strings.TrimSpace(id))
	return s.persist(ctx)
}

// UpdateMany applies several updates and persists once. Updates with
// unknown or invalid ids are skipped and reported in a joined error.
func (s *Store) UpdateMany(
	ctx context.Context,
	updates map[string]record.Record,
) error {
	ids := make([]string, 0, len(updates))
	for id := range updates {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	var applied int
	for _, id := range ids {
		if err := s.merge(id, updates[id]); err != nil {
			errs = append(errs, err)
			continue
		}
		applied++
	}
	if applied > 0 {
		s.log.Info("Records updated", "count", applied)
		if err := s.persist(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// merge is called with the write lock held.
func (s *Store) merge(id string, partial record.Record) error {
	i := s.find(id)
	if i < 0 {
		return NotFoundError(strings.TrimSpace(id))
	}
	if partial.Has(record.Catalog) {
		newID := partial.CatalogKey()
		if newID == "" {
			return MissingCatalogError()
		}
		if j := s.find(newID); j >= 0 && j != i {
			return DuplicateError(newID)
		}
	}
	s.recs[i].Merge(partial)
	return nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return NotFoundError(strings.TrimSpace(id))
	}
	s.recs = append(s.recs[:i], s.recs[i+1:]...)
	s.log.Info("Record deleted", "catalog", strings.TrimSpace(id))
	return s.persist(ctx)
}

// SetStorageMode switches between local and remote persistence. The
// switch does not push anything by itself.
func (s *Store) SetStorageMode(m config.StorageMode) error {
	if !validMode(m) {
		return StorageModeError(string(m))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.log.Info("Storage mode changed", "mode", m)
	return nil
}

// GetStorageMode returns the current storage mode.
func (s *Store) GetStorageMode() config.StorageMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Close waits for background remote writes and releases local storage
// and the name filler.
func (s *Store) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("Closing before remote writes finished", "error", ctx.Err())
	}

	if s.filler != nil {
		s.filler.Close()
	}
	return s.local.Close()
}

// find returns the index of the record with the trimmed id or -1.
func (s *Store) find(id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range s.recs {
		if s.recs[i].CatalogKey() == id {
			return i
		}
	}
	return -1
}

// persist writes the list locally and schedules a remote write. It is
// called with the write lock held.
func (s *Store) persist(ctx context.Context) error {
	err := s.saveLocal(ctx)
	if err != nil {
		s.log.Error("Cannot save local storage", "error", err)
	}
	s.scheduleRemote(ctx, record.CloneAll(s.recs))
	return err
}

func (s *Store) saveLocal(ctx context.Context) error {
	data, err := record.MarshalList(s.recs)
	if err != nil {
		return PersistError(EncodeError(err))
	}
	if err = s.local.Save(ctx, data); err != nil {
		return PersistError(err)
	}
	return nil
}

func validMode(m config.StorageMode) bool {
	return m == config.StorageLocal || m == config.StorageRemote
}
