package store

import (
	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/nameparse"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/standardize"
)

// DemoSource provides the bundled demonstration dataset.
type DemoSource func() ([]record.Record, error)

// Option configures a Store.
type Option func(*Store)

// OptRemote sets the remote blob client.
func OptRemote(c *blob.Client) Option {
	return func(s *Store) {
		s.remote = c
	}
}

// OptMode sets the initial storage mode. Invalid modes are ignored.
func OptMode(m config.StorageMode) Option {
	return func(s *Store) {
		if validMode(m) {
			s.mode = m
		}
	}
}

// OptDemo sets the source of the demonstration dataset.
func OptDemo(d DemoSource) Option {
	return func(s *Store) {
		s.demo = d
	}
}

// OptStandardizer replaces the default alias table used on import.
func OptStandardizer(t standardize.Table) Option {
	return func(s *Store) {
		if len(t) > 0 {
			s.std = t
		}
	}
}

// OptNameFiller enables filling Genus and Species from scientific names
// on import. The Store closes the filler in Close.
func OptNameFiller(f nameparse.Filler) Option {
	return func(s *Store) {
		s.filler = f
	}
}

// OptJobsNumber sets the number of import workers.
func OptJobsNumber(i int) Option {
	return func(s *Store) {
		if i > 0 {
			s.jobs = i
		}
	}
}

// OptSyncNotifier receives the outcome of every remote write and pull.
// It is called from background goroutines.
func OptSyncNotifier(f func(SyncEvent)) Option {
	return func(s *Store) {
		s.notify = f
	}
}

// OptProgress is called once for every standardized row during import.
// It is called from worker goroutines.
func OptProgress(f func()) Option {
	return func(s *Store) {
		s.progress = f
	}
}
