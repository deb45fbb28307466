// Package nameparse fills blank Genus and Species of a record from a
// scientific name field using a pool of gnparser instances.
// This is a pure package - parsing is computation, not I/O.
package nameparse

import (
	"runtime"
	"strings"
	"sync"

	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// NameFields are the fields consulted for a scientific name, in order.
var NameFields = []string{"Scientific name", "scientific_name", "scientificName"}

// Filler completes taxonomic fields of records.
type Filler interface {
	// Fill sets blank Genus and Species from a scientific name field.
	// Non-blank values are never overwritten. It reports if the record
	// changed.
	Fill(rec *record.Record) bool

	// Close waits for running parses and shuts down the parser pool.
	// After Close, Fill leaves records unchanged.
	Close()
}

type filler struct {
	// mu is held for reading by every parse, and for writing by Close.
	mu       sync.RWMutex
	ch       chan gnparser.GNparser
	poolSize int
}

// New creates a Filler backed by a pool of zoological parsers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func New(jobsNum int) Filler {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	cfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
		gnparser.OptWithDetails(true),
	)

	return &filler{
		ch:       gnparser.NewPool(cfg, poolSize),
		poolSize: poolSize,
	}
}

func (f *filler) parse(name string) (parsed.Parsed, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.ch == nil {
		return parsed.Parsed{}, false
	}
	// blocks if all parsers are busy
	p := <-f.ch
	res := p.ParseName(name)
	f.ch <- p
	return res, true
}

func (f *filler) Fill(rec *record.Record) bool {
	needGenus := rec.Get(record.Genus).IsBlank()
	needSpecies := rec.Get(record.Species).IsBlank()
	if !needGenus && !needSpecies {
		return false
	}

	name := scientificName(*rec)
	if name == "" {
		return false
	}

	p, ok := f.parse(name)
	if !ok {
		return false
	}
	genus, epithet := Split(p)
	var changed bool
	if needGenus && genus != "" {
		rec.SetText(record.Genus, genus)
		changed = true
	}
	if needSpecies && epithet != "" {
		rec.SetText(record.Species, epithet)
		changed = true
	}
	return changed
}

func (f *filler) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ch != nil {
		close(f.ch)
		// Drain the channel
		for range f.ch {
		}
		f.ch = nil
	}
}

// Split returns the genus (or uninomial) and the specific epithet of a
// parsed name. Unparsed names give empty strings.
func Split(p parsed.Parsed) (genus, epithet string) {
	if !p.Parsed || p.Canonical == nil {
		return "", ""
	}
	words := strings.Fields(p.Canonical.Simple)
	if len(words) == 0 {
		return "", ""
	}
	genus = words[0]
	if p.Cardinality >= 2 && len(words) > 1 {
		epithet = words[1]
	}
	return genus, epithet
}

func scientificName(rec record.Record) string {
	for _, name := range NameFields {
		if v := rec.Get(name); !v.IsBlank() {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}
