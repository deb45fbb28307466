package store

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/tabular"
	"golang.org/x/sync/errgroup"
)

// ImportMode decides what happens to existing records on import.
type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
)

// ParseImportMode converts a string to ImportMode.
func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ImportAppend, ImportReplace:
		return m, nil
	default:
		return "", ImportModeError(s)
	}
}

// ImportResult summarizes an import.
type ImportResult struct {
	Mode ImportMode `json:"mode"`
	// Rows is the number of rows received.
	Rows int `json:"rows"`
	// Imported is the number of records added to the list.
	Imported int `json:"imported"`
	// Duplicates were skipped because their Catalog # was taken.
	Duplicates int `json:"duplicates"`
	// Filled records got Genus or Species from a scientific name.
	Filled int `json:"filled"`
	// Total is the size of the list after import.
	Total int `json:"total"`
}

// ImportFrom standardizes rows and appends them to the list or replaces
// the list with them. Rows keep their order. A row whose non-blank
// Catalog # is already taken is skipped. Persistence follows the same
// policy as other mutations.
func (s *Store) ImportFrom(
	ctx context.Context,
	rows []record.Row,
	mode ImportMode,
) (ImportResult, error) {
	res := ImportResult{Mode: mode, Rows: len(rows)}
	if mode != ImportAppend && mode != ImportReplace {
		return res, ImportModeError(string(mode))
	}

	recs, filled, err := s.standardize(ctx, rows)
	if err != nil {
		return res, err
	}
	res.Filled = filled

	s.mu.Lock()
	defer s.mu.Unlock()

	var list []record.Record
	if mode == ImportAppend {
		list = s.recs
	}
	seen := make(map[string]struct{}, len(list)+len(recs))
	for _, r := range list {
		if id := r.CatalogKey(); id != "" {
			seen[id] = struct{}{}
		}
	}
	for _, r := range recs {
		if id := r.CatalogKey(); id != "" {
			if _, ok := seen[id]; ok {
				res.Duplicates++
				continue
			}
			seen[id] = struct{}{}
		}
		list = append(list, r)
		res.Imported++
	}
	if list == nil {
		list = []record.Record{}
	}
	s.recs = list
	res.Total = len(list)

	s.log.Info("Records imported",
		"mode", mode, "rows", res.Rows, "imported", res.Imported,
		"duplicates", res.Duplicates, "filled", res.Filled)
	return res, s.persist(ctx)
}

// standardize converts rows to records in parallel, keeping order.
func (s *Store) standardize(
	ctx context.Context,
	rows []record.Row,
) ([]record.Record, int, error) {
	res := make([]record.Record, len(rows))
	var filled atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := s.std.Record(rows[i])
			if s.filler != nil && s.filler.Fill(&rec) {
				filled.Add(1)
			}
			res[i] = rec
			if s.progress != nil {
				s.progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return res, int(filled.Load()), nil
}

// ExportSnapshot serializes the current list.
func (s *Store) ExportSnapshot(f tabular.Format) ([]byte, error) {
	return tabular.Encode(s.GetAll(), f)
}
