package store

import (
	"context"
	"strings"

	"github.com/gnames/gncat/pkg/groups"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/summary"
)

// AllFields makes a search term match any field.
const AllFields = "all"

// Criteria select records. All given conditions must hold.
type Criteria struct {
	// Term is a case-insensitive substring.
	Term string
	// Field limits Term to one field, empty or AllFields means any field.
	Field string
	// Filters are exact, case-insensitive matches of trimmed values.
	Filters map[string]string
}

// Match reports if the record satisfies the criteria.
func (c Criteria) Match(r record.Record) bool {
	for k, v := range c.Filters {
		got := strings.TrimSpace(r.Get(k).String())
		if !strings.EqualFold(got, strings.TrimSpace(v)) {
			return false
		}
	}

	term := strings.ToLower(strings.TrimSpace(c.Term))
	if term == "" {
		return true
	}
	if c.Field != "" && c.Field != AllFields {
		return strings.Contains(strings.ToLower(r.Get(c.Field).String()), term)
	}
	for _, f := range r.Fields() {
		if strings.Contains(strings.ToLower(f.Value.String()), term) {
			return true
		}
	}
	return false
}

// Search returns copies of matching records in list order.
func (s *Store) Search(c Criteria) []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]record.Record, 0)
	for _, r := range s.recs {
		if c.Match(r) {
			res = append(res, r.Clone())
		}
	}
	return res
}

// Recent returns the last n records, newest last.
func (s *Store) Recent(n int) []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return []record.Record{}
	}
	start := max(len(s.recs)-n, 0)
	return record.CloneAll(s.recs[start:])
}

// GetIncompleteRecords returns records with a blank tracked field.
func (s *Store) GetIncompleteRecords() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]record.Record, 0)
	for _, r := range s.recs {
		if !r.IsComplete() {
			res = append(res, r.Clone())
		}
	}
	return res
}

// GetUniqueValues returns sorted distinct non-blank values of a field.
func (s *Store) GetUniqueValues(field string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return summary.UniqueValues(s.recs, field)
}

// GetSummaryStats computes headline numbers of the list.
func (s *Store) GetSummaryStats() summary.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return summary.NewStats(s.recs)
}

// Dashboard computes every chart of the current list.
func (s *Store) Dashboard(
	ctx context.Context,
	tbl groups.Table,
	opts ...summary.Option,
) (summary.Dashboard, error) {
	return summary.BuildDashboard(ctx, s.GetAll(), tbl, opts...)
}

// Page is one page of a listing.
type Page struct {
	Records []record.Record `json:"records"`
	Page    int             `json:"page"`
	PerPage int             `json:"perPage"`
	Pages   int             `json:"pages"`
	Total   int             `json:"total"`
}

// Paginate cuts a page out of records. Pages start at 1, out of range
// pages are clamped.
func Paginate(recs []record.Record, page, perPage int) Page {
	if perPage <= 0 {
		perPage = 25
	}
	total := len(recs)
	pages := max((total+perPage-1)/perPage, 1)
	page = min(max(page, 1), pages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	res := Page{Page: page, PerPage: perPage, Pages: pages, Total: total}
	res.Records = recs[start:end]
	if res.Records == nil {
		res.Records = []record.Record{}
	}
	return res
}
