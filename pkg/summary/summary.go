// Package summary reduces record lists to counts and distributions used by
// the stats, charts and dashboard views. All functions are pure and safe to
// call concurrently on the same slice.
package summary

import (
	"math"
	"sort"
	"strings"

	"github.com/gnames/gncat/pkg/groups"
	"github.com/gnames/gncat/pkg/record"
)

const (
	// Unknown labels records with a blank key.
	Unknown = "Unknown"

	// Other labels the collapsed tail of a distribution.
	Other = "Other"
)

// Bucket is one slice of a distribution.
type Bucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution is a list of buckets with the number of counted records.
type Distribution struct {
	Total   int      `json:"total"`
	Buckets []Bucket `json:"buckets"`
}

// KeyFunc extracts a grouping key from a record.
type KeyFunc func(record.Record) string

type options struct {
	topN       int
	otherLabel string
}

// Option changes how a distribution is built.
type Option func(*options)

// OptTopN keeps n largest buckets and collapses the rest into one bucket.
// Zero or negative n keeps everything.
func OptTopN(n int) Option {
	return func(o *options) {
		o.topN = n
	}
}

// OptOtherLabel sets the label of the collapsed bucket.
func OptOtherLabel(s string) Option {
	return func(o *options) {
		if s = strings.TrimSpace(s); s != "" {
			o.otherLabel = s
		}
	}
}

// FieldKey returns a KeyFunc reading the trimmed text of a field.
func FieldKey(field string) KeyFunc {
	return func(r record.Record) string {
		return strings.TrimSpace(r.Get(field).String())
	}
}

// Count groups records by key. Blank keys go to the Unknown bucket.
// Buckets are sorted by count descending, then by label.
func Count(recs []record.Record, key KeyFunc, opts ...Option) Distribution {
	o := options{otherLabel: Other}
	for _, opt := range opts {
		opt(&o)
	}

	counts := make(map[string]int)
	for _, r := range recs {
		k := key(r)
		if k == "" {
			k = Unknown
		}
		counts[k]++
	}

	buckets := toBuckets(counts)
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})

	if o.topN > 0 && len(buckets) > o.topN {
		var rest int
		for _, b := range buckets[o.topN:] {
			rest += b.Count
		}
		buckets = append(buckets[:o.topN], Bucket{Label: o.otherLabel, Count: rest})
	}

	return newDistribution(len(recs), buckets)
}

// ByField counts records by the value of a field.
func ByField(recs []record.Record, field string, opts ...Option) Distribution {
	return Count(recs, FieldKey(field), opts...)
}

// ByGroup counts records by the taxonomic group of their Order.
func ByGroup(recs []record.Record, tbl groups.Table) Distribution {
	return Count(recs, func(r record.Record) string {
		return tbl.GroupOf(r.Get(record.Order).String())
	})
}

// MissingGeo returns the number of records with neither Country nor
// State/Province.
func MissingGeo(recs []record.Record) int {
	var res int
	for _, r := range recs {
		if r.Get(record.Country).IsBlank() && r.Get(record.StateProvince).IsBlank() {
			res++
		}
	}
	return res
}

// UniqueValues returns sorted distinct non-blank values of a field.
func UniqueValues(recs []record.Record, field string) []string {
	seen := make(map[string]struct{})
	res := make([]string, 0)
	for _, r := range recs {
		v := strings.TrimSpace(r.Get(field).String())
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	sort.Strings(res)
	return res
}

func toBuckets(counts map[string]int) []Bucket {
	res := make([]Bucket, 0, len(counts))
	for k, v := range counts {
		res = append(res, Bucket{Label: k, Count: v})
	}
	return res
}

func newDistribution(total int, buckets []Bucket) Distribution {
	for i := range buckets {
		buckets[i].Percent = percent(buckets[i].Count, total)
	}
	return Distribution{Total: total, Buckets: buckets}
}

// percent rounds to one decimal.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*1000/float64(total)) / 10
}
