package summary

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/gnames/gncat/pkg/record"
	"github.com/xuri/excelize/v2"
)

var yearRe = regexp.MustCompile(`\b(1[5-9]\d{2}|2\d{3})\b`)

// Year extracts the collection year from a date value. Plain four-digit
// numbers are years, larger numbers are Excel date serials, text goes
// through dateparse with a fallback to the first four-digit year found.
func Year(v record.Value) (int, bool) {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return 0, false
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil && v.IsNumber() {
		if n == float64(int(n)) && validYear(int(n)) {
			return int(n), true
		}
		if n > 0 && n < 1000 || n > 9999 {
			t, err := excelize.ExcelDateToTime(n, false)
			if err == nil {
				return t.Year(), true
			}
		}
		return 0, false
	}

	if len(s) == 4 {
		if n, err := strconv.Atoi(s); err == nil {
			if !validYear(n) {
				return 0, false
			}
			return n, true
		}
	}

	if t, err := dateparse.ParseAny(s); err == nil && validYear(t.Year()) {
		return t.Year(), true
	}

	if m := yearRe.FindString(s); m != "" {
		n, _ := strconv.Atoi(m)
		return n, true
	}
	return 0, false
}

// validYear accepts four-digit years.
func validYear(y int) bool {
	return y >= 1000 && y <= 9999
}

// ByYear counts records by the year of Date collected. Records without a
// recognizable date are skipped, buckets are sorted by year.
func ByYear(recs []record.Record) Distribution {
	counts := make(map[int]int)
	var total int
	for _, r := range recs {
		y, ok := Year(r.Get(record.DateCollected))
		if !ok {
			continue
		}
		counts[y]++
		total++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	buckets := make([]Bucket, len(years))
	for i, y := range years {
		buckets[i] = Bucket{Label: strconv.Itoa(y), Count: counts[y]}
	}
	return newDistribution(total, buckets)
}
