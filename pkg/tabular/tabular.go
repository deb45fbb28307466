// Package tabular reads spreadsheet rows from CSV and Excel files and
// writes records back to them.
//
// Decoding produces raw rows with the original column names; mapping of
// the names to canonical fields is done by the standardize package.
package tabular

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnames/gncat/pkg/record"
)

// Format of a spreadsheet file.
type Format int

const (
	UnknownFormat Format = iota
	CSV
	XLSX
)

// String returns the file extension of the format.
func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case XLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name ("csv", "xlsx", "excel") into Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "xlsx", "xls", "xlsm", "excel":
		return XLSX, nil
	default:
		return UnknownFormat, FormatError(s)
	}
}

// FormatFromName detects the format from the file extension.
func FormatFromName(name string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch {
	case ext == "csv":
		return CSV, nil
	case strings.HasPrefix(ext, "xls"):
		return XLSX, nil
	default:
		return UnknownFormat, FormatError(name)
	}
}

// SheetName is the name of the worksheet in exported Excel files.
const SheetName = "Inventory"

// ExportFileName returns the dated name of an export file.
func ExportFileName(f Format, t time.Time) string {
	return fmt.Sprintf("gncat_inventory_%s.%s", t.Format("2006-01-02"), f)
}

// Header returns columns for the records: canonical fields present in any
// record in canonical order, then other fields in first-seen order.
func Header(recs []record.Record) []string {
	present := make(map[string]struct{})
	var extra []string
	for _, r := range recs {
		for _, f := range r.Fields() {
			if _, ok := present[f.Name]; ok {
				continue
			}
			present[f.Name] = struct{}{}
			if !record.IsCanonical(f.Name) {
				extra = append(extra, f.Name)
			}
		}
	}

	var res []string
	for _, name := range record.CanonicalFields {
		if _, ok := present[name]; ok {
			res = append(res, name)
		}
	}
	return append(res, extra...)
}
