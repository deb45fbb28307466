package cmd

import (
	"fmt"
	"strings"

	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/store"
)

// parseSet converts "Field=Value" pairs into a record. Fields keep the
// given order, "# of specimens" is numeric.
func parseSet(pairs []string) (record.Record, error) {
	fields := make([]record.Field, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return record.Record{}, fmt.Errorf("expected Field=Value, got %q", p)
		}
		val := record.Text(strings.TrimSpace(v))
		if k == record.Specimens {
			val = record.Number(v)
		}
		fields = append(fields, record.Field{Name: k, Value: val})
	}
	return record.New(fields...), nil
}

// parseFilters converts "Field=Value" pairs into exact-match filters.
func parseFilters(pairs []string) (map[string]string, error) {
	res := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected Field=Value, got %q", p)
		}
		res[k] = strings.TrimSpace(v)
	}
	return res, nil
}

// importMode decides the import mode from flags and the configured
// default.
func importMode(appendFlag, replaceFlag bool, def string) (store.ImportMode, error) {
	switch {
	case appendFlag && replaceFlag:
		return "", fmt.Errorf("use either --append or --replace")
	case appendFlag:
		return store.ImportAppend, nil
	case replaceFlag:
		return store.ImportReplace, nil
	default:
		return store.ParseImportMode(def)
	}
}
