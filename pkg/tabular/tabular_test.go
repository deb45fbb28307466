package tabular_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormat verifies format detection from names and extensions.
func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		res  tabular.Format
		err  bool
	}{
		{"data.csv", tabular.CSV, false},
		{"DATA.CSV", tabular.CSV, false},
		{"book.xlsx", tabular.XLSX, false},
		{"book.xls", tabular.XLSX, false},
		{"book.xlsm", tabular.XLSX, false},
		{"notes.txt", tabular.UnknownFormat, true},
	}
	for _, v := range tests {
		res, err := tabular.FormatFromName(v.name)
		assert.Equal(t, v.res, res, v.name)
		if v.err {
			assert.True(t, errors.Is(err, tabular.ErrFormat), v.name)
		} else {
			assert.NoError(t, err, v.name)
		}
	}

	f, err := tabular.ParseFormat("Excel")
	require.NoError(t, err)
	assert.Equal(t, tabular.XLSX, f)
	_, err = tabular.ParseFormat("pdf")
	assert.Error(t, err)
}

// TestExportFileName verifies the dated export name.
func TestExportFileName(t *testing.T) {
	day := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "gncat_inventory_2024-03-09.xlsx",
		tabular.ExportFileName(tabular.XLSX, day))
	assert.Equal(t, "gncat_inventory_2024-03-09.csv",
		tabular.ExportFileName(tabular.CSV, day))
}

// TestDecodeCSV verifies header handling, quoting, trimming and blank lines.
func TestDecodeCSV(t *testing.T) {
	data := "\ufeffcatalog, species ,notes\n" +
		"M-1,lupus,\"a, b\"\n" +
		"\n" +
		",,\n" +
		"  M-2 ,familiaris\n"

	rows, err := tabular.Decode(strings.NewReader(data), tabular.CSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	v, ok := rows[0].Get("catalog")
	assert.True(t, ok)
	assert.Equal(t, "M-1", v.String())
	v, _ = rows[0].Get("notes")
	assert.Equal(t, "a, b", v.String())
	v, _ = rows[1].Get("catalog")
	assert.Equal(t, "M-2", v.String())
	v, ok = rows[1].Get("species")
	assert.True(t, ok)
	assert.Equal(t, "familiaris", v.String())
	v, ok = rows[1].Get("notes")
	assert.True(t, ok)
	assert.True(t, v.IsBlank())

	rows, err = tabular.Decode(strings.NewReader(""), tabular.CSV)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// TestHeader verifies column order of exports.
func TestHeader(t *testing.T) {
	recs := []record.Record{
		record.New(
			record.Field{Name: "Notes", Value: record.Text("x")},
			record.Field{Name: record.Species, Value: record.Text("lupus")},
		),
		record.New(
			record.Field{Name: "Class", Value: record.Text("Mammalia")},
			record.Field{Name: record.Catalog, Value: record.Text("M-2")},
		),
	}
	assert.Equal(t,
		[]string{record.Catalog, record.Species, "Notes", "Class"},
		tabular.Header(recs))
}

func sample() []record.Record {
	return []record.Record{
		record.New(
			record.Field{Name: record.Catalog, Value: record.Text("M-1")},
			record.Field{Name: record.Species, Value: record.Text("lupus")},
			record.Field{Name: record.Specimens, Value: record.Int(3)},
			record.Field{Name: "Notes", Value: record.Text("skull, jaw")},
		),
		record.New(
			record.Field{Name: record.Catalog, Value: record.Text("M-2")},
			record.Field{Name: record.Country, Value: record.Text("USA")},
		),
	}
}

// TestRoundTrip verifies export followed by import keeps the data.
func TestRoundTrip(t *testing.T) {
	for _, f := range []tabular.Format{tabular.CSV, tabular.XLSX} {
		t.Run(f.String(), func(t *testing.T) {
			recs := sample()
			bs, err := tabular.Encode(recs, f)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), tabular.ExportFileName(f, time.Now()))
			require.NoError(t, os.WriteFile(path, bs, 0644))

			rows, err := tabular.DecodeFile(path)
			require.NoError(t, err)
			require.Len(t, rows, 2)

			for i, row := range rows {
				for _, fld := range recs[i].Fields() {
					v, ok := row.Get(fld.Name)
					assert.True(t, ok, fld.Name)
					assert.Equal(t, fld.Value.String(), v.String(), fld.Name)
				}
			}
			if f == tabular.XLSX {
				v, _ := rows[0].Get(record.Specimens)
				assert.True(t, v.IsNumber())
				_, ok := rows[1].Get(record.Species)
				assert.False(t, ok, "empty cells are absent")
			}
		})
	}
}

// TestDecodeBadExcel verifies a read error for broken workbooks.
func TestDecodeBadExcel(t *testing.T) {
	_, err := tabular.DecodeBytes([]byte("not a zip"), tabular.XLSX)
	assert.Error(t, err)
}
