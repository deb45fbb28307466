package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gnlib"
	"github.com/xuri/excelize/v2"
)

// DecodeFile reads rows from a CSV or Excel file.
func DecodeFile(path string) ([]record.Row, error) {
	f, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, ReadError(f, err)
	}
	defer fh.Close()
	return Decode(fh, f)
}

// Decode reads rows of the given format. The first row is the header,
// rows without any value are skipped.
func Decode(r io.Reader, f Format) ([]record.Row, error) {
	switch f {
	case CSV:
		return decodeCSV(r)
	case XLSX:
		return decodeXLSX(r)
	default:
		return nil, FormatError(f.String())
	}
}

func decodeCSV(r io.Reader) ([]record.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []record.Row{}, nil
	}
	if err != nil {
		return nil, ReadError(CSV, err)
	}
	header = cleanHeader(header)

	res := []record.Row{}
	for {
		line, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ReadError(CSV, err)
		}
		var row record.Row
		var hasValue bool
		for i, name := range header {
			if name == "" {
				continue
			}
			var s string
			if i < len(line) {
				s = cleanValue(line[i])
			}
			if s != "" {
				hasValue = true
			}
			row = append(row, record.Field{Name: name, Value: record.Text(s)})
		}
		if hasValue {
			res = append(res, row)
		}
	}
	return res, nil
}

func decodeXLSX(r io.Reader) ([]record.Row, error) {
	xf, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ReadError(XLSX, err)
	}
	defer xf.Close()

	sheets := xf.GetSheetList()
	if len(sheets) == 0 {
		return []record.Row{}, nil
	}
	sheet := sheets[0]

	lines, err := xf.GetRows(sheet)
	if err != nil {
		return nil, ReadError(XLSX, err)
	}
	if len(lines) == 0 {
		return []record.Row{}, nil
	}
	header := cleanHeader(lines[0])

	res := []record.Row{}
	for ln, line := range lines[1:] {
		var row record.Row
		for i, name := range header {
			if name == "" || i >= len(line) {
				continue
			}
			s := cleanValue(line[i])
			if s == "" {
				continue
			}
			row = append(row, record.Field{
				Name:  name,
				Value: cellValue(xf, sheet, i+1, ln+2, s),
			})
		}
		if len(row) > 0 {
			res = append(res, row)
		}
	}
	return res, nil
}

// cellValue keeps numeric cells as numbers when the shown text is a number.
func cellValue(xf *excelize.File, sheet string, col, row int, s string) record.Value {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return record.Text(s)
	}
	tp, err := xf.GetCellType(sheet, cell)
	// numeric cells are stored without a type or with "n"
	if err != nil || (tp != excelize.CellTypeNumber && tp != excelize.CellTypeUnset) {
		return record.Text(s)
	}
	if _, err = strconv.ParseFloat(s, 64); err != nil {
		return record.Text(s)
	}
	return record.Number(s)
}

func cleanHeader(header []string) []string {
	res := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		res[i] = cleanValue(h)
	}
	return res
}

func cleanValue(s string) string {
	return strings.TrimSpace(gnlib.FixUtf8(s))
}

// DecodeBytes is a convenience wrapper around Decode.
func DecodeBytes(data []byte, f Format) ([]record.Row, error) {
	return Decode(bytes.NewReader(data), f)
}
