package tabular

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/gnames/gncat/pkg/record"
	"github.com/xuri/excelize/v2"
)

// Encode writes records in the given format using Header(recs) as columns.
func Encode(recs []record.Record, f Format) ([]byte, error) {
	switch f {
	case CSV:
		return encodeCSV(recs)
	case XLSX:
		return encodeXLSX(recs)
	default:
		return nil, FormatError(f.String())
	}
}

func encodeCSV(recs []record.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := Header(recs)
	if err := w.Write(header); err != nil {
		return nil, WriteError(CSV, err)
	}
	line := make([]string, len(header))
	for _, r := range recs {
		for i, name := range header {
			line[i] = r.Get(name).String()
		}
		if err := w.Write(line); err != nil {
			return nil, WriteError(CSV, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, WriteError(CSV, err)
	}
	return buf.Bytes(), nil
}

func encodeXLSX(recs []record.Record) ([]byte, error) {
	xf := excelize.NewFile()
	defer xf.Close()

	first := xf.GetSheetName(0)
	if err := xf.SetSheetName(first, SheetName); err != nil {
		return nil, WriteError(XLSX, err)
	}

	header := Header(recs)
	hrow := make([]any, len(header))
	for i, h := range header {
		hrow[i] = h
	}
	if err := xf.SetSheetRow(SheetName, "A1", &hrow); err != nil {
		return nil, WriteError(XLSX, err)
	}

	for n, r := range recs {
		row := make([]any, len(header))
		for i, name := range header {
			row[i] = cell(r.Get(name))
		}
		addr, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return nil, WriteError(XLSX, err)
		}
		if err = xf.SetSheetRow(SheetName, addr, &row); err != nil {
			return nil, WriteError(XLSX, err)
		}
	}

	buf, err := xf.WriteToBuffer()
	if err != nil {
		return nil, WriteError(XLSX, err)
	}
	return buf.Bytes(), nil
}

func cell(v record.Value) any {
	if v.IsAbsent() {
		return nil
	}
	if v.IsNumber() {
		if i, err := strconv.Atoi(v.String()); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return f
		}
	}
	return v.String()
}
