package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gnames/gnfmt"
)

// MarshalJSON encodes the record as a flat JSON object in Fields() order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object keeping the key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	row, err := DecodeRow(data)
	if err != nil {
		return err
	}
	*r = FromRow(row)
	return nil
}

// DecodeRow decodes a JSON object into an ordered Row.
func DecodeRow(data []byte) (Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	var res Row
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return nil, err
		}
		res = append(res, Field{Name: key, Value: fromRaw(raw)})
	}
	if _, err = dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return res, nil
}

// MarshalList encodes records as a pretty-printed JSON array.
func MarshalList(recs []Record) ([]byte, error) {
	if recs == nil {
		recs = []Record{}
	}
	enc := gnfmt.GNjson{Pretty: true}
	return enc.Encode(recs)
}

// UnmarshalList decodes a JSON array of records. An empty payload is an
// empty list.
func UnmarshalList(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}
	var res []Record
	enc := gnfmt.GNjson{}
	if err := enc.Decode(data, &res); err != nil {
		return nil, err
	}
	if res == nil {
		res = []Record{}
	}
	return res, nil
}
