package record

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

type kind uint8

const (
	absent kind = iota
	text
	number
)

// Value is a scalar cell of a record. The zero Value is absent.
type Value struct {
	kind kind
	s    string
}

// Text creates a textual Value. Empty strings are kept as empty text.
func Text(s string) Value {
	return Value{kind: text, s: s}
}

// Number creates a numeric Value from its textual representation.
// If s is not a valid JSON number ("05", "+3", ".5", "NaN"), a text
// Value is returned instead.
func Number(s string) Value {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseFloat(s, 64); err != nil || !json.Valid([]byte(s)) {
		return Text(s)
	}
	return Value{kind: number, s: s}
}

// Int creates a numeric Value from an integer.
func Int(i int) Value {
	return Value{kind: number, s: strconv.Itoa(i)}
}

// IsAbsent is true when the value was never set.
func (v Value) IsAbsent() bool {
	return v.kind == absent
}

// IsNumber is true for numeric values.
func (v Value) IsNumber() bool {
	return v.kind == number
}

// IsBlank is true for absent values and for text that is empty after
// trimming.
func (v Value) IsBlank() bool {
	return v.kind == absent || strings.TrimSpace(v.s) == ""
}

// String returns the text form of the value. Absent values are "".
func (v Value) String() string {
	return v.s
}

// LeadingInt parses the leading integer of the value, the way "3 jars"
// gives 3. The second return is false if there is no leading integer.
func (v Value) LeadingInt() (int, bool) {
	s := strings.TrimSpace(v.s)
	if v.kind == number {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	end := 0
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			end = 1
			continue
		}
		if !unicode.IsDigit(r) {
			break
		}
		end = i + 1
	}
	if end == 0 || (end == 1 && (s[0] == '-' || s[0] == '+')) {
		return 0, false
	}
	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return i, true
}

// MarshalJSON keeps numbers as JSON numbers and everything else as
// strings. Absent values become null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case number:
		return []byte(v.s), nil
	case text:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON scalar. Booleans become text, null
// becomes empty text, objects and arrays are kept as raw JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = fromRaw(json.RawMessage(data))
	return nil
}

func fromRaw(raw json.RawMessage) Value {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "null" || s == "":
		return Text("")
	case s[0] == '"':
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return Text(s)
		}
		return Text(str)
	case s == "true" || s == "false":
		return Text(s)
	case s[0] == '{' || s[0] == '[':
		return Text(s)
	default:
		return Number(s)
	}
}

// FromAny converts a decoded JSON value (as produced by a decoder with
// UseNumber) into a Value.
func FromAny(a any) Value {
	switch t := a.(type) {
	case nil:
		return Text("")
	case string:
		return Text(t)
	case json.Number:
		return Number(t.String())
	case bool:
		return Text(strconv.FormatBool(t))
	case int:
		return Int(t)
	case float64:
		return Number(strconv.FormatFloat(t, 'f', -1, 64))
	case Value:
		return t
	default:
		bs, err := json.Marshal(t)
		if err != nil {
			return Text("")
		}
		return Text(string(bs))
	}
}
