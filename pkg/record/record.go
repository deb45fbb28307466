// Package record defines a specimen record of the catalog.
//
// A Record keeps canonical fields (the names produced by the field
// standardizer) as named slots and preserves every other field verbatim,
// in the order it was first seen.
package record

import (
	"slices"
	"strings"
)

// Canonical field names.
const (
	Owner         = "Owner"
	Catalog       = "Catalog #"
	Order         = "Order"
	Family        = "Family"
	Genus         = "Genus"
	Species       = "Species"
	CommonName    = "Common Name"
	Specimens     = "# of specimens"
	Location      = "Location"
	Country       = "Country"
	HowCollected  = "How collected"
	DateCollected = "Date collected"
)

// Frequently used non-canonical fields.
const (
	Class         = "Class"
	StateProvince = "State/Province"
)

// CanonicalFields lists canonical names in their display order.
var CanonicalFields = []string{
	Owner, Catalog, Order, Family, Genus, Species, CommonName,
	Specimens, Location, Country, HowCollected, DateCollected,
}

// TrackedFields must all be non-blank for a record to be complete.
var TrackedFields = []string{
	Order, Family, Genus, Species, CommonName,
	Location, Country, HowCollected, DateCollected,
}

// Field is a named value.
type Field struct {
	Name  string
	Value Value
}

// Row is an ordered list of fields as read from a spreadsheet row or
// a JSON object.
type Row []Field

// Get returns the value of the first field with the given name.
func (r Row) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Record is one specimen entry.
type Record struct {
	owner         Value
	catalog       Value
	order         Value
	family        Value
	genus         Value
	species       Value
	commonName    Value
	specimens     Value
	location      Value
	country       Value
	howCollected  Value
	dateCollected Value

	extra []Field
}

// New creates a record from fields. Later duplicates of a name override
// earlier ones.
func New(fields ...Field) Record {
	var res Record
	for _, f := range fields {
		res.Set(f.Name, f.Value)
	}
	return res
}

// FromRow creates a record from a row.
func FromRow(row Row) Record {
	return New(row...)
}

// FromMap creates a record from plain strings. Canonical fields come
// first in their display order, others are sorted by name.
func FromMap(m map[string]string) Record {
	var res Record
	for _, k := range CanonicalFields {
		if v, ok := m[k]; ok {
			res.Set(k, Text(v))
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if !IsCanonical(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		res.Set(k, Text(m[k]))
	}
	return res
}

// IsCanonical tells if the name is one of the canonical fields.
func IsCanonical(name string) bool {
	return slices.Contains(CanonicalFields, name)
}

func (r *Record) slot(name string) *Value {
	switch name {
	case Owner:
		return &r.owner
	case Catalog:
		return &r.catalog
	case Order:
		return &r.order
	case Family:
		return &r.family
	case Genus:
		return &r.genus
	case Species:
		return &r.species
	case CommonName:
		return &r.commonName
	case Specimens:
		return &r.specimens
	case Location:
		return &r.location
	case Country:
		return &r.country
	case HowCollected:
		return &r.howCollected
	case DateCollected:
		return &r.dateCollected
	}
	return nil
}

// Get returns the value of a field. Unknown fields are absent.
func (r Record) Get(name string) Value {
	if s := r.slot(name); s != nil {
		return *s
	}
	for _, f := range r.extra {
		if f.Name == name {
			return f.Value
		}
	}
	return Value{}
}

// Has tells if the field is present (possibly blank).
func (r Record) Has(name string) bool {
	return !r.Get(name).IsAbsent()
}

// Set assigns a field. An absent value removes the field.
func (r *Record) Set(name string, v Value) {
	if s := r.slot(name); s != nil {
		*s = v
		return
	}
	for i := range r.extra {
		if r.extra[i].Name == name {
			if v.IsAbsent() {
				r.extra = slices.Delete(r.extra, i, i+1)
				return
			}
			r.extra[i].Value = v
			return
		}
	}
	if v.IsAbsent() {
		return
	}
	r.extra = append(r.extra, Field{Name: name, Value: v})
}

// SetText is a shortcut for Set(name, Text(s)).
func (r *Record) SetText(name, s string) {
	r.Set(name, Text(s))
}

// Fields returns present fields, canonical ones first in display order,
// then the rest in the order they were first seen.
func (r Record) Fields() Row {
	res := make(Row, 0, len(CanonicalFields)+len(r.extra))
	for _, name := range CanonicalFields {
		v := *r.slot(name)
		if !v.IsAbsent() {
			res = append(res, Field{Name: name, Value: v})
		}
	}
	return append(res, r.extra...)
}

// Len returns the number of present fields.
func (r Record) Len() int {
	var res int
	for _, name := range CanonicalFields {
		if !r.slot(name).IsAbsent() {
			res++
		}
	}
	return res + len(r.extra)
}

// CatalogKey returns the trimmed catalog number used for identity.
func (r Record) CatalogKey() string {
	return strings.TrimSpace(r.catalog.String())
}

// Merge overwrites fields supplied by the partial record and keeps the
// rest. Blank supplied values do overwrite.
func (r *Record) Merge(partial Record) {
	for _, f := range partial.Fields() {
		r.Set(f.Name, f.Value)
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	res := r
	res.extra = slices.Clone(r.extra)
	return res
}

// MissingFields returns tracked fields that are blank.
func (r Record) MissingFields() []string {
	var res []string
	for _, name := range TrackedFields {
		if r.Get(name).IsBlank() {
			res = append(res, name)
		}
	}
	return res
}

// IsComplete is true when every tracked field has a non-blank value.
func (r Record) IsComplete() bool {
	for _, name := range TrackedFields {
		if r.Get(name).IsBlank() {
			return false
		}
	}
	return true
}

// SpecimenCount returns the number of specimens the record stands for.
// Absent, unparsable or zero counts are treated as one.
func (r Record) SpecimenCount() int {
	i, ok := r.specimens.LeadingInt()
	if !ok || i == 0 {
		return 1
	}
	return i
}

// Equal compares two records field by field, ignoring field order.
func (r Record) Equal(other Record) bool {
	a, b := r.Fields(), other.Fields()
	if len(a) != len(b) {
		return false
	}
	for _, f := range a {
		if other.Get(f.Name) != f.Value {
			return false
		}
	}
	return true
}

// CloneAll deep-copies a slice of records.
func CloneAll(recs []Record) []Record {
	if recs == nil {
		return nil
	}
	res := make([]Record, len(recs))
	for i := range recs {
		res[i] = recs[i].Clone()
	}
	return res
}
