// Package standardize maps variant column names of imported rows onto the
// canonical field names of a record.
//
// This is a pure package. The mapping is total and idempotent: a row that
// was standardized once does not change when standardized again.
package standardize

import (
	"github.com/gnames/gncat/pkg/record"
)

// Alias binds a canonical field name to accepted alternative names.
type Alias struct {
	Canonical string
	Aliases   []string
}

// Table is an ordered list of aliases. The order of the table determines
// the order of canonical fields in the standardized row.
type Table []Alias

// DefaultTable returns aliases commonly found in specimen spreadsheets.
func DefaultTable() Table {
	return Table{
		{record.Owner, []string{"owner", "owner_id", "ownerid"}},
		{record.Catalog, []string{
			"catalog", "catalog_number", "cat_no", "catalog_no", "catalogno",
		}},
		{record.Order, []string{"order", "order_name", "taxon_order"}},
		{record.Family, []string{"family", "family_name", "taxon_family"}},
		{record.Genus, []string{"genus", "genus_name", "taxon_genus"}},
		{record.Species, []string{
			"species", "species_name", "taxon_species", "specific_name",
		}},
		{record.CommonName, []string{
			"common_name", "commonname", "common", "vernacular",
		}},
		{record.Specimens, []string{
			"specimens", "specimen_count", "count", "number_of_specimens",
			"quantity",
		}},
		{record.Location, []string{
			"location", "locality", "site", "collection_site",
		}},
		{record.Country, []string{"country", "nation", "country_name"}},
		{record.HowCollected, []string{
			"collected", "collection_method", "acquisition", "how_collected",
		}},
		{record.DateCollected, []string{
			"date", "collection_date", "date_collected",
		}},
	}
}

var defaultTable = DefaultTable()

// Standardize applies the default table to a row.
func Standardize(row record.Row) record.Row {
	return defaultTable.Standardize(row)
}

// Standardize renames known aliases to canonical names.
//
// For every canonical entry the canonical name wins if present, otherwise
// the first alias (in table order) found in the row supplies the value.
// Only the name that supplied the value is claimed. Other aliases of the
// same entry stay in the row, and unclaimed fields are copied after the
// canonical ones in their original order.
func (t Table) Standardize(row record.Row) record.Row {
	res := make(record.Row, 0, len(row))
	claimed := make(map[string]struct{})

	for _, a := range t {
		names := append([]string{a.Canonical}, a.Aliases...)
		for _, name := range names {
			v, ok := row.Get(name)
			if !ok {
				continue
			}
			claimed[name] = struct{}{}
			res = append(res, record.Field{Name: a.Canonical, Value: v})
			break
		}
	}

	for _, f := range row {
		if _, ok := claimed[f.Name]; ok {
			continue
		}
		claimed[f.Name] = struct{}{}
		res = append(res, f)
	}
	return res
}

// Record standardizes a row and converts it into a record.
func (t Table) Record(row record.Row) record.Record {
	return record.FromRow(t.Standardize(row))
}
