// Package groups maps taxonomic orders to broad display groups such as
// Mammals or Birds.
//
// The table is read from groups.yaml (see internal/iogroups), orders that
// are not listed fall into the catch-all group.
package groups

import (
	"strings"
)

// DefaultOther is the name of the catch-all group.
const DefaultOther = "Other/Unclassified"

// Group is a named set of orders.
type Group struct {
	Name   string   `yaml:"name"`
	Orders []string `yaml:"orders"`
}

// Table is an ordered list of groups plus a catch-all name.
type Table struct {
	Groups []Group `yaml:"groups"`
	Other  string  `yaml:"other"`

	index map[string]string
}

// Loader provides the groups table from its persistent location.
type Loader interface {
	Load() (Table, error)
}

// Default returns the built-in table.
func Default() Table {
	return Table{
		Groups: []Group{
			{"Mammals", []string{
				"Artiodactyla", "Carnivora", "Cetacea", "Chiroptera",
				"Primates", "Rodentia", "Lagomorpha", "Proboscidea",
			}},
			{"Fish/Marine Life", []string{
				"Carcharhiniformes", "Perciformes", "Tetraodontiformes",
				"Siluriformes", "Cypriniformes", "Salmoniformes",
			}},
			{"Birds", []string{
				"Passeriformes", "Falconiformes", "Strigiformes",
				"Anseriformes", "Psittaciformes", "Columbiformes",
			}},
			{"Reptiles/Amphibians", []string{
				"Squamata", "Testudines", "Crocodilia", "Anura", "Caudata",
			}},
			{"Invertebrates", []string{
				"Araneae", "Coleoptera", "Lepidoptera", "Hymenoptera",
				"Diptera", "Decapoda", "Gastropoda",
			}},
		},
		Other: DefaultOther,
	}
}

// Names returns group names in table order followed by the catch-all.
func (t Table) Names() []string {
	res := make([]string, 0, len(t.Groups)+1)
	for _, g := range t.Groups {
		res = append(res, g.Name)
	}
	return append(res, t.OtherName())
}

// OtherName returns the catch-all group name.
func (t Table) OtherName() string {
	if t.Other == "" {
		return DefaultOther
	}
	return t.Other
}

// Index prepares a case-insensitive lookup. A table used without Index
// still works, with a linear scan.
func (t Table) Index() Table {
	t.index = make(map[string]string)
	for _, g := range t.Groups {
		for _, o := range g.Orders {
			k := strings.ToLower(strings.TrimSpace(o))
			if _, ok := t.index[k]; !ok {
				t.index[k] = g.Name
			}
		}
	}
	return t
}

// GroupOf returns the group of an order. Blank and unknown orders belong
// to the catch-all group. The first group listing an order wins.
func (t Table) GroupOf(order string) string {
	k := strings.ToLower(strings.TrimSpace(order))
	if k == "" {
		return t.OtherName()
	}
	if t.index != nil {
		if g, ok := t.index[k]; ok {
			return g
		}
		return t.OtherName()
	}
	for _, g := range t.Groups {
		for _, o := range g.Orders {
			if strings.ToLower(strings.TrimSpace(o)) == k {
				return g.Name
			}
		}
	}
	return t.OtherName()
}
