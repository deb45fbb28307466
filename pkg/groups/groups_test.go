package groups_test

import (
	"testing"

	"github.com/gnames/gncat/pkg/groups"
	"github.com/stretchr/testify/assert"
)

// TestGroupOf verifies order lookup with and without an index.
func TestGroupOf(t *testing.T) {
	tests := []struct {
		order string
		group string
	}{
		{"Carnivora", "Mammals"},
		{"carnivora ", "Mammals"},
		{"Passeriformes", "Birds"},
		{"Anura", "Reptiles/Amphibians"},
		{"Decapoda", "Invertebrates"},
		{"Perciformes", "Fish/Marine Life"},
		{"Dinosauria", groups.DefaultOther},
		{"", groups.DefaultOther},
	}

	plain := groups.Default()
	indexed := plain.Index()
	for _, v := range tests {
		assert.Equal(t, v.group, plain.GroupOf(v.order), v.order)
		assert.Equal(t, v.group, indexed.GroupOf(v.order), v.order)
	}
}

// TestNames verifies group order and the catch-all name.
func TestNames(t *testing.T) {
	tbl := groups.Table{
		Groups: []groups.Group{{Name: "A", Orders: []string{"x"}}},
	}
	assert.Equal(t, []string{"A", groups.DefaultOther}, tbl.Names())

	tbl.Other = "Misc"
	assert.Equal(t, "Misc", tbl.GroupOf("y"))
	assert.Len(t, groups.Default().Names(), 6)
}
