package record_test

import (
	"testing"

	"github.com/gnames/gncat/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord() record.Record {
	return record.FromMap(map[string]string{
		record.Catalog:       "M-1",
		record.Order:         "Rodentia",
		record.Family:        "Muridae",
		record.Genus:         "Mus",
		record.Species:       "musculus",
		record.CommonName:    "House mouse",
		record.Location:      "Cambridge",
		record.Country:       "USA",
		record.HowCollected:  "Trap",
		record.DateCollected: "1998-05-01",
	})
}

// TestValue verifies blank detection and leading integer parsing.
func TestValue(t *testing.T) {
	assert := assert.New(t)
	assert.True(record.Value{}.IsAbsent())
	assert.True(record.Value{}.IsBlank())
	assert.True(record.Text("  ").IsBlank())
	assert.False(record.Text("").IsAbsent())
	assert.False(record.Int(0).IsBlank())

	n := record.Number("12")
	assert.True(n.IsNumber())
	assert.Equal("12", n.String())
	assert.False(record.Number("twelve").IsNumber())
	for _, s := range []string{"05", "+3", ".5", "NaN", "Inf", "1e400"} {
		v := record.Number(s)
		assert.False(v.IsNumber(), s)
		assert.Equal(s, v.String(), s)
	}
	assert.True(record.Number("-0.5").IsNumber())

	tests := []struct {
		msg string
		val record.Value
		res int
		ok  bool
	}{
		{"number", record.Int(4), 4, true},
		{"float", record.Number("2.7"), 2, true},
		{"text", record.Text("3 jars"), 3, true},
		{"spaces", record.Text("  15 "), 15, true},
		{"negative", record.Text("-2"), -2, true},
		{"word", record.Text("many"), 0, false},
		{"sign only", record.Text("-"), 0, false},
		{"absent", record.Value{}, 0, false},
	}
	for _, v := range tests {
		res, ok := v.val.LeadingInt()
		assert.Equal(v.ok, ok, v.msg)
		assert.Equal(v.res, res, v.msg)
	}
}

// TestFieldsOrder verifies canonical fields come first and extras keep
// their insertion order.
func TestFieldsOrder(t *testing.T) {
	r := record.New(
		record.Field{Name: "Notes", Value: record.Text("n")},
		record.Field{Name: record.Family, Value: record.Text("Felidae")},
		record.Field{Name: "Class", Value: record.Text("Mammalia")},
		record.Field{Name: record.Catalog, Value: record.Text("C-1")},
	)
	var names []string
	for _, f := range r.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t,
		[]string{record.Catalog, record.Family, "Notes", "Class"}, names)
	assert.Equal(t, 4, r.Len())

	r.Set("Notes", record.Value{})
	assert.False(t, r.Has("Notes"))
	assert.Equal(t, 3, r.Len())
}

// TestCompleteness verifies tracked-field completeness.
func TestCompleteness(t *testing.T) {
	r := fullRecord()
	assert.True(t, r.IsComplete())
	assert.Empty(t, r.MissingFields())

	r.SetText(record.Country, " ")
	r.Set(record.Genus, record.Value{})
	assert.False(t, r.IsComplete())
	assert.Equal(t, []string{record.Genus, record.Country}, r.MissingFields())

	// Owner and specimen count are not tracked.
	r2 := fullRecord()
	r2.SetText(record.Owner, "")
	assert.True(t, r2.IsComplete())
}

// TestMerge verifies that only supplied fields change.
func TestMerge(t *testing.T) {
	r := fullRecord()
	r.Merge(record.FromMap(map[string]string{
		record.Country: "Canada",
		"Notes":        "moved",
	}))
	assert.Equal(t, "Canada", r.Get(record.Country).String())
	assert.Equal(t, "Mus", r.Get(record.Genus).String())
	assert.Equal(t, "moved", r.Get("Notes").String())
	assert.Equal(t, "M-1", r.CatalogKey())
}

// TestClone verifies clones do not share the extra fields.
func TestClone(t *testing.T) {
	r := fullRecord()
	r.SetText("Notes", "a")
	c := r.Clone()
	c.SetText("Notes", "b")
	assert.Equal(t, "a", r.Get("Notes").String())
	assert.True(t, r.Equal(r.Clone()))
	assert.False(t, r.Equal(c))
}

// TestSpecimenCount verifies the count falls back to one.
func TestSpecimenCount(t *testing.T) {
	tests := []struct {
		msg string
		val record.Value
		res int
	}{
		{"absent", record.Value{}, 1},
		{"zero", record.Int(0), 1},
		{"number", record.Int(5), 5},
		{"text", record.Text("3 skulls"), 3},
		{"garbage", record.Text("n/a"), 1},
	}
	for _, v := range tests {
		r := fullRecord()
		r.Set(record.Specimens, v.val)
		assert.Equal(t, v.res, r.SpecimenCount(), v.msg)
	}
}

// TestJSON verifies records encode as flat objects keeping value kinds.
func TestJSON(t *testing.T) {
	r := record.New(
		record.Field{Name: record.Catalog, Value: record.Text("M-1")},
		record.Field{Name: record.Specimens, Value: record.Int(3)},
		record.Field{Name: "Notes", Value: record.Text("x")},
	)
	bs, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"Catalog #":"M-1","# of specimens":3,"Notes":"x"}`, string(bs))

	var back record.Record
	err = back.UnmarshalJSON(
		[]byte(`{"Zed":true,"Catalog #":"M-2","# of specimens":2,"Tag":null,"Obj":{"a":1}}`),
	)
	require.NoError(t, err)
	assert.Equal(t, "M-2", back.CatalogKey())
	assert.True(t, back.Get(record.Specimens).IsNumber())
	assert.Equal(t, "true", back.Get("Zed").String())
	assert.True(t, back.Has("Tag"))
	assert.True(t, back.Get("Tag").IsBlank())
	assert.Equal(t, `{"a":1}`, back.Get("Obj").String())

	var names []string
	for _, f := range back.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t,
		[]string{record.Catalog, record.Specimens, "Zed", "Tag", "Obj"}, names)

	err = back.UnmarshalJSON([]byte(`[1,2]`))
	assert.Error(t, err)
}

// TestList verifies the list codec, including empty payloads.
func TestList(t *testing.T) {
	recs := []record.Record{fullRecord(), record.FromMap(map[string]string{
		record.Catalog: "M-2",
	})}
	bs, err := record.MarshalList(recs)
	require.NoError(t, err)

	back, err := record.UnmarshalList(bs)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.True(t, recs[0].Equal(back[0]))
	assert.True(t, recs[1].Equal(back[1]))

	empty, err := record.UnmarshalList(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	bs, err = record.MarshalList(nil)
	require.NoError(t, err)
	empty, err = record.UnmarshalList(bs)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = record.UnmarshalList([]byte("{not json"))
	assert.Error(t, err)
}
