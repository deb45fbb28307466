package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gnames/gncat/internal/ioremote"
	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/store"
	"github.com/gnames/gncat/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk quota exceeded")

// memLocal is a LocalStorage kept in memory.
type memLocal struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	failErr error
	closed  bool
}

func (m *memLocal) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, store.ErrNoData
	}
	return m.data, nil
}

func (m *memLocal) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *memLocal) Close() error {
	m.closed = true
	return nil
}

func (m *memLocal) records(t *testing.T) []record.Record {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	res, err := record.UnmarshalList(m.data)
	require.NoError(t, err)
	return res
}

func rec(id string, kv ...string) record.Record {
	fs := []record.Field{{Name: record.Catalog, Value: record.Text(id)}}
	for i := 0; i+1 < len(kv); i += 2 {
		fs = append(fs, record.Field{Name: kv[i], Value: record.Text(kv[i+1])})
	}
	return record.New(fs...)
}

func complete(id string) record.Record {
	return rec(id,
		record.Order, "Carnivora", record.Family, "Canidae",
		record.Genus, "Canis", record.Species, "latrans",
		record.CommonName, "Coyote", record.Location, "Flagstaff",
		record.Country, "USA", record.HowCollected, "Salvage",
		record.DateCollected, "2019-03-14",
	)
}

func demo(recs ...record.Record) store.DemoSource {
	return func() ([]record.Record, error) {
		return record.CloneAll(recs), nil
	}
}

func newStore(t *testing.T, opts ...store.Option) (*store.Store, *memLocal) {
	t.Helper()
	local := &memLocal{}
	s := store.New(local, opts...)
	s.Initialize(context.Background(), store.InitOptions{})
	return s, local
}

func ids(recs []record.Record) []string {
	res := make([]string, len(recs))
	for i := range recs {
		res[i] = recs[i].CatalogKey()
	}
	return res
}

// TestInitializeDemo verifies that without local data and without a
// usable remote the demo dataset is adopted and saved locally.
func TestInitializeDemo(t *testing.T) {
	mem := ioremote.NewMemory()
	mem.SetCredential(false)
	local := &memLocal{}
	s := store.New(local,
		store.OptRemote(blob.NewClient(mem)),
		store.OptDemo(demo(rec("D-1"), rec("D-2"))),
	)

	res := s.Initialize(context.Background(), store.InitOptions{UseRemote: true})
	assert.Equal(t, store.SourceDemo, res.Source)
	assert.Equal(t, []string{"D-1", "D-2"}, ids(res.Records))
	assert.Equal(t, []string{"D-1", "D-2"}, ids(local.records(t)))
}

// TestInitializeLocal verifies local data wins over the demo dataset and
// corrupted local data is skipped.
func TestInitializeLocal(t *testing.T) {
	ctx := context.Background()
	local := &memLocal{data: []byte(`[{"Catalog #":"L-1"}]`)}
	s := store.New(local, store.OptDemo(demo(rec("D-1"))))
	res := s.Initialize(ctx, store.InitOptions{})
	assert.Equal(t, store.SourceLocal, res.Source)
	assert.Equal(t, []string{"L-1"}, ids(s.GetAll()))
	assert.Equal(t, 0, local.saves)

	local = &memLocal{data: []byte(`{not json`)}
	s = store.New(local, store.OptDemo(demo(rec("D-1"))))
	res = s.Initialize(ctx, store.InitOptions{})
	assert.Equal(t, store.SourceDemo, res.Source)
}

// TestInitializeNoOptions verifies a Store built without options loads
// and saves through the given local storage.
func TestInitializeNoOptions(t *testing.T) {
	ctx := context.Background()
	local := &memLocal{data: []byte(`[{"Catalog #":"L-1"}]`)}
	s := store.New(local)
	res := s.Initialize(ctx, store.InitOptions{})
	assert.Equal(t, store.SourceLocal, res.Source)

	require.NoError(t, s.Add(ctx, rec("L-2")))
	assert.Equal(t, []string{"L-1", "L-2"}, ids(local.records(t)))
}

// TestReloadNumbers verifies number-like text survives a save and a new
// session without falling back to the demo dataset.
func TestReloadNumbers(t *testing.T) {
	ctx := context.Background()
	for _, v := range []string{"3", "05", "+3", ".5", "NaN"} {
		local := &memLocal{}
		s := store.New(local, store.OptDemo(demo(rec("D-1"))))
		s.Initialize(ctx, store.InitOptions{})
		require.NoError(t, s.Add(ctx, rec("KEEP-1")))
		r := rec("M-1")
		r.Set(record.Specimens, record.Number(v))
		require.NoError(t, s.Add(ctx, r))

		next := store.New(local, store.OptDemo(demo(rec("D-1"))))
		res := next.Initialize(ctx, store.InitOptions{})
		assert.Equal(t, store.SourceLocal, res.Source, v)
		got, ok := next.GetByCatalog("M-1")
		require.True(t, ok, v)
		assert.Equal(t, v, got.Get(record.Specimens).String(), v)
		_, ok = next.GetByCatalog("KEEP-1")
		assert.True(t, ok, v)
	}
}

// TestInitializeEmpty verifies the last resort is an empty list.
func TestInitializeEmpty(t *testing.T) {
	failing := func() ([]record.Record, error) {
		return nil, errors.New("no demo")
	}
	s := store.New(&memLocal{}, store.OptDemo(failing))
	res := s.Initialize(context.Background(), store.InitOptions{UseRemote: true})
	assert.Equal(t, store.SourceEmpty, res.Source)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
}

// TestInitializeRemote verifies remote data is adopted and cached
// locally, and that a missing remote file falls through to local data.
func TestInitializeRemote(t *testing.T) {
	ctx := context.Background()

	mem := ioremote.NewMemory()
	mem.Seed([]byte(`[{"Catalog #":"R-1"},{"Catalog #":"R-2"}]`))
	local := &memLocal{data: []byte(`[{"Catalog #":"L-1"}]`)}
	client := blob.NewClient(mem)
	s := store.New(local, store.OptRemote(client))
	res := s.Initialize(ctx, store.InitOptions{UseRemote: true})
	assert.Equal(t, store.SourceRemote, res.Source)
	assert.Equal(t, []string{"R-1", "R-2"}, ids(local.records(t)))
	assert.Equal(t, blob.ReadyWithToken, client.State())
	assert.True(t, s.LastSync().OK())

	empty := ioremote.NewMemory()
	local = &memLocal{data: []byte(`[{"Catalog #":"L-1"}]`)}
	s = store.New(local, store.OptRemote(blob.NewClient(empty)))
	res = s.Initialize(ctx, store.InitOptions{UseRemote: true})
	assert.Equal(t, store.SourceLocal, res.Source)

	broken := ioremote.NewMemory()
	broken.FailNext(ioremote.ErrInjected)
	s = store.New(local, store.OptRemote(blob.NewClient(broken)))
	res = s.Initialize(ctx, store.InitOptions{UseRemote: true})
	assert.Equal(t, store.SourceLocal, res.Source)
}

// TestAddUniqueness verifies blank and duplicate catalog numbers are
// rejected and leave the store unchanged.
func TestAddUniqueness(t *testing.T) {
	ctx := context.Background()
	s, local := newStore(t)

	require.NoError(t, s.Add(ctx, rec("M-1")))
	err := s.Add(ctx, rec(" M-1 "))
	assert.ErrorIs(t, err, store.ErrDuplicate)
	err = s.Add(ctx, rec("  "))
	assert.ErrorIs(t, err, store.ErrMissingCatalog)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, local.saves)

	r, ok := s.GetByCatalog(" M-1")
	require.True(t, ok)
	assert.Equal(t, "M-1", r.CatalogKey())
	_, ok = s.GetByCatalog("M-2")
	assert.False(t, ok)
}

// TestGetAllCopy verifies callers cannot change stored records.
func TestGetAllCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Add(ctx, rec("M-1", record.Genus, "Canis")))

	all := s.GetAll()
	all[0].SetText(record.Genus, "Vulpes")
	r, _ := s.GetByCatalog("M-1")
	assert.Equal(t, "Canis", r.Get(record.Genus).String())
}

// TestUpdateMerge verifies update changes only supplied fields.
func TestUpdateMerge(t *testing.T) {
	ctx := context.Background()
	s, local := newStore(t)
	orig := rec("M-1", record.Genus, "Canis", record.Species, "latrans",
		"Notes", "skull only")
	require.NoError(t, s.Add(ctx, orig))

	err := s.Update(ctx, "M-1", rec("M-1", record.Species, "lupus"))
	require.NoError(t, err)

	r, _ := s.GetByCatalog("M-1")
	assert.Equal(t, "lupus", r.Get(record.Species).String())
	assert.Equal(t, orig.Get(record.Genus), r.Get(record.Genus))
	assert.Equal(t, orig.Get("Notes"), r.Get("Notes"))
	assert.Equal(t, 2, local.saves)

	err = s.Update(ctx, "M-9", rec("M-9"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestUpdateCatalog verifies a catalog number change keeps uniqueness.
func TestUpdateCatalog(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Add(ctx, rec("M-1")))
	require.NoError(t, s.Add(ctx, rec("M-2")))

	assert.ErrorIs(t, s.Update(ctx, "M-1", rec("M-2")), store.ErrDuplicate)
	assert.ErrorIs(t, s.Update(ctx, "M-1", rec(" ")), store.ErrMissingCatalog)
	require.NoError(t, s.Update(ctx, "M-1", rec("M-3")))
	assert.Equal(t, []string{"M-3", "M-2"}, ids(s.GetAll()))
}

// TestUpdateMany verifies valid updates are applied with one save and
// unknown ids are reported.
func TestUpdateMany(t *testing.T) {
	ctx := context.Background()
	s, local := newStore(t)
	require.NoError(t, s.Add(ctx, rec("M-1")))
	require.NoError(t, s.Add(ctx, rec("M-2")))
	saves := local.saves

	err := s.UpdateMany(ctx, map[string]record.Record{
		"M-1": record.New(record.Field{Name: record.Genus, Value: record.Text("Canis")}),
		"M-2": record.New(record.Field{Name: record.Genus, Value: record.Text("Bubo")}),
		"X-1": record.New(record.Field{Name: record.Genus, Value: record.Text("Nope")}),
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "X-1")
	assert.Equal(t, saves+1, local.saves)

	r, _ := s.GetByCatalog("M-2")
	assert.Equal(t, "Bubo", r.Get(record.Genus).String())
}

// TestDelete verifies delete removes one record and failing deletes
// leave the size unchanged.
func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Add(ctx, rec("M-1")))
	require.NoError(t, s.Add(ctx, rec("M-2")))

	require.NoError(t, s.Delete(ctx, "M-1"))
	assert.ErrorIs(t, s.Delete(ctx, "M-1"), store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, ""), store.ErrNotFound)
	assert.Equal(t, []string{"M-2"}, ids(s.GetAll()))
}

// TestPersistFailure verifies a local failure is reported while the
// in-memory change stays.
func TestPersistFailure(t *testing.T) {
	ctx := context.Background()
	s, local := newStore(t)
	local.failErr = errDisk

	err := s.Add(ctx, rec("M-1"))
	assert.ErrorIs(t, err, store.ErrPersist)
	assert.ErrorIs(t, err, errDisk)
	_, ok := s.GetByCatalog("M-1")
	assert.True(t, ok)
}

// TestIncomplete verifies the completeness predicate.
func TestIncomplete(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Add(ctx, complete("C-1")))
	partial := complete("C-2")
	partial.SetText(record.Country, " ")
	require.NoError(t, s.Add(ctx, partial))
	require.NoError(t, s.Add(ctx, rec("C-3")))

	assert.Equal(t, []string{"C-2", "C-3"}, ids(s.GetIncompleteRecords()))
	st := s.GetSummaryStats()
	assert.Equal(t, 3, st.TotalRecords)
	assert.Equal(t, 2, st.Incomplete)
	assert.Equal(t, 3, st.TotalSpecimens)
}

// TestUniqueValues verifies distinct sorted values.
func TestUniqueValues(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	for i, g := range []string{"Canis", "Bubo", "", "Canis"} {
		id := string(rune('A' + i))
		require.NoError(t, s.Add(ctx, rec(id, record.Genus, g)))
	}
	assert.Equal(t, []string{"Bubo", "Canis"}, s.GetUniqueValues(record.Genus))
}

// TestSearch verifies term, field and filter matching.
func TestSearch(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Add(ctx, rec("M-1", record.Genus, "Canis",
		record.Country, "USA", record.Order, "Carnivora")))
	require.NoError(t, s.Add(ctx, rec("B-1", record.Genus, "Bubo",
		record.Country, "usa", record.Order, "Strigiformes")))
	require.NoError(t, s.Add(ctx, rec("F-1", record.Genus, "Micropterus",
		record.Country, "Mexico", "Notes", "canyon")))

	tests := []struct {
		name string
		c    store.Criteria
		ids  []string
	}{
		{"all fields", store.Criteria{Term: "CAN"}, []string{"M-1", "F-1"}},
		{"one field", store.Criteria{Term: "can", Field: record.Genus}, []string{"M-1"}},
		{"filter", store.Criteria{Filters: map[string]string{record.Country: "USA"}},
			[]string{"M-1", "B-1"}},
		{"term and filter", store.Criteria{Term: "b",
			Filters: map[string]string{record.Country: "usa"}}, []string{"B-1"}},
		{"nothing", store.Criteria{Term: "zebra"}, []string{}},
		{"empty", store.Criteria{}, []string{"M-1", "B-1", "F-1"}},
	}
	for _, v := range tests {
		assert.Equal(t, v.ids, ids(s.Search(v.c)), v.name)
	}
}

// TestRecentPaginate verifies recent records and page cutting.
func TestRecentPaginate(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, s.Add(ctx, rec(id)))
	}
	assert.Equal(t, []string{"4", "5"}, ids(s.Recent(2)))
	assert.Len(t, s.Recent(10), 5)
	assert.Empty(t, s.Recent(0))

	p := store.Paginate(s.GetAll(), 2, 2)
	assert.Equal(t, []string{"3", "4"}, ids(p.Records))
	assert.Equal(t, 3, p.Pages)
	p = store.Paginate(s.GetAll(), 9, 2)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, []string{"5"}, ids(p.Records))
	p = store.Paginate(nil, 1, 0)
	assert.Equal(t, 1, p.Pages)
	assert.NotNil(t, p.Records)
}

// TestImport verifies standardization, append and replace modes, and
// that duplicate catalog numbers are skipped.
func TestImport(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Add(ctx, rec("M-1")))

	rows := []record.Row{
		{{Name: "catalog", Value: record.Text("M-2")}, {Name: "genus", Value: record.Text("Canis")}},
		{{Name: "cat_no", Value: record.Text("M-1")}},
		{{Name: "catalog_number", Value: record.Text("M-3")}, {Name: "Extra", Value: record.Text("x")}},
		{{Name: "genus", Value: record.Text("Bubo")}},
	}

	res, err := s.ImportFrom(ctx, rows, store.ImportAppend)
	require.NoError(t, err)
	assert.Equal(t, store.ImportResult{Mode: store.ImportAppend, Rows: 4,
		Imported: 3, Duplicates: 1, Total: 4}, res)
	assert.Equal(t, []string{"M-1", "M-2", "M-3", ""}, ids(s.GetAll()))
	r, _ := s.GetByCatalog("M-2")
	assert.Equal(t, "Canis", r.Get(record.Genus).String())
	r, _ = s.GetByCatalog("M-3")
	assert.Equal(t, "x", r.Get("Extra").String())

	res, err = s.ImportFrom(ctx, rows[:1], store.ImportReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []string{"M-2"}, ids(s.GetAll()))

	_, err = s.ImportFrom(ctx, rows, store.ImportMode("merge"))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

// TestImportProgress verifies the progress hook sees every row.
func TestImportProgress(t *testing.T) {
	var n atomic.Int32
	s, _ := newStore(t, store.OptJobsNumber(3), store.OptProgress(func() {
		n.Add(1)
	}))
	rows := make([]record.Row, 10)
	for i := range rows {
		rows[i] = record.Row{{Name: "catalog", Value: record.Int(i + 1)}}
	}
	_, err := s.ImportFrom(context.Background(), rows, store.ImportReplace)
	require.NoError(t, err)
	assert.Equal(t, int32(10), n.Load())
	assert.Equal(t, 10, s.Len())
}

// TestParseImportMode verifies import mode parsing.
func TestParseImportMode(t *testing.T) {
	m, err := store.ParseImportMode(" Append")
	require.NoError(t, err)
	assert.Equal(t, store.ImportAppend, m)
	_, err = store.ParseImportMode("merge")
	assert.Error(t, err)
}

// TestExportRoundTrip verifies export followed by a replace import gives
// field-equal records.
func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	a := complete("C-1")
	a.Set(record.Specimens, record.Int(3))
	a.SetText("Preparation", "skin")
	require.NoError(t, s.Add(ctx, a))
	require.NoError(t, s.Add(ctx, rec("C-2", record.Genus, "Bubo")))
	before := s.GetAll()

	for _, f := range []tabular.Format{tabular.CSV, tabular.XLSX} {
		data, err := s.ExportSnapshot(f)
		require.NoError(t, err)
		rows, err := tabular.DecodeBytes(data, f)
		require.NoError(t, err)
		_, err = s.ImportFrom(ctx, rows, store.ImportReplace)
		require.NoError(t, err)

		after := s.GetAll()
		require.Len(t, after, len(before))
		for i := range before {
			for _, fld := range before[i].Fields() {
				assert.Equal(t, fld.Value.String(),
					after[i].Get(fld.Name).String(), f.String()+" "+fld.Name)
			}
		}
	}
}

// TestStorageMode verifies mode switching and validation.
func TestStorageMode(t *testing.T) {
	s, _ := newStore(t, store.OptMode(config.StorageRemote))
	assert.Equal(t, config.StorageRemote, s.GetStorageMode())
	require.NoError(t, s.SetStorageMode(config.StorageLocal))
	assert.Equal(t, config.StorageLocal, s.GetStorageMode())
	assert.Error(t, s.SetStorageMode("cloud"))
	assert.Equal(t, config.StorageLocal, s.GetStorageMode())
}

// TestClose verifies local storage is released.
func TestClose(t *testing.T) {
	s, local := newStore(t)
	require.NoError(t, s.Close(context.Background()))
	assert.True(t, local.closed)
}
