package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gncat/internal/ioconfig"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/store"
	"github.com/gnames/gncat/pkg/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setHome points the CLI to a temporary home with an empty session and
// no environment overrides.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("GNCAT_REMOTE_TOKEN", "")
	t.Setenv("GNCAT_STORAGE_MODE", "")
	return home
}

// run executes the CLI and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func listJSON(t *testing.T, args ...string) store.Page {
	t.Helper()
	out, err := run(t, append([]string{"list", "--json"}, args...)...)
	require.NoError(t, err)
	var res store.Page
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

// TestParseSet verifies Field=Value parsing.
func TestParseSet(t *testing.T) {
	rec, err := parseSet([]string{
		"Catalog #=M-0101", "Genus = Canis", "# of specimens=3", "Note=a=b",
	})
	require.NoError(t, err)
	assert.Equal(t, "M-0101", rec.CatalogKey())
	assert.Equal(t, "Canis", rec.Get(record.Genus).String())
	assert.True(t, rec.Get(record.Specimens).IsNumber())
	assert.Equal(t, 3, rec.SpecimenCount())
	assert.Equal(t, "a=b", rec.Get("Note").String())

	_, err = parseSet([]string{"Genus"})
	assert.Error(t, err)
	_, err = parseSet([]string{"=x"})
	assert.Error(t, err)
}

// TestImportMode verifies import mode flags and the configured default.
func TestImportMode(t *testing.T) {
	tests := []struct {
		msg          string
		app, replace bool
		def          string
		want         store.ImportMode
		wantErr      bool
	}{
		{"default", false, false, "replace", store.ImportReplace, false},
		{"append", true, false, "replace", store.ImportAppend, false},
		{"replace", false, true, "append", store.ImportReplace, false},
		{"both", true, true, "replace", "", true},
		{"bad default", false, false, "merge", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			m, err := importMode(tt.app, tt.replace, tt.def)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

// TestInitDemo verifies the first run creates configuration and loads
// the demonstration dataset.
func TestInitDemo(t *testing.T) {
	home := setHome(t)
	_, err := run(t, "init")
	require.NoError(t, err)

	assert.FileExists(t, config.ConfigFilePath(home))
	assert.FileExists(t, config.GroupsFilePath(home))
	assert.FileExists(t, filepath.Join(config.DataDir(home), "gncat.db"))

	page := listJSON(t)
	assert.Equal(t, 8, page.Total)
}

// TestRecordCommands verifies add, show, update, list and delete.
func TestRecordCommands(t *testing.T) {
	setHome(t)

	_, err := run(t, "add", "--set", "Catalog #=X-1", "--set", "Genus=Crotalus")
	require.NoError(t, err)
	_, err = run(t, "add", "--set", "Catalog #=X-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	_, err = run(t, "add", "--set", "Genus=Crotalus")
	assert.ErrorIs(t, err, store.ErrMissingCatalog)

	_, err = run(t, "update", "X-1", "--set", "Species=cerastes")
	require.NoError(t, err)

	out, err := run(t, "show", "X-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Crotalus")
	assert.Contains(t, out, "cerastes")

	// the demo dataset is adopted on first use
	assert.Equal(t, 9, listJSON(t).Total)
	page := listJSON(t, "-q", "cerastes")
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "X-1", page.Records[0].CatalogKey())

	page = listJSON(t, "--filter", "Genus=crotalus")
	assert.Equal(t, 2, page.Total)
	out, err = run(t, "list", "--filter", "Genus=crotalus")
	require.NoError(t, err)
	assert.Contains(t, out, "X-1")
	assert.Contains(t, out, "Page 1 of 1")

	out, err = run(t, "list", "--recent", "1", "--json")
	require.NoError(t, err)
	var recent []record.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recent))
	require.Len(t, recent, 1)
	assert.Equal(t, "X-1", recent[0].CatalogKey())

	_, err = run(t, "delete", "X-1")
	require.NoError(t, err)
	_, err = run(t, "show", "X-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestImportExportCommands verifies importing a CSV file and exporting
// the result.
func TestImportExportCommands(t *testing.T) {
	setHome(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "birds.csv")
	data := "catalog_number,genus,species,locality\n" +
		"B-9001,Bubo,virginianus,Flagstaff\n" +
		"B-9002,Strix,occidentalis,Sedona\n" +
		"B-9001,Bubo,virginianus,Flagstaff\n"
	require.NoError(t, os.WriteFile(src, []byte(data), 0644))

	_, err := run(t, "import", src, "--no-progress")
	require.NoError(t, err)
	page := listJSON(t)
	assert.Equal(t, 2, page.Total)
	r := page.Records[0]
	assert.Equal(t, "Flagstaff", r.Get(record.Location).String())

	_, err = run(t, "import", src, "--append", "--no-progress")
	require.NoError(t, err)
	assert.Equal(t, 2, listJSON(t).Total)

	out := filepath.Join(dir, "out.csv")
	_, err = run(t, "export", "--format", "csv", "-o", out)
	require.NoError(t, err)
	res, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(res), "Catalog #,Genus,Species,Location"))

	_, err = run(t, "export", "--format", "pdf")
	assert.Error(t, err)

	_, err = run(t, "import", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

// TestReportCommands verifies stats, values, incomplete and charts over
// the demonstration dataset.
func TestReportCommands(t *testing.T) {
	setHome(t)

	out, err := run(t, "stats", "--json")
	require.NoError(t, err)
	var stats summary.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 8, stats.TotalRecords)
	assert.Equal(t, 1, stats.Incomplete)

	out, err = run(t, "values", "Catalog #")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 8)

	out, err = run(t, "incomplete")
	require.NoError(t, err)
	assert.Contains(t, out, "M-0003")
	assert.Contains(t, out, "1 incomplete records")

	out, err = run(t, "incomplete", "--group", "Birds")
	require.NoError(t, err)
	assert.NotContains(t, out, "M-0003")

	out, err = run(t, "charts", "--top", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Taxonomic groups")
	assert.Contains(t, out, "Mammals")
}

// TestModeCommand verifies the storage mode is shown and persisted.
func TestModeCommand(t *testing.T) {
	home := setHome(t)

	out, err := run(t, "mode")
	require.NoError(t, err)
	assert.Equal(t, "local", strings.TrimSpace(out))

	_, err = run(t, "mode", "remote")
	require.NoError(t, err)
	res, _, err := ioconfig.Load(home)
	require.NoError(t, err)
	assert.Equal(t, config.StorageRemote, res.StorageMode)

	out, err = run(t, "mode")
	require.NoError(t, err)
	assert.Equal(t, "remote", strings.TrimSpace(out))

	out, err = run(t, "--storage-mode", "local", "mode")
	require.NoError(t, err)
	assert.Equal(t, "local", strings.TrimSpace(out))

	_, err = run(t, "mode", "cloud")
	assert.Error(t, err)
}

// TestRemoteCommands verifies remote settings, the session credential,
// and sync through a shared directory.
func TestRemoteCommands(t *testing.T) {
	home := setHome(t)
	shared := t.TempDir()

	_, err := run(t, "remote", "set")
	assert.Error(t, err)
	_, err = run(t, "remote", "set", "--driver", "ftp")
	assert.Error(t, err)

	_, err = run(t, "remote", "set", "--driver", "fs", "--dir", shared,
		"--path", "inventory.json", "--timeout", "5")
	require.NoError(t, err)
	res, _, err := ioconfig.Load(home)
	require.NoError(t, err)
	assert.Equal(t, "fs", res.Remote.Driver)
	assert.Equal(t, shared, res.Remote.Dir)
	assert.Equal(t, 5, res.Remote.Timeout)

	_, err = run(t, "remote", "login", "secret-token")
	require.NoError(t, err)
	out, err := run(t, "remote", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "session")
	assert.Contains(t, out, "remote file does not exist yet")

	_, err = run(t, "sync", "push")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(shared, "inventory.json"))

	out, err = run(t, "remote", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Records:       8")

	_, err = run(t, "delete", "M-0001")
	require.NoError(t, err)
	assert.Equal(t, 7, listJSON(t).Total)
	_, err = run(t, "sync", "pull")
	require.NoError(t, err)
	assert.Equal(t, 8, listJSON(t).Total)

	_, err = run(t, "remote", "logout")
	require.NoError(t, err)
	out, err = run(t, "remote", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Credential:    none")
}
