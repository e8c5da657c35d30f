package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackremap/internal/remap"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault_IsTheCatalogJob(t *testing.T) {
	t.Parallel()

	j := Default()
	assert.Equal(t, DefaultInput, j.InputPath())
	assert.Equal(t, DefaultOutput, j.OutputPath())
	assert.Empty(t, j.Storage.Kind)

	spec, err := j.RemapSpec()
	require.NoError(t, err)
	assert.Equal(t, remap.Strict, spec.Mode)
	assert.Equal(t, remap.MatchExact, spec.Match)
	assert.Equal(t, remap.CatalogColumns, spec.Columns)
	assert.Equal(t, remap.CatalogRename, spec.Rename)

	assert.Empty(t, ValidateJob(j))
}

func TestOutputPath_InPlace(t *testing.T) {
	t.Parallel()

	j := Default()
	j.Sink.InPlace = true
	assert.Equal(t, DefaultInput, j.OutputPath())
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "job.json", `{
	  "name": "fix_gpm",
	  "source": { "kind": "file", "file": { "path": "exports/gpm_stl.csv" } },
	  "parser": { "kind": "csv", "options": { "comma": ";", "lazy_quotes": true, "encoding": "windows-1252" } },
	  "remap":  { "mode": "tolerant", "match": "fold", "columns": ["id", "title", "url"] },
	  "sink":   { "in_place": true },
	  "storage": {
	    "kind": "sqlite",
	    "db": { "dsn": "file:catalog.db", "table": "tracks", "auto_create_table": true, "replace": true, "batch_size": 50 }
	  }
	}`)

	j, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "fix_gpm", j.Name)
	assert.Equal(t, "exports/gpm_stl.csv", j.OutputPath())
	assert.Equal(t, ';', j.Parser.Options.Rune("comma", ','))
	assert.True(t, j.Parser.Options.Bool("lazy_quotes", false))
	assert.Equal(t, "windows-1252", j.Parser.Options.String("encoding", ""))

	spec, err := j.RemapSpec()
	require.NoError(t, err)
	assert.Equal(t, remap.Tolerant, spec.Mode)
	assert.Equal(t, remap.MatchFold, spec.Match)
	assert.Equal(t, remap.Projection{"id", "title", "url"}, spec.Columns)
	assert.Equal(t, remap.CatalogRename, spec.Rename, "rename falls back to the catalog map")

	assert.Equal(t, "sqlite", j.Storage.Kind)
	assert.True(t, j.Storage.DB.AutoCreateTable)
	assert.True(t, j.Storage.DB.Replace)
	assert.Equal(t, 50, j.Storage.DB.BatchSize)

	// Defaults survive for keys the file leaves out.
	assert.Equal(t, "info", j.Logging.Level)
}

func TestLoad_YAMLReplacesRenameMap(t *testing.T) {
	t.Parallel()

	p := writeFile(t, "job.yaml", `
name: small
remap:
  rename:
    "Song Name": title
  columns: [title]
parser:
  kind: csv
  options:
    trim_header: false
`)
	j, err := Load(p)
	require.NoError(t, err)

	spec, err := j.RemapSpec()
	require.NoError(t, err)
	assert.Equal(t, remap.RenameMap{"Song Name": "title"}, spec.Rename)
	assert.Equal(t, remap.Projection{"title"}, spec.Columns)
	assert.False(t, j.Parser.Options.Bool("trim_header", true))
	assert.Equal(t, DefaultInput, j.InputPath())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.json", `{"name": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

func TestOptions_Getters(t *testing.T) {
	t.Parallel()

	o := Options{"s": "x", "b": true, "f": float64(3), "i": 4, "r": "|"}
	assert.Equal(t, "x", o.String("s", "d"))
	assert.Equal(t, "d", o.String("b", "d"))
	assert.True(t, o.Bool("b", false))
	assert.Equal(t, 3, o.Int("f", 0))
	assert.Equal(t, 4, o.Int("i", 0))
	assert.Equal(t, 9, o.Int("s", 9))
	assert.Equal(t, '|', o.Rune("r", ','))
	assert.Equal(t, ',', o.Rune("missing", ','))

	var nilOpts Options
	assert.Equal(t, "d", nilOpts.String("x", "d"))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("REMAP_INPUT", "in.csv")
	t.Setenv("REMAP_OUTPUT", "out.csv")
	t.Setenv("REMAP_MODE", "tolerant")
	t.Setenv("REMAP_IN_PLACE", "true")
	t.Setenv("REMAP_DB_DSN", "postgres://u@h/db")
	t.Setenv("REMAP_LOG_LEVEL", "debug")

	j := Default()
	require.NoError(t, ApplyEnv(&j))

	assert.Equal(t, "in.csv", j.InputPath())
	assert.Equal(t, "out.csv", j.Sink.Path)
	assert.True(t, j.Sink.InPlace)
	assert.Equal(t, "in.csv", j.OutputPath())
	assert.Equal(t, "tolerant", j.Remap.Mode)
	assert.Equal(t, "postgres://u@h/db", j.Storage.DB.DSN)
	assert.Equal(t, "debug", j.Logging.Level)
	assert.Equal(t, DefaultTable, j.Storage.DB.Table)
}

func TestApplyEnv_BadBool(t *testing.T) {
	t.Setenv("REMAP_IN_PLACE", "sometimes")

	j := Default()
	err := ApplyEnv(&j)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMAP_IN_PLACE")
}
