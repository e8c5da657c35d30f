// Package config defines the serializable configuration model for a remap
// job. A job file (JSON or YAML) names where the catalog export comes from,
// how to parse it, which columns to rename and keep, where to write the
// result and, optionally, which database table to load it into.
//
// Field names mirror the keys used in job files:
//
//	{
//	  "name":    "gpm_catalog",
//	  "source":  { "kind": "file", "file": { "path": "gpm_stl.csv" } },
//	  "parser":  { "kind": "csv", "options": { "comma": ",", "encoding": "utf-8" } },
//	  "remap":   { "mode": "tolerant", "match": "exact" },
//	  "sink":    { "path": "clean_import.csv" },
//	  "storage": { "kind": "postgres", "db": { "dsn": "...", "table": "tracks" } }
//	}
//
// Any key left out keeps its value from Default, so an empty file describes
// the built-in catalog job.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"trackremap/internal/remap"
)

const (
	// DefaultInput is read when no input is configured.
	DefaultInput = "gpm_stl.csv"
	// DefaultOutput is written when no output is configured and the job is
	// not in-place.
	DefaultOutput = "clean_import.csv"
	// DefaultTable is the catalog table used by the optional load step.
	DefaultTable = "tracks"
	// DefaultBatchSize is the number of rows per load batch.
	DefaultBatchSize = 500
)

// Job is the top-level object decoded from a job file.
type Job struct {
	// Name labels logs and metrics for this job.
	Name string `json:"name" yaml:"name"`

	Source  Source  `json:"source" yaml:"source"`
	Parser  Parser  `json:"parser" yaml:"parser"`
	Remap   Remap   `json:"remap" yaml:"remap"`
	Sink    Sink    `json:"sink" yaml:"sink"`
	Storage Storage `json:"storage" yaml:"storage"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`
	Logging Logging `json:"logging" yaml:"logging"`
}

// Source identifies the input. The only kind is "file".
type Source struct {
	Kind string     `json:"kind" yaml:"kind"`
	File SourceFile `json:"file" yaml:"file"`
}

// SourceFile holds the "file" source settings.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// Parser selects how the input bytes become a table.
type Parser struct {
	// Kind is "csv" or "xlsx".
	Kind string `json:"kind" yaml:"kind"`

	// Options is interpreted by the parser. CSV keys: comma (string),
	// lazy_quotes (bool), trim_space (bool), trim_header (bool),
	// encoding (string). XLSX keys: sheet (string).
	Options Options `json:"options" yaml:"options"`
}

// Remap configures the rename map, the projection and the missing-column
// policy. Empty Rename/Columns fall back to the catalog tables.
type Remap struct {
	Rename  map[string]string `json:"rename" yaml:"rename"`
	Columns []string          `json:"columns" yaml:"columns"`
	// Mode is "strict" (default) or "tolerant".
	Mode string `json:"mode" yaml:"mode"`
	// Match is "exact" (default) or "fold".
	Match string `json:"match" yaml:"match"`
}

// Sink describes where the remapped CSV goes.
type Sink struct {
	// Path is the output file. Ignored when InPlace is set.
	Path string `json:"path" yaml:"path"`
	// InPlace overwrites the source file.
	InPlace bool `json:"in_place" yaml:"in_place"`
}

// Storage optionally loads the remapped table into a database. An empty Kind
// disables the load.
type Storage struct {
	// Kind is one of "postgres", "sqlite", "mssql", "mysql" or "".
	Kind string   `json:"kind" yaml:"kind"`
	DB   DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the load target.
type DBConfig struct {
	// DSN is handed to the backend driver unchanged.
	DSN string `json:"dsn" yaml:"dsn"`

	// Table is the possibly schema-qualified target table.
	Table string `json:"table" yaml:"table"`

	// Columns are the destination columns, aligned with the output table.
	// Empty means "the output columns".
	Columns []string `json:"columns" yaml:"columns"`

	// AutoCreateTable creates the table (one text column per output column)
	// when it does not exist.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`

	// Replace deletes every existing row before loading.
	Replace bool `json:"replace" yaml:"replace"`

	// BatchSize is the number of rows per bulk insert.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Metrics selects a metrics backend: "none" (default), "pushgateway" or
// "datadog".
type Metrics struct {
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr"`
}

// Logging configures the process logger.
type Logging struct {
	// Level is debug, info, warn or error.
	Level string `json:"level" yaml:"level"`
	// Format is text or json.
	Format string `json:"format" yaml:"format"`
	// SeqURL additionally ships records to a Seq server when non-empty.
	SeqURL string `json:"seq_url" yaml:"seq_url"`
}

// Default returns the built-in catalog job: read gpm_stl.csv, apply the
// catalog remap in strict mode and write clean_import.csv.
func Default() Job {
	return Job{
		Name:   "gpm_catalog",
		Source: Source{Kind: "file", File: SourceFile{Path: DefaultInput}},
		Parser: Parser{Kind: "csv", Options: Options{}},
		// Rename and Columns stay nil so that a job file replaces rather than
		// merges into the catalog tables; RemapSpec falls back to them.
		Remap: Remap{
			Mode:  remap.Strict.String(),
			Match: remap.MatchExact.String(),
		},
		Sink: Sink{Path: DefaultOutput},
		Storage: Storage{
			DB: DBConfig{Table: DefaultTable, BatchSize: DefaultBatchSize},
		},
		Metrics: Metrics{Backend: "none"},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Load reads a job file on top of Default. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func Load(path string) (Job, error) {
	j := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return j, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &j)
	default:
		err = json.Unmarshal(b, &j)
	}
	if err != nil {
		return j, fmt.Errorf("decode config %s: %w", path, err)
	}
	if j.Parser.Options == nil {
		j.Parser.Options = Options{}
	}
	return j, nil
}

// InputPath returns the configured input file.
func (j Job) InputPath() string { return j.Source.File.Path }

// OutputPath returns the file the sink writes: the input itself when
// InPlace is set, the sink path otherwise.
func (j Job) OutputPath() string {
	if j.Sink.InPlace {
		return j.Source.File.Path
	}
	return j.Sink.Path
}

// RemapSpec turns the Remap section into a remap.Spec.
func (j Job) RemapSpec() (remap.Spec, error) {
	mode, err := remap.ParseMode(j.Remap.Mode)
	if err != nil {
		return remap.Spec{}, err
	}
	match, err := remap.ParseMatch(j.Remap.Match)
	if err != nil {
		return remap.Spec{}, err
	}
	spec := remap.CatalogSpec(mode)
	spec.Match = match
	if len(j.Remap.Rename) > 0 {
		spec.Rename = remap.RenameMap(j.Remap.Rename)
	}
	if len(j.Remap.Columns) > 0 {
		spec.Columns = remap.Projection(j.Remap.Columns)
	}
	return spec, nil
}
