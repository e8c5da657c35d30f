// Package config provides configuration models and helpers for remap jobs.
//
// This file adds a lightweight linter for Job values. It performs static
// checks over a decoded Job and returns a list of issues (errors and
// warnings) that the CLI surfaces before doing any work.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"trackremap/internal/remap"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single finding. Path is a dotted path into the config
// (e.g. "storage.db.dsn").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateJob lints j without mutating it.
func ValidateJob(j Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(j.Name) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "name",
			Message:  "name is empty; logs and metrics will be unlabeled",
		})
	}
	issues = append(issues, validateSource(j.Source)...)
	issues = append(issues, validateParser(j.Parser)...)
	issues = append(issues, validateRemap(j)...)
	issues = append(issues, validateSink(j)...)
	issues = append(issues, validateStorage(j)...)
	issues = append(issues, validateMetrics(j.Metrics)...)
	issues = append(issues, validateLogging(j.Logging)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if s.Kind != "file" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unsupported source kind %q; only \"file\" is available", s.Kind),
		})
		return issues
	}
	if strings.TrimSpace(s.File.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.file.path",
			Message:  "file source requires a non-empty path",
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	switch p.Kind {
	case "csv":
		if c := p.Options.String("comma", ","); len([]rune(c)) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.options.comma",
				Message:  fmt.Sprintf("comma must be a single character, got %q", c),
			})
		}
		if enc := p.Options.String("encoding", ""); enc != "" {
			if _, err := htmlindex.Get(enc); err != nil {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     "parser.options.encoding",
					Message:  fmt.Sprintf("unknown encoding %q", enc),
				})
			}
		}
		if p.Options.Bool("trim_space", false) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "parser.options.trim_space",
				Message:  "trim_space rewrites cell values; output will not match input byte-for-byte",
			})
		}
	case "xlsx":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unsupported parser kind %q; want csv or xlsx", p.Kind),
		})
	}
	return issues
}

func validateRemap(j Job) []Issue {
	var issues []Issue
	spec, err := j.RemapSpec()
	if err != nil {
		return append(issues, Issue{Severity: SeverityError, Path: "remap", Message: err.Error()})
	}
	if err := spec.Validate(); err != nil {
		return append(issues, Issue{Severity: SeverityError, Path: "remap", Message: err.Error()})
	}
	kept := make(map[string]struct{}, len(spec.Columns))
	for _, c := range spec.Columns {
		kept[c] = struct{}{}
	}
	for from, to := range spec.Rename {
		if _, ok := kept[to]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "remap.rename",
				Message:  fmt.Sprintf("%q is renamed to %q, which is not projected and will be dropped", from, to),
			})
		}
	}
	return issues
}

func validateSink(j Job) []Issue {
	var issues []Issue
	if j.Sink.InPlace {
		return issues
	}
	out := strings.TrimSpace(j.Sink.Path)
	if out == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.path",
			Message:  "sink.path must not be empty unless sink.in_place is set",
		})
		return issues
	}
	if filepath.Clean(out) == filepath.Clean(j.Source.File.Path) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sink.path",
			Message:  "sink.path is the source file; set sink.in_place to make the overwrite explicit",
		})
	}
	return issues
}

func validateStorage(j Job) []Issue {
	var issues []Issue
	s := j.Storage
	if s.Kind == "" {
		return issues
	}
	switch s.Kind {
	case "postgres", "sqlite", "mssql", "mysql":
	default:
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; want postgres, sqlite, mssql or mysql", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}
	if s.DB.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; the default of %d will be used", s.DB.BatchSize, DefaultBatchSize),
		})
	}
	spec, err := j.RemapSpec()
	if err != nil || len(s.DB.Columns) == 0 {
		return issues
	}
	if len(s.DB.Columns) != len(spec.Columns) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.columns",
			Message: fmt.Sprintf("storage.db.columns has %d entries but the projection has %d",
				len(s.DB.Columns), len(spec.Columns)),
		})
	}
	if spec.Mode == remap.Tolerant {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.columns",
			Message:  "explicit columns with tolerant mode fail the load when a projected column is skipped",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if m.PushgatewayURL == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires pushgateway_url",
			})
		}
	case "datadog":
		if m.DatadogAddr == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires datadog_addr",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", m.Backend),
		})
	}
	return issues
}

func validateLogging(l Logging) []Issue {
	var issues []Issue
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "logging.level",
			Message:  fmt.Sprintf("unknown level %q; info will be used", l.Level),
		})
	}
	switch strings.ToLower(l.Format) {
	case "", "text", "json":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "logging.format",
			Message:  fmt.Sprintf("unknown format %q; text will be used", l.Format),
		})
	}
	return issues
}
