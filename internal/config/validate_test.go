package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func findIssue(issues []Issue, path string) (Issue, bool) {
	for _, iss := range issues {
		if iss.Path == path {
			return iss, true
		}
	}
	return Issue{}, false
}

func TestValidateJob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(j *Job)
		path     string
		severity IssueSeverity
	}{
		{
			name:     "unknown source kind",
			mutate:   func(j *Job) { j.Source.Kind = "http" },
			path:     "source.kind",
			severity: SeverityError,
		},
		{
			name:     "empty input path",
			mutate:   func(j *Job) { j.Source.File.Path = " " },
			path:     "source.file.path",
			severity: SeverityError,
		},
		{
			name:     "unknown parser",
			mutate:   func(j *Job) { j.Parser.Kind = "parquet" },
			path:     "parser.kind",
			severity: SeverityError,
		},
		{
			name:     "multi-char comma",
			mutate:   func(j *Job) { j.Parser.Options = Options{"comma": ";;"} },
			path:     "parser.options.comma",
			severity: SeverityError,
		},
		{
			name:     "unknown encoding",
			mutate:   func(j *Job) { j.Parser.Options = Options{"encoding": "klingon"} },
			path:     "parser.options.encoding",
			severity: SeverityError,
		},
		{
			name:     "trim space warns",
			mutate:   func(j *Job) { j.Parser.Options = Options{"trim_space": true} },
			path:     "parser.options.trim_space",
			severity: SeverityWarning,
		},
		{
			name:     "bad mode",
			mutate:   func(j *Job) { j.Remap.Mode = "lenient" },
			path:     "remap",
			severity: SeverityError,
		},
		{
			name:     "duplicate projection",
			mutate:   func(j *Job) { j.Remap.Columns = []string{"id", "id"} },
			path:     "remap",
			severity: SeverityError,
		},
		{
			name:     "rename target not projected",
			mutate:   func(j *Job) { j.Remap.Columns = []string{"id"} },
			path:     "remap.rename",
			severity: SeverityWarning,
		},
		{
			name:     "empty sink",
			mutate:   func(j *Job) { j.Sink.Path = "" },
			path:     "sink.path",
			severity: SeverityError,
		},
		{
			name:     "sink equals source",
			mutate:   func(j *Job) { j.Sink.Path = "./" + DefaultInput },
			path:     "sink.path",
			severity: SeverityWarning,
		},
		{
			name:     "unknown storage",
			mutate:   func(j *Job) { j.Storage.Kind = "oracle" },
			path:     "storage.kind",
			severity: SeverityError,
		},
		{
			name:     "storage without dsn",
			mutate:   func(j *Job) { j.Storage.Kind = "postgres" },
			path:     "storage.db.dsn",
			severity: SeverityError,
		},
		{
			name: "storage columns width",
			mutate: func(j *Job) {
				j.Storage.Kind = "sqlite"
				j.Storage.DB.DSN = "x.db"
				j.Storage.DB.Columns = []string{"a"}
			},
			path:     "storage.db.columns",
			severity: SeverityError,
		},
		{
			name:     "pushgateway without url",
			mutate:   func(j *Job) { j.Metrics.Backend = "pushgateway" },
			path:     "metrics.pushgateway_url",
			severity: SeverityError,
		},
		{
			name:     "datadog without addr",
			mutate:   func(j *Job) { j.Metrics.Backend = "datadog" },
			path:     "metrics.datadog_addr",
			severity: SeverityError,
		},
		{
			name:     "unknown log level",
			mutate:   func(j *Job) { j.Logging.Level = "loud" },
			path:     "logging.level",
			severity: SeverityWarning,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			j := Default()
			tc.mutate(&j)
			issues := ValidateJob(j)

			iss, ok := findIssue(issues, tc.path)
			if assert.True(t, ok, "no issue at %s in %v", tc.path, issues) {
				assert.Equal(t, tc.severity, iss.Severity)
				assert.Contains(t, iss.Error(), tc.path)
			}
			assert.Equal(t, tc.severity == SeverityError, HasErrors(issues))
		})
	}
}

func TestValidateJob_InPlaceSkipsSinkPath(t *testing.T) {
	t.Parallel()

	j := Default()
	j.Sink = Sink{InPlace: true}
	assert.Empty(t, ValidateJob(j))
}
