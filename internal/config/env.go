package config

import (
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. REMAP_INPUT.
const EnvPrefix = "REMAP"

// envOverrides lists the REMAP_* variables ApplyEnv understands. Unset
// variables leave the job untouched.
type envOverrides struct {
	Input          string `envconfig:"INPUT"`
	Output         string `envconfig:"OUTPUT"`
	InPlace        string `envconfig:"IN_PLACE"`
	Mode           string `envconfig:"MODE"`
	Match          string `envconfig:"MATCH"`
	StorageKind    string `envconfig:"STORAGE_KIND"`
	DSN            string `envconfig:"DB_DSN"`
	Table          string `envconfig:"DB_TABLE"`
	MetricsBackend string `envconfig:"METRICS_BACKEND"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL"`
	DatadogAddr    string `envconfig:"DATADOG_ADDR"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	LogFormat      string `envconfig:"LOG_FORMAT"`
	SeqURL         string `envconfig:"SEQ_URL"`
}

// ApplyEnv overlays REMAP_* environment variables on j.
func ApplyEnv(j *Job) error {
	var e envOverrides
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&j.Source.File.Path, e.Input)
	set(&j.Sink.Path, e.Output)
	set(&j.Remap.Mode, e.Mode)
	set(&j.Remap.Match, e.Match)
	set(&j.Storage.Kind, e.StorageKind)
	set(&j.Storage.DB.DSN, e.DSN)
	set(&j.Storage.DB.Table, e.Table)
	set(&j.Metrics.Backend, e.MetricsBackend)
	set(&j.Metrics.PushgatewayURL, e.PushgatewayURL)
	set(&j.Metrics.DatadogAddr, e.DatadogAddr)
	set(&j.Logging.Level, e.LogLevel)
	set(&j.Logging.Format, e.LogFormat)
	set(&j.Logging.SeqURL, e.SeqURL)

	if e.InPlace != "" {
		b, err := strconv.ParseBool(e.InPlace)
		if err != nil {
			return fmt.Errorf("%s_IN_PLACE: %w", EnvPrefix, err)
		}
		j.Sink.InPlace = b
	}
	return nil
}
