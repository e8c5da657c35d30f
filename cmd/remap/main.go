// Command remap renames and projects the columns of a music catalog export.
//
// With no arguments it reads gpm_stl.csv, applies the catalog rename table in
// strict mode and writes clean_import.csv:
//
//	remap
//	remap -in-place -mode tolerant          # rewrite gpm_stl.csv itself
//	remap -config job.yaml -dry-run         # print the plan for a header
//
// Settings are resolved as flags > REMAP_* environment > config file >
// built-in defaults.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trackremap/internal/config"
	"trackremap/internal/logging"
	"trackremap/internal/metrics"
	"trackremap/internal/metrics/datadog"
	"trackremap/internal/metrics/prompush"

	// register every storage backend; the job picks one by kind.
	_ "trackremap/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	cfgPath        string
	in             string
	out            string
	inPlace        bool
	mode           string
	match          string
	dryRun         bool
	validate       bool
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	verbose        bool

	// set records which flags appeared on the command line.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("remap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.cfgPath, "config", "", "job config path (.json, .yaml or .yml)")
	fs.StringVar(&f.in, "in", "", "input file (default "+config.DefaultInput+")")
	fs.StringVar(&f.out, "out", "", "output file (default "+config.DefaultOutput+")")
	fs.BoolVar(&f.inPlace, "in-place", false, "overwrite the input file")
	fs.StringVar(&f.mode, "mode", "", "missing column policy: strict or tolerant (default strict)")
	fs.StringVar(&f.match, "match", "", "header matching: exact or fold (default exact)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the rename/project plan for the input header and exit")
	fs.BoolVar(&f.validate, "validate", false, "validate the configuration and exit")
	fs.StringVar(&f.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog")
	fs.StringVar(&f.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL")
	fs.StringVar(&f.datadogAddr, "datadog-addr", "", "DogStatsD address, e.g. 127.0.0.1:8125")
	fs.BoolVar(&f.verbose, "v", false, "enable debug logs")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	f.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// resolveJob layers defaults, the config file, the environment and flags.
func resolveJob(f cliFlags) (config.Job, error) {
	job := config.Default()
	if f.cfgPath != "" {
		var err error
		if job, err = config.Load(f.cfgPath); err != nil {
			return job, err
		}
	}
	if err := config.ApplyEnv(&job); err != nil {
		return job, err
	}

	if f.set["in"] {
		job.Source.File.Path = f.in
	}
	if f.set["out"] {
		job.Sink.Path = f.out
	}
	if f.set["in-place"] {
		job.Sink.InPlace = f.inPlace
	}
	if f.set["mode"] {
		job.Remap.Mode = f.mode
	}
	if f.set["match"] {
		job.Remap.Match = f.match
	}
	if f.set["metrics-backend"] {
		job.Metrics.Backend = f.metricsBackend
	}
	if f.set["pushgateway-url"] {
		job.Metrics.PushgatewayURL = f.pushgatewayURL
	}
	if f.set["datadog-addr"] {
		job.Metrics.DatadogAddr = f.datadogAddr
	}
	if f.verbose {
		job.Logging.Level = "debug"
	}
	return job, nil
}

// run is main without the process exit, returning the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "remap: %v\n", err)
		return 1
	}

	job, err := resolveJob(f)
	if err != nil {
		fmt.Fprintf(stderr, "remap: %v\n", err)
		return 1
	}

	issues := config.ValidateJob(job)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintln(stderr, "remap: configuration is invalid")
		return 1
	}
	if f.validate {
		fmt.Fprintln(stdout, "configuration is valid")
		return 0
	}

	logger, closeLog := logging.New(job.Logging, job.Name, stderr)
	defer closeLog()
	prev := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(prev)

	if f.dryRun {
		if err := dryRunFn(ctx, job, stdout); err != nil {
			fmt.Fprintf(stderr, "remap: %v\n", err)
			return 1
		}
		return 0
	}

	flush := setupMetrics(job, logger)
	defer flush()

	start := time.Now()
	sum, err := runJobFn(ctx, job, logger)
	if err != nil {
		logger.Error("run failed", "err", err, "elapsed", time.Since(start).Truncate(time.Millisecond))
		fmt.Fprintf(stderr, "remap: %v\n", err)
		return 1
	}
	logger.Debug("completed", "elapsed", time.Since(start).Truncate(time.Millisecond))
	fmt.Fprintln(stdout, sum)
	return 0
}

// setupMetrics installs the configured backend and returns a function that
// flushes it. An unusable backend leaves metrics disabled.
func setupMetrics(job config.Job, logger *slog.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch job.Metrics.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(job.Name, job.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       job.Metrics.DatadogAddr,
			Namespace:  "trackremap.",
			GlobalTags: []string{"job:" + job.Name},
		})
	case "", "none":
		logger.Debug("metrics disabled")
		return func() {}
	default:
		logger.Warn("unknown metrics backend; metrics disabled", "backend", job.Metrics.Backend)
		return func() {}
	}
	if err != nil {
		logger.Warn("metrics backend unavailable; metrics disabled", "backend", job.Metrics.Backend, "err", err)
		return func() {}
	}

	logger.Debug("metrics enabled", "backend", job.Metrics.Backend)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("metrics flush failed", "err", err)
		}
		metrics.SetBackend(nil)
	}
}
