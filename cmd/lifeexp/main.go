// Command lifeexp cleans the life-expectancy-by-region dataset for one
// region and saves it as CSV, plus any SQL sinks listed in the config.
//
//	lifeexp -region ES -input data/eu_life_expectancy_raw.tsv
//	lifeexp -config lifeexp.yaml -validate
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"lifeexp/internal/config"
	"lifeexp/internal/logging"
	"lifeexp/internal/metrics"
	"lifeexp/internal/metrics/datadog"
	"lifeexp/internal/metrics/prompush"

	// register every sink with the storage factory.
	_ "lifeexp/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command and returns the process exit code.
func execute(ctx context.Context, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("lifeexp", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		cfgPath        = flags.String("config", "", "optional YAML config file")
		regionCode     = flags.String("region", config.DefaultRegion, "region code to keep")
		input          = flags.String("input", config.DefaultInputPath, "input file or http(s) URL (.tsv, .csv, .json or .zip)")
		output         = flags.String("output", "", "output CSV path (default data/<region>_life_expectancy.csv)")
		format         = flags.String("format", "", "force the loader: tsv, csv, json or zip")
		strict         = flags.Bool("strict", true, "fail on unknown regions and empty results")
		validate       = flags.Bool("validate", false, "validate the configuration and exit")
		metricsBackend = flags.String("metrics-backend", "", "metrics backend: none, prometheus or datadog")
		pushGatewayURL = flags.String("pushgateway-url", "", "Pushgateway base URL for the prometheus backend")
		verbose        = flags.Bool("v", false, "enable debug logs")
	)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "load .env: %v\n", err)
		return 1
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	// Flags win over file and environment, but only when given.
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "region":
			cfg.Region.Code = *regionCode
		case "input":
			cfg.Input.Path = *input
		case "output":
			cfg.Output.Path = *output
		case "format":
			cfg.Input.Format = *format
		case "strict":
			cfg.Region.Strict = strict
		case "metrics-backend":
			cfg.Metrics.Backend = *metricsBackend
		case "pushgateway-url":
			cfg.Metrics.PushgatewayURL = *pushGatewayURL
		case "v":
			if *verbose {
				cfg.Log.Level = "debug"
			}
		}
	})

	log := logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: stderr})

	issues := config.ValidateConfig(cfg)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Error("Configuration is invalid", "config", *cfgPath)
		return 1
	}
	if *validate {
		log.Info("Configuration is valid", "config", *cfgPath)
		return 0
	}

	flush := setupMetrics(cfg.Metrics, log)
	defer flush()

	log = log.With("run_id", uuid.NewString(), "region", cfg.Region.Code)
	start := time.Now()
	sum, err := run(ctx, cfg, log)
	if err != nil {
		log.Error("run failed", "err", err)
		return 1
	}
	log.Info("completed",
		"saved", sum.Saved,
		"kept", sum.Stats.Kept,
		"elapsed", time.Since(start).Truncate(time.Millisecond))
	return 0
}

// setupMetrics installs the configured backend and returns its flush. A
// backend that fails to initialise leaves metrics disabled.
func setupMetrics(m config.MetricsConfig, log *slog.Logger) (flush func()) {
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "prometheus":
		b, err = prompush.NewBackend(m.Job, m.PushgatewayURL)
	case "datadog":
		addr := m.DatadogAddr
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err = datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "lifeexp.", Tags: []string{"job:" + m.Job}})
	default:
		log.Debug("metrics disabled", "backend", m.Backend)
		return func() {}
	}
	if err != nil {
		log.Warn("metrics backend unavailable; metrics disabled", "backend", m.Backend, "err", err)
		return func() {}
	}

	log.Info("metrics enabled", "backend", m.Backend, "job", m.Job)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", "err", err)
		}
		metrics.SetBackend(nil)
	}
}
