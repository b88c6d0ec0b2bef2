package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"lifeexp/internal/cleaning"
	"lifeexp/internal/config"
	"lifeexp/internal/datasource"
	"lifeexp/internal/datasource/httpds"
	"lifeexp/internal/loader"
	"lifeexp/internal/metrics"
	"lifeexp/internal/storage"
	"lifeexp/internal/storage/csvfile"
)

// summary is what a successful run reports.
type summary struct {
	Stats cleaning.Stats
	Saved int64
}

// run loads, cleans and saves once. Any stage failure stops the run before
// the next stage starts.
func run(ctx context.Context, cfg config.Config, log *slog.Logger) (*summary, error) {
	job := cfg.Metrics.Job

	start := time.Now()
	path, cleanup, err := resolveInput(ctx, cfg, log)
	if err != nil {
		metrics.RecordStep(job, metrics.StepLoad, err, time.Since(start))
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer cleanup()

	h := loader.NewHandler(loader.Options{
		Comma:     cfg.Input.CommaRune(),
		NAValues:  cfg.Input.NAValues,
		TrimSpace: cfg.Input.TrimSpace,
		Logger:    log,
	})
	t, err := h.Load(ctx, path, cfg.Input.Format)
	metrics.RecordStep(job, metrics.StepLoad, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	metrics.RecordRow(job, metrics.RowsLoaded, int64(t.Len()))

	start = time.Now()
	c := &cleaning.Cleaner{Logger: log, Strict: cfg.Region.IsStrict()}
	res, err := c.Clean(t, cfg.Region.Code)
	metrics.RecordStep(job, metrics.StepClean, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	metrics.RecordRow(job, metrics.RowsReshaped, int64(res.Stats.Reshaped))
	metrics.RecordRow(job, metrics.RowsKept, int64(res.Stats.Kept))
	metrics.RecordRow(job, metrics.RowsDroppedNull, int64(res.Stats.DroppedNull))

	start = time.Now()
	saved, err := storage.WriteAll(ctx, sinks(cfg, log), res.Observations)
	metrics.RecordStep(job, metrics.StepSave, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	metrics.RecordRow(job, metrics.RowsSaved, saved)

	return &summary{Stats: res.Stats, Saved: saved}, nil
}

// resolveInput returns a local path for the configured input, downloading
// http(s) inputs into a temp dir that cleanup removes.
func resolveInput(ctx context.Context, cfg config.Config, log *slog.Logger) (path string, cleanup func(), err error) {
	in := cfg.Input.Path
	if !datasource.IsRemote(in) {
		return in, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "lifeexp-*")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	client := httpds.NewClient(httpds.Config{
		Timeout:    cfg.HTTP.Timeout,
		MaxRetries: cfg.HTTP.MaxRetries,
	})
	path, err = client.Fetch(ctx, in, dir)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	log.Info("downloaded input", "url", in, "path", path)
	return path, cleanup, nil
}

// sinks lists the output CSV first, then the configured extra sinks.
func sinks(cfg config.Config, log *slog.Logger) []storage.Config {
	out := []storage.Config{{
		Kind:   csvfile.Kind,
		DSN:    cfg.OutputPath(),
		Job:    cfg.Metrics.Job,
		Logger: log,
	}}
	for _, s := range cfg.Sinks {
		out = append(out, storage.Config{
			Kind:            s.Kind,
			DSN:             s.DSN,
			Table:           s.Table,
			AutoCreateTable: s.AutoCreateTable,
			Replace:         s.Replace,
			BatchSize:       s.BatchSize,
			Job:             cfg.Metrics.Job,
			Logger:          log,
		})
	}
	return out
}
