package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lifeexp/internal/cleaning"
	"lifeexp/internal/logging"
	"lifeexp/internal/metrics"
)

// Write saves obs to the sink described by cfg and returns the number of
// rows written. An empty obs is not an error: nothing is opened and a
// warning is logged.
func Write(ctx context.Context, cfg Config, obs []cleaning.Observation) (int64, error) {
	log := logging.OrDefault(cfg.Logger).With("sink", cfg.Kind)
	if len(obs) == 0 {
		log.Warn("Nothing will be saved.")
		return 0, nil
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = Columns
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	region := obs[0].Region

	repo, err := New(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if cfg.AutoCreateTable {
		if err := EnsureTable(ctx, cfg.Kind, cfg.Table, repo); err != nil {
			return 0, fmt.Errorf("%s: ensure table: %w", cfg.Kind, err)
		}
	}
	if cfg.Replace {
		if p, ok := repo.(Purger); ok {
			n, err := p.DeleteRegion(ctx, region)
			if err != nil {
				return 0, fmt.Errorf("%s: delete region %s: %w", cfg.Kind, region, err)
			}
			log.Info("replaced previous rows", "region", region, "deleted", n)
		}
	}

	feedCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	st, err := LoadBatches(feedCtx, log, cfg.Columns, Feed(feedCtx, Rows(obs)), batch, repo.CopyFrom)
	metrics.RecordBatches(cfg.Job, cfg.Kind, st.Batches)
	if err != nil {
		return st.Rows, err
	}

	if c, ok := repo.(Committer); ok {
		if err := c.Commit(ctx); err != nil {
			return 0, err
		}
	}
	log.Info(fmt.Sprintf("Successfully saved cleaned data for region %s at %s", region, cfg.Target()),
		"rows", st.Rows, "batches", st.Batches)
	return st.Rows, nil
}

// WriteAll writes obs to every sink concurrently. The first failure cancels
// the others and is returned; the count is the sum over sinks that finished.
func WriteAll(ctx context.Context, cfgs []Config, obs []cleaning.Observation) (int64, error) {
	counts := make([]int64, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		g.Go(func() error {
			n, err := Write(gctx, cfg, obs)
			counts[i] = n
			return err
		})
	}
	err := g.Wait()
	var total int64
	for _, n := range counts {
		total += n
	}
	return total, err
}
