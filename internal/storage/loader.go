package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lifeexp/internal/logging"
)

// CopyFn inserts rows aligned to columns and reports how many were written.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// BatchStats summarises a LoadBatches call.
type BatchStats struct {
	Rows    int64
	Batches int64
}

// LoadBatches drains in, groups rows into batches of batchSize and calls
// copyFn per non-empty batch. It stops at the first copy error or when ctx
// is done; the stats count what was written before that.
func LoadBatches(
	ctx context.Context,
	log *slog.Logger,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (BatchStats, error) {
	if batchSize <= 0 {
		return BatchStats{}, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return BatchStats{}, fmt.Errorf("copyFn must not be nil")
	}
	log = logging.OrDefault(log)

	var (
		st    BatchStats
		batch = make([][]any, 0, batchSize)
		start = time.Now()
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		st.Rows += n
		batch = batch[:0]
		if err != nil {
			log.Error("batch copy failed", "batch", st.Batches+1, "total", st.Rows, "err", err)
			return err
		}
		st.Batches++
		log.Debug("batch flushed", "batch", st.Batches, "inserted", n, "total", st.Rows,
			"elapsed", time.Since(start).Truncate(time.Millisecond))
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case row, ok := <-in:
			if !ok {
				return st, flush()
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				// CopyFn may retain rows; start a fresh slice.
				if err := flush(); err != nil {
					return st, err
				}
				batch = make([][]any, 0, batchSize)
			}
		}
	}
}

// Feed streams rows on a channel that is closed after the last row or when
// ctx is done.
func Feed(ctx context.Context, rows [][]any) <-chan []any {
	ch := make(chan []any)
	go func() {
		defer close(ch)
		for _, r := range rows {
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
