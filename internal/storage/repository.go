// Package storage is the backend-agnostic side of writing cleaned
// observations. Backends register a Factory under a kind in their init
// function; callers open them with New and write through Write, without
// importing the backend packages (see storage/all).
//
// Repository only requires bulk copy and Close. Backends opt into the rest
// by implementing Execer (DDL), Purger (replace mode) or Committer (staged
// writes that become visible on Commit).
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Repository is a destination for rows aligned to a column list.
type Repository interface {
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Close()
}

// Execer runs a single SQL statement.
type Execer interface {
	Exec(ctx context.Context, sql string) error
}

// Purger deletes previously written rows of one region.
type Purger interface {
	DeleteRegion(ctx context.Context, region string) (int64, error)
}

// Committer publishes everything copied so far. Close without Commit
// discards it.
type Committer interface {
	Commit(ctx context.Context) error
}

// Config describes one sink.
type Config struct {
	Kind  string
	DSN   string
	Table string

	// Columns defaults to Columns.
	Columns []string

	AutoCreateTable bool
	Replace         bool

	// BatchSize defaults to DefaultBatchSize.
	BatchSize int

	// Job labels batch metrics.
	Job    string
	Logger *slog.Logger
}

// DefaultBatchSize is used when Config.BatchSize is not positive.
const DefaultBatchSize = 1000

// Target names the sink in log lines without exposing credentials.
func (c Config) Target() string {
	if c.Kind == "csv" {
		return c.DSN
	}
	return c.Kind + ":" + c.Table
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = Columns
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
