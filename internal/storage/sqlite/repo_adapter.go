package sqlite

import (
	"context"

	"lifeexp/internal/ddl"
	"lifeexp/internal/storage"
)

// Kind is the storage.kind this package registers.
const Kind = "sqlite"

// newRepository is a test hook; tests replace it to avoid opening files.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var (
	_ storage.Repository = (*wrappedRepo)(nil)
	_ storage.Execer     = (*wrappedRepo)(nil)
	_ storage.Purger     = (*wrappedRepo)(nil)
)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL(Kind, func(ctx context.Context, repo storage.Repository, table string) error {
		return storage.CreateTable(ctx, repo, ddl.SQLite, table)
	})
}
