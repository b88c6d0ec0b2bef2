package mysql

import (
	"context"

	"lifeexp/internal/ddl"
	"lifeexp/internal/storage"
)

// Kind is the storage.kind this package registers.
const Kind = "mysql"

// newRepository is a test hook; tests replace it to avoid a real server.
var newRepository = NewRepository

var (
	_ storage.Repository = (*wrappedRepo)(nil)
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
		return storage.CreateTable(ctx, repo, ddl.MySQL, table)
	})
}

// wrappedRepo adds the pool's close function to *Repository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() { w.closeFn() }
