// Package mysql implements the MySQL sink on database/sql with
// go-sql-driver/mysql, loading rows with multi-row INSERT statements.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"lifeexp/internal/ddl"
	"lifeexp/internal/storage"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN   string // go-sql-driver format, e.g. "user:pass@tcp(localhost:3306)/life"
	Table string
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// ParseDSN validates dsn and returns the driver config.
func ParseDSN(dsn string) (*mysql.Config, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("mysql dsn: empty")
	}
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	return c, nil
}

// NewRepository opens and pings a connection pool.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, nil, fmt.Errorf("mysql: table is required")
	}
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom inserts rows with one multi-row INSERT inside a transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mysql: row %d has %d values, want %d", i, len(row), len(columns))
		}
		args = append(args, row...)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	res, err := tx.ExecContext(ctx, storage.InsertSQL(ddl.MySQL, r.cfg.Table, columns, len(rows)), args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mysql insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return res.RowsAffected()
}

// Exec runs a single statement.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// DeleteRegion removes the rows previously saved for region.
func (r *Repository) DeleteRegion(ctx context.Context, region string) (int64, error) {
	res, err := r.db.ExecContext(ctx, storage.DeleteRegionSQL(ddl.MySQL, r.cfg.Table), region)
	if err != nil {
		return 0, fmt.Errorf("delete region: %w", err)
	}
	return res.RowsAffected()
}
