package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lifeexp/internal/ddl"
)

// DDLBootstrapper creates the observation table for one backend kind.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL installs (or replaces) the bootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable runs the bootstrapper registered for kind.
func EnsureTable(ctx context.Context, kind, table string, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table)
}

// CreateTable is the DDLBootstrapper body shared by the SQL backends: it
// renders ObservationTable in d and runs it through repo's Execer.
func CreateTable(ctx context.Context, repo Repository, d ddl.Dialect, table string) error {
	ex, ok := repo.(Execer)
	if !ok {
		return fmt.Errorf("%s: repository %T cannot execute DDL", d.Name, repo)
	}
	stmt, err := ddl.BuildCreateTableSQL(ObservationTable(table), d)
	if err != nil {
		return fmt.Errorf("build DDL: %w", err)
	}
	if err := ex.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply DDL: %w", err)
	}
	return nil
}

// InsertSQL renders a multi-row INSERT of n rows into table.
func InsertSQL(d ddl.Dialect, table string, columns []string, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", d.QuoteFQN(table), strings.Join(d.QuoteAll(columns), ", "))
	p := 1
	for r := 0; r < n; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Placeholder(p))
			p++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// DeleteRegionSQL renders the replace-mode delete for table.
func DeleteRegionSQL(d ddl.Dialect, table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s", d.QuoteFQN(table), d.Quote("region"), d.Placeholder(1))
}
