// Package table is the in-memory tabular model passed between the loader and
// the cleaner: ordered column names plus rows of cells.
//
// A cell is nil (null / missing observation), a string, or a scalar decoded
// from JSON (json.Number, bool). Stages treat tables as values: they build a
// new Table instead of writing into the one they were given.
package table

import (
	"fmt"
	"slices"
)

// Table holds rows aligned to Columns. len(row) == len(Columns) for every row.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New returns an empty table with a copy of the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Empty returns a table with no columns and no rows. Loaders return it on
// failure so callers never have to nil-check.
func Empty() *Table { return &Table{} }

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return t.Len() == 0 }

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	return slices.Index(t.Columns, name)
}

// Has reports whether every named column is present.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if t.Index(n) < 0 {
			return false
		}
	}
	return true
}

// Append adds a row. It returns an error when the width does not match.
func (t *Table) Append(row ...any) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("table: row has %d cells, want %d", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Column returns the cells of the named column, or false if absent.
func (t *Table) Column(name string) ([]any, bool) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, true
}

// Clone returns a deep copy of the column list and row slices. Cell values
// are immutable scalars and are shared.
func (t *Table) Clone() *Table {
	if t == nil {
		return Empty()
	}
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = slices.Clone(r)
	}
	return out
}

// Rename returns a copy of t with columns renamed according to m. Columns
// not in m keep their names.
func (t *Table) Rename(m map[string]string) *Table {
	out := t.Clone()
	for i, c := range out.Columns {
		if to, ok := m[c]; ok {
			out.Columns[i] = to
		}
	}
	return out
}
