// Package cleaning turns the raw life-expectancy table into typed, filtered
// observations.
//
// The wide Eurostat layout goes through four stages, in this order:
//
//	Decompose  "unit,sex,age,geo\time" -> unit | sex | age | region
//	Melt       year columns           -> year | value   (one row per cell)
//	Coerce     strings                -> Record{Year int, Value NullFloat64}
//	Filter     region == code && value != null -> Observation
//
// The JSON layout is already long and only needs its columns renamed before
// Coerce. Every stage returns new values; input tables are never modified.
package cleaning

import (
	"fmt"
	"strings"

	"lifeexp/internal/table"
)

// CompositeColumn is the header of the wide layout's composite key column.
const CompositeColumn = `unit,sex,age,geo\time`

// IdentityColumns are the dimensions encoded in CompositeColumn, in order.
var IdentityColumns = []string{"unit", "sex", "age", "region"}

// Decompose splits CompositeColumn into the four IdentityColumns and drops
// it. The identity columns come first, followed by the remaining columns in
// their original order.
//
// Every composite value must contain exactly three commas; anything else is
// a *CompositeKeyError. Nothing is padded or truncated.
func Decompose(t *table.Table) (*table.Table, error) {
	src := t.Index(CompositeColumn)
	if src < 0 {
		return nil, fmt.Errorf("decompose: %w: %q", ErrMissingColumn, CompositeColumn)
	}

	rest := make([]int, 0, len(t.Columns)-1)
	cols := append([]string{}, IdentityColumns...)
	for i, c := range t.Columns {
		if i == src {
			continue
		}
		rest = append(rest, i)
		cols = append(cols, c)
	}

	out := table.New(cols...)
	out.Rows = make([][]any, 0, t.Len())
	for r, row := range t.Rows {
		s, ok := row[src].(string)
		if !ok {
			return nil, fmt.Errorf("decompose: %w", &CompositeKeyError{Row: r, Value: row[src]})
		}
		parts := strings.Split(s, ",")
		if len(parts) != len(IdentityColumns) {
			return nil, fmt.Errorf("decompose: %w", &CompositeKeyError{Row: r, Value: s, Parts: len(parts)})
		}

		cells := make([]any, 0, len(cols))
		for _, p := range parts {
			cells = append(cells, p)
		}
		for _, i := range rest {
			cells = append(cells, row[i])
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}
