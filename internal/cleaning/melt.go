package cleaning

import (
	"fmt"
	"slices"

	"lifeexp/internal/table"
)

// Melt unpivots t: every column not listed in idVars becomes a row carrying
// the id values, the column name under varName and the cell under valueName.
//
// The result has t.Len() * (len(t.Columns) - len(idVars)) rows, ordered by
// input row first and value column second.
func Melt(t *table.Table, idVars []string, varName, valueName string) (*table.Table, error) {
	ids := make([]int, len(idVars))
	for i, name := range idVars {
		idx := t.Index(name)
		if idx < 0 {
			return nil, fmt.Errorf("melt: %w: %q", ErrMissingColumn, name)
		}
		ids[i] = idx
	}

	var vars []int
	for i, c := range t.Columns {
		if !slices.Contains(idVars, c) {
			vars = append(vars, i)
		}
	}

	out := table.New(append(slices.Clone(idVars), varName, valueName)...)
	out.Rows = make([][]any, 0, t.Len()*len(vars))
	for _, row := range t.Rows {
		for _, v := range vars {
			cells := make([]any, 0, len(ids)+2)
			for _, i := range ids {
				cells = append(cells, row[i])
			}
			cells = append(cells, t.Columns[v], row[v])
			out.Rows = append(out.Rows, cells)
		}
	}
	return out, nil
}
