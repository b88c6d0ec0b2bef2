// Package ddl is a small model of table definitions plus per-dialect
// rendering of CREATE TABLE statements for the SQL sinks.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a create-if-missing statement for t in d.
//
// Each column becomes `<quoted name> <type> [NOT NULL]`. Primary-key columns
// are always NOT NULL and are collected, in column order, into a trailing
// PRIMARY KEY clause.
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s ddl: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s ddl: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s ddl: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(d.MapType(c.Type))
		if typ == "" {
			return "", fmt.Errorf("%s ddl: column %s missing type", d.Name, name)
		}

		col := d.Quote(name) + " " + typ
		if !c.Nullable || c.PrimaryKey {
			col += " NOT NULL"
		}
		cols = append(cols, col)
		if c.PrimaryKey {
			pks = append(pks, d.Quote(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return d.CreateIfMissing(d.QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}
