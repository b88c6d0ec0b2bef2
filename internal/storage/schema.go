package storage

import (
	"lifeexp/internal/cleaning"
	"lifeexp/internal/ddl"
)

// Columns is the fixed output schema, in output order.
var Columns = []string{"unit", "sex", "age", "region", "year", "value"}

// ObservationTable is the SQL definition of the output schema. The identity
// dimensions plus year form the primary key.
func ObservationTable(fqn string) ddl.TableDef {
	return ddl.TableDef{
		FQN: fqn,
		Columns: []ddl.ColumnDef{
			{Name: "unit", Type: ddl.Text, PrimaryKey: true},
			{Name: "sex", Type: ddl.Text, PrimaryKey: true},
			{Name: "age", Type: ddl.Text, PrimaryKey: true},
			{Name: "region", Type: ddl.Text, PrimaryKey: true},
			{Name: "year", Type: ddl.Int, PrimaryKey: true},
			{Name: "value", Type: ddl.Float},
		},
	}
}

// Rows converts observations to rows aligned with Columns. Years are int64
// so every driver accepts them unchanged.
func Rows(obs []cleaning.Observation) [][]any {
	out := make([][]any, len(obs))
	for i, o := range obs {
		out[i] = []any{o.Unit, o.Sex, o.Age, o.Region, int64(o.Year), o.Value}
	}
	return out
}
