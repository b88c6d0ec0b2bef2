package ddl

// Logical column types. Dialects map them to concrete SQL types; any other
// Type value is emitted verbatim.
const (
	Text  = "text"
	Int   = "int"
	Float = "float"
)

// ColumnDef describes one column. Name is unquoted; quoting happens when a
// statement is rendered for a dialect.
type ColumnDef struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// TableDef is a table name in dotted form ("schema.table") plus ordered
// columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
