package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures what differs between SQL backends when creating and
// addressing a table.
type Dialect struct {
	Name string

	// Quote quotes a single identifier segment.
	Quote func(ident string) string

	// Types maps logical types (Text, Int, Float) to SQL types.
	Types map[string]string

	// CreateIfMissing wraps a CREATE TABLE body so it is a no-op when the
	// table exists. quoted is the quoted table name, cols the rendered
	// column list.
	CreateIfMissing func(quoted, cols string) string

	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
}

// QuoteFQN quotes each dotted segment of fqn, skipping empty ones.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, d.Quote(p))
		}
	}
	return strings.Join(out, ".")
}

// QuoteAll quotes every name.
func (d Dialect) QuoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.Quote(n)
	}
	return out
}

// MapType returns the SQL type for a logical type, or typ itself.
func (d Dialect) MapType(typ string) string {
	if t, ok := d.Types[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return t
	}
	return typ
}

func doubleQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func ifNotExists(quoted, cols string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", quoted, cols)
}

func question(int) string { return "?" }

var (
	Postgres = Dialect{
		Name:            "postgres",
		Quote:           doubleQuote,
		Types:           map[string]string{Text: "TEXT", Int: "INTEGER", Float: "DOUBLE PRECISION"},
		CreateIfMissing: ifNotExists,
		Placeholder:     func(n int) string { return fmt.Sprintf("$%d", n) },
	}

	SQLite = Dialect{
		Name:            "sqlite",
		Quote:           doubleQuote,
		Types:           map[string]string{Text: "TEXT", Int: "INTEGER", Float: "REAL"},
		CreateIfMissing: ifNotExists,
		Placeholder:     question,
	}

	MSSQL = Dialect{
		Name:  "mssql",
		Quote: func(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" },
		Types: map[string]string{Text: "NVARCHAR(64)", Int: "INT", Float: "FLOAT"},
		CreateIfMissing: func(quoted, cols string) string {
			return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
				strings.ReplaceAll(quoted, "'", "''"), quoted, strings.ReplaceAll(cols, "\n  ", "\n    "))
		},
		Placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
	}

	MySQL = Dialect{
		Name:            "mysql",
		Quote:           func(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" },
		Types:           map[string]string{Text: "VARCHAR(64)", Int: "INT", Float: "DOUBLE"},
		CreateIfMissing: ifNotExists,
		Placeholder:     question,
	}
)
