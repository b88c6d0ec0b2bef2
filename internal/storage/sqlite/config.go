// Package sqlite implements the SQLite sink on database/sql with the pure-Go
// modernc.org/sqlite driver.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a file path or SQLite URI, e.g. "life.db" or
	// "file:life.db?_pragma=busy_timeout(5000)".
	DSN string

	// Table is the target table. "main.life_expectancy" is accepted.
	Table string
}
