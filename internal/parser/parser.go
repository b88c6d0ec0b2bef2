// Package parser defines the contract shared by the input format parsers
// in its subpackages.
package parser

import (
	"io"

	"lifeexp/internal/table"
)

// Parser decodes one input stream into a table. skipped counts source rows
// that were dropped because they could not be decoded.
type Parser interface {
	Parse(r io.Reader) (t *table.Table, skipped int, err error)
}
