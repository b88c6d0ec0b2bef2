// Package csv parses delimited text (tab- or comma-separated) into a
// table.Table. Cells equal to one of the configured missing-value sentinels,
// and empty cells, become nil. A UTF-8 or UTF-16 byte-order mark is honoured
// and stripped before the bytes reach encoding/csv.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"lifeexp/internal/logging"
	"lifeexp/internal/table"
)

// DefaultNAValues is the Eurostat "no observation" marker.
var DefaultNAValues = []string{":"}

// Options configures the parser. The zero value parses comma-separated text
// with no sentinels besides the empty string.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from data cells before sentinel
	// matching. Header cells are never trimmed; year labels such as "2019 "
	// are kept verbatim and trimmed by the cleaner.
	TrimSpace bool

	// NAValues lists cell values that mean "missing". Matching is exact.
	NAValues []string

	// Logger receives skipped-row diagnostics. Nil uses logging.L().
	Logger *slog.Logger
}

// Parser parses delimited input according to Options. It is safe to reuse
// across inputs but not for concurrent use.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// skipLogLimit caps per-row skip diagnostics; the total is still counted.
const skipLogLimit = 20

// Parse reads the header row and every data row from r. It returns the table
// and the number of rows skipped because they could not be tokenised or had
// the wrong number of fields.
func (p *Parser) Parse(r io.Reader) (*table.Table, int, error) {
	log := logging.OrDefault(p.opt.Logger)

	cr := csv.NewReader(decodeBOM(r))
	cr.Comma = ','
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("read header: empty input")
		}
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	t := table.New(normalizeHeaders(header)...)

	var skipped int
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < skipLogLimit {
				log.Warn("skipping row", "line", line, "err", err)
			}
			skipped++
			continue
		}
		if len(row) != len(t.Columns) {
			if skipped < skipLogLimit {
				log.Warn("skipping row: incorrect number of fields",
					"line", line, "want", len(t.Columns), "got", len(row))
			}
			skipped++
			continue
		}

		cells := make([]any, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			cells[i] = p.cell(val)
		}
		t.Rows = append(t.Rows, cells)
	}

	return t, skipped, nil
}

// cell converts an empty string or a sentinel to nil.
func (p *Parser) cell(s string) any {
	if s == "" || slices.Contains(p.opt.NAValues, s) {
		return nil
	}
	return s
}
