// Package loader reads the raw input into a table.Table. A Strategy exists
// per input format; Handler picks one by file extension from a dispatch
// table.
//
// Every failure path yields a non-nil empty table alongside the error so
// downstream stages can run on it without nil checks.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lifeexp/internal/datasource/file"
	"lifeexp/internal/logging"
	"lifeexp/internal/parser"
	"lifeexp/internal/parser/csv"
	"lifeexp/internal/parser/json"
	"lifeexp/internal/table"
)

// Strategy loads one input format.
type Strategy interface {
	// Load reads the file at path.
	Load(ctx context.Context, path string) (*table.Table, error)

	// LoadContent reads already opened content. name is used for messages
	// and, by the archive strategy, nothing else.
	LoadContent(ctx context.Context, r io.Reader, name string) (*table.Table, error)
}

// Parsed loads any format a parser.Parser understands.
type Parsed struct {
	Parser parser.Parser
	Logger *slog.Logger
}

// NewDelimited returns a Strategy for delimited text.
func NewDelimited(opts csv.Options) *Parsed {
	return &Parsed{Parser: csv.NewParser(opts), Logger: opts.Logger}
}

// NewJSON returns a Strategy for JSON records or columns.
func NewJSON(logger *slog.Logger) *Parsed {
	return &Parsed{Parser: json.NewParser(), Logger: logger}
}

func (s *Parsed) Load(ctx context.Context, path string) (*table.Table, error) {
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return table.Empty(), classifyOpen(path, err)
	}
	defer rc.Close()
	return s.LoadContent(ctx, rc, path)
}

func (s *Parsed) LoadContent(ctx context.Context, r io.Reader, name string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Empty(), err
	}
	t, skipped, err := s.Parser.Parse(r)
	if err != nil {
		return table.Empty(), fmt.Errorf("parse %s: %w", name, err)
	}
	if skipped > 0 {
		logging.OrDefault(s.Logger).Warn("skipped malformed rows", "file", name, "skipped", skipped)
	}
	return t, nil
}

func classifyOpen(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return err
}
