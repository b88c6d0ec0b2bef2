package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lifeexp/internal/table"
)

// Archive reads the first file of a zip archive with the strategy
// registered for that file's extension.
type Archive struct {
	// Inner maps a lower-case extension (".tsv") to the strategy for
	// archive entries of that type.
	Inner map[string]Strategy
}

func (a *Archive) Load(ctx context.Context, path string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Empty(), err
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return table.Empty(), classifyZip(path, err)
	}
	defer zr.Close()
	return a.first(ctx, &zr.Reader, path)
}

// LoadContent buffers r, since zip needs random access.
func (a *Archive) LoadContent(ctx context.Context, r io.Reader, name string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Empty(), err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return table.Empty(), fmt.Errorf("read %s: %w", name, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return table.Empty(), classifyZip(name, err)
	}
	return a.first(ctx, zr, name)
}

func (a *Archive) first(ctx context.Context, zr *zip.Reader, name string) (*table.Table, error) {
	var entry *zip.File
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			entry = f
			break
		}
	}
	if entry == nil {
		return table.Empty(), fmt.Errorf("%s: %w", name, ErrEmptyArchive)
	}

	ext := strings.ToLower(filepath.Ext(entry.Name))
	inner, ok := a.Inner[ext]
	if !ok {
		return table.Empty(), &UnsupportedTypeError{Entry: entry.Name, Ext: ext}
	}

	rc, err := entry.Open()
	if err != nil {
		return table.Empty(), fmt.Errorf("%s: open %s: %w", name, entry.Name, err)
	}
	defer rc.Close()
	return inner.LoadContent(ctx, rc, name+"!"+entry.Name)
}

func classifyZip(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case errors.Is(err, zip.ErrFormat), errors.Is(err, zip.ErrAlgorithm), errors.Is(err, zip.ErrChecksum):
		return fmt.Errorf("%s: %w: %v", path, ErrBadArchive, err)
	default:
		return err
	}
}
