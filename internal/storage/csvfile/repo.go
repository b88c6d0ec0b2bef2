// Package csvfile is the file sink: a UTF-8, comma-separated, LF-terminated
// CSV with a header row. Rows are staged in a temp file next to the target
// and renamed over it on Commit, so a failed run never leaves a partial file
// and a rerun on the same input produces identical bytes.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"lifeexp/internal/logging"
	"lifeexp/internal/storage"
)

// Kind is the storage.kind this package registers.
const Kind = "csv"

func init() {
	storage.Register(Kind, func(_ context.Context, cfg storage.Config) (storage.Repository, error) {
		return Open(cfg.DSN, cfg.Columns, cfg.Logger)
	})
}

// Repository writes rows to a staged copy of path.
type Repository struct {
	path    string
	columns []string
	log     *slog.Logger

	tmp    *os.File
	buf    *bufio.Writer
	w      *csv.Writer
	hash   *xxh3.Hasher
	header bool
	rows   int64
	done   bool
}

var _ storage.Committer = (*Repository)(nil)

// Open creates the parent directories of path and a temp file beside it.
// Failures are reported as *storage.PermissionError.
func Open(path string, columns []string, log *slog.Logger) (*Repository, error) {
	log = logging.OrDefault(log)
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("csv: output path is empty")
	}
	if len(columns) == 0 {
		columns = storage.Columns
	}
	fail := func(err error) (*Repository, error) {
		perr := &storage.PermissionError{Path: path, Err: err}
		log.Error(perr.Error(), "err", err)
		return nil, perr
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fail(err)
	}

	r := &Repository{
		path:    path,
		columns: columns,
		log:     log,
		tmp:     tmp,
		hash:    xxh3.New(),
	}
	r.buf = bufio.NewWriter(io.MultiWriter(tmp, r.hash))
	r.w = csv.NewWriter(r.buf)
	return r, nil
}

// Path is the final output path.
func (r *Repository) Path() string { return r.path }

// CopyFrom appends rows. columns must match the columns the file was opened
// with; the header is written before the first row.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if r.done {
		return 0, fmt.Errorf("csv: %s already committed", r.path)
	}
	if len(columns) != len(r.columns) {
		return 0, fmt.Errorf("csv: got %d columns, file has %d", len(columns), len(r.columns))
	}
	if err := r.writeHeader(); err != nil {
		return 0, err
	}

	rec := make([]string, len(columns))
	var n int64
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if len(row) != len(columns) {
			return n, fmt.Errorf("csv: row has %d values, want %d", len(row), len(columns))
		}
		for i, v := range row {
			rec[i] = Format(v)
		}
		if err := r.w.Write(rec); err != nil {
			return n, r.permission(err)
		}
		n++
	}
	r.rows += n
	return n, nil
}

// Commit flushes the staged file and renames it over the target.
func (r *Repository) Commit(context.Context) error {
	if r.done {
		return nil
	}
	if err := r.writeHeader(); err != nil {
		return err
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return r.permission(err)
	}
	if err := r.buf.Flush(); err != nil {
		return r.permission(err)
	}
	if err := r.tmp.Chmod(0o644); err != nil {
		return r.permission(err)
	}
	if err := r.tmp.Close(); err != nil {
		return r.permission(err)
	}
	if err := os.Rename(r.tmp.Name(), r.path); err != nil {
		return r.permission(err)
	}
	r.done = true
	r.log.Info("csv written", "path", r.path, "rows", r.rows, "xxh3", fmt.Sprintf("%016x", r.hash.Sum64()))
	return nil
}

// Close discards the staged file unless Commit succeeded.
func (r *Repository) Close() {
	if r.done {
		return
	}
	_ = r.tmp.Close()
	_ = os.Remove(r.tmp.Name())
	r.done = true
}

func (r *Repository) writeHeader() error {
	if r.header {
		return nil
	}
	if err := r.w.Write(r.columns); err != nil {
		return r.permission(err)
	}
	r.header = true
	return nil
}

func (r *Repository) permission(err error) error {
	perr := &storage.PermissionError{Path: r.path, Err: err}
	r.log.Error(perr.Error(), "err", err)
	return perr
}

// Format renders one cell. Floats use the shortest representation that
// round-trips and always carry a decimal point, so 76 is written as 76.0.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(x)
	}
}

// Digest returns the xxh3 hash of the file at path; equal digests mean
// byte-identical outputs.
func Digest(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
