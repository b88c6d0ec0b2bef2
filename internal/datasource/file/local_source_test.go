package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return p
}

func TestLocalOpen(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name        string
		path        func(t *testing.T) string
		ctx         context.Context
		wantErrIs   error
		wantContent string
	}{
		{
			name:        "reads_tsv",
			path:        func(t *testing.T) string { return writeInput(t, "raw.tsv", "a\tb\n1\t2\n") },
			ctx:         context.Background(),
			wantContent: "a\tb\n1\t2\n",
		},
		{
			name:      "missing_file",
			path:      func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.tsv") },
			ctx:       context.Background(),
			wantErrIs: os.ErrNotExist,
		},
		{
			name:      "canceled_context",
			path:      func(t *testing.T) string { return writeInput(t, "raw.tsv", "x") },
			ctx:       canceled,
			wantErrIs: context.Canceled,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			p := c.path(t)
			rc, err := NewLocal(p).Open(c.ctx)

			if c.wantErrIs != nil {
				if !errors.Is(err, c.wantErrIs) {
					t.Fatalf("Open() err = %v, want %v", err, c.wantErrIs)
				}
				if rc != nil {
					rc.Close()
					t.Fatalf("got non-nil ReadCloser on error")
				}
				if c.wantErrIs == os.ErrNotExist && !strings.Contains(err.Error(), p) {
					t.Fatalf("error %q does not name path", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			defer rc.Close()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != c.wantContent {
				t.Fatalf("content = %q, want %q", got, c.wantContent)
			}
		})
	}
}

func TestLocalStat(t *testing.T) {
	t.Parallel()
	p := writeInput(t, "raw.json", "[]")
	l := NewLocal(p)
	if l.Path() != p {
		t.Fatalf("Path() = %q, want %q", l.Path(), p)
	}
	fi, err := l.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if fi.Size() != 2 {
		t.Fatalf("size = %d, want 2", fi.Size())
	}
	if _, err := NewLocal(p + ".nope").Stat(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Stat missing err = %v", err)
	}
}

func BenchmarkLocalOpen(b *testing.B) {
	p := filepath.Join(b.TempDir(), "raw.tsv")
	if err := os.WriteFile(p, []byte("payload"), 0o644); err != nil {
		b.Fatal(err)
	}
	src := NewLocal(p)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err != nil {
			b.Fatal(err)
		}
		rc.Close()
	}
}
