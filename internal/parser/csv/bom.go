package csv

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// utf8BOM is stripped from the first header cell if it survived decoding.
const utf8BOM = "\uFEFF"

// decodeBOM wraps r so that a leading BOM selects the encoding (UTF-8 or
// UTF-16) and is removed. Input without a BOM is read as UTF-8.
func decodeBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// normalizeHeaders returns NFC-normalised copies of the header cells with any
// stray BOM removed from the first one.
func normalizeHeaders(h []string) []string {
	out := make([]string, len(h))
	for i, col := range h {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		out[i] = norm.NFC.String(col)
	}
	return out
}
