// Package json decodes JSON documents into a table.Table while keeping the
// key order of the source, so the resulting columns are deterministic.
//
// Two document shapes are accepted:
//
//   - records: a top-level array of objects
//     [{"unit":"YR","country":"PT","year":2019,"life_expectancy":81.1}, ...]
//   - columns: a top-level object of equal-length arrays
//     {"unit":["YR","YR"],"year":[2019,2020]}
//
// Numbers decode as json.Number so the cleaner decides how to read them; JSON
// null becomes a nil cell.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"lifeexp/internal/table"
)

// DecodeTable reads a single JSON document from r.
func DecodeTable(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("json parser: empty input")
		}
		return nil, fmt.Errorf("json parser: decode root: %w", err)
	}

	var t *table.Table
	switch tok {
	case json.Delim('['):
		t, err = decodeRecords(dec)
	case json.Delim('{'):
		t, err = decodeColumns(dec)
	default:
		return nil, fmt.Errorf("json parser: unsupported top-level value %v", tok)
	}
	if err != nil {
		return nil, err
	}

	// Anything after the root document is an error rather than silently ignored.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("json parser: trailing data after root document")
	}
	return t, nil
}

// decodeRecords consumes the body of an array of objects; the opening '[' has
// already been read.
func decodeRecords(dec *json.Decoder) (*table.Table, error) {
	var (
		columns []string
		index   = map[string]int{}
		records []map[string]any
	)

	for i := 0; dec.More(); i++ {
		keys, vals, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("json parser: element %d: %w", i, err)
		}
		rec := make(map[string]any, len(keys))
		for j, k := range keys {
			if _, seen := index[k]; !seen {
				index[k] = len(columns)
				columns = append(columns, k)
			}
			rec[k] = vals[j]
		}
		records = append(records, rec)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	t := table.New(columns...)
	for _, rec := range records {
		row := make([]any, len(columns))
		for k, v := range rec {
			row[index[k]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// decodeColumns consumes the body of an object whose values are arrays; the
// opening '{' has already been read.
func decodeColumns(dec *json.Decoder) (*table.Table, error) {
	var (
		columns []string
		data    [][]any
	)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var col []any
		if err := dec.Decode(&col); err != nil {
			return nil, fmt.Errorf("json parser: column %q is not an array: %w", key, err)
		}
		if len(data) > 0 && len(col) != len(data[0]) {
			return nil, fmt.Errorf("json parser: column %q has %d values, want %d", key, len(col), len(data[0]))
		}
		if slices.Contains(columns, key) {
			return nil, fmt.Errorf("json parser: duplicate column %q", key)
		}
		columns = append(columns, key)
		data = append(data, col)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	t := table.New(columns...)
	if len(data) == 0 {
		return t, nil
	}
	for i := range data[0] {
		row := make([]any, len(columns))
		for j := range columns {
			row[j] = scalar(data[j][i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// decodeObject reads one object and returns its keys in source order along
// with the matching values.
func decodeObject(dec *json.Decoder) ([]string, []any, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	var (
		keys []string
		vals []any
	)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, nil, err
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("value for %q: %w", key, err)
		}
		if i := slices.Index(keys, key); i >= 0 {
			// Last duplicate wins, as with encoding/json into a map.
			vals[i] = scalar(v)
			continue
		}
		keys = append(keys, key)
		vals = append(vals, scalar(v))
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return keys, vals, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("json parser: read key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("json parser: expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("json parser: expected %q: %w", want, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("json parser: expected %q, got %v", want, tok)
	}
	return nil
}

// scalar flattens nested arrays/objects to their JSON text so every cell is a
// scalar; strings, numbers, bools and nil pass through.
func scalar(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return v
	}
}

// Parser adapts DecodeTable to parser.Parser. JSON input is all-or-nothing,
// so skipped is always zero.
type Parser struct{}

// NewParser returns a JSON Parser.
func NewParser() *Parser { return &Parser{} }

// Parse decodes r with DecodeTable.
func (*Parser) Parse(r io.Reader) (*table.Table, int, error) {
	t, err := DecodeTable(r)
	return t, 0, err
}
