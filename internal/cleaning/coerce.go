package cleaning

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"lifeexp/internal/table"
)

// LongColumns is the column set Coerce expects, in output order.
var LongColumns = []string{"unit", "sex", "age", "region", "year", "value"}

// numberRe matches the first unsigned decimal in an annotated cell such as
// "80.1 e" or "b76".
var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Record is one long-format row after coercion. Value is invalid when the
// source cell was missing or carried no digits.
type Record struct {
	Unit   string
	Sex    string
	Age    string
	Region string
	Year   int
	Value  sql.NullFloat64
}

// Coerce converts a long table with LongColumns into typed records.
//
// Identity cells are stringified. Year labels are trimmed and parsed with
// strconv.Atoi; a failure is fatal. Values keep the first number found in the
// cell, or null when there is none.
func Coerce(t *table.Table) ([]Record, error) {
	idx := make([]int, len(LongColumns))
	for i, name := range LongColumns {
		idx[i] = t.Index(name)
		if idx[i] < 0 {
			return nil, fmt.Errorf("coerce: %w: %q", ErrMissingColumn, name)
		}
	}

	out := make([]Record, 0, t.Len())
	for r, row := range t.Rows {
		year, err := ParseYear(row[idx[4]])
		if err != nil {
			return nil, fmt.Errorf("coerce row %d: %w", r, err)
		}
		value, err := ExtractValue(row[idx[5]])
		if err != nil {
			return nil, fmt.Errorf("coerce row %d: %w", r, err)
		}
		out = append(out, Record{
			Unit:   text(row[idx[0]]),
			Sex:    text(row[idx[1]]),
			Age:    text(row[idx[2]]),
			Region: text(row[idx[3]]),
			Year:   year,
			Value:  value,
		})
	}
	return out, nil
}

// ParseYear reads a year label, ignoring surrounding whitespace.
func ParseYear(v any) (int, error) {
	label := strings.TrimSpace(text(v))
	y, err := strconv.Atoi(label)
	if err != nil {
		return 0, &YearError{Label: text(v), Err: err}
	}
	return y, nil
}

// ExtractValue returns the numeric content of a cell. JSON numbers are used
// as they are; anything else goes through the first-number pattern. Nil and
// digit-free cells yield an invalid NullFloat64 and no error.
func ExtractValue(v any) (sql.NullFloat64, error) {
	switch x := v.(type) {
	case nil:
		return sql.NullFloat64{}, nil
	case float64:
		return finite(x, strconv.FormatFloat(x, 'g', -1, 64))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return sql.NullFloat64{}, fmt.Errorf("%w: %q: %v", ErrNumericMismatch, x.String(), err)
		}
		return finite(f, x.String())
	}

	m := numberRe.FindString(text(v))
	if m == "" {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return sql.NullFloat64{}, fmt.Errorf("%w: %q: %v", ErrNumericMismatch, m, err)
	}
	return finite(f, m)
}

func finite(f float64, src string) (sql.NullFloat64, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return sql.NullFloat64{}, fmt.Errorf("%w: %q is not finite", ErrNumericMismatch, src)
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
