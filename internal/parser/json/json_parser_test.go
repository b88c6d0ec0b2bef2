package json

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTable_Records(t *testing.T) {
	in := `[
	  {"unit":"YR","sex":"F","age":"Y65","country":"PT","year":2019,"life_expectancy":21.9},
	  {"unit":"YR","sex":"M","age":"Y65","country":"PT","year":2019,"life_expectancy":null,"flag":"p"}
	]`

	tb, err := DecodeTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"unit", "sex", "age", "country", "year", "life_expectancy", "flag"},
		tb.Columns)
	require.Equal(t, 2, tb.Len())

	assert.Equal(t, json.Number("2019"), tb.Rows[0][4])
	assert.Equal(t, json.Number("21.9"), tb.Rows[0][5])
	assert.Nil(t, tb.Rows[0][6], "missing key fills with nil")
	assert.Nil(t, tb.Rows[1][5])
	assert.Equal(t, "p", tb.Rows[1][6])
}

func TestDecodeTable_Columns(t *testing.T) {
	tb, err := DecodeTable(strings.NewReader(`{"col1": [1, 2, 3], "col2": [4, 5, 6]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"col1", "col2"}, tb.Columns)
	require.Equal(t, 3, tb.Len())
	assert.Equal(t, []any{json.Number("3"), json.Number("6")}, tb.Rows[2])
}

func TestDecodeTable_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"scalar root":    `42`,
		"array of ints":  `[1, 2]`,
		"ragged columns": `{"a":[1,2],"b":[1]}`,
		"trailing data":  `[] []`,
		"truncated":      `[{"a":1}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTable(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestDecodeTable_NestedValuesFlattened(t *testing.T) {
	tb, err := DecodeTable(strings.NewReader(`[{"a":{"b":1},"c":[1,2]}]`))
	require.NoError(t, err)
	assert.Equal(t, []any{`{"b":1}`, `[1,2]`}, tb.Rows[0])
}
