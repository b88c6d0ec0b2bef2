package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEnforcesWidth(t *testing.T) {
	tb := New("a", "b")
	require.NoError(t, tb.Append("1", nil))
	require.Error(t, tb.Append("only-one"))
	assert.Equal(t, 1, tb.Len())
}

func TestCloneDoesNotAlias(t *testing.T) {
	tb := New("a")
	require.NoError(t, tb.Append("x"))

	c := tb.Clone()
	c.Rows[0][0] = "y"
	c.Columns[0] = "z"

	assert.Equal(t, "x", tb.Rows[0][0])
	assert.Equal(t, "a", tb.Columns[0])
}

func TestRenameAndLookup(t *testing.T) {
	tb := New("country", "life_expectancy", "year")
	require.NoError(t, tb.Append("PT", "80.1", "2019"))

	r := tb.Rename(map[string]string{"country": "region", "life_expectancy": "value"})

	assert.True(t, r.Has("region", "value", "year"))
	assert.False(t, tb.Has("region"), "original must keep its column names")

	col, ok := r.Column("region")
	require.True(t, ok)
	assert.Equal(t, []any{"PT"}, col)

	_, ok = r.Column("missing")
	assert.False(t, ok)
}

func TestNilTableIsEmpty(t *testing.T) {
	var tb *Table
	assert.True(t, tb.IsEmpty())
	assert.Equal(t, -1, tb.Index("a"))
	assert.True(t, Empty().IsEmpty())
}
