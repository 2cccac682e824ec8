package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(
		NewNumeric("a", []float64{1, 2}, nil),
		NewNumeric("b", []float64{1}, nil),
	)
	require.Error(t, err)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewNumeric("a", []float64{1}, nil),
		NewNumeric("a", []float64{2}, nil),
	)
	require.Error(t, err)
}

func TestColumnLookupByName(t *testing.T) {
	tbl, err := New(
		NewNumeric("x", []float64{1, 2, 3}, nil),
		NewCategorical("g", []string{"a", "b", "a"}, nil),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"x", "g"}, tbl.Columns())

	s, ok := tbl.Column("g")
	require.True(t, ok)
	assert.Equal(t, Categorical, s.Kind)

	_, ok = tbl.Column("nope")
	assert.False(t, ok)
}

func TestMarkCategorical(t *testing.T) {
	tbl, err := New(NewNumeric("session", []float64{1980, 1981, 1980}, []bool{false, false, true}))
	require.NoError(t, err)
	require.NoError(t, tbl.MarkCategorical("session"))

	s, _ := tbl.Column("session")
	assert.Equal(t, Categorical, s.Kind)
	assert.Equal(t, []string{"1980", "1981", ""}, s.Labels)
	assert.True(t, s.Missing[2], "missing entries stay missing")

	// Idempotent on an already categorical column.
	require.NoError(t, tbl.MarkCategorical("session"))
}

func TestRename(t *testing.T) {
	tbl, err := New(NewNumeric("AGE", []float64{30}, nil))
	require.NoError(t, err)
	require.NoError(t, tbl.Rename("AGE", "age"))

	_, ok := tbl.Column("AGE")
	assert.False(t, ok)
	_, ok = tbl.Column("age")
	assert.True(t, ok)
	assert.Error(t, tbl.Rename("gone", "x"))
}

func TestRowKeyDistinguishesMissingFromZero(t *testing.T) {
	tbl, err := New(NewNumeric("x", []float64{0, 0}, []bool{false, true}))
	require.NoError(t, err)
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))
}

func TestSelectPreservesOrder(t *testing.T) {
	tbl, err := New(
		NewNumeric("x", []float64{10, 20, 30}, nil),
		NewCategorical("g", []string{"a", "b", "c"}, nil),
	)
	require.NoError(t, err)

	sub := tbl.Select([]int{2, 0})
	assert.Equal(t, 2, sub.NumRows())
	s, _ := sub.Column("x")
	assert.Equal(t, []float64{30, 10}, s.Floats)
	g, _ := sub.Column("g")
	assert.Equal(t, []string{"c", "a"}, g.Labels)
}

func TestCopyIsDeep(t *testing.T) {
	tbl, err := New(NewNumeric("x", []float64{1, 2}, nil))
	require.NoError(t, err)
	cp := tbl.Copy()
	s, _ := cp.Column("x")
	s.Floats[0] = 99

	orig, _ := tbl.Column("x")
	assert.Equal(t, 1.0, orig.Floats[0])
}

func TestRowMissing(t *testing.T) {
	tbl, err := New(
		NewNumeric("x", []float64{1, 2}, []bool{false, true}),
		NewNumeric("y", []float64{3, 4}, nil),
	)
	require.NoError(t, err)
	assert.False(t, tbl.RowMissing(0))
	assert.True(t, tbl.RowMissing(1))
}
