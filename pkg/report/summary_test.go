package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

func TestSummarize(t *testing.T) {
	tbl, err := table.New(
		table.NewNumeric("x", []float64{1, 2, 3, 4}, nil),
		table.NewCategorical("g", []string{"a", "a", "b", "c"}, nil),
	)
	require.NoError(t, err)

	nums, cats := Summarize(tbl)
	require.Len(t, nums, 1)
	require.Len(t, cats, 1)

	assert.Equal(t, 4, nums[0].Count)
	assert.InDelta(t, 2.5, nums[0].Mean, 1e-12)
	assert.Equal(t, 1.0, nums[0].Min)
	assert.Equal(t, 4.0, nums[0].Max)
	assert.InDelta(t, 2.5, nums[0].Median, 1e-12)

	assert.Equal(t, 3, cats[0].Unique)
	assert.Equal(t, "a", cats[0].Top)
	assert.Equal(t, 2, cats[0].TopFreq)
}

func TestProportionsThresholdFiltering(t *testing.T) {
	labels := make([]string, 0, 100)
	for i := 0; i < 50; i++ {
		labels = append(labels, "a")
	}
	for i := 0; i < 49; i++ {
		labels = append(labels, "b")
	}
	labels = append(labels, "c") // exactly 1%, not strictly above threshold
	tbl, err := table.New(table.NewCategorical("school", labels, nil))
	require.NoError(t, err)

	shares, err := Proportions(tbl, "school", 0.01)
	require.NoError(t, err)
	require.Len(t, shares, 2, "category at the threshold is omitted")
	assert.Equal(t, "a", shares[0].Label)
	assert.InDelta(t, 0.50, shares[0].Share, 1e-12)
	assert.Equal(t, "b", shares[1].Label)
	assert.InDelta(t, 0.49, shares[1].Share, 1e-12)
	for _, s := range shares {
		assert.NotEqual(t, "other", strings.ToLower(s.Label))
	}
}

func TestProportionsErrors(t *testing.T) {
	tbl, err := table.New(table.NewNumeric("x", []float64{1}, nil))
	require.NoError(t, err)

	_, err = Proportions(tbl, "ghost", 0.01)
	assert.Error(t, err)
}

func TestProportionsNumericColumn(t *testing.T) {
	tbl, err := table.New(table.NewNumeric("school", []float64{12, 12, 16, 12}, nil))
	require.NoError(t, err)

	shares, err := Proportions(tbl, "school", 0.01)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, "12", shares[0].Label)
	assert.Equal(t, 3, shares[0].Count)
}

func TestRenderSummaryWritesTables(t *testing.T) {
	tbl, err := table.New(
		table.NewNumeric("x", []float64{1, 2}, nil),
		table.NewCategorical("g", []string{"a", "b"}, nil),
	)
	require.NoError(t, err)

	nums, cats := Summarize(tbl)
	var buf bytes.Buffer
	RenderSummary(&buf, nums, cats)
	out := buf.String()
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "g")
	assert.Contains(t, strings.ToUpper(out), "MEAN")
}
