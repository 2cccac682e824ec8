package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

func corrTable(t *testing.T) *table.Table {
	t.Helper()
	// a and b are perfectly correlated; c is orthogonal to both.
	tbl, err := table.New(
		table.NewNumeric("a", []float64{1, 2, 3, 4}, nil),
		table.NewNumeric("b", []float64{2, 4, 6, 8}, nil),
		table.NewNumeric("c", []float64{1, -1, -1, 1}, nil),
		table.NewCategorical("g", []string{"x", "x", "y", "y"}, nil),
	)
	require.NoError(t, err)
	return tbl
}

func TestCorrelationScanExactlyOnePair(t *testing.T) {
	pairs := CorrelationScan(corrTable(t), 0.3)
	require.Len(t, pairs, 1, "symmetric pairs are deduplicated")
	assert.Equal(t, "a", pairs[0].A)
	assert.Equal(t, "b", pairs[0].B)
	assert.InDelta(t, 1.0, pairs[0].R, 1e-12)
}

func TestCorrelationScanPreservesSign(t *testing.T) {
	tbl, err := table.New(
		table.NewNumeric("up", []float64{1, 2, 3, 4}, nil),
		table.NewNumeric("down", []float64{8, 6, 4, 2}, nil),
	)
	require.NoError(t, err)

	pairs := CorrelationScan(tbl, 0.3)
	require.Len(t, pairs, 1)
	assert.Less(t, pairs[0].R, 0.0)
}

func TestCorrelationScanEmpty(t *testing.T) {
	// Nothing clears an impossible threshold.
	pairs := CorrelationScan(corrTable(t), 1.1)
	assert.Empty(t, pairs)
}

func TestRenderCorrelationsMessage(t *testing.T) {
	var buf bytes.Buffer
	RenderCorrelations(&buf, nil, 0.3)
	assert.Contains(t, buf.String(), NoSignificantCorrelations)

	buf.Reset()
	RenderCorrelations(&buf, []CorrPair{{A: "a", B: "b", R: 0.9}}, 0.3)
	out := buf.String()
	assert.NotContains(t, out, NoSignificantCorrelations)
	assert.Contains(t, out, "a ~ b")
}
