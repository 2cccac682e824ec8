package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// testPanel builds a balanced panel of 3 individuals over 3 sessions, with a
// time-varying covariate x, a covariate z constant within each individual,
// and lnw generated as 0.5*x plus an individual effect.
func testPanel(t *testing.T) *table.Table {
	t.Helper()
	ids := []string{"1", "1", "1", "2", "2", "2", "3", "3", "3"}
	x := []float64{1, 2, 3, 2, 4, 6, 1, 1, 4}
	z := []float64{10, 10, 10, 20, 20, 20, 30, 30, 30}
	alpha := map[string]float64{"1": 1.0, "2": 2.0, "3": 3.0}
	noise := []float64{0.05, -0.03, 0.02, -0.04, 0.01, 0.03, -0.02, 0.04, -0.05}
	lnw := make([]float64, len(x))
	for i := range x {
		lnw[i] = alpha[ids[i]] + 0.5*x[i] + noise[i]
	}
	tbl, err := table.New(
		table.NewCategorical("id", ids, nil),
		table.NewNumeric("lnw", lnw, nil),
		table.NewNumeric("x", x, nil),
		table.NewNumeric("z", z, nil),
	)
	require.NoError(t, err)
	return tbl
}

func TestDemeanGroupMeansAreZero(t *testing.T) {
	tbl := testPanel(t)
	dm, err := Demean(tbl, "id", []string{"lnw", "x", "z"})
	require.NoError(t, err)

	id, _ := dm.Column("id")
	for _, name := range []string{"lnw", "x", "z"} {
		s, ok := dm.Column(name)
		require.True(t, ok)
		sums := make(map[string]float64)
		counts := make(map[string]int)
		for i, v := range s.Floats {
			sums[id.Labels[i]] += v
			counts[id.Labels[i]]++
		}
		for g, sum := range sums {
			assert.InDelta(t, 0, sum/float64(counts[g]), 1e-12, "column %s group %s", name, g)
		}
	}
}

func TestDemeanTimeInvariantColumnIsAllZero(t *testing.T) {
	tbl := testPanel(t)
	dm, err := Demean(tbl, "id", []string{"z"})
	require.NoError(t, err)

	z, _ := dm.Column("z")
	for _, v := range z.Floats {
		assert.Equal(t, 0.0, v)
	}
}

func TestFixedEffectsDropsTimeInvariantAndUsesPanelDF(t *testing.T) {
	tbl := testPanel(t)
	res, dropped, err := FixedEffects(tbl, "id", "lnw", []string{"x", "z"})
	require.NoError(t, err)

	assert.Equal(t, []string{"z"}, dropped)
	// N_obs - N_individuals - N_covariates = 9 - 3 - 1.
	assert.Equal(t, 5, res.DFResid)
	require.Len(t, res.Coefficients, 1)
	assert.InDelta(t, 0.5, res.Coefficients[0].Estimate, 0.05)

	// Strictly fewer residual dof than plain OLS would claim.
	pooled, err := PooledOLS(tbl, "lnw", []string{"x", "z"})
	require.NoError(t, err)
	assert.Less(t, res.DFResid, pooled.DFResid)
}

func TestFixedEffectsMatchesManualDemeanedOLS(t *testing.T) {
	tbl := testPanel(t)

	fe, _, err := FixedEffects(tbl, "id", "lnw", []string{"x", "z"})
	require.NoError(t, err)

	dm, err := DemeanedOLS(tbl, "id", "lnw", []string{"x", "z"})
	require.NoError(t, err)

	// z is NA in the manual fit, dropped before the within fit; x must agree
	// to numerical tolerance.
	feX := fe.Coefficients[0]
	require.Equal(t, "x", feX.Name)
	var dmX Coefficient
	for _, c := range dm.Coefficients {
		if c.Name == "x" {
			dmX = c
		}
	}
	relTol := 1e-6 * math.Abs(feX.Estimate)
	assert.InDelta(t, feX.Estimate, dmX.Estimate, relTol)

	// The manual fit does not know about the lost individual-level dof.
	assert.Equal(t, 9-3-1, fe.DFResid)
	assert.Equal(t, 9-1, dm.DFResid)
	assert.Greater(t, fe.Coefficients[0].StdErr, dmX.StdErr)
}

func TestDemeanedOLSTimeInvariantIsNA(t *testing.T) {
	tbl := testPanel(t)
	res, err := DemeanedOLS(tbl, "id", "lnw", []string{"x", "z"})
	require.NoError(t, err)

	byName := map[string]Coefficient{}
	for _, c := range res.Coefficients {
		byName[c.Name] = c
	}
	assert.False(t, byName["x"].NA)
	assert.True(t, byName["z"].NA, "demeaned time-invariant column must be NA, not a number")
	require.NotNil(t, res.Deficiency)
	assert.Contains(t, res.Deficiency.Columns, "z")
}

func TestDemeanedOLSReducedRunsClean(t *testing.T) {
	tbl := testPanel(t)
	// Excluding the time-invariant covariate beforehand must leave no NA.
	res, err := DemeanedOLS(tbl, "id", "lnw", []string{"x"})
	require.NoError(t, err)
	assert.Nil(t, res.Deficiency)
	for _, c := range res.Coefficients {
		assert.False(t, c.NA)
	}
}

func TestNumericCovariates(t *testing.T) {
	tbl := testPanel(t)
	covars := NumericCovariates(tbl, "id", "lnw")
	assert.Equal(t, []string{"x", "z"}, covars)
}

func TestDemeanMissingIDColumn(t *testing.T) {
	tbl := testPanel(t)
	_, err := Demean(tbl, "ghost", []string{"x"})
	assert.Error(t, err)
}
