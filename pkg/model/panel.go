package model

import (
	"fmt"
	"math"

	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// withinTol bounds the absolute value under which a demeaned column counts as
// all-zero, i.e. the underlying covariate is constant within every individual.
const withinTol = 1e-10

// NumericCovariates returns the numeric column names in table order, minus
// the excluded identifiers and response.
func NumericCovariates(t *table.Table, exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	var out []string
	for _, name := range t.Columns() {
		if _, ok := skip[name]; ok {
			continue
		}
		s, _ := t.Column(name)
		if s.Kind == table.Numeric {
			out = append(out, name)
		}
	}
	return out
}

// numericColumn extracts a complete numeric column as a float slice.
func numericColumn(t *table.Table, name string) ([]float64, error) {
	s, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("model: no column %q", name)
	}
	if s.Kind != table.Numeric {
		return nil, fmt.Errorf("model: column %q is categorical", name)
	}
	return s.Floats, nil
}

// Demean returns a derived table holding the id column plus each listed
// column replaced by its deviation from the per-individual mean. The
// transform is an explicit grouped aggregation (sum and count per id) followed
// by a broadcast subtract, keyed on the id column's rendered values.
func Demean(t *table.Table, idCol string, cols []string) (*table.Table, error) {
	id, ok := t.Column(idCol)
	if !ok {
		return nil, fmt.Errorf("model: no id column %q", idCol)
	}
	n := t.NumRows()
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = id.ValueString(i)
	}

	out := []*table.Series{id.Copy()}
	for _, name := range cols {
		vals, err := numericColumn(t, name)
		if err != nil {
			return nil, err
		}
		sums := make(map[string]float64)
		counts := make(map[string]int)
		for i, v := range vals {
			sums[keys[i]] += v
			counts[keys[i]]++
		}
		dm := make([]float64, n)
		maxAbs, scale := 0.0, 0.0
		for i, v := range vals {
			dm[i] = v - sums[keys[i]]/float64(counts[keys[i]])
			if a := math.Abs(dm[i]); a > maxAbs {
				maxAbs = a
			}
			if a := math.Abs(v); a > scale {
				scale = a
			}
		}
		// A column constant within every individual demeans to rounding
		// dust; clamp it to exact zeros so rank checks see it as such.
		if maxAbs <= withinTol*scale {
			for i := range dm {
				dm[i] = 0
			}
		}
		out = append(out, table.NewNumeric(name, dm, nil))
	}
	return table.New(out...)
}

// countGroups returns the number of distinct individuals in the id column.
func countGroups(t *table.Table, idCol string) (int, error) {
	id, ok := t.Column(idCol)
	if !ok {
		return 0, fmt.Errorf("model: no id column %q", idCol)
	}
	seen := make(map[string]struct{})
	for i := 0; i < t.NumRows(); i++ {
		seen[id.ValueString(i)] = struct{}{}
	}
	return len(seen), nil
}

// PooledOLS regresses the response on every covariate with an intercept,
// treating all observations as independent.
func PooledOLS(t *table.Table, response string, covars []string) (*Results, error) {
	y, err := numericColumn(t, response)
	if err != nil {
		return nil, err
	}
	cols := make([][]float64, len(covars))
	for j, name := range covars {
		if cols[j], err = numericColumn(t, name); err != nil {
			return nil, err
		}
	}
	return FitOLS(y, cols, covars, Options{Intercept: true})
}

// FixedEffects estimates the within-individual regression: response and
// covariates are demeaned per individual, time-invariant covariates are
// dropped and returned as the second value, and the fit uses the panel
// residual degrees of freedom N_obs - N_individuals - N_covariates rather
// than the plain OLS value.
func FixedEffects(t *table.Table, idCol, response string, covars []string) (*Results, []string, error) {
	dm, err := Demean(t, idCol, append([]string{response}, covars...))
	if err != nil {
		return nil, nil, err
	}

	// A covariate that is constant within every individual demeans to an
	// all-zero column; estimating it anyway would be silently wrong.
	var kept []string
	var timeInvariant []string
	for _, name := range covars {
		vals, err := numericColumn(dm, name)
		if err != nil {
			return nil, nil, err
		}
		zero := true
		for _, v := range vals {
			if math.Abs(v) > withinTol {
				zero = false
				break
			}
		}
		if zero {
			timeInvariant = append(timeInvariant, name)
		} else {
			kept = append(kept, name)
		}
	}
	if len(kept) == 0 {
		return nil, timeInvariant, fmt.Errorf("model: no time-varying covariates remain")
	}

	nGroups, err := countGroups(t, idCol)
	if err != nil {
		return nil, nil, err
	}
	dof := t.NumRows() - nGroups - len(kept)
	if dof <= 0 {
		return nil, nil, fmt.Errorf("model: %d observations across %d individuals leave no degrees of freedom", t.NumRows(), nGroups)
	}

	y, err := numericColumn(dm, response)
	if err != nil {
		return nil, nil, err
	}
	cols := make([][]float64, len(kept))
	for j, name := range kept {
		if cols[j], err = numericColumn(dm, name); err != nil {
			return nil, nil, err
		}
	}
	res, err := FitOLS(y, cols, kept, Options{DFResid: dof})
	if err != nil {
		return nil, nil, err
	}
	return res, timeInvariant, nil
}

// DemeanedOLS is the manual cross-check against FixedEffects: demean every
// listed column per individual and fit plain OLS with no intercept. The
// coefficients match the within estimator; the standard errors use the naive
// OLS degrees of freedom, which overstate the panel ones. Time-invariant
// covariates demean to all-zero columns and come back as NA coefficients.
func DemeanedOLS(t *table.Table, idCol, response string, covars []string) (*Results, error) {
	dm, err := Demean(t, idCol, append([]string{response}, covars...))
	if err != nil {
		return nil, err
	}
	y, err := numericColumn(dm, response)
	if err != nil {
		return nil, err
	}
	cols := make([][]float64, len(covars))
	for j, name := range covars {
		if cols[j], err = numericColumn(dm, name); err != nil {
			return nil, err
		}
	}
	return FitOLS(y, cols, covars, Options{})
}
