package model

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// collinearityTol is the relative norm below which a column is treated as a
// linear combination of the columns before it.
const collinearityTol = 1e-8

// RankDeficiencyError names the design-matrix columns that were linearly
// dependent. It is recorded on the fit results rather than aborting the run,
// so a dependent column surfaces as an NA coefficient distinguishable from a
// genuine zero estimate.
type RankDeficiencyError struct {
	Columns []string
}

func (e *RankDeficiencyError) Error() string {
	return fmt.Sprintf("rank-deficient design matrix: %s", strings.Join(e.Columns, ", "))
}

// Coefficient is one row of a coefficient report. NA marks a coefficient that
// is undefined because its column was dropped from the design matrix.
type Coefficient struct {
	Name     string
	Estimate float64
	StdErr   float64
	TStat    float64
	PValue   float64
	NA       bool
}

// Results holds one estimation's coefficient report and fit diagnostics.
type Results struct {
	Coefficients []Coefficient
	NObs         int
	DFResid      int
	R2           float64
	Deficiency   *RankDeficiencyError
}

// Options controls an OLS fit.
type Options struct {
	// Intercept prepends a constant column named "const".
	Intercept bool
	// DFResid overrides the residual degrees of freedom used for standard
	// errors. Zero means the plain OLS value, observations minus estimated
	// columns.
	DFResid int
}

// FitOLS estimates y on the given columns by least squares. cols is
// column-major: cols[j] is the j-th regressor across all observations, named
// names[j]. Linearly dependent columns are screened out before the solve and
// reported as NA coefficients.
func FitOLS(y []float64, cols [][]float64, names []string, opts Options) (*Results, error) {
	n := len(y)
	if n == 0 {
		return nil, fmt.Errorf("ols: no observations")
	}
	if len(cols) != len(names) {
		return nil, fmt.Errorf("ols: %d columns but %d names", len(cols), len(names))
	}
	for j, c := range cols {
		if len(c) != n {
			return nil, fmt.Errorf("ols: column %q has %d rows, want %d", names[j], len(c), n)
		}
	}

	if opts.Intercept {
		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		cols = append([][]float64{ones}, cols...)
		names = append([]string{"const"}, names...)
	}

	kept, dropped := screenCollinear(cols)
	k := len(kept)
	if k == 0 {
		return nil, fmt.Errorf("ols: every column is collinear or zero")
	}
	dof := opts.DFResid
	if dof == 0 {
		dof = n - k
	}
	if dof <= 0 {
		return nil, fmt.Errorf("ols: %d observations leave no residual degrees of freedom for %d columns", n, k)
	}

	// Assemble the reduced design matrix and solve via QR.
	a := mat.NewDense(n, k, nil)
	for jj, j := range kept {
		a.SetCol(jj, cols[j])
	}
	b := mat.NewDense(n, 1, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(a)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return nil, fmt.Errorf("ols: solve: %w", err)
	}

	// Residual sum of squares and error variance.
	var fitted mat.Dense
	fitted.Mul(a, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.At(i, 0)
		rss += r * r
	}
	sigma2 := rss / float64(dof)

	// Coefficient covariance sigma^2 * (X'X)^-1 over the kept columns.
	var xtx, xtxi mat.Dense
	xtx.Mul(a.T(), a)
	if err := xtxi.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("ols: covariance: %w", err)
	}

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	res := &Results{NObs: n, DFResid: dof}
	res.Coefficients = make([]Coefficient, len(names))
	keptPos := make(map[int]int, k)
	for jj, j := range kept {
		keptPos[j] = jj
	}
	for j, name := range names {
		jj, ok := keptPos[j]
		if !ok {
			res.Coefficients[j] = Coefficient{
				Name:     name,
				Estimate: math.NaN(),
				StdErr:   math.NaN(),
				TStat:    math.NaN(),
				PValue:   math.NaN(),
				NA:       true,
			}
			continue
		}
		est := beta.At(jj, 0)
		se := math.Sqrt(sigma2 * xtxi.At(jj, jj))
		t := est / se
		res.Coefficients[j] = Coefficient{
			Name:     name,
			Estimate: est,
			StdErr:   se,
			TStat:    t,
			PValue:   2 * tdist.CDF(-math.Abs(t)),
		}
	}

	res.R2 = rSquared(y, rss, opts.Intercept)
	if len(dropped) > 0 {
		def := &RankDeficiencyError{}
		for _, j := range dropped {
			def.Columns = append(def.Columns, names[j])
		}
		res.Deficiency = def
	}
	return res, nil
}

// screenCollinear runs modified Gram-Schmidt over the columns in order and
// splits them into a linearly independent kept set and a dropped set. A
// column is dropped when its residual after projecting out the kept basis has
// negligible norm relative to its original norm, which covers both exact
// duplicates and all-zero columns.
func screenCollinear(cols [][]float64) (kept, dropped []int) {
	var basis [][]float64
	for j, c := range cols {
		v := append([]float64(nil), c...)
		norm0 := vecNorm(v)
		if norm0 == 0 {
			dropped = append(dropped, j)
			continue
		}
		for _, b := range basis {
			dot := 0.0
			for i := range v {
				dot += v[i] * b[i]
			}
			for i := range v {
				v[i] -= dot * b[i]
			}
		}
		norm := vecNorm(v)
		if norm <= collinearityTol*norm0 {
			dropped = append(dropped, j)
			continue
		}
		for i := range v {
			v[i] /= norm
		}
		basis = append(basis, v)
		kept = append(kept, j)
	}
	return kept, dropped
}

func vecNorm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

// rSquared uses the centered total sum of squares when the model has an
// intercept and the uncentered one otherwise.
func rSquared(y []float64, rss float64, intercept bool) float64 {
	tss := 0.0
	if intercept {
		mean := 0.0
		for _, v := range y {
			mean += v
		}
		mean /= float64(len(y))
		for _, v := range y {
			d := v - mean
			tss += d * d
		}
	} else {
		for _, v := range y {
			tss += v * v
		}
	}
	if tss == 0 {
		return 0
	}
	return 1 - rss/tss
}
