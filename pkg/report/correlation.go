package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sampence0/fixedeffectsregression/pkg/stats"
	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// NoSignificantCorrelations is the message emitted when no pair clears the
// threshold.
const NoSignificantCorrelations = "no significant correlations"

// CorrPair is one significant off-diagonal entry of the correlation matrix.
// The sign of R is preserved; significance is judged on its absolute value.
type CorrPair struct {
	A, B string
	R    float64
}

// CorrelationScan computes the pairwise Pearson correlation matrix over the
// numeric columns and returns every pair whose absolute correlation strictly
// exceeds the threshold. Symmetric pairs are deduplicated: each pair appears
// once, in table column order.
func CorrelationScan(t *table.Table, threshold float64) []CorrPair {
	var names []string
	var cols [][]float64
	for _, name := range t.Columns() {
		s, _ := t.Column(name)
		if s.Kind == table.Numeric {
			names = append(names, name)
			cols = append(cols, s.Floats)
		}
	}
	var out []CorrPair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			r := stats.Correlation(cols[i], cols[j])
			if r > threshold || r < -threshold {
				out = append(out, CorrPair{A: names[i], B: names[j], R: r})
			}
		}
	}
	return out
}

// RenderCorrelations prints each significant pair, or the no-correlations
// message when the set is empty.
func RenderCorrelations(w io.Writer, pairs []CorrPair, threshold float64) {
	fmt.Fprintf(w, "\nCorrelation pairs with |r| > %.2f:\n", threshold)
	if len(pairs) == 0 {
		fmt.Fprintln(w, NoSignificantCorrelations)
		return
	}
	strong := color.New(color.FgCyan).SprintfFunc()
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s\n", strong("%s ~ %s: r = %+.4f", p.A, p.B, p.R))
	}
}
