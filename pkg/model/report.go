package model

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// significance returns the conventional star marking for a p-value.
func significance(p float64) string {
	switch {
	case p < 0.01:
		return "***"
	case p < 0.05:
		return "**"
	case p < 0.1:
		return "*"
	default:
		return ""
	}
}

// Render writes the coefficient report as a table: estimate, standard error,
// t statistic, p-value and significance stars per covariate. Dropped columns
// show NA so an undefined coefficient is never mistaken for a zero estimate.
func (r *Results) Render(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint(title))

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Variable", "Coef", "Std Err", "t", "P>|t|", ""})
	na := color.New(color.FgYellow).Sprint("NA")
	stars := color.New(color.FgGreen).SprintFunc()
	for _, c := range r.Coefficients {
		if c.NA {
			tbl.Append([]string{c.Name, na, na, na, na, ""})
			continue
		}
		tbl.Append([]string{
			c.Name,
			strconv.FormatFloat(c.Estimate, 'f', 6, 64),
			strconv.FormatFloat(c.StdErr, 'f', 6, 64),
			strconv.FormatFloat(c.TStat, 'f', 3, 64),
			strconv.FormatFloat(c.PValue, 'f', 4, 64),
			stars(significance(c.PValue)),
		})
	}
	tbl.Render()

	fmt.Fprintf(w, "N = %d   residual df = %d   R² = %.4f\n", r.NObs, r.DFResid, r.R2)
	if r.Deficiency != nil {
		color.New(color.FgRed).Fprintf(w, "warning: %v\n", r.Deficiency)
	}
}
