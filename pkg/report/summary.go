package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/sampence0/fixedeffectsregression/pkg/stats"
	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// NumericSummary is the five-number-plus summary of one numeric column.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// CategoricalSummary is the frequency summary of one categorical column.
type CategoricalSummary struct {
	Column  string
	Count   int
	Unique  int
	Top     string
	TopFreq int
}

// Summarize computes per-column summary statistics over a complete table, in
// table column order.
func Summarize(t *table.Table) ([]NumericSummary, []CategoricalSummary) {
	var nums []NumericSummary
	var cats []CategoricalSummary
	for _, name := range t.Columns() {
		s, _ := t.Column(name)
		if s.Kind == table.Numeric {
			vals := s.Floats
			min, max := stats.MinMax(vals)
			nums = append(nums, NumericSummary{
				Column: name,
				Count:  len(vals),
				Mean:   stats.Mean(vals),
				Std:    stats.Std(vals),
				Min:    min,
				Q1:     stats.Quantile(vals, 0.25),
				Median: stats.Median(vals),
				Q3:     stats.Quantile(vals, 0.75),
				Max:    max,
			})
			continue
		}
		counts := make(map[string]int)
		top, topFreq := "", 0
		for _, l := range s.Labels {
			counts[l]++
			if counts[l] > topFreq {
				top, topFreq = l, counts[l]
			}
		}
		cats = append(cats, CategoricalSummary{
			Column:  name,
			Count:   s.Len(),
			Unique:  len(counts),
			Top:     top,
			TopFreq: topFreq,
		})
	}
	return nums, cats
}

// RenderSummary prints the summary statistics as tables.
func RenderSummary(w io.Writer, nums []NumericSummary, cats []CategoricalSummary) {
	if len(nums) > 0 {
		tbl := tablewriter.NewWriter(w)
		tbl.SetHeader([]string{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
		for _, s := range nums {
			tbl.Append([]string{
				s.Column,
				strconv.Itoa(s.Count),
				fmt.Sprintf("%.4f", s.Mean),
				fmt.Sprintf("%.4f", s.Std),
				fmt.Sprintf("%.4f", s.Min),
				fmt.Sprintf("%.4f", s.Q1),
				fmt.Sprintf("%.4f", s.Median),
				fmt.Sprintf("%.4f", s.Q3),
				fmt.Sprintf("%.4f", s.Max),
			})
		}
		tbl.Render()
	}
	if len(cats) > 0 {
		tbl := tablewriter.NewWriter(w)
		tbl.SetHeader([]string{"Column", "Count", "Unique", "Top", "Freq"})
		for _, s := range cats {
			tbl.Append([]string{s.Column, strconv.Itoa(s.Count), strconv.Itoa(s.Unique), s.Top, strconv.Itoa(s.TopFreq)})
		}
		tbl.Render()
	}
}

// CategoryShare is one category's row in a proportion breakdown.
type CategoryShare struct {
	Label string
	Count int
	Share float64
}

// Proportions computes the categorical breakdown of one designated column,
// keeping only categories whose share strictly exceeds the threshold. Smaller
// categories are omitted, never relabeled. A numeric column is broken down
// over its distinct values. Results are ordered by descending share, ties in
// first-encountered order.
func Proportions(t *table.Table, column string, threshold float64) ([]CategoryShare, error) {
	s, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("report: no column %q", column)
	}
	counts := make(map[string]int)
	var order []string
	for i := 0; i < s.Len(); i++ {
		l := s.ValueString(i)
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	total := float64(s.Len())
	var out []CategoryShare
	for _, l := range order {
		share := float64(counts[l]) / total
		if share > threshold {
			out = append(out, CategoryShare{Label: l, Count: counts[l], Share: share})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Share > out[j].Share })
	return out, nil
}

// RenderProportions prints the proportion breakdown.
func RenderProportions(w io.Writer, column string, shares []CategoryShare) {
	fmt.Fprintf(w, "\nProportions of %s:\n", column)
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{column, "Count", "Share"})
	for _, s := range shares {
		tbl.Append([]string{s.Label, strconv.Itoa(s.Count), fmt.Sprintf("%.2f%%", s.Share*100)})
	}
	tbl.Render()
}
