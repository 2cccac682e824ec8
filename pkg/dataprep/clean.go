package dataprep

import (
	"fmt"
	"strings"

	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// Spec lists the columns each cleaning step operates on. Everything is an
// explicit name list; nothing is inferred from column position or type
// sniffing.
type Spec struct {
	SessionColumn string
	MedianImpute  []string
	MeanImpute    []string
	ModeImpute    []string
}

// ColumnCount pairs a column name with a count, in table column order.
type ColumnCount struct {
	Column string
	Count  int
}

// Report summarizes what cleaning did to the table.
type Report struct {
	MissingCensus     []ColumnCount
	DuplicatesDropped int
	ValuesImputed     []ColumnCount
	IncompleteDropped int
	RowsRemaining     int
}

// Census counts missing entries per column, in table order. Diagnostic only;
// nothing is enforced here.
func Census(t *table.Table) []ColumnCount {
	out := make([]ColumnCount, 0, t.NumCols())
	for _, name := range t.Columns() {
		s, _ := t.Column(name)
		out = append(out, ColumnCount{Column: name, Count: s.MissingCount()})
	}
	return out
}

// Dedup drops rows that exactly duplicate an earlier row, keeping the first
// occurrence and preserving row order otherwise.
func Dedup(t *table.Table) (*table.Table, int) {
	seen := make(map[string]struct{}, t.NumRows())
	keep := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := t.RowKey(i)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	return t.Select(keep), t.NumRows() - len(keep)
}

// LowercaseColumns renames every column to its lower-case form.
func LowercaseColumns(t *table.Table) error {
	for _, name := range t.Columns() {
		lower := strings.ToLower(name)
		if lower == name {
			continue
		}
		if err := t.Rename(name, lower); err != nil {
			return err
		}
	}
	return nil
}

// DropIncomplete removes every row that still has a missing entry in any
// column. This is the authoritative completeness guarantee for downstream
// consumers.
func DropIncomplete(t *table.Table) (*table.Table, int) {
	keep := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if !t.RowMissing(i) {
			keep = append(keep, i)
		}
	}
	return t.Select(keep), t.NumRows() - len(keep)
}

// Clean runs the full deterministic sequence over the raw table: missing
// census, session type normalization, dedup, per-column imputation, name
// normalization, completeness filter. The input table is mutated by the
// imputation and renaming steps; row filters return new tables.
func Clean(t *table.Table, spec Spec) (*table.Table, *Report, error) {
	rep := &Report{MissingCensus: Census(t)}

	if err := t.MarkCategorical(spec.SessionColumn); err != nil {
		return nil, nil, fmt.Errorf("clean: %w", err)
	}

	t, rep.DuplicatesDropped = Dedup(t)

	impute := func(cols []string, fn func(*table.Series) (int, error)) error {
		for _, name := range cols {
			s, ok := t.Column(name)
			if !ok {
				return fmt.Errorf("clean: no column %q to impute", name)
			}
			n, err := fn(s)
			if err != nil {
				return err
			}
			rep.ValuesImputed = append(rep.ValuesImputed, ColumnCount{Column: name, Count: n})
		}
		return nil
	}
	if err := impute(spec.MedianImpute, ImputeMedian); err != nil {
		return nil, nil, err
	}
	if err := impute(spec.MeanImpute, ImputeMean); err != nil {
		return nil, nil, err
	}
	if err := impute(spec.ModeImpute, ImputeMode); err != nil {
		return nil, nil, err
	}

	if err := LowercaseColumns(t); err != nil {
		return nil, nil, fmt.Errorf("clean: %w", err)
	}

	t, rep.IncompleteDropped = DropIncomplete(t)
	rep.RowsRemaining = t.NumRows()
	return t, rep, nil
}
