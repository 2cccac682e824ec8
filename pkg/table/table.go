package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes numeric columns from categorical (label) columns.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

// Series is a single named column: float64 values or string labels plus a
// parallel missing mask. Exactly one of Floats/Labels is populated, selected
// by Kind.
type Series struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Labels  []string
	Missing []bool
}

// NewNumeric builds a numeric Series. A nil missing mask means fully observed.
func NewNumeric(name string, vals []float64, missing []bool) *Series {
	if missing == nil {
		missing = make([]bool, len(vals))
	}
	return &Series{Name: name, Kind: Numeric, Floats: vals, Missing: missing}
}

// NewCategorical builds a categorical Series. A nil missing mask means fully observed.
func NewCategorical(name string, labels []string, missing []bool) *Series {
	if missing == nil {
		missing = make([]bool, len(labels))
	}
	return &Series{Name: name, Kind: Categorical, Labels: labels, Missing: missing}
}

// Len returns the number of rows in the series.
func (s *Series) Len() int {
	return len(s.Missing)
}

// MissingCount returns how many entries are missing.
func (s *Series) MissingCount() int {
	n := 0
	for _, m := range s.Missing {
		if m {
			n++
		}
	}
	return n
}

// NonMissingFloats returns the observed numeric values in row order.
func (s *Series) NonMissingFloats() []float64 {
	var out []float64
	for i, m := range s.Missing {
		if !m {
			out = append(out, s.Floats[i])
		}
	}
	return out
}

// NonMissingLabels returns the observed labels in row order.
func (s *Series) NonMissingLabels() []string {
	var out []string
	for i, m := range s.Missing {
		if !m {
			out = append(out, s.Labels[i])
		}
	}
	return out
}

// ValueString renders row i for export and row hashing. Missing entries render
// as the empty string.
func (s *Series) ValueString(i int) string {
	if s.Missing[i] {
		return ""
	}
	if s.Kind == Categorical {
		return s.Labels[i]
	}
	return strconv.FormatFloat(s.Floats[i], 'g', -1, 64)
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	cp := &Series{Name: s.Name, Kind: s.Kind}
	cp.Missing = append([]bool(nil), s.Missing...)
	if s.Kind == Numeric {
		cp.Floats = append([]float64(nil), s.Floats...)
	} else {
		cp.Labels = append([]string(nil), s.Labels...)
	}
	return cp
}

// Table is an ordered collection of equal-length Series, indexed by column
// name. Column access is always by explicit name, never by position.
type Table struct {
	cols  []*Series
	index map[string]int
}

// New builds a Table from the given columns. All columns must share the same
// length and names must be unique.
func New(cols ...*Series) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if len(t.cols) > 0 && c.Len() != t.cols[0].Len() {
			return nil, fmt.Errorf("table: column %q has %d rows, want %d", c.Name, c.Len(), t.cols[0].Len())
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c.Name)
		}
		t.index[c.Name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named series, or false if absent.
func (t *Table) Column(name string) (*Series, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	cols := make([]*Series, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Copy()
	}
	cp, _ := New(cols...)
	return cp
}

// Rename changes a column's name, preserving order.
func (t *Table) Rename(old, new string) error {
	i, ok := t.index[old]
	if !ok {
		return fmt.Errorf("table: no column %q", old)
	}
	if _, dup := t.index[new]; dup && new != old {
		return fmt.Errorf("table: column %q already exists", new)
	}
	delete(t.index, old)
	t.cols[i].Name = new
	t.index[new] = i
	return nil
}

// MarkCategorical converts a numeric column to an unordered label set. Labels
// are the shortest decimal rendering of each value; missing entries stay
// missing. A column that is already categorical is left unchanged.
func (t *Table) MarkCategorical(name string) error {
	s, ok := t.Column(name)
	if !ok {
		return fmt.Errorf("table: no column %q", name)
	}
	if s.Kind == Categorical {
		return nil
	}
	labels := make([]string, s.Len())
	for i := range s.Floats {
		if !s.Missing[i] {
			labels[i] = strconv.FormatFloat(s.Floats[i], 'g', -1, 64)
		}
	}
	s.Kind = Categorical
	s.Labels = labels
	s.Floats = nil
	return nil
}

// RowKey renders row i as a single string for exact-duplicate detection.
func (t *Table) RowKey(i int) string {
	parts := make([]string, len(t.cols))
	for j, c := range t.cols {
		parts[j] = c.ValueString(i)
	}
	return strings.Join(parts, "\x1f")
}

// RowMissing reports whether any column is missing at row i.
func (t *Table) RowMissing(i int) bool {
	for _, c := range t.cols {
		if c.Missing[i] {
			return true
		}
	}
	return false
}

// Select returns a new table holding only the given rows, in the given order.
func (t *Table) Select(rows []int) *Table {
	cols := make([]*Series, len(t.cols))
	for j, c := range t.cols {
		ns := &Series{Name: c.Name, Kind: c.Kind, Missing: make([]bool, len(rows))}
		if c.Kind == Numeric {
			ns.Floats = make([]float64, len(rows))
		} else {
			ns.Labels = make([]string, len(rows))
		}
		for k, r := range rows {
			ns.Missing[k] = c.Missing[r]
			if c.Kind == Numeric {
				ns.Floats[k] = c.Floats[r]
			} else {
				ns.Labels[k] = c.Labels[r]
			}
		}
		cols[j] = ns
	}
	nt, _ := New(cols...)
	return nt
}
