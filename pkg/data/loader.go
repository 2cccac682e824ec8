package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kshedden/datareader"

	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// LoadError reports a source file that is missing, malformed, or empty.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a tabular source file into a Table. Stata .dta files are read
// with the datareader package; anything else is treated as delimited text.
func Load(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	var t *table.Table
	if strings.EqualFold(filepath.Ext(path), ".dta") {
		t, err = readStata(f)
	} else {
		t, err = readDelimited(f)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if t.NumRows() == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no data rows")}
	}
	return t, nil
}

// readStata converts the datareader series into table columns. Numeric-typed
// Stata variables become numeric columns with the reader's missing mask;
// string variables become categorical columns.
func readStata(f *os.File) (*table.Table, error) {
	rdr, err := datareader.NewStataReader(f)
	if err != nil {
		return nil, err
	}
	series, err := rdr.Read(-1)
	if err != nil {
		return nil, err
	}

	cols := make([]*table.Series, 0, len(series))
	for _, ser := range series {
		if vals, missing, err := ser.AsFloat64Slice(); err == nil {
			cols = append(cols, table.NewNumeric(ser.Name, vals, missing))
			continue
		}
		labels, missing, err := ser.AsStringSlice()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", ser.Name, err)
		}
		cols = append(cols, table.NewCategorical(ser.Name, labels, missing))
	}
	return table.New(cols...)
}

// missingMarker reports whether a raw text cell denotes a missing entry.
// "." is Stata's numeric missing code in text exports.
func missingMarker(v string) bool {
	return v == "" || v == "NA" || v == "NaN" || v == "."
}

// readDelimited reads a comma-delimited file with a header row. A column is
// numeric when every observed cell parses as a float, categorical otherwise.
func readDelimited(f *os.File) (*table.Table, error) {
	rdr := csv.NewReader(f)
	records, err := rdr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}
	header := records[0]
	rows := records[1:]

	cols := make([]*table.Series, len(header))
	for j, name := range header {
		raw := make([]string, len(rows))
		missing := make([]bool, len(rows))
		numeric := true
		for i, rec := range rows {
			if j >= len(rec) {
				return nil, fmt.Errorf("row %d: %d cells, want %d", i+1, len(rec), len(header))
			}
			raw[i] = rec[j]
			if missingMarker(rec[j]) {
				missing[i] = true
				continue
			}
			if _, err := strconv.ParseFloat(rec[j], 64); err != nil {
				numeric = false
			}
		}
		if numeric {
			vals := make([]float64, len(rows))
			for i := range raw {
				if !missing[i] {
					vals[i], _ = strconv.ParseFloat(raw[i], 64)
				}
			}
			cols[j] = table.NewNumeric(name, vals, missing)
		} else {
			labels := make([]string, len(rows))
			for i := range raw {
				if !missing[i] {
					labels[i] = raw[i]
				}
			}
			cols[j] = table.NewCategorical(name, labels, missing)
		}
	}
	return table.New(cols...)
}

// ExportCSV persists a portable delimited-text copy of the table. Missing
// entries are written as empty cells.
func ExportCSV(t *table.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(t.Columns()); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	names := t.Columns()
	row := make([]string, len(names))
	for i := 0; i < t.NumRows(); i++ {
		for j, name := range names {
			s, _ := t.Column(name)
			row[j] = s.ValueString(i)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
