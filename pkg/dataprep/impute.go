package dataprep

import (
	"fmt"

	"github.com/sampence0/fixedeffectsregression/pkg/stats"
	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// ImputationError reports a column whose fill statistic is undefined because
// every entry is missing. Cleaning aborts rather than propagating an
// undefined value.
type ImputationError struct {
	Column string
	Method string
}

func (e *ImputationError) Error() string {
	return fmt.Sprintf("impute %s: column %q is entirely missing, %s undefined", e.Method, e.Column, e.Method)
}

// ---------- Per-column imputation ----------

// ImputeMean replaces missing entries of a numeric series with the mean of
// the observed values. Returns the number of entries filled.
func ImputeMean(s *table.Series) (int, error) {
	obs := s.NonMissingFloats()
	if len(obs) == 0 {
		return 0, &ImputationError{Column: s.Name, Method: "mean"}
	}
	return fillFloats(s, stats.Mean(obs)), nil
}

// ImputeMedian replaces missing entries of a numeric series with the median
// of the observed values. Returns the number of entries filled.
func ImputeMedian(s *table.Series) (int, error) {
	obs := s.NonMissingFloats()
	if len(obs) == 0 {
		return 0, &ImputationError{Column: s.Name, Method: "median"}
	}
	return fillFloats(s, stats.Median(obs)), nil
}

// ImputeMode replaces missing entries with the most frequent observed value,
// breaking frequency ties toward first-encountered order. Works on both
// numeric indicator columns and label columns.
func ImputeMode(s *table.Series) (int, error) {
	if s.Kind == table.Categorical {
		obs := s.NonMissingLabels()
		if len(obs) == 0 {
			return 0, &ImputationError{Column: s.Name, Method: "mode"}
		}
		mode := stats.ModeLabels(obs)
		n := 0
		for i, m := range s.Missing {
			if m {
				s.Labels[i] = mode
				s.Missing[i] = false
				n++
			}
		}
		return n, nil
	}
	obs := s.NonMissingFloats()
	if len(obs) == 0 {
		return 0, &ImputationError{Column: s.Name, Method: "mode"}
	}
	return fillFloats(s, stats.ModeFloats(obs)), nil
}

func fillFloats(s *table.Series, v float64) int {
	n := 0
	for i, m := range s.Missing {
		if m {
			s.Floats[i] = v
			s.Missing[i] = false
			n++
		}
	}
	return n
}
