package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/sampence0/fixedeffectsregression/pkg/model"
)

// NamedResults pairs an estimation's display name with its results so the
// workbook lists the models in a fixed order.
type NamedResults struct {
	Name    string
	Results *model.Results
}

// WriteWorkbook collects the exploratory summaries and coefficient reports
// into a single Excel workbook.
func WriteWorkbook(path string, nums []NumericSummary, cats []CategoricalSummary, shares []CategoryShare, pairs []CorrPair, models []NamedResults) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, nums, cats); err != nil {
		return fmt.Errorf("report: workbook: %w", err)
	}
	if err := writeProportionSheet(f, shares); err != nil {
		return fmt.Errorf("report: workbook: %w", err)
	}
	if err := writeCorrelationSheet(f, pairs); err != nil {
		return fmt.Errorf("report: workbook: %w", err)
	}
	if err := writeModelSheet(f, models); err != nil {
		return fmt.Errorf("report: workbook: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("report: workbook: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: workbook: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells ...interface{}) error {
	for col, v := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, nums []NumericSummary, cats []CategoricalSummary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, "Column", "Count", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max"); err != nil {
		return err
	}
	row := 2
	for _, s := range nums {
		if err := setRow(f, sheet, row, s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max); err != nil {
			return err
		}
		row++
	}
	row++
	if err := setRow(f, sheet, row, "Column", "Count", "Unique", "Top", "Freq"); err != nil {
		return err
	}
	row++
	for _, s := range cats {
		if err := setRow(f, sheet, row, s.Column, s.Count, s.Unique, s.Top, s.TopFreq); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeProportionSheet(f *excelize.File, shares []CategoryShare) error {
	const sheet = "Proportions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, "Category", "Count", "Share"); err != nil {
		return err
	}
	for i, s := range shares {
		if err := setRow(f, sheet, i+2, s.Label, s.Count, s.Share); err != nil {
			return err
		}
	}
	return nil
}

func writeCorrelationSheet(f *excelize.File, pairs []CorrPair) error {
	const sheet = "Correlations"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if len(pairs) == 0 {
		return setRow(f, sheet, 1, NoSignificantCorrelations)
	}
	if err := setRow(f, sheet, 1, "A", "B", "r"); err != nil {
		return err
	}
	for i, p := range pairs {
		if err := setRow(f, sheet, i+2, p.A, p.B, p.R); err != nil {
			return err
		}
	}
	return nil
}

func writeModelSheet(f *excelize.File, models []NamedResults) error {
	const sheet = "Models"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	row := 1
	for _, m := range models {
		if err := setRow(f, sheet, row, m.Name); err != nil {
			return err
		}
		row++
		if err := setRow(f, sheet, row, "Variable", "Coef", "StdErr", "t", "P>|t|"); err != nil {
			return err
		}
		row++
		for _, c := range m.Results.Coefficients {
			if c.NA {
				if err := setRow(f, sheet, row, c.Name, "NA", "NA", "NA", "NA"); err != nil {
					return err
				}
			} else {
				if err := setRow(f, sheet, row, c.Name, c.Estimate, c.StdErr, c.TStat, c.PValue); err != nil {
					return err
				}
			}
			row++
		}
		if err := setRow(f, sheet, row, "N", m.Results.NObs, "df", m.Results.DFResid, "R2", m.Results.R2); err != nil {
			return err
		}
		row += 2
	}
	return nil
}
