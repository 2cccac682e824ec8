package report

import (
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// plotColumn pulls a numeric column for plotting.
func plotColumn(t *table.Table, name string) (plotter.Values, error) {
	s, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("report: no column %q", name)
	}
	if s.Kind != table.Numeric {
		return nil, fmt.Errorf("report: column %q is not numeric", name)
	}
	return plotter.Values(s.Floats), nil
}

// SaveHistogram renders a 16-bin histogram of the column to a PNG file.
func SaveHistogram(t *table.Table, column, path string) error {
	vals, err := plotColumn(t, column)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "Distribution of " + column
	p.X.Label.Text = column
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(vals, 16)
	if err != nil {
		return fmt.Errorf("report: histogram %s: %w", column, err)
	}
	p.Add(h)

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

// SaveBoxplot renders a boxplot of the column to a PNG file.
func SaveBoxplot(t *table.Table, column, path string) error {
	vals, err := plotColumn(t, column)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "Boxplot of " + column
	p.Y.Label.Text = column
	p.NominalX(column)

	b, err := plotter.NewBoxPlot(vg.Points(40), 0, vals)
	if err != nil {
		return fmt.Errorf("report: boxplot %s: %w", column, err)
	}
	p.Add(b)

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := p.Save(4*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

// SaveDonut renders the proportion breakdown as a donut chart PNG.
func SaveDonut(shares []CategoryShare, title, path string) error {
	if len(shares) == 0 {
		return fmt.Errorf("report: donut %q: no categories above threshold", title)
	}
	values := make([]chart.Value, len(shares))
	for i, s := range shares {
		values[i] = chart.Value{
			Value: float64(s.Count),
			Label: fmt.Sprintf("%s (%.1f%%)", s.Label, s.Share*100),
		}
	}
	donut := chart.DonutChart{
		Title:  title,
		Width:  512,
		Height: 512,
		Values: values,
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	defer f.Close()
	if err := donut.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("report: render %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
