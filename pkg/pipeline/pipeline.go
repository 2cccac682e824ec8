package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/sampence0/fixedeffectsregression/pkg/config"
	"github.com/sampence0/fixedeffectsregression/pkg/data"
	"github.com/sampence0/fixedeffectsregression/pkg/dataprep"
	"github.com/sampence0/fixedeffectsregression/pkg/model"
	"github.com/sampence0/fixedeffectsregression/pkg/report"
	"github.com/sampence0/fixedeffectsregression/pkg/table"
)

// Pipeline runs the whole analysis as a single synchronous pass:
// load -> clean -> explore -> fit. A failure at any stage aborts the rest.
type Pipeline struct {
	cfg      config.Config
	log      *slog.Logger
	out      io.Writer
	explored exploration
}

// New builds a pipeline writing human-readable reports to out.
func New(cfg config.Config, logger *slog.Logger, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, log: logger, out: out}
}

// Run executes every stage in order.
func (p *Pipeline) Run() error {
	t, err := p.load()
	if err != nil {
		return err
	}
	t, err = p.clean(t)
	if err != nil {
		return err
	}
	if err := p.explore(t); err != nil {
		return err
	}
	return p.fit(t)
}

func (p *Pipeline) load() (*table.Table, error) {
	t, err := data.Load(p.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	p.log.Info("loaded table", "path", p.cfg.InputPath, "rows", t.NumRows(), "cols", t.NumCols())

	if err := data.ExportCSV(t, p.cfg.ExportPath); err != nil {
		return nil, err
	}
	p.log.Info("exported delimited copy", "path", p.cfg.ExportPath)
	return t, nil
}

func (p *Pipeline) clean(t *table.Table) (*table.Table, error) {
	spec := dataprep.Spec{
		SessionColumn: p.cfg.SessionColumn,
		MedianImpute:  p.cfg.MedianImpute,
		MeanImpute:    p.cfg.MeanImpute,
		ModeImpute:    p.cfg.ModeImpute,
	}
	cleaned, rep, err := dataprep.Clean(t, spec)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(p.out, "Missing values per column:")
	for _, c := range rep.MissingCensus {
		fmt.Fprintf(p.out, "  %-12s %d\n", c.Column, c.Count)
	}
	p.log.Info("cleaned table",
		"duplicates_dropped", rep.DuplicatesDropped,
		"incomplete_dropped", rep.IncompleteDropped,
		"rows_remaining", rep.RowsRemaining)
	return cleaned, nil
}

func (p *Pipeline) explore(t *table.Table) error {
	nums, cats := report.Summarize(t)
	report.RenderSummary(p.out, nums, cats)

	for _, col := range p.cfg.HistogramColumns {
		path := filepath.Join(p.cfg.PlotDir, "hist_"+col+".png")
		if err := report.SaveHistogram(t, col, path); err != nil {
			return err
		}
		p.log.Info("saved plot", "path", path)
	}
	for _, col := range p.cfg.BoxplotColumns {
		path := filepath.Join(p.cfg.PlotDir, "box_"+col+".png")
		if err := report.SaveBoxplot(t, col, path); err != nil {
			return err
		}
		p.log.Info("saved plot", "path", path)
	}

	shares, err := report.Proportions(t, p.cfg.ProportionColumn, p.cfg.ProportionThreshold)
	if err != nil {
		return err
	}
	report.RenderProportions(p.out, p.cfg.ProportionColumn, shares)
	donut := filepath.Join(p.cfg.PlotDir, "donut_"+p.cfg.ProportionColumn+".png")
	if err := report.SaveDonut(shares, "Proportions of "+p.cfg.ProportionColumn, donut); err != nil {
		return err
	}
	p.log.Info("saved plot", "path", donut)

	pairs := report.CorrelationScan(t, p.cfg.CorrThreshold)
	report.RenderCorrelations(p.out, pairs, p.cfg.CorrThreshold)

	p.explored = exploration{nums: nums, cats: cats, shares: shares, pairs: pairs}
	return nil
}

// exploration carries reporter output forward so the workbook can collect it
// alongside the model results.
type exploration struct {
	nums   []report.NumericSummary
	cats   []report.CategoricalSummary
	shares []report.CategoryShare
	pairs  []report.CorrPair
}

func (p *Pipeline) fit(t *table.Table) error {
	covars := model.NumericCovariates(t, p.cfg.IDColumn, p.cfg.SessionColumn, p.cfg.ResponseColumn)
	if len(covars) == 0 {
		return fmt.Errorf("pipeline: no numeric covariates found")
	}
	p.log.Info("fitting models", "response", p.cfg.ResponseColumn, "covariates", len(covars))

	pooled, err := model.PooledOLS(t, p.cfg.ResponseColumn, covars)
	if err != nil {
		return err
	}
	pooled.Render(p.out, "Pooled OLS")

	fe, timeInvariant, err := model.FixedEffects(t, p.cfg.IDColumn, p.cfg.ResponseColumn, covars)
	if err != nil {
		return err
	}
	if len(timeInvariant) > 0 {
		fmt.Fprintf(p.out, "\ntime-invariant covariates dropped from within estimation: %v\n", timeInvariant)
	}
	fe.Render(p.out, "Fixed Effects (within)")

	demeaned, err := model.DemeanedOLS(t, p.cfg.IDColumn, p.cfg.ResponseColumn, covars)
	if err != nil {
		return err
	}
	demeaned.Render(p.out, "Demeaned OLS (manual)")

	reduced, err := model.DemeanedOLS(t, p.cfg.IDColumn, p.cfg.ResponseColumn, exclude(covars, p.cfg.TimeInvariant))
	if err != nil {
		return err
	}
	reduced.Render(p.out, "Demeaned OLS (reduced)")

	if p.cfg.ExcelPath != "" {
		models := []report.NamedResults{
			{Name: "Pooled OLS", Results: pooled},
			{Name: "Fixed Effects (within)", Results: fe},
			{Name: "Demeaned OLS (manual)", Results: demeaned},
			{Name: "Demeaned OLS (reduced)", Results: reduced},
		}
		e := p.explored
		if err := report.WriteWorkbook(p.cfg.ExcelPath, e.nums, e.cats, e.shares, e.pairs, models); err != nil {
			return err
		}
		p.log.Info("wrote workbook", "path", p.cfg.ExcelPath)
	}
	return nil
}

// exclude returns cols minus the listed names, order preserved.
func exclude(cols, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	var out []string
	for _, c := range cols {
		if _, ok := skip[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}
