package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/sampence0/fixedeffectsregression/pkg/config"
	"github.com/sampence0/fixedeffectsregression/pkg/pipeline"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --input       : Path to the source panel file (.dta or delimited text)
// --export      : Path for the portable CSV copy of the raw table
// --plots       : Directory for rendered PNG charts
// --excel       : Path for the Excel report workbook ("" disables it)
// --corr-thresh : Report correlation pairs with |r| above this value
// --prop-thresh : Keep proportion categories with share above this value
// --verbose     : Debug-level logging
//
// Every flag also has a PANELFIT_* environment variable (optionally via a
// .env file); flags win when both are set.
//
// Example:
//   panelfit --input data/wagepan.dta --plots out/plots --corr-thresh 0.3
//
// ---------------------------------------------------------------------
//

func main() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		slog.Error("configuration failed", "err", err)
		os.Exit(1)
	}

	input := flag.String("input", cfg.InputPath, "Path to source panel file (.dta or delimited text)")
	export := flag.String("export", cfg.ExportPath, "Path for portable CSV copy")
	plots := flag.String("plots", cfg.PlotDir, "Directory for rendered charts")
	excel := flag.String("excel", cfg.ExcelPath, "Path for Excel report workbook (empty disables)")
	corrThresh := flag.Float64("corr-thresh", cfg.CorrThreshold, "Correlation significance threshold")
	propThresh := flag.Float64("prop-thresh", cfg.ProportionThreshold, "Categorical proportion threshold")
	verbose := flag.Bool("verbose", false, "Debug-level logging")
	flag.Parse()

	cfg.InputPath = *input
	cfg.ExportPath = *export
	cfg.PlotDir = *plots
	cfg.ExcelPath = *excel
	cfg.CorrThreshold = *corrThresh
	cfg.ProportionThreshold = *propThresh

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	p := pipeline.New(cfg, logger, os.Stdout)
	if err := p.Run(); err != nil {
		logger.Error("pipeline failed", "err", err)
		os.Exit(1)
	}
}
