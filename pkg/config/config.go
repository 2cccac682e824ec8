package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries every knob the pipeline needs. Column roles and imputation
// policies are explicit lists, never inferred from column position.
type Config struct {
	// Input and output artifacts.
	InputPath  string `envconfig:"INPUT" default:"data/wagepan.dta"`
	ExportPath string `envconfig:"EXPORT" default:"out/wagepan.csv"`
	PlotDir    string `envconfig:"PLOT_DIR" default:"out/plots"`
	ExcelPath  string `envconfig:"EXCEL" default:"out/report.xlsx"`

	// Column roles.
	IDColumn       string `envconfig:"ID_COLUMN" default:"id"`
	SessionColumn  string `envconfig:"SESSION_COLUMN" default:"session"`
	ResponseColumn string `envconfig:"RESPONSE_COLUMN" default:"lnw"`

	// Imputation policy, method chosen per column.
	MedianImpute []string `envconfig:"MEDIAN_IMPUTE" default:"bmi"`
	MeanImpute   []string `envconfig:"MEAN_IMPUTE" default:"age,school"`
	ModeImpute   []string `envconfig:"MODE_IMPUTE" default:"black,hisp,married,divorced"`

	// Exploratory reporting.
	HistogramColumns    []string `envconfig:"HISTOGRAM_COLUMNS" default:"age,lnw,school"`
	BoxplotColumns      []string `envconfig:"BOXPLOT_COLUMNS" default:"bmi"`
	ProportionColumn    string   `envconfig:"PROPORTION_COLUMN" default:"school"`
	ProportionThreshold float64  `envconfig:"PROPORTION_THRESHOLD" default:"0.01"`
	CorrThreshold       float64  `envconfig:"CORR_THRESHOLD" default:"0.3"`

	// Covariates that are constant within an individual; excluded from the
	// reduced demeaned model because demeaning them yields all-zero columns.
	TimeInvariant []string `envconfig:"TIME_INVARIANT" default:"age,bmi,school,black,hisp,married,divorced"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	// envconfig fills struct tags' defaults when the environment is empty.
	_ = envconfig.Process("panelfit", &c)
	return c
}

// FromEnvironment loads .env (when present) and then the PANELFIT_* environment
// variables on top of the defaults.
func FromEnvironment() (Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("panelfit", &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("config: input path is required")
	}
	if c.IDColumn == "" || c.SessionColumn == "" || c.ResponseColumn == "" {
		return fmt.Errorf("config: id, session and response columns are required")
	}
	if c.CorrThreshold < 0 || c.CorrThreshold > 1 {
		return fmt.Errorf("config: correlation threshold %v outside [0,1]", c.CorrThreshold)
	}
	if c.ProportionThreshold < 0 || c.ProportionThreshold >= 1 {
		return fmt.Errorf("config: proportion threshold %v outside [0,1)", c.ProportionThreshold)
	}
	return nil
}
