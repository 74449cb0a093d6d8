// Package config loads hazardstrip settings from defaults, an optional
// config file and HAZARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/violayifan/creditrisk/calendar"
	hazardcfg "github.com/violayifan/creditrisk/hazard/config"
	"github.com/violayifan/creditrisk/marketdata"
	"github.com/violayifan/creditrisk/utils"
)

// EnvPrefix prefixes every environment override, e.g. HAZARD_BATCH_START.
const EnvPrefix = "HAZARD"

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ZeroConfig struct {
	Path string `mapstructure:"path"`
	Unit string `mapstructure:"unit"`
}

type CDSConfig struct {
	Dir        string   `mapstructure:"dir"`
	Pattern    string   `mapstructure:"pattern"`
	DateLayout string   `mapstructure:"date_layout"`
	HeaderRow  int      `mapstructure:"header_row"`
	Tickers    []string `mapstructure:"tickers"`
	Currency   string   `mapstructure:"currency"`
	DocClause  string   `mapstructure:"doc_clause"`
}

type BatchConfig struct {
	Start    string `mapstructure:"start"`
	End      string `mapstructure:"end"`
	Calendar string `mapstructure:"calendar"`
	Workers  int    `mapstructure:"workers"`
}

type OutputConfig struct {
	Path      string `mapstructure:"path"`
	Format    string `mapstructure:"format"`
	Precision int32  `mapstructure:"precision"`
	Report    string `mapstructure:"report"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Config is the full application configuration.
type Config struct {
	Log     LogConfig        `mapstructure:"log"`
	Solver  hazardcfg.Config `mapstructure:"solver"`
	Zero    ZeroConfig       `mapstructure:"zero"`
	CDS     CDSConfig        `mapstructure:"cds"`
	Batch   BatchConfig      `mapstructure:"batch"`
	Output  OutputConfig     `mapstructure:"output"`
	Metrics MetricsConfig    `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	d := hazardcfg.DefaultConfig
	v.SetDefault("solver.frequency", d.Frequency)
	v.SetDefault("solver.convergence_tolerance", d.ConvergenceTolerance)
	v.SetDefault("solver.max_iterations", d.MaxIterations)
	v.SetDefault("solver.max_bracket_expansions", d.MaxBracketExpansions)
	v.SetDefault("solver.initial_guess", d.InitialGuess)
	v.SetDefault("solver.derivative_threshold", d.DerivativeThreshold)

	v.SetDefault("zero.path", "data/zero_curve.csv")
	v.SetDefault("zero.unit", string(marketdata.RatePercent))

	v.SetDefault("cds.dir", "data/cds")
	v.SetDefault("cds.pattern", "V5 CDS Composites-%s.csv")
	v.SetDefault("cds.date_layout", "02Jan06")
	v.SetDefault("cds.header_row", 1)
	v.SetDefault("cds.tickers", []string{})
	v.SetDefault("cds.currency", "USD")
	v.SetDefault("cds.doc_clause", "XR14")

	v.SetDefault("batch.start", "")
	v.SetDefault("batch.end", "")
	v.SetDefault("batch.calendar", string(calendar.Weekends))
	v.SetDefault("batch.workers", 4)

	v.SetDefault("output.path", "hazard_rates.csv")
	v.SetDefault("output.format", "csv")
	v.SetDefault("output.precision", 8)
	v.SetDefault("output.report", "")

	v.SetDefault("metrics.textfile", "")
}

// Load reads defaults, then path when non-empty, then HAZARD_* variables.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings a batch run needs.
func (c Config) Validate() error {
	var errs []error
	if err := c.Solver.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Calendar(); err != nil {
		errs = append(errs, fmt.Errorf("batch.calendar: %w", err))
	}
	if _, _, err := c.DateRange(); err != nil {
		errs = append(errs, err)
	}
	switch c.Output.Format {
	case "csv", "json":
	default:
		errs = append(errs, fmt.Errorf("output.format must be csv or json, got %q", c.Output.Format))
	}
	if c.Output.Precision < 0 {
		errs = append(errs, fmt.Errorf("output.precision must not be negative, got %d", c.Output.Precision))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers))
	}
	if c.CDS.Pattern == "" || !strings.Contains(c.CDS.Pattern, "%s") {
		errs = append(errs, fmt.Errorf("cds.pattern must contain %%s, got %q", c.CDS.Pattern))
	}
	if _, err := marketdata.ParseRateUnit(c.Zero.Unit); err != nil {
		errs = append(errs, fmt.Errorf("zero.unit: %w", err))
	}
	return errors.Join(errs...)
}

// DateRange parses batch.start and batch.end. A missing end means start.
func (c Config) DateRange() (time.Time, time.Time, error) {
	if c.Batch.Start == "" {
		return time.Time{}, time.Time{}, errors.New("batch.start is required")
	}
	start, err := utils.ParseDate(c.Batch.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("batch.start: %w", err)
	}
	end := start
	if c.Batch.End != "" {
		if end, err = utils.ParseDate(c.Batch.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("batch.end: %w", err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("batch.end %s is before batch.start %s", c.Batch.End, c.Batch.Start)
	}
	return start, end, nil
}

// Calendar returns the business-day calendar for date iteration.
func (c Config) Calendar() (calendar.CalendarID, error) {
	return calendar.Parse(c.Batch.Calendar)
}

// Source builds the composite file source.
func (c Config) Source() marketdata.FileSource {
	return marketdata.FileSource{
		Dir:        c.CDS.Dir,
		Pattern:    c.CDS.Pattern,
		DateLayout: c.CDS.DateLayout,
		Options:    marketdata.CDSOptions{HeaderRow: c.CDS.HeaderRow},
		Filter: marketdata.Filter{
			Tickers:   c.CDS.Tickers,
			Currency:  c.CDS.Currency,
			DocClause: c.CDS.DocClause,
		},
	}
}
