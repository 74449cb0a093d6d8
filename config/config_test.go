package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/violayifan/creditrisk/calendar"
	"github.com/violayifan/creditrisk/config"
	hazardcfg "github.com/violayifan/creditrisk/hazard/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, hazardcfg.DefaultConfig, cfg.Solver)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "USD", cfg.CDS.Currency)
	require.Equal(t, "XR14", cfg.CDS.DocClause)
	require.Equal(t, 1, cfg.CDS.HeaderRow)
	require.Equal(t, "csv", cfg.Output.Format)
	require.Equal(t, int32(8), cfg.Output.Precision)

	// Every weekday is attempted; dates without a composite file are skipped.
	cal, err := cfg.Calendar()
	require.NoError(t, err)
	require.Equal(t, calendar.Weekends, cal)

	// No start date yet.
	require.ErrorContains(t, cfg.Validate(), "batch.start is required")
}

const sample = `
[log]
level = "debug"
format = "json"

[solver]
frequency = 2
convergence_tolerance = 1e-10

[cds]
dir = "/data/cds"
tickers = ["GS", "KBH"]

[batch]
start = "2009-01-02"
end = "2009-01-09"
calendar = "weekends"
workers = 8

[output]
format = "json"
precision = 6
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hazardstrip.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := config.Load(writeSample(t))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 2, cfg.Solver.Frequency)
	require.Equal(t, 1e-10, cfg.Solver.ConvergenceTolerance)
	require.Equal(t, hazardcfg.DefaultConfig.MaxIterations, cfg.Solver.MaxIterations)
	require.Equal(t, []string{"GS", "KBH"}, cfg.CDS.Tickers)
	require.Equal(t, 8, cfg.Batch.Workers)
	require.Equal(t, int32(6), cfg.Output.Precision)

	start, end, err := cfg.DateRange()
	require.NoError(t, err)
	require.Equal(t, time.Date(2009, 1, 2, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2009, 1, 9, 0, 0, 0, 0, time.UTC), end)

	cal, err := cfg.Calendar()
	require.NoError(t, err)
	require.Equal(t, calendar.Weekends, cal)

	src := cfg.Source()
	require.Equal(t, "/data/cds", src.Dir)
	require.Equal(t, []string{"GS", "KBH"}, src.Filter.Tickers)
	require.Equal(t, "XR14", src.Filter.DocClause)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HAZARD_BATCH_START", "2009-01-05")
	t.Setenv("HAZARD_SOLVER_MAX_ITERATIONS", "25")
	t.Setenv("HAZARD_OUTPUT_FORMAT", "csv")

	cfg, err := config.Load(writeSample(t))
	require.NoError(t, err)
	require.Equal(t, "2009-01-05", cfg.Batch.Start)
	require.Equal(t, 25, cfg.Solver.MaxIterations)
	require.Equal(t, "csv", cfg.Output.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Batch.Start = "2009-01-09"
	cfg.Batch.End = "2009-01-02"
	cfg.Batch.Calendar = "TARGET"
	cfg.Output.Format = "xml"
	cfg.Zero.Unit = "bp"
	cfg.Solver.Frequency = 0

	err = cfg.Validate()
	require.ErrorContains(t, err, "before batch.start")
	require.ErrorContains(t, err, "unknown calendar")
	require.ErrorContains(t, err, "output.format")
	require.ErrorContains(t, err, "zero.unit")
	require.ErrorContains(t, err, "frequency")
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "configs", "hazardstrip.toml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.CDS.Tickers, 15)
	require.Contains(t, cfg.CDS.Tickers, "GS")
	require.Contains(t, cfg.CDS.Tickers, "LIBMUT")
	require.Equal(t, hazardcfg.DefaultConfig, cfg.Solver)
	require.Equal(t, "WEEKENDS", cfg.Batch.Calendar)
}
