package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/violayifan/creditrisk/batch"
	"github.com/violayifan/creditrisk/config"
	"github.com/violayifan/creditrisk/marketdata"
	"github.com/violayifan/creditrisk/metrics"
	"github.com/violayifan/creditrisk/output"
)

func main() {
	configPath := flag.String("config", "", "Config file (TOML, YAML or JSON); HAZARD_* env vars override it")
	start := flag.String("start", "", "First curve date (overrides batch.start)")
	end := flag.String("end", "", "Last curve date (overrides batch.end)")
	out := flag.String("out", "", "Hazard table path, - for stdout (overrides output.path)")
	format := flag.String("format", "", "Hazard table format: csv or json (overrides output.format)")
	reportPath := flag.String("report", "", "Run report JSON path (overrides output.report)")
	tickers := flag.String("tickers", "", "Comma separated tickers (overrides cds.tickers)")
	workers := flag.Int("workers", 0, "Concurrent dates (overrides batch.workers)")
	jsonMode := flag.Bool("json", false, "Strip issuers given as JSON and print JSON results")
	inputPath := flag.String("input", "", "JSON input path for -json (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: hazardstrip -config <path> [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-out path]")
		fmt.Fprintln(os.Stderr, "       hazardstrip -json [-input <path>]")
		fmt.Fprintln(os.Stderr, "Bootstrap piecewise-constant CDS hazard rates from composite spreads and a zero curve.")
		flag.PrintDefaults()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hazardstrip: %v\n", err)
		os.Exit(1)
	}
	if *start != "" {
		cfg.Batch.Start = *start
	}
	if *end != "" {
		cfg.Batch.End = *end
	}
	if *out != "" {
		cfg.Output.Path = *out
	}
	if *format != "" {
		cfg.Output.Format = strings.ToLower(*format)
	}
	if *reportPath != "" {
		cfg.Output.Report = *reportPath
	}
	if *tickers != "" {
		cfg.CDS.Tickers = marketdata.ParseTickers(*tickers)
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if *jsonMode {
		os.Exit(runJSON(*inputPath, cfg))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("hazardstrip failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	unit, err := marketdata.ParseRateUnit(cfg.Zero.Unit)
	if err != nil {
		return err
	}
	startDate, endDate, err := cfg.DateRange()
	if err != nil {
		return err
	}
	cal, err := cfg.Calendar()
	if err != nil {
		return err
	}

	rec := metrics.New()
	zf, err := marketdata.LoadZeroCurveFile(cfg.Zero.Path, marketdata.ZeroCurveOptions{Unit: unit})
	if err != nil {
		return err
	}
	rec.Rejected("zero", len(zf.Rejected))
	for _, rej := range zf.Rejected {
		logger.Warn("zero curve row rejected", "path", cfg.Zero.Path, "error", rej)
	}
	logger.Info("zero curve loaded", "path", cfg.Zero.Path, "dates", len(zf.Curve.Dates()), "tenors", zf.Tenors)

	runner := &batch.Runner{
		Rates:   zf.Curve,
		Quotes:  cfg.Source(),
		Config:  cfg.Solver,
		Workers: cfg.Batch.Workers,
		Logger:  logger,
		Metrics: rec,
	}
	rep, err := runner.Run(ctx, batch.BusinessDates(startDate, endDate, cal))
	if err != nil {
		return err
	}

	err = output.WriteFile(cfg.Output.Path, func(w io.Writer) error {
		return output.WriteTable(w, rep, output.Format(cfg.Output.Format), cfg.Output.Precision)
	})
	if err != nil {
		return err
	}
	logger.Info("hazard table written", "path", cfg.Output.Path, "rows", len(rep.Rows))

	if cfg.Output.Report != "" {
		err = output.WriteFile(cfg.Output.Report, func(w io.Writer) error {
			return output.WriteReport(w, rep, cfg.Output.Precision)
		})
		if err != nil {
			return err
		}
	}
	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
