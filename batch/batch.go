// Package batch strips hazard curves for every issuer over a range of dates.
//
// Dates are independent units and run concurrently; the issuers of one date
// run sequentially. Every unit returns its own UnitResult and the runner
// merges them once all units finish, so no table is shared between workers.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/violayifan/creditrisk/calendar"
	"github.com/violayifan/creditrisk/cdserr"
	"github.com/violayifan/creditrisk/curve"
	"github.com/violayifan/creditrisk/hazard"
	"github.com/violayifan/creditrisk/hazard/config"
	"github.com/violayifan/creditrisk/marketdata"
	"github.com/violayifan/creditrisk/metrics"
	"github.com/violayifan/creditrisk/utils"
)

// Row is one issuer's reported curve on a date.
type Row struct {
	Date      time.Time
	Ticker    string
	ShortName string
	Hazards   []hazard.TenorHazard
}

// Issue records a skipped or failed unit. Ticker is empty when the whole
// date was skipped; Tenor is set when a specific tenor was at fault.
type Issue struct {
	Date   time.Time
	Ticker string
	Tenor  string
	Kind   string
	Reason string
	// Partial holds the tenors solved before a failure.
	Partial []hazard.TenorHazard
}

// UnitResult is the immutable outcome of one date.
type UnitResult struct {
	Date     time.Time
	Rows     []Row
	Skips    []Issue
	Failures []Issue
}

// Report is the merged outcome of a run.
type Report struct {
	Dates int
	// Tenors is the union of reported tenors in ascending maturity.
	Tenors   []marketdata.Tenor
	Rows     []Row
	Skips    []Issue
	Failures []Issue
}

// Runner wires the quote and rate sources to the stripper.
type Runner struct {
	Rates   RateSource
	Quotes  QuoteSource
	Config  config.Config
	Workers int
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func (r *Runner) workers() int {
	if r.Workers <= 0 {
		return runtime.NumCPU()
	}
	return r.Workers
}

// Run strips every issuer on every date. Missing or malformed inputs and
// solver failures are recorded in the Report; only cancellation or an
// invalid runner setup returns an error.
func (r *Runner) Run(ctx context.Context, dates []time.Time) (Report, error) {
	if r.Rates == nil || r.Quotes == nil {
		return Report{}, errors.New("Run: rate and quote sources are required")
	}
	if err := r.Config.Validate(); err != nil {
		return Report{}, fmt.Errorf("Run: %w", err)
	}

	log := r.logger()
	log.Info("batch started", "dates", len(dates), "workers", r.workers())

	units := make([]UnitResult, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			start := time.Now()
			unit, err := r.RunDate(gctx, date)
			if err != nil {
				return err
			}
			r.Metrics.ObserveDate(time.Since(start))
			units[i] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	rep := Merge(units)
	log.Info("batch finished", "dates", rep.Dates, "rows", len(rep.Rows),
		"skips", len(rep.Skips), "failures", len(rep.Failures))
	return rep, nil
}

type curveEntry struct {
	dfc      curve.DiscountFactorCurve
	err      error
	reported bool
}

// RunDate strips every issuer published for date. The returned error is
// non-nil only when ctx is done.
func (r *Runner) RunDate(ctx context.Context, date time.Time) (UnitResult, error) {
	unit := UnitResult{Date: date}
	log := r.logger().With("date", date.Format(time.DateOnly))

	set, err := r.Quotes.Quotes(ctx, date)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return UnitResult{}, ctxErr
		}
		r.skip(log, &unit, Issue{Date: date, Kind: cdserr.Kind(err), Reason: err.Error()})
		return unit, nil
	}
	r.Metrics.Rejected("cds", len(set.Rejected))
	for _, rej := range set.Rejected {
		r.skip(log, &unit, Issue{Date: date, Ticker: rej.Ticker, Kind: cdserr.Kind(rej), Reason: rej.Error()})
	}

	curves := make(map[time.Time]*curveEntry)
	for _, q := range set.Quotes {
		if err := ctx.Err(); err != nil {
			return UnitResult{}, err
		}

		entry, ok := curves[q.Date]
		if !ok {
			dfc, err := r.Rates.DiscountCurve(q.Date, r.Config.Frequency)
			entry = &curveEntry{dfc: dfc, err: err}
			curves[q.Date] = entry
		}
		if entry.err != nil {
			if !entry.reported {
				entry.reported = true
				r.skip(log, &unit, Issue{Date: q.Date, Kind: cdserr.Kind(entry.err), Reason: entry.err.Error()})
			}
			continue
		}

		r.stripIssuer(log, &unit, q, entry.dfc)
	}

	log.Info("date processed", "issuers", len(set.Quotes), "rows", len(unit.Rows),
		"skips", len(unit.Skips), "failures", len(unit.Failures))
	return unit, nil
}

func (r *Runner) stripIssuer(log *slog.Logger, unit *UnitResult, q marketdata.CDSQuote, dfc curve.DiscountFactorCurve) {
	res, err := hazard.Strip(q.IssuerQuote(), dfc, r.Config)
	if err == nil {
		for _, h := range res.Hazards {
			r.Metrics.ObserveTenor(h.Iterations, h.Imputed)
		}
		r.Metrics.Unit("ok")
		unit.Rows = append(unit.Rows, Row{
			Date:      res.Date,
			Ticker:    res.Ticker,
			ShortName: res.ShortName,
			Hazards:   res.Hazards,
		})
		return
	}

	issue := Issue{Date: q.Date, Ticker: q.Ticker, Kind: cdserr.Kind(err), Reason: err.Error()}
	var te *cdserr.TenorError
	if errors.As(err, &te) {
		issue.Tenor = te.Tenor
	}
	if cdserr.Skippable(err) {
		r.skip(log, unit, issue)
		return
	}

	issue.Partial = res.Hazards
	r.Metrics.Unit("failed")
	log.Error("issuer failed", "ticker", issue.Ticker, "tenor", issue.Tenor, "kind", issue.Kind, "error", err)
	unit.Failures = append(unit.Failures, issue)
}

func (r *Runner) skip(log *slog.Logger, unit *UnitResult, issue Issue) {
	r.Metrics.Unit("skipped")
	r.Metrics.Skip(issue.Kind)
	log.Warn("skipped", "ticker", issue.Ticker, "tenor", issue.Tenor, "kind", issue.Kind, "reason", issue.Reason)
	unit.Skips = append(unit.Skips, issue)
}

// Merge combines unit results into a Report ordered by date then ticker.
func Merge(units []UnitResult) Report {
	var rep Report
	seen := make(map[string]float64)
	for _, u := range units {
		if u.Date.IsZero() {
			continue
		}
		rep.Dates++
		rep.Rows = append(rep.Rows, u.Rows...)
		rep.Skips = append(rep.Skips, u.Skips...)
		rep.Failures = append(rep.Failures, u.Failures...)
		for _, row := range u.Rows {
			for _, h := range row.Hazards {
				seen[h.Tenor] = h.Maturity
			}
		}
	}

	sort.SliceStable(rep.Rows, func(i, j int) bool {
		a, b := rep.Rows[i], rep.Rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Ticker != b.Ticker {
			return a.Ticker < b.Ticker
		}
		return a.ShortName < b.ShortName
	})
	sortIssues(rep.Skips)
	sortIssues(rep.Failures)

	for label, m := range seen {
		rep.Tenors = append(rep.Tenors, marketdata.Tenor{Label: label, Maturity: m})
	}
	sort.Slice(rep.Tenors, func(i, j int) bool {
		if rep.Tenors[i].Maturity != rep.Tenors[j].Maturity {
			return rep.Tenors[i].Maturity < rep.Tenors[j].Maturity
		}
		return rep.Tenors[i].Label < rep.Tenors[j].Label
	})
	return rep
}

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Ticker < b.Ticker
	})
}

// BusinessDates lists the business days of cal from start to end inclusive.
func BusinessDates(start, end time.Time, cal calendar.CalendarID) []time.Time {
	return utils.DateRange(start, end, func(t time.Time) bool {
		return calendar.IsBusinessDay(cal, t)
	})
}
