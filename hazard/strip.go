package hazard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/violayifan/creditrisk/cdserr"
	"github.com/violayifan/creditrisk/curve"
	"github.com/violayifan/creditrisk/hazard/config"
)

// TenorQuote is one market spread on an issuer's curve.
type TenorQuote struct {
	Label    string  // e.g. "6m", "5y"
	Maturity float64 // years
	Spread   float64 // decimal, meaningful only when Present
	Present  bool
}

// IssuerQuote is the stripping input for one issuer on one date.
type IssuerQuote struct {
	Date      time.Time
	Ticker    string
	ShortName string
	Recovery  float64
	Tenors    []TenorQuote
}

// Segment is a solved piecewise-constant hazard valid over [Start, End).
type Segment struct {
	Tenor  string
	Start  float64
	End    float64
	Hazard float64
}

// TenorHazard is the hazard reported for a quoted tenor. Imputed tenors had
// no spread and carry a neighbouring segment's hazard.
type TenorHazard struct {
	Tenor      string
	Maturity   float64
	Hazard     float64
	Imputed    bool
	Iterations int
}

// Result is the immutable outcome of stripping one issuer on one date.
type Result struct {
	Date      time.Time
	Ticker    string
	ShortName string
	// Hazards is ordered by ascending maturity and has one entry per tenor.
	// On failure it holds the tenors solved before the failing one, with
	// absent spreads left as NaN.
	Hazards  []TenorHazard
	Segments []Segment
	Survival []float64
}

// Hazard returns the hazard reported for a tenor label.
func (r Result) Hazard(label string) (float64, bool) {
	for _, h := range r.Hazards {
		if h.Tenor == label {
			return h.Hazard, !math.IsNaN(h.Hazard)
		}
	}
	return math.NaN(), false
}

// Strip bootstraps the hazard curve of one issuer. Tenors are processed in
// ascending maturity; each present spread is solved against the survival curve
// of the shorter tenors and then extends it.
//
// Tenors without a spread are resolved after the pass: first from the nearest
// later solved tenor, whose segment spans the missing tenor's interval, then
// from the nearest earlier one for trailing gaps.
//
// A failing tenor aborts the rest of the curve. The error is a
// *cdserr.TenorError and the partial Result is returned alongside it.
func Strip(q IssuerQuote, dfc curve.DiscountFactorCurve, cfg config.Config) (Result, error) {
	res := Result{Date: q.Date, Ticker: q.Ticker, ShortName: q.ShortName}
	if err := cfg.Validate(); err != nil {
		return res, err
	}
	if dfc.Frequency() != cfg.Frequency {
		return res, fmt.Errorf("Strip: discount curve frequency %d does not match solver frequency %d",
			dfc.Frequency(), cfg.Frequency)
	}
	if math.IsNaN(q.Recovery) {
		return res, &cdserr.ParseError{Field: "recovery", Value: "NaN", Err: fmt.Errorf("missing for %s", q.Ticker)}
	}

	tenors := make([]TenorQuote, len(q.Tenors))
	copy(tenors, q.Tenors)
	sort.SliceStable(tenors, func(i, j int) bool { return tenors[i].Maturity < tenors[j].Maturity })

	anyPresent := false
	for _, tq := range tenors {
		if tq.Present {
			anyPresent = true
			break
		}
	}
	if !anyPresent {
		return res, &cdserr.InputNotFoundError{Kind: "spread", Key: q.Ticker, Date: q.Date}
	}

	hazards := make([]TenorHazard, len(tenors))
	var survival []float64
	for i, tq := range tenors {
		hazards[i] = TenorHazard{Tenor: tq.Label, Maturity: tq.Maturity, Hazard: math.NaN()}
		if !tq.Present {
			continue
		}

		next, seg, iters, err := solveTenor(tq, q.Recovery, dfc, survival, cfg)
		if err != nil {
			res.Hazards = hazards[:i]
			res.Survival = survival
			return res, &cdserr.TenorError{Tenor: tq.Label, Err: err}
		}
		hazards[i].Hazard = seg.Hazard
		hazards[i].Iterations = iters
		res.Segments = append(res.Segments, seg)
		survival = next
	}

	imputeMissing(hazards)
	res.Hazards = hazards
	res.Survival = survival
	return res, nil
}

func solveTenor(tq TenorQuote, recovery float64, dfc curve.DiscountFactorCurve, prior []float64, cfg config.Config) ([]float64, Segment, int, error) {
	discount, err := dfc.Through(tq.Maturity)
	if err != nil {
		return nil, Segment{}, 0, err
	}
	sol, err := SolveHazardRate(SolveInput{
		Spread:   tq.Spread,
		Recovery: recovery,
		Maturity: tq.Maturity,
		Discount: discount,
		Prior:    prior,
	}, cfg)
	if err != nil {
		return nil, Segment{}, 0, err
	}
	next, err := Extend(prior, cfg.Frequency, tq.Maturity, sol.Hazard)
	if err != nil {
		return nil, Segment{}, 0, err
	}
	step := 1.0 / float64(cfg.Frequency)
	seg := Segment{
		Tenor:  tq.Label,
		Start:  float64(len(prior)) * step,
		End:    float64(len(next)) * step,
		Hazard: sol.Hazard,
	}
	return next, seg, sol.Iterations, nil
}

// imputeMissing fills NaN hazards by backward fill, then forward fill.
func imputeMissing(hazards []TenorHazard) {
	later := math.NaN()
	for i := len(hazards) - 1; i >= 0; i-- {
		if math.IsNaN(hazards[i].Hazard) {
			if !math.IsNaN(later) {
				hazards[i].Hazard = later
				hazards[i].Imputed = true
			}
			continue
		}
		later = hazards[i].Hazard
	}

	earlier := math.NaN()
	for i := range hazards {
		if math.IsNaN(hazards[i].Hazard) {
			if !math.IsNaN(earlier) {
				hazards[i].Hazard = earlier
				hazards[i].Imputed = true
			}
			continue
		}
		earlier = hazards[i].Hazard
	}
}
