package curve

import (
	"time"

	"github.com/violayifan/creditrisk/cdserr"
	"github.com/violayifan/creditrisk/utils"
)

const dateKey = "2006-01-02"

// ZeroCurve is a read-only history of annual zero-rate curves keyed by date.
// Rates are decimals at tenors 1..N years. It is safe for concurrent reads.
type ZeroCurve struct {
	rates map[string][]float64
	dates []time.Time
}

// NewZeroCurve copies rows into a ZeroCurve. Only the calendar date of each
// key is significant.
func NewZeroCurve(rows map[time.Time][]float64) *ZeroCurve {
	zc := &ZeroCurve{rates: make(map[string][]float64, len(rows))}
	for d, r := range rows {
		key := d.Format(dateKey)
		if _, dup := zc.rates[key]; !dup {
			zc.dates = append(zc.dates, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
		}
		cp := make([]float64, len(r))
		copy(cp, r)
		zc.rates[key] = cp
	}
	utils.SortDates(zc.dates)
	return zc
}

// Rates returns a copy of the zero rates for date.
func (zc *ZeroCurve) Rates(date time.Time) ([]float64, error) {
	r, ok := zc.rates[date.Format(dateKey)]
	if !ok || len(r) == 0 {
		return nil, &cdserr.InputNotFoundError{Kind: "zero curve", Date: date}
	}
	out := make([]float64, len(r))
	copy(out, r)
	return out, nil
}

// Dates returns the curve dates in ascending order.
func (zc *ZeroCurve) Dates() []time.Time {
	out := make([]time.Time, len(zc.dates))
	copy(out, zc.dates)
	return out
}

// DiscountCurve bootstraps the discount factor curve for date. A date missing
// from the history yields a *cdserr.InputNotFoundError; the caller is expected
// to skip that date rather than abort.
func (zc *ZeroCurve) DiscountCurve(date time.Time, frequency int) (DiscountFactorCurve, error) {
	rates, err := zc.Rates(date)
	if err != nil {
		return DiscountFactorCurve{}, err
	}
	return BootstrapDiscountFactors(rates, frequency)
}
