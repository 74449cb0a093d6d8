package marketdata

import (
	"math"
	"strings"
)

// FillRecovery returns a copy of quotes in which a missing recovery is
// replaced by the mean recovery of the same ticker's other rows. Run it
// before currency and doc-clause filtering so that every row of the ticker
// contributes to the mean. Tickers with no recovery at all stay NaN.
func FillRecovery(quotes []CDSQuote) []CDSQuote {
	type acc struct {
		sum float64
		n   int
	}
	means := make(map[string]*acc)
	for _, q := range quotes {
		if math.IsNaN(q.Recovery) {
			continue
		}
		a := means[q.Ticker]
		if a == nil {
			a = &acc{}
			means[q.Ticker] = a
		}
		a.sum += q.Recovery
		a.n++
	}

	out := make([]CDSQuote, len(quotes))
	copy(out, quotes)
	for i := range out {
		if !math.IsNaN(out[i].Recovery) {
			continue
		}
		if a := means[out[i].Ticker]; a != nil {
			out[i].Recovery = a.sum / float64(a.n)
		}
	}
	return out
}

// Filter selects composite rows. Empty fields match everything.
type Filter struct {
	Tickers   []string
	Currency  string
	DocClause string
}

func (f Filter) tickerSet() map[string]struct{} {
	if len(f.Tickers) == 0 {
		return nil
	}
	tickers := make(map[string]struct{}, len(f.Tickers))
	for _, t := range f.Tickers {
		tickers[strings.TrimSpace(t)] = struct{}{}
	}
	return tickers
}

func (f Filter) match(tickers map[string]struct{}, ticker, currency, docClause string) bool {
	if tickers != nil {
		if _, ok := tickers[ticker]; !ok {
			return false
		}
	}
	if f.Currency != "" && currency != f.Currency {
		return false
	}
	return f.DocClause == "" || docClause == f.DocClause
}

// Apply returns the rows matching f, preserving order.
func (f Filter) Apply(quotes []CDSQuote) []CDSQuote {
	tickers := f.tickerSet()
	var out []CDSQuote
	for _, q := range quotes {
		if f.match(tickers, q.Ticker, q.Currency, q.DocClause) {
			out = append(out, q)
		}
	}
	return out
}

// ApplyRejected returns the rejected rows matching f, preserving order.
func (f Filter) ApplyRejected(rows []RejectedRow) []RejectedRow {
	tickers := f.tickerSet()
	var out []RejectedRow
	for _, r := range rows {
		if f.match(tickers, r.Ticker, r.Currency, r.DocClause) {
			out = append(out, r)
		}
	}
	return out
}
