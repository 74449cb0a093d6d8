package batch

import (
	"context"
	"time"

	"github.com/violayifan/creditrisk/curve"
	"github.com/violayifan/creditrisk/marketdata"
)

//go:generate mockgen -package=batch_test -destination=mock_sources_test.go -source=sources.go QuoteSource,RateSource

// QuoteSource yields the cleaned composite quotes published for a date.
// A date without a file is reported as *cdserr.InputNotFoundError.
type QuoteSource interface {
	Quotes(ctx context.Context, date time.Time) (marketdata.QuoteSet, error)
}

// RateSource yields the discount factor curve for a quote date.
// *curve.ZeroCurve satisfies it.
type RateSource interface {
	DiscountCurve(date time.Time, frequency int) (curve.DiscountFactorCurve, error)
}
