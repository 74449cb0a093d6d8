package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/violayifan/creditrisk/cdserr"
	"github.com/violayifan/creditrisk/curve"
	"github.com/violayifan/creditrisk/utils"
)

// RateUnit says how zero rates are quoted in the source file.
type RateUnit string

const (
	RatePercent RateUnit = "percent"
	RateDecimal RateUnit = "decimal"
)

// ParseRateUnit maps a configuration string onto a RateUnit; blank means percent.
func ParseRateUnit(s string) (RateUnit, error) {
	switch u := RateUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case RatePercent, "":
		return RatePercent, nil
	case RateDecimal:
		return RateDecimal, nil
	default:
		return "", fmt.Errorf("unknown rate unit %q", s)
	}
}

// ZeroCurveOptions controls zero-curve parsing.
type ZeroCurveOptions struct {
	Unit        RateUnit
	DateLayouts []string
}

// ZeroCurveFile is a parsed zero-curve history.
type ZeroCurveFile struct {
	Curve *curve.ZeroCurve
	// Tenors is the number of annual tenor columns in the header.
	Tenors   int
	Rejected []error
}

// ReadZeroCurve parses a CSV with a date column followed by one column per
// annual tenor (1y, 2y, ...). A row stops at its first blank cell, so older
// histories that lack long tenors yield shorter curves; tenors beyond them
// surface later as curve gaps.
func ReadZeroCurve(r io.Reader, opts ZeroCurveOptions) (ZeroCurveFile, error) {
	scale := decimal.NewFromInt(100)
	switch opts.Unit {
	case RatePercent, "":
	case RateDecimal:
		scale = decimal.NewFromInt(1)
	default:
		return ZeroCurveFile{}, fmt.Errorf("ReadZeroCurve: unknown rate unit %q", opts.Unit)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return ZeroCurveFile{}, fmt.Errorf("ReadZeroCurve: read header: %w", err)
	}
	if len(header) < 2 {
		return ZeroCurveFile{}, &cdserr.ParseError{Field: "zero curve header", Value: strings.Join(header, ","),
			Err: fmt.Errorf("need a date column and at least one tenor")}
	}
	for i, h := range header[1:] {
		if n, ok := trailingInt(h); ok && n != i+1 {
			return ZeroCurveFile{}, &cdserr.ParseError{Field: "zero curve header", Value: h,
				Err: fmt.Errorf("column %d should hold the %dy tenor", i+2, i+1)}
		}
	}

	rows := make(map[time.Time][]float64)
	out := ZeroCurveFile{Tenors: len(header) - 1}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return out, fmt.Errorf("ReadZeroCurve: line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}

		d, err := utils.ParseDate(rec[0], opts.DateLayouts...)
		if err != nil {
			out.Rejected = append(out.Rejected, fmt.Errorf("line %d: %w",
				line, &cdserr.ParseError{Field: "date", Value: rec[0], Err: err}))
			continue
		}
		rates, err := parseRates(rec[1:], scale)
		if err != nil {
			out.Rejected = append(out.Rejected, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rates) == 0 {
			out.Rejected = append(out.Rejected, fmt.Errorf("line %d: %w", line,
				&cdserr.ParseError{Field: "zero rates", Value: strings.Join(rec, ","), Err: fmt.Errorf("no rates")}))
			continue
		}
		rows[d] = rates
	}
	out.Curve = curve.NewZeroCurve(rows)
	return out, nil
}

func parseRates(cells []string, scale decimal.Decimal) ([]float64, error) {
	rates := make([]float64, 0, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || strings.EqualFold(c, "nan") {
			break
		}
		d, err := decimal.NewFromString(c)
		if err != nil {
			return nil, &cdserr.ParseError{Field: fmt.Sprintf("zero rate %dy", i+1), Value: c, Err: err}
		}
		rates = append(rates, d.Div(scale).InexactFloat64())
	}
	return rates, nil
}

// trailingInt extracts the integer suffix of a column name like "SVENY07".
func trailingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s[i:])
	return n, err == nil
}
