package marketdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/violayifan/creditrisk/cdserr"
)

// SpreadPrefix marks the per-tenor spread columns of a composite file.
const SpreadPrefix = "Spread"

// ParseTenorLabel converts a tenor label such as "6m", "5Y" or a column name
// such as "Spread10y" into its normalised label ("10y") and maturity in years.
// Only month and year units are recognised.
func ParseTenorLabel(s string) (string, float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if len(s) >= len(SpreadPrefix) && strings.EqualFold(s[:len(SpreadPrefix)], SpreadPrefix) {
		s = s[len(SpreadPrefix):]
	}
	if len(s) < 2 {
		return "", 0, &cdserr.ParseError{Field: "tenor label", Value: raw}
	}

	unit := strings.ToLower(s[len(s)-1:])
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return "", 0, &cdserr.ParseError{Field: "tenor label", Value: raw, Err: err}
	}
	if n <= 0 {
		return "", 0, &cdserr.ParseError{Field: "tenor label", Value: raw, Err: fmt.Errorf("length must be positive")}
	}

	switch unit {
	case "m":
		return fmt.Sprintf("%dm", n), float64(n) / 12.0, nil
	case "y":
		return fmt.Sprintf("%dy", n), float64(n), nil
	default:
		return "", 0, &cdserr.ParseError{Field: "tenor label", Value: raw, Err: fmt.Errorf("unit %q is neither m nor y", unit)}
	}
}

var hundred = decimal.NewFromInt(100)

// ParsePercent converts a percentage string ("40.00%", "1.2345%", "0.87") to
// a decimal fraction. Values are read as percent whether or not the sign is
// present. Blank and NaN-like cells are reported as absent, not as errors.
func ParsePercent(field, s string) (float64, bool, error) {
	v := strings.TrimSpace(s)
	switch strings.ToLower(v) {
	case "", "nan", "n/a", "na", "null", "-":
		return 0, false, nil
	}
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, false, &cdserr.ParseError{Field: field, Value: s, Err: err}
	}
	return d.Div(hundred).InexactFloat64(), true, nil
}
