// Package cdserr defines the failure taxonomy shared by the curve, hazard,
// marketdata and batch packages.
//
// Every concrete error matches one of the sentinel kinds through errors.Is,
// so callers can decide between skip-and-continue and abort without
// inspecting concrete types.
package cdserr

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInputNotFound marks a date or issuer absent from reference data.
	ErrInputNotFound = errors.New("input not found")
	// ErrParse marks a malformed recovery, spread, rate or tenor label.
	ErrParse = errors.New("parse error")
	// ErrConvergence marks a root solve that did not satisfy its tolerance.
	ErrConvergence = errors.New("convergence failure")
	// ErrCurveGap marks a tenor lacking the discount or survival data it needs.
	ErrCurveGap = errors.New("curve gap")
)

// InputNotFoundError reports a lookup miss. Date is zero when the lookup was
// not date keyed.
type InputNotFoundError struct {
	Kind string // "zero curve", "cds file", "spread", ...
	Key  string
	Date time.Time
}

func (e *InputNotFoundError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
	}
	if e.Key == "" {
		return fmt.Sprintf("%s not found for %s", e.Kind, e.Date.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s not found for %s on %s", e.Kind, e.Key, e.Date.Format("2006-01-02"))
}

func (e *InputNotFoundError) Is(target error) bool { return target == ErrInputNotFound }

// ParseError reports a field that could not be converted.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ConvergenceError reports a hazard solve that gave up. Hazard and Residual
// hold the last iterate so callers can log how far off the solver was; the
// value must never be used as a result.
type ConvergenceError struct {
	Reason     string
	Iterations int
	Hazard     float64
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("hazard solve: %s after %d iterations (h=%.10g, residual=%.3e)",
		e.Reason, e.Iterations, e.Hazard, e.Residual)
}

func (e *ConvergenceError) Is(target error) bool { return target == ErrConvergence }

// CurveGapError reports a maturity that the available grid cannot reach.
type CurveGapError struct {
	Curve    string // "discount" or "survival"
	Maturity float64
	Have     int // grid points available
	Need     int // grid points required
}

func (e *CurveGapError) Error() string {
	return fmt.Sprintf("%s curve gap at maturity %.4gy: have %d grid points, need %d",
		e.Curve, e.Maturity, e.Have, e.Need)
}

func (e *CurveGapError) Is(target error) bool { return target == ErrCurveGap }

// TenorError attaches the tenor label to a failure raised while solving it.
type TenorError struct {
	Tenor string
	Err   error
}

func (e *TenorError) Error() string { return fmt.Sprintf("tenor %s: %v", e.Tenor, e.Err) }

func (e *TenorError) Unwrap() error { return e.Err }

// Kind returns a short label for the sentinel kind of err, used for logging
// and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInputNotFound):
		return "input_not_found"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrConvergence):
		return "convergence"
	case errors.Is(err, ErrCurveGap):
		return "curve_gap"
	default:
		return "other"
	}
}

// Skippable reports whether err describes missing or malformed input, which
// skips a unit of work, as opposed to a computation failure.
func Skippable(err error) bool {
	return errors.Is(err, ErrInputNotFound) || errors.Is(err, ErrParse)
}
