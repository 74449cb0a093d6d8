// Package hazard strips piecewise-constant default intensities from CDS par
// spreads.
//
// Survival probabilities live on the payment grid t = n/frequency with the
// implicit anchor S(0)=1. Each tenor is solved against the survival curve of
// all shorter tenors and then extends that curve; earlier segments are never
// revisited.
package hazard

import (
	"errors"
	"fmt"
	"math"

	"github.com/violayifan/creditrisk/curve"
)

// ErrInvalidSurvival is returned when a survival curve leaves (0,1] or
// increases, which means the hazard rate that produced it is invalid.
var ErrInvalidSurvival = errors.New("invalid survival curve")

// Extend appends S_last·exp(−hazard·n/frequency) for n = 1..(frequency·maturity
// − len(prior)), where S_last is the last prior value (1 if prior is empty).
// The hazard is assumed constant from the end of prior to maturity.
//
// prior is not modified; the result is a new slice. A maturity already covered
// by prior returns a copy of prior.
func Extend(prior []float64, frequency int, maturity, hazard float64) ([]float64, error) {
	if math.IsNaN(hazard) || math.IsInf(hazard, 0) || hazard < 0 {
		return nil, fmt.Errorf("Extend: %w: hazard rate %g", ErrInvalidSurvival, hazard)
	}
	if err := ValidateSurvival(prior); err != nil {
		return nil, fmt.Errorf("Extend: prior: %w", err)
	}
	n, err := curve.GridPoints(maturity, frequency)
	if err != nil {
		return nil, err
	}

	count := n - len(prior)
	if count < 0 {
		count = 0
	}
	out := make([]float64, len(prior), len(prior)+count)
	copy(out, prior)

	last := 1.0
	if len(prior) > 0 {
		last = prior[len(prior)-1]
	}
	step := 1.0 / float64(frequency)
	for j := 1; j <= count; j++ {
		out = append(out, last*math.Exp(-hazard*step*float64(j)))
	}

	if err := ValidateSurvival(out); err != nil {
		return nil, fmt.Errorf("Extend: hazard %g at maturity %gy: %w", hazard, maturity, err)
	}
	return out, nil
}

// DefaultProbabilities returns the marginal default probability of each grid
// period, S(t_{i-1}) − S(t_i) with S(0)=1. The values sum to 1 − S(final).
func DefaultProbabilities(survival []float64) []float64 {
	out := make([]float64, len(survival))
	prev := 1.0
	for i, s := range survival {
		out[i] = prev - s
		prev = s
	}
	return out
}

// ValidateSurvival checks that survival is non-increasing from the implicit
// S(0)=1 and stays within (0,1].
func ValidateSurvival(survival []float64) error {
	prev := 1.0
	for i, s := range survival {
		if math.IsNaN(s) || s <= 0 || s > 1 {
			return fmt.Errorf("%w: S[%d]=%g outside (0,1]", ErrInvalidSurvival, i, s)
		}
		if s > prev {
			return fmt.Errorf("%w: S[%d]=%g exceeds S[%d]=%g", ErrInvalidSurvival, i, s, i-1, prev)
		}
		prev = s
	}
	return nil
}
