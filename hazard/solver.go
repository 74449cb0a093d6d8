package hazard

import (
	"fmt"
	"math"

	"github.com/violayifan/creditrisk/cdserr"
	"github.com/violayifan/creditrisk/curve"
	"github.com/violayifan/creditrisk/hazard/config"
)

// SolveInput is one tenor's calibration problem.
type SolveInput struct {
	// Spread is the par spread as a decimal (0.01 == 100bp).
	Spread float64
	// Recovery is the recovery rate as a decimal.
	Recovery float64
	// Maturity is the tenor in years.
	Maturity float64
	// Discount holds the discount factors at grid points 1..frequency·maturity.
	Discount []float64
	// Prior is the survival curve already solved for shorter tenors.
	Prior []float64
}

// Solution is a converged hazard solve.
type Solution struct {
	Hazard     float64
	Iterations int
	Residual   float64
}

// legs evaluates premium minus protection PV for unit notional.
type legs struct {
	spread    float64
	recovery  float64
	frequency int
	discount  []float64
	prior     []float64
}

// residual returns F(h) = spread/f·Σ S_i·DF_i − (1−R)·Σ (S_{i−1}−S_i)·DF_i and
// its analytic derivative. Only grid points beyond the prior curve depend on h.
func (l legs) residual(h float64) (float64, float64) {
	k := len(l.prior)
	last := 1.0
	if k > 0 {
		last = l.prior[k-1]
	}
	step := 1.0 / float64(l.frequency)

	var premium, protection, dPremium, dProtection float64
	prevS, prevDS := 1.0, 0.0
	for i, df := range l.discount {
		var s, ds float64
		if i < k {
			s = l.prior[i]
		} else {
			tau := step * float64(i-k+1)
			s = last * math.Exp(-h*tau)
			ds = -tau * s
		}
		premium += s * df
		dPremium += ds * df
		protection += (prevS - s) * df
		dProtection += (prevDS - ds) * df
		prevS, prevDS = s, ds
	}

	lgd := 1.0 - l.recovery
	f := l.spread*step*premium - lgd*protection
	df := l.spread*step*dPremium - lgd*dProtection
	return f, df
}

// SolveHazardRate finds the hazard rate h ≥ 0 over (end of Prior, Maturity]
// that equates the premium-leg and protection-leg present values:
//
//	s·(1/f)·Σ S_i(h)·DF_i = (1−R)·Σ (S_{i−1}(h)−S_i(h))·DF_i
//
// Accrual on default is ignored. The residual is strictly decreasing in h, so
// a root is bracketed first and then refined with Newton steps that fall back
// to bisection whenever a step leaves the bracket.
//
// A solve that exhausts cfg.MaxIterations, or for which no non-negative root
// exists, returns a *cdserr.ConvergenceError. It never returns an
// unconverged hazard as a result.
func SolveHazardRate(in SolveInput, cfg config.Config) (Solution, error) {
	if err := cfg.Validate(); err != nil {
		return Solution{}, err
	}
	if math.IsNaN(in.Spread) || math.IsInf(in.Spread, 0) || in.Spread <= 0 {
		return Solution{}, &cdserr.ParseError{Field: "spread", Value: fmt.Sprintf("%g", in.Spread),
			Err: fmt.Errorf("must be positive")}
	}
	if math.IsNaN(in.Recovery) || in.Recovery < 0 || in.Recovery >= 1 {
		return Solution{}, &cdserr.ParseError{Field: "recovery", Value: fmt.Sprintf("%g", in.Recovery),
			Err: fmt.Errorf("must lie in [0,1)")}
	}
	n, err := curve.GridPoints(in.Maturity, cfg.Frequency)
	if err != nil {
		return Solution{}, err
	}
	if len(in.Discount) < n {
		return Solution{}, &cdserr.CurveGapError{Curve: "discount", Maturity: in.Maturity, Have: len(in.Discount), Need: n}
	}
	if len(in.Prior) >= n {
		// The tenor adds no grid period, so the hazard does not enter the legs.
		return Solution{}, &cdserr.CurveGapError{Curve: "survival", Maturity: in.Maturity, Have: len(in.Prior), Need: len(in.Prior) + 1}
	}
	if err := ValidateSurvival(in.Prior); err != nil {
		return Solution{}, fmt.Errorf("SolveHazardRate: prior: %w", err)
	}

	l := legs{
		spread:    in.Spread,
		recovery:  in.Recovery,
		frequency: cfg.Frequency,
		discount:  in.Discount[:n],
		prior:     in.Prior,
	}
	tol := cfg.ConvergenceTolerance

	lo := 0.0
	fLo, _ := l.residual(lo)
	if math.Abs(fLo) <= tol {
		return Solution{Hazard: 0, Residual: fLo}, nil
	}
	if fLo < 0 {
		return Solution{}, &cdserr.ConvergenceError{Reason: "no non-negative root", Hazard: 0, Residual: fLo}
	}

	guess := cfg.InitialGuess
	if guess <= 0 {
		guess = in.Spread / (1.0 - in.Recovery)
	}

	hi := guess
	fHi, _ := l.residual(hi)
	for expansions := 0; fHi > 0; expansions++ {
		if fHi <= tol {
			return Solution{Hazard: hi, Residual: fHi}, nil
		}
		if expansions >= cfg.MaxBracketExpansions {
			return Solution{}, &cdserr.ConvergenceError{Reason: "no root bracketed", Hazard: hi, Residual: fHi}
		}
		lo = hi
		hi *= 2
		fHi, _ = l.residual(hi)
	}
	if -fHi <= tol {
		return Solution{Hazard: hi, Residual: fHi}, nil
	}

	h := guess
	if h <= lo || h >= hi {
		h = 0.5 * (lo + hi)
	}

	var f float64
	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		var dfdh float64
		f, dfdh = l.residual(h)
		if math.Abs(f) <= tol {
			return Solution{Hazard: h, Iterations: iter, Residual: f}, nil
		}
		if f > 0 {
			lo = h
		} else {
			hi = h
		}

		next := 0.5 * (lo + hi)
		if math.Abs(dfdh) > cfg.DerivativeThreshold {
			if step := h - f/dfdh; step > lo && step < hi {
				next = step
			}
		}
		h = next
	}

	return Solution{}, &cdserr.ConvergenceError{
		Reason:     "iteration budget exhausted",
		Iterations: cfg.MaxIterations,
		Hazard:     h,
		Residual:   f,
	}
}

// ImpliedParSpread is the inverse of SolveHazardRate: the spread that makes
// premium and protection PVs equal for the given survival and discount curves
// on the same grid.
func ImpliedParSpread(survival, discount []float64, recovery float64, frequency int) (float64, error) {
	if len(survival) == 0 || len(survival) != len(discount) {
		return 0, fmt.Errorf("ImpliedParSpread: survival (%d) and discount (%d) must be non-empty and aligned",
			len(survival), len(discount))
	}
	if frequency <= 0 {
		return 0, fmt.Errorf("ImpliedParSpread: frequency must be positive, got %d", frequency)
	}
	q := DefaultProbabilities(survival)
	var annuity, protection float64
	for i, df := range discount {
		annuity += survival[i] * df / float64(frequency)
		protection += q[i] * df
	}
	if annuity == 0 {
		return 0, fmt.Errorf("ImpliedParSpread: zero premium annuity")
	}
	return (1.0 - recovery) * protection / annuity, nil
}
