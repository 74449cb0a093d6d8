package curve

import (
	"fmt"
	"math"

	"github.com/violayifan/creditrisk/cdserr"
)

// ShortEndCutoff is the grid time (years) up to which discount factors use the
// simple money-market convention 1/(1+r·t). Points beyond it use annual
// compounding (1+r)^-t.
const ShortEndCutoff = 1.0

// gridEpsilon absorbs float noise when a maturity is mapped onto the payment
// grid, e.g. 0.5y at quarterly frequency must give exactly 2 points.
const gridEpsilon = 1e-9

// DiscountFactorCurve holds discount factors on the regular payment grid
// t = n/frequency, n = 0..Len(). The point at t=0 is always 1.
type DiscountFactorCurve struct {
	frequency int
	factors   []float64
}

// BootstrapDiscountFactors converts annual zero rates (decimal, tenors 1..N
// years) into discount factors on the grid implied by frequency payments per
// year.
//
// A rate of 0 is anchored at t=0 and the rate is linearly interpolated across
// the frequency sub-periods between consecutive annual tenors.
func BootstrapDiscountFactors(rates []float64, frequency int) (DiscountFactorCurve, error) {
	if frequency <= 0 {
		return DiscountFactorCurve{}, fmt.Errorf("BootstrapDiscountFactors: frequency must be positive, got %d", frequency)
	}
	if len(rates) == 0 {
		return DiscountFactorCurve{}, fmt.Errorf("BootstrapDiscountFactors: at least one zero rate is required")
	}
	for i, r := range rates {
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= -1 {
			return DiscountFactorCurve{}, &cdserr.ParseError{
				Field: fmt.Sprintf("zero rate %dy", i+1),
				Value: fmt.Sprintf("%g", r),
			}
		}
	}

	n := len(rates) * frequency
	factors := make([]float64, n+1)
	factors[0] = 1.0
	for k := 1; k <= n; k++ {
		t := float64(k) / float64(frequency)
		factors[k] = discountFactor(interpolatedRate(rates, frequency, k), t)
	}
	return DiscountFactorCurve{frequency: frequency, factors: factors}, nil
}

// interpolatedRate returns the zero rate at grid point k, with the implicit
// rate 0 at t=0.
func interpolatedRate(rates []float64, frequency, k int) float64 {
	year := k / frequency
	if year >= len(rates) {
		return rates[len(rates)-1]
	}
	lo := 0.0
	if year > 0 {
		lo = rates[year-1]
	}
	hi := rates[year]
	frac := float64(k-year*frequency) / float64(frequency)
	return lo + frac*(hi-lo)
}

func discountFactor(rate, t float64) float64 {
	if t <= ShortEndCutoff+gridEpsilon {
		return 1.0 / (1.0 + rate*t)
	}
	return math.Pow(1.0+rate, -t)
}

// GridPoints maps a maturity in years onto the number of payment periods at
// the given frequency. Maturities shorter than one period are a curve gap.
func GridPoints(maturity float64, frequency int) (int, error) {
	if frequency <= 0 {
		return 0, fmt.Errorf("GridPoints: frequency must be positive, got %d", frequency)
	}
	if math.IsNaN(maturity) || maturity <= 0 {
		return 0, fmt.Errorf("GridPoints: maturity must be positive, got %g", maturity)
	}
	n := int(math.Floor(maturity*float64(frequency) + gridEpsilon))
	if n < 1 {
		return 0, &cdserr.CurveGapError{Curve: "payment grid", Maturity: maturity, Have: 0, Need: 1}
	}
	return n, nil
}

// Frequency returns the number of grid points per year.
func (c DiscountFactorCurve) Frequency() int { return c.frequency }

// Len returns the number of grid points after t=0.
func (c DiscountFactorCurve) Len() int {
	if len(c.factors) == 0 {
		return 0
	}
	return len(c.factors) - 1
}

// Through returns the discount factors at grid points 1..GridPoints(maturity),
// i.e. the curve truncated to (0, maturity]. The returned slice is a copy.
func (c DiscountFactorCurve) Through(maturity float64) ([]float64, error) {
	n, err := GridPoints(maturity, c.frequency)
	if err != nil {
		return nil, err
	}
	if n > c.Len() {
		return nil, &cdserr.CurveGapError{Curve: "discount", Maturity: maturity, Have: c.Len(), Need: n}
	}
	out := make([]float64, n)
	copy(out, c.factors[1:n+1])
	return out, nil
}
