package hazard_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/violayifan/creditrisk/hazard"
)

func TestExtend_PureExponentialDecay(t *testing.T) {
	t.Parallel()

	const h = 0.05
	s, err := hazard.Extend(nil, 4, 1, h)
	require.NoError(t, err)
	require.Len(t, s, 4)
	require.InDelta(t, math.Exp(-0.05), s[3], 1e-15)

	s, err = hazard.Extend(s, 4, 3, h)
	require.NoError(t, err)
	s, err = hazard.Extend(s, 4, 5, h)
	require.NoError(t, err)
	require.Len(t, s, 20)
	for n, v := range s {
		require.InDeltaf(t, math.Exp(-h*float64(n+1)/4), v, 1e-14, "grid point %d", n+1)
	}
}

func TestExtend_ChainsFromLastPriorValue(t *testing.T) {
	t.Parallel()

	prior, err := hazard.Extend(nil, 4, 1, 0.02)
	require.NoError(t, err)
	snapshot := append([]float64(nil), prior...)

	s, err := hazard.Extend(prior, 4, 2, 0.08)
	require.NoError(t, err)
	require.Equal(t, snapshot, prior, "prior must not be mutated")
	require.Equal(t, prior, s[:4])
	require.InDelta(t, math.Exp(-0.02)*math.Exp(-0.08), s[7], 1e-15)
	require.InDelta(t, math.Exp(-0.02)*math.Exp(-0.08*0.25), s[4], 1e-15)
}

func TestExtend_CoveredMaturityIsNoOp(t *testing.T) {
	t.Parallel()

	prior, err := hazard.Extend(nil, 4, 2, 0.03)
	require.NoError(t, err)
	s, err := hazard.Extend(prior, 4, 1, 0.5)
	require.NoError(t, err)
	require.Equal(t, prior, s)
}

func TestExtend_RejectsInvalidHazard(t *testing.T) {
	t.Parallel()

	for _, h := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		_, err := hazard.Extend(nil, 4, 1, h)
		require.ErrorIs(t, err, hazard.ErrInvalidSurvival, "hazard %g", h)
	}

	// exp underflow drives S to 0, which leaves (0,1].
	_, err := hazard.Extend(nil, 4, 1, 1e6)
	require.ErrorIs(t, err, hazard.ErrInvalidSurvival)

	_, err = hazard.Extend([]float64{0.9, 0.95}, 4, 1, 0.01)
	require.ErrorIs(t, err, hazard.ErrInvalidSurvival)
}

func TestDefaultProbabilities_SumToOneMinusFinalSurvival(t *testing.T) {
	t.Parallel()

	curves := [][]float64{
		{1},
		{0.99, 0.97, 0.97, 0.90},
		{0.5},
	}
	s, err := hazard.Extend(nil, 4, 2, 0.01)
	require.NoError(t, err)
	s, err = hazard.Extend(s, 4, 10, 0.07)
	require.NoError(t, err)
	curves = append(curves, s)

	for _, c := range curves {
		q := hazard.DefaultProbabilities(c)
		require.Len(t, q, len(c))
		sum := 0.0
		for _, v := range q {
			require.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		require.InDelta(t, 1-c[len(c)-1], sum, 1e-14)
	}

	require.Empty(t, hazard.DefaultProbabilities(nil))
}

func TestValidateSurvival(t *testing.T) {
	t.Parallel()

	require.NoError(t, hazard.ValidateSurvival(nil))
	require.NoError(t, hazard.ValidateSurvival([]float64{1, 0.9, 0.9, 0.2}))
	require.ErrorIs(t, hazard.ValidateSurvival([]float64{0.9, 0.91}), hazard.ErrInvalidSurvival)
	require.ErrorIs(t, hazard.ValidateSurvival([]float64{1.01}), hazard.ErrInvalidSurvival)
	require.ErrorIs(t, hazard.ValidateSurvival([]float64{0.5, 0}), hazard.ErrInvalidSurvival)
}
