package cdserr_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/violayifan/creditrisk/cdserr"
)

func TestKindMatchesWrappedErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{&cdserr.InputNotFoundError{Kind: "zero curve", Date: time.Date(2009, 1, 2, 0, 0, 0, 0, time.UTC)}, "input_not_found"},
		{fmt.Errorf("load: %w", &cdserr.ParseError{Field: "recovery", Value: "x"}), "parse"},
		{&cdserr.TenorError{Tenor: "5y", Err: &cdserr.ConvergenceError{Reason: "iteration budget exhausted"}}, "convergence"},
		{&cdserr.TenorError{Tenor: "30y", Err: &cdserr.CurveGapError{Curve: "discount", Maturity: 30, Have: 80, Need: 120}}, "curve_gap"},
		{errors.New("boom"), "other"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, cdserr.Kind(tc.err))
	}
}

func TestSkippable(t *testing.T) {
	t.Parallel()

	require.True(t, cdserr.Skippable(&cdserr.InputNotFoundError{Kind: "cds file", Key: "x.csv"}))
	require.True(t, cdserr.Skippable(&cdserr.ParseError{Field: "spread", Value: "abc"}))
	require.False(t, cdserr.Skippable(&cdserr.ConvergenceError{Reason: "no root bracketed"}))
	require.False(t, cdserr.Skippable(&cdserr.CurveGapError{Curve: "survival"}))
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	d := time.Date(2009, 1, 2, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "zero curve not found for 2009-01-02",
		(&cdserr.InputNotFoundError{Kind: "zero curve", Date: d}).Error())
	require.Equal(t, "spread not found for GS on 2009-01-02",
		(&cdserr.InputNotFoundError{Kind: "spread", Key: "GS", Date: d}).Error())

	var gap *cdserr.CurveGapError
	err := &cdserr.TenorError{Tenor: "30y", Err: &cdserr.CurveGapError{Curve: "discount", Maturity: 30, Have: 80, Need: 120}}
	require.ErrorAs(t, err, &gap)
	require.Equal(t, 120, gap.Need)
}
