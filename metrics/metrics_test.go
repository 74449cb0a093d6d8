package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/violayifan/creditrisk/metrics"
)

func TestRecorder_Counts(t *testing.T) {
	t.Parallel()

	r := metrics.New()
	r.ObserveTenor(4, false)
	r.ObserveTenor(6, false)
	r.ObserveTenor(0, true)
	r.Unit("ok")
	r.Unit("failed")
	r.Skip("input_not_found")
	r.Rejected("cds", 3)
	r.Rejected("cds", 0)
	r.ObserveDate(15 * time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(r.TenorSolves.WithLabelValues("solved")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.TenorSolves.WithLabelValues("imputed")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.Units.WithLabelValues("failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.Skips.WithLabelValues("input_not_found")))
	require.Equal(t, 3.0, testutil.ToFloat64(r.RejectedInputs.WithLabelValues("cds")))
	require.Equal(t, 1, testutil.CollectAndCount(r.SolverIters))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var r *metrics.Recorder
	r.ObserveTenor(1, false)
	r.Unit("ok")
	r.Skip("parse")
	r.Rejected("zero", 1)
	r.ObserveDate(time.Second)
	require.Nil(t, r.Registry())
	require.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	r := metrics.New()
	r.Unit("ok")
	path := filepath.Join(t.TempDir(), "hazard.prom")
	require.NoError(t, r.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), `hazard_units_total{status="ok"} 1`))
}
