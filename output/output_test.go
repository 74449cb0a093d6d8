package output_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/violayifan/creditrisk/batch"
	"github.com/violayifan/creditrisk/hazard"
	"github.com/violayifan/creditrisk/marketdata"
	"github.com/violayifan/creditrisk/output"
)

var jan2 = time.Date(2009, 1, 2, 0, 0, 0, 0, time.UTC)

func sampleReport() batch.Report {
	return batch.Report{
		Dates: 1,
		Tenors: []marketdata.Tenor{
			{Label: "6m", Maturity: 0.5},
			{Label: "1y", Maturity: 1},
			{Label: "5y", Maturity: 5},
		},
		Rows: []batch.Row{
			{
				Date: jan2, Ticker: "GS", ShortName: "Goldman Sachs Gp Inc",
				Hazards: []hazard.TenorHazard{
					{Tenor: "6m", Maturity: 0.5, Hazard: 0.0123456789},
					{Tenor: "1y", Maturity: 1, Hazard: 0.02, Imputed: true},
					{Tenor: "5y", Maturity: 5, Hazard: 0.02},
				},
			},
			{
				Date: jan2, Ticker: "KBH", ShortName: "KB Home",
				Hazards: []hazard.TenorHazard{
					{Tenor: "1y", Maturity: 1, Hazard: math.NaN()},
					{Tenor: "5y", Maturity: 5, Hazard: 0.1},
				},
			},
		},
		Skips: []batch.Issue{{Date: jan2, Ticker: "BBY", Kind: "parse", Reason: "parse recovery"}},
		Failures: []batch.Issue{{
			Date: jan2, Ticker: "XEL", Tenor: "10y", Kind: "curve_gap", Reason: "gap",
			Partial: []hazard.TenorHazard{{Tenor: "1y", Maturity: 1, Hazard: 0.015}},
		}},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.WriteCSV(&buf, sampleReport(), 6))
	require.Equal(t,
		"Date,Ticker,ShortName,6m,1y,5y\n"+
			"2009-01-02,GS,Goldman Sachs Gp Inc,0.012346,0.020000,0.020000\n"+
			"2009-01-02,KBH,KB Home,,,0.100000\n",
		buf.String())
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.WriteTable(&buf, sampleReport(), output.JSON, 4))

	var rows []output.RowJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "2009-01-02", rows[0].Date)
	require.Equal(t, 0.0123, *rows[0].Hazards[0].Hazard)
	require.True(t, rows[0].Hazards[1].Imputed)
	require.Nil(t, rows[1].Hazards[0].Hazard)
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.WriteReport(&buf, sampleReport(), 8))

	var rep output.ReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	require.Equal(t, 1, rep.Dates)
	require.Equal(t, 2, rep.Rows)
	require.Len(t, rep.Skips, 1)
	require.Equal(t, "BBY", rep.Skips[0].Ticker)
	require.Empty(t, rep.Skips[0].Partial)
	require.Len(t, rep.Failures, 1)
	require.Equal(t, "10y", rep.Failures[0].Tenor)
	require.Equal(t, 0.015, *rep.Failures[0].Partial[0].Hazard)
}

func TestWriteTable_UnknownFormat(t *testing.T) {
	t.Parallel()

	require.Error(t, output.WriteTable(&bytes.Buffer{}, sampleReport(), "xml", 2))
}

func TestWriteFile_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "hazard.csv")
	require.NoError(t, output.WriteFile(path, func(w io.Writer) error {
		return output.WriteCSV(w, sampleReport(), 2)
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "KBH,KB Home,,,0.10")
}
