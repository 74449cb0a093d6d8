// Package output writes stripped hazard tables and run reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/violayifan/creditrisk/batch"
	"github.com/violayifan/creditrisk/hazard"
)

const dateLayout = time.DateOnly

// Format selects the table encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// round formats a hazard at precision decimals; NaN becomes "".
func round(h float64, precision int32) string {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return ""
	}
	return decimal.NewFromFloat(h).Round(precision).StringFixed(precision)
}

// WriteCSV writes Date,Ticker,ShortName followed by one column per tenor in
// ascending maturity. Tenors an issuer does not quote are left blank.
func WriteCSV(w io.Writer, rep batch.Report, precision int32) error {
	cw := csv.NewWriter(w)
	header := []string{"Date", "Ticker", "ShortName"}
	for _, t := range rep.Tenors {
		header = append(header, t.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("WriteCSV: header: %w", err)
	}

	for _, row := range rep.Rows {
		byLabel := hazardsByLabel(row.Hazards)
		rec := []string{row.Date.Format(dateLayout), row.Ticker, row.ShortName}
		for _, t := range rep.Tenors {
			cell := ""
			if h, ok := byLabel[t.Label]; ok {
				cell = round(h.Hazard, precision)
			}
			rec = append(rec, cell)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("WriteCSV: %s %s: %w", rec[0], row.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func hazardsByLabel(hs []hazard.TenorHazard) map[string]hazard.TenorHazard {
	out := make(map[string]hazard.TenorHazard, len(hs))
	for _, h := range hs {
		out[h.Tenor] = h
	}
	return out
}

// TenorJSON is one tenor of a JSON row.
type TenorJSON struct {
	Tenor    string   `json:"tenor"`
	Maturity float64  `json:"maturity"`
	Hazard   *float64 `json:"hazard"`
	Imputed  bool     `json:"imputed,omitempty"`
}

// RowJSON is one issuer curve in the JSON table.
type RowJSON struct {
	Date      string      `json:"date"`
	Ticker    string      `json:"ticker"`
	ShortName string      `json:"short_name"`
	Hazards   []TenorJSON `json:"hazards"`
}

// TenorsJSON converts reported hazards; NaN hazards encode as null.
func TenorsJSON(hs []hazard.TenorHazard, precision int32) []TenorJSON {
	out := make([]TenorJSON, 0, len(hs))
	for _, h := range hs {
		t := TenorJSON{Tenor: h.Tenor, Maturity: h.Maturity, Imputed: h.Imputed}
		if !math.IsNaN(h.Hazard) && !math.IsInf(h.Hazard, 0) {
			v := decimal.NewFromFloat(h.Hazard).Round(precision).InexactFloat64()
			t.Hazard = &v
		}
		out = append(out, t)
	}
	return out
}

// WriteJSON writes the table as an indented JSON array of rows.
func WriteJSON(w io.Writer, rep batch.Report, precision int32) error {
	rows := make([]RowJSON, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		rows = append(rows, RowJSON{
			Date:      row.Date.Format(dateLayout),
			Ticker:    row.Ticker,
			ShortName: row.ShortName,
			Hazards:   TenorsJSON(row.Hazards, precision),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("WriteJSON: %w", err)
	}
	return nil
}

// IssueJSON is a skipped or failed unit in the run report.
type IssueJSON struct {
	Date    string      `json:"date"`
	Ticker  string      `json:"ticker,omitempty"`
	Tenor   string      `json:"tenor,omitempty"`
	Kind    string      `json:"kind"`
	Reason  string      `json:"reason"`
	Partial []TenorJSON `json:"partial,omitempty"`
}

// ReportJSON summarises a run.
type ReportJSON struct {
	Dates    int         `json:"dates"`
	Rows     int         `json:"rows"`
	Skips    []IssueJSON `json:"skips"`
	Failures []IssueJSON `json:"failures"`
}

func issuesJSON(issues []batch.Issue, precision int32) []IssueJSON {
	out := make([]IssueJSON, 0, len(issues))
	for _, is := range issues {
		j := IssueJSON{
			Date:   is.Date.Format(dateLayout),
			Ticker: is.Ticker,
			Tenor:  is.Tenor,
			Kind:   is.Kind,
			Reason: is.Reason,
		}
		if len(is.Partial) > 0 {
			j.Partial = TenorsJSON(is.Partial, precision)
		}
		out = append(out, j)
	}
	return out
}

// WriteReport writes the skips and failures of a run as JSON.
func WriteReport(w io.Writer, rep batch.Report, precision int32) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(ReportJSON{
		Dates:    rep.Dates,
		Rows:     len(rep.Rows),
		Skips:    issuesJSON(rep.Skips, precision),
		Failures: issuesJSON(rep.Failures, precision),
	})
	if err != nil {
		return fmt.Errorf("WriteReport: %w", err)
	}
	return nil
}

// WriteTable writes rep in format f.
func WriteTable(w io.Writer, rep batch.Report, f Format, precision int32) error {
	switch f {
	case CSV, "":
		return WriteCSV(w, rep, precision)
	case JSON:
		return WriteJSON(w, rep, precision)
	default:
		return fmt.Errorf("WriteTable: unknown format %q", f)
	}
}

// WriteFile creates path (and its directory) and writes through fn.
// A path of "-" writes to stdout.
func WriteFile(path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(os.Stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
