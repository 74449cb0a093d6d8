package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/violayifan/creditrisk/cdserr"
	"github.com/violayifan/creditrisk/hazard"
	"github.com/violayifan/creditrisk/utils"
)

// Tenor is a spread column of a composite file.
type Tenor struct {
	Label    string
	Maturity float64
}

// CDSQuote is one composite row: an issuer's curve on a date for one
// currency and documentation clause.
type CDSQuote struct {
	Date      time.Time
	Ticker    string
	ShortName string
	DocClause string
	Currency  string
	// Recovery is a decimal; NaN when the file had no value.
	Recovery float64
	Spreads  []hazard.TenorQuote
}

// IssuerQuote converts the row into stripping input.
func (q CDSQuote) IssuerQuote() hazard.IssuerQuote {
	tenors := make([]hazard.TenorQuote, len(q.Spreads))
	copy(tenors, q.Spreads)
	return hazard.IssuerQuote{
		Date:      q.Date,
		Ticker:    q.Ticker,
		ShortName: q.ShortName,
		Recovery:  q.Recovery,
		Tenors:    tenors,
	}
}

// CDSOptions controls composite parsing.
type CDSOptions struct {
	// HeaderRow is the number of title lines preceding the column header.
	HeaderRow int
	// DateLayouts are tried in order for the Date column.
	DateLayouts []string
	// FallbackDate is used when the file has no Date column or the cell is blank.
	FallbackDate time.Time
}

// RejectedRow is a composite row that could not be read. The identifying
// columns are kept so rejections can be filtered like quotes.
type RejectedRow struct {
	Line      int
	Ticker    string
	Currency  string
	DocClause string
	Err       error
}

func (r RejectedRow) Error() string { return fmt.Sprintf("line %d: %v", r.Line, r.Err) }

func (r RejectedRow) Unwrap() error { return r.Err }

// CDSFile is a parsed composite file.
type CDSFile struct {
	Tenors []Tenor
	Quotes []CDSQuote
	// Rejected holds one row per line that could not be read; Err is a
	// *cdserr.ParseError.
	Rejected []RejectedRow
}

var requiredColumns = []string{"Ticker", "ShortName", "DocClause", "Ccy", "Recovery"}

// ReadCDSComposites parses a composite CSV. The header must carry Ticker,
// ShortName, DocClause, Ccy, Recovery and one Spread<n><m|y> column per tenor;
// Date is optional when FallbackDate is set. Malformed rows are rejected
// individually; a malformed header fails the whole file.
func ReadCDSComposites(r io.Reader, opts CDSOptions) (CDSFile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	for i := 0; i < opts.HeaderRow; i++ {
		if _, err := cr.Read(); err != nil {
			return CDSFile{}, fmt.Errorf("ReadCDSComposites: skip title line %d: %w", i+1, err)
		}
	}
	header, err := cr.Read()
	if err != nil {
		return CDSFile{}, fmt.Errorf("ReadCDSComposites: read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	var tenors []Tenor
	var tenorCols []int
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[h] = i
		if strings.Contains(h, SpreadPrefix) {
			label, m, err := ParseTenorLabel(h)
			if err != nil {
				return CDSFile{}, fmt.Errorf("ReadCDSComposites: header: %w", err)
			}
			tenors = append(tenors, Tenor{Label: label, Maturity: m})
			tenorCols = append(tenorCols, i)
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return CDSFile{}, &cdserr.ParseError{Field: "header", Value: strings.Join(header, ","), Err: fmt.Errorf("missing column %s", c)}
		}
	}
	if len(tenors) == 0 {
		return CDSFile{}, &cdserr.ParseError{Field: "header", Value: strings.Join(header, ","), Err: fmt.Errorf("no %s columns", SpreadPrefix)}
	}
	dateCol, hasDate := cols["Date"]
	if !hasDate && opts.FallbackDate.IsZero() {
		return CDSFile{}, &cdserr.ParseError{Field: "header", Value: strings.Join(header, ","), Err: fmt.Errorf("missing column Date")}
	}

	out := CDSFile{Tenors: tenors}
	line := opts.HeaderRow + 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return out, fmt.Errorf("ReadCDSComposites: line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}

		q, err := parseCDSRow(rec, cols, tenors, tenorCols, dateCol, hasDate, opts)
		if err != nil {
			out.Rejected = append(out.Rejected, RejectedRow{
				Line:      line,
				Ticker:    q.Ticker,
				Currency:  q.Currency,
				DocClause: q.DocClause,
				Err:       err,
			})
			continue
		}
		out.Quotes = append(out.Quotes, q)
	}
	return out, nil
}

// parseCDSRow reads one row. On error the returned quote still carries the
// identifying columns.
func parseCDSRow(rec []string, cols map[string]int, tenors []Tenor, tenorCols []int, dateCol int, hasDate bool, opts CDSOptions) (CDSQuote, error) {
	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	q := CDSQuote{
		Date:      opts.FallbackDate,
		Ticker:    cell(cols["Ticker"]),
		ShortName: cell(cols["ShortName"]),
		DocClause: cell(cols["DocClause"]),
		Currency:  cell(cols["Ccy"]),
		Recovery:  math.NaN(),
	}
	id := CDSQuote{Ticker: q.Ticker, Currency: q.Currency, DocClause: q.DocClause}
	if q.Ticker == "" {
		return id, &cdserr.ParseError{Field: "ticker", Value: ""}
	}
	if hasDate && cell(dateCol) != "" {
		d, err := utils.ParseDate(cell(dateCol), opts.DateLayouts...)
		if err != nil {
			return id, &cdserr.ParseError{Field: "date", Value: cell(dateCol), Err: err}
		}
		q.Date = d
	}
	if q.Date.IsZero() {
		return id, &cdserr.ParseError{Field: "date", Value: "", Err: fmt.Errorf("no date for %s", q.Ticker)}
	}

	recovery, ok, err := ParsePercent("recovery", cell(cols["Recovery"]))
	if err != nil {
		return id, err
	}
	if ok {
		q.Recovery = recovery
	}

	q.Spreads = make([]hazard.TenorQuote, len(tenors))
	for i, t := range tenors {
		s, ok, err := ParsePercent("spread "+t.Label, cell(tenorCols[i]))
		if err != nil {
			return id, err
		}
		q.Spreads[i] = hazard.TenorQuote{Label: t.Label, Maturity: t.Maturity, Spread: s, Present: ok}
	}
	return q, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
