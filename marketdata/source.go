package marketdata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/violayifan/creditrisk/cdserr"
)

// QuoteSet is the cleaned, filtered content of one composite file.
type QuoteSet struct {
	Date     time.Time
	Path     string
	Tenors   []Tenor
	Quotes   []CDSQuote
	// Rejected holds the unreadable rows that match the filter.
	Rejected []RejectedRow
}

// FileSource reads one composite file per date from a directory.
type FileSource struct {
	Dir string
	// Pattern is the file name with a single %s for the formatted date,
	// e.g. "V5 CDS Composites-%s.csv".
	Pattern string
	// DateLayout formats the date inside Pattern, e.g. "02Jan06".
	DateLayout string
	Options    CDSOptions
	Filter     Filter
}

// Path returns the composite file path for date.
func (s FileSource) Path(date time.Time) string {
	return filepath.Join(s.Dir, fmt.Sprintf(s.Pattern, date.Format(s.DateLayout)))
}

// Quotes loads the composite file for date, fills missing recoveries per
// ticker and applies the filter to both quotes and rejected rows. A missing file is a
// *cdserr.InputNotFoundError.
func (s FileSource) Quotes(ctx context.Context, date time.Time) (QuoteSet, error) {
	if err := ctx.Err(); err != nil {
		return QuoteSet{}, err
	}
	path := s.Path(date)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return QuoteSet{}, &cdserr.InputNotFoundError{Kind: "cds file", Key: filepath.Base(path), Date: date}
	}
	if err != nil {
		return QuoteSet{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	opts := s.Options
	if opts.FallbackDate.IsZero() {
		opts.FallbackDate = date
	}
	file, err := ReadCDSComposites(f, opts)
	if err != nil {
		return QuoteSet{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	set := QuoteSet{Date: date, Path: path, Tenors: file.Tenors, Rejected: s.Filter.ApplyRejected(file.Rejected)}
	quotes := s.Filter.Apply(FillRecovery(file.Quotes))
	if len(quotes) > 0 {
		// The curve date is the trade date printed in the file.
		set.Date = quotes[0].Date
	}
	set.Quotes = quotes
	return set, nil
}

// LoadZeroCurveFile reads a zero-curve history from path.
func LoadZeroCurveFile(path string, opts ZeroCurveOptions) (ZeroCurveFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return ZeroCurveFile{}, fmt.Errorf("open zero curve: %w", err)
	}
	defer f.Close()

	zf, err := ReadZeroCurve(f, opts)
	if err != nil {
		return ZeroCurveFile{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return zf, nil
}

// ParseTickers splits a comma separated ticker list, dropping blanks.
func ParseTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
