package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultDateLayouts covers the layouts seen in zero-curve and CDS composite
// extracts.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"02-Jan-06",
	"2-Jan-06",
	"02-Jan-2006",
	"02Jan06",
	"01/02/2006",
	"1/2/2006",
}

// SortDates sorts a slice of time.Time in ascending order.
func SortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
}

// ParseDate tries each layout in turn (DefaultDateLayouts when none are given)
// and returns the calendar date in UTC.
func ParseDate(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q matches none of %d layouts", s, len(layouts))
}

// DateRange returns the calendar days from start to end inclusive for which
// keep returns true. A nil keep keeps every day.
func DateRange(start, end time.Time, keep func(time.Time) bool) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if keep == nil || keep(d) {
			out = append(out, d)
		}
	}
	return out
}
