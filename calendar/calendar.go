package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// USD observes US federal holidays (the composite publishing calendar).
	USD CalendarID = "USD"
	// Weekends treats every Monday-Friday as a business day.
	Weekends CalendarID = "WEEKENDS"
)

// Parse maps a configuration string onto a CalendarID.
func Parse(s string) (CalendarID, error) {
	switch CalendarID(strings.ToUpper(strings.TrimSpace(s))) {
	case USD:
		return USD, nil
	case Weekends, "":
		return Weekends, nil
	default:
		return "", fmt.Errorf("unknown calendar %q", s)
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case USD:
		return isUSDHoliday(t)
	default:
		return false
	}
}

// isUSDHoliday applies the federal holiday rules, with Saturday holidays
// observed on Friday and Sunday holidays on Monday.
func isUSDHoliday(t time.Time) bool {
	y, m, d := t.Date()
	for _, h := range usdHolidays(y) {
		hy, hm, hd := observed(h).Date()
		if hy == y && hm == m && hd == d {
			return true
		}
	}
	// New Year's Day of the following year observed on Dec 31.
	if m == time.December && d == 31 {
		ny := time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		return ny.Weekday() == time.Saturday
	}
	return false
}

func usdHolidays(year int) []time.Time {
	date := func(m time.Month, d int) time.Time { return time.Date(year, m, d, 0, 0, 0, 0, time.UTC) }
	hs := []time.Time{
		date(time.January, 1),
		nthWeekday(year, time.January, time.Monday, 3),
		nthWeekday(year, time.February, time.Monday, 3),
		lastWeekday(year, time.May, time.Monday),
		date(time.July, 4),
		nthWeekday(year, time.September, time.Monday, 1),
		nthWeekday(year, time.October, time.Monday, 2),
		date(time.November, 11),
		nthWeekday(year, time.November, time.Thursday, 4),
		date(time.December, 25),
	}
	if year >= 2021 {
		hs = append(hs, date(time.June, 19))
	}
	return hs
}

func observed(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(wd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset+7*(n-1))
}

func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) - int(wd) + 7) % 7
	return t.AddDate(0, 0, -offset)
}
