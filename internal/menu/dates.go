package menu

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DayKeyLayout is the layout of day keys in feed responses (M/d/yyyy).
	DayKeyLayout = "1/2/2006"
	// WireDateLayout is the layout of date query parameters (M-d-yyyy).
	WireDateLayout = "1-2-2006"
	// DateKeyLayout is used for internal date-keyed maps.
	DateKeyLayout = "2006-01-02"
)

var dayKeyLayouts = []string{
	DayKeyLayout,
	"1/2/2006 3:04:05 PM",
	"2006-01-02T15:04:05",
	DateKeyLayout,
}

// ParseDayKey parses a feed date string. The time of day, if any, is dropped.
func ParseDayKey(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayKeyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day and location, keeping the calendar day as
// seen in t's own location.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DateKey formats t as yyyy-MM-dd.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// WireDate formats t for request query parameters.
func WireDate(t time.Time) string {
	return t.Format(WireDateLayout)
}

// MonthRange returns the first and last day of the month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := Date(year, month, 1)
	return first, first.AddDate(0, 1, -1)
}

// Weekdays returns every Monday-to-Friday date of the month in order.
func Weekdays(year int, month time.Month) []time.Time {
	first, last := MonthRange(year, month)
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if IsWeekend(d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
