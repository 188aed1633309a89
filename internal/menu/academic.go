package menu

import (
	"strings"
	"time"
)

// AcademicCalendarIndex maps a DateKey to the academic note for that day.
type AcademicCalendarIndex map[string]string

// NewAcademicCalendarIndex builds the lookup from the feed's calendar
// exceptions. Entries with unparsable dates or blank notes are skipped;
// several notes on one date are joined with "; ".
func NewAcademicCalendarIndex(days []AcademicCalendarDay) AcademicCalendarIndex {
	idx := make(AcademicCalendarIndex, len(days))
	for _, d := range days {
		note := strings.TrimSpace(d.Note)
		if note == "" {
			continue
		}
		t, err := ParseDayKey(d.Date)
		if err != nil {
			continue
		}
		key := DateKey(t)
		if existing, ok := idx[key]; ok && existing != note {
			idx[key] = existing + "; " + note
			continue
		}
		idx[key] = note
	}
	return idx
}

// Note returns the note for date, if any.
func (idx AcademicCalendarIndex) Note(date time.Time) (string, bool) {
	note, ok := idx[DateKey(date)]
	return note, ok
}

// IsNoSchoolNote reports whether an academic note marks a day without school.
func IsNoSchoolNote(note string) bool {
	return strings.Contains(strings.ToLower(note), "no school")
}
