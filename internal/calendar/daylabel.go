package calendar

import (
	"time"

	"school-menu-calendar/internal/menu"
)

// DayLabel is one slot of a rotating day-label cycle.
type DayLabel struct {
	Label string `yaml:"label" json:"label"`
	Color string `yaml:"color" json:"color"`
}

// BuildDayLabelCycle assigns a label to each school day, keyed by
// menu.DateKey. schoolDays must be sorted ascending. The anchor date is the
// rotation's zero point when it is one of schoolDays; otherwise the first
// school day is.
func BuildDayLabelCycle(schoolDays []time.Time, cycle []DayLabel, anchor *time.Time) map[string]DayLabel {
	labels := make(map[string]DayLabel, len(schoolDays))
	if len(cycle) == 0 {
		return labels
	}

	anchorIndex := 0
	if anchor != nil {
		key := menu.DateKey(*anchor)
		for i, d := range schoolDays {
			if menu.DateKey(d) == key {
				anchorIndex = i
				break
			}
		}
	}

	n := len(cycle)
	for i, d := range schoolDays {
		slot := ((i-anchorIndex)%n + n) % n
		labels[menu.DateKey(d)] = cycle[slot]
	}
	return labels
}
