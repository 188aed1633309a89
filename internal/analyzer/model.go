package analyzer

import (
	"strings"
	"time"

	"school-menu-calendar/internal/menu"
)

// RecipeItem is a classified entree. ContainsAllergen dominates: when it is
// set, IsNotPreferred and IsFavorite are always false.
type RecipeItem struct {
	Name             string `json:"name"`
	ContainsAllergen bool   `json:"contains_allergen"`
	IsNotPreferred   bool   `json:"is_not_preferred"`
	IsFavorite       bool   `json:"is_favorite"`
}

// Acceptable reports whether the item is allergen-free and not marked
// not-preferred.
func (r RecipeItem) Acceptable() bool {
	return !r.ContainsAllergen && !r.IsNotPreferred
}

// ProcessedLine is one serving line on one day.
type ProcessedLine struct {
	PlanName string       `json:"plan_name"`
	IsSafe   bool         `json:"is_safe"`
	Entrees  []RecipeItem `json:"entrees"`
}

// ProcessedDay is one weekday of the month. AcademicNote is empty when the
// feed has no note for the date.
type ProcessedDay struct {
	Date         time.Time       `json:"date"`
	Lines        []ProcessedLine `json:"lines"`
	AcademicNote string          `json:"academic_note,omitempty"`
}

func (d ProcessedDay) IsNoSchool() bool {
	return menu.IsNoSchoolNote(d.AcademicNote)
}

func (d ProcessedDay) HasSpecialNote() bool {
	return strings.TrimSpace(d.AcademicNote) != "" && !d.IsNoSchool()
}

func (d ProcessedDay) AnyLineSafe() bool {
	for _, l := range d.Lines {
		if l.IsSafe {
			return true
		}
	}
	return false
}

func (d ProcessedDay) HasMenu() bool {
	for _, l := range d.Lines {
		if len(l.Entrees) > 0 {
			return true
		}
	}
	return false
}

// IsSchoolDay reports whether the day takes part in the day-label rotation.
func (d ProcessedDay) IsSchoolDay() bool {
	return d.HasMenu() && !d.IsNoSchool()
}

// Line returns the line for planName, if the day has one.
func (d ProcessedDay) Line(planName string) (ProcessedLine, bool) {
	for _, l := range d.Lines {
		if l.PlanName == planName {
			return l, true
		}
	}
	return ProcessedLine{}, false
}

// ProcessedMonth is the analysis result for one (year, month, session).
type ProcessedMonth struct {
	Year         int            `json:"year"`
	Month        time.Month     `json:"month"`
	SessionName  string         `json:"session_name"`
	BuildingName string         `json:"building_name,omitempty"`
	Days         []ProcessedDay `json:"days"`
}

// PlanNames returns the distinct plan names in the order they first appear.
func (m ProcessedMonth) PlanNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range m.Days {
		for _, l := range d.Lines {
			if seen[l.PlanName] {
				continue
			}
			seen[l.PlanName] = true
			names = append(names, l.PlanName)
		}
	}
	return names
}

// SchoolDays returns the dates of the month's school days in ascending order.
func (m ProcessedMonth) SchoolDays() []time.Time {
	var days []time.Time
	for _, d := range m.Days {
		if d.IsSchoolDay() {
			days = append(days, d.Date)
		}
	}
	return days
}
