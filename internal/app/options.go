package app

import (
	"time"

	"school-menu-calendar/internal/calendar"
	"school-menu-calendar/internal/menu"
	"school-menu-calendar/internal/preferences"
)

// BuildOptions turns saved preferences into render options. now drives the
// past-day cutoff.
func BuildOptions(p *preferences.Preferences, now time.Time, sourceURL string) calendar.Options {
	return calendar.Options{
		Layout:            calendar.ParseLayout(p.Layout),
		PlanLabels:        p.PlanLabels,
		PlanIcons:         p.PlanIcons,
		PlanOrder:         p.PlanOrder,
		ShowUnsafeLines:   p.ShowUnsafeLines,
		UnsafeLineMessage: p.UnsafeLineMessage,
		HolidayOverrides:  p.HolidayOverrides,
		PastCutoff:        calendar.PastDayCutoff(now),
		DayLabels:         p.DayLabels,
		DayLabelAnchor:    p.Anchor(),
		DayLabelCorner:    calendar.ParseCorner(p.DayLabelCorner),
		ShowShareFooter:   p.ShowShareFooter,
		SourceURL:         sourceURL,
	}
}

// AllergenNames maps selected ids to catalog names in selection order.
// Ids missing from the catalog are skipped.
func AllergenNames(ids []string, catalog []menu.Allergen) []string {
	byID := make(map[string]string, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a.Name
	}
	var names []string
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
