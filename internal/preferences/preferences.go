package preferences

import (
	"strings"
	"time"

	"school-menu-calendar/internal/analyzer"
	"school-menu-calendar/internal/calendar"
	"school-menu-calendar/internal/menu"
)

// Preferences are the user's saved selections and display overrides.
type Preferences struct {
	AllergenIDs  []string `yaml:"allergen_ids,omitempty"`
	NotPreferred []string `yaml:"not_preferred,omitempty"`
	Favorites    []string `yaml:"favorites,omitempty"`

	PlanLabels map[string]string `yaml:"plan_labels,omitempty"`
	PlanIcons  map[string]string `yaml:"plan_icons,omitempty"`
	PlanOrder  []string          `yaml:"plan_order,omitempty"`

	HolidayOverrides []calendar.HolidayOverride `yaml:"holiday_overrides,omitempty"`

	DayLabels      []calendar.DayLabel `yaml:"day_labels,omitempty"`
	DayLabelAnchor string              `yaml:"day_label_anchor,omitempty"`
	DayLabelCorner string              `yaml:"day_label_corner,omitempty"`
	SuggestionURL  string              `yaml:"suggestion_url,omitempty"`

	ForcedHomeDays []string `yaml:"forced_home_days,omitempty"`

	Layout            string `yaml:"layout,omitempty"`
	Theme             string `yaml:"theme,omitempty"`
	ShowUnsafeLines   bool   `yaml:"show_unsafe_lines,omitempty"`
	UnsafeLineMessage string `yaml:"unsafe_line_message,omitempty"`
	ShowShareFooter   bool   `yaml:"show_share_footer,omitempty"`
}

func (p *Preferences) Selections() analyzer.Selections {
	return analyzer.Selections{
		AllergenIDs:  p.AllergenIDs,
		NotPreferred: p.NotPreferred,
		Favorites:    p.Favorites,
	}
}

// ForcedHome parses ForcedHomeDays. Unknown names and weekend days are
// ignored.
func (p *Preferences) ForcedHome() map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, name := range p.ForcedHomeDays {
		name = strings.ToLower(strings.TrimSpace(name))
		for wd := time.Monday; wd <= time.Friday; wd++ {
			full := strings.ToLower(wd.String())
			if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
				days[wd] = true
			}
		}
	}
	return days
}

// Anchor returns the parsed day-label anchor, or nil when unset or invalid.
func (p *Preferences) Anchor() *time.Time {
	if p.DayLabelAnchor == "" {
		return nil
	}
	t, err := menu.ParseDayKey(p.DayLabelAnchor)
	if err != nil {
		return nil
	}
	return &t
}

// ThemeFor returns the named theme, or the theme suggested for month when
// no theme is set or the name is unknown.
func (p *Preferences) ThemeFor(month time.Month) calendar.Theme {
	if th, ok := calendar.ThemeByName(p.Theme); ok {
		return th
	}
	return calendar.SuggestedTheme(month)
}

// ToggleAllergen adds or removes an allergen id and reports whether it is now
// selected. AllergenIDs is replaced, never modified in place.
func (p *Preferences) ToggleAllergen(id string) bool {
	next := make([]string, 0, len(p.AllergenIDs)+1)
	removed := false
	for _, existing := range p.AllergenIDs {
		if existing == id {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if !removed {
		next = append(next, id)
	}
	p.AllergenIDs = next
	return !removed
}
