package calendar

import (
	"strings"
	"time"
)

// Theme is a named bundle of colors, an emoji and a CSS background pattern.
// SuggestedMonths holds zero, one or two months the theme fits.
type Theme struct {
	Name            string
	Category        string
	Emoji           string
	Primary         string
	Accent          string
	Background      string
	HeaderText      string
	CellBackground  string
	Pattern         string
	SuggestedMonths []time.Month
}

const DefaultThemeName = "Classic"

var builtinThemes = []Theme{
	{
		Name:           DefaultThemeName,
		Category:       "basic",
		Emoji:          "🍎",
		Primary:        "#2f4f7f",
		Accent:         "#e8eef7",
		Background:     "#ffffff",
		HeaderText:     "#ffffff",
		CellBackground: "#ffffff",
		Pattern:        "none",
	},
	{
		Name:            "Back to School",
		Category:        "seasonal",
		Emoji:           "✏️",
		Primary:         "#c0392b",
		Accent:          "#fdebd0",
		Background:      "#fffaf0",
		HeaderText:      "#ffffff",
		CellBackground:  "#ffffff",
		Pattern:         "repeating-linear-gradient(0deg, transparent, transparent 23px, #f3d9b1 24px)",
		SuggestedMonths: []time.Month{time.August, time.September},
	},
	{
		Name:            "Autumn Harvest",
		Category:        "seasonal",
		Emoji:           "🍂",
		Primary:         "#b35c1e",
		Accent:          "#fbe5d0",
		Background:      "#fff7ee",
		HeaderText:      "#ffffff",
		CellBackground:  "#fffdf9",
		Pattern:         "radial-gradient(circle at 10px 10px, #f6d7b8 2px, transparent 3px)",
		SuggestedMonths: []time.Month{time.October, time.November},
	},
	{
		Name:            "Winter Wonderland",
		Category:        "seasonal",
		Emoji:           "☃️",
		Primary:         "#1b6a9c",
		Accent:          "#e3f2fb",
		Background:      "#f5fbff",
		HeaderText:      "#ffffff",
		CellBackground:  "#ffffff",
		Pattern:         "radial-gradient(circle at 6px 6px, #d6ecfa 2px, transparent 3px)",
		SuggestedMonths: []time.Month{time.December, time.January},
	},
	{
		Name:            "Sweethearts",
		Category:        "holiday",
		Emoji:           "💝",
		Primary:         "#c2185b",
		Accent:          "#fde4ee",
		Background:      "#fff6fa",
		HeaderText:      "#ffffff",
		CellBackground:  "#ffffff",
		Pattern:         "radial-gradient(circle at 8px 8px, #f9c9dc 2px, transparent 3px)",
		SuggestedMonths: []time.Month{time.February},
	},
	{
		Name:            "Spring Garden",
		Category:        "seasonal",
		Emoji:           "🌷",
		Primary:         "#2e7d32",
		Accent:          "#e6f4e7",
		Background:      "#f7fcf5",
		HeaderText:      "#ffffff",
		CellBackground:  "#ffffff",
		Pattern:         "linear-gradient(45deg, #eef7ea 25%, transparent 25%)",
		SuggestedMonths: []time.Month{time.March, time.April},
	},
	{
		Name:            "Summer Sun",
		Category:        "seasonal",
		Emoji:           "☀️",
		Primary:         "#f29f05",
		Accent:          "#fff3d6",
		Background:      "#fffbef",
		HeaderText:      "#3b2a00",
		CellBackground:  "#ffffff",
		Pattern:         "none",
		SuggestedMonths: []time.Month{time.May, time.June},
	},
	{
		Name:           "High Contrast",
		Category:       "accessibility",
		Emoji:          "🔲",
		Primary:        "#000000",
		Accent:         "#eeeeee",
		Background:     "#ffffff",
		HeaderText:     "#ffffff",
		CellBackground: "#ffffff",
		Pattern:        "none",
	},
}

// Themes returns the built-in themes.
func Themes() []Theme {
	out := make([]Theme, len(builtinThemes))
	copy(out, builtinThemes)
	return out
}

// ThemeByName looks a theme up case-insensitively.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range builtinThemes {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Theme{}, false
}

// DefaultTheme is used when no theme is selected or suggested.
func DefaultTheme() Theme {
	t, _ := ThemeByName(DefaultThemeName)
	return t
}

// SuggestedTheme returns the first built-in theme suggesting month, or the
// default theme.
func SuggestedTheme(month time.Month) Theme {
	for _, t := range builtinThemes {
		for _, m := range t.SuggestedMonths {
			if m == month {
				return t
			}
		}
	}
	return DefaultTheme()
}
