package calendar

import (
	"testing"
	"time"
)

func TestSuggestedTheme(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.December, "Winter Wonderland"},
		{time.January, "Winter Wonderland"},
		{time.February, "Sweethearts"},
		{time.October, "Autumn Harvest"},
		{time.July, DefaultThemeName},
	}
	for _, tt := range tests {
		if got := SuggestedTheme(tt.month); got.Name != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.month, tt.want, got.Name)
		}
	}
}

func TestThemeCatalog(t *testing.T) {
	for _, th := range Themes() {
		if len(th.SuggestedMonths) > 2 {
			t.Errorf("Theme %s suggests %d months, at most 2 allowed", th.Name, len(th.SuggestedMonths))
		}
		if th.Category == "" || th.Primary == "" {
			t.Errorf("Theme %s is missing a category or primary color", th.Name)
		}
	}

	if _, ok := ThemeByName("winter wonderland"); !ok {
		t.Error("Expected case-insensitive theme lookup")
	}
	if _, ok := ThemeByName("Nope"); ok {
		t.Error("Expected unknown theme to be missing")
	}
}

func TestPastDayCutoff(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)

	morning := time.Date(2026, time.February, 10, 9, 0, 0, 0, loc)
	if got := PastDayCutoff(morning); got.Day() != 9 {
		t.Errorf("Before 15:00 the cutoff should be yesterday, got %v", got)
	}

	afternoon := time.Date(2026, time.February, 10, 15, 0, 0, 0, loc)
	if got := PastDayCutoff(afternoon); got.Day() != 10 {
		t.Errorf("At 15:00 the cutoff should be today, got %v", got)
	}
}
