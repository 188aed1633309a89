package calendar

import "testing"

func TestResolveHoliday_Builtin(t *testing.T) {
	tests := []struct {
		note  string
		emoji string
	}{
		{"Winter Break - No School", "❄️"},
		{"Christmas Day", "❄️"},
		{"Thanksgiving Break", "🦃"},
		{"Presidents Day - No School", "🇺🇸"},
		{"Memorial Day", "🇺🇸"},
		{"Labor Day No School", "🇺🇸"},
		{"MLK Day", "✊"},
		{"Martin Luther King Jr. Day", "✊"},
		{"Spring Break", "🌸"},
		{"Teacher Work Day - No School", "📚"},
		{"Snow Day", "🏠"},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			got := ResolveHoliday(tt.note, nil)
			if got.Emoji != tt.emoji {
				t.Errorf("Expected %s, got %s", tt.emoji, got.Emoji)
			}
			if got.Message != tt.note {
				t.Errorf("Expected message to be the note, got %q", got.Message)
			}
		})
	}
}

func TestResolveHoliday_Overrides(t *testing.T) {
	overrides := []HolidayOverride{
		{Keyword: "PRESIDENT", Emoji: "🎩", CustomMessage: "Long weekend!"},
		{Keyword: "day", Emoji: "📅"},
		{Keyword: "", Emoji: "❌"},
	}

	got := ResolveHoliday("Presidents Day - No School", overrides)
	if got.Emoji != "🎩" || got.Message != "Long weekend!" {
		t.Errorf("Expected first override to win, got %+v", got)
	}

	got = ResolveHoliday("Teacher Workday", overrides)
	if got.Emoji != "📅" || got.Message != "Teacher Workday" {
		t.Errorf("Expected second override with original note, got %+v", got)
	}

	got = ResolveHoliday("Spring Break", overrides)
	if got.Emoji != "🌸" {
		t.Errorf("Expected fallback to built-in rules, got %+v", got)
	}
}

func TestStripNoSchoolSuffix(t *testing.T) {
	tests := map[string]string{
		"Presidents Day - No School": "Presidents Day",
		"Teacher Workday No School":  "Teacher Workday",
		"Snow Day - no school ":      "Snow Day",
		"Early Dismissal":            "Early Dismissal",
		"No School":                  "No School",
	}
	for in, want := range tests {
		if got := StripNoSchoolSuffix(in); got != want {
			t.Errorf("StripNoSchoolSuffix(%q): expected %q, got %q", in, want, got)
		}
	}
}
