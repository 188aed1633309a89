package calendar

import (
	"testing"
	"time"

	"school-menu-calendar/internal/menu"
)

var (
	red   = DayLabel{Label: "Red", Color: "#d62728"}
	white = DayLabel{Label: "White", Color: "#ffffff"}
	blue  = DayLabel{Label: "Blue", Color: "#1f77b4"}
)

func days(keys ...int) []time.Time {
	out := make([]time.Time, len(keys))
	for i, d := range keys {
		out[i] = menu.Date(2026, time.February, d)
	}
	return out
}

func TestBuildDayLabelCycle_NoAnchor(t *testing.T) {
	labels := BuildDayLabelCycle(days(2, 3, 4), []DayLabel{red, white}, nil)

	want := map[string]DayLabel{"2026-02-02": red, "2026-02-03": white, "2026-02-04": red}
	for k, v := range want {
		if labels[k] != v {
			t.Errorf("%s: expected %s, got %s", k, v.Label, labels[k].Label)
		}
	}
}

func TestBuildDayLabelCycle_Anchor(t *testing.T) {
	anchor := menu.Date(2026, time.February, 4)
	labels := BuildDayLabelCycle(days(2, 3, 4, 5, 6), []DayLabel{red, white, blue}, &anchor)

	want := []DayLabel{white, blue, red, white, blue}
	for i, d := range days(2, 3, 4, 5, 6) {
		if got := labels[menu.DateKey(d)]; got != want[i] {
			t.Errorf("%s: expected %s, got %s", menu.DateKey(d), want[i].Label, got.Label)
		}
	}
}

func TestBuildDayLabelCycle_AnchorOutsideMonth(t *testing.T) {
	anchor := menu.Date(2026, time.January, 30)
	labels := BuildDayLabelCycle(days(2, 3), []DayLabel{red, white}, &anchor)

	if labels["2026-02-02"] != red || labels["2026-02-03"] != white {
		t.Errorf("Expected rotation to start at the first school day, got %v", labels)
	}
}

func TestBuildDayLabelCycle_Empty(t *testing.T) {
	if got := BuildDayLabelCycle(days(2, 3), nil, nil); len(got) != 0 {
		t.Errorf("Expected empty map for empty cycle, got %v", got)
	}
}
