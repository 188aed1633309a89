package calendar

import (
	"fmt"
	"sort"
	"strings"
)

// planColors is the fixed palette cycled over plan names.
var planColors = []string{
	"#1f77b4",
	"#2ca02c",
	"#9467bd",
	"#ff7f0e",
	"#17becf",
	"#d62728",
	"#8c564b",
	"#e377c2",
	"#bcbd22",
	"#7f7f7f",
}

// PlanStyle is the color and CSS class assigned to one plan.
type PlanStyle struct {
	CSSClass string
	Color    string
}

// AssignPalette sorts the distinct plan names alphabetically and assigns
// palette colors in that order, wrapping around after the last color.
func AssignPalette(planNames []string) map[string]PlanStyle {
	names := distinctSorted(planNames)
	styles := make(map[string]PlanStyle, len(names))
	for i, name := range names {
		styles[name] = PlanStyle{
			CSSClass: fmt.Sprintf("plan-%d", i%len(planColors)),
			Color:    planColors[i%len(planColors)],
		}
	}
	return styles
}

func distinctSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// OrderPlans puts the plans named in preferred first, in that order, then the
// remaining plans alphabetically. Preferred names not in plans are ignored.
func OrderPlans(plans []string, preferred []string) []string {
	remaining := make(map[string]bool, len(plans))
	for _, p := range plans {
		remaining[p] = true
	}

	ordered := make([]string, 0, len(remaining))
	for _, p := range preferred {
		if remaining[p] {
			ordered = append(ordered, p)
			delete(remaining, p)
		}
	}

	rest := make([]string, 0, len(remaining))
	for p := range remaining {
		rest = append(rest, p)
	}
	sort.Slice(rest, func(i, j int) bool {
		a, b := strings.ToLower(rest[i]), strings.ToLower(rest[j])
		if a == b {
			return rest[i] < rest[j]
		}
		return a < b
	})
	return append(ordered, rest...)
}

// PaletteColor returns the i-th palette color, wrapping around.
func PaletteColor(i int) string {
	n := len(planColors)
	return planColors[((i%n)+n)%n]
}
