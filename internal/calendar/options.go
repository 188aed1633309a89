package calendar

import (
	"time"

	"school-menu-calendar/internal/menu"
)

// Layout selects how a normal day's plans are drawn.
type Layout string

const (
	LayoutList      Layout = "list"
	LayoutIconLeft  Layout = "icon-left"
	LayoutIconRight Layout = "icon-right"
)

// ParseLayout falls back to LayoutList for unknown values.
func ParseLayout(s string) Layout {
	switch Layout(s) {
	case LayoutIconLeft, LayoutIconRight:
		return Layout(s)
	default:
		return LayoutList
	}
}

func (l Layout) isGrid() bool {
	return l == LayoutIconLeft || l == LayoutIconRight
}

// Corner is where the day-label triangle is drawn in a cell.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// ParseCorner falls back to CornerTopRight for unknown values.
func ParseCorner(s string) Corner {
	switch Corner(s) {
	case CornerTopLeft, CornerBottomLeft, CornerBottomRight:
		return Corner(s)
	default:
		return CornerTopRight
	}
}

// ShareCode is a pre-generated scannable image shown in the share footer.
type ShareCode struct {
	Caption string
	URL     string
	PNG     []byte
}

const DefaultUnsafeLineMessage = "No safe options"

// Options configures a single render. The renderer only reads it.
type Options struct {
	Layout Layout

	// Per-plan display overrides keyed by plan name. Unknown names are ignored.
	PlanLabels map[string]string
	PlanIcons  map[string]string
	PlanOrder  []string

	ShowUnsafeLines   bool
	UnsafeLineMessage string

	HolidayOverrides []HolidayOverride

	// PastCutoff marks every day strictly before it as past. Zero disables it.
	PastCutoff time.Time

	DayLabels      []DayLabel
	DayLabelAnchor *time.Time
	DayLabelCorner Corner

	ShowShareFooter bool
	SourceURL       string
	ShareCodes      []ShareCode
}

func (o Options) planLabel(plan string) string {
	if l, ok := o.PlanLabels[plan]; ok && l != "" {
		return l
	}
	return plan
}

func (o Options) unsafeMessage() string {
	if o.UnsafeLineMessage != "" {
		return o.UnsafeLineMessage
	}
	return DefaultUnsafeLineMessage
}

func (o Options) isPast(date time.Time) bool {
	if o.PastCutoff.IsZero() {
		return false
	}
	return date.Before(menu.Truncate(o.PastCutoff))
}

// CutoffHour is the local hour after which the current school day counts as over.
const CutoffHour = 15

// PastDayCutoff returns today when now is at or after CutoffHour, else
// yesterday.
func PastDayCutoff(now time.Time) time.Time {
	today := menu.Truncate(now)
	if now.Hour() >= CutoffHour {
		return today
	}
	return today.AddDate(0, 0, -1)
}
