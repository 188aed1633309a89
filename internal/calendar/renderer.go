package calendar

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"school-menu-calendar/internal/analyzer"
	"school-menu-calendar/internal/menu"
)

type cellState int

const (
	cellNoSchool cellState = iota
	cellNoMenuWithNote
	cellNoMenu
	cellNormal
)

func classifyDay(d analyzer.ProcessedDay) cellState {
	switch {
	case d.IsNoSchool():
		return cellNoSchool
	case !d.HasMenu() && strings.TrimSpace(d.AcademicNote) != "":
		return cellNoMenuWithNote
	case !d.HasMenu():
		return cellNoMenu
	default:
		return cellNormal
	}
}

var weekdayColumns = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

type renderer struct {
	month      analyzer.ProcessedMonth
	allergens  []string
	forcedHome map[time.Weekday]bool
	theme      Theme
	opts       Options

	palette   map[string]PlanStyle
	planOrder []string
	dayLabels map[string]DayLabel
}

// Render produces a self-contained HTML document for the month. The output
// depends only on its arguments.
func Render(month analyzer.ProcessedMonth, allergenNames []string, forcedHomeDays map[time.Weekday]bool, theme Theme, opts Options) string {
	plans := month.PlanNames()
	r := &renderer{
		month:      month,
		allergens:  allergenNames,
		forcedHome: forcedHomeDays,
		theme:      theme,
		opts:       opts,
		palette:    AssignPalette(plans),
		planOrder:  OrderPlans(plans, opts.PlanOrder),
		dayLabels:  BuildDayLabelCycle(month.SchoolDays(), opts.DayLabels, opts.DayLabelAnchor),
	}

	var sb strings.Builder
	r.writeDocument(&sb)
	return sb.String()
}

func (r *renderer) title() string {
	first := menu.Date(r.month.Year, r.month.Month, 1)
	t := first.Format("January 2006")
	if r.month.SessionName != "" {
		t += " " + r.month.SessionName
	}
	return t + " Menu"
}

func (r *renderer) writeDocument(sb *strings.Builder) {
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(sb, "<title>%s</title>\n", esc(r.title()))
	sb.WriteString("<style>\n")
	r.writeStyles(sb)
	sb.WriteString("</style>\n</head>\n")
	fmt.Fprintf(sb, "<body class=\"layout-%s\">\n", r.opts.Layout.className())
	r.writeHeader(sb)
	r.writeTable(sb)
	r.writeLegend(sb)
	r.writeFooter(sb)
	sb.WriteString("</body>\n</html>\n")
}

func (l Layout) className() string {
	if l == "" {
		return string(LayoutList)
	}
	return string(ParseLayout(string(l)))
}

func (r *renderer) writeHeader(sb *strings.Builder) {
	sb.WriteString("<header class=\"cal-header\">\n")
	fmt.Fprintf(sb, "<h1><span class=\"theme-emoji\">%s</span> %s</h1>\n", esc(r.theme.Emoji), esc(r.title()))

	var parts []string
	if r.month.BuildingName != "" {
		parts = append(parts, esc(r.month.BuildingName))
	}
	if len(r.allergens) > 0 {
		names := append([]string(nil), r.allergens...)
		sort.Strings(names)
		parts = append(parts, "Avoiding: "+esc(strings.Join(names, ", ")))
	} else {
		parts = append(parts, "No allergens selected")
	}
	if days := r.forcedHomeNames(); days != "" {
		parts = append(parts, "From home every "+esc(days))
	}
	fmt.Fprintf(sb, "<div class=\"subtitle\">%s</div>\n", strings.Join(parts, " &middot; "))
	sb.WriteString("</header>\n")
}

func (r *renderer) forcedHomeNames() string {
	var names []string
	for _, wd := range weekdayColumns {
		if r.forcedHome[wd] {
			names = append(names, wd.String())
		}
	}
	return strings.Join(names, ", ")
}

func (r *renderer) writeTable(sb *strings.Builder) {
	sb.WriteString("<table class=\"calendar\">\n<thead><tr>")
	for _, wd := range weekdayColumns {
		fmt.Fprintf(sb, "<th>%s</th>", wd.String())
	}
	sb.WriteString("</tr></thead>\n<tbody>\n")

	col := 0
	open := false
	for _, day := range r.month.Days {
		idx := int(day.Date.Weekday()) - 1
		if idx < 0 || idx > 4 {
			continue
		}
		if !open || idx < col {
			if open {
				r.padRow(sb, col)
				sb.WriteString("</tr>\n")
			}
			sb.WriteString("<tr>")
			open = true
			col = 0
		}
		for ; col < idx; col++ {
			sb.WriteString("<td class=\"empty\"></td>")
		}
		r.writeCell(sb, day)
		col++
	}
	if open {
		r.padRow(sb, col)
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")
}

func (r *renderer) padRow(sb *strings.Builder, col int) {
	for ; col < len(weekdayColumns); col++ {
		sb.WriteString("<td class=\"empty\"></td>")
	}
}

func (r *renderer) writeCell(sb *strings.Builder, day analyzer.ProcessedDay) {
	state := classifyDay(day)
	forced := r.forcedHome[day.Date.Weekday()]

	classes := []string{"day"}
	switch state {
	case cellNoSchool, cellNoMenuWithNote, cellNoMenu:
		classes = append(classes, "no-school")
	default:
		classes = append(classes, "normal")
		if !day.AnyLineSafe() || forced {
			classes = append(classes, "from-home")
		}
		if forced {
			classes = append(classes, "forced-home")
		}
		if day.HasSpecialNote() {
			classes = append(classes, "special")
		}
		if hasFavorite(day) {
			classes = append(classes, "favorite-day")
		}
	}
	past := r.opts.isPast(day.Date)
	if past {
		classes = append(classes, "past")
	}

	fmt.Fprintf(sb, "<td class=\"%s\" data-date=\"%s\">", strings.Join(classes, " "), menu.DateKey(day.Date))
	r.writeDayLabel(sb, day)
	fmt.Fprintf(sb, "<div class=\"day-num\">%d</div>", day.Date.Day())

	switch state {
	case cellNoSchool, cellNoMenuWithNote:
		r.writeHoliday(sb, day.AcademicNote)
	case cellNoMenu:
	case cellNormal:
		if day.HasSpecialNote() {
			fmt.Fprintf(sb, "<div class=\"note\">📌 %s</div>", esc(day.AcademicNote))
		}
		if r.opts.Layout.isGrid() {
			r.writeGridDay(sb, day, forced)
		} else {
			r.writeListDay(sb, day, forced)
		}
	}

	if past {
		sb.WriteString("<div class=\"past-mark\"></div>")
	}
	sb.WriteString("</td>")
}

func (r *renderer) writeDayLabel(sb *strings.Builder, day analyzer.ProcessedDay) {
	label, ok := r.dayLabels[menu.DateKey(day.Date)]
	if !ok {
		return
	}
	corner := ParseCorner(string(r.opts.DayLabelCorner))
	fmt.Fprintf(sb, "<div class=\"day-label corner-%s\" style=\"%s\" title=\"%s\"><span>%s</span></div>",
		corner, triangleStyle(corner, label.Color), esc(label.Label), esc(initial(label.Label)))
}

func triangleStyle(c Corner, color string) string {
	color = cssValue(color)
	if color == "" {
		color = "#999999"
	}
	side := "top"
	if c == CornerBottomLeft || c == CornerBottomRight {
		side = "bottom"
	}
	return "border-" + side + "-color:" + color
}

func (r *renderer) writeHoliday(sb *strings.Builder, note string) {
	d := ResolveHoliday(note, r.opts.HolidayOverrides)
	fmt.Fprintf(sb, "<div class=\"holiday\"><div class=\"holiday-emoji\">%s</div><div class=\"holiday-msg\">%s</div></div>",
		esc(d.Emoji), esc(StripNoSchoolSuffix(d.Message)))
}

func hasFavorite(day analyzer.ProcessedDay) bool {
	for _, l := range day.Lines {
		for _, e := range l.Entrees {
			if e.IsFavorite {
				return true
			}
		}
	}
	return false
}

func initial(label string) string {
	for _, r := range strings.TrimSpace(label) {
		return strings.ToUpper(string(r))
	}
	return ""
}

func esc(s string) string {
	return html.EscapeString(s)
}

// cssValue strips characters that could end a declaration or the style
// attribute.
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
