package calendar

import (
	"fmt"
	"strings"

	"school-menu-calendar/internal/analyzer"
)

const (
	homeIcon       = "🏠"
	safeIcon       = "✅"
	unsafeIcon     = "⛔"
	favoriteMarker = "⭐"
)

// visibleEntrees returns the entrees shown for a line: acceptable ones, or
// all of them when unsafe lines are shown.
func (r *renderer) visibleEntrees(line analyzer.ProcessedLine) []analyzer.RecipeItem {
	if r.opts.ShowUnsafeLines {
		return line.Entrees
	}
	var out []analyzer.RecipeItem
	for _, e := range line.Entrees {
		if e.Acceptable() {
			out = append(out, e)
		}
	}
	return out
}

func (r *renderer) style(plan string) PlanStyle {
	if s, ok := r.palette[plan]; ok {
		return s
	}
	return PlanStyle{CSSClass: "plan-0", Color: planColors[0]}
}

func (r *renderer) writeListDay(sb *strings.Builder, day analyzer.ProcessedDay, forced bool) {
	sb.WriteString("<div class=\"plans\">")
	for _, plan := range r.planOrder {
		line, ok := day.Line(plan)
		if !ok || len(line.Entrees) == 0 {
			continue
		}
		items := r.visibleEntrees(line)
		if len(items) == 0 {
			continue
		}

		st := r.style(plan)
		classes := []string{"plan-block", st.CSSClass}
		if !line.IsSafe {
			classes = append(classes, "unsafe")
		} else if forced {
			classes = append(classes, "faded")
		}
		fmt.Fprintf(sb, "<div class=\"%s\"><span class=\"badge %s\">%s</span><ul>",
			strings.Join(classes, " "), st.CSSClass, esc(r.opts.planLabel(plan)))
		for _, e := range items {
			r.writeEntree(sb, e)
		}
		sb.WriteString("</ul></div>")
	}
	if !day.AnyLineSafe() || forced {
		fmt.Fprintf(sb, "<span class=\"badge home-badge\">%s From home</span>", homeIcon)
	}
	sb.WriteString("</div>")
}

func (r *renderer) writeEntree(sb *strings.Builder, e analyzer.RecipeItem) {
	var classes []string
	if e.ContainsAllergen {
		classes = append(classes, "allergen")
	}
	if e.IsNotPreferred {
		classes = append(classes, "not-preferred")
	}
	if e.IsFavorite {
		classes = append(classes, "favorite")
	}
	if len(classes) > 0 {
		fmt.Fprintf(sb, "<li class=\"%s\">", strings.Join(classes, " "))
	} else {
		sb.WriteString("<li>")
	}
	if e.IsFavorite {
		sb.WriteString(favoriteMarker + " ")
	}
	sb.WriteString(esc(e.Name))
	sb.WriteString("</li>")
}

func (r *renderer) planIcon(plan string, safe bool) string {
	if icon, ok := r.opts.PlanIcons[plan]; ok && icon != "" {
		return icon
	}
	if safe {
		return safeIcon
	}
	return unsafeIcon
}

func (r *renderer) writeGridDay(sb *strings.Builder, day analyzer.ProcessedDay, forced bool) {
	sb.WriteString("<div class=\"grid\">")
	for _, plan := range r.planOrder {
		line, ok := day.Line(plan)
		if !ok || len(line.Entrees) == 0 {
			continue
		}
		if !line.IsSafe && !r.opts.ShowUnsafeLines {
			continue
		}

		st := r.style(plan)
		classes := []string{"grid-row", st.CSSClass}
		if !line.IsSafe {
			classes = append(classes, "unsafe")
		} else if forced {
			classes = append(classes, "faded")
		}

		button := fmt.Sprintf("<div class=\"plan-btn %s\"><span class=\"icon\">%s</span><span class=\"label\">%s</span></div>",
			st.CSSClass, esc(r.planIcon(plan, line.IsSafe)), esc(r.opts.planLabel(plan)))

		var panel strings.Builder
		fmt.Fprintf(&panel, "<div class=\"plan-items %s-tint\">", st.CSSClass)
		if line.IsSafe {
			panel.WriteString("<ul>")
			for _, e := range line.Entrees {
				if !e.Acceptable() {
					continue
				}
				r.writeEntree(&panel, e)
			}
			panel.WriteString("</ul>")
		} else {
			fmt.Fprintf(&panel, "<div class=\"placeholder\">%s</div>", esc(r.opts.unsafeMessage()))
		}
		panel.WriteString("</div>")

		r.writeGridRow(sb, strings.Join(classes, " "), button, panel.String())
	}

	homeClasses := "grid-row home-row"
	if !day.AnyLineSafe() || forced {
		homeClasses += " active"
	}
	button := fmt.Sprintf("<div class=\"plan-btn home-btn\"><span class=\"icon\">%s</span><span class=\"label\">Home</span></div>", homeIcon)
	panel := "<div class=\"plan-items home-tint\"><div class=\"placeholder\">From home</div></div>"
	r.writeGridRow(sb, homeClasses, button, panel)
	sb.WriteString("</div>")
}

func (r *renderer) writeGridRow(sb *strings.Builder, classes, button, panel string) {
	fmt.Fprintf(sb, "<div class=\"%s\">", classes)
	if r.opts.Layout == LayoutIconRight {
		sb.WriteString(panel)
		sb.WriteString(button)
	} else {
		sb.WriteString(button)
		sb.WriteString(panel)
	}
	sb.WriteString("</div>")
}
