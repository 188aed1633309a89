package calendar

import (
	"encoding/base64"
	"fmt"
	"strings"
)

func (r *renderer) writeLegend(sb *strings.Builder) {
	sb.WriteString("<div class=\"legend\">")
	writeSwatch(sb, "#ffffff", "Safe option available")
	writeSwatch(sb, "#fdecea", homeIcon+" From home")
	writeSwatch(sb, "#eeeeee", "No school")
	writeSwatch(sb, "#fff6cc", "📌 Special note")
	writeSwatch(sb, "#fff9e6", favoriteMarker+" Favorite")
	if r.forcedHomeNames() != "" {
		sb.WriteString("<span class=\"legend-item\"><span class=\"swatch faded-swatch\" style=\"background:#cccccc\"></span>Scheduled from-home day</span>")
	}
	if !r.opts.PastCutoff.IsZero() {
		writeSwatch(sb, "#bbbbbb", "Past day")
	}
	if r.opts.ShowUnsafeLines {
		sb.WriteString("<span class=\"legend-item\"><span class=\"swatch\" style=\"background:#dddddd\"></span>Contains allergen</span>")
	}

	for _, plan := range r.planOrder {
		st := r.style(plan)
		fmt.Fprintf(sb, "<span class=\"badge %s\">%s</span>", st.CSSClass, esc(r.opts.planLabel(plan)))
	}

	if len(r.dayLabels) > 0 {
		seen := make(map[string]bool)
		for _, l := range r.opts.DayLabels {
			if seen[l.Label] {
				continue
			}
			seen[l.Label] = true
			color := orDefault(cssValue(l.Color), "#999999")
			fmt.Fprintf(sb, "<span class=\"legend-item day-label-key\"><span class=\"swatch\" style=\"background:%s\"></span>%s</span>", color, esc(l.Label))
		}
	}
	sb.WriteString("</div>\n")
}

func writeSwatch(sb *strings.Builder, color, label string) {
	fmt.Fprintf(sb, "<span class=\"legend-item\"><span class=\"swatch\" style=\"background:%s\"></span>%s</span>", color, esc(label))
}

func (r *renderer) writeFooter(sb *strings.Builder) {
	if !r.opts.ShowShareFooter {
		return
	}
	sb.WriteString("<footer class=\"share-footer\">")
	for _, code := range r.opts.ShareCodes {
		if len(code.PNG) == 0 {
			continue
		}
		fmt.Fprintf(sb, "<figure><img alt=\"%s\" src=\"data:image/png;base64,%s\"><figcaption>%s</figcaption></figure>",
			esc(code.Caption), base64.StdEncoding.EncodeToString(code.PNG), esc(code.Caption))
	}
	if r.opts.SourceURL != "" {
		fmt.Fprintf(sb, "<div class=\"source\">Menu source: %s</div>", esc(r.opts.SourceURL))
	}
	sb.WriteString("</footer>\n")
}
