package calendar

import (
	"fmt"
	"sort"
	"strings"
)

const exactColor = "-webkit-print-color-adjust:exact;print-color-adjust:exact;color-adjust:exact;"

func (r *renderer) writeStyles(sb *strings.Builder) {
	t := r.theme
	primary := orDefault(cssValue(t.Primary), "#2f4f7f")
	accent := orDefault(cssValue(t.Accent), "#e8eef7")
	background := orDefault(cssValue(t.Background), "#ffffff")
	headerText := orDefault(cssValue(t.HeaderText), "#ffffff")
	cellBackground := orDefault(cssValue(t.CellBackground), "#ffffff")
	pattern := orDefault(cssValue(t.Pattern), "none")

	sb.WriteString("@page{size:landscape;margin:0.25in;}\n")
	fmt.Fprintf(sb, "*{box-sizing:border-box;%s}\n", exactColor)
	fmt.Fprintf(sb, "body{margin:0;padding:8px;font-family:Arial,Helvetica,sans-serif;font-size:11px;color:#222;background-color:%s;background-image:%s;background-size:24px 24px;%s}\n",
		background, pattern, exactColor)
	fmt.Fprintf(sb, ".cal-header{background:%s;color:%s;padding:6px 10px;border-radius:6px 6px 0 0;%s}\n", primary, headerText, exactColor)
	sb.WriteString(".cal-header h1{margin:0;font-size:20px;}\n")
	sb.WriteString(".cal-header .subtitle{font-size:11px;opacity:0.9;}\n")

	sb.WriteString("table.calendar{width:100%;border-collapse:collapse;table-layout:fixed;page-break-inside:avoid;break-inside:avoid;}\n")
	sb.WriteString("table.calendar tr{page-break-inside:avoid;break-inside:avoid;}\n")
	fmt.Fprintf(sb, "table.calendar th{background:%s;color:#222;padding:4px;border:1px solid #bbb;%s}\n", accent, exactColor)
	fmt.Fprintf(sb, "td.day{position:relative;vertical-align:top;height:96px;padding:3px;border:1px solid #bbb;background:%s;overflow:hidden;%s}\n", cellBackground, exactColor)
	sb.WriteString("td.empty{border:1px solid #ddd;background:transparent;}\n")
	sb.WriteString(".day-num{font-weight:bold;font-size:13px;}\n")
	fmt.Fprintf(sb, "td.no-school{background:#eeeeee;color:#666;%s}\n", exactColor)
	sb.WriteString(".holiday{text-align:center;margin-top:6px;}\n.holiday-emoji{font-size:22px;}\n.holiday-msg{font-size:10px;}\n")
	fmt.Fprintf(sb, ".note{font-size:9px;background:#fff6cc;border-radius:3px;padding:1px 3px;margin:2px 0;%s}\n", exactColor)
	fmt.Fprintf(sb, "td.special{box-shadow:inset 0 0 0 2px #f0c419;%s}\n", exactColor)
	fmt.Fprintf(sb, "td.favorite-day{background:#fff9e6;box-shadow:inset 0 0 0 2px #f5b700;%s}\n", exactColor)
	fmt.Fprintf(sb, "td.from-home{background:#fdecea;%s}\n", exactColor)
	fmt.Fprintf(sb, "td.past{opacity:0.45;%s}\n", exactColor)
	sb.WriteString(".past-mark{position:absolute;inset:0;pointer-events:none;background:linear-gradient(to top right,transparent calc(50% - 1px),#888 50%,transparent calc(50% + 1px));}\n")

	sb.WriteString(".day-label{position:absolute;width:0;height:0;border-style:solid;border-color:transparent;}\n")
	sb.WriteString(".day-label span{position:absolute;font-size:8px;font-weight:bold;color:#222;}\n")
	sb.WriteString(".day-label.corner-top-right{top:0;right:0;border-width:22px 0 0 22px;border-left-color:transparent;}\n")
	sb.WriteString(".day-label.corner-top-right span{top:-21px;right:2px;}\n")
	sb.WriteString(".day-label.corner-top-left{top:0;left:0;border-width:22px 22px 0 0;border-right-color:transparent;}\n")
	sb.WriteString(".day-label.corner-top-left span{top:-21px;left:2px;}\n")
	sb.WriteString(".day-label.corner-bottom-right{bottom:0;right:0;border-width:0 0 22px 22px;border-left-color:transparent;}\n")
	sb.WriteString(".day-label.corner-bottom-right span{bottom:-21px;right:2px;}\n")
	sb.WriteString(".day-label.corner-bottom-left{bottom:0;left:0;border-width:0 22px 22px 0;border-right-color:transparent;}\n")
	sb.WriteString(".day-label.corner-bottom-left span{bottom:-21px;left:2px;}\n")

	sb.WriteString(".plans ul,.plan-items ul{margin:1px 0 2px 12px;padding:0;}\n")
	sb.WriteString(".plan-block{margin-top:2px;}\n")
	sb.WriteString(".plan-block.unsafe,.grid-row.unsafe{filter:grayscale(100%);opacity:0.6;}\n")
	sb.WriteString(".plan-block.faded,.grid-row.faded{filter:saturate(30%);opacity:0.55;}\n")
	fmt.Fprintf(sb, ".badge{display:inline-block;color:#fff;border-radius:8px;padding:0 5px;font-size:9px;font-weight:bold;%s}\n", exactColor)
	fmt.Fprintf(sb, ".home-badge{background:#c0392b;margin-top:2px;%s}\n", exactColor)
	sb.WriteString("li.allergen{text-decoration:line-through;color:#a00;}\n")
	sb.WriteString("li.not-preferred{color:#888;font-style:italic;}\n")
	sb.WriteString("li.favorite{font-weight:bold;}\n")

	sb.WriteString(".grid-row{display:flex;align-items:stretch;margin-top:2px;}\n")
	fmt.Fprintf(sb, ".plan-btn{flex:0 0 34%%;color:#fff;border-radius:4px;padding:1px 3px;font-size:9px;font-weight:bold;%s}\n", exactColor)
	sb.WriteString(".plan-btn .icon{margin-right:2px;}\n")
	fmt.Fprintf(sb, ".plan-items{flex:1;border-radius:4px;padding:1px 3px;font-size:9px;%s}\n", exactColor)
	sb.WriteString(".placeholder{font-style:italic;color:#666;}\n")
	fmt.Fprintf(sb, ".home-btn{background:#999;%s}\n.home-tint{background:#f0f0f0;%s}\n", exactColor, exactColor)
	fmt.Fprintf(sb, ".home-row.active .home-btn{background:#c0392b;%s}\n.home-row.active .home-tint{background:#fdecea;%s}\n", exactColor, exactColor)

	r.writePlanStyles(sb)

	sb.WriteString(".legend{margin-top:6px;display:flex;flex-wrap:wrap;gap:6px;align-items:center;font-size:10px;}\n")
	fmt.Fprintf(sb, ".swatch{display:inline-block;width:12px;height:12px;border:1px solid #999;vertical-align:middle;margin-right:3px;%s}\n", exactColor)
	sb.WriteString(".share-footer{margin-top:6px;display:flex;gap:16px;align-items:center;font-size:9px;page-break-inside:avoid;}\n")
	sb.WriteString(".share-footer img{width:72px;height:72px;image-rendering:pixelated;}\n")
	sb.WriteString("@media print{body{padding:0;}}\n")
}

// writePlanStyles emits one rule set per palette class, sorted by class name
// so the output is stable.
func (r *renderer) writePlanStyles(sb *strings.Builder) {
	byClass := make(map[string]string)
	for _, st := range r.palette {
		byClass[st.CSSClass] = st.Color
	}
	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	for _, c := range classes {
		color := byClass[c]
		fmt.Fprintf(sb, ".badge.%s,.plan-btn.%s{background:%s;%s}\n", c, c, color, exactColor)
		fmt.Fprintf(sb, ".%s-tint{background:%s22;%s}\n", c, color, exactColor)
		fmt.Fprintf(sb, ".plan-block.%s{border-left:3px solid %s;padding-left:2px;%s}\n", c, color, exactColor)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
