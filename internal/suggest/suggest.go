package suggest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"school-menu-calendar/internal/calendar"
	"school-menu-calendar/internal/menu"

	"github.com/PuerkitoBio/goquery"
)

// Suggestion is one labeled school day found on an external calendar page.
type Suggestion struct {
	Date  time.Time
	Label string
}

// labelColors maps well-known rotation names to swatch colors.
var labelColors = map[string]string{
	"red":    "#d62728",
	"white":  "#f5f5f5",
	"blue":   "#1f77b4",
	"green":  "#2ca02c",
	"gold":   "#d4a017",
	"yellow": "#f2c94c",
	"orange": "#ff7f0e",
	"purple": "#9467bd",
	"black":  "#333333",
	"silver": "#aaaaaa",
	"gray":   "#7f7f7f",
	"grey":   "#7f7f7f",
	"maroon": "#800000",
	"navy":   "#000080",
}

// labelPattern matches event titles such as "Red Day" or "B Day".
var labelPattern = regexp.MustCompile(`(?i)^\s*([a-z0-9]+)\s+day\s*$`)

// Scraper fetches day-label suggestions from a calendar web page.
type Scraper struct {
	httpClient *http.Client
}

func NewScraper() *Scraper {
	return &Scraper{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch downloads url and extracts its labeled days.
func (s *Scraper) Fetch(ctx context.Context, url string) ([]Suggestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse extracts {date, label} pairs from calendar markup. Dated elements are
// those carrying a data-date attribute or <time datetime>; their event titles
// of the form "<Label> Day" become suggestions. Only color names and short
// tokens like "A" or "2" count as labels, so "Presidents Day" is ignored.
func Parse(r io.Reader) ([]Suggestion, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar page: %w", err)
	}

	doc.Find("script, style, nav, footer").Remove()

	var out []Suggestion
	doc.Find("[data-date], time[datetime]").Each(func(_ int, s *goquery.Selection) {
		raw, ok := s.Attr("data-date")
		if !ok {
			raw, _ = s.Attr("datetime")
		}
		date, err := menu.ParseDayKey(raw)
		if err != nil {
			return
		}

		titles := s.Find("li, a, span, p, .event, .title")
		if titles.Length() == 0 {
			titles = s
		}
		titles.EachWithBreak(func(_ int, t *goquery.Selection) bool {
			if label, ok := matchLabel(t.Text()); ok {
				out = append(out, Suggestion{Date: date, Label: label})
				return false
			}
			return true
		})
	})
	return out, nil
}

func matchLabel(text string) (string, bool) {
	m := labelPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	word := m[1]
	if _, known := labelColors[strings.ToLower(word)]; !known && len(word) > 2 {
		return "", false
	}
	return strings.ToUpper(word[:1]) + word[1:], true
}

// ToCycle dedupes labels in first-seen order and colors them. The anchor is
// the first suggested date carrying the cycle's first label.
func ToCycle(suggestions []Suggestion) ([]calendar.DayLabel, *time.Time) {
	seen := make(map[string]bool)
	var cycle []calendar.DayLabel
	for _, s := range suggestions {
		key := strings.ToLower(s.Label)
		if seen[key] {
			continue
		}
		seen[key] = true
		color, ok := labelColors[key]
		if !ok {
			color = calendar.PaletteColor(len(cycle))
		}
		cycle = append(cycle, calendar.DayLabel{Label: s.Label, Color: color})
	}
	if len(cycle) == 0 {
		return nil, nil
	}

	first := strings.ToLower(cycle[0].Label)
	for _, s := range suggestions {
		if strings.ToLower(s.Label) == first {
			anchor := s.Date
			return cycle, &anchor
		}
	}
	return cycle, nil
}
