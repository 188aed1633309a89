package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"school-menu-calendar/internal/analyzer"
	"school-menu-calendar/internal/menu"
)

func entrees(date string, recipes ...menu.Recipe) menu.MenuDay {
	return menu.MenuDay{
		Date: date,
		Meals: []menu.Meal{{
			Name: "Lunch",
			Categories: []menu.RecipeCategory{
				{Name: "Entrees", IsEntree: true, Recipes: recipes},
			},
		}},
	}
}

func recipe(name string, allergens ...string) menu.Recipe {
	return menu.Recipe{Name: name, Allergens: allergens}
}

// februaryMonth covers a safe day, an all-unsafe day, a favorite, a forced
// Friday, a special note, a no-school holiday and a bare weekday.
func februaryMonth() analyzer.ProcessedMonth {
	feed := &menu.Feed{
		Sessions: []menu.ServingSession{{
			Name: "Lunch",
			Plans: []menu.MenuPlan{
				{Name: "Line A", Days: []menu.MenuDay{
					entrees("2/2/2026", recipe("Mac & Cheese", "milk")),
					entrees("2/3/2026", recipe("Cheese Pizza", "milk")),
					entrees("2/4/2026", recipe("Tacos")),
					entrees("2/6/2026", recipe("Pasta")),
					entrees("2/13/2026", recipe("Soup")),
				}},
				{Name: "Line B", Days: []menu.MenuDay{
					entrees("2/2/2026", recipe("Salad")),
					entrees("2/3/2026", recipe("Burger", "milk")),
					entrees("2/4/2026", recipe("Salad")),
				}},
			},
		}},
		AcademicCalendars: []menu.AcademicCalendarDay{
			{Date: "2/13/2026", Note: "Early Dismissal"},
			{Date: "2/16/2026", Note: "Presidents Day - No School"},
		},
	}
	sel := analyzer.Selections{AllergenIDs: []string{"milk"}, Favorites: []string{"Tacos"}}
	return analyzer.Analyze(feed, sel, 2026, time.February, "Lunch", "Lincoln Elementary")
}

func render(t *testing.T, opts Options, forced map[time.Weekday]bool) (string, *goquery.Document) {
	t.Helper()
	out := Render(februaryMonth(), []string{"Milk"}, forced, DefaultTheme(), opts)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Failed to parse rendered document: %v", err)
	}
	return out, doc
}

func cell(t *testing.T, doc *goquery.Document, key string) *goquery.Selection {
	t.Helper()
	sel := doc.Find("td[data-date='" + key + "']")
	if sel.Length() != 1 {
		t.Fatalf("Expected exactly one cell for %s, got %d", key, sel.Length())
	}
	return sel
}

func TestRender_Document(t *testing.T) {
	out, doc := render(t, Options{}, nil)

	if got := doc.Find("title").Text(); got != "February 2026 Lunch Menu" {
		t.Errorf("Expected title 'February 2026 Lunch Menu', got %q", got)
	}
	if !strings.Contains(out, "@page{size:landscape") {
		t.Error("Expected landscape page rule")
	}
	if strings.Contains(out, "<link") || strings.Contains(out, "<script") {
		t.Error("Expected a self-contained document without external references")
	}
	subtitle := doc.Find(".subtitle").Text()
	if !strings.Contains(subtitle, "Lincoln Elementary") || !strings.Contains(subtitle, "Avoiding: Milk") {
		t.Errorf("Unexpected subtitle %q", subtitle)
	}
	// 20 weekdays in February 2026, starting on a Monday with no padding.
	if got := doc.Find("td.day").Length(); got != 20 {
		t.Errorf("Expected 20 day cells, got %d", got)
	}
	if got := doc.Find("tbody tr").Length(); got != 4 {
		t.Errorf("Expected 4 weeks, got %d", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	opts := Options{
		Layout:     LayoutIconLeft,
		DayLabels:  []DayLabel{red, white},
		PastCutoff: menu.Date(2026, time.February, 4),
		PlanLabels: map[string]string{"Line A": "Hot", "Line B": "Cold"},
	}
	forced := map[time.Weekday]bool{time.Friday: true}

	first := Render(februaryMonth(), []string{"Milk", "Eggs"}, forced, DefaultTheme(), opts)
	second := Render(februaryMonth(), []string{"Milk", "Eggs"}, forced, DefaultTheme(), opts)
	if first != second {
		t.Error("Expected byte-identical output for identical input")
	}
}

func TestRender_NoSchoolCells(t *testing.T) {
	_, doc := render(t, Options{}, nil)

	holiday := cell(t, doc, "2026-02-16")
	if !holiday.HasClass("no-school") {
		t.Errorf("Expected no-school class, got %q", holiday.AttrOr("class", ""))
	}
	if got := holiday.Find(".holiday-msg").Text(); got != "Presidents Day" {
		t.Errorf("Expected stripped message 'Presidents Day', got %q", got)
	}
	if got := holiday.Find(".holiday-emoji").Text(); got != "🇺🇸" {
		t.Errorf("Expected flag emoji, got %q", got)
	}

	bare := cell(t, doc, "2026-02-17")
	if !bare.HasClass("no-school") || bare.Find(".holiday").Length() != 0 {
		t.Error("Expected a plain no-school cell for a weekday without menu or note")
	}
}

func TestRender_ListLayout(t *testing.T) {
	_, doc := render(t, Options{}, nil)

	mixed := cell(t, doc, "2026-02-02")
	if mixed.HasClass("from-home") {
		t.Error("Expected a day with a safe line not to be from-home")
	}
	if got := mixed.Find(".plan-block").Length(); got != 1 {
		t.Errorf("Expected only the safe line to be listed, got %d blocks", got)
	}
	if got := mixed.Find(".plan-block li").Text(); got != "Salad" {
		t.Errorf("Expected 'Salad', got %q", got)
	}

	unsafe := cell(t, doc, "2026-02-03")
	if !unsafe.HasClass("from-home") {
		t.Error("Expected from-home when no line is safe")
	}
	if unsafe.Find(".home-badge").Length() != 1 {
		t.Error("Expected home badge when no line is safe")
	}

	fav := cell(t, doc, "2026-02-04")
	if !fav.HasClass("favorite-day") {
		t.Error("Expected favorite-day class")
	}
	if got := fav.Find("li.favorite").Text(); got != "⭐ Tacos" {
		t.Errorf("Expected starred favorite, got %q", got)
	}

	special := cell(t, doc, "2026-02-13")
	if !special.HasClass("special") || !strings.Contains(special.Find(".note").Text(), "Early Dismissal") {
		t.Error("Expected special note on early dismissal day")
	}
}

func TestRender_ShowUnsafeLines(t *testing.T) {
	_, doc := render(t, Options{ShowUnsafeLines: true}, nil)

	mixed := cell(t, doc, "2026-02-02")
	if got := mixed.Find(".plan-block").Length(); got != 2 {
		t.Fatalf("Expected both lines, got %d", got)
	}
	if got := mixed.Find(".plan-block.unsafe li.allergen").Text(); got != "Mac & Cheese" {
		t.Errorf("Expected allergen item in unsafe block, got %q", got)
	}
	if doc.Find(".legend").Text() == "" || !strings.Contains(doc.Find(".legend").Text(), "Contains allergen") {
		t.Error("Expected allergen legend entry")
	}
}

func TestRender_ForcedHome(t *testing.T) {
	_, doc := render(t, Options{}, map[time.Weekday]bool{time.Friday: true})

	fri := cell(t, doc, "2026-02-06")
	if !fri.HasClass("forced-home") || !fri.HasClass("from-home") {
		t.Errorf("Expected forced-home and from-home classes, got %q", fri.AttrOr("class", ""))
	}
	if fri.Find(".plan-block.faded").Length() != 1 {
		t.Error("Expected safe line to stay visible but faded")
	}
	if fri.Find(".home-badge").Length() != 1 {
		t.Error("Expected home badge on forced day")
	}
	if !strings.Contains(doc.Find(".subtitle").Text(), "From home every Friday") {
		t.Error("Expected forced days in the subtitle")
	}
}

func TestRender_GridLayout(t *testing.T) {
	_, doc := render(t, Options{Layout: LayoutIconLeft}, nil)

	mixed := cell(t, doc, "2026-02-02")
	rows := mixed.Find(".grid-row")
	if rows.Length() != 2 {
		t.Fatalf("Expected safe row plus home row, got %d", rows.Length())
	}
	if mixed.Find(".home-row.active").Length() != 0 {
		t.Error("Expected inactive home row when a line is safe")
	}
	if first := rows.First().Children().First(); !first.HasClass("plan-btn") {
		t.Error("Expected icon button first for icon-left")
	}

	unsafe := cell(t, doc, "2026-02-03")
	if unsafe.Find(".home-row.active").Length() != 1 {
		t.Error("Expected active home row when nothing is safe")
	}

	_, doc = render(t, Options{Layout: LayoutIconRight, ShowUnsafeLines: true, UnsafeLineMessage: "Bring lunch"}, nil)
	mixed = cell(t, doc, "2026-02-02")
	if got := mixed.Find(".grid-row.unsafe .placeholder").Text(); got != "Bring lunch" {
		t.Errorf("Expected placeholder message, got %q", got)
	}
	if last := mixed.Find(".grid-row").First().Children().Last(); !last.HasClass("plan-btn") {
		t.Error("Expected icon button last for icon-right")
	}
}

func TestRender_PastDays(t *testing.T) {
	_, doc := render(t, Options{PastCutoff: menu.Date(2026, time.February, 4)}, nil)

	if !cell(t, doc, "2026-02-03").HasClass("past") {
		t.Error("Expected day before the cutoff to be past")
	}
	if cell(t, doc, "2026-02-04").HasClass("past") {
		t.Error("Expected the cutoff day itself not to be past")
	}
	if cell(t, doc, "2026-02-03").Find(".past-mark").Length() != 1 {
		t.Error("Expected past marker")
	}
}

func TestRender_DayLabels(t *testing.T) {
	_, doc := render(t, Options{DayLabels: []DayLabel{red, white}, DayLabelCorner: CornerBottomLeft}, nil)

	want := map[string]string{
		"2026-02-02": "Red",
		"2026-02-03": "White",
		"2026-02-04": "Red",
		"2026-02-06": "White",
		"2026-02-13": "Red",
	}
	for key, label := range want {
		l := cell(t, doc, key).Find(".day-label")
		if got := l.AttrOr("title", ""); got != label {
			t.Errorf("%s: expected %s, got %q", key, label, got)
		}
		if !l.HasClass("corner-bottom-left") {
			t.Errorf("%s: expected bottom-left corner", key)
		}
	}
	if cell(t, doc, "2026-02-16").Find(".day-label").Length() != 0 {
		t.Error("Expected no label on a no-school day")
	}
	if got := doc.Find(".day-label-key").Length(); got != 2 {
		t.Errorf("Expected 2 legend keys, got %d", got)
	}
}

func TestRender_LegendPlanOrder(t *testing.T) {
	_, doc := render(t, Options{PlanOrder: []string{"Line B"}, PlanLabels: map[string]string{"Line B": "Salad Bar"}}, nil)

	var got []string
	doc.Find(".legend .badge").Each(func(_ int, s *goquery.Selection) {
		got = append(got, s.Text())
	})
	if len(got) != 2 || got[0] != "Salad Bar" || got[1] != "Line A" {
		t.Errorf("Expected [Salad Bar Line A], got %v", got)
	}
}

func TestRender_ShareFooter(t *testing.T) {
	opts := Options{
		ShowShareFooter: true,
		SourceURL:       "https://example.com/menu",
		ShareCodes:      []ShareCode{{Caption: "This menu online", URL: "https://example.com/menu", PNG: []byte{0x89, 'P', 'N', 'G'}}},
	}
	_, doc := render(t, opts, nil)

	src := doc.Find("footer img").AttrOr("src", "")
	if !strings.HasPrefix(src, "data:image/png;base64,") {
		t.Errorf("Expected inline PNG, got %q", src)
	}
	if !strings.Contains(doc.Find("footer .source").Text(), "https://example.com/menu") {
		t.Error("Expected source URL in footer")
	}

	_, doc = render(t, Options{}, nil)
	if doc.Find("footer").Length() != 0 {
		t.Error("Expected no footer when disabled")
	}
}

type mockCodeGenerator struct {
	fail map[string]bool
	seen []string
}

func (m *mockCodeGenerator) Generate(ctx context.Context, url string) ([]byte, error) {
	m.seen = append(m.seen, url)
	if m.fail[url] {
		return nil, errors.New("encode failed")
	}
	return []byte("png:" + url), nil
}

func TestBuildShareCodes(t *testing.T) {
	t.Run("both codes", func(t *testing.T) {
		gen := &mockCodeGenerator{}
		codes := BuildShareCodes(context.Background(), gen, "https://a", "https://b")
		if len(codes) != 2 {
			t.Fatalf("Expected 2 codes, got %d", len(codes))
		}
		if codes[0].Caption != "This menu online" || string(codes[1].PNG) != "png:https://b" {
			t.Errorf("Unexpected codes %+v", codes)
		}
	})

	t.Run("skips empty and failed", func(t *testing.T) {
		gen := &mockCodeGenerator{fail: map[string]bool{"https://b": true}}
		codes := BuildShareCodes(context.Background(), gen, "", "https://b")
		if len(codes) != 0 {
			t.Errorf("Expected no codes, got %+v", codes)
		}
		if len(gen.seen) != 1 {
			t.Errorf("Expected only the non-empty URL to be encoded, got %v", gen.seen)
		}
	})

	t.Run("nil generator", func(t *testing.T) {
		if codes := BuildShareCodes(context.Background(), nil, "https://a", "https://b"); codes != nil {
			t.Errorf("Expected nil, got %+v", codes)
		}
	})
}
