package analyzer

import (
	"strings"
	"time"

	"school-menu-calendar/internal/menu"
)

// companionPrefix marks an item served with the preceding entree.
const companionPrefix = "with "

// Selections are the user's current allergen and preference choices.
// Names are matched case-insensitively.
type Selections struct {
	AllergenIDs  []string
	NotPreferred []string
	Favorites    []string
}

// Analyze classifies every weekday of the month for the named session.
// An unknown session is not an error: every weekday is still returned with
// its academic note and no lines.
func Analyze(feed *menu.Feed, sel Selections, year int, month time.Month, sessionName, buildingName string) ProcessedMonth {
	result := ProcessedMonth{
		Year:         year,
		Month:        month,
		SessionName:  sessionName,
		BuildingName: buildingName,
	}

	var notes menu.AcademicCalendarIndex
	if feed != nil {
		notes = menu.NewAcademicCalendarIndex(feed.AcademicCalendars)
	}

	weekdays := menu.Weekdays(year, month)
	result.Days = make([]ProcessedDay, len(weekdays))
	for i, date := range weekdays {
		result.Days[i] = ProcessedDay{Date: date}
		if note, ok := notes.Note(date); ok {
			result.Days[i].AcademicNote = note
		}
	}

	session, ok := feed.FindSession(sessionName)
	if !ok {
		return result
	}

	c := newClassifier(sel)
	for _, plan := range session.Plans {
		days := plan.IndexDays()
		for i := range result.Days {
			day, ok := days[menu.DateKey(result.Days[i].Date)]
			if !ok {
				continue
			}
			result.Days[i].Lines = append(result.Days[i].Lines, c.line(plan.Name, day))
		}
	}

	return result
}

type classifier struct {
	allergens    map[string]bool
	notPreferred map[string]bool
	favorites    map[string]bool
}

func newClassifier(sel Selections) *classifier {
	return &classifier{
		allergens:    toSet(sel.AllergenIDs),
		notPreferred: toSet(sel.NotPreferred),
		favorites:    toSet(sel.Favorites),
	}
}

func (c *classifier) line(planName string, day menu.MenuDay) ProcessedLine {
	line := ProcessedLine{PlanName: planName}
	for _, meal := range day.Meals {
		for _, cat := range meal.Categories {
			if !cat.IsEntree {
				continue
			}
			line.Entrees = append(line.Entrees, c.category(cat.Recipes)...)
		}
	}
	for _, item := range line.Entrees {
		if item.Acceptable() {
			line.IsSafe = true
			break
		}
	}
	return line
}

// category classifies recipes in order. A companion item takes the allergen
// status of the last non-companion recipe before it; with no such recipe it
// is evaluated on its own.
func (c *classifier) category(recipes []menu.Recipe) []RecipeItem {
	items := make([]RecipeItem, 0, len(recipes))
	var parent *bool
	for _, r := range recipes {
		contains := c.containsAllergen(r.Allergens)
		if IsCompanion(r.Name) {
			if parent != nil {
				contains = *parent
			}
		} else {
			p := contains
			parent = &p
		}
		items = append(items, c.item(r.Name, contains))
	}
	return items
}

func (c *classifier) item(name string, contains bool) RecipeItem {
	item := RecipeItem{Name: strings.TrimSpace(name), ContainsAllergen: contains}
	if contains {
		return item
	}
	key := normalize(name)
	item.IsNotPreferred = c.notPreferred[key]
	item.IsFavorite = !item.IsNotPreferred && c.favorites[key]
	return item
}

func (c *classifier) containsAllergen(ids []string) bool {
	for _, id := range ids {
		if c.allergens[normalize(id)] {
			return true
		}
	}
	return false
}

// IsCompanion reports whether a recipe name marks a companion item.
func IsCompanion(name string) bool {
	return strings.HasPrefix(strings.TrimLeft(name, " "), companionPrefix)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if k := normalize(v); k != "" {
			set[k] = true
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
