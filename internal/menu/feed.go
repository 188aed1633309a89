package menu

// Feed is the raw menu response for one building and date window.
// Serving sessions hold menu plans (serving lines) whose names are only
// known at runtime.
type Feed struct {
	Sessions          []ServingSession      `json:"FamilyMenuSessions"`
	AcademicCalendars []AcademicCalendarDay `json:"AcademicCalendars"`
}

// ServingSession is a meal type such as "Lunch" or "Breakfast".
type ServingSession struct {
	Name  string     `json:"ServingSession"`
	Plans []MenuPlan `json:"MenuPlans"`
}

// MenuPlan is one serving line within a session.
type MenuPlan struct {
	Name string    `json:"MenuPlanName"`
	Days []MenuDay `json:"Days"`
}

// MenuDay holds the meals served on one date. Date uses the M/d/yyyy form.
type MenuDay struct {
	Date  string `json:"Date"`
	Meals []Meal `json:"MenuMeals"`
}

type Meal struct {
	Name       string           `json:"MenuMealName"`
	Categories []RecipeCategory `json:"RecipeCategories"`
}

// RecipeCategory groups recipes. Only entree categories are relevant for
// allergen safety.
type RecipeCategory struct {
	Name     string   `json:"CategoryName"`
	IsEntree bool     `json:"IsEntree"`
	Recipes  []Recipe `json:"Recipes"`
}

// Recipe is a single menu item with the ids of the allergens it contains.
type Recipe struct {
	Name      string   `json:"RecipeName"`
	Allergens []string `json:"Allergens"`
}

// AcademicCalendarDay annotates a date with a free-text note such as a
// holiday or an early dismissal.
type AcademicCalendarDay struct {
	Date string `json:"Date"`
	Note string `json:"Note"`
}

// Allergen is one entry of a district's allergen catalog.
type Allergen struct {
	ID   string `json:"AllergyId"`
	Name string `json:"Name"`
}

// District is the result of looking up a district by its public code.
type District struct {
	ID        string     `json:"DistrictId"`
	Name      string     `json:"DistrictName"`
	Buildings []Building `json:"Buildings"`
}

type Building struct {
	ID   string `json:"BuildingId"`
	Name string `json:"Name"`
}

// FindSession returns the session whose name matches name case-insensitively.
func (f *Feed) FindSession(name string) (*ServingSession, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Sessions {
		if equalFold(f.Sessions[i].Name, name) {
			return &f.Sessions[i], true
		}
	}
	return nil, false
}

// SessionNames lists the session names in feed order.
func (f *Feed) SessionNames() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.Sessions))
	for _, s := range f.Sessions {
		names = append(names, s.Name)
	}
	return names
}

// IndexDays builds a lookup of the plan's days keyed by DateKey. Days whose
// date cannot be parsed are left out.
func (p MenuPlan) IndexDays() map[string]MenuDay {
	idx := make(map[string]MenuDay, len(p.Days))
	for _, d := range p.Days {
		t, err := ParseDayKey(d.Date)
		if err != nil {
			continue
		}
		idx[DateKey(t)] = d
	}
	return idx
}

// FindBuilding returns the building with the given id.
func (d *District) FindBuilding(id string) (Building, bool) {
	for _, b := range d.Buildings {
		if equalFold(b.ID, id) {
			return b, true
		}
	}
	return Building{}, false
}
