package calendar

import (
	"reflect"
	"testing"
)

func TestAssignPalette(t *testing.T) {
	styles := AssignPalette([]string{"Zeta", "Alpha", "Mid", "Alpha"})

	if len(styles) != 3 {
		t.Fatalf("Expected 3 distinct plans, got %d", len(styles))
	}
	want := map[string]PlanStyle{
		"Alpha": {CSSClass: "plan-0", Color: planColors[0]},
		"Mid":   {CSSClass: "plan-1", Color: planColors[1]},
		"Zeta":  {CSSClass: "plan-2", Color: planColors[2]},
	}
	if !reflect.DeepEqual(styles, want) {
		t.Errorf("Expected %v, got %v", want, styles)
	}
}

func TestAssignPalette_Deterministic(t *testing.T) {
	a := AssignPalette([]string{"B", "A", "C"})
	b := AssignPalette([]string{"C", "B", "A"})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Assignment must not depend on input order: %v vs %v", a, b)
	}
}

func TestAssignPalette_Wraps(t *testing.T) {
	names := []string{"p00", "p01", "p02", "p03", "p04", "p05", "p06", "p07", "p08", "p09", "p10", "p11"}
	styles := AssignPalette(names)

	if styles["p10"] != styles["p00"] {
		t.Errorf("Expected 11th plan to reuse the first color, got %v and %v", styles["p10"], styles["p00"])
	}
	if styles["p11"].CSSClass != "plan-1" {
		t.Errorf("Expected plan-1 for 12th plan, got %s", styles["p11"].CSSClass)
	}
}

func TestOrderPlans(t *testing.T) {
	plans := []string{"grill", "Deli", "Main Line", "Salad Bar"}

	got := OrderPlans(plans, []string{"Salad Bar", "Unknown", "grill"})
	want := []string{"Salad Bar", "grill", "Deli", "Main Line"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = OrderPlans(plans, nil)
	want = []string{"Deli", "grill", "Main Line", "Salad Bar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected alphabetical order %v, got %v", want, got)
	}
}
