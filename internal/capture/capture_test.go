package capture

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"school-menu-calendar/internal/feed"
)

type entry struct {
	url, text, encoding string
}

func buildHAR(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var har harFile
	for _, e := range entries {
		var he harEntry
		he.Request.URL = e.url
		he.Response.Content.Text = e.text
		he.Response.Content.Encoding = e.encoding
		har.Log.Entries = append(har.Log.Entries, he)
	}
	data, err := json.Marshal(har)
	if err != nil {
		t.Fatalf("Failed to marshal HAR: %v", err)
	}
	return data
}

func TestLoader_Fetch(t *testing.T) {
	older := `{"FamilyMenuSessions":[{"ServingSession":"Breakfast","MenuPlans":[]}]}`
	newer := `{"FamilyMenuSessions":[{"ServingSession":"Lunch","MenuPlans":[{"MenuPlanName":"Main","Days":[]}]}]}`

	data := buildHAR(t,
		entry{url: "https://api.linqconnect.com/api/FamilyMenu?buildingId=1", text: older},
		entry{url: "https://cdn.example.com/app.js", text: "console.log(1)"},
		entry{url: "https://api.linqconnect.com/api/FamilyMenu?buildingId=1", text: base64.StdEncoding.EncodeToString([]byte(newer)), encoding: "base64"},
	)
	l, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	f, err := l.Fetch(context.Background(), "", "", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if _, ok := f.FindSession("Lunch"); !ok {
		t.Errorf("Expected the last matching entry to win, got sessions %v", f.SessionNames())
	}
}

func TestLoader_CatalogAndDistrict(t *testing.T) {
	data := buildHAR(t,
		entry{url: "https://api.linqconnect.com/api/FamilyAllergy?districtId=d", text: `[{"AllergyId":"milk","Name":"Milk"}]`},
		entry{url: "https://api.linqconnect.com/api/FamilyMenuIdentifier?identifier=ABC", text: `{"DistrictId":"d","DistrictName":"Springfield","Buildings":[{"BuildingId":"b","Name":"Lincoln"}]}`},
	)
	l, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	allergens, err := l.FetchAllergenCatalog(context.Background(), "")
	if err != nil || len(allergens) != 1 || allergens[0].Name != "Milk" {
		t.Errorf("Unexpected catalog %+v (err %v)", allergens, err)
	}
	d, err := l.FetchDistrictLookup(context.Background(), "")
	if err != nil || d.Name != "Springfield" || len(d.Buildings) != 1 {
		t.Errorf("Unexpected district %+v (err %v)", d, err)
	}

	if _, err := l.Fetch(context.Background(), "", "", time.Time{}, time.Time{}); !feed.IsKind(err, feed.KindNotFound) {
		t.Errorf("Expected not-found for a missing menu, got %v", err)
	}
}

func TestLoader_Errors(t *testing.T) {
	t.Run("MalformedHAR", func(t *testing.T) {
		if _, err := Parse([]byte("not json")); !feed.IsKind(err, feed.KindDecodeFailed) {
			t.Errorf("Expected decode-failed, got %v", err)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		l, _ := Parse(buildHAR(t, entry{url: "x/FamilyAllergy", text: "<html>"}))
		if _, err := l.FetchAllergenCatalog(context.Background(), ""); !feed.IsKind(err, feed.KindDecodeFailed) {
			t.Errorf("Expected decode-failed, got %v", err)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := Open(filepath.Join(t.TempDir(), "none.har")); !feed.IsKind(err, feed.KindFetchFailed) {
			t.Errorf("Expected fetch-failed, got %v", err)
		}
	})

	t.Run("OpenFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menu.har")
		os.WriteFile(path, buildHAR(t, entry{url: "x/FamilyAllergy", text: "[]"}), 0644)
		if _, err := Open(path); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}
