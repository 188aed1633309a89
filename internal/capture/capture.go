package capture

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"school-menu-calendar/internal/feed"
	"school-menu-calendar/internal/menu"
)

// URL fragments identifying each response in a captured session.
const (
	menuMarker     = "FamilyMenu?"
	allergenMarker = "FamilyAllergy"
	districtMarker = "FamilyMenuIdentifier?"
)

type harFile struct {
	Log struct {
		Entries []harEntry `json:"entries"`
	} `json:"log"`
}

type harEntry struct {
	Request struct {
		URL string `json:"url"`
	} `json:"request"`
	Response struct {
		Content struct {
			Text     string `json:"text"`
			Encoding string `json:"encoding"`
		} `json:"content"`
	} `json:"response"`
}

// Loader serves menu data from a browser network capture (HAR) of the
// family menu site, for use when the live API is unreachable.
type Loader struct {
	entries []harEntry
}

// Open reads and parses a HAR file.
func Open(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, feed.NewError(feed.KindFetchFailed, "load capture", fmt.Errorf("failed to read %s: %w", path, err))
	}
	return Parse(data)
}

// Parse builds a Loader from raw HAR JSON.
func Parse(data []byte) (*Loader, error) {
	var har harFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, feed.NewError(feed.KindDecodeFailed, "load capture", err)
	}
	return &Loader{entries: har.Log.Entries}, nil
}

// Fetch returns the last captured menu response. The ids and window are not
// used to filter; a capture holds the one menu the browser loaded.
func (l *Loader) Fetch(_ context.Context, _, _ string, _, _ time.Time) (*menu.Feed, error) {
	const op = "load captured menu"
	var f menu.Feed
	if err := l.decode(op, menuMarker, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FetchAllergenCatalog returns the last captured allergen catalog.
func (l *Loader) FetchAllergenCatalog(_ context.Context, _ string) ([]menu.Allergen, error) {
	const op = "load captured allergen catalog"
	var allergens []menu.Allergen
	if err := l.decode(op, allergenMarker, &allergens); err != nil {
		return nil, err
	}
	return allergens, nil
}

// FetchDistrictLookup returns the last captured district lookup.
func (l *Loader) FetchDistrictLookup(_ context.Context, _ string) (*menu.District, error) {
	const op = "load captured district"
	var d menu.District
	if err := l.decode(op, districtMarker, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *Loader) decode(op, marker string, v interface{}) error {
	body, ok, err := l.body(marker)
	if err != nil {
		return feed.NewError(feed.KindDecodeFailed, op, err)
	}
	if !ok {
		return feed.NewError(feed.KindNotFound, op, fmt.Errorf("no response matching %q", marker))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return feed.NewError(feed.KindDecodeFailed, op, err)
	}
	return nil
}

// body returns the response text of the last entry whose URL contains marker.
func (l *Loader) body(marker string) ([]byte, bool, error) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if !strings.Contains(e.Request.URL, marker) || e.Response.Content.Text == "" {
			continue
		}
		text := e.Response.Content.Text
		if e.Response.Content.Encoding == "base64" {
			b, err := base64.StdEncoding.DecodeString(text)
			if err != nil {
				return nil, false, fmt.Errorf("failed to decode base64 body: %w", err)
			}
			return b, true, nil
		}
		return []byte(text), true, nil
	}
	return nil, false, nil
}
