package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"school-menu-calendar/internal/config"
	"school-menu-calendar/internal/menu"

	"golang.org/x/sync/singleflight"
)

// Source provides menu data. The HTTP client and the offline capture loader
// both implement it.
type Source interface {
	Fetch(ctx context.Context, buildingID, districtID string, start, end time.Time) (*menu.Feed, error)
	FetchAllergenCatalog(ctx context.Context, districtID string) ([]menu.Allergen, error)
	FetchDistrictLookup(ctx context.Context, code string) (*menu.District, error)
}

// Cache stores raw response bodies keyed by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Client fetches menus from the LINQ Connect family API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      Cache
	group      singleflight.Group
}

// NewClient creates a feed client. cache may be nil.
func NewClient(cfg *config.Config, cache Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		cache:      cache,
	}
}

// MenuURL returns the request URL for a building's menu between start and end.
func (c *Client) MenuURL(buildingID, districtID string, start, end time.Time) string {
	q := url.Values{}
	q.Set("buildingId", buildingID)
	q.Set("districtId", districtID)
	q.Set("startDate", menu.WireDate(start))
	q.Set("endDate", menu.WireDate(end))
	return c.baseURL + "/FamilyMenu?" + q.Encode()
}

// Fetch retrieves the raw menu feed for one building and date window.
func (c *Client) Fetch(ctx context.Context, buildingID, districtID string, start, end time.Time) (*menu.Feed, error) {
	var feed menu.Feed
	if err := c.getJSON(ctx, "fetch menu", c.MenuURL(buildingID, districtID, start, end), &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// FetchAllergenCatalog retrieves the allergens a district tags recipes with.
func (c *Client) FetchAllergenCatalog(ctx context.Context, districtID string) ([]menu.Allergen, error) {
	q := url.Values{}
	q.Set("districtId", districtID)

	var allergens []menu.Allergen
	if err := c.getJSON(ctx, "fetch allergen catalog", c.baseURL+"/FamilyAllergy?"+q.Encode(), &allergens); err != nil {
		return nil, err
	}
	return allergens, nil
}

// FetchDistrictLookup resolves a public district code to its id and buildings.
func (c *Client) FetchDistrictLookup(ctx context.Context, code string) (*menu.District, error) {
	const op = "lookup district"
	q := url.Values{}
	q.Set("identifier", code)

	var district menu.District
	if err := c.getJSON(ctx, op, c.baseURL+"/FamilyMenuIdentifier?"+q.Encode(), &district); err != nil {
		return nil, err
	}
	if district.ID == "" {
		return nil, NewError(KindNotFound, op, fmt.Errorf("no district for identifier %q", code))
	}
	return &district, nil
}

// getJSON decodes the body for u into v. Only bodies that decode are cached.
func (c *Client) getJSON(ctx context.Context, op, u string, v any) error {
	body, cached, err := c.get(ctx, op, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return NewError(KindDecodeFailed, op, err)
	}

	if c.cache != nil && !cached {
		if err := c.cache.Put(ctx, u, body); err != nil {
			log.Printf("⚠️ Cache write failed for %s: %v", u, err)
		}
	}
	return nil
}

// get returns the response body for u and whether it came from the cache.
// Concurrent requests for the same URL share one round trip, which outlives
// any single caller; each caller stops waiting when its own ctx is done.
func (c *Client) get(ctx context.Context, op, u string) ([]byte, bool, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, u)
		if err != nil {
			log.Printf("⚠️ Cache read failed for %s: %v", u, err)
		} else if ok {
			return body, true, nil
		}
	}

	ch := c.group.DoChan(u, func() (interface{}, error) {
		return c.do(context.WithoutCancel(ctx), op, u)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	case <-ctx.Done():
		return nil, false, NewError(KindFetchFailed, op, ctx.Err())
	}
}

func (c *Client) do(ctx context.Context, op, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, NewError(KindFetchFailed, op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewError(KindFetchFailed, op, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewError(KindNotFound, op, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, NewError(KindFetchFailed, op, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(KindFetchFailed, op, fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}
