package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Storefront fetches per-app metadata from the public Steam store API.
type Storefront struct {
	baseURL string
	timeout time.Duration
	http    *httpClient
}

// ErrAppUnlisted marks a structurally valid response whose success flag is
// false: the app exists but the store will not describe it.
var ErrAppUnlisted = errors.New("app unlisted on storefront")

// ErrMalformedDetails marks a response missing fields the report needs. The
// caller treats it the same as a failed lookup.
var ErrMalformedDetails = errors.New("malformed app details payload")

// NewStorefront builds a storefront client. Every AppDetails call is bounded
// by lookupTimeout; lookups are never retried.
func NewStorefront(baseURL string, lookupTimeout time.Duration) *Storefront {
	if lookupTimeout <= 0 {
		lookupTimeout = 10 * time.Second
	}
	return &Storefront{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: lookupTimeout,
		http:    newHTTPClient(lookupTimeout, 0, 0),
	}
}

// PriceOverview carries store pricing in minor currency units.
type PriceOverview struct {
	Currency        string
	Initial         int64
	Final           int64
	DiscountPercent int
}

// AppDetails is the validated catalog record for one app.
type AppDetails struct {
	Kind            string
	Name            string
	Genres          []string
	Categories      []string
	Platforms       []string
	Price           *PriceOverview
	ReleaseDate     string
	Recommendations int
	RequiredAge     int
}

// flexInt tolerates Steam serialising numeric fields as either numbers or
// quoted strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type appDetailsEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type appDetailsData struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	RequiredAge flexInt `json:"required_age"`
	Genres      []struct {
		Description string `json:"description"`
	} `json:"genres"`
	Categories []struct {
		Description string `json:"description"`
	} `json:"categories"`
	Platforms struct {
		Windows bool `json:"windows"`
		Mac     bool `json:"mac"`
		Linux   bool `json:"linux"`
	} `json:"platforms"`
	PriceOverview *struct {
		Currency        string `json:"currency"`
		Initial         int64  `json:"initial"`
		Final           int64  `json:"final"`
		DiscountPercent int    `json:"discount_percent"`
	} `json:"price_overview"`
	ReleaseDate struct {
		Date string `json:"date"`
	} `json:"release_date"`
	Recommendations struct {
		Total int `json:"total"`
	} `json:"recommendations"`
}

// AppDetails looks up one app. Unlisted apps return ErrAppUnlisted; responses
// that do not match the expected schema return ErrMalformedDetails.
func (s *Storefront) AppDetails(ctx context.Context, appID int64) (AppDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := strconv.FormatInt(appID, 10)
	url := fmt.Sprintf("%s/appdetails?appids=%s", s.baseURL, key)

	var envelope map[string]appDetailsEnvelope
	if err := s.http.getJSON(ctx, url, &envelope); err != nil {
		return AppDetails{}, fmt.Errorf("app %d details: %w", appID, err)
	}

	entry, ok := envelope[key]
	if !ok {
		return AppDetails{}, fmt.Errorf("app %d details: %w: response missing app key", appID, ErrMalformedDetails)
	}
	if !entry.Success {
		return AppDetails{}, fmt.Errorf("app %d details: %w", appID, ErrAppUnlisted)
	}

	var data appDetailsData
	if err := json.Unmarshal(entry.Data, &data); err != nil {
		return AppDetails{}, fmt.Errorf("app %d details: %w: %v", appID, ErrMalformedDetails, err)
	}
	if data.Type == "" || data.Name == "" {
		return AppDetails{}, fmt.Errorf("app %d details: %w: missing type or name", appID, ErrMalformedDetails)
	}

	details := AppDetails{
		Kind:            data.Type,
		Name:            data.Name,
		ReleaseDate:     data.ReleaseDate.Date,
		Recommendations: data.Recommendations.Total,
		RequiredAge:     int(data.RequiredAge),
	}
	for _, g := range data.Genres {
		details.Genres = append(details.Genres, g.Description)
	}
	for _, c := range data.Categories {
		details.Categories = append(details.Categories, c.Description)
	}
	if data.Platforms.Windows {
		details.Platforms = append(details.Platforms, "windows")
	}
	if data.Platforms.Mac {
		details.Platforms = append(details.Platforms, "mac")
	}
	if data.Platforms.Linux {
		details.Platforms = append(details.Platforms, "linux")
	}
	if p := data.PriceOverview; p != nil {
		details.Price = &PriceOverview{
			Currency:        p.Currency,
			Initial:         p.Initial,
			Final:           p.Final,
			DiscountPercent: p.DiscountPercent,
		}
	}
	return details, nil
}

// StoreLink renders the public store page URL for an app.
func StoreLink(appID int64) string {
	return fmt.Sprintf("http://store.steampowered.com/app/%d/", appID)
}
