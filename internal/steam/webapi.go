package steam

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// WebAPI wraps the authenticated Steam web API endpoints the bot needs:
// library listing and vanity URL resolution.
type WebAPI struct {
	baseURL string
	key     string
	http    *httpClient
}

// ErrInvalidProfileURL marks a URL that is not a recognisable steamcommunity
// profile link.
var ErrInvalidProfileURL = errors.New("not a steam profile url")

// ErrProfileNotFound marks a vanity name the web API could not resolve.
var ErrProfileNotFound = errors.New("steam profile not found")

// NewWebAPI builds a web API client.
func NewWebAPI(baseURL, key string) *WebAPI {
	return &WebAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    newHTTPClient(15*time.Second, 2, 0),
	}
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int `json:"game_count"`
		Games     []struct {
			AppID int64 `json:"appid"`
		} `json:"games"`
	} `json:"response"`
}

// GetOwnedGames lists the app ids in a steam account's library. Free games
// are excluded, matching what the store can price.
func (w *WebAPI) GetOwnedGames(ctx context.Context, steamID int64) ([]int64, error) {
	q := url.Values{}
	q.Set("key", w.key)
	q.Set("steamid", strconv.FormatInt(steamID, 10))
	q.Set("include_appinfo", "0")
	q.Set("include_played_free_games", "0")

	var resp ownedGamesResponse
	endpoint := fmt.Sprintf("%s/IPlayerService/GetOwnedGames/v1/?%s", w.baseURL, q.Encode())
	if err := w.http.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("owned games for %d: %w", steamID, err)
	}

	appIDs := make([]int64, 0, len(resp.Response.Games))
	for _, g := range resp.Response.Games {
		appIDs = append(appIDs, g.AppID)
	}
	return appIDs, nil
}

type vanityResponse struct {
	Response struct {
		Success int    `json:"success"`
		SteamID string `json:"steamid"`
	} `json:"response"`
}

// ResolveVanityURL turns a community vanity name into a steam64 id.
func (w *WebAPI) ResolveVanityURL(ctx context.Context, vanity string) (int64, error) {
	q := url.Values{}
	q.Set("key", w.key)
	q.Set("vanityurl", vanity)

	var resp vanityResponse
	endpoint := fmt.Sprintf("%s/ISteamUser/ResolveVanityURL/v1/?%s", w.baseURL, q.Encode())
	if err := w.http.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, fmt.Errorf("resolve vanity %q: %w", vanity, err)
	}
	if resp.Response.Success != 1 {
		return 0, fmt.Errorf("resolve vanity %q: %w", vanity, ErrProfileNotFound)
	}
	id, err := strconv.ParseInt(resp.Response.SteamID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("resolve vanity %q: bad steamid %q", vanity, resp.Response.SteamID)
	}
	return id, nil
}

// SteamID64FromProfileURL resolves a community profile URL in either the
// /profiles/<id64> or /id/<vanity> form into a steam64 id.
func (w *WebAPI) SteamID64FromProfileURL(ctx context.Context, profileURL string) (int64, error) {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil || !strings.HasSuffix(u.Hostname(), "steamcommunity.com") {
		return 0, fmt.Errorf("%q: %w", profileURL, ErrInvalidProfileURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[1] == "" {
		return 0, fmt.Errorf("%q: %w", profileURL, ErrInvalidProfileURL)
	}
	switch parts[0] {
	case "profiles":
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", profileURL, ErrInvalidProfileURL)
		}
		return id, nil
	case "id":
		return w.ResolveVanityURL(ctx, parts[1])
	default:
		return 0, fmt.Errorf("%q: %w", profileURL, ErrInvalidProfileURL)
	}
}
