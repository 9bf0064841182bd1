package finder

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/steambuddy/config"
	"github.com/mohammad-safakhou/steambuddy/internal/steam"
)

type fakeCatalog struct {
	details map[int64]steam.AppDetails
	errs    map[int64]error
}

func (f *fakeCatalog) AppDetails(_ context.Context, appID int64) (steam.AppDetails, error) {
	if err, ok := f.errs[appID]; ok {
		return steam.AppDetails{}, err
	}
	d, ok := f.details[appID]
	if !ok {
		return steam.AppDetails{}, errors.New("no such app")
	}
	return d, nil
}

type fakeMentions struct{}

func (fakeMentions) Mention(ownerID int64) string {
	return "<@" + strconv.FormatInt(ownerID, 10) + ">"
}

func testFinder(catalog Catalog) *Finder {
	cfg := config.FinderConfig{DefaultLimit: 7, MaxLimit: 15, BatchSize: 3}
	logger := log.New(io.Discard, "", 0)
	return New(cfg, nil, catalog, nil, fakeMentions{}, logger)
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price *steam.PriceOverview
		want  string
	}{
		{nil, "Probably free"},
		{&steam.PriceOverview{Initial: 999, Final: 799, DiscountPercent: 20, Currency: "USD"}, "~~9.99~~ 7.99 (USD)"},
		{&steam.PriceOverview{Final: 500, DiscountPercent: 0, Currency: "USD"}, "5.0 (USD)"},
		{&steam.PriceOverview{Final: 1950, DiscountPercent: 0, Currency: "EUR"}, "19.5 (EUR)"},
		{&steam.PriceOverview{Initial: 6000, Final: 1500, DiscountPercent: 75, Currency: "GBP"}, "~~60.0~~ 15.0 (GBP)"},
	}
	for _, c := range cases {
		if got := formatPrice(c.price); got != c.want {
			t.Fatalf("formatPrice(%+v) = %q, want %q", c.price, got, c.want)
		}
	}
}

func TestEnrichAcceptsGame(t *testing.T) {
	f := testFinder(&fakeCatalog{details: map[int64]steam.AppDetails{
		440: {
			Kind:            "game",
			Name:            "Team Fortress 2",
			Genres:          []string{"Action", "Free to Play"},
			Categories:      []string{"Multi-player"},
			Platforms:       []string{"windows", "mac", "linux"},
			ReleaseDate:     "10 Oct, 2007",
			Recommendations: 123456,
		},
	}})

	entry, ok := f.enrich(context.Background(), Candidate{AppID: 440, Owners: []int64{1, 2}})
	if !ok {
		t.Fatal("expected entry for game kind")
	}

	wantLines := []string{
		"**name**: Team Fortress 2",
		"**genres**: Action, Free to Play",
		"**categories**: Multi-player",
		"**platforms**: windows, mac, linux",
		"**owned by**: <@1>, <@2>",
		"**recommendations**: 123456",
		"**release date**: 10 Oct, 2007",
		"**price**: Probably free",
		"**required age**: 0",
		"**store link**: http://store.steampowered.com/app/440/",
	}
	lines := strings.Split(entry, "\n")
	if len(lines) != len(wantLines) {
		t.Fatalf("entry has %d lines, want %d:\n%s", len(lines), len(wantLines), entry)
	}
	for i, want := range wantLines {
		if lines[i] != want {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestEnrichSkipPolicy(t *testing.T) {
	f := testFinder(&fakeCatalog{
		details: map[int64]steam.AppDetails{
			1: {Kind: "dlc", Name: "Some DLC"},
			2: {Kind: "software", Name: "Some Tool"},
		},
		errs: map[int64]error{
			3: steam.ErrAppUnlisted,
			4: steam.ErrMalformedDetails,
			5: context.DeadlineExceeded,
			6: errors.New("connection refused"),
		},
	})

	for _, appID := range []int64{1, 2, 3, 4, 5, 6} {
		if _, ok := f.enrich(context.Background(), Candidate{AppID: appID, Owners: []int64{1}}); ok {
			t.Fatalf("app %d: expected skip", appID)
		}
	}
}

func TestSkipReason(t *testing.T) {
	cases := map[string]error{
		"unlisted":      steam.ErrAppUnlisted,
		"malformed":     steam.ErrMalformedDetails,
		"timeout":       context.DeadlineExceeded,
		"lookup_failed": errors.New("boom"),
	}
	for want, err := range cases {
		if got := skipReason(err); got != want {
			t.Fatalf("skipReason(%v) = %q, want %q", err, got, want)
		}
	}
}
