package finder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/steambuddy/internal/steam"
)

// enrich performs the single metadata lookup for one candidate and formats it
// into a report entry. Every non-"game" outcome is skipped silently and does
// not count toward the acceptance threshold: lookup errors, unlisted apps,
// malformed payloads, and DLC/software kinds alike. Skipped candidates are
// never retried within an invocation.
func (f *Finder) enrich(ctx context.Context, c Candidate) (string, bool) {
	lookupsTotal.Inc()

	details, err := f.catalog.AppDetails(ctx, c.AppID)
	if err != nil {
		skipsTotal.WithLabelValues(skipReason(err)).Inc()
		f.logger.Printf("skipping app %d: %v", c.AppID, err)
		return "", false
	}
	if details.Kind != "game" {
		skipsTotal.WithLabelValues("not_game").Inc()
		return "", false
	}

	entriesTotal.Inc()
	return f.formatEntry(c, details), true
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, steam.ErrAppUnlisted):
		return "unlisted"
	case errors.Is(err, steam.ErrMalformedDetails):
		return "malformed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "lookup_failed"
	}
}

func (f *Finder) formatEntry(c Candidate, details steam.AppDetails) string {
	mentions := make([]string, 0, len(c.Owners))
	for _, owner := range c.Owners {
		mentions = append(mentions, f.mentions.Mention(owner))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**name**: %s\n", details.Name)
	fmt.Fprintf(&b, "**genres**: %s\n", strings.Join(details.Genres, ", "))
	fmt.Fprintf(&b, "**categories**: %s\n", strings.Join(details.Categories, ", "))
	fmt.Fprintf(&b, "**platforms**: %s\n", strings.Join(details.Platforms, ", "))
	fmt.Fprintf(&b, "**owned by**: %s\n", strings.Join(mentions, ", "))
	fmt.Fprintf(&b, "**recommendations**: %d\n", details.Recommendations)
	fmt.Fprintf(&b, "**release date**: %s\n", details.ReleaseDate)
	fmt.Fprintf(&b, "**price**: %s\n", formatPrice(details.Price))
	fmt.Fprintf(&b, "**required age**: %d\n", details.RequiredAge)
	fmt.Fprintf(&b, "**store link**: %s", steam.StoreLink(c.AppID))
	return b.String()
}

// formatPrice renders store pricing. A discounted price shows the original
// struck through next to the final one.
func formatPrice(p *steam.PriceOverview) string {
	if p == nil {
		return "Probably free"
	}
	if p.DiscountPercent == 0 {
		return fmt.Sprintf("%s (%s)", formatCents(p.Final), p.Currency)
	}
	return fmt.Sprintf("~~%s~~ %s (%s)", formatCents(p.Initial), formatCents(p.Final), p.Currency)
}

// formatCents renders minor currency units as a decimal amount. Whole amounts
// keep a trailing ".0" so 500 cents reads "5.0", not "5".
func formatCents(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("%d.0", cents/100)
	}
	return strconv.FormatFloat(float64(cents)/100, 'f', -1, 64)
}
