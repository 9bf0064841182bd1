// Package finder implements the shared-game report pipeline: rank the games a
// set of Discord users have in common, enrich each candidate from the Steam
// storefront, and deliver a batched, narrated report to a channel.
package finder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/steambuddy/config"
	"github.com/mohammad-safakhou/steambuddy/internal/steam"
	"github.com/mohammad-safakhou/steambuddy/internal/store"
)

// OwnershipSource answers which (game, owner) pairs exist within a principal
// filter. Implemented by the Postgres store; must support concurrent reads.
type OwnershipSource interface {
	SharedOwnership(ctx context.Context, discordIDs []int64) ([]store.OwnershipRow, error)
}

// Catalog looks up store metadata for one app. Implemented by the storefront
// client.
type Catalog interface {
	AppDetails(ctx context.Context, appID int64) (steam.AppDetails, error)
}

// Transport delivers one message to a channel.
type Transport interface {
	SendMessage(ctx context.Context, channelID, text string) error
}

// MentionResolver renders a displayable mention for a Discord user id.
type MentionResolver interface {
	Mention(ownerID int64) string
}

// Finder runs one report per invocation. All collaborators are passed in
// explicitly; two concurrent invocations share nothing but the ownership
// source.
type Finder struct {
	source    OwnershipSource
	catalog   Catalog
	transport Transport
	mentions  MentionResolver
	batchSize int
	pacing    time.Duration
	logger    *log.Logger
}

// New wires a Finder from its collaborators.
func New(cfg config.FinderConfig, source OwnershipSource, catalog Catalog, transport Transport, mentions MentionResolver, logger *log.Logger) *Finder {
	if logger == nil {
		logger = log.New(log.Writer(), "[FINDER] ", log.LstdFlags)
	}
	return &Finder{
		source:    source,
		catalog:   catalog,
		transport: transport,
		mentions:  mentions,
		batchSize: cfg.BatchSize,
		pacing:    cfg.SendPacing,
		logger:    logger,
	}
}

// Find runs one linear pass: ownership query, ranking, enrichment and
// composition, dispatch. A failed lookup skips that candidate only; a failed
// send aborts the rest of the dispatch and is returned to the caller.
func (f *Finder) Find(ctx context.Context, channelID string, principals []int64, limit int) error {
	invocation := uuid.NewString()[:8]

	rows, err := f.source.SharedOwnership(ctx, principals)
	if err != nil {
		return fmt.Errorf("ownership query: %w", err)
	}

	candidates := Rank(rows)
	f.logger.Printf("[%s] %d candidates across %d principals, limit %d", invocation, len(candidates), len(principals), limit)

	batches := composeBatches(ctx, candidates, limit, f.batchSize, f.enrich)

	if err := f.dispatch(ctx, channelID, batches); err != nil {
		return err
	}
	f.logger.Printf("[%s] dispatched %d batches", invocation, len(batches))
	return nil
}
