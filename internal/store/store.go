package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// Store wraps the Postgres ownership relation: which Steam accounts are linked
// to which Discord users, and which games each Steam account owns.
type Store struct {
	DB *sql.DB
}

// OwnershipRow is one (game, owner) pair from the shared-ownership query.
type OwnershipRow struct {
	AppID   int64
	OwnerID int64
}

var (
	metricsOnce    sync.Once
	queryCounter   otelmetric.Int64Counter
	rowCounter     otelmetric.Int64Counter
	metricsInitErr error
)

func initStoreMetrics() {
	meter := otel.Meter("store")
	var err error
	queryCounter, err = meter.Int64Counter("ownership_queries_total")
	if err != nil {
		metricsInitErr = err
		return
	}
	rowCounter, err = meter.Int64Counter("ownership_rows_total")
	if err != nil {
		metricsInitErr = err
	}
}

// NewWithDSN opens a Postgres connection and verifies it.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxIdleTime(5 * time.Minute)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// LinkAccount records a steam account for a discord user. Returns true when a
// new link was created, false when the pair already existed.
func (s *Store) LinkAccount(ctx context.Context, steamID, discordID int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
INSERT INTO linked_accounts (steam_id, discord_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, steamID, discordID)
	if err != nil {
		return false, fmt.Errorf("link account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("link account: %w", err)
	}
	return n > 0, nil
}

// UpsertOwnedGames records the given app ids for a steam account. Existing
// rows are left untouched so repeated syncs are idempotent.
func (s *Store) UpsertOwnedGames(ctx context.Context, steamID int64, appIDs []int64) error {
	if len(appIDs) == 0 {
		return nil
	}
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO owned_games (steam_id, app_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`, steamID, pq.Int64Array(appIDs))
	if err != nil {
		return fmt.Errorf("upsert owned games: %w", err)
	}
	return nil
}

// SteamAccounts lists the steam ids linked to a discord user.
func (s *Store) SteamAccounts(ctx context.Context, discordID int64) ([]int64, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT steam_id FROM linked_accounts WHERE discord_id = $1 ORDER BY steam_id
`, discordID)
	if err != nil {
		return nil, fmt.Errorf("steam accounts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("steam accounts: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("steam accounts: %w", err)
	}
	return ids, nil
}

// LinkedDiscordUsers lists every discord user with at least one linked steam
// account. Used by the background refresher.
func (s *Store) LinkedDiscordUsers(ctx context.Context) ([]int64, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT DISTINCT discord_id FROM linked_accounts ORDER BY discord_id
`)
	if err != nil {
		return nil, fmt.Errorf("linked discord users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("linked discord users: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("linked discord users: %w", err)
	}
	return ids, nil
}

// SharedOwnership returns one row per (app, discord user) pair across every
// steam account linked to the given users, grouped and ordered by
// (app_id, discord_id). An empty filter yields no rows.
func (s *Store) SharedOwnership(ctx context.Context, discordIDs []int64) ([]OwnershipRow, error) {
	if len(discordIDs) == 0 {
		return nil, nil
	}
	metricsOnce.Do(initStoreMetrics)

	rows, err := s.DB.QueryContext(ctx, `
SELECT g.app_id, l.discord_id
FROM owned_games g
JOIN linked_accounts l ON l.steam_id = g.steam_id
WHERE l.discord_id = ANY($1)
GROUP BY g.app_id, l.discord_id
ORDER BY g.app_id, l.discord_id
`, pq.Int64Array(discordIDs))
	if err != nil {
		return nil, fmt.Errorf("shared ownership: %w", err)
	}
	defer rows.Close()

	var out []OwnershipRow
	for rows.Next() {
		var r OwnershipRow
		if err := rows.Scan(&r.AppID, &r.OwnerID); err != nil {
			return nil, fmt.Errorf("shared ownership: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("shared ownership: %w", err)
	}

	if metricsInitErr == nil {
		attrs := otelmetric.WithAttributes(attribute.Int("filter_size", len(discordIDs)))
		queryCounter.Add(ctx, 1, attrs)
		rowCounter.Add(ctx, int64(len(out)), attrs)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
