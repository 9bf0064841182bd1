// Package ingest links Steam accounts to Discord users and keeps their owned
// game libraries synchronised in the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/steambuddy/internal/steam"
)

// Linking failures are enumerated so the command layer can word its replies
// per kind instead of collapsing everything into one opaque failure.
var (
	ErrInvalidProfileURL = errors.New("invalid steam profile url")
	ErrDuplicateLink     = errors.New("steam account already linked")
	ErrSourceUnavailable = errors.New("steam api unavailable")
	ErrPersistence       = errors.New("could not persist ownership data")
)

// AccountStore is the slice of the ownership store the linker writes to.
type AccountStore interface {
	LinkAccount(ctx context.Context, steamID, discordID int64) (bool, error)
	UpsertOwnedGames(ctx context.Context, steamID int64, appIDs []int64) error
	SteamAccounts(ctx context.Context, discordID int64) ([]int64, error)
}

// SteamDirectory resolves profiles and lists libraries.
type SteamDirectory interface {
	SteamID64FromProfileURL(ctx context.Context, profileURL string) (int64, error)
	GetOwnedGames(ctx context.Context, steamID int64) ([]int64, error)
}

// Linker performs account linking and library ingestion.
type Linker struct {
	store  AccountStore
	steam  SteamDirectory
	logger *log.Logger
}

// NewLinker wires a Linker.
func NewLinker(store AccountStore, directory SteamDirectory, logger *log.Logger) *Linker {
	if logger == nil {
		logger = log.New(log.Writer(), "[INGEST] ", log.LstdFlags)
	}
	return &Linker{store: store, steam: directory, logger: logger}
}

// LinkAndIngest resolves a profile URL, links the account to the discord user
// and ingests its library. Returns the number of games found.
func (l *Linker) LinkAndIngest(ctx context.Context, profileURL string, discordID int64) (int, error) {
	steamID, err := l.steam.SteamID64FromProfileURL(ctx, profileURL)
	if err != nil {
		if errors.Is(err, steam.ErrInvalidProfileURL) || errors.Is(err, steam.ErrProfileNotFound) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidProfileURL, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	created, err := l.store.LinkAccount(ctx, steamID, discordID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !created {
		return 0, fmt.Errorf("%w: steam id %d", ErrDuplicateLink, steamID)
	}

	count, err := l.ingestLibrary(ctx, steamID)
	if err != nil {
		return 0, err
	}
	l.logger.Printf("linked steam %d to discord %d, %d games", steamID, discordID, count)
	return count, nil
}

// Refresh re-ingests the library of every steam account linked to the user.
// Returns the total number of games seen across the accounts.
func (l *Linker) Refresh(ctx context.Context, discordID int64) (int, error) {
	accounts, err := l.store.SteamAccounts(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	total := 0
	for _, steamID := range accounts {
		count, err := l.ingestLibrary(ctx, steamID)
		if err != nil {
			return total, err
		}
		total += count
	}
	return total, nil
}

func (l *Linker) ingestLibrary(ctx context.Context, steamID int64) (int, error) {
	appIDs, err := l.steam.GetOwnedGames(ctx, steamID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if err := l.store.UpsertOwnedGames(ctx, steamID, appIDs); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return len(appIDs), nil
}
