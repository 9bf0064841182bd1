package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mohammad-safakhou/steambuddy/internal/store"
)

const testSchema = `
CREATE TABLE linked_accounts (
    steam_id   BIGINT NOT NULL,
    discord_id BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (steam_id, discord_id)
);
CREATE TABLE owned_games (
    steam_id BIGINT NOT NULL,
    app_id   BIGINT NOT NULL,
    PRIMARY KEY (steam_id, app_id)
);
`

func TestSharedOwnershipPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		tcPostgres.WithDatabase("steambuddy"),
		tcPostgres.WithUsername("steambuddy"),
		tcPostgres.WithPassword("steambuddy"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp")),
	)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() {
		_ = pgC.Terminate(ctx)
	}()

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://steambuddy:steambuddy@%s:%s/steambuddy?sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	deadline := time.Now().Add(30 * time.Second)
	for {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ping: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	if _, err := db.ExecContext(ctx, testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}

	st := &store.Store{DB: db}

	// Discord user 1 owns games 10 and 20 across two steam accounts,
	// discord user 2 owns games 20 and 30.
	links := []struct{ steam, discord int64 }{
		{1001, 1}, {1002, 1}, {2001, 2},
	}
	for _, l := range links {
		created, err := st.LinkAccount(ctx, l.steam, l.discord)
		if err != nil {
			t.Fatalf("LinkAccount(%d, %d): %v", l.steam, l.discord, err)
		}
		if !created {
			t.Fatalf("LinkAccount(%d, %d): expected new link", l.steam, l.discord)
		}
	}
	if err := st.UpsertOwnedGames(ctx, 1001, []int64{10}); err != nil {
		t.Fatalf("UpsertOwnedGames: %v", err)
	}
	if err := st.UpsertOwnedGames(ctx, 1002, []int64{10, 20}); err != nil {
		t.Fatalf("UpsertOwnedGames: %v", err)
	}
	if err := st.UpsertOwnedGames(ctx, 2001, []int64{20, 30}); err != nil {
		t.Fatalf("UpsertOwnedGames: %v", err)
	}

	rows, err := st.SharedOwnership(ctx, []int64{1, 2})
	if err != nil {
		t.Fatalf("SharedOwnership: %v", err)
	}

	// Game 10 owned by user 1 twice must collapse into a single row.
	want := []store.OwnershipRow{
		{AppID: 10, OwnerID: 1},
		{AppID: 20, OwnerID: 1},
		{AppID: 20, OwnerID: 2},
		{AppID: 30, OwnerID: 2},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v, want %+v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}

	accounts, err := st.SteamAccounts(ctx, 1)
	if err != nil {
		t.Fatalf("SteamAccounts: %v", err)
	}
	if len(accounts) != 2 || accounts[0] != 1001 || accounts[1] != 1002 {
		t.Fatalf("accounts = %v, want [1001 1002]", accounts)
	}

	users, err := st.LinkedDiscordUsers(ctx)
	if err != nil {
		t.Fatalf("LinkedDiscordUsers: %v", err)
	}
	if len(users) != 2 || users[0] != 1 || users[1] != 2 {
		t.Fatalf("users = %v, want [1 2]", users)
	}
}
