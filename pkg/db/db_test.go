package db

import (
	"context"
	"math"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to DATABASE_URL and runs the migrations. Tests using it are skipped
// when no database is configured.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(pool))
	return NewDB(pool)
}

// randomID returns an id that does not collide with rows of other test runs.
func randomID() snowflake.ID {
	return snowflake.ID(rand.Int64N(math.MaxInt64-1) + 1)
}

func cleanupPlayers(t *testing.T, db *DB, ids ...snowflake.ID) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = db.pool.Exec(context.Background(), "DELETE FROM players WHERE discord_id = ANY($1);", toInt64s(ids))
	})
}

func cleanupTournaments(t *testing.T, db *DB, guildID snowflake.ID) {
	t.Helper()
	t.Cleanup(func() {
		_, _ = db.pool.Exec(context.Background(), "DELETE FROM tournaments WHERE guild_id = $1;", guildID)
	})
}
