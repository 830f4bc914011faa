package db

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"

	"dota-bot/pkg/elo"
)

var ErrPlayerNotFound = errors.New("player not found")

const (
	playerColumns      = "discord_id, name, elo, wins, losses"
	upsertPlayerQuery  = "INSERT INTO players (discord_id, name) VALUES ($1, $2) ON CONFLICT(discord_id) DO UPDATE SET name = CASE WHEN $3 THEN excluded.name ELSE players.name END, updated_at = now() RETURNING " + playerColumns + ";"
	insertPlayerQuery  = "INSERT INTO players (discord_id, name) VALUES ($1, $2) ON CONFLICT(discord_id) DO NOTHING;"
	selectPlayerQuery  = "SELECT " + playerColumns + " FROM players WHERE discord_id = $1;"
	selectPlayersQuery = "SELECT " + playerColumns + " FROM players WHERE discord_id = ANY($1);"
	lockRatingsQuery   = "SELECT discord_id, elo FROM players WHERE discord_id = ANY($1) FOR UPDATE;"
	setRatingQuery     = "UPDATE players SET elo = $2, updated_at = now() WHERE discord_id = $1;"
	applyWinQuery      = "UPDATE players SET elo = $2, wins = wins + 1, updated_at = now() WHERE discord_id = $1;"
	applyLossQuery     = "UPDATE players SET elo = $2, losses = losses + 1, updated_at = now() WHERE discord_id = $1;"
	leaderboardQuery   = "SELECT " + playerColumns + " FROM players ORDER BY elo DESC, wins DESC, discord_id LIMIT $1;"
)

type Player struct {
	DiscordID snowflake.ID `db:"discord_id"`
	Name      string       `db:"name"`
	Rating    int          `db:"elo"`
	Wins      int          `db:"wins"`
	Losses    int          `db:"losses"`
}

type RatingChange struct {
	DiscordID snowflake.ID
	Old       int
	New       int
	Won       bool
}

func (c RatingChange) Delta() int {
	return c.New - c.Old
}

// EnsurePlayer creates the player if needed and refreshes the stored name when one is given.
func (db *DB) EnsurePlayer(ctx context.Context, discordID snowflake.ID, name string) (Player, error) {
	insertName := name
	if insertName == "" {
		insertName = discordID.String()
	}
	rows, _ := db.pool.Query(ctx, upsertPlayerQuery, discordID, insertName, name != "")
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[Player])
}

func (db *DB) GetPlayer(ctx context.Context, discordID snowflake.ID) (Player, error) {
	rows, _ := db.pool.Query(ctx, selectPlayerQuery, discordID)
	player, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Player])
	if errors.Is(err, pgx.ErrNoRows) {
		return player, ErrPlayerNotFound
	}
	return player, err
}

// GetPlayers returns the known players among ids keyed by their discord id.
func (db *DB) GetPlayers(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]Player, error) {
	rows, _ := db.pool.Query(ctx, selectPlayersQuery, toInt64s(ids))
	players, err := pgx.CollectRows(rows, pgx.RowToStructByName[Player])
	if err != nil {
		return nil, err
	}
	m := make(map[snowflake.ID]Player, len(players))
	for _, p := range players {
		m[p.DiscordID] = p
	}
	return m, nil
}

func (db *DB) SetRating(ctx context.Context, discordID snowflake.ID, name string, rating int) error {
	if _, err := db.EnsurePlayer(ctx, discordID, name); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx, setRatingQuery, discordID, rating)
	return err
}

func (db *DB) Leaderboard(ctx context.Context, limit int) ([]Player, error) {
	rows, _ := db.pool.Query(ctx, leaderboardQuery, limit)
	return pgx.CollectRows(rows, pgx.RowToStructByName[Player])
}

// ApplyMatchResult rates a finished match with the team average method and records the
// win or loss of every player, all in one transaction.
func (db *DB) ApplyMatchResult(ctx context.Context, winners, losers []snowflake.ID, k int) ([]RatingChange, error) {
	if len(winners) == 0 || len(losers) == 0 {
		return nil, nil
	}
	var changes []RatingChange
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		all := slices.Concat(winners, losers)

		batch := &pgx.Batch{}
		for _, id := range all {
			batch.Queue(insertPlayerQuery, id, id.String())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("create players: %w", err)
		}

		rows, _ := tx.Query(ctx, lockRatingsQuery, toInt64s(all))
		ratings := make(map[snowflake.ID]int, len(all))
		var (
			id     snowflake.ID
			rating int
		)
		if _, err := pgx.ForEachRow(rows, []any{&id, &rating}, func() error {
			ratings[id] = rating
			return nil
		}); err != nil {
			return fmt.Errorf("load ratings: %w", err)
		}

		oldWinners := lookup(ratings, winners)
		oldLosers := lookup(ratings, losers)
		newWinners, newLosers := elo.Adjust(oldWinners, oldLosers, k)

		batch = &pgx.Batch{}
		for i, id := range winners {
			batch.Queue(applyWinQuery, id, newWinners[i])
			changes = append(changes, RatingChange{DiscordID: id, Old: oldWinners[i], New: newWinners[i], Won: true})
		}
		for i, id := range losers {
			batch.Queue(applyLossQuery, id, newLosers[i])
			changes = append(changes, RatingChange{DiscordID: id, Old: oldLosers[i], New: newLosers[i]})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("update ratings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func lookup(ratings map[snowflake.ID]int, ids []snowflake.ID) []int {
	values := make([]int, len(ids))
	for i, id := range ids {
		rating, ok := ratings[id]
		if !ok {
			rating = elo.DefaultRating
		}
		values[i] = rating
	}
	return values
}

func toInt64s(ids []snowflake.ID) []int64 {
	values := make([]int64, len(ids))
	for i, id := range ids {
		values[i] = int64(id)
	}
	return values
}
