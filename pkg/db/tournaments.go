package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dota-bot/pkg/tournament"
)

var (
	ErrTournamentExists   = errors.New("tournament already exists")
	ErrTournamentNotFound = errors.New("tournament not found")
)

const (
	tournamentColumns      = "id, guild_id, name, status, state, created_at"
	insertTournamentQuery  = "INSERT INTO tournaments (id, guild_id, name, status, state) VALUES ($1, $2, $3, $4, $5) ON CONFLICT(guild_id, name) DO NOTHING;"
	selectTournamentQuery  = "SELECT " + tournamentColumns + " FROM tournaments WHERE guild_id = $1 AND name = $2;"
	lockTournamentQuery    = "SELECT " + tournamentColumns + " FROM tournaments WHERE guild_id = $1 AND name = $2 FOR UPDATE;"
	updateTournamentQuery  = "UPDATE tournaments SET status = $2, state = $3, updated_at = now() WHERE id = $1;"
	selectTournamentsQuery = "SELECT " + tournamentColumns + " FROM tournaments WHERE guild_id = $1 ORDER BY created_at DESC LIMIT $2;"
)

type tournamentRow struct {
	ID        uuid.UUID    `db:"id"`
	GuildID   snowflake.ID `db:"guild_id"`
	Name      string       `db:"name"`
	Status    string       `db:"status"`
	State     []byte       `db:"state"`
	CreatedAt time.Time    `db:"created_at"`
}

func (r tournamentRow) decode() (*tournament.Tournament, error) {
	var t tournament.Tournament
	if err := json.Unmarshal(r.State, &t); err != nil {
		return nil, fmt.Errorf("decode tournament %s: %w", r.ID, err)
	}
	t.ID = r.ID
	t.GuildID = r.GuildID
	t.Name = r.Name
	t.Status = tournament.Status(r.Status)
	t.CreatedAt = r.CreatedAt
	return &t, nil
}

func (db *DB) CreateTournament(ctx context.Context, t *tournament.Tournament) error {
	state, err := json.Marshal(t)
	if err != nil {
		return err
	}
	tag, err := db.pool.Exec(ctx, insertTournamentQuery, t.ID, t.GuildID, t.Name, string(t.Status), state)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTournamentExists
	}
	return nil
}

func (db *DB) GetTournament(ctx context.Context, guildID snowflake.ID, name string) (*tournament.Tournament, error) {
	rows, _ := db.pool.Query(ctx, selectTournamentQuery, guildID, name)
	return collectTournament(rows)
}

func (db *DB) ListTournaments(ctx context.Context, guildID snowflake.ID, limit int) ([]*tournament.Tournament, error) {
	rows, _ := db.pool.Query(ctx, selectTournamentsQuery, guildID, limit)
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[tournamentRow])
	if err != nil {
		return nil, err
	}
	tournaments := make([]*tournament.Tournament, 0, len(records))
	for _, r := range records {
		t, err := r.decode()
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

// UpdateTournament locks the tournament row, applies fn and stores the result. Nothing is
// written when fn returns an error, which is passed through unchanged.
func (db *DB) UpdateTournament(ctx context.Context, guildID snowflake.ID, name string, fn func(t *tournament.Tournament) error) (*tournament.Tournament, error) {
	var updated *tournament.Tournament
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		rows, _ := tx.Query(ctx, lockTournamentQuery, guildID, name)
		t, err := collectTournament(rows)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		state, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, updateTournamentQuery, t.ID, string(t.Status), state); err != nil {
			return err
		}
		updated = t
		return nil
	})
	return updated, err
}

func collectTournament(rows pgx.Rows) (*tournament.Tournament, error) {
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tournamentRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.decode()
}
