package handlers

import (
	"errors"

	"dota-bot/pkg/db"
	"dota-bot/pkg/tournament"
)

var userErrors = []struct {
	err     error
	message string
}{
	{db.ErrTournamentNotFound, "Tournament not found."},
	{tournament.ErrNotInSetup, "The tournament has already started."},
	{tournament.ErrNotRunning, "The tournament is not running."},
	{tournament.ErrNotEnoughTeams, "Need at least 2 teams."},
	{tournament.ErrInvalidTeamName, "Team name must not be empty."},
	{tournament.ErrEmptyTeam, "A team needs at least one player."},
	{tournament.ErrMatchNotFound, "Match not found."},
	{tournament.ErrMatchDecided, "This match already has a reported winner."},
	{tournament.ErrInvalidWinner, "That team is not playing in this match (use the exact team name)."},
}

// userError maps errors caused by invalid input to a reply for the user.
func userError(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	for _, e := range userErrors {
		if errors.Is(err, e.err) {
			return e.message, true
		}
	}
	return "", false
}
