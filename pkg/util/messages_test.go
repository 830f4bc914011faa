package util

import (
	"math/rand/v2"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dota-bot/pkg/db"
	"dota-bot/pkg/tournament"
)

const everyone = "@everyone"

func TestMessagesSuppressMentions(t *testing.T) {
	tour := tournament.New(1, everyone)
	require.NoError(t, tour.AddTeam(everyone, []snowflake.ID{1}))
	require.NoError(t, tour.AddTeam("b", []snowflake.ID{2}))
	team, ok := tour.Team(everyone)
	require.True(t, ok)
	added := TeamAddedMessage(tour.Name, team)
	teams := TeamsMessage(tour, nil)

	started, err := tour.Start(rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	require.Len(t, started, 1)
	res, err := tour.ReportResult(started[0].ID, everyone)
	require.NoError(t, err)

	player := db.Player{DiscordID: 1, Name: everyone, Rating: 1200}
	messages := map[string]discord.MessageCreate{
		"added":       added,
		"teams":       teams,
		"started":     StartedMessage(started),
		"bracket":     BracketMessage(tour),
		"result":      ResultMessage(res),
		"profile":     ProfileMessage(player),
		"leaderboard": LeaderboardMessage([]db.Player{player}),
		"formatted":   Messagef("Set ELO for %s to %d", everyone, 1300),
	}
	for name, msg := range messages {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, msg.Content, everyone)
			assert.Equal(t, &discord.AllowedMentions{}, msg.AllowedMentions)
		})
	}
}

func TestResultMessageChampion(t *testing.T) {
	msg := ResultMessage(tournament.Result{Champion: "Liquid"})
	assert.Equal(t, "🏆 Tournament finished! Champion: **Liquid**", msg.Content)
}

func TestMessageTruncates(t *testing.T) {
	long := make([]byte, ContentLimit+100)
	for i := range long {
		long[i] = 'a'
	}
	assert.LessOrEqual(t, len(Message(string(long)).Content), ContentLimit)
}
