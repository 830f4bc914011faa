package util

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"dota-bot/pkg/db"
	"dota-bot/pkg/tournament"
)

// Message builds a reply whose content may carry player, team or tournament names.
// Mentions in it are never turned into pings.
func Message(content string) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithContent(Truncate(content, ContentLimit)).
		WithAllowedMentions(&discord.AllowedMentions{})
}

func Messagef(format string, a ...any) discord.MessageCreate {
	return Message(fmt.Sprintf(format, a...))
}

func ProfileMessage(p db.Player) discord.MessageCreate {
	return Message(FormatProfile(p))
}

func LeaderboardMessage(players []db.Player) discord.MessageCreate {
	return Message(FormatLeaderboard(players))
}

func TeamAddedMessage(tournamentName string, team tournament.Team) discord.MessageCreate {
	return Messagef("Added team **%s** with %d players to %s", team.Name, len(team.Players), tournamentName)
}

func TeamsMessage(t *tournament.Tournament, players map[snowflake.ID]db.Player) discord.MessageCreate {
	return Message(FormatTeams(t, players))
}

func StartedMessage(matches []tournament.Match) discord.MessageCreate {
	return Message("Started tournament. Round 1 (Upper):\n" + FormatScheduled(matches))
}

func BracketMessage(t *tournament.Tournament) discord.MessageCreate {
	return Message(FormatBracket(t))
}

func ResultMessage(res tournament.Result) discord.MessageCreate {
	if res.Champion != "" {
		return Messagef("🏆 Tournament finished! Champion: **%s**", res.Champion)
	}
	content := fmt.Sprintf("Result recorded: Winner **%s**", res.Winner.Name)
	switch res.Match.Bracket {
	case tournament.BracketUpper:
		content += fmt.Sprintf("; **%s** moved to the lower bracket.", res.Loser.Name)
	case tournament.BracketLower:
		content += fmt.Sprintf("; **%s** is eliminated.", res.Loser.Name)
	}
	if len(res.Created) != 0 {
		content += "\n\n**Next matches:**\n" + FormatScheduled(res.Created)
	}
	return Message(content)
}
