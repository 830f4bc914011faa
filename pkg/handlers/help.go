package handlers

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const helpText = `**Dota 2 Tournament Bot - Commands**
**Registration / Profile**
` + "`/register player`" + ` — register a player (create profile)
` + "`/profile [player]`" + ` — view a player's stats (ELO/wins/losses)

**Queue**
` + "`/queue start`" + ` — start a new queue with join/leave buttons
` + "`/queue show`" + ` — show the current queue
` + "`/queue join`" + `, ` + "`/queue leave`" + ` — join or leave the queue

**Leaderboard**
` + "`/leaderboard [limit]`" + ` — show top players by ELO

**Tournament**
` + "`/tournament create name`" + `
` + "`/tournament addteam name team player1 … player5`" + ` — add a team (5 players typical)
` + "`/tournament teams name`" + `
` + "`/tournament start name`" + ` — pair teams into upper bracket matches (auto-byes)
` + "`/tournament bracket name`" + ` — show the current bracket
` + "`/tournament result name match winner`" + ` — report a result using the exact team name

**Administration**
` + "`/elo set player value`" + ` — set a player's ELO
` + "`/elo reset player`" + ` — reset a player's ELO to 1200`

func (h *Handler) HandleHelp(event *handler.CommandEvent) error {
	return event.CreateMessage(discord.NewMessageCreate().
		WithContent(helpText).
		WithEphemeral(true))
}
