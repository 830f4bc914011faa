package util

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const (
	QueueJoinID  = "/queue/join"
	QueueLeaveID = "/queue/leave"

	blurple = 0x5865F2
)

func QueueEmbed(members []snowflake.ID, size int) discord.Embed {
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle("🕹️ Dota 2 Lobby Queue")
	embedBuilder.SetDescription("Click the buttons below to join or leave the current queue.")
	embedBuilder.SetColor(blurple)
	name := fmt.Sprintf("Current Players (%d/%d)", len(members), size)
	if len(members) == 0 {
		embedBuilder.AddField(name, "No one has joined yet.", false)
		return embedBuilder.Build()
	}
	lines := make([]string, len(members))
	for i, id := range members {
		lines[i] = fmt.Sprintf("%d. %s", i+1, Mention(id))
	}
	embedBuilder.AddField(name, strings.Join(lines, "\n"), false)
	return embedBuilder.Build()
}

func QueueButtons() discord.ActionRowComponent {
	return discord.NewActionRow(
		discord.NewSuccessButton("🎮 Join Queue", QueueJoinID),
		discord.NewDangerButton("🚪 Leave Queue", QueueLeaveID),
	)
}

func QueueMessageCreate(members []snowflake.ID, size int) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithEmbeds(QueueEmbed(members, size)).
		WithComponents(QueueButtons())
}

func QueueMessageUpdate(members []snowflake.ID, size int) discord.MessageUpdate {
	return discord.NewMessageUpdate().
		WithEmbeds(QueueEmbed(members, size)).
		WithComponents(QueueButtons())
}
