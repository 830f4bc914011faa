package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"dota-bot/pkg/metrics"
	"dota-bot/pkg/queue"
	"dota-bot/pkg/util"
)

const (
	notifyTimeout = 30 * time.Second
	notifyLimit   = 4

	lobbyReadyDM = "🎮 Your Dota 2 lobby is ready! Head back to the server to start the game."
)

// announceLobby posts the formed lobby, starts a fresh queue holding the remaining players
// in the same channel and notifies every player and the log channel in the background.
func (h *Handler) announceLobby(client *bot.Client, channelID snowflake.ID, lobby queue.Lobby, remaining []snowflake.ID) {
	metrics.LobbiesFormed.Inc()
	metrics.QueuePlayers.WithLabelValues(lobby.GuildID.String()).Set(float64(len(remaining)))
	slog.Info("dotabot: lobby formed", slog.Any("guild.id", lobby.GuildID), slog.Int("players", len(lobby.Players)))

	content := fmt.Sprintf("✅ **%d players have joined! Lobby is ready to start!**\n%s", len(lobby.Players), util.Mentions(lobby.Players))
	if _, err := client.Rest.CreateMessage(channelID, discord.NewMessageCreate().
		WithContent(content).
		WithAllowedMentions(&discord.AllowedMentions{Users: lobby.Players})); err != nil {
		slog.Error("dotabot: error while announcing a lobby", slog.Any("channel.id", channelID), tint.Err(err))
	}
	if err := h.postQueueMessage(client, lobby.GuildID, channelID, remaining); err != nil {
		slog.Error("dotabot: error while posting a fresh queue", slog.Any("channel.id", channelID), tint.Err(err))
	}

	go h.notifyLobby(client, lobby)
}

func (h *Handler) notifyLobby(client *bot.Client, lobby queue.Lobby) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(notifyLimit)
	if h.Config.LogChannelID != 0 {
		eg.Go(func() error {
			_, err := client.Rest.CreateMessage(h.Config.LogChannelID, discord.NewMessageCreate().
				WithContentf("Lobby formed at <t:%d:t>: %s", lobby.FormedAt.Unix(), util.Mentions(lobby.Players)).
				WithAllowedMentions(&discord.AllowedMentions{}), rest.WithCtx(ctx))
			if err != nil {
				slog.Error("dotabot: error while posting to the log channel", slog.Any("channel.id", h.Config.LogChannelID), tint.Err(err))
			}
			return nil
		})
	}
	notifyPlayers(ctx, eg, lobby.Players, func(ctx context.Context, userID snowflake.ID) error {
		return notify(ctx, client, userID, lobbyReadyDM)
	})
	_ = eg.Wait()
}

// notifyPlayers sends to every player on eg. A failed send is logged and never cancels the others.
func notifyPlayers(ctx context.Context, eg *errgroup.Group, players []snowflake.ID, send func(ctx context.Context, userID snowflake.ID) error) {
	for _, playerID := range players {
		eg.Go(func() error {
			if err := send(ctx, playerID); err != nil {
				slog.Warn("dotabot: could not notify player", slog.Any("user.id", playerID), tint.Err(err))
			}
			return nil
		})
	}
}

func notify(ctx context.Context, client *bot.Client, userID snowflake.ID, content string) error {
	channel, err := client.Rest.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return err
	}
	_, err = client.Rest.CreateMessage(channel.ID(), discord.NewMessageCreate().WithContent(content), rest.WithCtx(ctx))
	return err
}
