package handlers

import (
	"errors"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"

	"dota-bot/pkg"
	"dota-bot/pkg/metrics"
	"dota-bot/pkg/queue"
	"dota-bot/pkg/util"
)

var errNoGuild = errors.New("interaction outside of a guild")

func (h *Handler) HandleQueueStart(event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	ctx, cancel := requestContext()
	defer cancel()

	if err := h.Bot.Queue.Reset(ctx, *guildID); err != nil {
		return err
	}
	metrics.QueuePlayers.WithLabelValues(guildID.String()).Set(0)
	if err := h.postQueueMessage(event.Client(), *guildID, event.Channel().ID(), nil); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithContent("Queue started below ⬇️").
		WithEphemeral(true))
}

func (h *Handler) HandleQueueShow(event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	ctx, cancel := requestContext()
	defer cancel()

	members, err := h.Bot.Queue.Members(ctx, *guildID)
	if err != nil {
		return err
	}
	if err := h.postQueueMessage(event.Client(), *guildID, event.Channel().ID(), members); err != nil {
		return err
	}
	return event.CreateMessage(discord.NewMessageCreate().
		WithContentf("Queue: **%d/%d** players.", len(members), h.Bot.Queue.Size()).
		WithEphemeral(true))
}

func (h *Handler) HandleQueueJoin(event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	user := event.User()
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	res, err := h.join(*guildID, user)
	if errors.Is(err, queue.ErrAlreadyQueued) {
		return event.CreateMessage(messageCreate.WithContentf("⚠️ %s, you're already in the queue.", user.EffectiveName()))
	}
	if err != nil {
		return err
	}
	client := event.Client()
	channelID := event.Channel().ID()
	if res.Lobby != nil {
		if err := event.CreateMessage(messageCreate.WithContent("You filled the queue, the lobby is ready!")); err != nil {
			return err
		}
		h.closeQueueMessage(client, *res.Lobby)
		h.announceLobby(client, channelID, *res.Lobby, res.Members)
		return nil
	}
	h.refreshQueueMessage(client, *guildID)
	return event.CreateMessage(messageCreate.WithContentf("You joined the queue (**%d/%d**).", res.Position, h.Bot.Queue.Size()))
}

func (h *Handler) HandleQueueLeave(event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	user := event.User()
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	remaining, err := h.leave(*guildID, user)
	if errors.Is(err, queue.ErrNotQueued) {
		return event.CreateMessage(messageCreate.WithContentf("❌ %s, you're not in the queue.", user.EffectiveName()))
	}
	if err != nil {
		return err
	}
	h.refreshQueueMessage(event.Client(), *guildID)
	return event.CreateMessage(messageCreate.WithContentf("You left the queue (**%d/%d**).", remaining, h.Bot.Queue.Size()))
}

func (h *Handler) HandleQueueJoinButton(event *handler.ComponentEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	user := event.User()
	res, err := h.join(*guildID, user)
	if errors.Is(err, queue.ErrAlreadyQueued) {
		return event.CreateMessage(discord.NewMessageCreate().
			WithContentf("⚠️ %s, you're already in the queue.", user.EffectiveName()).
			WithEphemeral(true))
	}
	if err != nil {
		return err
	}
	if res.Lobby != nil {
		// the full queue message turns into the lobby summary and a fresh queue is posted below
		h.Bot.QueueMessages.Forget(event.Message.ID)
		if err := event.UpdateMessage(discord.NewMessageUpdate().
			WithEmbeds(util.QueueEmbed(res.Lobby.Players, h.Bot.Queue.Size())).
			WithComponents()); err != nil {
			return err
		}
		h.announceLobby(event.Client(), event.Channel().ID(), *res.Lobby, res.Members)
		return nil
	}
	return h.updateQueueFromButton(event, *guildID)
}

func (h *Handler) HandleQueueLeaveButton(event *handler.ComponentEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	user := event.User()
	if _, err := h.leave(*guildID, user); errors.Is(err, queue.ErrNotQueued) {
		return event.CreateMessage(discord.NewMessageCreate().
			WithContentf("❌ %s, you're not in the queue.", user.EffectiveName()).
			WithEphemeral(true))
	} else if err != nil {
		return err
	}
	return h.updateQueueFromButton(event, *guildID)
}

// updateQueueFromButton tracks the clicked message as the guild's queue message and
// answers the interaction by re-rendering it.
func (h *Handler) updateQueueFromButton(event *handler.ComponentEvent, guildID snowflake.ID) error {
	h.Bot.QueueMessages.Set(guildID, pkg.QueueMessage{
		ChannelID: event.Channel().ID(),
		MessageID: event.Message.ID,
	})
	return h.withQueueMembers(guildID, func(members []snowflake.ID) error {
		return event.UpdateMessage(util.QueueMessageUpdate(members, h.Bot.Queue.Size()))
	})
}

func (h *Handler) join(guildID snowflake.ID, user discord.User) (queue.JoinResult, error) {
	ctx, cancel := requestContext()
	defer cancel()

	if _, err := h.Bot.DB.EnsurePlayer(ctx, user.ID, user.EffectiveName()); err != nil {
		return queue.JoinResult{}, err
	}
	res, err := h.Bot.Queue.Join(ctx, guildID, user.ID)
	if err != nil {
		return res, err
	}
	metrics.QueuePlayers.WithLabelValues(guildID.String()).Set(float64(len(res.Members)))
	h.Bot.DebugLogger.Debug("dotabot: player joined the queue",
		slog.Any("guild.id", guildID),
		slog.Any("user.id", user.ID),
		slog.Int("position", res.Position))
	return res, nil
}

func (h *Handler) leave(guildID snowflake.ID, user discord.User) (int, error) {
	ctx, cancel := requestContext()
	defer cancel()

	remaining, err := h.Bot.Queue.Leave(ctx, guildID, user.ID)
	if err != nil {
		return 0, err
	}
	metrics.QueuePlayers.WithLabelValues(guildID.String()).Set(float64(remaining))
	h.Bot.DebugLogger.Debug("dotabot: player left the queue",
		slog.Any("guild.id", guildID),
		slog.Any("user.id", user.ID),
		slog.Int("remaining", remaining))
	return remaining, nil
}

// withQueueMembers calls render with the guild's current queue. Renders are serialized, so
// the last edit of a queue message always shows the latest members.
func (h *Handler) withQueueMembers(guildID snowflake.ID, render func(members []snowflake.ID) error) error {
	h.queueEdits.Lock()
	defer h.queueEdits.Unlock()

	ctx, cancel := requestContext()
	defer cancel()
	members, err := h.Bot.Queue.Members(ctx, guildID)
	if err != nil {
		return err
	}
	return render(members)
}

// postQueueMessage sends a new queue message to channelID and tracks it as the guild's queue message.
func (h *Handler) postQueueMessage(client *bot.Client, guildID snowflake.ID, channelID snowflake.ID, members []snowflake.ID) error {
	msg, err := client.Rest.CreateMessage(channelID, util.QueueMessageCreate(members, h.Bot.Queue.Size()))
	if err != nil {
		return err
	}
	h.Bot.QueueMessages.Set(guildID, pkg.QueueMessage{
		ChannelID: channelID,
		MessageID: msg.ID,
	})
	return nil
}

// refreshQueueMessage edits the tracked queue message in place, if there is one.
func (h *Handler) refreshQueueMessage(client *bot.Client, guildID snowflake.ID) {
	tracked, ok := h.Bot.QueueMessages.Get(guildID)
	if !ok {
		return
	}
	err := h.withQueueMembers(guildID, func(members []snowflake.ID) error {
		_, err := client.Rest.UpdateMessage(tracked.ChannelID, tracked.MessageID, util.QueueMessageUpdate(members, h.Bot.Queue.Size()))
		return err
	})
	if err != nil {
		slog.Warn("dotabot: error while updating the queue message",
			slog.Any("channel.id", tracked.ChannelID),
			slog.Any("message.id", tracked.MessageID),
			tint.Err(err))
		h.Bot.QueueMessages.Forget(tracked.MessageID)
	}
}

// closeQueueMessage turns the tracked queue message into the lobby summary without buttons.
func (h *Handler) closeQueueMessage(client *bot.Client, lobby queue.Lobby) {
	tracked, ok := h.Bot.QueueMessages.Get(lobby.GuildID)
	if !ok {
		return
	}
	h.Bot.QueueMessages.Forget(tracked.MessageID)
	if _, err := client.Rest.UpdateMessage(tracked.ChannelID, tracked.MessageID, discord.NewMessageUpdate().
		WithEmbeds(util.QueueEmbed(lobby.Players, h.Bot.Queue.Size())).
		WithComponents()); err != nil {
		slog.Warn("dotabot: error while closing the queue message",
			slog.Any("channel.id", tracked.ChannelID),
			slog.Any("message.id", tracked.MessageID),
			tint.Err(err))
	}
}
