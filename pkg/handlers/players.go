package handlers

import (
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"

	"dota-bot/pkg/elo"
	"dota-bot/pkg/util"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 25
)

func (h *Handler) HandleRegister(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	user := data.User("player")
	ctx, cancel := requestContext()
	defer cancel()

	player, err := h.Bot.DB.EnsurePlayer(ctx, user.ID, user.EffectiveName())
	if err != nil {
		return err
	}
	return event.CreateMessage(util.Messagef("Registered %s (%s)", player.Name, user.ID))
}

func (h *Handler) HandleProfile(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	user, ok := data.OptUser("player")
	if !ok {
		user = event.User()
	}
	ctx, cancel := requestContext()
	defer cancel()

	player, err := h.Bot.DB.EnsurePlayer(ctx, user.ID, user.EffectiveName())
	if err != nil {
		return err
	}
	return event.CreateMessage(util.ProfileMessage(player))
}

func (h *Handler) HandleLeaderboard(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	limit, ok := data.OptInt("limit")
	if !ok {
		limit = defaultLeaderboardLimit
	}
	limit = min(max(limit, 1), maxLeaderboardLimit)
	ctx, cancel := requestContext()
	defer cancel()

	players, err := h.Bot.DB.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}
	return event.CreateMessage(util.LeaderboardMessage(players))
}

func (h *Handler) HandleEloSet(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	return h.setRating(event, data.User("player"), data.Int("value"))
}

func (h *Handler) HandleEloReset(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	return h.setRating(event, data.User("player"), elo.DefaultRating)
}

func (h *Handler) setRating(event *handler.CommandEvent, user discord.User, rating int) error {
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	if !isAdministrator(event) {
		return event.CreateMessage(messageCreate.WithContent("Only administrators can change ratings."))
	}
	ctx, cancel := requestContext()
	defer cancel()

	if err := h.Bot.DB.SetRating(ctx, user.ID, user.EffectiveName(), rating); err != nil {
		slog.Error("dotabot: error while setting rating", slog.Any("user.id", user.ID), slog.Int("rating", rating), tint.Err(err))
		return event.CreateMessage(messageCreate.WithContent("There was an error while updating the rating."))
	}
	h.Bot.DebugLogger.Debug("dotabot: rating set",
		slog.Any("user.id", user.ID),
		slog.Any("moderator.id", event.User().ID),
		slog.Int("rating", rating))
	return event.CreateMessage(util.Messagef("Set ELO for %s to %d", user.EffectiveName(), rating))
}

func isAdministrator(event *handler.CommandEvent) bool {
	member := event.Member()
	return member != nil && member.Permissions.Has(discord.PermissionAdministrator)
}
