package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"

	"dota-bot/pkg/db"
	"dota-bot/pkg/metrics"
	"dota-bot/pkg/tournament"
	"dota-bot/pkg/util"
)

const maxTeamPlayers = 5

func (h *Handler) HandleTournamentCreate(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	name := strings.TrimSpace(data.String("name"))
	if name == "" {
		return replyEphemeral(event, "Tournament name must not be empty.")
	}
	ctx, cancel := requestContext()
	defer cancel()

	err := h.Bot.DB.CreateTournament(ctx, tournament.New(*guildID, name))
	if errors.Is(err, db.ErrTournamentExists) {
		return replyEphemeral(event, "Tournament with this name already exists.")
	}
	if err != nil {
		return err
	}
	return event.CreateMessage(util.Messagef("Tournament **%s** created. Add teams with `/tournament addteam`.", name))
}

func (h *Handler) HandleTournamentAddTeam(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	name := data.String("name")
	teamName := strings.TrimSpace(data.String("team"))
	var users []discord.User
	for i := 1; i <= maxTeamPlayers; i++ {
		if user, ok := data.OptUser(fmt.Sprintf("player%d", i)); ok {
			users = append(users, user)
		}
	}
	ctx, cancel := requestContext()
	defer cancel()

	team, err := h.addTeam(ctx, *guildID, name, teamName, users)
	if msg, ok := userError(err); ok {
		return replyEphemeral(event, msg)
	}
	if err != nil {
		return err
	}
	return event.CreateMessage(util.TeamAddedMessage(name, team))
}

// addTeam stores the team in the tournament and creates the player profiles once the team was accepted.
func (h *Handler) addTeam(ctx context.Context, guildID snowflake.ID, name string, teamName string, users []discord.User) (tournament.Team, error) {
	playerIDs := make([]snowflake.ID, 0, len(users))
	for _, user := range users {
		playerIDs = append(playerIDs, user.ID)
	}
	var team tournament.Team
	_, err := h.Bot.DB.UpdateTournament(ctx, guildID, name, func(t *tournament.Tournament) error {
		if err := t.AddTeam(teamName, playerIDs); err != nil {
			return err
		}
		team, _ = t.Team(teamName)
		return nil
	})
	if err != nil {
		return team, err
	}
	for _, user := range users {
		if _, err := h.Bot.DB.EnsurePlayer(ctx, user.ID, user.EffectiveName()); err != nil {
			return team, err
		}
	}
	return team, nil
}

func (h *Handler) HandleTournamentTeams(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	ctx, cancel := requestContext()
	defer cancel()

	t, err := h.Bot.DB.GetTournament(ctx, *guildID, data.String("name"))
	if msg, ok := userError(err); ok {
		return replyEphemeral(event, msg)
	}
	if err != nil {
		return err
	}
	var ids []snowflake.ID
	for _, team := range t.Teams {
		ids = append(ids, team.Players...)
	}
	players, err := h.Bot.DB.GetPlayers(ctx, ids)
	if err != nil {
		return err
	}
	return event.CreateMessage(util.TeamsMessage(t, players))
}

func (h *Handler) HandleTournamentStart(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	name := data.String("name")
	ctx, cancel := requestContext()
	defer cancel()

	var matches []tournament.Match
	_, err := h.Bot.DB.UpdateTournament(ctx, *guildID, name, func(t *tournament.Tournament) error {
		var err error
		matches, err = t.Start(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		return err
	})
	if msg, ok := userError(err); ok {
		return replyEphemeral(event, msg)
	}
	if err != nil {
		return err
	}
	slog.Info("dotabot: tournament started", slog.Any("guild.id", *guildID), slog.String("tournament.name", name), slog.Int("matches", len(matches)))
	return event.CreateMessage(util.StartedMessage(matches))
}

func (h *Handler) HandleTournamentBracket(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	ctx, cancel := requestContext()
	defer cancel()

	t, err := h.Bot.DB.GetTournament(ctx, *guildID, data.String("name"))
	if msg, ok := userError(err); ok {
		return replyEphemeral(event, msg)
	}
	if err != nil {
		return err
	}
	return event.CreateMessage(util.BracketMessage(t))
}

func (h *Handler) HandleTournamentResult(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	guildID := event.GuildID()
	if guildID == nil {
		return errNoGuild
	}
	name := data.String("name")
	matchID := data.Int("match")
	winner := strings.TrimSpace(data.String("winner"))
	ctx, cancel := requestContext()
	defer cancel()

	var res tournament.Result
	_, err := h.Bot.DB.UpdateTournament(ctx, *guildID, name, func(t *tournament.Tournament) error {
		var err error
		res, err = t.ReportResult(matchID, winner)
		return err
	})
	if msg, ok := userError(err); ok {
		return replyEphemeral(event, msg)
	}
	if err != nil {
		return err
	}
	metrics.MatchesReported.WithLabelValues(string(res.Match.Bracket)).Inc()

	changes, err := h.Bot.DB.ApplyMatchResult(ctx, res.Winner.Players, res.Loser.Players, h.Config.KFactor)
	if err != nil {
		slog.Error("dotabot: error while applying ratings",
			slog.Any("guild.id", *guildID),
			slog.String("tournament.name", name),
			slog.Int("match.id", matchID),
			tint.Err(err))
	}
	h.Bot.DebugLogger.Debug("dotabot: match reported",
		slog.String("tournament.name", name),
		slog.Int("match.id", matchID),
		slog.String("winner", res.Winner.Name),
		slog.Int("rating.changes", len(changes)))

	if res.Champion != "" {
		h.logToChannel(event.Client(), fmt.Sprintf("🏆 **%s** won the tournament **%s**!", res.Champion, name))
	}
	return event.CreateMessage(util.ResultMessage(res))
}

func (h *Handler) logToChannel(client *bot.Client, content string) {
	if h.Config.LogChannelID == 0 {
		return
	}
	if _, err := client.Rest.CreateMessage(h.Config.LogChannelID, discord.NewMessageCreate().
		WithContent(content).
		WithAllowedMentions(&discord.AllowedMentions{})); err != nil {
		slog.Error("dotabot: error while posting to the log channel", slog.Any("channel.id", h.Config.LogChannelID), tint.Err(err))
	}
}

func replyEphemeral(event *handler.CommandEvent, content string) error {
	return event.CreateMessage(discord.NewMessageCreate().
		WithContent(content).
		WithEphemeral(true))
}
