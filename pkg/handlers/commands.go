package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"

	"dota-bot/pkg"
	"dota-bot/pkg/metrics"
	"dota-bot/pkg/util"
)

const requestTimeout = 10 * time.Second

func NewHandler(b *pkg.Bot, c *pkg.Config) *Handler {
	mux := handler.New()
	mux.Use(metricsMiddleware)
	mux.Error(func(e *handler.InteractionEvent, err error) {
		slog.Error("dotabot: error while handling an interaction", slog.String("interaction.path", interactionPath(e.Interaction)), tint.Err(err))
		_ = e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
			WithContent("There was an error while handling the command.").
			WithEphemeral(true))
	})
	handlers := &Handler{
		Bot:    b,
		Config: c,
		Router: mux,
	}
	handlers.Command("/help", handlers.HandleHelp)
	handlers.Group(func(r handler.Router) {
		r.SlashCommand("/register", handlers.HandleRegister)
		r.SlashCommand("/profile", handlers.HandleProfile)
		r.SlashCommand("/leaderboard", handlers.HandleLeaderboard)
		r.Route("/elo", func(r handler.Router) {
			r.SlashCommand("/set", handlers.HandleEloSet)
			r.SlashCommand("/reset", handlers.HandleEloReset)
		})
	})
	handlers.Route("/queue", func(r handler.Router) {
		r.Command("/start", handlers.HandleQueueStart)
		r.Command("/show", handlers.HandleQueueShow)
		r.Command("/join", handlers.HandleQueueJoin)
		r.Command("/leave", handlers.HandleQueueLeave)
	})
	handlers.Group(func(r handler.Router) {
		r.Component(util.QueueJoinID, handlers.HandleQueueJoinButton)
		r.Component(util.QueueLeaveID, handlers.HandleQueueLeaveButton)
	})
	handlers.Route("/tournament", func(r handler.Router) {
		r.SlashCommand("/create", handlers.HandleTournamentCreate)
		r.SlashCommand("/addteam", handlers.HandleTournamentAddTeam)
		r.SlashCommand("/teams", handlers.HandleTournamentTeams)
		r.SlashCommand("/start", handlers.HandleTournamentStart)
		r.SlashCommand("/bracket", handlers.HandleTournamentBracket)
		r.SlashCommand("/result", handlers.HandleTournamentResult)
	})
	return handlers
}

type Handler struct {
	Bot    *pkg.Bot
	Config *pkg.Config
	handler.Router

	// serializes edits of the tracked queue messages
	queueEdits sync.Mutex
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func metricsMiddleware(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		err := next(e)
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.CommandsTotal.WithLabelValues(interactionPath(e.Interaction), status).Inc()
		return err
	}
}

func interactionPath(interaction discord.Interaction) string {
	switch i := interaction.(type) {
	case discord.ApplicationCommandInteraction:
		if data, ok := i.Data.(discord.SlashCommandInteractionData); ok {
			return data.CommandPath()
		}
		return "/" + i.Data.CommandName()
	case discord.ComponentInteraction:
		return i.Data.CustomID()
	}
	return "unknown"
}
