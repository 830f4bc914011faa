package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dotabot",
			Name:      "commands_total",
			Help:      "Handled interactions by command path and outcome.",
		},
		[]string{"command", "status"},
	)
	QueuePlayers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "dotabot",
			Name:      "queue_players",
			Help:      "Players currently waiting in the lobby queue.",
		},
		[]string{"guild"},
	)
	LobbiesFormed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dotabot",
			Name:      "lobbies_formed_total",
			Help:      "Lobbies formed from a full queue.",
		},
	)
	MatchesReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dotabot",
			Name:      "matches_reported_total",
			Help:      "Tournament match results by bracket.",
		},
		[]string{"bracket"},
	)
)

func init() {
	prometheus.MustRegister(CommandsTotal, QueuePlayers, LobbiesFormed, MatchesReported)
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("dotabot: error while shutting down the metrics server", tint.Err(err))
		}
	}()
	slog.Info("dotabot: serving metrics", slog.String("metrics.addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
