package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"dota-bot/pkg"
	"dota-bot/pkg/commands"
	"dota-bot/pkg/db"
	"dota-bot/pkg/handlers"
	"dota-bot/pkg/metrics"
	"dota-bot/pkg/queue"
)

const (
	redisTimeout = 5 * time.Second
)

func main() {
	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := pkg.LoadConfig(os.Getenv)
	if err != nil {
		panic(err)
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.SentryDSN,
		EnableTracing: false,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if cfg.Production() { // only log events in prod
				return event
			}
			return nil
		},
	})
	if err != nil {
		panic(err)
	}

	defer sentry.Flush(2 * time.Second)

	fileWriter, err := os.OpenFile(cfg.DebugLogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		panic(err)
	}
	defer fileWriter.Close()
	debugLogger := slog.New(slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	logger := slog.New(slog.NewMultiHandler(
		tint.NewHandler(os.Stdout, &tint.Options{
			Level: slog.LevelInfo,
		}),
		sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelWarn, slog.LevelError},
			LogLevel:   []slog.Level{},
		}.NewSentryHandler(context.Background())))
	slog.SetDefault(logger)

	slog.Info("starting the bot...", slog.String("disgo.version", disgo.Version))

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	if err := db.Migrate(pool); err != nil {
		panic(err)
	}

	b := &pkg.Bot{
		DB:            db.NewDB(pool),
		Queue:         queue.NewManager(newQueueStore(cfg), cfg.LobbySize),
		QueueMessages: pkg.NewQueueMessages(),
		DebugLogger:   debugLogger,
	}
	h := handlers.NewHandler(b, cfg)

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages),
			gateway.WithPresenceOpts(gateway.WithPlayingActivity("Dota 2"))),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(h, &events.ListenerAdapter{
			OnReady: func(ev *events.Ready) {
				slog.Info("dotabot: logged in", slog.String("user.name", ev.User.Username), slog.Any("user.id", ev.User.ID))
			},
			OnGuildMessageDelete: func(ev *events.GuildMessageDelete) {
				if b.QueueMessages.Forget(ev.MessageID) {
					debugLogger.Debug("dotabot: queue message deleted",
						slog.Any("guild.id", ev.GuildID),
						slog.Any("message.id", ev.MessageID))
				}
			},
		}))
	if err != nil {
		panic(err)
	}

	defer client.Close(context.TODO())

	if err := handler.SyncCommands(client, commands.Commands, []snowflake.ID{cfg.GuildID}); err != nil {
		panic(err)
	}
	slog.Info("dotabot: synced commands", slog.Int("count", len(commands.Commands)), slog.Any("guild.id", cfg.GuildID))

	if err := client.OpenGateway(context.TODO()); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		eg.Go(func() error {
			return metrics.Serve(ctx, cfg.MetricsAddr)
		})
	}
	eg.Go(func() error {
		<-ctx.Done()
		return nil
	})

	slog.Info("dotabot is now running.")
	if err := eg.Wait(); err != nil {
		slog.Error("dotabot: shutting down after an error", tint.Err(err))
	}
}

// loadDotEnv loads the given env files, .env by default. A missing file is skipped.
func loadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func newQueueStore(cfg *pkg.Config) queue.Store {
	if cfg.RedisAddr == "" {
		slog.Warn("dotabot: REDIS_ADDR not set, the queue is kept in memory only")
		return queue.NewMemoryStore()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: redisTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		panic(err)
	}
	return queue.NewRedisStore(rdb)
}
