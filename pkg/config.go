package pkg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"dota-bot/pkg/elo"
	"dota-bot/pkg/queue"
)

var ErrMissingEnv = errors.New("missing required environment variable")

type Config struct {
	Token         string
	GuildID       snowflake.ID
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	LogChannelID  snowflake.ID // 0 when announcements are disabled
	LobbySize     int
	KFactor       int
	MetricsAddr   string
	SentryDSN     string
	Environment   string
	DebugLogPath  string
}

func (c *Config) Production() bool {
	return c.Environment == "PROD"
}

// LoadConfig reads the configuration through getenv, usually os.Getenv.
func LoadConfig(getenv func(string) string) (*Config, error) {
	env := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}
	required := func(key string) (string, error) {
		v := env(key)
		if v == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
		}
		return v, nil
	}

	token, err := required("DISCORD_BOT_TOKEN")
	if err != nil {
		return nil, err
	}
	rawGuildID, err := required("DISCORD_GUILD_ID")
	if err != nil {
		return nil, err
	}
	guildID, err := snowflake.Parse(rawGuildID)
	if err != nil {
		return nil, fmt.Errorf("invalid DISCORD_GUILD_ID %q: %w", rawGuildID, err)
	}
	databaseURL, err := required("DATABASE_URL")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Token:         token,
		GuildID:       guildID,
		DatabaseURL:   databaseURL,
		RedisAddr:     env("REDIS_ADDR"),
		RedisPassword: env("REDIS_PASSWORD"),
		MetricsAddr:   env("METRICS_ADDR"),
		SentryDSN:     env("SENTRY_DSN"),
		Environment:   env("BOT_ENVIRONMENT"),
		DebugLogPath:  env("DEBUG_LOG_PATH"),
		LobbySize:     queue.DefaultSize,
		KFactor:       elo.DefaultK,
	}
	if cfg.DebugLogPath == "" {
		cfg.DebugLogPath = "log.log"
	}
	if v := env("LOG_CHANNEL_ID"); v != "" {
		if cfg.LogChannelID, err = snowflake.Parse(v); err != nil {
			return nil, fmt.Errorf("invalid LOG_CHANNEL_ID %q: %w", v, err)
		}
	}
	if cfg.LobbySize, err = positiveInt(env("LOBBY_SIZE"), queue.DefaultSize); err != nil {
		return nil, fmt.Errorf("invalid LOBBY_SIZE: %w", err)
	}
	if cfg.KFactor, err = positiveInt(env("ELO_K_FACTOR"), elo.DefaultK); err != nil {
		return nil, fmt.Errorf("invalid ELO_K_FACTOR: %w", err)
	}
	return cfg, nil
}

func positiveInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if i <= 0 {
		return 0, fmt.Errorf("%d is not positive", i)
	}
	return i, nil
}
