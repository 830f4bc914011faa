package pkg

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFunc(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"DISCORD_BOT_TOKEN": "token",
		"DISCORD_GUILD_ID":  "123456789012345678",
		"DATABASE_URL":      "postgres://localhost/dotabot",
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(envFunc(baseEnv()))
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.Token)
	assert.Equal(t, snowflake.ID(123456789012345678), cfg.GuildID)
	assert.Equal(t, 10, cfg.LobbySize)
	assert.Equal(t, 32, cfg.KFactor)
	assert.Equal(t, "log.log", cfg.DebugLogPath)
	assert.Zero(t, cfg.LogChannelID)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.Production())
}

func TestLoadConfigMissingRequired(t *testing.T) {
	for _, key := range []string{"DISCORD_BOT_TOKEN", "DISCORD_GUILD_ID", "DATABASE_URL"} {
		t.Run(key, func(t *testing.T) {
			env := baseEnv()
			env[key] = "   "
			_, err := LoadConfig(envFunc(env))
			assert.ErrorIs(t, err, ErrMissingEnv)
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := map[string]string{
		"DISCORD_GUILD_ID": "guild",
		"LOG_CHANNEL_ID":   "channel",
		"LOBBY_SIZE":       "0",
		"ELO_K_FACTOR":     "many",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			env := baseEnv()
			env[key] = value
			_, err := LoadConfig(envFunc(env))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	env := baseEnv()
	env["LOBBY_SIZE"] = "2"
	env["ELO_K_FACTOR"] = "16"
	env["LOG_CHANNEL_ID"] = "42"
	env["REDIS_ADDR"] = "localhost:6379"
	env["BOT_ENVIRONMENT"] = "PROD"
	cfg, err := LoadConfig(envFunc(env))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.LobbySize)
	assert.Equal(t, 16, cfg.KFactor)
	assert.Equal(t, snowflake.ID(42), cfg.LogChannelID)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.True(t, cfg.Production())
}
