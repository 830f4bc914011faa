package commands

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Commands {
		slash, ok := c.(discord.SlashCommandCreate)
		require.True(t, ok)
		assert.False(t, seen[slash.Name], "duplicate command %s", slash.Name)
		seen[slash.Name] = true
		assert.NotEmpty(t, slash.Description)
	}
	for _, name := range []string{"help", "register", "profile", "leaderboard", "elo", "queue", "tournament"} {
		assert.True(t, seen[name], "missing command %s", name)
	}
}
