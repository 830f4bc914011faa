package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env")))

	malformed := filepath.Join(dir, "malformed.env")
	require.NoError(t, os.WriteFile(malformed, []byte("LOBBY-SIZE=10\n"), 0o600))
	assert.Error(t, loadDotEnv(malformed))

	valid := filepath.Join(dir, "valid.env")
	require.NoError(t, os.WriteFile(valid, []byte("DOTABOT_TEST_LOBBY_SIZE=6\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOTABOT_TEST_LOBBY_SIZE") })
	require.NoError(t, loadDotEnv(valid))
	assert.Equal(t, "6", os.Getenv("DOTABOT_TEST_LOBBY_SIZE"))
}
