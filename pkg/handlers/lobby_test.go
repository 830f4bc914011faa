package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestNotifyPlayersLogsFailedDMs(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	var sent atomic.Int32
	eg, ctx := errgroup.WithContext(context.Background())
	notifyPlayers(ctx, eg, []snowflake.ID{1, 2, 3}, func(_ context.Context, userID snowflake.ID) error {
		if userID == 2 {
			return errors.New("cannot send messages to this user")
		}
		sent.Add(1)
		return nil
	})
	assert.NoError(t, eg.Wait())
	assert.Equal(t, int32(2), sent.Load())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 1) {
		assert.Contains(t, lines[0], `"level":"WARN"`)
		assert.Contains(t, lines[0], `"user.id":"2"`)
		assert.Contains(t, lines[0], "cannot send messages to this user")
	}
}
