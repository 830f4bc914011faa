package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guildID = snowflake.ID(1000)

type failingStore struct {
	*MemoryStore
	fail bool
}

func (s *failingStore) Save(ctx context.Context, guildID snowflake.ID, members []snowflake.ID) error {
	if s.fail {
		return errors.New("store unavailable")
	}
	return s.MemoryStore.Save(ctx, guildID, members)
}

func TestJoinAndLeave(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), 3)

	res, err := m.Join(ctx, guildID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Position)
	assert.Nil(t, res.Lobby)

	_, err = m.Join(ctx, guildID, 1)
	assert.ErrorIs(t, err, ErrAlreadyQueued)

	res, err = m.Join(ctx, guildID, 2)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{1, 2}, res.Members)

	remaining, err := m.Leave(ctx, guildID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	_, err = m.Leave(ctx, guildID, 1)
	assert.ErrorIs(t, err, ErrNotQueued)

	members, err := m.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{2}, members)
}

func TestJoinFormsLobby(t *testing.T) {
	ctx := context.Background()
	formedAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewMemoryStore()
	m := NewManager(store, 3)
	m.now = func() time.Time { return formedAt }

	for _, id := range []snowflake.ID{7, 8} {
		_, err := m.Join(ctx, guildID, id)
		require.NoError(t, err)
	}
	res, err := m.Join(ctx, guildID, 9)
	require.NoError(t, err)
	require.NotNil(t, res.Lobby)
	assert.Equal(t, []snowflake.ID{7, 8, 9}, res.Lobby.Players)
	assert.Equal(t, guildID, res.Lobby.GuildID)
	assert.Equal(t, formedAt, res.Lobby.FormedAt)

	members, err := m.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Empty(t, members)

	persisted, err := store.Load(ctx, guildID)
	require.NoError(t, err)
	assert.Empty(t, persisted)

	// a player from the popped lobby can queue again
	_, err = m.Join(ctx, guildID, 7)
	assert.NoError(t, err)
}

func TestQueuesArePerGuild(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), DefaultSize)

	_, err := m.Join(ctx, guildID, 1)
	require.NoError(t, err)
	_, err = m.Join(ctx, guildID+1, 1)
	require.NoError(t, err)

	require.NoError(t, m.Reset(ctx, guildID))
	members, err := m.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Empty(t, members)
	members, err = m.Members(ctx, guildID+1)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{1}, members)
}

func TestManagerLoadsPersistedQueue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, guildID, []snowflake.ID{4, 5}))

	m := NewManager(store, DefaultSize)
	members, err := m.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{4, 5}, members)
	_, err = m.Join(ctx, guildID, 5)
	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestOversizedPersistedQueueFormsFullLobby(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, guildID, []snowflake.ID{1, 2, 3, 4, 5}))

	m := NewManager(store, 3)
	res, err := m.Join(ctx, guildID, 6)
	require.NoError(t, err)
	require.NotNil(t, res.Lobby)
	assert.Equal(t, []snowflake.ID{1, 2, 3}, res.Lobby.Players)
	assert.Equal(t, []snowflake.ID{4, 5, 6}, res.Members)
	assert.Equal(t, 3, res.Position)

	persisted, err := store.Load(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{4, 5, 6}, persisted)
}

func TestStoreFailureKeepsQueue(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	m := NewManager(store, DefaultSize)

	_, err := m.Join(ctx, guildID, 1)
	require.NoError(t, err)

	store.fail = true
	_, err = m.Join(ctx, guildID, 2)
	assert.Error(t, err)
	_, err = m.Leave(ctx, guildID, 1)
	assert.Error(t, err)

	members, err := m.Members(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{1}, members)
}

func TestDefaultSize(t *testing.T) {
	assert.Equal(t, DefaultSize, NewManager(NewMemoryStore(), 0).Size())
}
