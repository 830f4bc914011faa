package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStoreReplacesList(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	key := queueKey(guildID)

	require.NoError(t, store.Save(ctx, guildID, []snowflake.ID{3, 1, 2}))
	list, err := mr.List(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, list)

	require.NoError(t, store.Save(ctx, guildID, []snowflake.ID{1, 2}))
	members, err := store.Load(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{1, 2}, members)

	require.NoError(t, store.Save(ctx, guildID, nil))
	assert.False(t, mr.Exists(key))
	members, err = store.Load(ctx, guildID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRedisStoreKeepsGuildsApart(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	require.NoError(t, store.Save(ctx, guildID, []snowflake.ID{1}))
	require.NoError(t, store.Save(ctx, guildID+1, []snowflake.ID{2}))
	require.NoError(t, store.Save(ctx, guildID, nil))

	members, err := store.Load(ctx, guildID+1)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{2}, members)
}

func TestRedisStoreRejectsInvalidMembers(t *testing.T) {
	store, mr := newTestRedisStore(t)
	_, err := mr.Push(queueKey(guildID), "1", "not-a-snowflake")
	require.NoError(t, err)

	_, err = store.Load(context.Background(), guildID)
	assert.ErrorContains(t, err, "not-a-snowflake")
}

func TestManagerWithRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	m := NewManager(store, 2)

	_, err := m.Join(ctx, guildID, 10)
	require.NoError(t, err)
	list, err := mr.List(queueKey(guildID))
	require.NoError(t, err)
	assert.Equal(t, []string{"10"}, list)

	res, err := m.Join(ctx, guildID, 11)
	require.NoError(t, err)
	require.NotNil(t, res.Lobby)
	assert.Equal(t, []snowflake.ID{10, 11}, res.Lobby.Players)
	assert.False(t, mr.Exists(queueKey(guildID)))

	// a restarted manager picks the queue up from redis
	_, err = m.Join(ctx, guildID, 12)
	require.NoError(t, err)
	members, err := NewManager(store, 2).Members(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{12}, members)
}
