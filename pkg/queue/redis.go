package queue

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dotabot:queue:"

// RedisStore keeps every guild queue in a redis list.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	values, err := s.rdb.LRange(ctx, queueKey(guildID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	members := make([]snowflake.ID, 0, len(values))
	for _, v := range values {
		id, err := snowflake.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid queue member %q: %w", v, err)
		}
		members = append(members, id)
	}
	return members, nil
}

func (s *RedisStore) Save(ctx context.Context, guildID snowflake.ID, members []snowflake.ID) error {
	key := queueKey(guildID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(members) == 0 {
			return nil
		}
		values := make([]any, len(members))
		for i, id := range members {
			values[i] = id.String()
		}
		pipe.RPush(ctx, key, values...)
		return nil
	})
	return err
}

func queueKey(guildID snowflake.ID) string {
	return keyPrefix + guildID.String()
}
