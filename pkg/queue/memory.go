package queue

import (
	"context"
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

type MemoryStore struct {
	mu     sync.Mutex
	queues map[snowflake.ID][]snowflake.ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{queues: make(map[snowflake.ID][]snowflake.ID)}
}

func (s *MemoryStore) Load(_ context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queues[guildID]), nil
}

func (s *MemoryStore) Save(_ context.Context, guildID snowflake.ID, members []snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(members) == 0 {
		delete(s.queues, guildID)
		return nil
	}
	s.queues[guildID] = slices.Clone(members)
	return nil
}
