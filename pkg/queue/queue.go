package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const DefaultSize = 10

var (
	ErrAlreadyQueued = errors.New("player is already in the queue")
	ErrNotQueued     = errors.New("player is not in the queue")
)

// Store persists the members of each guild queue in join order.
type Store interface {
	Load(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error)
	Save(ctx context.Context, guildID snowflake.ID, members []snowflake.ID) error
}

type Lobby struct {
	GuildID  snowflake.ID
	Players  []snowflake.ID
	FormedAt time.Time
}

type JoinResult struct {
	Position int
	Members  []snowflake.ID
	Lobby    *Lobby // set when this join filled the queue; Members then holds the players left over
}

type Manager struct {
	mu     sync.Mutex
	store  Store
	size   int
	queues map[snowflake.ID][]snowflake.ID
	now    func() time.Time
}

func NewManager(store Store, size int) *Manager {
	if size <= 0 {
		size = DefaultSize
	}
	return &Manager{
		store:  store,
		size:   size,
		queues: make(map[snowflake.ID][]snowflake.ID),
		now:    time.Now,
	}
}

func (m *Manager) Size() int {
	return m.size
}

func (m *Manager) Join(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (JoinResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, err := m.load(ctx, guildID)
	if err != nil {
		return JoinResult{}, err
	}
	if slices.Contains(members, userID) {
		return JoinResult{}, ErrAlreadyQueued
	}
	next := append(slices.Clone(members), userID)
	if len(next) < m.size {
		if err := m.save(ctx, guildID, next); err != nil {
			return JoinResult{}, err
		}
		return JoinResult{Position: len(next), Members: slices.Clone(next)}, nil
	}

	// the first size players pop as a lobby; anyone past the capacity stays queued
	players := slices.Clone(next[:m.size])
	var rest []snowflake.ID
	if len(next) > m.size {
		rest = slices.Clone(next[m.size:])
	}
	if err := m.save(ctx, guildID, rest); err != nil {
		return JoinResult{}, err
	}
	position := len(players)
	if len(rest) != 0 {
		position = len(rest)
	}
	return JoinResult{
		Position: position,
		Members:  slices.Clone(rest),
		Lobby: &Lobby{
			GuildID:  guildID,
			Players:  players,
			FormedAt: m.now(),
		},
	}, nil
}

func (m *Manager) Leave(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, err := m.load(ctx, guildID)
	if err != nil {
		return 0, err
	}
	i := slices.Index(members, userID)
	if i == -1 {
		return len(members), ErrNotQueued
	}
	next := slices.Delete(slices.Clone(members), i, i+1)
	if err := m.save(ctx, guildID, next); err != nil {
		return 0, err
	}
	return len(next), nil
}

func (m *Manager) Members(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, err := m.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(members), nil
}

func (m *Manager) Reset(ctx context.Context, guildID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.save(ctx, guildID, nil)
}

// load must be called with mu held.
func (m *Manager) load(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	if members, ok := m.queues[guildID]; ok {
		return members, nil
	}
	members, err := m.store.Load(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("load queue: %w", err)
	}
	m.queues[guildID] = members
	return members, nil
}

// save must be called with mu held. The in-memory view only changes once the store accepted the write.
func (m *Manager) save(ctx context.Context, guildID snowflake.ID, members []snowflake.ID) error {
	if err := m.store.Save(ctx, guildID, members); err != nil {
		return fmt.Errorf("save queue: %w", err)
	}
	m.queues[guildID] = members
	return nil
}
