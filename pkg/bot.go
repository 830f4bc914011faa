package pkg

import (
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"dota-bot/pkg/db"
	"dota-bot/pkg/queue"
)

type Bot struct {
	DB            *db.DB
	Queue         *queue.Manager
	QueueMessages *QueueMessages
	DebugLogger   *slog.Logger
}

// QueueMessage points at the message showing a guild's queue.
type QueueMessage struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

type QueueMessages struct {
	mu       sync.Mutex
	messages map[snowflake.ID]QueueMessage
}

func NewQueueMessages() *QueueMessages {
	return &QueueMessages{messages: make(map[snowflake.ID]QueueMessage)}
}

func (q *QueueMessages) Get(guildID snowflake.ID) (QueueMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	msg, ok := q.messages[guildID]
	return msg, ok
}

func (q *QueueMessages) Set(guildID snowflake.ID, msg QueueMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages[guildID] = msg
}

// Forget drops the tracked message with messageID and reports whether one was tracked.
func (q *QueueMessages) Forget(messageID snowflake.ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for guildID, msg := range q.messages {
		if msg.MessageID == messageID {
			delete(q.messages, guildID)
			return true
		}
	}
	return false
}

func (q *QueueMessages) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}
