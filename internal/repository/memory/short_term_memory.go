package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoredMessage is one element of the rolling per-session window in Redis.
type StoredMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ShortTermMemoryRepository keeps the last few messages of a session in
// Redis so the generator sees immediate context without a DB round trip.
type ShortTermMemoryRepository struct {
	client *redis.Client
	window int
	ttl    time.Duration
}

func NewShortTermMemoryRepository(client *redis.Client, window int, ttl time.Duration) *ShortTermMemoryRepository {
	if window <= 0 {
		window = 5
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ShortTermMemoryRepository{
		client: client,
		window: window,
		ttl:    ttl,
	}
}

func (r *ShortTermMemoryRepository) key(sessionID string) string {
	return fmt.Sprintf("chat_memory:%s", sessionID)
}

// Append pushes messages onto the window and trims it to the configured size.
func (r *ShortTermMemoryRepository) Append(ctx context.Context, sessionID string, messages ...StoredMessage) error {
	if r.client == nil || len(messages) == 0 {
		return nil
	}

	key := r.key(sessionID)
	values := make([]interface{}, 0, len(messages))
	for _, msg := range messages {
		raw, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal memory entry: %w", err)
		}
		values = append(values, raw)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-r.window), -1)
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Recent returns the window oldest-first.
func (r *ShortTermMemoryRepository) Recent(ctx context.Context, sessionID string) ([]StoredMessage, error) {
	if r.client == nil {
		return nil, nil
	}

	raws, err := r.client.LRange(ctx, r.key(sessionID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	messages := make([]StoredMessage, 0, len(raws))
	for _, raw := range raws {
		var msg StoredMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *ShortTermMemoryRepository) Clear(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
