package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/citizenvoice/assistant/internal/model/chat"
)

// RedisStore persists each user's transcript as a single JSON document.
// Transcripts are small (one conversation per user) so read-modify-write per
// append keeps the layout simple.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, userID string) ([]Record, error) {
	raw, err := s.rdb.Get(ctx, historyKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to get history for %s: %w", userID, err)
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history for %s: %w", userID, err)
	}
	return records, nil
}

// Append implements Store.
func (s *RedisStore) Append(ctx context.Context, userID string, messages ...chat.Message) error {
	records, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		records = append(records, newRecord(msg))
	}

	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal history for %s: %w", userID, err)
	}
	if err := s.rdb.Set(ctx, historyKey(userID), encoded, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history for %s: %w", userID, err)
	}
	return nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, historyKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear history for %s: %w", userID, err)
	}
	return nil
}

func historyKey(userID string) string {
	return fmt.Sprintf("chat_history_%s", userID)
}
