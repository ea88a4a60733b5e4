package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inovasi-informatika/spp-admin/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisStore shares flash messages between server replicas.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a new RedisStore.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Put(ctx context.Context, id string, msg Message, ttl time.Duration) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.FlashKey(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set flash: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, id string) (Message, error) {
	raw, err := s.rdb.GetDel(ctx, config.CacheKey.FlashKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Message{}, ErrNotFound
	}
	if err != nil {
		return Message{}, fmt.Errorf("get flash: %w", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("unmarshal flash: %w", err)
	}
	return msg, nil
}
