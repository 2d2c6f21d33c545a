package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a string key-value store that survives gateway restarts.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type RedisStorage struct {
	Client *redis.Client
	TTL    time.Duration
}

var _ Storage = (*RedisStorage)(nil)

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{Client: client, TTL: ttl}
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set refreshes the TTL on every write, so an active cart never expires.
func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	return s.Client.Set(ctx, key, value, s.TTL).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}
