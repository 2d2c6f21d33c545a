package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore maps opaque bearer tokens to identities.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) key(token string) string {
	return "session:" + token
}

func (s *RedisSessionStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	value := strconv.Itoa(identity.UserID) + ":" + string(identity.Role)
	if err := s.Client.Set(ctx, s.key(token), value, s.TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (*domain.Identity, error) {
	value, err := s.Client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: session", service.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	idPart, role, ok := strings.Cut(value, ":")
	userID, convErr := strconv.Atoi(idPart)
	if !ok || convErr != nil {
		return nil, fmt.Errorf("malformed session value %q", value)
	}
	return &domain.Identity{UserID: userID, Role: domain.Role(role)}, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.Client.Del(ctx, s.key(token)).Err()
}

const pendingOrder = "0"

// RedisIdempotencyStore keeps the order id produced for each idempotency key.
// A key holds "0" while its first request is still placing the order.
type RedisIdempotencyStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{Client: client, TTL: ttl}
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) (bool, int, error) {
	ok, err := s.Client.SetNX(ctx, key, pendingOrder, s.TTL).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}

	value, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; treat as still in flight
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	orderID, err := strconv.Atoi(value)
	if err != nil {
		return false, 0, fmt.Errorf("malformed idempotency value %q", value)
	}
	return false, orderID, nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, orderID int) error {
	return s.Client.Set(ctx, key, strconv.Itoa(orderID), s.TTL).Err()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}

var (
	_ service.SessionStore     = (*RedisSessionStore)(nil)
	_ service.IdempotencyStore = (*RedisIdempotencyStore)(nil)
)
