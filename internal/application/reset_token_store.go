package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps opaque reset tokens mapped to user ids for a bounded TTL.
// Get returns an empty id when the token is unknown or expired.
type TokenStore interface {
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Del(ctx context.Context, token string) error
}

const resetTokenPrefix = "pwd:reset:token:"

// RedisTokenStore is the production TokenStore; expiry is delegated to key
// TTLs.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetTokenPrefix+token, userID, ttl).Err()
}

func (s *RedisTokenStore) Get(ctx context.Context, token string) (string, error) {
	v, err := s.rdb.Get(ctx, resetTokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *RedisTokenStore) Del(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, resetTokenPrefix+token).Err()
}

var _ TokenStore = (*RedisTokenStore)(nil)
