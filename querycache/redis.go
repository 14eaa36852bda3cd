package querycache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a redis-backed store implementation, for sharing cached
// values across processes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store connected to the given redis server.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

// NewRedisStoreFromClient wraps an existing redis client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves a value. Returns (nil, false) on miss or connection error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value with the given TTL. TTL<=0 means no caching.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("querycache: redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes a value. Idempotent - no error on miss.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("querycache: redis del %q: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every value whose key falls under the prefix.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	if err := s.Delete(ctx, prefix); err != nil {
		return err
	}

	iter := s.client.Scan(ctx, 0, prefix+Separator+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("querycache: redis scan %q: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("querycache: redis del prefix %q: %w", prefix, err)
	}
	return nil
}

// Close releases the underlying redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
