package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samujjwal/rental-sub006/data/metrics"
)

// RedisStore implements Store on Redis strings with EXPIRE.
type RedisStore struct {
	rc        *redis.Client
	collector metrics.Collector
}

// NewRedisStore creates a new RedisStore
func NewRedisStore(rc *redis.Client, collector metrics.Collector) *RedisStore {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &RedisStore{rc: rc, collector: collector}
}

// Get retrieves a value, treating redis.Nil as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.rc == nil {
		err := errors.New("redis client is nil, cannot get cache")
		s.collector.RedisCommand("get", err)
		return nil, false, err
	}

	val, err := s.rc.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.collector.RedisCommand("get", nil)
		return nil, false, nil
	}
	s.collector.RedisCommand("get", err)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache: %w", err)
	}
	return val, true, nil
}

// Set stores value under key for ttl.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.rc == nil {
		err := errors.New("redis client is nil, cannot set cache")
		s.collector.RedisCommand("set", err)
		return err
	}

	err := s.rc.Set(ctx, key, value, ttl).Err()
	s.collector.RedisCommand("set", err)
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s.rc == nil {
		return errors.New("redis client is nil, cannot delete cache")
	}
	err := s.rc.Del(ctx, key).Err()
	s.collector.RedisCommand("del", err)
	if err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
