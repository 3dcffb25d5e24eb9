package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a typed view over a Store for one operation.
type Cache[T any] struct {
	store     Store
	prefix    string
	operation string
	ttl       time.Duration
}

// NewCache creates a new Cache instance
func NewCache[T any](store Store, prefix, operation string, ttl time.Duration) *Cache[T] {
	return &Cache[T]{store: store, prefix: prefix, operation: operation, ttl: ttl}
}

// Operation returns the operation name the cache is keyed by.
func (c *Cache[T]) Operation() string { return c.operation }

// Key returns the cache key for params.
func (c *Cache[T]) Key(params any) (string, error) {
	return Key(c.prefix, c.operation, params)
}

// Get retrieves the value cached for params. A miss returns nil, nil.
func (c *Cache[T]) Get(ctx context.Context, params any) (*T, error) {
	key, err := c.Key(params)
	if err != nil {
		return nil, err
	}
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var row T
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &row, nil
}

// Set saves value for params with the cache TTL.
func (c *Cache[T]) Set(ctx context.Context, params any, value *T) error {
	key, err := c.Key(params)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return c.store.Set(ctx, key, raw, c.ttl)
}
