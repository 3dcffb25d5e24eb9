package service

import (
	"context"

	"github.com/samujjwal/rental-sub006/data/cache"
)

// lookup returns the cached value for params. Cache failures are logged and
// reported as a miss.
func lookup[T any](ctx context.Context, s *Service, c *cache.Cache[T], params any) (*T, bool) {
	if c == nil {
		return nil, false
	}
	v, err := c.Get(ctx, params)
	if err != nil {
		s.logger.Warn(ctx, "cache lookup failed", "operation", c.Operation(), "error", err)
		s.collector.CacheLookup(c.Operation(), false)
		return nil, false
	}
	s.collector.CacheLookup(c.Operation(), v != nil)
	return v, v != nil
}

// populate stores value for params. Failures are logged and ignored.
func populate[T any](ctx context.Context, s *Service, c *cache.Cache[T], params any, value *T) {
	if c == nil {
		return
	}
	if err := c.Set(ctx, params, value); err != nil {
		s.logger.Warn(ctx, "cache populate failed", "operation", c.Operation(), "error", err)
	}
}
