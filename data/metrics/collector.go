package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector interface for data layer metrics
type Collector interface {
	DBQuery(duration time.Duration, err error)
	RedisCommand(command string, err error)
	CacheLookup(operation string, hit bool)
	SearchQuery(engine string, err error)
	SearchIndex(engine, operation string)
	MQConsume(system string, err error)
	HealthCheck(component string, healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) DBQuery(time.Duration, error) {}
func (NoOpCollector) RedisCommand(string, error)   {}
func (NoOpCollector) CacheLookup(string, bool)     {}
func (NoOpCollector) SearchQuery(string, error)    {}
func (NoOpCollector) SearchIndex(string, string)   {}
func (NoOpCollector) MQConsume(string, error)      {}
func (NoOpCollector) HealthCheck(string, bool)     {}

// slowQuery is the threshold above which a query is counted as slow.
const slowQuery = time.Second

// DataCollector collects data layer metrics in process.
type DataCollector struct {
	dbQueries     atomic.Int64
	dbQueryErrors atomic.Int64
	dbSlowQueries atomic.Int64

	redisCommands atomic.Int64
	redisErrors   atomic.Int64

	searchQueries  atomic.Int64
	searchErrors   atomic.Int64
	searchIndexOps atomic.Int64

	mqConsumed      atomic.Int64
	mqConsumeErrors atomic.Int64

	mu           sync.RWMutex
	cacheHits    map[string]int64
	cacheMisses  map[string]int64
	healthChecks map[string]bool

	lastSearchQuery atomic.Value // time.Time
}

// NewDataCollector creates a new collector.
func NewDataCollector() *DataCollector {
	return &DataCollector{
		cacheHits:    make(map[string]int64),
		cacheMisses:  make(map[string]int64),
		healthChecks: make(map[string]bool),
	}
}

func (c *DataCollector) DBQuery(duration time.Duration, err error) {
	c.dbQueries.Add(1)
	if err != nil {
		c.dbQueryErrors.Add(1)
	}
	if duration > slowQuery {
		c.dbSlowQueries.Add(1)
	}
}

func (c *DataCollector) RedisCommand(_ string, err error) {
	c.redisCommands.Add(1)
	if err != nil {
		c.redisErrors.Add(1)
	}
}

func (c *DataCollector) CacheLookup(operation string, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.cacheHits[operation]++
	} else {
		c.cacheMisses[operation]++
	}
}

func (c *DataCollector) SearchQuery(_ string, err error) {
	c.searchQueries.Add(1)
	if err != nil {
		c.searchErrors.Add(1)
	}
	c.lastSearchQuery.Store(time.Now())
}

func (c *DataCollector) SearchIndex(_, _ string) {
	c.searchIndexOps.Add(1)
}

func (c *DataCollector) MQConsume(_ string, err error) {
	c.mqConsumed.Add(1)
	if err != nil {
		c.mqConsumeErrors.Add(1)
	}
}

func (c *DataCollector) HealthCheck(component string, healthy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthChecks[component] = healthy
}

// GetStats returns a snapshot of all counters.
func (c *DataCollector) GetStats() map[string]any {
	c.mu.RLock()
	hits := copyCounts(c.cacheHits)
	misses := copyCounts(c.cacheMisses)
	health := make(map[string]bool, len(c.healthChecks))
	for k, v := range c.healthChecks {
		health[k] = v
	}
	c.mu.RUnlock()

	stats := map[string]any{
		"database": map[string]int64{
			"queries":      c.dbQueries.Load(),
			"errors":       c.dbQueryErrors.Load(),
			"slow_queries": c.dbSlowQueries.Load(),
		},
		"redis": map[string]int64{
			"commands": c.redisCommands.Load(),
			"errors":   c.redisErrors.Load(),
		},
		"search": map[string]int64{
			"queries":   c.searchQueries.Load(),
			"errors":    c.searchErrors.Load(),
			"index_ops": c.searchIndexOps.Load(),
		},
		"messaging": map[string]int64{
			"consumed": c.mqConsumed.Load(),
			"errors":   c.mqConsumeErrors.Load(),
		},
		"cache": map[string]any{
			"hits":   hits,
			"misses": misses,
		},
		"health": health,
	}
	if t, ok := c.lastSearchQuery.Load().(time.Time); ok {
		stats["last_search_query"] = t
	}
	return stats
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
