package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samujjwal/rental-sub006/data/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

func TestKeyIsStable(t *testing.T) {
	a, err := Key("discovery", "search", params{Text: "car", Tags: []string{"x"}})
	require.NoError(t, err)
	b, err := Key("discovery", "search", params{Text: "car", Tags: []string{"x"}})
	require.NoError(t, err)
	c, err := Key("discovery", "search", params{Text: "cars", Tags: []string{"x"}})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "discovery:search:"))
	assert.Len(t, strings.TrimPrefix(a, "discovery:search:"), 64)

	m1, _ := Key("p", "op", map[string]any{"b": 1, "a": 2})
	m2, _ := Key("p", "op", map[string]any{"a": 2, "b": 1})
	assert.Equal(t, m1, m2)
}

func TestMemoryStoreTTL(t *testing.T) {
	s, err := NewMemoryStore(8)
	require.NoError(t, err)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(time.Minute)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreEviction(t *testing.T) {
	s, err := NewMemoryStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(ctx, k, []byte(k), 0))
	}
	_, ok, _ := s.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "c")
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "c"))
	_, ok, _ = s.Get(ctx, "c")
	assert.False(t, ok)
}

func TestTypedCache(t *testing.T) {
	s, err := NewMemoryStore(8)
	require.NoError(t, err)
	c := NewCache[[]string](s, "discovery", "autocomplete", time.Minute)
	ctx := context.Background()

	got, err := c.Get(ctx, params{Text: "ca"})
	require.NoError(t, err)
	assert.Nil(t, got)

	want := []string{"camera", "camping tent"}
	require.NoError(t, c.Set(ctx, params{Text: "ca"}, &want))

	got, err = c.Get(ctx, params{Text: "ca"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
	assert.Equal(t, "autocomplete", c.Operation())
}

func TestRedisStoreUnavailable(t *testing.T) {
	rc := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rc.Close()

	collector := metrics.NewDataCollector()
	s := NewRedisStore(rc, collector)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, s.Set(ctx, "k", []byte("v"), time.Second))

	redisStats := collector.GetStats()["redis"].(map[string]int64)
	assert.Equal(t, int64(2), redisStats["errors"])
}

func TestRedisStoreNilClient(t *testing.T) {
	s := NewRedisStore(nil, nil)
	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
}
