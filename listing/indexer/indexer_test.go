package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/samujjwal/rental-sub006/data/repository/repotest"
	"github.com/samujjwal/rental-sub006/data/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSearcher keeps documents in a map.
type memSearcher struct {
	mu        sync.Mutex
	docs      map[string]any
	mapping   string
	bulkCalls int
	bulkErr   error
}

func newMemSearcher() *memSearcher {
	return &memSearcher{docs: map[string]any{}}
}

func (m *memSearcher) Search(context.Context, string, []byte) (*search.Response, error) {
	return &search.Response{}, nil
}

func (m *memSearcher) Get(_ context.Context, _, id string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, search.ErrNotFound
	}
	return json.Marshal(d)
}

func (m *memSearcher) Index(_ context.Context, _, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = doc
	return nil
}

func (m *memSearcher) Delete(_ context.Context, _, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *memSearcher) BulkIndex(_ context.Context, _ string, docs []search.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bulkCalls++
	if m.bulkErr != nil {
		return m.bulkErr
	}
	for _, d := range docs {
		m.docs[d.ID] = d.Body
	}
	return nil
}

func (m *memSearcher) EnsureIndex(_ context.Context, _ string, body []byte) error {
	m.mapping = string(body)
	return nil
}

func (m *memSearcher) Health(context.Context) error { return nil }

func (m *memSearcher) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.docs))
	for id := range m.docs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func newIndexer(t *testing.T, ms *memSearcher, batch int) *Indexer {
	t.Helper()
	repo := repotest.New(t, repotest.Corpus()...)
	ix, err := New(repo, ms, "listings", nil, Options{BatchSize: batch, Workers: 2})
	require.NoError(t, err)
	t.Cleanup(ix.Close)
	return ix
}

func TestMappingIsValidJSON(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(Mapping), &m))

	props := m["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, "geo_point", props["location"].(map[string]any)["type"])
	assert.Equal(t, "keyword", props["features"].(map[string]any)["type"])
}

func TestEnsureIndex(t *testing.T) {
	ms := newMemSearcher()
	ix := newIndexer(t, ms, 10)

	require.NoError(t, ix.EnsureIndex(context.Background()))
	assert.Equal(t, Mapping, ms.mapping)
}

func TestIndexListing(t *testing.T) {
	ctx := context.Background()
	ms := newMemSearcher()
	ix := newIndexer(t, ms, 10)

	require.NoError(t, ix.IndexListing(ctx, "listing-1"))
	assert.Equal(t, []string{"listing-1"}, ms.ids())

	// rented listings are removed rather than indexed
	ms.docs["listing-9"] = "stale"
	require.NoError(t, ix.IndexListing(ctx, "listing-9"))
	assert.Equal(t, []string{"listing-1"}, ms.ids())

	ms.docs["gone"] = "stale"
	require.NoError(t, ix.IndexListing(ctx, "gone"))
	assert.Equal(t, []string{"listing-1"}, ms.ids())

	require.NoError(t, ix.RemoveListing(ctx, "listing-1"))
	assert.Empty(t, ms.ids())
}

func TestBulkIndexListings(t *testing.T) {
	ctx := context.Background()
	ms := newMemSearcher()
	ms.docs["listing-10"] = "stale"
	ix := newIndexer(t, ms, 3)

	report, err := ix.BulkIndexListings(ctx, []string{
		"listing-1", "listing-2", "listing-3", "listing-9", "listing-10", "missing",
	})
	require.NoError(t, err)

	assert.Equal(t, Report{Indexed: 3, Removed: 3}, report)
	assert.Equal(t, []string{"listing-1", "listing-2", "listing-3"}, ms.ids())
	assert.Equal(t, 1, ms.bulkCalls)
}

func TestBulkIndexFailure(t *testing.T) {
	ms := newMemSearcher()
	ms.bulkErr = errors.New("cluster unavailable")
	ix := newIndexer(t, ms, 10)

	report, err := ix.BulkIndexListings(context.Background(), []string{"listing-1", "listing-2"})
	require.Error(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.Empty(t, ms.ids())
}

func TestReindexAll(t *testing.T) {
	ms := newMemSearcher()
	ix := newIndexer(t, ms, 2)

	report, err := ix.ReindexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, report.Indexed)
	assert.Equal(t, 2, report.Removed)
	assert.Len(t, ms.ids(), 8)
	assert.NotContains(t, ms.ids(), "listing-9")
	assert.NotContains(t, ms.ids(), "listing-10")
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	ix := newIndexer(t, newMemSearcher(), 10)
	s := NewScheduler(ix, "not a cron spec")

	require.Error(t, s.Start(context.Background()))
}

func TestSchedulerStartStop(t *testing.T) {
	ix := newIndexer(t, newMemSearcher(), 10)
	s := NewScheduler(ix, "@every 1h")

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
