package aggregation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/data/repository/repotest"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eligible(ls []*structs.Listing) []*structs.Listing {
	var out []*structs.Listing
	for _, l := range ls {
		if l.Eligible() {
			out = append(out, l)
		}
	}
	return out
}

func TestFromRepositoryMatchesFromListings(t *testing.T) {
	corpus := repotest.Corpus()
	repo := repotest.New(t, corpus...)

	fromRepo, err := FromRepository(context.Background(), repo, repository.Filter{EligibleOnly: true})
	require.NoError(t, err)

	inMemory := FromListings(eligible(corpus), 0)
	assert.Equal(t, inMemory.Categories, fromRepo.Categories)
	assert.Equal(t, inMemory.Cities, fromRepo.Cities)
	assert.Equal(t, inMemory.Conditions, fromRepo.Conditions)
	assert.Equal(t, inMemory.Price.Min, fromRepo.Price.Min)
	assert.Equal(t, inMemory.Price.Max, fromRepo.Price.Max)
	assert.InDelta(t, inMemory.Price.Avg, fromRepo.Price.Avg, 1e-9)
}

func TestCategoryCountsSumToTotal(t *testing.T) {
	corpus := repotest.Corpus()
	repo := repotest.New(t, corpus...)
	f := repository.Filter{EligibleOnly: true, PriceMax: func() *float64 { v := 100.0; return &v }()}

	bundle, err := FromRepository(context.Background(), repo, f)
	require.NoError(t, err)
	total, err := repo.Count(context.Background(), f)
	require.NoError(t, err)

	var sum int64
	for _, b := range bundle.Categories {
		sum += b.Count
	}
	assert.Equal(t, total, sum)
	assert.Equal(t, total, bundle.Price.Count)
}

type failingStore struct{ failOn repository.GroupField }

func (s failingStore) GroupBy(_ context.Context, field repository.GroupField, _ repository.Filter, _ int) ([]structs.Bucket, error) {
	if field == s.failOn {
		return nil, errors.New("boom")
	}
	return []structs.Bucket{}, nil
}

func (failingStore) Aggregate(context.Context, repository.Filter) (structs.PriceStats, error) {
	return structs.PriceStats{}, nil
}

func TestFromRepositoryError(t *testing.T) {
	_, err := FromRepository(context.Background(), failingStore{failOn: repository.GroupByCity}, repository.Filter{})
	assert.ErrorContains(t, err, "city buckets")
}

func TestFromListings(t *testing.T) {
	cond := "good"
	empty := ""
	ls := []*structs.Listing{
		{Category: structs.Category{ID: "b", Name: "B"}, City: "Zurich", BasePrice: 120, Condition: &cond},
		{Category: structs.Category{ID: "a", Name: "A"}, City: "Austin", BasePrice: 10, Condition: &empty},
		{Category: structs.Category{ID: "b", Name: "B"}, City: "Austin", BasePrice: 49},
	}
	got := FromListings(ls, 50)

	assert.Equal(t, []structs.Bucket{{Key: "a", Label: "A", Count: 1}, {Key: "b", Label: "B", Count: 2}}, got.Categories)
	assert.Equal(t, []structs.Bucket{{Key: "Austin", Count: 2}, {Key: "Zurich", Count: 1}}, got.Cities)
	assert.Equal(t, []structs.Bucket{{Key: "good", Count: 1}}, got.Conditions)
	assert.Equal(t, structs.PriceStats{Min: 10, Max: 120, Avg: 179.0 / 3, Count: 3}, got.Price)
	assert.Equal(t, []structs.HistogramBucket{{Key: 0, Count: 2}, {Key: 100, Count: 1}}, got.PriceHistogram)
}

func TestFromListingsCapsCities(t *testing.T) {
	var ls []*structs.Listing
	for i := 0; i < 25; i++ {
		ls = append(ls, &structs.Listing{City: fmt.Sprintf("city-%02d", i)})
	}
	got := FromListings(ls, 0)
	require.Len(t, got.Cities, 20)
	assert.Equal(t, "city-00", got.Cities[0].Key)
	assert.Equal(t, "city-19", got.Cities[19].Key)
	assert.Nil(t, got.PriceHistogram)
}

func TestFromListingsEmpty(t *testing.T) {
	assert.Equal(t, Empty(), FromListings(nil, 50))
}

func TestFromIndex(t *testing.T) {
	raw := `{
		"categories": {"buckets": [
			{"key": "vehicles", "doc_count": 4, "name": {"buckets": [{"key": "Vehicles", "doc_count": 4}]}},
			{"key": "cameras", "doc_count": 1, "name": {"buckets": [{"key": "Cameras", "doc_count": 1}]}}
		]},
		"cities": {"buckets": [{"key": "Boston", "doc_count": 1}]},
		"conditions": {"buckets": []},
		"price_stats": {"count": 5, "min": 30, "max": 250, "avg": 114, "sum": 570},
		"price_histogram": {"buckets": [{"key": 0.0, "doc_count": 1}, {"key": 50.0, "doc_count": 2}]}
	}`
	var aggs map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &aggs))

	got, err := FromIndex(aggs)
	require.NoError(t, err)
	assert.Equal(t, []structs.Bucket{{Key: "cameras", Label: "Cameras", Count: 1}, {Key: "vehicles", Label: "Vehicles", Count: 4}}, got.Categories)
	assert.Equal(t, []structs.Bucket{{Key: "Boston", Count: 1}}, got.Cities)
	assert.Empty(t, got.Conditions)
	assert.Equal(t, structs.PriceStats{Min: 30, Max: 250, Avg: 114, Count: 5}, got.Price)
	assert.Equal(t, []structs.HistogramBucket{{Key: 0, Count: 1}, {Key: 50, Count: 2}}, got.PriceHistogram)
}

func TestFromIndexEmptyStats(t *testing.T) {
	aggs := map[string]json.RawMessage{"price_stats": json.RawMessage(`{"count":0,"min":null,"max":null,"avg":null}`)}
	got, err := FromIndex(aggs)
	require.NoError(t, err)
	assert.Equal(t, structs.PriceStats{}, got.Price)

	_, err = FromIndex(map[string]json.RawMessage{"cities": json.RawMessage(`[`)})
	assert.Error(t, err)
}

func TestTopCategories(t *testing.T) {
	raw := json.RawMessage(`{"buckets":[
		{"key":"tools","doc_count":1,"hit":{"hits":{"hits":[{"_source":{"category":{"id":"tools","name":"Tools","slug":"tools"}}}]}}},
		{"key":"vehicles","doc_count":3,"hit":{"hits":{"hits":[{"_source":{"category":{"id":"vehicles","name":"Vehicles","slug":"vehicles"}}}]}}}
	]}`)
	got, err := TopCategories(raw)
	require.NoError(t, err)
	assert.Equal(t, []structs.CategorySuggestion{
		{ID: "vehicles", Name: "Vehicles", Slug: "vehicles", Count: 3},
		{ID: "tools", Name: "Tools", Slug: "tools", Count: 1},
	}, got)
}
