package backend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/samujjwal/rental-sub006/data/repository/repotest"
	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/similarity"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func hitIDs(hits []structs.Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ID
	}
	return out
}

func newRelational(t *testing.T) *RelationalBackend {
	t.Helper()
	return NewRelational(repotest.New(t, repotest.Corpus()...), Options{
		CandidateBatch:    100,
		HistogramInterval: 50,
		Similarity:        similarity.DefaultOptions(),
	})
}

func TestRelationalCarRentalScenario(t *testing.T) {
	b := newRelational(t)
	q := &structs.SearchQuery{Text: "car rental", CategoryID: "vehicles", PriceMin: fp(50), PriceMax: fp(200), Page: 1, Size: 10}

	resp, err := b.Search(context.Background(), q)
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "vehicles", resp.Hits[0].Category.ID)
	assert.InDelta(t, 17.4, resp.Hits[0].Score, 1e-9)
	require.NoError(t, resp.AggregationErr)
	assert.Equal(t, []structs.Bucket{{Key: "vehicles", Label: "Vehicles", Count: 1}}, resp.Aggregations.Categories)
}

func TestRelationalPriceBoundsAndCategory(t *testing.T) {
	b := newRelational(t)
	q := &structs.SearchQuery{PriceMin: fp(20), PriceMax: fp(60), Sort: structs.SortPriceAsc, Page: 1, Size: 10}

	resp, err := b.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-4", "listing-7", "listing-8", "listing-6"}, hitIDs(resp.Hits))
	for _, h := range resp.Hits {
		assert.GreaterOrEqual(t, h.BasePrice, 20.0)
		assert.LessOrEqual(t, h.BasePrice, 60.0)
	}

	q = &structs.SearchQuery{CategoryID: "tools", Page: 1, Size: 10}
	resp, err = b.Search(context.Background(), q)
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Total)
	for _, h := range resp.Hits {
		assert.Equal(t, "tools", h.Category.ID)
		assert.Zero(t, h.Score)
	}
	// Relevance without text is newest first.
	assert.Equal(t, []string{"listing-8", "listing-5", "listing-4"}, hitIDs(resp.Hits))
}

func TestRelationalGeoRadius(t *testing.T) {
	b := newRelational(t)
	q := &structs.SearchQuery{
		Location: &structs.LocationFilter{Lat: fp(40.7128), Lon: fp(-74.006), RadiusKm: fp(10)},
		Page:     1,
		Size:     10,
	}

	resp, err := b.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-1", "listing-4", "listing-2"}, hitIDs(resp.Hits))
	assert.EqualValues(t, 3, resp.Total)

	prev := -1.0
	for _, h := range resp.Hits {
		require.NotNil(t, h.Distance)
		assert.LessOrEqual(t, *h.Distance, 10.0)
		assert.GreaterOrEqual(t, *h.Distance, prev)
		prev = *h.Distance
	}

	assert.Equal(t, []structs.Bucket{
		{Key: "tools", Label: "Tools", Count: 1},
		{Key: "vehicles", Label: "Vehicles", Count: 2},
	}, resp.Aggregations.Categories)
	assert.NotEmpty(t, resp.Aggregations.PriceHistogram)
}

func TestRelationalRankedPaging(t *testing.T) {
	b := newRelational(t)
	q := &structs.SearchQuery{Text: "car", Page: 2, Size: 2}

	resp, err := b.Search(context.Background(), q)
	require.NoError(t, err)
	assert.EqualValues(t, 4, resp.Total)
	assert.Equal(t, []string{"listing-2", "listing-4"}, hitIDs(resp.Hits))

	q.Page = 3
	resp, err = b.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, resp.Hits)
	assert.EqualValues(t, 4, resp.Total)
}

func TestRelationalAggregationTotals(t *testing.T) {
	b := newRelational(t)
	resp, err := b.Search(context.Background(), &structs.SearchQuery{Page: 1, Size: 1})
	require.NoError(t, err)

	var sum int64
	for _, c := range resp.Aggregations.Categories {
		sum += c.Count
	}
	assert.Equal(t, resp.Total, sum)
	assert.EqualValues(t, 8, sum)
}

func TestRelationalSuggestions(t *testing.T) {
	b := newRelational(t)
	ctx := context.Background()

	titles, err := b.Autocomplete(ctx, "ca", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Car Rental Sedan", "Camera Kit"}, titles)

	listings, err := b.SuggestListings(ctx, "drill", 5)
	require.NoError(t, err)
	assert.Equal(t, []structs.ListingSuggestion{{ID: "listing-4", Title: "Power Drill", City: "New York", Category: "Tools"}}, listings)

	cats, err := b.SuggestCategories(ctx, "veh", 5)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.EqualValues(t, 4, cats[0].Count)

	locs, err := b.SuggestLocations(ctx, "chic", 5)
	require.NoError(t, err)
	assert.Equal(t, []structs.LocationSuggestion{{City: "Chicago", State: "IL", Country: "US"}}, locs)

	assert.NoError(t, b.Health(ctx))
}

func TestRelationalSimilar(t *testing.T) {
	b := newRelational(t)
	ctx := context.Background()

	hits, err := b.Similar(ctx, "listing-1", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-7", "listing-2", "listing-3"}, hitIDs(hits))

	_, err = b.Similar(ctx, "missing", 5)
	assert.True(t, ecode.IsNotFound(err))
}

func TestRelationalScansEveryCandidate(t *testing.T) {
	bikes := structs.Category{ID: "bikes", Name: "Bikes", Slug: "bikes"}
	listings := make([]*structs.Listing, 5)
	for i := range listings {
		l := repotest.Listing(fmt.Sprintf("bike-%d", i), fmt.Sprintf("Road bike %d", i), bikes, 40)
		l.CreatedAt = l.CreatedAt.Add(time.Duration(i) * time.Hour)
		listings[i] = l
	}
	listings[0].Title, listings[0].Description = "Bike pro", "Bike pro"
	listings[4].AverageRating = fp(5)

	b := NewRelational(repotest.New(t, listings...), Options{
		CandidateBatch:    2,
		HistogramInterval: 50,
		Similarity:        similarity.DefaultOptions(),
	})
	ctx := context.Background()

	resp, err := b.Search(ctx, &structs.SearchQuery{Text: "bike", Page: 1, Size: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 5, resp.Total)
	require.Len(t, resp.Hits, 3)
	// The oldest listing scores highest and must survive the batched scan.
	assert.Equal(t, []string{"bike-0", "bike-4"}, hitIDs(resp.Hits)[:2])
	require.NoError(t, resp.AggregationErr)
	var sum int64
	for _, bucket := range resp.Aggregations.Categories {
		sum += bucket.Count
	}
	assert.Equal(t, resp.Total, sum)

	similar, err := b.Similar(ctx, "bike-0", 10)
	require.NoError(t, err)
	require.Len(t, similar, 4)
	assert.Equal(t, "bike-4", similar[0].ID)
}
