package repository_test

import (
	"context"
	"testing"

	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/data/repository/repotest"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ls []*structs.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func fp(v float64) *float64 { return &v }

func TestFindManyFilters(t *testing.T) {
	repo := repotest.New(t, repotest.Corpus()...)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter repository.Filter
		want   []string
	}{
		{"eligible only", repository.Filter{EligibleOnly: true}, []string{"listing-1", "listing-2", "listing-3", "listing-4", "listing-5", "listing-6", "listing-7", "listing-8"}},
		{"category", repository.Filter{EligibleOnly: true, CategoryID: "tools"}, []string{"listing-4", "listing-5", "listing-8"}},
		{"text over title description city", repository.Filter{EligibleOnly: true, Text: "car"}, []string{"listing-1", "listing-2", "listing-4", "listing-7"}},
		{"text is case insensitive", repository.Filter{EligibleOnly: true, Text: "NEW YORK"}, []string{"listing-1", "listing-2", "listing-4", "listing-7"}},
		{"price bounds inclusive", repository.Filter{EligibleOnly: true, PriceMin: fp(30), PriceMax: fp(90)}, []string{"listing-3", "listing-6", "listing-7", "listing-8"}},
		{"city and state AND combined", repository.Filter{EligibleOnly: true, City: "new", State: "NJ"}, []string{"listing-8"}},
		{"condition", repository.Filter{EligibleOnly: true, Condition: "good"}, []string{"listing-2", "listing-4"}},
		{"features any", repository.Filter{EligibleOnly: true, FeaturesAny: []string{"tripod", "roof rack"}}, []string{"listing-2", "listing-6"}},
		{"exclude", repository.Filter{EligibleOnly: true, CategoryID: "tools", ExcludeID: "listing-4"}, []string{"listing-5", "listing-8"}},
		{"bounding box", repository.Filter{EligibleOnly: true, Bounds: &repository.BoundingBox{MinLat: 40.6, MaxLat: 40.8, MinLon: -74.1, MaxLon: -73.9}}, []string{"listing-1", "listing-2", "listing-4"}},
		{"neighbourhood", repository.Filter{EligibleOnly: true, CategoryID: "vehicles", Near: &repository.Neighbourhood{City: "Boston", State: "MA", PriceLow: 80, PriceHigh: 120}}, []string{"listing-1", "listing-3"}},
		{"like wildcards are literal", repository.Filter{EligibleOnly: true, Text: "%"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindMany(ctx, tt.filter, []repository.Sort{{Field: repository.SortByID}}, 0, 0)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(got))

			n, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), n)
		})
	}
}

func TestFindManySortAndPaging(t *testing.T) {
	repo := repotest.New(t, repotest.Corpus()...)
	ctx := context.Background()
	f := repository.Filter{EligibleOnly: true, CategoryID: "vehicles"}

	got, err := repo.FindMany(ctx, f, []repository.Sort{{Field: repository.SortByPrice}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-7", "listing-3", "listing-1", "listing-2"}, ids(got))

	got, err = repo.FindMany(ctx, f, []repository.Sort{{Field: repository.SortByRating, Desc: true}}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-7", "listing-2"}, ids(got))

	got, err = repo.FindMany(ctx, f, []repository.Sort{{Field: repository.SortByCreated, Desc: true}}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-7"}, ids(got))
}

func TestFindByID(t *testing.T) {
	repo := repotest.New(t, repotest.Corpus()...)
	ctx := context.Background()

	l, err := repo.FindByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Equal(t, "Car Rental Sedan", l.Title)
	assert.Equal(t, "Vehicles", l.Category.Name)
	assert.Equal(t, "Owner One", l.Owner.DisplayName)
	require.NotNil(t, l.Location)
	assert.InDelta(t, 40.7128, l.Location.Lat, 1e-9)
	assert.ElementsMatch(t, []string{"gps", "bluetooth", "air conditioning"}, l.Features)
	require.NotNil(t, l.Condition)
	assert.Equal(t, "excellent", *l.Condition)
	assert.Equal(t, 2024, l.CreatedAt.Year())

	l, err = repo.FindByID(ctx, "listing-3")
	require.NoError(t, err)
	assert.Nil(t, l.Location)
	assert.Nil(t, l.AverageRating)
	assert.Nil(t, l.Condition)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	ls, err := repo.FindByIDs(ctx, []string{"listing-9", "missing", "listing-2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"listing-9", "listing-2"}, ids(ls))
}

func TestListIDs(t *testing.T) {
	repo := repotest.New(t, repotest.Corpus()...)
	ctx := context.Background()

	page, err := repo.ListIDs(ctx, repository.Filter{EligibleOnly: true}, "", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-1", "listing-2", "listing-3"}, page)

	page, err = repo.ListIDs(ctx, repository.Filter{EligibleOnly: true}, "listing-7", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"listing-8"}, page)
}

func TestGroupByAndAggregate(t *testing.T) {
	repo := repotest.New(t, repotest.Corpus()...)
	ctx := context.Background()
	f := repository.Filter{EligibleOnly: true}

	cats, err := repo.GroupBy(ctx, repository.GroupByCategory, f, 0)
	require.NoError(t, err)
	assert.Equal(t, []structs.Bucket{
		{Key: "cameras", Label: "Cameras", Count: 1},
		{Key: "tools", Label: "Tools", Count: 3},
		{Key: "vehicles", Label: "Vehicles", Count: 4},
	}, cats)

	cities, err := repo.GroupBy(ctx, repository.GroupByCity, f, 2)
	require.NoError(t, err)
	assert.Equal(t, []structs.Bucket{{Key: "Boston", Count: 1}, {Key: "Chicago", Count: 1}}, cities)

	conds, err := repo.GroupBy(ctx, repository.GroupByCondition, f, 0)
	require.NoError(t, err)
	assert.Equal(t, []structs.Bucket{
		{Key: "excellent", Count: 2},
		{Key: "fair", Count: 1},
		{Key: "good", Count: 2},
	}, conds)

	stats, err := repo.Aggregate(ctx, repository.Filter{EligibleOnly: true, CategoryID: "tools"})
	require.NoError(t, err)
	assert.Equal(t, 15.0, stats.Min)
	assert.Equal(t, 35.0, stats.Max)
	assert.InDelta(t, 70.0/3, stats.Avg, 1e-9)
	assert.EqualValues(t, 3, stats.Count)

	empty, err := repo.Aggregate(ctx, repository.Filter{EligibleOnly: true, CategoryID: "none"})
	require.NoError(t, err)
	assert.Equal(t, structs.PriceStats{}, empty)

	_, err = repo.GroupBy(ctx, "owner", f, 0)
	assert.Error(t, err)
}

func TestSuggestionQueries(t *testing.T) {
	repo := repotest.New(t, repotest.Corpus()...)
	ctx := context.Background()

	titles, err := repo.FindTitles(ctx, "ca", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Car Rental Sedan", "Camera Kit", "Cargo Van", "Car Seat", "Camper Trailer"}, titles)

	cats, err := repo.SearchCategories(ctx, "ool", 5)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, structs.CategorySuggestion{ID: "tools", Name: "Tools", Slug: "tools", Count: 3}, cats[0])

	locs, err := repo.SearchLocations(ctx, "new", 5)
	require.NoError(t, err)
	assert.Equal(t, []structs.LocationSuggestion{
		{City: "New York", State: "NY", Country: "US"},
		{City: "Newark", State: "NJ", Country: "US"},
	}, locs)
}

func TestSaveReplacesFeatures(t *testing.T) {
	l := repotest.Listing("x", "Tent", structs.Category{ID: "camping", Name: "Camping", Slug: "camping"}, 10)
	l.Features = []string{"a", "b", "a"}
	repo := repotest.New(t, l)
	ctx := context.Background()

	l.Features = []string{"c"}
	require.NoError(t, repo.Save(ctx, l))

	got, err := repo.FindByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Features)
}

func TestParseDialect(t *testing.T) {
	assert.Equal(t, repository.Postgres, repository.ParseDialect("pgx"))
	assert.Equal(t, repository.MySQL, repository.ParseDialect("MySQL"))
	assert.Equal(t, repository.SQLite, repository.ParseDialect("sqlite3"))
}
