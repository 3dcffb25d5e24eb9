// Package aggregation summarises a filtered listing set into facets and
// price statistics, natively on the index or with grouped queries and in
// memory on the relational store.
package aggregation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/listing/query"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// Store is the grouped query surface of the relational repository.
type Store interface {
	GroupBy(ctx context.Context, field repository.GroupField, f repository.Filter, limit int) ([]structs.Bucket, error)
	Aggregate(ctx context.Context, f repository.Filter) (structs.PriceStats, error)
}

// Empty returns a bundle with no buckets and zero statistics.
func Empty() *structs.AggregationBundle {
	return &structs.AggregationBundle{
		Categories: []structs.Bucket{},
		Cities:     []structs.Bucket{},
		Conditions: []structs.Bucket{},
	}
}

// FromRepository computes the bundle with grouped queries reusing f.
func FromRepository(ctx context.Context, store Store, f repository.Filter) (*structs.AggregationBundle, error) {
	out := Empty()
	var err error

	if out.Categories, err = store.GroupBy(ctx, repository.GroupByCategory, f, 0); err != nil {
		return nil, fmt.Errorf("category buckets: %w", err)
	}
	if out.Cities, err = store.GroupBy(ctx, repository.GroupByCity, f, query.CityBucketLimit); err != nil {
		return nil, fmt.Errorf("city buckets: %w", err)
	}
	if out.Conditions, err = store.GroupBy(ctx, repository.GroupByCondition, f, 0); err != nil {
		return nil, fmt.Errorf("condition buckets: %w", err)
	}
	if out.Price, err = store.Aggregate(ctx, f); err != nil {
		return nil, fmt.Errorf("price stats: %w", err)
	}
	return out, nil
}

// FromListings computes the bundle over an already filtered set.
// interval <= 0 disables the histogram.
func FromListings(listings []*structs.Listing, interval float64) *structs.AggregationBundle {
	out := Empty()
	if len(listings) == 0 {
		return out
	}

	categories := map[string]*structs.Bucket{}
	cities := map[string]int64{}
	conditions := map[string]int64{}
	histogram := map[float64]int64{}

	price := structs.PriceStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64

	for _, l := range listings {
		b, ok := categories[l.Category.ID]
		if !ok {
			b = &structs.Bucket{Key: l.Category.ID, Label: l.Category.Name}
			categories[l.Category.ID] = b
		}
		b.Count++

		cities[l.City]++
		if l.Condition != nil && *l.Condition != "" {
			conditions[*l.Condition]++
		}

		price.Count++
		price.Min = math.Min(price.Min, l.BasePrice)
		price.Max = math.Max(price.Max, l.BasePrice)
		sum += l.BasePrice

		if interval > 0 {
			histogram[math.Floor(l.BasePrice/interval)*interval]++
		}
	}
	price.Avg = sum / float64(price.Count)
	out.Price = price

	for _, b := range categories {
		out.Categories = append(out.Categories, *b)
	}
	sortBuckets(out.Categories)

	out.Cities = buckets(cities)
	if len(out.Cities) > query.CityBucketLimit {
		out.Cities = out.Cities[:query.CityBucketLimit]
	}
	out.Conditions = buckets(conditions)

	if interval > 0 {
		for k, n := range histogram {
			out.PriceHistogram = append(out.PriceHistogram, structs.HistogramBucket{Key: k, Count: n})
		}
		sort.Slice(out.PriceHistogram, func(i, j int) bool { return out.PriceHistogram[i].Key < out.PriceHistogram[j].Key })
	}
	return out
}

func buckets(counts map[string]int64) []structs.Bucket {
	out := make([]structs.Bucket, 0, len(counts))
	for k, n := range counts {
		out = append(out, structs.Bucket{Key: k, Count: n})
	}
	sortBuckets(out)
	return out
}

func sortBuckets(b []structs.Bucket) {
	sort.Slice(b, func(i, j int) bool { return b[i].Key < b[j].Key })
}
