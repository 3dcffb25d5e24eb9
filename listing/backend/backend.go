// Package backend executes searches against either the document index or the
// relational store behind one capability.
package backend

import (
	"context"

	"github.com/samujjwal/rental-sub006/listing/similarity"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// Kinds of backend.
const (
	KindIndex      = "index"
	KindRelational = "relational"
)

// Response is the primary result of a search. AggregationErr is set when
// the facets could not be computed; the hits remain valid.
type Response struct {
	Hits           []structs.Hit
	Total          int64
	Aggregations   *structs.AggregationBundle
	AggregationErr error
}

// SearchBackend is the capability the search facade depends on.
type SearchBackend interface {
	Kind() string
	Search(ctx context.Context, q *structs.SearchQuery) (*Response, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
	SuggestListings(ctx context.Context, text string, limit int) ([]structs.ListingSuggestion, error)
	SuggestCategories(ctx context.Context, text string, limit int) ([]structs.CategorySuggestion, error)
	SuggestLocations(ctx context.Context, text string, limit int) ([]structs.LocationSuggestion, error)
	// Similar returns a NotFound error when the reference does not exist.
	Similar(ctx context.Context, id string, limit int) ([]structs.Hit, error)
	Health(ctx context.Context) error
}

// Options shared by both backends.
type Options struct {
	// CandidateBatch is the page size used when scanning candidates for
	// in-process ranking, geo filtering and similarity scoring.
	CandidateBatch    int
	HistogramInterval float64
	Similarity        similarity.Options
}

func (o Options) candidateBatch() int {
	if o.CandidateBatch <= 0 {
		return 1000
	}
	return o.CandidateBatch
}
