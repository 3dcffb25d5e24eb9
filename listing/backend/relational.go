package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/aggregation"
	"github.com/samujjwal/rental-sub006/listing/query"
	"github.com/samujjwal/rental-sub006/listing/ranking"
	"github.com/samujjwal/rental-sub006/listing/similarity"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// Repository is the relational read surface used by RelationalBackend.
type Repository interface {
	aggregation.Store
	Count(ctx context.Context, f repository.Filter) (int64, error)
	FindMany(ctx context.Context, f repository.Filter, sorts []repository.Sort, limit, offset int) ([]*structs.Listing, error)
	FindByID(ctx context.Context, id string) (*structs.Listing, error)
	FindTitles(ctx context.Context, prefix string, limit int) ([]string, error)
	SearchCategories(ctx context.Context, text string, limit int) ([]structs.CategorySuggestion, error)
	SearchLocations(ctx context.Context, text string, limit int) ([]structs.LocationSuggestion, error)
	Ping(ctx context.Context) error
}

// RelationalBackend searches the relational store and scores in process.
type RelationalBackend struct {
	repo Repository
	opts Options
}

// NewRelational creates a relational backend.
func NewRelational(repo Repository, opts Options) *RelationalBackend {
	return &RelationalBackend{repo: repo, opts: opts}
}

func (b *RelationalBackend) Kind() string { return KindRelational }

// Search runs q. Without free text relevance or a radius the store sorts
// and pages; otherwise every candidate is scanned in batches, post-filtered
// by exact distance, ordered and paged in process.
func (b *RelationalBackend) Search(ctx context.Context, q *structs.SearchQuery) (*Response, error) {
	plan := query.BuildRelational(q)

	if !plan.InMemory() {
		total, err := b.repo.Count(ctx, plan.Filter)
		if err != nil {
			return nil, err
		}
		listings, err := b.repo.FindMany(ctx, plan.Filter, plan.Sorts, q.Size, q.Offset())
		if err != nil {
			return nil, err
		}
		resp := &Response{Hits: ranking.Hits(listings, q.Text), Total: total}
		resp.Aggregations, resp.AggregationErr = aggregation.FromRepository(ctx, b.repo, plan.Filter)
		return resp, nil
	}

	var (
		matched   []*structs.Listing
		distances map[string]float64
	)
	if plan.Geo != nil {
		distances = make(map[string]float64)
	}
	err := b.scan(ctx, plan.Filter, plan.Sorts, func(batch []*structs.Listing) {
		if plan.Geo == nil {
			matched = append(matched, batch...)
			return
		}
		for _, l := range batch {
			d, ok := plan.Geo.Distance(l)
			if !ok || d > plan.Geo.RadiusKm {
				continue
			}
			matched = append(matched, l)
			distances[l.ID] = d
		}
	})
	if err != nil {
		return nil, err
	}

	hits := ranking.Hits(matched, q.Text)
	for i := range hits {
		if d, ok := distances[hits[i].ID]; ok {
			hits[i].Distance = &d
		}
	}
	if q.SortOrDefault() == structs.SortRelevance {
		sortByRelevance(hits, plan.Geo != nil)
	}

	resp := &Response{Hits: page(hits, q.Offset(), q.Size), Total: int64(len(hits))}
	if plan.Geo != nil {
		resp.Aggregations = aggregation.FromListings(matched, b.opts.HistogramInterval)
	} else {
		resp.Aggregations, resp.AggregationErr = aggregation.FromRepository(ctx, b.repo, plan.Filter)
	}
	return resp, nil
}

// scan pages through every row matching f in a stable order, handing each
// batch to visit.
func (b *RelationalBackend) scan(ctx context.Context, f repository.Filter, sorts []repository.Sort, visit func([]*structs.Listing)) error {
	size := b.opts.candidateBatch()
	for offset := 0; ; offset += size {
		batch, err := b.repo.FindMany(ctx, f, sorts, size, offset)
		if err != nil {
			return err
		}
		visit(batch)
		if len(batch) < size {
			return nil
		}
	}
}

// sortByRelevance orders by distance first when byDistance, then score.
func sortByRelevance(hits []structs.Hit, byDistance bool) {
	sort.SliceStable(hits, func(i, j int) bool {
		if byDistance && hits[i].Distance != nil && hits[j].Distance != nil && *hits[i].Distance != *hits[j].Distance {
			return *hits[i].Distance < *hits[j].Distance
		}
		return hits[i].Score > hits[j].Score
	})
}

func page(hits []structs.Hit, offset, size int) []structs.Hit {
	if offset >= len(hits) {
		return []structs.Hit{}
	}
	end := offset + size
	if end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end]
}

func (b *RelationalBackend) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	return b.repo.FindTitles(ctx, prefix, limit)
}

func (b *RelationalBackend) SuggestListings(ctx context.Context, text string, limit int) ([]structs.ListingSuggestion, error) {
	f := repository.Filter{EligibleOnly: true, Text: text}
	listings, err := b.repo.FindMany(ctx, f, []repository.Sort{{Field: repository.SortByReviews, Desc: true}}, limit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]structs.ListingSuggestion, 0, len(listings))
	for _, l := range listings {
		out = append(out, structs.ListingSuggestion{ID: l.ID, Title: l.Title, City: l.City, Category: l.Category.Name})
	}
	return out, nil
}

func (b *RelationalBackend) SuggestCategories(ctx context.Context, text string, limit int) ([]structs.CategorySuggestion, error) {
	return b.repo.SearchCategories(ctx, text, limit)
}

func (b *RelationalBackend) SuggestLocations(ctx context.Context, text string, limit int) ([]structs.LocationSuggestion, error) {
	return b.repo.SearchLocations(ctx, text, limit)
}

// Similar scores same category candidates that share the reference's city
// and state or fall in its price band.
func (b *RelationalBackend) Similar(ctx context.Context, id string, limit int) ([]structs.Hit, error) {
	ref, err := b.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ecode.Missing("listing " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reference listing: %w", err)
	}

	var candidates []*structs.Listing
	err = b.scan(ctx, similarity.CandidateFilter(ref, b.opts.Similarity), nil, func(batch []*structs.Listing) {
		candidates = append(candidates, batch...)
	})
	if err != nil {
		return nil, err
	}
	return similarity.Rank(ref, candidates, b.opts.Similarity, limit), nil
}

func (b *RelationalBackend) Health(ctx context.Context) error {
	return b.repo.Ping(ctx)
}
