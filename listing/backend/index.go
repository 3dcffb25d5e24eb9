package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samujjwal/rental-sub006/data/search"
	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/aggregation"
	"github.com/samujjwal/rental-sub006/listing/query"
	"github.com/samujjwal/rental-sub006/listing/similarity"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// IndexBackend searches the document index with native scoring and
// aggregations.
type IndexBackend struct {
	searcher search.Searcher
	index    string
	opts     Options
}

// NewIndex creates an index backend over index.
func NewIndex(searcher search.Searcher, index string, opts Options) *IndexBackend {
	return &IndexBackend{searcher: searcher, index: index, opts: opts}
}

func (b *IndexBackend) Kind() string { return KindIndex }

func (b *IndexBackend) run(ctx context.Context, body map[string]any) (*search.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	return b.searcher.Search(ctx, b.index, raw)
}

func decodeListing(src json.RawMessage) (*structs.Listing, error) {
	var l structs.Listing
	if err := json.Unmarshal(src, &l); err != nil {
		return nil, fmt.Errorf("failed to decode listing document: %w", err)
	}
	return &l, nil
}

func decodeHits(resp *search.Response) ([]structs.Hit, error) {
	hits := make([]structs.Hit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		l, err := decodeListing(h.Source)
		if err != nil {
			return nil, err
		}
		if l.ID == "" {
			l.ID = h.ID
		}
		hits = append(hits, structs.Hit{Listing: *l, Score: h.Score})
	}
	return hits, nil
}

func withDistance(hits []structs.Hit, lat, lon float64) {
	for i := range hits {
		if loc := hits[i].Location; loc != nil {
			d := query.Haversine(lat, lon, loc.Lat, loc.Lon)
			hits[i].Distance = &d
		}
	}
}

func (b *IndexBackend) Search(ctx context.Context, q *structs.SearchQuery) (*Response, error) {
	body := query.BuildIndexQuery(q, query.Options{Aggregations: true, HistogramInterval: b.opts.HistogramInterval})
	resp, err := b.run(ctx, body)
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits(resp)
	if err != nil {
		return nil, err
	}
	if q.HasGeo() {
		withDistance(hits, *q.Location.Lat, *q.Location.Lon)
	}

	out := &Response{Hits: hits, Total: resp.Total}
	out.Aggregations, out.AggregationErr = aggregation.FromIndex(resp.Aggregations)
	return out, nil
}

func (b *IndexBackend) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	resp, err := b.run(ctx, query.BuildAutocompleteQuery(prefix, limit))
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(resp.Hits))
	seen := make(map[string]struct{}, len(resp.Hits))
	for _, h := range resp.Hits {
		var doc struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode title: %w", err)
		}
		if _, dup := seen[doc.Title]; dup || doc.Title == "" {
			continue
		}
		seen[doc.Title] = struct{}{}
		titles = append(titles, doc.Title)
	}
	return titles, nil
}

func (b *IndexBackend) SuggestListings(ctx context.Context, text string, limit int) ([]structs.ListingSuggestion, error) {
	resp, err := b.run(ctx, query.BuildListingSuggestQuery(text, limit))
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits(resp)
	if err != nil {
		return nil, err
	}
	out := make([]structs.ListingSuggestion, 0, len(hits))
	for _, h := range hits {
		out = append(out, structs.ListingSuggestion{ID: h.ID, Title: h.Title, City: h.City, Category: h.Category.Name})
	}
	return out, nil
}

func (b *IndexBackend) SuggestCategories(ctx context.Context, text string, limit int) ([]structs.CategorySuggestion, error) {
	resp, err := b.run(ctx, query.BuildCategorySuggestQuery(text, limit))
	if err != nil {
		return nil, err
	}
	return aggregation.TopCategories(resp.Aggregations[query.AggCategories])
}

func (b *IndexBackend) SuggestLocations(ctx context.Context, text string, limit int) ([]structs.LocationSuggestion, error) {
	resp, err := b.run(ctx, query.BuildLocationSuggestQuery(text, limit))
	if err != nil {
		return nil, err
	}
	out := make([]structs.LocationSuggestion, 0, len(resp.Hits))
	seen := map[structs.LocationSuggestion]struct{}{}
	for _, h := range resp.Hits {
		var loc structs.LocationSuggestion
		if err := json.Unmarshal(h.Source, &loc); err != nil {
			return nil, fmt.Errorf("failed to decode location: %w", err)
		}
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	return out, nil
}

func (b *IndexBackend) Similar(ctx context.Context, id string, limit int) ([]structs.Hit, error) {
	raw, err := b.searcher.Get(ctx, b.index, id)
	if errors.Is(err, search.ErrNotFound) {
		return nil, ecode.Missing("listing " + id)
	}
	if err != nil {
		return nil, err
	}
	ref, err := decodeListing(raw)
	if err != nil {
		return nil, err
	}

	resp, err := b.run(ctx, similarity.IndexQuery(ref, b.opts.Similarity, limit))
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits(resp)
	if err != nil {
		return nil, err
	}
	if ref.Location != nil {
		withDistance(hits, ref.Location.Lat, ref.Location.Lon)
	}
	return hits, nil
}

func (b *IndexBackend) Health(ctx context.Context) error {
	return b.searcher.Health(ctx)
}
