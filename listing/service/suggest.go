package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/samujjwal/rental-sub006/logging/observes"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type textParams struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

// Autocomplete returns up to limit listing titles starting with text.
// Input shorter than the configured minimum returns an empty list without
// touching the backend.
func (s *Service) Autocomplete(ctx context.Context, text string, limit int) (_ []string, err error) {
	ctx, span := observes.StartSpan(ctx, "discovery.autocomplete")
	defer func() { observes.EndSpan(span, err) }()

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < s.opts.AutocompleteMinChars || text == "" {
		return []string{}, nil
	}
	params := textParams{Text: text, Limit: clampLimit(limit)}

	if hit, ok := lookup(ctx, s, s.autocompleteCache, params); ok {
		return *hit, nil
	}

	titles, err := s.backend.Autocomplete(ctx, params.Text, params.Limit)
	if err != nil {
		s.logger.Error(ctx, "autocomplete failed", "error", err)
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}
	populate(ctx, s, s.autocompleteCache, params, &titles)
	return titles, nil
}

// GetSuggestions runs the listing, category and location sub-queries
// concurrently. Each degrades to empty on failure; a degraded result is
// not cached.
func (s *Service) GetSuggestions(ctx context.Context, text string) (_ *structs.Suggestions, err error) {
	ctx, span := observes.StartSpan(ctx, "discovery.suggestions")
	defer func() { observes.EndSpan(span, err) }()

	out := &structs.Suggestions{
		Listings:   []structs.ListingSuggestion{},
		Categories: []structs.CategorySuggestion{},
		Locations:  []structs.LocationSuggestion{},
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < s.opts.AutocompleteMinChars || text == "" {
		return out, nil
	}
	params := textParams{Text: text, Limit: SuggestionLimit}

	if hit, ok := lookup(ctx, s, s.suggestionsCache, params); ok {
		return hit, nil
	}

	var failed [3]bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.backend.SuggestListings(gctx, text, SuggestionLimit)
		if err != nil {
			s.logger.Warn(gctx, "listing suggestions degraded", "error", err)
			failed[0] = true
			return nil
		}
		if v != nil {
			out.Listings = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.backend.SuggestCategories(gctx, text, SuggestionLimit)
		if err != nil {
			s.logger.Warn(gctx, "category suggestions degraded", "error", err)
			failed[1] = true
			return nil
		}
		if v != nil {
			out.Categories = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.backend.SuggestLocations(gctx, text, SuggestionLimit)
		if err != nil {
			s.logger.Warn(gctx, "location suggestions degraded", "error", err)
			failed[2] = true
			return nil
		}
		if v != nil {
			out.Locations = v
		}
		return nil
	})
	_ = g.Wait()

	degraded := failed[0] || failed[1] || failed[2]
	span.SetAttributes(attribute.Bool("suggestions.degraded", degraded))
	if !degraded {
		populate(ctx, s, s.suggestionsCache, params, out)
	}
	return out, nil
}

type similarParams struct {
	ID    string `json:"id"`
	Limit int    `json:"limit"`
}

// FindSimilar returns up to limit listings similar to id. A missing
// reference or a backend failure yields an empty list.
func (s *Service) FindSimilar(ctx context.Context, id string, limit int) (_ []structs.Hit, err error) {
	ctx, span := observes.StartSpan(ctx, "discovery.similar", attribute.String("listing.id", id))
	defer func() { observes.EndSpan(span, err) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ecode.Invalid("id", "missing")
	}
	params := similarParams{ID: id, Limit: clampLimit(limit)}

	if hit, ok := lookup(ctx, s, s.similarCache, params); ok {
		return *hit, nil
	}

	hits, err := s.backend.Similar(ctx, id, params.Limit)
	if ecode.IsNotFound(err) {
		s.logger.Debug(ctx, "similar listings reference missing", "listing_id", id)
		return []structs.Hit{}, nil
	}
	if err != nil {
		s.logger.Warn(ctx, "similar listings degraded", "listing_id", id, "error", err)
		return []structs.Hit{}, nil
	}
	if hits == nil {
		hits = []structs.Hit{}
	}
	populate(ctx, s, s.similarCache, params, &hits)
	return hits, nil
}

// GetPopularSearches returns the curated popular search terms.
func (s *Service) GetPopularSearches(ctx context.Context, limit int) []string {
	limit = clampLimit(limit)
	params := textParams{Limit: limit}
	if hit, ok := lookup(ctx, s, s.popularCache, params); ok {
		return *hit
	}

	out := make([]string, 0, limit)
	for _, t := range s.opts.PopularSearches {
		if len(out) == limit {
			break
		}
		out = append(out, t)
	}
	populate(ctx, s, s.popularCache, params, &out)
	return out
}
