package service

import (
	"context"
	"fmt"

	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/aggregation"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/samujjwal/rental-sub006/logging/observes"
	"go.opentelemetry.io/otel/attribute"
)

// Search validates q and returns a page of ranked listings with facets.
// Backend failures are returned; facet failures degrade to an empty bundle
// that is never cached.
func (s *Service) Search(ctx context.Context, q *structs.SearchQuery) (_ *structs.SearchResult, err error) {
	ctx, span := observes.StartSpan(ctx, "discovery.search",
		attribute.String("backend", s.backend.Kind()),
		attribute.Bool("search.text", q != nil && q.Text != ""))
	defer func() { observes.EndSpan(span, err) }()

	if q == nil {
		return nil, ecode.Invalid("query", "missing")
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.Size > s.opts.MaxPageSize {
		return nil, ecode.Invalid("size", fmt.Sprintf("must not exceed %d", s.opts.MaxPageSize))
	}

	if hit, ok := lookup(ctx, s, s.searchCache, q); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return hit, nil
	}

	resp, err := s.backend.Search(ctx, q)
	if err != nil {
		s.logger.Error(ctx, "search failed", "backend", s.backend.Kind(), "error", err)
		observes.CaptureError(ctx, err)
		return nil, err
	}

	aggs := resp.Aggregations
	if resp.AggregationErr != nil || aggs == nil {
		if resp.AggregationErr != nil {
			s.logger.Warn(ctx, "aggregations degraded", "backend", s.backend.Kind(), "error", resp.AggregationErr)
		}
		aggs = aggregation.Empty()
	}

	hits := resp.Hits
	if hits == nil {
		hits = []structs.Hit{}
	}
	result := &structs.SearchResult{
		Results:      hits,
		Total:        resp.Total,
		Page:         q.Page,
		Size:         q.Size,
		Aggregations: aggs,
	}
	if resp.AggregationErr == nil {
		populate(ctx, s, s.searchCache, q, result)
	}
	return result, nil
}
