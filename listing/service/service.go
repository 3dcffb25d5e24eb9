// Package service is the search facade: it validates requests, consults the
// cache, dispatches to the configured backend and shapes the results.
package service

import (
	"context"
	"time"

	"github.com/samujjwal/rental-sub006/config"
	"github.com/samujjwal/rental-sub006/data/cache"
	"github.com/samujjwal/rental-sub006/data/metrics"
	"github.com/samujjwal/rental-sub006/listing/backend"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/samujjwal/rental-sub006/logging/logger"
)

// Cached operation names.
const (
	OpSearch       = "search"
	OpAutocomplete = "autocomplete"
	OpSuggestions  = "suggestions"
	OpSimilar      = "similar"
	OpPopular      = "popular"
)

// Default limits.
const (
	DefaultLimit    = 10
	MaxLimit        = 50
	SuggestionLimit = 5
)

// TTLs per cached operation.
type TTLs struct {
	Search       time.Duration
	Autocomplete time.Duration
	Suggestions  time.Duration
	Similar      time.Duration
	Popular      time.Duration
}

// Options configures the facade.
type Options struct {
	CachePrefix          string
	TTL                  TTLs
	AutocompleteMinChars int
	MaxPageSize          int
	PopularSearches      []string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		CachePrefix: "discovery",
		TTL: TTLs{
			Search:       5 * time.Minute,
			Autocomplete: 15 * time.Minute,
			Suggestions:  10 * time.Minute,
			Similar:      30 * time.Minute,
			Popular:      time.Hour,
		},
		AutocompleteMinChars: 2,
		MaxPageSize:          structs.MaxSize,
		PopularSearches:      config.DefaultPopularSearches,
	}
}

// OptionsFromConfig maps search settings onto Options.
func OptionsFromConfig(c *config.Search) Options {
	o := DefaultOptions()
	if c == nil {
		return o
	}
	o.AutocompleteMinChars = c.AutocompleteMinChars
	if c.MaxPageSize > 0 && c.MaxPageSize < structs.MaxSize {
		o.MaxPageSize = c.MaxPageSize
	}
	o.PopularSearches = c.PopularSearches
	if cc := c.Cache; cc != nil {
		o.CachePrefix = cc.Prefix
		o.TTL = TTLs{
			Search:       cc.SearchTTL,
			Autocomplete: cc.AutocompleteTTL,
			Suggestions:  cc.SuggestionsTTL,
			Similar:      cc.SimilarTTL,
			Popular:      cc.PopularTTL,
		}
	}
	return o
}

// Service is the search facade.
type Service struct {
	backend   backend.SearchBackend
	logger    *logger.Logger
	collector metrics.Collector
	opts      Options

	searchCache       *cache.Cache[structs.SearchResult]
	autocompleteCache *cache.Cache[[]string]
	suggestionsCache  *cache.Cache[structs.Suggestions]
	similarCache      *cache.Cache[[]structs.Hit]
	popularCache      *cache.Cache[[]string]
}

// New creates the facade. store may be nil to disable caching.
func New(b backend.SearchBackend, store cache.Store, l *logger.Logger, collector metrics.Collector, opts Options) *Service {
	if l == nil {
		l = logger.Nop()
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	s := &Service{backend: b, logger: l, collector: collector, opts: opts}
	if store != nil {
		p := opts.CachePrefix
		s.searchCache = cache.NewCache[structs.SearchResult](store, p, OpSearch, opts.TTL.Search)
		s.autocompleteCache = cache.NewCache[[]string](store, p, OpAutocomplete, opts.TTL.Autocomplete)
		s.suggestionsCache = cache.NewCache[structs.Suggestions](store, p, OpSuggestions, opts.TTL.Suggestions)
		s.similarCache = cache.NewCache[[]structs.Hit](store, p, OpSimilar, opts.TTL.Similar)
		s.popularCache = cache.NewCache[[]string](store, p, OpPopular, opts.TTL.Popular)
	}
	return s
}

// Backend returns the backend kind in use.
func (s *Service) Backend() string { return s.backend.Kind() }

// Health checks the backend.
func (s *Service) Health(ctx context.Context) error {
	return s.backend.Health(ctx)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
