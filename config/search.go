package config

import (
	"time"

	"github.com/spf13/viper"
)

// Backend kinds.
const (
	BackendIndex      = "index"
	BackendRelational = "relational"
)

// Search discovery settings
type Search struct {
	Backend              string
	Engine               string
	Index                string
	Timeout              time.Duration
	CandidateBatch       int
	MaxPageSize          int
	AutocompleteMinChars int
	HistogramInterval    float64
	PopularSearches      []string
	Similarity           *Similarity
	Cache                *Cache
	Breaker              *Breaker
	Indexer              *Indexer
	Events               *Events
}

// Similarity recommendation settings
type Similarity struct {
	// Ordering is "rating" or "score".
	Ordering       string
	FeatureCap     int
	PriceTolerance float64
	GeoRadiusKm    float64
}

// Cache cache-aside settings
type Cache struct {
	// Driver is "redis" or "memory".
	Driver          string
	Prefix          string
	Size            int
	SearchTTL       time.Duration
	AutocompleteTTL time.Duration
	SuggestionsTTL  time.Duration
	SimilarTTL      time.Duration
	PopularTTL      time.Duration
}

// Breaker circuit breaker settings
type Breaker struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// Indexer write path settings
type Indexer struct {
	BatchSize   int
	Workers     int
	ReindexCron string
}

// Events listing mutation subscriber settings
type Events struct {
	// Driver is "kafka", "rabbitmq" or empty to disable.
	Driver string
}

// DefaultPopularSearches seeds the popular searches list.
var DefaultPopularSearches = []string{
	"camera", "car rental", "apartment", "bike", "camping gear",
	"projector", "party supplies", "power tools", "kayak", "wedding dress",
}

func getSearchConfig(v *viper.Viper) *Search {
	return &Search{
		Backend:              getStringOrDefault(v, "search.backend", BackendRelational),
		Engine:               getStringOrDefault(v, "search.engine", "elasticsearch"),
		Index:                getStringOrDefault(v, "search.index", "listings"),
		Timeout:              getDurationOrDefault(v, "search.timeout", 3*time.Second),
		CandidateBatch:       getIntOrDefault(v, "search.candidate_batch", 1000),
		MaxPageSize:          getIntOrDefault(v, "search.max_page_size", 100),
		AutocompleteMinChars: getIntOrDefault(v, "search.autocomplete_min_chars", 2),
		HistogramInterval:    getFloat64OrDefault(v, "search.histogram_interval", 50),
		PopularSearches:      getStringSliceOrDefault(v, "search.popular", DefaultPopularSearches),
		Similarity: &Similarity{
			Ordering:       getStringOrDefault(v, "search.similarity.ordering", "rating"),
			FeatureCap:     getIntOrDefault(v, "search.similarity.feature_cap", 10),
			PriceTolerance: getFloat64OrDefault(v, "search.similarity.price_tolerance", 0.2),
			GeoRadiusKm:    getFloat64OrDefault(v, "search.similarity.geo_radius_km", 50),
		},
		Cache: &Cache{
			Driver:          getStringOrDefault(v, "search.cache.driver", "redis"),
			Prefix:          getStringOrDefault(v, "search.cache.prefix", "discovery"),
			Size:            getIntOrDefault(v, "search.cache.size", 10000),
			SearchTTL:       getDurationOrDefault(v, "search.cache.ttl.search", 5*time.Minute),
			AutocompleteTTL: getDurationOrDefault(v, "search.cache.ttl.autocomplete", 15*time.Minute),
			SuggestionsTTL:  getDurationOrDefault(v, "search.cache.ttl.suggestions", 10*time.Minute),
			SimilarTTL:      getDurationOrDefault(v, "search.cache.ttl.similar", 30*time.Minute),
			PopularTTL:      getDurationOrDefault(v, "search.cache.ttl.popular", time.Hour),
		},
		Breaker: &Breaker{
			MaxRequests:  uint32(getIntOrDefault(v, "search.breaker.max_requests", 100)),
			Interval:     getDurationOrDefault(v, "search.breaker.interval", 5*time.Second),
			Timeout:      getDurationOrDefault(v, "search.breaker.timeout", 3*time.Second),
			FailureRatio: getFloat64OrDefault(v, "search.breaker.failure_ratio", 0.6),
			MinRequests:  uint32(getIntOrDefault(v, "search.breaker.min_requests", 3)),
		},
		Indexer: &Indexer{
			BatchSize:   getIntOrDefault(v, "search.indexer.batch_size", 200),
			Workers:     getIntOrDefault(v, "search.indexer.workers", 4),
			ReindexCron: v.GetString("search.indexer.reindex_cron"),
		},
		Events: &Events{
			Driver: v.GetString("search.events.driver"),
		},
	}
}
