package structs

// Hit is one ranked search result.
type Hit struct {
	Listing
	Score    float64  `json:"score"`
	Distance *float64 `json:"distance,omitempty"`
}

// SearchResult is a page of hits with facets.
type SearchResult struct {
	Results      []Hit              `json:"results"`
	Total        int64              `json:"total"`
	Page         int                `json:"page"`
	Size         int                `json:"size"`
	Aggregations *AggregationBundle `json:"aggregations"`
}

// Bucket is one facet value with its count.
type Bucket struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Count int64  `json:"count"`
}

// PriceStats summarises prices over the filtered set.
type PriceStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int64   `json:"count"`
}

// HistogramBucket counts prices in [Key, Key+interval).
type HistogramBucket struct {
	Key   float64 `json:"key"`
	Count int64   `json:"count"`
}

// AggregationBundle holds the facets of a search.
type AggregationBundle struct {
	Categories     []Bucket          `json:"categories"`
	Cities         []Bucket          `json:"cities"`
	Conditions     []Bucket          `json:"conditions"`
	Price          PriceStats        `json:"price"`
	PriceHistogram []HistogramBucket `json:"price_histogram,omitempty"`
}

// ListingSuggestion is a compact listing used by suggestions.
type ListingSuggestion struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	City     string `json:"city"`
	Category string `json:"category"`
}

// CategorySuggestion is a matching category with its eligible listing count.
type CategorySuggestion struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// LocationSuggestion is a matching place.
type LocationSuggestion struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Suggestions groups the three suggestion kinds.
type Suggestions struct {
	Listings   []ListingSuggestion  `json:"listings"`
	Categories []CategorySuggestion `json:"categories"`
	Locations  []LocationSuggestion `json:"locations"`
}
