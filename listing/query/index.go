package query

import (
	"fmt"
	"strings"

	"github.com/samujjwal/rental-sub006/listing/structs"
)

// Aggregation names used in index requests and responses.
const (
	AggCategories     = "categories"
	AggCategoryName   = "name"
	AggCities         = "cities"
	AggConditions     = "conditions"
	AggPriceStats     = "price_stats"
	AggPriceHistogram = "price_histogram"
)

// CityBucketLimit caps the number of city facets.
const CityBucketLimit = 20

// SearchFields are the weighted text fields of the free text match.
var SearchFields = []string{"title^3", "description^2", "category.name^1", "city^1", "features^1"}

// Options tunes index request building.
type Options struct {
	Aggregations      bool
	HistogramInterval float64
}

// Eligibility returns the filter clauses every index query starts with.
func Eligibility() []any {
	return []any{
		map[string]any{"term": map[string]any{"status": string(structs.StatusAvailable)}},
		map[string]any{"term": map[string]any{"verification_status": string(structs.VerificationVerified)}},
	}
}

// TextQuery returns the weighted free text clause.
func TextQuery(text string) map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"should": []any{
				map[string]any{"multi_match": map[string]any{
					"query":     text,
					"fields":    SearchFields,
					"fuzziness": "AUTO",
				}},
				map[string]any{"match_phrase_prefix": map[string]any{
					"title": map[string]any{"query": text, "boost": 5},
				}},
			},
			"minimum_should_match": 1,
		},
	}
}

// GeoDistance returns a geo_distance filter clause.
func GeoDistance(lat, lon, radiusKm float64) map[string]any {
	return map[string]any{
		"geo_distance": map[string]any{
			"distance": formatKm(radiusKm),
			"location": map[string]any{"lat": lat, "lon": lon},
		},
	}
}

func formatKm(km float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", km), "0"), ".") + "km"
}

func containsClause(field, value string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field: map[string]any{
				"value":            "*" + escapeWildcard(strings.ToLower(value)) + "*",
				"case_insensitive": true,
			},
		},
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`)

func escapeWildcard(s string) string { return wildcardEscaper.Replace(s) }

// Filters returns the filter clauses of q including eligibility.
func Filters(q *structs.SearchQuery) []any {
	filters := Eligibility()
	if q.CategoryID != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category.id": q.CategoryID}})
	}
	if loc := q.Location; loc != nil {
		if loc.City != "" {
			filters = append(filters, containsClause("city.keyword", loc.City))
		}
		if loc.State != "" {
			filters = append(filters, containsClause("state.keyword", loc.State))
		}
		if loc.Country != "" {
			filters = append(filters, containsClause("country.keyword", loc.Country))
		}
		if loc.HasGeo() {
			filters = append(filters, GeoDistance(*loc.Lat, *loc.Lon, *loc.RadiusKm))
		}
	}
	if q.PriceMin != nil || q.PriceMax != nil {
		r := map[string]any{}
		if q.PriceMin != nil {
			r["gte"] = *q.PriceMin
		}
		if q.PriceMax != nil {
			r["lte"] = *q.PriceMax
		}
		filters = append(filters, map[string]any{"range": map[string]any{"base_price": r}})
	}
	if q.BookingMode != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"booking_mode": q.BookingMode}})
	}
	if q.Condition != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"condition": q.Condition}})
	}
	if len(q.Features) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"features": q.Features}})
	}
	return filters
}

// IndexSort returns the index sort for q. Relevance with a geo filter puts
// distance first.
func IndexSort(q *structs.SearchQuery) []any {
	tiebreak := map[string]any{"id": "asc"}
	switch q.SortOrDefault() {
	case structs.SortPriceAsc:
		return []any{map[string]any{"base_price": "asc"}, tiebreak}
	case structs.SortPriceDesc:
		return []any{map[string]any{"base_price": "desc"}, tiebreak}
	case structs.SortRating:
		return []any{
			map[string]any{"average_rating": map[string]any{"order": "desc", "missing": "_last"}},
			map[string]any{"review_count": "desc"},
			tiebreak,
		}
	case structs.SortNewest:
		return []any{map[string]any{"created_at": "desc"}, tiebreak}
	}
	sorts := []any{}
	if q.HasGeo() {
		sorts = append(sorts, map[string]any{"_geo_distance": map[string]any{
			"location": map[string]any{"lat": *q.Location.Lat, "lon": *q.Location.Lon},
			"order":    "asc",
			"unit":     "km",
		}})
	}
	sorts = append(sorts, map[string]any{"_score": "desc"})
	if q.Text == "" {
		sorts = append(sorts, map[string]any{"created_at": "desc"})
	}
	return append(sorts, tiebreak)
}

// Aggregations returns the facet aggregations of a search request.
func Aggregations(interval float64) map[string]any {
	aggs := map[string]any{
		AggCategories: map[string]any{
			"terms": map[string]any{"field": "category.id", "size": 100, "order": map[string]any{"_key": "asc"}},
			"aggs": map[string]any{
				AggCategoryName: map[string]any{"terms": map[string]any{"field": "category.name.keyword", "size": 1}},
			},
		},
		AggCities: map[string]any{
			"terms": map[string]any{"field": "city.keyword", "size": CityBucketLimit, "order": map[string]any{"_key": "asc"}},
		},
		AggConditions: map[string]any{
			"terms": map[string]any{"field": "condition", "size": 50, "order": map[string]any{"_key": "asc"}},
		},
		AggPriceStats: map[string]any{"stats": map[string]any{"field": "base_price"}},
	}
	if interval > 0 {
		aggs[AggPriceHistogram] = map[string]any{
			"histogram": map[string]any{"field": "base_price", "interval": interval, "min_doc_count": 1},
		}
	}
	return aggs
}

// BuildIndexQuery translates q into an index search request body.
func BuildIndexQuery(q *structs.SearchQuery, opts Options) map[string]any {
	b := map[string]any{"filter": Filters(q)}
	if q.Text != "" {
		b["must"] = []any{TextQuery(q.Text)}
	}
	body := map[string]any{
		"query":            map[string]any{"bool": b},
		"from":             q.Offset(),
		"size":             q.Size,
		"sort":             IndexSort(q),
		"track_total_hits": true,
	}
	if opts.Aggregations {
		body["aggs"] = Aggregations(opts.HistogramInterval)
	}
	return body
}

// BuildAutocompleteQuery returns titles of eligible listings by prefix.
func BuildAutocompleteQuery(prefix string, limit int) map[string]any {
	return map[string]any{
		"query": map[string]any{"bool": map[string]any{
			"filter": Eligibility(),
			"must": []any{map[string]any{"match_phrase_prefix": map[string]any{
				"title": map[string]any{"query": prefix},
			}}},
		}},
		"_source":  []string{"title"},
		"size":     limit,
		"collapse": map[string]any{"field": "title.keyword"},
		"sort":     []any{map[string]any{"_score": "desc"}, map[string]any{"review_count": "desc"}},
	}
}

// BuildListingSuggestQuery returns compact matching listings.
func BuildListingSuggestQuery(text string, limit int) map[string]any {
	return map[string]any{
		"query": map[string]any{"bool": map[string]any{
			"filter": Eligibility(),
			"must":   []any{TextQuery(text)},
		}},
		"_source": []string{"id", "title", "city", "category"},
		"size":    limit,
	}
}

// BuildCategorySuggestQuery aggregates categories whose name matches text.
func BuildCategorySuggestQuery(text string, limit int) map[string]any {
	return map[string]any{
		"query": map[string]any{"bool": map[string]any{
			"filter": append(Eligibility(), containsClause("category.name.keyword", text)),
		}},
		"size": 0,
		"aggs": map[string]any{
			AggCategories: map[string]any{
				"terms": map[string]any{"field": "category.id", "size": limit},
				"aggs": map[string]any{
					"hit": map[string]any{"top_hits": map[string]any{"size": 1, "_source": []string{"category"}}},
				},
			},
		},
	}
}

// BuildLocationSuggestQuery returns listings whose city or state matches
// text, collapsed per city.
func BuildLocationSuggestQuery(text string, limit int) map[string]any {
	return map[string]any{
		"query": map[string]any{"bool": map[string]any{
			"filter": Eligibility(),
			"should": []any{
				containsClause("city.keyword", text),
				containsClause("state.keyword", text),
			},
			"minimum_should_match": 1,
		}},
		"_source":  []string{"city", "state", "country"},
		"size":     limit,
		"collapse": map[string]any{"field": "city.keyword"},
	}
}
