package similarity

import (
	"strings"

	"github.com/samujjwal/rental-sub006/listing/query"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// IndexQuery returns the index request for listings similar to ref. The
// hard filters match the relational path; text likeness and proximity only
// boost.
func IndexQuery(ref *structs.Listing, opts Options, limit int) map[string]any {
	opts = opts.withDefaults()

	filters := append(query.Eligibility(),
		map[string]any{"term": map[string]any{"category.id": ref.Category.ID}})

	var parts []string
	for _, p := range append([]string{ref.Title, ref.Description}, ref.Features...) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	like := strings.Join(parts, " ")
	should := []any{}
	if like != "" {
		should = append(should, map[string]any{"more_like_this": map[string]any{
			"fields":          []string{"title", "description", "features"},
			"like":            like,
			"min_term_freq":   1,
			"min_doc_freq":    1,
			"max_query_terms": 25,
		}})
	}
	if ref.Location != nil {
		should = append(should, query.GeoDistance(ref.Location.Lat, ref.Location.Lon, opts.GeoRadiusKm))
	}

	var sorts []any
	if opts.Ordering == ByScore {
		sorts = []any{map[string]any{"_score": "desc"}, map[string]any{"id": "asc"}}
	} else {
		sorts = []any{
			map[string]any{"average_rating": map[string]any{"order": "desc", "missing": "_last"}},
			map[string]any{"review_count": "desc"},
			map[string]any{"_score": "desc"},
			map[string]any{"id": "asc"},
		}
	}

	return map[string]any{
		"query": map[string]any{"bool": map[string]any{
			"filter":   filters,
			"must_not": []any{map[string]any{"term": map[string]any{"id": ref.ID}}},
			"should":   should,
		}},
		"size":         limit,
		"sort":         sorts,
		"track_scores": true,
	}
}
