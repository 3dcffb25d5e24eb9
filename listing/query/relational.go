package query

import (
	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// GeoFilter is an exact radius constraint applied after the SQL prefilter.
type GeoFilter struct {
	Lat, Lon, RadiusKm float64
}

// Distance returns the distance of l from the filter point, false when l
// has no location.
func (g *GeoFilter) Distance(l *structs.Listing) (float64, bool) {
	if l.Location == nil {
		return 0, false
	}
	return Haversine(g.Lat, g.Lon, l.Location.Lat, l.Location.Lon), true
}

// RelationalPlan is a SearchQuery translated for the relational store.
type RelationalPlan struct {
	Filter repository.Filter
	Sorts  []repository.Sort
	// Rank orders the candidates by computed relevance, stable on Sorts.
	Rank bool
	// Geo is set when a radius filter applies; candidates outside it are
	// dropped and relevance ordering puts distance first.
	Geo *GeoFilter
}

// InMemory reports whether the full candidate set must be loaded and
// paginated in process.
func (p *RelationalPlan) InMemory() bool {
	return p.Rank || p.Geo != nil
}

// BuildFilter translates q into a repository predicate. Eligibility is
// always applied.
func BuildFilter(q *structs.SearchQuery) repository.Filter {
	f := repository.Filter{
		EligibleOnly: true,
		CategoryID:   q.CategoryID,
		Text:         q.Text,
		PriceMin:     q.PriceMin,
		PriceMax:     q.PriceMax,
		BookingMode:  q.BookingMode,
		Condition:    q.Condition,
		FeaturesAny:  q.Features,
	}
	if loc := q.Location; loc != nil {
		f.City, f.State, f.Country = loc.City, loc.State, loc.Country
		if loc.HasGeo() {
			box := BoundingBox(*loc.Lat, *loc.Lon, *loc.RadiusKm)
			f.Bounds = &box
		}
	}
	return f
}

// BuildRelational translates q into a relational plan.
func BuildRelational(q *structs.SearchQuery) *RelationalPlan {
	p := &RelationalPlan{Filter: BuildFilter(q), Sorts: ResolveSort(q.SortOrDefault())}
	if q.HasGeo() {
		p.Geo = &GeoFilter{Lat: *q.Location.Lat, Lon: *q.Location.Lon, RadiusKm: *q.Location.RadiusKm}
	}
	p.Rank = q.SortOrDefault() == structs.SortRelevance && q.Text != ""
	return p
}

// ResolveSort maps a sort order to SQL order terms. Relevance falls back
// to newest first; the score and distance parts are applied in memory.
func ResolveSort(s structs.SortOrder) []repository.Sort {
	switch s {
	case structs.SortPriceAsc:
		return []repository.Sort{{Field: repository.SortByPrice}}
	case structs.SortPriceDesc:
		return []repository.Sort{{Field: repository.SortByPrice, Desc: true}}
	case structs.SortRating:
		return []repository.Sort{{Field: repository.SortByRating, Desc: true}, {Field: repository.SortByReviews, Desc: true}}
	default:
		return []repository.Sort{{Field: repository.SortByCreated, Desc: true}}
	}
}
