// Package similarity recommends listings similar to a reference listing.
package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/listing/query"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// Ordering of similar listings.
type Ordering string

const (
	// ByRating orders by average rating then review count, both descending.
	ByRating Ordering = "rating"
	// ByScore orders by similarity score descending.
	ByScore Ordering = "score"
)

// Score weights.
const (
	SameCategory   = 5.0
	SameCityState  = 3.0
	PriceProximity = 2.0
	SharedFeature  = 0.5
)

// Options tunes candidate selection and scoring.
type Options struct {
	Ordering       Ordering
	FeatureCap     int
	PriceTolerance float64
	GeoRadiusKm    float64
}

// DefaultOptions returns rating ordering, a cap of 10 shared features, a
// 20% price band and a 50 km radius.
func DefaultOptions() Options {
	return Options{Ordering: ByRating, FeatureCap: 10, PriceTolerance: 0.2, GeoRadiusKm: 50}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Ordering != ByScore {
		o.Ordering = ByRating
	}
	if o.FeatureCap <= 0 {
		o.FeatureCap = d.FeatureCap
	}
	if o.PriceTolerance <= 0 {
		o.PriceTolerance = d.PriceTolerance
	}
	if o.GeoRadiusKm <= 0 {
		o.GeoRadiusKm = d.GeoRadiusKm
	}
	return o
}

// priceBand returns the inclusive price range around ref.
func (o Options) priceBand(ref *structs.Listing) (float64, float64) {
	delta := math.Abs(ref.BasePrice) * o.PriceTolerance
	return ref.BasePrice - delta, ref.BasePrice + delta
}

// CandidateFilter returns the relational candidate predicate: eligible, same
// category, not the reference, and same city and state or within the price
// band.
func CandidateFilter(ref *structs.Listing, opts Options) repository.Filter {
	opts = opts.withDefaults()
	low, high := opts.priceBand(ref)
	return repository.Filter{
		EligibleOnly: true,
		CategoryID:   ref.Category.ID,
		ExcludeID:    ref.ID,
		Near: &repository.Neighbourhood{
			City:      ref.City,
			State:     ref.State,
			PriceLow:  low,
			PriceHigh: high,
		},
	}
}

// Score returns the additive similarity of candidate to ref.
func Score(ref, candidate *structs.Listing, opts Options) float64 {
	opts = opts.withDefaults()

	var score float64
	if candidate.Category.ID == ref.Category.ID {
		score += SameCategory
	}
	if candidate.City == ref.City && candidate.State == ref.State {
		score += SameCityState
	}
	low, high := opts.priceBand(ref)
	if candidate.BasePrice >= low && candidate.BasePrice <= high {
		score += PriceProximity
	}
	shared := sharedFeatures(ref.Features, candidate.Features)
	if shared > opts.FeatureCap {
		shared = opts.FeatureCap
	}
	return score + float64(shared)*SharedFeature
}

func sharedFeatures(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, f := range a {
		set[strings.ToLower(f)] = struct{}{}
	}
	n := 0
	for _, f := range b {
		k := strings.ToLower(f)
		if _, ok := set[k]; ok {
			n++
			delete(set, k)
		}
	}
	return n
}

// Rank scores candidates, drops ineligible ones and the reference, orders
// them and keeps at most limit.
func Rank(ref *structs.Listing, candidates []*structs.Listing, opts Options, limit int) []structs.Hit {
	opts = opts.withDefaults()

	hits := make([]structs.Hit, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == ref.ID || !c.Eligible() || c.Category.ID != ref.Category.ID {
			continue
		}
		h := structs.Hit{Listing: *c, Score: Score(ref, c, opts)}
		if ref.Location != nil && c.Location != nil {
			d := query.Haversine(ref.Location.Lat, ref.Location.Lon, c.Location.Lat, c.Location.Lon)
			h.Distance = &d
		}
		hits = append(hits, h)
	}

	Order(hits, opts.Ordering)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Order sorts hits in place, stable on ties.
func Order(hits []structs.Hit, ordering Ordering) {
	if ordering == ByScore {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
		return
	}
	sort.SliceStable(hits, func(i, j int) bool {
		ri, rj := hits[i].Rating(), hits[j].Rating()
		if ri != rj {
			return ri > rj
		}
		return hits[i].ReviewCount > hits[j].ReviewCount
	})
}
