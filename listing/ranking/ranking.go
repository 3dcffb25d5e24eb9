// Package ranking scores listings against free text when the backing store
// cannot score natively.
package ranking

import (
	"sort"
	"strings"

	"github.com/samujjwal/rental-sub006/listing/structs"
)

// Weights of the additive relevance score.
const (
	TitleMatch       = 10.0
	TitlePrefixBonus = 5.0
	DescriptionMatch = 3.0
	CityMatch        = 2.0
	FeatureMatch     = 4.0
	RatingFactor     = 0.5
)

// Score returns the relevance of l for text. It is zero when text is empty.
func Score(l *structs.Listing, text string) float64 {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0
	}

	var score float64
	title := strings.ToLower(l.Title)
	if strings.Contains(title, text) {
		score += TitleMatch
		if strings.HasPrefix(title, text) {
			score += TitlePrefixBonus
		}
	}
	if strings.Contains(strings.ToLower(l.Description), text) {
		score += DescriptionMatch
	}
	if strings.Contains(strings.ToLower(l.City), text) {
		score += CityMatch
	}
	for _, f := range l.Features {
		if strings.Contains(strings.ToLower(f), text) {
			score += FeatureMatch
			break
		}
	}
	return score + l.Rating()*RatingFactor
}

// Rank scores every listing and returns hits ordered by score descending.
// Ties keep the input order.
func Rank(listings []*structs.Listing, text string) []structs.Hit {
	hits := Hits(listings, text)
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

// Hits scores listings without reordering them.
func Hits(listings []*structs.Listing, text string) []structs.Hit {
	hits := make([]structs.Hit, len(listings))
	for i, l := range listings {
		hits[i] = structs.Hit{Listing: *l, Score: Score(l, text)}
	}
	return hits
}
