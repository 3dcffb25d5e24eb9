package aggregation

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samujjwal/rental-sub006/listing/query"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

type termsAgg struct {
	Buckets []struct {
		Key      any   `json:"key"`
		DocCount int64 `json:"doc_count"`
		Name     *struct {
			Buckets []struct {
				Key string `json:"key"`
			} `json:"buckets"`
		} `json:"name"`
	} `json:"buckets"`
}

type statsAgg struct {
	Count int64    `json:"count"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Avg   *float64 `json:"avg"`
}

type histogramAgg struct {
	Buckets []struct {
		Key      float64 `json:"key"`
		DocCount int64   `json:"doc_count"`
	} `json:"buckets"`
}

// FromIndex decodes the aggregations of an index search response.
func FromIndex(aggs map[string]json.RawMessage) (*structs.AggregationBundle, error) {
	out := Empty()
	if len(aggs) == 0 {
		return out, nil
	}

	var err error
	if out.Categories, err = decodeTerms(aggs[query.AggCategories]); err != nil {
		return nil, fmt.Errorf("category buckets: %w", err)
	}
	if out.Cities, err = decodeTerms(aggs[query.AggCities]); err != nil {
		return nil, fmt.Errorf("city buckets: %w", err)
	}
	if out.Conditions, err = decodeTerms(aggs[query.AggConditions]); err != nil {
		return nil, fmt.Errorf("condition buckets: %w", err)
	}

	if raw, ok := aggs[query.AggPriceStats]; ok {
		var s statsAgg
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("price stats: %w", err)
		}
		out.Price.Count = s.Count
		if s.Min != nil {
			out.Price.Min = *s.Min
		}
		if s.Max != nil {
			out.Price.Max = *s.Max
		}
		if s.Avg != nil {
			out.Price.Avg = *s.Avg
		}
	}

	if raw, ok := aggs[query.AggPriceHistogram]; ok {
		var h histogramAgg
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("price histogram: %w", err)
		}
		for _, b := range h.Buckets {
			out.PriceHistogram = append(out.PriceHistogram, structs.HistogramBucket{Key: b.Key, Count: b.DocCount})
		}
	}
	return out, nil
}

func decodeTerms(raw json.RawMessage) ([]structs.Bucket, error) {
	out := []structs.Bucket{}
	if len(raw) == 0 {
		return out, nil
	}
	var t termsAgg
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	for _, b := range t.Buckets {
		key := fmt.Sprint(b.Key)
		if key == "" {
			continue
		}
		bucket := structs.Bucket{Key: key, Count: b.DocCount}
		if b.Name != nil && len(b.Name.Buckets) > 0 {
			bucket.Label = b.Name.Buckets[0].Key
		}
		out = append(out, bucket)
	}
	sortBuckets(out)
	return out, nil
}

// TopCategories decodes a category suggestion aggregation: terms on
// category id with a single top hit carrying the category.
func TopCategories(raw json.RawMessage) ([]structs.CategorySuggestion, error) {
	var agg struct {
		Buckets []struct {
			DocCount int64 `json:"doc_count"`
			Hit      struct {
				Hits struct {
					Hits []struct {
						Source struct {
							Category structs.Category `json:"category"`
						} `json:"_source"`
					} `json:"hits"`
				} `json:"hits"`
			} `json:"hit"`
		} `json:"buckets"`
	}
	out := []structs.CategorySuggestion{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, err
	}
	for _, b := range agg.Buckets {
		if len(b.Hit.Hits.Hits) == 0 {
			continue
		}
		c := b.Hit.Hits.Hits[0].Source.Category
		out = append(out, structs.CategorySuggestion{ID: c.ID, Name: c.Name, Slug: c.Slug, Count: b.DocCount})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}
