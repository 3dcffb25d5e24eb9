package structs

// SortOrder of search results.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
	SortNewest    SortOrder = "newest"
)

// Default paging.
const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// LocationFilter narrows results by place names and/or a radius.
type LocationFilter struct {
	City     string   `json:"city,omitempty" form:"city" validate:"omitempty,max=100"`
	State    string   `json:"state,omitempty" form:"state" validate:"omitempty,max=100"`
	Country  string   `json:"country,omitempty" form:"country" validate:"omitempty,max=100"`
	Lat      *float64 `json:"lat,omitempty" form:"lat" validate:"omitempty,latitude"`
	Lon      *float64 `json:"lon,omitempty" form:"lon" validate:"omitempty,longitude"`
	RadiusKm *float64 `json:"radius_km,omitempty" form:"radius_km" validate:"omitempty,gt=0,lte=20000"`
}

// HasGeo reports whether a radius filter is set.
func (f *LocationFilter) HasGeo() bool {
	return f != nil && f.Lat != nil && f.Lon != nil && f.RadiusKm != nil
}

// IsEmpty reports whether no location constraint is set.
func (f *LocationFilter) IsEmpty() bool {
	return f == nil || (f.City == "" && f.State == "" && f.Country == "" && f.Lat == nil && f.Lon == nil && f.RadiusKm == nil)
}

// SearchQuery is a validated search request. Its canonical JSON is the
// search cache key.
type SearchQuery struct {
	Text        string          `json:"text,omitempty" form:"q" validate:"max=200"`
	CategoryID  string          `json:"category_id,omitempty" form:"category_id" validate:"max=64"`
	Location    *LocationFilter `json:"location,omitempty"`
	PriceMin    *float64        `json:"price_min,omitempty" form:"price_min" validate:"omitempty,gte=0"`
	PriceMax    *float64        `json:"price_max,omitempty" form:"price_max" validate:"omitempty,gte=0"`
	BookingMode string          `json:"booking_mode,omitempty" form:"booking_mode" validate:"max=50"`
	Condition   string          `json:"condition,omitempty" form:"condition" validate:"max=50"`
	Features    []string        `json:"features,omitempty" form:"features" validate:"max=20,dive,max=100"`
	Sort        SortOrder       `json:"sort,omitempty" form:"sort" validate:"omitempty,oneof=relevance price_asc price_desc rating newest"`
	Page        int             `json:"page" form:"page" validate:"gte=1"`
	Size        int             `json:"size" form:"size" validate:"gte=1,lte=100"`
}

// Offset returns the zero based offset of the first hit on Page.
func (q *SearchQuery) Offset() int {
	return (q.Page - 1) * q.Size
}

// SortOrDefault returns Sort, relevance when unset.
func (q *SearchQuery) SortOrDefault() SortOrder {
	if q.Sort == "" {
		return SortRelevance
	}
	return q.Sort
}

// HasGeo reports whether the query carries a radius filter.
func (q *SearchQuery) HasGeo() bool {
	return q.Location.HasGeo()
}
