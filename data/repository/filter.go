package repository

import (
	"strings"

	"github.com/samujjwal/rental-sub006/listing/structs"
)

// BoundingBox is a latitude / longitude rectangle.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Neighbourhood matches listings in the same city and state OR in a price
// band. Similarity candidates use it.
type Neighbourhood struct {
	City, State         string
	PriceLow, PriceHigh float64
}

// Filter is the predicate set shared by every read query. Zero fields do
// not constrain.
type Filter struct {
	EligibleOnly bool
	ExcludeID    string
	IDs          []string
	CategoryID   string
	// Text is matched case-insensitively against title, description and
	// city, OR-combined.
	Text        string
	TitlePrefix string
	City        string
	State       string
	Country     string
	PriceMin    *float64
	PriceMax    *float64
	BookingMode string
	Condition   string
	FeaturesAny []string
	Bounds      *BoundingBox
	Near        *Neighbourhood
}

// where renders the filter as a WHERE clause with ? placeholders.
func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, a ...any) {
		conds = append(conds, cond)
		args = append(args, a...)
	}

	if f.EligibleOnly {
		add("l.status = ? AND l.verification_status = ?", string(structs.StatusAvailable), string(structs.VerificationVerified))
	}
	if f.ExcludeID != "" {
		add("l.id <> ?", f.ExcludeID)
	}
	if len(f.IDs) > 0 {
		add("l.id IN ("+placeholders(len(f.IDs))+")", toArgs(f.IDs)...)
	}
	if f.CategoryID != "" {
		add("l.category_id = ?", f.CategoryID)
	}
	if f.Text != "" {
		p := containsPattern(f.Text)
		add("(LOWER(l.title) LIKE ? ESCAPE '!' OR LOWER(l.description) LIKE ? ESCAPE '!' OR LOWER(l.city) LIKE ? ESCAPE '!')", p, p, p)
	}
	if f.TitlePrefix != "" {
		add("LOWER(l.title) LIKE ? ESCAPE '!'", prefixPattern(f.TitlePrefix))
	}
	if f.City != "" {
		add("LOWER(l.city) LIKE ? ESCAPE '!'", containsPattern(f.City))
	}
	if f.State != "" {
		add("LOWER(l.state) LIKE ? ESCAPE '!'", containsPattern(f.State))
	}
	if f.Country != "" {
		add("LOWER(l.country) LIKE ? ESCAPE '!'", containsPattern(f.Country))
	}
	if f.PriceMin != nil {
		add("l.base_price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		add("l.base_price <= ?", *f.PriceMax)
	}
	if f.BookingMode != "" {
		add("l.booking_mode = ?", f.BookingMode)
	}
	if f.Condition != "" {
		add("l.item_condition = ?", f.Condition)
	}
	if len(f.FeaturesAny) > 0 {
		add("EXISTS (SELECT 1 FROM listing_features lf WHERE lf.listing_id = l.id AND lf.feature IN ("+placeholders(len(f.FeaturesAny))+"))", toArgs(f.FeaturesAny)...)
	}
	if b := f.Bounds; b != nil {
		add("l.latitude IS NOT NULL AND l.longitude IS NOT NULL AND l.latitude BETWEEN ? AND ? AND l.longitude BETWEEN ? AND ?", b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}
	if n := f.Near; n != nil {
		add("((l.city = ? AND l.state = ?) OR (l.base_price BETWEEN ? AND ?))", n.City, n.State, n.PriceLow, n.PriceHigh)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func toArgs(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// SortField is a sortable listing column.
type SortField string

const (
	SortByPrice   SortField = "price"
	SortByRating  SortField = "rating"
	SortByReviews SortField = "reviews"
	SortByCreated SortField = "created"
	SortByTitle   SortField = "title"
	SortByID      SortField = "id"
)

var sortColumns = map[SortField]string{
	SortByPrice:   "l.base_price",
	SortByRating:  "COALESCE(l.average_rating, 0)",
	SortByReviews: "l.review_count",
	SortByCreated: "l.created_at",
	SortByTitle:   "l.title",
	SortByID:      "l.id",
}

// Sort is one ORDER BY term.
type Sort struct {
	Field SortField
	Desc  bool
}

// orderBy renders sorts and always appends l.id ASC for a stable row order.
func orderBy(sorts []Sort) string {
	terms := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		col, ok := sortColumns[s.Field]
		if !ok || s.Field == SortByID {
			continue
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	terms = append(terms, "l.id ASC")
	return " ORDER BY " + strings.Join(terms, ", ")
}
