package structs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samujjwal/rental-sub006/ecode"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize fills defaults and trims free text fields.
func (q *SearchQuery) Normalize() {
	q.Text = strings.TrimSpace(q.Text)
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Size == 0 {
		q.Size = DefaultSize
	}
	if q.Sort == "" {
		q.Sort = SortRelevance
	}
	if q.Location != nil {
		q.Location.City = strings.TrimSpace(q.Location.City)
		q.Location.State = strings.TrimSpace(q.Location.State)
		q.Location.Country = strings.TrimSpace(q.Location.Country)
		if q.Location.IsEmpty() {
			q.Location = nil
		}
	}
	features := q.Features[:0]
	for _, f := range q.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	q.Features = features
	if len(q.Features) == 0 {
		q.Features = nil
	}
}

// Validate checks field rules and cross field rules, returning an
// InvalidQuery error describing the first violation.
func (q *SearchQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ecode.Invalid(fieldName(fe), fmt.Sprintf("failed %s rule", fe.Tag()))
		}
		return ecode.Invalid("query", err.Error())
	}

	if q.PriceMin != nil && q.PriceMax != nil && *q.PriceMin > *q.PriceMax {
		return ecode.Invalid("price_min", "must not exceed price_max")
	}

	if loc := q.Location; loc != nil {
		if (loc.Lat == nil) != (loc.Lon == nil) {
			return ecode.Invalid("location", "lat and lon must be given together")
		}
		if loc.Lat != nil && loc.RadiusKm == nil {
			return ecode.Invalid("location.radius_km", "required with lat and lon")
		}
		if loc.RadiusKm != nil && loc.Lat == nil {
			return ecode.Invalid("location.radius_km", "requires lat and lon")
		}
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}
