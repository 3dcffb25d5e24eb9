package structs

import "time"

// Status of a listing.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusDraft       Status = "draft"
	StatusPending     Status = "pending"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

// VerificationStatus of a listing.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Category is the category reference embedded in a listing.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GeoPoint is a latitude / longitude pair in the index geo_point format.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Owner is the public owner summary embedded in a listing.
type Owner struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Rating      *float64 `json:"rating,omitempty"`
}

// Listing is a rentable item. Its JSON form is also the index document.
type Listing struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Category           Category           `json:"category"`
	City               string             `json:"city"`
	State              string             `json:"state"`
	Country            string             `json:"country"`
	Location           *GeoPoint          `json:"location,omitempty"`
	BasePrice          float64            `json:"base_price"`
	Currency           string             `json:"currency"`
	Status             Status             `json:"status"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	AverageRating      *float64           `json:"average_rating,omitempty"`
	ReviewCount        int                `json:"review_count"`
	BookingMode        string             `json:"booking_mode"`
	Condition          *string            `json:"condition,omitempty"`
	Features           []string           `json:"features"`
	Owner              Owner              `json:"owner"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Eligible reports whether the listing may appear in search results.
func (l *Listing) Eligible() bool {
	return l.Status == StatusAvailable && l.VerificationStatus == VerificationVerified
}

// Rating returns the average rating, 0 when unrated.
func (l *Listing) Rating() float64 {
	if l.AverageRating == nil {
		return 0
	}
	return *l.AverageRating
}
