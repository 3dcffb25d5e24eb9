// Package repotest provides an in-memory SQLite listing repository loaded
// with a small fixture corpus.
package repotest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // SQLite driver
)

// New returns a migrated repository holding listings.
func New(t testing.TB, listings ...*structs.Listing) *repository.Repository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.New(db, repository.SQLite, nil)
	ctx := context.Background()
	require.NoError(t, repo.Migrate(ctx))
	for _, l := range listings {
		require.NoError(t, repo.Save(ctx, l))
	}
	return repo
}

func ptr[T any](v T) *T { return &v }

var (
	vehicles = structs.Category{ID: "vehicles", Name: "Vehicles", Slug: "vehicles"}
	tools    = structs.Category{ID: "tools", Name: "Tools", Slug: "tools"}
	cameras  = structs.Category{ID: "cameras", Name: "Cameras", Slug: "cameras"}
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Listing returns an eligible listing with sensible defaults.
func Listing(id, title string, cat structs.Category, price float64) *structs.Listing {
	return &structs.Listing{
		ID:                 id,
		Title:              title,
		Description:        title,
		Category:           cat,
		City:               "Springfield",
		State:              "IL",
		Country:            "US",
		BasePrice:          price,
		Currency:           "USD",
		Status:             structs.StatusAvailable,
		VerificationStatus: structs.VerificationVerified,
		BookingMode:        "instant",
		Features:           []string{},
		Owner:              structs.Owner{ID: "owner-1", DisplayName: "Owner One", Rating: ptr(4.5)},
		CreatedAt:          base,
	}
}

// Corpus returns the shared fixture set. Listings 1 to 8 are eligible.
//
//	1 car rental        vehicles 100  New York (40.7128,-74.0060)  rating 4.8
//	2 cargo van         vehicles 250  New York (40.7306,-73.9352)  rating 4.0
//	3 camper trailer    vehicles 90   Boston                       no rating
//	4 power drill       tools     20  New York (40.7580,-73.9855)  rating 4.5
//	5 ladder            tools     15  Chicago                      rating 3.9
//	6 camera kit        cameras   60  Philadelphia (39.9526,-75.1652) rating 5
//	7 car seat          vehicles  30  New York                     rating 4.2
//	8 circular saw      tools     35  Newark (40.7357,-74.1724)    rating 4.1
//	9 rented car        vehicles 100  New York, status rented
//	10 unverified car   vehicles 100  New York, verification pending
func Corpus() []*structs.Listing {
	nyc := func(l *structs.Listing, lat, lon float64) *structs.Listing {
		l.City, l.State, l.Country = "New York", "NY", "US"
		if lat != 0 {
			l.Location = &structs.GeoPoint{Lat: lat, Lon: lon}
		}
		return l
	}

	l1 := nyc(Listing("listing-1", "Car Rental Sedan", vehicles, 100), 40.7128, -74.0060)
	l1.Description = "Comfortable sedan for city trips"
	l1.AverageRating, l1.ReviewCount = ptr(4.8), 40
	l1.Condition = ptr("excellent")
	l1.Features = []string{"gps", "bluetooth", "air conditioning"}
	l1.CreatedAt = base.Add(1 * time.Hour)

	l2 := nyc(Listing("listing-2", "Cargo Van", vehicles, 250), 40.7306, -73.9352)
	l2.Description = "Large van for moving"
	l2.AverageRating, l2.ReviewCount = ptr(4.0), 12
	l2.Condition = ptr("good")
	l2.Features = []string{"gps", "roof rack"}
	l2.CreatedAt = base.Add(2 * time.Hour)

	l3 := Listing("listing-3", "Camper Trailer", vehicles, 90)
	l3.City, l3.State = "Boston", "MA"
	l3.Description = "Sleeps four"
	l3.Features = []string{"kitchen"}
	l3.CreatedAt = base.Add(3 * time.Hour)

	l4 := nyc(Listing("listing-4", "Power Drill", tools, 20), 40.7580, -73.9855)
	l4.Description = "Cordless drill with car charger"
	l4.AverageRating, l4.ReviewCount = ptr(4.5), 8
	l4.Condition = ptr("good")
	l4.Features = []string{"battery"}
	l4.CreatedAt = base.Add(4 * time.Hour)

	l5 := Listing("listing-5", "Ladder", tools, 15)
	l5.City, l5.State = "Chicago", "IL"
	l5.AverageRating, l5.ReviewCount = ptr(3.9), 3
	l5.CreatedAt = base.Add(5 * time.Hour)

	l6 := Listing("listing-6", "Camera Kit", cameras, 60)
	l6.City, l6.State = "Philadelphia", "PA"
	l6.Location = &structs.GeoPoint{Lat: 39.9526, Lon: -75.1652}
	l6.AverageRating, l6.ReviewCount = ptr(5.0), 20
	l6.Condition = ptr("excellent")
	l6.Features = []string{"tripod"}
	l6.CreatedAt = base.Add(6 * time.Hour)

	l7 := nyc(Listing("listing-7", "Car Seat", vehicles, 30), 0, 0)
	l7.Description = "Child seat"
	l7.AverageRating, l7.ReviewCount = ptr(4.2), 5
	l7.Features = []string{"isofix"}
	l7.CreatedAt = base.Add(7 * time.Hour)

	l8 := Listing("listing-8", "Circular Saw", tools, 35)
	l8.City, l8.State = "Newark", "NJ"
	l8.Location = &structs.GeoPoint{Lat: 40.7357, Lon: -74.1724}
	l8.AverageRating, l8.ReviewCount = ptr(4.1), 2
	l8.Condition = ptr("fair")
	l8.CreatedAt = base.Add(8 * time.Hour)

	l9 := nyc(Listing("listing-9", "Rented Car", vehicles, 100), 40.7128, -74.0060)
	l9.Status = structs.StatusRented

	l10 := nyc(Listing("listing-10", "Unverified Car", vehicles, 100), 40.7128, -74.0060)
	l10.VerificationStatus = structs.VerificationPending

	return []*structs.Listing{l1, l2, l3, l4, l5, l6, l7, l8, l9, l10}
}
