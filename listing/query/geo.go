package query

import (
	"math"

	"github.com/samujjwal/rental-sub006/data/repository"
)

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// Haversine returns the great circle distance in km between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// BoundingBox returns a rectangle containing every point within radiusKm of
// (lat, lon). Longitude spans the whole range near the poles.
func BoundingBox(lat, lon, radiusKm float64) repository.BoundingBox {
	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi
	box := repository.BoundingBox{
		MinLat: math.Max(-90, lat-dLat),
		MaxLat: math.Min(90, lat+dLat),
		MinLon: -180,
		MaxLon: 180,
	}
	if box.MinLat > -90 && box.MaxLat < 90 {
		// Widest longitude offset reached on the circle, at the latitude of
		// its tangent meridians rather than at the center.
		ratio := math.Sin(radiusKm/EarthRadiusKm) / math.Cos(rad(lat))
		if ratio >= 1 {
			return box
		}
		dLon := math.Asin(ratio) * 180 / math.Pi
		if lon-dLon >= -180 && lon+dLon <= 180 {
			box.MinLon, box.MaxLon = lon-dLon, lon+dLon
		}
	}
	return box
}
