// Package geo provides great-circle distance and unit conversion for the
// geo filter. Coordinates are (longitude, latitude) throughout.
package geo

import (
	"math"

	"github.com/XavierBriggs/Beacon/pkg/models"
)

// EarthRadiusMiles is the mean Earth radius used by the haversine formula.
const EarthRadiusMiles = 3958.8

const milesPerKilometer = 0.621371

// MilesToKm converts a radius for providers that take kilometers.
func MilesToKm(miles float64) float64 {
	return miles / milesPerKilometer
}

// KmToMiles converts provider-reported kilometer distances inward.
func KmToMiles(km float64) float64 {
	return km * milesPerKilometer
}

// DistanceMiles returns the haversine great-circle distance between two
// points, in miles.
func DistanceMiles(a, b models.Coordinates) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ParsePair validates a raw lng/lat pair into canonical coordinates.
// NaN, infinite, out-of-range, and null-island values all report ok=false.
func ParsePair(lng, lat float64) (models.Coordinates, bool) {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return models.Coordinates{}, false
	}
	c := models.Coordinates{Longitude: lng, Latitude: lat}
	if !c.Valid() {
		return models.Coordinates{}, false
	}
	return c, true
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
