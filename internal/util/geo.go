package util

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance in meters between two lat/lng points
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	// Convert coordinates from degrees to S2 points
	point1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lng1))
	point2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lng2))

	// Calculate angle between points
	angle := s1.Angle(s2.ChordAngleBetweenPoints(point1, point2).Angle())

	// Convert angle to distance on Earth's surface
	return angle.Radians() * earthRadiusMeters
}

// BoundAround returns a lng/lat box that contains every point within radiusMeters of (lat, lng).
// The box is slightly larger than the circle, callers refine with HaversineDistance.
func BoundAround(lat, lng, radiusMeters float64) orb.Bound {
	latDelta := radiusMeters / earthRadiusMeters * 180 / math.Pi

	// Longitude degrees shrink towards the poles
	cosLat := math.Cos(lat * math.Pi / 180)
	lngDelta := 180.0
	if cosLat > 1e-9 {
		lngDelta = math.Min(latDelta/cosLat, 180)
	}

	return orb.Bound{
		Min: orb.Point{lng - lngDelta, lat - latDelta},
		Max: orb.Point{lng + lngDelta, lat + latDelta},
	}
}

// ValidLatLng reports whether lat/lng are inside the WGS84 range
func ValidLatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 &&
		!math.IsNaN(lat) && !math.IsNaN(lng)
}

// NormalizeHeading folds any angle in degrees into [0,360)
func NormalizeHeading(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	// -1e-20 + 360 rounds to 360
	if h >= 360 {
		h = 0
	}
	return h
}
