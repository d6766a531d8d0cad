package utils

import "math"

const earthRadiusKm = 6371.0

// CalculateDistance returns the great-circle distance in kilometres between two points.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// HasLocation reports whether a coordinate pair was ever set.
func HasLocation(lat, lon float64) bool {
	return lat != 0 || lon != 0
}
