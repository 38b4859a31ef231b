package utils

import "math"

// earthRadiusMeters is the mean spherical Earth radius.
const earthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Point is a latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PointInPolygon reports whether the point is inside the polygon using the
// ray-casting even-odd rule. Treats latitude as y and longitude as x.
// A point exactly on a vertex or edge has no defined membership.
func PointInPolygon(lat, lon float64, vertices []Point) bool {
	if len(vertices) < 3 {
		return false
	}

	inside := false
	j := len(vertices) - 1
	for i := 0; i < len(vertices); i++ {
		yi, xi := vertices[i].Latitude, vertices[i].Longitude
		yj, xj := vertices[j].Latitude, vertices[j].Longitude

		if (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}

	return inside
}
