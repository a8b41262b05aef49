package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// MaxLat is the latitude limit of the Web Mercator projection.
const MaxLat = 85.05112878

// ClampLatitude limits lat to the range Web Mercator can represent.
func ClampLatitude(lat float64) float64 {
	if lat > MaxLat {
		return MaxLat
	} else if lat < -MaxLat {
		return -MaxLat
	}
	return lat
}

// ToWebMercator projects a lon/lat point to Web Mercator meters.
// Latitudes beyond the projection limit are clamped instead of going to infinity.
func ToWebMercator(p orb.Point) orb.Point {
	return project.WGS84.ToMercator(orb.Point{p[0], ClampLatitude(p[1])})
}
