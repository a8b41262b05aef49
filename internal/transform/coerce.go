package transform

import (
	"slices"

	"github.com/woozymasta/geotweak/internal/geo"
)

// CoerceGeometry turns a LineString into a Polygon whose single ring is the
// line, closed by appending a copy of the first position when needed.
// Every other geometry is returned unchanged.
func CoerceGeometry(g geo.Geometry) geo.Geometry {
	switch g := g.(type) {
	case geo.LineString:
		return geo.Polygon{Coordinates: [][]geo.Position{closeRing(g.Coordinates)}, Members: g.Members}
	case geo.Point, geo.Polygon, geo.MultiPoint, geo.MultiLineString, geo.MultiPolygon,
		geo.GeometryCollection, geo.RawGeometry:
		return g
	default:
		// nil geometry
		return g
	}
}

func closeRing(positions []geo.Position) []geo.Position {
	if len(positions) == 0 {
		return []geo.Position{}
	}

	first, last := positions[0], positions[len(positions)-1]
	if first.Equal(last) {
		return positions
	}
	return append(positions, slices.Clone(first))
}
