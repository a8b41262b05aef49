package geo

import "github.com/paulmach/orb"

// ToOrb returns the 2D orb view of g. Extra dimensions are dropped and positions with
// fewer than two components are skipped. Nil and raw geometries have no orb view.
func ToOrb(g Geometry) orb.Geometry {
	switch g := g.(type) {
	case Point:
		if p, ok := orbPoint(g.Coordinates); ok {
			return p
		}
		return nil
	case LineString:
		return orbLineString(g.Coordinates)
	case Polygon:
		return orbPolygon(g.Coordinates)
	case MultiPoint:
		return orb.MultiPoint(orbLineString(g.Coordinates))
	case MultiLineString:
		mls := make(orb.MultiLineString, 0, len(g.Coordinates))
		for _, line := range g.Coordinates {
			mls = append(mls, orbLineString(line))
		}
		return mls
	case MultiPolygon:
		mp := make(orb.MultiPolygon, 0, len(g.Coordinates))
		for _, poly := range g.Coordinates {
			mp = append(mp, orbPolygon(poly))
		}
		return mp
	case GeometryCollection:
		c := make(orb.Collection, 0, len(g.Geometries))
		for _, member := range g.Geometries {
			if og := ToOrb(member); og != nil {
				c = append(c, og)
			}
		}
		return c
	default:
		return nil
	}
}

func orbPoint(p Position) (orb.Point, bool) {
	if len(p) < 2 {
		return orb.Point{}, false
	}
	return orb.Point{p[0], p[1]}, true
}

func orbLineString(positions []Position) orb.LineString {
	ls := make(orb.LineString, 0, len(positions))
	for _, pos := range positions {
		if p, ok := orbPoint(pos); ok {
			ls = append(ls, p)
		}
	}
	return ls
}

func orbPolygon(rings [][]Position) orb.Polygon {
	poly := make(orb.Polygon, 0, len(rings))
	for _, ring := range rings {
		poly = append(poly, orb.Ring(orbLineString(ring)))
	}
	return poly
}
