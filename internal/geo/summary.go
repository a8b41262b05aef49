package geo

import (
	"slices"

	"github.com/paulmach/orb"
)

// Summary describes a collection: what a client needs to offer sort and filter choices.
type Summary struct {
	PropertyKeys  []string       `json:"property_keys"`
	GeometryTypes []GeometryType `json:"geometry_types"`
	BBox          []float64      `json:"bbox,omitempty"` // [minLon, minLat, maxLon, maxLat]
	FeatureCount  int            `json:"feature_count"`
}

// Summarize collects the first feature's property keys, the distinct geometry
// types and the 2D bounds of fc.
func Summarize(fc *FeatureCollection) (*Summary, error) {
	features, err := fc.FeatureList()
	if err != nil {
		return nil, err
	}

	s := &Summary{
		FeatureCount:  len(features),
		PropertyKeys:  []string{},
		GeometryTypes: []GeometryType{},
	}
	if len(features) > 0 {
		s.PropertyKeys = features[0].Properties.Keys()
	}

	var (
		bound  orb.Bound
		hasAny bool
	)
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		if !slices.Contains(s.GeometryTypes, f.Geometry.Type()) {
			s.GeometryTypes = append(s.GeometryTypes, f.Geometry.Type())
		}

		og := ToOrb(f.Geometry)
		if og == nil || !HasPositions(og) {
			continue
		}
		b := og.Bound()
		if !hasAny {
			bound, hasAny = b, true
		} else {
			bound = bound.Union(b)
		}
	}
	slices.Sort(s.GeometryTypes)

	if hasAny {
		s.BBox = []float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]}
	}

	return s, nil
}

// HasPositions reports whether g holds at least one position.
func HasPositions(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.Point:
		return true
	case orb.LineString:
		return len(g) > 0
	case orb.MultiPoint:
		return len(g) > 0
	case orb.Ring:
		return len(g) > 0
	case orb.Polygon:
		for _, r := range g {
			if len(r) > 0 {
				return true
			}
		}
	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) > 0 {
				return true
			}
		}
	case orb.MultiPolygon:
		for _, p := range g {
			if HasPositions(p) {
				return true
			}
		}
	case orb.Collection:
		for _, c := range g {
			if HasPositions(c) {
				return true
			}
		}
	}
	return false
}
