package geo

import (
	"encoding/json"
	"fmt"
	"slices"
)

// GeometryType is the GeoJSON geometry tag.
type GeometryType string

// Known geometry tags.
const (
	TypePoint              GeometryType = "Point"
	TypeLineString         GeometryType = "LineString"
	TypePolygon            GeometryType = "Polygon"
	TypeMultiPoint         GeometryType = "MultiPoint"
	TypeMultiLineString    GeometryType = "MultiLineString"
	TypeMultiPolygon       GeometryType = "MultiPolygon"
	TypeGeometryCollection GeometryType = "GeometryCollection"
)

// Position is a single coordinate tuple: [lon, lat] or [lon, lat, alt].
type Position []float64

// Equal reports whether both positions have the same components.
func (p Position) Equal(other Position) bool {
	return slices.Equal(p, other)
}

// Geometry is one of Point, LineString, Polygon, MultiPoint, MultiLineString,
// MultiPolygon, GeometryCollection or RawGeometry.
type Geometry interface {
	Type() GeometryType
}

var (
	shapeSchema = objectSchema{
		canonical: []string{"type", "coordinates"},
		always:    []string{"type", "coordinates"},
	}
	collectionGeometrySchema = objectSchema{
		canonical: []string{"type", "geometries"},
		always:    []string{"type", "geometries"},
	}
)

// Point geometry. Members carries extra geometry members such as bbox.
type Point struct {
	Coordinates Position
	Members
}

// LineString geometry.
type LineString struct {
	Coordinates []Position
	Members
}

// Polygon geometry; each ring is a closed position sequence, the first one is the shell.
type Polygon struct {
	Coordinates [][]Position
	Members
}

// MultiPoint geometry.
type MultiPoint struct {
	Coordinates []Position
	Members
}

// MultiLineString geometry.
type MultiLineString struct {
	Coordinates [][]Position
	Members
}

// MultiPolygon geometry.
type MultiPolygon struct {
	Coordinates [][][]Position
	Members
}

// GeometryCollection groups heterogeneous geometries.
type GeometryCollection struct {
	Geometries []Geometry
	Members
}

// RawGeometry carries a geometry with an unrecognised tag through unchanged.
type RawGeometry struct {
	Tag GeometryType
	Raw json.RawMessage
}

func (Point) Type() GeometryType              { return TypePoint }
func (LineString) Type() GeometryType         { return TypeLineString }
func (Polygon) Type() GeometryType            { return TypePolygon }
func (MultiPoint) Type() GeometryType         { return TypeMultiPoint }
func (MultiLineString) Type() GeometryType    { return TypeMultiLineString }
func (MultiPolygon) Type() GeometryType       { return TypeMultiPolygon }
func (GeometryCollection) Type() GeometryType { return TypeGeometryCollection }
func (g RawGeometry) Type() GeometryType      { return g.Tag }

func (g Point) MarshalJSON() ([]byte, error) {
	return marshalCoordinates(g.Type(), g.Coordinates, g.Members)
}

func (g LineString) MarshalJSON() ([]byte, error) {
	return marshalCoordinates(g.Type(), g.Coordinates, g.Members)
}

func (g Polygon) MarshalJSON() ([]byte, error) {
	return marshalCoordinates(g.Type(), g.Coordinates, g.Members)
}

func (g MultiPoint) MarshalJSON() ([]byte, error) {
	return marshalCoordinates(g.Type(), g.Coordinates, g.Members)
}

func (g MultiLineString) MarshalJSON() ([]byte, error) {
	return marshalCoordinates(g.Type(), g.Coordinates, g.Members)
}

func (g MultiPolygon) MarshalJSON() ([]byte, error) {
	return marshalCoordinates(g.Type(), g.Coordinates, g.Members)
}

// MarshalJSON implements json.Marshaler.
func (g GeometryCollection) MarshalJSON() ([]byte, error) {
	geometries := g.Geometries
	if geometries == nil {
		geometries = []Geometry{}
	}

	var w objectWriter
	w.object([]objectField{{"type", g.Type()}, {"geometries", geometries}}, g.Members)
	return w.bytes()
}

// MarshalJSON implements json.Marshaler.
func (g RawGeometry) MarshalJSON() ([]byte, error) {
	if len(g.Raw) == 0 {
		return []byte("null"), nil
	}
	return g.Raw, nil
}

func marshalCoordinates(tag GeometryType, coordinates any, extra Members) ([]byte, error) {
	var w objectWriter
	w.object([]objectField{{"type", tag}, {"coordinates", coordinates}}, extra)
	return w.bytes()
}

// UnmarshalGeometry decodes a GeoJSON geometry object. JSON null yields a nil
// Geometry. Members other than type, coordinates and geometries are kept.
func UnmarshalGeometry(data []byte) (Geometry, error) {
	if isNull(data) {
		return nil, nil
	}

	members, err := decodeMembers(data)
	if err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}

	var tag GeometryType
	for _, m := range members {
		if m.Key != "type" {
			continue
		}
		if err := json.Unmarshal(m.Value, &tag); err != nil {
			return nil, fmt.Errorf("geometry type: %w", err)
		}
	}

	switch tag {
	case TypePoint, TypeLineString, TypePolygon, TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon:
		std, extra := shapeSchema.split(members)
		return decodeShape(tag, memberValue(std, "coordinates"), extra)
	case TypeGeometryCollection:
		std, extra := collectionGeometrySchema.split(members)
		var raws []json.RawMessage
		if raw := memberValue(std, "geometries"); !isNull(raw) {
			if err := json.Unmarshal(raw, &raws); err != nil {
				return nil, fmt.Errorf("geometries: %w", err)
			}
		}
		g := GeometryCollection{Geometries: make([]Geometry, 0, len(raws)), Members: extra}
		for i, raw := range raws {
			member, err := UnmarshalGeometry(raw)
			if err != nil {
				return nil, fmt.Errorf("geometries[%d]: %w", i, err)
			}
			g.Geometries = append(g.Geometries, member)
		}
		return g, nil
	default:
		raw, err := compact(data)
		if err != nil {
			return nil, err
		}
		return RawGeometry{Tag: tag, Raw: raw}, nil
	}
}

func decodeShape(tag GeometryType, raw json.RawMessage, extra Members) (Geometry, error) {
	var (
		g   Geometry
		err error
	)
	switch tag {
	case TypePoint:
		p := Point{Members: extra}
		err = decodeCoordinates(raw, &p.Coordinates)
		g = p
	case TypeLineString:
		ls := LineString{Members: extra}
		err = decodeCoordinates(raw, &ls.Coordinates)
		g = ls
	case TypePolygon:
		p := Polygon{Members: extra}
		err = decodeCoordinates(raw, &p.Coordinates)
		g = p
	case TypeMultiPoint:
		mp := MultiPoint{Members: extra}
		err = decodeCoordinates(raw, &mp.Coordinates)
		g = mp
	case TypeMultiLineString:
		mls := MultiLineString{Members: extra}
		err = decodeCoordinates(raw, &mls.Coordinates)
		g = mls
	case TypeMultiPolygon:
		mp := MultiPolygon{Members: extra}
		err = decodeCoordinates(raw, &mp.Coordinates)
		g = mp
	}
	if err != nil {
		return nil, fmt.Errorf("%s coordinates: %w", tag, err)
	}
	return g, nil
}

// memberValue returns the value of the last member named key.
func memberValue(members []Member, key string) json.RawMessage {
	var value json.RawMessage
	for _, m := range members {
		if m.Key == key {
			value = m.Value
		}
	}
	return value
}

func decodeCoordinates(raw json.RawMessage, dst any) error {
	if isNull(raw) {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
