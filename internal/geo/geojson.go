// Package geo holds the GeoJSON feature model shared by the loader, the
// transformer and the views built on top of them.
package geo

import (
	"encoding/json"
	"fmt"
)

// Fixed GeoJSON object tags.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
)

var (
	collectionSchema = objectSchema{
		canonical: []string{"type", "features"},
		always:    []string{"type"},
		omitNull:  []string{"features"},
	}
	featureSchema = objectSchema{
		canonical: []string{"type", "id", "geometry", "properties"},
		always:    []string{"type", "geometry", "properties"},
		omitNull:  []string{"id"},
	}
)

// FeatureCollection represents a collection of geographic features.
// Features is nil when the source document had no features member.
type FeatureCollection struct {
	Features []Feature
	Members
}

// Feature represents a single geographic feature with geometry and properties.
// ID is a string, a json.Number or nil when absent. Geometry is nil for a null geometry.
type Feature struct {
	ID         any
	Geometry   Geometry
	Properties Properties
	Members
}

// NewFeatureCollection returns a collection holding features; it never has a missing features member.
func NewFeatureCollection(features ...Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Features: features}
}

// FeatureList returns the features or ErrMissingFeatures when the member was absent.
func (fc *FeatureCollection) FeatureList() ([]Feature, error) {
	if fc == nil || fc.Features == nil {
		return nil, ErrMissingFeatures
	}
	return fc.Features, nil
}

// MarshalJSON implements json.Marshaler. Members keep their source order;
// collections built in code list the standard members first.
func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	fields := []objectField{{"type", TypeFeatureCollection}}
	if fc.Features != nil {
		fields = append(fields, objectField{"features", fc.Features})
	}

	var w objectWriter
	w.object(fields, fc.Members)
	return w.bytes()
}

// UnmarshalJSON implements json.Unmarshaler. It performs no schema validation:
// the type member is not checked and a missing features member is kept as nil.
func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	*fc = FeatureCollection{}
	if isNull(data) {
		return nil
	}

	members, err := decodeMembers(data)
	if err != nil {
		return err
	}

	var std []Member
	std, fc.Members = collectionSchema.split(members)
	for _, m := range std {
		switch m.Key {
		case "features":
			var features []Feature
			if err := json.Unmarshal(m.Value, &features); err != nil {
				return fmt.Errorf("features: %w", err)
			}
			if features == nil {
				features = []Feature{}
			}
			fc.Features = features
		}
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Feature) MarshalJSON() ([]byte, error) {
	fields := []objectField{{"type", TypeFeature}}
	if f.ID != nil {
		fields = append(fields, objectField{"id", f.ID})
	}
	if f.Geometry == nil {
		fields = append(fields, objectField{"geometry", json.RawMessage("null")})
	} else {
		fields = append(fields, objectField{"geometry", f.Geometry})
	}
	fields = append(fields, objectField{"properties", f.Properties})

	var w objectWriter
	w.object(fields, f.Members)
	return w.bytes()
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feature) UnmarshalJSON(data []byte) error {
	*f = Feature{}

	members, err := decodeMembers(data)
	if err != nil {
		return fmt.Errorf("feature: %w", err)
	}

	var std []Member
	std, f.Members = featureSchema.split(members)
	for _, m := range std {
		switch m.Key {
		case "id":
			id, err := decodeValue(m.Value)
			if err != nil {
				return fmt.Errorf("feature id: %w", err)
			}
			f.ID = id
		case "geometry":
			g, err := UnmarshalGeometry(m.Value)
			if err != nil {
				return err
			}
			f.Geometry = g
		case "properties":
			if err := json.Unmarshal(m.Value, &f.Properties); err != nil {
				return err
			}
		}
	}

	return nil
}
