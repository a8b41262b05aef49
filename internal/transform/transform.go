// Package transform reorders features and coerces line geometries into polygons.
package transform

import (
	"github.com/woozymasta/geotweak/internal/geo"

	"github.com/rs/zerolog/log"
)

// Options selects the transformations to apply. The zero value changes nothing.
type Options struct {
	// SortProperty is the property to order features by; empty leaves the order alone.
	SortProperty string `yaml:"sort_property" json:"sort_property,omitempty"`
	// SortDescending reverses the sort direction; ties keep their input order either way.
	SortDescending bool `yaml:"sort_descending" json:"sort_descending,omitempty"`
	// ConvertLineStrings turns every LineString into a closed single-ring Polygon.
	ConvertLineStrings bool `yaml:"convert_linestrings" json:"convert_linestrings,omitempty"`
}

// Transform applies opts to fc in place and returns it. The feature count,
// ids and properties never change. Sorting fails with geo.ErrMissingProperty
// when a feature lacks the sort property.
func Transform(fc *geo.FeatureCollection, opts Options) (*geo.FeatureCollection, error) {
	if opts.SortProperty == "" && !opts.ConvertLineStrings {
		return fc, nil
	}

	features, err := fc.FeatureList()
	if err != nil {
		return nil, err
	}

	if opts.SortProperty != "" {
		mode, err := SortFeatures(features, opts.SortProperty, opts.SortDescending)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("property", opts.SortProperty).
			Bool("descending", opts.SortDescending).
			Stringer("mode", mode).
			Int("features", len(features)).
			Msg("Features sorted")
	}

	if opts.ConvertLineStrings {
		converted := 0
		for i := range features {
			if _, ok := features[i].Geometry.(geo.LineString); ok {
				converted++
			}
			features[i].Geometry = CoerceGeometry(features[i].Geometry)
		}
		log.Debug().
			Int("converted", converted).
			Msg("LineStrings converted to polygons")
	}

	return fc, nil
}
