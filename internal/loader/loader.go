// Package loader turns uploaded GeoJSON or KML bytes into a feature collection.
package loader

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/woozymasta/geotweak/internal/geo"

	"github.com/rs/zerolog/log"
)

// Supported filename extensions. Matching is case-sensitive.
const (
	ExtJSON = ".json"
	ExtKML  = ".kml"
)

// Options tunes format conversion.
type Options struct {
	// SeparateFolders converts every KML folder into its own layer.
	// Only the first layer is ever returned.
	SeparateFolders bool `yaml:"separate_folders"`
}

// Load detects the format from the filename extension and parses data.
// GeoJSON is not validated beyond JSON syntax; a document without a features
// member loads fine and fails later with geo.ErrMissingFeatures.
func Load(data []byte, filename string, opts Options) (*geo.FeatureCollection, error) {
	switch {
	case strings.HasSuffix(filename, ExtJSON):
		return loadJSON(data, filename)
	case strings.HasSuffix(filename, ExtKML):
		return loadKML(data, filename, opts)
	default:
		return nil, fmt.Errorf("%w: %q, expected %s or %s", geo.ErrUnsupportedFormat, filename, ExtJSON, ExtKML)
	}
}

func loadJSON(data []byte, filename string) (*geo.FeatureCollection, error) {
	var fc geo.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", geo.ErrMalformedInput, filename, err)
	}

	log.Debug().
		Str("file", filename).
		Int("features", len(fc.Features)).
		Bool("has_features", fc.Features != nil).
		Msg("GeoJSON loaded")

	return &fc, nil
}

func loadKML(data []byte, filename string, opts Options) (*geo.FeatureCollection, error) {
	layers, err := convertKML(data, opts.SeparateFolders)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", geo.ErrMalformedInput, filename, err)
	}

	if len(layers) > 1 {
		log.Debug().
			Str("file", filename).
			Int("layers", len(layers)).
			Msg("KML converted to several layers, keeping the first")
	}

	log.Debug().
		Str("file", filename).
		Int("features", len(layers[0].Features)).
		Msg("KML loaded")

	return layers[0], nil
}
