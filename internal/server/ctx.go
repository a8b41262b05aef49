package server

import (
	"github.com/woozymasta/geotweak/internal/config"
	"github.com/woozymasta/geotweak/internal/export"
	"github.com/woozymasta/geotweak/internal/processor"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config   *config.Config
	Pipeline *processor.Pipeline
}

// NewServerContext builds the processing pipeline from the configuration.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	pipeline := &processor.Pipeline{
		Exporter: &export.Exporter{Location: loc, Indent: cfg.Export.Indent},
		Loader:   cfg.KML,
		Preview:  cfg.Preview,
	}

	log.Info().
		Int("max_upload_mb", cfg.MaxUploadMB).
		Str("timezone", loc.String()).
		Bool("kml_separate_folders", cfg.KML.SeparateFolders).
		Str("default_sort", cfg.Defaults.SortProperty).
		Msg("Server context initialized successfully")

	return &ServerContext{Config: cfg, Pipeline: pipeline}, nil
}
