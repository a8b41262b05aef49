// Package processor runs the upload pipeline: the file is parsed and
// transformed once, and every view is derived from that single result.
package processor

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/woozymasta/geotweak/internal/export"
	"github.com/woozymasta/geotweak/internal/geo"
	"github.com/woozymasta/geotweak/internal/loader"
	"github.com/woozymasta/geotweak/internal/preview"
	"github.com/woozymasta/geotweak/internal/table"
	"github.com/woozymasta/geotweak/internal/transform"

	"github.com/rs/zerolog"
)

// Options is everything a client selects for one upload.
type Options struct {
	transform.Options
	// EmitDownload adds the download payload to the combined report.
	EmitDownload bool `json:"emit_download,omitempty"`
}

// Pipeline holds the settings shared by every request.
type Pipeline struct {
	Exporter *export.Exporter
	Loader   loader.Options
	Preview  preview.Options
}

// Result is the transformed collection of one upload.
type Result struct {
	Collection *geo.FeatureCollection
	Filename   string
	pipeline   *Pipeline
}

// Run loads data as filename and applies opts.
func (p *Pipeline) Run(ctx context.Context, data []byte, filename string, opts transform.Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	fc, err := loader.Load(data, filename, p.Loader)
	if err != nil {
		return nil, err
	}

	fc, err = transform.Transform(fc, opts)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("file", filename).
		Int("bytes", len(data)).
		Int("features", len(fc.Features)).
		Str("sort", opts.SortProperty).
		Bool("descending", opts.SortDescending).
		Bool("polygons", opts.ConvertLineStrings).
		Dur("duration", time.Since(start)).
		Msg("Upload processed")

	return &Result{Collection: fc, Filename: filename, pipeline: p}, nil
}

// Table returns the tabular view.
func (r *Result) Table() (*table.Table, error) {
	return table.Project(r.Collection)
}

// Summary returns the collection summary.
func (r *Result) Summary() (*geo.Summary, error) {
	return geo.Summarize(r.Collection)
}

// Export returns the download payload.
func (r *Result) Export() (*export.Result, error) {
	exporter := r.pipeline.Exporter
	if exporter == nil {
		exporter = &export.Exporter{}
	}
	return exporter.Export(r.Collection, r.Filename)
}

// Preview writes the WebP map preview to w.
func (r *Result) Preview(w io.Writer) error {
	return preview.Render(w, r.Collection, r.pipeline.Preview)
}

// Download is the export payload embedded in a report.
type Download struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Report bundles the map, table and summary views, plus the download when requested.
// A view that cannot be built is left out and its error recorded under the view name.
type Report struct {
	GeoJSON  *geo.FeatureCollection `json:"geojson"`
	Table    *table.Table           `json:"table,omitempty"`
	Summary  *geo.Summary           `json:"summary,omitempty"`
	Download *Download              `json:"download,omitempty"`
	Errors   map[string]string      `json:"errors,omitempty"`
}

// Report builds the combined view. Errors other than an empty or
// featureless collection abort the report.
func (r *Result) Report(emitDownload bool) (*Report, error) {
	rep := &Report{GeoJSON: r.Collection}

	viewErr := func(view string, err error) error {
		if errors.Is(err, geo.ErrEmptyCollection) || errors.Is(err, geo.ErrMissingFeatures) {
			if rep.Errors == nil {
				rep.Errors = make(map[string]string)
			}
			rep.Errors[view] = err.Error()
			return nil
		}
		return err
	}

	var err error
	if rep.Table, err = r.Table(); err != nil {
		if err = viewErr("table", err); err != nil {
			return nil, err
		}
	}
	if rep.Summary, err = r.Summary(); err != nil {
		if err = viewErr("summary", err); err != nil {
			return nil, err
		}
	}

	if emitDownload {
		res, err := r.Export()
		if err != nil {
			return nil, err
		}
		rep.Download = &Download{
			Filename:    res.Filename,
			ContentType: res.ContentType,
			Content:     string(res.Content),
		}
	}

	return rep, nil
}
