// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/woozymasta/geotweak/internal/geo"
	"github.com/woozymasta/geotweak/internal/preview"
	"github.com/woozymasta/geotweak/internal/processor"
	"github.com/woozymasta/geotweak/internal/table"

	"github.com/rs/zerolog"
)

// GeoJSONContentType is served for the map view.
const GeoJSONContentType = "application/geo+json"

// Routes registers every endpoint and wraps them with the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/geojson", s.HandleGeoJSON)
	mux.HandleFunc("POST /api/table", s.HandleTable)
	mux.HandleFunc("POST /api/download", s.HandleDownload)
	mux.HandleFunc("POST /api/summary", s.HandleSummary)
	mux.HandleFunc("POST /api/preview.webp", s.HandlePreview)
	mux.HandleFunc("POST /api/process", s.HandleProcess)
	mux.HandleFunc("GET /healthz", s.HandleHealth)

	return RequestLogger(mux)
}

// HandleGeoJSON serves the transformed collection. Without a file it serves an empty collection.
func (s *ServerContext) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	res, ok := s.process(w, r)
	if !ok {
		return
	}

	fc := geo.NewFeatureCollection()
	if res != nil {
		fc = res.Collection
	}
	writeJSON(w, r, http.StatusOK, GeoJSONContentType, fc)
}

// HandleTable serves the properties table. Without a file it serves a placeholder.
func (s *ServerContext) HandleTable(w http.ResponseWriter, r *http.Request) {
	res, ok := s.process(w, r)
	if !ok {
		return
	}
	if res == nil {
		writeJSON(w, r, http.StatusOK, "", table.Placeholder())
		return
	}

	t, err := res.Table()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, "", t)
}

// HandleDownload serves the transformed collection as an attachment.
func (s *ServerContext) HandleDownload(w http.ResponseWriter, r *http.Request) {
	res, ok := s.process(w, r)
	if !ok {
		return
	}
	if res == nil {
		writeError(w, r, errNoFile)
		return
	}

	out, err := res.Export()
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Content)
}

// HandleSummary serves the collection summary.
func (s *ServerContext) HandleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.process(w, r)
	if !ok {
		return
	}

	var (
		summary *geo.Summary
		err     error
	)
	if res == nil {
		summary, err = geo.Summarize(geo.NewFeatureCollection())
	} else {
		summary, err = res.Summary()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, "", summary)
}

// HandlePreview serves a WebP rendering of the collection. Without a file the canvas is blank.
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	res, ok := s.process(w, r)
	if !ok {
		return
	}

	var (
		buf bytes.Buffer
		err error
	)
	if res == nil {
		err = preview.Render(&buf, geo.NewFeatureCollection(), s.Pipeline.Preview)
	} else {
		err = res.Preview(&buf)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", preview.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleProcess serves every view of one upload in a single response.
func (s *ServerContext) HandleProcess(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if errors.Is(err, errNoFile) {
		writeJSON(w, r, http.StatusOK, "", &processor.Report{
			GeoJSON: geo.NewFeatureCollection(),
			Table:   table.Placeholder(),
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.Pipeline.Run(r.Context(), up.Data, up.Filename, up.Options.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := res.Report(up.Options.EmitDownload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, "", report)
}

// HandleHealth reports liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, "", map[string]string{"status": "ok"})
}

// process reads the upload and runs the pipeline. A nil result with ok set
// means no file was uploaded; on failure the error response is already written.
func (s *ServerContext) process(w http.ResponseWriter, r *http.Request) (*processor.Result, bool) {
	up, err := s.readUpload(w, r)
	if errors.Is(err, errNoFile) {
		return nil, true
	}
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}

	res, err := s.Pipeline.Run(r.Context(), up.Data, up.Filename, up.Options.Options)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return res, true
}

// writeJSON encodes v without HTML escaping so property text is served as uploaded.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, contentType string, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_, _ = w.Write(buf.Bytes())
}
