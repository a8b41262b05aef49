package server

import (
	"errors"
	"net/http"

	"github.com/woozymasta/geotweak/internal/geo"

	"github.com/rs/zerolog"
)

var errBadRequest = errors.New("bad request")

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error to its HTTP status and a stable kind for clients.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, errNoFile):
		return http.StatusBadRequest, "no_file"
	case errors.Is(err, errNotMultipart):
		return http.StatusUnsupportedMediaType, "not_multipart"
	case errors.Is(err, errBadOption):
		return http.StatusBadRequest, "bad_option"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, geo.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "unsupported_format"
	case errors.Is(err, geo.ErrMalformedInput):
		return http.StatusBadRequest, "malformed_input"
	case errors.Is(err, geo.ErrMissingFeatures):
		return http.StatusUnprocessableEntity, "missing_features"
	case errors.Is(err, geo.ErrMissingProperty):
		return http.StatusUnprocessableEntity, "missing_property"
	case errors.Is(err, geo.ErrEmptyCollection):
		return http.StatusUnprocessableEntity, "empty_collection"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)

	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("kind", kind).Int("status", status).Msg("Request failed")

	writeJSON(w, r, status, "", errorResponse{Error: err.Error(), Kind: kind})
}
