package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/geotweak/internal/processor"
)

// Multipart form fields of an upload.
const (
	FieldFile               = "file"
	FieldSortProperty       = "sort_property"
	FieldSortOrder          = "sort_order"
	FieldConvertLineStrings = "convert_linestrings"
	FieldEmitDownload       = "emit_download"
)

// multipartMemory is the part of an upload kept in memory before spilling to disk.
const multipartMemory = 8 << 20

var (
	errNoFile       = errors.New("no file uploaded")
	errBadOption    = errors.New("invalid option")
	errNotMultipart = errors.New("request is not multipart/form-data")
)

// upload is a parsed request: the file and the selected options.
type upload struct {
	Filename string
	Data     []byte
	Options  processor.Options
}

// readUpload parses the multipart request. A request without a file returns errNoFile.
func (s *ServerContext) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, errNotMultipart
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.Config.MaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		return nil, err
	}

	file, header, err := r.FormFile(FieldFile)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		return nil, errNoFile
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return &upload{Filename: header.Filename, Data: data, Options: opts}, nil
}

// parseOptions reads the option fields; absent fields keep the configured defaults.
func (s *ServerContext) parseOptions(r *http.Request) (processor.Options, error) {
	opts := processor.Options{Options: s.Config.Defaults}

	if values, ok := r.MultipartForm.Value[FieldSortProperty]; ok && len(values) > 0 {
		opts.SortProperty = values[0]
	}

	switch order := strings.ToLower(strings.TrimSpace(r.FormValue(FieldSortOrder))); order {
	case "":
	case "asc", "ascending":
		opts.SortDescending = false
	case "desc", "descending":
		opts.SortDescending = true
	default:
		return opts, fmt.Errorf("%w: %s=%q", errBadOption, FieldSortOrder, order)
	}

	var err error
	if opts.ConvertLineStrings, err = formBool(r, FieldConvertLineStrings, opts.ConvertLineStrings); err != nil {
		return opts, err
	}
	if opts.EmitDownload, err = formBool(r, FieldEmitDownload, false); err != nil {
		return opts, err
	}

	return opts, nil
}

// formBool parses a checkbox style field; "on" counts as true.
func formBool(r *http.Request, field string, fallback bool) (bool, error) {
	value := strings.TrimSpace(r.FormValue(field))
	switch strings.ToLower(value) {
	case "":
		return fallback, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q", errBadOption, field, value)
	}
	return b, nil
}
