// Package export serializes a feature collection into a downloadable GeoJSON file.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/woozymasta/geotweak/internal/geo"
)

const (
	// ContentType of exported files.
	ContentType = "application/json"
	// FilenameMarker separates the source stem from the export timestamp.
	FilenameMarker = "_vkt_"
	// TimestampLayout renders the export time as YYYYMMDD_HHMM.
	TimestampLayout = "20060102_1504"
)

// sourceSuffixes are stripped from the uploaded filename, at most one of them.
var sourceSuffixes = []string{".json", ".kml"}

// Result is a ready to serve download.
type Result struct {
	Content     []byte
	Filename    string
	ContentType string
}

// Exporter renders collections as GeoJSON files.
type Exporter struct {
	// Now returns the export time; time.Now when nil.
	Now func() time.Time
	// Location the timestamp is rendered in; time.Local when nil.
	Location *time.Location
	// Indent pretty-prints the content with this indent when set.
	Indent string
}

// Export serializes fc and names the file after originalFilename.
func (e *Exporter) Export(fc *geo.FeatureCollection, originalFilename string) (*Result, error) {
	content, err := Marshal(fc, e.Indent)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:     content,
		Filename:    Filename(originalFilename, e.now()),
		ContentType: ContentType,
	}, nil
}

func (e *Exporter) now() time.Time {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	loc := e.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Marshal encodes fc as GeoJSON without HTML escaping. An empty indent gives compact output.
func Marshal(fc *geo.FeatureCollection, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(fc); err != nil {
		return nil, fmt.Errorf("encode feature collection: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Filename derives the download name {stem}_vkt_{YYYYMMDD_HHMM}.json, where stem is
// original without one trailing .json or .kml suffix. Matching is case-sensitive.
func Filename(original string, at time.Time) string {
	stem := original
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(stem, suffix) {
			stem = strings.TrimSuffix(stem, suffix)
			break
		}
	}
	return stem + FilenameMarker + at.Format(TimestampLayout) + ".json"
}
