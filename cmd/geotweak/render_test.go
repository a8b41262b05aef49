package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/woozymasta/geotweak/internal/export"
	"github.com/woozymasta/geotweak/internal/processor"
	"github.com/woozymasta/geotweak/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routeKML = `<kml><Document><name>Route</name>
<Placemark id="s"><name>Start</name><ExtendedData><Data name="km"><value>0</value></Data></ExtendedData><Point><coordinates>1,2</coordinates></Point></Placemark>
<Placemark id="e"><name>Loop</name><ExtendedData><Data name="km"><value>12.5</value></Data></ExtendedData><LineString><coordinates>1,2 3,4 5,2</coordinates></LineString></Placemark>
</Document></kml>`

func runRoute(t *testing.T, opts transform.Options) *processor.Result {
	t.Helper()

	p := &processor.Pipeline{Exporter: &export.Exporter{
		Now:      func() time.Time { return time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC) },
		Location: time.UTC,
	}}
	res, err := p.Run(context.Background(), []byte(routeKML), "route.kml", opts)
	require.NoError(t, err)
	return res
}

func TestRenderGeoJSON(t *testing.T) {
	res := runRoute(t, transform.Options{ConvertLineStrings: true})

	out, name, err := render(res, "geojson", "json", "")
	require.NoError(t, err)
	assert.Equal(t, "route_vkt_20240305_1407.json", name)
	assert.Contains(t, string(out), `"type":"Polygon"`)

	out, name, err = render(res, "geojson", "yaml", "")
	require.NoError(t, err)
	assert.Equal(t, "route_vkt_20240305_1407.yaml", name)
	assert.Contains(t, string(out), "type: FeatureCollection")
}

func TestRenderTable(t *testing.T) {
	res := runRoute(t, transform.Options{SortProperty: "km", SortDescending: true})

	out, name, err := render(res, "table", "json", "")
	require.NoError(t, err)
	assert.Empty(t, name)

	text := string(out)
	for _, cell := range []string{"id", "name", "km", "Loop", "12.5", "Start"} {
		assert.Contains(t, text, cell)
	}
	assert.Less(t, strings.Index(text, "Loop"), strings.Index(text, "Start"))
}

func TestRenderSummary(t *testing.T) {
	res := runRoute(t, transform.Options{})

	out, _, err := render(res, "summary", "json", "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"property_keys":["name","km"],"geometry_types":["LineString","Point"],"bbox":[1,2,5,4],"feature_count":2}`, string(out))

	out, _, err = render(res, "summary", "yaml", "")
	require.NoError(t, err)
	assert.Contains(t, string(out), "feature_count: 2")
	assert.Contains(t, string(out), "property_keys: [name, km]")
}

func TestTransformOptionsOverlayDefaults(t *testing.T) {
	defaults := transform.Options{SortProperty: "km", ConvertLineStrings: true}

	assert.Equal(t, defaults, transformOptions(defaults, Options{}))
	assert.Equal(t,
		transform.Options{SortProperty: "name", SortDescending: true, ConvertLineStrings: true},
		transformOptions(defaults, Options{Sort: "name", Desc: true}),
	)
}
