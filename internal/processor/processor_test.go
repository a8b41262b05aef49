package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/woozymasta/geotweak/internal/export"
	"github.com/woozymasta/geotweak/internal/geo"
	"github.com/woozymasta/geotweak/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trailKML = `<kml><Document><name>Trail</name>
  <Placemark id="a"><name>Ridge</name><ExtendedData><Data name="rank"><value>10</value></Data></ExtendedData>
    <LineString><coordinates>0,0 1,1 2,0</coordinates></LineString></Placemark>
  <Placemark id="b"><name>Hut</name><ExtendedData><Data name="rank"><value>2</value></Data></ExtendedData>
    <Point><coordinates>1,0.5</coordinates></Point></Placemark>
</Document></kml>`

func newPipeline() *Pipeline {
	return &Pipeline{
		Exporter: &export.Exporter{
			Now:      func() time.Time { return time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC) },
			Location: time.UTC,
		},
	}
}

func TestRunAndViews(t *testing.T) {
	res, err := newPipeline().Run(context.Background(), []byte(trailKML), "trail.kml",
		transform.Options{SortProperty: "rank", ConvertLineStrings: true})
	require.NoError(t, err)

	require.Len(t, res.Collection.Features, 2)
	assert.Equal(t, "b", res.Collection.Features[0].ID)
	assert.Equal(t, geo.TypePolygon, res.Collection.Features[1].Geometry.Type())

	tbl, err := res.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "rank"}, tbl.Header)
	assert.Equal(t, [][]string{{"b", "Hut", "2"}, {"a", "Ridge", "10"}}, tbl.Rows)

	summary, err := res.Summary()
	require.NoError(t, err)
	assert.Equal(t, []geo.GeometryType{geo.TypePoint, geo.TypePolygon}, summary.GeometryTypes)

	dl, err := res.Export()
	require.NoError(t, err)
	assert.Equal(t, "trail_vkt_20240305_1407.json", dl.Filename)

	var preview bytes.Buffer
	require.NoError(t, res.Preview(&preview))
	assert.NotZero(t, preview.Len())
}

func TestReport(t *testing.T) {
	res, err := newPipeline().Run(context.Background(), []byte(trailKML), "trail.kml", transform.Options{})
	require.NoError(t, err)

	without, err := res.Report(false)
	require.NoError(t, err)
	assert.Nil(t, without.Download)
	assert.Empty(t, without.Errors)

	with, err := res.Report(true)
	require.NoError(t, err)
	require.NotNil(t, with.Download)
	assert.Equal(t, "trail_vkt_20240305_1407.json", with.Download.Filename)
	assert.Equal(t, export.ContentType, with.Download.ContentType)

	var fc geo.FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(with.Download.Content), &fc))
	assert.Equal(t, res.Collection, &fc)
}

func TestReportRecordsEmptyViews(t *testing.T) {
	res, err := newPipeline().Run(context.Background(), []byte(`{"type":"FeatureCollection","features":[]}`), "empty.json", transform.Options{})
	require.NoError(t, err)

	rep, err := res.Report(false)
	require.NoError(t, err)
	assert.Nil(t, rep.Table)
	assert.Contains(t, rep.Errors, "table")
	require.NotNil(t, rep.Summary)
	assert.Equal(t, 0, rep.Summary.FeatureCount)
}

func TestRunPropagatesErrorKinds(t *testing.T) {
	p := newPipeline()

	_, err := p.Run(context.Background(), []byte(`{}`), "data.txt", transform.Options{})
	assert.ErrorIs(t, err, geo.ErrUnsupportedFormat)

	_, err = p.Run(context.Background(), []byte(`{`), "data.json", transform.Options{})
	assert.ErrorIs(t, err, geo.ErrMalformedInput)

	_, err = p.Run(context.Background(), []byte(trailKML), "trail.kml", transform.Options{SortProperty: "missing"})
	assert.ErrorIs(t, err, geo.ErrMissingProperty)

	_, err = p.Run(context.Background(), []byte(`{"type":"FeatureCollection"}`), "x.json", transform.Options{ConvertLineStrings: true})
	assert.ErrorIs(t, err, geo.ErrMissingFeatures)
}
