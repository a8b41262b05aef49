package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureCollectionKeepsOrderAndForeignMembers(t *testing.T) {
	input := `{
		"type": "FeatureCollection",
		"name": "trails",
		"features": [{
			"type": "Feature",
			"id": 7,
			"geometry": {"type": "Point", "coordinates": [1.5, 2, 3]},
			"properties": {"z": "1", "a": 2.50, "m": null, "b": true},
			"bbox": [1.5, 2, 1.5, 2]
		}]
	}`

	var fc FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(input), &fc))

	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, json.Number("7"), f.ID)
	assert.Equal(t, Point{Coordinates: Position{1.5, 2, 3}}, f.Geometry)
	assert.Equal(t, []string{"z", "a", "m", "b"}, f.Properties.Keys())

	a, ok := f.Properties.Get("a")
	require.True(t, ok)
	assert.Equal(t, json.Number("2.50"), a)

	require.Len(t, fc.Foreign, 1)
	assert.Equal(t, "name", fc.Foreign[0].Key)
	assert.JSONEq(t, `"trails"`, string(fc.Foreign[0].Value))

	out, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"FeatureCollection","name":"trails","features":[{"type":"Feature","id":7,`+
			`"geometry":{"type":"Point","coordinates":[1.5,2,3]},`+
			`"properties":{"z":"1","a":2.50,"m":null,"b":true},"bbox":[1.5,2,1.5,2]}]}`,
		string(out))
}

func TestSourceKeyOrderSurvives(t *testing.T) {
	input := `{"name":"walks","features":[{"properties":{"n":1},"id":"a",` +
		`"geometry":{"coordinates":[1,2],"bbox":[1,2,1,2],"type":"Point"},"type":"Feature"}],"type":"FeatureCollection"}`

	var fc FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(input), &fc))
	assert.Equal(t, []string{"name", "features", "type"}, fc.Layout)

	out, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestLayoutAddsMissingStandardMembers(t *testing.T) {
	var f Feature
	require.NoError(t, json.Unmarshal([]byte(`{"bbox":[0,0,1,1],"id":null,"properties":{}}`), &f))
	assert.Nil(t, f.ID)
	assert.Equal(t, []string{"bbox", "properties", "type", "geometry"}, f.Layout)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"bbox":[0,0,1,1],"properties":{},"type":"Feature","geometry":null}`, string(out))
}

func TestGeometryKeepsForeignMembers(t *testing.T) {
	input := `{"type":"LineString","coordinates":[[0,0],[1,1]],"bbox":[0,0,1,1]}`

	g, err := UnmarshalGeometry([]byte(input))
	require.NoError(t, err)

	ls, ok := g.(LineString)
	require.True(t, ok)
	require.Len(t, ls.Foreign, 1)
	assert.Equal(t, "bbox", ls.Foreign[0].Key)
	assert.Nil(t, ls.Layout)

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))

	nested := `{"bbox":[5,6,5,6],"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[5,6],"crs":null}]}`
	g, err = UnmarshalGeometry([]byte(nested))
	require.NoError(t, err)
	out, err = json.Marshal(g)
	require.NoError(t, err)
	assert.Equal(t, nested, string(out))
}

func TestFeatureCollectionMissingFeatures(t *testing.T) {
	var fc FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(`{"type":"FeatureCollection"}`), &fc))

	_, err := fc.FeatureList()
	assert.ErrorIs(t, err, ErrMissingFeatures)

	out, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection"}`, string(out))
}

func TestFeatureCollectionEmptyFeatures(t *testing.T) {
	var fc FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(`{"features":[]}`), &fc))

	features, err := fc.FeatureList()
	require.NoError(t, err)
	assert.Empty(t, features)

	out, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection","features":[]}`, string(out))
}

func TestFeatureCollectionRejectsNonObjects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Array", `[1, 2]`},
		{"Features Not Array", `{"features": "nope"}`},
		{"Feature Not Object", `{"features": [42]}`},
		{"Bad Coordinates", `{"features": [{"geometry": {"type": "Point", "coordinates": "x"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fc FeatureCollection
			assert.Error(t, json.Unmarshal([]byte(tt.input), &fc))
		})
	}
}

func TestGeometryVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Geometry
	}{
		{"Null", `null`, nil},
		{"Point", `{"type":"Point","coordinates":[1,2]}`, Point{Coordinates: Position{1, 2}}},
		{"LineString", `{"type":"LineString","coordinates":[[0,0],[1,1]]}`,
			LineString{Coordinates: []Position{{0, 0}, {1, 1}}}},
		{"Polygon", `{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,0]]]}`,
			Polygon{Coordinates: [][]Position{{{0, 0}, {1, 0}, {0, 0}}}}},
		{"MultiPoint", `{"type":"MultiPoint","coordinates":[[0,0]]}`,
			MultiPoint{Coordinates: []Position{{0, 0}}}},
		{"MultiLineString", `{"type":"MultiLineString","coordinates":[[[0,0],[1,1]]]}`,
			MultiLineString{Coordinates: [][]Position{{{0, 0}, {1, 1}}}}},
		{"MultiPolygon", `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[0,0]]]]}`,
			MultiPolygon{Coordinates: [][][]Position{{{{0, 0}, {1, 0}, {0, 0}}}}}},
		{"GeometryCollection", `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[5,6]}]}`,
			GeometryCollection{Geometries: []Geometry{Point{Coordinates: Position{5, 6}}}}},
		{"Unknown Tag", `{"type": "Circle", "radius": 3}`,
			RawGeometry{Tag: "Circle", Raw: json.RawMessage(`{"type":"Circle","radius":3}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalGeometry([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			if got == nil {
				return
			}
			out, err := json.Marshal(got)
			require.NoError(t, err)
			again, err := UnmarshalGeometry(out)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	var p Properties
	p.Set("note", "<b>A & B</b>")
	fc := NewFeatureCollection(Feature{Properties: p})

	out, err := marshalValue(fc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"note":"<b>A & B</b>"`)
	assert.Contains(t, string(out), `"geometry":null`)
}
