package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	var first Properties
	first.Set("name", "A")
	first.Set("rank", "1")

	fc := NewFeatureCollection(
		Feature{Geometry: Point{Coordinates: Position{1, 2, 100}}, Properties: first},
		Feature{Geometry: LineString{Coordinates: []Position{{0, 0}, {3, -1}}}},
		Feature{},
		Feature{Geometry: Point{Coordinates: Position{2, 1}}},
	)

	s, err := Summarize(fc)
	require.NoError(t, err)

	assert.Equal(t, 4, s.FeatureCount)
	assert.Equal(t, []string{"name", "rank"}, s.PropertyKeys)
	assert.Equal(t, []GeometryType{TypeLineString, TypePoint}, s.GeometryTypes)
	assert.Equal(t, []float64{0, -1, 3, 2}, s.BBox)
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(NewFeatureCollection())
	require.NoError(t, err)
	assert.Equal(t, 0, s.FeatureCount)
	assert.Empty(t, s.PropertyKeys)
	assert.Nil(t, s.BBox)

	_, err = Summarize(&FeatureCollection{})
	assert.ErrorIs(t, err, ErrMissingFeatures)
}

func TestToOrbDropsAltitude(t *testing.T) {
	g := Polygon{Coordinates: [][]Position{{{0, 0, 5}, {1, 0, 5}, {0, 1, 5}, {0, 0, 5}}}}

	og := ToOrb(g)
	assert.Equal(t, orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {0, 1}, {0, 0}}}, og)
	assert.Nil(t, ToOrb(nil))
	assert.Nil(t, ToOrb(RawGeometry{Tag: "Circle"}))
}

func TestToWebMercatorClampsPoles(t *testing.T) {
	north := ToWebMercator(orb.Point{0, 90})
	limit := ToWebMercator(orb.Point{0, MaxLat})
	assert.InDelta(t, limit[1], north[1], 1e-6)
	assert.Less(t, north[1], 2.1e7)
}
