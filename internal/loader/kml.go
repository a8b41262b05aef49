package loader

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/woozymasta/geotweak/internal/geo"
)

var errNotKML = errors.New("root element is not kml")

// commaSpace matches whitespace some writers put around tuple separators.
var commaSpace = regexp.MustCompile(`\s*,\s*`)

// Internal structures for XML parsing. Tags carry no namespace so both the
// KML 2.2 and the gx extension elements match by local name.

// kmlContainer is the kml root, a Document or a Folder. Children keep the
// order they appear in the document.
type kmlContainer struct {
	Name     string
	Children []kmlNode
}

// kmlNode is either a placemark or a nested container.
type kmlNode struct {
	Placemark *kmlPlacemark
	Container *kmlContainer
	Document  bool
}

// UnmarshalXML implements xml.Unmarshaler.
func (c *kmlContainer) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if err := d.DecodeElement(&c.Name, &t); err != nil {
					return err
				}
			case "Document", "Folder":
				child := new(kmlContainer)
				if err := d.DecodeElement(child, &t); err != nil {
					return err
				}
				c.Children = append(c.Children, kmlNode{Container: child, Document: t.Name.Local == "Document"})
			case "Placemark":
				pm := new(kmlPlacemark)
				if err := d.DecodeElement(pm, &t); err != nil {
					return err
				}
				c.Children = append(c.Children, kmlNode{Placemark: pm})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type kmlPlacemark struct {
	ID           string           `xml:"id,attr"`
	Name         string           `xml:"name"`
	Description  string           `xml:"description"`
	StyleURL     string           `xml:"styleUrl"`
	TimeStamp    *kmlTimeStamp    `xml:"TimeStamp"`
	TimeSpan     *kmlTimeSpan     `xml:"TimeSpan"`
	ExtendedData *kmlExtendedData `xml:"ExtendedData"`
	kmlGeometries
}

type kmlGeometries struct {
	Points        []kmlCoordinates `xml:"Point"`
	LineStrings   []kmlCoordinates `xml:"LineString"`
	LinearRings   []kmlCoordinates `xml:"LinearRing"`
	Polygons      []kmlPolygon     `xml:"Polygon"`
	MultiGeometry []kmlGeometries  `xml:"MultiGeometry"`
	Tracks        []kmlTrack       `xml:"Track"`
	MultiTracks   []kmlMultiTrack  `xml:"MultiTrack"`
}

type kmlCoordinates struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoordinates   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoordinates `xml:"innerBoundaryIs>LinearRing"`
}

type kmlTrack struct {
	Coords []string `xml:"coord"`
}

type kmlMultiTrack struct {
	Tracks []kmlTrack `xml:"Track"`
}

type kmlTimeStamp struct {
	When string `xml:"when"`
}

type kmlTimeSpan struct {
	Begin string `xml:"begin"`
	End   string `xml:"end"`
}

type kmlExtendedData struct {
	Data       []kmlData       `xml:"Data"`
	SchemaData []kmlSchemaData `xml:"SchemaData"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSchemaData struct {
	SimpleData []kmlSimpleData `xml:"SimpleData"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// convertKML converts a KML document into GeoJSON layers. Without
// separateFolders the whole document is one layer; with it every container
// holding placemarks becomes a layer, in document order. The result always
// holds at least one collection.
func convertKML(data []byte, separateFolders bool) ([]*geo.FeatureCollection, error) {
	root, err := decodeKML(data)
	if err != nil {
		return nil, err
	}

	if !separateFolders {
		fc := geo.NewFeatureCollection()
		if err := collectAll(root, &fc.Features); err != nil {
			return nil, err
		}
		setName(fc, documentName(root))
		return []*geo.FeatureCollection{fc}, nil
	}

	var layers []*geo.FeatureCollection
	if err := collectLayers(root, &layers); err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		fc := geo.NewFeatureCollection()
		setName(fc, documentName(root))
		layers = append(layers, fc)
	}

	return layers, nil
}

// decodeKML decodes the document tree below the kml root element.
func decodeKML(data []byte) (*kmlContainer, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", errNotKML)
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "kml" {
			return nil, fmt.Errorf("%w: <%s>", errNotKML, start.Name.Local)
		}

		root := new(kmlContainer)
		if err := d.DecodeElement(root, &start); err != nil {
			return nil, err
		}
		return root, nil
	}
}

func collectAll(c *kmlContainer, dst *[]geo.Feature) error {
	n := 0
	for _, child := range c.Children {
		if child.Container != nil {
			if err := collectAll(child.Container, dst); err != nil {
				return err
			}
			continue
		}
		if err := appendPlacemark(n, child.Placemark, dst); err != nil {
			return err
		}
		n++
	}
	return nil
}

// collectLayers gives every container its own layer, opened at the
// container's first placemark, so layers follow document order.
func collectLayers(c *kmlContainer, layers *[]*geo.FeatureCollection) error {
	var (
		fc     *geo.FeatureCollection
		opened bool
	)
	n := 0
	for _, child := range c.Children {
		if child.Container != nil {
			if err := collectLayers(child.Container, layers); err != nil {
				return err
			}
			continue
		}

		if fc == nil {
			fc = geo.NewFeatureCollection()
			setName(fc, strings.TrimSpace(c.Name))
		}
		if err := appendPlacemark(n, child.Placemark, &fc.Features); err != nil {
			return err
		}
		n++
		if !opened && len(fc.Features) > 0 {
			*layers = append(*layers, fc)
			opened = true
		}
	}
	return nil
}

func appendPlacemark(i int, pm *kmlPlacemark, dst *[]geo.Feature) error {
	f, ok, err := placemarkFeature(*pm)
	if err != nil {
		return fmt.Errorf("placemark %d (%s): %w", i, strings.TrimSpace(pm.Name), err)
	}
	if ok {
		*dst = append(*dst, f)
	}
	return nil
}

// documentName returns the first name found on the root or its documents.
func documentName(c *kmlContainer) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	for _, child := range c.Children {
		if !child.Document {
			continue
		}
		if name := documentName(child.Container); name != "" {
			return name
		}
	}
	return ""
}

func setName(fc *geo.FeatureCollection, name string) {
	if name == "" {
		return
	}
	raw, err := json.Marshal(name)
	if err != nil {
		return
	}
	fc.Foreign = append(fc.Foreign, geo.Member{Key: "name", Value: raw})
}

// placemarkFeature builds a feature; placemarks without geometry are skipped.
func placemarkFeature(pm kmlPlacemark) (geo.Feature, bool, error) {
	geometries, err := pm.kmlGeometries.build()
	if err != nil {
		return geo.Feature{}, false, err
	}

	var f geo.Feature
	switch len(geometries) {
	case 0:
		return geo.Feature{}, false, nil
	case 1:
		f.Geometry = geometries[0]
	default:
		f.Geometry = geo.GeometryCollection{Geometries: geometries}
	}

	if id := strings.TrimSpace(pm.ID); id != "" {
		f.ID = id
	}

	setText := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			f.Properties.Set(key, value)
		}
	}
	setText("name", pm.Name)
	setText("description", pm.Description)
	setText("styleUrl", pm.StyleURL)
	if pm.TimeStamp != nil {
		setText("timestamp", pm.TimeStamp.When)
	}
	if pm.TimeSpan != nil {
		setText("begin", pm.TimeSpan.Begin)
		setText("end", pm.TimeSpan.End)
	}

	// Extended data keeps empty values so features share one schema
	if pm.ExtendedData != nil {
		for _, d := range pm.ExtendedData.Data {
			f.Properties.Set(d.Name, strings.TrimSpace(d.Value))
		}
		for _, sd := range pm.ExtendedData.SchemaData {
			for _, d := range sd.SimpleData {
				f.Properties.Set(d.Name, strings.TrimSpace(d.Value))
			}
		}
	}

	return f, true, nil
}

func (g kmlGeometries) build() ([]geo.Geometry, error) {
	var out []geo.Geometry

	for _, p := range g.Points {
		positions, err := parseCoordinates(p.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(positions) == 0 {
			return nil, errors.New("point without coordinates")
		}
		out = append(out, geo.Point{Coordinates: positions[0]})
	}

	for _, ls := range g.LineStrings {
		positions, err := parseCoordinates(ls.Coordinates)
		if err != nil {
			return nil, err
		}
		out = append(out, geo.LineString{Coordinates: positions})
	}

	for _, lr := range g.LinearRings {
		positions, err := parseCoordinates(lr.Coordinates)
		if err != nil {
			return nil, err
		}
		out = append(out, geo.Polygon{Coordinates: [][]geo.Position{positions}})
	}

	for _, poly := range g.Polygons {
		outer, err := parseCoordinates(poly.Outer.Coordinates)
		if err != nil {
			return nil, err
		}
		rings := [][]geo.Position{outer}
		for _, inner := range poly.Inner {
			ring, err := parseCoordinates(inner.Coordinates)
			if err != nil {
				return nil, err
			}
			rings = append(rings, ring)
		}
		out = append(out, geo.Polygon{Coordinates: rings})
	}

	for _, mg := range g.MultiGeometry {
		members, err := mg.build()
		if err != nil {
			return nil, err
		}
		switch len(members) {
		case 0:
		case 1:
			out = append(out, members[0])
		default:
			out = append(out, geo.GeometryCollection{Geometries: members})
		}
	}

	for _, track := range g.Tracks {
		positions, err := track.positions()
		if err != nil {
			return nil, err
		}
		out = append(out, geo.LineString{Coordinates: positions})
	}

	for _, mt := range g.MultiTracks {
		lines := make([][]geo.Position, 0, len(mt.Tracks))
		for _, track := range mt.Tracks {
			positions, err := track.positions()
			if err != nil {
				return nil, err
			}
			lines = append(lines, positions)
		}
		out = append(out, geo.MultiLineString{Coordinates: lines})
	}

	return out, nil
}

// positions parses gx:coord values, which separate components with spaces.
func (t kmlTrack) positions() ([]geo.Position, error) {
	positions := make([]geo.Position, 0, len(t.Coords))
	for _, coord := range t.Coords {
		pos, err := parsePosition(strings.Fields(coord))
		if err != nil {
			return nil, fmt.Errorf("track coord %q: %w", coord, err)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// parseCoordinates parses "lon,lat[,alt] lon,lat[,alt] ..." keeping every component.
func parseCoordinates(s string) ([]geo.Position, error) {
	tuples := strings.Fields(commaSpace.ReplaceAllString(strings.TrimSpace(s), ","))

	positions := make([]geo.Position, 0, len(tuples))
	for _, tuple := range tuples {
		pos, err := parsePosition(strings.Split(strings.Trim(tuple, ","), ","))
		if err != nil {
			return nil, fmt.Errorf("coordinates %q: %w", tuple, err)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

func parsePosition(parts []string) (geo.Position, error) {
	if len(parts) < 2 {
		return nil, errors.New("expected at least longitude and latitude")
	}

	pos := make(geo.Position, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		pos = append(pos, v)
	}
	return pos, nil
}
