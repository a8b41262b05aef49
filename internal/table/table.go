// Package table flattens feature properties into rows for tabular display.
package table

import (
	"github.com/woozymasta/geotweak/internal/geo"
)

// IDColumn is the header of the leading id column.
const IDColumn = "id"

// Table is a header row plus data rows, all rendered as text.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Project builds the table view of fc. The header is "id" followed by the first
// feature's property keys. Each row holds the feature id followed by that
// feature's own property values in its own key order: values are taken by
// position, so features whose keys differ from the first one do not line up
// with the header.
func Project(fc *geo.FeatureCollection) (*Table, error) {
	features, err := fc.FeatureList()
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, geo.ErrEmptyCollection
	}

	t := &Table{
		Header: append([]string{IDColumn}, features[0].Properties.Keys()...),
		Rows:   make([][]string, 0, len(features)),
	}

	for _, f := range features {
		row := make([]string, 0, f.Properties.Len()+1)
		row = append(row, formatID(f.ID))
		for _, v := range f.Properties.Values() {
			row = append(row, geo.FormatValue(v))
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func formatID(id any) string {
	if id == nil {
		return ""
	}
	return geo.FormatValue(id)
}

// PlaceholderMessage fills the table before anything is uploaded.
const PlaceholderMessage = "Please Upload a File to Preview Properties"

// Placeholder returns the headerless single cell table shown without a file.
func Placeholder() *Table {
	return &Table{Header: []string{}, Rows: [][]string{{PlaceholderMessage}}}
}
