package transform

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/woozymasta/geotweak/internal/geo"
)

// CompareMode is the comparator chosen for a whole sort.
type CompareMode int

// Comparator modes.
const (
	CompareNumeric CompareMode = iota
	CompareLexical
)

func (m CompareMode) String() string {
	switch m {
	case CompareNumeric:
		return "numeric"
	case CompareLexical:
		return "lexical"
	default:
		return fmt.Sprintf("CompareMode(%d)", int(m))
	}
}

type sortKey struct {
	text    string
	number  float64
	feature geo.Feature
}

// SortFeatures stably sorts features by property. Every value is first parsed as
// a number; if all parse the sort is numeric, otherwise every value is compared
// by its text form. The mode is chosen once for the whole slice.
func SortFeatures(features []geo.Feature, property string, descending bool) (CompareMode, error) {
	keys := make([]sortKey, len(features))
	mode := CompareNumeric

	for i, f := range features {
		v, ok := f.Properties.Get(property)
		if !ok {
			return mode, fmt.Errorf("sort by %q: feature %d: %w", property, i, geo.ErrMissingProperty)
		}

		keys[i] = sortKey{text: geo.FormatValue(v), feature: f}
		if mode == CompareNumeric {
			if n, ok := geo.ParseNumber(v); ok {
				keys[i].number = n
			} else {
				mode = CompareLexical
			}
		}
	}

	compare := func(a, b sortKey) int {
		if mode == CompareNumeric {
			return cmp.Compare(a.number, b.number)
		}
		return cmp.Compare(a.text, b.text)
	}
	if descending {
		ascending := compare
		compare = func(a, b sortKey) int { return ascending(b, a) }
	}

	slices.SortStableFunc(keys, compare)

	for i := range keys {
		features[i] = keys[i].feature
	}

	return mode, nil
}
