package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Properties is the property mapping of a feature. Unlike a plain map it
// remembers key order, which drives the table header and the exported file.
type Properties struct {
	keys   []string
	values map[string]any
}

// Set stores value under key. A new key goes last, an existing key keeps its position.
func (p *Properties) Set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p Properties) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the property keys in order.
func (p Properties) Keys() []string {
	return slices.Clone(p.keys)
}

// Values returns the property values in key order.
func (p Properties) Values() []any {
	values := make([]any, 0, len(p.keys))
	for _, k := range p.keys {
		values = append(values, p.values[k])
	}
	return values
}

// Len returns the number of properties.
func (p Properties) Len() int {
	return len(p.keys)
}

// MarshalJSON implements json.Marshaler.
func (p Properties) MarshalJSON() ([]byte, error) {
	var w objectWriter
	for _, k := range p.keys {
		w.field(k, p.values[k])
	}
	return w.bytes()
}

// UnmarshalJSON implements json.Unmarshaler. A null mapping decodes to no properties.
func (p *Properties) UnmarshalJSON(data []byte) error {
	*p = Properties{}
	if isNull(data) {
		return nil
	}

	members, err := decodeMembers(data)
	if err != nil {
		return fmt.Errorf("properties: %w", err)
	}

	for _, m := range members {
		v, err := decodeValue(m.Value)
		if err != nil {
			return fmt.Errorf("property %q: %w", m.Key, err)
		}
		p.Set(m.Key, v)
	}

	return nil
}

// FormatValue renders a property or id value as text: strings verbatim,
// numbers as their source literal, booleans and null as JSON words,
// containers as compact JSON.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	default:
		raw, err := marshalValue(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}

// ParseNumber reports v as a float64 when it is a number or a string holding one.
// NaN is never a number here, so parsed values always have a total order.
// Literals out of float64 range parse to ±Inf.
func ParseNumber(v any) (float64, bool) {
	var (
		f   float64
		err error
	)

	switch v := v.(type) {
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	case json.Number:
		f, err = strconv.ParseFloat(v.String(), 64)
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint64:
		f = float64(v)
	case uint32:
		f = float64(v)
	default:
		return 0, false
	}

	if errors.Is(err, strconv.ErrRange) {
		err = nil
	}
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
