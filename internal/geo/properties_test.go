package geo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesSetKeepsFirstPosition(t *testing.T) {
	var p Properties
	p.Set("b", 1)
	p.Set("a", 2)
	p.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, p.Keys())
	assert.Equal(t, []any{3, 2}, p.Values())
	assert.Equal(t, 2, p.Len())

	_, ok := p.Get("missing")
	assert.False(t, ok)
}

func TestPropertiesNullDecodesEmpty(t *testing.T) {
	var p Properties
	require.NoError(t, json.Unmarshal([]byte(`null`), &p))
	assert.Equal(t, 0, p.Len())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"Nil", nil, "null"},
		{"String", "Trail 4", "Trail 4"},
		{"Number Literal", json.Number("1.0"), "1.0"},
		{"Bool", true, "true"},
		{"Float", 2.5, "2.5"},
		{"Int", 42, "42"},
		{"Object", map[string]any{"k": "v"}, `{"k":"v"}`},
		{"Array", []any{json.Number("1"), "x"}, `[1,"x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.input))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"Numeric String", "10", 10, true},
		{"Padded String", " 2.5 ", 2.5, true},
		{"Exponent", "1e3", 1000, true},
		{"Word", "abc", 0, false},
		{"Empty", "", 0, false},
		{"NaN String", "NaN", 0, false},
		{"Overflow", "1e400", math.Inf(1), true},
		{"Negative Overflow", json.Number("-1e400"), math.Inf(-1), true},
		{"Infinity Word", "inf", math.Inf(1), true},
		{"Number", json.Number("-4"), -4, true},
		{"Float", 3.25, 3.25, true},
		{"Int", 7, 7, true},
		{"Bool", true, 0, false},
		{"Nil", nil, 0, false},
		{"NaN Float", math.NaN(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
