package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var errNotObject = errors.New("expected JSON object")

// Member is a JSON object member kept verbatim, in source order.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Members holds what a decoded GeoJSON object carried besides its standard
// members. Layout is the source key order; it is nil when the source listed
// the standard members first and in canonical order, which is also how
// objects built in code are written.
type Members struct {
	Foreign []Member
	Layout  []string
}

// objectSchema names the standard members of a GeoJSON object.
type objectSchema struct {
	canonical []string // standard keys in writing order
	always    []string // standard keys written even when absent from the source
	omitNull  []string // standard keys the writer leaves out when null
}

// split separates the standard members from the foreign ones and records the
// source layout when it differs from the canonical one.
func (s objectSchema) split(members []Member) ([]Member, Members) {
	members = slices.DeleteFunc(slices.Clone(members), func(m Member) bool {
		return isNull(m.Value) && slices.Contains(s.omitNull, m.Key)
	})

	var (
		std     []Member
		extra   Members
		rank    = -1
		foreign bool
		ordered = true
	)
	for _, m := range members {
		r := slices.Index(s.canonical, m.Key)
		if r < 0 {
			extra.Foreign = append(extra.Foreign, m)
			foreign = true
			continue
		}
		if foreign || r <= rank {
			ordered = false
		}
		rank = r
		std = append(std, m)
	}
	if ordered {
		return std, extra
	}

	extra.Layout = make([]string, 0, len(members)+len(s.always))
	for _, m := range members {
		if slices.Contains(s.canonical, m.Key) && slices.Contains(extra.Layout, m.Key) {
			continue
		}
		extra.Layout = append(extra.Layout, m.Key)
	}
	for _, key := range s.always {
		if !slices.Contains(extra.Layout, key) {
			extra.Layout = append(extra.Layout, key)
		}
	}
	return std, extra
}

// decodeMembers splits a JSON object into its members without losing key order.
// Values are compacted so that re-encoded documents compare equal.
func decodeMembers(data []byte) ([]Member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var members []Member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("member %q: %w", key, err)
		}

		value, err := compact(raw)
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Key: key, Value: value})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return members, nil
}

// decodeValue decodes a JSON scalar or container, keeping numbers as json.Number.
func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// marshalValue encodes v without HTML escaping and without the trailing newline.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func compact(raw []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// objectWriter emits JSON object members in the order they are written.
type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) field(key string, v any) {
	if w.err != nil {
		return
	}
	raw, err := marshalValue(v)
	if err != nil {
		w.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	w.raw(key, raw)
}

func (w *objectWriter) raw(key string, value []byte) {
	if w.err != nil {
		return
	}
	keyRaw, err := marshalValue(key)
	if err != nil {
		w.err = err
		return
	}

	if w.n == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.buf.Write(keyRaw)
	w.buf.WriteByte(':')
	w.buf.Write(value)
	w.n++
}

func (w *objectWriter) members(members []Member) {
	for _, m := range members {
		w.raw(m.Key, m.Value)
	}
}

// objectField is a standard member about to be written.
type objectField struct {
	key   string
	value any
}

// object writes the standard fields and the foreign members. Without a layout
// the fields come first; with one every member goes back to its source
// position and anything the layout does not place follows.
func (w *objectWriter) object(fields []objectField, extra Members) {
	if extra.Layout == nil {
		for _, f := range fields {
			w.field(f.key, f.value)
		}
		w.members(extra.Foreign)
		return
	}

	written := make([]bool, len(fields))
	next := 0
	for _, key := range extra.Layout {
		if i := slices.IndexFunc(fields, func(f objectField) bool { return f.key == key }); i >= 0 {
			if !written[i] {
				w.field(fields[i].key, fields[i].value)
				written[i] = true
			}
			continue
		}
		if next < len(extra.Foreign) && extra.Foreign[next].Key == key {
			w.raw(key, extra.Foreign[next].Value)
			next++
		}
	}
	for i, f := range fields {
		if !written[i] {
			w.field(f.key, f.value)
		}
	}
	w.members(extra.Foreign[next:])
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.n == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
