// Package table holds the client-side row model for CSV data exchanged with the
// backend: records whose cells are strings and whose keys keep the order the
// backend sent them in, since the first row's key order defines the columns.
package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one CSV record. Keys keep insertion order.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow builds a Row from alternating key, value arguments.
// A trailing key without a value gets an empty cell.
func NewRow(pairs ...string) Row {
	var r Row
	for i := 0; i < len(pairs); i += 2 {
		v := ""
		if i+1 < len(pairs) {
			v = pairs[i+1]
		}
		r.Set(pairs[i], v)
	}
	return r
}

// Set stores value under key. An existing key keeps its position.
func (r *Row) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the cell for key and whether the key is present.
func (r Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Cell returns the cell for key, or "" when the key is absent.
func (r Row) Cell(key string) string {
	return r.values[key]
}

// Keys returns the row's keys in insertion order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of cells.
func (r Row) Len() int { return len(r.keys) }

// Clone returns a deep copy.
func (r Row) Clone() Row {
	out := Row{keys: r.Keys()}
	if r.values != nil {
		out.values = make(map[string]string, len(r.values))
		for k, v := range r.values {
			out.values[k] = v
		}
	}
	return out
}

// Equal reports whether both rows hold the same cells in the same key order.
func (r Row) Equal(o Row) bool {
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k || o.values[k] != r.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the row as a JSON object with keys in insertion order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order. Numbers and
// booleans keep their literal text, null becomes "", and nested values are
// kept as compact JSON text. A null row decodes as an empty Row.
func (r *Row) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Row{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode row: expected object, got %v", tok)
	}
	out := Row{values: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode row key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode row: unexpected key token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode row value %q: %w", key, err)
		}
		val, err := cellText(raw)
		if err != nil {
			return fmt.Errorf("decode row value %q: %w", key, err)
		}
		out.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	*r = out
	return nil
}

func cellText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return "", nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case trimmed[0] == '{' || trimmed[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(trimmed), nil
	}
}
