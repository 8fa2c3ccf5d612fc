package envelope

import "encoding/json"

// knownFields are the seven canonical envelope property names. A metadata
// key colliding with one of these is always discarded, per invariant (2):
// it's never captured on read and never emitted on write.
var knownFields = map[string]bool{
	"id":              true,
	"source":          true,
	"specversion":     true,
	"type":            true,
	"time":            true,
	"datacontenttype": true,
	"data":            true,
}

// Metadata is an insertion-ordered map of the envelope's extra top-level
// properties. Values are opaque parsed JSON, preserved verbatim.
type Metadata struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewMetadata returns an empty Metadata map.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]json.RawMessage)}
}

// Set inserts or overwrites key. A key colliding with one of the seven
// known field names, a nil value, or an empty key is silently discarded,
// matching the writer's skip rules for known field names.
func (m *Metadata) Set(key string, value json.RawMessage) {
	if key == "" || knownFields[key] || value == nil {
		return
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the raw JSON value stored under key.
func (m *Metadata) Get(key string) (json.RawMessage, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// String unmarshals the metadata value at key into a string.
func (m *Metadata) String(key string) (string, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Int unmarshals the metadata value at key into an int.
func (m *Metadata) Int(key string) (int, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// Len reports how many metadata entries are set.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (m *Metadata) Range(fn func(key string, value []byte) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Equal reports whether m and other hold the same keys, in the same
// order, with byte-identical raw values — used by the round-trip
// property tests.
func (m *Metadata) Equal(other *Metadata) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k {
			return false
		}
		if string(m.values[k]) != string(other.values[k]) {
			return false
		}
	}
	return true
}
