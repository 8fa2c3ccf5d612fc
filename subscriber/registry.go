// Package subscriber holds the subscriber/publisher mapping registry: the
// external, read-only-after-init association between a message's wire
// type-id and its Go type plus codec. The core only ever reads it.
package subscriber

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/adred-codev/envelopes/codec"
)

// Mapping associates a wire type-id with the means to construct a fresh
// instance of the target message type and the codec used to (de)serialize
// it.
type Mapping struct {
	TypeID  string
	NewZero func() any
	Codec   codec.Codec
}

// Registry resolves a wire type-id to its Mapping, for the receive path.
type Registry interface {
	Get(typeID string) (Mapping, bool)
	List() []string
}

// Publisher resolves a message's Go static type to its wire type-id, for
// the publish path.
type Publisher interface {
	Resolve(message any) (typeID string, ok bool)
}

// Map is the in-memory Registry/Publisher implementation. Registration is
// a configuration-time concern: call Register for every message type
// before handing the Map to a serializer, then treat it as read-only.
type Map struct {
	mu       sync.RWMutex
	byTypeID map[string]Mapping
	byGoType map[reflect.Type]string
}

// NewMap creates an empty registry.
func NewMap() *Map {
	return &Map{
		byTypeID: make(map[string]Mapping),
		byGoType: make(map[reflect.Type]string),
	}
}

// Register associates typeID with newZero (which must return a pointer to
// a fresh zero value of the target message type on every call) and c.
func (m *Map) Register(typeID string, newZero func() any, c codec.Codec) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byTypeID[typeID] = Mapping{TypeID: typeID, NewZero: newZero, Codec: c}
	m.byGoType[reflect.TypeOf(newZero())] = typeID
}

// Get resolves typeID to its Mapping.
func (m *Map) Get(typeID string) (Mapping, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mapping, ok := m.byTypeID[typeID]
	return mapping, ok
}

// List enumerates every registered type-id, sorted, for use in
// invalid-data error messages that name available mappings.
func (m *Map) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.byTypeID))
	for id := range m.byTypeID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve maps message's Go static type to its wire type-id.
func (m *Map) Resolve(message any) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byGoType[reflect.TypeOf(message)]
	return id, ok
}

// DescribeAvailable renders the list of registered type-ids for an
// unresolvable-type error message.
func DescribeAvailable(ids []string) string {
	if len(ids) == 0 {
		return "(none registered)"
	}
	return fmt.Sprintf("%v", ids)
}

var (
	_ Registry  = (*Map)(nil)
	_ Publisher = (*Map)(nil)
)
