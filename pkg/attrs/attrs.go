// Package attrs provides an ordered, observable attribute bag.
//
// A [Model] stores string-keyed values in insertion order and notifies
// subscribers synchronously whenever a value changes. Layer definitions and
// their style and popup sub-models are all built on top of it.
//
// # Subscriptions
//
// Listeners are registered per key with [Model.OnChange] or for every key with
// [Model.OnAnyChange]. Each call returns a [Subscription]; the caller owns it
// and releases the listener with [Subscription.Close]:
//
//	sub := m.OnChange("type", func(c attrs.Change) {
//	    fmt.Println(c.Key, c.Old, "->", c.New)
//	})
//	defer sub.Close()
//
// Notifications fire before [Model.Set] returns. Setting a value equal to the
// current one (by [reflect.DeepEqual]) is not a change and notifies nobody.
//
// # Concurrency
//
// Model is not safe for concurrent use. It targets single-threaded, event-driven
// callers where every mutation is immediately observable.
package attrs

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"
)

// Change describes one attribute transition delivered to listeners.
type Change struct {
	Key string
	Old any // nil when the key was absent
	New any // nil when the key was removed
}

// Listener receives attribute changes.
type Listener func(Change)

// Subscription is a registered listener. Close detaches it; closing twice is a no-op.
type Subscription interface {
	Close() error
}

type subscription struct {
	model  *Model
	key    string // empty for any-change listeners
	id     int
	closed bool
}

func (s *subscription) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.model.detach(s.key, s.id)
	return nil
}

type entry struct {
	id int
	fn Listener
}

// Model is an ordered attribute bag with change notification.
//
// The zero value is usable.
type Model struct {
	values map[string]any
	keys   []string

	byKey  map[string][]entry
	any    []entry
	nextID int
}

// New creates a model holding the given values. Keys are inserted in the
// order given by keys; values whose key is not listed are appended in
// sorted order so construction stays deterministic.
func New(values map[string]any, keys ...string) *Model {
	m := &Model{}
	for _, k := range keys {
		if v, ok := values[k]; ok {
			m.put(k, v)
		}
	}
	rest := make([]string, 0, len(values))
	for k := range values {
		if !slices.Contains(m.keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		m.put(k, values[k])
	}
	return m
}

func (m *Model) put(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value for key and whether it is present.
func (m *Model) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Value returns the value for key, or nil.
func (m *Model) Value(key string) any { return m.values[key] }

// Has reports whether key is present.
func (m *Model) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// String returns the value for key when it is a string, otherwise "".
func (m *Model) String(key string) string {
	s, _ := m.values[key].(string)
	return s
}

// Bool returns the value for key when it is a bool, otherwise false.
func (m *Model) Bool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

// Truthy reports whether the value for key is set to something other than
// nil, false, "" or a numeric zero.
func (m *Model) Truthy(key string) bool {
	return Truthy(m.values[key])
}

// Truthy reports whether v is anything other than nil, false, "" or zero.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

// Set stores v under key and notifies listeners if the value changed.
func (m *Model) Set(key string, v any) {
	old, had := m.values[key]
	if had && reflect.DeepEqual(old, v) {
		return
	}
	m.put(key, v)
	m.notify(Change{Key: key, Old: old, New: v})
}

// SetAll applies every pair of values in sorted key order.
func (m *Model) SetAll(values map[string]any) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		m.Set(k, values[k])
	}
}

// Unset removes key and notifies listeners if it was present.
func (m *Model) Unset(key string) {
	old, had := m.values[key]
	if !had {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	m.notify(Change{Key: key, Old: old})
}

// Clear removes every attribute, notifying once per removed key.
func (m *Model) Clear() {
	for _, k := range slices.Clone(m.keys) {
		m.Unset(k)
	}
}

// Len returns the number of attributes.
func (m *Model) Len() int { return len(m.keys) }

// IsEmpty reports whether the model has no attributes.
func (m *Model) IsEmpty() bool { return len(m.keys) == 0 }

// Keys returns the attribute keys in insertion order.
func (m *Model) Keys() []string { return slices.Clone(m.keys) }

// ToMap returns a shallow copy of the attributes.
func (m *Model) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// MarshalJSON encodes the attributes as an object in insertion order.
func (m *Model) MarshalJSON() ([]byte, error) {
	return MarshalOrdered(m.keys, m.values)
}

// MarshalOrdered encodes values as a JSON object whose keys follow keys.
// Keys missing from values are skipped.
func MarshalOrdered(keys []string, values map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range keys {
		v, ok := values[k]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
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

// OnChange registers fn for changes of key.
func (m *Model) OnChange(key string, fn Listener) Subscription {
	if m.byKey == nil {
		m.byKey = make(map[string][]entry)
	}
	m.nextID++
	m.byKey[key] = append(m.byKey[key], entry{id: m.nextID, fn: fn})
	return &subscription{model: m, key: key, id: m.nextID}
}

// OnAnyChange registers fn for changes of every key.
func (m *Model) OnAnyChange(fn Listener) Subscription {
	m.nextID++
	m.any = append(m.any, entry{id: m.nextID, fn: fn})
	return &subscription{model: m, id: m.nextID}
}

func (m *Model) detach(key string, id int) {
	match := func(e entry) bool { return e.id == id }
	if key == "" {
		m.any = slices.DeleteFunc(m.any, match)
		return
	}
	m.byKey[key] = slices.DeleteFunc(m.byKey[key], match)
	if len(m.byKey[key]) == 0 {
		delete(m.byKey, key)
	}
}

// notify runs against snapshots so listeners may subscribe or close during dispatch.
func (m *Model) notify(c Change) {
	for _, e := range slices.Clone(m.byKey[c.Key]) {
		e.fn(c)
	}
	for _, e := range slices.Clone(m.any) {
		e.fn(c)
	}
}
