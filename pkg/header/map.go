// Package header implements the case-insensitive, order-preserving header
// model shared by the server and client connection state machines: a
// compact enum for well-known names, a raw-byte value type, and a
// multi-map that partitions entries into a fast well-known table and a
// fallback table for anything else.
package header

import "sort"

// unknownEntry holds one unknown-name header, preserving the first-seen
// spelling of the name for re-emission.
type unknownEntry struct {
	name   string
	values []Value
	seq    int
}

// Map is an ordered, case-insensitive, multi-valued header collection.
// Well-known headers are stored in a fixed-size array indexed by Known for
// O(1) access; everything else falls back to a lower-cased string map.
// Iteration yields Host and Date first (if present), then the remaining
// known headers in Known's integer order, then unknown headers in the
// order they were first inserted.
type Map struct {
	known   [knownCount][]Value
	present [knownCount]bool
	order   []Known

	unknown    map[string]*unknownEntry
	unknownSeq []*unknownEntry
	seqCounter int
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{unknown: make(map[string]*unknownEntry)}
}

// Insert replaces any existing values for name with a single value.
func (m *Map) Insert(name Name, value Value) {
	m.Remove(name)
	m.Append(name, value)
}

// Append adds value to name's value list without disturbing any existing
// values, per RFC 9110's multi-valued header semantics.
func (m *Map) Append(name Name, value Value) {
	if k, ok := name.AsKnown(); ok {
		if !m.present[k] {
			m.present[k] = true
			m.order = append(m.order, k)
		}
		m.known[k] = append(m.known[k], value)
		return
	}
	key := name.lowerKey()
	e, ok := m.unknown[key]
	if !ok {
		e = &unknownEntry{name: name.String(), seq: m.seqCounter}
		m.seqCounter++
		m.unknown[key] = e
		m.unknownSeq = append(m.unknownSeq, e)
	}
	e.values = append(e.values, value)
}

// TryInsert inserts value only if name is not already present, returning
// false if it was already set.
func (m *Map) TryInsert(name Name, value Value) bool {
	if m.Has(name) {
		return false
	}
	m.Append(name, value)
	return true
}

// Remove deletes all values for name, returning true if anything was
// removed.
func (m *Map) Remove(name Name) bool {
	if k, ok := name.AsKnown(); ok {
		if !m.present[k] {
			return false
		}
		m.present[k] = false
		m.known[k] = nil
		for i, kk := range m.order {
			if kk == k {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return true
	}
	key := name.lowerKey()
	e, ok := m.unknown[key]
	if !ok {
		return false
	}
	delete(m.unknown, key)
	for i, u := range m.unknownSeq {
		if u == e {
			m.unknownSeq = append(m.unknownSeq[:i], m.unknownSeq[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the first value for name, if any.
func (m *Map) Get(name Name) (Value, bool) {
	values := m.GetAll(name)
	if len(values) == 0 {
		return Value{}, false
	}
	return values[0], true
}

// GetAll returns every value stored for name, in insertion order.
func (m *Map) GetAll(name Name) []Value {
	if k, ok := name.AsKnown(); ok {
		if !m.present[k] {
			return nil
		}
		return m.known[k]
	}
	e, ok := m.unknown[name.lowerKey()]
	if !ok {
		return nil
	}
	return e.values
}

// Has reports whether name has at least one value.
func (m *Map) Has(name Name) bool {
	if k, ok := name.AsKnown(); ok {
		return m.present[k]
	}
	_, ok := m.unknown[name.lowerKey()]
	return ok
}

// Entry is one (name, value) pair produced during iteration.
type Entry struct {
	Name  Name
	Value Value
}

// Entries returns every header entry in the map's defined iteration
// order: Host first, then Date, then the remaining known headers by
// Known's integer order, then unknown headers in first-insertion order.
// A header with multiple values produces one Entry per value.
func (m *Map) Entries() []Entry {
	var out []Entry

	emit := func(k Known) {
		if !m.present[k] {
			return
		}
		for _, v := range m.known[k] {
			out = append(out, Entry{Name: FromKnown(k), Value: v})
		}
	}

	emit(Host)
	emit(Date)

	rest := make([]Known, 0, len(m.order))
	for _, k := range m.order {
		if k == Host || k == Date {
			continue
		}
		rest = append(rest, k)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, k := range rest {
		emit(k)
	}

	sorted := make([]*unknownEntry, len(m.unknownSeq))
	copy(sorted, m.unknownSeq)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].seq < sorted[j].seq })
	for _, e := range sorted {
		name := NewName(e.name)
		for _, v := range e.values {
			out = append(out, Entry{Name: name, Value: v})
		}
	}

	return out
}

// Len returns the number of distinct header names present.
func (m *Map) Len() int {
	n := len(m.order)
	n += len(m.unknown)
	return n
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	out := NewMap()
	for _, e := range m.Entries() {
		out.Append(e.Name, e.Value)
	}
	return out
}
