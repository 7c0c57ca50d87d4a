package collections

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// multiMap keeps every value inserted under a key. entries maps
// key -> []interface{} in insertion order.
type multiMap struct {
	entries maps.Map
	size    int
}

// Put replaces the first value stored under key, or inserts it when the key
// is absent.
func (m *multiMap) Put(key, value interface{}) {
	if vs := m.GetAll(key); len(vs) > 0 {
		vs[0] = value
		return
	}
	m.entries.Put(key, []interface{}{value})
	m.size++
}

// Add stores another value under key, keeping existing ones.
func (m *multiMap) Add(key, value interface{}) {
	m.entries.Put(key, append(m.GetAll(key), value))
	m.size++
}

// Get returns the first value stored under key.
func (m *multiMap) Get(key interface{}) (interface{}, bool) {
	vs := m.GetAll(key)
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

// GetAll returns every value stored under key.
func (m *multiMap) GetAll(key interface{}) []interface{} {
	vs, ok := m.entries.Get(key)
	if !ok {
		return nil
	}
	return vs.([]interface{})
}

// Remove drops every value stored under key.
func (m *multiMap) Remove(key interface{}) {
	if n := m.Count(key); n > 0 {
		m.entries.Remove(key)
		m.size -= n
	}
}

// Count returns the number of values stored under key.
func (m *multiMap) Count(key interface{}) int {
	return len(m.GetAll(key))
}

// Keys returns one key per stored value, so duplicate keys repeat.
func (m *multiMap) Keys() []interface{} {
	out := make([]interface{}, 0, m.size)
	for _, k := range m.entries.Keys() {
		for i := m.Count(k); i > 0; i-- {
			out = append(out, k)
		}
	}
	return out
}

// Values returns all values grouped by key.
func (m *multiMap) Values() []interface{} {
	out := make([]interface{}, 0, m.size)
	for _, k := range m.entries.Keys() {
		out = append(out, m.GetAll(k)...)
	}
	return out
}

func (m *multiMap) Size() int   { return m.size }
func (m *multiMap) Empty() bool { return m.size == 0 }

func (m *multiMap) Clear() {
	m.entries.Clear()
	m.size = 0
}

func (m *multiMap) String() string {
	var parts []string
	for _, k := range m.entries.Keys() {
		for _, v := range m.GetAll(k) {
			parts = append(parts, fmt.Sprintf("%v:%v", k, v))
		}
	}
	return "MultiMap\n" + strings.Join(parts, ", ")
}

// TreeMultiMap is an ordered map that keeps duplicate keys, the analogue of
// a C++ std::multimap.
type TreeMultiMap struct {
	multiMap
	tree *treemap.Map
}

// NewTreeMultiMap creates an ordered multimap using cmp for key order.
func NewTreeMultiMap(cmp utils.Comparator) *TreeMultiMap {
	tree := treemap.NewWith(cmp)
	return &TreeMultiMap{multiMap: multiMap{entries: tree}, tree: tree}
}

// Iterator returns a stateful iterator over every (key, value) pair in key
// order.
func (m *TreeMultiMap) Iterator() MapIterator {
	return MapIterator{it: m.tree.Iterator()}
}

// MapIterator walks a TreeMultiMap one stored value at a time.
type MapIterator struct {
	it     treemap.Iterator
	values []interface{}
	pos    int
}

// Next moves to the next pair and reports whether one exists.
func (it *MapIterator) Next() bool {
	if it.pos+1 < len(it.values) {
		it.pos++
		return true
	}
	for it.it.Next() {
		it.values = it.it.Value().([]interface{})
		it.pos = 0
		if len(it.values) > 0 {
			return true
		}
	}
	return false
}

// Key returns the current key.
func (it *MapIterator) Key() interface{} { return it.it.Key() }

// Value returns the current value.
func (it *MapIterator) Value() interface{} { return it.values[it.pos] }

// HashMultiMap is an unordered map that keeps duplicate keys.
type HashMultiMap struct {
	multiMap
}

// NewHashMultiMap creates an unordered multimap.
func NewHashMultiMap() *HashMultiMap {
	return &HashMultiMap{multiMap: multiMap{entries: hashmap.New()}}
}
