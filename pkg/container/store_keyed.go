package container

import (
	"reflect"

	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/sets"
)

// setStore backs OrderedSet and UnorderedSet handles. Keys are already
// converted to the host key type.
type setStore interface {
	length() int
	has(k any) bool
	add(k any)
	remove(k any)
	clear()
	each() Iterator
	value() any
}

// mapStore backs OrderedMap and UnorderedMap handles.
type mapStore interface {
	length() int
	get(k any) (any, bool)
	put(k, v any)
	add(k, v any) // appends a duplicate on multi-key maps, else put
	remove(k any)
	clear()
	each() Iterator
	value() any
}

// goMap holds a pointer to a Go map, allocating it on first write if nil.
type goMap struct {
	ptr reflect.Value
}

func (m *goMap) rv() reflect.Value { return m.ptr.Elem() }
func (m *goMap) length() int       { return m.rv().Len() }
func (m *goMap) value() any        { return m.ptr.Interface() }

func (m *goMap) writable() reflect.Value {
	if m.rv().IsNil() {
		m.ptr.Elem().Set(reflect.MakeMap(m.rv().Type()))
	}
	return m.rv()
}

func (m *goMap) lookup(k any) (any, bool) {
	if m.rv().IsNil() {
		return nil, false
	}
	v := m.rv().MapIndex(valueOf(k, m.rv().Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func (m *goMap) remove(k any) {
	if m.rv().IsNil() {
		return
	}
	m.rv().SetMapIndex(valueOf(k, m.rv().Type().Key()), reflect.Value{})
}

func (m *goMap) clear() {
	if !m.rv().IsNil() {
		m.rv().Clear()
	}
}

func (m *goMap) keys() []interface{} {
	keys := make([]interface{}, 0, m.length())
	if m.rv().IsNil() {
		return keys
	}
	for _, k := range m.rv().MapKeys() {
		keys = append(keys, k.Interface())
	}
	return keys
}

// goSetStore adapts map[K]struct{}.
type goSetStore struct {
	goMap
}

func (s *goSetStore) has(k any) bool {
	_, ok := s.lookup(k)
	return ok
}

func (s *goSetStore) add(k any) {
	t := s.rv().Type()
	s.writable().SetMapIndex(valueOf(k, t.Key()), reflect.Zero(t.Elem()))
}

func (s *goSetStore) each() Iterator {
	return snapshotIterator(s.keys(), func(k any) (any, bool) {
		return k, s.has(k)
	})
}

// goMapStore adapts map[K]V.
type goMapStore struct {
	goMap
}

func (m *goMapStore) get(k any) (any, bool) { return m.lookup(k) }

func (m *goMapStore) put(k, v any) {
	t := m.rv().Type()
	m.writable().SetMapIndex(valueOf(k, t.Key()), valueOf(v, t.Elem()))
}

func (m *goMapStore) add(k, v any) { m.put(k, v) }

func (m *goMapStore) each() Iterator {
	return snapshotIterator(m.keys(), m.lookup)
}

// godsSetStore adapts gods sets and the collections multisets.
type godsSetStore struct {
	s       sets.Set
	ordered bool
}

func (s *godsSetStore) length() int    { return s.s.Size() }
func (s *godsSetStore) has(k any) bool { return s.s.Contains(k) }
func (s *godsSetStore) add(k any)      { s.s.Add(k) }
func (s *godsSetStore) remove(k any)   { s.s.Remove(k) }
func (s *godsSetStore) clear()         { s.s.Clear() }
func (s *godsSetStore) value() any     { return s.s }

func (s *godsSetStore) each() Iterator {
	if s.ordered {
		if it := godsIterator(s.s, false, true); it != nil {
			return it
		}
	}
	// Values may repeat on multisets; walk the sorted snapshot as is.
	values := sortKeys(s.s.Values())
	i := 0
	return IteratorFunc(func() (any, any, bool) {
		for i < len(values) {
			v := values[i]
			i++
			if s.s.Contains(v) {
				return v, v, true
			}
		}
		return nil, nil, false
	})
}

// multiAdder is implemented by the collections multimaps.
type multiAdder interface {
	Add(key, value interface{})
}

// godsMapStore adapts gods maps and the collections multimaps.
type godsMapStore struct {
	m       maps.Map
	ordered bool
}

func (m *godsMapStore) length() int           { return m.m.Size() }
func (m *godsMapStore) get(k any) (any, bool) { return m.m.Get(k) }
func (m *godsMapStore) put(k, v any)          { m.m.Put(k, v) }
func (m *godsMapStore) remove(k any)          { m.m.Remove(k) }
func (m *godsMapStore) clear()                { m.m.Clear() }
func (m *godsMapStore) value() any            { return m.m }

func (m *godsMapStore) add(k, v any) {
	if a, ok := m.m.(multiAdder); ok {
		a.Add(k, v)
		return
	}
	m.m.Put(k, v)
}

// multiGetter is implemented by the collections multimaps.
type multiGetter interface {
	GetAll(key interface{}) []interface{}
}

func (m *godsMapStore) each() Iterator {
	if m.ordered {
		if it := godsIterator(m.m, true, false); it != nil {
			return it
		}
	}
	keys := sortKeys(m.m.Keys())
	all, multi := m.m.(multiGetter)
	i := 0
	var key any
	var pending []interface{}
	return IteratorFunc(func() (any, any, bool) {
		for len(pending) == 0 {
			if i >= len(keys) {
				return nil, nil, false
			}
			k := keys[i]
			i++
			if i > 1 && equal(keys[i-2], k) {
				continue
			}
			key = k
			if multi {
				pending = append([]interface{}(nil), all.GetAll(k)...)
			} else if v, ok := m.m.Get(k); ok {
				pending = []interface{}{v}
			}
		}
		v := pending[0]
		pending = pending[1:]
		return key, v, true
	})
}
