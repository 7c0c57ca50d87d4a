package container

import "reflect"

// Iterator yields (key, value) pairs lazily in the container's native order:
// (ordinal, value) for sequences, (key, key) for sets and (key, value) for
// maps. Each call to Handle.Iterate starts a fresh traversal.
type Iterator interface {
	Next() (key, value any, ok bool)
}

// IteratorFunc adapts a function to Iterator.
type IteratorFunc func() (key, value any, ok bool)

func (f IteratorFunc) Next() (any, any, bool) { return f() }

// Collect drains it into parallel key and value slices.
func Collect(it Iterator) (keys, values []any) {
	for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
		keys = append(keys, k)
		values = append(values, v)
	}
	return keys, values
}

// indexIterator walks positions 0..length()-1, reading length on every step
// so appends made through the same handle are seen.
func indexIterator(length func() int, at func(pos int) any) Iterator {
	pos := 0
	return IteratorFunc(func() (any, any, bool) {
		if pos >= length() {
			return nil, nil, false
		}
		v := at(pos)
		pos++
		return ordinal(pos - 1), v, true
	})
}

// snapshotIterator walks a sorted key snapshot and looks values up lazily;
// keys removed since the snapshot was taken are skipped.
func snapshotIterator(keys []interface{}, lookup func(k any) (any, bool)) Iterator {
	sortKeys(keys)
	i := 0
	return IteratorFunc(func() (any, any, bool) {
		for i < len(keys) {
			k := keys[i]
			i++
			if v, ok := lookup(k); ok {
				return k, v, true
			}
		}
		return nil, nil, false
	})
}

// Stateful iterator shapes exposed by gods containers and by the collections
// package.
type (
	valueIterator interface {
		Next() bool
		Value() interface{}
	}
	entryIterator interface {
		Next() bool
		Key() interface{}
		Value() interface{}
	}
	reverseIterator interface {
		Prev() bool
	}
)

// iteratorMethod returns the result type of a zero-argument Iterator method
// on t, or nil when t has none.
func iteratorMethod(t reflect.Type) reflect.Type {
	m, ok := t.MethodByName("Iterator")
	if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
		return nil
	}
	return m.Type.Out(0)
}

// iteratorType returns the type whose method set carries Next/Value; gods
// iterators are returned by value with pointer-receiver methods.
func iteratorType(t reflect.Type) reflect.Type {
	out := iteratorMethod(t)
	if out == nil {
		return nil
	}
	if out.Kind() == reflect.Ptr || out.Kind() == reflect.Interface {
		return out
	}
	return reflect.PointerTo(out)
}

// newIterator calls c.Iterator() and returns an addressable copy so its
// pointer-receiver methods are reachable.
func newIterator(c any) any {
	m := reflect.ValueOf(c).MethodByName("Iterator")
	if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() != 1 {
		return nil
	}
	out := m.Call(nil)[0]
	if out.Kind() == reflect.Ptr || out.Kind() == reflect.Interface {
		return out.Interface()
	}
	p := reflect.New(out.Type())
	p.Elem().Set(out)
	return p.Interface()
}

// godsIterator adapts a gods-style iterator. keyed selects (Key, Value)
// pairs; otherwise values are paired with ordinals, or with themselves when
// asSet is true.
func godsIterator(c any, keyed, asSet bool) Iterator {
	raw := newIterator(c)
	if keyed {
		it, ok := raw.(entryIterator)
		if !ok {
			return nil
		}
		return IteratorFunc(func() (any, any, bool) {
			if !it.Next() {
				return nil, nil, false
			}
			return it.Key(), it.Value(), true
		})
	}
	it, ok := raw.(valueIterator)
	if !ok {
		return nil
	}
	n := 0
	return IteratorFunc(func() (any, any, bool) {
		if !it.Next() {
			return nil, nil, false
		}
		n++
		v := it.Value()
		if asSet {
			return v, v, true
		}
		return n, v, true
	})
}
