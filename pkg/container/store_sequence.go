package container

import (
	"container/list"
	"fmt"
	"reflect"

	"github.com/emirpasic/gods/lists"
)

// sequenceStore is the positional primitive set behind Sequence, Fixed and
// Custom handles. Positions are 0-based and already validated.
type sequenceStore interface {
	length() int
	at(pos int) any
	put(pos int, v any) error
	insert(pos int, v any) error
	remove(pos int) error
	clear() error
	each() Iterator
	value() any
}

// sliceStore holds a pointer to a slice so appends are visible to the host.
type sliceStore struct {
	ptr  reflect.Value
	elem reflect.Type
}

func (s *sliceStore) rv() reflect.Value { return s.ptr.Elem() }
func (s *sliceStore) length() int       { return s.rv().Len() }
func (s *sliceStore) at(pos int) any    { return s.rv().Index(pos).Interface() }
func (s *sliceStore) value() any        { return s.ptr.Interface() }

func (s *sliceStore) put(pos int, v any) error {
	s.rv().Index(pos).Set(valueOf(v, s.elem))
	return nil
}

func (s *sliceStore) insert(pos int, v any) error {
	sl := s.rv()
	n := sl.Len()
	sl = reflect.Append(sl, reflect.Zero(s.elem))
	reflect.Copy(sl.Slice(pos+1, n+1), sl.Slice(pos, n))
	sl.Index(pos).Set(valueOf(v, s.elem))
	s.ptr.Elem().Set(sl)
	return nil
}

func (s *sliceStore) remove(pos int) error {
	sl := s.rv()
	n := sl.Len()
	reflect.Copy(sl.Slice(pos, n-1), sl.Slice(pos+1, n))
	sl.Index(n - 1).Set(reflect.Zero(s.elem))
	s.ptr.Elem().Set(sl.Slice(0, n-1))
	return nil
}

func (s *sliceStore) clear() error {
	sl := s.rv()
	sl.Clear()
	s.ptr.Elem().Set(sl.Slice(0, 0))
	return nil
}

func (s *sliceStore) each() Iterator {
	return indexIterator(s.length, s.at)
}

// arrayStore holds a pointer to a Go array; its length never changes.
type arrayStore struct {
	ptr  reflect.Value
	elem reflect.Type
}

func (s *arrayStore) length() int    { return s.ptr.Elem().Len() }
func (s *arrayStore) at(pos int) any { return s.ptr.Elem().Index(pos).Interface() }
func (s *arrayStore) value() any     { return s.ptr.Interface() }

func (s *arrayStore) put(pos int, v any) error {
	s.ptr.Elem().Index(pos).Set(valueOf(v, s.elem))
	return nil
}

func (s *arrayStore) insert(int, any) error { return errFixed }
func (s *arrayStore) remove(int) error      { return errFixed }
func (s *arrayStore) clear() error          { return errFixed }

func (s *arrayStore) each() Iterator {
	return indexIterator(s.length, s.at)
}

var errFixed = fmt.Errorf("%w: fixed-size container cannot change length", ErrUnsupported)

// linkedStore adapts container/list. Positional access walks from the
// nearer end.
type linkedStore struct {
	l *list.List
}

func (s *linkedStore) element(pos int) *list.Element {
	if n := s.l.Len(); pos > n/2 {
		e := s.l.Back()
		for i := n - 1; i > pos; i-- {
			e = e.Prev()
		}
		return e
	}
	e := s.l.Front()
	for i := 0; i < pos; i++ {
		e = e.Next()
	}
	return e
}

func (s *linkedStore) length() int    { return s.l.Len() }
func (s *linkedStore) at(pos int) any { return s.element(pos).Value }
func (s *linkedStore) value() any     { return s.l }

func (s *linkedStore) put(pos int, v any) error {
	s.element(pos).Value = v
	return nil
}

func (s *linkedStore) insert(pos int, v any) error {
	if pos == s.l.Len() {
		s.l.PushBack(v)
		return nil
	}
	s.l.InsertBefore(v, s.element(pos))
	return nil
}

func (s *linkedStore) remove(pos int) error {
	s.l.Remove(s.element(pos))
	return nil
}

func (s *linkedStore) clear() error {
	s.l.Init()
	return nil
}

func (s *linkedStore) each() Iterator {
	e := s.l.Front()
	n := 0
	return IteratorFunc(func() (any, any, bool) {
		if e == nil {
			return nil, nil, false
		}
		v := e.Value
		e = e.Next()
		n++
		return n, v, true
	})
}

// godsListStore adapts gods lists (array, singly and doubly linked).
type godsListStore struct {
	l lists.List
}

func (s *godsListStore) length() int { return s.l.Size() }
func (s *godsListStore) value() any  { return s.l }

func (s *godsListStore) at(pos int) any {
	v, _ := s.l.Get(pos)
	return v
}

func (s *godsListStore) put(pos int, v any) error {
	s.l.Set(pos, v)
	return nil
}

func (s *godsListStore) insert(pos int, v any) error {
	if pos == s.l.Size() {
		s.l.Add(v)
		return nil
	}
	s.l.Insert(pos, v)
	return nil
}

func (s *godsListStore) remove(pos int) error {
	s.l.Remove(pos)
	return nil
}

func (s *godsListStore) clear() error {
	s.l.Clear()
	return nil
}

func (s *godsListStore) each() Iterator {
	if it := godsIterator(s.l, false, false); it != nil {
		return it
	}
	return indexIterator(s.length, s.at)
}

// customStore routes positional access to a user Iterable and the optional
// capability interfaces it implements.
type customStore struct {
	it     Iterable
	origin any
}

func (s *customStore) length() int    { return s.it.Len() }
func (s *customStore) at(pos int) any { return s.it.At(pos) }
func (s *customStore) value() any     { return s.origin }

func (s *customStore) put(pos int, v any) error {
	if w, ok := s.it.(Setter); ok {
		return w.SetAt(pos, v)
	}
	return fmt.Errorf("%w: %T has no SetAt", ErrUnsupported, s.it)
}

func (s *customStore) insert(pos int, v any) error {
	if w, ok := s.it.(Inserter); ok {
		return w.InsertAt(pos, v)
	}
	return fmt.Errorf("%w: %T has no InsertAt", ErrUnsupported, s.it)
}

func (s *customStore) remove(pos int) error {
	if w, ok := s.it.(Remover); ok {
		return w.RemoveAt(pos)
	}
	return fmt.Errorf("%w: %T has no RemoveAt", ErrUnsupported, s.it)
}

func (s *customStore) clear() error {
	if w, ok := s.it.(Clearer); ok {
		return w.Clear()
	}
	return fmt.Errorf("%w: %T has no Clear", ErrUnsupported, s.it)
}

func (s *customStore) each() Iterator {
	r, ok := s.it.(Ranger)
	if !ok {
		return indexIterator(s.length, s.at)
	}
	// Range pushes values, so one traversal is buffered.
	var keys, values []any
	r.Range(func(pos int, v any) bool {
		keys = append(keys, ordinal(pos))
		values = append(values, v)
		return true
	})
	i := 0
	return IteratorFunc(func() (any, any, bool) {
		if i >= len(keys) {
			return nil, nil, false
		}
		i++
		return keys[i-1], values[i-1], true
	})
}
