// Package collections provides the multi-key containers gods does not ship:
// sets and maps that keep duplicate keys. They are built on gods maps and
// satisfy the gods container interfaces, so the binding layer treats them
// like any other gods container.
package collections

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// multiSet counts occurrences per key. counts maps key -> int.
type multiSet struct {
	counts maps.Map
	size   int
}

// Add inserts one occurrence of each value.
func (s *multiSet) Add(values ...interface{}) {
	for _, v := range values {
		s.counts.Put(v, s.Count(v)+1)
		s.size++
	}
}

// Remove drops every occurrence of each value. Missing values are ignored.
func (s *multiSet) Remove(values ...interface{}) {
	for _, v := range values {
		if n := s.Count(v); n > 0 {
			s.counts.Remove(v)
			s.size -= n
		}
	}
}

// Contains reports whether all values are present at least once.
func (s *multiSet) Contains(values ...interface{}) bool {
	for _, v := range values {
		if s.Count(v) == 0 {
			return false
		}
	}
	return true
}

// Count returns the number of occurrences of v.
func (s *multiSet) Count(v interface{}) int {
	n, ok := s.counts.Get(v)
	if !ok {
		return 0
	}
	return n.(int)
}

func (s *multiSet) Size() int   { return s.size }
func (s *multiSet) Empty() bool { return s.size == 0 }

func (s *multiSet) Clear() {
	s.counts.Clear()
	s.size = 0
}

// Values returns every occurrence, grouped by key in the order of the
// underlying map.
func (s *multiSet) Values() []interface{} {
	out := make([]interface{}, 0, s.size)
	for _, k := range s.counts.Keys() {
		for i := s.Count(k); i > 0; i-- {
			out = append(out, k)
		}
	}
	return out
}

func (s *multiSet) String() string {
	parts := make([]string, 0, s.size)
	for _, v := range s.Values() {
		parts = append(parts, fmt.Sprintf("%v", v))
	}
	return "MultiSet\n" + strings.Join(parts, ", ")
}

// TreeMultiSet is an ordered set that keeps duplicates, the analogue of a
// C++ std::multiset.
type TreeMultiSet struct {
	multiSet
	tree *treemap.Map
}

// NewTreeMultiSet creates an ordered multiset using cmp for key order.
func NewTreeMultiSet(cmp utils.Comparator, values ...interface{}) *TreeMultiSet {
	tree := treemap.NewWith(cmp)
	s := &TreeMultiSet{multiSet: multiSet{counts: tree}, tree: tree}
	s.Add(values...)
	return s
}

// Iterator returns a stateful iterator that visits each occurrence in key
// order.
func (s *TreeMultiSet) Iterator() SetIterator {
	return SetIterator{it: s.tree.Iterator(), index: -1}
}

// SetIterator walks a TreeMultiSet, repeating duplicate keys.
type SetIterator struct {
	it    treemap.Iterator
	value interface{}
	left  int
	index int
}

// Next moves to the next occurrence and reports whether one exists.
func (it *SetIterator) Next() bool {
	if it.left > 0 {
		it.left--
		it.index++
		return true
	}
	if !it.it.Next() {
		return false
	}
	it.value = it.it.Key()
	it.left = it.it.Value().(int) - 1
	it.index++
	return true
}

// Value returns the current key.
func (it *SetIterator) Value() interface{} { return it.value }

// Index returns the position of the current occurrence.
func (it *SetIterator) Index() int { return it.index }

// HashMultiSet is an unordered set that keeps duplicates.
type HashMultiSet struct {
	multiSet
}

// NewHashMultiSet creates an unordered multiset.
func NewHashMultiSet(values ...interface{}) *HashMultiSet {
	s := &HashMultiSet{multiSet: multiSet{counts: hashmap.New()}}
	s.Add(values...)
	return s
}
