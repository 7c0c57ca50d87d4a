// Package catalog builds host containers by the names used in the container
// conformance scenarios (vector, deque, list, set, multimap, ...) so that
// fixtures and the CLI can describe them declaratively.
package catalog

import (
	"container/list"
	"fmt"
	"reflect"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/lists/singlylinkedlist"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/hilkojj/sol2/pkg/collections"
	"github.com/hilkojj/sol2/pkg/container"
)

// Entry is one key/value pair of a map seed.
type Entry struct {
	Key   int `yaml:"key"`
	Value int `yaml:"value"`
}

// Seed holds the initial contents of a container.
type Seed struct {
	Values  []int   `yaml:"values,omitempty"`
	Entries []Entry `yaml:"entries,omitempty"`
	// Size is the length of an array; it defaults to len(Values).
	Size int `yaml:"size,omitempty"`
}

type builder func(s Seed) (any, error)

var builders = map[string]builder{
	"vector": func(s Seed) (any, error) {
		v := append([]int{}, s.Values...)
		return &v, nil
	},
	"deque": func(s Seed) (any, error) {
		l := list.New()
		for _, v := range s.Values {
			l.PushBack(v)
		}
		return l, nil
	},
	"list":         func(s Seed) (any, error) { return doublylinkedlist.New(ints(s.Values)...), nil },
	"forward_list": func(s Seed) (any, error) { return singlylinkedlist.New(ints(s.Values)...), nil },
	"array_list":   func(s Seed) (any, error) { return arraylist.New(ints(s.Values)...), nil },
	"array":        buildArray,
	"set":          func(s Seed) (any, error) { return treeset.NewWith(container.CompareAny, ints(s.Values)...), nil },
	"linked_set":   func(s Seed) (any, error) { return linkedhashset.New(ints(s.Values)...), nil },
	"multiset": func(s Seed) (any, error) {
		return collections.NewTreeMultiSet(container.CompareAny, ints(s.Values)...), nil
	},
	"unordered_set": func(s Seed) (any, error) {
		m := make(map[int]struct{}, len(s.Values))
		for _, v := range s.Values {
			m[v] = struct{}{}
		}
		return &m, nil
	},
	"hash_set":           func(s Seed) (any, error) { return hashset.New(ints(s.Values)...), nil },
	"unordered_multiset": func(s Seed) (any, error) { return collections.NewHashMultiSet(ints(s.Values)...), nil },
	"map": func(s Seed) (any, error) {
		m := treemap.NewWith(container.CompareAny)
		for _, e := range s.Entries {
			m.Put(e.Key, e.Value)
		}
		return m, nil
	},
	"linked_map": func(s Seed) (any, error) {
		m := linkedhashmap.New()
		for _, e := range s.Entries {
			m.Put(e.Key, e.Value)
		}
		return m, nil
	},
	"multimap": func(s Seed) (any, error) {
		m := collections.NewTreeMultiMap(container.CompareAny)
		for _, e := range s.Entries {
			m.Add(e.Key, e.Value)
		}
		return m, nil
	},
	"unordered_map": func(s Seed) (any, error) {
		m := make(map[int]int, len(s.Entries))
		for _, e := range s.Entries {
			m[e.Key] = e.Value
		}
		return &m, nil
	},
	"hash_map": func(s Seed) (any, error) {
		m := hashmap.New()
		for _, e := range s.Entries {
			m.Put(e.Key, e.Value)
		}
		return m, nil
	},
	"unordered_multimap": func(s Seed) (any, error) {
		m := collections.NewHashMultiMap()
		for _, e := range s.Entries {
			m.Add(e.Key, e.Value)
		}
		return m, nil
	},
}

// Names lists the container names Build accepts, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the host container called name, filled from seed. The
// result is always a pointer or a reference type, so handles over it alias
// the returned value.
func Build(name string, seed Seed) (any, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown container %q", name)
	}
	return b(seed)
}

func ints(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// buildArray returns a *[N]int with N = seed.Size (or len(seed.Values)).
func buildArray(s Seed) (any, error) {
	n := s.Size
	if n == 0 {
		n = len(s.Values)
	}
	if len(s.Values) > n {
		return nil, fmt.Errorf("array of size %d cannot hold %d values", n, len(s.Values))
	}
	p := reflect.New(reflect.ArrayOf(n, reflect.TypeOf(0)))
	for i, v := range s.Values {
		p.Elem().Index(i).SetInt(int64(v))
	}
	return p.Interface(), nil
}
