package container

import (
	"fmt"
)

// Handle is a script-side reference to one host container. Its operations
// dispatch through the function set selected for its descriptor when the
// handle was created; no per-call type inspection happens.
type Handle struct {
	desc *Descriptor
	ops  *opSet
	seq  sequenceStore
	set  setStore
	kv   mapStore
}

// opSet is one row of the dispatch table.
type opSet struct {
	length  func(h *Handle) int
	get     func(h *Handle, key any) (any, bool, error)
	set     func(h *Handle, key, value any) error
	find    func(h *Handle, v any) (any, bool)
	indexOf func(h *Handle, v any) (any, bool)
	add     func(h *Handle, args []any) error
	insert  func(h *Handle, key, value any) error
	erase   func(h *Handle, key any) error
	clear   func(h *Handle) error
	iterate func(h *Handle) Iterator
}

var dispatchTable [numKinds]*opSet

func init() {
	dispatchTable[KindSequence] = sequenceOps
	dispatchTable[KindFixed] = fixedOps
	dispatchTable[KindOrderedSet] = setOps
	dispatchTable[KindUnorderedSet] = setOps
	dispatchTable[KindOrderedMap] = mapOps
	dispatchTable[KindUnorderedMap] = mapOps
	dispatchTable[KindCustom] = sequenceOps
}

// opsFor picks the row for d. Custom types without insert/remove support
// share the fixed row.
func opsFor(d *Descriptor) *opSet {
	if d.Fixed {
		return fixedOps
	}
	return dispatchTable[d.Kind]
}

func seqConvert(h *Handle, v any) (any, error) {
	return Convert(v, h.desc.Elem)
}

func seqFind(h *Handle, v any) (any, bool) {
	cv, err := seqConvert(h, v)
	if err != nil {
		return nil, false
	}
	it := h.seq.each()
	for k, e, ok := it.Next(); ok; k, e, ok = it.Next() {
		if equal(e, cv) {
			return k, true
		}
	}
	return nil, false
}

func seqGet(h *Handle, key any) (any, bool, error) {
	pos, err := position(key, h.seq.length())
	if err != nil {
		return nil, false, err
	}
	return h.seq.at(pos), true, nil
}

func seqIterate(h *Handle) Iterator { return h.seq.each() }
func seqLength(h *Handle) int       { return h.seq.length() }

var sequenceOps = &opSet{
	length: seqLength,
	get:    seqGet,
	set: func(h *Handle, key, value any) error {
		cv, err := seqConvert(h, value)
		if err != nil {
			return err
		}
		n := h.seq.length()
		pos, err := position(key, n+1)
		if err != nil {
			return err
		}
		if pos == n {
			return h.seq.insert(pos, cv)
		}
		return h.seq.put(pos, cv)
	},
	find:    seqFind,
	indexOf: seqFind,
	add: func(h *Handle, args []any) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: add takes one value, got %d", ErrArity, len(args))
		}
		cv, err := seqConvert(h, args[0])
		if err != nil {
			return err
		}
		return h.seq.insert(h.seq.length(), cv)
	},
	insert: func(h *Handle, key, value any) error {
		cv, err := seqConvert(h, value)
		if err != nil {
			return err
		}
		pos, err := position(key, h.seq.length()+1)
		if err != nil {
			return err
		}
		return h.seq.insert(pos, cv)
	},
	erase: func(h *Handle, key any) error {
		pos, err := position(key, h.seq.length())
		if err != nil {
			return err
		}
		return h.seq.remove(pos)
	},
	clear:   func(h *Handle) error { return h.seq.clear() },
	iterate: seqIterate,
}

var fixedOps = &opSet{
	length: seqLength,
	get:    seqGet,
	set: func(h *Handle, key, value any) error {
		cv, err := seqConvert(h, value)
		if err != nil {
			return err
		}
		pos, err := position(key, h.seq.length())
		if err != nil {
			return err
		}
		return h.seq.put(pos, cv)
	},
	find:    seqFind,
	indexOf: seqFind,
	add:     func(*Handle, []any) error { return errFixed },
	insert:  func(*Handle, any, any) error { return errFixed },
	erase:   func(*Handle, any) error { return errFixed },
	clear:   func(*Handle) error { return errFixed },
	iterate: seqIterate,
}

func setLookup(h *Handle, key any) (any, bool) {
	ck, err := Convert(key, h.desc.Key)
	if err != nil || !h.set.has(ck) {
		return nil, false
	}
	return ck, true
}

func setAdd(h *Handle, key any) error {
	ck, err := Convert(key, h.desc.Key)
	if err != nil {
		return err
	}
	h.set.add(ck)
	return nil
}

func setErase(h *Handle, key any) error {
	ck, err := Convert(key, h.desc.Key)
	if err != nil {
		return err
	}
	h.set.remove(ck)
	return nil
}

var setOps = &opSet{
	length: func(h *Handle) int { return h.set.length() },
	get: func(h *Handle, key any) (any, bool, error) {
		v, ok := setLookup(h, key)
		return v, ok, nil
	},
	set: func(h *Handle, key, value any) error {
		if !truthy(value) {
			return setErase(h, key)
		}
		return setAdd(h, key)
	},
	find:    setLookup,
	indexOf: setLookup,
	add: func(h *Handle, args []any) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: add takes one key, got %d", ErrArity, len(args))
		}
		return setAdd(h, args[0])
	},
	insert: func(h *Handle, key, _ any) error { return setAdd(h, key) },
	erase:  setErase,
	clear: func(h *Handle) error {
		h.set.clear()
		return nil
	},
	iterate: func(h *Handle) Iterator { return h.set.each() },
}

func mapLookup(h *Handle, key any) (any, bool) {
	ck, err := Convert(key, h.desc.Key)
	if err != nil {
		return nil, false
	}
	return h.kv.get(ck)
}

func mapEntry(h *Handle, key, value any) (any, any, error) {
	ck, err := Convert(key, h.desc.Key)
	if err != nil {
		return nil, nil, err
	}
	cv, err := Convert(value, h.desc.Elem)
	if err != nil {
		return nil, nil, err
	}
	return ck, cv, nil
}

func mapAdd(h *Handle, key, value any) error {
	ck, cv, err := mapEntry(h, key, value)
	if err != nil {
		return err
	}
	h.kv.add(ck, cv)
	return nil
}

func mapErase(h *Handle, key any) error {
	ck, err := Convert(key, h.desc.Key)
	if err != nil {
		return err
	}
	h.kv.remove(ck)
	return nil
}

var mapOps = &opSet{
	length: func(h *Handle) int { return h.kv.length() },
	get: func(h *Handle, key any) (any, bool, error) {
		v, ok := mapLookup(h, key)
		return v, ok, nil
	},
	set: func(h *Handle, key, value any) error {
		if value == nil {
			return mapErase(h, key)
		}
		ck, cv, err := mapEntry(h, key, value)
		if err != nil {
			return err
		}
		h.kv.put(ck, cv)
		return nil
	},
	find: mapLookup,
	indexOf: func(h *Handle, v any) (any, bool) {
		cv, err := Convert(v, h.desc.Elem)
		if err != nil {
			return nil, false
		}
		it := h.kv.each()
		for k, e, ok := it.Next(); ok; k, e, ok = it.Next() {
			if equal(e, cv) {
				return k, true
			}
		}
		return nil, false
	},
	add: func(h *Handle, args []any) error {
		if len(args) != 2 {
			return fmt.Errorf("%w: add takes a key and a value, got %d arguments", ErrArity, len(args))
		}
		return mapAdd(h, args[0], args[1])
	},
	insert: mapAdd,
	erase:  mapErase,
	clear: func(h *Handle) error {
		h.kv.clear()
		return nil
	},
	iterate: func(h *Handle) Iterator { return h.kv.each() },
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Descriptor returns the capability descriptor the handle dispatches on.
func (h *Handle) Descriptor() *Descriptor { return h.desc }

// Kind is shorthand for Descriptor().Kind.
func (h *Handle) Kind() Kind { return h.desc.Kind }

// Value returns the host value the handle operates on: the pointer for
// slices, arrays and Go maps (the script-owned copy when pushed by value),
// the container itself otherwise.
func (h *Handle) Value() any {
	switch {
	case h.seq != nil:
		return h.seq.value()
	case h.set != nil:
		return h.set.value()
	default:
		return h.kv.value()
	}
}

func (h *Handle) fail(op string, key any, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Kind: h.desc.Kind, Key: key, Err: err}
}

// guard turns a panic from host container code into an error.
func (h *Handle) guard(op string, key any, err *error) {
	if r := recover(); r != nil {
		*err = h.fail(op, key, fmt.Errorf("%w: %v", ErrHostPanic, r))
	}
}

// Len returns the element count; for fixed containers, the capacity.
func (h *Handle) Len() int { return h.ops.length(h) }

// Get reads the element at an ordinal or the entry for a key. A missing key
// reports found == false without error; an out-of-range ordinal is an error.
func (h *Handle) Get(key any) (v any, found bool, err error) {
	defer h.guard("get", key, &err)
	v, found, err = h.ops.get(h, key)
	return v, found, h.fail("get", key, err)
}

// Set writes an element or entry. See the package documentation for the
// per-kind rules.
func (h *Handle) Set(key, value any) (err error) {
	defer h.guard("set", key, &err)
	return h.fail("set", key, h.ops.set(h, key, value))
}

// Find looks v up: the ordinal for sequences, the key for sets, the mapped
// value for maps.
func (h *Handle) Find(v any) (res any, found bool, err error) {
	defer h.guard("find", v, &err)
	res, found = h.ops.find(h, v)
	return res, found, nil
}

// IndexOf is the reverse lookup: the key mapping to v for maps, otherwise
// the same as Find.
func (h *Handle) IndexOf(v any) (res any, found bool, err error) {
	defer h.guard("index_of", v, &err)
	res, found = h.ops.indexOf(h, v)
	return res, found, nil
}

// Add appends a value (sequences), inserts a key (sets) or a key and value
// (maps).
func (h *Handle) Add(args ...any) (err error) {
	defer h.guard("add", nil, &err)
	return h.fail("add", nil, h.ops.add(h, args))
}

// Insert places value before the ordinal key on sequences; on sets and maps
// it is the same as Add.
func (h *Handle) Insert(key, value any) (err error) {
	defer h.guard("insert", key, &err)
	return h.fail("insert", key, h.ops.insert(h, key, value))
}

// Erase removes the element at an ordinal or every entry with a key.
func (h *Handle) Erase(key any) (err error) {
	defer h.guard("erase", key, &err)
	return h.fail("erase", key, h.ops.erase(h, key))
}

// Clear removes every element.
func (h *Handle) Clear() (err error) {
	defer h.guard("clear", nil, &err)
	return h.fail("clear", nil, h.ops.clear(h))
}

// Iterate starts a fresh traversal.
func (h *Handle) Iterate() Iterator { return h.ops.iterate(h) }
