// Package container adapts host Go containers for use from a script
// runtime.
//
// A Registry classifies each host type once into a Descriptor (sequence,
// fixed, ordered or unordered set, ordered or unordered map, custom, or
// opaque) and creates Handles over values of that type. Every Handle
// operation dispatches through the function set chosen for its kind:
//
//	sequence  c[i] reads ordinal i (1-based); c[n+1] = v appends;
//	          find(v) returns the first ordinal holding v
//	fixed     like sequence, but the length never changes: add, insert,
//	          erase and clear fail with ErrUnsupported
//	set       c[k] returns k when present; c[k] = true inserts and
//	          c[k] = nil or false erases; find(k) returns k
//	map       c[k] returns the mapped value; c[k] = nil erases;
//	          find(k) returns the mapped value and index_of(v) the key
//	custom    positional access through an Iterable and the optional
//	          Setter, Inserter, Remover and Clearer interfaces
//
// Ordinal 0, negative ordinals and ordinals past the end are errors
// wrapping ErrOutOfRange. Lookups that find nothing report found == false
// rather than an error.
//
// Classification can be overridden per type with Registry.Mark, and per
// value with AsContainer.
package container
