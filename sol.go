// Package sol binds host containers into an embedded Lua runtime.
//
// Values set with State.Set are classified once per type by the registry in
// pkg/container. Slices, arrays, container/list lists, Go maps, gods lists,
// sets and maps, and types implementing container.Iterable become container
// handles that scripts use with the usual syntax:
//
//	#c, c[i], c[i] = v, pairs(c), ipairs(c), tostring(c)
//	c:find(v), c:index_of(v), c:get(k), c:set(k, v), c:add(v), c:add(k, v)
//	c:insert(i, v), c:erase(k), c:clear(), c:size(), c:empty()
//
// Sequences are indexed from 1. Containers passed by pointer, through
// container.Ref or through container.AsContainer alias host storage;
// containers passed by value are copied into storage owned by the script
// and can be read back with Lookup.
//
// Other host values become opaque objects, or instances of a Usertype when
// one is registered for their type.
package sol
