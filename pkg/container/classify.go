package container

import (
	"container/list"
	"fmt"
	"reflect"
	"sync"

	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/sets"
)

var (
	stdListType    = reflect.TypeOf((*list.List)(nil))
	arrayListType  = reflect.TypeOf((*arraylist.List)(nil))
	godsListType   = reflect.TypeOf((*lists.List)(nil)).Elem()
	godsSetType    = reflect.TypeOf((*sets.Set)(nil)).Elem()
	godsMapType    = reflect.TypeOf((*maps.Map)(nil)).Elem()
	iterableType   = reflect.TypeOf((*Iterable)(nil)).Elem()
	inserterType   = reflect.TypeOf((*Inserter)(nil)).Elem()
	removerType    = reflect.TypeOf((*Remover)(nil)).Elem()
	multiKeyedType = reflect.TypeOf((*interface{ Count(interface{}) int })(nil)).Elem()
	reverseType    = reflect.TypeOf((*reverseIterator)(nil)).Elem()
)

var opaque = &Descriptor{Kind: KindOpaque}

// binder creates a handle over rv for a container descriptor.
type binder func(r *Registry, rv reflect.Value, d *Descriptor) (*Handle, error)

// Registry caches one descriptor per host type and holds the per-type
// overrides. A Registry may back several script states.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]*Descriptor
	adapted     map[reflect.Type]*Descriptor
	overrides   map[reflect.Type]Override
	observers   []func(*Descriptor)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[reflect.Type]*Descriptor),
		adapted:     make(map[reflect.Type]*Descriptor),
		overrides:   make(map[reflect.Type]Override),
	}
}

// Mark attaches an override to t. Marks are meant to be set while
// registering types, before values of t are adapted.
func (r *Registry) Mark(t reflect.Type, ov Override) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[t] = ov
	delete(r.descriptors, t)
	delete(r.descriptors, reflect.PointerTo(t))
}

// OnClassify registers fn to be called with every newly computed descriptor.
func (r *Registry) OnClassify(fn func(*Descriptor)) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// overrideFor returns the override on t, or on the type t points to.
// Callers hold r.mu.
func (r *Registry) overrideFor(t reflect.Type) Override {
	if ov, ok := r.overrides[t]; ok {
		return ov
	}
	if t.Kind() == reflect.Ptr {
		return r.overrides[t.Elem()]
	}
	return Override{}
}

// Describe returns the descriptor for t, classifying it on first use.
func (r *Registry) Describe(t reflect.Type) *Descriptor {
	if t == nil {
		return opaque
	}
	r.mu.RLock()
	d, ok := r.descriptors[t]
	r.mu.RUnlock()
	if ok {
		return d
	}

	r.mu.Lock()
	if d, ok = r.descriptors[t]; ok {
		r.mu.Unlock()
		return d
	}
	d = classify(t, r.overrideFor(t))
	r.descriptors[t] = d
	observers := r.observers
	r.mu.Unlock()

	for _, fn := range observers {
		fn(d)
	}
	return d
}

// Classify returns the descriptor a value would be adapted with.
func (r *Registry) Classify(v any) *Descriptor {
	switch x := v.(type) {
	case *Handle:
		return x.desc
	case Reference:
		if x.check() != nil {
			return opaque
		}
		return r.Describe(x.ptr.Type())
	case Forced:
		if h, err := r.force(x); err == nil {
			return h.desc
		}
		return opaque
	}
	return r.Describe(reflect.TypeOf(v))
}

// Adapt creates a handle over v. Pointers, Reference and Forced values alias
// the host container; slices, arrays and Go maps passed by value are copied
// into storage owned by the handle.
func (r *Registry) Adapt(v any) (*Handle, error) {
	switch x := v.(type) {
	case *Handle:
		return x, nil
	case Forced:
		return r.force(x)
	case Reference:
		if err := x.check(); err != nil {
			return nil, err
		}
		return r.bind(x.ptr)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: nil", ErrNotContainer)
	}
	return r.bind(reflect.ValueOf(v))
}

func (r *Registry) bind(rv reflect.Value) (*Handle, error) {
	d := r.Describe(rv.Type())
	if !d.IsContainer() || d.bind == nil {
		return nil, fmt.Errorf("%w: %s classifies as %s", ErrNotContainer, rv.Type(), d.Kind)
	}
	return d.bind(r, rv, d)
}

// force adapts a value regardless of a MarkNotContainer override on its
// type.
func (r *Registry) force(f Forced) (*Handle, error) {
	if f.adapt != nil {
		return r.bindIterable(f.value, f.adapt(f.value))
	}
	if it, ok := f.value.(Iterable); ok {
		return r.bindIterable(f.value, it)
	}
	if f.value == nil {
		return nil, fmt.Errorf("%w: nil", ErrNotContainer)
	}
	rv := reflect.ValueOf(f.value)
	r.mu.RLock()
	ov := r.overrideFor(rv.Type())
	r.mu.RUnlock()
	if ov.Mode == MarkNotContainer {
		ov = Override{}
	}
	d := classify(rv.Type(), ov)
	if !d.IsContainer() || d.bind == nil {
		return nil, fmt.Errorf("%w: %s has no container shape", ErrNotContainer, rv.Type())
	}
	return d.bind(r, rv, d)
}

// bindIterable creates a Custom handle over it; origin is what
// Handle.Value reports.
func (r *Registry) bindIterable(origin any, it Iterable) (*Handle, error) {
	if it == nil {
		return nil, fmt.Errorf("%w: adaptation of %T returned nil", ErrNotContainer, origin)
	}
	t := reflect.TypeOf(it)
	r.mu.RLock()
	d, ok := r.adapted[t]
	r.mu.RUnlock()
	if !ok {
		d = &Descriptor{Type: t}
		describeIterable(d, t)
		r.mu.Lock()
		r.adapted[t] = d
		r.mu.Unlock()
	}
	if typed, ok := it.(Typed); ok {
		cp := *d
		cp.Elem = typed.ElemType()
		d = &cp
	}
	h := newHandle(d)
	h.seq = &customStore{it: it, origin: origin}
	return h, nil
}

// classify applies the classification rules in order. It never fails;
// anything without a recognised shape is opaque.
func classify(t reflect.Type, ov Override) *Descriptor {
	d := &Descriptor{Type: t}
	switch ov.Mode {
	case MarkNotContainer:
		return d
	case MarkContainer:
		if ov.Adapt != nil {
			d.Kind = KindCustom
			d.bind = adaptedBinder(ov.Adapt)
			return d
		}
	}

	base := t
	if t.Kind() == reflect.Ptr {
		base = t.Elem()
	}
	// A type's own Iterable implementation wins over its reflect shape.
	switch {
	case t.Implements(iterableType):
		describeIterable(d, t)
		d.bind = bindIterableValue
	case base.Kind() == reflect.Slice:
		d.Kind = KindSequence
		d.RandomAccess, d.Reversible = true, true
		d.Elem = base.Elem()
		d.bind = bindSlice
	case base.Kind() == reflect.Array:
		d.Kind = KindFixed
		d.Fixed, d.RandomAccess, d.Reversible = true, true, true
		d.Elem = base.Elem()
		d.bind = bindArray
	case t == stdListType:
		d.Kind = KindSequence
		d.Reversible = true
		d.bind = bindLinked
	case t.Implements(godsListType):
		d.Kind = KindSequence
		d.RandomAccess = t == arrayListType
		d.Reversible = reversible(t)
		d.bind = bindGodsList
	case t.Implements(godsSetType):
		d.Ordered = iteratorType(t) != nil
		d.Kind = KindUnorderedSet
		if d.Ordered {
			d.Kind = KindOrderedSet
			d.Reversible = reversible(t)
		}
		d.MultiKey = t.Implements(multiKeyedType)
		d.bind = bindGodsSet
	case t.Implements(godsMapType):
		d.Ordered = iteratorType(t) != nil
		d.Kind = KindUnorderedMap
		if d.Ordered {
			d.Kind = KindOrderedMap
			d.Reversible = reversible(t)
		}
		d.Associative = true
		d.MultiKey = t.Implements(multiKeyedType)
		d.bind = bindGodsMap
	case base.Kind() == reflect.Map:
		d.Key = base.Key()
		if v := base.Elem(); v.Kind() == reflect.Struct && v.NumField() == 0 {
			d.Kind = KindUnorderedSet
		} else {
			d.Kind = KindUnorderedMap
			d.Associative = true
			d.Elem = v
		}
		d.bind = bindGoMap
	}
	return d
}

func describeIterable(d *Descriptor, t reflect.Type) {
	d.Kind = KindCustom
	d.RandomAccess, d.Reversible = true, true
	d.Fixed = !t.Implements(inserterType) && !t.Implements(removerType)
}

func reversible(t reflect.Type) bool {
	it := iteratorType(t)
	return it != nil && it.Implements(reverseType)
}

func newHandle(d *Descriptor) *Handle {
	return &Handle{desc: d, ops: opsFor(d)}
}

// owned returns a pointer the handle writes through: rv itself when it is a
// pointer, otherwise a pointer to a copy of rv.
func owned(rv reflect.Value) (reflect.Value, error) {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s", ErrNotContainer, rv.Type())
		}
		return rv, nil
	}
	p := reflect.New(rv.Type())
	switch rv.Kind() {
	case reflect.Slice:
		if !rv.IsNil() {
			cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
			reflect.Copy(cp, rv)
			p.Elem().Set(cp)
		}
	case reflect.Map:
		if !rv.IsNil() {
			cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				cp.SetMapIndex(iter.Key(), iter.Value())
			}
			p.Elem().Set(cp)
		}
	default:
		p.Elem().Set(rv)
	}
	return p, nil
}

func notNil(rv reflect.Value) error {
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return fmt.Errorf("%w: nil %s", ErrNotContainer, rv.Type())
	}
	return nil
}

func bindSlice(_ *Registry, rv reflect.Value, d *Descriptor) (*Handle, error) {
	ptr, err := owned(rv)
	if err != nil {
		return nil, err
	}
	h := newHandle(d)
	h.seq = &sliceStore{ptr: ptr, elem: d.Elem}
	return h, nil
}

func bindArray(_ *Registry, rv reflect.Value, d *Descriptor) (*Handle, error) {
	ptr, err := owned(rv)
	if err != nil {
		return nil, err
	}
	h := newHandle(d)
	h.seq = &arrayStore{ptr: ptr, elem: d.Elem}
	return h, nil
}

func bindLinked(_ *Registry, rv reflect.Value, d *Descriptor) (*Handle, error) {
	if err := notNil(rv); err != nil {
		return nil, err
	}
	h := newHandle(d)
	h.seq = &linkedStore{l: rv.Interface().(*list.List)}
	return h, nil
}

func bindGodsList(_ *Registry, rv reflect.Value, d *Descriptor) (*Handle, error) {
	if err := notNil(rv); err != nil {
		return nil, err
	}
	h := newHandle(d)
	h.seq = &godsListStore{l: rv.Interface().(lists.List)}
	return h, nil
}

func bindGodsSet(_ *Registry, rv reflect.Value, d *Descriptor) (*Handle, error) {
	if err := notNil(rv); err != nil {
		return nil, err
	}
	h := newHandle(d)
	h.set = &godsSetStore{s: rv.Interface().(sets.Set), ordered: d.Ordered}
	return h, nil
}

func bindGodsMap(_ *Registry, rv reflect.Value, d *Descriptor) (*Handle, error) {
	if err := notNil(rv); err != nil {
		return nil, err
	}
	h := newHandle(d)
	h.kv = &godsMapStore{m: rv.Interface().(maps.Map), ordered: d.Ordered}
	return h, nil
}

func bindGoMap(_ *Registry, rv reflect.Value, d *Descriptor) (*Handle, error) {
	ptr, err := owned(rv)
	if err != nil {
		return nil, err
	}
	h := newHandle(d)
	if d.IsSet() {
		h.set = &goSetStore{goMap{ptr: ptr}}
	} else {
		h.kv = &goMapStore{goMap{ptr: ptr}}
	}
	return h, nil
}

func bindIterableValue(r *Registry, rv reflect.Value, _ *Descriptor) (*Handle, error) {
	if err := notNil(rv); err != nil {
		return nil, err
	}
	return r.bindIterable(rv.Interface(), rv.Interface().(Iterable))
}

func adaptedBinder(adapt func(any) Iterable) binder {
	return func(r *Registry, rv reflect.Value, _ *Descriptor) (*Handle, error) {
		v := rv.Interface()
		return r.bindIterable(v, adapt(v))
	}
}
