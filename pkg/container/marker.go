package container

import (
	"fmt"
	"reflect"
)

// Marker selects how a registered type is classified.
type Marker int

const (
	// MarkAuto leaves the type to structural classification.
	MarkAuto Marker = iota
	// MarkContainer forces container treatment through Override.Adapt.
	MarkContainer
	// MarkNotContainer suppresses container treatment; values of the type
	// are exposed as plain objects.
	MarkNotContainer
)

func (m Marker) String() string {
	switch m {
	case MarkAuto:
		return "auto"
	case MarkContainer:
		return "container"
	case MarkNotContainer:
		return "not-container"
	default:
		return fmt.Sprintf("Marker(%d)", int(m))
	}
}

// Override is the per-type classification option attached at registration.
type Override struct {
	Mode Marker
	// Adapt turns a value of the marked type into an Iterable. Required for
	// MarkContainer on types that do not implement Iterable themselves.
	Adapt func(v any) Iterable
}

// Iterable is implemented by host types that supply their own length and
// positional access. Positions are 0-based.
type Iterable interface {
	Len() int
	At(pos int) any
}

// Setter overwrites the element at pos.
type Setter interface {
	SetAt(pos int, v any) error
}

// Inserter inserts v before pos; pos == Len() appends.
type Inserter interface {
	InsertAt(pos int, v any) error
}

// Remover removes the element at pos.
type Remover interface {
	RemoveAt(pos int) error
}

// Clearer removes every element.
type Clearer interface {
	Clear() error
}

// Ranger lets an Iterable drive its own traversal.
type Ranger interface {
	Range(yield func(pos int, v any) bool)
}

// Typed reports the element type script values are converted to before
// they reach SetAt or InsertAt.
type Typed interface {
	ElemType() reflect.Type
}

// Forced wraps a single value so that it is adapted as a container even when
// its type is marked MarkNotContainer. The resulting handle aliases the
// value.
type Forced struct {
	value any
	adapt func(any) Iterable
}

// AsContainer forces container treatment of v.
func AsContainer(v any) Forced {
	return Forced{value: v}
}

// AsContainerWith forces container treatment of v through adapt.
func AsContainerWith(v any, adapt func(any) Iterable) Forced {
	return Forced{value: v, adapt: adapt}
}

// Value returns the wrapped value.
func (f Forced) Value() any { return f.value }

// Reference wraps a pointer so that the container it points at is aliased
// rather than copied.
type Reference struct {
	ptr reflect.Value
}

// Ref wraps ptr. Adapting a Reference that does not hold a non-nil pointer
// fails with ErrNotContainer.
func Ref(ptr any) Reference {
	return Reference{ptr: reflect.ValueOf(ptr)}
}

func (r Reference) check() error {
	if r.ptr.Kind() != reflect.Ptr || r.ptr.IsNil() {
		return fmt.Errorf("%w: reference needs a non-nil pointer, got %v", ErrNotContainer, r.ptr.Kind())
	}
	return nil
}

// Value returns the wrapped pointer.
func (r Reference) Value() any {
	if !r.ptr.IsValid() {
		return nil
	}
	return r.ptr.Interface()
}
