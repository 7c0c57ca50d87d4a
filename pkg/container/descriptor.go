package container

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is the capability class a host type is adapted as.
type Kind int

const (
	KindOpaque Kind = iota
	KindSequence
	KindFixed
	KindOrderedSet
	KindUnorderedSet
	KindOrderedMap
	KindUnorderedMap
	KindCustom
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindSequence:
		return "sequence"
	case KindFixed:
		return "fixed"
	case KindOrderedSet:
		return "ordered-set"
	case KindUnorderedSet:
		return "unordered-set"
	case KindOrderedMap:
		return "ordered-map"
	case KindUnorderedMap:
		return "unordered-map"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor records what a host type can do. It is computed once per type
// and shared, read-only, by every handle of that type.
type Descriptor struct {
	Type reflect.Type
	Kind Kind

	Fixed        bool
	Associative  bool // dereferencing yields key/value pairs
	Ordered      bool
	MultiKey     bool
	RandomAccess bool
	Reversible   bool

	// Key and Elem are the host key and element types; nil means the host
	// container is untyped and receives normalised script values.
	Key  reflect.Type
	Elem reflect.Type

	bind binder
}

// IsContainer reports whether values of the type are adapted as containers.
func (d *Descriptor) IsContainer() bool {
	return d != nil && d.Kind != KindOpaque
}

// IsSet reports whether the type is a set of either ordering.
func (d *Descriptor) IsSet() bool {
	return d.Kind == KindOrderedSet || d.Kind == KindUnorderedSet
}

// IsMap reports whether the type is a map of either ordering.
func (d *Descriptor) IsMap() bool {
	return d.Kind == KindOrderedMap || d.Kind == KindUnorderedMap
}

// keyed is true when script keys are host keys rather than ordinals.
func (d *Descriptor) keyed() bool {
	return d.IsSet() || d.IsMap()
}

func (d *Descriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	var flags []string
	if d.Fixed {
		flags = append(flags, "fixed")
	}
	if d.MultiKey {
		flags = append(flags, "multi")
	}
	if d.RandomAccess {
		flags = append(flags, "random-access")
	}
	if d.Reversible {
		flags = append(flags, "reversible")
	}
	if len(flags) == 0 {
		return d.Kind.String()
	}
	return d.Kind.String() + "(" + strings.Join(flags, ",") + ")"
}
