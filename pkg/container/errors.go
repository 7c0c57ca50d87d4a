package container

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned for operations the container's kind cannot
	// perform, such as growing a fixed-size container.
	ErrUnsupported = errors.New("operation not supported")

	// ErrOutOfRange is returned for ordinals outside 1..n (or 1..n+1 where
	// appending is allowed). Zero and negative ordinals are always out of
	// range.
	ErrOutOfRange = errors.New("index out of range")

	// ErrKeyType is returned when a key or value cannot be converted to the
	// host type on a write.
	ErrKeyType = errors.New("key or value type mismatch")

	// ErrArity is returned when an operation is missing an argument.
	ErrArity = errors.New("wrong number of arguments")

	// ErrNotContainer is returned when adapting a value that classifies as
	// opaque.
	ErrNotContainer = errors.New("not a container")

	// ErrHostPanic wraps a panic raised by the host container itself, for
	// example a gods comparator given a key of the wrong type.
	ErrHostPanic = errors.New("host container panicked")
)

// OpError describes a failed container operation.
type OpError struct {
	Op   string
	Kind Kind
	Key  any
	Err  error
}

func (e *OpError) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("%s(%v) on %s container: %v", e.Op, e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s on %s container: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
