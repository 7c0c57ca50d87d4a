package container

import (
	"fmt"
	"math"
	"reflect"
)

// Normalize maps script scalars onto the representation untyped host
// containers store: integral numbers become int, everything else is kept.
func Normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if n, ok := integral(x); ok {
			return n
		}
		return x
	case float32:
		if n, ok := integral(float64(x)); ok {
			return n
		}
		return float64(x)
	case int:
		return x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n >= math.MinInt && n <= math.MaxInt {
			return int(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n := rv.Uint(); n <= math.MaxInt {
			return int(n)
		}
	}
	return v
}

func integral(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

// toInt64 reads an integer out of any numeric value. Floats must be integral.
func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n := rv.Uint(); n <= math.MaxInt64 {
			return int64(n), true
		}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Convert coerces a script value to the host type t. A nil t means the host
// container is untyped, in which case v is only normalised.
func Convert(v any, t reflect.Type) (any, error) {
	if t == nil {
		return Normalize(v), nil
	}
	if t.Kind() == reflect.Interface {
		v = Normalize(v)
		if v != nil && !reflect.TypeOf(v).Implements(t) {
			return nil, mismatch(v, t)
		}
		return v, nil
	}
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t).Interface(), nil
		}
		return nil, mismatch(v, t)
	}
	if reflect.TypeOf(v) == t {
		return v, nil
	}
	zero := reflect.Zero(t)
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt64(v)
		if !ok || zero.OverflowInt(n) {
			return nil, mismatch(v, t)
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := toInt64(v)
		if !ok || n < 0 || zero.OverflowUint(uint64(n)) {
			return nil, mismatch(v, t)
		}
		return reflect.ValueOf(uint64(n)).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		f, ok := toFloat64(v)
		if !ok || zero.OverflowFloat(f) {
			return nil, mismatch(v, t)
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	case reflect.String:
		if s, ok := v.(string); ok {
			return reflect.ValueOf(s).Convert(t).Interface(), nil
		}
		return nil, mismatch(v, t)
	case reflect.Bool:
		if b, ok := v.(bool); ok {
			return reflect.ValueOf(b).Convert(t).Interface(), nil
		}
		return nil, mismatch(v, t)
	}
	if reflect.TypeOf(v).AssignableTo(t) {
		return reflect.ValueOf(v).Convert(t).Interface(), nil
	}
	return nil, mismatch(v, t)
}

func mismatch(v any, t reflect.Type) error {
	return fmt.Errorf("%w: cannot use %v (%T) as %s", ErrKeyType, v, v, t)
}

// valueOf returns v as a reflect.Value of type t, mapping nil to t's zero.
func valueOf(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

// equal compares host and script values after normalisation.
func equal(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
