package container

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/emirpasic/gods/utils"
)

const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

func rank(v any) int {
	if v == nil {
		return rankNil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool:
		return rankBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.String:
		return rankString
	}
	return rankOther
}

// CompareAny is a total order over mixed scalar values usable as a gods
// comparator: nil < booleans < numbers < strings < everything else. Numbers
// compare by value regardless of their Go type.
func CompareAny(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case rankNil:
		return 0
	case rankBool:
		x, y := reflect.ValueOf(a).Bool(), reflect.ValueOf(b).Bool()
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case rankNumber:
		if x, ok := toInt64(a); ok {
			if y, ok := toInt64(b); ok {
				return compareOrdered(x, y)
			}
		}
		x, _ := toFloat64(a)
		y, _ := toFloat64(b)
		return compareOrdered(x, y)
	case rankString:
		return strings.Compare(reflect.ValueOf(a).String(), reflect.ValueOf(b).String())
	}
	return strings.Compare(fmt.Sprintf("%T:%v", a, a), fmt.Sprintf("%T:%v", b, b))
}

func compareOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

var _ utils.Comparator = CompareAny

// sortKeys orders a key snapshot so that hash-backed containers iterate in a
// stable order.
func sortKeys(keys []interface{}) []interface{} {
	utils.Sort(keys, CompareAny)
	return keys
}
