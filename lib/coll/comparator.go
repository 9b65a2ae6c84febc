package coll

import (
	"fmt"
	"reflect"

	"github.com/benz9527/xcoll/lib/infra"
)

// Comparator is the pluggable ordering function of sorted containers.
// Assume i is the probing key.
//  1. i == j, return 0.
//  2. i > j, return a positive number, turn to right part.
//  3. i < j, return a negative number, turn to left part.
//
// A non-nil error (wrapping ErrComparison) means i and j are not
// mutually comparable. The container aborts the operation untouched.
type Comparator[K any] func(i, j K) (int64, error)

// Comparable is implemented by key types that carry their own order
// and are used as `any` keys under DynamicOrder.
type Comparable interface {
	CompareTo(other any) (int64, error)
}

// NaturalOrder is the intrinsic order of OrderedKey types. It never fails.
func NaturalOrder[K infra.OrderedKey]() Comparator[K] {
	return func(i, j K) (int64, error) {
		return infra.OrderedCompare(i, j), nil
	}
}

// FromCmp adapts an infallible comparison like cmp.Compare or strings.Compare.
func FromCmp[K any](fn func(i, j K) int) Comparator[K] {
	return func(i, j K) (int64, error) {
		return int64(fn(i, j)), nil
	}
}

// ReverseOrder inverts cmp.
func ReverseOrder[K any](cmp Comparator[K]) Comparator[K] {
	return func(i, j K) (int64, error) {
		return cmp(j, i)
	}
}

// NullsFirst is a null-tolerant wrapper: null keys are equal to each other
// and ordered before every other key, the rest is delegated to cmp.
func NullsFirst[K any](isNull func(K) bool, cmp Comparator[K]) Comparator[K] {
	return func(i, j K) (int64, error) {
		iNull, jNull := isNull(i), isNull(j)
		switch {
		case iNull && jNull:
			return 0, nil
		case iNull:
			return -1, nil
		case jNull:
			return 1, nil
		}
		return cmp(i, j)
	}
}

// IsNilAny reports the null key of `any` typed containers.
func IsNilAny(k any) bool {
	if k == nil {
		return true
	}
	v := reflect.ValueOf(k)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
	}
	return false
}

// DynamicOrder is the natural order of `any` keys. Both keys must have the
// identical dynamic type and that type must be an integer, float or string
// kind, or implement Comparable. Nil keys and mixed types are rejected
// with ErrComparison.
func DynamicOrder() Comparator[any] {
	return dynamicCompare
}

func dynamicCompare(i, j any) (int64, error) {
	if IsNilAny(i) || IsNilAny(j) {
		return 0, fmt.Errorf("nil key under natural ordering: %w", ErrComparison)
	}
	if c, ok := i.(Comparable); ok {
		return c.CompareTo(j)
	}
	ti, tj := reflect.TypeOf(i), reflect.TypeOf(j)
	if ti != tj {
		return 0, fmt.Errorf("%s vs %s: %w", ti, tj, ErrComparison)
	}
	vi, vj := reflect.ValueOf(i), reflect.ValueOf(j)
	switch vi.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return infra.OrderedCompare(vi.Int(), vj.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return infra.OrderedCompare(vi.Uint(), vj.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return infra.OrderedCompare(vi.Float(), vj.Float()), nil
	case reflect.String:
		return infra.OrderedCompare(vi.String(), vj.String()), nil
	default:
	}
	return 0, fmt.Errorf("%s has no natural order: %w", ti, ErrComparison)
}

// Equaler is the pluggable value equality used by ContainsValue and
// entry containment.
type Equaler[V any] func(a, b V) bool

// DeepEqual is the default value equality.
func DeepEqual[V any]() Equaler[V] {
	return func(a, b V) bool {
		return reflect.DeepEqual(a, b)
	}
}

// ComparableEqual is the `==` equality of comparable values.
func ComparableEqual[V comparable]() Equaler[V] {
	return func(a, b V) bool {
		return a == b
	}
}
