package coll

import "fmt"

// Entry is a key-value pair of a Map.
type Entry[K, V any] interface {
	Key() K
	Value() V
	// SetValue replaces the value and returns the old one.
	// Snapshot entries return ErrUnsupportedOperation.
	SetValue(val V) (V, error)
}

type simpleEntry[K, V any] struct {
	key K
	val V
}

// NewEntry returns an immutable entry, mostly used as the argument of
// entry-set containment and removal.
func NewEntry[K, V any](key K, val V) Entry[K, V] {
	return &simpleEntry[K, V]{key: key, val: val}
}

func (e *simpleEntry[K, V]) Key() K   { return e.key }
func (e *simpleEntry[K, V]) Value() V { return e.val }
func (e *simpleEntry[K, V]) SetValue(V) (V, error) {
	return e.val, ErrUnsupportedOperation
}

func (e *simpleEntry[K, V]) String() string {
	return fmt.Sprintf("%v=%v", e.key, e.val)
}
