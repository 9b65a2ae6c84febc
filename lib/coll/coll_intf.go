package coll

import "iter"

// Iterator is a fail-fast cursor over a collection.
// Next returns ErrConcurrentModification once the backing container
// is structurally modified by another handle, ErrNoSuchElement after
// the last element.
// Remove deletes the element last returned by Next from the backing
// container. It returns ErrIllegalIteratorState if Next has not been
// called or Remove was already called after the last Next.
type Iterator[T any] interface {
	HasNext() bool
	Next() (T, error)
	Remove() error
}

// Collection is the capability contract shared with the containers
// outside this module (hash maps, lists, queues).
type Collection[T any] interface {
	Len() int64
	IsEmpty() bool
	// Contains never fails, an element that cannot be compared is absent.
	Contains(e T) bool
	Remove(e T) (bool, error)
	Clear()
	Iterator() Iterator[T]
	// All yields the elements in iteration order and stops silently
	// when the container is modified behind its back.
	All() iter.Seq[T]
}

// Set is a Collection without duplicate elements.
type Set[T any] interface {
	Collection[T]
	Add(e T) (bool, error)
}

// Map is the associative capability contract.
type Map[K, V any] interface {
	Len() int64
	IsEmpty() bool
	Get(key K) (V, bool, error)
	// Put returns the previous value and true if the key was present.
	Put(key K, val V) (V, bool, error)
	Remove(key K) (V, bool, error)
	ContainsKey(key K) bool
	ContainsValue(val V) bool
	Clear()
	KeySet() Set[K]
	Values() Collection[V]
	EntrySet() Set[Entry[K, V]]
	All() iter.Seq2[K, V]
}
