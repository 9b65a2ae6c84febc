package treemap

import (
	"iter"

	"github.com/benz9527/xcoll/lib/coll"
)

// NavigableMap is a sorted map, or a live window over one.
//
// Views (HeadMap, TailMap, SubMap, DescendingMap and the key sets) share
// the backing tree: a mutation through any handle is visible to all of
// them at once. Keys outside a view's window are absent from it and
// cannot be put into it (ErrIllegalRange).
//
// Navigation on a key the ordering cannot compare returns ErrComparison,
// containment queries report such a key as absent.
type NavigableMap[K, V any] interface {
	coll.Map[K, V]
	Comparator() coll.Comparator[K]
	PutAll(seq iter.Seq2[K, V]) error
	// RemoveEntry removes key only if it is mapped to a value equal to val.
	RemoveEntry(key K, val V) (bool, error)

	FirstKey() (K, error)
	LastKey() (K, error)
	FirstEntry() (coll.Entry[K, V], error)
	LastEntry() (coll.Entry[K, V], error)
	PollFirstEntry() (coll.Entry[K, V], error)
	PollLastEntry() (coll.Entry[K, V], error)
	LowerKey(key K) (K, bool, error)
	FloorKey(key K) (K, bool, error)
	CeilingKey(key K) (K, bool, error)
	HigherKey(key K) (K, bool, error)
	// The entry counterparts return a nil entry when nothing qualifies.
	LowerEntry(key K) (coll.Entry[K, V], error)
	FloorEntry(key K) (coll.Entry[K, V], error)
	CeilingEntry(key K) (coll.Entry[K, V], error)
	HigherEntry(key K) (coll.Entry[K, V], error)

	HeadMap(to K, inclusive bool) (NavigableMap[K, V], error)
	TailMap(from K, inclusive bool) (NavigableMap[K, V], error)
	SubMap(from K, fromInclusive bool, to K, toInclusive bool) (NavigableMap[K, V], error)
	DescendingMap() NavigableMap[K, V]
	NavigableKeySet() NavigableSet[K]
	DescendingKeySet() NavigableSet[K]

	Iterator() coll.Iterator[coll.Entry[K, V]]
	DescendingIterator() coll.Iterator[coll.Entry[K, V]]
	Backward() iter.Seq2[K, V]
	Clone() NavigableMap[K, V]
	String() string
}

// NavigableSet is a sorted set, or a live window over one.
type NavigableSet[K any] interface {
	coll.Set[K]
	Comparator() coll.Comparator[K]

	First() (K, error)
	Last() (K, error)
	PollFirst() (K, error)
	PollLast() (K, error)
	Lower(key K) (K, bool, error)
	Floor(key K) (K, bool, error)
	Ceiling(key K) (K, bool, error)
	Higher(key K) (K, bool, error)

	HeadSet(to K, inclusive bool) (NavigableSet[K], error)
	TailSet(from K, inclusive bool) (NavigableSet[K], error)
	SubSet(from K, fromInclusive bool, to K, toInclusive bool) (NavigableSet[K], error)
	DescendingSet() NavigableSet[K]

	DescendingIterator() coll.Iterator[K]
	Backward() iter.Seq[K]
	String() string
}
