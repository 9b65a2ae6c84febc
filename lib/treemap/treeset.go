package treemap

import (
	"github.com/samber/lo"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/infra"
)

// NewTreeSet creates an empty set ordered by cmp, backed by a tree map
// without values. Unlike the key set of a map, it and its subsets
// accept Add within their window.
func NewTreeSet[K any](cmp coll.Comparator[K], opts ...TreeMapOption[K, struct{}]) NavigableSet[K] {
	return &keySet[K, struct{}]{
		m:       newTreeMap[K, struct{}](cmp, opts...),
		addable: true,
	}
}

// NewOrderedTreeSet creates an empty set in the natural order of K.
func NewOrderedTreeSet[K infra.OrderedKey](opts ...TreeMapOption[K, struct{}]) NavigableSet[K] {
	return NewTreeSet[K](coll.NaturalOrder[K](), opts...)
}

// NewTreeSetFromSorted bulk loads strictly ascending keys in linear time.
func NewTreeSetFromSorted[K any](cmp coll.Comparator[K], keys []K, opts ...TreeMapOption[K, struct{}]) (NavigableSet[K], error) {
	entries := lo.Map(keys, func(key K, _ int) coll.Entry[K, struct{}] {
		return coll.NewEntry(key, struct{}{})
	})
	m, err := NewTreeMapFromSorted[K, struct{}](cmp, entries, opts...)
	if err != nil {
		return nil, err
	}
	return &keySet[K, struct{}]{
		m:       m.(*navigableMap[K, struct{}]),
		addable: true,
	}, nil
}
