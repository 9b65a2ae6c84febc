package tree

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/benz9527/xcoll/lib/coll"
)

// NewRBTreeFromSorted builds a balanced tree in linear time from keys in
// strictly ascending order (under the effective ordering, WithRBTreeDesc
// included) and their values.
func NewRBTreeFromSorted[K, V any](cmp coll.Comparator[K], keys []K, vals []V, opts ...RBTreeOpt[K, V]) (RBTree[K, V], error) {
	if len(keys) != len(vals) {
		return nil, fmt.Errorf("%w: %d keys but %d values", coll.ErrIllegalArgument, len(keys), len(vals))
	}
	tree := newRBTree[K, V](cmp, opts...)
	size := len(keys)
	if size == 0 {
		return tree, nil
	}
	if size == 1 {
		if err := tree.checkKey(keys[0]); err != nil {
			return nil, err
		}
	}
	for i := 1; i < size; i++ {
		res, err := tree.keyCompare(keys[i-1], keys[i])
		if err != nil {
			return nil, err
		}
		if res >= 0 {
			return nil, fmt.Errorf("%w: at index %d", coll.ErrNotSorted, i)
		}
	}

	tree.root = buildFromSorted(0, 0, size-1, redLevel(size), keys, vals, nil)
	tree.count = int64(size)
	tree.stats.RecordBulk(tree.count)
	tree.logger.Debug("rbtree built from sorted input", zap.Int("size", size))
	return tree, nil
}

// redLevel finds the depth of the deepest, possibly incomplete, level.
// Nodes there are painted red and every other node black, which keeps
// the black depth equal on all paths.
func redLevel(size int) int {
	level := 0
	for m := size - 1; m >= 0; m = m/2 - 1 {
		level++
	}
	return level
}

/*
keys: 1 2 3 4 5 6

	        [3]
	       /   \
	     [1]   [5]
	       \   / \
	      <2><4> <6>
*/
func buildFromSorted[K, V any](level, lo, hi, red int, keys []K, vals []V, parent *rbNode[K, V]) *rbNode[K, V] {
	if hi < lo {
		return nil
	}
	mid := int(uint(lo+hi) >> 1)
	node := &rbNode[K, V]{
		parent: parent,
		key:    keys[mid],
		val:    vals[mid],
		hasKV:  true,
	}
	if level == red {
		node.color = Red
	}
	node.left = buildFromSorted(level+1, lo, mid-1, red, keys, vals, node)
	node.right = buildFromSorted(level+1, mid+1, hi, red, keys, vals, node)
	return node
}
