package treemap

import (
	"go.uber.org/zap"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/tree"
)

var _ coll.Iterator[int] = (*navigableIterator[int, int, int])(nil)

// navigableIterator walks the window of a map in either direction.
// The node to be returned next is already resolved, so HasNext is a
// pure peek.
//
// Fail-fast is best effort: the modification counter of the backing tree
// is captured when the iterator is created and after each of its own
// removals, and compared on every step.
type navigableIterator[K, V, T any] struct {
	m            *navigableMap[K, V]
	next         tree.RBNode[K, V]
	lastReturned tree.RBNode[K, V]
	expectedMod  uint64
	desc         bool // in the ascending space of the backing tree
	project      func(node tree.RBNode[K, V]) T
}

func newNavigableIterator[K, V, T any](
	m *navigableMap[K, V],
	descending bool,
	project func(node tree.RBNode[K, V]) T,
) *navigableIterator[K, V, T] {
	it := &navigableIterator[K, V, T]{
		m:           m,
		expectedMod: m.tree.ModCount(),
		desc:        m.desc != descending,
		project:     project,
	}
	if it.desc {
		it.next, _ = m.absHighest()
	} else {
		it.next, _ = m.absLowest()
	}
	return it
}

func (it *navigableIterator[K, V, T]) HasNext() bool {
	return it.next != nil
}

func (it *navigableIterator[K, V, T]) Next() (T, error) {
	var res T
	if it.m.tree.ModCount() != it.expectedMod {
		it.m.opts.logger.Warn("concurrent modification detected by iterator",
			zap.Uint64("expected", it.expectedMod),
			zap.Uint64("actual", it.m.tree.ModCount()),
		)
		return res, coll.ErrConcurrentModification
	}
	if it.next == nil {
		return res, coll.ErrNoSuchElement
	}
	e := it.next
	it.next = it.advance(e)
	it.lastReturned = e
	return it.project(e), nil
}

// A comparator failure at the window edge ends the iteration.
func (it *navigableIterator[K, V, T]) advance(e tree.RBNode[K, V]) tree.RBNode[K, V] {
	if it.desc {
		if n := e.Pred(); n != nil {
			if low, err := it.m.tooLow(n.Key()); err == nil && !low {
				return n
			}
		}
		return nil
	}
	if n := e.Succ(); n != nil {
		if high, err := it.m.tooHigh(n.Key()); err == nil && !high {
			return n
		}
	}
	return nil
}

func (it *navigableIterator[K, V, T]) Remove() error {
	if it.lastReturned == nil {
		return coll.ErrIllegalIteratorState
	}
	if it.m.tree.ModCount() != it.expectedMod {
		it.m.opts.logger.Warn("concurrent modification detected by iterator removal",
			zap.Uint64("expected", it.expectedMod),
			zap.Uint64("actual", it.m.tree.ModCount()),
		)
		return coll.ErrConcurrentModification
	}
	// The removed node took over its successor's entry and the successor
	// node is gone, so ascending iteration continues from it.
	if reused := it.m.tree.RemoveNode(it.lastReturned); reused != nil && !it.desc && it.next != nil {
		it.next = reused
	}
	it.expectedMod = it.m.tree.ModCount()
	it.lastReturned = nil
	return nil
}

func projectKey[K, V any](node tree.RBNode[K, V]) K {
	return node.Key()
}

func projectVal[K, V any](node tree.RBNode[K, V]) V {
	return node.Val()
}

func (m *navigableMap[K, V]) projectEntry(node tree.RBNode[K, V]) coll.Entry[K, V] {
	return &liveEntry[K, V]{key: node.Key(), val: node.Val(), node: node, cmp: m.opts.cmp}
}

func projectNode[K, V any](node tree.RBNode[K, V]) tree.RBNode[K, V] {
	return node
}
