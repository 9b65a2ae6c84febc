package treemap

import (
	"fmt"
	"iter"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/tree"
)

// liveEntry is yielded by entry iteration and writes through to the
// backing node. Setting a value is not a structural modification.
// Once its key is removed, the node may be unlinked or carry the entry
// of the successor: the entry then keeps its last seen value and
// rejects SetValue with ErrIllegalIteratorState.
type liveEntry[K, V any] struct {
	key  K
	val  V
	node tree.RBNode[K, V]
	cmp  coll.Comparator[K]
}

func (e *liveEntry[K, V]) attached() bool {
	if !e.node.HasKeyVal() {
		return false
	}
	res, err := e.cmp(e.key, e.node.Key())
	return err == nil && res == 0
}

func (e *liveEntry[K, V]) Key() K {
	return e.key
}

func (e *liveEntry[K, V]) Value() V {
	if e.attached() {
		e.val = e.node.Val()
	}
	return e.val
}

func (e *liveEntry[K, V]) SetValue(val V) (V, error) {
	if !e.attached() {
		return e.val, coll.ErrIllegalIteratorState
	}
	old := e.node.SetVal(val)
	e.val = val
	return old, nil
}

func (e *liveEntry[K, V]) String() string {
	return fmt.Sprintf("%v=%v", e.key, e.Value())
}

func snapshotEntry[K, V any](node tree.RBNode[K, V]) coll.Entry[K, V] {
	if node == nil {
		return nil
	}
	return coll.NewEntry(node.Key(), node.Val())
}

func collect[K, V, T any](m *navigableMap[K, V], descending bool, project func(tree.RBNode[K, V]) T) iter.Seq[T] {
	return func(yield func(T) bool) {
		it := newNavigableIterator(m, descending, project)
		for it.HasNext() {
			e, err := it.Next()
			if err != nil || !yield(e) {
				return
			}
		}
	}
}

func join[T any](seq iter.Seq[T]) string {
	elements := make([]T, 0, 8)
	for e := range seq {
		elements = append(elements, e)
	}
	return "[" + strings.Join(lo.Map(elements, func(e T, _ int) string {
		return fmt.Sprint(e)
	}), ", ") + "]"
}

var _ NavigableSet[int] = (*keySet[int, int])(nil)

// keySet is the live key view of a map. A key set of a map cannot invent
// values and rejects Add, a tree set accepts it.
type keySet[K, V any] struct {
	m       *navigableMap[K, V]
	addable bool
}

func (s *keySet[K, V]) wrap(m *navigableMap[K, V]) *keySet[K, V] {
	return &keySet[K, V]{m: m, addable: s.addable}
}

func (s *keySet[K, V]) Len() int64 {
	return s.m.Len()
}

func (s *keySet[K, V]) IsEmpty() bool {
	return s.m.IsEmpty()
}

func (s *keySet[K, V]) Contains(key K) bool {
	return s.m.ContainsKey(key)
}

func (s *keySet[K, V]) Add(key K) (bool, error) {
	if !s.addable {
		return false, coll.ErrUnsupportedOperation
	}
	return s.m.putIfAbsent(key)
}

func (s *keySet[K, V]) Remove(key K) (bool, error) {
	_, ok, err := s.m.Remove(key)
	return ok, err
}

func (s *keySet[K, V]) Clear() {
	s.m.Clear()
}

func (s *keySet[K, V]) Comparator() coll.Comparator[K] {
	return s.m.Comparator()
}

func (s *keySet[K, V]) Iterator() coll.Iterator[K] {
	return newNavigableIterator(s.m, false, projectKey[K, V])
}

func (s *keySet[K, V]) DescendingIterator() coll.Iterator[K] {
	return newNavigableIterator(s.m, true, projectKey[K, V])
}

func (s *keySet[K, V]) All() iter.Seq[K] {
	return collect(s.m, false, projectKey[K, V])
}

func (s *keySet[K, V]) Backward() iter.Seq[K] {
	return collect(s.m, true, projectKey[K, V])
}

func (s *keySet[K, V]) First() (K, error) {
	return s.m.FirstKey()
}

func (s *keySet[K, V]) Last() (K, error) {
	return s.m.LastKey()
}

func (s *keySet[K, V]) PollFirst() (K, error) {
	return s.m.pollKey(s.m.first)
}

func (s *keySet[K, V]) PollLast() (K, error) {
	return s.m.pollKey(s.m.last)
}

func (s *keySet[K, V]) Lower(key K) (K, bool, error) {
	return s.m.LowerKey(key)
}

func (s *keySet[K, V]) Floor(key K) (K, bool, error) {
	return s.m.FloorKey(key)
}

func (s *keySet[K, V]) Ceiling(key K) (K, bool, error) {
	return s.m.CeilingKey(key)
}

func (s *keySet[K, V]) Higher(key K) (K, bool, error) {
	return s.m.HigherKey(key)
}

func (s *keySet[K, V]) HeadSet(to K, inclusive bool) (NavigableSet[K], error) {
	m, err := s.m.headMap(to, inclusive)
	if err != nil {
		return nil, err
	}
	return s.wrap(m), nil
}

func (s *keySet[K, V]) TailSet(from K, inclusive bool) (NavigableSet[K], error) {
	m, err := s.m.tailMap(from, inclusive)
	if err != nil {
		return nil, err
	}
	return s.wrap(m), nil
}

func (s *keySet[K, V]) SubSet(from K, fromInclusive bool, to K, toInclusive bool) (NavigableSet[K], error) {
	m, err := s.m.subMap(from, fromInclusive, to, toInclusive)
	if err != nil {
		return nil, err
	}
	return s.wrap(m), nil
}

func (s *keySet[K, V]) DescendingSet() NavigableSet[K] {
	return s.wrap(s.m.descending())
}

func (s *keySet[K, V]) String() string {
	return join(s.All())
}

var _ coll.Collection[int] = (*values[int, int])(nil)

type values[K, V any] struct {
	m *navigableMap[K, V]
}

func (c *values[K, V]) Len() int64 {
	return c.m.Len()
}

func (c *values[K, V]) IsEmpty() bool {
	return c.m.IsEmpty()
}

func (c *values[K, V]) Contains(val V) bool {
	return c.m.ContainsValue(val)
}

// Remove removes the first entry in iteration order holding val.
func (c *values[K, V]) Remove(val V) (bool, error) {
	it := newNavigableIterator(c.m, false, projectVal[K, V])
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			return false, err
		}
		if c.m.opts.valEq(v, val) {
			return true, it.Remove()
		}
	}
	return false, nil
}

func (c *values[K, V]) Clear() {
	c.m.Clear()
}

func (c *values[K, V]) Iterator() coll.Iterator[V] {
	return newNavigableIterator(c.m, false, projectVal[K, V])
}

func (c *values[K, V]) DescendingIterator() coll.Iterator[V] {
	return newNavigableIterator(c.m, true, projectVal[K, V])
}

func (c *values[K, V]) All() iter.Seq[V] {
	return collect(c.m, false, projectVal[K, V])
}

func (c *values[K, V]) String() string {
	return join(c.All())
}

var _ coll.Set[coll.Entry[int, int]] = (*entrySet[int, int])(nil)

type entrySet[K, V any] struct {
	m *navigableMap[K, V]
}

func (s *entrySet[K, V]) Len() int64 {
	return s.m.Len()
}

func (s *entrySet[K, V]) IsEmpty() bool {
	return s.m.IsEmpty()
}

// lookup finds the node of entry's key when its value matches too.
// Incomparable keys are simply not found.
func (s *entrySet[K, V]) lookup(entry coll.Entry[K, V]) tree.RBNode[K, V] {
	if entry == nil {
		return nil
	}
	node, err := s.m.search(entry.Key())
	if err != nil || node == nil || !s.m.opts.valEq(node.Val(), entry.Value()) {
		return nil
	}
	return node
}

func (s *entrySet[K, V]) Contains(entry coll.Entry[K, V]) bool {
	return s.lookup(entry) != nil
}

func (s *entrySet[K, V]) Add(coll.Entry[K, V]) (bool, error) {
	return false, coll.ErrUnsupportedOperation
}

func (s *entrySet[K, V]) Remove(entry coll.Entry[K, V]) (bool, error) {
	node := s.lookup(entry)
	if node == nil {
		return false, nil
	}
	s.m.tree.RemoveNode(node)
	return true, nil
}

func (s *entrySet[K, V]) Clear() {
	s.m.Clear()
}

func (s *entrySet[K, V]) Iterator() coll.Iterator[coll.Entry[K, V]] {
	return s.m.Iterator()
}

func (s *entrySet[K, V]) DescendingIterator() coll.Iterator[coll.Entry[K, V]] {
	return s.m.DescendingIterator()
}

func (s *entrySet[K, V]) All() iter.Seq[coll.Entry[K, V]] {
	return collect(s.m, false, s.m.projectEntry)
}

func (s *entrySet[K, V]) String() string {
	return join(s.All())
}
