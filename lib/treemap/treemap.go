package treemap

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/infra"
	"github.com/benz9527/xcoll/lib/tree"
)

var _ NavigableMap[int, int] = (*navigableMap[int, int])(nil)

// navigableMap is both the map and every view over it. A view is only a
// descriptor: the shared tree, the window bounds in the ascending space
// of the tree and a direction flag. Reversing a view toggles the flag,
// so reversing twice gives back an identical descriptor.
type navigableMap[K, V any] struct {
	tree tree.RBTree[K, V]
	lo   bound[K]
	hi   bound[K]
	desc bool
	opts *treeMapOptions[K, V]
}

func newTreeMap[K, V any](cmp coll.Comparator[K], opts ...TreeMapOption[K, V]) *navigableMap[K, V] {
	o := newTreeMapOptions[K, V](opts...)
	t := tree.NewRBTree[K, V](cmp, o.treeOpts...)
	o.cmp = t.Comparator()
	return &navigableMap[K, V]{
		tree: t,
		opts: o,
	}
}

// NewTreeMap creates an empty map ordered by cmp.
func NewTreeMap[K, V any](cmp coll.Comparator[K], opts ...TreeMapOption[K, V]) NavigableMap[K, V] {
	return newTreeMap[K, V](cmp, opts...)
}

// NewOrderedTreeMap creates an empty map in the natural order of K.
func NewOrderedTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOption[K, V]) NavigableMap[K, V] {
	return newTreeMap[K, V](coll.NaturalOrder[K](), opts...)
}

// NewTreeMapFromSorted bulk loads entries that are strictly ascending
// under cmp (descending with WithTreeMapDesc) in linear time.
func NewTreeMapFromSorted[K, V any](cmp coll.Comparator[K], entries []coll.Entry[K, V], opts ...TreeMapOption[K, V]) (NavigableMap[K, V], error) {
	o := newTreeMapOptions[K, V](opts...)
	keys := lo.Map(entries, func(e coll.Entry[K, V], _ int) K {
		return e.Key()
	})
	vals := lo.Map(entries, func(e coll.Entry[K, V], _ int) V {
		return e.Value()
	})
	t, err := tree.NewRBTreeFromSorted[K, V](cmp, keys, vals, o.treeOpts...)
	if err != nil {
		return nil, err
	}
	o.cmp = t.Comparator()
	return &navigableMap[K, V]{
		tree: t,
		opts: o,
	}, nil
}

// NewTreeMapFrom copies the entries of src, in src's iteration order and
// under src's comparator. Without options, the value equality, logger
// and stats of src are kept.
func NewTreeMapFrom[K, V any](src NavigableMap[K, V], opts ...TreeMapOption[K, V]) (NavigableMap[K, V], error) {
	if m, ok := src.(*navigableMap[K, V]); ok && len(opts) == 0 {
		opts = append(opts,
			WithTreeMapValueEqual[K, V](m.opts.valEq),
			WithTreeMapLogger[K, V](m.opts.logger),
		)
		if m.opts.metered {
			opts = append(opts, WithTreeMapStats[K, V](m.opts.meters))
		}
	}
	o := newTreeMapOptions[K, V](opts...)
	keys := make([]K, 0, src.Len())
	vals := make([]V, 0, src.Len())
	for k, v := range src.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	if o.isDesc {
		keys, vals = lo.Reverse(keys), lo.Reverse(vals)
	}
	t, err := tree.NewRBTreeFromSorted[K, V](src.Comparator(), keys, vals, o.treeOpts...)
	if err != nil {
		return nil, err
	}
	o.cmp = t.Comparator()
	return &navigableMap[K, V]{
		tree: t,
		opts: o,
	}, nil
}

func (m *navigableMap[K, V]) view(low, high bound[K]) *navigableMap[K, V] {
	return &navigableMap[K, V]{
		tree: m.tree,
		lo:   low,
		hi:   high,
		desc: m.desc,
		opts: m.opts,
	}
}

func (m *navigableMap[K, V]) descending() *navigableMap[K, V] {
	v := m.view(m.lo, m.hi)
	v.desc = !m.desc
	return v
}

func (m *navigableMap[K, V]) Comparator() coll.Comparator[K] {
	if m.desc {
		return coll.ReverseOrder(m.opts.cmp)
	}
	return m.opts.cmp
}

// Len of a bounded view is counted on every call, the backing tree may
// change behind the view.
func (m *navigableMap[K, V]) Len() int64 {
	if !m.bounded() {
		return m.tree.Len()
	}
	count := int64(0)
	node, _ := m.absLowest()
	for ; node != nil; node = node.Succ() {
		if high, err := m.tooHigh(node.Key()); err != nil || high {
			break
		}
		count++
	}
	return count
}

func (m *navigableMap[K, V]) IsEmpty() bool {
	node, _ := m.absLowest()
	return node == nil
}

func (m *navigableMap[K, V]) search(key K) (tree.RBNode[K, V], error) {
	if ok, err := m.inRange(key); err != nil || !ok {
		return nil, err
	}
	return m.tree.Search(key)
}

func (m *navigableMap[K, V]) Get(key K) (V, bool, error) {
	var val V
	node, err := m.search(key)
	if err != nil || node == nil {
		return val, false, err
	}
	return node.Val(), true, nil
}

func (m *navigableMap[K, V]) checkPut(key K) error {
	ok, err := m.inRange(key)
	if err != nil {
		return err
	}
	if !ok {
		m.opts.logger.Debug("put rejected outside of the window", zap.Any("key", key))
		return fmt.Errorf("%w: key %v outside of the window", coll.ErrIllegalRange, key)
	}
	return nil
}

func (m *navigableMap[K, V]) Put(key K, val V) (V, bool, error) {
	if err := m.checkPut(key); err != nil {
		var old V
		return old, false, err
	}
	return m.tree.Insert(key, val)
}

func (m *navigableMap[K, V]) putIfAbsent(key K) (bool, error) {
	if err := m.checkPut(key); err != nil {
		return false, err
	}
	var val V
	if _, _, err := m.tree.Insert(key, val, true); errors.Is(err, tree.ErrReplaceDisabled) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// PutAll stops at the first failing put, earlier entries stay.
func (m *navigableMap[K, V]) PutAll(seq iter.Seq2[K, V]) error {
	for k, v := range seq {
		if _, _, err := m.Put(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *navigableMap[K, V]) Remove(key K) (V, bool, error) {
	var val V
	if ok, err := m.inRange(key); err != nil || !ok {
		return val, false, err
	}
	node, err := m.tree.Remove(key)
	if err != nil || node == nil {
		return val, false, err
	}
	return node.Val(), true, nil
}

func (m *navigableMap[K, V]) RemoveEntry(key K, val V) (bool, error) {
	node, err := m.search(key)
	if err != nil || node == nil || !m.opts.valEq(node.Val(), val) {
		return false, err
	}
	m.tree.RemoveNode(node)
	return true, nil
}

func (m *navigableMap[K, V]) ContainsKey(key K) bool {
	node, err := m.search(key)
	return err == nil && node != nil
}

func (m *navigableMap[K, V]) ContainsValue(val V) bool {
	for v := range collect(m, false, projectVal[K, V]) {
		if m.opts.valEq(v, val) {
			return true
		}
	}
	return false
}

// Clear of a bounded view removes the windowed entries only.
func (m *navigableMap[K, V]) Clear() {
	if !m.bounded() {
		m.tree.Release()
		return
	}
	it := newNavigableIterator(m, false, projectNode[K, V])
	for it.HasNext() {
		if _, err := it.Next(); err != nil {
			return
		}
		if err := it.Remove(); err != nil {
			return
		}
	}
}

func (m *navigableMap[K, V]) KeySet() coll.Set[K] {
	return &keySet[K, V]{m: m}
}

func (m *navigableMap[K, V]) NavigableKeySet() NavigableSet[K] {
	return &keySet[K, V]{m: m}
}

func (m *navigableMap[K, V]) DescendingKeySet() NavigableSet[K] {
	return &keySet[K, V]{m: m.descending()}
}

func (m *navigableMap[K, V]) Values() coll.Collection[V] {
	return &values[K, V]{m: m}
}

func (m *navigableMap[K, V]) EntrySet() coll.Set[coll.Entry[K, V]] {
	return &entrySet[K, V]{m: m}
}

func (m *navigableMap[K, V]) Iterator() coll.Iterator[coll.Entry[K, V]] {
	return newNavigableIterator(m, false, m.projectEntry)
}

func (m *navigableMap[K, V]) DescendingIterator() coll.Iterator[coll.Entry[K, V]] {
	return newNavigableIterator(m, true, m.projectEntry)
}

func (m *navigableMap[K, V]) seq2(descending bool) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for node := range collect(m, descending, projectNode[K, V]) {
			if !yield(node.Key(), node.Val()) {
				return
			}
		}
	}
}

func (m *navigableMap[K, V]) All() iter.Seq2[K, V] {
	return m.seq2(false)
}

func (m *navigableMap[K, V]) Backward() iter.Seq2[K, V] {
	return m.seq2(true)
}

func (m *navigableMap[K, V]) extremeKey(fn func() (tree.RBNode[K, V], error)) (K, error) {
	var key K
	node, err := fn()
	if err != nil {
		return key, err
	}
	if node == nil {
		return key, coll.ErrEmptyCollection
	}
	return node.Key(), nil
}

func (m *navigableMap[K, V]) extremeEntry(fn func() (tree.RBNode[K, V], error)) (coll.Entry[K, V], error) {
	node, err := fn()
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, coll.ErrEmptyCollection
	}
	return snapshotEntry(node), nil
}

func (m *navigableMap[K, V]) pollEntry(fn func() (tree.RBNode[K, V], error)) (coll.Entry[K, V], error) {
	node, err := fn()
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, coll.ErrEmptyCollection
	}
	e := snapshotEntry(node)
	m.tree.RemoveNode(node)
	return e, nil
}

func (m *navigableMap[K, V]) pollKey(fn func() (tree.RBNode[K, V], error)) (K, error) {
	e, err := m.pollEntry(fn)
	if err != nil {
		var key K
		return key, err
	}
	return e.Key(), nil
}

func (m *navigableMap[K, V]) FirstKey() (K, error) {
	return m.extremeKey(m.first)
}

func (m *navigableMap[K, V]) LastKey() (K, error) {
	return m.extremeKey(m.last)
}

func (m *navigableMap[K, V]) FirstEntry() (coll.Entry[K, V], error) {
	return m.extremeEntry(m.first)
}

func (m *navigableMap[K, V]) LastEntry() (coll.Entry[K, V], error) {
	return m.extremeEntry(m.last)
}

func (m *navigableMap[K, V]) PollFirstEntry() (coll.Entry[K, V], error) {
	return m.pollEntry(m.first)
}

func (m *navigableMap[K, V]) PollLastEntry() (coll.Entry[K, V], error) {
	return m.pollEntry(m.last)
}

func navKey[K, V any](fn func(K) (tree.RBNode[K, V], error), key K) (K, bool, error) {
	node, err := fn(key)
	if err != nil || node == nil {
		var res K
		return res, false, err
	}
	return node.Key(), true, nil
}

func navEntry[K, V any](fn func(K) (tree.RBNode[K, V], error), key K) (coll.Entry[K, V], error) {
	node, err := fn(key)
	if err != nil {
		return nil, err
	}
	return snapshotEntry(node), nil
}

func (m *navigableMap[K, V]) LowerKey(key K) (K, bool, error) {
	return navKey(m.lower, key)
}

func (m *navigableMap[K, V]) FloorKey(key K) (K, bool, error) {
	return navKey(m.floor, key)
}

func (m *navigableMap[K, V]) CeilingKey(key K) (K, bool, error) {
	return navKey(m.ceiling, key)
}

func (m *navigableMap[K, V]) HigherKey(key K) (K, bool, error) {
	return navKey(m.higher, key)
}

func (m *navigableMap[K, V]) LowerEntry(key K) (coll.Entry[K, V], error) {
	return navEntry(m.lower, key)
}

func (m *navigableMap[K, V]) FloorEntry(key K) (coll.Entry[K, V], error) {
	return navEntry(m.floor, key)
}

func (m *navigableMap[K, V]) CeilingEntry(key K) (coll.Entry[K, V], error) {
	return navEntry(m.ceiling, key)
}

func (m *navigableMap[K, V]) HigherEntry(key K) (coll.Entry[K, V], error) {
	return navEntry(m.higher, key)
}

// Range requests are in the direction of the view, they are translated
// to the ascending space before being intersected with the window.

func (m *navigableMap[K, V]) subMap(from K, fromInclusive bool, to K, toInclusive bool) (*navigableMap[K, V], error) {
	low, err := m.newBound(from, fromInclusive)
	if err != nil {
		return nil, err
	}
	high, err := m.newBound(to, toInclusive)
	if err != nil {
		return nil, err
	}
	if m.desc {
		low, high = high, low
	}
	res, err := m.opts.cmp(low.key, high.key)
	if err != nil {
		return nil, err
	}
	if res > 0 {
		return nil, fmt.Errorf("%w: from %v is beyond to %v", coll.ErrIllegalRange, from, to)
	}
	if err = m.checkBound(low); err != nil {
		return nil, err
	}
	if err = m.checkBound(high); err != nil {
		return nil, err
	}
	return m.view(low, high), nil
}

func (m *navigableMap[K, V]) headMap(to K, inclusive bool) (*navigableMap[K, V], error) {
	b, err := m.newBound(to, inclusive)
	if err != nil {
		return nil, err
	}
	if err = m.checkBound(b); err != nil {
		return nil, err
	}
	if m.desc {
		return m.view(b, m.hi), nil
	}
	return m.view(m.lo, b), nil
}

func (m *navigableMap[K, V]) tailMap(from K, inclusive bool) (*navigableMap[K, V], error) {
	b, err := m.newBound(from, inclusive)
	if err != nil {
		return nil, err
	}
	if err = m.checkBound(b); err != nil {
		return nil, err
	}
	if m.desc {
		return m.view(m.lo, b), nil
	}
	return m.view(b, m.hi), nil
}

func (m *navigableMap[K, V]) SubMap(from K, fromInclusive bool, to K, toInclusive bool) (NavigableMap[K, V], error) {
	v, err := m.subMap(from, fromInclusive, to, toInclusive)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (m *navigableMap[K, V]) HeadMap(to K, inclusive bool) (NavigableMap[K, V], error) {
	v, err := m.headMap(to, inclusive)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (m *navigableMap[K, V]) TailMap(from K, inclusive bool) (NavigableMap[K, V], error) {
	v, err := m.tailMap(from, inclusive)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (m *navigableMap[K, V]) DescendingMap() NavigableMap[K, V] {
	return m.descending()
}

// Clone copies the backing tree. The clone of a view is the same window
// over the copy.
func (m *navigableMap[K, V]) Clone() NavigableMap[K, V] {
	t := m.tree.Clone()
	o := *m.opts
	o.cmp = t.Comparator()
	v := &navigableMap[K, V]{
		tree: t,
		lo:   m.lo,
		hi:   m.hi,
		desc: m.desc,
		opts: &o,
	}
	return v
}

func (m *navigableMap[K, V]) String() string {
	parts := make([]string, 0, 8)
	for k, v := range m.All() {
		parts = append(parts, fmt.Sprintf("%v=%v", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
