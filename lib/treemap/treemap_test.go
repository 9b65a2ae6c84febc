package treemap

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/tree"
	"github.com/benz9527/xcoll/lib/xlog"
)

func pairs[K, V any](seq iter.Seq2[K, V]) ([]K, []V) {
	keys, vals := make([]K, 0, 8), make([]V, 0, 8)
	for k, v := range seq {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	return keys, vals
}

func newIntMap(t *testing.T, keys ...int) NavigableMap[int, int] {
	m := NewOrderedTreeMap[int, int]()
	for _, k := range keys {
		_, _, err := m.Put(k, k*10)
		require.NoError(t, err)
	}
	return m
}

func evens(t *testing.T, n int) NavigableMap[int, int] {
	m := NewOrderedTreeMap[int, int]()
	for i := 0; i < n; i++ {
		_, _, err := m.Put(i*2, i)
		require.NoError(t, err)
	}
	return m
}

func requireValidTree[K, V any](t *testing.T, m NavigableMap[K, V]) {
	t.Helper()
	require.NoError(t, tree.Validate(m.(*navigableMap[K, V]).tree))
}

func TestTreeMap_PutGetRemove(t *testing.T) {
	m := NewOrderedTreeMap[string, int]()
	require.True(t, m.IsEmpty())

	old, replaced, err := m.Put("b", 2)
	require.NoError(t, err)
	require.False(t, replaced)
	require.Equal(t, 0, old)
	_, _, err = m.Put("a", 1)
	require.NoError(t, err)
	_, _, err = m.Put("c", 3)
	require.NoError(t, err)

	old, replaced, err = m.Put("b", 20)
	require.NoError(t, err)
	require.True(t, replaced)
	require.Equal(t, 2, old)
	require.Equal(t, int64(3), m.Len())

	val, ok, err := m.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20, val)
	_, ok, err = m.Get("z")
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, m.ContainsKey("a"))
	require.False(t, m.ContainsKey("z"))
	require.True(t, m.ContainsValue(3))
	require.False(t, m.ContainsValue(4))

	ok, err = m.RemoveEntry("a", 2)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = m.RemoveEntry("a", 1)
	require.NoError(t, err)
	require.True(t, ok)

	val, ok, err = m.Remove("c")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, val)
	_, ok, err = m.Remove("c")
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, "{b=20}", m.String())
	m.Clear()
	require.True(t, m.IsEmpty())
	require.Equal(t, "{}", m.String())
	requireValidTree(t, m)
}

func TestTreeMap_SizeAfterRemovals(t *testing.T) {
	m := NewOrderedTreeMap[int, int]()
	for i := 0; i < 1000; i++ {
		_, _, err := m.Put(i*7%1000, i)
		require.NoError(t, err)
	}
	removed := 0
	for i := 0; i < 1000; i += 3 {
		_, ok, err := m.Remove(i)
		require.NoError(t, err)
		require.True(t, ok)
		removed++
	}
	require.Equal(t, int64(1000-removed), m.Len())
	requireValidTree(t, m)

	keys, _ := pairs(m.All())
	for i := 1; i < len(keys); i++ {
		require.Less(t, keys[i-1], keys[i])
	}
}

func TestTreeMap_Navigation(t *testing.T) {
	m := newIntMap(t, 30, 10, 50, 20, 40)

	first, err := m.FirstKey()
	require.NoError(t, err)
	require.Equal(t, 10, first)
	last, err := m.LastKey()
	require.NoError(t, err)
	require.Equal(t, 50, last)

	type testcase struct {
		name   string
		nav    func(int) (int, bool, error)
		key    int
		exists bool
		expect int
	}
	testcases := []testcase{
		{name: "lower", nav: m.LowerKey, key: 30, exists: true, expect: 20},
		{name: "lower none", nav: m.LowerKey, key: 10},
		{name: "floor", nav: m.FloorKey, key: 35, exists: true, expect: 30},
		{name: "floor equal", nav: m.FloorKey, key: 30, exists: true, expect: 30},
		{name: "ceiling", nav: m.CeilingKey, key: 35, exists: true, expect: 40},
		{name: "ceiling none", nav: m.CeilingKey, key: 51},
		{name: "higher", nav: m.HigherKey, key: 30, exists: true, expect: 40},
		{name: "higher none", nav: m.HigherKey, key: 50},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			key, ok, err := tc.nav(tc.key)
			require.NoError(tt, err)
			require.Equal(tt, tc.exists, ok)
			if tc.exists {
				require.Equal(tt, tc.expect, key)
			}
		})
	}

	e, err := m.CeilingEntry(35)
	require.NoError(t, err)
	require.Equal(t, 40, e.Key())
	require.Equal(t, 400, e.Value())
	e, err = m.HigherEntry(50)
	require.NoError(t, err)
	require.Nil(t, e)
	e, err = m.LowerEntry(20)
	require.NoError(t, err)
	require.Equal(t, 10, e.Key())
	e, err = m.FloorEntry(5)
	require.NoError(t, err)
	require.Nil(t, e)

	e, err = m.FirstEntry()
	require.NoError(t, err)
	require.Equal(t, 10, e.Key())
	_, err = e.SetValue(1)
	require.ErrorIs(t, err, coll.ErrUnsupportedOperation)
	e, err = m.LastEntry()
	require.NoError(t, err)
	require.Equal(t, 50, e.Key())

	e, err = m.PollFirstEntry()
	require.NoError(t, err)
	require.Equal(t, 10, e.Key())
	require.Equal(t, 100, e.Value())
	e, err = m.PollLastEntry()
	require.NoError(t, err)
	require.Equal(t, 50, e.Key())
	require.Equal(t, int64(3), m.Len())
	requireValidTree(t, m)
}

func TestTreeMap_Empty(t *testing.T) {
	m := NewOrderedTreeMap[int, int]()
	it := m.Iterator()
	mod := m.(*navigableMap[int, int]).tree.ModCount()

	_, err := m.FirstKey()
	require.ErrorIs(t, err, coll.ErrEmptyCollection)
	_, err = m.LastKey()
	require.ErrorIs(t, err, coll.ErrEmptyCollection)
	_, err = m.FirstEntry()
	require.ErrorIs(t, err, coll.ErrEmptyCollection)
	_, err = m.LastEntry()
	require.ErrorIs(t, err, coll.ErrEmptyCollection)
	_, err = m.PollFirstEntry()
	require.ErrorIs(t, err, coll.ErrEmptyCollection)
	require.NotErrorIs(t, err, coll.ErrConcurrentModification)
	_, err = m.PollLastEntry()
	require.ErrorIs(t, err, coll.ErrEmptyCollection)

	require.Equal(t, int64(0), m.Len())
	require.Equal(t, mod, m.(*navigableMap[int, int]).tree.ModCount())
	require.False(t, it.HasNext())
	_, err = it.Next()
	require.ErrorIs(t, err, coll.ErrNoSuchElement)
	requireValidTree(t, m)

	_, _, err = m.Put(1, 1)
	require.NoError(t, err)
	key, err := m.FirstKey()
	require.NoError(t, err)
	require.Equal(t, 1, key)
}

func TestTreeMap_IncomparableKeys(t *testing.T) {
	m := NewTreeMap[any, int](coll.DynamicOrder())

	_, _, err := m.Put(nil, 1)
	require.ErrorIs(t, err, coll.ErrComparison)
	_, _, err = m.CeilingKey(nil)
	require.ErrorIs(t, err, coll.ErrComparison)
	require.False(t, m.ContainsKey(nil))

	for i := 1; i <= 3; i++ {
		_, _, err = m.Put(i, i)
		require.NoError(t, err)
	}

	require.False(t, m.ContainsKey("x"))
	require.False(t, m.ContainsKey(nil))
	require.False(t, m.KeySet().Contains("x"))
	require.False(t, m.EntrySet().Contains(coll.NewEntry[any, int]("x", 1)))
	ok, err := m.EntrySet().Remove(coll.NewEntry[any, int]("x", 1))
	require.NoError(t, err)
	require.False(t, ok)

	type testcase struct {
		name string
		op   func() error
	}
	testcases := []testcase{
		{name: "put", op: func() error { _, _, err := m.Put("x", 1); return err }},
		{name: "get", op: func() error { _, _, err := m.Get("x"); return err }},
		{name: "remove", op: func() error { _, _, err := m.Remove("x"); return err }},
		{name: "floor", op: func() error { _, _, err := m.FloorKey("x"); return err }},
		{name: "ceiling", op: func() error { _, _, err := m.CeilingKey("x"); return err }},
		{name: "lower", op: func() error { _, err := m.LowerEntry("x"); return err }},
		{name: "higher", op: func() error { _, err := m.HigherEntry(2.5); return err }},
		{name: "sub map", op: func() error { _, err := m.SubMap(1, true, "x", true); return err }},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.ErrorIs(tt, tc.op(), coll.ErrComparison)
			require.Equal(tt, int64(3), m.Len())
			requireValidTree(tt, m)
		})
	}
}

func TestTreeMap_NullsFirst(t *testing.T) {
	m := NewTreeMap[any, string](coll.NullsFirst(coll.IsNilAny, coll.DynamicOrder()))
	for _, k := range []any{2, nil, 1} {
		_, _, err := m.Put(k, "v")
		require.NoError(t, err)
	}
	key, err := m.FirstKey()
	require.NoError(t, err)
	require.Nil(t, key)
	require.True(t, m.ContainsKey(nil))
	val, ok, err := m.Get(nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", val)
}

func TestTreeMap_Desc(t *testing.T) {
	m := NewOrderedTreeMap[int, int](WithTreeMapDesc[int, int]())
	for i := 1; i <= 5; i++ {
		_, _, err := m.Put(i, i)
		require.NoError(t, err)
	}
	keys, _ := pairs(m.All())
	require.Equal(t, []int{5, 4, 3, 2, 1}, keys)
	res, err := m.Comparator()(1, 2)
	require.NoError(t, err)
	require.Positive(t, res)
	res, err = m.DescendingMap().Comparator()(1, 2)
	require.NoError(t, err)
	require.Negative(t, res)

	sub, err := m.SubMap(4, true, 2, true)
	require.NoError(t, err)
	keys, _ = pairs(sub.All())
	require.Equal(t, []int{4, 3, 2}, keys)
	_, err = m.SubMap(2, true, 4, true)
	require.ErrorIs(t, err, coll.ErrIllegalRange)
}

func TestTreeMap_PutAllAndClone(t *testing.T) {
	src := newIntMap(t, 1, 2, 3)
	m := NewOrderedTreeMap[int, int]()
	require.NoError(t, m.PutAll(src.All()))
	require.Equal(t, "{1=10, 2=20, 3=30}", m.String())

	sub, err := m.HeadMap(2, true)
	require.NoError(t, err)
	require.ErrorIs(t, sub.PutAll(src.All()), coll.ErrIllegalRange)

	c := m.Clone()
	_, _, err = c.Put(4, 40)
	require.NoError(t, err)
	_, _, err = m.Remove(1)
	require.NoError(t, err)
	require.Equal(t, "{1=10, 2=20, 3=30, 4=40}", c.String())
	require.Equal(t, "{2=20, 3=30}", m.String())
	requireValidTree(t, c)

	// The clone of a view keeps the window.
	sc := sub.Clone()
	require.Equal(t, "{2=20}", sc.String())
	_, _, err = sc.Put(3, 3)
	require.ErrorIs(t, err, coll.ErrIllegalRange)
	_, _, err = sc.Put(0, 0)
	require.NoError(t, err)
	require.False(t, m.ContainsKey(0))
}

func TestNewTreeMapFromSorted(t *testing.T) {
	entries := make([]coll.Entry[int, string], 0, 100)
	for i := 0; i < 100; i++ {
		entries = append(entries, coll.NewEntry(i, "v"))
	}
	m, err := NewTreeMapFromSorted[int, string](coll.NaturalOrder[int](), entries)
	require.NoError(t, err)
	require.Equal(t, int64(100), m.Len())
	requireValidTree(t, m)
	key, err := m.LastKey()
	require.NoError(t, err)
	require.Equal(t, 99, key)

	_, err = NewTreeMapFromSorted[int, string](coll.NaturalOrder[int](), []coll.Entry[int, string]{
		coll.NewEntry(2, "b"), coll.NewEntry(1, "a"),
	})
	require.ErrorIs(t, err, coll.ErrNotSorted)

	m, err = NewTreeMapFromSorted[int, string](coll.NaturalOrder[int](), []coll.Entry[int, string]{
		coll.NewEntry(2, "b"), coll.NewEntry(1, "a"),
	}, WithTreeMapDesc[int, string]())
	require.NoError(t, err)
	require.Equal(t, "{2=b, 1=a}", m.String())
}

func TestNewTreeMapFrom(t *testing.T) {
	m := evens(t, 10)
	src := m.DescendingMap()
	c, err := NewTreeMapFrom(src)
	require.NoError(t, err)
	srcKeys, _ := pairs(src.All())
	keys, _ := pairs(c.All())
	require.Equal(t, srcKeys, keys)
	first, err := c.FirstKey()
	require.NoError(t, err)
	require.Equal(t, 18, first)

	_, _, err = c.Put(7, 7)
	require.NoError(t, err)
	require.False(t, m.ContainsKey(7))
	requireValidTree(t, c)

	sub, err := m.SubMap(4, true, 10, false)
	require.NoError(t, err)
	c, err = NewTreeMapFrom(sub, WithTreeMapDesc[int, int]())
	require.NoError(t, err)
	keys, _ = pairs(c.All())
	require.Equal(t, []int{8, 6, 4}, keys)
}

func TestTreeMap_ValueEqual(t *testing.T) {
	m := NewOrderedTreeMap[int, []int](WithTreeMapValueEqual[int, []int](func(a, b []int) bool {
		return len(a) == len(b)
	}))
	_, _, err := m.Put(1, []int{1, 2})
	require.NoError(t, err)
	require.True(t, m.ContainsValue([]int{7, 8}))
	require.False(t, m.ContainsValue([]int{7}))
	require.True(t, m.EntrySet().Contains(coll.NewEntry(1, []int{0, 0})))

	// Default deep equality.
	d := NewOrderedTreeMap[int, []int]()
	_, _, err = d.Put(1, []int{1, 2})
	require.NoError(t, err)
	require.True(t, d.ContainsValue([]int{1, 2}))
	require.False(t, d.ContainsValue([]int{2, 1}))
}

// hashMap is a minimal unordered Map to check the generic algorithms
// treat both containers alike.
type hashMap[K comparable, V any] struct {
	m map[K]V
}

func (h *hashMap[K, V]) Len() int64    { return int64(len(h.m)) }
func (h *hashMap[K, V]) IsEmpty() bool { return len(h.m) == 0 }
func (h *hashMap[K, V]) Get(key K) (V, bool, error) {
	v, ok := h.m[key]
	return v, ok, nil
}

func (h *hashMap[K, V]) Put(key K, val V) (V, bool, error) {
	old, ok := h.m[key]
	h.m[key] = val
	return old, ok, nil
}

func (h *hashMap[K, V]) Remove(key K) (V, bool, error) {
	old, ok := h.m[key]
	delete(h.m, key)
	return old, ok, nil
}

func (h *hashMap[K, V]) ContainsKey(key K) bool {
	_, ok := h.m[key]
	return ok
}

func (h *hashMap[K, V]) ContainsValue(V) bool                 { return false }
func (h *hashMap[K, V]) Clear()                               { clear(h.m) }
func (h *hashMap[K, V]) KeySet() coll.Set[K]                  { return nil }
func (h *hashMap[K, V]) Values() coll.Collection[V]           { return nil }
func (h *hashMap[K, V]) EntrySet() coll.Set[coll.Entry[K, V]] { return nil }
func (h *hashMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range h.m {
			if !yield(k, v) {
				return
			}
		}
	}
}

func TestTreeMap_GenericAlgorithms(t *testing.T) {
	m := newIntMap(t, 5, 3, 9, 1)
	h := &hashMap[int, int]{m: map[int]int{1: 10, 3: 30, 5: 50, 9: 90}}

	eq := coll.ComparableEqual[int]()
	require.True(t, coll.EqualMaps[int, int](m, h, eq))
	require.True(t, coll.EqualMaps[int, int](h, m, eq))

	hasher := coll.NewHasher[int]()
	require.Equal(t,
		coll.MapHash[int, int](m, hasher.Hash, hasher.Hash),
		coll.MapHash[int, int](h, hasher.Hash, hasher.Hash),
	)

	_, _, err := h.Put(9, 91)
	require.NoError(t, err)
	require.False(t, coll.EqualMaps[int, int](m, h, eq))
	require.NotEqual(t,
		coll.MapHash[int, int](m, hasher.Hash, hasher.Hash),
		coll.MapHash[int, int](h, hasher.Hash, hasher.Hash),
	)

	lowest, err := coll.Min(m.Values(), coll.NaturalOrder[int]())
	require.NoError(t, err)
	require.Equal(t, 10, lowest)
	highest, err := coll.Max(m.NavigableKeySet(), coll.NaturalOrder[int]())
	require.NoError(t, err)
	require.Equal(t, 9, highest)
	keys, err := coll.ToSlice(m.KeySet())
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 5, 9}, keys)
}

func TestTreeMap_Logger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewOrderedTreeMap[int, int](WithTreeMapLogger[int, int](xlog.NewXLoggerFromCore(core)))
	for i := 0; i < 10; i++ {
		_, _, err := m.Put(i, i)
		require.NoError(t, err)
	}

	head, err := m.HeadMap(5, false)
	require.NoError(t, err)
	_, _, err = head.Put(7, 7)
	require.ErrorIs(t, err, coll.ErrIllegalRange)
	require.Equal(t, 1, logs.FilterMessage("put rejected outside of the window").Len())

	it := m.Iterator()
	_, _, err = m.Put(100, 100)
	require.NoError(t, err)
	_, err = it.Next()
	require.ErrorIs(t, err, coll.ErrConcurrentModification)
	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	require.Equal(t, "concurrent modification detected by iterator", warns[0].Message)

	m.Clear()
	require.Equal(t, 1, logs.FilterMessage("rbtree released").Len())
}

func TestTreeMap_Stats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	m := NewOrderedTreeMap[int, int](WithTreeMapStats[int, int](provider))
	for i := 0; i < 5; i++ {
		_, _, err := m.Put(i, i)
		require.NoError(t, err)
	}
	_, _, err := m.Put(0, 1)
	require.NoError(t, err)
	_, err = m.PollFirstEntry()
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		require.Equal(t, tree.RBTreeStatsName, sm.Scope.Name)
		for _, metric := range sm.Metrics {
			if data, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[metric.Name] += dp.Value
				}
			}
		}
	}
	require.Equal(t, int64(5), sums["rbtree.insert.count"])
	require.Equal(t, int64(1), sums["rbtree.replace.count"])
	require.Equal(t, int64(1), sums["rbtree.remove.count"])
	require.Equal(t, int64(4), sums["rbtree.size"])
}
