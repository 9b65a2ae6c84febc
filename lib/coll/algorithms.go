package coll

// Generic algorithms written against the capability contract only, so
// they treat the sorted containers and any other implementation alike.

// Min returns the least element of c under cmp.
func Min[T any](c Collection[T], cmp Comparator[T]) (T, error) {
	return extreme(c, cmp, -1)
}

// Max returns the greatest element of c under cmp.
func Max[T any](c Collection[T], cmp Comparator[T]) (T, error) {
	return extreme(c, cmp, 1)
}

func extreme[T any](c Collection[T], cmp Comparator[T], sign int64) (T, error) {
	var res T
	it := c.Iterator()
	if !it.HasNext() {
		return res, ErrEmptyCollection
	}
	res, err := it.Next()
	if err != nil {
		return res, err
	}
	for it.HasNext() {
		e, err := it.Next()
		if err != nil {
			return res, err
		}
		r, err := cmp(e, res)
		if err != nil {
			return res, err
		}
		if r*sign > 0 {
			res = e
		}
	}
	return res, nil
}

// ToSlice copies the elements of c in iteration order.
func ToSlice[T any](c Collection[T]) ([]T, error) {
	res := make([]T, 0, c.Len())
	for it := c.Iterator(); it.HasNext(); {
		e, err := it.Next()
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

// EqualSets reports whether a and b hold the same elements, membership
// is decided by each set's own Contains.
func EqualSets[T any](a, b Set[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for e := range a.All() {
		if !b.Contains(e) {
			return false
		}
	}
	return true
}

// EqualMaps reports whether a and b hold the same mappings.
func EqualMaps[K, V any](a, b Map[K, V], eq Equaler[V]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, v := range a.All() {
		bv, ok, err := b.Get(k)
		if err != nil || !ok || !eq(v, bv) {
			return false
		}
	}
	return true
}

// MapHash is the sum of the per-entry hashes, an entry hash being
// keyHash ^ valHash. Iteration order does not matter.
func MapHash[K, V any](m Map[K, V], keyHash func(K) uint64, valHash func(V) uint64) uint64 {
	var h uint64
	for k, v := range m.All() {
		h += keyHash(k) ^ valHash(v)
	}
	return h
}

// SetHash is the sum of the element hashes.
func SetHash[T any](s Set[T], hash func(T) uint64) uint64 {
	var h uint64
	for e := range s.All() {
		h += hash(e)
	}
	return h
}
