package treemap

import (
	"fmt"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/tree"
)

// bound is one end of a window, always expressed in the ascending key
// space of the backing tree.
type bound[K any] struct {
	key       K
	inclusive bool
	present   bool
}

func (m *navigableMap[K, V]) newBound(key K, inclusive bool) (bound[K], error) {
	if _, err := m.opts.cmp(key, key); err != nil {
		return bound[K]{}, err
	}
	return bound[K]{key: key, inclusive: inclusive, present: true}, nil
}

func (m *navigableMap[K, V]) bounded() bool {
	return m.lo.present || m.hi.present
}

func (m *navigableMap[K, V]) tooLow(key K) (bool, error) {
	if !m.lo.present {
		return false, nil
	}
	res, err := m.opts.cmp(key, m.lo.key)
	if err != nil {
		return false, err
	}
	return res < 0 || (res == 0 && !m.lo.inclusive), nil
}

func (m *navigableMap[K, V]) tooHigh(key K) (bool, error) {
	if !m.hi.present {
		return false, nil
	}
	res, err := m.opts.cmp(key, m.hi.key)
	if err != nil {
		return false, err
	}
	return res > 0 || (res == 0 && !m.hi.inclusive), nil
}

func (m *navigableMap[K, V]) inRange(key K) (bool, error) {
	if low, err := m.tooLow(key); err != nil || low {
		return false, err
	}
	if high, err := m.tooHigh(key); err != nil || high {
		return false, err
	}
	return true, nil
}

// inClosedRange ignores the exclusiveness of the window bounds.
func (m *navigableMap[K, V]) inClosedRange(key K) (bool, error) {
	if m.lo.present {
		if res, err := m.opts.cmp(key, m.lo.key); err != nil || res < 0 {
			return false, err
		}
	}
	if m.hi.present {
		if res, err := m.opts.cmp(key, m.hi.key); err != nil || res > 0 {
			return false, err
		}
	}
	return true, nil
}

// An exclusive bound equal to an exclusive window bound does not widen
// the window, so only an inclusive bound has to be strictly inside.
func (m *navigableMap[K, V]) checkBound(b bound[K]) error {
	var (
		ok  bool
		err error
	)
	if b.inclusive {
		ok, err = m.inRange(b.key)
	} else {
		ok, err = m.inClosedRange(b.key)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: bound %v outside of the window", coll.ErrIllegalRange, b.key)
	}
	return nil
}

// Absolute navigation, in the ascending space of the backing tree and
// clamped to the window. A nil node means nothing qualifies.

func (m *navigableMap[K, V]) absLowest() (tree.RBNode[K, V], error) {
	var (
		node tree.RBNode[K, V]
		err  error
	)
	switch {
	case !m.lo.present:
		node, _ = m.tree.First()
	case m.lo.inclusive:
		node, err = m.tree.Ceiling(m.lo.key)
	default:
		node, err = m.tree.Higher(m.lo.key)
	}
	return m.checkHigh(node, err)
}

func (m *navigableMap[K, V]) absHighest() (tree.RBNode[K, V], error) {
	var (
		node tree.RBNode[K, V]
		err  error
	)
	switch {
	case !m.hi.present:
		node, _ = m.tree.Last()
	case m.hi.inclusive:
		node, err = m.tree.Floor(m.hi.key)
	default:
		node, err = m.tree.Lower(m.hi.key)
	}
	return m.checkLow(node, err)
}

func (m *navigableMap[K, V]) absCeiling(key K) (tree.RBNode[K, V], error) {
	if low, err := m.tooLow(key); err != nil {
		return nil, err
	} else if low {
		return m.absLowest()
	}
	return m.checkHigh(m.tree.Ceiling(key))
}

func (m *navigableMap[K, V]) absHigher(key K) (tree.RBNode[K, V], error) {
	if low, err := m.tooLow(key); err != nil {
		return nil, err
	} else if low {
		return m.absLowest()
	}
	return m.checkHigh(m.tree.Higher(key))
}

func (m *navigableMap[K, V]) absFloor(key K) (tree.RBNode[K, V], error) {
	if high, err := m.tooHigh(key); err != nil {
		return nil, err
	} else if high {
		return m.absHighest()
	}
	return m.checkLow(m.tree.Floor(key))
}

func (m *navigableMap[K, V]) absLower(key K) (tree.RBNode[K, V], error) {
	if high, err := m.tooHigh(key); err != nil {
		return nil, err
	} else if high {
		return m.absHighest()
	}
	return m.checkLow(m.tree.Lower(key))
}

func (m *navigableMap[K, V]) checkHigh(node tree.RBNode[K, V], err error) (tree.RBNode[K, V], error) {
	if err != nil || node == nil {
		return nil, err
	}
	if high, err := m.tooHigh(node.Key()); err != nil || high {
		return nil, err
	}
	return node, nil
}

func (m *navigableMap[K, V]) checkLow(node tree.RBNode[K, V], err error) (tree.RBNode[K, V], error) {
	if err != nil || node == nil {
		return nil, err
	}
	if low, err := m.tooLow(node.Key()); err != nil || low {
		return nil, err
	}
	return node, nil
}

// Relative navigation, in the direction of the view.

func (m *navigableMap[K, V]) first() (tree.RBNode[K, V], error) {
	if m.desc {
		return m.absHighest()
	}
	return m.absLowest()
}

func (m *navigableMap[K, V]) last() (tree.RBNode[K, V], error) {
	if m.desc {
		return m.absLowest()
	}
	return m.absHighest()
}

func (m *navigableMap[K, V]) ceiling(key K) (tree.RBNode[K, V], error) {
	if m.desc {
		return m.absFloor(key)
	}
	return m.absCeiling(key)
}

func (m *navigableMap[K, V]) floor(key K) (tree.RBNode[K, V], error) {
	if m.desc {
		return m.absCeiling(key)
	}
	return m.absFloor(key)
}

func (m *navigableMap[K, V]) higher(key K) (tree.RBNode[K, V], error) {
	if m.desc {
		return m.absLower(key)
	}
	return m.absHigher(key)
}

func (m *navigableMap[K, V]) lower(key K) (tree.RBNode[K, V], error) {
	if m.desc {
		return m.absHigher(key)
	}
	return m.absLower(key)
}
