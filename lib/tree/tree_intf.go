package tree

import (
	"errors"

	"github.com/benz9527/xcoll/lib/coll"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	if c == Red {
		return "Red"
	}
	return "Black"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var ErrReplaceDisabled = errors.New("[rbtree] replace disabled")

// RBNode is a live node of the tree, or a detached snapshot of a removed
// entry (HasKeyVal false).
type RBNode[K, V any] interface {
	Key() K
	Val() V
	// SetVal replaces the value in place and returns the old one.
	// It is not a structural modification.
	SetVal(val V) V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
	// Succ and Pred walk the in-order sequence, nil at the ends.
	Succ() RBNode[K, V]
	Pred() RBNode[K, V]
}

// RBTree is the ordered tree engine. It is not thread safe.
//
// Every structural modification (a node created or removed, Release)
// increments ModCount. Replacing the value of an existing key does not.
// An error returned by the comparator leaves the tree untouched.
type RBTree[K, V any] interface {
	Len() int64
	ModCount() uint64
	Root() RBNode[K, V]
	// Comparator returns the effective ordering, including WithRBTreeDesc.
	Comparator() coll.Comparator[K]
	Insert(key K, val V, ifNotPresent ...bool) (old V, replaced bool, err error)
	// Remove returns nil node and nil error if key is absent.
	Remove(key K) (RBNode[K, V], error)
	// RemoveNode removes a live node of this tree. If the node had two
	// children, it now carries its successor's entry and is returned.
	RemoveNode(node RBNode[K, V]) RBNode[K, V]
	PollFirst() (RBNode[K, V], error)
	PollLast() (RBNode[K, V], error)
	Search(key K) (RBNode[K, V], error)
	First() (RBNode[K, V], error)
	Last() (RBNode[K, V], error)
	Floor(key K) (RBNode[K, V], error)
	Ceiling(key K) (RBNode[K, V], error)
	Lower(key K) (RBNode[K, V], error)
	Higher(key K) (RBNode[K, V], error)
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Clone() RBTree[K, V]
	Release()
}
