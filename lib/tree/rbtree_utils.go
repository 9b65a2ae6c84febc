package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrRedViolation   = errors.New("[rbtree] red violation")
	ErrBlackViolation = errors.New("[rbtree] black violation")
	ErrOrderViolation = errors.New("[rbtree] order violation")
	ErrLinkViolation  = errors.New("[rbtree] link violation")
)

func isBlack[K, V any](node RBNode[K, V]) bool {
	return isNilLeaf[K, V](node) || node.Color() == Black
}

func isRed[K, V any](node RBNode[K, V]) bool {
	return !isNilLeaf[K, V](node) && node.Color() == Red
}

func isNilLeaf[K, V any](node RBNode[K, V]) bool {
	return node == nil || (!node.HasKeyVal() && node.Parent() == nil && node.Left() == nil && node.Right() == nil)
}

func blackDepthTo[K, V any](target, to RBNode[K, V]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// Inorder traversal over the node interface. Stops when fn returns false.
func inorder[K, V any](tree RBTree[K, V], fn func(node RBNode[K, V]) bool) {
	size := tree.Len()
	aux := tree.Root()
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[K, V](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for n := len(stack); n > 0; n = len(stack) {
		if aux = stack[n-1]; !fn(aux) {
			return
		}
		stack = stack[:n-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// RedViolationValidate checks that the root is black and no red node has
// a red child.
func RedViolationValidate[K, V any](tree RBTree[K, V]) error {
	if isRed[K, V](tree.Root()) {
		return fmt.Errorf("%w: red root", ErrRedViolation)
	}
	var err error
	inorder[K, V](tree, func(node RBNode[K, V]) bool {
		if isRed[K, V](node) && (isRed[K, V](node.Left()) || isRed[K, V](node.Right())) {
			err = fmt.Errorf("%w: red node %v has a red child", ErrRedViolation, node.Key())
			return false
		}
		return true
	})
	return err
}

// BFS traversal to load all nodes with at least one nil child.
func bfsLeaves[K, V any](tree RBTree[K, V]) []RBNode[K, V] {
	size := tree.Len()
	aux := tree.Root()
	if size <= 0 || isNilLeaf[K, V](aux) {
		return nil
	}

	leaves := make([]RBNode[K, V], 0, size>>1+1)
	queue := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ isNilLeaf[K, V](l) || isNilLeaf[K, V](r) {
			leaves = append(leaves, aux)
		}
		if !isNilLeaf[K, V](l) {
			queue = append(queue, l)
		}
		if !isNilLeaf[K, V](r) {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K, V any](tree RBTree[K, V]) error {
	leaves := bfsLeaves[K, V](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K, V](leaves[0], nil)
	for i := 1; i < len(leaves); i++ {
		if depth := blackDepthTo[K, V](leaves[i], nil); depth != blackDepth {
			return fmt.Errorf("%w: node %v black depth %d, expected %d",
				ErrBlackViolation, leaves[i].Key(), depth, blackDepth)
		}
	}
	return nil
}

// OrderViolationValidate checks that the inorder keys strictly increase
// under the tree's comparator.
func OrderViolationValidate[K, V any](tree RBTree[K, V]) error {
	var (
		prev RBNode[K, V]
		err  error
	)
	cmp := tree.Comparator()
	inorder[K, V](tree, func(node RBNode[K, V]) bool {
		if prev != nil {
			res, cmpErr := cmp(prev.Key(), node.Key())
			if cmpErr != nil {
				err = cmpErr
				return false
			}
			if res >= 0 {
				err = fmt.Errorf("%w: %v is not less than %v", ErrOrderViolation, prev.Key(), node.Key())
				return false
			}
		}
		prev = node
		return true
	})
	return err
}

// LinkViolationValidate checks the parent links and the node count.
func LinkViolationValidate[K, V any](tree RBTree[K, V]) error {
	root := tree.Root()
	if root != nil && root.Parent() != nil {
		return fmt.Errorf("%w: root has a parent", ErrLinkViolation)
	}
	var (
		count int64
		err   error
	)
	inorder[K, V](tree, func(node RBNode[K, V]) bool {
		count++
		if !node.HasKeyVal() {
			err = fmt.Errorf("%w: node %v is detached", ErrLinkViolation, node.Key())
			return false
		}
		for _, child := range []RBNode[K, V]{node.Left(), node.Right()} {
			if child != nil && child.Parent() != node {
				err = fmt.Errorf("%w: child %v of %v links to another parent", ErrLinkViolation, child.Key(), node.Key())
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	if count != tree.Len() {
		return fmt.Errorf("%w: counted %d nodes, len %d", ErrLinkViolation, count, tree.Len())
	}
	return nil
}

// Validate runs every validator and combines their violations.
func Validate[K, V any](tree RBTree[K, V]) error {
	err := multierr.Combine(
		LinkViolationValidate[K, V](tree),
		OrderViolationValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
	)
	if err != nil {
		if t, ok := tree.(*rbTree[K, V]); ok {
			t.logger.Warn("rbtree invariant violated", zap.Error(err))
		}
	}
	return err
}
