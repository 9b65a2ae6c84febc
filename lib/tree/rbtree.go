package tree

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/infra"
	"github.com/benz9527/xcoll/lib/xlog"
)

type rbNode[K, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	hasKV  bool
}

func wrapNode[K, V any](node *rbNode[K, V]) RBNode[K, V] {
	if node == nil {
		return nil
	}
	return node
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) SetVal(val V) V {
	old := node.val
	node.val = val
	return old
}

func (node *rbNode[K, V]) HasKeyVal() bool {
	if node == nil {
		return false
	}
	return node.hasKV
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil {
		return nil
	}
	return wrapNode(node.left)
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil {
		return nil
	}
	return wrapNode(node.parent)
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil {
		return nil
	}
	return wrapNode(node.right)
}

func (node *rbNode[K, V]) Succ() RBNode[K, V] {
	return wrapNode(node.succ())
}

func (node *rbNode[K, V]) Pred() RBNode[K, V] {
	return wrapNode(node.pred())
}

func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K, V]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K, V]) uncle() *rbNode[K, V] {
	return node.parent.sibling()
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	return node.parent.parent
}

func (node *rbNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order
func (node *rbNode[K, V]) pred() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's pred.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

func (node *rbNode[K, V]) clone(parent *rbNode[K, V]) *rbNode[K, V] {
	c := &rbNode[K, V]{
		parent: parent,
		key:    node.key,
		val:    node.val,
		color:  node.color,
		hasKV:  true,
	}
	if node.left != nil {
		c.left = node.left.clone(c)
	}
	if node.right != nil {
		c.right = node.right.clone(c)
	}
	return c
}

type rbTree[K, V any] struct {
	root     *rbNode[K, V]
	cmp      coll.Comparator[K]
	count    int64
	modCount uint64
	isDesc   bool
	logger   xlog.XLogger
	stats    *rbTreeStats
	meters   metric.MeterProvider
	metered  bool
}

func (tree *rbTree[K, V]) keyCompare(k1, k2 K) (int64, error) {
	res, err := tree.cmp(k1, k2)
	if err != nil {
		if !errors.Is(err, coll.ErrComparison) {
			err = fmt.Errorf("%w: %w", coll.ErrComparison, err)
		}
		return 0, err
	}
	if res < 0 {
		res = -1
	} else if res > 0 {
		res = 1
	}
	if tree.isDesc {
		res = -res
	}
	return res, nil
}

// checkKey rejects keys the ordering cannot handle even when there is
// nothing to compare against yet.
func (tree *rbTree[K, V]) checkKey(key K) error {
	_, err := tree.keyCompare(key, key)
	return err
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) ModCount() uint64 {
	return tree.modCount
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	return wrapNode(tree.root)
}

func (tree *rbTree[K, V]) Comparator() coll.Comparator[K] {
	return tree.keyCompare
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. (Optional) The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// So the shortest path nodes are black nodes. Otherwise,
// the path must contain red node.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
	}
	y.parent = p
	tree.stats.RecordRotation()
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
	}
	y.parent = p
	tree.stats.RecordRotation()
}

// i1: Empty rbtree, insert directly, but root node is painted to black.
// All comparisons finish before the first link is changed, so a failing
// comparator leaves the tree untouched.
func (tree *rbTree[K, V]) Insert(key K, val V, ifNotPresent ...bool) (old V, replaced bool, err error) {
	if /* i1 */ tree.root == nil {
		if err = tree.checkKey(key); err != nil {
			return old, false, err
		}
		tree.root = &rbNode[K, V]{
			key:   key,
			val:   val,
			hasKV: true,
		}
		tree.count++
		tree.modCount++
		tree.stats.RecordInsert()
		return old, false, nil
	}

	var (
		x, y *rbNode[K, V] = tree.root, nil
		res  int64
	)
	for x != nil {
		y = x
		if res, err = tree.keyCompare(key, x.key); err != nil {
			return old, false, err
		}
		if /* equal */ res == 0 {
			break
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	if /* equal */ res == 0 {
		if /* disabled */ len(ifNotPresent) > 0 && ifNotPresent[0] {
			return y.val, false, ErrReplaceDisabled
		}
		old = y.SetVal(val)
		tree.stats.RecordReplace()
		return old, true, nil
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
		hasKV:  true,
	}
	if /* less */ res < 0 {
		y.left = z
	} else /* greater */ {
		y.right = z
	}

	tree.count++
	tree.modCount++
	tree.insertRebalance(z)
	tree.stats.RecordInsert()
	return old, false, nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X's parent P is black, nothing to fix.

im2: Current node X's parent P is red and P is root, repaint P into black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for x != nil {
		if x.isRoot() {
			x.color = Black
			return
		}

		if /* im1 */ x.parent.isBlack() {
			return
		}

		if /* im2 */ x.parent.isRoot() {
			x.parent.color = Black
			return
		}

		if /* im3 */ uncle := x.uncle(); uncle.isRed() {
			x.parent.color = Black
			uncle.color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		}

		dir := x.Direction()
		if /* im4 */ dir != x.parent.Direction() {
			p := x.parent
			switch dir {
			case Left:
				tree.rightRotate(p)
			case Right:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im4)")
			}
			x = p // enter im5 to fix
		}

		switch /* im5 */ dir = x.parent.Direction(); dir {
		case Left:
			tree.rightRotate(x.grandpa())
		case Right:
			tree.leftRotate(x.grandpa())
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im5)")
		}

		x.parent.color = Black
		x.sibling().color = Red
		return
	}
}

/*
r1: Only a root node, remove directly.

r2: Current node X has left and right node.
Find node X's succ to replace it to be removed.
Swap the key and value only. X stays in place and the succ node
(without left child) is the one to be unlinked.

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   swap(X, S)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..                X  ..

r3: (1) Current node X is a red leaf node, remove directly.

r3: (2) Current node X is a black leaf node, we have to rebalance before
unlinking it. (black-violation)

r4: Current node X is not a leaf node but contains a not nil child node.
The child node must be a red node. (See conclusion. Otherwise, black-violation)
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) (res, reused *rbNode[K, V]) {
	res = &rbNode[K, V]{
		key:   z.key,
		val:   z.val,
		color: z.color,
	}

	if /* r1 */ tree.count == 1 && z.isRoot() {
		tree.root = nil
		z.hasKV = false
		tree.count--
		tree.modCount++
		tree.stats.RecordRemove()
		return res, nil
	}

	y := z
	if /* r2 */ y.left != nil && y.right != nil {
		y = z.succ() // enter r3-r4
		z.key, z.val = y.key, y.val
		reused = z
	}

	if /* r3 */ y.isLeaf() {
		if /* r3 (2) */ y.isBlack() {
			tree.removeRebalance(y)
		}
		switch dir := y.Direction(); dir {
		case Left:
			y.parent.left = nil
		case Right:
			y.parent.right = nil
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] y should be a leaf node with parent, violate (r3)")
		}
	} else /* r4 */ {
		replace := y.right
		if replace == nil {
			replace = y.left
		}

		switch dir := y.Direction(); dir {
		case Root:
			tree.root = replace
		case Left:
			y.parent.left = replace
		case Right:
			y.parent.right = replace
		default:
		}
		replace.parent = y.parent

		if y.isBlack() {
			if replace.isRed() {
				replace.color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	// Unlink node
	y.parent = nil
	y.left = nil
	y.right = nil
	y.hasKV = false

	tree.count--
	tree.modCount++
	tree.stats.RecordRemove()
	return res, reused
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Unable to satisfy p3 and p4. We have to paint the S into red to satisfy
p4 locally. Then recursive to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
Unable to satisfy p3 and p4.
(1) If X is left node of P, right rotate S.
(2) If X is right node of P, left rotate S.
(3) Repaint S into red, Sc into black
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: Current node X's sibling S is black, nephew node Sc is black and Sd
is red. Ignore X's parent P's color (red or black is okay)
Unable to satisfy p4 (black-violation)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) Swap P and S's color (red-violation)
(4) Repaint Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x *rbNode[K, V]) {
	for {
		if x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *rbNode[K, V]
		switch dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				return
			}
			/* rm3 */
			sibling.color = Red
			x = x.parent
			continue
		}

		if /* rm4 */ sc.isRed() {
			switch dir {
			case Left:
				tree.rightRotate(sibling)
			case Right:
				tree.leftRotate(sibling)
			default:
			}
			sc.color = Black
			sibling.color = Red
			sibling = x.sibling()
			if dir == Left {
				sd = sibling.right
			} else {
				sd = sibling.left
			}
		}

		switch /* rm5 */ dir {
		case Left:
			tree.leftRotate(x.parent)
		case Right:
			tree.rightRotate(x.parent)
		default:
		}
		sibling.color = x.parent.color
		x.parent.color = Black
		if sd != nil {
			sd.color = Black
		}
		return
	}
}

func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	z, err := tree.search(key)
	if err != nil || z == nil {
		return nil, err
	}
	res, _ := tree.removeNode(z)
	return res, nil
}

func (tree *rbTree[K, V]) RemoveNode(node RBNode[K, V]) RBNode[K, V] {
	z, ok := node.(*rbNode[K, V])
	if !ok || z == nil || !z.hasKV || (z.parent == nil && z != tree.root) {
		return nil
	}
	_, reused := tree.removeNode(z)
	return wrapNode(reused)
}

func (tree *rbTree[K, V]) PollFirst() (RBNode[K, V], error) {
	if tree.root == nil {
		return nil, coll.ErrEmptyCollection
	}
	res, _ := tree.removeNode(tree.root.minimum())
	return res, nil
}

func (tree *rbTree[K, V]) PollLast() (RBNode[K, V], error) {
	if tree.root == nil {
		return nil, coll.ErrEmptyCollection
	}
	res, _ := tree.removeNode(tree.root.maximum())
	return res, nil
}

func (tree *rbTree[K, V]) First() (RBNode[K, V], error) {
	if tree.root == nil {
		return nil, coll.ErrEmptyCollection
	}
	return tree.root.minimum(), nil
}

func (tree *rbTree[K, V]) Last() (RBNode[K, V], error) {
	if tree.root == nil {
		return nil, coll.ErrEmptyCollection
	}
	return tree.root.maximum(), nil
}

func (tree *rbTree[K, V]) search(key K) (*rbNode[K, V], error) {
	if tree.root == nil {
		return nil, tree.checkKey(key)
	}
	for aux := tree.root; aux != nil; {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, err
		}
		if res == 0 {
			return aux, nil
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil, nil
}

func (tree *rbTree[K, V]) Search(key K) (RBNode[K, V], error) {
	node, err := tree.search(key)
	return wrapNode(node), err
}

// The least node whose key is greater than (or equal to, if inclusive) key.
func (tree *rbTree[K, V]) ceiling(key K, inclusive bool) (*rbNode[K, V], error) {
	if tree.root == nil {
		return nil, tree.checkKey(key)
	}
	var candidate *rbNode[K, V]
	for aux := tree.root; aux != nil; {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, err
		}
		if res == 0 && inclusive {
			return aux, nil
		} else if res < 0 {
			candidate = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return candidate, nil
}

// The greatest node whose key is less than (or equal to, if inclusive) key.
func (tree *rbTree[K, V]) floor(key K, inclusive bool) (*rbNode[K, V], error) {
	if tree.root == nil {
		return nil, tree.checkKey(key)
	}
	var candidate *rbNode[K, V]
	for aux := tree.root; aux != nil; {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, err
		}
		if res == 0 && inclusive {
			return aux, nil
		} else if res > 0 {
			candidate = aux
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return candidate, nil
}

func (tree *rbTree[K, V]) Floor(key K) (RBNode[K, V], error) {
	node, err := tree.floor(key, true)
	return wrapNode(node), err
}

func (tree *rbTree[K, V]) Ceiling(key K) (RBNode[K, V], error) {
	node, err := tree.ceiling(key, true)
	return wrapNode(node), err
}

func (tree *rbTree[K, V]) Lower(key K) (RBNode[K, V], error) {
	node, err := tree.floor(key, false)
	return wrapNode(node), err
}

func (tree *rbTree[K, V]) Higher(key K) (RBNode[K, V], error) {
	node, err := tree.ceiling(key, false)
	return wrapNode(node), err
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := tree.count
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

func (tree *rbTree[K, V]) Clone() RBTree[K, V] {
	c := &rbTree[K, V]{
		cmp:     tree.cmp,
		count:   tree.count,
		isDesc:  tree.isDesc,
		logger:  tree.logger,
		stats:   tree.stats,
		meters:  tree.meters,
		metered: tree.metered,
	}
	if tree.root != nil {
		c.root = tree.root.clone(nil)
	}
	c.stats.RecordBulk(c.count)
	return c
}

// Release unlinks every node so that outstanding node handles no longer
// reach each other.
func (tree *rbTree[K, V]) Release() {
	size := tree.count
	aux := tree.root
	tree.root = nil
	tree.modCount++
	if size <= 0 || aux == nil {
		tree.count = 0
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for n := len(stack); n > 0; n = len(stack) {
		aux = stack[n-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		aux.hasKV = false
		stack = stack[:n-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
	tree.count = 0
	tree.stats.RecordRelease(size)
	tree.logger.Debug("rbtree released", zap.Int64("size", size))
}

type RBTreeOpt[K, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

func WithRBTreeLogger[K, V any](logger xlog.XLogger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger.Named("rbtree")
		}
	}
}

// WithRBTreeStats records tree activity through the meter provider.
// A nil provider falls back to the global one.
func WithRBTreeStats[K, V any](provider metric.MeterProvider) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.meters, tree.metered = provider, true
	}
}

func newRBTree[K, V any](cmp coll.Comparator[K], opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	if cmp == nil {
		panic("[rbtree] nil comparator")
	}
	tree := &rbTree[K, V]{
		cmp:    cmp,
		logger: xlog.NewNopXLogger(),
	}
	for _, o := range opts {
		o(tree)
	}
	if tree.metered {
		tree.stats = newRBTreeStats(tree.meters, tree.isDesc)
	}
	return tree
}

func NewRBTree[K, V any](cmp coll.Comparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](cmp, opts...)
}

func NewOrderedRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](coll.NaturalOrder[K](), opts...)
}
