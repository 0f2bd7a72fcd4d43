package pinball

import (
	"cmp"
	"slices"
)

const pooledBufferSize = 32

// BBTree is a dynamic bounding volume tree over the indexed things.
//
// The shape of the tree depends only on the order of insertions and box
// updates. ReindexQuery reports candidate pairs sorted by (lower id, higher
// id), with the lower id as the first argument.
type BBTree struct {
	bbfunc SpatialIndexBB
	// leaves maps an indexed thing to its leaf.
	leaves map[*Thing]*Node
	// order holds the indexed things in insertion order.
	order []*Thing
	root  *Node
	// pooledNodes is a free list of nodes linked through parent.
	pooledNodes *Node
	pairs       [][2]*Thing
}

// Node is a leaf holding one thing, or an inner node holding two children.
type Node struct {
	obj    *Thing
	bb     BB
	parent *Node
	a, b   *Node
}

func NewBBTree(bbfunc SpatialIndexBB) *BBTree {
	if bbfunc == nil {
		bbfunc = NextBBFunc
	}
	return &BBTree{
		bbfunc: bbfunc,
		leaves: map[*Thing]*Node{},
	}
}

func (tree *BBTree) Count() int {
	return len(tree.order)
}

func (tree *BBTree) Each(f func(obj *Thing)) {
	for _, obj := range tree.order {
		f(obj)
	}
}

func (tree *BBTree) Contains(obj *Thing) bool {
	return tree.leaves[obj] != nil
}

func (tree *BBTree) Insert(obj *Thing) {
	if tree.Contains(obj) {
		return
	}
	leaf := tree.NewLeaf(obj)
	tree.leaves[obj] = leaf
	tree.order = append(tree.order, obj)
	tree.root = tree.SubtreeInsert(tree.root, leaf)
}

func (tree *BBTree) Remove(obj *Thing) {
	leaf := tree.leaves[obj]
	if leaf == nil {
		return
	}
	delete(tree.leaves, obj)
	tree.order = slices.DeleteFunc(tree.order, func(t *Thing) bool { return t == obj })
	tree.root = tree.SubtreeRemove(tree.root, leaf)
	tree.RecycleNode(leaf)
}

func (tree *BBTree) Reindex() {
	for _, obj := range tree.order {
		tree.LeafUpdate(tree.leaves[obj])
	}
}

func (tree *BBTree) ReindexQuery(f SpatialIndexQuery, data any) {
	if tree.root == nil {
		return
	}
	tree.Reindex()

	tree.pairs = tree.pairs[:0]
	collect := func(a, b *Thing, _ any) {
		if a.id < b.id {
			tree.pairs = append(tree.pairs, [2]*Thing{a, b})
		}
	}
	for _, obj := range tree.order {
		tree.root.SubtreeQuery(obj, tree.leaves[obj].bb, collect, nil)
	}
	slices.SortFunc(tree.pairs, func(p, q [2]*Thing) int {
		if c := cmp.Compare(p[0].id, q[0].id); c != 0 {
			return c
		}
		return cmp.Compare(p[1].id, q[1].id)
	})
	for _, pair := range tree.pairs {
		f(pair[0], pair[1], data)
	}
}

func (tree *BBTree) Query(obj *Thing, bb BB, f SpatialIndexQuery, data any) {
	if tree.root == nil {
		return
	}
	tree.root.SubtreeQuery(obj, bb, func(a, b *Thing, data any) {
		if b != obj {
			f(a, b, data)
		}
	}, data)
}

// LeafUpdate refreshes the box of leaf. A leaf whose new box escapes the old
// one is reinserted, otherwise its ancestors are refitted. Reports whether
// the box changed.
func (tree *BBTree) LeafUpdate(leaf *Node) bool {
	bb := tree.bbfunc(leaf.obj)
	if bb == leaf.bb {
		return false
	}
	if !leaf.bb.Contains(bb) {
		tree.root = tree.SubtreeRemove(tree.root, leaf)
		leaf.bb = bb
		tree.root = tree.SubtreeInsert(tree.root, leaf)
		return true
	}
	leaf.bb = bb
	for node := leaf.parent; node != nil; node = node.parent {
		node.bb = node.a.bb.Merge(node.b.bb)
	}
	return true
}

func (tree *BBTree) SubtreeInsert(subtree *Node, leaf *Node) *Node {
	if subtree == nil {
		leaf.parent = nil
		return leaf
	}
	if subtree.IsLeaf() {
		return tree.NewNode(leaf, subtree)
	}

	costA := subtree.b.bb.Area() + subtree.a.bb.MergedArea(leaf.bb)
	costB := subtree.a.bb.Area() + subtree.b.bb.MergedArea(leaf.bb)

	if costA == costB {
		costA = subtree.a.bb.Proximity(leaf.bb)
		costB = subtree.b.bb.Proximity(leaf.bb)
	}

	if costB < costA {
		NodeSetB(subtree, tree.SubtreeInsert(subtree.b, leaf))
	} else {
		NodeSetA(subtree, tree.SubtreeInsert(subtree.a, leaf))
	}

	subtree.bb = subtree.bb.Merge(leaf.bb)
	return subtree
}

func (tree *BBTree) SubtreeRemove(subtree *Node, leaf *Node) *Node {
	if leaf == subtree {
		return nil
	}

	parent := leaf.parent
	if parent == subtree {
		other := subtree.Other(leaf)
		other.parent = subtree.parent
		tree.RecycleNode(subtree)
		return other
	}

	tree.ReplaceChild(parent.parent, parent, parent.Other(leaf))
	return subtree
}

// ReplaceChild puts value where child was under parent and refits the
// ancestors.
func (tree *BBTree) ReplaceChild(parent, child, value *Node) {
	if parent.a == child {
		tree.RecycleNode(parent.a)
		NodeSetA(parent, value)
	} else {
		tree.RecycleNode(parent.b)
		NodeSetB(parent, value)
	}

	for node := parent; node != nil; node = node.parent {
		node.bb = node.a.bb.Merge(node.b.bb)
	}
}

func (tree *BBTree) NewNode(a, b *Node) *Node {
	node := tree.NodeFromPool()
	node.obj = nil
	node.bb = a.bb.Merge(b.bb)
	node.parent = nil

	NodeSetA(node, a)
	NodeSetB(node, b)
	return node
}

func (tree *BBTree) NewLeaf(obj *Thing) *Node {
	node := tree.NodeFromPool()
	node.obj = obj
	node.bb = tree.bbfunc(obj)
	node.parent = nil
	node.a, node.b = nil, nil
	return node
}

func (tree *BBTree) NodeFromPool() *Node {
	node := tree.pooledNodes

	if node != nil {
		tree.pooledNodes = node.parent
		return node
	}

	// Pool is exhausted make more
	for range pooledBufferSize {
		tree.RecycleNode(&Node{})
	}

	return &Node{}
}

func (tree *BBTree) RecycleNode(node *Node) {
	node.obj = nil
	node.a, node.b = nil, nil
	node.parent = tree.pooledNodes
	tree.pooledNodes = node
}

func NodeSetA(node, value *Node) {
	node.a = value
	value.parent = node
}

func NodeSetB(node, value *Node) {
	node.b = value
	value.parent = node
}

func (node *Node) Other(child *Node) *Node {
	if node.a == child {
		return node.b
	}
	return node.a
}

func (node *Node) IsLeaf() bool {
	return node.obj != nil
}

// SubtreeQuery calls query(obj, leaf, data) for every leaf under subtree
// whose box intersects bb.
func (subtree *Node) SubtreeQuery(obj *Thing, bb BB, query SpatialIndexQuery, data any) {
	if subtree.bb.Intersects(bb) {
		if subtree.IsLeaf() {
			query(obj, subtree.obj, data)
		} else {
			subtree.a.SubtreeQuery(obj, bb, query, data)
			subtree.b.SubtreeQuery(obj, bb, query, data)
		}
	}
}
