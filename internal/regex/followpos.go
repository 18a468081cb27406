package regex

import "github.com/dekarrin/flab/internal/util"

// preorder returns every node of the subtree rooted at n, in a pre-order
// walk (node, then Left, then Mid, then Right) — the same traversal the
// Python original's Tree.followPos.iterate uses.
func preorder(n *Node) []*Node {
	if n == nil {
		return nil
	}
	nodes := []*Node{n}
	nodes = append(nodes, preorder(n.Left)...)
	nodes = append(nodes, preorder(n.Mid)...)
	nodes = append(nodes, preorder(n.Right)...)
	return nodes
}

// AssignPositions walks root in pre-order and assigns each leaf a unique
// positive position index in the order leaves are visited (spec.md §4.C),
// returning the position -> leaf-symbol table the syntax tree owns.
func AssignPositions(root *Node) map[int]string {
	dict := map[int]string{}
	count := 1
	for _, n := range preorder(root) {
		if n.isLeaf() {
			n.Pos = count
			dict[count] = n.Symbol
			count++
		}
	}
	return dict
}

// FollowPos computes followpos for every leaf position of root (spec.md
// §4.C): for every concat node, every position in lastPos(left) follows
// every position in firstPos(right); for every star node, every position in
// lastPos(node) follows every position in firstPos(node). Positions must
// already have been assigned via AssignPositions.
func FollowPos(root *Node) map[int]util.IntSet {
	follow := map[int]util.IntSet{}
	ensure := func(pos int) util.IntSet {
		if _, ok := follow[pos]; !ok {
			follow[pos] = util.NewIntSet()
		}
		return follow[pos]
	}

	for _, n := range preorder(root) {
		switch {
		case n.Kind == KindStar:
			for _, lp := range n.LastPos().Sorted() {
				ensure(lp).AddAll(n.FirstPos())
			}
		case n.Kind == KindConcat:
			for _, lp := range n.Left.LastPos().Sorted() {
				ensure(lp).AddAll(n.Right.FirstPos())
			}
		case n.isLeaf():
			ensure(n.Pos)
		}
	}

	return follow
}
