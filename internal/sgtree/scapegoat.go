package sgtree

import (
	"math"

	"golang.org/x/exp/constraints"
)

// logAlphaInv approximates floor(log_{1/alpha}(n)), the depth at which
// an insertion path is considered "too deep" for the configured
// rebalance factor. original_source computes this by mixing log10 and
// log2 (an approximation the crate's own comments flag as imprecise);
// this uses a single natural-log change of base instead, which is both
// simpler and exact for the ratio being computed.
func logAlphaInv[S constraints.Unsigned](n S, num, den uint32) int {
	if n <= 1 {
		return 0
	}
	return int(math.Floor(math.Log(float64(n)) / math.Log(float64(den)/float64(num))))
}

// subtreeSize returns the number of nodes rooted at idx. In
// fast-rebalance or alt-impl mode this is an O(1) field read; otherwise
// it's an O(k) traversal of the subtree.
func (t *Tree[K, V, S]) subtreeSize(idx S) S {
	if idx == 0 {
		return 0
	}
	if t.maintainsSize() {
		return t.arena.get(idx).size
	}
	work := t.workBuf[:0]
	work = append(work, idx)
	var count S
	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		count++
		n := t.arena.get(i)
		if n.left != 0 {
			work = append(work, n.left)
		}
		if n.right != 0 {
			work = append(work, n.right)
		}
	}
	t.workBuf = work
	return count
}

// findScapegoat walks path (root-to-parent ancestors of the just
// inserted node, deepest last) backward, looking for the deepest
// ancestor whose child subtree violates den*childSize <= num*parentSize
// (equivalently childSize > alpha*parentSize). That ancestor is the
// scapegoat: rebuilding its subtree restores weight balance. Ported
// from original_source's find_scapegoat, generalized from the crate's
// hard-coded 3*x <= 2*y to the tunable alphaNum/alphaDen.
func (t *Tree[K, V, S]) findScapegoat(path []S) (S, bool) {
	if len(path) == 0 {
		return t.root, true
	}
	i := len(path) - 1
	childSize := S(1)
	parentSize := t.subtreeSize(path[i])
	for i > 0 && uint64(t.alphaDen)*uint64(childSize) <= uint64(t.alphaNum)*uint64(parentSize) {
		childSize = parentSize
		i--
		parentSize = t.subtreeSize(path[i])
	}
	return path[i], true
}

// findScapegoatAlt is the alternate scapegoat search proposed in
// Galperin's 1996 thesis and selected by original_source's alt_impl
// feature (original_source/src/tree/tree.rs's #[cfg(feature = "alt_impl")]
// find_scapegoat). Unlike findScapegoat's weight-ratio product test at
// each ancestor, it counts how many ancestors it has walked past (i) and
// stops once that count exceeds the logarithmic depth bound evaluated at
// the current subtree's size — a depth-counter test, not a size-ratio
// test, so it can pick a different (though still valid) scapegoat than
// findScapegoat on the same path.
func (t *Tree[K, V, S]) findScapegoatAlt(path []S) (S, bool) {
	if len(path) == 0 {
		return t.root, true
	}
	i := 0
	nodeSize := S(1)
	parentPathIdx := len(path) - 1
	parentSize := t.subtreeSize(path[parentPathIdx])

	for parentPathIdx > 0 && i <= logAlphaInv(nodeSize, t.alphaNum, t.alphaDen) {
		nodeSize = parentSize
		parentPathIdx--
		i++
		parentSize = t.subtreeSize(path[parentPathIdx])
	}
	return path[parentPathIdx], true
}
