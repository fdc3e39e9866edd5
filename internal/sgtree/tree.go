package sgtree

import "golang.org/x/exp/constraints"

// Tree is the arena-backed scapegoat search tree engine. It has no
// notion of "map" or "set" — the facade package decides whether V is a
// real value type or struct{}. All descent and rebuild code is
// iterative: nothing here recurses, so nothing here is bounded by Go's
// goroutine stack growth behavior.
type Tree[K any, V any, S constraints.Unsigned] struct {
	arena allocator[K, V, S]
	cmp   func(a, b K) int

	root   S // 0 = empty tree
	minIdx S
	maxIdx S

	size      S // current node count
	highWater S // largest size seen since the last full rebuild

	alphaNum, alphaDen uint32

	rebalanceCnt uint64
	generation   uint64 // bumped on every structural mutation and on every value-overwriting insert

	fastRebalance bool
	altImpl       bool

	// Reusable scratch buffers, each capped at the arena's capacity so no
	// operation allocates after construction.
	pathBuf      []S
	workBuf      []S
	flattenBuf   []S
	frameBuf     []rebuildFrame
	retainBuf    []K
	entryPathBuf []S

	// iterStack backs every Iterator's traversal stack. Only one
	// Iterator per Tree may be live at a time; a second concurrent
	// Iter()/IterRev() call on the same Tree shares and corrupts the
	// first's traversal state, the same single-live-handle constraint
	// LookupForEntry places on entryPathBuf.
	iterStack []S
}

// Option configures a Tree at construction time. Options stand in for
// original_source's compile-time #[cfg(feature = "...")] gates, which
// Go generics can't express: here they're plain runtime switches, and
// every mode they select is exercised by the same test suite as the
// default path.
type Option[K any, V any, S constraints.Unsigned] func(*treeConfig)

type treeConfig struct {
	lowMem        bool
	fastRebalance bool
	altImpl       bool
}

// WithLowMemInsert selects the linear-scan allocator: slot allocation
// becomes O(n) and the arena keeps no free chain, only one liveness bool
// per slot. It does not use less memory than the default arena, whose
// free chain reuses the left field of freed slots.
func WithLowMemInsert[K any, V any, S constraints.Unsigned]() Option[K, V, S] {
	return func(c *treeConfig) { c.lowMem = true }
}

// WithFastRebalance keeps each node's subtree size incrementally
// updated on every insert and removal, so the scapegoat search can read
// sizes directly instead of walking subtrees to count them.
func WithFastRebalance[K any, V any, S constraints.Unsigned]() Option[K, V, S] {
	return func(c *treeConfig) { c.fastRebalance = true }
}

// WithAltImpl selects the alternate scapegoat search: a depth-counter
// walk that stops once the number of ancestors visited exceeds the
// logarithmic depth bound for the current subtree size, rather than
// findScapegoat's weight-ratio test at each ancestor.
func WithAltImpl[K any, V any, S constraints.Unsigned]() Option[K, V, S] {
	return func(c *treeConfig) { c.altImpl = true }
}

// NewFunc constructs a Tree with a caller-supplied comparator and the
// default rebalance factor (2/3).
func NewFunc[K any, V any, S constraints.Unsigned](capacity S, cmpFn func(K, K) int, opts ...Option[K, V, S]) *Tree[K, V, S] {
	var cfg treeConfig
	for _, o := range opts {
		o(&cfg)
	}
	t := &Tree[K, V, S]{
		cmp:           cmpFn,
		alphaNum:      DefaultAlphaNum,
		alphaDen:      DefaultAlphaDenom,
		fastRebalance: cfg.fastRebalance,
		altImpl:       cfg.altImpl,
		pathBuf:       make([]S, 0, capacity),
		workBuf:       make([]S, 0, capacity),
		flattenBuf:    make([]S, 0, capacity),
		frameBuf:      make([]rebuildFrame, 0, capacity),
		retainBuf:     make([]K, 0, capacity),
		entryPathBuf:  make([]S, capacity),
		iterStack:     make([]S, 0, capacity),
	}
	if cfg.lowMem {
		t.arena = newLowMemArena[K, V, S](capacity)
	} else {
		t.arena = newArena[K, V, S](capacity)
	}
	return t
}

// NewFuncWithAlpha is NewFunc plus an explicit rebalance factor.
func NewFuncWithAlpha[K any, V any, S constraints.Unsigned](capacity S, cmpFn func(K, K) int, num, den uint32, opts ...Option[K, V, S]) (*Tree[K, V, S], error) {
	if err := ValidateAlpha(num, den); err != nil {
		return nil, err
	}
	t := NewFunc[K, V, S](capacity, cmpFn, opts...)
	t.alphaNum, t.alphaDen = num, den
	return t, nil
}

// SetRebalanceFactor changes the rebalance factor on a live tree. It
// does not retroactively rebuild anything; the new factor only governs
// future insert/remove decisions.
func (t *Tree[K, V, S]) SetRebalanceFactor(num, den uint32) error {
	if err := ValidateAlpha(num, den); err != nil {
		return err
	}
	t.alphaNum, t.alphaDen = num, den
	return nil
}

func (t *Tree[K, V, S]) Alpha() (num, den uint32) { return t.alphaNum, t.alphaDen }

func (t *Tree[K, V, S]) Len() S                 { return t.size }
func (t *Tree[K, V, S]) Capacity() S            { return t.arena.capacity() }
func (t *Tree[K, V, S]) IsEmpty() bool          { return t.size == 0 }
func (t *Tree[K, V, S]) RebalanceCount() uint64 { return t.rebalanceCnt }

func (t *Tree[K, V, S]) maintainsSize() bool { return t.fastRebalance || t.altImpl }

// Clear empties the tree but preserves the rebalance-count and alpha
// settings, matching original_source's clear() (which explicitly keeps
// rebal_cnt across a reset).
func (t *Tree[K, V, S]) Clear() {
	t.arena.reset()
	t.root, t.minIdx, t.maxIdx, t.size, t.highWater = 0, 0, 0, 0, 0
	t.generation++
}

// search performs a plain iterative BST descent, reporting the node
// found (if any) and its immediate parent for callers that need to
// relink a child pointer.
func (t *Tree[K, V, S]) search(key K) (nodeIdx, parentIdx S, isRight, found bool) {
	curr := t.root
	for curr != 0 {
		n := t.arena.get(curr)
		switch c := t.cmp(key, n.key); {
		case c < 0:
			if n.left == 0 {
				return 0, 0, false, false
			}
			parentIdx, isRight = curr, false
			curr = n.left
		case c > 0:
			if n.right == 0 {
				return 0, 0, false, false
			}
			parentIdx, isRight = curr, true
			curr = n.right
		default:
			return curr, parentIdx, isRight, true
		}
	}
	return 0, 0, false, false
}

func (t *Tree[K, V, S]) Get(key K) (V, bool) {
	idx, _, _, found := t.search(key)
	if !found {
		var zero V
		return zero, false
	}
	return t.arena.get(idx).val, true
}

func (t *Tree[K, V, S]) GetMutPtr(key K) (*V, bool) {
	idx, _, _, found := t.search(key)
	if !found {
		return nil, false
	}
	return &t.arena.get(idx).val, true
}

func (t *Tree[K, V, S]) GetKeyValue(key K) (K, V, bool) {
	idx, _, _, found := t.search(key)
	if !found {
		var zk K
		var zv V
		return zk, zv, false
	}
	n := t.arena.get(idx)
	return n.key, n.val, true
}

func (t *Tree[K, V, S]) ContainsKey(key K) bool {
	_, _, _, found := t.search(key)
	return found
}

func (t *Tree[K, V, S]) FirstKeyValue() (K, V, bool) {
	if t.root == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	n := t.arena.get(t.minIdx)
	return n.key, n.val, true
}

func (t *Tree[K, V, S]) LastKeyValue() (K, V, bool) {
	if t.root == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	n := t.arena.get(t.maxIdx)
	return n.key, n.val, true
}

// TryInsert upserts key/val, returning the previous value (if key was
// already present) and an error only when the arena is full and the key
// is new.
func (t *Tree[K, V, S]) TryInsert(key K, val V) (oldVal V, hadOld bool, err error) {
	if t.root == 0 {
		idx, ok := t.arena.add(node[K, V, S]{key: key, val: val, size: 1})
		if !ok {
			return oldVal, false, ErrCapacityExceeded
		}
		t.root, t.minIdx, t.maxIdx = idx, idx, idx
		t.size++
		if t.size > t.highWater {
			t.highWater = t.size
		}
		t.generation++
		return oldVal, false, nil
	}

	path := t.pathBuf[:0]
	curr := t.root
	for {
		n := t.arena.get(curr)
		path = append(path, curr)
		switch c := t.cmp(key, n.key); {
		case c < 0:
			if n.left == 0 {
				idx, ok := t.arena.add(node[K, V, S]{key: key, val: val, size: 1})
				if !ok {
					t.pathBuf = path
					return oldVal, false, ErrCapacityExceeded
				}
				t.arena.get(curr).left = idx
				if t.cmp(key, t.arena.get(t.minIdx).key) < 0 {
					t.minIdx = idx
				}
				t.size++
				if t.size > t.highWater {
					t.highWater = t.size
				}
				t.generation++
				t.bumpSizesOnInsert(path)
				t.pathBuf = path
				t.maybeRebalanceAfterInsert(path)
				return oldVal, false, nil
			}
			curr = n.left
		case c > 0:
			if n.right == 0 {
				idx, ok := t.arena.add(node[K, V, S]{key: key, val: val, size: 1})
				if !ok {
					t.pathBuf = path
					return oldVal, false, ErrCapacityExceeded
				}
				t.arena.get(curr).right = idx
				if t.cmp(key, t.arena.get(t.maxIdx).key) > 0 {
					t.maxIdx = idx
				}
				t.size++
				if t.size > t.highWater {
					t.highWater = t.size
				}
				t.generation++
				t.bumpSizesOnInsert(path)
				t.pathBuf = path
				t.maybeRebalanceAfterInsert(path)
				return oldVal, false, nil
			}
			curr = n.right
		default:
			oldVal = n.val
			n.val = val
			t.generation++
			t.pathBuf = path
			return oldVal, true, nil
		}
	}
}

// Insert is TryInsert's infallible form: it panics on capacity
// exhaustion rather than returning an error, for callers that have
// already sized the tree to their workload.
func (t *Tree[K, V, S]) Insert(key K, val V) (V, bool) {
	old, hadOld, err := t.TryInsert(key, val)
	if err != nil {
		panic("sgtree: " + err.Error())
	}
	return old, hadOld
}

func (t *Tree[K, V, S]) bumpSizesOnInsert(path []S) {
	if !t.maintainsSize() {
		return
	}
	for _, i := range path {
		t.arena.get(i).size++
	}
}

func (t *Tree[K, V, S]) maybeRebalanceAfterInsert(path []S) {
	threshold := logAlphaInv(t.highWater, t.alphaNum, t.alphaDen)
	if len(path) <= threshold {
		return
	}
	var scapegoat S
	if t.altImpl {
		scapegoat, _ = t.findScapegoatAlt(path)
	} else {
		scapegoat, _ = t.findScapegoat(path)
	}
	t.rebuild(scapegoat)
}

// RemoveEntry deletes key if present, returning the removed key/value.
func (t *Tree[K, V, S]) RemoveEntry(key K) (K, V, bool) {
	path := t.pathBuf[:0]
	curr := t.root
	var parentIdx S
	var isRight bool
	found := false
	for curr != 0 {
		n := t.arena.get(curr)
		switch c := t.cmp(key, n.key); {
		case c < 0:
			if n.left == 0 {
				curr = 0
				continue
			}
			path = append(path, curr)
			parentIdx, isRight = curr, false
			curr = n.left
		case c > 0:
			if n.right == 0 {
				curr = 0
				continue
			}
			path = append(path, curr)
			parentIdx, isRight = curr, true
			curr = n.right
		default:
			found = true
			goto done
		}
	}
done:
	t.pathBuf = path
	if !found {
		var zk K
		var zv V
		return zk, zv, false
	}
	if len(path) == 0 {
		parentIdx = 0
	} else {
		parentIdx = path[len(path)-1]
	}
	removed := t.removeAt(curr, parentIdx, isRight, path)
	t.maybeRebuildAfterRemove()
	return removed.key, removed.val, true
}

func (t *Tree[K, V, S]) Remove(key K) (V, bool) {
	_, v, ok := t.RemoveEntry(key)
	return v, ok
}

func (t *Tree[K, V, S]) PopFirst() (K, V, bool) {
	if t.root == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	path := t.pathBuf[:0]
	curr := t.root
	for {
		n := t.arena.get(curr)
		if n.left == 0 {
			break
		}
		path = append(path, curr)
		curr = n.left
	}
	var parentIdx S
	if len(path) > 0 {
		parentIdx = path[len(path)-1]
	}
	removed := t.removeAt(curr, parentIdx, false, path)
	t.pathBuf = path
	t.maybeRebuildAfterRemove()
	return removed.key, removed.val, true
}

func (t *Tree[K, V, S]) PopLast() (K, V, bool) {
	if t.root == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	path := t.pathBuf[:0]
	curr := t.root
	for {
		n := t.arena.get(curr)
		if n.right == 0 {
			break
		}
		path = append(path, curr)
		curr = n.right
	}
	var parentIdx S
	if len(path) > 0 {
		parentIdx = path[len(path)-1]
	}
	removed := t.removeAt(curr, parentIdx, true, path)
	t.pathBuf = path
	t.maybeRebuildAfterRemove()
	return removed.key, removed.val, true
}

// removeAt splices nodeIdx out of the tree. Two-child removal uses the
// in-order successor (leftmost node of the right subtree), matching
// original_source exactly. path holds nodeIdx's ancestors, used only to
// keep eagerly-maintained subtree sizes current between rebuilds; the
// successor that takes nodeIdx's place inherits nodeIdx's size minus one.
func (t *Tree[K, V, S]) removeAt(nodeIdx, parentIdx S, isRight bool, path []S) node[K, V, S] {
	n := t.arena.get(nodeIdx)
	leftIdx, rightIdx := n.left, n.right

	var successorChain []S
	var newChild S
	switch {
	case leftIdx == 0 && rightIdx == 0:
		newChild = 0
	case rightIdx == 0:
		newChild = leftIdx
	case leftIdx == 0:
		newChild = rightIdx
	default:
		minIdx := rightIdx
		minParent := nodeIdx
		for {
			minNode := t.arena.get(minIdx)
			if minNode.left != 0 {
				successorChain = append(successorChain, minIdx)
				minParent = minIdx
				minIdx = minNode.left
				continue
			}
			if minParent == nodeIdx {
				rightIdx = minNode.right
			} else {
				t.arena.get(minParent).left = minNode.right
			}
			break
		}
		minNode := t.arena.get(minIdx)
		minNode.left = leftIdx
		minNode.right = rightIdx
		if t.maintainsSize() {
			minNode.size = n.size - 1
		}
		newChild = minIdx
	}

	if parentIdx == 0 {
		t.root = newChild
	} else if isRight {
		t.arena.get(parentIdx).right = newChild
	} else {
		t.arena.get(parentIdx).left = newChild
	}

	if t.maintainsSize() {
		for _, i := range path {
			if s := t.arena.get(i); s.size > 0 {
				s.size--
			}
		}
		for _, i := range successorChain {
			if s := t.arena.get(i); s.size > 0 {
				s.size--
			}
		}
	}

	removed := t.arena.remove(nodeIdx)
	t.size--
	t.generation++

	if nodeIdx == t.minIdx {
		t.updateMinIdx()
	}
	if nodeIdx == t.maxIdx {
		t.updateMaxIdx()
	}
	return removed
}

func (t *Tree[K, V, S]) updateMinIdx() {
	if t.root == 0 {
		t.minIdx = 0
		return
	}
	curr := t.root
	for {
		n := t.arena.get(curr)
		if n.left == 0 {
			t.minIdx = curr
			return
		}
		curr = n.left
	}
}

func (t *Tree[K, V, S]) updateMaxIdx() {
	if t.root == 0 {
		t.maxIdx = 0
		return
	}
	curr := t.root
	for {
		n := t.arena.get(curr)
		if n.right == 0 {
			t.maxIdx = curr
			return
		}
		curr = n.right
	}
}

// maybeRebuildAfterRemove implements spec.md's general rebuild-on-shrink
// rule (size <= alpha * high_water triggers a full rebuild), computed
// with cross-multiplied integers to avoid float rounding at the
// boundary. original_source hard-codes this check at a fixed 2x
// high-water regardless of the tunable alpha; this generalizes it to
// track whatever alpha is currently configured.
func (t *Tree[K, V, S]) maybeRebuildAfterRemove() {
	if t.size == 0 {
		t.highWater = 0
		return
	}
	if uint64(t.size)*uint64(t.alphaDen) <= uint64(t.alphaNum)*uint64(t.highWater) {
		t.rebuild(t.root)
		t.highWater = t.size
	}
}

// Append moves every entry from other into t, in ascending order, so
// that on a key collision the entry from other wins (it is inserted
// last). It panics on capacity exhaustion; TryAppend returns an error
// instead. The capacity check runs before any entry is moved, so a
// panic leaves both trees unchanged.
func (t *Tree[K, V, S]) Append(other *Tree[K, V, S]) {
	if err := t.TryAppend(other); err != nil {
		panic("sgtree: " + err.Error())
	}
}

// TryAppend streams other's entries straight into t through other's own
// ascending iterator, with no intermediate snapshot: t's arena is the
// only place other's entries get copied to. There is deliberately no
// fast path for an empty t that swaps the two Tree structs wholesale —
// that would also transplant other's alpha, feature flags, and
// generation counter into t, silently discarding t's own configuration
// and confusing any iterator already live on t.
//
// Capacity is checked before either tree is touched: a first pass over
// other counts the keys t does not already hold, and only those need new
// nodes. An append is rejected only when those new keys do not fit, and
// a rejection leaves both t and other completely unmutated.
func (t *Tree[K, V, S]) TryAppend(other *Tree[K, V, S]) error {
	if other.size == 0 {
		return nil
	}
	var newKeys uint64
	it := other.Iter()
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		if !t.ContainsKey(k) {
			newKeys++
		}
	}
	if uint64(t.size)+newKeys > uint64(t.Capacity()) {
		return ErrCapacityExceeded
	}
	it = other.Iter()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if _, _, err := t.TryInsert(k, v); err != nil {
			return err
		}
	}
	other.Clear()
	return nil
}

// Retain keeps only the entries for which pred returns true.
func (t *Tree[K, V, S]) Retain(pred func(K, V) bool) {
	toRemove := t.retainBuf[:0]
	it := t.Iter()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if !pred(k, v) {
			toRemove = append(toRemove, k)
		}
	}
	t.retainBuf = toRemove
	for _, k := range toRemove {
		t.RemoveEntry(k)
	}
}
