package sgtree

import "golang.org/x/exp/constraints"

// Iterator walks a Tree in ascending or descending key order using an
// explicit stack instead of recursion, mirroring the stack-based
// traversal variant in Trees/base.go's InOrder. It is a snapshot
// generation-checked view: any structural mutation of the underlying
// tree after the iterator is created makes the next Next() panic,
// rather than silently returning stale or corrupted data.
//
// The traversal stack is borrowed from the tree's iterStack scratch
// buffer, not heap-allocated, so only one Iterator per Tree may be live
// at a time — a second concurrent Iter()/IterRev() call on the same
// Tree shares, and corrupts, the first's stack.
type Iterator[K any, V any, S constraints.Unsigned] struct {
	t          *Tree[K, V, S]
	stack      []S
	generation uint64
	descending bool
}

func (t *Tree[K, V, S]) Iter() *Iterator[K, V, S] {
	it := &Iterator[K, V, S]{t: t, generation: t.generation, stack: t.iterStack[:0]}
	it.pushLeftSpine(t.root)
	return it
}

func (t *Tree[K, V, S]) IterRev() *Iterator[K, V, S] {
	it := &Iterator[K, V, S]{t: t, generation: t.generation, descending: true, stack: t.iterStack[:0]}
	it.pushRightSpine(t.root)
	return it
}

func (it *Iterator[K, V, S]) pushLeftSpine(idx S) {
	for idx != 0 {
		it.stack = append(it.stack, idx)
		idx = it.t.arena.get(idx).left
	}
	it.t.iterStack = it.stack
}

func (it *Iterator[K, V, S]) pushRightSpine(idx S) {
	for idx != 0 {
		it.stack = append(it.stack, idx)
		idx = it.t.arena.get(idx).right
	}
	it.t.iterStack = it.stack
}

func (it *Iterator[K, V, S]) checkGeneration() {
	if it.generation != it.t.generation {
		panic("sgtree: iterator invalidated by structural mutation of the underlying tree")
	}
}

// Next returns the next key/value pair in the iterator's order.
func (it *Iterator[K, V, S]) Next() (K, V, bool) {
	it.checkGeneration()
	if len(it.stack) == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	idx := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	n := it.t.arena.get(idx)
	if it.descending {
		it.pushRightSpine(n.left)
	} else {
		it.pushLeftSpine(n.right)
	}
	return n.key, n.val, true
}

// NextMut is Next but hands back a pointer to the stored value so
// callers can mutate it in place, for the ValuesMut facade iterator.
// Value mutation through this pointer does not itself invalidate any
// iterator; structural changes and inserts that overwrite an existing
// key's value do.
func (it *Iterator[K, V, S]) NextMut() (K, *V, bool) {
	it.checkGeneration()
	if len(it.stack) == 0 {
		var zk K
		return zk, nil, false
	}
	idx := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	n := it.t.arena.get(idx)
	if it.descending {
		it.pushRightSpine(n.left)
	} else {
		it.pushLeftSpine(n.right)
	}
	return n.key, &n.val, true
}

// Drain removes and yields entries in ascending order as it goes. A
// caller that abandons a Drain part-way through simply leaves the
// remaining entries in the tree (Go has no destructor to hook a
// drop-and-remove-the-rest behavior onto); call it to exhaustion, or
// use Clear, to remove everything.
type Drain[K any, V any, S constraints.Unsigned] struct {
	t *Tree[K, V, S]
}

func (t *Tree[K, V, S]) Drain() *Drain[K, V, S] { return &Drain[K, V, S]{t: t} }

func (d *Drain[K, V, S]) Next() (K, V, bool) { return d.t.PopFirst() }
