package sgtree

import "golang.org/x/exp/constraints"

// lowMemArena carries no free-list chain, only a liveness bitmap with one
// bool per slot. That bitmap is extra storage: the default arena threads
// its free chain through the left field of freed slots, so lowMemArena is
// not smaller than it. Allocation is O(n) (linear scan for the first free
// slot); release is O(1). Selected via WithLowMemInsert,
// grounded on spec.md's low-memory variant and original_source's
// original (pre-arena) Vec<Option<Node>> allocator, which also found
// free slots by scanning.
type lowMemArena[K any, V any, S constraints.Unsigned] struct {
	slots []node[K, V, S]
	live  []bool
	next  S // smallest index never yet touched by add
	count S
}

func newLowMemArena[K any, V any, S constraints.Unsigned](capacity S) *lowMemArena[K, V, S] {
	return &lowMemArena[K, V, S]{
		slots: make([]node[K, V, S], capacity+1),
		live:  make([]bool, capacity+1),
		next:  1,
	}
}

func (a *lowMemArena[K, V, S]) capacity() S  { return S(len(a.slots)) - 1 }
func (a *lowMemArena[K, V, S]) len() S       { return a.count }
func (a *lowMemArena[K, V, S]) isFull() bool { return a.count >= a.capacity() }

func (a *lowMemArena[K, V, S]) add(n node[K, V, S]) (S, bool) {
	n.left, n.right = 0, 0
	for i := S(1); i < a.next; i++ {
		if !a.live[i] {
			a.slots[i] = n
			a.live[i] = true
			a.count++
			return i, true
		}
	}
	if a.next >= S(len(a.slots)) {
		return 0, false
	}
	i := a.next
	a.next++
	a.slots[i] = n
	a.live[i] = true
	a.count++
	return i, true
}

func (a *lowMemArena[K, V, S]) remove(i S) node[K, V, S] {
	removed := a.slots[i]
	a.slots[i] = node[K, V, S]{}
	a.live[i] = false
	a.count--
	return removed
}

func (a *lowMemArena[K, V, S]) get(i S) *node[K, V, S] { return &a.slots[i] }

func (a *lowMemArena[K, V, S]) reset() {
	for i := range a.slots {
		a.slots[i] = node[K, V, S]{}
		a.live[i] = false
	}
	a.next, a.count = 1, 0
}
