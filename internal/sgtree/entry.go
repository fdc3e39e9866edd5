package sgtree

import "golang.org/x/exp/constraints"

// EntryAttach records where a not-found key would attach, so the
// facade's Entry API can insert without a second full descent. There is
// no equivalent in original_source (its entry.rs declares Occupied/
// VacantEntry but map.rs never implements an entry() method); this is
// designed fresh, in the arena-index idiom, remembering exactly what a
// second lookup would have to rediscover: the attach parent, which side
// it attaches on, and the ancestor path for the post-insert scapegoat
// check.
type EntryAttach[S constraints.Unsigned] struct {
	path    []S
	parent  S
	isRight bool
}

// LookupForEntry descends to key once. If found, nodeIdx is valid and
// attach is unused. If not found, attach describes the attach point for
// a later InsertAtEntry call with the same key.
//
// A miss copies the descent path into entryPathBuf, a fixed buffer sized
// to capacity at construction, rather than a fresh heap slice — this
// mirrors pathBuf/workBuf/flattenBuf's no-allocation-after-construction
// discipline. Only one Entry handle may have a pending InsertAtEntry at
// a time, since a second LookupForEntry overwrites entryPathBuf; this
// matches the Rust entry API too, whose lifetime rules make a second
// live entry on the same map impossible in the first place.
func (t *Tree[K, V, S]) LookupForEntry(key K) (nodeIdx S, found bool, attach EntryAttach[S]) {
	if t.root == 0 {
		return 0, false, EntryAttach[S]{}
	}
	path := t.pathBuf[:0]
	curr := t.root
	for {
		n := t.arena.get(curr)
		path = append(path, curr)
		switch c := t.cmp(key, n.key); {
		case c < 0:
			if n.left == 0 {
				out := t.entryPathBuf[:copy(t.entryPathBuf, path)]
				t.pathBuf = path
				return 0, false, EntryAttach[S]{path: out, parent: curr, isRight: false}
			}
			curr = n.left
		case c > 0:
			if n.right == 0 {
				out := t.entryPathBuf[:copy(t.entryPathBuf, path)]
				t.pathBuf = path
				return 0, false, EntryAttach[S]{path: out, parent: curr, isRight: true}
			}
			curr = n.right
		default:
			t.pathBuf = path
			return curr, true, EntryAttach[S]{}
		}
	}
}

// InsertAtEntry inserts key/val at the attach point produced by an
// immediately preceding LookupForEntry miss for the same key.
func (t *Tree[K, V, S]) InsertAtEntry(key K, val V, attach EntryAttach[S]) (S, error) {
	idx, ok := t.arena.add(node[K, V, S]{key: key, val: val, size: 1})
	if !ok {
		return 0, ErrCapacityExceeded
	}
	if t.root == 0 {
		t.root, t.minIdx, t.maxIdx = idx, idx, idx
	} else if attach.isRight {
		t.arena.get(attach.parent).right = idx
		if t.cmp(key, t.arena.get(t.maxIdx).key) > 0 {
			t.maxIdx = idx
		}
	} else {
		t.arena.get(attach.parent).left = idx
		if t.cmp(key, t.arena.get(t.minIdx).key) < 0 {
			t.minIdx = idx
		}
	}
	t.size++
	if t.size > t.highWater {
		t.highWater = t.size
	}
	t.generation++
	t.bumpSizesOnInsert(attach.path)
	t.maybeRebalanceAfterInsert(attach.path)
	return idx, nil
}

func (t *Tree[K, V, S]) KeyAt(idx S) K       { return t.arena.get(idx).key }
func (t *Tree[K, V, S]) ValueAt(idx S) V     { return t.arena.get(idx).val }
func (t *Tree[K, V, S]) ValuePtrAt(idx S) *V { return &t.arena.get(idx).val }
func (t *Tree[K, V, S]) SetValueAt(idx S, val V) {
	t.arena.get(idx).val = val
}
