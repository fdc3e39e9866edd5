// Package scapegoat implements an arena-backed, weight-balanced binary
// search tree (a "scapegoat tree"): a BTreeMap/BTreeSet-shaped ordered
// container that never rotates, instead occasionally flattening and
// rebuilding a whole subtree back into a perfectly balanced shape. All
// storage lives in a fixed-capacity arena chosen at construction time,
// so a tree never grows its backing storage after it is built.
package scapegoat

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/tnballo/scapegoat/internal/sgtree"
	"golang.org/x/exp/constraints"
)

// SgMap is an ordered map with a fixed-capacity, index-arena-backed
// scapegoat tree underneath. K must be an ordered type (or use NewMapFunc
// for a custom comparator); S is the arena's index integer type — pick
// the smallest unsigned type that can hold CAPACITY (uint16 comfortably
// covers the vast majority of uses).
type SgMap[K any, V any, S constraints.Unsigned] struct {
	tree  *sgtree.Tree[K, V, S]
	cmpFn func(a, b K) int
}

// NewMap constructs an empty map with room for exactly capacity entries.
func NewMap[K cmp.Ordered, V any, S constraints.Unsigned](capacity S, opts ...sgtree.Option[K, V, S]) *SgMap[K, V, S] {
	return &SgMap[K, V, S]{tree: sgtree.New[K, V, S](capacity, opts...), cmpFn: cmp.Compare[K]}
}

// NewMapWithAlpha is NewMap plus an explicit rebalance factor.
func NewMapWithAlpha[K cmp.Ordered, V any, S constraints.Unsigned](capacity S, num, den uint32, opts ...sgtree.Option[K, V, S]) (*SgMap[K, V, S], error) {
	tr, err := sgtree.NewWithAlpha[K, V, S](capacity, num, den, opts...)
	if err != nil {
		return nil, err
	}
	return &SgMap[K, V, S]{tree: tr, cmpFn: cmp.Compare[K]}, nil
}

// NewMapFunc constructs an empty map ordered by a caller-supplied
// comparator, for key types with no natural cmp.Ordered ordering.
func NewMapFunc[K any, V any, S constraints.Unsigned](capacity S, cmpFn func(K, K) int, opts ...sgtree.Option[K, V, S]) *SgMap[K, V, S] {
	return &SgMap[K, V, S]{tree: sgtree.NewFunc[K, V, S](capacity, cmpFn, opts...), cmpFn: cmpFn}
}

// NewMapFromSeq builds a map of the given capacity and inserts every
// pair from pairs, in order, overwriting on key collision. It panics on
// capacity exhaustion, the same as Extend; there is no fallible form
// since a caller choosing a sequence longer than capacity has already
// made a programming-contract violation, not a runtime condition to
// recover from.
func NewMapFromSeq[K cmp.Ordered, V any, S constraints.Unsigned](capacity S, pairs []struct {
	Key K
	Val V
}, opts ...sgtree.Option[K, V, S]) *SgMap[K, V, S] {
	m := NewMap[K, V, S](capacity, opts...)
	m.Extend(pairs)
	return m
}

// Feature-selector options, re-exported so callers never need to import
// the internal engine package directly.
func WithLowMemInsert[K any, V any, S constraints.Unsigned]() sgtree.Option[K, V, S] {
	return sgtree.WithLowMemInsert[K, V, S]()
}

func WithFastRebalance[K any, V any, S constraints.Unsigned]() sgtree.Option[K, V, S] {
	return sgtree.WithFastRebalance[K, V, S]()
}

func WithAltImpl[K any, V any, S constraints.Unsigned]() sgtree.Option[K, V, S] {
	return sgtree.WithAltImpl[K, V, S]()
}

func (m *SgMap[K, V, S]) SetRebalanceFactor(num, den uint32) error {
	return m.tree.SetRebalanceFactor(num, den)
}

func (m *SgMap[K, V, S]) Len() int               { return int(m.tree.Len()) }
func (m *SgMap[K, V, S]) Capacity() int          { return int(m.tree.Capacity()) }
func (m *SgMap[K, V, S]) IsEmpty() bool          { return m.tree.IsEmpty() }
func (m *SgMap[K, V, S]) Clear()                 { m.tree.Clear() }
func (m *SgMap[K, V, S]) RebalanceCount() uint64 { return m.tree.RebalanceCount() }

// Insert upserts key/val and returns the previous value, if any. It
// panics if the map is full and key is new; use TryInsert to handle
// that case without a panic.
func (m *SgMap[K, V, S]) Insert(key K, val V) (V, bool) {
	return m.tree.Insert(key, val)
}

// TryInsert is Insert's fallible form.
func (m *SgMap[K, V, S]) TryInsert(key K, val V) (V, bool, error) {
	old, hadOld, err := m.tree.TryInsert(key, val)
	if err != nil {
		return old, hadOld, &CapacityExceededError[K, V]{Key: key, Val: val}
	}
	return old, hadOld, nil
}

func (m *SgMap[K, V, S]) Remove(key K) (V, bool)          { return m.tree.Remove(key) }
func (m *SgMap[K, V, S]) RemoveEntry(key K) (K, V, bool)  { return m.tree.RemoveEntry(key) }
func (m *SgMap[K, V, S]) Get(key K) (V, bool)             { return m.tree.Get(key) }
func (m *SgMap[K, V, S]) GetMut(key K) (*V, bool)         { return m.tree.GetMutPtr(key) }
func (m *SgMap[K, V, S]) GetKeyValue(key K) (K, V, bool)  { return m.tree.GetKeyValue(key) }
func (m *SgMap[K, V, S]) ContainsKey(key K) bool          { return m.tree.ContainsKey(key) }
func (m *SgMap[K, V, S]) PopFirst() (K, V, bool)          { return m.tree.PopFirst() }
func (m *SgMap[K, V, S]) PopLast() (K, V, bool)           { return m.tree.PopLast() }
func (m *SgMap[K, V, S]) FirstKeyValue() (K, V, bool)     { return m.tree.FirstKeyValue() }
func (m *SgMap[K, V, S]) LastKeyValue() (K, V, bool)      { return m.tree.LastKeyValue() }

func (m *SgMap[K, V, S]) FirstKey() (K, bool) {
	k, _, ok := m.tree.FirstKeyValue()
	return k, ok
}

func (m *SgMap[K, V, S]) LastKey() (K, bool) {
	k, _, ok := m.tree.LastKeyValue()
	return k, ok
}

// MustGet is the map-index-operator equivalent: it panics if key is
// absent, for callers who have already established (e.g. via
// ContainsKey) that the key is present.
func (m *SgMap[K, V, S]) MustGet(key K) V {
	v, ok := m.tree.Get(key)
	if !ok {
		panic(fmt.Sprintf("scapegoat: key %v not present in map", key))
	}
	return v
}

// Append moves every entry of other into m; on a key collision the
// entry from other wins. Panics on capacity exhaustion; TryAppend
// returns an error instead.
func (m *SgMap[K, V, S]) Append(other *SgMap[K, V, S]) { m.tree.Append(other.tree) }

// TryAppend is Append's fallible form. Since the underlying capacity
// check runs before any entry is moved, a failure leaves both m and
// other unmutated; the returned error carries other's first pair as the
// entry representative of the batch that didn't fit.
func (m *SgMap[K, V, S]) TryAppend(other *SgMap[K, V, S]) error {
	if err := m.tree.TryAppend(other.tree); err != nil {
		k, v, _ := other.tree.FirstKeyValue()
		return &CapacityExceededError[K, V]{Key: k, Val: v}
	}
	return nil
}

// Extend inserts every pair from pairs, in order, overwriting on
// collision. It panics on capacity exhaustion; TryExtend is the fallible
// form.
func (m *SgMap[K, V, S]) Extend(pairs []struct {
	Key K
	Val V
}) {
	for _, p := range pairs {
		m.tree.Insert(p.Key, p.Val)
	}
}

// TryExtend is Extend's fallible form: it stops at, and returns, the
// first pair that would exceed capacity, leaving every pair before it
// already inserted (matching TryInsert's per-call contract; there is no
// batch-wide rollback).
func (m *SgMap[K, V, S]) TryExtend(pairs []struct {
	Key K
	Val V
}) error {
	for _, p := range pairs {
		if _, _, err := m.TryInsert(p.Key, p.Val); err != nil {
			return err
		}
	}
	return nil
}

func (m *SgMap[K, V, S]) Retain(pred func(K, V) bool) { m.tree.Retain(pred) }

func (m *SgMap[K, V, S]) Iter() *sgtree.Iterator[K, V, S]    { return m.tree.Iter() }
func (m *SgMap[K, V, S]) IterRev() *sgtree.Iterator[K, V, S] { return m.tree.IterRev() }
func (m *SgMap[K, V, S]) Drain() *sgtree.Drain[K, V, S]      { return m.tree.Drain() }

// IntoIter is Go's answer to a consuming iterator: since Go has no
// move semantics to enforce "m can't be used after this", it behaves
// exactly like Drain (it removes entries as it yields them).
func (m *SgMap[K, V, S]) IntoIter() *sgtree.Drain[K, V, S] { return m.tree.Drain() }

func (m *SgMap[K, V, S]) Keys() *KeysIter[K, V, S]     { return &KeysIter[K, V, S]{m.tree.Iter()} }
func (m *SgMap[K, V, S]) Values() *ValuesIter[K, V, S] { return &ValuesIter[K, V, S]{m.tree.Iter()} }
func (m *SgMap[K, V, S]) ValuesMut() *ValuesMutIter[K, V, S] {
	return &ValuesMutIter[K, V, S]{m.tree.Iter()}
}

func (m *SgMap[K, V, S]) IntoKeys() []K {
	out := make([]K, 0, m.Len())
	d := m.tree.Drain()
	for {
		k, _, ok := d.Next()
		if !ok {
			break
		}
		out = append(out, k)
	}
	return out
}

func (m *SgMap[K, V, S]) IntoValues() []V {
	out := make([]V, 0, m.Len())
	d := m.tree.Drain()
	for {
		_, v, ok := d.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Entry returns a handle for the entry-API pattern (spec.md §4.2, §8
// scenario 6): a single lookup, then either OrInsert/OrInsertWith or
// AndModify against the same located slot.
func (m *SgMap[K, V, S]) Entry(key K) *Entry[K, V, S] {
	idx, found, attach := m.tree.LookupForEntry(key)
	return &Entry[K, V, S]{m: m, key: key, idx: idx, found: found, attach: attach}
}

// Entry is the tagged occupied/vacant handle produced by SgMap.Entry.
type Entry[K any, V any, S constraints.Unsigned] struct {
	m      *SgMap[K, V, S]
	key    K
	idx    S
	found  bool
	attach sgtree.EntryAttach[S]
}

// OrInsert inserts v if the entry is vacant, then returns a pointer to
// the stored value either way. Panics on capacity exhaustion.
func (e *Entry[K, V, S]) OrInsert(v V) *V {
	if e.found {
		return e.m.tree.ValuePtrAt(e.idx)
	}
	idx, err := e.m.tree.InsertAtEntry(e.key, v, e.attach)
	if err != nil {
		panic("scapegoat: " + err.Error())
	}
	e.idx, e.found = idx, true
	return e.m.tree.ValuePtrAt(e.idx)
}

// OrInsertWith is OrInsert but only calls f when the entry is vacant.
func (e *Entry[K, V, S]) OrInsertWith(f func() V) *V {
	if e.found {
		return e.m.tree.ValuePtrAt(e.idx)
	}
	return e.OrInsert(f())
}

// AndModify runs f against the stored value if the entry is occupied,
// and is a no-op on a vacant entry.
func (e *Entry[K, V, S]) AndModify(f func(*V)) *Entry[K, V, S] {
	if e.found {
		f(e.m.tree.ValuePtrAt(e.idx))
	}
	return e
}

// String renders the map's entries in ascending key order, matching
// spec.md §6's "debug formatting that displays entries in key order".
func (m *SgMap[K, V, S]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	it := m.tree.Iter()
	first := true
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", k, v)
	}
	b.WriteByte('}')
	return b.String()
}

// Equal reports whether m and other contain the same ordered sequence
// of (key, value) pairs, using eq to compare values (V need not be
// comparable).
func (m *SgMap[K, V, S]) Equal(other *SgMap[K, V, S], eq func(a, b V) bool) bool {
	if m.Len() != other.Len() {
		return false
	}
	it1, it2 := m.tree.Iter(), other.tree.Iter()
	for {
		k1, v1, ok1 := it1.Next()
		k2, v2, ok2 := it2.Next()
		if ok1 != ok2 {
			return false
		}
		if !ok1 {
			return true
		}
		if m.cmpFn(k1, k2) != 0 || !eq(v1, v2) {
			return false
		}
	}
}

// Hash returns an order-sensitive FNV-1a hash of the map's contents,
// via each entry's fmt.Sprint form in ascending key order. It respects
// spec.md §6's "hashing that respects key-ordered content" without
// requiring V to be comparable or hashable itself.
func (m *SgMap[K, V, S]) Hash() uint64 {
	h := fnv.New64a()
	it := m.tree.Iter()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		fmt.Fprintf(h, "%v=%v;", k, v)
	}
	return h.Sum64()
}

type KeysIter[K any, V any, S constraints.Unsigned] struct{ it *sgtree.Iterator[K, V, S] }

func (k *KeysIter[K, V, S]) Next() (K, bool) {
	key, _, ok := k.it.Next()
	return key, ok
}

type ValuesIter[K any, V any, S constraints.Unsigned] struct{ it *sgtree.Iterator[K, V, S] }

func (v *ValuesIter[K, V, S]) Next() (V, bool) {
	_, val, ok := v.it.Next()
	return val, ok
}

type ValuesMutIter[K any, V any, S constraints.Unsigned] struct{ it *sgtree.Iterator[K, V, S] }

func (v *ValuesMutIter[K, V, S]) Next() (*V, bool) {
	_, ptr, ok := v.it.NextMut()
	return ptr, ok
}
