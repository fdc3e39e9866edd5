package scapegoat

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/tnballo/scapegoat/internal/sgtree"
	"golang.org/x/exp/constraints"
)

// sgtreeUnsigned is a local, shorter spelling of constraints.Unsigned
// used throughout the set-algebra iterator types.
type sgtreeUnsigned = constraints.Unsigned

// SgSet is an ordered set built on the same arena-backed scapegoat tree
// as SgMap, with values fixed to struct{} (spec.md §4.4: "values fixed
// to the unit value"). All set-algebra operations below are lazy,
// allocation-free iterator combinators over the two sets' ascending
// sequences, grounded in Sets/Sets.go's ExtendedSet method names
// (Union, Intersect, Filter) generalized to return-new-value semantics.
type SgSet[T any, S constraints.Unsigned] struct {
	tree  *sgtree.Tree[T, struct{}, S]
	cmpFn func(a, b T) int
}

func NewSet[T cmp.Ordered, S constraints.Unsigned](capacity S, opts ...sgtree.Option[T, struct{}, S]) *SgSet[T, S] {
	return &SgSet[T, S]{tree: sgtree.New[T, struct{}, S](capacity, opts...), cmpFn: cmp.Compare[T]}
}

func NewSetWithAlpha[T cmp.Ordered, S constraints.Unsigned](capacity S, num, den uint32, opts ...sgtree.Option[T, struct{}, S]) (*SgSet[T, S], error) {
	tr, err := sgtree.NewWithAlpha[T, struct{}, S](capacity, num, den, opts...)
	if err != nil {
		return nil, err
	}
	return &SgSet[T, S]{tree: tr, cmpFn: cmp.Compare[T]}, nil
}

func NewSetFunc[T any, S constraints.Unsigned](capacity S, cmpFn func(T, T) int, opts ...sgtree.Option[T, struct{}, S]) *SgSet[T, S] {
	return &SgSet[T, S]{tree: sgtree.NewFunc[T, struct{}, S](capacity, cmpFn, opts...), cmpFn: cmpFn}
}

// NewSetFromSeq builds a set of the given capacity and inserts every
// value from vals, in order. It panics on capacity exhaustion, the same
// as Extend; there is no fallible form for the same reason NewMapFromSeq
// has none.
func NewSetFromSeq[T cmp.Ordered, S constraints.Unsigned](capacity S, vals []T, opts ...sgtree.Option[T, struct{}, S]) *SgSet[T, S] {
	s := NewSet[T, S](capacity, opts...)
	s.Extend(vals)
	return s
}

func (s *SgSet[T, S]) SetRebalanceFactor(num, den uint32) error {
	return s.tree.SetRebalanceFactor(num, den)
}

func (s *SgSet[T, S]) Len() int               { return int(s.tree.Len()) }
func (s *SgSet[T, S]) Capacity() int          { return int(s.tree.Capacity()) }
func (s *SgSet[T, S]) IsEmpty() bool          { return s.tree.IsEmpty() }
func (s *SgSet[T, S]) Clear()                 { s.tree.Clear() }
func (s *SgSet[T, S]) RebalanceCount() uint64 { return s.tree.RebalanceCount() }

// Insert reports whether v was newly added (false if it was already a
// member). Panics on capacity exhaustion for a new element; TryInsert
// is the fallible form.
func (s *SgSet[T, S]) Insert(v T) bool {
	_, hadOld := s.tree.Insert(v, struct{}{})
	return !hadOld
}

func (s *SgSet[T, S]) TryInsert(v T) (bool, error) {
	_, hadOld, err := s.tree.TryInsert(v, struct{}{})
	if err != nil {
		return false, &CapacityExceededError[T, struct{}]{Key: v}
	}
	return !hadOld, nil
}

func (s *SgSet[T, S]) Remove(v T) bool {
	_, ok := s.tree.Remove(v)
	return ok
}

func (s *SgSet[T, S]) Contains(v T) bool { return s.tree.ContainsKey(v) }

func (s *SgSet[T, S]) PopFirst() (T, bool) {
	v, _, ok := s.tree.PopFirst()
	return v, ok
}

func (s *SgSet[T, S]) PopLast() (T, bool) {
	v, _, ok := s.tree.PopLast()
	return v, ok
}

func (s *SgSet[T, S]) FirstKey() (T, bool) {
	v, _, ok := s.tree.FirstKeyValue()
	return v, ok
}

func (s *SgSet[T, S]) LastKey() (T, bool) {
	v, _, ok := s.tree.LastKeyValue()
	return v, ok
}

func (s *SgSet[T, S]) Append(other *SgSet[T, S]) { s.tree.Append(other.tree) }

// TryAppend is Append's fallible form. Since the underlying capacity
// check runs before any entry is moved, a failure leaves both s and
// other unmutated; the returned error carries other's first value as
// the entry representative of the batch that didn't fit.
func (s *SgSet[T, S]) TryAppend(other *SgSet[T, S]) error {
	if err := s.tree.TryAppend(other.tree); err != nil {
		v, _, _ := other.tree.FirstKeyValue()
		return &CapacityExceededError[T, struct{}]{Key: v}
	}
	return nil
}

// Extend inserts every value from vals, in order. It panics on capacity
// exhaustion; TryExtend is the fallible form.
func (s *SgSet[T, S]) Extend(vals []T) {
	for _, v := range vals {
		s.tree.Insert(v, struct{}{})
	}
}

// TryExtend is Extend's fallible form: it stops at, and returns, the
// first value that would exceed capacity, leaving every value before it
// already inserted.
func (s *SgSet[T, S]) TryExtend(vals []T) error {
	for _, v := range vals {
		if _, err := s.TryInsert(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *SgSet[T, S]) Retain(pred func(T) bool) {
	s.tree.Retain(func(k T, _ struct{}) bool { return pred(k) })
}

func (s *SgSet[T, S]) Iter() *SetIter[T, S]    { return &SetIter[T, S]{s.tree.Iter()} }
func (s *SgSet[T, S]) IterRev() *SetIter[T, S] { return &SetIter[T, S]{s.tree.IterRev()} }
func (s *SgSet[T, S]) Drain() *SetDrain[T, S]  { return &SetDrain[T, S]{s.tree.Drain()} }
func (s *SgSet[T, S]) IntoIter() *SetDrain[T, S] { return &SetDrain[T, S]{s.tree.Drain()} }

// Union, Intersect, Difference and SymmetricDifference all return a
// lazy iterator merging the two sets' ascending sequences in a single
// pass; none allocates a result set.
func (s *SgSet[T, S]) Union(other *SgSet[T, S]) *UnionIter[T, S] {
	return &UnionIter[T, S]{cmp: s.cmpFn, a: newPeek(s.tree.Iter()), b: newPeek(other.tree.Iter())}
}

func (s *SgSet[T, S]) Intersect(other *SgSet[T, S]) *IntersectIter[T, S] {
	return &IntersectIter[T, S]{cmp: s.cmpFn, a: newPeek(s.tree.Iter()), b: newPeek(other.tree.Iter())}
}

func (s *SgSet[T, S]) Difference(other *SgSet[T, S]) *DifferenceIter[T, S] {
	return &DifferenceIter[T, S]{cmp: s.cmpFn, a: newPeek(s.tree.Iter()), b: newPeek(other.tree.Iter())}
}

func (s *SgSet[T, S]) SymmetricDifference(other *SgSet[T, S]) *SymmetricDifferenceIter[T, S] {
	return &SymmetricDifferenceIter[T, S]{cmp: s.cmpFn, a: newPeek(s.tree.Iter()), b: newPeek(other.tree.Iter())}
}

func (s *SgSet[T, S]) IsSubsetOf(other *SgSet[T, S]) bool {
	a, b := newPeek(s.tree.Iter()), newPeek(other.tree.Iter())
	for a.has {
		if !b.has {
			return false
		}
		switch c := s.cmpFn(a.val, b.val); {
		case c < 0:
			return false
		case c > 0:
			b.advance()
		default:
			a.advance()
			b.advance()
		}
	}
	return true
}

func (s *SgSet[T, S]) IsSupersetOf(other *SgSet[T, S]) bool { return other.IsSubsetOf(s) }

func (s *SgSet[T, S]) IsDisjointFrom(other *SgSet[T, S]) bool {
	a, b := newPeek(s.tree.Iter()), newPeek(other.tree.Iter())
	for a.has && b.has {
		switch c := s.cmpFn(a.val, b.val); {
		case c < 0:
			a.advance()
		case c > 0:
			b.advance()
		default:
			return false
		}
	}
	return true
}

func (s *SgSet[T, S]) Equal(other *SgSet[T, S]) bool {
	if s.Len() != other.Len() {
		return false
	}
	return s.IsSubsetOf(other)
}

func (s *SgSet[T, S]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	it := s.tree.Iter()
	first := true
	for {
		v, _, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v", v)
	}
	b.WriteByte('}')
	return b.String()
}
