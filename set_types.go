package scapegoat

import "github.com/tnballo/scapegoat/internal/sgtree"

// SetIter walks a set in ascending or descending order (whichever the
// underlying tree iterator was primed for), yielding just the element.
type SetIter[T any, S sgtreeUnsigned] struct{ it *sgtree.Iterator[T, struct{}, S] }

func (s *SetIter[T, S]) Next() (T, bool) {
	v, _, ok := s.it.Next()
	return v, ok
}

// SetDrain removes and yields elements in ascending order as it goes.
type SetDrain[T any, S sgtreeUnsigned] struct{ d *sgtree.Drain[T, struct{}, S] }

func (s *SetDrain[T, S]) Next() (T, bool) {
	v, _, ok := s.d.Next()
	return v, ok
}

// peekIter is a one-element-lookahead wrapper over the engine iterator,
// the building block every set-algebra combinator below merges on.
type peekIter[T any, S sgtreeUnsigned] struct {
	it  *sgtree.Iterator[T, struct{}, S]
	val T
	has bool
}

func newPeek[T any, S sgtreeUnsigned](it *sgtree.Iterator[T, struct{}, S]) *peekIter[T, S] {
	p := &peekIter[T, S]{it: it}
	p.advance()
	return p
}

func (p *peekIter[T, S]) advance() {
	v, _, ok := p.it.Next()
	p.val, p.has = v, ok
}

// UnionIter yields the sorted union of two ascending sequences, one
// pass, no allocation, deduplicating equal elements.
type UnionIter[T any, S sgtreeUnsigned] struct {
	cmp  func(a, b T) int
	a, b *peekIter[T, S]
}

func (u *UnionIter[T, S]) Next() (T, bool) {
	switch {
	case !u.a.has && !u.b.has:
		var zero T
		return zero, false
	case !u.a.has:
		v := u.b.val
		u.b.advance()
		return v, true
	case !u.b.has:
		v := u.a.val
		u.a.advance()
		return v, true
	default:
		switch c := u.cmp(u.a.val, u.b.val); {
		case c < 0:
			v := u.a.val
			u.a.advance()
			return v, true
		case c > 0:
			v := u.b.val
			u.b.advance()
			return v, true
		default:
			v := u.a.val
			u.a.advance()
			u.b.advance()
			return v, true
		}
	}
}

// IntersectIter yields elements present in both sequences.
type IntersectIter[T any, S sgtreeUnsigned] struct {
	cmp  func(a, b T) int
	a, b *peekIter[T, S]
}

func (x *IntersectIter[T, S]) Next() (T, bool) {
	for x.a.has && x.b.has {
		switch c := x.cmp(x.a.val, x.b.val); {
		case c < 0:
			x.a.advance()
		case c > 0:
			x.b.advance()
		default:
			v := x.a.val
			x.a.advance()
			x.b.advance()
			return v, true
		}
	}
	var zero T
	return zero, false
}

// DifferenceIter yields elements of a not present in b.
type DifferenceIter[T any, S sgtreeUnsigned] struct {
	cmp  func(a, b T) int
	a, b *peekIter[T, S]
}

func (d *DifferenceIter[T, S]) Next() (T, bool) {
	for {
		if !d.a.has {
			var zero T
			return zero, false
		}
		if !d.b.has {
			v := d.a.val
			d.a.advance()
			return v, true
		}
		switch c := d.cmp(d.a.val, d.b.val); {
		case c < 0:
			v := d.a.val
			d.a.advance()
			return v, true
		case c > 0:
			d.b.advance()
		default:
			d.a.advance()
			d.b.advance()
		}
	}
}

// SymmetricDifferenceIter yields elements present in exactly one of the
// two sequences.
type SymmetricDifferenceIter[T any, S sgtreeUnsigned] struct {
	cmp  func(a, b T) int
	a, b *peekIter[T, S]
}

func (s *SymmetricDifferenceIter[T, S]) Next() (T, bool) {
	for {
		switch {
		case !s.a.has && !s.b.has:
			var zero T
			return zero, false
		case !s.a.has:
			v := s.b.val
			s.b.advance()
			return v, true
		case !s.b.has:
			v := s.a.val
			s.a.advance()
			return v, true
		default:
			switch c := s.cmp(s.a.val, s.b.val); {
			case c < 0:
				v := s.a.val
				s.a.advance()
				return v, true
			case c > 0:
				v := s.b.val
				s.b.advance()
				return v, true
			default:
				s.a.advance()
				s.b.advance()
			}
		}
	}
}
