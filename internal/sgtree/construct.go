package sgtree

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// New builds a Tree over an ordered key type using its natural
// ordering. Most callers want this over NewFunc.
func New[K cmp.Ordered, V any, S constraints.Unsigned](capacity S, opts ...Option[K, V, S]) *Tree[K, V, S] {
	return NewFunc[K, V, S](capacity, cmp.Compare[K], opts...)
}

// NewWithAlpha is New plus an explicit rebalance factor.
func NewWithAlpha[K cmp.Ordered, V any, S constraints.Unsigned](capacity S, num, den uint32, opts ...Option[K, V, S]) (*Tree[K, V, S], error) {
	return NewFuncWithAlpha[K, V, S](capacity, cmp.Compare[K], num, den, opts...)
}
