package scapegoat

import (
	"fmt"

	"github.com/tnballo/scapegoat/internal/sgtree"
)

// CapacityExceededError is returned by the Try* operations when a map or
// set is already at capacity and the operation would have added a new
// key. It carries the offending key/value back to the caller so nothing
// is lost on failure — a stricter contract than original_source's
// SGErr (a bare enum with no payload), chosen because a caller catching
// this error has no other way to recover the entry it tried to insert.
type CapacityExceededError[K any, V any] struct {
	Key K
	Val V
}

func (e *CapacityExceededError[K, V]) Error() string {
	return fmt.Sprintf("scapegoat: capacity exceeded, could not insert key %v", e.Key)
}

// InvalidAlphaError reports a rebalance factor outside [0.5, 1.0).
type InvalidAlphaError = sgtree.InvalidAlphaError
