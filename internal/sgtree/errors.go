package sgtree

import "errors"

// ErrCapacityExceeded is returned by the fallible Try* operations when
// the arena has no free slot left for a new node. The facade layer
// (map.go/set.go) wraps this sentinel into the public, payload-carrying
// CapacityExceededError[K,V] so callers get their offending key/value
// back — the engine itself doesn't know the facade's error shape, only
// that it ran out of room.
var ErrCapacityExceeded = errors.New("sgtree: capacity exceeded")
