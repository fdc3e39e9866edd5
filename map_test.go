package scapegoat

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// TestMapScenario1 reproduces the worked example: insert four entries,
// check ascending-value iteration and indexed access, pop the minimum,
// retain by predicate, then extend and overwrite.
func TestMapScenario1(t *testing.T) {
	m := NewMap[int, string, uint16](16)
	m.Insert(3, "the")
	m.Insert(2, "don't blame")
	m.Insert(1, "Please")
	m.Insert(4, "borrow checker")

	if got := ascendingValues(m); !reflect.DeepEqual(got, []string{"Please", "don't blame", "the", "borrow checker"}) {
		t.Fatalf("ascending values = %v", got)
	}

	if got := m.MustGet(3); got != "the" {
		t.Fatalf("MustGet(3) = %q, want \"the\"", got)
	}

	k, v, ok := m.PopFirst()
	if !ok || k != 1 || v != "Please" {
		t.Fatalf("PopFirst() = %d,%q,%v want 1,\"Please\",true", k, v, ok)
	}

	m.Retain(func(_ int, v string) bool { return !strings.Contains(v, "a") })
	if _, ok := m.Get(2); ok {
		t.Fatal("key 2 (\"don't blame\" contains 'a') should not survive Retain")
	}
	if v, ok := m.Get(3); !ok || v != "the" {
		t.Fatalf("key 3 should survive Retain: %q, %v", v, ok)
	}
	if v, ok := m.Get(4); !ok || v != "borrow checker" {
		t.Fatalf("key 4 should survive Retain: %q, %v", v, ok)
	}

	m.Extend([]struct {
		Key int
		Val string
	}{
		{1337, "safety!"},
		{0, "Leverage"},
		{100, "for"},
	})
	m.Insert(3, "your friend the")

	want := []string{"Leverage", "your friend the", "borrow checker", "for", "safety!"}
	if got := ascendingValues(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("final ascending values = %v, want %v", got, want)
	}
}

func ascendingValues(m *SgMap[int, string, uint16]) []string {
	var out []string
	it := m.Values()
	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// TestMapScenario4CapacityExceeded exercises the fallible-mode contract:
// no partial mutation, offending key/value returned to the caller.
func TestMapScenario4CapacityExceeded(t *testing.T) {
	m := NewMap[int, string, uint16](4)
	for _, k := range []int{1, 2, 3, 4} {
		if _, _, err := m.TryInsert(k, "v"); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}

	_, _, err := m.TryInsert(5, "v5")
	var capErr *CapacityExceededError[int, string]
	if !errors.As(err, &capErr) {
		t.Fatalf("TryInsert over capacity: err = %v, want *CapacityExceededError", err)
	}
	if capErr.Key != 5 || capErr.Val != "v5" {
		t.Fatalf("error payload = %+v, want key=5 val=v5", capErr)
	}
	if m.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (map must be unchanged on failure)", m.Len())
	}
}

// TestMapScenario6Entry exercises the entry API's or_insert/and_modify
// chain without an intervening structural mutation.
func TestMapScenario6Entry(t *testing.T) {
	m := NewMap[string, int, uint16](8)

	p := m.Entry("k").OrInsert(1)
	if *p != 1 {
		t.Fatalf("OrInsert = %d, want 1", *p)
	}

	m.Entry("k").AndModify(func(v *int) { *v = 42 })
	if v, ok := m.Get("k"); !ok || v != 42 {
		t.Fatalf("Get(\"k\") after AndModify = %d,%v want 42,true", v, ok)
	}

	// AndModify on a vacant entry is a documented no-op.
	m.Entry("missing").AndModify(func(v *int) { *v = -1 })
	if _, ok := m.Get("missing"); ok {
		t.Fatal("AndModify must not create an entry")
	}

	q := m.Entry("missing").OrInsertWith(func() int { return 7 })
	if *q != 7 {
		t.Fatalf("OrInsertWith = %d, want 7", *q)
	}
}

func TestMapRemoveHalfWorkload(t *testing.T) {
	m := NewMap[int, int, uint32](100)
	for i := 0; i < 100; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 100; i += 2 {
		if _, ok := m.Remove(i); !ok {
			t.Fatalf("Remove(%d) failed", i)
		}
	}
	var got []int
	it := m.Keys()
	for {
		k, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, k)
	}
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
	for i, k := range got {
		want := 2*i + 1
		if k != want {
			t.Fatalf("got[%d] = %d, want %d", i, k, want)
		}
	}
}

// TestMapTryAppend exercises TryAppend's preemptive capacity check: a
// batch that doesn't fit must leave both maps unmutated and report the
// first pair of the rejected batch.
func TestMapTryAppend(t *testing.T) {
	a := NewMap[int, string, uint16](6)
	a.Insert(1, "a")
	a.Insert(2, "b")

	b := NewMap[int, string, uint16](6)
	b.Insert(3, "c")
	b.Insert(4, "d")

	if err := a.TryAppend(b); err != nil {
		t.Fatalf("TryAppend within capacity: %v", err)
	}
	if a.Len() != 4 || !b.IsEmpty() {
		t.Fatalf("after TryAppend: a.Len()=%d b.IsEmpty()=%v", a.Len(), b.IsEmpty())
	}

	c := NewMap[int, string, uint16](5)
	c.Insert(10, "x")
	c.Insert(11, "y")
	c.Insert(12, "z")
	c.Insert(13, "w")

	d := NewMap[int, string, uint16](5)
	d.Insert(20, "p")
	d.Insert(21, "q")

	err := c.TryAppend(d)
	var capErr *CapacityExceededError[int, string]
	if !errors.As(err, &capErr) {
		t.Fatalf("TryAppend over capacity: err = %v, want *CapacityExceededError", err)
	}
	if capErr.Key != 20 || capErr.Val != "p" {
		t.Fatalf("error payload = %+v, want key=20 val=p", capErr)
	}
	if c.Len() != 4 || d.Len() != 2 {
		t.Fatalf("TryAppend failure must leave both maps unmutated: c.Len()=%d d.Len()=%d", c.Len(), d.Len())
	}
}

func TestMapStringAndEqual(t *testing.T) {
	a := NewMap[int, string, uint16](8)
	a.Insert(1, "x")
	a.Insert(2, "y")
	if s := a.String(); s != "{1: x, 2: y}" {
		t.Fatalf("String() = %q", s)
	}

	b := NewMap[int, string, uint16](8)
	b.Insert(2, "y")
	b.Insert(1, "x")
	if !a.Equal(b, func(x, y string) bool { return x == y }) {
		t.Fatal("maps with the same content in different insert order should be Equal")
	}

	b.Insert(3, "z")
	if a.Equal(b, func(x, y string) bool { return x == y }) {
		t.Fatal("maps with different content should not be Equal")
	}
}
