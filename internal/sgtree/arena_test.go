package sgtree

import "testing"

// Grounded on original_source/src/tree/arena.rs's own unit test suite
// (test_add_and_remove, test_get_mut, test_capacity).

func TestArenaAddAndRemove(t *testing.T) {
	a := newArena[int, string, uint16](4)
	i1, ok := a.add(node[int, string, uint16]{key: 1, val: "a"})
	if !ok || i1 == 0 {
		t.Fatalf("add 1: got idx=%d ok=%v", i1, ok)
	}
	i2, ok := a.add(node[int, string, uint16]{key: 2, val: "b"})
	if !ok || i2 == i1 {
		t.Fatalf("add 2: got idx=%d ok=%v", i2, ok)
	}
	if a.len() != 2 {
		t.Fatalf("len = %d, want 2", a.len())
	}

	removed := a.remove(i1)
	if removed.key != 1 || removed.val != "a" {
		t.Fatalf("remove(i1) = %+v", removed)
	}
	if a.len() != 1 {
		t.Fatalf("len after remove = %d, want 1", a.len())
	}

	i3, ok := a.add(node[int, string, uint16]{key: 3, val: "c"})
	if !ok {
		t.Fatal("add 3 after free should succeed")
	}
	if i3 != i1 {
		t.Fatalf("expected freed slot %d to be reused, got %d", i1, i3)
	}
}

func TestArenaGetMut(t *testing.T) {
	a := newArena[int, string, uint16](2)
	i, _ := a.add(node[int, string, uint16]{key: 1, val: "a"})
	a.get(i).val = "z"
	if a.get(i).val != "z" {
		t.Fatalf("get(i).val = %q, want %q", a.get(i).val, "z")
	}
}

func TestArenaCapacity(t *testing.T) {
	a := newArena[int, int, uint16](2)
	if a.capacity() != 2 {
		t.Fatalf("capacity = %d, want 2", a.capacity())
	}
	if _, ok := a.add(node[int, int, uint16]{key: 1}); !ok {
		t.Fatal("add 1 should succeed")
	}
	if _, ok := a.add(node[int, int, uint16]{key: 2}); !ok {
		t.Fatal("add 2 should succeed")
	}
	if !a.isFull() {
		t.Fatal("arena should report full at capacity")
	}
	if _, ok := a.add(node[int, int, uint16]{key: 3}); ok {
		t.Fatal("add beyond capacity should fail")
	}
}

func TestArenaReset(t *testing.T) {
	a := newArena[int, int, uint16](3)
	a.add(node[int, int, uint16]{key: 1})
	a.add(node[int, int, uint16]{key: 2})
	a.reset()
	if a.len() != 0 {
		t.Fatalf("len after reset = %d, want 0", a.len())
	}
	if a.isFull() {
		t.Fatal("arena should not be full after reset")
	}
	if _, ok := a.add(node[int, int, uint16]{key: 9}); !ok {
		t.Fatal("add after reset should succeed")
	}
}

func TestLowMemArenaAddRemoveReuse(t *testing.T) {
	a := newLowMemArena[int, string, uint16](3)
	i1, _ := a.add(node[int, string, uint16]{key: 1, val: "a"})
	i2, _ := a.add(node[int, string, uint16]{key: 2, val: "b"})
	a.remove(i1)
	i3, ok := a.add(node[int, string, uint16]{key: 3, val: "c"})
	if !ok || i3 != i1 {
		t.Fatalf("expected lowest free slot %d reused, got %d ok=%v", i1, i3, ok)
	}
	if a.get(i2).val != "b" {
		t.Fatalf("unrelated slot corrupted: %q", a.get(i2).val)
	}
	if _, ok := a.add(node[int, string, uint16]{key: 4, val: "d"}); !ok {
		t.Fatal("add of third live node should succeed")
	}
	if !a.isFull() {
		t.Fatal("expected arena full at capacity 3 with 3 live nodes")
	}
}
