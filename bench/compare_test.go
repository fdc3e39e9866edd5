// Package bench compares SgMap's throughput and observable behavior
// against the reference ordered containers that motivated the pack's
// dependency choices: google/btree, GoLLRB, and gods's red-black tree.
// Grounded on Maps/comparisons/cmp1_test.go's setup-function-per-impl,
// Benchmark1Read*/Benchmark1Write* naming, and b.ResetTimer() placement,
// combined with seipan-bplus/cmd/btree/root.go's create-then-measure
// shape for the differential-behavior test below.
package bench

import (
	"math/rand"
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/google/btree"
	"github.com/petar/GoLLRB/llrb"

	"github.com/tnballo/scapegoat"
)

const n1Elems = 1 << 14

func setupSgMap(n int) *scapegoat.SgMap[int, int, uint32] {
	m := scapegoat.NewMap[int, int, uint32](uint32(n))
	for i := 0; i < n; i++ {
		m.Insert(i, i)
	}
	return m
}

func setupBTree(n int) *btree.BTreeG[int] {
	tr := btree.NewOrderedG[int](32)
	for i := 0; i < n; i++ {
		tr.ReplaceOrInsert(i)
	}
	return tr
}

func setupLLRB(n int) *llrb.LLRB {
	tr := llrb.New()
	for i := 0; i < n; i++ {
		tr.ReplaceOrInsert(llrb.Int(i))
	}
	return tr
}

func setupRedBlack(n int) *redblacktree.Tree {
	tr := redblacktree.NewWith(utils.IntComparator)
	for i := 0; i < n; i++ {
		tr.Put(i, i)
	}
	return tr
}

func Benchmark1ReadSgMapInt(b *testing.B) {
	m := setupSgMap(n1Elems)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(i % n1Elems)
	}
}

func Benchmark1ReadBTreeInt(b *testing.B) {
	tr := setupBTree(n1Elems)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Get(i % n1Elems)
	}
}

func Benchmark1ReadLLRBInt(b *testing.B) {
	tr := setupLLRB(n1Elems)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Get(llrb.Int(i % n1Elems))
	}
}

func Benchmark1ReadRedBlackInt(b *testing.B) {
	tr := setupRedBlack(n1Elems)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Get(i % n1Elems)
	}
}

func Benchmark1WriteSgMapInt(b *testing.B) {
	m := scapegoat.NewMap[int, int, uint32](uint32(b.N + 1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Insert(i, i)
	}
}

func Benchmark1WriteBTreeInt(b *testing.B) {
	tr := btree.NewOrderedG[int](32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.ReplaceOrInsert(i)
	}
}

func Benchmark1WriteLLRBInt(b *testing.B) {
	tr := llrb.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.ReplaceOrInsert(llrb.Int(i))
	}
}

func Benchmark1WriteRedBlackInt(b *testing.B) {
	tr := redblacktree.NewWith(utils.IntComparator)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Put(i, i)
	}
}

// TestDifferentialAgainstRedBlack drives SgMap and gods's red-black tree
// through the same randomized workload of insert/remove/get and checks
// their ascending key sequences agree at every checkpoint. This is the
// differential property: two structurally unrelated balanced trees must
// agree on every observable query if both are correct.
func TestDifferentialAgainstRedBlack(t *testing.T) {
	const ops = 4000
	rng := rand.New(rand.NewSource(7))

	sg := scapegoat.NewMap[int, int, uint32](ops)
	ref := redblacktree.NewWith(utils.IntComparator)

	for i := 0; i < ops; i++ {
		k := rng.Intn(ops / 2)
		switch rng.Intn(3) {
		case 0, 1:
			sg.Insert(k, k*2)
			ref.Put(k, k*2)
		case 2:
			sg.Remove(k)
			ref.Remove(k)
		}

		if i%211 != 0 {
			continue
		}
		gotKeys := ascendingSgKeys(sg)
		wantKeys := ascendingRefKeys(ref)
		if len(gotKeys) != len(wantKeys) {
			t.Fatalf("op %d: len mismatch sg=%d ref=%d", i, len(gotKeys), len(wantKeys))
		}
		for j := range gotKeys {
			if gotKeys[j] != wantKeys[j] {
				t.Fatalf("op %d: key[%d] = %d, want %d", i, j, gotKeys[j], wantKeys[j])
			}
			sgVal, _ := sg.Get(gotKeys[j])
			refVal, _ := ref.Get(gotKeys[j])
			if sgVal != refVal.(int) {
				t.Fatalf("op %d: value[%d] = %d, want %d", i, j, sgVal, refVal)
			}
		}
	}
}

func ascendingSgKeys(m *scapegoat.SgMap[int, int, uint32]) []int {
	var out []int
	it := m.Keys()
	for {
		k, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, k)
	}
}

func ascendingRefKeys(tr *redblacktree.Tree) []int {
	out := make([]int, 0, tr.Size())
	it := tr.Iterator()
	for it.Next() {
		out = append(out, it.Key().(int))
	}
	return out
}
