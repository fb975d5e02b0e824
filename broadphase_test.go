package impulse

import (
	"testing"
)

func TestDynamicTreeQuery(t *testing.T) {
	tree := MakeDynamicTree(DefaultConfig())

	a := tree.CreateProxy(AABB{LowerBound: Vec2{0, 0}, UpperBound: Vec2{1, 1}}, "a")
	b := tree.CreateProxy(AABB{LowerBound: Vec2{5, 5}, UpperBound: Vec2{6, 6}}, "b")
	c := tree.CreateProxy(AABB{LowerBound: Vec2{0.5, 0.5}, UpperBound: Vec2{1.5, 1.5}}, "c")

	var hits []interface{}
	tree.Query(func(nodeId int) bool {
		hits = append(hits, tree.GetUserData(nodeId))
		return true
	}, AABB{LowerBound: Vec2{0, 0}, UpperBound: Vec2{2, 2}})

	if len(hits) != 2 {
		t.Fatalf("query hits = %d, want 2", len(hits))
	}
	for _, h := range hits {
		if h != "a" && h != "c" {
			t.Fatalf("unexpected hit %v", h)
		}
	}

	tree.DestroyProxy(a)
	tree.DestroyProxy(b)
	tree.DestroyProxy(c)
}

func TestDynamicTreeMoveProxy(t *testing.T) {
	cfg := DefaultConfig()
	tree := MakeDynamicTree(cfg)

	id := tree.CreateProxy(AABB{LowerBound: Vec2{0, 0}, UpperBound: Vec2{1, 1}}, nil)

	// A small move stays within the fat AABB and does not reinsert.
	moved := tree.MoveProxy(id, AABB{LowerBound: Vec2{0.01, 0}, UpperBound: Vec2{1.01, 1}}, Vec2{0.01, 0})
	if moved {
		t.Fatal("move inside the fat AABB must not reinsert")
	}

	// A large move must reinsert.
	moved = tree.MoveProxy(id, AABB{LowerBound: Vec2{10, 10}, UpperBound: Vec2{11, 11}}, Vec2{10, 10})
	if !moved {
		t.Fatal("move outside the fat AABB must reinsert")
	}

	fat := tree.GetFatAABB(id)
	want := AABB{LowerBound: Vec2{10, 10}, UpperBound: Vec2{11, 11}}
	if !fat.Contains(want) {
		t.Fatalf("fat AABB %+v does not contain %+v", fat, want)
	}
}

func TestDynamicTreeBalance(t *testing.T) {
	tree := MakeDynamicTree(DefaultConfig())

	// Insert a long diagonal run of proxies; the rotations keep the height
	// logarithmic.
	n := 128
	for i := 0; i < n; i++ {
		x := float64(i)
		tree.CreateProxy(AABB{
			LowerBound: Vec2{x, x},
			UpperBound: Vec2{x + 1, x + 1},
		}, i)
	}

	height := tree.GetHeight()
	if height > 16 {
		t.Fatalf("tree height = %d for %d proxies, want a balanced tree", height, n)
	}
}

func TestBroadPhasePairs(t *testing.T) {
	bp := MakeBroadPhase(DefaultConfig())

	a := bp.CreateProxy(AABB{LowerBound: Vec2{0, 0}, UpperBound: Vec2{1, 1}}, "a")
	b := bp.CreateProxy(AABB{LowerBound: Vec2{0.5, 0}, UpperBound: Vec2{1.5, 1}}, "b")
	bp.CreateProxy(AABB{LowerBound: Vec2{10, 10}, UpperBound: Vec2{11, 11}}, "far")

	type pair struct{ a, b interface{} }
	var pairs []pair
	bp.UpdatePairs(func(userDataA interface{}, userDataB interface{}) {
		pairs = append(pairs, pair{userDataA, userDataB})
	})

	if len(pairs) != 1 {
		t.Fatalf("pair count = %d, want 1", len(pairs))
	}
	got := pairs[0]
	if !((got.a == "a" && got.b == "b") || (got.a == "b" && got.b == "a")) {
		t.Fatalf("unexpected pair %v", got)
	}

	if !bp.TestOverlap(a, b) {
		t.Fatal("overlapping proxies reported as separated")
	}

	// Moving b away and updating produces no new pairs.
	bp.MoveProxy(b, AABB{LowerBound: Vec2{20, 20}, UpperBound: Vec2{21, 21}}, Vec2{20, 20})
	pairs = pairs[:0]
	bp.UpdatePairs(func(userDataA interface{}, userDataB interface{}) {
		pairs = append(pairs, pair{userDataA, userDataB})
	})
	if len(pairs) != 0 {
		t.Fatalf("pair count after separation = %d, want 0", len(pairs))
	}
}

func TestBroadPhaseRayCast(t *testing.T) {
	bp := MakeBroadPhase(DefaultConfig())

	bp.CreateProxy(AABB{LowerBound: Vec2{4, -1}, UpperBound: Vec2{6, 1}}, "target")
	bp.CreateProxy(AABB{LowerBound: Vec2{4, 10}, UpperBound: Vec2{6, 12}}, "above")

	var visited []interface{}
	bp.RayCast(func(input RayCastInput, nodeId int) float64 {
		visited = append(visited, bp.GetUserData(nodeId))
		return input.MaxFraction
	}, RayCastInput{P1: Vec2{0, 0}, P2: Vec2{10, 0}, MaxFraction: 1.0})

	if len(visited) != 1 || visited[0] != "target" {
		t.Fatalf("ray visited %v, want only the target", visited)
	}
}
