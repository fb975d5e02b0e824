package impulse

import (
	"math"
	"testing"
)

func TestCollideCircles(t *testing.T) {
	cfg := DefaultConfig()

	circleA := NewCircleShape(1.0)
	circleB := NewCircleShape(1.0)

	xfA := MakeTransform()
	xfB := MakeTransformFromPosAndAngle(Vec2{1.9, 0.0}, 0.0)

	var manifold Manifold
	CollideCircles(cfg, &manifold, circleA, xfA, circleB, xfB)

	if manifold.PointCount != 1 {
		t.Fatalf("overlapping circles: point count = %d, want 1", manifold.PointCount)
	}
	if manifold.Type != ManifoldCircles {
		t.Fatalf("manifold type = %d, want circles", manifold.Type)
	}

	// Separated circles must produce no points.
	xfB = MakeTransformFromPosAndAngle(Vec2{2.1, 0.0}, 0.0)
	CollideCircles(cfg, &manifold, circleA, xfA, circleB, xfB)
	if manifold.PointCount != 0 {
		t.Fatalf("separated circles: point count = %d, want 0", manifold.PointCount)
	}
}

func TestCollidePolygonAndCircle(t *testing.T) {
	cfg := DefaultConfig()

	poly := NewPolygonShape()
	poly.SetAsBox(1.0, 1.0)
	circle := NewCircleShape(0.5)

	xfA := MakeTransform()
	xfB := MakeTransformFromPosAndAngle(Vec2{1.4, 0.0}, 0.0)

	var manifold Manifold
	CollidePolygonAndCircle(cfg, &manifold, poly, xfA, circle, xfB)

	if manifold.PointCount != 1 {
		t.Fatalf("point count = %d, want 1", manifold.PointCount)
	}

	var wm WorldManifold
	wm.Initialize(&manifold, xfA, poly.Radius(), xfB, circle.Radius())

	if math.Abs(wm.Normal.X-1.0) > 1e-9 || math.Abs(wm.Normal.Y) > 1e-9 {
		t.Fatalf("normal = %v, want (1,0)", wm.Normal)
	}
	if wm.Separations[0] > 0.0 {
		t.Fatalf("separation = %v, want overlap", wm.Separations[0])
	}
}

func TestCollidePolygons(t *testing.T) {
	cfg := DefaultConfig()

	polyA := NewPolygonShape()
	polyA.SetAsBox(1.0, 1.0)
	polyB := NewPolygonShape()
	polyB.SetAsBox(1.0, 1.0)

	xfA := MakeTransform()

	// Boxes overlapping horizontally by 0.2 produce a two point face manifold.
	xfB := MakeTransformFromPosAndAngle(Vec2{1.8, 0.0}, 0.0)

	var manifold Manifold
	CollidePolygons(cfg, &manifold, polyA, xfA, polyB, xfB)

	if manifold.PointCount != 2 {
		t.Fatalf("point count = %d, want 2", manifold.PointCount)
	}
	if manifold.Type != ManifoldFaceA && manifold.Type != ManifoldFaceB {
		t.Fatalf("manifold type = %d, want a face manifold", manifold.Type)
	}

	// Boxes clearly apart produce nothing.
	xfB = MakeTransformFromPosAndAngle(Vec2{3.0, 0.0}, 0.0)
	CollidePolygons(cfg, &manifold, polyA, xfA, polyB, xfB)
	if manifold.PointCount != 0 {
		t.Fatalf("separated boxes: point count = %d, want 0", manifold.PointCount)
	}
}

func TestCollideEdgeAndCircle(t *testing.T) {
	cfg := DefaultConfig()

	edge := NewEdgeShape()
	edge.Set(Vec2{-1.0, 0.0}, Vec2{1.0, 0.0})
	circle := NewCircleShape(0.5)

	xfA := MakeTransform()

	// Circle resting on the middle of the edge.
	xfB := MakeTransformFromPosAndAngle(Vec2{0.0, 0.4}, 0.0)

	var manifold Manifold
	CollideEdgeAndCircle(cfg, &manifold, edge, xfA, circle, xfB)
	if manifold.PointCount != 1 {
		t.Fatalf("point count = %d, want 1", manifold.PointCount)
	}

	// Circle well above the edge.
	xfB = MakeTransformFromPosAndAngle(Vec2{0.0, 2.0}, 0.0)
	CollideEdgeAndCircle(cfg, &manifold, edge, xfA, circle, xfB)
	if manifold.PointCount != 0 {
		t.Fatalf("separated: point count = %d, want 0", manifold.PointCount)
	}
}

func TestCollideEdgeAndPolygon(t *testing.T) {
	cfg := DefaultConfig()

	edge := NewEdgeShape()
	edge.Set(Vec2{-2.0, 0.0}, Vec2{2.0, 0.0})

	poly := NewPolygonShape()
	poly.SetAsBox(0.5, 0.5)

	xfA := MakeTransform()
	xfB := MakeTransformFromPosAndAngle(Vec2{0.0, 0.49}, 0.0)

	var manifold Manifold
	CollideEdgeAndPolygon(cfg, &manifold, edge, xfA, poly, xfB)
	if manifold.PointCount == 0 {
		t.Fatal("box resting on edge must produce contact points")
	}

	var wm WorldManifold
	wm.Initialize(&manifold, xfA, edge.Radius(), xfB, poly.Radius())
	if wm.Normal.Y < 0.9 {
		t.Fatalf("normal = %v, want pointing up", wm.Normal)
	}
}

func TestTestOverlapShapes(t *testing.T) {
	circleA := NewCircleShape(1.0)
	circleB := NewCircleShape(1.0)

	xfA := MakeTransform()
	xfB := MakeTransformFromPosAndAngle(Vec2{1.5, 0.0}, 0.0)

	if !TestOverlapShapes(circleA, 0, circleB, 0, xfA, xfB) {
		t.Fatal("overlapping circles reported as separated")
	}

	xfB = MakeTransformFromPosAndAngle(Vec2{3.0, 0.0}, 0.0)
	if TestOverlapShapes(circleA, 0, circleB, 0, xfA, xfB) {
		t.Fatal("separated circles reported as overlapping")
	}
}

func TestAABBOperations(t *testing.T) {
	a := AABB{LowerBound: Vec2{0.0, 0.0}, UpperBound: Vec2{1.0, 1.0}}
	b := AABB{LowerBound: Vec2{0.5, 0.5}, UpperBound: Vec2{2.0, 2.0}}
	c := AABB{LowerBound: Vec2{3.0, 3.0}, UpperBound: Vec2{4.0, 4.0}}

	if !TestOverlapAABB(a, b) {
		t.Fatal("overlapping boxes reported as separated")
	}
	if TestOverlapAABB(a, c) {
		t.Fatal("separated boxes reported as overlapping")
	}

	var combined AABB
	combined.CombineTwo(a, c)
	if !combined.Contains(a) || !combined.Contains(c) {
		t.Fatal("combined box must contain both inputs")
	}
}
