package impulse

import (
	"math"
	"testing"
)

func TestCircleMass(t *testing.T) {
	circle := NewCircleShape(2.0)
	circle.P = Vec2{1.0, 0.0}

	var md MassData
	circle.ComputeMass(&md, 3.0)

	wantMass := 3.0 * pi * 4.0
	if math.Abs(md.Mass-wantMass) > 1e-9 {
		t.Fatalf("mass = %v, want %v", md.Mass, wantMass)
	}
	if md.Center != circle.P {
		t.Fatalf("center = %v, want %v", md.Center, circle.P)
	}

	// I = m * (0.5*r^2 + |c|^2) about the body origin.
	wantI := wantMass * (0.5*4.0 + 1.0)
	if math.Abs(md.I-wantI) > 1e-9 {
		t.Fatalf("inertia = %v, want %v", md.I, wantI)
	}
}

func TestBoxMass(t *testing.T) {
	poly := NewPolygonShape()
	poly.SetAsBox(1.0, 2.0)

	var md MassData
	poly.ComputeMass(&md, 1.0)

	// A 2x4 box of density 1 has mass 8.
	if math.Abs(md.Mass-8.0) > 1e-9 {
		t.Fatalf("mass = %v, want 8", md.Mass)
	}
	if math.Abs(md.Center.X) > 1e-9 || math.Abs(md.Center.Y) > 1e-9 {
		t.Fatalf("center = %v, want origin", md.Center)
	}

	// I = m*(w^2 + h^2)/12 about the centroid.
	wantI := 8.0 * (4.0 + 16.0) / 12.0
	if math.Abs(md.I-wantI) > 1e-9 {
		t.Fatalf("inertia = %v, want %v", md.I, wantI)
	}
}

func TestPolygonSetComputesHull(t *testing.T) {
	poly := NewPolygonShape()

	// An interior point must be dropped by the convex hull.
	poly.Set([]Vec2{
		{-1.0, -1.0},
		{1.0, -1.0},
		{1.0, 1.0},
		{0.0, 0.0},
		{-1.0, 1.0},
	})

	if poly.Count != 4 {
		t.Fatalf("hull vertex count = %d, want 4", poly.Count)
	}
	if !poly.Validate() {
		t.Fatal("hull is not convex")
	}
}

func TestCircleRayCast(t *testing.T) {
	circle := NewCircleShape(1.0)
	xf := MakeTransformFromPosAndAngle(Vec2{3.0, 0.0}, 0.0)

	input := RayCastInput{
		P1:          Vec2{0.0, 0.0},
		P2:          Vec2{10.0, 0.0},
		MaxFraction: 1.0,
	}

	var output RayCastOutput
	if !circle.RayCast(&output, input, xf, 0) {
		t.Fatal("ray must hit the circle")
	}
	// The hit is at x=2, which is fraction 0.2 along the ray.
	if math.Abs(output.Fraction-0.2) > 1e-9 {
		t.Fatalf("fraction = %v, want 0.2", output.Fraction)
	}
	if math.Abs(output.Normal.X+1.0) > 1e-9 {
		t.Fatalf("normal = %v, want (-1,0)", output.Normal)
	}

	// A ray pointing away misses.
	input.P2 = Vec2{-10.0, 0.0}
	if circle.RayCast(&output, input, xf, 0) {
		t.Fatal("ray pointing away must miss")
	}
}

func TestPolygonTestPoint(t *testing.T) {
	poly := NewPolygonShape()
	poly.SetAsBox(1.0, 1.0)
	xf := MakeTransformFromPosAndAngle(Vec2{0.0, 0.0}, 0.25*pi)

	if !poly.TestPoint(xf, Vec2{0.0, 0.0}) {
		t.Fatal("center must be inside")
	}
	// The rotated box corner reaches sqrt(2) along the axes.
	if !poly.TestPoint(xf, Vec2{0.0, 1.3}) {
		t.Fatal("point under the rotated corner must be inside")
	}
	if poly.TestPoint(xf, Vec2{1.3, 1.3}) {
		t.Fatal("point outside the rotated box must be outside")
	}
}

func TestEdgeComputeAABB(t *testing.T) {
	cfg := DefaultConfig()
	edge := NewEdgeShape()
	edge.Set(Vec2{-1.0, 0.0}, Vec2{1.0, 2.0})

	var aabb AABB
	edge.ComputeAABB(&aabb, MakeTransform(), 0)

	r := cfg.PolygonRadius
	if math.Abs(aabb.LowerBound.X-(-1.0-r)) > 1e-9 ||
		math.Abs(aabb.UpperBound.X-(1.0+r)) > 1e-9 ||
		math.Abs(aabb.LowerBound.Y-(0.0-r)) > 1e-9 ||
		math.Abs(aabb.UpperBound.Y-(2.0+r)) > 1e-9 {
		t.Fatalf("aabb = %+v", aabb)
	}
}

func TestChainChildEdges(t *testing.T) {
	chain := NewChainShape()
	chain.CreateChain([]Vec2{
		{0.0, 0.0},
		{1.0, 0.0},
		{2.0, 1.0},
		{3.0, 1.0},
	})

	if chain.ChildCount() != 3 {
		t.Fatalf("child count = %d, want 3", chain.ChildCount())
	}

	var edge EdgeShape
	chain.GetChildEdge(&edge, 1)

	if edge.Vertex1 != (Vec2{1.0, 0.0}) || edge.Vertex2 != (Vec2{2.0, 1.0}) {
		t.Fatalf("child edge 1 = %v %v", edge.Vertex1, edge.Vertex2)
	}
	// Interior children carry ghost vertices from the neighbors.
	if !edge.HasVertex0 || !edge.HasVertex3 {
		t.Fatal("interior child must have both ghost vertices")
	}
	if edge.Vertex0 != (Vec2{0.0, 0.0}) || edge.Vertex3 != (Vec2{3.0, 1.0}) {
		t.Fatalf("ghost vertices = %v %v", edge.Vertex0, edge.Vertex3)
	}
}

func TestChainLoopChildren(t *testing.T) {
	chain := NewChainShape()
	chain.CreateLoop([]Vec2{
		{0.0, 0.0},
		{2.0, 0.0},
		{2.0, 2.0},
		{0.0, 2.0},
	})

	// A loop closes back to the first vertex, adding one segment.
	if chain.ChildCount() != 4 {
		t.Fatalf("child count = %d, want 4", chain.ChildCount())
	}

	var edge EdgeShape
	chain.GetChildEdge(&edge, 3)
	if edge.Vertex1 != (Vec2{0.0, 2.0}) || edge.Vertex2 != (Vec2{0.0, 0.0}) {
		t.Fatalf("closing edge = %v %v", edge.Vertex1, edge.Vertex2)
	}
}

func TestShapeClone(t *testing.T) {
	poly := NewPolygonShape()
	poly.SetAsBox(1.0, 1.0)

	clone := poly.Clone().(*PolygonShape)
	clone.SetAsBox(5.0, 5.0)

	// Mutating the clone must not touch the original.
	if poly.GetVertex(0).X != -1.0 {
		t.Fatalf("original vertex changed to %v", poly.GetVertex(0))
	}
}
