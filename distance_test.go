package impulse

import (
	"math"
	"testing"
)

func TestDistanceCircles(t *testing.T) {
	circleA := NewCircleShape(1.0)
	circleB := NewCircleShape(1.0)

	var input DistanceInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)
	input.TransformA = MakeTransform()
	input.TransformB = MakeTransformFromPosAndAngle(Vec2{5.0, 0.0}, 0.0)
	input.UseRadii = true

	var cache SimplexCache
	var output DistanceOutput
	Distance(&output, &cache, &input)

	// Centers are 5 apart, both radii are 1, so the surfaces are 3 apart.
	if math.Abs(output.Distance-3.0) > 1e-9 {
		t.Fatalf("distance = %v, want 3", output.Distance)
	}
	if math.Abs(output.PointA.X-1.0) > 1e-9 {
		t.Fatalf("witness point A = %v, want (1,0)", output.PointA)
	}
	if math.Abs(output.PointB.X-4.0) > 1e-9 {
		t.Fatalf("witness point B = %v, want (4,0)", output.PointB)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	poly := NewPolygonShape()
	poly.SetAsBox(1.0, 1.0)
	circle := NewCircleShape(0.5)

	xfA := MakeTransform()
	xfB := MakeTransformFromPosAndAngle(Vec2{4.0, 1.0}, 0.3)

	var inputAB DistanceInput
	inputAB.ProxyA.Set(poly, 0)
	inputAB.ProxyB.Set(circle, 0)
	inputAB.TransformA = xfA
	inputAB.TransformB = xfB
	inputAB.UseRadii = true

	var inputBA DistanceInput
	inputBA.ProxyA.Set(circle, 0)
	inputBA.ProxyB.Set(poly, 0)
	inputBA.TransformA = xfB
	inputBA.TransformB = xfA
	inputBA.UseRadii = true

	var cacheAB, cacheBA SimplexCache
	var outputAB, outputBA DistanceOutput
	Distance(&outputAB, &cacheAB, &inputAB)
	Distance(&outputBA, &cacheBA, &inputBA)

	if math.Abs(outputAB.Distance-outputBA.Distance) > 1e-9 {
		t.Fatalf("distance is not symmetric: %v vs %v",
			outputAB.Distance, outputBA.Distance)
	}
}

func TestDistanceOverlap(t *testing.T) {
	circleA := NewCircleShape(1.0)
	circleB := NewCircleShape(1.0)

	var input DistanceInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)
	input.TransformA = MakeTransform()
	input.TransformB = MakeTransformFromPosAndAngle(Vec2{0.5, 0.0}, 0.0)
	input.UseRadii = true

	var cache SimplexCache
	var output DistanceOutput
	Distance(&output, &cache, &input)

	if output.Distance != 0.0 {
		t.Fatalf("overlapping circles: distance = %v, want 0", output.Distance)
	}
	// The witness points collapse to a single point.
	if math.Abs(output.PointA.X-output.PointB.X) > 1e-9 ||
		math.Abs(output.PointA.Y-output.PointB.Y) > 1e-9 {
		t.Fatalf("witness points differ: %v vs %v", output.PointA, output.PointB)
	}
}

func TestDistanceCacheReuse(t *testing.T) {
	polyA := NewPolygonShape()
	polyA.SetAsBox(1.0, 1.0)
	polyB := NewPolygonShape()
	polyB.SetAsBox(1.0, 1.0)

	var input DistanceInput
	input.ProxyA.Set(polyA, 0)
	input.ProxyB.Set(polyB, 0)
	input.TransformA = MakeTransform()
	input.TransformB = MakeTransformFromPosAndAngle(Vec2{5.0, 0.0}, 0.0)
	input.UseRadii = false

	var cache SimplexCache
	var first DistanceOutput
	Distance(&first, &cache, &input)

	// A warm cache on a slightly moved shape must give a consistent result.
	input.TransformB = MakeTransformFromPosAndAngle(Vec2{5.1, 0.0}, 0.0)
	var second DistanceOutput
	Distance(&second, &cache, &input)

	if math.Abs(second.Distance-(first.Distance+0.1)) > 1e-9 {
		t.Fatalf("warm query distance = %v, want %v", second.Distance, first.Distance+0.1)
	}
}
