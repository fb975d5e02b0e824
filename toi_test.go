package impulse

import (
	"math"
	"testing"
)

func TestTimeOfImpactTouching(t *testing.T) {
	cfg := DefaultConfig()

	circleA := NewCircleShape(1.0)
	circleB := NewCircleShape(1.0)

	var input TOIInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)

	// A stays at the origin, B sweeps from x=10 to x=0 and must hit A.
	input.SweepA = Sweep{C0: Vec2{0.0, 0.0}, C: Vec2{0.0, 0.0}}
	input.SweepB = Sweep{C0: Vec2{10.0, 0.0}, C: Vec2{0.0, 0.0}}
	input.TMax = 1.0

	var output TOIOutput
	TimeOfImpact(cfg, &output, &input)

	if output.State != TOIStateTouching {
		t.Fatalf("state = %d, want touching", output.State)
	}

	// The surfaces meet when the centers are 2 apart, i.e. when B has
	// traveled 8 of its 10 units.
	if math.Abs(output.T-0.8) > 0.01 {
		t.Fatalf("t = %v, want about 0.8", output.T)
	}
}

func TestTimeOfImpactSeparated(t *testing.T) {
	cfg := DefaultConfig()

	circleA := NewCircleShape(1.0)
	circleB := NewCircleShape(1.0)

	var input TOIInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)

	// B moves parallel to A and never gets close.
	input.SweepA = Sweep{C0: Vec2{0.0, 0.0}, C: Vec2{0.0, 0.0}}
	input.SweepB = Sweep{C0: Vec2{10.0, 10.0}, C: Vec2{-10.0, 10.0}}
	input.TMax = 1.0

	var output TOIOutput
	TimeOfImpact(cfg, &output, &input)

	if output.State != TOIStateSeparated {
		t.Fatalf("state = %d, want separated", output.State)
	}
	if output.T != 1.0 {
		t.Fatalf("t = %v, want 1", output.T)
	}
}

func TestTimeOfImpactOverlapped(t *testing.T) {
	cfg := DefaultConfig()

	circleA := NewCircleShape(1.0)
	circleB := NewCircleShape(1.0)

	var input TOIInput
	input.ProxyA.Set(circleA, 0)
	input.ProxyB.Set(circleB, 0)

	// Deeply overlapped from the start.
	input.SweepA = Sweep{C0: Vec2{0.0, 0.0}, C: Vec2{0.0, 0.0}}
	input.SweepB = Sweep{C0: Vec2{0.1, 0.0}, C: Vec2{0.2, 0.0}}
	input.TMax = 1.0

	var output TOIOutput
	TimeOfImpact(cfg, &output, &input)

	if output.State != TOIStateOverlapped {
		t.Fatalf("state = %d, want overlapped", output.State)
	}
	if output.T != 0.0 {
		t.Fatalf("t = %v, want 0", output.T)
	}
}

func TestTimeOfImpactPolygonSweep(t *testing.T) {
	cfg := DefaultConfig()

	ground := NewPolygonShape()
	ground.SetAsBox(10.0, 0.5)
	box := NewPolygonShape()
	box.SetAsBox(0.5, 0.5)

	var input TOIInput
	input.ProxyA.Set(ground, 0)
	input.ProxyB.Set(box, 0)

	// A fast box falls straight through the ground plane in a single step.
	input.SweepA = Sweep{C0: Vec2{0.0, 0.0}, C: Vec2{0.0, 0.0}}
	input.SweepB = Sweep{C0: Vec2{0.0, 5.0}, C: Vec2{0.0, -5.0}}
	input.TMax = 1.0

	var output TOIOutput
	TimeOfImpact(cfg, &output, &input)

	if output.State != TOIStateTouching {
		t.Fatalf("state = %d, want touching", output.State)
	}
	if output.T <= 0.0 || output.T >= 0.5 {
		t.Fatalf("t = %v, want impact before the midpoint", output.T)
	}
}
