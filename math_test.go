package impulse

import (
	"math"
	"testing"
)

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3.0, 4.0}
	length := v.Normalize()

	if math.Abs(length-5.0) > 1e-12 {
		t.Fatalf("expected length 5, got %v", length)
	}
	if math.Abs(v.Length()-1.0) > 1e-12 {
		t.Fatalf("expected unit vector, got length %v", v.Length())
	}

	var zero Vec2
	if zero.Normalize() != 0.0 {
		t.Fatal("normalizing the zero vector must return zero")
	}
	if zero.X != 0.0 || zero.Y != 0.0 {
		t.Fatal("the zero vector must stay zeroed")
	}
}

func TestMat22Solve(t *testing.T) {
	m := Mat22{Ex: Vec2{2.0, 1.0}, Ey: Vec2{1.0, 3.0}}
	b := Vec2{5.0, 10.0}

	x := m.Solve(b)

	// Verify m * x == b.
	got := Vec2{
		m.Ex.X*x.X + m.Ey.X*x.Y,
		m.Ex.Y*x.X + m.Ey.Y*x.Y,
	}
	if math.Abs(got.X-b.X) > 1e-12 || math.Abs(got.Y-b.Y) > 1e-12 {
		t.Fatalf("solve mismatch: m*x = %v, want %v", got, b)
	}
}

func TestMat22SingularSolve(t *testing.T) {
	// Zero determinant must produce a zero solution, not NaN.
	m := Mat22{Ex: Vec2{1.0, 2.0}, Ey: Vec2{2.0, 4.0}}
	x := m.Solve(Vec2{1.0, 1.0})
	if x.X != 0.0 || x.Y != 0.0 {
		t.Fatalf("singular solve must return zero, got %v", x)
	}
}

func TestMat33Solve(t *testing.T) {
	m := Mat33{
		Ex: Vec3{4.0, 1.0, 0.0},
		Ey: Vec3{1.0, 3.0, 1.0},
		Ez: Vec3{0.0, 1.0, 2.0},
	}
	b := Vec3{1.0, 2.0, 3.0}

	x := m.Solve33(b)

	got := Vec3{
		m.Ex.X*x.X + m.Ey.X*x.Y + m.Ez.X*x.Z,
		m.Ex.Y*x.X + m.Ey.Y*x.Y + m.Ez.Y*x.Z,
		m.Ex.Z*x.X + m.Ey.Z*x.Y + m.Ez.Z*x.Z,
	}
	if math.Abs(got.X-b.X) > 1e-12 ||
		math.Abs(got.Y-b.Y) > 1e-12 ||
		math.Abs(got.Z-b.Z) > 1e-12 {
		t.Fatalf("solve mismatch: m*x = %v, want %v", got, b)
	}

	// Solve22 must agree with the 2x2 block.
	x2 := m.Solve22(Vec2{1.0, 2.0})
	got2 := Vec2{
		m.Ex.X*x2.X + m.Ey.X*x2.Y,
		m.Ex.Y*x2.X + m.Ey.Y*x2.Y,
	}
	if math.Abs(got2.X-1.0) > 1e-12 || math.Abs(got2.Y-2.0) > 1e-12 {
		t.Fatalf("2x2 solve mismatch: m*x = %v", got2)
	}
}

func TestRotTransform(t *testing.T) {
	q := MakeRot(0.5 * pi)
	v := MulRV(q, Vec2{1.0, 0.0})

	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-1.0) > 1e-12 {
		t.Fatalf("rotating (1,0) by pi/2 gave %v", v)
	}

	// The inverse rotation must undo the rotation.
	back := MulTRV(q, v)
	if math.Abs(back.X-1.0) > 1e-12 || math.Abs(back.Y) > 1e-12 {
		t.Fatalf("inverse rotation gave %v", back)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	xf := MakeTransformFromPosAndAngle(Vec2{2.0, -3.0}, 0.7)
	p := Vec2{1.5, 4.0}

	world := MulXV(xf, p)
	local := MulTXV(xf, world)

	if math.Abs(local.X-p.X) > 1e-12 || math.Abs(local.Y-p.Y) > 1e-12 {
		t.Fatalf("round trip gave %v, want %v", local, p)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5.0, 0.0, 1.0) != 1.0 {
		t.Fatal("clamp above range")
	}
	if Clamp(-5.0, 0.0, 1.0) != 0.0 {
		t.Fatal("clamp below range")
	}
	if Clamp(0.5, 0.0, 1.0) != 0.5 {
		t.Fatal("clamp inside range")
	}
}

func TestSweepGetTransform(t *testing.T) {
	var sweep Sweep
	sweep.C0 = Vec2{0.0, 0.0}
	sweep.C = Vec2{10.0, 0.0}
	sweep.A0 = 0.0
	sweep.A = pi

	var xf Transform
	sweep.GetTransform(&xf, 0.5)

	if math.Abs(xf.P.X-5.0) > 1e-12 {
		t.Fatalf("midpoint position = %v", xf.P)
	}
	angle := math.Atan2(xf.Q.S, xf.Q.C)
	if math.Abs(angle-0.5*pi) > 1e-12 {
		t.Fatalf("midpoint angle = %v", angle)
	}
}

func TestSweepAdvance(t *testing.T) {
	var sweep Sweep
	sweep.C0 = Vec2{0.0, 0.0}
	sweep.C = Vec2{4.0, 0.0}
	sweep.A0 = 0.0
	sweep.A = 1.0

	sweep.Advance(0.5)

	if math.Abs(sweep.Alpha0-0.5) > 1e-12 {
		t.Fatalf("alpha0 = %v", sweep.Alpha0)
	}
	if math.Abs(sweep.C0.X-2.0) > 1e-12 || math.Abs(sweep.A0-0.5) > 1e-12 {
		t.Fatalf("advanced state c0 = %v a0 = %v", sweep.C0, sweep.A0)
	}
}
