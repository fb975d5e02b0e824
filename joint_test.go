package impulse

import (
	"math"
	"testing"
)

func makeStaticAnchor(world *World, position Vec2) *Body {
	bd := MakeBodyDef()
	bd.Position = position
	body := world.CreateBody(&bd)
	body.CreateFixture(NewCircleShape(0.1), 0.0)
	return body
}

func TestDistanceJointHoldsLength(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	anchor := makeStaticAnchor(world, Vec2{0.0, 10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{0.0, 5.0}
	bob := world.CreateBody(&bd)
	bob.CreateFixture(NewCircleShape(0.5), 1.0)

	def := MakeDistanceJointDef()
	def.Initialize(anchor, bob, anchor.GetPosition(), bob.GetPosition())

	joint := world.CreateJoint(&def).(*DistanceJoint)

	if math.Abs(joint.GetLength()-5.0) > 1e-9 {
		t.Fatalf("initialized length = %v, want 5", joint.GetLength())
	}

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	dist := joint.GetAnchorB().Sub(joint.GetAnchorA()).Length()
	if math.Abs(dist-5.0) > 0.05 {
		t.Fatalf("anchor distance = %v, want 5", dist)
	}
}

func TestDistanceJointReaction(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	anchor := makeStaticAnchor(world, Vec2{0.0, 10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{0.0, 5.0}
	bob := world.CreateBody(&bd)
	bob.CreateFixture(NewCircleShape(0.5), 1.0)

	def := MakeDistanceJointDef()
	def.Initialize(anchor, bob, anchor.GetPosition(), bob.GetPosition())
	joint := world.CreateJoint(&def)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	// The rod carries the bob's weight: m*g along the rod axis.
	force := joint.GetReactionForce(60.0)
	weight := bob.GetMass() * 10.0
	if math.Abs(force.Length()-weight) > 0.5 {
		t.Fatalf("reaction force = %v, want about %v", force.Length(), weight)
	}
	if joint.GetReactionTorque(60.0) != 0.0 {
		t.Fatal("a distance joint carries no torque")
	}
}

func TestRevoluteJointPendulum(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	pivot := makeStaticAnchor(world, Vec2{0.0, 10.0})

	// A horizontal bar hinged at its left end swings down.
	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{2.0, 10.0}
	bar := world.CreateBody(&bd)
	shape := NewPolygonShape()
	shape.SetAsBox(2.0, 0.1)
	bar.CreateFixture(shape, 1.0)

	def := MakeRevoluteJointDef()
	def.Initialize(pivot, bar, Vec2{0.0, 10.0})
	joint := world.CreateJoint(&def).(*RevoluteJoint)

	if joint.GetJointAngle() != 0.0 {
		t.Fatalf("initial joint angle = %v, want 0", joint.GetJointAngle())
	}

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	// The bar must have rotated while staying pinned at the pivot.
	if joint.GetJointAngle() == 0.0 {
		t.Fatal("pendulum did not swing")
	}
	pivotError := joint.GetAnchorB().Sub(joint.GetAnchorA()).Length()
	if pivotError > 0.02 {
		t.Fatalf("pivot separation = %v", pivotError)
	}
}

func TestRevoluteJointLimit(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	pivot := makeStaticAnchor(world, Vec2{0.0, 10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{2.0, 10.0}
	bar := world.CreateBody(&bd)
	shape := NewPolygonShape()
	shape.SetAsBox(2.0, 0.1)
	bar.CreateFixture(shape, 1.0)

	def := MakeRevoluteJointDef()
	def.Initialize(pivot, bar, Vec2{0.0, 10.0})
	def.EnableLimit = true
	def.LowerAngle = -0.25 * pi
	def.UpperAngle = 0.0
	joint := world.CreateJoint(&def).(*RevoluteJoint)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 180; i++ {
		world.Step(conf)
	}

	// Gravity pulls the bar toward -pi/2 but the limit stops it earlier.
	angle := joint.GetJointAngle()
	if angle < joint.GetLowerLimit()-0.05 {
		t.Fatalf("joint angle %v violates lower limit %v", angle, joint.GetLowerLimit())
	}
	if angle > -0.2*pi {
		t.Fatalf("joint angle %v, want the bar hanging at its limit", angle)
	}
}

func TestRevoluteJointEqualLimits(t *testing.T) {
	cfg := DefaultConfig()
	world := NewWorld(cfg, Vec2{0.0, -10.0})

	pivot := makeStaticAnchor(world, Vec2{0.0, 10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{2.0, 10.0}
	bar := world.CreateBody(&bd)
	shape := NewPolygonShape()
	shape.SetAsBox(2.0, 0.1)
	bar.CreateFixture(shape, 1.0)

	def := MakeRevoluteJointDef()
	def.Initialize(pivot, bar, Vec2{0.0, 10.0})
	def.EnableLimit = true
	def.LowerAngle = 0.0
	def.UpperAngle = 0.5 * cfg.AngularSlop
	joint := world.CreateJoint(&def).(*RevoluteJoint)

	// A limit band narrower than the angular tolerance is treated as a single
	// equality constraint. The state must never flicker to one of the bounds.
	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
		if joint.limitState != equalLimits {
			t.Fatalf("step %d: limit state = %v, want equal limits", i, joint.limitState)
		}
	}

	if angle := math.Abs(joint.GetJointAngle()); angle > 2.0*cfg.AngularSlop {
		t.Fatalf("joint angle = %v, want the bar held level", angle)
	}
}

func TestRevoluteJointMotor(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, 0.0})

	pivot := makeStaticAnchor(world, Vec2{0.0, 0.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{0.0, 0.0}
	wheel := world.CreateBody(&bd)
	wheel.CreateFixture(NewCircleShape(1.0), 1.0)

	def := MakeRevoluteJointDef()
	def.Initialize(pivot, wheel, Vec2{0.0, 0.0})
	def.EnableMotor = true
	def.MotorSpeed = 2.0
	def.MaxMotorTorque = 1000.0
	joint := world.CreateJoint(&def).(*RevoluteJoint)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	if math.Abs(joint.GetJointSpeed()-2.0) > 0.05 {
		t.Fatalf("joint speed = %v, want 2", joint.GetJointSpeed())
	}
}

func TestPulleyJointConservesLength(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{-2.0, 5.0}
	left := world.CreateBody(&bd)
	leftShape := NewPolygonShape()
	leftShape.SetAsBox(0.5, 0.5)
	left.CreateFixture(leftShape, 1.0)

	bd = MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{2.0, 5.0}
	right := world.CreateBody(&bd)
	rightShape := NewPolygonShape()
	rightShape.SetAsBox(0.5, 2.0)
	right.CreateFixture(rightShape, 1.0)

	def := MakePulleyJointDef()
	def.Initialize(left, right,
		Vec2{-2.0, 10.0}, Vec2{2.0, 10.0},
		left.GetPosition(), right.GetPosition(), 1.0)
	joint := world.CreateJoint(&def).(*PulleyJoint)

	total0 := joint.GetCurrentLengthA() + joint.GetRatio()*joint.GetCurrentLengthB()

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 180; i++ {
		world.Step(conf)
	}

	// The heavier side descends, the lighter side rises.
	if right.GetPosition().Y >= 5.0 {
		t.Fatalf("heavy side did not descend, y = %v", right.GetPosition().Y)
	}
	if left.GetPosition().Y <= 5.0 {
		t.Fatalf("light side did not rise, y = %v", left.GetPosition().Y)
	}

	// The total rope length is preserved.
	total := joint.GetCurrentLengthA() + joint.GetRatio()*joint.GetCurrentLengthB()
	if math.Abs(total-total0) > 0.1 {
		t.Fatalf("rope length drifted from %v to %v", total0, total)
	}
}

func TestWeldJointHoldsBodies(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	base := makeStaticAnchor(world, Vec2{0.0, 10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{2.0, 10.0}
	arm := world.CreateBody(&bd)
	shape := NewPolygonShape()
	shape.SetAsBox(2.0, 0.1)
	arm.CreateFixture(shape, 1.0)

	def := MakeWeldJointDef()
	def.Initialize(base, arm, Vec2{0.0, 10.0})
	world.CreateJoint(&def)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 180; i++ {
		world.Step(conf)
	}

	// The weld keeps the arm rigid against gravity. Some sag is expected
	// because the solver is iterative.
	if math.Abs(arm.GetAngle()) > 0.05 {
		t.Fatalf("welded arm rotated to %v", arm.GetAngle())
	}
	if math.Abs(arm.GetPosition().Y-10.0) > 0.1 {
		t.Fatalf("welded arm sagged to y = %v", arm.GetPosition().Y)
	}
}

func TestJointDestructionWakesBodies(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)

	boxA := makeFallingBox(world, Vec2{0.0, 1.0})
	boxB := makeFallingBox(world, Vec2{3.0, 1.0})

	def := MakeDistanceJointDef()
	def.Initialize(boxA, boxB, boxA.GetPosition(), boxB.GetPosition())
	joint := world.CreateJoint(&def)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 300; i++ {
		world.Step(conf)
	}

	if boxA.IsAwake() || boxB.IsAwake() {
		t.Fatal("boxes should be asleep before the joint is destroyed")
	}

	world.DestroyJoint(joint)

	if !boxA.IsAwake() || !boxB.IsAwake() {
		t.Fatal("destroying a joint must wake the attached bodies")
	}
	if world.GetJointCount() != 0 {
		t.Fatalf("joint count = %d, want 0", world.GetJointCount())
	}
}

func TestJointCollideConnected(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)

	boxA := makeFallingBox(world, Vec2{0.0, 1.0})
	boxB := makeFallingBox(world, Vec2{0.5, 3.5})

	// The connected boxes overlap in flight; with CollideConnected false
	// they must not generate a touching contact with each other.
	def := MakeDistanceJointDef()
	def.Initialize(boxA, boxB, boxA.GetPosition(), boxB.GetPosition())
	def.CollideConnected = false
	world.CreateJoint(&def)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	for c := world.GetContactList(); c != nil; c = c.GetNext() {
		bA := c.GetFixtureA().GetBody()
		bB := c.GetFixtureB().GetBody()
		connected := (bA == boxA && bB == boxB) || (bA == boxB && bB == boxA)
		if connected && c.IsTouching() && c.IsEnabled() {
			t.Fatal("connected bodies must not collide")
		}
	}
}
