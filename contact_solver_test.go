package impulse

import (
	"math"
	"testing"
)

func stepWorld(world *World, conf StepConf, steps int) {
	for i := 0; i < steps; i++ {
		world.Step(conf)
	}
}

func TestBoxStackRemainsSeparated(t *testing.T) {
	cfg := DefaultConfig()
	world := NewWorld(cfg, Vec2{0.0, -10.0})
	makeGround(world)

	lower := makeFallingBox(world, Vec2{0.0, 1.5})
	upper := makeFallingBox(world, Vec2{0.0, 3.8})

	stepWorld(world, DefaultStepConf(1.0/60.0), 300)

	// Both boxes have half extent 1, so their centers settle 2 apart.
	gap := upper.GetPosition().Y - lower.GetPosition().Y
	if math.Abs(gap-2.0) > 3.0*cfg.LinearSlop {
		t.Fatalf("stack gap = %v, want 2 within slop", gap)
	}
	if math.Abs(lower.GetPosition().Y-1.0) > 3.0*cfg.LinearSlop {
		t.Fatalf("lower box height = %v, want 1 within slop", lower.GetPosition().Y)
	}
}

func TestPositionCorrectionResolvesOverlap(t *testing.T) {
	cfg := DefaultConfig()
	world := NewWorld(cfg, Vec2{0.0, -10.0})
	makeGround(world)

	// Spawn a box already overlapping the ground by half a unit.
	box := makeFallingBox(world, Vec2{0.0, 0.5})

	stepWorld(world, DefaultStepConf(1.0/60.0), 120)

	// Baumgarte correction pushes the box out over several steps without
	// launching it.
	y := box.GetPosition().Y
	if y < 1.0-3.0*cfg.LinearSlop {
		t.Fatalf("box still overlapping, y = %v", y)
	}
	if y > 1.1 {
		t.Fatalf("position correction launched the box to y = %v", y)
	}
}

func TestRestitutionBounce(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{0.0, 5.0}
	ball := world.CreateBody(&bd)

	fd := MakeFixtureDef()
	fd.Shape = NewCircleShape(0.5)
	fd.Density = 1.0
	fd.Restitution = 0.8
	ball.CreateFixtureFromDef(&fd)

	conf := DefaultStepConf(1.0 / 60.0)
	peak := 0.0
	landed := false
	for i := 0; i < 300; i++ {
		world.Step(conf)
		y := ball.GetPosition().Y
		if !landed && ball.GetLinearVelocity().Y > 0.0 {
			landed = true
		}
		if landed && y > peak {
			peak = y
		}
	}

	if !landed {
		t.Fatal("ball never bounced")
	}
	// With restitution 0.8 the rebound keeps a substantial fraction of the
	// drop height but cannot exceed it.
	if peak < 1.5 || peak > 5.0 {
		t.Fatalf("bounce peak = %v, want between 1.5 and 5", peak)
	}
}

func TestVelocityThresholdSuppressesBounce(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)

	// Dropped from just above the ground, the impact speed stays below the
	// restitution threshold and the ball must not bounce even with full
	// restitution.
	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{0.0, 0.52}
	ball := world.CreateBody(&bd)

	fd := MakeFixtureDef()
	fd.Shape = NewCircleShape(0.5)
	fd.Density = 1.0
	fd.Restitution = 1.0
	ball.CreateFixtureFromDef(&fd)

	conf := DefaultStepConf(1.0 / 60.0)
	maxY := 0.0
	for i := 0; i < 120; i++ {
		world.Step(conf)
		if y := ball.GetPosition().Y; y > maxY && i > 10 {
			maxY = y
		}
	}

	if maxY > 0.55 {
		t.Fatalf("low speed impact bounced to y = %v", maxY)
	}
}

func TestWarmStartingStabilizesStack(t *testing.T) {
	run := func(warm bool) float64 {
		world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
		makeGround(world)
		box := makeFallingBox(world, Vec2{0.0, 1.0})

		conf := DefaultStepConf(1.0 / 60.0)
		conf.WarmStarting = warm
		stepWorld(world, conf, 300)
		return box.GetPosition().Y
	}

	withWarm := run(true)
	withoutWarm := run(false)

	// Both paths must produce a resting box; warm starting only changes
	// convergence, not the solution.
	if math.Abs(withWarm-1.0) > 0.05 {
		t.Fatalf("warm started box rests at %v", withWarm)
	}
	if math.Abs(withoutWarm-1.0) > 0.05 {
		t.Fatalf("cold started box rests at %v", withoutWarm)
	}
}

func TestBlockSolverToggle(t *testing.T) {
	run := func(block bool) float64 {
		world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
		makeGround(world)
		box := makeFallingBox(world, Vec2{0.0, 2.0})

		conf := DefaultStepConf(1.0 / 60.0)
		conf.BlockSolve = block
		stepWorld(world, conf, 300)
		return box.GetPosition().Y
	}

	// A two point face manifold is solved either as a coupled 2x2 system or
	// point by point; the resting state is the same.
	withBlock := run(true)
	withoutBlock := run(false)

	if math.Abs(withBlock-1.0) > 0.05 {
		t.Fatalf("block solved box rests at %v", withBlock)
	}
	if math.Abs(withoutBlock-1.0) > 0.05 {
		t.Fatalf("point solved box rests at %v", withoutBlock)
	}
}

func TestRestingContactImpulsesSteady(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	world.SetAllowSleeping(false)
	makeGround(world)
	makeFallingBox(world, Vec2{0.0, 4.0})

	stepWorld(world, DefaultStepConf(1.0/60.0), 300)

	contact := world.GetContactList()
	for contact != nil && !contact.IsTouching() {
		contact = contact.GetNext()
	}
	if contact == nil {
		t.Fatal("no touching contact after settling")
	}
	manifold := contact.GetManifold()
	if manifold.PointCount == 0 {
		t.Fatal("touching contact has no manifold points")
	}

	var before [maxManifoldPoints]float64
	for i := 0; i < manifold.PointCount; i++ {
		before[i] = manifold.Points[i].NormalImpulse
	}

	world.Step(DefaultStepConf(1.0 / 60.0))

	// The warm started solver is at a fixed point on a resting contact, so
	// one more step leaves the accumulated impulses unchanged.
	for i := 0; i < manifold.PointCount; i++ {
		drift := math.Abs(manifold.Points[i].NormalImpulse - before[i])
		if drift > 1e-6 {
			t.Fatalf("point %d impulse drifted by %v", i, drift)
		}
	}
}

func TestBlockSolverSpinningImpact(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{0.0, 1.0}
	bd.AngularVelocity = 1.0
	box := world.CreateBody(&bd)
	shape := NewPolygonShape()
	shape.SetAsBox(1.0, 1.0)
	box.CreateFixture(shape, 1.0)

	// The spin makes one manifold point press while the other separates, so
	// the coupled 2x2 system has no all positive solution and the enumeration
	// must exit with a single loaded point. Impulses may never go negative,
	// whichever exit is taken.
	conf := DefaultStepConf(1.0 / 60.0)
	sawSingleLoadedPoint := false
	for i := 0; i < 60; i++ {
		world.Step(conf)
		for c := world.GetContactList(); c != nil; c = c.GetNext() {
			m := c.GetManifold()
			for j := 0; j < m.PointCount; j++ {
				if m.Points[j].NormalImpulse < 0.0 {
					t.Fatalf("step %d: negative normal impulse %v", i, m.Points[j].NormalImpulse)
				}
			}
			if c.IsTouching() && m.PointCount == 2 {
				a := m.Points[0].NormalImpulse
				b := m.Points[1].NormalImpulse
				if (a == 0.0 && b > 0.0) || (b == 0.0 && a > 0.0) {
					sawSingleLoadedPoint = true
				}
			}
		}
	}

	if !sawSingleLoadedPoint {
		t.Fatal("two point manifold never resolved through a single loaded point")
	}
}

func TestFrictionStopsSliding(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)

	box := makeFallingBox(world, Vec2{0.0, 1.0})
	box.SetLinearVelocity(Vec2{5.0, 0.0})

	stepWorld(world, DefaultStepConf(1.0/60.0), 300)

	// Friction 0.3 dissipates the slide within a few seconds.
	v := box.GetLinearVelocity()
	if v.Length() > 1e-3 {
		t.Fatalf("box still sliding at %v", v)
	}
	if box.GetPosition().X <= 0.0 {
		t.Fatal("box should have slid in the velocity direction")
	}
}

func TestTangentSpeedConveyor(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	// A flat conveyor surface.
	bd := MakeBodyDef()
	bd.Position = Vec2{0.0, -0.5}
	belt := world.CreateBody(&bd)
	beltShape := NewPolygonShape()
	beltShape.SetAsBox(20.0, 0.5)
	fd := MakeFixtureDef()
	fd.Shape = beltShape
	fd.Friction = 0.8
	belt.CreateFixtureFromDef(&fd)

	box := makeFallingBox(world, Vec2{0.0, 1.5})

	world.SetContactListener(&conveyorListener{belt: belt})

	stepWorld(world, DefaultStepConf(1.0/60.0), 300)

	// The surface speed drags the box along.
	if box.GetPosition().X < 1.0 {
		t.Fatalf("conveyor moved the box to x = %v, want further", box.GetPosition().X)
	}
}

type conveyorListener struct {
	belt *Body
}

func (l *conveyorListener) BeginContact(contact *Contact)   {}
func (l *conveyorListener) EndContact(contact *Contact)     {}
func (l *conveyorListener) PreSolve(contact *Contact, oldManifold Manifold) {
	if contact.GetFixtureA().GetBody() == l.belt || contact.GetFixtureB().GetBody() == l.belt {
		contact.SetTangentSpeed(2.0)
	}
}
func (l *conveyorListener) PostSolve(contact *Contact, impulse *ContactImpulse) {}
