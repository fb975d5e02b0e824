package impulse

import (
	"math"
	"testing"
)

func makeGround(world *World) *Body {
	bd := MakeBodyDef()
	bd.Position = Vec2{0.0, -10.0}
	ground := world.CreateBody(&bd)

	shape := NewPolygonShape()
	shape.SetAsBox(50.0, 10.0)
	ground.CreateFixture(shape, 0.0)

	return ground
}

func makeFallingBox(world *World, position Vec2) *Body {
	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = position
	body := world.CreateBody(&bd)

	shape := NewPolygonShape()
	shape.SetAsBox(1.0, 1.0)

	fd := MakeFixtureDef()
	fd.Shape = shape
	fd.Density = 1.0
	fd.Friction = 0.3
	body.CreateFixtureFromDef(&fd)

	return body
}

func TestFallingBoxComesToRest(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)
	box := makeFallingBox(world, Vec2{0.0, 4.0})

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 300; i++ {
		world.Step(conf)
	}

	// The box rests on the ground plane at y=0 with its half extent of 1.
	pos := box.GetPosition()
	if math.Abs(pos.Y-1.0) > 0.05 {
		t.Fatalf("resting height = %v, want about 1", pos.Y)
	}
	if math.Abs(pos.X) > 0.05 {
		t.Fatalf("box drifted to x = %v", pos.X)
	}

	// A resting body falls asleep once its velocity stays under the
	// tolerances for long enough.
	if box.IsAwake() {
		t.Fatal("resting box should be asleep")
	}

	v := box.GetLinearVelocity()
	if v.Length() > 1e-9 {
		t.Fatalf("sleeping box has velocity %v", v)
	}
}

func TestBodyMassData(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	body := world.CreateBody(&bd)

	shape := NewPolygonShape()
	shape.SetAsBox(1.0, 1.0)
	body.CreateFixture(shape, 2.0)

	// A 2x2 box of density 2 has mass 8.
	if math.Abs(body.GetMass()-8.0) > 1e-9 {
		t.Fatalf("mass = %v, want 8", body.GetMass())
	}

	var md MassData
	body.GetMassData(&md)
	if math.Abs(md.Center.X) > 1e-9 || math.Abs(md.Center.Y) > 1e-9 {
		t.Fatalf("center of mass = %v, want origin", md.Center)
	}
}

func TestDestroyBodyRemovesContacts(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	makeGround(world)
	box := makeFallingBox(world, Vec2{0.0, 4.0})

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	if world.GetContactCount() == 0 {
		t.Fatal("box on ground should have a contact")
	}

	world.DestroyBody(box)

	if world.GetBodyCount() != 1 {
		t.Fatalf("body count = %d, want 1", world.GetBodyCount())
	}
	if world.GetContactCount() != 0 {
		t.Fatalf("contact count = %d, want 0", world.GetContactCount())
	}
}

type recordingListener struct {
	begin int
	end   int
}

func (l *recordingListener) BeginContact(contact *Contact)                       { l.begin++ }
func (l *recordingListener) EndContact(contact *Contact)                         { l.end++ }
func (l *recordingListener) PreSolve(contact *Contact, oldManifold Manifold)     {}
func (l *recordingListener) PostSolve(contact *Contact, impulse *ContactImpulse) {}

func TestContactListenerTransitions(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	listener := &recordingListener{}
	world.SetContactListener(listener)

	makeGround(world)
	box := makeFallingBox(world, Vec2{0.0, 4.0})

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	if listener.begin == 0 {
		t.Fatal("landing must fire BeginContact")
	}

	// Throw the box upward until the contact separates.
	box.SetLinearVelocity(Vec2{0.0, 20.0})
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	if listener.end == 0 {
		t.Fatal("separation must fire EndContact")
	}
}

func TestSensorReportsNoCollision(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})
	listener := &recordingListener{}
	world.SetContactListener(listener)

	// A static sensor plate where the ground would be.
	bd := MakeBodyDef()
	bd.Position = Vec2{0.0, 0.0}
	plate := world.CreateBody(&bd)

	shape := NewPolygonShape()
	shape.SetAsBox(50.0, 1.0)

	fd := MakeFixtureDef()
	fd.Shape = shape
	fd.IsSensor = true
	plate.CreateFixtureFromDef(&fd)

	box := makeFallingBox(world, Vec2{0.0, 4.0})

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	if listener.begin == 0 {
		t.Fatal("sensor must still report BeginContact")
	}

	// The sensor generates no response, so the box falls through.
	if box.GetPosition().Y > -1.0 {
		t.Fatalf("box y = %v, want below the sensor", box.GetPosition().Y)
	}
}

func TestQueryAABB(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, 0.0})

	bd := MakeBodyDef()
	bd.Position = Vec2{0.0, 0.0}
	body := world.CreateBody(&bd)

	shape := NewCircleShape(1.0)
	fixture := body.CreateFixture(shape, 0.0)

	// A step registers the proxies with the broad phase.
	world.Step(DefaultStepConf(1.0 / 60.0))

	var found []*Fixture
	world.QueryAABB(func(f *Fixture) bool {
		found = append(found, f)
		return true
	}, AABB{LowerBound: Vec2{-2.0, -2.0}, UpperBound: Vec2{2.0, 2.0}})

	if len(found) != 1 || found[0] != fixture {
		t.Fatalf("query found %d fixtures, want the circle", len(found))
	}

	found = found[:0]
	world.QueryAABB(func(f *Fixture) bool {
		found = append(found, f)
		return true
	}, AABB{LowerBound: Vec2{10.0, 10.0}, UpperBound: Vec2{12.0, 12.0}})

	if len(found) != 0 {
		t.Fatalf("distant query found %d fixtures, want none", len(found))
	}
}

func TestRayCast(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, 0.0})

	bd := MakeBodyDef()
	bd.Position = Vec2{5.0, 0.0}
	body := world.CreateBody(&bd)

	shape := NewCircleShape(1.0)
	body.CreateFixture(shape, 0.0)

	world.Step(DefaultStepConf(1.0 / 60.0))

	var hitPoint Vec2
	hits := 0
	world.RayCast(func(fixture *Fixture, point Vec2, normal Vec2, fraction float64) float64 {
		hits++
		hitPoint = point
		return fraction
	}, Vec2{0.0, 0.0}, Vec2{10.0, 0.0})

	if hits != 1 {
		t.Fatalf("ray cast hits = %d, want 1", hits)
	}
	// The ray enters the circle at x=4.
	if math.Abs(hitPoint.X-4.0) > 1e-6 || math.Abs(hitPoint.Y) > 1e-6 {
		t.Fatalf("hit point = %v, want (4,0)", hitPoint)
	}
}

func TestBulletTunneling(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, 0.0})

	// A thin static wall.
	bd := MakeBodyDef()
	bd.Position = Vec2{0.0, 0.0}
	wall := world.CreateBody(&bd)
	wallShape := NewPolygonShape()
	wallShape.SetAsBox(0.1, 10.0)
	wall.CreateFixture(wallShape, 0.0)

	// A fast bullet heading for the wall.
	bd = MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{-10.0, 0.0}
	bd.Bullet = true
	bd.LinearVelocity = Vec2{200.0, 0.0}
	bullet := world.CreateBody(&bd)
	bulletShape := NewCircleShape(0.25)
	bullet.CreateFixture(bulletShape, 1.0)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	// Continuous collision must stop the bullet at the wall.
	if bullet.GetPosition().X > 0.0 {
		t.Fatalf("bullet tunneled through the wall to x = %v", bullet.GetPosition().X)
	}
}

func TestShiftOrigin(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{100.0, 50.0}
	body := world.CreateBody(&bd)
	body.CreateFixture(NewCircleShape(1.0), 1.0)

	world.ShiftOrigin(Vec2{100.0, 0.0})

	pos := body.GetPosition()
	if math.Abs(pos.X) > 1e-9 || math.Abs(pos.Y-50.0) > 1e-9 {
		t.Fatalf("position after shift = %v, want (0,50)", pos)
	}
}

func TestGravityScale(t *testing.T) {
	world := NewWorld(DefaultConfig(), Vec2{0.0, -10.0})

	bd := MakeBodyDef()
	bd.Type = DynamicBody
	bd.Position = Vec2{0.0, 10.0}
	bd.GravityScale = 0.0
	floater := world.CreateBody(&bd)
	floater.CreateFixture(NewCircleShape(0.5), 1.0)

	conf := DefaultStepConf(1.0 / 60.0)
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	if math.Abs(floater.GetPosition().Y-10.0) > 1e-9 {
		t.Fatalf("zero gravity scale body moved to y = %v", floater.GetPosition().Y)
	}
}
