package impulse

// BodyType classifies how a body participates in simulation.
// Static: zero mass, zero velocity, may be manually moved.
// Kinematic: zero mass, non-zero velocity set by user, moved by solver.
// Dynamic: positive mass, velocity determined by forces, moved by solver.
type BodyType uint8

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

// BodyDef holds all the data needed to construct a rigid body. Definitions
// can safely be reused. Shapes are added to a body after construction.
type BodyDef struct {
	// The body type: static, kinematic, or dynamic.
	// Note: if a dynamic body would have zero mass, the mass is set to one.
	Type BodyType

	// The world position of the body.
	Position Vec2

	// The world angle of the body in radians.
	Angle float64

	// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity Vec2

	// The angular velocity of the body.
	AngularVelocity float64

	// Linear damping is used to reduce the linear velocity. The damping
	// parameter can be larger than 1 but the damping effect becomes sensitive
	// to the time step when it is large. Units are 1/time.
	LinearDamping float64

	// Angular damping, same caveats as LinearDamping.
	AngularDamping float64

	// Set this flag to false if this body should never fall asleep. Note that
	// this increases CPU usage.
	AllowSleep bool

	// Is this body initially awake or sleeping?
	Awake bool

	// Should this body be prevented from rotating? Useful for characters.
	FixedRotation bool

	// Is this a fast moving body that should be prevented from tunneling
	// through other moving bodies? All bodies are prevented from tunneling
	// through kinematic and static bodies. This setting is only considered on
	// dynamic bodies. Use sparingly, it increases processing time.
	Bullet bool

	// Does this body start out active?
	Active bool

	// Use this to store application specific body data.
	UserData interface{}

	// Scale the gravity applied to this body.
	GravityScale float64
}

func MakeBodyDef() BodyDef {
	return BodyDef{
		Type:         StaticBody,
		AllowSleep:   true,
		Awake:        true,
		Active:       true,
		GravityScale: 1.0,
	}
}

const (
	bodyFlagIsland        uint32 = 0x0001
	bodyFlagAwake         uint32 = 0x0002
	bodyFlagAutoSleep     uint32 = 0x0004
	bodyFlagBullet        uint32 = 0x0008
	bodyFlagFixedRotation uint32 = 0x0010
	bodyFlagActive        uint32 = 0x0020
	bodyFlagTOI           uint32 = 0x0040
)

// Body is a rigid body. Create them via World.CreateBody.
type Body struct {
	bodyType BodyType

	flags uint32

	islandIndex int

	xf    Transform // the body origin transform
	sweep Sweep     // the swept motion for CCD

	linearVelocity  Vec2
	angularVelocity float64

	force  Vec2
	torque float64

	world *World
	prev  *Body
	next  *Body

	fixtureList  *Fixture
	fixtureCount int

	jointList   *JointEdge
	contactList *ContactEdge

	mass, invMass float64

	// Rotational inertia about the center of mass.
	i, invI float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	sleepTime float64

	userData interface{}
}

func newBody(bd *BodyDef, world *World) *Body {
	assert(bd.Position.IsValid())
	assert(bd.LinearVelocity.IsValid())
	assert(IsValidFloat(bd.Angle))
	assert(IsValidFloat(bd.AngularVelocity))
	assert(IsValidFloat(bd.AngularDamping) && bd.AngularDamping >= 0.0)
	assert(IsValidFloat(bd.LinearDamping) && bd.LinearDamping >= 0.0)

	body := &Body{}

	if bd.Bullet {
		body.flags |= bodyFlagBullet
	}
	if bd.FixedRotation {
		body.flags |= bodyFlagFixedRotation
	}
	if bd.AllowSleep {
		body.flags |= bodyFlagAutoSleep
	}
	if bd.Awake {
		body.flags |= bodyFlagAwake
	}
	if bd.Active {
		body.flags |= bodyFlagActive
	}

	body.world = world

	body.xf.P = bd.Position
	body.xf.Q.Set(bd.Angle)

	body.sweep.LocalCenter.SetZero()
	body.sweep.C0 = body.xf.P
	body.sweep.C = body.xf.P
	body.sweep.A0 = bd.Angle
	body.sweep.A = bd.Angle
	body.sweep.Alpha0 = 0.0

	body.linearVelocity = bd.LinearVelocity
	body.angularVelocity = bd.AngularVelocity

	body.linearDamping = bd.LinearDamping
	body.angularDamping = bd.AngularDamping
	body.gravityScale = bd.GravityScale

	body.bodyType = bd.Type

	if body.bodyType == DynamicBody {
		body.mass = 1.0
		body.invMass = 1.0
	}

	body.userData = bd.UserData

	return body
}

func (body *Body) Type() BodyType {
	return body.bodyType
}

// GetTransform returns the body origin transform.
func (body *Body) GetTransform() Transform {
	return body.xf
}

// GetPosition returns the world position of the body origin.
func (body *Body) GetPosition() Vec2 {
	return body.xf.P
}

// GetAngle returns the current world rotation angle in radians.
func (body *Body) GetAngle() float64 {
	return body.sweep.A
}

// GetWorldCenter returns the world position of the center of mass.
func (body *Body) GetWorldCenter() Vec2 {
	return body.sweep.C
}

// GetLocalCenter returns the local position of the center of mass.
func (body *Body) GetLocalCenter() Vec2 {
	return body.sweep.LocalCenter
}

func (body *Body) SetLinearVelocity(v Vec2) {
	if body.bodyType == StaticBody {
		return
	}

	if Dot(v, v) > 0.0 {
		body.SetAwake(true)
	}

	body.linearVelocity = v
}

func (body *Body) GetLinearVelocity() Vec2 {
	return body.linearVelocity
}

func (body *Body) SetAngularVelocity(w float64) {
	if body.bodyType == StaticBody {
		return
	}

	if w*w > 0.0 {
		body.SetAwake(true)
	}

	body.angularVelocity = w
}

func (body *Body) GetAngularVelocity() float64 {
	return body.angularVelocity
}

func (body *Body) GetMass() float64 {
	return body.mass
}

// GetInertia returns the rotational inertia about the body origin.
func (body *Body) GetInertia() float64 {
	return body.i + body.mass*Dot(body.sweep.LocalCenter, body.sweep.LocalCenter)
}

func (body *Body) GetMassData(data *MassData) {
	data.Mass = body.mass
	data.I = body.i + body.mass*Dot(body.sweep.LocalCenter, body.sweep.LocalCenter)
	data.Center = body.sweep.LocalCenter
}

func (body *Body) GetWorldPoint(localPoint Vec2) Vec2 {
	return MulXV(body.xf, localPoint)
}

func (body *Body) GetWorldVector(localVector Vec2) Vec2 {
	return MulRV(body.xf.Q, localVector)
}

func (body *Body) GetLocalPoint(worldPoint Vec2) Vec2 {
	return MulTXV(body.xf, worldPoint)
}

func (body *Body) GetLocalVector(worldVector Vec2) Vec2 {
	return MulTRV(body.xf.Q, worldVector)
}

func (body *Body) GetLinearVelocityFromWorldPoint(worldPoint Vec2) Vec2 {
	return body.linearVelocity.Add(CrossSV(body.angularVelocity, worldPoint.Sub(body.sweep.C)))
}

func (body *Body) GetLinearVelocityFromLocalPoint(localPoint Vec2) Vec2 {
	return body.GetLinearVelocityFromWorldPoint(body.GetWorldPoint(localPoint))
}

func (body *Body) GetLinearDamping() float64 {
	return body.linearDamping
}

func (body *Body) SetLinearDamping(linearDamping float64) {
	body.linearDamping = linearDamping
}

func (body *Body) GetAngularDamping() float64 {
	return body.angularDamping
}

func (body *Body) SetAngularDamping(angularDamping float64) {
	body.angularDamping = angularDamping
}

func (body *Body) GetGravityScale() float64 {
	return body.gravityScale
}

func (body *Body) SetGravityScale(scale float64) {
	body.gravityScale = scale
}

func (body *Body) SetBullet(flag bool) {
	if flag {
		body.flags |= bodyFlagBullet
	} else {
		body.flags &^= bodyFlagBullet
	}
}

func (body *Body) IsBullet() bool {
	return (body.flags & bodyFlagBullet) != 0
}

// SetAwake wakes or puts the body to sleep. Sleeping zeroes velocities and
// accumulated forces.
func (body *Body) SetAwake(flag bool) {
	if flag {
		body.flags |= bodyFlagAwake
		body.sleepTime = 0.0
	} else {
		body.flags &^= bodyFlagAwake
		body.sleepTime = 0.0
		body.linearVelocity.SetZero()
		body.angularVelocity = 0.0
		body.force.SetZero()
		body.torque = 0.0
	}
}

func (body *Body) IsAwake() bool {
	return (body.flags & bodyFlagAwake) != 0
}

func (body *Body) IsActive() bool {
	return (body.flags & bodyFlagActive) != 0
}

func (body *Body) IsFixedRotation() bool {
	return (body.flags & bodyFlagFixedRotation) != 0
}

func (body *Body) SetSleepingAllowed(flag bool) {
	if flag {
		body.flags |= bodyFlagAutoSleep
	} else {
		body.flags &^= bodyFlagAutoSleep
		body.SetAwake(true)
	}
}

func (body *Body) IsSleepingAllowed() bool {
	return (body.flags & bodyFlagAutoSleep) != 0
}

func (body *Body) GetFixtureList() *Fixture {
	return body.fixtureList
}

func (body *Body) GetJointList() *JointEdge {
	return body.jointList
}

// GetContactList returns the body contact list. A contact in the list may not
// be touching; check Contact.IsTouching.
func (body *Body) GetContactList() *ContactEdge {
	return body.contactList
}

func (body *Body) GetNext() *Body {
	return body.next
}

func (body *Body) SetUserData(data interface{}) {
	body.userData = data
}

func (body *Body) GetUserData() interface{} {
	return body.userData
}

func (body *Body) GetWorld() *World {
	return body.world
}

// ApplyForce applies a force at a world point. If the force is not applied at
// the center of mass it generates torque. Forces on sleeping bodies are not
// accumulated unless wake is set.
func (body *Body) ApplyForce(force Vec2, point Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && (body.flags&bodyFlagAwake) == 0 {
		body.SetAwake(true)
	}

	if (body.flags & bodyFlagAwake) != 0 {
		body.force = body.force.Add(force)
		body.torque += Cross(point.Sub(body.sweep.C), force)
	}
}

func (body *Body) ApplyForceToCenter(force Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && (body.flags&bodyFlagAwake) == 0 {
		body.SetAwake(true)
	}

	if (body.flags & bodyFlagAwake) != 0 {
		body.force = body.force.Add(force)
	}
}

func (body *Body) ApplyTorque(torque float64, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && (body.flags&bodyFlagAwake) == 0 {
		body.SetAwake(true)
	}

	if (body.flags & bodyFlagAwake) != 0 {
		body.torque += torque
	}
}

// ApplyLinearImpulse immediately modifies the velocity. It also modifies the
// angular velocity if the point of application is not at the center of mass.
func (body *Body) ApplyLinearImpulse(impulse Vec2, point Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && (body.flags&bodyFlagAwake) == 0 {
		body.SetAwake(true)
	}

	if (body.flags & bodyFlagAwake) != 0 {
		body.linearVelocity = body.linearVelocity.Add(impulse.Scale(body.invMass))
		body.angularVelocity += body.invI * Cross(point.Sub(body.sweep.C), impulse)
	}
}

func (body *Body) ApplyLinearImpulseToCenter(impulse Vec2, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && (body.flags&bodyFlagAwake) == 0 {
		body.SetAwake(true)
	}

	if (body.flags & bodyFlagAwake) != 0 {
		body.linearVelocity = body.linearVelocity.Add(impulse.Scale(body.invMass))
	}
}

func (body *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if body.bodyType != DynamicBody {
		return
	}

	if wake && (body.flags&bodyFlagAwake) == 0 {
		body.SetAwake(true)
	}

	if (body.flags & bodyFlagAwake) != 0 {
		body.angularVelocity += body.invI * impulse
	}
}

func (body *Body) synchronizeTransform() {
	body.xf.Q.Set(body.sweep.A)
	body.xf.P = body.sweep.C.Sub(MulRV(body.xf.Q, body.sweep.LocalCenter))
}

// advance moves the body sweep to the new safe time. This doesn't sync the
// broad-phase.
func (body *Body) advance(alpha float64) {
	body.sweep.Advance(alpha)
	body.sweep.C = body.sweep.C0
	body.sweep.A = body.sweep.A0
	body.xf.Q.Set(body.sweep.A)
	body.xf.P = body.sweep.C.Sub(MulRV(body.xf.Q, body.sweep.LocalCenter))
}

// SetType changes the body type. This alters the mass and velocity.
func (body *Body) SetType(bodyType BodyType) {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	if body.bodyType == bodyType {
		return
	}

	body.bodyType = bodyType

	body.ResetMassData()

	if body.bodyType == StaticBody {
		body.linearVelocity.SetZero()
		body.angularVelocity = 0.0
		body.sweep.A0 = body.sweep.A
		body.sweep.C0 = body.sweep.C
		body.synchronizeFixtures()
	}

	body.SetAwake(true)

	body.force.SetZero()
	body.torque = 0.0

	// Delete the attached contacts.
	ce := body.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		body.world.contactManager.destroy(ce0.Contact)
	}
	body.contactList = nil

	// Touch the proxies so that new contacts will be created (when
	// appropriate).
	broadPhase := &body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		for i := 0; i < f.proxyCount; i++ {
			broadPhase.TouchProxy(f.proxies[i].proxyId)
		}
	}
}

// CreateFixtureFromDef attaches a fixture described by a definition. This
// also updates the body mass if the fixture has a positive density.
// May not be called during callbacks.
func (body *Body) CreateFixtureFromDef(def *FixtureDef) *Fixture {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return nil
	}

	fixture := &Fixture{Filter: MakeFilter()}
	fixture.create(body, def)

	if (body.flags & bodyFlagActive) != 0 {
		broadPhase := &body.world.contactManager.broadPhase
		fixture.createProxies(broadPhase, body.xf)
	}

	fixture.next = body.fixtureList
	body.fixtureList = fixture
	body.fixtureCount++

	fixture.body = body

	// Adjust mass properties if needed.
	if fixture.density > 0.0 {
		body.ResetMassData()
	}

	// Let the world know we have a new fixture. This will cause new contacts
	// to be created at the beginning of the next time step.
	body.world.flags |= worldFlagNewFixture

	return fixture
}

// CreateFixture attaches a shape with the given density, using default
// fixture settings.
func (body *Body) CreateFixture(shape Shape, density float64) *Fixture {
	def := MakeFixtureDef()
	def.Shape = shape
	def.Density = density

	return body.CreateFixtureFromDef(&def)
}

// DestroyFixture removes a fixture, destroys its contacts and proxies, and
// resets the body mass. May not be called during callbacks.
func (body *Body) DestroyFixture(fixture *Fixture) {
	if fixture == nil {
		return
	}

	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	assert(fixture.body == body)

	// Remove the fixture from this body's singly linked list.
	assert(body.fixtureCount > 0)
	node := &body.fixtureList
	found := false
	for *node != nil {
		if *node == fixture {
			*node = fixture.next
			found = true
			break
		}
		node = &(*node).next
	}

	// You tried to remove a shape that is not attached to this body.
	assert(found)

	// Destroy any contacts associated with the fixture.
	edge := body.contactList
	for edge != nil {
		c := edge.Contact
		edge = edge.Next

		if fixture == c.GetFixtureA() || fixture == c.GetFixtureB() {
			// This destroys the contact and removes it from this body's
			// contact list.
			body.world.contactManager.destroy(c)
		}
	}

	if (body.flags & bodyFlagActive) != 0 {
		broadPhase := &body.world.contactManager.broadPhase
		fixture.destroyProxies(broadPhase)
	}

	fixture.body = nil
	fixture.next = nil
	fixture.destroy()

	body.fixtureCount--

	body.ResetMassData()
}

// ResetMassData recomputes mass, center of mass and inertia from the
// fixtures. Normally this happens automatically; call it after altering mass
// data directly.
func (body *Body) ResetMassData() {
	// Compute mass data from shapes. Each shape has its own density.
	body.mass = 0.0
	body.invMass = 0.0
	body.i = 0.0
	body.invI = 0.0
	body.sweep.LocalCenter.SetZero()

	// Static and kinematic bodies have zero mass.
	if body.bodyType == StaticBody || body.bodyType == KinematicBody {
		body.sweep.C0 = body.xf.P
		body.sweep.C = body.xf.P
		body.sweep.A0 = body.sweep.A
		return
	}

	assert(body.bodyType == DynamicBody)

	// Accumulate mass over all fixtures.
	localCenter := Vec2{}
	for f := body.fixtureList; f != nil; f = f.next {
		if f.density == 0.0 {
			continue
		}

		var massData MassData
		f.GetMassData(&massData)
		body.mass += massData.Mass
		localCenter = localCenter.Add(massData.Center.Scale(massData.Mass))
		body.i += massData.I
	}

	// Compute center of mass.
	if body.mass > 0.0 {
		body.invMass = 1.0 / body.mass
		localCenter = localCenter.Scale(body.invMass)
	} else {
		// Force all dynamic bodies to have a positive mass.
		body.mass = 1.0
		body.invMass = 1.0
	}

	if body.i > 0.0 && (body.flags&bodyFlagFixedRotation) == 0 {
		// Center the inertia about the center of mass.
		body.i -= body.mass * Dot(localCenter, localCenter)
		assert(body.i > 0.0)
		body.invI = 1.0 / body.i
	} else {
		body.i = 0.0
		body.invI = 0.0
	}

	// Move center of mass.
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = localCenter
	body.sweep.C0 = MulXV(body.xf, body.sweep.LocalCenter)
	body.sweep.C = body.sweep.C0

	// Update center of mass velocity.
	body.linearVelocity = body.linearVelocity.Add(CrossSV(body.angularVelocity, body.sweep.C.Sub(oldCenter)))
}

// SetMassData overrides the mass properties. Calling ResetMassData or adding
// a fixture recomputes them.
func (body *Body) SetMassData(massData *MassData) {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	if body.bodyType != DynamicBody {
		return
	}

	body.invMass = 0.0
	body.i = 0.0
	body.invI = 0.0

	body.mass = massData.Mass
	if body.mass <= 0.0 {
		body.mass = 1.0
	}

	body.invMass = 1.0 / body.mass

	if massData.I > 0.0 && (body.flags&bodyFlagFixedRotation) == 0 {
		body.i = massData.I - body.mass*Dot(massData.Center, massData.Center)
		assert(body.i > 0.0)
		body.invI = 1.0 / body.i
	}

	// Move center of mass.
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = massData.Center
	body.sweep.C0 = MulXV(body.xf, body.sweep.LocalCenter)
	body.sweep.C = body.sweep.C0

	// Update center of mass velocity.
	body.linearVelocity = body.linearVelocity.Add(CrossSV(body.angularVelocity, body.sweep.C.Sub(oldCenter)))
}

// ShouldCollide reports whether contacts are allowed between this body and
// another, considering body types and connecting joints.
func (body *Body) ShouldCollide(other *Body) bool {
	// At least one body should be dynamic.
	if body.bodyType != DynamicBody && other.bodyType != DynamicBody {
		return false
	}

	// Does a joint prevent collision?
	for jn := body.jointList; jn != nil; jn = jn.Next {
		if jn.Other == other {
			if !jn.Joint.header().collideConnected {
				return false
			}
		}
	}

	return true
}

// SetTransform teleports the body. This breaks any contacts and wakes the
// other bodies on the next step.
func (body *Body) SetTransform(position Vec2, angle float64) {
	assert(!body.world.IsLocked())
	if body.world.IsLocked() {
		return
	}

	body.xf.Q.Set(angle)
	body.xf.P = position

	body.sweep.C = MulXV(body.xf, body.sweep.LocalCenter)
	body.sweep.A = angle

	body.sweep.C0 = body.sweep.C
	body.sweep.A0 = angle

	broadPhase := &body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, body.xf, body.xf)
	}
}

func (body *Body) synchronizeFixtures() {
	var xf1 Transform
	xf1.Q.Set(body.sweep.A0)
	xf1.P = body.sweep.C0.Sub(MulRV(xf1.Q, body.sweep.LocalCenter))

	broadPhase := &body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, xf1, body.xf)
	}
}

// SetActive creates or destroys the broad-phase proxies of all fixtures. An
// inactive body keeps its fixtures and joints but takes no part in
// simulation.
func (body *Body) SetActive(flag bool) {
	assert(!body.world.IsLocked())

	if flag == body.IsActive() {
		return
	}

	if flag {
		body.flags |= bodyFlagActive

		// Create all proxies. Contacts are created the next time step.
		broadPhase := &body.world.contactManager.broadPhase
		for f := body.fixtureList; f != nil; f = f.next {
			f.createProxies(broadPhase, body.xf)
		}
	} else {
		body.flags &^= bodyFlagActive

		// Destroy all proxies.
		broadPhase := &body.world.contactManager.broadPhase
		for f := body.fixtureList; f != nil; f = f.next {
			f.destroyProxies(broadPhase)
		}

		// Destroy the attached contacts.
		ce := body.contactList
		for ce != nil {
			ce0 := ce
			ce = ce.Next
			body.world.contactManager.destroy(ce0.Contact)
		}
		body.contactList = nil
	}
}

// SetFixedRotation locks the rotation. This zeroes the angular velocity and
// recomputes mass data.
func (body *Body) SetFixedRotation(flag bool) {
	status := (body.flags & bodyFlagFixedRotation) != 0
	if status == flag {
		return
	}

	if flag {
		body.flags |= bodyFlagFixedRotation
	} else {
		body.flags &^= bodyFlagFixedRotation
	}

	body.angularVelocity = 0.0

	body.ResetMassData()
}
