package impulse

// Filter holds contact filtering data.
type Filter struct {
	// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	// The collision mask bits. This states the categories that this shape
	// would accept for collision.
	MaskBits uint16

	// Collision groups allow a certain group of objects to never collide
	// (negative) or always collide (positive). Zero means no collision group.
	// Non-zero group filtering always wins against the mask bits.
	GroupIndex int16
}

func MakeFilter() Filter {
	return Filter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
		GroupIndex:   0,
	}
}

// FixtureDef is used to create a fixture. The shape is cloned, so definitions
// can be reused safely.
type FixtureDef struct {
	// The shape, this must be set.
	Shape Shape

	// Use this to store application specific fixture data.
	UserData interface{}

	// The friction coefficient, usually in the range [0,1].
	Friction float64

	// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	// The density, usually in kg/m^2.
	Density float64

	// A sensor shape collects contact information but never generates a
	// collision response.
	IsSensor bool

	// Contact filtering data.
	Filter Filter
}

func MakeFixtureDef() FixtureDef {
	return FixtureDef{
		Friction: 0.2,
		Filter:   MakeFilter(),
	}
}

// fixtureProxy connects a fixture child to the broad-phase.
type fixtureProxy struct {
	aabb       AABB
	fixture    *Fixture
	childIndex int
	proxyId    int
}

// Fixture attaches a shape to a body for collision detection. A fixture
// inherits its transform from its parent and holds the non-geometric data:
// friction, restitution, density, filtering, sensor flag. Fixtures are
// created via Body.CreateFixture and cannot be reused.
type Fixture struct {
	density float64

	next *Fixture
	body *Body

	shape Shape

	friction    float64
	restitution float64

	proxies    []fixtureProxy
	proxyCount int

	Filter Filter

	isSensor bool

	userData interface{}
}

func (fix *Fixture) Type() ShapeType {
	return fix.shape.Type()
}

func (fix *Fixture) GetShape() Shape {
	return fix.shape
}

func (fix *Fixture) IsSensor() bool {
	return fix.isSensor
}

func (fix *Fixture) GetUserData() interface{} {
	return fix.userData
}

func (fix *Fixture) SetUserData(data interface{}) {
	fix.userData = data
}

func (fix *Fixture) GetBody() *Body {
	return fix.body
}

func (fix *Fixture) GetNext() *Fixture {
	return fix.next
}

func (fix *Fixture) SetDensity(density float64) {
	assert(IsValidFloat(density) && density >= 0.0)
	fix.density = density
}

func (fix *Fixture) GetDensity() float64 {
	return fix.density
}

func (fix *Fixture) GetFriction() float64 {
	return fix.friction
}

// SetFriction will not change the friction of existing contacts.
func (fix *Fixture) SetFriction(friction float64) {
	fix.friction = friction
}

func (fix *Fixture) GetRestitution() float64 {
	return fix.restitution
}

// SetRestitution will not change the restitution of existing contacts.
func (fix *Fixture) SetRestitution(restitution float64) {
	fix.restitution = restitution
}

// TestPoint tests a world point for containment in this fixture.
func (fix *Fixture) TestPoint(p Vec2) bool {
	return fix.shape.TestPoint(fix.body.GetTransform(), p)
}

// RayCast casts a ray against this fixture in world space.
func (fix *Fixture) RayCast(output *RayCastOutput, input RayCastInput, childIndex int) bool {
	return fix.shape.RayCast(output, input, fix.body.GetTransform(), childIndex)
}

// GetMassData computes the mass data using the fixture density.
func (fix *Fixture) GetMassData(massData *MassData) {
	fix.shape.ComputeMass(massData, fix.density)
}

// GetAABB returns the broad-phase AABB of a child. It may be out of date by
// as much as the fattening margin.
func (fix *Fixture) GetAABB(childIndex int) AABB {
	assert(0 <= childIndex && childIndex < fix.proxyCount)
	return fix.proxies[childIndex].aabb
}

func (fix *Fixture) create(body *Body, def *FixtureDef) {
	fix.userData = def.UserData
	fix.friction = def.Friction
	fix.restitution = def.Restitution

	fix.body = body
	fix.next = nil

	fix.Filter = def.Filter

	fix.isSensor = def.IsSensor

	fix.shape = def.Shape.Clone()

	// Reserve proxy space.
	childCount := fix.shape.ChildCount()
	fix.proxies = make([]fixtureProxy, childCount)
	for i := 0; i < childCount; i++ {
		fix.proxies[i].proxyId = nullProxy
	}
	fix.proxyCount = 0

	fix.density = def.Density
}

func (fix *Fixture) destroy() {
	// The proxies must be destroyed before calling this.
	assert(fix.proxyCount == 0)

	fix.proxies = nil
	fix.shape = nil
}

func (fix *Fixture) createProxies(broadPhase *BroadPhase, xf Transform) {
	assert(fix.proxyCount == 0)

	// Create proxies in the broad-phase.
	fix.proxyCount = fix.shape.ChildCount()

	for i := 0; i < fix.proxyCount; i++ {
		proxy := &fix.proxies[i]
		fix.shape.ComputeAABB(&proxy.aabb, xf, i)
		proxy.proxyId = broadPhase.CreateProxy(proxy.aabb, proxy)
		proxy.fixture = fix
		proxy.childIndex = i
	}
}

func (fix *Fixture) destroyProxies(broadPhase *BroadPhase) {
	for i := 0; i < fix.proxyCount; i++ {
		proxy := &fix.proxies[i]
		broadPhase.DestroyProxy(proxy.proxyId)
		proxy.proxyId = nullProxy
	}

	fix.proxyCount = 0
}

func (fix *Fixture) synchronize(broadPhase *BroadPhase, transform1 Transform, transform2 Transform) {
	if fix.proxyCount == 0 {
		return
	}

	for i := 0; i < fix.proxyCount; i++ {
		proxy := &fix.proxies[i]

		// Compute an AABB that covers the swept shape (may miss some rotation
		// effect).
		var aabb1, aabb2 AABB
		fix.shape.ComputeAABB(&aabb1, transform1, proxy.childIndex)
		fix.shape.ComputeAABB(&aabb2, transform2, proxy.childIndex)

		proxy.aabb.CombineTwo(aabb1, aabb2)

		displacement := transform2.P.Sub(transform1.P)

		broadPhase.MoveProxy(proxy.proxyId, proxy.aabb, displacement)
	}
}

// SetFilterData replaces the filter and refilters existing contacts.
func (fix *Fixture) SetFilterData(filter Filter) {
	fix.Filter = filter
	fix.Refilter()
}

// Refilter flags associated contacts for re-filtering on the next step.
func (fix *Fixture) Refilter() {
	if fix.body == nil {
		return
	}

	// Flag associated contacts for filtering.
	for edge := fix.body.GetContactList(); edge != nil; edge = edge.Next {
		contact := edge.Contact
		if contact.GetFixtureA() == fix || contact.GetFixtureB() == fix {
			contact.FlagForFiltering()
		}
	}

	world := fix.body.GetWorld()
	if world == nil {
		return
	}

	// Touch each proxy so that new pairs may be created.
	broadPhase := &world.contactManager.broadPhase
	for i := 0; i < fix.proxyCount; i++ {
		broadPhase.TouchProxy(fix.proxies[i].proxyId)
	}
}

// SetSensor changes the sensor flag and wakes the body.
func (fix *Fixture) SetSensor(sensor bool) {
	if sensor != fix.isSensor {
		fix.body.SetAwake(true)
		fix.isSensor = sensor
	}
}
