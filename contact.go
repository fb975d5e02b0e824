package impulse

import "math"

// mixFriction lets either fixture drive the friction to zero. For example,
// anything slides on ice.
func mixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

// mixRestitution allows for anything to bounce off an inelastic surface. For
// example, a superball bounces on anything.
func mixRestitution(restitution1, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}

	return restitution2
}

// ContactEdge connects bodies and contacts together in a contact graph where
// each body is a node and each contact is an edge. A contact edge belongs to
// a doubly linked list maintained in each attached body. Each contact has two
// contact nodes, one for each attached body.
type ContactEdge struct {
	Other   *Body
	Contact *Contact
	Prev    *ContactEdge
	Next    *ContactEdge
}

const (
	// Used when crawling the contact graph when forming islands.
	contactFlagIsland uint32 = 0x0001

	// Set when the shapes are touching.
	contactFlagTouching uint32 = 0x0002

	// This contact can be disabled (by user).
	contactFlagEnabled uint32 = 0x0004

	// This contact needs filtering because a fixture filter was changed.
	contactFlagFilter uint32 = 0x0008

	// This bullet contact had a TOI event.
	contactFlagBulletHit uint32 = 0x0010

	// This contact has a valid TOI in toi.
	contactFlagTOI uint32 = 0x0020
)

// contactEvaluateFcn computes the manifold for a specific pair of shape
// types. The child indices select a segment when a shape is a chain.
type contactEvaluateFcn func(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform)

// contactRegister maps an ordered pair of shape types to its evaluate
// function. Primary is set on the canonical ordering; for the mirrored
// ordering the fixtures are swapped at creation time.
type contactRegister struct {
	evaluate contactEvaluateFcn
	primary  bool
}

var contactRegisters [shapeTypeCount][shapeTypeCount]contactRegister

func registerContactType(evaluate contactEvaluateFcn, type1 ShapeType, type2 ShapeType) {
	contactRegisters[type1][type2].evaluate = evaluate
	contactRegisters[type1][type2].primary = true

	if type1 != type2 {
		contactRegisters[type2][type1].evaluate = evaluate
		contactRegisters[type2][type1].primary = false
	}
}

func init() {
	registerContactType(evaluateCircles, CircleShapeType, CircleShapeType)
	registerContactType(evaluatePolygonAndCircle, PolygonShapeType, CircleShapeType)
	registerContactType(evaluatePolygons, PolygonShapeType, PolygonShapeType)
	registerContactType(evaluateEdgeAndCircle, EdgeShapeType, CircleShapeType)
	registerContactType(evaluateEdgeAndPolygon, EdgeShapeType, PolygonShapeType)
	registerContactType(evaluateChainAndCircle, ChainShapeType, CircleShapeType)
	registerContactType(evaluateChainAndPolygon, ChainShapeType, PolygonShapeType)
}

func evaluateCircles(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) {
	CollideCircles(cfg, manifold, shapeA.(*CircleShape), xfA, shapeB.(*CircleShape), xfB)
}

func evaluatePolygonAndCircle(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) {
	CollidePolygonAndCircle(cfg, manifold, shapeA.(*PolygonShape), xfA, shapeB.(*CircleShape), xfB)
}

func evaluatePolygons(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) {
	CollidePolygons(cfg, manifold, shapeA.(*PolygonShape), xfA, shapeB.(*PolygonShape), xfB)
}

func evaluateEdgeAndCircle(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) {
	CollideEdgeAndCircle(cfg, manifold, shapeA.(*EdgeShape), xfA, shapeB.(*CircleShape), xfB)
}

func evaluateEdgeAndPolygon(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) {
	CollideEdgeAndPolygon(cfg, manifold, shapeA.(*EdgeShape), xfA, shapeB.(*PolygonShape), xfB)
}

func evaluateChainAndCircle(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) {
	chain := shapeA.(*ChainShape)
	var edge EdgeShape
	chain.GetChildEdge(&edge, indexA)
	CollideEdgeAndCircle(cfg, manifold, &edge, xfA, shapeB.(*CircleShape), xfB)
}

func evaluateChainAndPolygon(cfg Config, manifold *Manifold, shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) {
	chain := shapeA.(*ChainShape)
	var edge EdgeShape
	chain.GetChildEdge(&edge, indexA)
	CollideEdgeAndPolygon(cfg, manifold, &edge, xfA, shapeB.(*PolygonShape), xfB)
}

// Contact manages contact between two shapes. A contact exists for each
// overlapping AABB in the broad-phase (except if filtered), so a contact
// object may exist that has no contact points.
type Contact struct {
	flags uint32

	// World contact list pointers.
	prev *Contact
	next *Contact

	// Nodes for connecting bodies.
	nodeA ContactEdge
	nodeB ContactEdge

	fixtureA *Fixture
	fixtureB *Fixture

	indexA int
	indexB int

	manifold Manifold

	evaluateFcn contactEvaluateFcn

	toiCount     int
	toi          float64
	friction     float64
	restitution  float64
	tangentSpeed float64
}

// newContact creates a contact for the fixture pair, swapping the fixtures
// so that the shape types are in the registry's canonical order. It returns
// nil for shape type pairs with no collision routine.
func newContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) *Contact {
	type1 := fixtureA.Type()
	type2 := fixtureB.Type()

	assert(type1 < shapeTypeCount)
	assert(type2 < shapeTypeCount)

	reg := contactRegisters[type1][type2]
	if reg.evaluate == nil {
		return nil
	}

	if !reg.primary {
		fixtureA, fixtureB = fixtureB, fixtureA
		indexA, indexB = indexB, indexA
	}

	c := &Contact{
		flags:       contactFlagEnabled,
		fixtureA:    fixtureA,
		fixtureB:    fixtureB,
		indexA:      indexA,
		indexB:      indexB,
		evaluateFcn: reg.evaluate,
	}

	c.friction = mixFriction(fixtureA.friction, fixtureB.friction)
	c.restitution = mixRestitution(fixtureA.restitution, fixtureB.restitution)

	return c
}

// GetManifold returns the contact manifold. It holds local coordinates and
// should not be modified.
func (c *Contact) GetManifold() *Manifold {
	return &c.manifold
}

// GetWorldManifold computes the world manifold from the local one.
func (c *Contact) GetWorldManifold(worldManifold *WorldManifold) {
	bodyA := c.fixtureA.GetBody()
	bodyB := c.fixtureB.GetBody()
	shapeA := c.fixtureA.GetShape()
	shapeB := c.fixtureB.GetShape()

	worldManifold.Initialize(&c.manifold, bodyA.GetTransform(), shapeA.Radius(), bodyB.GetTransform(), shapeB.Radius())
}

// IsTouching reports whether the shapes are touching.
func (c *Contact) IsTouching() bool {
	return (c.flags & contactFlagTouching) != 0
}

// SetEnabled enables or disables the contact. The setting persists until
// changed again; it only suppresses the collision response, the contact is
// still updated.
func (c *Contact) SetEnabled(flag bool) {
	if flag {
		c.flags |= contactFlagEnabled
	} else {
		c.flags &^= contactFlagEnabled
	}
}

func (c *Contact) IsEnabled() bool {
	return (c.flags & contactFlagEnabled) != 0
}

// GetNext returns the next contact in the world contact list.
func (c *Contact) GetNext() *Contact {
	return c.next
}

func (c *Contact) GetFixtureA() *Fixture {
	return c.fixtureA
}

// GetChildIndexA returns the child index of the primary shape, meaningful
// for chains.
func (c *Contact) GetChildIndexA() int {
	return c.indexA
}

func (c *Contact) GetFixtureB() *Fixture {
	return c.fixtureB
}

func (c *Contact) GetChildIndexB() int {
	return c.indexB
}

// SetFriction overrides the mixed friction. This persists until a fixture
// changes or ResetFriction is called.
func (c *Contact) SetFriction(friction float64) {
	c.friction = friction
}

func (c *Contact) GetFriction() float64 {
	return c.friction
}

func (c *Contact) ResetFriction() {
	c.friction = mixFriction(c.fixtureA.friction, c.fixtureB.friction)
}

// SetRestitution overrides the mixed restitution.
func (c *Contact) SetRestitution(restitution float64) {
	c.restitution = restitution
}

func (c *Contact) GetRestitution() float64 {
	return c.restitution
}

func (c *Contact) ResetRestitution() {
	c.restitution = mixRestitution(c.fixtureA.restitution, c.fixtureB.restitution)
}

// SetTangentSpeed sets the desired surface speed for conveyor belt behavior,
// in meters per second.
func (c *Contact) SetTangentSpeed(speed float64) {
	c.tangentSpeed = speed
}

func (c *Contact) GetTangentSpeed() float64 {
	return c.tangentSpeed
}

// FlagForFiltering marks the contact for re-filtering on the next step.
func (c *Contact) FlagForFiltering() {
	c.flags |= contactFlagFilter
}

// Evaluate computes the manifold for the current shape transforms.
func (c *Contact) Evaluate(cfg Config, manifold *Manifold, xfA Transform, xfB Transform) {
	c.evaluateFcn(cfg, manifold, c.fixtureA.GetShape(), c.indexA, xfA, c.fixtureB.GetShape(), c.indexB, xfB)
}

// update recomputes the manifold and touching status. The fixture AABBs are
// not assumed to be overlapping or valid. Warm starting impulses are carried
// over from manifold points whose id matches.
func (c *Contact) update(cfg Config, listener ContactListener) {
	oldManifold := c.manifold

	// Re-enable this contact.
	c.flags |= contactFlagEnabled

	touching := false
	wasTouching := (c.flags & contactFlagTouching) != 0

	sensorA := c.fixtureA.IsSensor()
	sensorB := c.fixtureB.IsSensor()
	sensor := sensorA || sensorB

	bodyA := c.fixtureA.GetBody()
	bodyB := c.fixtureB.GetBody()
	xfA := bodyA.GetTransform()
	xfB := bodyB.GetTransform()

	if sensor {
		shapeA := c.fixtureA.GetShape()
		shapeB := c.fixtureB.GetShape()
		touching = TestOverlapShapes(shapeA, c.indexA, shapeB, c.indexB, xfA, xfB)

		// Sensors don't generate manifolds.
		c.manifold.PointCount = 0
	} else {
		c.Evaluate(cfg, &c.manifold, xfA, xfB)
		touching = c.manifold.PointCount > 0

		// Match old contact ids to new contact ids and copy the stored
		// impulses to warm start the solver.
		for i := 0; i < c.manifold.PointCount; i++ {
			mp2 := &c.manifold.Points[i]
			mp2.NormalImpulse = 0.0
			mp2.TangentImpulse = 0.0
			id2 := mp2.Id

			for j := 0; j < oldManifold.PointCount; j++ {
				mp1 := &oldManifold.Points[j]

				if mp1.Id.Key() == id2.Key() {
					mp2.NormalImpulse = mp1.NormalImpulse
					mp2.TangentImpulse = mp1.TangentImpulse
					break
				}
			}
		}

		if touching != wasTouching {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
	}

	if touching {
		c.flags |= contactFlagTouching
	} else {
		c.flags &^= contactFlagTouching
	}

	if !wasTouching && touching && listener != nil {
		listener.BeginContact(c)
	}

	if wasTouching && !touching && listener != nil {
		listener.EndContact(c)
	}

	if !sensor && touching && listener != nil {
		listener.PreSolve(c, oldManifold)
	}
}
