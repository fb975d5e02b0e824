package impulse

// DestructionListener receives notifications when joints and fixtures are
// destroyed implicitly, for example when a body is destroyed. This lets the
// application nullify references to them.
type DestructionListener interface {
	SayGoodbyeToJoint(joint Joint)
	SayGoodbyeToFixture(fixture *Fixture)
}

// ContactFilter lets the application override the default contact filtering.
type ContactFilter interface {
	// ShouldCollide reports whether contact calculations should be performed
	// between these two fixtures.
	ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool
}

// defaultContactFilter implements the category/mask/group semantics.
type defaultContactFilter struct{}

func (defaultContactFilter) ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool {
	filterA := fixtureA.Filter
	filterB := fixtureB.Filter

	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	return (filterA.MaskBits&filterB.CategoryBits) != 0 && (filterA.CategoryBits&filterB.MaskBits) != 0
}

// ContactImpulse reports the impulses applied by a contact during PostSolve.
// The entries match the manifold points of the contact.
type ContactImpulse struct {
	NormalImpulses  [maxManifoldPoints]float64
	TangentImpulses [maxManifoldPoints]float64
	Count           int
}

// ContactListener receives contact events. The callbacks run inside the time
// step, so the world is locked: you cannot create or destroy entities from
// them. BeginContact and EndContact fire when two fixtures start and stop
// touching; for sensors only these two fire. PreSolve runs after a contact is
// updated and before the solver, with the previous manifold available to
// detect point transitions; disabling the contact there suppresses it for the
// current step only. PostSolve reports the solver impulses.
type ContactListener interface {
	BeginContact(contact *Contact)
	EndContact(contact *Contact)
	PreSolve(contact *Contact, oldManifold Manifold)
	PostSolve(contact *Contact, impulse *ContactImpulse)
}

// RayCastCallback is called for each fixture found in a ray cast query. The
// return value controls how the ray continues:
// return -1 to ignore this fixture and continue,
// return 0 to terminate the ray cast,
// return fraction to clip the ray to this point,
// return 1 to continue without clipping.
type RayCastCallback func(fixture *Fixture, point Vec2, normal Vec2, fraction float64) float64

// QueryCallback is called for each fixture found in an AABB query. Return
// false to terminate the query.
type QueryCallback func(fixture *Fixture) bool
