package impulse

import (
	"math"
	"time"
)

const (
	worldFlagNewFixture  uint32 = 0x0001
	worldFlagLocked      uint32 = 0x0002
	worldFlagClearForces uint32 = 0x0004
)

// World manages all simulation entities: bodies, fixtures, joints and
// contacts. It drives the broad phase, the narrow phase, the constraint
// solver and continuous collision.
//
// The world is locked during Step. Creating or destroying bodies, fixtures
// and joints from a callback is not allowed; defer those operations until the
// step returns.
type World struct {
	cfg   Config
	flags uint32

	contactManager contactManager

	bodyList  *Body
	jointList Joint

	bodyCount  int
	jointCount int

	gravity    Vec2
	allowSleep bool

	destructionListener DestructionListener

	// Used to compute the time step ratio that supports a variable time
	// step.
	invDt0 float64

	subStepping  bool // set per step from StepConf
	stepComplete bool

	profile Profile
}

// NewWorld constructs a world with the given tuning configuration and
// gravity vector.
func NewWorld(cfg Config, gravity Vec2) *World {
	return &World{
		cfg:            cfg,
		flags:          worldFlagClearForces,
		contactManager: makeContactManager(cfg),
		gravity:        gravity,
		allowSleep:     true,
		stepComplete:   true,
	}
}

// Config returns the tuning configuration the world was created with.
func (world *World) Config() Config {
	return world.cfg
}

// GetBodyList returns the head of the world body list.
func (world *World) GetBodyList() *Body {
	return world.bodyList
}

// GetJointList returns the head of the world joint list.
func (world *World) GetJointList() Joint {
	return world.jointList
}

// GetContactList returns the head of the world contact list. Contacts are
// created and destroyed in the middle of a time step, so consider using
// ContactListener to avoid missing them.
func (world *World) GetContactList() *Contact {
	return world.contactManager.contactList
}

func (world *World) GetBodyCount() int {
	return world.bodyCount
}

func (world *World) GetJointCount() int {
	return world.jointCount
}

func (world *World) GetContactCount() int {
	return world.contactManager.contactCount
}

func (world *World) SetGravity(gravity Vec2) {
	world.gravity = gravity
}

func (world *World) GetGravity() Vec2 {
	return world.gravity
}

// IsLocked reports whether the world is in the middle of a time step.
func (world *World) IsLocked() bool {
	return (world.flags & worldFlagLocked) == worldFlagLocked
}

// SetAutoClearForces controls the automatic clearing of forces after each
// time step.
func (world *World) SetAutoClearForces(flag bool) {
	if flag {
		world.flags |= worldFlagClearForces
	} else {
		world.flags &^= worldFlagClearForces
	}
}

func (world *World) GetAutoClearForces() bool {
	return (world.flags & worldFlagClearForces) == worldFlagClearForces
}

// GetProfile returns the timing of the last step, in milliseconds.
func (world *World) GetProfile() Profile {
	return world.profile
}

func (world *World) SetDestructionListener(listener DestructionListener) {
	world.destructionListener = listener
}

// SetContactFilter registers a custom collision filter. The default filter
// uses the fixture category and mask bits.
func (world *World) SetContactFilter(filter ContactFilter) {
	world.contactManager.contactFilter = filter
}

// SetContactListener registers a listener for contact events.
func (world *World) SetContactListener(listener ContactListener) {
	world.contactManager.contactListener = listener
}

// CreateBody creates a rigid body from a definition. No reference to the
// definition is retained. This function is locked during callbacks.
func (world *World) CreateBody(def *BodyDef) *Body {
	assert(!world.IsLocked())
	if world.IsLocked() {
		return nil
	}

	b := newBody(def, world)

	// Add to world doubly linked list.
	b.prev = nil
	b.next = world.bodyList
	if world.bodyList != nil {
		world.bodyList.prev = b
	}
	world.bodyList = b
	world.bodyCount++

	return b
}

// DestroyBody destroys a body and all attached fixtures, joints and
// contacts. This function is locked during callbacks.
func (world *World) DestroyBody(b *Body) {
	assert(world.bodyCount > 0)
	assert(!world.IsLocked())
	if world.IsLocked() {
		return
	}

	// Delete the attached joints.
	je := b.jointList
	for je != nil {
		je0 := je
		je = je.Next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToJoint(je0.Joint)
		}

		world.DestroyJoint(je0.Joint)

		b.jointList = je
	}
	b.jointList = nil

	// Delete the attached contacts.
	ce := b.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		world.contactManager.destroy(ce0.Contact)
	}
	b.contactList = nil

	// Delete the attached fixtures. This destroys broad-phase proxies.
	f := b.fixtureList
	for f != nil {
		f0 := f
		f = f.next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToFixture(f0)
		}

		f0.destroyProxies(&world.contactManager.broadPhase)
		f0.destroy()

		b.fixtureList = f
		b.fixtureCount--
	}
	b.fixtureList = nil
	b.fixtureCount = 0

	// Remove from the world body list.
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if b == world.bodyList {
		world.bodyList = b.next
	}

	world.bodyCount--
}

// CreateJoint creates a joint from a definition to constrain two bodies
// together. No reference to the definition is retained. This may cause the
// connected bodies to stop colliding. This function is locked during
// callbacks.
func (world *World) CreateJoint(def JointDef) Joint {
	assert(!world.IsLocked())
	if world.IsLocked() {
		return nil
	}

	j := def.makeJoint()
	h := j.header()

	// Connect to the world list.
	h.prev = nil
	h.next = world.jointList
	if world.jointList != nil {
		world.jointList.header().prev = j
	}
	world.jointList = j
	world.jointCount++

	// Connect to the bodies' doubly linked lists.
	bodyA := h.bodyA
	bodyB := h.bodyB

	h.edgeA.Joint = j
	h.edgeA.Other = bodyB
	h.edgeA.Prev = nil
	h.edgeA.Next = bodyA.jointList
	if bodyA.jointList != nil {
		bodyA.jointList.Prev = &h.edgeA
	}
	bodyA.jointList = &h.edgeA

	h.edgeB.Joint = j
	h.edgeB.Other = bodyA
	h.edgeB.Prev = nil
	h.edgeB.Next = bodyB.jointList
	if bodyB.jointList != nil {
		bodyB.jointList.Prev = &h.edgeB
	}
	bodyB.jointList = &h.edgeB

	// If the joint prevents collisions, then flag any contacts for
	// filtering.
	if !h.collideConnected {
		for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
			if edge.Other == bodyA {
				// Flag the contact for filtering at the next time step
				// (where either body is awake).
				edge.Contact.FlagForFiltering()
			}
		}
	}

	// Note: creating a joint doesn't wake the bodies.

	return j
}

// DestroyJoint destroys a joint. This may cause the connected bodies to
// begin colliding. This function is locked during callbacks.
func (world *World) DestroyJoint(j Joint) {
	assert(!world.IsLocked())
	if world.IsLocked() {
		return
	}

	h := j.header()
	collideConnected := h.collideConnected

	// Remove from the world list.
	if h.prev != nil {
		h.prev.header().next = h.next
	}
	if h.next != nil {
		h.next.header().prev = h.prev
	}
	if j == world.jointList {
		world.jointList = h.next
	}

	// Disconnect from the island graph.
	bodyA := h.bodyA
	bodyB := h.bodyB

	// Wake up the connected bodies.
	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	// Remove from body A.
	if h.edgeA.Prev != nil {
		h.edgeA.Prev.Next = h.edgeA.Next
	}
	if h.edgeA.Next != nil {
		h.edgeA.Next.Prev = h.edgeA.Prev
	}
	if &h.edgeA == bodyA.jointList {
		bodyA.jointList = h.edgeA.Next
	}
	h.edgeA.Prev = nil
	h.edgeA.Next = nil

	// Remove from body B.
	if h.edgeB.Prev != nil {
		h.edgeB.Prev.Next = h.edgeB.Next
	}
	if h.edgeB.Next != nil {
		h.edgeB.Next.Prev = h.edgeB.Prev
	}
	if &h.edgeB == bodyB.jointList {
		bodyB.jointList = h.edgeB.Next
	}
	h.edgeB.Prev = nil
	h.edgeB.Next = nil

	assert(world.jointCount > 0)
	world.jointCount--

	// If the joint prevented collisions, then flag any contacts for
	// filtering.
	if !collideConnected {
		for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
			if edge.Other == bodyA {
				edge.Contact.FlagForFiltering()
			}
		}
	}
}

// SetAllowSleeping enables or disables sleeping globally. Disabling sleep
// wakes every body.
func (world *World) SetAllowSleeping(flag bool) {
	if flag == world.allowSleep {
		return
	}

	world.allowSleep = flag
	if !world.allowSleep {
		for b := world.bodyList; b != nil; b = b.next {
			b.SetAwake(true)
		}
	}
}

func (world *World) GetAllowSleeping() bool {
	return world.allowSleep
}

// solve finds islands, integrates velocities, solves velocity constraints
// and solves position constraints.
func (world *World) solve(step timeStep) {
	world.profile.SolveInit = 0.0
	world.profile.SolveVelocity = 0.0
	world.profile.SolvePosition = 0.0

	// Size the island for the worst case.
	isl := makeIsland(
		world.bodyCount,
		world.contactManager.contactCount,
		world.jointCount,
		world.contactManager.contactListener,
	)

	// Clear all the island flags.
	for b := world.bodyList; b != nil; b = b.next {
		b.flags &^= bodyFlagIsland
	}
	for c := world.contactManager.contactList; c != nil; c = c.next {
		c.flags &^= contactFlagIsland
	}
	for j := world.jointList; j != nil; j = j.GetNext() {
		j.header().islandFlag = false
	}

	// Build and simulate all awake islands.
	stackSize := world.bodyCount
	stack := make([]*Body, stackSize)

	for seed := world.bodyList; seed != nil; seed = seed.next {
		if (seed.flags & bodyFlagIsland) != 0 {
			continue
		}

		if !seed.IsAwake() || !seed.IsActive() {
			continue
		}

		// The seed can be dynamic or kinematic.
		if seed.bodyType == StaticBody {
			continue
		}

		// Reset the island and stack.
		isl.clear()
		stackCount := 0
		stack[stackCount] = seed
		stackCount++
		seed.flags |= bodyFlagIsland

		// Perform a depth first search on the constraint graph.
		for stackCount > 0 {
			// Grab the next body off the stack and add it to the island.
			stackCount--
			b := stack[stackCount]
			assert(b.IsActive())
			isl.addBody(b)

			// Make sure the body is awake (without resetting the sleep
			// timer).
			b.flags |= bodyFlagAwake

			// To keep islands as small as possible, we don't propagate
			// islands across static bodies.
			if b.bodyType == StaticBody {
				continue
			}

			// Search all contacts connected to this body.
			for ce := b.contactList; ce != nil; ce = ce.Next {
				contact := ce.Contact

				// Has this contact already been added to an island?
				if (contact.flags & contactFlagIsland) != 0 {
					continue
				}

				// Is this contact solid and touching?
				if !contact.IsEnabled() || !contact.IsTouching() {
					continue
				}

				// Skip sensors.
				if contact.fixtureA.isSensor || contact.fixtureB.isSensor {
					continue
				}

				isl.addContact(contact)
				contact.flags |= contactFlagIsland

				other := ce.Other

				// Was the other body already added to this island?
				if (other.flags & bodyFlagIsland) != 0 {
					continue
				}

				assert(stackCount < stackSize)
				stack[stackCount] = other
				stackCount++
				other.flags |= bodyFlagIsland
			}

			// Search all joints connected to this body.
			for je := b.jointList; je != nil; je = je.Next {
				if je.Joint.header().islandFlag {
					continue
				}

				other := je.Other

				// Don't simulate joints connected to inactive bodies.
				if !other.IsActive() {
					continue
				}

				isl.addJoint(je.Joint)
				je.Joint.header().islandFlag = true

				if (other.flags & bodyFlagIsland) != 0 {
					continue
				}

				assert(stackCount < stackSize)
				stack[stackCount] = other
				stackCount++
				other.flags |= bodyFlagIsland
			}
		}

		var profile Profile
		isl.solve(world.cfg, &profile, step, world.gravity, world.allowSleep)
		world.profile.SolveInit += profile.SolveInit
		world.profile.SolveVelocity += profile.SolveVelocity
		world.profile.SolvePosition += profile.SolvePosition

		// Post solve cleanup. Allow static bodies to participate in other
		// islands.
		for i := 0; i < isl.bodyCount; i++ {
			b := isl.bodies[i]
			if b.bodyType == StaticBody {
				b.flags &^= bodyFlagIsland
			}
		}
	}

	{
		timer := time.Now()

		// Synchronize fixtures, check for out of range bodies.
		for b := world.bodyList; b != nil; b = b.next {
			// If a body was not in an island then it did not move.
			if (b.flags & bodyFlagIsland) == 0 {
				continue
			}

			if b.bodyType == StaticBody {
				continue
			}

			// Update fixtures for the broad phase.
			b.synchronizeFixtures()
		}

		// Look for new contacts.
		world.contactManager.findNewContacts()
		world.profile.Broadphase = float64(time.Since(timer)) / float64(time.Millisecond)
	}
}

// solveTOI finds time of impact contacts and solves them with sub-stepping.
func (world *World) solveTOI(step timeStep) {
	cfg := world.cfg
	isl := makeIsland(2*cfg.MaxTOIContacts, cfg.MaxTOIContacts, 0, world.contactManager.contactListener)

	if world.stepComplete {
		for b := world.bodyList; b != nil; b = b.next {
			b.flags &^= bodyFlagIsland
			b.sweep.Alpha0 = 0.0
		}

		for c := world.contactManager.contactList; c != nil; c = c.next {
			// Invalidate the TOI.
			c.flags &^= contactFlagTOI | contactFlagIsland
			c.toiCount = 0
			c.toi = 1.0
		}
	}

	// Find TOI events and solve them.
	for {
		// Find the first TOI.
		var minContact *Contact
		minAlpha := 1.0

		for c := world.contactManager.contactList; c != nil; c = c.next {
			// Is this contact disabled?
			if !c.IsEnabled() {
				continue
			}

			// Prevent excessive sub-stepping.
			if c.toiCount > cfg.MaxSubSteps {
				continue
			}

			alpha := 1.0
			if (c.flags & contactFlagTOI) != 0 {
				// This contact has a valid cached TOI.
				alpha = c.toi
			} else {
				fA := c.fixtureA
				fB := c.fixtureB

				// Is there a sensor?
				if fA.IsSensor() || fB.IsSensor() {
					continue
				}

				bA := fA.GetBody()
				bB := fB.GetBody()

				typeA := bA.bodyType
				typeB := bB.bodyType
				assert(typeA == DynamicBody || typeB == DynamicBody)

				activeA := bA.IsAwake() && typeA != StaticBody
				activeB := bB.IsAwake() && typeB != StaticBody

				// Is at least one body active (awake and dynamic or
				// kinematic)?
				if !activeA && !activeB {
					continue
				}

				collideA := bA.IsBullet() || typeA != DynamicBody
				collideB := bB.IsBullet() || typeB != DynamicBody

				// Are these two non-bullet dynamic bodies?
				if !collideA && !collideB {
					continue
				}

				// Compute the TOI for this contact. Put the sweeps onto the
				// same time interval.
				alpha0 := bA.sweep.Alpha0
				if bA.sweep.Alpha0 < bB.sweep.Alpha0 {
					alpha0 = bB.sweep.Alpha0
					bA.sweep.Advance(alpha0)
				} else if bB.sweep.Alpha0 < bA.sweep.Alpha0 {
					alpha0 = bA.sweep.Alpha0
					bB.sweep.Advance(alpha0)
				}

				assert(alpha0 < 1.0)

				// Compute the time of impact in interval [0, minTOI].
				var input TOIInput
				input.ProxyA.Set(fA.GetShape(), c.indexA)
				input.ProxyB.Set(fB.GetShape(), c.indexB)
				input.SweepA = bA.sweep
				input.SweepB = bB.sweep
				input.TMax = 1.0

				var output TOIOutput
				TimeOfImpact(cfg, &output, &input)

				// Beta is the fraction of the remaining portion of the
				// overlap.
				beta := output.T
				if output.State == TOIStateTouching {
					alpha = math.Min(alpha0+(1.0-alpha0)*beta, 1.0)
				} else {
					alpha = 1.0
				}

				c.toi = alpha
				c.flags |= contactFlagTOI
			}

			if alpha < minAlpha {
				// This is the minimum TOI found so far.
				minContact = c
				minAlpha = alpha
			}
		}

		if minContact == nil || 1.0-10.0*epsilon < minAlpha {
			// No more TOI events. Done!
			world.stepComplete = true
			break
		}

		// Advance the bodies to the TOI.
		fA := minContact.fixtureA
		fB := minContact.fixtureB
		bA := fA.GetBody()
		bB := fB.GetBody()

		backup1 := bA.sweep
		backup2 := bB.sweep

		bA.advance(minAlpha)
		bB.advance(minAlpha)

		// The TOI contact likely has some new contact points.
		minContact.update(cfg, world.contactManager.contactListener)
		minContact.flags &^= contactFlagTOI
		minContact.toiCount++

		// Is the contact solid?
		if !minContact.IsEnabled() || !minContact.IsTouching() {
			// Restore the sweeps.
			minContact.SetEnabled(false)
			bA.sweep = backup1
			bB.sweep = backup2
			bA.synchronizeTransform()
			bB.synchronizeTransform()
			continue
		}

		bA.SetAwake(true)
		bB.SetAwake(true)

		// Build the island.
		isl.clear()
		isl.addBody(bA)
		isl.addBody(bB)
		isl.addContact(minContact)

		bA.flags |= bodyFlagIsland
		bB.flags |= bodyFlagIsland
		minContact.flags |= contactFlagIsland

		// Get contacts on bodyA and bodyB.
		bodies := [2]*Body{bA, bB}
		for i := 0; i < 2; i++ {
			body := bodies[i]
			if body.bodyType != DynamicBody {
				continue
			}

			for ce := body.contactList; ce != nil; ce = ce.Next {
				if isl.bodyCount == isl.bodyCapacity {
					break
				}
				if isl.contactCount == isl.contactCapacity {
					break
				}

				contact := ce.Contact

				// Has this contact already been added to the island?
				if (contact.flags & contactFlagIsland) != 0 {
					continue
				}

				// Only add static, kinematic, or bullet bodies.
				other := ce.Other
				if other.bodyType == DynamicBody &&
					!body.IsBullet() && !other.IsBullet() {
					continue
				}

				// Skip sensors.
				if contact.fixtureA.isSensor || contact.fixtureB.isSensor {
					continue
				}

				// Tentatively advance the body to the TOI.
				backup := other.sweep
				if (other.flags & bodyFlagIsland) == 0 {
					other.advance(minAlpha)
				}

				// Update the contact points.
				contact.update(cfg, world.contactManager.contactListener)

				// Was the contact disabled by the user?
				if !contact.IsEnabled() {
					other.sweep = backup
					other.synchronizeTransform()
					continue
				}

				// Are there contact points?
				if !contact.IsTouching() {
					other.sweep = backup
					other.synchronizeTransform()
					continue
				}

				// Add the contact to the island.
				contact.flags |= contactFlagIsland
				isl.addContact(contact)

				// Has the other body already been added to the island?
				if (other.flags & bodyFlagIsland) != 0 {
					continue
				}

				// Add the other body to the island.
				other.flags |= bodyFlagIsland

				if other.bodyType != StaticBody {
					other.SetAwake(true)
				}

				isl.addBody(other)
			}
		}

		dt := (1.0 - minAlpha) * step.dt
		subStep := timeStep{
			dt:                 dt,
			invDt:              1.0 / dt,
			dtRatio:            1.0,
			positionIterations: 20,
			velocityIterations: step.velocityIterations,
			warmStarting:       false,
			blockSolve:         step.blockSolve,
		}
		isl.solveTOI(cfg, subStep, bA.islandIndex, bB.islandIndex)

		// Reset island flags and synchronize broad-phase proxies.
		for i := 0; i < isl.bodyCount; i++ {
			body := isl.bodies[i]
			body.flags &^= bodyFlagIsland

			if body.bodyType != DynamicBody {
				continue
			}

			body.synchronizeFixtures()

			// Invalidate all contact TOIs on this displaced body.
			for ce := body.contactList; ce != nil; ce = ce.Next {
				ce.Contact.flags &^= contactFlagTOI | contactFlagIsland
			}
		}

		// Commit fixture proxy movements to the broad phase so that new
		// contacts are created. Also, some contacts can be destroyed.
		world.contactManager.findNewContacts()

		if world.subStepping {
			world.stepComplete = false
			break
		}
	}
}

// Step advances the simulation. It performs collision detection,
// integration and constraint solution.
func (world *World) Step(conf StepConf) {
	stepTimer := time.Now()

	// If new fixtures were added, we need to find the new contacts.
	if (world.flags & worldFlagNewFixture) != 0 {
		world.contactManager.findNewContacts()
		world.flags &^= worldFlagNewFixture
	}

	world.flags |= worldFlagLocked
	world.subStepping = conf.SubStepping

	step := timeStep{
		dt:                 conf.Dt,
		velocityIterations: conf.VelocityIterations,
		positionIterations: conf.PositionIterations,
		warmStarting:       conf.WarmStarting,
		blockSolve:         conf.BlockSolve,
	}
	if conf.Dt > 0.0 {
		step.invDt = 1.0 / conf.Dt
	}
	step.dtRatio = world.invDt0 * conf.Dt

	// Update contacts. This is where some contacts are destroyed.
	{
		timer := time.Now()
		world.contactManager.collide(world.cfg)
		world.profile.Collide = float64(time.Since(timer)) / float64(time.Millisecond)
	}

	// Integrate velocities, solve velocity constraints, and integrate
	// positions.
	if world.stepComplete && step.dt > 0.0 {
		timer := time.Now()
		world.solve(step)
		world.profile.Solve = float64(time.Since(timer)) / float64(time.Millisecond)
	}

	// Handle TOI events.
	if conf.ContinuousPhysics && step.dt > 0.0 {
		timer := time.Now()
		world.solveTOI(step)
		world.profile.SolveTOI = float64(time.Since(timer)) / float64(time.Millisecond)
	}

	if step.dt > 0.0 {
		world.invDt0 = step.invDt
	}

	if (world.flags & worldFlagClearForces) != 0 {
		world.ClearForces()
	}

	world.flags &^= worldFlagLocked

	world.profile.Step = float64(time.Since(stepTimer)) / float64(time.Millisecond)
}

// ClearForces zeroes the force and torque accumulators of every body. By
// default this is called automatically after each Step; disable that with
// SetAutoClearForces to reuse forces across sub-steps of a larger time step.
func (world *World) ClearForces() {
	for body := world.bodyList; body != nil; body = body.next {
		body.force.SetZero()
		body.torque = 0.0
	}
}

// QueryAABB calls the callback for each fixture whose broad-phase proxy
// overlaps the query box.
func (world *World) QueryAABB(callback QueryCallback, aabb AABB) {
	world.contactManager.broadPhase.Query(func(proxyId int) bool {
		proxy := world.contactManager.broadPhase.GetUserData(proxyId).(*fixtureProxy)
		return callback(proxy.fixture)
	}, aabb)
}

// RayCast casts a ray against every fixture in the world. The callback
// controls how the ray continues; see RayCastCallback.
func (world *World) RayCast(callback RayCastCallback, point1 Vec2, point2 Vec2) {
	wrapper := func(input RayCastInput, nodeId int) float64 {
		proxy := world.contactManager.broadPhase.GetUserData(nodeId).(*fixtureProxy)
		fixture := proxy.fixture

		var output RayCastOutput
		hit := fixture.RayCast(&output, input, proxy.childIndex)
		if hit {
			fraction := output.Fraction
			point := input.P1.Scale(1.0 - fraction).Add(input.P2.Scale(fraction))
			return callback(fixture, point, output.Normal, fraction)
		}

		return input.MaxFraction
	}

	input := RayCastInput{
		P1:          point1,
		P2:          point2,
		MaxFraction: 1.0,
	}
	world.contactManager.broadPhase.RayCast(wrapper, input)
}

func (world *World) GetProxyCount() int {
	return world.contactManager.broadPhase.GetProxyCount()
}

func (world *World) GetTreeHeight() int {
	return world.contactManager.broadPhase.GetTreeHeight()
}

func (world *World) GetTreeBalance() int {
	return world.contactManager.broadPhase.GetTreeBalance()
}

func (world *World) GetTreeQuality() float64 {
	return world.contactManager.broadPhase.GetTreeQuality()
}

// ShiftOrigin shifts the world origin. Useful for large worlds where float
// precision degrades far from the origin. The body origin becomes
// position - newOrigin.
func (world *World) ShiftOrigin(newOrigin Vec2) {
	assert(!world.IsLocked())
	if world.IsLocked() {
		return
	}

	for b := world.bodyList; b != nil; b = b.next {
		b.xf.P = b.xf.P.Sub(newOrigin)
		b.sweep.C0 = b.sweep.C0.Sub(newOrigin)
		b.sweep.C = b.sweep.C.Sub(newOrigin)
	}

	for j := world.jointList; j != nil; j = j.GetNext() {
		j.ShiftOrigin(newOrigin)
	}

	world.contactManager.broadPhase.ShiftOrigin(newOrigin)
}
