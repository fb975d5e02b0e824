package impulse

import (
	"math"
	"time"
)

// island is a group of bodies connected by contacts and joints that are
// solved together. Static bodies terminate islands, so two stacks resting on
// the same ground are solved independently.
//
// Body state is copied into compact position and velocity arrays for the
// duration of the solve. The constraint solvers iterate over those arrays and
// the results are copied back afterwards.
type island struct {
	listener ContactListener

	bodies   []*Body
	contacts []*Contact
	joints   []Joint

	positions  []position
	velocities []velocity

	bodyCount    int
	contactCount int
	jointCount   int

	bodyCapacity    int
	contactCapacity int
	jointCapacity   int
}

func makeIsland(bodyCapacity int, contactCapacity int, jointCapacity int, listener ContactListener) island {
	return island{
		listener: listener,

		bodies:   make([]*Body, bodyCapacity),
		contacts: make([]*Contact, contactCapacity),
		joints:   make([]Joint, jointCapacity),

		positions:  make([]position, bodyCapacity),
		velocities: make([]velocity, bodyCapacity),

		bodyCapacity:    bodyCapacity,
		contactCapacity: contactCapacity,
		jointCapacity:   jointCapacity,
	}
}

func (isl *island) clear() {
	isl.bodyCount = 0
	isl.contactCount = 0
	isl.jointCount = 0
}

func (isl *island) addBody(body *Body) {
	assert(isl.bodyCount < isl.bodyCapacity)
	body.islandIndex = isl.bodyCount
	isl.bodies[isl.bodyCount] = body
	isl.bodyCount++
}

func (isl *island) addContact(contact *Contact) {
	assert(isl.contactCount < isl.contactCapacity)
	isl.contacts[isl.contactCount] = contact
	isl.contactCount++
}

func (isl *island) addJoint(joint Joint) {
	assert(isl.jointCount < isl.jointCapacity)
	isl.joints[isl.jointCount] = joint
	isl.jointCount++
}

func (isl *island) solve(cfg Config, profile *Profile, step timeStep, gravity Vec2, allowSleep bool) {
	timer := time.Now()

	h := step.dt

	// Integrate velocities and apply damping. Initialize the body state.
	for i := 0; i < isl.bodyCount; i++ {
		b := isl.bodies[i]

		c := b.sweep.C
		a := b.sweep.A
		v := b.linearVelocity
		w := b.angularVelocity

		// Store positions for continuous collision.
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A

		if b.bodyType == DynamicBody {
			// Integrate velocities.
			v = v.Add(gravity.Scale(b.gravityScale).Add(b.force.Scale(b.invMass)).Scale(h))
			w += h * b.invI * b.torque

			// Apply damping.
			// ODE: dv/dt + c * v = 0
			// Solution: v(t) = v0 * exp(-c * t)
			// v2 = exp(-c * dt) * v1
			// Pade approximation:
			// v2 = v1 * 1 / (1 + c * dt)
			v = v.Scale(1.0 / (1.0 + h*b.linearDamping))
			w *= 1.0 / (1.0 + h*b.angularDamping)
		}

		isl.positions[i].c = c
		isl.positions[i].a = a
		isl.velocities[i].v = v
		isl.velocities[i].w = w
	}

	timer = time.Now()

	data := solverData{
		step:       step,
		positions:  isl.positions,
		velocities: isl.velocities,
	}

	// Initialize velocity constraints.
	solverDef := contactSolverDef{
		step:       step,
		contacts:   isl.contacts,
		count:      isl.contactCount,
		positions:  isl.positions,
		velocities: isl.velocities,
	}

	solver := makeContactSolver(cfg, &solverDef)
	solver.initializeVelocityConstraints()

	if step.warmStarting {
		solver.warmStart()
	}

	for i := 0; i < isl.jointCount; i++ {
		isl.joints[i].initVelocityConstraints(cfg, data)
	}

	profile.SolveInit = float64(time.Since(timer)) / float64(time.Millisecond)

	// Solve velocity constraints.
	timer = time.Now()
	for i := 0; i < step.velocityIterations; i++ {
		for j := 0; j < isl.jointCount; j++ {
			isl.joints[j].solveVelocityConstraints(cfg, data)
		}

		solver.solveVelocityConstraints()
	}

	// Store impulses for warm starting.
	solver.storeImpulses()
	profile.SolveVelocity = float64(time.Since(timer)) / float64(time.Millisecond)

	// Integrate positions.
	for i := 0; i < isl.bodyCount; i++ {
		c := isl.positions[i].c
		a := isl.positions[i].a
		v := isl.velocities[i].v
		w := isl.velocities[i].w

		// Check for large velocities.
		translation := v.Scale(h)
		if Dot(translation, translation) > cfg.MaxTranslation*cfg.MaxTranslation {
			ratio := cfg.MaxTranslation / translation.Length()
			v = v.Scale(ratio)
		}

		rotation := h * w
		if rotation*rotation > cfg.MaxRotation*cfg.MaxRotation {
			ratio := cfg.MaxRotation / math.Abs(rotation)
			w *= ratio
		}

		// Integrate.
		c = c.Add(v.Scale(h))
		a += h * w

		isl.positions[i].c = c
		isl.positions[i].a = a
		isl.velocities[i].v = v
		isl.velocities[i].w = w
	}

	// Solve position constraints.
	timer = time.Now()
	positionSolved := false
	for i := 0; i < step.positionIterations; i++ {
		contactsOkay := solver.solvePositionConstraints()

		jointsOkay := true
		for j := 0; j < isl.jointCount; j++ {
			jointOkay := isl.joints[j].solvePositionConstraints(cfg, data)
			jointsOkay = jointsOkay && jointOkay
		}

		if contactsOkay && jointsOkay {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies.
	for i := 0; i < isl.bodyCount; i++ {
		body := isl.bodies[i]
		body.sweep.C = isl.positions[i].c
		body.sweep.A = isl.positions[i].a
		body.linearVelocity = isl.velocities[i].v
		body.angularVelocity = isl.velocities[i].w
		body.synchronizeTransform()
	}

	profile.SolvePosition = float64(time.Since(timer)) / float64(time.Millisecond)

	isl.report(solver.velocityConstraints)

	if allowSleep {
		minSleepTime := math.MaxFloat64

		linTolSqr := cfg.LinearSleepTolerance * cfg.LinearSleepTolerance
		angTolSqr := cfg.AngularSleepTolerance * cfg.AngularSleepTolerance

		for i := 0; i < isl.bodyCount; i++ {
			b := isl.bodies[i]
			if b.bodyType == StaticBody {
				continue
			}

			if (b.flags&bodyFlagAutoSleep) == 0 ||
				b.angularVelocity*b.angularVelocity > angTolSqr ||
				Dot(b.linearVelocity, b.linearVelocity) > linTolSqr {
				b.sleepTime = 0.0
				minSleepTime = 0.0
			} else {
				b.sleepTime += h
				minSleepTime = math.Min(minSleepTime, b.sleepTime)
			}
		}

		if minSleepTime >= cfg.TimeToSleep && positionSolved {
			for i := 0; i < isl.bodyCount; i++ {
				isl.bodies[i].SetAwake(false)
			}
		}
	}
}

func (isl *island) solveTOI(cfg Config, subStep timeStep, toiIndexA int, toiIndexB int) {
	assert(toiIndexA < isl.bodyCount)
	assert(toiIndexB < isl.bodyCount)

	// Initialize the body state.
	for i := 0; i < isl.bodyCount; i++ {
		b := isl.bodies[i]
		isl.positions[i].c = b.sweep.C
		isl.positions[i].a = b.sweep.A
		isl.velocities[i].v = b.linearVelocity
		isl.velocities[i].w = b.angularVelocity
	}

	solverDef := contactSolverDef{
		step:       subStep,
		contacts:   isl.contacts,
		count:      isl.contactCount,
		positions:  isl.positions,
		velocities: isl.velocities,
	}
	solver := makeContactSolver(cfg, &solverDef)

	// Solve position constraints.
	for i := 0; i < subStep.positionIterations; i++ {
		contactsOkay := solver.solveTOIPositionConstraints(toiIndexA, toiIndexB)
		if contactsOkay {
			break
		}
	}

	// Leap of faith to new safe state.
	isl.bodies[toiIndexA].sweep.C0 = isl.positions[toiIndexA].c
	isl.bodies[toiIndexA].sweep.A0 = isl.positions[toiIndexA].a
	isl.bodies[toiIndexB].sweep.C0 = isl.positions[toiIndexB].c
	isl.bodies[toiIndexB].sweep.A0 = isl.positions[toiIndexB].a

	// No warm starting is needed for TOI events because warm starting
	// impulses were applied in the discrete solver.
	solver.initializeVelocityConstraints()

	// Solve velocity constraints.
	for i := 0; i < subStep.velocityIterations; i++ {
		solver.solveVelocityConstraints()
	}

	// Don't store the TOI contact forces for warm starting because they can
	// be quite large.

	h := subStep.dt

	// Integrate positions.
	for i := 0; i < isl.bodyCount; i++ {
		c := isl.positions[i].c
		a := isl.positions[i].a
		v := isl.velocities[i].v
		w := isl.velocities[i].w

		// Check for large velocities.
		translation := v.Scale(h)
		if Dot(translation, translation) > cfg.MaxTranslation*cfg.MaxTranslation {
			ratio := cfg.MaxTranslation / translation.Length()
			v = v.Scale(ratio)
		}

		rotation := h * w
		if rotation*rotation > cfg.MaxRotation*cfg.MaxRotation {
			ratio := cfg.MaxRotation / math.Abs(rotation)
			w *= ratio
		}

		// Integrate.
		c = c.Add(v.Scale(h))
		a += h * w

		isl.positions[i].c = c
		isl.positions[i].a = a
		isl.velocities[i].v = v
		isl.velocities[i].w = w

		// Sync bodies.
		body := isl.bodies[i]
		body.sweep.C = c
		body.sweep.A = a
		body.linearVelocity = v
		body.angularVelocity = w
		body.synchronizeTransform()
	}

	isl.report(solver.velocityConstraints)
}

func (isl *island) report(constraints []contactVelocityConstraint) {
	if isl.listener == nil {
		return
	}

	for i := 0; i < isl.contactCount; i++ {
		c := isl.contacts[i]
		vc := &constraints[i]

		var impulse ContactImpulse
		impulse.Count = vc.pointCount
		for j := 0; j < vc.pointCount; j++ {
			impulse.NormalImpulses[j] = vc.points[j].normalImpulse
			impulse.TangentImpulses[j] = vc.points[j].tangentImpulse
		}

		isl.listener.PostSolve(c, &impulse)
	}
}
