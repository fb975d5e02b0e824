package impulse

import "math"

type velocityConstraintPoint struct {
	rA             Vec2
	rB             Vec2
	normalImpulse  float64
	tangentImpulse float64
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
}

type contactVelocityConstraint struct {
	points       [maxManifoldPoints]velocityConstraintPoint
	normal       Vec2
	normalMass   Mat22
	k            Mat22
	indexA       int
	indexB       int
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	friction     float64
	restitution  float64
	tangentSpeed float64
	pointCount   int
	contactIndex int
}

type contactPositionConstraint struct {
	localPoints  [maxManifoldPoints]Vec2
	localNormal  Vec2
	localPoint   Vec2
	indexA       int
	indexB       int
	invMassA     float64
	invMassB     float64
	localCenterA Vec2
	localCenterB Vec2
	invIA        float64
	invIB        float64
	manifoldType ManifoldType
	radiusA      float64
	radiusB      float64
	pointCount   int
}

type contactSolverDef struct {
	step       timeStep
	contacts   []*Contact
	count      int
	positions  []position
	velocities []velocity
}

// contactSolver turns the manifolds of an island's contacts into velocity and
// position constraints and iterates them with sequential impulses.
type contactSolver struct {
	cfg                 Config
	step                timeStep
	positions           []position
	velocities          []velocity
	positionConstraints []contactPositionConstraint
	velocityConstraints []contactVelocityConstraint
	contacts            []*Contact
	count               int
}

func makeContactSolver(cfg Config, def *contactSolverDef) contactSolver {
	solver := contactSolver{
		cfg:                 cfg,
		step:                def.step,
		count:               def.count,
		positionConstraints: make([]contactPositionConstraint, def.count),
		velocityConstraints: make([]contactVelocityConstraint, def.count),
		positions:           def.positions,
		velocities:          def.velocities,
		contacts:            def.contacts,
	}

	// Initialize position independent portions of the constraints.
	for i := 0; i < solver.count; i++ {
		contact := solver.contacts[i]

		fixtureA := contact.GetFixtureA()
		fixtureB := contact.GetFixtureB()
		shapeA := fixtureA.GetShape()
		shapeB := fixtureB.GetShape()
		radiusA := shapeA.Radius()
		radiusB := shapeB.Radius()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()
		manifold := contact.GetManifold()

		pointCount := manifold.PointCount
		assert(pointCount > 0)

		vc := &solver.velocityConstraints[i]
		vc.friction = contact.friction
		vc.restitution = contact.restitution
		vc.tangentSpeed = contact.tangentSpeed
		vc.indexA = bodyA.islandIndex
		vc.indexB = bodyB.islandIndex
		vc.invMassA = bodyA.invMass
		vc.invMassB = bodyB.invMass
		vc.invIA = bodyA.invI
		vc.invIB = bodyB.invI
		vc.contactIndex = i
		vc.pointCount = pointCount
		vc.k.SetZero()
		vc.normalMass.SetZero()

		pc := &solver.positionConstraints[i]
		pc.indexA = bodyA.islandIndex
		pc.indexB = bodyB.islandIndex
		pc.invMassA = bodyA.invMass
		pc.invMassB = bodyB.invMass
		pc.localCenterA = bodyA.sweep.LocalCenter
		pc.localCenterB = bodyB.sweep.LocalCenter
		pc.invIA = bodyA.invI
		pc.invIB = bodyB.invI
		pc.localNormal = manifold.LocalNormal
		pc.localPoint = manifold.LocalPoint
		pc.pointCount = pointCount
		pc.radiusA = radiusA
		pc.radiusB = radiusB
		pc.manifoldType = manifold.Type

		for j := 0; j < pointCount; j++ {
			cp := &manifold.Points[j]
			vcp := &vc.points[j]

			if solver.step.warmStarting {
				vcp.normalImpulse = solver.step.dtRatio * cp.NormalImpulse
				vcp.tangentImpulse = solver.step.dtRatio * cp.TangentImpulse
			} else {
				vcp.normalImpulse = 0.0
				vcp.tangentImpulse = 0.0
			}

			pc.localPoints[j] = cp.LocalPoint
		}
	}

	return solver
}

// initializeVelocityConstraints computes the position dependent portions of
// the velocity constraints.
func (solver *contactSolver) initializeVelocityConstraints() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]
		pc := &solver.positionConstraints[i]

		radiusA := pc.radiusA
		radiusB := pc.radiusB
		manifold := solver.contacts[vc.contactIndex].GetManifold()

		indexA := vc.indexA
		indexB := vc.indexB

		mA := vc.invMassA
		mB := vc.invMassB
		iA := vc.invIA
		iB := vc.invIB
		localCenterA := pc.localCenterA
		localCenterB := pc.localCenterB

		cA := solver.positions[indexA].c
		aA := solver.positions[indexA].a
		vA := solver.velocities[indexA].v
		wA := solver.velocities[indexA].w

		cB := solver.positions[indexB].c
		aB := solver.positions[indexB].a
		vB := solver.velocities[indexB].v
		wB := solver.velocities[indexB].w

		assert(manifold.PointCount > 0)

		var xfA, xfB Transform
		xfA.Q.Set(aA)
		xfB.Q.Set(aB)
		xfA.P = cA.Sub(MulRV(xfA.Q, localCenterA))
		xfB.P = cB.Sub(MulRV(xfB.Q, localCenterB))

		var worldManifold WorldManifold
		worldManifold.Initialize(manifold, xfA, radiusA, xfB, radiusB)

		vc.normal = worldManifold.Normal

		pointCount := vc.pointCount
		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]

			vcp.rA = worldManifold.Points[j].Sub(cA)
			vcp.rB = worldManifold.Points[j].Sub(cB)

			rnA := Cross(vcp.rA, vc.normal)
			rnB := Cross(vcp.rB, vc.normal)

			kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			if kNormal > 0.0 {
				vcp.normalMass = 1.0 / kNormal
			} else {
				vcp.normalMass = 0.0
			}

			tangent := CrossVS(vc.normal, 1.0)

			rtA := Cross(vcp.rA, tangent)
			rtB := Cross(vcp.rB, tangent)

			kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB

			if kTangent > 0.0 {
				vcp.tangentMass = 1.0 / kTangent
			} else {
				vcp.tangentMass = 0.0
			}

			// Velocity bias for restitution.
			vcp.velocityBias = 0.0
			vRel := Dot(vc.normal, vB.Add(CrossSV(wB, vcp.rB)).Sub(vA).Sub(CrossSV(wA, vcp.rA)))
			if vRel < -solver.cfg.VelocityThreshold {
				vcp.velocityBias = -vc.restitution * vRel
			}
		}

		// If we have two points, then prepare the block solver.
		if vc.pointCount == 2 && solver.step.blockSolve {
			vcp1 := &vc.points[0]
			vcp2 := &vc.points[1]

			rn1A := Cross(vcp1.rA, vc.normal)
			rn1B := Cross(vcp1.rB, vc.normal)
			rn2A := Cross(vcp2.rA, vc.normal)
			rn2B := Cross(vcp2.rB, vc.normal)

			k11 := mA + mB + iA*rn1A*rn1A + iB*rn1B*rn1B
			k22 := mA + mB + iA*rn2A*rn2A + iB*rn2B*rn2B
			k12 := mA + mB + iA*rn1A*rn2A + iB*rn1B*rn2B

			// Ensure a reasonable condition number.
			const maxConditionNumber = 1000.0
			if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
				// K is safe to invert.
				vc.k.Ex.Set(k11, k12)
				vc.k.Ey.Set(k12, k22)
				vc.normalMass = vc.k.GetInverse()
			} else {
				// The constraints are redundant, just use one.
				vc.pointCount = 1
			}
		}
	}
}

func (solver *contactSolver) warmStart() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB
		pointCount := vc.pointCount

		vA := solver.velocities[indexA].v
		wA := solver.velocities[indexA].w
		vB := solver.velocities[indexB].v
		wB := solver.velocities[indexB].w

		normal := vc.normal
		tangent := CrossVS(normal, 1.0)

		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]
			p := normal.Scale(vcp.normalImpulse).Add(tangent.Scale(vcp.tangentImpulse))
			wA -= iA * Cross(vcp.rA, p)
			vA = vA.Sub(p.Scale(mA))
			wB += iB * Cross(vcp.rB, p)
			vB = vB.Add(p.Scale(mB))
		}

		solver.velocities[indexA].v = vA
		solver.velocities[indexA].w = wA
		solver.velocities[indexB].v = vB
		solver.velocities[indexB].w = wB
	}
}

func (solver *contactSolver) solveVelocityConstraints() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB
		pointCount := vc.pointCount

		vA := solver.velocities[indexA].v
		wA := solver.velocities[indexA].w
		vB := solver.velocities[indexB].v
		wB := solver.velocities[indexB].w

		normal := vc.normal
		tangent := CrossVS(normal, 1.0)
		friction := vc.friction

		assert(pointCount == 1 || pointCount == 2)

		// Solve tangent constraints first because non-penetration is more
		// important than friction.
		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]

			// Relative velocity at contact.
			dv := vB.Add(CrossSV(wB, vcp.rB)).Sub(vA).Sub(CrossSV(wA, vcp.rA))

			// Compute tangent force.
			vt := Dot(dv, tangent) - vc.tangentSpeed
			lambda := vcp.tangentMass * (-vt)

			// Clamp the accumulated force.
			maxFriction := friction * vcp.normalImpulse
			newImpulse := Clamp(vcp.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.tangentImpulse
			vcp.tangentImpulse = newImpulse

			// Apply contact impulse.
			p := tangent.Scale(lambda)

			vA = vA.Sub(p.Scale(mA))
			wA -= iA * Cross(vcp.rA, p)

			vB = vB.Add(p.Scale(mB))
			wB += iB * Cross(vcp.rB, p)
		}

		// Solve normal constraints.
		if pointCount == 1 || !solver.step.blockSolve {
			for j := 0; j < pointCount; j++ {
				vcp := &vc.points[j]

				// Relative velocity at contact.
				dv := vB.Add(CrossSV(wB, vcp.rB)).Sub(vA).Sub(CrossSV(wA, vcp.rA))

				// Compute normal impulse.
				vn := Dot(dv, normal)
				lambda := -vcp.normalMass * (vn - vcp.velocityBias)

				// Clamp the accumulated impulse.
				newImpulse := math.Max(vcp.normalImpulse+lambda, 0.0)
				lambda = newImpulse - vcp.normalImpulse
				vcp.normalImpulse = newImpulse

				// Apply contact impulse.
				p := normal.Scale(lambda)
				vA = vA.Sub(p.Scale(mA))
				wA -= iA * Cross(vcp.rA, p)

				vB = vB.Add(p.Scale(mB))
				wB += iB * Cross(vcp.rB, p)
			}
		} else {
			// Block solver for the two point manifold.
			//
			// Build the mini LCP for this contact patch:
			//
			// vn = A * x + b, vn >= 0, x >= 0 and vn_i * x_i = 0 with i = 1..2
			//
			// A = J * W * JT and J = ( -n, -r1 x n, n, r2 x n )
			// b = vn0 - velocityBias
			//
			// The system is solved by total enumeration. The complementary
			// constraint vn_i * x_i implies that in any solution either
			// vn_i = 0 or x_i = 0, so the four sign cases are tried in turn
			// and the first valid one wins. To account for the accumulated
			// impulse a, substitute x = a + d and solve for the new total
			// impulse: b' = b - A * a.
			cp1 := &vc.points[0]
			cp2 := &vc.points[1]

			a := Vec2{cp1.normalImpulse, cp2.normalImpulse}
			assert(a.X >= 0.0 && a.Y >= 0.0)

			// Relative velocity at contact.
			dv1 := vB.Add(CrossSV(wB, cp1.rB)).Sub(vA).Sub(CrossSV(wA, cp1.rA))
			dv2 := vB.Add(CrossSV(wB, cp2.rB)).Sub(vA).Sub(CrossSV(wA, cp2.rA))

			// Compute normal velocity.
			vn1 := Dot(dv1, normal)
			vn2 := Dot(dv2, normal)

			b := Vec2{vn1 - cp1.velocityBias, vn2 - cp2.velocityBias}

			// Compute b'.
			b = b.Sub(MulM22V(vc.k, a))

			for {
				// Case 1: vn = 0
				//
				// 0 = A * x + b'
				// x = -inv(A) * b'
				x := MulM22V(vc.normalMass, b).Neg()

				if x.X >= 0.0 && x.Y >= 0.0 {
					// Get the incremental impulse.
					d := x.Sub(a)

					// Apply incremental impulse.
					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (Cross(cp1.rA, p1) + Cross(cp2.rA, p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (Cross(cp1.rB, p1) + Cross(cp2.rB, p2))

					// Accumulate.
					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y

					break
				}

				// Case 2: vn1 = 0 and x2 = 0
				//
				//   0 = a11 * x1 + a12 * 0 + b1'
				// vn2 = a21 * x1 + a22 * 0 + b2'
				x.X = -cp1.normalMass * b.X
				x.Y = 0.0
				vn2 = vc.k.Ex.Y*x.X + b.Y
				if x.X >= 0.0 && vn2 >= 0.0 {
					d := x.Sub(a)

					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (Cross(cp1.rA, p1) + Cross(cp2.rA, p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (Cross(cp1.rB, p1) + Cross(cp2.rB, p2))

					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y

					break
				}

				// Case 3: vn2 = 0 and x1 = 0
				//
				// vn1 = a11 * 0 + a12 * x2 + b1'
				//   0 = a21 * 0 + a22 * x2 + b2'
				x.X = 0.0
				x.Y = -cp2.normalMass * b.Y
				vn1 = vc.k.Ey.X*x.Y + b.X
				if x.Y >= 0.0 && vn1 >= 0.0 {
					d := x.Sub(a)

					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (Cross(cp1.rA, p1) + Cross(cp2.rA, p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (Cross(cp1.rB, p1) + Cross(cp2.rB, p2))

					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y

					break
				}

				// Case 4: x1 = 0 and x2 = 0
				//
				// vn1 = b1
				// vn2 = b2
				x.X = 0.0
				x.Y = 0.0
				vn1 = b.X
				vn2 = b.Y

				if vn1 >= 0.0 && vn2 >= 0.0 {
					d := x.Sub(a)

					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (Cross(cp1.rA, p1) + Cross(cp2.rA, p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (Cross(cp1.rB, p1) + Cross(cp2.rB, p2))

					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y

					break
				}

				// No valid case. The accumulated impulses are kept as they
				// are and the iteration moves on. This happens with poorly
				// conditioned patches and does not seem to matter in
				// practice.
				break
			}
		}

		solver.velocities[indexA].v = vA
		solver.velocities[indexA].w = wA
		solver.velocities[indexB].v = vB
		solver.velocities[indexB].w = wB
	}
}

// storeImpulses writes the accumulated impulses back into the manifolds for
// warm starting the next step.
func (solver *contactSolver) storeImpulses() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]
		manifold := solver.contacts[vc.contactIndex].GetManifold()

		for j := 0; j < vc.pointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.points[j].normalImpulse
			manifold.Points[j].TangentImpulse = vc.points[j].tangentImpulse
		}
	}
}

// positionSolverManifold evaluates a position constraint's normal, point and
// separation at the current solver positions.
type positionSolverManifold struct {
	normal     Vec2
	point      Vec2
	separation float64
}

func (psm *positionSolverManifold) initialize(pc *contactPositionConstraint, xfA Transform, xfB Transform, index int) {
	assert(pc.pointCount > 0)

	switch pc.manifoldType {
	case ManifoldCircles:
		pointA := MulXV(xfA, pc.localPoint)
		pointB := MulXV(xfB, pc.localPoints[0])
		psm.normal = pointB.Sub(pointA)
		psm.normal.Normalize()
		psm.point = pointA.Add(pointB).Scale(0.5)
		psm.separation = Dot(pointB.Sub(pointA), psm.normal) - pc.radiusA - pc.radiusB

	case ManifoldFaceA:
		psm.normal = MulRV(xfA.Q, pc.localNormal)
		planePoint := MulXV(xfA, pc.localPoint)

		clipPoint := MulXV(xfB, pc.localPoints[index])
		psm.separation = Dot(clipPoint.Sub(planePoint), psm.normal) - pc.radiusA - pc.radiusB
		psm.point = clipPoint

	case ManifoldFaceB:
		psm.normal = MulRV(xfB.Q, pc.localNormal)
		planePoint := MulXV(xfB, pc.localPoint)

		clipPoint := MulXV(xfA, pc.localPoints[index])
		psm.separation = Dot(clipPoint.Sub(planePoint), psm.normal) - pc.radiusA - pc.radiusB
		psm.point = clipPoint

		// Ensure normal points from A to B.
		psm.normal = psm.normal.Neg()
	}
}

// solvePositionConstraints is the sequential position solver. It reports
// whether the worst separation is within tolerance.
func (solver *contactSolver) solvePositionConstraints() bool {
	cfg := solver.cfg
	minSeparation := 0.0

	for i := 0; i < solver.count; i++ {
		pc := &solver.positionConstraints[i]

		indexA := pc.indexA
		indexB := pc.indexB
		localCenterA := pc.localCenterA
		mA := pc.invMassA
		iA := pc.invIA
		localCenterB := pc.localCenterB
		mB := pc.invMassB
		iB := pc.invIB
		pointCount := pc.pointCount

		cA := solver.positions[indexA].c
		aA := solver.positions[indexA].a

		cB := solver.positions[indexB].c
		aB := solver.positions[indexB].a

		// Solve normal constraints.
		for j := 0; j < pointCount; j++ {
			var xfA, xfB Transform
			xfA.Q.Set(aA)
			xfB.Q.Set(aB)
			xfA.P = cA.Sub(MulRV(xfA.Q, localCenterA))
			xfB.P = cB.Sub(MulRV(xfB.Q, localCenterB))

			var psm positionSolverManifold
			psm.initialize(pc, xfA, xfB, j)
			normal := psm.normal

			point := psm.point
			separation := psm.separation

			rA := point.Sub(cA)
			rB := point.Sub(cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			c := Clamp(cfg.Baumgarte*(separation+cfg.LinearSlop), -cfg.MaxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := Cross(rA, normal)
			rnB := Cross(rB, normal)
			k := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse.
			impulse := 0.0
			if k > 0.0 {
				impulse = -c / k
			}

			p := normal.Scale(impulse)

			cA = cA.Sub(p.Scale(mA))
			aA -= iA * Cross(rA, p)

			cB = cB.Add(p.Scale(mB))
			aB += iB * Cross(rB, p)
		}

		solver.positions[indexA].c = cA
		solver.positions[indexA].a = aA

		solver.positions[indexB].c = cB
		solver.positions[indexB].a = aB
	}

	// The separation is never pushed above -LinearSlop, so a full
	// -LinearSlop bound cannot be met.
	return minSeparation >= -3.0*cfg.LinearSlop
}

// solveTOIPositionConstraints is the position solver used during continuous
// sub-stepping. Only the two TOI bodies are allowed to move.
func (solver *contactSolver) solveTOIPositionConstraints(toiIndexA int, toiIndexB int) bool {
	cfg := solver.cfg
	minSeparation := 0.0

	for i := 0; i < solver.count; i++ {
		pc := &solver.positionConstraints[i]

		indexA := pc.indexA
		indexB := pc.indexB
		localCenterA := pc.localCenterA
		localCenterB := pc.localCenterB
		pointCount := pc.pointCount

		mA := 0.0
		iA := 0.0
		if indexA == toiIndexA || indexA == toiIndexB {
			mA = pc.invMassA
			iA = pc.invIA
		}

		mB := 0.0
		iB := 0.0
		if indexB == toiIndexA || indexB == toiIndexB {
			mB = pc.invMassB
			iB = pc.invIB
		}

		cA := solver.positions[indexA].c
		aA := solver.positions[indexA].a

		cB := solver.positions[indexB].c
		aB := solver.positions[indexB].a

		// Solve normal constraints.
		for j := 0; j < pointCount; j++ {
			var xfA, xfB Transform
			xfA.Q.Set(aA)
			xfB.Q.Set(aB)
			xfA.P = cA.Sub(MulRV(xfA.Q, localCenterA))
			xfB.P = cB.Sub(MulRV(xfB.Q, localCenterB))

			var psm positionSolverManifold
			psm.initialize(pc, xfA, xfB, j)
			normal := psm.normal

			point := psm.point
			separation := psm.separation

			rA := point.Sub(cA)
			rB := point.Sub(cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			c := Clamp(cfg.TOIBaumgarte*(separation+cfg.LinearSlop), -cfg.MaxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := Cross(rA, normal)
			rnB := Cross(rB, normal)
			k := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse.
			impulse := 0.0
			if k > 0.0 {
				impulse = -c / k
			}

			p := normal.Scale(impulse)

			cA = cA.Sub(p.Scale(mA))
			aA -= iA * Cross(rA, p)

			cB = cB.Add(p.Scale(mB))
			aB += iB * Cross(rB, p)
		}

		solver.positions[indexA].c = cA
		solver.positions[indexA].a = aA

		solver.positions[indexB].c = cB
		solver.positions[indexB].a = aB
	}

	return minSeparation >= -1.5*cfg.LinearSlop
}
