package impulse

import "math"

// PulleyJointDef requires two ground anchors, two dynamic body anchor points,
// and a pulley ratio.
type PulleyJointDef struct {
	JointDefBase

	// The first ground anchor in world coordinates. This point never moves.
	GroundAnchorA Vec2

	// The second ground anchor in world coordinates. This point never moves.
	GroundAnchorB Vec2

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The reference length for the segment attached to body A.
	LengthA float64

	// The reference length for the segment attached to body B.
	LengthB float64

	// The pulley ratio, used to simulate a block-and-tackle.
	Ratio float64
}

func MakePulleyJointDef() PulleyJointDef {
	return PulleyJointDef{
		JointDefBase:  JointDefBase{CollideConnected: true},
		GroundAnchorA: Vec2{-1.0, 1.0},
		GroundAnchorB: Vec2{1.0, 1.0},
		LocalAnchorA:  Vec2{-1.0, 0.0},
		LocalAnchorB:  Vec2{1.0, 0.0},
		Ratio:         1.0,
	}
}

// Initialize sets the bodies, anchors, lengths and ratio using world anchors.
func (def *PulleyJointDef) Initialize(bodyA *Body, bodyB *Body, groundA Vec2, groundB Vec2, anchorA Vec2, anchorB Vec2, ratio float64) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.GroundAnchorA = groundA
	def.GroundAnchorB = groundB
	def.LocalAnchorA = bodyA.GetLocalPoint(anchorA)
	def.LocalAnchorB = bodyB.GetLocalPoint(anchorB)
	def.LengthA = anchorA.Sub(groundA).Length()
	def.LengthB = anchorB.Sub(groundB).Length()
	def.Ratio = ratio
	assert(def.Ratio > epsilon)
}

func (def *PulleyJointDef) makeJoint() Joint {
	assert(def.Ratio != 0.0)

	j := &PulleyJoint{
		jointHeader:   makeJointHeader(PulleyJointType, def),
		groundAnchorA: def.GroundAnchorA,
		groundAnchorB: def.GroundAnchorB,
		localAnchorA:  def.LocalAnchorA,
		localAnchorB:  def.LocalAnchorB,
		lengthA:       def.LengthA,
		lengthB:       def.LengthB,
		ratio:         def.Ratio,
		constant:      def.LengthA + def.Ratio*def.LengthB,
	}
	return j
}

// PulleyJoint is connected to two bodies and two fixed ground points. The
// pulley supports a ratio such that lengthA + ratio * lengthB <= constant.
// The force transmitted is scaled by the ratio.
//
// The pulley joint can get a bit squirrelly by itself; it often works better
// combined with prismatic constraints. Cover the anchor points with static
// shapes to prevent one side from going to zero length.
//
//	length1 = norm(p1 - s1)
//	length2 = norm(p2 - s2)
//	C = C0 - (length1 + ratio * length2)
//	u1 = (p1 - s1) / norm(p1 - s1)
//	u2 = (p2 - s2) / norm(p2 - s2)
//	Cdot = -dot(u1, v1 + cross(w1, r1)) - ratio * dot(u2, v2 + cross(w2, r2))
//	J = -[u1 cross(r1, u1) ratio * u2 ratio * cross(r2, u2)]
//	K = J * invM * JT
//	  = invMass1 + invI1 * cross(r1, u1)^2 + ratio^2 * (invMass2 + invI2 * cross(r2, u2)^2)
type PulleyJoint struct {
	jointHeader

	groundAnchorA Vec2
	groundAnchorB Vec2
	lengthA       float64
	lengthB       float64

	// Solver shared.
	localAnchorA Vec2
	localAnchorB Vec2
	constant     float64
	ratio        float64
	impulse      float64

	// Solver temp.
	indexA       int
	indexB       int
	uA           Vec2
	uB           Vec2
	rA           Vec2
	rB           Vec2
	localCenterA Vec2
	localCenterB Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	mass         float64
}

func (joint *PulleyJoint) GetGroundAnchorA() Vec2 {
	return joint.groundAnchorA
}

func (joint *PulleyJoint) GetGroundAnchorB() Vec2 {
	return joint.groundAnchorB
}

func (joint *PulleyJoint) GetLengthA() float64 {
	return joint.lengthA
}

func (joint *PulleyJoint) GetLengthB() float64 {
	return joint.lengthB
}

func (joint *PulleyJoint) GetRatio() float64 {
	return joint.ratio
}

// GetCurrentLengthA returns the current length of the segment attached to
// body A.
func (joint *PulleyJoint) GetCurrentLengthA() float64 {
	p := joint.bodyA.GetWorldPoint(joint.localAnchorA)
	return p.Sub(joint.groundAnchorA).Length()
}

// GetCurrentLengthB returns the current length of the segment attached to
// body B.
func (joint *PulleyJoint) GetCurrentLengthB() float64 {
	p := joint.bodyB.GetWorldPoint(joint.localAnchorB)
	return p.Sub(joint.groundAnchorB).Length()
}

func (joint *PulleyJoint) GetAnchorA() Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *PulleyJoint) GetAnchorB() Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *PulleyJoint) GetReactionForce(invDt float64) Vec2 {
	return joint.uB.Scale(invDt * joint.impulse)
}

func (joint *PulleyJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

// ShiftOrigin moves the ground anchors, which are stored in world
// coordinates.
func (joint *PulleyJoint) ShiftOrigin(newOrigin Vec2) {
	joint.groundAnchorA = joint.groundAnchorA.Sub(newOrigin)
	joint.groundAnchorB = joint.groundAnchorB.Sub(newOrigin)
}

func (joint *PulleyJoint) initVelocityConstraints(cfg Config, data solverData) {
	joint.indexA = joint.bodyA.islandIndex
	joint.indexB = joint.bodyB.islandIndex
	joint.localCenterA = joint.bodyA.sweep.LocalCenter
	joint.localCenterB = joint.bodyB.sweep.LocalCenter
	joint.invMassA = joint.bodyA.invMass
	joint.invMassB = joint.bodyB.invMass
	joint.invIA = joint.bodyA.invI
	joint.invIB = joint.bodyB.invI

	cA := data.positions[joint.indexA].c
	aA := data.positions[joint.indexA].a
	vA := data.velocities[joint.indexA].v
	wA := data.velocities[joint.indexA].w

	cB := data.positions[joint.indexB].c
	aB := data.positions[joint.indexB].a
	vB := data.velocities[joint.indexB].v
	wB := data.velocities[joint.indexB].w

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	joint.rA = MulRV(qA, joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = MulRV(qB, joint.localAnchorB.Sub(joint.localCenterB))

	// Get the pulley axes.
	joint.uA = cA.Add(joint.rA).Sub(joint.groundAnchorA)
	joint.uB = cB.Add(joint.rB).Sub(joint.groundAnchorB)

	lengthA := joint.uA.Length()
	lengthB := joint.uB.Length()

	if lengthA > 10.0*cfg.LinearSlop {
		joint.uA = joint.uA.Scale(1.0 / lengthA)
	} else {
		joint.uA.SetZero()
	}

	if lengthB > 10.0*cfg.LinearSlop {
		joint.uB = joint.uB.Scale(1.0 / lengthB)
	} else {
		joint.uB.SetZero()
	}

	// Compute effective mass.
	ruA := Cross(joint.rA, joint.uA)
	ruB := Cross(joint.rB, joint.uB)

	mA := joint.invMassA + joint.invIA*ruA*ruA
	mB := joint.invMassB + joint.invIB*ruB*ruB

	joint.mass = mA + joint.ratio*joint.ratio*mB

	if joint.mass > 0.0 {
		joint.mass = 1.0 / joint.mass
	}

	if data.step.warmStarting {
		// Scale impulses to support variable time steps.
		joint.impulse *= data.step.dtRatio

		pA := joint.uA.Scale(-joint.impulse)
		pB := joint.uB.Scale(-joint.ratio * joint.impulse)

		vA = vA.Add(pA.Scale(joint.invMassA))
		wA += joint.invIA * Cross(joint.rA, pA)
		vB = vB.Add(pB.Scale(joint.invMassB))
		wB += joint.invIB * Cross(joint.rB, pB)
	} else {
		joint.impulse = 0.0
	}

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *PulleyJoint) solveVelocityConstraints(cfg Config, data solverData) {
	vA := data.velocities[joint.indexA].v
	wA := data.velocities[joint.indexA].w
	vB := data.velocities[joint.indexB].v
	wB := data.velocities[joint.indexB].w

	vpA := vA.Add(CrossSV(wA, joint.rA))
	vpB := vB.Add(CrossSV(wB, joint.rB))

	cdot := -Dot(joint.uA, vpA) - joint.ratio*Dot(joint.uB, vpB)
	impulse := -joint.mass * cdot
	joint.impulse += impulse

	pA := joint.uA.Scale(-impulse)
	pB := joint.uB.Scale(-joint.ratio * impulse)
	vA = vA.Add(pA.Scale(joint.invMassA))
	wA += joint.invIA * Cross(joint.rA, pA)
	vB = vB.Add(pB.Scale(joint.invMassB))
	wB += joint.invIB * Cross(joint.rB, pB)

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *PulleyJoint) solvePositionConstraints(cfg Config, data solverData) bool {
	cA := data.positions[joint.indexA].c
	aA := data.positions[joint.indexA].a
	cB := data.positions[joint.indexB].c
	aB := data.positions[joint.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	rA := MulRV(qA, joint.localAnchorA.Sub(joint.localCenterA))
	rB := MulRV(qB, joint.localAnchorB.Sub(joint.localCenterB))

	// Get the pulley axes.
	uA := cA.Add(rA).Sub(joint.groundAnchorA)
	uB := cB.Add(rB).Sub(joint.groundAnchorB)

	lengthA := uA.Length()
	lengthB := uB.Length()

	if lengthA > 10.0*cfg.LinearSlop {
		uA = uA.Scale(1.0 / lengthA)
	} else {
		uA.SetZero()
	}

	if lengthB > 10.0*cfg.LinearSlop {
		uB = uB.Scale(1.0 / lengthB)
	} else {
		uB.SetZero()
	}

	// Compute effective mass.
	ruA := Cross(rA, uA)
	ruB := Cross(rB, uB)

	mA := joint.invMassA + joint.invIA*ruA*ruA
	mB := joint.invMassB + joint.invIB*ruB*ruB

	mass := mA + joint.ratio*joint.ratio*mB

	if mass > 0.0 {
		mass = 1.0 / mass
	}

	c := joint.constant - lengthA - joint.ratio*lengthB
	linearError := math.Abs(c)

	impulse := -mass * c

	pA := uA.Scale(-impulse)
	pB := uB.Scale(-joint.ratio * impulse)

	cA = cA.Add(pA.Scale(joint.invMassA))
	aA += joint.invIA * Cross(rA, pA)
	cB = cB.Add(pB.Scale(joint.invMassB))
	aB += joint.invIB * Cross(rB, pB)

	data.positions[joint.indexA].c = cA
	data.positions[joint.indexA].a = aA
	data.positions[joint.indexB].c = cB
	data.positions[joint.indexB].a = aB

	return linearError < cfg.LinearSlop
}
