package impulse

import "math"

// WeldJointDef needs the local anchor points where the bodies are attached
// and the relative body angle. The position of the anchor points is important
// for computing the reaction torque.
type WeldJointDef struct {
	JointDefBase

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The body B angle minus body A angle in the reference state, in radians.
	ReferenceAngle float64

	// The mass-spring-damper frequency in Hertz. Rotation only. Disable
	// softness with a value of 0.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func MakeWeldJointDef() WeldJointDef {
	return WeldJointDef{}
}

// Initialize sets the bodies, anchors and reference angle using a world
// anchor point.
func (def *WeldJointDef) Initialize(bodyA *Body, bodyB *Body, anchor Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = bodyB.GetLocalPoint(anchor)
	def.ReferenceAngle = bodyB.GetAngle() - bodyA.GetAngle()
}

func (def *WeldJointDef) makeJoint() Joint {
	j := &WeldJoint{
		jointHeader:    makeJointHeader(WeldJointType, def),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}
	return j
}

// WeldJoint essentially glues two bodies together. A weld joint may distort
// somewhat because the island constraint solver is approximate.
//
// Point-to-point constraint:
//
//	C = p2 - p1
//	Cdot = v2 + cross(w2, r2) - v1 - cross(w1, r1)
//	J = [-I -r1_skew I r2_skew]
//
// Angle constraint:
//
//	C = angle2 - angle1 - referenceAngle
//	Cdot = w2 - w1
//	J = [0 0 -1 0 0 1]
//	K = invI1 + invI2
type WeldJoint struct {
	jointHeader

	frequencyHz  float64
	dampingRatio float64
	bias         float64

	// Solver shared.
	localAnchorA   Vec2
	localAnchorB   Vec2
	referenceAngle float64
	gamma          float64
	impulse        Vec3

	// Solver temp.
	indexA       int
	indexB       int
	rA           Vec2
	rB           Vec2
	localCenterA Vec2
	localCenterB Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	mass         Mat33
}

func (joint *WeldJoint) GetLocalAnchorA() Vec2 {
	return joint.localAnchorA
}

func (joint *WeldJoint) GetLocalAnchorB() Vec2 {
	return joint.localAnchorB
}

func (joint *WeldJoint) GetReferenceAngle() float64 {
	return joint.referenceAngle
}

func (joint *WeldJoint) SetFrequency(hz float64) {
	joint.frequencyHz = hz
}

func (joint *WeldJoint) GetFrequency() float64 {
	return joint.frequencyHz
}

func (joint *WeldJoint) SetDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *WeldJoint) GetDampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *WeldJoint) GetAnchorA() Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *WeldJoint) GetAnchorB() Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *WeldJoint) GetReactionForce(invDt float64) Vec2 {
	return Vec2{joint.impulse.X, joint.impulse.Y}.Scale(invDt)
}

func (joint *WeldJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse.Z
}

func (joint *WeldJoint) initVelocityConstraints(cfg Config, data solverData) {
	joint.indexA = joint.bodyA.islandIndex
	joint.indexB = joint.bodyB.islandIndex
	joint.localCenterA = joint.bodyA.sweep.LocalCenter
	joint.localCenterB = joint.bodyB.sweep.LocalCenter
	joint.invMassA = joint.bodyA.invMass
	joint.invMassB = joint.bodyB.invMass
	joint.invIA = joint.bodyA.invI
	joint.invIB = joint.bodyB.invI

	aA := data.positions[joint.indexA].a
	vA := data.velocities[joint.indexA].v
	wA := data.velocities[joint.indexA].w

	aB := data.positions[joint.indexB].a
	vB := data.velocities[joint.indexB].v
	wB := data.velocities[joint.indexB].w

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	joint.rA = MulRV(qA, joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = MulRV(qB, joint.localAnchorB.Sub(joint.localCenterB))

	// J = [-I -r1_skew I r2_skew]
	//     [ 0       -1 0       1]
	// r_skew = [-ry; rx]
	//
	// K = [ mA+mB+r1y^2*iA+r2y^2*iB,  -r1y*iA*r1x-r2y*iB*r2x,  -r1y*iA-r2y*iB]
	//     [  -r1y*iA*r1x-r2y*iB*r2x, mA+mB+r1x^2*iA+r2x^2*iB,   r1x*iA+r2x*iB]
	//     [          -r1y*iA-r2y*iB,           r1x*iA+r2x*iB,           iA+iB]

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	var k Mat33
	k.Ex.X = mA + mB + joint.rA.Y*joint.rA.Y*iA + joint.rB.Y*joint.rB.Y*iB
	k.Ey.X = -joint.rA.Y*joint.rA.X*iA - joint.rB.Y*joint.rB.X*iB
	k.Ez.X = -joint.rA.Y*iA - joint.rB.Y*iB
	k.Ex.Y = k.Ey.X
	k.Ey.Y = mA + mB + joint.rA.X*joint.rA.X*iA + joint.rB.X*joint.rB.X*iB
	k.Ez.Y = joint.rA.X*iA + joint.rB.X*iB
	k.Ex.Z = k.Ez.X
	k.Ey.Z = k.Ez.Y
	k.Ez.Z = iA + iB

	if joint.frequencyHz > 0.0 {
		k.GetInverse22(&joint.mass)

		invM := iA + iB
		m := 0.0
		if invM > 0.0 {
			m = 1.0 / invM
		}

		c := aB - aA - joint.referenceAngle

		// Frequency.
		omega := 2.0 * pi * joint.frequencyHz

		// Damping coefficient.
		d := 2.0 * m * joint.dampingRatio * omega

		// Spring stiffness.
		ks := m * omega * omega

		h := data.step.dt
		joint.gamma = h * (d + h*ks)
		if joint.gamma != 0.0 {
			joint.gamma = 1.0 / joint.gamma
		}
		joint.bias = c * h * ks * joint.gamma

		invM += joint.gamma
		if invM != 0.0 {
			joint.mass.Ez.Z = 1.0 / invM
		} else {
			joint.mass.Ez.Z = 0.0
		}
	} else if k.Ez.Z == 0.0 {
		k.GetInverse22(&joint.mass)
		joint.gamma = 0.0
		joint.bias = 0.0
	} else {
		k.GetSymInverse33(&joint.mass)
		joint.gamma = 0.0
		joint.bias = 0.0
	}

	if data.step.warmStarting {
		// Scale impulses to support a variable time step.
		joint.impulse = joint.impulse.Scale(data.step.dtRatio)

		p := Vec2{joint.impulse.X, joint.impulse.Y}

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * (Cross(joint.rA, p) + joint.impulse.Z)

		vB = vB.Add(p.Scale(mB))
		wB += iB * (Cross(joint.rB, p) + joint.impulse.Z)
	} else {
		joint.impulse.SetZero()
	}

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *WeldJoint) solveVelocityConstraints(cfg Config, data solverData) {
	vA := data.velocities[joint.indexA].v
	wA := data.velocities[joint.indexA].w
	vB := data.velocities[joint.indexB].v
	wB := data.velocities[joint.indexB].w

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	if joint.frequencyHz > 0.0 {
		cdot2 := wB - wA

		impulse2 := -joint.mass.Ez.Z * (cdot2 + joint.bias + joint.gamma*joint.impulse.Z)
		joint.impulse.Z += impulse2

		wA -= iA * impulse2
		wB += iB * impulse2

		cdot1 := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))

		impulse1 := MulM33V2(joint.mass, cdot1).Neg()
		joint.impulse.X += impulse1.X
		joint.impulse.Y += impulse1.Y

		p := impulse1

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * Cross(joint.rA, p)

		vB = vB.Add(p.Scale(mB))
		wB += iB * Cross(joint.rB, p)
	} else {
		cdot1 := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))
		cdot2 := wB - wA
		cdot := Vec3{cdot1.X, cdot1.Y, cdot2}

		impulse := MulM33V(joint.mass, cdot).Neg()
		joint.impulse = joint.impulse.Add(impulse)

		p := Vec2{impulse.X, impulse.Y}

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * (Cross(joint.rA, p) + impulse.Z)

		vB = vB.Add(p.Scale(mB))
		wB += iB * (Cross(joint.rB, p) + impulse.Z)
	}

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *WeldJoint) solvePositionConstraints(cfg Config, data solverData) bool {
	cA := data.positions[joint.indexA].c
	aA := data.positions[joint.indexA].a
	cB := data.positions[joint.indexB].c
	aB := data.positions[joint.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	rA := MulRV(qA, joint.localAnchorA.Sub(joint.localCenterA))
	rB := MulRV(qB, joint.localAnchorB.Sub(joint.localCenterB))

	positionError := 0.0
	angularError := 0.0

	var k Mat33
	k.Ex.X = mA + mB + rA.Y*rA.Y*iA + rB.Y*rB.Y*iB
	k.Ey.X = -rA.Y*rA.X*iA - rB.Y*rB.X*iB
	k.Ez.X = -rA.Y*iA - rB.Y*iB
	k.Ex.Y = k.Ey.X
	k.Ey.Y = mA + mB + rA.X*rA.X*iA + rB.X*rB.X*iB
	k.Ez.Y = rA.X*iA + rB.X*iB
	k.Ex.Z = k.Ez.X
	k.Ey.Z = k.Ez.Y
	k.Ez.Z = iA + iB

	if joint.frequencyHz > 0.0 {
		c1 := cB.Add(rB).Sub(cA).Sub(rA)

		positionError = c1.Length()

		p := k.Solve22(c1).Neg()

		cA = cA.Sub(p.Scale(mA))
		aA -= iA * Cross(rA, p)

		cB = cB.Add(p.Scale(mB))
		aB += iB * Cross(rB, p)
	} else {
		c1 := cB.Add(rB).Sub(cA).Sub(rA)
		c2 := aB - aA - joint.referenceAngle

		positionError = c1.Length()
		angularError = math.Abs(c2)

		c := Vec3{c1.X, c1.Y, c2}

		var impulse Vec3
		if k.Ez.Z > 0.0 {
			impulse = k.Solve33(c).Neg()
		} else {
			impulse2 := k.Solve22(c1).Neg()
			impulse = Vec3{impulse2.X, impulse2.Y, 0.0}
		}

		p := Vec2{impulse.X, impulse.Y}

		cA = cA.Sub(p.Scale(mA))
		aA -= iA * (Cross(rA, p) + impulse.Z)

		cB = cB.Add(p.Scale(mB))
		aB += iB * (Cross(rB, p) + impulse.Z)
	}

	data.positions[joint.indexA].c = cA
	data.positions[joint.indexA].a = aA
	data.positions[joint.indexB].c = cB
	data.positions[joint.indexB].a = aB

	return positionError <= cfg.LinearSlop && angularError <= cfg.AngularSlop
}
