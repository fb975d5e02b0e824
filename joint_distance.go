package impulse

import "math"

// DistanceJointDef requires defining an anchor point on both bodies and the
// non-zero length of the joint. The definition uses local anchor points so
// that the initial configuration can violate the constraint slightly, which
// helps when saving and loading a game. Do not use a zero or short length.
type DistanceJointDef struct {
	JointDefBase

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The natural length between the anchor points.
	Length float64

	// The mass-spring-damper frequency in Hertz. A value of 0 disables
	// softness.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func MakeDistanceJointDef() DistanceJointDef {
	return DistanceJointDef{
		Length: 1.0,
	}
}

// Initialize sets the bodies, anchors and rest length from world anchors.
func (def *DistanceJointDef) Initialize(bodyA *Body, bodyB *Body, anchorA Vec2, anchorB Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.GetLocalPoint(anchorA)
	def.LocalAnchorB = bodyB.GetLocalPoint(anchorB)
	def.Length = anchorB.Sub(anchorA).Length()
}

func (def *DistanceJointDef) makeJoint() Joint {
	j := &DistanceJoint{
		jointHeader:  makeJointHeader(DistanceJointType, def),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       def.Length,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
	return j
}

// DistanceJoint constrains two points on two bodies to remain at a fixed
// distance from each other. You can view it as a massless, rigid rod.
//
// The hard constraint is:
//
//	C = norm(p2 - p1) - L
//	u = (p2 - p1) / norm(p2 - p1)
//	Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
//	J = [-u -cross(r1, u) u cross(r2, u)]
//	K = J * invM * JT
//	  = invMass1 + invI1 * cross(r1, u)^2 + invMass2 + invI2 * cross(r2, u)^2
type DistanceJoint struct {
	jointHeader

	frequencyHz  float64
	dampingRatio float64
	bias         float64

	// Solver shared.
	localAnchorA Vec2
	localAnchorB Vec2
	gamma        float64
	impulse      float64
	length       float64

	// Solver temp.
	indexA       int
	indexB       int
	u            Vec2
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

// GetLocalAnchorA returns the local anchor point relative to body A's origin.
func (joint *DistanceJoint) GetLocalAnchorA() Vec2 {
	return joint.localAnchorA
}

// GetLocalAnchorB returns the local anchor point relative to body B's origin.
func (joint *DistanceJoint) GetLocalAnchorB() Vec2 {
	return joint.localAnchorB
}

// SetLength sets the natural length. Manipulating the length can lead to
// non-physical behavior when the frequency is zero.
func (joint *DistanceJoint) SetLength(length float64) {
	joint.length = length
}

func (joint *DistanceJoint) GetLength() float64 {
	return joint.length
}

func (joint *DistanceJoint) SetFrequency(hz float64) {
	joint.frequencyHz = hz
}

func (joint *DistanceJoint) GetFrequency() float64 {
	return joint.frequencyHz
}

func (joint *DistanceJoint) SetDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *DistanceJoint) GetDampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *DistanceJoint) GetAnchorA() Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *DistanceJoint) GetAnchorB() Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *DistanceJoint) GetReactionForce(invDt float64) Vec2 {
	return joint.u.Scale(invDt * joint.impulse)
}

func (joint *DistanceJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (joint *DistanceJoint) initVelocityConstraints(cfg Config, data solverData) {
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
	joint.u = cB.Add(joint.rB).Sub(cA).Sub(joint.rA)

	// Handle singularity.
	length := joint.u.Length()
	if length > cfg.LinearSlop {
		joint.u = joint.u.Scale(1.0 / length)
	} else {
		joint.u.SetZero()
	}

	crAu := Cross(joint.rA, joint.u)
	crBu := Cross(joint.rB, joint.u)
	invMass := joint.invMassA + joint.invIA*crAu*crAu + joint.invMassB + joint.invIB*crBu*crBu

	// Compute the effective mass matrix.
	if invMass != 0.0 {
		joint.mass = 1.0 / invMass
	} else {
		joint.mass = 0.0
	}

	if joint.frequencyHz > 0.0 {
		c := length - joint.length

		// Frequency.
		omega := 2.0 * pi * joint.frequencyHz

		// Damping coefficient.
		d := 2.0 * joint.mass * joint.dampingRatio * omega

		// Spring stiffness.
		k := joint.mass * omega * omega

		h := data.step.dt
		joint.gamma = h * (d + h*k)
		if joint.gamma != 0.0 {
			joint.gamma = 1.0 / joint.gamma
		}
		joint.bias = c * h * k * joint.gamma

		invMass += joint.gamma
		if invMass != 0.0 {
			joint.mass = 1.0 / invMass
		} else {
			joint.mass = 0.0
		}
	} else {
		joint.gamma = 0.0
		joint.bias = 0.0
	}

	if data.step.warmStarting {
		// Scale the impulse to support a variable time step.
		joint.impulse *= data.step.dtRatio

		p := joint.u.Scale(joint.impulse)
		vA = vA.Sub(p.Scale(joint.invMassA))
		wA -= joint.invIA * Cross(joint.rA, p)
		vB = vB.Add(p.Scale(joint.invMassB))
		wB += joint.invIB * Cross(joint.rB, p)
	} else {
		joint.impulse = 0.0
	}

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *DistanceJoint) solveVelocityConstraints(cfg Config, data solverData) {
	vA := data.velocities[joint.indexA].v
	wA := data.velocities[joint.indexA].w
	vB := data.velocities[joint.indexB].v
	wB := data.velocities[joint.indexB].w

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossSV(wA, joint.rA))
	vpB := vB.Add(CrossSV(wB, joint.rB))
	cdot := Dot(joint.u, vpB.Sub(vpA))

	impulse := -joint.mass * (cdot + joint.bias + joint.gamma*joint.impulse)
	joint.impulse += impulse

	p := joint.u.Scale(impulse)
	vA = vA.Sub(p.Scale(joint.invMassA))
	wA -= joint.invIA * Cross(joint.rA, p)
	vB = vB.Add(p.Scale(joint.invMassB))
	wB += joint.invIB * Cross(joint.rB, p)

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *DistanceJoint) solvePositionConstraints(cfg Config, data solverData) bool {
	if joint.frequencyHz > 0.0 {
		// There is no position correction for soft distance constraints.
		return true
	}

	cA := data.positions[joint.indexA].c
	aA := data.positions[joint.indexA].a
	cB := data.positions[joint.indexB].c
	aB := data.positions[joint.indexB].a

	qA := MakeRot(aA)
	qB := MakeRot(aB)

	rA := MulRV(qA, joint.localAnchorA.Sub(joint.localCenterA))
	rB := MulRV(qB, joint.localAnchorB.Sub(joint.localCenterB))
	u := cB.Add(rB).Sub(cA).Sub(rA)

	length := u.Normalize()
	c := length - joint.length
	c = Clamp(c, -cfg.MaxLinearCorrection, cfg.MaxLinearCorrection)

	impulse := -joint.mass * c
	p := u.Scale(impulse)

	cA = cA.Sub(p.Scale(joint.invMassA))
	aA -= joint.invIA * Cross(rA, p)
	cB = cB.Add(p.Scale(joint.invMassB))
	aB += joint.invIB * Cross(rB, p)

	data.positions[joint.indexA].c = cA
	data.positions[joint.indexA].a = aA
	data.positions[joint.indexB].c = cB
	data.positions[joint.indexB].a = aB

	return math.Abs(c) < cfg.LinearSlop
}
