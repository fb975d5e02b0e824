package impulse

import "math"

// RevoluteJointDef requires defining an anchor point where the bodies are
// joined. The definition uses local anchor points so that the initial
// configuration can violate the constraint slightly. You also need to specify
// the initial relative angle for joint limits; this helps when saving and
// loading a game.
//
// The local anchor points are measured from the body's origin rather than the
// center of mass because:
//  1. you might not know where the center of mass will be,
//  2. if you add/remove shapes from a body and recompute the mass, the
//     joints will be broken.
type RevoluteJointDef struct {
	JointDefBase

	// The local anchor point relative to body A's origin.
	LocalAnchorA Vec2

	// The local anchor point relative to body B's origin.
	LocalAnchorB Vec2

	// The body B angle minus body A angle in the reference state, in radians.
	ReferenceAngle float64

	// A flag to enable joint limits.
	EnableLimit bool

	// The lower angle for the joint limit, in radians.
	LowerAngle float64

	// The upper angle for the joint limit, in radians.
	UpperAngle float64

	// A flag to enable the joint motor.
	EnableMotor bool

	// The desired motor speed, usually in radians per second.
	MotorSpeed float64

	// The maximum motor torque used to achieve the desired motor speed,
	// usually in N*m.
	MaxMotorTorque float64
}

func MakeRevoluteJointDef() RevoluteJointDef {
	return RevoluteJointDef{}
}

// Initialize sets the bodies, anchors and reference angle using a world
// anchor point.
func (def *RevoluteJointDef) Initialize(bodyA *Body, bodyB *Body, anchor Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = bodyB.GetLocalPoint(anchor)
	def.ReferenceAngle = bodyB.GetAngle() - bodyA.GetAngle()
}

func (def *RevoluteJointDef) makeJoint() Joint {
	j := &RevoluteJoint{
		jointHeader:    makeJointHeader(RevoluteJointType, def),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		lowerAngle:     def.LowerAngle,
		upperAngle:     def.UpperAngle,
		maxMotorTorque: def.MaxMotorTorque,
		motorSpeed:     def.MotorSpeed,
		enableLimit:    def.EnableLimit,
		enableMotor:    def.EnableMotor,
		limitState:     inactiveLimit,
	}
	return j
}

// RevoluteJoint constrains two bodies to share a common point while they are
// free to rotate about the point. The relative rotation about the shared
// point is the joint angle. You can limit the relative rotation with a joint
// limit that specifies a lower and upper angle. You can use a motor to drive
// the relative rotation about the shared point; a maximum motor torque is
// provided so that infinite forces are not generated.
//
// Point-to-point constraint:
//
//	C = p2 - p1
//	Cdot = v2 + cross(w2, r2) - v1 - cross(w1, r1)
//	J = [-I -r1_skew I r2_skew]
//
// Motor constraint:
//
//	Cdot = w2 - w1
//	J = [0 0 -1 0 0 1]
//	K = invI1 + invI2
type RevoluteJoint struct {
	jointHeader

	// Solver shared.
	localAnchorA Vec2
	localAnchorB Vec2
	impulse      Vec3
	motorImpulse float64

	enableMotor    bool
	maxMotorTorque float64
	motorSpeed     float64

	enableLimit    bool
	referenceAngle float64
	lowerAngle     float64
	upperAngle     float64

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
	mass         Mat33 // effective mass for the point-to-point constraint
	motorMass    float64
	limitState   limitState
}

func (joint *RevoluteJoint) GetLocalAnchorA() Vec2 {
	return joint.localAnchorA
}

func (joint *RevoluteJoint) GetLocalAnchorB() Vec2 {
	return joint.localAnchorB
}

func (joint *RevoluteJoint) GetReferenceAngle() float64 {
	return joint.referenceAngle
}

// GetJointAngle returns the current relative angle in radians.
func (joint *RevoluteJoint) GetJointAngle() float64 {
	return joint.bodyB.sweep.A - joint.bodyA.sweep.A - joint.referenceAngle
}

// GetJointSpeed returns the current relative angular velocity.
func (joint *RevoluteJoint) GetJointSpeed() float64 {
	return joint.bodyB.angularVelocity - joint.bodyA.angularVelocity
}

func (joint *RevoluteJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *RevoluteJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.enableMotor = flag
	}
}

// GetMotorTorque returns the torque applied by the motor in the last step.
func (joint *RevoluteJoint) GetMotorTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *RevoluteJoint) GetMotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *RevoluteJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.motorSpeed = speed
	}
}

func (joint *RevoluteJoint) GetMaxMotorTorque() float64 {
	return joint.maxMotorTorque
}

func (joint *RevoluteJoint) SetMaxMotorTorque(torque float64) {
	if torque != joint.maxMotorTorque {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.maxMotorTorque = torque
	}
}

func (joint *RevoluteJoint) IsLimitEnabled() bool {
	return joint.enableLimit
}

func (joint *RevoluteJoint) EnableLimit(flag bool) {
	if flag != joint.enableLimit {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.enableLimit = flag
		joint.impulse.Z = 0.0
	}
}

func (joint *RevoluteJoint) GetLowerLimit() float64 {
	return joint.lowerAngle
}

func (joint *RevoluteJoint) GetUpperLimit() float64 {
	return joint.upperAngle
}

func (joint *RevoluteJoint) SetLimits(lower float64, upper float64) {
	assert(lower <= upper)

	if lower != joint.lowerAngle || upper != joint.upperAngle {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.impulse.Z = 0.0
		joint.lowerAngle = lower
		joint.upperAngle = upper
	}
}

func (joint *RevoluteJoint) GetAnchorA() Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *RevoluteJoint) GetAnchorB() Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *RevoluteJoint) GetReactionForce(invDt float64) Vec2 {
	return Vec2{joint.impulse.X, joint.impulse.Y}.Scale(invDt)
}

func (joint *RevoluteJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse.Z
}

func (joint *RevoluteJoint) initVelocityConstraints(cfg Config, data solverData) {
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

	fixedRotation := iA+iB == 0.0

	joint.mass.Ex.X = mA + mB + joint.rA.Y*joint.rA.Y*iA + joint.rB.Y*joint.rB.Y*iB
	joint.mass.Ey.X = -joint.rA.Y*joint.rA.X*iA - joint.rB.Y*joint.rB.X*iB
	joint.mass.Ez.X = -joint.rA.Y*iA - joint.rB.Y*iB
	joint.mass.Ex.Y = joint.mass.Ey.X
	joint.mass.Ey.Y = mA + mB + joint.rA.X*joint.rA.X*iA + joint.rB.X*joint.rB.X*iB
	joint.mass.Ez.Y = joint.rA.X*iA + joint.rB.X*iB
	joint.mass.Ex.Z = joint.mass.Ez.X
	joint.mass.Ey.Z = joint.mass.Ez.Y
	joint.mass.Ez.Z = iA + iB

	joint.motorMass = iA + iB
	if joint.motorMass > 0.0 {
		joint.motorMass = 1.0 / joint.motorMass
	}

	if !joint.enableMotor || fixedRotation {
		joint.motorImpulse = 0.0
	}

	if joint.enableLimit && !fixedRotation {
		jointAngle := aB - aA - joint.referenceAngle
		if math.Abs(joint.upperAngle-joint.lowerAngle) < 2.0*cfg.AngularSlop {
			joint.limitState = equalLimits
		} else if jointAngle <= joint.lowerAngle {
			if joint.limitState != atLowerLimit {
				joint.impulse.Z = 0.0
			}
			joint.limitState = atLowerLimit
		} else if jointAngle >= joint.upperAngle {
			if joint.limitState != atUpperLimit {
				joint.impulse.Z = 0.0
			}
			joint.limitState = atUpperLimit
		} else {
			joint.limitState = inactiveLimit
			joint.impulse.Z = 0.0
		}
	} else {
		joint.limitState = inactiveLimit
	}

	if data.step.warmStarting {
		// Scale impulses to support a variable time step.
		joint.impulse = joint.impulse.Scale(data.step.dtRatio)
		joint.motorImpulse *= data.step.dtRatio

		p := Vec2{joint.impulse.X, joint.impulse.Y}

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * (Cross(joint.rA, p) + joint.motorImpulse + joint.impulse.Z)

		vB = vB.Add(p.Scale(mB))
		wB += iB * (Cross(joint.rB, p) + joint.motorImpulse + joint.impulse.Z)
	} else {
		joint.impulse.SetZero()
		joint.motorImpulse = 0.0
	}

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *RevoluteJoint) solveVelocityConstraints(cfg Config, data solverData) {
	vA := data.velocities[joint.indexA].v
	wA := data.velocities[joint.indexA].w
	vB := data.velocities[joint.indexB].v
	wB := data.velocities[joint.indexB].w

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	fixedRotation := iA+iB == 0.0

	// Solve motor constraint.
	if joint.enableMotor && joint.limitState != equalLimits && !fixedRotation {
		cdot := wB - wA - joint.motorSpeed
		impulse := -joint.motorMass * cdot
		oldImpulse := joint.motorImpulse
		maxImpulse := data.step.dt * joint.maxMotorTorque
		joint.motorImpulse = Clamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve limit constraint.
	if joint.enableLimit && joint.limitState != inactiveLimit && !fixedRotation {
		cdot1 := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))
		cdot2 := wB - wA
		cdot := Vec3{cdot1.X, cdot1.Y, cdot2}

		impulse := joint.mass.Solve33(cdot).Neg()

		switch joint.limitState {
		case equalLimits:
			joint.impulse = joint.impulse.Add(impulse)

		case atLowerLimit:
			newImpulse := joint.impulse.Z + impulse.Z
			if newImpulse < 0.0 {
				rhs := cdot1.Neg().Add(Vec2{joint.mass.Ez.X, joint.mass.Ez.Y}.Scale(joint.impulse.Z))
				reduced := joint.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -joint.impulse.Z
				joint.impulse.X += reduced.X
				joint.impulse.Y += reduced.Y
				joint.impulse.Z = 0.0
			} else {
				joint.impulse = joint.impulse.Add(impulse)
			}

		case atUpperLimit:
			newImpulse := joint.impulse.Z + impulse.Z
			if newImpulse > 0.0 {
				rhs := cdot1.Neg().Add(Vec2{joint.mass.Ez.X, joint.mass.Ez.Y}.Scale(joint.impulse.Z))
				reduced := joint.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -joint.impulse.Z
				joint.impulse.X += reduced.X
				joint.impulse.Y += reduced.Y
				joint.impulse.Z = 0.0
			} else {
				joint.impulse = joint.impulse.Add(impulse)
			}
		}

		p := Vec2{impulse.X, impulse.Y}

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * (Cross(joint.rA, p) + impulse.Z)

		vB = vB.Add(p.Scale(mB))
		wB += iB * (Cross(joint.rB, p) + impulse.Z)
	} else {
		// Solve point-to-point constraint.
		cdot := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))
		impulse := joint.mass.Solve22(cdot.Neg())

		joint.impulse.X += impulse.X
		joint.impulse.Y += impulse.Y

		vA = vA.Sub(impulse.Scale(mA))
		wA -= iA * Cross(joint.rA, impulse)

		vB = vB.Add(impulse.Scale(mB))
		wB += iB * Cross(joint.rB, impulse)
	}

	data.velocities[joint.indexA].v = vA
	data.velocities[joint.indexA].w = wA
	data.velocities[joint.indexB].v = vB
	data.velocities[joint.indexB].w = wB
}

func (joint *RevoluteJoint) solvePositionConstraints(cfg Config, data solverData) bool {
	cA := data.positions[joint.indexA].c
	aA := data.positions[joint.indexA].a
	cB := data.positions[joint.indexB].c
	aB := data.positions[joint.indexB].a

	angularError := 0.0
	positionError := 0.0

	fixedRotation := joint.invIA+joint.invIB == 0.0

	// Solve angular limit constraint.
	if joint.enableLimit && joint.limitState != inactiveLimit && !fixedRotation {
		angle := aB - aA - joint.referenceAngle
		limitImpulse := 0.0

		switch joint.limitState {
		case equalLimits:
			// Prevent large angular corrections.
			c := Clamp(angle-joint.lowerAngle, -cfg.MaxAngularCorrection, cfg.MaxAngularCorrection)
			limitImpulse = -joint.motorMass * c
			angularError = math.Abs(c)

		case atLowerLimit:
			c := angle - joint.lowerAngle
			angularError = -c

			// Prevent large angular corrections and allow some slop.
			c = Clamp(c+cfg.AngularSlop, -cfg.MaxAngularCorrection, 0.0)
			limitImpulse = -joint.motorMass * c

		case atUpperLimit:
			c := angle - joint.upperAngle
			angularError = c

			// Prevent large angular corrections and allow some slop.
			c = Clamp(c-cfg.AngularSlop, 0.0, cfg.MaxAngularCorrection)
			limitImpulse = -joint.motorMass * c
		}

		aA -= joint.invIA * limitImpulse
		aB += joint.invIB * limitImpulse
	}

	// Solve point-to-point constraint.
	{
		qA := MakeRot(aA)
		qB := MakeRot(aB)
		rA := MulRV(qA, joint.localAnchorA.Sub(joint.localCenterA))
		rB := MulRV(qB, joint.localAnchorB.Sub(joint.localCenterB))

		c := cB.Add(rB).Sub(cA).Sub(rA)
		positionError = c.Length()

		mA := joint.invMassA
		mB := joint.invMassB
		iA := joint.invIA
		iB := joint.invIB

		var k Mat22
		k.Ex.X = mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
		k.Ex.Y = -iA*rA.X*rA.Y - iB*rB.X*rB.Y
		k.Ey.X = k.Ex.Y
		k.Ey.Y = mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X

		impulse := k.Solve(c).Neg()

		cA = cA.Sub(impulse.Scale(mA))
		aA -= iA * Cross(rA, impulse)

		cB = cB.Add(impulse.Scale(mB))
		aB += iB * Cross(rB, impulse)
	}

	data.positions[joint.indexA].c = cA
	data.positions[joint.indexA].a = aA
	data.positions[joint.indexB].c = cB
	data.positions[joint.indexB].a = aB

	return positionError <= cfg.LinearSlop && angularError <= cfg.AngularSlop
}
