package impulse

// JointType identifies a concrete joint kind.
type JointType uint8

const (
	UnknownJointType JointType = iota
	RevoluteJointType
	DistanceJointType
	PulleyJointType
	WeldJointType
)

// limitState tracks which side of a joint limit is engaged.
type limitState uint8

const (
	inactiveLimit limitState = iota
	atLowerLimit
	atUpperLimit
	equalLimits
)

// JointEdge connects bodies and joints together in a joint graph where each
// body is a node and each joint is an edge. A joint edge belongs to a doubly
// linked list maintained in each attached body. Each joint has two joint
// nodes, one for each attached body.
type JointEdge struct {
	Other *Body
	Joint Joint
	Prev  *JointEdge
	Next  *JointEdge
}

// JointDefBase holds the definition fields shared by every joint type. It is
// embedded in the concrete joint definitions.
type JointDefBase struct {
	// Use this to attach application specific data to your joints.
	UserData interface{}

	// The first attached body.
	BodyA *Body

	// The second attached body.
	BodyB *Body

	// Set this flag to true if the attached bodies should collide.
	CollideConnected bool
}

func (def *JointDefBase) defBase() *JointDefBase {
	return def
}

// JointDef is implemented by the concrete joint definitions. A definition is
// passed to World.CreateJoint, which calls makeJoint to construct the joint.
type JointDef interface {
	defBase() *JointDefBase
	makeJoint() Joint
}

// Joint constrains two bodies together. Concrete joints embed jointHeader,
// which supplies the common accessors; the solver entry points are
// implemented per joint type.
type Joint interface {
	// Type identifies the concrete joint; use it to down cast.
	Type() JointType

	GetBodyA() *Body
	GetBodyB() *Body

	// GetAnchorA returns the anchor point on body A in world coordinates.
	GetAnchorA() Vec2

	// GetAnchorB returns the anchor point on body B in world coordinates.
	GetAnchorB() Vec2

	// GetReactionForce returns the reaction force on body B at the joint
	// anchor, in Newtons.
	GetReactionForce(invDt float64) Vec2

	// GetReactionTorque returns the reaction torque on body B, in N*m.
	GetReactionTorque(invDt float64) float64

	// GetNext returns the next joint in the world joint list.
	GetNext() Joint

	GetUserData() interface{}
	SetUserData(data interface{})

	// IsActive is true when both attached bodies are active.
	IsActive() bool

	// GetCollideConnected reports whether the attached bodies may collide.
	GetCollideConnected() bool

	// ShiftOrigin adjusts any points stored in world coordinates.
	ShiftOrigin(newOrigin Vec2)

	header() *jointHeader
	initVelocityConstraints(cfg Config, data solverData)
	solveVelocityConstraints(cfg Config, data solverData)
	solvePositionConstraints(cfg Config, data solverData) bool
}

// jointHeader is the state shared by every joint: graph linkage, attached
// bodies and the island traversal flag.
type jointHeader struct {
	jointType JointType

	prev Joint
	next Joint

	edgeA JointEdge
	edgeB JointEdge

	bodyA *Body
	bodyB *Body

	index int

	islandFlag       bool
	collideConnected bool

	userData interface{}
}

func makeJointHeader(jointType JointType, def JointDef) jointHeader {
	base := def.defBase()
	assert(base.BodyA != base.BodyB)

	return jointHeader{
		jointType:        jointType,
		bodyA:            base.BodyA,
		bodyB:            base.BodyB,
		collideConnected: base.CollideConnected,
		userData:         base.UserData,
	}
}

func (j *jointHeader) header() *jointHeader {
	return j
}

func (j *jointHeader) Type() JointType {
	return j.jointType
}

func (j *jointHeader) GetBodyA() *Body {
	return j.bodyA
}

func (j *jointHeader) GetBodyB() *Body {
	return j.bodyB
}

func (j *jointHeader) GetNext() Joint {
	return j.next
}

func (j *jointHeader) GetUserData() interface{} {
	return j.userData
}

func (j *jointHeader) SetUserData(data interface{}) {
	j.userData = data
}

func (j *jointHeader) IsActive() bool {
	return j.bodyA.IsActive() && j.bodyB.IsActive()
}

func (j *jointHeader) GetCollideConnected() bool {
	return j.collideConnected
}

// ShiftOrigin is a no-op for joints that store no world coordinates.
func (j *jointHeader) ShiftOrigin(newOrigin Vec2) {
}
