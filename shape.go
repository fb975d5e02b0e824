package impulse

// MassData holds the mass properties computed for a shape.
type MassData struct {
	// The mass of the shape, usually in kilograms.
	Mass float64

	// The position of the shape's centroid relative to the shape's origin.
	Center Vec2

	// The rotational inertia of the shape about the local origin.
	I float64
}

// ShapeType identifies a concrete shape kind. It indexes the narrow-phase
// dispatch table.
type ShapeType uint8

const (
	CircleShapeType ShapeType = iota
	EdgeShapeType
	PolygonShapeType
	ChainShapeType
	shapeTypeCount
)

// Shape is a convex (or segment-sequence) collision geometry. Shapes used for
// simulation are cloned when a fixture is created, so a shape value can be
// reused across fixture definitions. Shapes may encapsulate one or more child
// primitives.
type Shape interface {
	// Clone returns a deep copy of the concrete shape.
	Clone() Shape

	// Type identifies the concrete shape; use it to down cast.
	Type() ShapeType

	// Radius is the shape skin radius.
	Radius() float64

	// ChildCount is the number of child primitives.
	ChildCount() int

	// TestPoint tests a world point for containment. Only works for convex
	// shapes.
	TestPoint(xf Transform, p Vec2) bool

	// RayCast casts a ray against a child shape.
	RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool

	// ComputeAABB computes the axis aligned bounding box for a child shape
	// under the given world transform.
	ComputeAABB(aabb *AABB, xf Transform, childIndex int)

	// ComputeMass computes mass, centroid and rotational inertia for the
	// given density (kg/m^2). The inertia is about the local origin.
	ComputeMass(massData *MassData, density float64)
}

type shapeBase struct {
	shapeType ShapeType

	// Radius of the shape skin. For polygonal shapes this should stay at the
	// default; there is no support for rounded polygons.
	radius float64
}

func (s shapeBase) Type() ShapeType {
	return s.shapeType
}

func (s shapeBase) Radius() float64 {
	return s.radius
}

func (s *shapeBase) SetRadius(r float64) {
	s.radius = r
}
