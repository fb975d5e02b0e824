package impulse

// EdgeShape is a line segment. Edges can be connected in chains or loops to
// other edge shapes; the adjacency vertices are used for smooth collision.
type EdgeShape struct {
	shapeBase

	// The edge vertices.
	Vertex1, Vertex2 Vec2

	// Optional adjacent vertices used for smooth collision.
	Vertex0, Vertex3       Vec2
	HasVertex0, HasVertex3 bool
}

func NewEdgeShape() *EdgeShape {
	return &EdgeShape{
		shapeBase: shapeBase{shapeType: EdgeShapeType, radius: DefaultConfig().PolygonRadius},
	}
}

// Set defines the edge as an isolated segment.
func (edge *EdgeShape) Set(v1, v2 Vec2) {
	edge.Vertex1 = v1
	edge.Vertex2 = v2
	edge.HasVertex0 = false
	edge.HasVertex3 = false
}

func (edge *EdgeShape) Clone() Shape {
	clone := *edge
	return &clone
}

func (edge *EdgeShape) ChildCount() int {
	return 1
}

func (edge *EdgeShape) TestPoint(xf Transform, p Vec2) bool {
	return false
}

// RayCast intersects the ray p1 + t*d with the segment v1 + s*e.
func (edge *EdgeShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	// Put the ray into the edge's frame of reference.
	p1 := MulTRV(xf.Q, input.P1.Sub(xf.P))
	p2 := MulTRV(xf.Q, input.P2.Sub(xf.P))
	d := p2.Sub(p1)

	v1 := edge.Vertex1
	v2 := edge.Vertex2
	e := v2.Sub(v1)
	normal := Vec2{e.Y, -e.X}
	normal.Normalize()

	// q = p1 + t * d
	// dot(normal, q - v1) = 0
	// dot(normal, p1 - v1) + t * dot(normal, d) = 0
	numerator := Dot(normal, v1.Sub(p1))
	denominator := Dot(normal, d)

	if denominator == 0.0 {
		return false
	}

	t := numerator / denominator
	if t < 0.0 || input.MaxFraction < t {
		return false
	}

	q := p1.Add(d.Scale(t))

	// q = v1 + s * r
	// s = dot(q - v1, r) / dot(r, r)
	r := v2.Sub(v1)
	rr := Dot(r, r)
	if rr == 0.0 {
		return false
	}

	s := Dot(q.Sub(v1), r) / rr
	if s < 0.0 || 1.0 < s {
		return false
	}

	output.Fraction = t
	if numerator > 0.0 {
		output.Normal = MulRV(xf.Q, normal).Neg()
	} else {
		output.Normal = MulRV(xf.Q, normal)
	}
	return true
}

func (edge *EdgeShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	v1 := MulXV(xf, edge.Vertex1)
	v2 := MulXV(xf, edge.Vertex2)

	lower := Vec2Min(v1, v2)
	upper := Vec2Max(v1, v2)

	r := Vec2{edge.radius, edge.radius}
	aabb.LowerBound = lower.Sub(r)
	aabb.UpperBound = upper.Add(r)
}

func (edge *EdgeShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = 0.0
	massData.Center = edge.Vertex1.Add(edge.Vertex2).Scale(0.5)
	massData.I = 0.0
}
