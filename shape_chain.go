package impulse

// ChainShape is a free form sequence of line segments. The chain has one-sided
// collision, with the surface normal pointing to the right of the edge
// direction. Chains do not self collide and may not cross; loops must be
// closed via CreateLoop.
type ChainShape struct {
	shapeBase

	Vertices []Vec2
	Count    int

	PrevVertex, NextVertex       Vec2
	HasPrevVertex, HasNextVertex bool
}

func NewChainShape() *ChainShape {
	return &ChainShape{
		shapeBase: shapeBase{shapeType: ChainShapeType, radius: DefaultConfig().PolygonRadius},
	}
}

// Clear frees the vertices so the chain can be rebuilt.
func (chain *ChainShape) Clear() {
	chain.Vertices = nil
	chain.Count = 0
}

// CreateLoop builds a closed loop; the first and last vertices are connected
// automatically. Requires at least 3 vertices, with no two consecutive
// vertices closer than half the linear slop.
func (chain *ChainShape) CreateLoop(vertices []Vec2) {
	assert(chain.Vertices == nil && chain.Count == 0)
	count := len(vertices)
	assert(count >= 3)

	weldSlop := 0.5 * DefaultConfig().LinearSlop
	for i := 1; i < count; i++ {
		// If the code crashes here, it means your vertices are too close
		// together.
		assert(DistanceSquaredVec2(vertices[i-1], vertices[i]) > weldSlop*weldSlop)
	}

	chain.Count = count + 1
	chain.Vertices = make([]Vec2, chain.Count)
	copy(chain.Vertices, vertices)
	chain.Vertices[count] = chain.Vertices[0]

	chain.PrevVertex = chain.Vertices[chain.Count-2]
	chain.NextVertex = chain.Vertices[1]
	chain.HasPrevVertex = true
	chain.HasNextVertex = true
}

// CreateChain builds an open chain. Requires at least 2 vertices, with no two
// consecutive vertices closer than half the linear slop.
func (chain *ChainShape) CreateChain(vertices []Vec2) {
	assert(chain.Vertices == nil && chain.Count == 0)
	count := len(vertices)
	assert(count >= 2)

	weldSlop := 0.5 * DefaultConfig().LinearSlop
	for i := 1; i < count; i++ {
		assert(DistanceSquaredVec2(vertices[i-1], vertices[i]) > weldSlop*weldSlop)
	}

	chain.Count = count
	chain.Vertices = make([]Vec2, count)
	copy(chain.Vertices, vertices)

	chain.HasPrevVertex = false
	chain.HasNextVertex = false

	chain.PrevVertex.SetZero()
	chain.NextVertex.SetZero()
}

// SetPrevVertex establishes connectivity to a vertex that precedes the first
// vertex. Don't call this for loops.
func (chain *ChainShape) SetPrevVertex(prevVertex Vec2) {
	chain.PrevVertex = prevVertex
	chain.HasPrevVertex = true
}

// SetNextVertex establishes connectivity to a vertex that follows the last
// vertex. Don't call this for loops.
func (chain *ChainShape) SetNextVertex(nextVertex Vec2) {
	chain.NextVertex = nextVertex
	chain.HasNextVertex = true
}

func (chain *ChainShape) Clone() Shape {
	clone := *chain
	clone.Vertices = make([]Vec2, len(chain.Vertices))
	copy(clone.Vertices, chain.Vertices)
	return &clone
}

func (chain *ChainShape) ChildCount() int {
	// Edge count = vertex count - 1.
	return chain.Count - 1
}

// GetChildEdge writes the edge for the given child index, including the
// adjacency vertices used for smooth collision.
func (chain *ChainShape) GetChildEdge(edge *EdgeShape, index int) {
	assert(0 <= index && index < chain.Count-1)

	edge.shapeType = EdgeShapeType
	edge.radius = chain.radius

	edge.Vertex1 = chain.Vertices[index+0]
	edge.Vertex2 = chain.Vertices[index+1]

	if index > 0 {
		edge.Vertex0 = chain.Vertices[index-1]
		edge.HasVertex0 = true
	} else {
		edge.Vertex0 = chain.PrevVertex
		edge.HasVertex0 = chain.HasPrevVertex
	}

	if index < chain.Count-2 {
		edge.Vertex3 = chain.Vertices[index+2]
		edge.HasVertex3 = true
	} else {
		edge.Vertex3 = chain.NextVertex
		edge.HasVertex3 = chain.HasNextVertex
	}
}

// TestPoint always reports false; a chain has no interior.
func (chain *ChainShape) TestPoint(xf Transform, p Vec2) bool {
	return false
}

func (chain *ChainShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	assert(childIndex < chain.Count)

	i1 := childIndex
	i2 := childIndex + 1
	if i2 == chain.Count {
		i2 = 0
	}

	edge := EdgeShape{
		shapeBase: shapeBase{shapeType: EdgeShapeType, radius: chain.radius},
		Vertex1:   chain.Vertices[i1],
		Vertex2:   chain.Vertices[i2],
	}

	return edge.RayCast(output, input, xf, 0)
}

func (chain *ChainShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	assert(childIndex < chain.Count)

	i1 := childIndex
	i2 := childIndex + 1
	if i2 == chain.Count {
		i2 = 0
	}

	v1 := MulXV(xf, chain.Vertices[i1])
	v2 := MulXV(xf, chain.Vertices[i2])

	aabb.LowerBound = Vec2Min(v1, v2)
	aabb.UpperBound = Vec2Max(v1, v2)
}

// ComputeMass reports zero mass; chains are meant for static geometry.
func (chain *ChainShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = 0.0
	massData.Center.SetZero()
	massData.I = 0.0
}
