package impulse

// GJK distance using Voronoi regions (Christer Ericson) and barycentric
// coordinates.

// DistanceProxy encapsulates any shape for the GJK algorithm.
type DistanceProxy struct {
	buffer   [2]Vec2
	vertices []Vec2
	count    int
	radius   float64
}

// Set initializes the proxy from a shape. The child index is used for chain
// shapes.
func (p *DistanceProxy) Set(shape Shape, index int) {
	switch shape.Type() {
	case CircleShapeType:
		circle := shape.(*CircleShape)
		p.vertices = []Vec2{circle.P}
		p.count = 1
		p.radius = circle.radius

	case PolygonShapeType:
		polygon := shape.(*PolygonShape)
		p.vertices = polygon.Vertices[:]
		p.count = polygon.Count
		p.radius = polygon.radius

	case ChainShapeType:
		chain := shape.(*ChainShape)
		assert(0 <= index && index < chain.Count)

		p.buffer[0] = chain.Vertices[index]
		if index+1 < chain.Count {
			p.buffer[1] = chain.Vertices[index+1]
		} else {
			p.buffer[1] = chain.Vertices[0]
		}

		p.vertices = p.buffer[:]
		p.count = 2
		p.radius = chain.radius

	case EdgeShapeType:
		edge := shape.(*EdgeShape)
		p.vertices = []Vec2{edge.Vertex1, edge.Vertex2}
		p.count = 2
		p.radius = edge.radius

	default:
		assert(false)
	}
}

func (p *DistanceProxy) VertexCount() int {
	return p.count
}

func (p *DistanceProxy) GetVertex(index int) Vec2 {
	assert(0 <= index && index < p.count)
	return p.vertices[index]
}

// GetSupport returns the index of the vertex with the highest projection on d.
func (p *DistanceProxy) GetSupport(d Vec2) int {
	bestIndex := 0
	bestValue := Dot(p.vertices[0], d)
	for i := 1; i < p.count; i++ {
		value := Dot(p.vertices[i], d)
		if value > bestValue {
			bestIndex = i
			bestValue = value
		}
	}
	return bestIndex
}

func (p *DistanceProxy) GetSupportVertex(d Vec2) Vec2 {
	return p.vertices[p.GetSupport(d)]
}

// SimplexCache warm starts Distance across calls. Set count to zero on the
// first call.
type SimplexCache struct {
	// Metric is the length or area of the cached simplex.
	Metric float64
	Count  int
	IndexA [3]int
	IndexB [3]int
}

// DistanceInput holds the query shapes and transforms. Setting UseRadii folds
// the shape skin radii into the result.
type DistanceInput struct {
	ProxyA     DistanceProxy
	ProxyB     DistanceProxy
	TransformA Transform
	TransformB Transform
	UseRadii   bool
}

type DistanceOutput struct {
	// Closest points on the two shapes.
	PointA Vec2
	PointB Vec2

	Distance float64

	// Number of GJK iterations used.
	Iterations int
}

type simplexVertex struct {
	wA     Vec2    // support point in proxyA
	wB     Vec2    // support point in proxyB
	w      Vec2    // wB - wA
	a      float64 // barycentric coordinate for closest point
	indexA int
	indexB int
}

type simplex struct {
	vs    [3]simplexVertex
	count int
}

func (s *simplex) readCache(cache *SimplexCache, proxyA *DistanceProxy, transformA Transform, proxyB *DistanceProxy, transformB Transform) {
	assert(cache.Count <= 3)

	// Copy data from cache.
	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := &s.vs[i]
		v.indexA = cache.IndexA[i]
		v.indexB = cache.IndexB[i]
		wALocal := proxyA.GetVertex(v.indexA)
		wBLocal := proxyB.GetVertex(v.indexB)
		v.wA = MulXV(transformA, wALocal)
		v.wB = MulXV(transformB, wBLocal)
		v.w = v.wB.Sub(v.wA)
		v.a = 0.0
	}

	// Compute the new simplex metric. If it is substantially different from
	// the old metric then flush the simplex.
	if s.count > 1 {
		metric1 := cache.Metric
		metric2 := s.getMetric()
		if metric2 < 0.5*metric1 || 2.0*metric1 < metric2 || metric2 < epsilon {
			s.count = 0
		}
	}

	// If the cache is empty or invalid, start from the first vertices.
	if s.count == 0 {
		v := &s.vs[0]
		v.indexA = 0
		v.indexB = 0
		wALocal := proxyA.GetVertex(0)
		wBLocal := proxyB.GetVertex(0)
		v.wA = MulXV(transformA, wALocal)
		v.wB = MulXV(transformB, wBLocal)
		v.w = v.wB.Sub(v.wA)
		v.a = 1.0
		s.count = 1
	}
}

func (s *simplex) writeCache(cache *SimplexCache) {
	cache.Metric = s.getMetric()
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.vs[i].indexA
		cache.IndexB[i] = s.vs[i].indexB
	}
}

func (s *simplex) getSearchDirection() Vec2 {
	switch s.count {
	case 1:
		return s.vs[0].w.Neg()

	case 2:
		e12 := s.vs[1].w.Sub(s.vs[0].w)
		sgn := Cross(e12, s.vs[0].w.Neg())
		if sgn > 0.0 {
			// Origin is left of e12.
			return CrossSV(1.0, e12)
		}
		// Origin is right of e12.
		return CrossVS(e12, 1.0)

	default:
		assert(false)
		return Vec2{}
	}
}

func (s *simplex) getWitnessPoints(pA *Vec2, pB *Vec2) {
	switch s.count {
	case 1:
		*pA = s.vs[0].wA
		*pB = s.vs[0].wB

	case 2:
		*pA = s.vs[0].wA.Scale(s.vs[0].a).Add(s.vs[1].wA.Scale(s.vs[1].a))
		*pB = s.vs[0].wB.Scale(s.vs[0].a).Add(s.vs[1].wB.Scale(s.vs[1].a))

	case 3:
		*pA = s.vs[0].wA.Scale(s.vs[0].a).
			Add(s.vs[1].wA.Scale(s.vs[1].a)).
			Add(s.vs[2].wA.Scale(s.vs[2].a))
		*pB = *pA

	default:
		assert(false)
	}
}

func (s *simplex) getMetric() float64 {
	switch s.count {
	case 1:
		return 0.0

	case 2:
		return DistanceVec2(s.vs[0].w, s.vs[1].w)

	case 3:
		return Cross(s.vs[1].w.Sub(s.vs[0].w), s.vs[2].w.Sub(s.vs[0].w))

	default:
		assert(false)
		return 0.0
	}
}

// solve2 solves a line segment using barycentric coordinates.
func (s *simplex) solve2() {
	w1 := s.vs[0].w
	w2 := s.vs[1].w
	e12 := w2.Sub(w1)

	// w1 region
	d12_2 := -Dot(w1, e12)
	if d12_2 <= 0.0 {
		// a2 <= 0, so we clamp it to 0.
		s.vs[0].a = 1.0
		s.count = 1
		return
	}

	// w2 region
	d12_1 := Dot(w2, e12)
	if d12_1 <= 0.0 {
		// a1 <= 0, so we clamp it to 0.
		s.vs[1].a = 1.0
		s.count = 1
		s.vs[0] = s.vs[1]
		return
	}

	// Must be in e12 region.
	inv_d12 := 1.0 / (d12_1 + d12_2)
	s.vs[0].a = d12_1 * inv_d12
	s.vs[1].a = d12_2 * inv_d12
	s.count = 2
}

// solve3 solves a triangle. Possible regions:
// - points[2]
// - edge points[0]-points[2]
// - edge points[1]-points[2]
// - inside the triangle
func (s *simplex) solve3() {
	w1 := s.vs[0].w
	w2 := s.vs[1].w
	w3 := s.vs[2].w

	// Edge12
	// [1      1     ][a1] = [1]
	// [w1.e12 w2.e12][a2] = [0]
	// a3 = 0
	e12 := w2.Sub(w1)
	w1e12 := Dot(w1, e12)
	w2e12 := Dot(w2, e12)
	d12_1 := w2e12
	d12_2 := -w1e12

	// Edge13
	// [1      1     ][a1] = [1]
	// [w1.e13 w3.e13][a3] = [0]
	// a2 = 0
	e13 := w3.Sub(w1)
	w1e13 := Dot(w1, e13)
	w3e13 := Dot(w3, e13)
	d13_1 := w3e13
	d13_2 := -w1e13

	// Edge23
	// [1      1     ][a2] = [1]
	// [w2.e23 w3.e23][a3] = [0]
	// a1 = 0
	e23 := w3.Sub(w2)
	w2e23 := Dot(w2, e23)
	w3e23 := Dot(w3, e23)
	d23_1 := w3e23
	d23_2 := -w2e23

	// Triangle123
	n123 := Cross(e12, e13)

	d123_1 := n123 * Cross(w2, w3)
	d123_2 := n123 * Cross(w3, w1)
	d123_3 := n123 * Cross(w1, w2)

	// w1 region
	if d12_2 <= 0.0 && d13_2 <= 0.0 {
		s.vs[0].a = 1.0
		s.count = 1
		return
	}

	// e12
	if d12_1 > 0.0 && d12_2 > 0.0 && d123_3 <= 0.0 {
		inv_d12 := 1.0 / (d12_1 + d12_2)
		s.vs[0].a = d12_1 * inv_d12
		s.vs[1].a = d12_2 * inv_d12
		s.count = 2
		return
	}

	// e13
	if d13_1 > 0.0 && d13_2 > 0.0 && d123_2 <= 0.0 {
		inv_d13 := 1.0 / (d13_1 + d13_2)
		s.vs[0].a = d13_1 * inv_d13
		s.vs[2].a = d13_2 * inv_d13
		s.count = 2
		s.vs[1] = s.vs[2]
		return
	}

	// w2 region
	if d12_1 <= 0.0 && d23_2 <= 0.0 {
		s.vs[1].a = 1.0
		s.count = 1
		s.vs[0] = s.vs[1]
		return
	}

	// w3 region
	if d13_1 <= 0.0 && d23_1 <= 0.0 {
		s.vs[2].a = 1.0
		s.count = 1
		s.vs[0] = s.vs[2]
		return
	}

	// e23
	if d23_1 > 0.0 && d23_2 > 0.0 && d123_1 <= 0.0 {
		inv_d23 := 1.0 / (d23_1 + d23_2)
		s.vs[1].a = d23_1 * inv_d23
		s.vs[2].a = d23_2 * inv_d23
		s.count = 2
		s.vs[0] = s.vs[2]
		return
	}

	// Must be in triangle123.
	inv_d123 := 1.0 / (d123_1 + d123_2 + d123_3)
	s.vs[0].a = d123_1 * inv_d123
	s.vs[1].a = d123_2 * inv_d123
	s.vs[2].a = d123_3 * inv_d123
	s.count = 3
}

// Distance computes the closest points between two shapes. On non-overlap the
// witness points lie on the surfaces; on overlap (with UseRadii) both witness
// points collapse to the midpoint and the distance is zero. The cache carries
// the simplex between calls for temporal coherence.
func Distance(output *DistanceOutput, cache *SimplexCache, input *DistanceInput) {
	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	transformA := input.TransformA
	transformB := input.TransformB

	// Initialize the simplex.
	var s simplex
	s.readCache(cache, proxyA, transformA, proxyB, transformB)

	const maxIters = 20

	// These store the vertices of the last simplex so that we can check for
	// duplicates and prevent cycling.
	var saveA, saveB [3]int
	saveCount := 0

	// Main iteration loop.
	iter := 0
	for iter < maxIters {
		// Copy simplex so we can identify duplicates.
		saveCount = s.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = s.vs[i].indexA
			saveB[i] = s.vs[i].indexB
		}

		switch s.count {
		case 1:
		case 2:
			s.solve2()
		case 3:
			s.solve3()
		default:
			assert(false)
		}

		// If we have 3 points, then the origin is in the corresponding
		// triangle.
		if s.count == 3 {
			break
		}

		// Get search direction.
		d := s.getSearchDirection()

		// Ensure the search direction is numerically fit.
		if d.LengthSquared() < epsilon*epsilon {
			// The origin is probably contained by a line segment or triangle.
			// Thus the shapes are overlapped.

			// We can't return zero here even though there may be overlap.
			// In case the simplex is a point, segment, or triangle it is
			// difficult to determine if the origin is contained in the CSO or
			// very close to it.
			break
		}

		// Compute a tentative new simplex vertex using support points.
		vertex := &s.vs[s.count]
		vertex.indexA = proxyA.GetSupport(MulTRV(transformA.Q, d.Neg()))
		vertex.wA = MulXV(transformA, proxyA.GetVertex(vertex.indexA))
		vertex.indexB = proxyB.GetSupport(MulTRV(transformB.Q, d))
		vertex.wB = MulXV(transformB, proxyB.GetVertex(vertex.indexB))
		vertex.w = vertex.wB.Sub(vertex.wA)

		// Iteration count is equated to the number of support point calls.
		iter++

		// Check for duplicate support points. This is the main termination
		// criteria.
		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.indexA == saveA[i] && vertex.indexB == saveB[i] {
				duplicate = true
				break
			}
		}

		// If we found a duplicate support point we must exit to avoid cycling.
		if duplicate {
			break
		}

		// New vertex is ok and needed.
		s.count++
	}

	// Prepare output.
	s.getWitnessPoints(&output.PointA, &output.PointB)
	output.Distance = DistanceVec2(output.PointA, output.PointB)
	output.Iterations = iter

	// Cache the simplex.
	s.writeCache(cache)

	// Apply radii if requested.
	if input.UseRadii {
		rA := proxyA.radius
		rB := proxyB.radius

		if output.Distance > rA+rB && output.Distance > epsilon {
			// Shapes are still not overlapped.
			// Move the witness points to the outer surface.
			output.Distance -= rA + rB
			normal := output.PointB.Sub(output.PointA)
			normal.Normalize()
			output.PointA = output.PointA.Add(normal.Scale(rA))
			output.PointB = output.PointB.Sub(normal.Scale(rB))
		} else {
			// Shapes are overlapped when radii are considered.
			// Move the witness points to the middle.
			p := output.PointA.Add(output.PointB).Scale(0.5)
			output.PointA = p
			output.PointB = p
			output.Distance = 0.0
		}
	}
}
