package impulse

// PolygonShape is a solid convex polygon. The interior of the polygon is to
// the left of each edge. Polygons have a maximum of maxPolygonVertices
// vertices; in most cases you should not need many vertices for a convex
// polygon.
type PolygonShape struct {
	shapeBase

	Centroid Vec2
	Vertices [maxPolygonVertices]Vec2
	Normals  [maxPolygonVertices]Vec2
	Count    int
}

func NewPolygonShape() *PolygonShape {
	return &PolygonShape{
		shapeBase: shapeBase{shapeType: PolygonShapeType, radius: DefaultConfig().PolygonRadius},
	}
}

func (poly *PolygonShape) GetVertex(index int) Vec2 {
	assert(0 <= index && index < poly.Count)
	return poly.Vertices[index]
}

func (poly *PolygonShape) Clone() Shape {
	clone := *poly
	return &clone
}

func (poly *PolygonShape) ChildCount() int {
	return 1
}

// SetAsBox builds the polygon as an axis-aligned box with the given
// half-width and half-height.
func (poly *PolygonShape) SetAsBox(hx, hy float64) {
	poly.Count = 4
	poly.Vertices[0] = Vec2{-hx, -hy}
	poly.Vertices[1] = Vec2{hx, -hy}
	poly.Vertices[2] = Vec2{hx, hy}
	poly.Vertices[3] = Vec2{-hx, hy}
	poly.Normals[0] = Vec2{0.0, -1.0}
	poly.Normals[1] = Vec2{1.0, 0.0}
	poly.Normals[2] = Vec2{0.0, 1.0}
	poly.Normals[3] = Vec2{-1.0, 0.0}
	poly.Centroid.SetZero()
}

// SetAsOrientedBox builds the polygon as a box rotated and offset in the
// parent body frame.
func (poly *PolygonShape) SetAsOrientedBox(hx, hy float64, center Vec2, angle float64) {
	poly.SetAsBox(hx, hy)
	poly.Centroid = center

	xf := MakeTransformFromPosAndAngle(center, angle)

	// Transform vertices and normals.
	for i := 0; i < poly.Count; i++ {
		poly.Vertices[i] = MulXV(xf, poly.Vertices[i])
		poly.Normals[i] = MulRV(xf.Q, poly.Normals[i])
	}
}

func computeCentroid(vs []Vec2, count int) Vec2 {
	assert(count >= 3)

	c := Vec2{}
	area := 0.0

	// pRef is the reference point for forming triangles. Its location does
	// not change the result, except for rounding error.
	pRef := Vec2{}
	for i := 0; i < count; i++ {
		pRef = pRef.Add(vs[i])
	}
	pRef = pRef.Scale(1.0 / float64(count))

	const inv3 = 1.0 / 3.0

	for i := 0; i < count; i++ {
		// Triangle vertices.
		p1 := pRef
		p2 := vs[i]
		p3 := vs[0]
		if i+1 < count {
			p3 = vs[i+1]
		}

		e1 := p2.Sub(p1)
		e2 := p3.Sub(p1)

		d := Cross(e1, e2)

		triangleArea := 0.5 * d
		area += triangleArea

		// Area weighted centroid.
		c = c.Add(p1.Add(p2).Add(p3).Scale(triangleArea * inv3))
	}

	assert(area > epsilon)
	return c.Scale(1.0 / area)
}

// Set builds a convex hull from the given points, welding together vertices
// closer than half the linear slop. The count must be in the range
// [3, maxPolygonVertices]. Collinear points are handled but not removed;
// collinear points may lead to poor stacking behavior.
func (poly *PolygonShape) Set(vertices []Vec2) {
	count := len(vertices)
	assert(3 <= count && count <= maxPolygonVertices)
	if count < 3 {
		poly.SetAsBox(1.0, 1.0)
		return
	}

	n := MinInt(count, maxPolygonVertices)

	weldSlop := 0.5 * DefaultConfig().LinearSlop

	// Perform welding and copy vertices into a local buffer.
	var ps [maxPolygonVertices]Vec2
	tempCount := 0
	for i := 0; i < n; i++ {
		v := vertices[i]

		unique := true
		for j := 0; j < tempCount; j++ {
			if DistanceSquaredVec2(v, ps[j]) < weldSlop*weldSlop {
				unique = false
				break
			}
		}

		if unique {
			ps[tempCount] = v
			tempCount++
		}
	}

	n = tempCount
	if n < 3 {
		// Polygon is degenerate.
		assert(false)
		return
	}

	// Create the convex hull using the gift wrapping algorithm.

	// Find the right most point on the hull.
	i0 := 0
	x0 := ps[0].X
	for i := 1; i < n; i++ {
		x := ps[i].X
		if x > x0 || (x == x0 && ps[i].Y < ps[i0].Y) {
			i0 = i
			x0 = x
		}
	}

	var hull [maxPolygonVertices]int
	m := 0
	ih := i0

	for {
		assert(m < maxPolygonVertices)
		hull[m] = ih

		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := ps[ie].Sub(ps[hull[m]])
			v := ps[j].Sub(ps[hull[m]])
			c := Cross(r, v)
			if c < 0.0 {
				ie = j
			}

			// Collinearity check.
			if c == 0.0 && v.LengthSquared() > r.LengthSquared() {
				ie = j
			}
		}

		m++
		ih = ie

		if ie == i0 {
			break
		}
	}

	if m < 3 {
		// Polygon is degenerate.
		assert(false)
		return
	}

	poly.Count = m

	for i := 0; i < m; i++ {
		poly.Vertices[i] = ps[hull[i]]
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < m; i++ {
		i1 := i
		i2 := 0
		if i+1 < m {
			i2 = i + 1
		}

		edge := poly.Vertices[i2].Sub(poly.Vertices[i1])
		assert(edge.LengthSquared() > epsilon*epsilon)
		poly.Normals[i] = CrossVS(edge, 1.0)
		poly.Normals[i].Normalize()
	}

	poly.Centroid = computeCentroid(poly.Vertices[:], m)
}

func (poly *PolygonShape) TestPoint(xf Transform, p Vec2) bool {
	pLocal := MulTRV(xf.Q, p.Sub(xf.P))

	for i := 0; i < poly.Count; i++ {
		dot := Dot(poly.Normals[i], pLocal.Sub(poly.Vertices[i]))
		if dot > 0.0 {
			return false
		}
	}
	return true
}

func (poly *PolygonShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	// Put the ray into the polygon's frame of reference.
	p1 := MulTRV(xf.Q, input.P1.Sub(xf.P))
	p2 := MulTRV(xf.Q, input.P2.Sub(xf.P))
	d := p2.Sub(p1)

	lower := 0.0
	upper := input.MaxFraction

	index := -1

	for i := 0; i < poly.Count; i++ {
		// p = p1 + a * d
		// dot(normal, p - v) = 0
		// dot(normal, p1 - v) + a * dot(normal, d) = 0
		numerator := Dot(poly.Normals[i], poly.Vertices[i].Sub(p1))
		denominator := Dot(poly.Normals[i], d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return false
			}
		} else {
			// Note: we want this predicate without division:
			// lower < numerator / denominator, where denominator < 0.
			// Since denominator < 0, we have to flip the inequality:
			// lower < numerator / denominator <==> denominator * lower > numerator.
			if denominator < 0.0 && numerator < lower*denominator {
				// The segment enters this half-space.
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				// The segment exits this half-space.
				upper = numerator / denominator
			}
		}

		if upper < lower {
			return false
		}
	}

	assert(0.0 <= lower && lower <= input.MaxFraction)

	if index >= 0 {
		output.Fraction = lower
		output.Normal = MulRV(xf.Q, poly.Normals[index])
		return true
	}

	return false
}

func (poly *PolygonShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	lower := MulXV(xf, poly.Vertices[0])
	upper := lower

	for i := 1; i < poly.Count; i++ {
		v := MulXV(xf, poly.Vertices[i])
		lower = Vec2Min(lower, v)
		upper = Vec2Max(upper, v)
	}

	r := Vec2{poly.radius, poly.radius}
	aabb.LowerBound = lower.Sub(r)
	aabb.UpperBound = upper.Add(r)
}

func (poly *PolygonShape) ComputeMass(massData *MassData, density float64) {
	// Polygon mass, centroid, and inertia.
	// Let rho be the polygon density in mass per unit area.
	// Then:
	// mass = rho * int(dA)
	// centroid.x = (1/mass) * rho * int(x * dA)
	// centroid.y = (1/mass) * rho * int(y * dA)
	// I = rho * int((x*x + y*y) * dA)
	//
	// We can compute these integrals by summing all the integrals
	// for each triangle of the polygon. To evaluate the integral
	// for a single triangle, we make a change of variables to
	// the (u,v) coordinates of the triangle:
	// x = x0 + e1x * u + e2x * v
	// y = y0 + e1y * u + e2y * v
	// where 0 <= u && 0 <= v && u + v <= 1.
	//
	// We integrate u from [0,1-v] and then v from [0,1].
	// We also need the Jacobian of the transformation:
	// D = cross(e1, e2)
	//
	// Simplification: triangle centroid = (1/3) * (p1 + p2 + p3)

	assert(poly.Count >= 3)

	center := Vec2{}
	area := 0.0
	inertia := 0.0

	// s is the reference point for forming triangles. Its location does not
	// change the result, except for rounding error.
	s := Vec2{}
	for i := 0; i < poly.Count; i++ {
		s = s.Add(poly.Vertices[i])
	}
	s = s.Scale(1.0 / float64(poly.Count))

	const kInv3 = 1.0 / 3.0

	for i := 0; i < poly.Count; i++ {
		// Triangle vertices.
		e1 := poly.Vertices[i].Sub(s)
		var e2 Vec2
		if i+1 < poly.Count {
			e2 = poly.Vertices[i+1].Sub(s)
		} else {
			e2 = poly.Vertices[0].Sub(s)
		}

		d := Cross(e1, e2)

		triangleArea := 0.5 * d
		area += triangleArea

		// Area weighted centroid.
		center = center.Add(e1.Add(e2).Scale(triangleArea * kInv3))

		ex1, ey1 := e1.X, e1.Y
		ex2, ey2 := e2.X, e2.Y

		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2

		inertia += (0.25 * kInv3 * d) * (intx2 + inty2)
	}

	massData.Mass = density * area

	assert(area > epsilon)
	center = center.Scale(1.0 / area)
	massData.Center = center.Add(s)

	// Inertia tensor relative to the local origin (point s), then shifted to
	// the center of mass and on to the body origin.
	massData.I = density * inertia
	massData.I += massData.Mass * (Dot(massData.Center, massData.Center) - Dot(center, center))
}

// Validate reports whether the polygon is convex with CCW winding.
func (poly *PolygonShape) Validate() bool {
	for i := 0; i < poly.Count; i++ {
		i1 := i
		i2 := 0
		if i < poly.Count-1 {
			i2 = i1 + 1
		}

		p := poly.Vertices[i1]
		e := poly.Vertices[i2].Sub(p)

		for j := 0; j < poly.Count; j++ {
			if j == i1 || j == i2 {
				continue
			}

			v := poly.Vertices[j].Sub(p)
			if Cross(e, v) < 0.0 {
				return false
			}
		}
	}
	return true
}
