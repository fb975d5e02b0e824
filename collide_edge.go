package impulse

import "math"

// CollideEdgeAndCircle computes contact points for an edge versus a circle,
// accounting for edge connectivity. Ghost vertices shift corner contacts onto
// the adjacent edge so the circle does not catch on internal vertices.
func CollideEdgeAndCircle(cfg Config, manifold *Manifold, edgeA *EdgeShape, xfA Transform, circleB *CircleShape, xfB Transform) {
	manifold.PointCount = 0

	// Compute circle in frame of edge.
	Q := MulTXV(xfA, MulXV(xfB, circleB.P))

	A := edgeA.Vertex1
	B := edgeA.Vertex2
	e := B.Sub(A)

	// Barycentric coordinates.
	u := Dot(e, B.Sub(Q))
	v := Dot(e, Q.Sub(A))

	radius := edgeA.radius + circleB.radius

	var cf ContactFeature
	cf.IndexB = 0
	cf.TypeB = uint8(FeatureVertex)

	// Region A
	if v <= 0.0 {
		P := A
		d := Q.Sub(P)
		dd := Dot(d, d)
		if dd > radius*radius {
			return
		}

		// Is there an edge connected to A?
		if edgeA.HasVertex0 {
			A1 := edgeA.Vertex0
			B1 := A
			e1 := B1.Sub(A1)
			u1 := Dot(e1, B1.Sub(Q))

			// Is the circle in Region AB of the previous edge?
			if u1 > 0.0 {
				return
			}
		}

		cf.IndexA = 0
		cf.TypeA = uint8(FeatureVertex)
		manifold.PointCount = 1
		manifold.Type = ManifoldCircles
		manifold.LocalNormal.SetZero()
		manifold.LocalPoint = P
		manifold.Points[0].Id.SetKey(0)
		manifold.Points[0].Id.IndexA = cf.IndexA
		manifold.Points[0].Id.IndexB = cf.IndexB
		manifold.Points[0].Id.TypeA = cf.TypeA
		manifold.Points[0].Id.TypeB = cf.TypeB
		manifold.Points[0].LocalPoint = circleB.P
		return
	}

	// Region B
	if u <= 0.0 {
		P := B
		d := Q.Sub(P)
		dd := Dot(d, d)
		if dd > radius*radius {
			return
		}

		// Is there an edge connected to B?
		if edgeA.HasVertex3 {
			B2 := edgeA.Vertex3
			A2 := B
			e2 := B2.Sub(A2)
			v2 := Dot(e2, Q.Sub(A2))

			// Is the circle in Region AB of the next edge?
			if v2 > 0.0 {
				return
			}
		}

		cf.IndexA = 1
		cf.TypeA = uint8(FeatureVertex)
		manifold.PointCount = 1
		manifold.Type = ManifoldCircles
		manifold.LocalNormal.SetZero()
		manifold.LocalPoint = P
		manifold.Points[0].Id.SetKey(0)
		manifold.Points[0].Id.IndexA = cf.IndexA
		manifold.Points[0].Id.IndexB = cf.IndexB
		manifold.Points[0].Id.TypeA = cf.TypeA
		manifold.Points[0].Id.TypeB = cf.TypeB
		manifold.Points[0].LocalPoint = circleB.P
		return
	}

	// Region AB
	den := Dot(e, e)
	assert(den > 0.0)
	P := A.Scale(u).Add(B.Scale(v)).Scale(1.0 / den)
	d := Q.Sub(P)
	dd := Dot(d, d)
	if dd > radius*radius {
		return
	}

	n := Vec2{-e.Y, e.X}
	if Dot(n, Q.Sub(A)) < 0.0 {
		n = n.Neg()
	}
	n.Normalize()

	cf.IndexA = 0
	cf.TypeA = uint8(FeatureFace)
	manifold.PointCount = 1
	manifold.Type = ManifoldFaceA
	manifold.LocalNormal = n
	manifold.LocalPoint = A
	manifold.Points[0].Id.SetKey(0)
	manifold.Points[0].Id.IndexA = cf.IndexA
	manifold.Points[0].Id.IndexB = cf.IndexB
	manifold.Points[0].Id.TypeA = cf.TypeA
	manifold.Points[0].Id.TypeB = cf.TypeB
	manifold.Points[0].LocalPoint = circleB.P
}

type epAxisType uint8

const (
	epAxisUnknown epAxisType = iota
	epAxisEdgeA
	epAxisEdgeB
)

// epAxis tracks the best separating axis.
type epAxis struct {
	Type       epAxisType
	Index      int
	Separation float64
}

// tempPolygon holds polygon B expressed in frame A.
type tempPolygon struct {
	Vertices [maxPolygonVertices]Vec2
	Normals  [maxPolygonVertices]Vec2
	Count    int
}

// referenceFace is the face used for clipping.
type referenceFace struct {
	I1, I2 int

	V1, V2 Vec2

	Normal Vec2

	SideNormal1 Vec2
	SideOffset1 float64

	SideNormal2 Vec2
	SideOffset2 float64
}

// epCollider collides an edge and a polygon, taking into account edge
// adjacency.
//
// Algorithm:
// 1. Classify v1 and v2
// 2. Classify polygon centroid as front or back
// 3. Flip normal if necessary
// 4. Initialize normal range to [-pi, pi] about face normal
// 5. Adjust normal range according to adjacent edges
// 6. Visit each separating axis, only accept axes within the range
// 7. Return if any axis indicates separation
// 8. Clip
type epCollider struct {
	polygonB tempPolygon

	xf                        Transform
	centroidB                 Vec2
	v0, v1, v2, v3            Vec2
	normal0, normal1, normal2 Vec2
	normal                    Vec2
	lowerLimit, upperLimit    Vec2
	radius                    float64
	front                     bool
}

func (collider *epCollider) collide(cfg Config, manifold *Manifold, edgeA *EdgeShape, xfA Transform, polygonB *PolygonShape, xfB Transform) {
	collider.xf = MulTX(xfA, xfB)

	collider.centroidB = MulXV(collider.xf, polygonB.Centroid)

	collider.v0 = edgeA.Vertex0
	collider.v1 = edgeA.Vertex1
	collider.v2 = edgeA.Vertex2
	collider.v3 = edgeA.Vertex3

	hasVertex0 := edgeA.HasVertex0
	hasVertex3 := edgeA.HasVertex3

	edge1 := collider.v2.Sub(collider.v1)
	edge1.Normalize()
	collider.normal1 = Vec2{edge1.Y, -edge1.X}
	offset1 := Dot(collider.normal1, collider.centroidB.Sub(collider.v1))
	offset0 := 0.0
	offset2 := 0.0
	convex1 := false
	convex2 := false

	// Is there a preceding edge?
	if hasVertex0 {
		edge0 := collider.v1.Sub(collider.v0)
		edge0.Normalize()
		collider.normal0 = Vec2{edge0.Y, -edge0.X}
		convex1 = Cross(edge0, edge1) >= 0.0
		offset0 = Dot(collider.normal0, collider.centroidB.Sub(collider.v0))
	}

	// Is there a following edge?
	if hasVertex3 {
		edge2 := collider.v3.Sub(collider.v2)
		edge2.Normalize()
		collider.normal2 = Vec2{edge2.Y, -edge2.X}
		convex2 = Cross(edge1, edge2) > 0.0
		offset2 = Dot(collider.normal2, collider.centroidB.Sub(collider.v2))
	}

	// Determine front or back collision. Determine collision normal limits.
	if hasVertex0 && hasVertex3 {
		if convex1 && convex2 {
			collider.front = offset0 >= 0.0 || offset1 >= 0.0 || offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal0
				collider.upperLimit = collider.normal2
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal1.Neg()
				collider.upperLimit = collider.normal1.Neg()
			}
		} else if convex1 {
			collider.front = offset0 >= 0.0 || (offset1 >= 0.0 && offset2 >= 0.0)
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal0
				collider.upperLimit = collider.normal1
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal2.Neg()
				collider.upperLimit = collider.normal1.Neg()
			}
		} else if convex2 {
			collider.front = offset2 >= 0.0 || (offset0 >= 0.0 && offset1 >= 0.0)
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1
				collider.upperLimit = collider.normal2
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal1.Neg()
				collider.upperLimit = collider.normal0.Neg()
			}
		} else {
			collider.front = offset0 >= 0.0 && offset1 >= 0.0 && offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1
				collider.upperLimit = collider.normal1
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal2.Neg()
				collider.upperLimit = collider.normal0.Neg()
			}
		}
	} else if hasVertex0 {
		if convex1 {
			collider.front = offset0 >= 0.0 || offset1 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal0
				collider.upperLimit = collider.normal1.Neg()
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal1
				collider.upperLimit = collider.normal1.Neg()
			}
		} else {
			collider.front = offset0 >= 0.0 && offset1 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1
				collider.upperLimit = collider.normal1.Neg()
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal1
				collider.upperLimit = collider.normal0.Neg()
			}
		}
	} else if hasVertex3 {
		if convex2 {
			collider.front = offset1 >= 0.0 || offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1.Neg()
				collider.upperLimit = collider.normal2
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal1.Neg()
				collider.upperLimit = collider.normal1
			}
		} else {
			collider.front = offset1 >= 0.0 && offset2 >= 0.0
			if collider.front {
				collider.normal = collider.normal1
				collider.lowerLimit = collider.normal1.Neg()
				collider.upperLimit = collider.normal1
			} else {
				collider.normal = collider.normal1.Neg()
				collider.lowerLimit = collider.normal2.Neg()
				collider.upperLimit = collider.normal1
			}
		}
	} else {
		collider.front = offset1 >= 0.0
		if collider.front {
			collider.normal = collider.normal1
			collider.lowerLimit = collider.normal1.Neg()
			collider.upperLimit = collider.normal1.Neg()
		} else {
			collider.normal = collider.normal1.Neg()
			collider.lowerLimit = collider.normal1
			collider.upperLimit = collider.normal1
		}
	}

	// Get polygonB in frameA.
	collider.polygonB.Count = polygonB.Count
	for i := 0; i < polygonB.Count; i++ {
		collider.polygonB.Vertices[i] = MulXV(collider.xf, polygonB.Vertices[i])
		collider.polygonB.Normals[i] = MulRV(collider.xf.Q, polygonB.Normals[i])
	}

	collider.radius = polygonB.radius + edgeA.radius

	manifold.PointCount = 0

	edgeAxis := collider.computeEdgeSeparation()

	// If no valid normal can be found then this edge should not collide.
	if edgeAxis.Type == epAxisUnknown {
		return
	}

	if edgeAxis.Separation > collider.radius {
		return
	}

	polygonAxis := collider.computePolygonSeparation(cfg)
	if polygonAxis.Type != epAxisUnknown && polygonAxis.Separation > collider.radius {
		return
	}

	// Use hysteresis for jitter reduction.
	const relativeTol = 0.98
	const absoluteTol = 0.001

	var primaryAxis epAxis
	if polygonAxis.Type == epAxisUnknown {
		primaryAxis = edgeAxis
	} else if polygonAxis.Separation > relativeTol*edgeAxis.Separation+absoluteTol {
		primaryAxis = polygonAxis
	} else {
		primaryAxis = edgeAxis
	}

	var ie [2]ClipVertex
	var rf referenceFace
	if primaryAxis.Type == epAxisEdgeA {
		manifold.Type = ManifoldFaceA

		// Search for the polygon normal that is most anti-parallel to the
		// edge normal.
		bestIndex := 0
		bestValue := Dot(collider.normal, collider.polygonB.Normals[0])
		for i := 1; i < collider.polygonB.Count; i++ {
			value := Dot(collider.normal, collider.polygonB.Normals[i])
			if value < bestValue {
				bestValue = value
				bestIndex = i
			}
		}

		i1 := bestIndex
		i2 := 0
		if i1+1 < collider.polygonB.Count {
			i2 = i1 + 1
		}

		ie[0].V = collider.polygonB.Vertices[i1]
		ie[0].Id.IndexA = 0
		ie[0].Id.IndexB = uint8(i1)
		ie[0].Id.TypeA = uint8(FeatureFace)
		ie[0].Id.TypeB = uint8(FeatureVertex)

		ie[1].V = collider.polygonB.Vertices[i2]
		ie[1].Id.IndexA = 0
		ie[1].Id.IndexB = uint8(i2)
		ie[1].Id.TypeA = uint8(FeatureFace)
		ie[1].Id.TypeB = uint8(FeatureVertex)

		if collider.front {
			rf.I1 = 0
			rf.I2 = 1
			rf.V1 = collider.v1
			rf.V2 = collider.v2
			rf.Normal = collider.normal1
		} else {
			rf.I1 = 1
			rf.I2 = 0
			rf.V1 = collider.v2
			rf.V2 = collider.v1
			rf.Normal = collider.normal1.Neg()
		}
	} else {
		manifold.Type = ManifoldFaceB

		ie[0].V = collider.v1
		ie[0].Id.IndexA = 0
		ie[0].Id.IndexB = uint8(primaryAxis.Index)
		ie[0].Id.TypeA = uint8(FeatureVertex)
		ie[0].Id.TypeB = uint8(FeatureFace)

		ie[1].V = collider.v2
		ie[1].Id.IndexA = 0
		ie[1].Id.IndexB = uint8(primaryAxis.Index)
		ie[1].Id.TypeA = uint8(FeatureVertex)
		ie[1].Id.TypeB = uint8(FeatureFace)

		rf.I1 = primaryAxis.Index
		if rf.I1+1 < collider.polygonB.Count {
			rf.I2 = rf.I1 + 1
		} else {
			rf.I2 = 0
		}

		rf.V1 = collider.polygonB.Vertices[rf.I1]
		rf.V2 = collider.polygonB.Vertices[rf.I2]
		rf.Normal = collider.polygonB.Normals[rf.I1]
	}

	rf.SideNormal1 = Vec2{rf.Normal.Y, -rf.Normal.X}
	rf.SideNormal2 = rf.SideNormal1.Neg()
	rf.SideOffset1 = Dot(rf.SideNormal1, rf.V1)
	rf.SideOffset2 = Dot(rf.SideNormal2, rf.V2)

	// Clip incident edge against extruded edge1 side edges.
	var clipPoints1, clipPoints2 [2]ClipVertex

	np := ClipSegmentToLine(clipPoints1[:], ie[:], rf.SideNormal1, rf.SideOffset1, rf.I1)
	if np < maxManifoldPoints {
		return
	}

	np = ClipSegmentToLine(clipPoints2[:], clipPoints1[:], rf.SideNormal2, rf.SideOffset2, rf.I2)
	if np < maxManifoldPoints {
		return
	}

	// Now clipPoints2 contains the clipped points.
	if primaryAxis.Type == epAxisEdgeA {
		manifold.LocalNormal = rf.Normal
		manifold.LocalPoint = rf.V1
	} else {
		manifold.LocalNormal = polygonB.Normals[rf.I1]
		manifold.LocalPoint = polygonB.Vertices[rf.I1]
	}

	pointCount := 0
	for i := 0; i < maxManifoldPoints; i++ {
		separation := Dot(rf.Normal, clipPoints2[i].V.Sub(rf.V1))

		if separation <= collider.radius {
			cp := &manifold.Points[pointCount]

			if primaryAxis.Type == epAxisEdgeA {
				cp.LocalPoint = MulTXV(collider.xf, clipPoints2[i].V)
				cp.Id = clipPoints2[i].Id
			} else {
				cp.LocalPoint = clipPoints2[i].V
				cp.Id.TypeA = clipPoints2[i].Id.TypeB
				cp.Id.TypeB = clipPoints2[i].Id.TypeA
				cp.Id.IndexA = clipPoints2[i].Id.IndexB
				cp.Id.IndexB = clipPoints2[i].Id.IndexA
			}

			pointCount++
		}
	}

	manifold.PointCount = pointCount
}

func (collider *epCollider) computeEdgeSeparation() epAxis {
	axis := epAxis{
		Type:       epAxisEdgeA,
		Separation: maxFloat,
	}
	if !collider.front {
		axis.Index = 1
	}

	for i := 0; i < collider.polygonB.Count; i++ {
		s := Dot(collider.normal, collider.polygonB.Vertices[i].Sub(collider.v1))
		if s < axis.Separation {
			axis.Separation = s
		}
	}

	return axis
}

func (collider *epCollider) computePolygonSeparation(cfg Config) epAxis {
	axis := epAxis{
		Type:       epAxisUnknown,
		Index:      -1,
		Separation: -maxFloat,
	}

	perp := Vec2{-collider.normal.Y, collider.normal.X}

	for i := 0; i < collider.polygonB.Count; i++ {
		n := collider.polygonB.Normals[i].Neg()

		s1 := Dot(n, collider.polygonB.Vertices[i].Sub(collider.v1))
		s2 := Dot(n, collider.polygonB.Vertices[i].Sub(collider.v2))
		s := math.Min(s1, s2)

		if s > collider.radius {
			// No collision.
			axis.Type = epAxisEdgeB
			axis.Index = i
			axis.Separation = s
			return axis
		}

		// Adjacency: only accept axes inside the allowed normal range.
		if Dot(n, perp) >= 0.0 {
			if Dot(n.Sub(collider.upperLimit), collider.normal) < -cfg.AngularSlop {
				continue
			}
		} else {
			if Dot(n.Sub(collider.lowerLimit), collider.normal) < -cfg.AngularSlop {
				continue
			}
		}

		if s > axis.Separation {
			axis.Type = epAxisEdgeB
			axis.Index = i
			axis.Separation = s
		}
	}

	return axis
}

// CollideEdgeAndPolygon computes the manifold for a one-sided edge and a
// polygon.
func CollideEdgeAndPolygon(cfg Config, manifold *Manifold, edgeA *EdgeShape, xfA Transform, polygonB *PolygonShape, xfB Transform) {
	var collider epCollider
	collider.collide(cfg, manifold, edgeA, xfA, polygonB, xfB)
}
