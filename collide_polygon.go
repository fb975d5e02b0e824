package impulse

// findMaxSeparation finds the max separation between poly1 and poly2 using
// edge normals from poly1.
func findMaxSeparation(edgeIndex *int, poly1 *PolygonShape, xf1 Transform, poly2 *PolygonShape, xf2 Transform) float64 {
	count1 := poly1.Count
	count2 := poly2.Count
	n1s := poly1.Normals
	v1s := poly1.Vertices
	v2s := poly2.Vertices

	xf := MulTX(xf2, xf1)

	bestIndex := 0
	maxSeparation := -maxFloat
	for i := 0; i < count1; i++ {
		// Get poly1 normal in frame2.
		n := MulRV(xf.Q, n1s[i])
		v1 := MulXV(xf, v1s[i])

		// Find deepest point for normal i.
		si := maxFloat
		for j := 0; j < count2; j++ {
			sij := Dot(n, v2s[j].Sub(v1))
			if sij < si {
				si = sij
			}
		}

		if si > maxSeparation {
			maxSeparation = si
			bestIndex = i
		}
	}

	*edgeIndex = bestIndex
	return maxSeparation
}

func findIncidentEdge(c []ClipVertex, poly1 *PolygonShape, xf1 Transform, edge1 int, poly2 *PolygonShape, xf2 Transform) {
	normals1 := poly1.Normals

	count2 := poly2.Count
	vertices2 := poly2.Vertices
	normals2 := poly2.Normals

	assert(0 <= edge1 && edge1 < poly1.Count)

	// Get the normal of the reference edge in poly2's frame.
	normal1 := MulTRV(xf2.Q, MulRV(xf1.Q, normals1[edge1]))

	// Find the incident edge on poly2.
	index := 0
	minDot := maxFloat
	for i := 0; i < count2; i++ {
		dot := Dot(normal1, normals2[i])
		if dot < minDot {
			minDot = dot
			index = i
		}
	}

	// Build the clip vertices for the incident edge.
	i1 := index
	i2 := 0
	if i1+1 < count2 {
		i2 = i1 + 1
	}

	c[0].V = MulXV(xf2, vertices2[i1])
	c[0].Id.IndexA = uint8(edge1)
	c[0].Id.IndexB = uint8(i1)
	c[0].Id.TypeA = uint8(FeatureFace)
	c[0].Id.TypeB = uint8(FeatureVertex)

	c[1].V = MulXV(xf2, vertices2[i2])
	c[1].Id.IndexA = uint8(edge1)
	c[1].Id.IndexB = uint8(i2)
	c[1].Id.TypeA = uint8(FeatureFace)
	c[1].Id.TypeB = uint8(FeatureVertex)
}

// CollidePolygons computes the manifold for two polygons using SAT:
// find the edge normal of max separation on A, then on B, choose the
// reference edge as the smaller separation, find the incident edge and clip.
// The normal points from A to B.
func CollidePolygons(cfg Config, manifold *Manifold, polyA *PolygonShape, xfA Transform, polyB *PolygonShape, xfB Transform) {
	manifold.PointCount = 0
	totalRadius := polyA.radius + polyB.radius

	edgeA := 0
	separationA := findMaxSeparation(&edgeA, polyA, xfA, polyB, xfB)
	if separationA > totalRadius {
		return
	}

	edgeB := 0
	separationB := findMaxSeparation(&edgeB, polyB, xfB, polyA, xfA)
	if separationB > totalRadius {
		return
	}

	var poly1 *PolygonShape // reference polygon
	var poly2 *PolygonShape // incident polygon
	var xf1, xf2 Transform
	edge1 := 0 // reference edge
	var flip uint8
	tol := 0.1 * cfg.LinearSlop

	if separationB > separationA+tol {
		poly1 = polyB
		poly2 = polyA
		xf1 = xfB
		xf2 = xfA
		edge1 = edgeB
		manifold.Type = ManifoldFaceB
		flip = 1
	} else {
		poly1 = polyA
		poly2 = polyB
		xf1 = xfA
		xf2 = xfB
		edge1 = edgeA
		manifold.Type = ManifoldFaceA
		flip = 0
	}

	var incidentEdge [2]ClipVertex
	findIncidentEdge(incidentEdge[:], poly1, xf1, edge1, poly2, xf2)

	count1 := poly1.Count
	vertices1 := poly1.Vertices

	iv1 := edge1
	iv2 := 0
	if edge1+1 < count1 {
		iv2 = edge1 + 1
	}

	v11 := vertices1[iv1]
	v12 := vertices1[iv2]

	localTangent := v12.Sub(v11)
	localTangent.Normalize()

	localNormal := CrossVS(localTangent, 1.0)
	planePoint := v11.Add(v12).Scale(0.5)

	tangent := MulRV(xf1.Q, localTangent)
	normal := CrossVS(tangent, 1.0)

	v11 = MulXV(xf1, v11)
	v12 = MulXV(xf1, v12)

	// Face offset.
	frontOffset := Dot(normal, v11)

	// Side offsets, extended by polytope skin thickness.
	sideOffset1 := -Dot(tangent, v11) + totalRadius
	sideOffset2 := Dot(tangent, v12) + totalRadius

	// Clip incident edge against extruded edge1 side edges.
	var clipPoints1, clipPoints2 [2]ClipVertex

	np := ClipSegmentToLine(clipPoints1[:], incidentEdge[:], tangent.Neg(), sideOffset1, iv1)
	if np < 2 {
		return
	}

	np = ClipSegmentToLine(clipPoints2[:], clipPoints1[:], tangent, sideOffset2, iv2)
	if np < 2 {
		return
	}

	// Now clipPoints2 contains the clipped points.
	manifold.LocalNormal = localNormal
	manifold.LocalPoint = planePoint

	pointCount := 0
	for i := 0; i < maxManifoldPoints; i++ {
		separation := Dot(normal, clipPoints2[i].V) - frontOffset

		if separation <= totalRadius {
			cp := &manifold.Points[pointCount]
			cp.LocalPoint = MulTXV(xf2, clipPoints2[i].V)
			cp.Id = clipPoints2[i].Id
			if flip != 0 {
				// Swap features.
				cf := cp.Id
				cp.Id.IndexA = cf.IndexB
				cp.Id.IndexB = cf.IndexA
				cp.Id.TypeA = cf.TypeB
				cp.Id.TypeB = cf.TypeA
			}
			pointCount++
		}
	}

	manifold.PointCount = pointCount
}
