package impulse

import "math"

const nullFeature uint8 = math.MaxUint8

// ContactFeatureType identifies the kind of shape feature a contact point was
// generated from.
type ContactFeatureType uint8

const (
	FeatureVertex ContactFeatureType = 0
	FeatureFace   ContactFeatureType = 1
)

// ContactFeature describes the features that intersect to form the contact
// point. This must stay 4 bytes or less.
type ContactFeature struct {
	IndexA uint8 // feature index on shape A
	IndexB uint8 // feature index on shape B
	TypeA  uint8 // feature type on shape A
	TypeB  uint8 // feature type on shape B
}

// ContactID identifies a contact point between two shapes across steps. It is
// the key used for warm-start impulse matching.
type ContactID ContactFeature

// Key packs the feature into a comparable value.
func (id ContactID) Key() uint32 {
	return uint32(id.IndexA) |
		uint32(id.IndexB)<<8 |
		uint32(id.TypeA)<<16 |
		uint32(id.TypeB)<<24
}

func (id *ContactID) SetKey(key uint32) {
	id.IndexA = uint8(key & 0xFF)
	id.IndexB = uint8(key >> 8 & 0xFF)
	id.TypeA = uint8(key >> 16 & 0xFF)
	id.TypeB = uint8(key >> 24 & 0xFF)
}

// ManifoldPoint is a contact point belonging to a contact manifold. It holds
// details related to the geometry and dynamics of the contact point.
// The local point usage depends on the manifold type:
//   - ManifoldCircles: the local center of circle B
//   - ManifoldFaceA: the local center of circle B or the clip point of polygon B
//   - ManifoldFaceB: the clip point of polygon A
//
// This structure is stored across time steps, so keep it small. The impulses
// are internal caching and may not provide reliable contact forces, especially
// for high speed collisions.
type ManifoldPoint struct {
	LocalPoint     Vec2
	NormalImpulse  float64
	TangentImpulse float64
	Id             ContactID
}

// ManifoldType tags how a manifold's local point and normal are interpreted.
type ManifoldType uint8

const (
	ManifoldCircles ManifoldType = iota
	ManifoldFaceA
	ManifoldFaceB
)

// Manifold describes how two touching convex shapes meet. The local point
// usage depends on the type:
//   - ManifoldCircles: the local center of circle A
//   - ManifoldFaceA: the center of face A
//   - ManifoldFaceB: the center of face B
//
// Similarly the local normal:
//   - ManifoldCircles: not used
//   - ManifoldFaceA: the normal on polygon A
//   - ManifoldFaceB: the normal on polygon B
//
// Contacts are stored this way so that position correction can account for
// movement, which is critical for continuous physics.
type Manifold struct {
	Points      [maxManifoldPoints]ManifoldPoint
	LocalNormal Vec2
	LocalPoint  Vec2
	Type        ManifoldType
	PointCount  int
}

// WorldManifold is the ephemeral world-space view of a manifold. It is
// recomputed on demand and never persisted.
type WorldManifold struct {
	Normal      Vec2                          // world vector pointing from A to B
	Points      [maxManifoldPoints]Vec2       // world contact points
	Separations [maxManifoldPoints]float64    // negative values indicate overlap
}

// Initialize evaluates the manifold at the given transforms.
func (wm *WorldManifold) Initialize(manifold *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) {
	if manifold.PointCount == 0 {
		return
	}

	switch manifold.Type {
	case ManifoldCircles:
		wm.Normal = Vec2{1.0, 0.0}
		pointA := MulXV(xfA, manifold.LocalPoint)
		pointB := MulXV(xfB, manifold.Points[0].LocalPoint)
		if DistanceSquaredVec2(pointA, pointB) > epsilon*epsilon {
			wm.Normal = pointB.Sub(pointA)
			wm.Normal.Normalize()
		}

		cA := pointA.Add(wm.Normal.Scale(radiusA))
		cB := pointB.Sub(wm.Normal.Scale(radiusB))
		wm.Points[0] = cA.Add(cB).Scale(0.5)
		wm.Separations[0] = Dot(cB.Sub(cA), wm.Normal)

	case ManifoldFaceA:
		wm.Normal = MulRV(xfA.Q, manifold.LocalNormal)
		planePoint := MulXV(xfA, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := MulXV(xfB, manifold.Points[i].LocalPoint)
			cA := clipPoint.Add(wm.Normal.Scale(radiusA - Dot(clipPoint.Sub(planePoint), wm.Normal)))
			cB := clipPoint.Sub(wm.Normal.Scale(radiusB))
			wm.Points[i] = cA.Add(cB).Scale(0.5)
			wm.Separations[i] = Dot(cB.Sub(cA), wm.Normal)
		}

	case ManifoldFaceB:
		wm.Normal = MulRV(xfB.Q, manifold.LocalNormal)
		planePoint := MulXV(xfB, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := MulXV(xfA, manifold.Points[i].LocalPoint)
			cB := clipPoint.Add(wm.Normal.Scale(radiusB - Dot(clipPoint.Sub(planePoint), wm.Normal)))
			cA := clipPoint.Sub(wm.Normal.Scale(radiusA))
			wm.Points[i] = cA.Add(cB).Scale(0.5)
			wm.Separations[i] = Dot(cA.Sub(cB), wm.Normal)
		}

		// Ensure normal points from A to B.
		wm.Normal = wm.Normal.Neg()
	}
}

// PointState classifies how a manifold point evolved between two manifolds.
type PointState uint8

const (
	NullState    PointState = iota // point does not exist
	AddState                       // point was added in the update
	PersistState                   // point persisted across the update
	RemoveState                    // point was removed in the update
)

// GetPointStates computes the state of manifold points for two manifolds,
// matching by contact id. state1 describes manifold1's points, state2
// describes manifold2's.
func GetPointStates(state1, state2 *[maxManifoldPoints]PointState, manifold1, manifold2 *Manifold) {
	for i := 0; i < maxManifoldPoints; i++ {
		state1[i] = NullState
		state2[i] = NullState
	}

	// Detect persists and removes.
	for i := 0; i < manifold1.PointCount; i++ {
		id := manifold1.Points[i].Id

		state1[i] = RemoveState
		for j := 0; j < manifold2.PointCount; j++ {
			if manifold2.Points[j].Id.Key() == id.Key() {
				state1[i] = PersistState
				break
			}
		}
	}

	// Detect persists and adds.
	for i := 0; i < manifold2.PointCount; i++ {
		id := manifold2.Points[i].Id

		state2[i] = AddState
		for j := 0; j < manifold1.PointCount; j++ {
			if manifold1.Points[j].Id.Key() == id.Key() {
				state2[i] = PersistState
				break
			}
		}
	}
}

// ClipVertex is used for computing contact manifolds.
type ClipVertex struct {
	V  Vec2
	Id ContactID
}

// RayCastInput describes a ray extending from P1 to P1 + MaxFraction*(P2-P1).
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

// RayCastOutput reports a hit at P1 + Fraction*(P2-P1).
type RayCastOutput struct {
	Normal   Vec2
	Fraction float64
}

// AABB is an axis aligned bounding box.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

func (bb AABB) GetCenter() Vec2 {
	return bb.LowerBound.Add(bb.UpperBound).Scale(0.5)
}

func (bb AABB) GetExtents() Vec2 {
	return bb.UpperBound.Sub(bb.LowerBound).Scale(0.5)
}

func (bb AABB) GetPerimeter() float64 {
	wx := bb.UpperBound.X - bb.LowerBound.X
	wy := bb.UpperBound.Y - bb.LowerBound.Y
	return 2.0 * (wx + wy)
}

// Combine grows this AABB to contain another.
func (bb *AABB) Combine(aabb AABB) {
	bb.LowerBound = Vec2Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = Vec2Max(bb.UpperBound, aabb.UpperBound)
}

// CombineTwo sets this AABB to the union of two others.
func (bb *AABB) CombineTwo(aabb1, aabb2 AABB) {
	bb.LowerBound = Vec2Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = Vec2Max(aabb1.UpperBound, aabb2.UpperBound)
}

func (bb AABB) Contains(aabb AABB) bool {
	return bb.LowerBound.X <= aabb.LowerBound.X &&
		bb.LowerBound.Y <= aabb.LowerBound.Y &&
		aabb.UpperBound.X <= bb.UpperBound.X &&
		aabb.UpperBound.Y <= bb.UpperBound.Y
}

func (bb AABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	valid := d.X >= 0.0 && d.Y >= 0.0
	return valid && bb.LowerBound.IsValid() && bb.UpperBound.IsValid()
}

// RayCast intersects a ray with the box. From Real-time Collision Detection,
// p179.
func (bb AABB) RayCast(output *RayCastOutput, input RayCastInput) bool {
	tmin := -maxFloat
	tmax := maxFloat

	p := [2]float64{input.P1.X, input.P1.Y}
	d := [2]float64{input.P2.X - input.P1.X, input.P2.Y - input.P1.Y}
	lower := [2]float64{bb.LowerBound.X, bb.LowerBound.Y}
	upper := [2]float64{bb.UpperBound.X, bb.UpperBound.Y}

	var normal [2]float64

	for i := 0; i < 2; i++ {
		if math.Abs(d[i]) < epsilon {
			// Parallel.
			if p[i] < lower[i] || upper[i] < p[i] {
				return false
			}
		} else {
			invD := 1.0 / d[i]
			t1 := (lower[i] - p[i]) * invD
			t2 := (upper[i] - p[i]) * invD

			// Sign of the normal vector.
			s := -1.0
			if t1 > t2 {
				t1, t2 = t2, t1
				s = 1.0
			}

			// Push the min up.
			if t1 > tmin {
				normal = [2]float64{}
				normal[i] = s
				tmin = t1
			}

			// Pull the max down.
			tmax = math.Min(tmax, t2)

			if tmin > tmax {
				return false
			}
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max fraction?
	if tmin < 0.0 || input.MaxFraction < tmin {
		return false
	}

	output.Fraction = tmin
	output.Normal = Vec2{normal[0], normal[1]}
	return true
}

// TestOverlapAABB reports whether two bounding boxes overlap.
func TestOverlapAABB(a, b AABB) bool {
	d1 := b.LowerBound.Sub(a.UpperBound)
	d2 := a.LowerBound.Sub(b.UpperBound)

	if d1.X > 0.0 || d1.Y > 0.0 {
		return false
	}
	if d2.X > 0.0 || d2.Y > 0.0 {
		return false
	}
	return true
}

// ClipSegmentToLine performs Sutherland-Hodgman clipping of a two-point
// segment against a plane. Returns the number of output points.
func ClipSegmentToLine(vOut []ClipVertex, vIn []ClipVertex, normal Vec2, offset float64, vertexIndexA int) int {
	numOut := 0

	// Calculate the distance of end points to the line.
	distance0 := Dot(normal, vIn[0].V) - offset
	distance1 := Dot(normal, vIn[1].V) - offset

	// If the points are behind the plane.
	if distance0 <= 0.0 {
		vOut[numOut] = vIn[0]
		numOut++
	}
	if distance1 <= 0.0 {
		vOut[numOut] = vIn[1]
		numOut++
	}

	// If the points are on different sides of the plane.
	if distance0*distance1 < 0.0 {
		// Find intersection point of edge and plane.
		interp := distance0 / (distance0 - distance1)
		vOut[numOut].V = vIn[0].V.Add(vIn[1].V.Sub(vIn[0].V).Scale(interp))

		// Vertex A is hitting edge B.
		vOut[numOut].Id.IndexA = uint8(vertexIndexA)
		vOut[numOut].Id.IndexB = vIn[0].Id.IndexB
		vOut[numOut].Id.TypeA = uint8(FeatureVertex)
		vOut[numOut].Id.TypeB = uint8(FeatureFace)
		numOut++
	}

	return numOut
}

// TestOverlapShapes reports whether two shapes are overlapping, using GJK
// distance with radii included.
func TestOverlapShapes(shapeA Shape, indexA int, shapeB Shape, indexB int, xfA, xfB Transform) bool {
	input := DistanceInput{}
	input.ProxyA.Set(shapeA, indexA)
	input.ProxyB.Set(shapeB, indexB)
	input.TransformA = xfA
	input.TransformB = xfB
	input.UseRadii = true

	cache := SimplexCache{}
	output := DistanceOutput{}

	Distance(&output, &cache, &input)

	return output.Distance < 10.0*epsilon
}
