package impulse

import "math"

// CircleShape is a solid circle with a local center offset.
type CircleShape struct {
	shapeBase

	// P is the local position of the circle center.
	P Vec2
}

func NewCircleShape(radius float64) *CircleShape {
	return &CircleShape{
		shapeBase: shapeBase{shapeType: CircleShapeType, radius: radius},
	}
}

func (shape *CircleShape) Clone() Shape {
	clone := *shape
	return &clone
}

func (shape *CircleShape) ChildCount() int {
	return 1
}

func (shape *CircleShape) TestPoint(xf Transform, p Vec2) bool {
	center := xf.P.Add(MulRV(xf.Q, shape.P))
	d := p.Sub(center)
	return Dot(d, d) <= shape.radius*shape.radius
}

// RayCast solves x = s + a*r with norm(x) = radius. From Section 3.1.2 of
// Collision Detection in Interactive 3D Environments by Gino van den Bergen.
func (shape *CircleShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	position := xf.P.Add(MulRV(xf.Q, shape.P))
	s := input.P1.Sub(position)
	b := Dot(s, s) - shape.radius*shape.radius

	// Solve quadratic equation.
	r := input.P2.Sub(input.P1)
	c := Dot(s, r)
	rr := Dot(r, r)
	sigma := c*c - rr*b

	// Check for negative discriminant and short segment.
	if sigma < 0.0 || rr < epsilon {
		return false
	}

	// Find the point of intersection of the line with the circle.
	a := -(c + math.Sqrt(sigma))

	// Is the intersection point on the segment?
	if 0.0 <= a && a <= input.MaxFraction*rr {
		a /= rr
		output.Fraction = a
		output.Normal = s.Add(r.Scale(a))
		output.Normal.Normalize()
		return true
	}

	return false
}

func (shape *CircleShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	p := xf.P.Add(MulRV(xf.Q, shape.P))
	aabb.LowerBound = Vec2{p.X - shape.radius, p.Y - shape.radius}
	aabb.UpperBound = Vec2{p.X + shape.radius, p.Y + shape.radius}
}

func (shape *CircleShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = density * pi * shape.radius * shape.radius
	massData.Center = shape.P

	// Inertia about the local origin.
	massData.I = massData.Mass * (0.5*shape.radius*shape.radius + Dot(shape.P, shape.P))
}
