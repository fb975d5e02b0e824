package impulse

import "math"

// IsValidFloat reports whether x is a finite number.
func IsValidFloat(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Vec2 is a column vector with two rows.
type Vec2 struct {
	X, Y float64
}

func (v *Vec2) SetZero() {
	v.X = 0.0
	v.Y = 0.0
}

func (v *Vec2) Set(x, y float64) {
	v.X = x
	v.Y = y
}

func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{s * v.X, s * v.Y}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize scales the vector to unit length and returns the old length.
// Vectors shorter than epsilon are left zeroed.
func (v *Vec2) Normalize() float64 {
	length := v.Length()
	if length < epsilon {
		return 0.0
	}
	invLength := 1.0 / length
	v.X *= invLength
	v.Y *= invLength
	return length
}

func (v Vec2) IsValid() bool {
	return IsValidFloat(v.X) && IsValidFloat(v.Y)
}

// Skew returns the vector rotated 90 degrees counter-clockwise, so that
// Dot(v.Skew(), w) == Cross(v, w).
func (v Vec2) Skew() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Vec3 is a column vector with three rows.
type Vec3 struct {
	X, Y, Z float64
}

func (v *Vec3) SetZero() {
	v.X = 0.0
	v.Y = 0.0
	v.Z = 0.0
}

func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v.X, s * v.Y, s * v.Z}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func Cross(a, b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// CrossVS computes the cross product of a vector and a scalar. In 2D this
// produces a vector.
func CrossVS(a Vec2, s float64) Vec2 {
	return Vec2{s * a.Y, -s * a.X}
}

// CrossSV computes the cross product of a scalar and a vector. In 2D this
// produces a vector.
func CrossSV(s float64, a Vec2) Vec2 {
	return Vec2{-s * a.Y, s * a.X}
}

func Dot3(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func Cross3(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func Vec2Min(a, b Vec2) Vec2 {
	return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
}

func Vec2Max(a, b Vec2) Vec2 {
	return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)}
}

func Vec2Abs(a Vec2) Vec2 {
	return Vec2{math.Abs(a.X), math.Abs(a.Y)}
}

func DistanceVec2(a, b Vec2) float64 {
	return a.Sub(b).Length()
}

func DistanceSquaredVec2(a, b Vec2) float64 {
	d := a.Sub(b)
	return Dot(d, d)
}

func Clamp(a, low, high float64) float64 {
	return math.Max(low, math.Min(a, high))
}

func ClampVec2(a, low, high Vec2) Vec2 {
	return Vec2Max(low, Vec2Min(a, high))
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Mat22 is a 2-by-2 matrix stored in column-major order.
type Mat22 struct {
	Ex, Ey Vec2
}

func MakeMat22FromCols(c1, c2 Vec2) Mat22 {
	return Mat22{Ex: c1, Ey: c2}
}

func MakeMat22FromScalars(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{
		Ex: Vec2{a11, a21},
		Ey: Vec2{a12, a22},
	}
}

func (m *Mat22) SetIdentity() {
	m.Ex = Vec2{1.0, 0.0}
	m.Ey = Vec2{0.0, 1.0}
}

func (m *Mat22) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
}

func (m Mat22) GetInverse() Mat22 {
	a := m.Ex.X
	b := m.Ey.X
	c := m.Ex.Y
	d := m.Ey.Y

	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}

	return Mat22{
		Ex: Vec2{det * d, -det * c},
		Ey: Vec2{-det * b, det * a},
	}
}

// Solve solves m * x = b. This is more efficient than computing the inverse
// in one-shot cases.
func (m Mat22) Solve(b Vec2) Vec2 {
	a11 := m.Ex.X
	a12 := m.Ey.X
	a21 := m.Ex.Y
	a22 := m.Ey.Y

	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}

	return Vec2{
		det * (a22*b.X - a12*b.Y),
		det * (a11*b.Y - a21*b.X),
	}
}

func Mat22Add(a, b Mat22) Mat22 {
	return Mat22{Ex: a.Ex.Add(b.Ex), Ey: a.Ey.Add(b.Ey)}
}

// MulM22V multiplies a matrix times a vector. If a rotation matrix, this
// transforms the vector from one frame to another.
func MulM22V(m Mat22, v Vec2) Vec2 {
	return Vec2{
		m.Ex.X*v.X + m.Ey.X*v.Y,
		m.Ex.Y*v.X + m.Ey.Y*v.Y,
	}
}

// MulTM22V multiplies the transpose of a matrix times a vector.
func MulTM22V(m Mat22, v Vec2) Vec2 {
	return Vec2{Dot(v, m.Ex), Dot(v, m.Ey)}
}

// Mat33 is a 3-by-3 matrix stored in column-major order.
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

func (m *Mat33) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
	m.Ez.SetZero()
}

// Solve33 solves m * x = b.
func (m Mat33) Solve33(b Vec3) Vec3 {
	det := Dot3(m.Ex, Cross3(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	return Vec3{
		det * Dot3(b, Cross3(m.Ey, m.Ez)),
		det * Dot3(m.Ex, Cross3(b, m.Ez)),
		det * Dot3(m.Ex, Cross3(m.Ey, b)),
	}
}

// Solve22 solves m * x = b when only the upper 2-by-2 block matters.
func (m Mat33) Solve22(b Vec2) Vec2 {
	a11 := m.Ex.X
	a12 := m.Ey.X
	a21 := m.Ex.Y
	a22 := m.Ey.Y

	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}

	return Vec2{
		det * (a22*b.X - a12*b.Y),
		det * (a11*b.Y - a21*b.X),
	}
}

// GetInverse22 writes the inverse of the upper 2-by-2 block into dst, with the
// remaining entries zeroed.
func (m Mat33) GetInverse22(dst *Mat33) {
	a := m.Ex.X
	b := m.Ey.X
	c := m.Ex.Y
	d := m.Ey.Y

	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}

	dst.Ex = Vec3{det * d, -det * c, 0.0}
	dst.Ey = Vec3{-det * b, det * a, 0.0}
	dst.Ez = Vec3{}
}

// GetSymInverse33 writes the inverse of m into dst, assuming m is symmetric.
func (m Mat33) GetSymInverse33(dst *Mat33) {
	det := Dot3(m.Ex, Cross3(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	a11 := m.Ex.X
	a12 := m.Ey.X
	a13 := m.Ez.X
	a22 := m.Ey.Y
	a23 := m.Ez.Y
	a33 := m.Ez.Z

	dst.Ex = Vec3{
		det * (a22*a33 - a23*a23),
		det * (a13*a23 - a12*a33),
		det * (a12*a23 - a13*a22),
	}
	dst.Ey = Vec3{
		dst.Ex.Y,
		det * (a11*a33 - a13*a13),
		det * (a13*a12 - a11*a23),
	}
	dst.Ez = Vec3{
		dst.Ex.Z,
		dst.Ey.Z,
		det * (a11*a22 - a12*a12),
	}
}

// MulM33V multiplies a matrix times a vector.
func MulM33V(m Mat33, v Vec3) Vec3 {
	return m.Ex.Scale(v.X).Add(m.Ey.Scale(v.Y)).Add(m.Ez.Scale(v.Z))
}

// MulM33V2 multiplies the upper 2-by-2 block of a matrix times a vector.
func MulM33V2(m Mat33, v Vec2) Vec2 {
	return Vec2{
		m.Ex.X*v.X + m.Ey.X*v.Y,
		m.Ex.Y*v.X + m.Ey.Y*v.Y,
	}
}

// Rot is a rotation, stored as the sine and cosine of an angle.
type Rot struct {
	S, C float64
}

func MakeRot(angle float64) Rot {
	return Rot{S: math.Sin(angle), C: math.Cos(angle)}
}

func (q *Rot) Set(angle float64) {
	q.S = math.Sin(angle)
	q.C = math.Cos(angle)
}

func (q *Rot) SetIdentity() {
	q.S = 0.0
	q.C = 1.0
}

func (q Rot) GetAngle() float64 {
	return math.Atan2(q.S, q.C)
}

func (q Rot) GetXAxis() Vec2 {
	return Vec2{q.C, q.S}
}

func (q Rot) GetYAxis() Vec2 {
	return Vec2{-q.S, q.C}
}

// MulRR composes two rotations: q * r.
func MulRR(q, r Rot) Rot {
	return Rot{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

// MulTRR composes the inverse of q with r: qT * r.
func MulTRR(q, r Rot) Rot {
	return Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

// MulRV rotates a vector.
func MulRV(q Rot, v Vec2) Vec2 {
	return Vec2{
		q.C*v.X - q.S*v.Y,
		q.S*v.X + q.C*v.Y,
	}
}

// MulTRV inverse-rotates a vector.
func MulTRV(q Rot, v Vec2) Vec2 {
	return Vec2{
		q.C*v.X + q.S*v.Y,
		-q.S*v.X + q.C*v.Y,
	}
}

// Transform contains translation and rotation. It is used to represent the
// position and orientation of rigid frames.
type Transform struct {
	P Vec2
	Q Rot
}

func MakeTransform() Transform {
	t := Transform{}
	t.Q.SetIdentity()
	return t
}

func MakeTransformFromPosAndAngle(position Vec2, angle float64) Transform {
	return Transform{P: position, Q: MakeRot(angle)}
}

func (t *Transform) SetIdentity() {
	t.P.SetZero()
	t.Q.SetIdentity()
}

func (t *Transform) Set(position Vec2, angle float64) {
	t.P = position
	t.Q.Set(angle)
}

// MulXV applies a transform to a point.
func MulXV(t Transform, v Vec2) Vec2 {
	return Vec2{
		t.Q.C*v.X - t.Q.S*v.Y + t.P.X,
		t.Q.S*v.X + t.Q.C*v.Y + t.P.Y,
	}
}

// MulTXV applies the inverse of a transform to a point.
func MulTXV(t Transform, v Vec2) Vec2 {
	px := v.X - t.P.X
	py := v.Y - t.P.Y
	return Vec2{
		t.Q.C*px + t.Q.S*py,
		-t.Q.S*px + t.Q.C*py,
	}
}

// MulX composes two transforms: (a * b)(v) == a(b(v)).
func MulX(a, b Transform) Transform {
	return Transform{
		Q: MulRR(a.Q, b.Q),
		P: MulRV(a.Q, b.P).Add(a.P),
	}
}

// MulTX composes the inverse of a with b.
func MulTX(a, b Transform) Transform {
	return Transform{
		Q: MulTRR(a.Q, b.Q),
		P: MulTRV(a.Q, b.P.Sub(a.P)),
	}
}

// Sweep describes the motion of a body/shape for TOI computation. Shapes are
// defined with respect to the body origin, which may not coincide with the
// center of mass. To support dynamics we must interpolate the center of mass
// position.
type Sweep struct {
	// Local center of mass position.
	LocalCenter Vec2

	// Center world positions at Alpha0 and the step end.
	C0, C Vec2

	// World angles at Alpha0 and the step end.
	A0, A float64

	// Fraction of the current time step in the range [0,1]; C0 and A0 are the
	// positions at Alpha0.
	Alpha0 float64
}

// GetTransform computes the interpolated transform at a particular fraction of
// the step, where beta is a factor in [0,1] indicating the position between
// Alpha0 and the step end.
func (sweep Sweep) GetTransform(xf *Transform, beta float64) {
	xf.P = sweep.C0.Scale(1.0 - beta).Add(sweep.C.Scale(beta))
	angle := (1.0-beta)*sweep.A0 + beta*sweep.A
	xf.Q.Set(angle)

	// Shift to origin.
	xf.P = xf.P.Sub(MulRV(xf.Q, sweep.LocalCenter))
}

// Advance moves the sweep forward, yielding a new initial state, where alpha
// is the new initial time.
func (sweep *Sweep) Advance(alpha float64) {
	assert(sweep.Alpha0 < 1.0)
	beta := (alpha - sweep.Alpha0) / (1.0 - sweep.Alpha0)
	sweep.C0 = sweep.C0.Scale(1.0 - beta).Add(sweep.C.Scale(beta))
	sweep.A0 = (1.0-beta)*sweep.A0 + beta*sweep.A
	sweep.Alpha0 = alpha
}

// Normalize brings the sweep angles back into the -2*pi..2*pi range to avoid
// a loss of precision over long simulations.
func (sweep *Sweep) Normalize() {
	twoPi := 2.0 * pi
	d := twoPi * math.Floor(sweep.A0/twoPi)
	sweep.A0 -= d
	sweep.A -= d
}
