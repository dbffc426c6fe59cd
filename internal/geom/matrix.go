package geom

import "math"

// Matrix is a 2D affine transform in row-major form:
//
//	| A  B  0 |
//	| C  D  0 |
//	| Tx Ty 1 |
type Matrix struct {
	A, B, C, D, Tx, Ty float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translate returns a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, D: 1, Tx: x, Ty: y}
}

// Scale returns a scale matrix about the origin.
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Rotate returns a rotation matrix (radians, clockwise in screen space).
func Rotate(radians float64) Matrix {
	s, c := math.Sincos(radians)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// Skew returns a skew matrix (radians on each axis).
func Skew(xRadians, yRadians float64) Matrix {
	return Matrix{A: 1, B: math.Tan(yRadians), C: math.Tan(xRadians), D: 1}
}

// Mul returns m composed with n, applying n first then m (m.Mul(n) == n then m
// when used via Apply, matching the teacher's row-vector convention).
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A:  n.A*m.A + n.B*m.C,
		B:  n.A*m.B + n.B*m.D,
		C:  n.C*m.A + n.D*m.C,
		D:  n.C*m.B + n.D*m.D,
		Tx: n.Tx*m.A + n.Ty*m.C + m.Tx,
		Ty: n.Tx*m.B + n.Ty*m.D + m.Ty,
	}
}

// Apply transforms a point by m.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: p.X*m.A + p.Y*m.C + m.Tx,
		Y: p.X*m.B + p.Y*m.D + m.Ty,
	}
}

// ApplyVec transforms a vector by m, ignoring translation.
func (m Matrix) ApplyVec(v Vec2) Vec2 {
	return Vec2{X: v.X*m.A + v.Y*m.C, Y: v.X*m.B + v.Y*m.D}
}

// Determinant returns the determinant of the linear part of m.
func (m Matrix) Determinant() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse of m, or Identity() if m is singular.
func (m Matrix) Invert() Matrix {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity()
	}
	inv := 1 / det
	a := m.D * inv
	b := -m.B * inv
	c := -m.C * inv
	d := m.A * inv
	tx := -(m.Tx*a + m.Ty*c)
	ty := -(m.Tx*b + m.Ty*d)
	return Matrix{A: a, B: b, C: c, D: d, Tx: tx, Ty: ty}
}

// IsIdentity reports whether m is (very close to) the identity matrix.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-9
	return math.Abs(m.A-1) < eps && math.Abs(m.B) < eps &&
		math.Abs(m.C) < eps && math.Abs(m.D-1) < eps &&
		math.Abs(m.Tx) < eps && math.Abs(m.Ty) < eps
}

// Transform3D composes a full Lottie layer transform: anchor point,
// position, scale, skew and rotation, plus the simplified (non-perspective)
// x/y rotation used for "3D layer" transforms. See DESIGN.md for the
// rationale behind dropping true perspective projection.
type Transform3D struct {
	Anchor       Point
	Position     Point
	Scale        Vec2 // 1.0 == 100%
	SkewAngle    float64
	SkewAxis     float64
	RotationX    float64 // radians
	RotationY    float64 // radians
	RotationZ    float64 // radians, the classic 2D "r" property
	Opacity      float64 // 0..1
}

// Matrix builds the 2D affine matrix for t. RotationX/RotationY are applied
// as foreshortening scale factors (cos of the angle) rather than a full
// perspective divide, which keeps every layer representable as a single
// affine Matrix — the approximation documented in DESIGN.md.
func (t Transform3D) Matrix() Matrix {
	m := Translate(-t.Anchor.X, -t.Anchor.Y)
	m = Scale(t.Scale.X, t.Scale.Y).Mul(m)
	if t.SkewAngle != 0 {
		m = skewMatrix(t.SkewAngle, t.SkewAxis).Mul(m)
	}
	m = Rotate(t.RotationZ).Mul(m)
	if t.RotationX != 0 {
		m = Scale(1, math.Cos(t.RotationX)).Mul(m)
	}
	if t.RotationY != 0 {
		m = Scale(math.Cos(t.RotationY), 1).Mul(m)
	}
	m = Translate(t.Position.X, t.Position.Y).Mul(m)
	return m
}

func skewMatrix(angle, axis float64) Matrix {
	t := math.Tan(angle * math.Pi / 180)
	ax := axis * math.Pi / 180
	s, c := math.Sincos(ax)
	fwd := Matrix{A: c, B: s, C: -s, D: c}
	skew := Matrix{A: 1, D: 1, C: t}
	back := Matrix{A: c, B: -s, C: s, D: c}
	return back.Mul(skew).Mul(fwd)
}
