package geom

import "math"

// CubicKappa is the control-point distance factor that makes a cubic bezier
// approximate a quarter circle of radius 1; used by Path's Circle/Ellipse/
// RoundRect builders.
const CubicKappa = 0.5522847498

// PolystarInnerKappa is the smoothing constant applied to polystar inner/
// outer roundness corners, per the original imlottie star-builder.
const PolystarInnerKappa = 1.7082

// CubicBez is a cubic bezier curve with control points P0..P3.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// Eval evaluates the curve at parameter t in [0,1].
func (c CubicBez) Eval(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Subdivide splits c at t=0.5 using de Casteljau's algorithm.
func (c CubicBez) Subdivide() (CubicBez, CubicBez) {
	p01 := c.P0.Lerp(c.P1, 0.5)
	p12 := c.P1.Lerp(c.P2, 0.5)
	p23 := c.P2.Lerp(c.P3, 0.5)
	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	mid := p012.Lerp(p123, 0.5)
	return CubicBez{c.P0, p01, p012, mid}, CubicBez{mid, p123, p23, c.P3}
}

// flatness returns an upper bound on how far the control points deviate from
// the chord P0-P3, following the standard "distance of control points from
// the line" flatness test used by most bezier flatteners.
func (c CubicBez) flatness() float64 {
	ux := 3*c.P1.X - 2*c.P0.X - c.P3.X
	uy := 3*c.P1.Y - 2*c.P0.Y - c.P3.Y
	vx := 3*c.P2.X - 2*c.P3.X - c.P0.X
	vy := 3*c.P2.Y - 2*c.P3.Y - c.P0.Y
	ux *= ux
	uy *= uy
	vx *= vx
	vy *= vy
	if ux < vx {
		ux = vx
	}
	if uy < vy {
		uy = vy
	}
	return ux + uy
}

// FlattenCubic appends a line-segment approximation of c to dst (excluding
// the starting point) accurate to tolerance, via adaptive subdivision.
func FlattenCubic(c CubicBez, tolerance float64, dst []Point) []Point {
	tol16 := 16 * tolerance * tolerance
	return flattenCubicRec(c, tol16, 0, dst)
}

func flattenCubicRec(c CubicBez, tol16 float64, depth int, dst []Point) []Point {
	if depth >= 24 || c.flatness() < tol16 {
		return append(dst, c.P3)
	}
	left, right := c.Subdivide()
	dst = flattenCubicRec(left, tol16, depth+1, dst)
	dst = flattenCubicRec(right, tol16, depth+1, dst)
	return dst
}

// ArcLength estimates the arc length of c by polyline approximation, used by
// the dasher to step along curved segments.
func ArcLength(c CubicBez, tolerance float64) float64 {
	pts := FlattenCubic(c, tolerance, []Point{c.P0})
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Distance(pts[i])
	}
	return total
}

// Tangent returns the (non-normalized) derivative direction of c at t, used
// for auto-orient rotation and for curved stroke joins.
func (c CubicBez) Tangent(t float64) Vec2 {
	mt := 1 - t
	x := 3*mt*mt*(c.P1.X-c.P0.X) + 6*mt*t*(c.P2.X-c.P1.X) + 3*t*t*(c.P3.X-c.P2.X)
	y := 3*mt*mt*(c.P1.Y-c.P0.Y) + 6*mt*t*(c.P2.Y-c.P1.Y) + 3*t*t*(c.P3.Y-c.P2.Y)
	return Vec2{X: x, Y: y}
}

// normalizeAngle wraps a radians angle into [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
