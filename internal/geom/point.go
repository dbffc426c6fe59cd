// Package geom provides the geometry primitives shared by the model, render
// tree, rasterizer and compositor: points, vectors, matrices, colors, path
// construction and bezier math.
package geom

import "math"

// Point is a 2D point in layer/composition space.
type Point struct {
	X, Y float64
}

// Vec2 is a 2D vector (a displacement, not a position).
type Vec2 struct {
	X, Y float64
}

// Add returns p+v.
func (p Point) Add(v Vec2) Point { return Point{p.X + v.X, p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec2 { return Vec2{p.X - q.X, p.Y - q.Y} }

// Lerp linearly interpolates between p and q at t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// Add returns v+w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Dot returns the dot product of v and w.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Cross returns the z-component of the 3D cross product of v and w.
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

// Length returns the length of v.
func (v Vec2) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Normalize returns a unit vector in the direction of v, or the zero vector
// if v is degenerate.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Angle returns the angle of v in radians.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// ToPoint reinterprets v as a point.
func (v Vec2) ToPoint() Point { return Point(v) }
