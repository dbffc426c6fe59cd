package model

import "github.com/dalerank/imlottie-sub000/internal/geom"

// Interpolator maps a normalized time fraction in [0,1] to an eased
// fraction in [0,1], the keyframe "easing curve" Lottie stores as a pair of
// control points (ks.o/ks.i).
type Interpolator func(t float64) float64

// LinearInterpolator is the identity easing (t == t).
func LinearInterpolator(t float64) float64 { return t }

// NewBezierInterpolator builds an easing curve from Lottie's control point
// pairs (o.x/o.y = outTangent, i.x/i.y = inTangent of the unit bezier
// anchored at (0,0) and (1,1)), solved the way a CSS cubic-bezier timing
// function is: binary search on x for the t that produces it, then
// evaluate y at that t.
func NewBezierInterpolator(out, in geom.Point) Interpolator {
	curve := geom.CubicBez{
		P0: geom.Point{X: 0, Y: 0},
		P1: out,
		P2: in,
		P3: geom.Point{X: 1, Y: 1},
	}
	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}
		lo, hi := 0.0, 1.0
		for range 24 {
			mid := (lo + hi) / 2
			p := curve.Eval(mid)
			if p.X < x {
				lo = mid
			} else {
				hi = mid
			}
		}
		return curve.Eval((lo + hi) / 2).Y
	}
}

// Keyframe is one segment of an animated property's timeline.
type Keyframe[T any] struct {
	StartFrame, EndFrame float64
	StartValue, EndValue T
	Interp               Interpolator
	Hold                 bool

	// PathKeyframe marks a 2D position keyframe that carries bezier
	// tangents (spec §3): the value is sampled along the cubic
	// start -> start+OutTangent -> end+InTangent -> end at arc-length
	// fraction t, instead of a plain linear/eased lerp.
	PathKeyframe         bool
	OutTangent, InTangent geom.Vec2
}

// LerpFunc linearly interpolates between two values of type T at t in
// [0,1]. Property evaluation takes one of these instead of requiring T to
// satisfy an arithmetic interface, since Go generics can't express "has +
// and *" directly.
type LerpFunc[T any] func(a, b T, t float64) T

// Property is an animated value: either a single static value or an
// ordered keyframe timeline, matching spec §3's "Animated property".
type Property[T any] struct {
	Static      bool
	StaticValue T
	Keyframes   []Keyframe[T]
	Lerp        LerpFunc[T]
}

// NewStaticProperty builds a constant, never-animated property.
func NewStaticProperty[T any](v T) Property[T] {
	return Property[T]{Static: true, StaticValue: v}
}

// IsStatic reports whether this property is static, per the model's
// static-flag propagation rule (spec §4.2): it is static when explicitly
// marked so or when it has no keyframes at all; both cases short-circuit
// Eval without a search. A property with any keyframe, even a single one,
// is not static.
func (p *Property[T]) IsStatic() bool { return p.Static || len(p.Keyframes) == 0 }

// Eval evaluates the property at frame f, per spec §3's evaluation rule.
func (p *Property[T]) Eval(frame float64) T {
	if p.Static || len(p.Keyframes) == 0 {
		return p.StaticValue
	}
	kfs := p.Keyframes
	if frame <= kfs[0].StartFrame {
		return kfs[0].StartValue
	}
	last := kfs[len(kfs)-1]
	if frame >= last.EndFrame {
		return last.EndValue
	}
	for _, kf := range kfs {
		if frame >= kf.StartFrame && frame < kf.EndFrame {
			if kf.Hold {
				return kf.StartValue
			}
			span := kf.EndFrame - kf.StartFrame
			if span <= 0 {
				return kf.StartValue
			}
			t := (frame - kf.StartFrame) / span
			if kf.Interp != nil {
				t = kf.Interp(t)
			}
			return p.Lerp(kf.StartValue, kf.EndValue, t)
		}
	}
	return last.EndValue
}

// FloatLerp linearly interpolates two float64 values.
func FloatLerp(a, b float64, t float64) float64 { return a + (b-a)*t }

// PointLerp linearly interpolates two points.
func PointLerp(a, b geom.Point, t float64) geom.Point { return a.Lerp(b, t) }

// ColorLerp linearly interpolates two colors (straight alpha).
func ColorLerp(a, b geom.RGBA, t float64) geom.RGBA { return a.Lerp(b, t) }

// PathLerp linearly interpolates two shape paths vertex-by-vertex. Lottie
// only ever animates a path between keyframes with matching vertex and
// verb counts (the author is responsible for that); a mismatch falls
// back to holding a, since there is no sane default correspondence.
func PathLerp(a, b geom.Path, t float64) geom.Path {
	if len(a.Elements) != len(b.Elements) {
		return a
	}
	out := geom.NewPath()
	for i, ea := range a.Elements {
		eb := b.Elements[i]
		switch va := ea.(type) {
		case geom.MoveToElem:
			vb := eb.(geom.MoveToElem)
			p := va.Point.Lerp(vb.Point, t)
			out.MoveTo(p.X, p.Y)
		case geom.LineToElem:
			vb := eb.(geom.LineToElem)
			p := va.Point.Lerp(vb.Point, t)
			out.LineTo(p.X, p.Y)
		case geom.CubicToElem:
			vb := eb.(geom.CubicToElem)
			c1 := va.Control1.Lerp(vb.Control1, t)
			c2 := va.Control2.Lerp(vb.Control2, t)
			p := va.Point.Lerp(vb.Point, t)
			out.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
		case geom.CloseElem:
			out.Close()
		}
	}
	return *out
}

// EvalPath evaluates a 2D position property that may carry bezier
// tangents for the keyframe covering frame, returning both the position
// and the path's tangent angle (used for auto-orient, spec §3/§[FULL]).
func EvalPath(p *Property[geom.Point], frame float64) (pos geom.Point, angle float64) {
	if p.Static || len(p.Keyframes) == 0 {
		return p.StaticValue, 0
	}
	kfs := p.Keyframes
	if frame <= kfs[0].StartFrame {
		return kfs[0].StartValue, 0
	}
	last := kfs[len(kfs)-1]
	if frame >= last.EndFrame {
		return last.EndValue, 0
	}
	for _, kf := range kfs {
		if frame < kf.StartFrame || frame >= kf.EndFrame {
			continue
		}
		if kf.Hold {
			return kf.StartValue, 0
		}
		span := kf.EndFrame - kf.StartFrame
		t := (frame - kf.StartFrame) / span
		if kf.Interp != nil {
			t = kf.Interp(t)
		}
		if !kf.PathKeyframe {
			return p.Lerp(kf.StartValue, kf.EndValue, t), 0
		}
		curve := geom.CubicBez{
			P0: kf.StartValue,
			P1: kf.StartValue.Add(kf.OutTangent),
			P2: kf.EndValue.Add(kf.InTangent),
			P3: kf.EndValue,
		}
		// Map the arc-length fraction t to the curve parameter u.
		u := t
		var lens [33]float64
		for i := 1; i <= 32; i++ {
			lens[i] = lens[i-1] + curve.Eval(float64(i-1)/32).Distance(curve.Eval(float64(i)/32))
		}
		for i := 1; i <= 32 && lens[32] > 0; i++ {
			if target := t * lens[32]; lens[i] >= target {
				u = float64(i) / 32
				if seg := lens[i] - lens[i-1]; seg > 0 {
					u = (float64(i-1) + (target-lens[i-1])/seg) / 32
				}
				break
			}
		}
		pos := curve.Eval(u)
		tan := curve.Tangent(u)
		return pos, tan.Angle()
	}
	return last.EndValue, 0
}
