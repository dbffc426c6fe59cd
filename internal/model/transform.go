package model

import (
	"math"

	"github.com/dalerank/imlottie-sub000/internal/geom"
)

// Transform is a layer or group's animatable transform (Lottie "ks"). 3D
// layers ("ddd":1, rx/ry present) are approximated the way geom.Transform3D
// does: rx/ry become a cosine foreshortening scale on the cross axis rather
// than a true perspective divide, so the result still composes into a
// single 2x3 geom.Matrix instead of carrying a parallel 3D matrix path
// end to end.
type Transform struct {
	Anchor   Property[geom.Point]
	Position Property[geom.Point]
	Scale    Property[geom.Point] // percent, e.g. {100,100} = identity
	Rotation Property[float64]    // degrees, "r" or "rz"
	RotationX Property[float64]   // degrees, 3D layers only
	RotationY Property[float64]   // degrees, 3D layers only
	Opacity  Property[float64]    // 0..100
	SkewAngle Property[float64]   // degrees, 0 if unset
	SkewAxis  Property[float64]   // degrees, 0 if unset

	AutoOrient bool
}

// NewIdentityTransform returns a non-animated identity transform.
func NewIdentityTransform() *Transform {
	return &Transform{
		Anchor:   NewStaticProperty(geom.Point{}),
		Position: NewStaticProperty(geom.Point{}),
		Scale:    NewStaticProperty(geom.Point{X: 100, Y: 100}),
		Rotation:  NewStaticProperty(0.0),
		RotationX: NewStaticProperty(0.0),
		RotationY: NewStaticProperty(0.0),
		Opacity:   NewStaticProperty(100.0),
	}
}

// Matrix evaluates the transform's local affine matrix at frame, applying
// anchor, scale, skew, and rotation about the anchor then translating to
// position. When AutoOrient is set the rotation is replaced by the
// position path's tangent angle (spec: auto-orient layers face their
// motion direction).
func (t *Transform) Matrix(frame float64) geom.Matrix {
	anchor := t.Anchor.Eval(frame)
	scale := t.Scale.Eval(frame)
	rotation := t.Rotation.Eval(frame)

	var pos geom.Point
	if t.AutoOrient {
		var angle float64
		pos, angle = EvalPath(&t.Position, frame)
		rotation = angle * 180 / math.Pi
	} else {
		pos = t.Position.Eval(frame)
	}

	m := geom.Translate(-anchor.X, -anchor.Y)
	m = geom.Scale(scale.X/100, scale.Y/100).Mul(m)
	if skewAngle := t.SkewAngle.Eval(frame); skewAngle != 0 {
		skewAxis := t.SkewAxis.Eval(frame) * math.Pi / 180
		m = skewMatrixAtAxis(skewAngle*math.Pi/180, skewAxis).Mul(m)
	}
	m = geom.Rotate(rotation * math.Pi / 180).Mul(m)
	if rx := t.RotationX.Eval(frame); rx != 0 {
		m = geom.Scale(1, math.Cos(rx*math.Pi/180)).Mul(m)
	}
	if ry := t.RotationY.Eval(frame); ry != 0 {
		m = geom.Scale(math.Cos(ry*math.Pi/180), 1).Mul(m)
	}
	m = geom.Translate(pos.X, pos.Y).Mul(m)
	return m
}

// EffectiveOpacity evaluates the transform's own opacity fraction (0..1)
// at frame, independent of ancestor opacity.
func (t *Transform) EffectiveOpacity(frame float64) float64 {
	return t.Opacity.Eval(frame) / 100
}

// skewMatrixAtAxis builds a skew transform along an arbitrary axis angle,
// by rotating into axis space, skewing on x, and rotating back.
func skewMatrixAtAxis(angle, axis float64) geom.Matrix {
	toAxis := geom.Rotate(-axis)
	fromAxis := geom.Rotate(axis)
	skew := geom.Skew(angle, 0)
	return fromAxis.Mul(skew.Mul(toAxis))
}
