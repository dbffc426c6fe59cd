package compositor

import "github.com/dalerank/imlottie-sub000/internal/geom"

// Brush evaluates a premultiplied fill color at a user-space point, the
// shared interface solid colors, linear gradients, and radial gradients
// satisfy so the span compositor can treat every fill type uniformly.
type Brush interface {
	ColorAt(p geom.Point) geom.RGBA
}

// SolidBrush is a constant-color fill.
type SolidBrush struct {
	Color geom.RGBA // premultiplied
}

// NewSolidBrush returns a brush for a straight-alpha color, premultiplying
// it once up front.
func NewSolidBrush(c geom.RGBA) SolidBrush {
	return SolidBrush{Color: c.Premultiply()}
}

func (b SolidBrush) ColorAt(geom.Point) geom.RGBA { return b.Color }

var (
	_ Brush = SolidBrush{}
	_ Brush = (*LinearGradient)(nil)
	_ Brush = (*RadialGradient)(nil)
)
