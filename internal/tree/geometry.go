package tree

import (
	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/model"
)

// buildGeometry evaluates a leaf geometry shape (rect/ellipse/path/
// polystar) at frameNo into a local-space path, in the order Lottie's "s"
// (size) and "p" (position) properties combine with each kind.
func buildGeometry(s *model.Shape, frameNo float64) *geom.Path {
	p := geom.NewPath()
	switch s.Kind {
	case model.ShapeRect:
		pos := s.RectPosition.Eval(frameNo)
		size := s.RectSize.Eval(frameNo)
		r := s.RectRoundness.Eval(frameNo)
		p.RoundRect(pos.X-size.X/2, pos.Y-size.Y/2, size.X, size.Y, r)
	case model.ShapeEllipse:
		pos := s.EllipsePosition.Eval(frameNo)
		size := s.EllipseSize.Eval(frameNo)
		p.Ellipse(pos.X, pos.Y, size.X/2, size.Y/2)
	case model.ShapePath:
		v := s.PathValue.Eval(frameNo)
		return &v
	case model.ShapePolystar:
		p.Polystar(geom.PolystarSpec{
			IsStar:         s.PolyKind == model.PolystarStar,
			Points:         s.PolyPoints.Eval(frameNo),
			Center:         s.PolyPosition.Eval(frameNo),
			Rotation:       s.PolyRotation.Eval(frameNo),
			OuterRadius:    s.PolyOuterRadius.Eval(frameNo),
			InnerRadius:    s.PolyInnerRadius.Eval(frameNo),
			OuterRoundness: s.PolyOuterRoundness.Eval(frameNo),
			InnerRoundness: s.PolyInnerRoundness.Eval(frameNo),
		})
	}
	return p
}
