package model

import "github.com/dalerank/imlottie-sub000/internal/arena"

// PropagateStatic computes the Static flag for every layer and its shape
// subtree (spec §4.2): a layer is static when its own transform, masks,
// and time remap carry no keyframes, and (recursively) every layer or
// shape beneath it is also static. The render tree uses this to skip
// re-evaluating a whole subtree on frames where nothing under it can
// have changed.
func (d *Document) PropagateStatic() {
	for _, idx := range d.Layers {
		d.computeLayerStatic(idx)
	}
}

func (d *Document) computeLayerStatic(idx arena.Index) bool {
	layer := d.Layer(idx)
	static := transformStatic(layer.Transform) && layer.TimeRemap == nil

	for i := range layer.Masks {
		static = static && layer.Masks[i].Path.IsStatic() && layer.Masks[i].Opacity.IsStatic()
	}

	switch layer.Kind {
	case LayerShape:
		for _, sIdx := range layer.Shapes {
			static = static && d.computeShapeStatic(sIdx)
		}
	case LayerPrecomp:
		for _, cIdx := range layer.PrecompLayers {
			static = static && d.computeLayerStatic(cIdx)
		}
	}

	layer.Static = static
	return static
}

func (d *Document) computeShapeStatic(idx arena.Index) bool {
	shape := d.Shape(idx)
	static := true

	switch shape.Kind {
	case ShapeGroup:
		static = transformStatic(shape.Transform)
		for _, cIdx := range shape.Children {
			static = static && d.computeShapeStatic(cIdx)
		}
	case ShapeRect:
		static = shape.RectPosition.IsStatic() && shape.RectSize.IsStatic() && shape.RectRoundness.IsStatic()
	case ShapeEllipse:
		static = shape.EllipsePosition.IsStatic() && shape.EllipseSize.IsStatic()
	case ShapePath:
		static = shape.PathValue.IsStatic()
	case ShapePolystar:
		static = shape.PolyPosition.IsStatic() && shape.PolyPoints.IsStatic() &&
			shape.PolyRotation.IsStatic() && shape.PolyInnerRadius.IsStatic() &&
			shape.PolyOuterRadius.IsStatic() && shape.PolyInnerRoundness.IsStatic() &&
			shape.PolyOuterRoundness.IsStatic()
	case ShapeFill, ShapeStroke:
		static = shape.Color.IsStatic() && shape.Opacity.IsStatic()
		if shape.Kind == ShapeStroke {
			static = static && shape.StrokeWidth.IsStatic()
		}
	case ShapeGradientFill, ShapeGradientStroke:
		static = shape.GradientStart.IsStatic() && shape.GradientEnd.IsStatic() &&
			shape.GradientStops.IsStatic() && shape.Opacity.IsStatic()
		if shape.Kind == ShapeGradientStroke {
			static = static && shape.StrokeWidth.IsStatic()
		}
	case ShapeTrim:
		static = shape.TrimStart.IsStatic() && shape.TrimEnd.IsStatic() && shape.TrimOffset.IsStatic()
	case ShapeRepeater:
		static = shape.RepeaterCopies.IsStatic() && shape.RepeaterOffset.IsStatic() &&
			shape.RepeaterStartOpacity.IsStatic() && shape.RepeaterEndOpacity.IsStatic() &&
			transformStatic(shape.RepeaterTransform)
	}

	shape.Static = static
	return static
}

func transformStatic(t *Transform) bool {
	if t == nil {
		return true
	}
	return t.Anchor.IsStatic() && t.Position.IsStatic() && t.Scale.IsStatic() &&
		t.Rotation.IsStatic() && t.RotationX.IsStatic() && t.RotationY.IsStatic() &&
		t.Opacity.IsStatic() &&
		t.SkewAngle.IsStatic() && t.SkewAxis.IsStatic() && !t.AutoOrient
}
