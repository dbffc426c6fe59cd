package tree

import (
	"math"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/blend"
	"github.com/dalerank/imlottie-sub000/internal/compositor"
	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/model"
	"github.com/dalerank/imlottie-sub000/internal/raster"
	"github.com/dalerank/imlottie-sub000/internal/stroke"
)

// renderShapeContent walks one group's Children in paint order, maintaining
// an accumulator of canvas-space geometry: geometry items push onto it,
// Trim mutates it, and paint operators consume (without clearing) whatever
// has accumulated so far in the same group — "a fill/stroke paints every
// shape that textually precedes it in its group".
func (t *Tree) renderShapeContent(dst *compositor.Surface, children []arena.Index, frameNo float64, parentMatrix geom.Matrix, parentAlpha float64, clip raster.ClipRect) {
	var acc []*geom.Path
	for _, idx := range children {
		shape := t.doc.Shape(idx)
		if shape.Hidden {
			continue
		}
		switch shape.Kind {
		case model.ShapeGroup:
			t.renderGroup(dst, shape, frameNo, parentMatrix, parentAlpha, clip)
		case model.ShapeRect, model.ShapeEllipse, model.ShapePath, model.ShapePolystar:
			local := buildGeometry(shape, frameNo)
			acc = append(acc, local.Transform(parentMatrix))
		case model.ShapeTrim:
			acc = applyTrim(shape, acc, frameNo)
		case model.ShapeFill:
			t.paintFill(dst, shape, acc, frameNo, parentAlpha, clip)
		case model.ShapeGradientFill:
			t.paintGradientFill(dst, shape, acc, frameNo, parentMatrix, parentAlpha, clip)
		case model.ShapeStroke:
			t.paintStroke(dst, shape, acc, frameNo, parentMatrix, parentAlpha, clip)
		case model.ShapeGradientStroke:
			t.paintGradientStroke(dst, shape, acc, frameNo, parentMatrix, parentAlpha, clip)
		}
	}
}

// renderGroup recurses into a shape group. Synthetic repeater-copy groups
// (IsRepeaterCopy, produced by model.Document.ExpandRepeaters) are live
// only while their CopyIndex is below the repeater's current copy count,
// get an opacity lerped between the repeater's start/end opacity by copy
// index, and an incremental transform built by composing the repeater's
// per-copy transform with itself CopyIndex times.
func (t *Tree) renderGroup(dst *compositor.Surface, shape *model.Shape, frameNo float64, parentMatrix geom.Matrix, parentAlpha float64, clip raster.ClipRect) {
	if shape.IsRepeaterCopy {
		source := t.doc.Shape(shape.RepeaterSource)
		copies := int(math.Round(source.RepeaterCopies.Eval(frameNo)))
		if shape.CopyIndex >= copies {
			return
		}
		startOp := source.RepeaterStartOpacity.Eval(frameNo) / 100
		endOp := source.RepeaterEndOpacity.Eval(frameNo) / 100
		frac := 0.0
		if copies > 1 {
			frac = float64(shape.CopyIndex) / float64(copies-1)
		}
		copyAlpha := startOp + (endOp-startOp)*frac

		step := source.RepeaterTransform.Matrix(frameNo)
		m := parentMatrix
		for i := 0; i < shape.CopyIndex; i++ {
			m = m.Mul(step)
		}
		t.renderShapeContent(dst, shape.Children, frameNo, m, parentAlpha*copyAlpha, clip)
		return
	}

	m := parentMatrix.Mul(shape.Transform.Matrix(frameNo))
	alpha := parentAlpha * shape.Transform.EffectiveOpacity(frameNo)
	t.renderShapeContent(dst, shape.Children, frameNo, m, alpha, clip)
}

func (t *Tree) paintFill(dst *compositor.Surface, shape *model.Shape, acc []*geom.Path, frameNo float64, parentAlpha float64, clip raster.ClipRect) {
	if len(acc) == 0 {
		return
	}
	color := shape.Color.Eval(frameNo)
	opacity := shape.Opacity.Eval(frameNo) * parentAlpha
	spans := fillPathsSpans(acc, clip, dst.Width(), dst.Height())
	compositor.PaintSpans(dst, spans, compositor.NewSolidBrush(color), blend.BlendSourceOver, opacity)
}

func (t *Tree) paintGradientFill(dst *compositor.Surface, shape *model.Shape, acc []*geom.Path, frameNo float64, parentMatrix geom.Matrix, parentAlpha float64, clip raster.ClipRect) {
	if len(acc) == 0 {
		return
	}
	opacity := shape.Opacity.Eval(frameNo) * parentAlpha
	brush := buildGradientBrush(shape, frameNo, parentMatrix)
	spans := fillPathsSpans(acc, clip, dst.Width(), dst.Height())
	compositor.PaintSpans(dst, spans, brush, blend.BlendSourceOver, opacity)
}

func (t *Tree) paintStroke(dst *compositor.Surface, shape *model.Shape, acc []*geom.Path, frameNo float64, parentMatrix geom.Matrix, parentAlpha float64, clip raster.ClipRect) {
	if len(acc) == 0 {
		return
	}
	color := shape.Color.Eval(frameNo)
	opacity := shape.Opacity.Eval(frameNo) * parentAlpha
	style := strokeStyle(shape, frameNo, parentMatrix)
	spans := strokeAccSpans(shape, acc, frameNo, style, clip, dst.Width(), dst.Height())
	compositor.PaintSpans(dst, spans, compositor.NewSolidBrush(color), blend.BlendSourceOver, opacity)
}

func (t *Tree) paintGradientStroke(dst *compositor.Surface, shape *model.Shape, acc []*geom.Path, frameNo float64, parentMatrix geom.Matrix, parentAlpha float64, clip raster.ClipRect) {
	if len(acc) == 0 {
		return
	}
	opacity := shape.Opacity.Eval(frameNo) * parentAlpha
	brush := buildGradientBrush(shape, frameNo, parentMatrix)
	style := strokeStyle(shape, frameNo, parentMatrix)
	spans := strokeAccSpans(shape, acc, frameNo, style, clip, dst.Width(), dst.Height())
	compositor.PaintSpans(dst, spans, brush, blend.BlendSourceOver, opacity)
}

func strokeStyle(shape *model.Shape, frameNo float64, parentMatrix geom.Matrix) stroke.Stroke {
	width := shape.StrokeWidth.Eval(frameNo) * matrixScaleFactor(parentMatrix)
	miter := shape.MiterLimit
	if miter <= 0 {
		miter = 4
	}
	return stroke.Stroke{
		Width:      width,
		Cap:        mapLineCap(shape.LineCap),
		Join:       mapLineJoin(shape.LineJoin),
		MiterLimit: miter,
	}
}

func strokeAccSpans(shape *model.Shape, acc []*geom.Path, frameNo float64, style stroke.Stroke, clip raster.ClipRect, w, h int) []raster.Span {
	var spans []raster.Span
	for _, p := range acc {
		dashed := applyDash(shape, p, frameNo)
		elements := pathToStrokeElements(dashed)
		spans = append(spans, raster.StrokeEdges(elements, style, clip, w, h)...)
	}
	return spans
}

func applyDash(shape *model.Shape, p *geom.Path, frameNo float64) *geom.Path {
	if len(shape.DashPattern) == 0 {
		return p
	}
	lengths := make([]float64, len(shape.DashPattern))
	for i, seg := range shape.DashPattern {
		lengths[i] = seg.Length.Eval(frameNo)
	}
	dash := geom.NewDash(lengths, 0)
	if dash == nil {
		return p
	}
	return dash.Apply(p, flattenTolerance)
}

// buildGradientStops converts a shape's flat [offset,r,g,b]*GradientStopCount
// array into compositor color stops. Lottie gradients may append a second,
// separately-counted run of alpha-only stops after the color stops; those
// are not modeled here (spec's gradient simplification) — every stop is
// treated as fully opaque.
func buildGradientStops(shape *model.Shape, frameNo float64) []compositor.ColorStop {
	flat := shape.GradientStops.Eval(frameNo)
	stops := make([]compositor.ColorStop, 0, shape.GradientStopCount)
	for i := 0; i < shape.GradientStopCount; i++ {
		base := i * 4
		if base+3 >= len(flat) {
			break
		}
		stops = append(stops, compositor.ColorStop{
			Offset: flat[base],
			Color:  geom.RGBA{R: flat[base+1], G: flat[base+2], B: flat[base+3], A: 1},
		})
	}
	return stops
}

// buildGradientBrush builds a linear or radial gradient brush from a
// gradient fill/stroke shape, transforming its start/end control points by
// parentMatrix since the accumulated geometry it paints has already been
// transformed into canvas space by the same matrix. The highlight
// offset/angle Lottie radial gradients support ("h"/"a") is not modeled;
// the focus point always coincides with the center.
func buildGradientBrush(shape *model.Shape, frameNo float64, parentMatrix geom.Matrix) compositor.Brush {
	stops := buildGradientStops(shape, frameNo)
	start := parentMatrix.Apply(shape.GradientStart.Eval(frameNo))
	end := parentMatrix.Apply(shape.GradientEnd.Eval(frameNo))
	if shape.GradientKind == model.GradientRadial {
		radius := start.Distance(end)
		return compositor.NewRadialGradient(start, start, 0, radius, stops, compositor.ExtendPad)
	}
	return compositor.NewLinearGradient(start, end, stops, compositor.ExtendPad)
}
