package tree

import (
	"math"

	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/model"
	"github.com/dalerank/imlottie-sub000/internal/raster"
	"github.com/dalerank/imlottie-sub000/internal/stroke"
)

// flattenTolerance bounds the maximum deviation, in canvas pixels, between
// a bezier curve and the polyline the rasterizer and trim/dash operators
// approximate it with.
const flattenTolerance = 0.25

// pathToEdges flattens p and closes every subpath into a raster.PathEdge
// list, the form raster.FillEdges wants. Fill geometry is always treated
// as closed, even if a path's final subpath omits an explicit close verb.
func pathToEdges(p *geom.Path) []raster.PathEdge {
	var edges []raster.PathEdge
	for _, sub := range p.Flatten(flattenTolerance) {
		if len(sub) < 2 {
			continue
		}
		for i := 0; i < len(sub)-1; i++ {
			edges = append(edges, raster.PathEdge{P0: toRasterPoint(sub[i]), P1: toRasterPoint(sub[i+1])})
		}
		first, last := sub[0], sub[len(sub)-1]
		if first != last {
			edges = append(edges, raster.PathEdge{P0: toRasterPoint(last), P1: toRasterPoint(first)})
		}
	}
	return edges
}

// fillPathsSpans rasterizes the union (non-zero winding) of paths into a
// span list, the shared fill path every paint/mask operator goes through.
func fillPathsSpans(paths []*geom.Path, clip raster.ClipRect, w, h int) []raster.Span {
	var edges []raster.PathEdge
	for _, p := range paths {
		edges = append(edges, pathToEdges(p)...)
	}
	if len(edges) == 0 {
		return nil
	}
	return raster.FillEdges(edges, raster.FillRuleNonZero, clip, w, h)
}

func toRasterPoint(p geom.Point) raster.Point { return raster.Point{X: p.X, Y: p.Y} }

func toStrokePoint(p geom.Point) stroke.Point { return stroke.Point{X: p.X, Y: p.Y} }

// pathToStrokeElements converts a geom.Path directly into stroke.PathElement
// verbs (curves left intact; StrokeExpander flattens them itself), unlike
// pathToEdges which flattens up front for filling.
func pathToStrokeElements(p *geom.Path) []stroke.PathElement {
	out := make([]stroke.PathElement, 0, len(p.Elements))
	for _, e := range p.Elements {
		switch v := e.(type) {
		case geom.MoveToElem:
			out = append(out, stroke.MoveTo{Point: toStrokePoint(v.Point)})
		case geom.LineToElem:
			out = append(out, stroke.LineTo{Point: toStrokePoint(v.Point)})
		case geom.CubicToElem:
			out = append(out, stroke.CubicTo{
				Control1: toStrokePoint(v.Control1),
				Control2: toStrokePoint(v.Control2),
				Point:    toStrokePoint(v.Point),
			})
		case geom.CloseElem:
			out = append(out, stroke.Close{})
		}
	}
	return out
}

// mapLineCap/mapLineJoin translate the scene model's Lottie-numbered cap/
// join enums (1-based, matching "lc"/"lj") into the stroke package's own
// 0-based ones.
func mapLineCap(c model.LineCap) stroke.LineCap {
	switch c {
	case model.CapRound:
		return stroke.LineCapRound
	case model.CapSquare:
		return stroke.LineCapSquare
	default:
		return stroke.LineCapButt
	}
}

func mapLineJoin(j model.LineJoin) stroke.LineJoin {
	switch j {
	case model.JoinRound:
		return stroke.LineJoinRound
	case model.JoinBevel:
		return stroke.LineJoinBevel
	default:
		return stroke.LineJoinMiter
	}
}

// matrixScaleFactor approximates the uniform scale a matrix applies, used
// to size a stroke width that was specified in the shape's local space but
// is stroked after its geometry has already been transformed into canvas
// space.
func matrixScaleFactor(m geom.Matrix) float64 {
	det := math.Abs(m.Determinant())
	if det <= 0 {
		return 1
	}
	return math.Sqrt(det)
}
