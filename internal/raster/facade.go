package raster

import "github.com/dalerank/imlottie-sub000/internal/stroke"

// Span is a single run of constant coverage on one scanline, the RLE
// contract the rasterizer hands to the compositor: {x, y, len, coverage}
// with coverage in [0, 255].
type Span struct {
	X, Y, Len int
	Coverage  uint8
}

// ClipRect bounds rasterization to a pixel-space rectangle (a layer's
// composition bounds, or the intersection of active masks).
type ClipRect struct {
	Left, Top, Right, Bottom int
}

// spanSink is an AAPixmapBatch that run-length-coalesces SuperBlitter's
// coverage writes into a []Span instead of touching real pixels. Width/
// Height/SetPixel exist only to satisfy the Pixmap interface; rasterization
// never reads pixel color data, only alpha.
type spanSink struct {
	w, h  int
	spans []Span
}

func newSpanSink(w, h int) *spanSink {
	return &spanSink{w: w, h: h}
}

func (s *spanSink) Width() int  { return s.w }
func (s *spanSink) Height() int { return s.h }

func (s *spanSink) SetPixel(int, int, RGBA) {}

func (s *spanSink) BlendPixelAlpha(x, y int, _ RGBA, alpha uint8) {
	if alpha == 0 {
		return
	}
	s.append(x, y, 1, alpha)
}

func (s *spanSink) BlendSpanAlpha(x, y, count int, _, _, _, _, alpha uint8) {
	if alpha == 0 || count <= 0 {
		return
	}
	s.append(x, y, count, alpha)
}

func (s *spanSink) append(x, y, length int, alpha uint8) {
	if n := len(s.spans); n > 0 {
		last := &s.spans[n-1]
		if last.Y == y && last.X+last.Len == x && last.Coverage == alpha {
			last.Len += length
			return
		}
	}
	s.spans = append(s.spans, Span{X: x, Y: y, Len: length, Coverage: alpha})
}

// FillEdges rasterizes a closed path (given as a flat edge list, one entry
// per path segment — consecutive subpaths are NOT auto-connected, callers
// must supply each subpath's own closing edge) with 4x-supersampled
// anti-aliasing and returns the coverage as a sorted list of spans clipped
// to clip, within a canvasWidth x canvasHeight canvas.
func FillEdges(edges []PathEdge, rule FillRule, clip ClipRect, canvasWidth, canvasHeight int) []Span {
	if len(edges) == 0 {
		return nil
	}
	sink := newSpanSink(canvasWidth, canvasHeight)
	r := NewRasterizer(canvasWidth, canvasHeight)
	r.fillAAClipped(sink, edges, rule, clip)
	return sink.spans
}

// fillAAClipped is FillAAFromEdges with an explicit clip rectangle instead
// of the full pixmap bounds, letting mask/matte evaluation rasterize only
// the region a layer can affect.
func (r *Rasterizer) fillAAClipped(pixmap AAPixmap, pathEdges []PathEdge, fillRule FillRule, clip ClipRect) {
	if len(pathEdges) < 2 {
		return
	}
	edges := make([]Edge, 0, len(pathEdges))
	for _, pe := range pathEdges {
		if pe.P0.Y == pe.P1.Y {
			continue
		}
		edges = append(edges, NewEdge(pe.P0, pe.P1))
	}
	if len(edges) == 0 {
		return
	}

	yMin, yMax := edgesYBounds(edges)
	yMinInt, yMaxInt := clampRange(int(yMin), int(yMax)+1, clip.Top, clip.Bottom)
	if yMinInt >= yMaxInt {
		return
	}

	sb := NewSuperBlitter(pixmap, RGBA{1, 1, 1, 1},
		clip.Left, yMinInt, clip.Right, yMaxInt,
		clip.Left, clip.Top, clip.Right, clip.Bottom)
	if sb == nil {
		return
	}

	superYMin := yMinInt << SupersampleShift
	superYMax := yMaxInt << SupersampleShift
	for superY := superYMin; superY < superYMax; superY++ {
		scanY := (float64(superY) + 0.5) / float64(SupersampleScale)
		r.scanlineAA(sb, edges, scanY, uint32(superY), fillRule) //nolint:gosec // bounded by canvas size
	}
	sb.Flush()
}

func edgesYBounds(edges []Edge) (yMin, yMax float64) {
	yMin, yMax = edges[0].y0, edges[0].y1
	for _, e := range edges[1:] {
		if e.y0 < yMin {
			yMin = e.y0
		}
		if e.y1 > yMax {
			yMax = e.y1
		}
	}
	return
}

func clampRange(lo, hi, min, max int) (int, int) {
	if lo < min {
		lo = min
	}
	if hi > max {
		hi = max
	}
	return lo, hi
}

// StrokeEdges expands a polyline/curve path into a fill outline per style
// (cap, join, width, miter limit), then rasterizes that outline exactly like
// FillEdges. Dashing, if any, must already have been applied to elements
// before calling this (the spec requires dashing to run before stroking).
func StrokeEdges(elements []stroke.PathElement, style stroke.Stroke, clip ClipRect, canvasWidth, canvasHeight int) []Span {
	expander := stroke.NewStrokeExpander(style)
	outline := expander.Expand(elements)
	edges := elementsToEdges(outline)
	return FillEdges(edges, FillRuleNonZero, clip, canvasWidth, canvasHeight)
}

// elementsToEdges flattens a stroke-expander output (line/cubic elements,
// already polygonal for caps/joins) into the PathEdge list FillEdges wants.
func elementsToEdges(elements []stroke.PathElement) []PathEdge {
	var edges []PathEdge
	var start, cur Point
	have := false
	for _, e := range elements {
		switch v := e.(type) {
		case stroke.MoveTo:
			if have {
				edges = append(edges, PathEdge{cur, start})
			}
			cur = Point{v.Point.X, v.Point.Y}
			start = cur
			have = true
		case stroke.LineTo:
			p := Point{v.Point.X, v.Point.Y}
			edges = append(edges, PathEdge{cur, p})
			cur = p
		case stroke.QuadTo:
			p := Point{v.Point.X, v.Point.Y}
			edges = append(edges, PathEdge{cur, p})
			cur = p
		case stroke.CubicTo:
			p := Point{v.Point.X, v.Point.Y}
			edges = append(edges, PathEdge{cur, p})
			cur = p
		case stroke.Close:
			edges = append(edges, PathEdge{cur, start})
			cur = start
		}
	}
	if have && cur != start {
		edges = append(edges, PathEdge{cur, start})
	}
	return edges
}
