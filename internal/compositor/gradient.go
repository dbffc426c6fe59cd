package compositor

import (
	"math"
	"sort"

	"github.com/dalerank/imlottie-sub000/internal/geom"
)

// gradientTableSize is the resolution of the precomputed color ramp. Lookups
// snap a continuous t in [0,1] to the nearest of these entries rather than
// re-interpolating color stops per pixel.
const gradientTableSize = 1024

// ExtendMode controls how a gradient's t parameter is normalized once it
// falls outside [0, 1].
type ExtendMode int

const (
	ExtendPad ExtendMode = iota
	ExtendRepeat
	ExtendReflect
)

// ColorStop is a single control point in a gradient ramp.
type ColorStop struct {
	Offset float64
	Color  geom.RGBA
}

// GradientTable is a precomputed, premultiplied 1024-entry color ramp built
// once from a stop list and then sampled by index for every pixel a
// gradient fill touches, avoiding repeated stop search/interpolation.
type GradientTable struct {
	entries [gradientTableSize]geom.RGBA
	extend  ExtendMode
}

// NewGradientTable builds a lookup table from stops, pre-multiplying and
// linearly interpolating between neighboring stops at table resolution.
func NewGradientTable(stops []ColorStop, extend ExtendMode) *GradientTable {
	t := &GradientTable{extend: extend}
	sorted := sortStops(stops)
	for i := range t.entries {
		u := float64(i) / float64(gradientTableSize-1)
		t.entries[i] = colorAtOffset(sorted, u).Premultiply()
	}
	return t
}

func sortStops(stops []ColorStop) []ColorStop {
	if len(stops) == 0 {
		return stops
	}
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	return sorted
}

func colorAtOffset(sorted []ColorStop, t float64) geom.RGBA {
	if len(sorted) == 0 {
		return geom.RGBA{}
	}
	if len(sorted) == 1 {
		return sorted[0].Color
	}
	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i].Offset >= t })
	if idx == 0 {
		return sorted[0].Color
	}
	if idx >= len(sorted) {
		return sorted[len(sorted)-1].Color
	}
	a, b := sorted[idx-1], sorted[idx]
	if b.Offset == a.Offset {
		return a.Color
	}
	local := (t - a.Offset) / (b.Offset - a.Offset)
	return a.Color.Lerp(b.Color, local)
}

// normalize maps an arbitrary t according to the table's extend mode, then
// returns the corresponding table index, computed in floating point. The
// 8.8 fixed-point scanline stepping lives in LinearScanAccum.
func (t *GradientTable) normalize(u float64) int {
	switch t.extend {
	case ExtendRepeat:
		u -= math.Floor(u)
		if u < 0 {
			u++
		}
	case ExtendReflect:
		u = math.Abs(u)
		period := math.Floor(u)
		u -= period
		if int(period)%2 == 1 {
			u = 1 - u
		}
	default:
		if u < 0 {
			u = 0
		}
		if u > 1 {
			u = 1
		}
	}
	idx := int(u*float64(gradientTableSize-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= gradientTableSize {
		idx = gradientTableSize - 1
	}
	return idx
}

// At returns the premultiplied color at parameter u (not necessarily in
// [0, 1]; the table's extend mode normalizes it).
func (t *GradientTable) At(u float64) geom.RGBA {
	return t.entries[t.normalize(u)]
}

// LinearScanAccum is an 8.8 fixed-point accumulator for sampling a linear
// gradient table along a scanline: the parameter t advances by a constant
// per-pixel step, so the hot loop only does an integer add instead of a
// dot-product per pixel.
type LinearScanAccum struct {
	table *GradientTable
	accum int32 // 8.8 fixed point
	step  int32 // 8.8 fixed point, per-pixel delta
}

// NewLinearScanAccum starts an accumulator at parameter t0 and advances by
// dtdx per pixel, both in gradient-parameter units (t=0 at stop 0, t=1 at
// stop 1, extended per the table's mode beyond that range).
func NewLinearScanAccum(table *GradientTable, t0, dtdx float64) *LinearScanAccum {
	return &LinearScanAccum{
		table: table,
		accum: floatToFixed88(t0),
		step:  floatToFixed88(dtdx),
	}
}

// Next returns the color for the current position and advances by one pixel.
func (a *LinearScanAccum) Next() geom.RGBA {
	c := a.table.At(fixed88ToFloat(a.accum))
	a.accum += a.step
	return c
}

func floatToFixed88(v float64) int32 {
	return int32(math.Round(v * 256))
}

func fixed88ToFloat(v int32) float64 {
	return float64(v) / 256
}

// LinearGradient evaluates a gradient between two points in user space,
// grounded on the vello/peniko-style linear brush the teacher's gradient
// package modeled: t is the projection of a point onto the Start->End line.
type LinearGradient struct {
	Start, End geom.Point
	Table      *GradientTable
}

// NewLinearGradient builds a linear gradient from stops between two points.
func NewLinearGradient(start, end geom.Point, stops []ColorStop, extend ExtendMode) *LinearGradient {
	return &LinearGradient{Start: start, End: end, Table: NewGradientTable(stops, extend)}
}

// ColorAt returns the premultiplied color at a user-space point.
func (g *LinearGradient) ColorAt(p geom.Point) geom.RGBA {
	dx := g.End.X - g.Start.X
	dy := g.End.Y - g.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return g.Table.At(0)
	}
	t := ((p.X-g.Start.X)*dx + (p.Y-g.Start.Y)*dy) / lenSq
	return g.Table.At(t)
}

// ScanAccum returns an accumulator for sampling this gradient along the
// scanline y from x0 to x0+1, x0+2, ... (caller advances pixel by pixel).
func (g *LinearGradient) ScanAccum(x0 float64, y float64) *LinearScanAccum {
	dx := g.End.X - g.Start.X
	dy := g.End.Y - g.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return NewLinearScanAccum(g.Table, 0, 0)
	}
	t0 := ((x0-g.Start.X)*dx + (y-g.Start.Y)*dy) / lenSq
	dtdx := dx / lenSq
	return NewLinearScanAccum(g.Table, t0, dtdx)
}

// RadialGradient is a focal-point radial brush: colors radiate from Focus
// outward to a circle of EndRadius centered at Center, matching Lottie's
// gradient fill type 2 (gf) ramp with an optional highlight offset.
//
// computeT solves the same quadratic the teacher's radial gradient brush
// does for the general focus != center case: a point P's ray from Focus
// intersects the Center/EndRadius circle at parameter t along
// Focus->P, and the gradient parameter is the ratio of |Focus->P| to that
// intersection distance.
type RadialGradient struct {
	Center, Focus        geom.Point
	StartRadius, EndRadius float64
	Table                *GradientTable
}

// NewRadialGradient builds a radial gradient. Focus defaults to Center for
// a concentric gradient; set it elsewhere for a Lottie highlight offset.
func NewRadialGradient(center, focus geom.Point, startRadius, endRadius float64, stops []ColorStop, extend ExtendMode) *RadialGradient {
	return &RadialGradient{
		Center: center, Focus: focus,
		StartRadius: startRadius, EndRadius: endRadius,
		Table: NewGradientTable(stops, extend),
	}
}

// ColorAt returns the premultiplied color at a user-space point.
func (g *RadialGradient) ColorAt(p geom.Point) geom.RGBA {
	return g.Table.At(g.computeT(p))
}

func (g *RadialGradient) computeT(p geom.Point) float64 {
	if g.Focus == g.Center {
		dx := p.X - g.Center.X
		dy := p.Y - g.Center.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		diff := g.EndRadius - g.StartRadius
		if diff == 0 {
			return 0
		}
		return (dist - g.StartRadius) / diff
	}
	return g.computeTFocal(p)
}

func (g *RadialGradient) computeTFocal(p geom.Point) float64 {
	dx := p.X - g.Focus.X
	dy := p.Y - g.Focus.Y
	fx := g.Center.X - g.Focus.X
	fy := g.Center.Y - g.Focus.Y

	a := dx*dx + dy*dy
	b := -2 * (dx*fx + dy*fy)
	c := fx*fx + fy*fy - g.EndRadius*g.EndRadius

	if a == 0 {
		return 0
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 1
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2 * a)
	t2 := (-b + sqrtD) / (2 * a)

	var t float64
	switch {
	case t1 > 0 && t2 > 0:
		t = math.Min(t1, t2)
	case t1 > 0:
		t = t1
	case t2 > 0:
		t = t2
	default:
		return 0
	}

	pointDist := math.Sqrt(a)
	intersectDist := t * pointDist
	if intersectDist == 0 {
		return 0
	}
	return pointDist / intersectDist
}
