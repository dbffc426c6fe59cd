package geom

import "math"

// PathElement is a single verb in a path's command stream.
type PathElement interface {
	isPathElement()
}

// MoveToElem starts a new subpath at Point.
type MoveToElem struct{ Point Point }

func (MoveToElem) isPathElement() {}

// LineToElem draws a straight line to Point.
type LineToElem struct{ Point Point }

func (LineToElem) isPathElement() {}

// CubicToElem draws a cubic bezier through the two control points to Point.
type CubicToElem struct {
	Control1, Control2, Point Point
}

func (CubicToElem) isPathElement() {}

// CloseElem closes the current subpath back to its start point.
type CloseElem struct{}

func (CloseElem) isPathElement() {}

// Path is an ordered list of path elements: one or more subpaths, each an
// optional MoveTo followed by LineTo/CubicTo verbs and an optional Close.
// Lottie shape paths are always cubic (vertices + in/out tangents), so Path
// carries no quadratic verb.
type Path struct {
	Elements []PathElement
	start    Point
	current  Point
	empty    bool
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{Elements: make([]PathElement, 0, 8), empty: true}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Point{x, y}
	p.Elements = append(p.Elements, MoveToElem{pt})
	p.start, p.current = pt, pt
	p.empty = false
}

// LineTo draws a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Point{x, y}
	p.Elements = append(p.Elements, LineToElem{pt})
	p.current = pt
}

// CubicTo draws a cubic bezier from the current point to (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Point{x, y}
	p.Elements = append(p.Elements, CubicToElem{Point{c1x, c1y}, Point{c2x, c2y}, pt})
	p.current = pt
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Elements = append(p.Elements, CloseElem{})
	p.current = p.start
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool { return p.empty }

// Transform returns a copy of p with every point transformed by m.
func (p *Path) Transform(m Matrix) *Path {
	out := NewPath()
	out.empty = p.empty
	out.Elements = make([]PathElement, len(p.Elements))
	for i, e := range p.Elements {
		switch v := e.(type) {
		case MoveToElem:
			out.Elements[i] = MoveToElem{m.Apply(v.Point)}
		case LineToElem:
			out.Elements[i] = LineToElem{m.Apply(v.Point)}
		case CubicToElem:
			out.Elements[i] = CubicToElem{m.Apply(v.Control1), m.Apply(v.Control2), m.Apply(v.Point)}
		case CloseElem:
			out.Elements[i] = v
		}
	}
	return out
}

// Flatten returns a polyline (one []Point per subpath) approximation of p,
// accurate to tolerance. Used by the rasterizer to build edge lists.
func (p *Path) Flatten(tolerance float64) [][]Point {
	var subpaths [][]Point
	var cur []Point
	var start, last Point
	flushClosed := false
	flush := func() {
		if len(cur) > 1 {
			if flushClosed {
				cur = append(cur, start)
			}
			subpaths = append(subpaths, cur)
		}
		cur = nil
		flushClosed = false
	}
	for _, e := range p.Elements {
		switch v := e.(type) {
		case MoveToElem:
			flush()
			cur = []Point{v.Point}
			start, last = v.Point, v.Point
		case LineToElem:
			cur = append(cur, v.Point)
			last = v.Point
		case CubicToElem:
			cb := CubicBez{last, v.Control1, v.Control2, v.Point}
			cur = FlattenCubic(cb, tolerance, cur)
			last = v.Point
		case CloseElem:
			flushClosed = true
			last = start
		}
	}
	flush()
	return subpaths
}

// Rect appends an axis-aligned rectangle subpath.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// RoundRect appends a rounded-rectangle subpath with corner radius r.
func (p *Path) RoundRect(x, y, w, h, r float64) {
	if r <= 0 {
		p.Rect(x, y, w, h)
		return
	}
	maxR := math.Min(w, h) / 2
	if r > maxR {
		r = maxR
	}
	k := CubicKappa * r
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.Close()
}

// Ellipse appends an ellipse subpath centered at (cx, cy).
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	kx := CubicKappa * rx
	ky := CubicKappa * ry
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// PolystarSpec describes a Lottie polystar/polygon shape (the "sr" property).
type PolystarSpec struct {
	IsStar        bool // true=star (sy=1), false=polygon (sy=2)
	Points        float64
	Center        Point
	Rotation      float64 // degrees
	OuterRadius   float64
	InnerRadius   float64 // star only
	OuterRoundness float64 // percent
	InnerRoundness float64 // percent, star only
}

// Polystar appends a star or polygon subpath built from spec, applying
// corner rounding the way imlottie's VPath::addPolystar does: each vertex is
// replaced by a short cubic arc scaled by PolystarInnerKappa.
func (p *Path) Polystar(spec PolystarSpec) {
	if spec.IsStar {
		appendStar(p, spec)
	} else {
		appendPolygon(p, spec)
	}
}

func appendPolygon(p *Path, spec PolystarSpec) {
	n := int(spec.Points)
	if n < 3 {
		n = 3
	}
	anglePerPoint := 2 * math.Pi / float64(n)
	rot := spec.Rotation * math.Pi / 180
	roundness := spec.OuterRoundness / 100

	vertex := func(i int) Point {
		a := rot + float64(i)*anglePerPoint - math.Pi/2
		return Point{spec.Center.X + spec.OuterRadius*math.Cos(a), spec.Center.Y + spec.OuterRadius*math.Sin(a)}
	}
	tangent := func(i int) Vec2 {
		a := rot + float64(i)*anglePerPoint - math.Pi/2
		return Vec2{-math.Sin(a), math.Cos(a)}
	}

	first := vertex(0)
	p.MoveTo(first.X, first.Y)
	for i := 1; i <= n; i++ {
		idx := i % n
		prev := vertex(i - 1)
		cur := vertex(idx)
		if roundness == 0 {
			p.LineTo(cur.X, cur.Y)
			continue
		}
		segLen := spec.OuterRadius * anglePerPoint * roundness * PolystarInnerKappa / 2
		t0 := tangent(i - 1)
		t1 := tangent(idx)
		c1 := prev.Add(t0.Scale(segLen))
		c2 := cur.Add(t1.Scale(-segLen))
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, cur.X, cur.Y)
	}
	p.Close()
}

func appendStar(p *Path, spec PolystarSpec) {
	n := int(spec.Points)
	if n < 2 {
		n = 2
	}
	rot := spec.Rotation * math.Pi / 180
	anglePerPoint := math.Pi / float64(n)
	outerRound := spec.OuterRoundness / 100
	innerRound := spec.InnerRoundness / 100

	vertex := func(i int) (Point, Vec2) {
		a := rot + float64(i)*anglePerPoint - math.Pi/2
		r := spec.OuterRadius
		if i%2 == 1 {
			r = spec.InnerRadius
		}
		pt := Point{spec.Center.X + r*math.Cos(a), spec.Center.Y + r*math.Sin(a)}
		tan := Vec2{-math.Sin(a), math.Cos(a)}
		return pt, tan
	}

	first, _ := vertex(0)
	p.MoveTo(first.X, first.Y)
	total := n * 2
	for i := 1; i <= total; i++ {
		idx := i % total
		prev, prevTan := vertex(i - 1)
		cur, curTan := vertex(idx)
		round := outerRound
		if (i - 1) % 2 == 1 {
			round = innerRound
		}
		if round == 0 {
			p.LineTo(cur.X, cur.Y)
			continue
		}
		r := spec.OuterRadius
		if (i-1)%2 == 1 {
			r = spec.InnerRadius
		}
		segLen := r * anglePerPoint * round * PolystarInnerKappa / 2
		c1 := prev.Add(prevTan.Scale(segLen))
		c2 := cur.Add(curTan.Scale(-segLen))
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, cur.X, cur.Y)
	}
	p.Close()
}
