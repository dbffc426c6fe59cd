package model

import (
	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/geom"
)

// ShapeKind tags the variant a Shape node holds, mirroring Lottie's shape
// item "ty" field.
type ShapeKind int

const (
	ShapeGroup ShapeKind = iota
	ShapeRect
	ShapeEllipse
	ShapePath // raw bezier ("sh")
	ShapePolystar
	ShapeFill
	ShapeGradientFill
	ShapeStroke
	ShapeGradientStroke
	ShapeTrim
	ShapeRepeater
)

// PolystarKind distinguishes a star from a polygon ("sy": 1 star, 2 polygon).
type PolystarKind int

const (
	PolystarStar PolystarKind = iota + 1
	PolystarPolygon
)

// TrimMode selects how a Trim applies when several shapes precede it in a
// group (spec supplemented feature): Simultaneous trims each subpath
// independently using the same fraction, Individual distributes the
// fraction across subpaths in sequence.
type TrimMode int

const (
	TrimSimultaneous TrimMode = iota
	TrimIndividual
)

// GradientKind distinguishes linear ("t":1) from radial ("t":2) fills and
// strokes.
type GradientKind int

const (
	GradientLinear GradientKind = iota + 1
	GradientRadial
)

// LineCap/LineJoin mirror Lottie's stroke "lc"/"lj" integer codes, reusing
// the names the stroking package expects.
type LineCap int

const (
	CapButt LineCap = iota + 1
	CapRound
	CapSquare
)

type LineJoin int

const (
	JoinMiter LineJoin = iota + 1
	JoinRound
	JoinBevel
)

// Shape is a single shape-layer content item. Fields outside the variant
// named by Kind are zero and unused; grouping every variant into one
// struct (rather than an interface per kind) keeps the arena-indexed
// child-walk in internal/tree homogeneous, at the cost of some unused
// fields per node — acceptable since shape items are numerous but small.
type Shape struct {
	Kind ShapeKind
	Name arena.SmallString
	Hidden bool
	Static bool // set by Document.PropagateStatic

	// ShapeGroup
	Children []arena.Index // indices into the owning Arena[Shape]
	Transform *Transform    // group-local transform, nil for non-groups

	// Set on synthetic ShapeGroup nodes created by ExpandRepeaters: this
	// group is copy CopyIndex (0-based) produced by the ShapeRepeater at
	// RepeaterSource. internal/tree evaluates RepeaterSource's Copies/
	// StartOpacity/EndOpacity/Transform per frame to decide how many
	// copies are live and this copy's opacity and incremental transform.
	IsRepeaterCopy bool
	CopyIndex      int
	RepeaterSource arena.Index

	// ShapeRect
	RectPosition, RectSize Property[geom.Point]
	RectRoundness          Property[float64]

	// ShapeEllipse
	EllipsePosition, EllipseSize Property[geom.Point]

	// ShapePath
	PathValue Property[geom.Path]

	// ShapePolystar
	PolyKind                        PolystarKind
	PolyPosition                    Property[geom.Point]
	PolyPoints, PolyRotation        Property[float64]
	PolyInnerRadius, PolyOuterRadius Property[float64]
	PolyInnerRoundness, PolyOuterRoundness Property[float64]

	// Common to fill/stroke/gradient variants
	Color   Property[geom.RGBA]
	Opacity Property[float64] // 0..1

	// ShapeStroke / ShapeGradientStroke
	StrokeWidth Property[float64]
	LineCap     LineCap
	LineJoin    LineJoin
	MiterLimit  float64
	DashPattern []DashSegment

	// ShapeGradientFill / ShapeGradientStroke. GradientStops is the raw
	// flat [offset,r,g,b]*GradientStopCount interleaved array Lottie
	// stores under "g"."k" — internal/compositor builds its GradientTable
	// from this plus GradientStopCount at render time.
	GradientKind           GradientKind
	GradientStart, GradientEnd Property[geom.Point]
	GradientStops           Property[[]float64]
	GradientStopCount       int

	// ShapeTrim
	TrimStart, TrimEnd, TrimOffset Property[float64]
	TrimModeField                  TrimMode

	// ShapeRepeater
	RepeaterCopies         Property[float64]
	RepeaterOffset         Property[float64]
	RepeaterStartOpacity   Property[float64]
	RepeaterEndOpacity     Property[float64]
	RepeaterTransform      *Transform
	RepeaterComposite      bool // true = "above" (each copy stacks in front), false = "below"
}

// DashSegment is one value/gap-value pair of a stroke's dash pattern
// (spec: "v" entries, with the trailing odd entry duplicated to make an
// even-length cycle).
type DashSegment struct {
	Length Property[float64]
	IsGap  bool
}
