package model

import (
	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/geom"
)

// LayerKind mirrors Lottie's layer "ty" field. Text layers ("ty":5) are
// rejected at parse time — UnsupportedFeature, not modeled here.
type LayerKind int

const (
	LayerPrecomp LayerKind = iota
	LayerSolid
	LayerImage
	LayerNull
	LayerShape
)

// BlendMode mirrors a layer's "bm" field (0..16, Normal through Add).
type BlendMode int

// Layer is one entry of a composition's layer list. As with Shape, every
// kind is folded into one struct (Kind-tagged) rather than an interface
// per variant: the render tree walks layers homogeneously regardless of
// kind (transform, masks, matte, and timing apply uniformly), so the
// variant-specific payload (SolidColor, ImageAssetID, PrecompRefID,
// Shapes) is the only part that differs.
type Layer struct {
	ID   int // Lottie "ind", used to resolve "parent" references
	Name arena.SmallString
	Kind LayerKind

	ParentID int // -1 if none
	Parent   arena.Index
	HasParent bool

	Transform *Transform
	BlendMode BlendMode

	InPoint, OutPoint   float64 // "ip"/"op", composition-local frames
	StartFrame          float64 // "st"
	TimeStretch         float64 // "sr", default 1
	TimeRemap           *Property[float64] // "tm", nil if absent

	Is3D   bool
	Hidden bool // "hd"

	Masks     []Mask
	MatteMode MatteMode // this layer's own "tt"
	HasMatteSource bool // true if the layer below is this layer's matte source

	// LayerStatic is true once static-flag propagation (spec §4.2) has
	// determined that nothing under this layer's subtree is animated.
	Static bool

	// LayerSolid
	SolidColor        geom.RGBA
	SolidWidth, SolidHeight float64

	// LayerImage
	ImageAssetID string

	// LayerPrecomp
	PrecompAssetID string
	PrecompLayers  []arena.Index // resolved child layers, spliced from the asset
	Width, Height  float64 // precomp/comp viewport size, for time remap + clipping

	// LayerShape
	Shapes []arena.Index // indices into the shape arena, paint order back-to-front
}
