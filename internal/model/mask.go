package model

import "github.com/dalerank/imlottie-sub000/internal/geom"

// MaskMode mirrors Lottie's mask "mode" field values.
type MaskMode int

const (
	MaskAdd MaskMode = iota
	MaskSubtract
	MaskIntersect
	MaskDifference
	MaskNone // "n": disabled, skipped during update
)

// MatteMode mirrors a layer's "tt" field: how it is used as a track matte
// source for the layer above it.
type MatteMode int

const (
	MatteNone MatteMode = iota
	MatteAlpha
	MatteAlphaInverted
	MatteLuma
	MatteLumaInverted
)

// Mask is one entry of a layer's mask list ("masksProperties").
type Mask struct {
	Mode     MaskMode
	Path     Property[geom.Path]
	Opacity  Property[float64] // 0..100
	Inverted bool
}
