package compositor

import (
	"github.com/dalerank/imlottie-sub000/internal/blend"
	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/raster"
)

// LottieBlendMode mirrors the Lottie layer "bm" property's integer values.
type LottieBlendMode int

const (
	LottieBlendNormal LottieBlendMode = iota
	LottieBlendMultiply
	LottieBlendScreen
	LottieBlendOverlay
	LottieBlendDarken
	LottieBlendLighten
	LottieBlendColorDodge
	LottieBlendColorBurn
	LottieBlendHardLight
	LottieBlendSoftLight
	LottieBlendDifference
	LottieBlendExclusion
	LottieBlendHue
	LottieBlendSaturation
	LottieBlendColor
	LottieBlendLuminosity
	LottieBlendAdd
)

// blendModeTable maps every Lottie bm value to the library's BlendMode,
// built once instead of switched per pixel.
var blendModeTable = [...]blend.BlendMode{
	LottieBlendNormal:     blend.BlendSourceOver,
	LottieBlendMultiply:   blend.BlendMultiply,
	LottieBlendScreen:     blend.BlendScreen,
	LottieBlendOverlay:    blend.BlendOverlay,
	LottieBlendDarken:     blend.BlendDarken,
	LottieBlendLighten:    blend.BlendLighten,
	LottieBlendColorDodge: blend.BlendColorDodge,
	LottieBlendColorBurn:  blend.BlendColorBurn,
	LottieBlendHardLight:  blend.BlendHardLight,
	LottieBlendSoftLight:  blend.BlendSoftLight,
	LottieBlendDifference: blend.BlendDifference,
	LottieBlendExclusion:  blend.BlendExclusion,
	LottieBlendHue:        blend.BlendHue,
	LottieBlendSaturation: blend.BlendSaturation,
	LottieBlendColor:      blend.BlendColor,
	LottieBlendLuminosity: blend.BlendLuminosity,
	LottieBlendAdd:        blend.BlendPlus,
}

// ResolveBlendMode converts a Lottie bm value into this package's
// BlendMode, defaulting to normal source-over for unrecognized values.
func ResolveBlendMode(bm int) blend.BlendMode {
	if bm < 0 || bm >= len(blendModeTable) {
		return blend.BlendSourceOver
	}
	return blendModeTable[bm]
}

// PaintSpans composites a rasterized span list onto dst, sampling brush at
// each covered pixel and combining with the existing destination pixel
// using mode. opacity (0..1) additionally scales every span's coverage,
// giving layer/shape opacity without a separate pass.
func PaintSpans(dst *Surface, spans []raster.Span, brush Brush, mode blend.BlendMode, opacity float64) {
	if opacity <= 0 {
		return
	}
	blendFn := blend.GetBlendFunc(mode)
	for _, span := range spans {
		coverage := float64(span.Coverage) / 255 * opacity
		if coverage <= 0 {
			continue
		}
		for i := 0; i < span.Len; i++ {
			x := span.X + i
			p := geom.Point{X: float64(x) + 0.5, Y: float64(span.Y) + 0.5}
			src := brush.ColorAt(p) // premultiplied
			blendSpanPixel(dst, x, span.Y, src, coverage, blendFn)
		}
	}
}

// blendSpanPixel scales a brush's premultiplied color by the span's
// effective coverage and blends it onto dst at (x, y) with blendFn.
func blendSpanPixel(dst *Surface, x, y int, src geom.RGBA, coverage float64, blendFn blend.BlendFunc) {
	sr := geom.ClampByte(src.R * coverage * 255)
	sg := geom.ClampByte(src.G * coverage * 255)
	sb := geom.ClampByte(src.B * coverage * 255)
	sa := geom.ClampByte(src.A * coverage * 255)

	i := dst.offset(x, y)
	if i < 0 {
		return
	}
	dr, dg, db, da := dst.data[i+2], dst.data[i+1], dst.data[i+0], dst.data[i+3]

	r, g, b, a := blendFn(sr, sg, sb, sa, dr, dg, db, da)
	dst.data[i+0] = b
	dst.data[i+1] = g
	dst.data[i+2] = r
	dst.data[i+3] = a
}
