package imageasset

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaleToFit resizes src into a width x height canvas, centering it and
// preserving aspect ratio (an image layer's declared w/h rarely matches the
// asset's native resolution exactly). Letterboxed regions are transparent.
// Uses CatmullRom, a higher-quality resampler than nearest/bilinear,
// matching the teacher's bicubic-quality sampling tier in interp.go.
func ScaleToFit(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return dst
	}

	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 {
		return dst
	}

	scale := float64(width) / float64(sw)
	if hs := float64(height) / float64(sh); hs < scale {
		scale = hs
	}

	dw := int(float64(sw)*scale + 0.5)
	dh := int(float64(sh)*scale + 0.5)
	ox := (width - dw) / 2
	oy := (height - dh) / 2

	target := image.Rect(ox, oy, ox+dw, oy+dh)
	draw.CatmullRom.Scale(dst, target, src, sb, draw.Over, nil)
	return dst
}

// ScaleExact resizes src to exactly width x height, ignoring aspect ratio.
func ScaleExact(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
