package compositor

import (
	"testing"

	"github.com/dalerank/imlottie-sub000/internal/geom"
)

func rgbaOpaqueWhite() geom.RGBA { return geom.RGBA{R: 1, G: 1, B: 1, A: 1} }

func rgbaColor(r, g, b float64) geom.RGBA { return geom.RGBA{R: r, G: g, B: b, A: 1} }

func TestMaskBufferCombineModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     MaskMode
		dst, src uint8
		want     uint8
	}{
		{"add", MaskAdd, 100, 100, 200},
		{"add saturates", MaskAdd, 200, 200, 255},
		{"subtract", MaskSubtract, 200, 50, 150},
		{"subtract clamps at zero", MaskSubtract, 50, 200, 0},
		{"intersect", MaskIntersect, 255, 128, 128},
		{"intersect zero", MaskIntersect, 0, 255, 0},
		{"difference", MaskDifference, 200, 50, 150},
		{"difference symmetric", MaskDifference, 50, 200, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := combineMaskPixel(tt.mode, tt.dst, tt.src)
			if got != tt.want {
				t.Errorf("combineMaskPixel(%v, %d, %d) = %d, want %d", tt.mode, tt.dst, tt.src, got, tt.want)
			}
		})
	}
}

func TestMaskBufferCombineAccumulatesOverBuffers(t *testing.T) {
	dst := NewMaskBuffer(2, 1)
	dst.Fill(0)

	a := NewMaskBuffer(2, 1)
	a.Set(0, 0, 255)
	dst.Combine(MaskAdd, a, 1.0)

	b := NewMaskBuffer(2, 1)
	b.Set(0, 0, 100)
	dst.Combine(MaskAdd, b, 0.5) // opacity scales b's contribution to 50 before adding

	if got := dst.At(0, 0); got != 255 {
		t.Errorf("At(0,0) = %d, want 255 (saturated)", got)
	}
	if got := dst.At(1, 0); got != 0 {
		t.Errorf("At(1,0) = %d, want 0 (never set)", got)
	}
}

func TestMaskBufferApplyToSurfaceGatesCoverage(t *testing.T) {
	s := NewSurface(2, 1)
	s.data[0], s.data[1], s.data[2], s.data[3] = 10, 20, 30, 255 // B,G,R,A
	s.data[4], s.data[5], s.data[6], s.data[7] = 10, 20, 30, 255

	m := NewMaskBuffer(2, 1)
	m.Set(0, 0, 255) // fully covered: unchanged
	m.Set(1, 0, 0)   // fully uncovered: cleared

	m.ApplyToSurface(s)

	if s.data[3] != 255 {
		t.Errorf("pixel 0 alpha = %d, want 255 (coverage 255 leaves pixel untouched)", s.data[3])
	}
	if s.data[4] != 0 || s.data[5] != 0 || s.data[6] != 0 || s.data[7] != 0 {
		t.Errorf("pixel 1 = %v, want all zero (coverage 0 clears the pixel)", s.data[4:8])
	}
}

// TestMatteSourceFromSurfaceAlpha is part of spec §8's S2: an alpha matte
// reads the source surface's alpha channel directly.
func TestMatteSourceFromSurfaceAlpha(t *testing.T) {
	s := NewSurface(2, 1)
	s.SetPremultiplied(0, 0, rgbaOpaqueWhite())
	// pixel (1,0) stays transparent (zero alpha).

	buf := MatteSourceFromSurface(s, MatteAlpha)
	if got := buf.At(0, 0); got != 255 {
		t.Errorf("MatteAlpha At(0,0) = %d, want 255", got)
	}
	if got := buf.At(1, 0); got != 0 {
		t.Errorf("MatteAlpha At(1,0) = %d, want 0", got)
	}
}

func TestMatteSourceFromSurfaceAlphaInverted(t *testing.T) {
	s := NewSurface(1, 1)
	s.SetPremultiplied(0, 0, rgbaOpaqueWhite())

	buf := MatteSourceFromSurface(s, MatteAlphaInverted)
	if got := buf.At(0, 0); got != 0 {
		t.Errorf("MatteAlphaInverted At(0,0) = %d, want 0", got)
	}
}

// TestMatteSourceFromSurfaceLuma checks the BT.601 luma coefficients
// (0.299/0.587/0.114) against pure red, green and blue source pixels.
func TestMatteSourceFromSurfaceLuma(t *testing.T) {
	s := NewSurface(3, 1)
	s.SetPremultiplied(0, 0, rgbaColor(1, 0, 0))
	s.SetPremultiplied(1, 0, rgbaColor(0, 1, 0))
	s.SetPremultiplied(2, 0, rgbaColor(0, 0, 1))

	buf := MatteSourceFromSurface(s, MatteLuma)

	// BT.601: Y = 0.299R + 0.587G + 0.114B, each rounded against a pure
	// 255-valued channel.
	const wantRed, wantGreen, wantBlue = 76, 150, 29

	if got := buf.At(0, 0); got != wantRed {
		t.Errorf("luma(red) = %d, want %d", got, wantRed)
	}
	if got := buf.At(1, 0); got != wantGreen {
		t.Errorf("luma(green) = %d, want %d", got, wantGreen)
	}
	if got := buf.At(2, 0); got != wantBlue {
		t.Errorf("luma(blue) = %d, want %d", got, wantBlue)
	}
}
