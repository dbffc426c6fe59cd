// Package compositor evaluates brushes (solid colors, linear/radial
// gradients) and composites rasterized spans onto a premultiplied BGRA
// render target using Porter-Duff and the W3C blend-mode set.
package compositor

import (
	"github.com/dalerank/imlottie-sub000/internal/geom"
)

// Surface is a premultiplied BGRA8 pixel buffer, the host's expected frame
// buffer layout (see RenderSync). Unlike the straight-alpha, RGBA-ordered
// buffer the teacher's immediate-mode Context drew into, every write here
// keeps color channels pre-multiplied by alpha and channel order B,G,R,A so
// the bytes can be handed to the host/GPU upload path unchanged.
type Surface struct {
	width, height int
	stride        int
	data          []uint8
}

// NewSurface allocates a cleared width x height premultiplied BGRA surface.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{
		width:  width,
		height: height,
		stride: width * 4,
		data:   make([]uint8, width*height*4),
	}
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }
func (s *Surface) Stride() int { return s.stride }

// Data returns the raw premultiplied BGRA bytes.
func (s *Surface) Data() []uint8 { return s.data }

// Clear fills the surface with transparent black.
func (s *Surface) Clear() {
	for i := range s.data {
		s.data[i] = 0
	}
}

// offset returns the byte offset of (x, y), or -1 if out of bounds.
func (s *Surface) offset(x, y int) int {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return -1
	}
	return y*s.stride + x*4
}

// At returns the premultiplied pixel at (x, y).
func (s *Surface) At(x, y int) geom.RGBA {
	i := s.offset(x, y)
	if i < 0 {
		return geom.RGBA{}
	}
	return geom.RGBA{
		R: float64(s.data[i+2]) / 255,
		G: float64(s.data[i+1]) / 255,
		B: float64(s.data[i+0]) / 255,
		A: float64(s.data[i+3]) / 255,
	}
}

// SetPremultiplied writes a premultiplied pixel directly, with no blending.
func (s *Surface) SetPremultiplied(x, y int, c geom.RGBA) {
	i := s.offset(x, y)
	if i < 0 {
		return
	}
	s.data[i+0] = geom.ClampByte(c.B * 255)
	s.data[i+1] = geom.ClampByte(c.G * 255)
	s.data[i+2] = geom.ClampByte(c.R * 255)
	s.data[i+3] = geom.ClampByte(c.A * 255)
}

// CopyTo writes the surface's premultiplied BGRA bytes into dst, matching
// the host-supplied buffer contract of Animation.RenderSync. dst must be at
// least Stride()*Height() bytes; CopyTo returns the number of bytes written.
func (s *Surface) CopyTo(dst []uint8) int {
	n := copy(dst, s.data)
	return n
}
