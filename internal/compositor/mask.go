package compositor

// MaskMode is a mask's combine operator, matching Lottie's mask "mode"
// property ("a" Add, "s" Subtract, "i" Intersect, "d" Difference; "n" None
// is handled by the caller skipping the mask entirely).
type MaskMode int

const (
	MaskAdd MaskMode = iota
	MaskSubtract
	MaskIntersect
	MaskDifference
)

// MatteMode is a layer's track-matte type, applied as a Porter-Duff DestIn/
// DestOut with the matte source's alpha or luma channel.
type MatteMode int

const (
	MatteNone MatteMode = iota
	MatteAlpha
	MatteAlphaInverted
	MatteLuma
	MatteLumaInverted
)

// MaskBuffer is a single-channel coverage buffer (0..255) used to combine
// a shape layer's mask paths before they gate that layer's rendering.
type MaskBuffer struct {
	width, height int
	data          []uint8
}

// NewMaskBuffer allocates a mask buffer, initialized per the first
// combine's identity: Add-only compositions start transparent, Subtract/
// Intersect-first compositions start opaque (set via Fill after creation).
func NewMaskBuffer(width, height int) *MaskBuffer {
	return &MaskBuffer{width: width, height: height, data: make([]uint8, width*height)}
}

func (m *MaskBuffer) Width() int  { return m.width }
func (m *MaskBuffer) Height() int { return m.height }

// Fill sets every coverage value to v.
func (m *MaskBuffer) Fill(v uint8) {
	for i := range m.data {
		m.data[i] = v
	}
}

// At returns the coverage at (x, y), or 0 outside bounds.
func (m *MaskBuffer) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set writes the coverage at (x, y). Out-of-bounds writes are ignored.
func (m *MaskBuffer) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.data[y*m.width+x] = v
}

// Combine merges a new mask shape's own coverage buffer into m using mode,
// with the mask's own opacity (0..1) pre-scaling its contribution.
func (m *MaskBuffer) Combine(mode MaskMode, other *MaskBuffer, opacity float64) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			i := y*m.width + x
			src := uint8(float64(other.data[i]) * opacity)
			dst := m.data[i]
			m.data[i] = combineMaskPixel(mode, dst, src)
		}
	}
}

func combineMaskPixel(mode MaskMode, dst, src uint8) uint8 {
	switch mode {
	case MaskAdd:
		sum := int(dst) + int(src)
		if sum > 255 {
			sum = 255
		}
		return uint8(sum)
	case MaskSubtract:
		diff := int(dst) - int(src)
		if diff < 0 {
			diff = 0
		}
		return uint8(diff)
	case MaskIntersect:
		return uint8(int(dst) * int(src) / 255)
	case MaskDifference:
		d := int(dst) - int(src)
		if d < 0 {
			d = -d
		}
		return uint8(d)
	default:
		return dst
	}
}

// ApplyToSurface multiplies every pixel's alpha (and premultiplied color
// channels) in s by this mask's coverage, gating a layer's rendered output
// to its combined mask shape.
func (m *MaskBuffer) ApplyToSurface(s *Surface) {
	w, h := s.width, s.height
	if w > m.width {
		w = m.width
	}
	if h > m.height {
		h = m.height
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cov := m.data[y*m.width+x]
			if cov == 255 {
				continue
			}
			i := s.offset(x, y)
			if i < 0 {
				continue
			}
			if cov == 0 {
				s.data[i+0] = 0
				s.data[i+1] = 0
				s.data[i+2] = 0
				s.data[i+3] = 0
				continue
			}
			s.data[i+0] = uint8(int(s.data[i+0]) * int(cov) / 255)
			s.data[i+1] = uint8(int(s.data[i+1]) * int(cov) / 255)
			s.data[i+2] = uint8(int(s.data[i+2]) * int(cov) / 255)
			s.data[i+3] = uint8(int(s.data[i+3]) * int(cov) / 255)
		}
	}
}

// MatteSourceFromSurface derives a coverage buffer from a matte layer's
// rendered surface: alpha-based mattes use the alpha channel directly, luma
// mattes use perceptual luma of the (unpremultiplied) color. Inverted
// variants subtract from 255.
func MatteSourceFromSurface(s *Surface, mode MatteMode) *MaskBuffer {
	buf := NewMaskBuffer(s.width, s.height)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			i := s.offset(x, y)
			if i < 0 {
				continue
			}
			b, g, r, a := s.data[i+0], s.data[i+1], s.data[i+2], s.data[i+3]
			var v uint8
			switch mode {
			case MatteAlpha, MatteAlphaInverted:
				v = a
			case MatteLuma, MatteLumaInverted:
				v = lumaByte(r, g, b, a)
			default:
				v = a
			}
			if mode == MatteAlphaInverted || mode == MatteLumaInverted {
				v = 255 - v
			}
			buf.data[y*buf.width+x] = v
		}
	}
	return buf
}

// lumaByte computes perceptual luma from premultiplied channels, unpremultiplying
// first since luma is only meaningful on straight color.
func lumaByte(r, g, b, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	rf := float64(r) / float64(a)
	gf := float64(g) / float64(a)
	bf := float64(b) / float64(a)
	luma := 0.299*rf + 0.587*gf + 0.114*bf
	return uint8(luma*float64(a) + 0.5)
}
