package geom

import "math"

// Dash is a dash pattern: alternating dash/gap lengths plus a phase offset,
// matching Lottie's "d" stroke-dashes array (trailed by a final "o" offset
// entry). Grounded on the teacher's Dash type and NewDash normalization.
type Dash struct {
	Array  []float64
	Offset float64
}

// NewDash builds a dash pattern from alternating dash/gap lengths. An odd
// count is logically duplicated ([5] behaves as [5,5]). Returns nil if every
// length is zero (no dashing), matching the teacher's NewDash.
func NewDash(lengths []float64, offset float64) *Dash {
	if len(lengths) == 0 {
		return nil
	}
	allZero := true
	norm := make([]float64, len(lengths))
	for i, l := range lengths {
		if l < 0 {
			l = 0
		}
		if l > 0 {
			allZero = false
		}
		norm[i] = l
	}
	if allZero {
		return nil
	}
	return &Dash{Array: norm, Offset: offset}
}

func (d *Dash) effectiveArray() []float64 {
	if len(d.Array)%2 == 1 {
		return append(append([]float64{}, d.Array...), d.Array...)
	}
	return d.Array
}

// patternLength returns the total length of one dash cycle.
func (d *Dash) patternLength() float64 {
	total := 0.0
	for _, v := range d.effectiveArray() {
		total += v
	}
	return total
}

// Apply splits path's flattened subpaths into the "on" segments of the dash
// pattern, returning a new Path of undashed line/move segments ready for
// stroking. Mirrors the spec's "dashing runs before stroking" ordering.
func (d *Dash) Apply(p *Path, tolerance float64) *Path {
	pattern := d.effectiveArray()
	total := d.patternLength()
	out := NewPath()
	if total <= 0 {
		return p
	}

	for _, poly := range p.Flatten(tolerance) {
		if len(poly) < 2 {
			continue
		}
		idx, remain, on := phaseAt(pattern, total, d.Offset)
		started := false
		for i := 1; i < len(poly); i++ {
			a, b := poly[i-1], poly[i]
			segLen := a.Distance(b)
			pos := 0.0
			for pos < segLen {
				step := math.Min(remain, segLen-pos)
				p0 := a.Lerp(b, pos/segLen)
				p1 := a.Lerp(b, (pos+step)/segLen)
				if on {
					if !started {
						out.MoveTo(p0.X, p0.Y)
						started = true
					}
					out.LineTo(p1.X, p1.Y)
				} else {
					started = false
				}
				pos += step
				remain -= step
				if remain <= 1e-9 {
					idx = (idx + 1) % len(pattern)
					remain = pattern[idx]
					on = !on
				}
			}
		}
	}
	return out
}

// phaseAt resolves the dash-array index, remaining length in that segment,
// and on/off state for a given phase offset into the pattern.
func phaseAt(pattern []float64, total, offset float64) (idx int, remain float64, on bool) {
	if total <= 0 {
		return 0, 0, true
	}
	phase := math.Mod(offset, total)
	if phase < 0 {
		phase += total
	}
	on = true
	for {
		seg := pattern[idx]
		if phase < seg {
			return idx, seg - phase, on
		}
		phase -= seg
		idx = (idx + 1) % len(pattern)
		on = !on
	}
}
