package parse

import (
	"encoding/json"

	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/model"
)

// rawKeyframe is one decoded keyframe object from an animated property's
// "k" array, still in flat-float-component form (component meaning is
// resolved by the caller: 1 for a scalar, 2 for a point, 3/4 for a color).
type rawKeyframe struct {
	startFrame float64
	start, end []float64 // end is nil when inherited from the next keyframe's start
	hold       bool
	hasEasing  bool
	outX, outY, inX, inY float64
}

// parseFloatProperty reads an object-valued "p"-style animated property
// (already positioned so the object has not yet been entered) whose
// component is a single scalar.
func parseFloatProperty(r *Reader) model.Property[float64] {
	vals, kfs, static := parsePropertyRaw(r)
	if static {
		return model.NewStaticProperty(component(vals, 0))
	}
	return buildProperty(kfs, 1, model.FloatLerp, func(v []float64) float64 { return component(v, 0) })
}

// parsePointProperty reads a 2-component animated property (position,
// anchor, size, ...).
func parsePointProperty(r *Reader) model.Property[geom.Point] {
	vals, kfs, static := parsePropertyRaw(r)
	toPoint := func(v []float64) geom.Point { return geom.Point{X: component(v, 0), Y: component(v, 1)} }
	if static {
		return model.NewStaticProperty(toPoint(vals))
	}
	return buildProperty(kfs, 2, model.PointLerp, toPoint)
}

// parseColorProperty reads a 3-4 component [r,g,b(,a)] animated property
// in 0..1 range, matching Lottie's shape fill/stroke color encoding.
func parseColorProperty(r *Reader) model.Property[geom.RGBA] {
	vals, kfs, static := parsePropertyRaw(r)
	toColor := func(v []float64) geom.RGBA {
		a := 1.0
		if len(v) > 3 {
			a = v[3]
		}
		return geom.RGBA{R: component(v, 0), G: component(v, 1), B: component(v, 2), A: a}
	}
	if static {
		return model.NewStaticProperty(toColor(vals))
	}
	return buildProperty(kfs, 4, model.ColorLerp, toColor)
}

// parseFloatArrayProperty reads a property whose value is itself a flat
// array of numbers (gradient color-stop tables), not interpolated
// component-wise per this parser's simplification: the array is treated
// as a single opaque value per keyframe, linearly cross-faded only when
// lengths match (matching the teacher's gradient table lerp behavior).
func parseFloatArrayProperty(r *Reader) model.Property[[]float64] {
	vals, kfs, static := parsePropertyRaw(r)
	toSlice := func(v []float64) []float64 { return v }
	if static {
		return model.NewStaticProperty(toSlice(vals))
	}
	return buildProperty(kfs, len(vals), floatSliceLerp, toSlice)
}

func floatSliceLerp(a, b []float64, t float64) []float64 {
	if len(a) != len(b) {
		return a
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = model.FloatLerp(a[i], b[i], t)
	}
	return out
}

func component(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// parsePropertyRaw reads the {"a":.., "k":..} wrapper object and returns
// either a flat static value or a list of rawKeyframes with explicit end
// values resolved from the following keyframe's start.
func parsePropertyRaw(r *Reader) (staticVals []float64, kfs []rawKeyframe, static bool) {
	if !r.EnterObject() {
		return nil, nil, true
	}
	var raw json.RawMessage
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		switch key {
		case "k":
			raw, _ = r.RawValue()
		default:
			r.Skip()
		}
	}
	if raw == nil {
		return nil, nil, true
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		r.fail(err)
		return nil, nil, true
	}

	switch v := generic.(type) {
	case float64:
		return []float64{v}, nil, true
	case nil:
		return nil, nil, true
	case []any:
		if len(v) == 0 {
			return nil, nil, true
		}
		if _, isKeyframe := v[0].(map[string]any); isKeyframe {
			return nil, decodeRawKeyframes(v), false
		}
		return toFloatSlice(v), nil, true
	default:
		return nil, nil, true
	}
}

func decodeRawKeyframes(entries []any) []rawKeyframe {
	out := make([]rawKeyframe, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		kf := rawKeyframe{
			startFrame: asFloat(m["t"], 0),
			start:      toFloatSlice(asSlice(m["s"])),
			hold:       asFloat(m["h"], 0) != 0,
		}
		if ev, ok := m["e"]; ok {
			kf.end = toFloatSlice(asSlice(ev))
		}
		if o, ok := m["o"].(map[string]any); ok {
			kf.outX, kf.outY = firstComponent(o["x"]), firstComponent(o["y"])
			kf.hasEasing = true
		}
		if in, ok := m["i"].(map[string]any); ok {
			kf.inX, kf.inY = firstComponent(in["x"]), firstComponent(in["y"])
			kf.hasEasing = true
		}
		out = append(out, kf)
	}
	// Inherit missing end values and end frames from the next keyframe's
	// start, the standard bodymovin convention of only emitting "s" on
	// the final keyframe of the timeline.
	for i := range out {
		if i+1 < len(out) {
			if out[i].end == nil {
				out[i].end = out[i+1].start
			}
		}
	}
	return out
}

func buildProperty[T any](kfs []rawKeyframe, dim int, lerp model.LerpFunc[T], toT func([]float64) T) model.Property[T] {
	if len(kfs) == 0 {
		var zero T
		return model.Property[T]{Lerp: lerp, StaticValue: zero, Static: true}
	}
	prop := model.Property[T]{Lerp: lerp}
	for i := 0; i < len(kfs); i++ {
		cur := kfs[i]
		endFrame := cur.startFrame // terminal keyframe: zero-length, holds its value forever
		if i+1 < len(kfs) {
			endFrame = kfs[i+1].startFrame
		}
		end := cur.end
		if end == nil {
			end = cur.start
		}
		kf := model.Keyframe[T]{
			StartFrame: cur.startFrame,
			EndFrame:   endFrame,
			StartValue: toT(cur.start),
			EndValue:   toT(end),
			Hold:       cur.hold || i+1 >= len(kfs),
		}
		if cur.hasEasing && !kf.Hold {
			kf.Interp = model.NewBezierInterpolator(
				geom.Point{X: cur.outX, Y: cur.outY},
				geom.Point{X: cur.inX, Y: cur.inY},
			)
		}
		prop.Keyframes = append(prop.Keyframes, kf)
	}
	return prop
}

func asFloat(v any, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return def
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func toFloatSlice(v []any) []float64 {
	out := make([]float64, 0, len(v))
	for _, e := range v {
		if f, ok := e.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

func firstComponent(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case []any:
		if len(t) > 0 {
			return asFloat(t[0], 0)
		}
	}
	return 0
}
