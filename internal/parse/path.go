package parse

import (
	"encoding/json"

	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/model"
)

// parsePathProperty reads a shape path's animated property (Lottie "ks"),
// whose value is a path dict {"c":closed,"v":vertices,"i":inTangents,
// "o":outTangents} either directly under "k" (static) or one per
// keyframe's "s"/"e".
func parsePathProperty(r *Reader) model.Property[geom.Path] {
	if !r.EnterObject() {
		return model.Property[geom.Path]{Lerp: model.PathLerp}
	}
	var raw json.RawMessage
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		if key == "k" {
			raw, _ = r.RawValue()
		} else {
			r.Skip()
		}
	}
	if raw == nil {
		return model.Property[geom.Path]{Lerp: model.PathLerp}
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		r.fail(err)
		return model.Property[geom.Path]{Lerp: model.PathLerp}
	}

	switch v := generic.(type) {
	case map[string]any:
		return model.NewStaticProperty(pathFromDict(v))
	case []any:
		if len(v) > 0 {
			if _, ok := v[0].(map[string]any); ok {
				return buildPathProperty(v)
			}
		}
	}
	return model.Property[geom.Path]{Lerp: model.PathLerp}
}

func pathFromDict(m map[string]any) geom.Path {
	closed, _ := m["c"].(bool)
	verts := toPointSlice(asSlice(m["v"]))
	ins := toPointSlice(asSlice(m["i"]))
	outs := toPointSlice(asSlice(m["o"]))
	return buildBezierPath(verts, ins, outs, closed)
}

func toPointSlice(v []any) []geom.Point {
	out := make([]geom.Point, 0, len(v))
	for _, e := range v {
		pair, ok := e.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		out = append(out, geom.Point{X: asFloat(pair[0], 0), Y: asFloat(pair[1], 0)})
	}
	return out
}

// buildBezierPath turns Lottie's vertex + in/out relative-tangent arrays
// into a cubic-only geom.Path: the segment from vertex k to k+1 uses
// vertex[k]+out[k] and vertex[k+1]+in[k+1] as its control points.
func buildBezierPath(verts, ins, outs []geom.Point, closed bool) geom.Path {
	p := geom.NewPath()
	n := len(verts)
	if n == 0 {
		return *p
	}
	p.MoveTo(verts[0].X, verts[0].Y)

	segments := n - 1
	if closed {
		segments = n
	}
	for k := 0; k < segments; k++ {
		cur := k % n
		next := (k + 1) % n
		c1 := verts[cur].Add(vecAt(outs, cur))
		c2 := verts[next].Add(vecAt(ins, next))
		p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, verts[next].X, verts[next].Y)
	}
	if closed {
		p.Close()
	}
	return *p
}

func vecAt(pts []geom.Point, i int) geom.Vec2 {
	if i >= len(pts) {
		return geom.Vec2{}
	}
	return geom.Vec2{X: pts[i].X, Y: pts[i].Y}
}

type rawPathKeyframe struct {
	startFrame            float64
	start, end            geom.Path
	hold, hasEasing        bool
	outX, outY, inX, inY  float64
}

func buildPathProperty(entries []any) model.Property[geom.Path] {
	kfs := make([]rawPathKeyframe, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		kf := rawPathKeyframe{
			startFrame: asFloat(m["t"], 0),
			hold:       asFloat(m["h"], 0) != 0,
		}
		if sv := asSlice(m["s"]); len(sv) > 0 {
			if d, ok := sv[0].(map[string]any); ok {
				kf.start = pathFromDict(d)
			}
		}
		if ev := asSlice(m["e"]); len(ev) > 0 {
			if d, ok := ev[0].(map[string]any); ok {
				kf.end = pathFromDict(d)
			}
		}
		if o, ok := m["o"].(map[string]any); ok {
			kf.outX, kf.outY = firstComponent(o["x"]), firstComponent(o["y"])
			kf.hasEasing = true
		}
		if in, ok := m["i"].(map[string]any); ok {
			kf.inX, kf.inY = firstComponent(in["x"]), firstComponent(in["y"])
			kf.hasEasing = true
		}
		kfs = append(kfs, kf)
	}
	for i := range kfs {
		if i+1 < len(kfs) && len(kfs[i].end.Elements) == 0 {
			kfs[i].end = kfs[i+1].start
		}
	}

	prop := model.Property[geom.Path]{Lerp: model.PathLerp}
	for i, cur := range kfs {
		endFrame := cur.startFrame
		if i+1 < len(kfs) {
			endFrame = kfs[i+1].startFrame
		}
		end := cur.end
		if len(end.Elements) == 0 {
			end = cur.start
		}
		kf := model.Keyframe[geom.Path]{
			StartFrame: cur.startFrame,
			EndFrame:   endFrame,
			StartValue: cur.start,
			EndValue:   end,
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
