package parse

import "github.com/dalerank/imlottie-sub000/internal/model"

// parseTransform reads a Lottie transform object ("ks" on a layer, "tr"
// inside a shape group) into a model.Transform.
func parseTransform(r *Reader) *model.Transform {
	t := model.NewIdentityTransform()
	if !r.EnterObject() {
		return t
	}
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		switch key {
		case "a":
			t.Anchor = parsePointProperty(r)
		case "p":
			t.Position = parsePointProperty(r)
		case "s":
			t.Scale = parsePointProperty(r)
		case "r", "rz":
			t.Rotation = parseFloatProperty(r)
		case "rx":
			t.RotationX = parseFloatProperty(r)
		case "ry":
			t.RotationY = parseFloatProperty(r)
		case "o":
			t.Opacity = parseFloatProperty(r)
		case "sk":
			t.SkewAngle = parseFloatProperty(r)
		case "sa":
			t.SkewAxis = parseFloatProperty(r)
		default:
			r.Skip()
		}
	}
	return t
}

// scaledPercent rescales a parsed 0..100 percent property down to 0..1,
// used for opacity fields (Lottie encodes opacity as a percentage).
func scaledPercent(p model.Property[float64]) model.Property[float64] {
	if p.Static || len(p.Keyframes) == 0 {
		p.StaticValue /= 100
		return p
	}
	out := p
	out.Keyframes = make([]model.Keyframe[float64], len(p.Keyframes))
	for i, kf := range p.Keyframes {
		kf.StartValue /= 100
		kf.EndValue /= 100
		out.Keyframes[i] = kf
	}
	return out
}

func parseDashPattern(r *Reader) []model.DashSegment {
	if !r.EnterArray() {
		return nil
	}
	var out []model.DashSegment
	for r.NextArrayValue() {
		if !r.EnterObject() {
			continue
		}
		var nType string
		var val model.Property[float64]
		for {
			key, ok := r.NextObjectKey()
			if !ok {
				break
			}
			switch key {
			case "n":
				nType, _ = r.GetString()
			case "v":
				val = parseFloatProperty(r)
			default:
				r.Skip()
			}
		}
		if nType == "o" {
			continue // dash-pattern start offset: not modeled, rare in practice
		}
		out = append(out, model.DashSegment{Length: val, IsGap: nType == "g"})
	}
	return out
}

func parseTrimShape(r *Reader) model.Shape {
	s := model.Shape{Kind: model.ShapeTrim, TrimModeField: model.TrimSimultaneous}
	if !r.EnterObject() {
		return s
	}
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		if shapeCommon(r, key, &s) {
			continue
		}
		switch key {
		case "s":
			s.TrimStart = scaledPercent(parseFloatProperty(r))
		case "e":
			s.TrimEnd = scaledPercent(parseFloatProperty(r))
		case "o":
			s.TrimOffset = parseFloatProperty(r)
		case "m":
			v, _ := r.GetInt()
			if v == 2 {
				s.TrimModeField = model.TrimIndividual
			}
		default:
			r.Skip()
		}
	}
	return s
}

func parseRepeaterShape(r *Reader) model.Shape {
	s := model.Shape{
		Kind:                 model.ShapeRepeater,
		RepeaterTransform:    model.NewIdentityTransform(),
		RepeaterStartOpacity: model.NewStaticProperty(100.0),
		RepeaterEndOpacity:   model.NewStaticProperty(100.0),
	}
	if !r.EnterObject() {
		return s
	}
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		if shapeCommon(r, key, &s) {
			continue
		}
		switch key {
		case "c":
			s.RepeaterCopies = parseFloatProperty(r)
		case "o":
			s.RepeaterOffset = parseFloatProperty(r)
		case "m":
			v, _ := r.GetInt()
			s.RepeaterComposite = v == 1
		case "tr":
			raw, ok := r.RawValue()
			if ok {
				parseRepeaterTransformInto(NewReader(raw), &s)
			}
		default:
			r.Skip()
		}
	}
	return s
}

func parseRepeaterTransformInto(r *Reader, s *model.Shape) {
	if !r.EnterObject() {
		return
	}
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		switch key {
		case "a":
			s.RepeaterTransform.Anchor = parsePointProperty(r)
		case "p":
			s.RepeaterTransform.Position = parsePointProperty(r)
		case "s":
			s.RepeaterTransform.Scale = parsePointProperty(r)
		case "r":
			s.RepeaterTransform.Rotation = parseFloatProperty(r)
		case "so":
			s.RepeaterStartOpacity = parseFloatProperty(r)
		case "eo":
			s.RepeaterEndOpacity = parseFloatProperty(r)
		default:
			r.Skip()
		}
	}
}
