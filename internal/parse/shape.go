package parse

import (
	"encoding/json"
	"log/slog"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/errkind"
	"github.com/dalerank/imlottie-sub000/internal/model"
)

// shapeProbe decodes just enough of a shape item to dispatch to its
// kind-specific parser. Lottie doesn't guarantee "ty" appears first in
// the object, so the item is first captured whole (bounded to that one
// item, not the document) via Reader.RawValue, then probed, then handed
// to a fresh Reader of its own so the kind parser can walk its fields in
// any order the same way the top-level document walk does.
type shapeProbe struct {
	Ty string `json:"ty"`
}

func parseShapeArray(r *Reader, doc *model.Document, log *slog.Logger) []arena.Index {
	if !r.EnterArray() {
		return nil
	}
	var items []arena.Index
	for r.NextArrayValue() {
		raw, ok := r.RawValue()
		if !ok {
			continue
		}
		idx, ok := parseShapeItemRaw(raw, doc, log)
		if ok {
			items = append(items, idx)
		}
	}
	return items
}

func parseShapeItemRaw(raw json.RawMessage, doc *model.Document, log *slog.Logger) (arena.Index, bool) {
	var probe shapeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		log.Warn("skipping malformed shape item", "kind", errkind.ParseError.String(), "error", err)
		return 0, false
	}

	nr := NewReader(raw)
	switch probe.Ty {
	case "gr":
		return doc.ShapeArena().Alloc(parseGroupShape(nr, doc, log)), nr.Err() == nil
	case "rc":
		return doc.ShapeArena().Alloc(parseRectShape(nr)), nr.Err() == nil
	case "el":
		return doc.ShapeArena().Alloc(parseEllipseShape(nr)), nr.Err() == nil
	case "sh":
		return doc.ShapeArena().Alloc(parsePathShape(nr)), nr.Err() == nil
	case "sr":
		return doc.ShapeArena().Alloc(parsePolystarShape(nr)), nr.Err() == nil
	case "fl":
		return doc.ShapeArena().Alloc(parseFillShape(nr)), nr.Err() == nil
	case "gf":
		return doc.ShapeArena().Alloc(parseGradientShape(nr, true)), nr.Err() == nil
	case "st":
		return doc.ShapeArena().Alloc(parseStrokeShape(nr)), nr.Err() == nil
	case "gs":
		return doc.ShapeArena().Alloc(parseGradientShape(nr, false)), nr.Err() == nil
	case "tm":
		return doc.ShapeArena().Alloc(parseTrimShape(nr)), nr.Err() == nil
	case "rp":
		return doc.ShapeArena().Alloc(parseRepeaterShape(nr)), nr.Err() == nil
	default:
		log.Debug("skipping unsupported shape item", "kind", errkind.UnsupportedFeature.String(), "ty", probe.Ty)
		return 0, false
	}
}

func shapeCommon(r *Reader, key string, s *model.Shape) bool {
	switch key {
	case "nm":
		name, _ := r.GetString()
		s.Name = arena.NewSmallString(name)
	case "hd":
		s.Hidden, _ = r.GetBool()
	default:
		return false
	}
	return true
}

func parseGroupShape(r *Reader, doc *model.Document, log *slog.Logger) model.Shape {
	s := model.Shape{Kind: model.ShapeGroup, Transform: model.NewIdentityTransform()}
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
		case "it":
			raw, ok := r.RawValue()
			if !ok {
				continue
			}
			s.Children, s.Transform = parseGroupItems(raw, doc, log)
		default:
			r.Skip()
		}
	}
	return s
}

// parseGroupItems parses a group's "it" array, which interleaves shape
// items with exactly one trailing transform object ("ty":"tr") that
// applies to the whole group rather than being one of its children.
func parseGroupItems(raw json.RawMessage, doc *model.Document, log *slog.Logger) ([]arena.Index, *model.Transform) {
	r := NewReader(raw)
	transform := model.NewIdentityTransform()
	if !r.EnterArray() {
		return nil, transform
	}
	var items []arena.Index
	for r.NextArrayValue() {
		itemRaw, ok := r.RawValue()
		if !ok {
			continue
		}
		var probe shapeProbe
		if err := json.Unmarshal(itemRaw, &probe); err != nil {
			continue
		}
		if probe.Ty == "tr" {
			transform = parseTransform(NewReader(itemRaw))
			continue
		}
		idx, ok := parseShapeItemRaw(itemRaw, doc, log)
		if ok {
			items = append(items, idx)
		}
	}
	return items, transform
}

func parseRectShape(r *Reader) model.Shape {
	s := model.Shape{Kind: model.ShapeRect}
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
		case "p":
			s.RectPosition = parsePointProperty(r)
		case "s":
			s.RectSize = parsePointProperty(r)
		case "r":
			s.RectRoundness = parseFloatProperty(r)
		default:
			r.Skip()
		}
	}
	return s
}

func parseEllipseShape(r *Reader) model.Shape {
	s := model.Shape{Kind: model.ShapeEllipse}
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
		case "p":
			s.EllipsePosition = parsePointProperty(r)
		case "s":
			s.EllipseSize = parsePointProperty(r)
		default:
			r.Skip()
		}
	}
	return s
}

func parsePathShape(r *Reader) model.Shape {
	s := model.Shape{Kind: model.ShapePath}
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
		case "ks":
			s.PathValue = parsePathProperty(r)
		default:
			r.Skip()
		}
	}
	return s
}

func parsePolystarShape(r *Reader) model.Shape {
	s := model.Shape{Kind: model.ShapePolystar, PolyKind: model.PolystarStar}
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
		case "sy":
			v, _ := r.GetInt()
			s.PolyKind = model.PolystarKind(v)
		case "p":
			s.PolyPosition = parsePointProperty(r)
		case "pt":
			s.PolyPoints = parseFloatProperty(r)
		case "r":
			s.PolyRotation = parseFloatProperty(r)
		case "ir":
			s.PolyInnerRadius = parseFloatProperty(r)
		case "or":
			s.PolyOuterRadius = parseFloatProperty(r)
		case "is":
			s.PolyInnerRoundness = parseFloatProperty(r)
		case "os":
			s.PolyOuterRoundness = parseFloatProperty(r)
		default:
			r.Skip()
		}
	}
	return s
}

func parseFillShape(r *Reader) model.Shape {
	s := model.Shape{Kind: model.ShapeFill, Opacity: model.NewStaticProperty(1.0)}
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
			s.Color = parseColorProperty(r)
		case "o":
			s.Opacity = scaledPercent(parseFloatProperty(r))
		default:
			r.Skip()
		}
	}
	return s
}

func parseStrokeShape(r *Reader) model.Shape {
	s := model.Shape{
		Kind: model.ShapeStroke, Opacity: model.NewStaticProperty(1.0),
		LineCap: model.CapRound, LineJoin: model.JoinRound, MiterLimit: 4,
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
			s.Color = parseColorProperty(r)
		case "o":
			s.Opacity = scaledPercent(parseFloatProperty(r))
		case "w":
			s.StrokeWidth = parseFloatProperty(r)
		case "lc":
			v, _ := r.GetInt()
			s.LineCap = model.LineCap(v)
		case "lj":
			v, _ := r.GetInt()
			s.LineJoin = model.LineJoin(v)
		case "ml":
			v, _ := r.GetDouble()
			s.MiterLimit = v
		case "d":
			s.DashPattern = parseDashPattern(r)
		default:
			r.Skip()
		}
	}
	return s
}

func parseGradientShape(r *Reader, isFill bool) model.Shape {
	kind := model.ShapeGradientFill
	if !isFill {
		kind = model.ShapeGradientStroke
	}
	s := model.Shape{
		Kind: kind, Opacity: model.NewStaticProperty(1.0),
		LineCap: model.CapRound, LineJoin: model.JoinRound, MiterLimit: 4,
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
		case "o":
			s.Opacity = scaledPercent(parseFloatProperty(r))
		case "w":
			s.StrokeWidth = parseFloatProperty(r)
		case "lc":
			v, _ := r.GetInt()
			s.LineCap = model.LineCap(v)
		case "lj":
			v, _ := r.GetInt()
			s.LineJoin = model.LineJoin(v)
		case "t":
			v, _ := r.GetInt()
			s.GradientKind = model.GradientKind(v)
		case "s":
			s.GradientStart = parsePointProperty(r)
		case "e":
			s.GradientEnd = parsePointProperty(r)
		case "g":
			s.GradientStops, s.GradientStopCount = parseGradientStopsField(r)
		case "d":
			s.DashPattern = parseDashPattern(r)
		default:
			r.Skip()
		}
	}
	return s
}

// parseGradientStopsField reads a gradient's "g" object: {"p":numStops,
// "k": <animated flat-float-array property>}. The flat array interleaves
// numStops*4 values (offset,r,g,b per stop); internal/compositor builds
// its GradientTable from the pair at render time.
func parseGradientStopsField(r *Reader) (model.Property[[]float64], int) {
	if !r.EnterObject() {
		return model.Property[[]float64]{Lerp: floatSliceLerp}, 0
	}
	stops := model.Property[[]float64]{Lerp: floatSliceLerp}
	numStops := 0
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		switch key {
		case "p":
			numStops, _ = r.GetInt()
		case "k":
			stops = parseFloatArrayProperty(r)
		default:
			r.Skip()
		}
	}
	return stops, numStops
}
