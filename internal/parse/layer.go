package parse

import (
	"encoding/json"
	"log/slog"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/errkind"
	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/model"
)

type layerProbe struct {
	Ty int `json:"ty"`
}

// parseLayerArray parses one composition's "layers" array (root or a
// precomp asset's nested list) into arena-indexed Layer nodes, resolving
// "parent" references and matte-source pairing within that array's own
// scope, the way Lottie scopes both of those to a single layer list.
func (p *parser) parseLayerArray(raw json.RawMessage) []arena.Index {
	r := NewReader(raw)
	if !r.EnterArray() {
		return nil
	}

	var indices []arena.Index
	var ids []int
	for r.NextArrayValue() {
		itemRaw, ok := r.RawValue()
		if !ok {
			continue
		}
		idx, ok := p.parseLayerItem(itemRaw)
		if !ok {
			continue
		}
		indices = append(indices, idx)
		ids = append(ids, p.doc.Layer(idx).ID)
	}

	// Matte pairing: a layer with tt != 0 consumes the layer immediately
	// preceding it in the array as its matte source.
	for i := 1; i < len(indices); i++ {
		layer := p.doc.Layer(indices[i])
		if layer.MatteMode != model.MatteNone {
			p.doc.Layer(indices[i-1]).HasMatteSource = true
		}
	}

	// Parent resolution, scoped to this array.
	for _, idx := range indices {
		layer := p.doc.Layer(idx)
		if layer.ParentID < 0 {
			continue
		}
		for j, id := range ids {
			if id == layer.ParentID {
				layer.Parent = indices[j]
				layer.HasParent = true
				break
			}
		}
	}

	return indices
}

func (p *parser) parseLayerItem(raw json.RawMessage) (arena.Index, bool) {
	var probe layerProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		p.log.Warn("skipping malformed layer", "kind", errkind.ParseError.String(), "error", err)
		return 0, false
	}

	var kind model.LayerKind
	switch probe.Ty {
	case 0:
		kind = model.LayerPrecomp
	case 1:
		kind = model.LayerSolid
	case 2:
		kind = model.LayerImage
	case 3:
		kind = model.LayerNull
	case 4:
		kind = model.LayerShape
	default:
		p.log.Debug("skipping unsupported layer type", "kind", errkind.UnsupportedFeature.String(), "ty", probe.Ty)
		return 0, false
	}

	layer := model.Layer{
		Kind:        kind,
		ParentID:    -1,
		TimeStretch: 1,
		Transform:   model.NewIdentityTransform(),
	}

	r := NewReader(raw)
	if !r.EnterObject() {
		return 0, false
	}
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		switch key {
		case "ind":
			layer.ID, _ = r.GetInt()
		case "nm":
			name, _ := r.GetString()
			layer.Name = arena.NewSmallString(name)
		case "parent":
			layer.ParentID, _ = r.GetInt()
		case "ks":
			layer.Transform = parseTransform(r)
		case "ip":
			layer.InPoint, _ = r.GetDouble()
		case "op":
			layer.OutPoint, _ = r.GetDouble()
		case "st":
			layer.StartFrame, _ = r.GetDouble()
		case "sr":
			layer.TimeStretch, _ = r.GetDouble()
			if layer.TimeStretch == 0 {
				layer.TimeStretch = 1
			}
		case "ao":
			v, _ := r.GetInt()
			layer.Transform.AutoOrient = v != 0
		case "bm":
			v, _ := r.GetInt()
			layer.BlendMode = model.BlendMode(v)
		case "hd":
			layer.Hidden, _ = r.GetBool()
		case "ddd":
			v, _ := r.GetInt()
			layer.Is3D = v != 0
		case "tt":
			v, _ := r.GetInt()
			layer.MatteMode = model.MatteMode(v)
		case "tm":
			prop := parseFloatProperty(r)
			layer.TimeRemap = &prop
		case "masksProperties":
			layer.Masks = p.parseMasks(r)
		case "w":
			layer.SolidWidth, _ = r.GetDouble()
			layer.Width = layer.SolidWidth
		case "h":
			layer.SolidHeight, _ = r.GetDouble()
			layer.Height = layer.SolidHeight
		case "sc":
			hex, _ := r.GetString()
			layer.SolidColor = geom.ParseHexColor(hex)
		case "refId":
			refID, _ := r.GetString()
			switch kind {
			case model.LayerPrecomp:
				layer.PrecompAssetID = refID
			case model.LayerImage:
				layer.ImageAssetID = refID
			}
		case "shapes":
			layer.Shapes = p.parseShapesKey(r)
		default:
			r.Skip()
		}
	}
	if r.Err() != nil {
		p.log.Warn("error parsing layer fields", "kind", errkind.ParseError.String(), "error", r.Err())
	}

	if layer.Kind == model.LayerPrecomp && layer.PrecompAssetID != "" {
		layer.PrecompLayers = p.resolvePrecompAsset(layer.PrecompAssetID)
		if asset, ok := p.assetsByID[layer.PrecompAssetID]; ok {
			layer.Width, layer.Height = asset.width, asset.height
		}
	}

	return p.doc.LayerArena().Alloc(layer), true
}

func (p *parser) parseShapesKey(r *Reader) []arena.Index {
	raw, ok := r.RawValue()
	if !ok {
		return nil
	}
	return parseShapeArray(NewReader(raw), p.doc, p.log)
}

func (p *parser) parseMasks(r *Reader) []model.Mask {
	if !r.EnterArray() {
		return nil
	}
	var masks []model.Mask
	for r.NextArrayValue() {
		raw, ok := r.RawValue()
		if !ok {
			continue
		}
		masks = append(masks, parseMaskItem(NewReader(raw)))
	}
	return masks
}

func parseMaskItem(r *Reader) model.Mask {
	m := model.Mask{Opacity: model.NewStaticProperty(100.0)}
	if !r.EnterObject() {
		return m
	}
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		switch key {
		case "mode":
			s, _ := r.GetString()
			m.Mode = maskModeFromCode(s)
		case "pt":
			m.Path = parsePathProperty(r)
		case "o":
			m.Opacity = parseFloatProperty(r)
		case "inv":
			m.Inverted, _ = r.GetBool()
		default:
			r.Skip()
		}
	}
	return m
}

func maskModeFromCode(s string) model.MaskMode {
	switch s {
	case "a":
		return model.MaskAdd
	case "s":
		return model.MaskSubtract
	case "i":
		return model.MaskIntersect
	case "d":
		return model.MaskDifference
	case "n":
		return model.MaskNone
	default:
		return model.MaskAdd
	}
}

// parser carries the mutable parse-time state threaded through layer and
// asset resolution: the document being built, its logger, and asset
// lookups/caches that outlive any single layer array.
type parser struct {
	doc        *model.Document
	log        *slog.Logger
	docDir     string
	assetsRaw  map[string]json.RawMessage
	assetsByID map[string]*resolvedAsset
	resolving  map[string]bool // cycle guard for precomp refId chains
}

type resolvedAsset struct {
	layers        []arena.Index
	width, height float64
}

func (p *parser) resolvePrecompAsset(id string) []arena.Index {
	if a, ok := p.assetsByID[id]; ok {
		return a.layers
	}
	if p.resolving[id] {
		p.log.Warn("cyclic precomp reference", "kind", errkind.LoadError.String(), "refId", id)
		return nil
	}
	raw, ok := p.assetsRaw[id]
	if !ok {
		p.log.Warn("missing precomp asset", "kind", errkind.AssetMissing.String(), "refId", id)
		return nil
	}
	p.resolving[id] = true
	layers := p.parseLayerArray(raw)
	delete(p.resolving, id)

	resolved := &resolvedAsset{layers: layers}
	p.assetsByID[id] = resolved
	p.doc.Assets[id] = &model.Asset{ID: id, Layers: derefLayers(p.doc, layers)}
	return layers
}

func derefLayers(doc *model.Document, indices []arena.Index) []*model.Layer {
	out := make([]*model.Layer, len(indices))
	for i, idx := range indices {
		out[i] = doc.Layer(idx)
	}
	return out
}
