// Package parse turns raw Lottie/bodymovin JSON bytes into an
// internal/model.Document. It never touches the root lottie package (to
// avoid an import cycle with its Logger accessor), so a *slog.Logger is
// threaded through explicitly instead.
package parse

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dalerank/imlottie-sub000/internal/errkind"
	"github.com/dalerank/imlottie-sub000/internal/imageasset"
	"github.com/dalerank/imlottie-sub000/internal/model"
)

// Options configures a single Parse call.
type Options struct {
	Logger        *slog.Logger // if nil, slog.Default() is used
	DocDir        string       // base directory for relative image-asset paths
	NodeArenaHint int          // initial layer/shape arena capacity hint
}

type assetProbe struct {
	ID     string           `json:"id"`
	Layers *json.RawMessage `json:"layers"`
	P      *string          `json:"p"`
	U      *string          `json:"u"`
	W      int              `json:"w"`
	H      int              `json:"h"`
}

// Parse builds a Document from a whole Lottie JSON document's bytes.
func Parse(data []byte, opts Options) (*model.Document, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := NewReader(data)
	if !r.EnterObject() {
		return nil, fmt.Errorf("parse: document is not a JSON object")
	}

	doc := model.NewDocument(opts.NodeArenaHint)
	p := &parser{
		doc:        doc,
		log:        log,
		docDir:     opts.DocDir,
		assetsRaw:  make(map[string]json.RawMessage),
		assetsByID: make(map[string]*resolvedAsset),
		resolving:  make(map[string]bool),
	}

	var layersRaw, assetsRaw, markersRaw json.RawMessage
	for {
		key, ok := r.NextObjectKey()
		if !ok {
			break
		}
		switch key {
		case "v":
			doc.Version, _ = r.GetString()
		case "w":
			v, _ := r.GetDouble()
			doc.Width = int(v)
		case "h":
			v, _ := r.GetDouble()
			doc.Height = int(v)
		case "ip":
			doc.InPoint, _ = r.GetDouble()
		case "op":
			doc.OutPoint, _ = r.GetDouble()
		case "fr":
			doc.FrameRate, _ = r.GetDouble()
		case "assets":
			assetsRaw, _ = r.RawValue()
		case "layers":
			layersRaw, _ = r.RawValue()
		case "markers":
			markersRaw, _ = r.RawValue()
		default:
			r.Skip()
		}
	}
	if r.Err() != nil {
		return nil, fmt.Errorf("parse: %w", r.Err())
	}

	if assetsRaw != nil {
		p.indexAssets(assetsRaw)
	}
	if markersRaw != nil {
		doc.Markers = parseMarkers(markersRaw)
	}
	if layersRaw != nil {
		doc.Layers = p.parseLayerArray(layersRaw)
	}

	doc.PropagateStatic()
	doc.ExpandRepeaters()

	return doc, nil
}

// indexAssets splits the top-level "assets" array into image assets
// (resolved immediately, since they carry no nested layer list to recurse
// into) and precomp assets (kept as raw bytes, resolved lazily by
// parser.resolvePrecompAsset the first time a layer's "refId" needs them —
// assets may reference each other and needn't appear in dependency order).
func (p *parser) indexAssets(raw json.RawMessage) {
	r := NewReader(raw)
	if !r.EnterArray() {
		return
	}
	for r.NextArrayValue() {
		itemRaw, ok := r.RawValue()
		if !ok {
			continue
		}
		var probe assetProbe
		if err := json.Unmarshal(itemRaw, &probe); err != nil {
			p.log.Warn("skipping malformed asset", "kind", errkind.ParseError.String(), "error", err)
			continue
		}
		if probe.ID == "" {
			continue
		}
		if probe.Layers != nil {
			p.assetsRaw[probe.ID] = *probe.Layers
			continue
		}
		if probe.P != nil {
			dir := ""
			if probe.U != nil {
				dir = *probe.U
			}
			src := imageasset.ParseAssetPath(p.docDir+dir, *probe.P)
			p.doc.Assets[probe.ID] = &model.Asset{
				ID: probe.ID,
				Image: &model.ImageAsset{
					Source: src,
					Width:  probe.W,
					Height: probe.H,
				},
			}
		}
	}
}

func parseMarkers(raw json.RawMessage) []model.Marker {
	r := NewReader(raw)
	if !r.EnterArray() {
		return nil
	}
	var markers []model.Marker
	for r.NextArrayValue() {
		if !r.EnterObject() {
			continue
		}
		var m model.Marker
		for {
			key, ok := r.NextObjectKey()
			if !ok {
				break
			}
			switch key {
			case "cm":
				m.Name, _ = r.GetString()
			case "tm":
				m.Frame, _ = r.GetDouble()
			case "dr":
				m.Duration, _ = r.GetDouble()
			default:
				r.Skip()
			}
		}
		markers = append(markers, m)
	}
	return markers
}
