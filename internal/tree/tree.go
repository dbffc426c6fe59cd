// Package tree walks a parsed internal/model.Document and rasterizes it
// into a compositor.Surface for a given frame number. Unlike model, which
// is immutable once parsed, this package evaluates every animated
// property fresh each call — the "mutable render tree" the rest of the
// library drives once per displayed frame.
package tree

import (
	"image"
	"log/slog"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/blend"
	"github.com/dalerank/imlottie-sub000/internal/cache"
	"github.com/dalerank/imlottie-sub000/internal/compositor"
	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/imageasset"
	"github.com/dalerank/imlottie-sub000/internal/model"
	"github.com/dalerank/imlottie-sub000/internal/raster"
)

// imageCacheSoftLimit bounds the number of decoded+scaled image assets a
// Tree keeps memoized. Most documents embed a handful of image assets at
// most, so this is generous headroom rather than a tuned production value.
const imageCacheSoftLimit = 64

// Tree renders frames of one parsed Document. Render is safe to call
// repeatedly; it is not safe for concurrent use on the same Tree, since
// image-layer decodes are memoized onto imageCache under the cache's own
// lock but the Tree's other state is not (share a Document across Trees,
// one per goroutine, for concurrent rendering).
type Tree struct {
	doc     *model.Document
	log     *slog.Logger
	decoder imageasset.ImageDecoder

	imageCache *cache.Cache[string, *image.RGBA]
}

// New builds a Tree over doc. decoder may be nil to use the standard
// library PNG/JPEG codec.
func New(doc *model.Document, log *slog.Logger, decoder imageasset.ImageDecoder) *Tree {
	if log == nil {
		log = slog.Default()
	}
	if decoder == nil {
		decoder = imageasset.NewStdDecoder()
	}
	return &Tree{doc: doc, log: log, decoder: decoder, imageCache: cache.New[string, *image.RGBA](imageCacheSoftLimit)}
}

// Render rasterizes the document at frameNo into dst, which is cleared
// first. frameNo is in the root composition's frame space (spec §3).
func (t *Tree) Render(dst *compositor.Surface, frameNo float64) {
	dst.Clear()
	clip := raster.ClipRect{Left: 0, Top: 0, Right: dst.Width(), Bottom: dst.Height()}
	t.renderComposition(dst, t.doc.Layers, frameNo, geom.Identity(), 1.0, clip)
}

// renderComposition composites one layer list (the document root, or a
// precomp asset's nested layers) onto dst in array order — index 0 is the
// back of the stack, the last index is the front (model.Document.Layers'
// documented paint order).
func (t *Tree) renderComposition(dst *compositor.Surface, layers []arena.Index, frameNo float64, parentMatrix geom.Matrix, parentAlpha float64, clip raster.ClipRect) {
	var pendingMatteSource *compositor.Surface

	for _, idx := range layers {
		layer := t.doc.Layer(idx)
		if layer.Hidden {
			pendingMatteSource = nil
			continue
		}
		if !t.layerActiveAt(layer, frameNo) {
			pendingMatteSource = nil
			continue
		}

		if layer.HasMatteSource {
			scratch := compositor.NewSurface(dst.Width(), dst.Height())
			t.renderLayer(scratch, idx, frameNo, parentMatrix, parentAlpha, clip)
			pendingMatteSource = scratch
			continue
		}

		if layer.MatteMode != model.MatteNone && pendingMatteSource != nil {
			scratch := compositor.NewSurface(dst.Width(), dst.Height())
			t.renderLayer(scratch, idx, frameNo, parentMatrix, parentAlpha, clip)
			buf := compositor.MatteSourceFromSurface(pendingMatteSource, convertMatteMode(layer.MatteMode))
			buf.ApplyToSurface(scratch)
			compositeSurface(dst, scratch, blend.BlendSourceOver, 1.0)
			pendingMatteSource = nil
			continue
		}

		pendingMatteSource = nil
		t.renderLayer(dst, idx, frameNo, parentMatrix, parentAlpha, clip)
	}
}

// layerActiveAt reports whether layer is within its visibility window at
// frameNo (spec §4.2: inFrame/outFrame in the composition's own frame
// space, already accounting for startFrame via effectiveFrame elsewhere).
func (t *Tree) layerActiveAt(layer *model.Layer, frameNo float64) bool {
	return frameNo >= layer.InPoint && frameNo < layer.OutPoint
}

// effectiveFrame converts a composition-relative frame number into a
// layer's own local time (spec §4.2): absent/static time remap simply
// subtracts startFrame; an animated remap evaluates the remap property
// (a time in seconds) and converts it to a frame number via the
// document's frame rate, then both paths divide by timeStretch.
func (t *Tree) effectiveFrame(layer *model.Layer, frameNo float64) float64 {
	var local float64
	if layer.TimeRemap == nil || layer.TimeRemap.IsStatic() {
		local = frameNo - layer.StartFrame
	} else {
		remapped := layer.TimeRemap.Eval(frameNo)
		local = remapped * t.doc.FrameRate
	}
	stretch := layer.TimeStretch
	if stretch == 0 {
		stretch = 1
	}
	return local / stretch
}

// effectiveTransform resolves a layer's matrix and opacity, composed with
// its intra-composition parent chain (Lottie "parent", distinct from
// precomp nesting which is threaded through parentMatrix/parentAlpha
// instead).
func (t *Tree) effectiveTransform(idx arena.Index, frameNo float64) (geom.Matrix, float64) {
	layer := t.doc.Layer(idx)
	m := layer.Transform.Matrix(frameNo)
	alpha := layer.Transform.EffectiveOpacity(frameNo)
	if layer.HasParent {
		pm, pa := t.effectiveTransform(layer.Parent, frameNo)
		m = pm.Mul(m)
		alpha *= pa
	}
	return m, alpha
}

func convertMatteMode(m model.MatteMode) compositor.MatteMode {
	switch m {
	case model.MatteAlpha:
		return compositor.MatteAlpha
	case model.MatteAlphaInverted:
		return compositor.MatteAlphaInverted
	case model.MatteLuma:
		return compositor.MatteLuma
	case model.MatteLumaInverted:
		return compositor.MatteLumaInverted
	default:
		return compositor.MatteNone
	}
}

// compositeSurface blends every pixel of src onto dst using mode, treating
// src as one full-canvas brush sample (compositor has no surface-onto-
// surface blit of its own; this reuses its span compositor instead of
// reaching into Surface's unexported pixel storage).
func compositeSurface(dst, src *compositor.Surface, mode blend.BlendMode, opacity float64) {
	w, h := dst.Width(), dst.Height()
	spans := make([]raster.Span, h)
	for y := 0; y < h; y++ {
		spans[y] = raster.Span{X: 0, Y: y, Len: w, Coverage: 255}
	}
	compositor.PaintSpans(dst, spans, surfaceBrush{src}, mode, opacity)
}

// surfaceBrush samples a rendered layer surface as a compositor.Brush, the
// mechanism compositeSurface and matte application use to treat a whole
// scratch surface as one paintable span source.
type surfaceBrush struct{ s *compositor.Surface }

func (b surfaceBrush) ColorAt(p geom.Point) geom.RGBA {
	return b.s.At(int(p.X), int(p.Y))
}
