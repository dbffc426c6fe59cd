package tree

import (
	"image"
	"math"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/blend"
	"github.com/dalerank/imlottie-sub000/internal/compositor"
	"github.com/dalerank/imlottie-sub000/internal/errkind"
	"github.com/dalerank/imlottie-sub000/internal/geom"
	"github.com/dalerank/imlottie-sub000/internal/imageasset"
	"github.com/dalerank/imlottie-sub000/internal/model"
	"github.com/dalerank/imlottie-sub000/internal/raster"
)

// renderLayer evaluates one layer's content at frameNo into its own scratch
// surface (the isolated-per-layer compositing model: every layer paints as
// if onto a fresh canvas with ordinary source-over blending internally),
// applies its mask list if any, then composites the scratch surface onto
// dst using the layer's own blend mode.
func (t *Tree) renderLayer(dst *compositor.Surface, idx arena.Index, frameNo float64, parentMatrix geom.Matrix, parentAlpha float64, clip raster.ClipRect) {
	layer := t.doc.Layer(idx)
	local := t.effectiveFrame(layer, frameNo)
	ownMatrix, ownAlpha := t.effectiveTransform(idx, frameNo)
	matrix := parentMatrix.Mul(ownMatrix)
	alpha := parentAlpha * ownAlpha

	scratch := compositor.NewSurface(dst.Width(), dst.Height())
	t.renderLayerContent(scratch, layer, local, matrix, alpha, clip)

	if len(layer.Masks) > 0 {
		mask := t.buildLayerMask(layer, frameNo, dst.Width(), dst.Height(), matrix, clip)
		mask.ApplyToSurface(scratch)
	}

	compositeSurface(dst, scratch, compositor.ResolveBlendMode(int(layer.BlendMode)), 1.0)
}

func (t *Tree) renderLayerContent(dst *compositor.Surface, layer *model.Layer, frameNo float64, matrix geom.Matrix, alpha float64, clip raster.ClipRect) {
	switch layer.Kind {
	case model.LayerShape:
		t.renderShapeContent(dst, layer.Shapes, frameNo, matrix, alpha, clip)
	case model.LayerSolid:
		t.renderSolid(dst, layer, matrix, alpha, clip)
	case model.LayerImage:
		t.renderImage(dst, layer, matrix, alpha, clip)
	case model.LayerPrecomp:
		t.renderComposition(dst, layer.PrecompLayers, frameNo, matrix, alpha, clip)
	case model.LayerNull:
		// no paintable content
	}
}

func (t *Tree) renderSolid(dst *compositor.Surface, layer *model.Layer, matrix geom.Matrix, alpha float64, clip raster.ClipRect) {
	p := geom.NewPath()
	p.Rect(0, 0, layer.SolidWidth, layer.SolidHeight)
	spans := fillPathsSpans([]*geom.Path{p.Transform(matrix)}, clip, dst.Width(), dst.Height())
	compositor.PaintSpans(dst, spans, compositor.NewSolidBrush(layer.SolidColor), blend.BlendSourceOver, alpha)
}

func (t *Tree) renderImage(dst *compositor.Surface, layer *model.Layer, matrix geom.Matrix, alpha float64, clip raster.ClipRect) {
	asset, ok := t.doc.Assets[layer.ImageAssetID]
	if !ok || asset.Image == nil {
		return
	}
	img := t.resolveImage(layer.ImageAssetID, asset.Image)
	if img == nil {
		return
	}
	brush := newImageBrush(img, matrix)
	rect := geom.NewPath()
	rect.Rect(0, 0, float64(asset.Image.Width), float64(asset.Image.Height))
	spans := fillPathsSpans([]*geom.Path{rect.Transform(matrix)}, clip, dst.Width(), dst.Height())
	compositor.PaintSpans(dst, spans, brush, blend.BlendSourceOver, alpha)
}

// resolveImage decodes and scales an image asset once, memoizing the
// result on the Tree's internal/cache.Cache: Render is called once per
// displayed frame and an image layer's source bytes never change between
// frames, so every frame after the first hits the cache.
func (t *Tree) resolveImage(id string, asset *model.ImageAsset) *image.RGBA {
	return t.imageCache.GetOrCreate(id, func() *image.RGBA {
		src, err := imageasset.Resolve(asset.Source, t.decoder)
		if err != nil {
			t.log.Warn("resolve image asset", "kind", errkind.AssetMissing.String(), "id", id, "error", err)
			return nil
		}
		return imageasset.ScaleToFit(src, asset.Width, asset.Height)
	})
}

// imageBrush samples a pre-scaled image as a compositor.Brush via nearest-
// neighbor lookup through the inverse of the layer's canvas matrix. This
// intentionally bypasses internal/image's affine/mipmap/pattern machinery
// (see design notes): a render tree only ever draws one image per layer at
// whatever transform that frame carries, so a minimal inverse-matrix
// sampler covers it without pulling in a general image-compositing stack.
type imageBrush struct {
	img *image.RGBA
	inv geom.Matrix
}

func newImageBrush(img *image.RGBA, matrix geom.Matrix) imageBrush {
	return imageBrush{img: img, inv: matrix.Invert()}
}

func (b imageBrush) ColorAt(p geom.Point) geom.RGBA {
	local := b.inv.Apply(p)
	x, y := int(math.Floor(local.X)), int(math.Floor(local.Y))
	pt := image.Point{X: x, Y: y}
	if !pt.In(b.img.Rect) {
		return geom.RGBA{}
	}
	r, g, bl, a := b.img.At(x, y).RGBA()
	return geom.RGBA{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(bl) / 65535,
		A: float64(a) / 65535,
	}
}

// buildLayerMask combines a layer's mask list (spec §4.2) into one coverage
// buffer: the first active mask's mode sets the buffer's initial fill
// (Add starts transparent, Subtract/Intersect start opaque), every
// subsequent mask Combines on top of it.
func (t *Tree) buildLayerMask(layer *model.Layer, frameNo float64, w, h int, matrix geom.Matrix, clip raster.ClipRect) *compositor.MaskBuffer {
	result := compositor.NewMaskBuffer(w, h)
	active := false
	for _, mask := range layer.Masks {
		if mask.Mode == model.MaskNone {
			continue
		}
		if !active {
			result.Fill(initialMaskFill(mask.Mode))
			active = true
		}
		path := mask.Path.Eval(frameNo)
		transformed := path.Transform(matrix)
		spans := fillPathsSpans([]*geom.Path{transformed}, clip, w, h)
		shapeBuf := spansToMaskBuffer(spans, w, h)
		if mask.Inverted {
			invertMaskBuffer(shapeBuf)
		}
		opacity := mask.Opacity.Eval(frameNo) / 100
		result.Combine(convertMaskMode(mask.Mode), shapeBuf, opacity)
	}
	if !active {
		result.Fill(255)
	}
	return result
}

func spansToMaskBuffer(spans []raster.Span, w, h int) *compositor.MaskBuffer {
	buf := compositor.NewMaskBuffer(w, h)
	for _, s := range spans {
		for i := 0; i < s.Len; i++ {
			buf.Set(s.X+i, s.Y, s.Coverage)
		}
	}
	return buf
}

func invertMaskBuffer(buf *compositor.MaskBuffer) {
	w, h := buf.Width(), buf.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Set(x, y, 255-buf.At(x, y))
		}
	}
}

func convertMaskMode(m model.MaskMode) compositor.MaskMode {
	switch m {
	case model.MaskSubtract:
		return compositor.MaskSubtract
	case model.MaskIntersect:
		return compositor.MaskIntersect
	case model.MaskDifference:
		return compositor.MaskDifference
	default:
		return compositor.MaskAdd
	}
}

func initialMaskFill(m model.MaskMode) uint8 {
	switch m {
	case model.MaskSubtract, model.MaskIntersect:
		return 255
	default:
		return 0
	}
}
