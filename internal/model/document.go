// Package model holds the immutable scene model a parsed Lottie document
// is decoded into: layers, shapes, animated properties, masks, and assets,
// arena-indexed rather than pointer-linked so the whole document is one
// contiguous allocation walked by integer index.
package model

import (
	"math"

	"github.com/dalerank/imlottie-sub000/internal/arena"
)

// Document is a fully parsed, immutable Lottie composition: the root
// layer list plus every asset it references, resolved and spliced
// (precomp layers carry their resolved child-layer indices already).
type Document struct {
	Version string

	Width, Height int
	InPoint, OutPoint float64 // "ip"/"op", in the document's own frame space
	FrameRate         float64

	Layers []arena.Index // document root layer list, paint order back-to-front
	Assets map[string]*Asset
	Markers []Marker

	layerArena *arena.Arena[Layer]
	shapeArena *arena.Arena[Shape]
}

// NewDocument allocates a Document with its node arenas pre-sized per
// nodeArenaHint (see WithNodeArenaHint), avoiding reallocation during
// parse for documents of roughly known size.
func NewDocument(nodeArenaHint int) *Document {
	return &Document{
		Assets:     make(map[string]*Asset),
		layerArena: arena.New[Layer](nodeArenaHint),
		shapeArena: arena.New[Shape](nodeArenaHint),
	}
}

// Layers returns the arena backing layer storage, for parser and render
// tree construction.
func (d *Document) LayerArena() *arena.Arena[Layer] { return d.layerArena }

// Shapes returns the arena backing shape-item storage.
func (d *Document) ShapeArena() *arena.Arena[Shape] { return d.shapeArena }

// Layer resolves a layer index to its node.
func (d *Document) Layer(idx arena.Index) *Layer { return d.layerArena.Get(idx) }

// Shape resolves a shape index to its node.
func (d *Document) Shape(idx arena.Index) *Shape { return d.shapeArena.Get(idx) }

// TotalFrames is the document's playable duration in frames (spec §3).
func (d *Document) TotalFrames() float64 {
	return d.OutPoint - d.InPoint
}

// Duration is the document's playable duration in seconds.
func (d *Document) Duration() float64 {
	if d.FrameRate <= 0 {
		return 0
	}
	return d.TotalFrames() / d.FrameRate
}

// FrameAtPos maps a normalized playback position in [0,1] to an absolute
// frame number, per spec §3's FrameAtPos contract: pos is clamped to
// [0,1] and the result spans [InPoint, OutPoint-1].
func (d *Document) FrameAtPos(pos float64) float64 {
	if pos < 0 {
		pos = 0
	} else if pos > 1 {
		pos = 1
	}
	total := d.TotalFrames()
	if total <= 1 {
		return d.InPoint
	}
	return d.InPoint + math.Round(pos*(total-1))
}

// LayerByID finds a root (or precomp-spliced) layer by its Lottie "ind"
// field, used to resolve "parent" references. Parent resolution happens
// once during parse and is cached on the Layer (HasParent/Parent), so
// this is only needed during that pass.
func (d *Document) LayerByID(layers []arena.Index, id int) (arena.Index, bool) {
	for _, idx := range layers {
		if d.Layer(idx).ID == id {
			return idx, true
		}
	}
	return 0, false
}
