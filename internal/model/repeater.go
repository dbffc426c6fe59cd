package model

import (
	"math"

	"github.com/dalerank/imlottie-sub000/internal/arena"
)

// ExpandRepeaters walks every layer's shape tree and structurally expands
// each ShapeRepeater into N synthetic ShapeGroup copies, one per index
// 0..maxCopies-1 (spec supplemented feature: Repeater shapes, "ty":"rp").
// Each copy steals the repeater's preceding siblings as its own children
// (the siblings are shared, not cloned — only the wrapping group differs
// per copy) and is tagged IsRepeaterCopy/CopyIndex/RepeaterSource so
// internal/tree can, per frame, hide copies beyond the currently
// evaluated copy count and apply the per-copy incremental transform and
// start/end opacity stagger. Runs once after parsing; re-running on an
// already-expanded tree is a no-op since repeater nodes are consumed by
// their first expansion and synthetic groups are never themselves
// re-scanned for repeaters.
func (d *Document) ExpandRepeaters() {
	for _, idx := range d.Layers {
		d.expandLayerRepeaters(idx)
	}
}

func (d *Document) expandLayerRepeaters(idx arena.Index) {
	layer := d.Layer(idx)
	switch layer.Kind {
	case LayerShape:
		layer.Shapes = d.expandChildren(layer.Shapes)
	case LayerPrecomp:
		for _, cIdx := range layer.PrecompLayers {
			d.expandLayerRepeaters(cIdx)
		}
	}
}

func (d *Document) expandChildren(children []arena.Index) []arena.Index {
	out := make([]arena.Index, 0, len(children))
	var pending []arena.Index

	for _, idx := range children {
		shape := d.Shape(idx)
		if shape.Kind == ShapeGroup && !shape.IsRepeaterCopy {
			shape.Children = d.expandChildren(shape.Children)
		}
		if shape.Kind != ShapeRepeater {
			pending = append(pending, idx)
			continue
		}

		copies := maxRepeaterCopies(&shape.RepeaterCopies)
		template := append([]arena.Index(nil), pending...)
		pending = nil

		if shape.RepeaterComposite {
			for i := copies - 1; i >= 0; i-- {
				out = append(out, d.newRepeaterCopy(idx, i, template))
			}
		} else {
			for i := 0; i < copies; i++ {
				out = append(out, d.newRepeaterCopy(idx, i, template))
			}
		}
	}

	out = append(out, pending...)
	return out
}

func (d *Document) newRepeaterCopy(repeaterIdx arena.Index, copyIndex int, template []arena.Index) arena.Index {
	return d.ShapeArena().Alloc(Shape{
		Kind:           ShapeGroup,
		Transform:      NewIdentityTransform(),
		Children:       template,
		IsRepeaterCopy: true,
		CopyIndex:      copyIndex,
		RepeaterSource: repeaterIdx,
	})
}

// maxRepeaterCopies bounds how many copy groups to materialize: the
// static value if the count isn't animated, otherwise the ceiling of the
// highest value reached across its keyframe timeline (the count actually
// rendered per frame is re-evaluated and clamped by internal/tree).
func maxRepeaterCopies(p *Property[float64]) int {
	if p.Static || len(p.Keyframes) == 0 {
		return clampCopyCount(p.StaticValue)
	}
	best := p.Keyframes[0].StartValue
	for _, kf := range p.Keyframes {
		if kf.StartValue > best {
			best = kf.StartValue
		}
		if kf.EndValue > best {
			best = kf.EndValue
		}
	}
	return clampCopyCount(best)
}

func clampCopyCount(v float64) int {
	if v < 0 {
		return 0
	}
	return int(math.Ceil(v))
}
