package model

import (
	"testing"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/geom"
)

func newTestDoc() *Document {
	return NewDocument(32)
}

func TestExpandRepeatersCreatesCopies(t *testing.T) {
	d := newTestDoc()

	rect := d.ShapeArena().Alloc(Shape{
		Kind:         ShapeRect,
		RectPosition: NewStaticProperty(geom.Point{X: 0, Y: 0}),
		RectSize:     NewStaticProperty(geom.Point{X: 10, Y: 10}),
	})
	repeater := d.ShapeArena().Alloc(Shape{
		Kind:                 ShapeRepeater,
		RepeaterCopies:       NewStaticProperty(3.0),
		RepeaterStartOpacity: NewStaticProperty(100.0),
		RepeaterEndOpacity:   NewStaticProperty(20.0),
	})

	layerIdx := d.LayerArena().Alloc(Layer{
		Kind:      LayerShape,
		Transform: NewIdentityTransform(),
		Shapes:    []arena.Index{rect, repeater},
	})
	d.Layers = []arena.Index{layerIdx}

	d.ExpandRepeaters()

	layer := d.Layer(layerIdx)
	if len(layer.Shapes) != 3 {
		t.Fatalf("len(layer.Shapes) = %d, want 3 copy groups", len(layer.Shapes))
	}
	for i, idx := range layer.Shapes {
		g := d.Shape(idx)
		if g.Kind != ShapeGroup || !g.IsRepeaterCopy {
			t.Fatalf("shapes[%d] is not a repeater copy group: %+v", i, g)
		}
		if g.CopyIndex != i {
			t.Errorf("shapes[%d].CopyIndex = %d, want %d", i, g.CopyIndex, i)
		}
		if len(g.Children) != 1 || g.Children[0] != rect {
			t.Errorf("shapes[%d].Children = %v, want [%v]", i, g.Children, rect)
		}
	}
}

func TestExpandRepeatersNoRepeaterIsNoop(t *testing.T) {
	d := newTestDoc()
	rect := d.ShapeArena().Alloc(Shape{Kind: ShapeRect})
	layerIdx := d.LayerArena().Alloc(Layer{
		Kind:      LayerShape,
		Transform: NewIdentityTransform(),
		Shapes:    []arena.Index{rect},
	})
	d.Layers = []arena.Index{layerIdx}

	d.ExpandRepeaters()

	if got := d.Layer(layerIdx).Shapes; len(got) != 1 || got[0] != rect {
		t.Errorf("Shapes = %v, want unchanged [%v]", got, rect)
	}
}

