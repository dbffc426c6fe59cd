package model

import (
	"testing"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/geom"
)

func TestPropagateStaticAllStatic(t *testing.T) {
	d := newTestDoc()
	rect := d.ShapeArena().Alloc(Shape{
		Kind:         ShapeRect,
		RectPosition: NewStaticProperty(geom.Point{}),
		RectSize:     NewStaticProperty(geom.Point{X: 10, Y: 10}),
		RectRoundness: NewStaticProperty(0.0),
	})
	layerIdx := d.LayerArena().Alloc(Layer{
		Kind:      LayerShape,
		Transform: NewIdentityTransform(),
		Shapes:    []arena.Index{rect},
	})
	d.Layers = []arena.Index{layerIdx}

	d.PropagateStatic()

	if !d.Layer(layerIdx).Static {
		t.Error("layer with only static properties should be Static")
	}
	if !d.Shape(rect).Static {
		t.Error("shape with only static properties should be Static")
	}
}

func TestPropagateStaticAnimatedPositionInfectsLayer(t *testing.T) {
	d := newTestDoc()
	rect := d.ShapeArena().Alloc(Shape{
		Kind: ShapeRect,
		RectPosition: Property[geom.Point]{
			Lerp: PointLerp,
			Keyframes: []Keyframe[geom.Point]{
				{StartFrame: 0, EndFrame: 10, StartValue: geom.Point{}, EndValue: geom.Point{X: 10}},
			},
		},
		RectSize:      NewStaticProperty(geom.Point{X: 10, Y: 10}),
		RectRoundness: NewStaticProperty(0.0),
	})
	layerIdx := d.LayerArena().Alloc(Layer{
		Kind:      LayerShape,
		Transform: NewIdentityTransform(),
		Shapes:    []arena.Index{rect},
	})
	d.Layers = []arena.Index{layerIdx}

	d.PropagateStatic()

	if d.Shape(rect).Static {
		t.Error("shape with an animated position should not be Static")
	}
	if d.Layer(layerIdx).Static {
		t.Error("layer containing an animated shape should not be Static")
	}
}
