package tree

import (
	"testing"

	"github.com/dalerank/imlottie-sub000/internal/compositor"
	"github.com/dalerank/imlottie-sub000/internal/parse"
)

func mustParse(t *testing.T, docJSON string) *Tree {
	t.Helper()
	doc, err := parse.Parse([]byte(docJSON), parse.Options{})
	if err != nil {
		t.Fatalf("parse.Parse() error = %v", err)
	}
	return New(doc, nil, nil)
}

// TestRenderSolidRectExactPremultipliedColor is spec §8's S1: a single
// opaque red solid layer covering the whole canvas must render every pixel
// to the exact premultiplied BGRA value `00 00 FF FF`, not merely a
// non-zero alpha.
func TestRenderSolidRectExactPremultipliedColor(t *testing.T) {
	const doc = `{
		"v":"5.5.2","fr":30,"ip":0,"op":2,"w":32,"h":32,
		"layers":[
			{"ty":1,"ind":1,"nm":"bg","ip":0,"op":2,"st":0,
			 "ks":{"o":{"a":0,"k":100},"r":{"a":0,"k":0},
			       "p":{"a":0,"k":[0,0,0]},"a":{"a":0,"k":[0,0,0]},
			       "s":{"a":0,"k":[100,100,100]}},
			 "w":32,"h":32,"sc":"#ff0000"}
		]
	}`

	tr := mustParse(t, doc)
	surface := compositor.NewSurface(32, 32)
	tr.Render(surface, 0)

	data := surface.Data()
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			i := y*surface.Stride() + x*4
			b, g, r, a := data[i], data[i+1], data[i+2], data[i+3]
			if b != 0x00 || g != 0x00 || r != 0xFF || a != 0xFF {
				t.Fatalf("pixel (%d,%d) = %02X %02X %02X %02X, want 00 00 FF FF", x, y, b, g, r, a)
			}
		}
	}
}

// TestRenderAlphaMatteGatesLayerToSourceShape is spec §8's S2: a white
// 10x10 matte source gates a full-canvas green layer down to a 10x10
// opaque square at the origin, transparent everywhere else. Per the
// matte-pairing rule (a layer with tt != 0 consumes the layer immediately
// preceding it in the array as its matte source), the white source layer
// is listed first and the green consumer carries "tt":1.
func TestRenderAlphaMatteGatesLayerToSourceShape(t *testing.T) {
	const doc = `{
		"v":"5.5.2","fr":30,"ip":0,"op":1,"w":20,"h":20,
		"layers":[
			{"ty":1,"ind":1,"nm":"matte","ip":0,"op":1,"st":0,
			 "ks":{"o":{"a":0,"k":100},"r":{"a":0,"k":0},
			       "p":{"a":0,"k":[0,0,0]},"a":{"a":0,"k":[0,0,0]},
			       "s":{"a":0,"k":[100,100,100]}},
			 "w":10,"h":10,"sc":"#ffffff"},
			{"ty":1,"ind":2,"nm":"bg","ip":0,"op":1,"st":0,"tt":1,
			 "ks":{"o":{"a":0,"k":100},"r":{"a":0,"k":0},
			       "p":{"a":0,"k":[0,0,0]},"a":{"a":0,"k":[0,0,0]},
			       "s":{"a":0,"k":[100,100,100]}},
			 "w":20,"h":20,"sc":"#00ff00"}
		]
	}`

	tr := mustParse(t, doc)
	surface := compositor.NewSurface(20, 20)
	tr.Render(surface, 0)

	inside := surface.At(5, 5)
	if inside.A == 0 {
		t.Errorf("pixel (5,5) inside the matte shape has zero alpha, want opaque green")
	}
	if inside.G < 0.9 {
		t.Errorf("pixel (5,5) green channel = %v, want near 1.0", inside.G)
	}

	outside := surface.At(15, 15)
	if outside.A != 0 {
		t.Errorf("pixel (15,15) outside the matte shape = %+v, want fully transparent", outside)
	}

	// The matte source layer itself must never be drawn directly; only its
	// gating effect on the following layer should be visible.
	corner := surface.At(0, 0)
	if corner.R > 0.1 || corner.G < 0.9 || corner.B > 0.1 {
		t.Errorf("pixel (0,0) = %+v, want green (matte source's own white must not show through)", corner)
	}
}
