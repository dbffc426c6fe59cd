package parse

import "testing"

const minimalDoc = `{
	"v":"5.5.2","fr":30,"ip":0,"op":60,"w":100,"h":100,
	"assets":[],
	"layers":[
		{"ty":4,"ind":1,"nm":"shape","ip":0,"op":60,"st":0,"ks":{},
			"shapes":[
				{"ty":"rc","p":{"a":0,"k":[50,50]},"s":{"a":0,"k":[20,20]},"r":{"a":0,"k":0}},
				{"ty":"fl","c":{"a":0,"k":[1,0,0,1]},"o":{"a":0,"k":100}}
			]}
	],
	"markers":[{"cm":"start","tm":0,"dr":0}]
}`

func TestParseMinimalDocument(t *testing.T) {
	doc, err := Parse([]byte(minimalDoc), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Width != 100 || doc.Height != 100 {
		t.Errorf("size = %dx%d, want 100x100", doc.Width, doc.Height)
	}
	if doc.TotalFrames() != 60 {
		t.Errorf("TotalFrames() = %v, want 60", doc.TotalFrames())
	}
	if len(doc.Layers) != 1 {
		t.Fatalf("len(Layers) = %d, want 1", len(doc.Layers))
	}
	layer := doc.Layer(doc.Layers[0])
	if len(layer.Shapes) != 2 {
		t.Fatalf("len(Shapes) = %d, want 2", len(layer.Shapes))
	}
	if len(doc.Markers) != 1 || doc.Markers[0].Name != "start" {
		t.Errorf("markers = %+v, want one marker named start", doc.Markers)
	}
}

const precompDoc = `{
	"v":"5.5.2","fr":30,"ip":0,"op":30,"w":50,"h":50,
	"assets":[
		{"id":"comp_0","layers":[
			{"ty":4,"ind":1,"nm":"inner","ip":0,"op":30,"st":0,"ks":{},"shapes":[]}
		]}
	],
	"layers":[
		{"ty":0,"ind":1,"nm":"precomp","refId":"comp_0","ip":0,"op":30,"st":0,"w":50,"h":50,"ks":{}}
	]
}`

func TestParsePrecompResolvesNestedLayers(t *testing.T) {
	doc, err := Parse([]byte(precompDoc), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	layer := doc.Layer(doc.Layers[0])
	if len(layer.PrecompLayers) != 1 {
		t.Fatalf("len(PrecompLayers) = %d, want 1", len(layer.PrecompLayers))
	}
	inner := doc.Layer(layer.PrecompLayers[0])
	if inner.Name.String() != "inner" {
		t.Errorf("inner.Name = %q, want %q", inner.Name.String(), "inner")
	}
}

const matteDoc = `{
	"v":"5.5.2","fr":30,"ip":0,"op":30,"w":50,"h":50,
	"layers":[
		{"ty":1,"ind":1,"nm":"source","ip":0,"op":30,"st":0,"sc":"#ff0000","w":50,"h":50,"ks":{}},
		{"ty":1,"ind":2,"nm":"target","ip":0,"op":30,"st":0,"sc":"#00ff00","w":50,"h":50,"ks":{},"tt":1}
	]
}`

func TestParseMatteLayerPairing(t *testing.T) {
	doc, err := Parse([]byte(matteDoc), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	source := doc.Layer(doc.Layers[0])
	target := doc.Layer(doc.Layers[1])
	if !source.HasMatteSource {
		t.Error("source layer should be marked HasMatteSource")
	}
	if target.MatteMode == 0 {
		t.Error("target layer should carry a non-zero MatteMode")
	}
}
