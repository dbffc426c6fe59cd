package parse

import "testing"

func TestParsePathPropertyStaticRect(t *testing.T) {
	r := NewReader([]byte(`{"a":0,"k":{
		"c":true,
		"v":[[0,0],[10,0],[10,10],[0,10]],
		"i":[[0,0],[0,0],[0,0],[0,0]],
		"o":[[0,0],[0,0],[0,0],[0,0]]
	}}`))
	p := parsePathProperty(r)
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	path := p.Eval(0)
	if len(path.Elements) == 0 {
		t.Fatal("expected a non-empty path")
	}
	if path.IsEmpty() {
		t.Error("expected path to not report empty once built")
	}
}

func TestParsePathPropertyOpenPathSegmentCount(t *testing.T) {
	r := NewReader([]byte(`{"a":0,"k":{
		"c":false,
		"v":[[0,0],[10,0],[10,10]],
		"i":[[0,0],[0,0],[0,0]],
		"o":[[0,0],[0,0],[0,0]]
	}}`))
	p := parsePathProperty(r)
	path := p.Eval(0)
	// MoveTo + 2 CubicTo segments for an open 3-vertex path, no Close.
	if len(path.Elements) != 3 {
		t.Errorf("len(Elements) = %d, want 3", len(path.Elements))
	}
}
