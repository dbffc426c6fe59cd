package parse

import "testing"

func TestParseFloatPropertyStatic(t *testing.T) {
	r := NewReader([]byte(`{"a":0,"k":50}`))
	p := parseFloatProperty(r)
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if !p.IsStatic() {
		t.Error("expected static property")
	}
	if got := p.Eval(0); got != 50 {
		t.Errorf("Eval(0) = %v, want 50", got)
	}
}

func TestParseFloatPropertyKeyframed(t *testing.T) {
	r := NewReader([]byte(`{"a":1,"k":[
		{"t":0,"s":[0],"h":0},
		{"t":10,"s":[100]}
	]}`))
	p := parseFloatProperty(r)
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if got := p.Eval(0); got != 0 {
		t.Errorf("Eval(0) = %v, want 0", got)
	}
	if got := p.Eval(5); got != 50 {
		t.Errorf("Eval(5) = %v, want 50", got)
	}
	if got := p.Eval(10); got != 100 {
		t.Errorf("Eval(10) = %v, want 100", got)
	}
	if got := p.Eval(100); got != 100 {
		t.Errorf("Eval(100) = %v, want 100 (holds past the last keyframe)", got)
	}
}

func TestParseFloatPropertyHold(t *testing.T) {
	r := NewReader([]byte(`{"a":1,"k":[
		{"t":0,"s":[0],"h":1},
		{"t":10,"s":[100]}
	]}`))
	p := parseFloatProperty(r)
	if got := p.Eval(5); got != 0 {
		t.Errorf("Eval(5) = %v, want 0 (held)", got)
	}
}

func TestParsePointPropertyStatic(t *testing.T) {
	r := NewReader([]byte(`{"a":0,"k":[10,20,0]}`))
	p := parsePointProperty(r)
	v := p.Eval(0)
	if v.X != 10 || v.Y != 20 {
		t.Errorf("Eval(0) = %+v, want {10 20}", v)
	}
}

func TestParseColorPropertyStatic(t *testing.T) {
	r := NewReader([]byte(`{"a":0,"k":[1,0,0,1]}`))
	p := parseColorProperty(r)
	v := p.Eval(0)
	if v.R != 1 || v.G != 0 || v.B != 0 || v.A != 1 {
		t.Errorf("Eval(0) = %+v, want {1 0 0 1}", v)
	}
}

func TestParsePropertyWithEasing(t *testing.T) {
	r := NewReader([]byte(`{"a":1,"k":[
		{"t":0,"s":[0],"o":{"x":0.25,"y":0.1},"i":{"x":0.25,"y":1}},
		{"t":10,"s":[100]}
	]}`))
	p := parseFloatProperty(r)
	mid := p.Eval(5)
	if mid <= 0 || mid >= 100 {
		t.Errorf("Eval(5) = %v, want strictly within (0,100)", mid)
	}
}
