package lottie

import (
	"os"
	"path/filepath"
	"testing"
)

const loopDoc = `{
	"v":"5.5.2","fr":30,"ip":0,"op":3,"w":20,"h":20,
	"layers":[
		{"ty":4,"ind":1,"nm":"rect","ip":0,"op":3,"st":0,
		 "ks":{"o":{"a":0,"k":100},"r":{"a":0,"k":0},
		       "p":{"a":0,"k":[10,10,0]},"a":{"a":0,"k":[0,0,0]},
		       "s":{"a":0,"k":[100,100,100]}},
		 "shapes":[
			{"ty":"rc","p":{"a":0,"k":[0,0]},"s":{"a":0,"k":[8,8]},"r":{"a":0,"k":0}},
			{"ty":"fl","c":{"a":0,"k":[0,1,0,1]},"o":{"a":0,"k":100}}
		 ]}
	]
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// TestPipelineLoopingTimelinePromotesFramesInOrder is spec §8's S4: a
// three-frame looping animation should promote ReadyFrames with indices
// 0,1,2 in order, then wrap back to 0.
func TestPipelineLoopingTimelinePromotesFramesInOrder(t *testing.T) {
	path := writeFixture(t, "loop.json", loopDoc)

	p := NewPipeline()
	var fakeNow float64
	p.clock = func() float64 { return fakeNow }

	r := NewRegistry(p)
	pid := r.Match(path, 20, 20, true, 30)

	p.step() // resolves AddConfig, performs the initial prerender fill

	anim, ok := p.anims[pid]
	if !ok {
		t.Fatal("animation not tracked after AddConfig resolved")
	}
	frameMs := anim.timeline.durationMs
	if frameMs <= 0 {
		t.Fatalf("expected a positive per-frame duration, got %v", frameMs)
	}

	wantIndices := []int{0, 1, 2, 0}
	for i, want := range wantIndices {
		fakeNow += frameMs
		p.step()

		if _, ok := p.popReadyFrame(); !ok {
			t.Fatalf("iteration %d: expected a promoted ReadyFrame, got none", i)
		}
		total := anim.frame.total
		gotIndex := (anim.frame.current - 1 + total) % total
		if gotIndex != want {
			t.Errorf("iteration %d: promoted frame index = %d, want %d", i, gotIndex, want)
		}
	}
}

// TestPipelineDiscardMidFlight is spec §8's S6: enqueueing AddConfig then
// immediately DiscardPid for the same pid must remove the descriptor right
// away, stop the worker from tracking the animation after the second
// iteration, and never publish a ReadyFrame for it.
func TestPipelineDiscardMidFlight(t *testing.T) {
	path := writeFixture(t, "loop.json", loopDoc)

	p := NewPipeline()
	r := NewRegistry(p)
	pid := r.Match(path, 20, 20, true, 30)
	r.Discard(pid)

	if r.has(pid) {
		t.Fatal("registry descriptor should be removed immediately on Discard, before any worker iteration")
	}

	p.step() // resolves AddConfig
	if _, ok := p.anims[pid]; !ok {
		t.Fatal("expected animation tracked after the first worker iteration resolves AddConfig")
	}

	p.step() // resolves DiscardPid
	if _, ok := p.anims[pid]; ok {
		t.Fatal("expected animation no longer tracked after the second worker iteration resolves DiscardPid")
	}

	if _, ok := p.popReadyFrame(); ok {
		t.Error("no ReadyFrame should ever be published for a pid discarded mid-flight")
	}
}

func TestPipelineSetupRenderForcesOneFrameWhilePaused(t *testing.T) {
	path := writeFixture(t, "loop.json", loopDoc)

	p := NewPipeline()
	r := NewRegistry(p)
	pid := r.Match(path, 20, 20, true, 30)
	r.Play(pid, false)

	p.step() // AddConfig
	p.step() // SetupPlay(false)

	anim := p.anims[pid]
	anim.prerenderedFrames.Clear()

	r.Render(pid)
	p.step() // SetupRender

	if anim.play {
		t.Fatal("test setup invariant broken: animation should still be paused")
	}
	if anim.prerenderedFrames.Len() == 0 {
		t.Error("expected SetupRender to force one prerender even while paused")
	}
	if anim.renderOnce {
		t.Error("renderOnce should be cleared after the forced render completes")
	}
}

func TestPropsHashStableAcrossCalls(t *testing.T) {
	h1 := propsHash("a.json", 64, 64, true, 30)
	h2 := propsHash("a.json", 64, 64, true, 30)
	if h1 != h2 {
		t.Errorf("propsHash is not stable: %d vs %d", h1, h2)
	}
}

func TestPipelineCloseBeforeStartIsNoop(t *testing.T) {
	p := NewPipeline()
	if err := p.Close(); err != nil {
		t.Errorf("Close() on a never-started pipeline = %v, want nil", err)
	}
}

func TestPipelineStartAndClose(t *testing.T) {
	p := NewPipeline(WithPollIntervalMillis(1))
	p.Start()
	if err := p.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
