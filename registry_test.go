package lottie

import "testing"

func TestRegistryMatchIsIdempotent(t *testing.T) {
	p := NewPipeline()
	r := NewRegistry(p)

	pid1 := r.Match("a.json", 64, 64, true, 30)
	pid2 := r.Match("a.json", 64, 64, true, 30)

	if pid1 != pid2 {
		t.Fatalf("Match() returned different pids for identical arguments: %d vs %d", pid1, pid2)
	}
	if pid1 == BadPictureID {
		t.Fatal("Match() returned BadPictureID for a well-formed request")
	}

	r.mu.Lock()
	n := len(r.entries)
	r.mu.Unlock()
	if n != 1 {
		t.Errorf("expected exactly one registry entry after two identical Match calls, got %d", n)
	}

	p.cmdMu.Lock()
	queued := len(p.cmdQueue)
	p.cmdMu.Unlock()
	if queued != 1 {
		t.Errorf("expected exactly one AddConfig enqueued, got %d pending commands", queued)
	}
}

func TestRegistryMatchDistinguishesParams(t *testing.T) {
	p := NewPipeline()
	r := NewRegistry(p)

	pid1 := r.Match("a.json", 64, 64, true, 30)
	pid2 := r.Match("a.json", 128, 64, true, 30)
	pid3 := r.Match("a.json", 64, 64, false, 30)

	if pid1 == pid2 || pid1 == pid3 || pid2 == pid3 {
		t.Errorf("expected distinct pids for distinct (w,h,loop) tuples, got %d %d %d", pid1, pid2, pid3)
	}
}

func TestRegistryPlayIdempotent(t *testing.T) {
	p := NewPipeline()
	r := NewRegistry(p)
	pid := r.Match("a.json", 64, 64, true, 30)

	r.Play(pid, true)
	r.Play(pid, true)

	p.cmdMu.Lock()
	queued := len(p.cmdQueue)
	p.cmdMu.Unlock()
	// one AddConfig from Match plus two SetupPlay from the two Play calls;
	// idempotence here means repeating the same call has the same
	// observable effect each time, not that it collapses into one command.
	if queued != 3 {
		t.Fatalf("expected 3 queued commands (AddConfig + 2x SetupPlay), got %d", queued)
	}
}

func TestRegistryDiscardThenRenderIsSafe(t *testing.T) {
	p := NewPipeline()
	r := NewRegistry(p)
	pid := r.Match("a.json", 64, 64, true, 30)

	r.Discard(pid)
	r.Render(pid) // must not panic, enqueue, or otherwise affect state

	if r.has(pid) {
		t.Error("descriptor should be removed immediately on Discard")
	}

	p.cmdMu.Lock()
	queued := len(p.cmdQueue)
	p.cmdMu.Unlock()
	// AddConfig + DiscardPid; Render after Discard must not enqueue
	// SetupRender since the descriptor no longer exists.
	if queued != 2 {
		t.Errorf("expected 2 queued commands (AddConfig + DiscardPid), got %d", queued)
	}
}

func TestRegistryImageUnknownPidReturnsNil(t *testing.T) {
	p := NewPipeline()
	r := NewRegistry(p)

	if got := r.Image(12345); got != nil {
		t.Errorf("Image() for unknown pid = %v, want nil", got)
	}
}

func TestRegistryUploadPublishesTextureHandle(t *testing.T) {
	p := NewPipeline()
	r := NewRegistry(p)
	pid := r.Match("a.json", 64, 64, true, 30)

	p.pushReady(ReadyFrame{Pid: pid, Data: []byte{1, 2, 3, 4}, Width: 64, Height: 64})

	var uploadedPid uint32
	r.UploadReadyFramesToSysTex(func(pid uint32, data []byte, width, height int) any {
		uploadedPid = pid
		return "texture-handle"
	})

	if uploadedPid != pid {
		t.Errorf("upload callback saw pid %d, want %d", uploadedPid, pid)
	}
	if got := r.Image(pid); got != "texture-handle" {
		t.Errorf("Image() = %v, want %q", got, "texture-handle")
	}
}

func TestPropsHashNeverReturnsBadPictureID(t *testing.T) {
	// sweep a range of inputs; none should ever collide with the sentinel.
	for i := 0; i < 1000; i++ {
		h := propsHash("some/path.json", i, i+1, i%2 == 0, 24)
		if h == BadPictureID {
			t.Fatalf("propsHash produced BadPictureID for input %d", i)
		}
	}
}
