package lottie

import (
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
)

// BadPictureID is the sentinel pid value match() never returns for a
// successfully registered animation. propsHash of a well-formed request
// cannot legitimately collide with the sentinel itself (see reservePid),
// so a caller can treat 0 as "no picture" unconditionally.
const BadPictureID uint32 = 0

// registryEntry is one frontend-visible descriptor: size and playback
// config for a matched animation, plus the texture handle the host's
// upload hook publishes into it. The pipeline worker never touches this
// map (spec §5: "Registry map: accessed by foreground only").
type registryEntry struct {
	path   string
	width  int
	height int
	loop   bool
	rate   int
	pid    uint32

	texture atomic.Pointer[any]
}

// Registry is the frontend-facing handle table (spec §4.9's "I"): it maps
// a (path,w,h,loop,rate) tuple to a stable pid, and turns host calls into
// commands for the Pipeline worker. The registry map is guarded by its own
// mutex, distinct from the pipeline's command-queue and ready-queue locks.
type Registry struct {
	mu      sync.Mutex
	entries map[uint32]*registryEntry

	pipeline *Pipeline
}

// NewRegistry builds a Registry that enqueues commands onto p.
func NewRegistry(p *Pipeline) *Registry {
	return &Registry{entries: make(map[uint32]*registryEntry), pipeline: p}
}

// propsHash computes the spec's FNV-like pid: a hash of
// "lottie:{path}|canvasHeight:{h}|canvasWidth:{w}|loop:{0|1}|rate:{r}".
func propsHash(path string, w, h int, loop bool, rate int) uint32 {
	loopDigit := "0"
	if loop {
		loopDigit = "1"
	}
	var b []byte
	b = append(b, "lottie:"...)
	b = append(b, path...)
	b = append(b, "|canvasHeight:"...)
	b = strconv.AppendInt(b, int64(h), 10)
	b = append(b, "|canvasWidth:"...)
	b = strconv.AppendInt(b, int64(w), 10)
	b = append(b, "|loop:"...)
	b = append(b, loopDigit...)
	b = append(b, "|rate:"...)
	b = strconv.AppendInt(b, int64(rate), 10)

	h32 := fnv.New32a()
	h32.Write(b)
	sum := h32.Sum32()
	if sum == BadPictureID {
		// re-salt: a hash landing on the sentinel is vanishingly rare but
		// must never be handed out as a real pid.
		h32.Write([]byte{0xa5})
		sum = h32.Sum32()
		if sum == BadPictureID {
			sum = 1
		}
	}
	return sum
}

// Match registers (or returns the existing pid for) an animation with the
// given parameters, enqueueing AddConfig on first registration. Calling
// Match again with identical arguments returns the same pid without a
// second AddConfig (spec §8's "match twice with equal arguments").
func (r *Registry) Match(path string, w, h int, loop bool, rate int) uint32 {
	if path == "" {
		return BadPictureID
	}
	pid := propsHash(path, w, h, loop, rate)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[pid]; exists {
		return pid
	}
	r.entries[pid] = &registryEntry{path: path, width: w, height: h, loop: loop, rate: rate, pid: pid}
	r.pipeline.enqueue(addConfigCommand(path, w, h, loop, rate, pid))
	return pid
}

// Render requests at least one more rendered frame for pid.
func (r *Registry) Render(pid uint32) {
	if !r.has(pid) {
		return
	}
	r.pipeline.enqueue(setupRenderCommand(pid))
}

// Play enables or disables timeline advancement for pid.
func (r *Registry) Play(pid uint32, on bool) {
	if !r.has(pid) {
		return
	}
	r.pipeline.enqueue(setupPlayCommand(pid, on))
}

// Discard forgets pid: the descriptor is removed immediately, and the
// worker is told to drop the animation on its next iteration.
func (r *Registry) Discard(pid uint32) {
	r.mu.Lock()
	delete(r.entries, pid)
	r.mu.Unlock()
	r.pipeline.enqueue(discardPidCommand(pid))
}

// Image returns the opaque texture handle published for pid by
// UploadReadyFramesToSysTex, or nil if none has been published yet (or pid
// is unknown). The load is atomic but the descriptor lookup itself still
// takes the registry mutex, per spec §9's note that only the texture slot
// read is intentionally lock-free.
func (r *Registry) Image(pid uint32) any {
	r.mu.Lock()
	e, ok := r.entries[pid]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	if v := e.texture.Load(); v != nil {
		return *v
	}
	return nil
}

// UploadReadyFramesToSysTex drains the pipeline's ready-frame queue and
// publishes each frame's pixels into the descriptor's texture slot via
// upload. upload is the host's device/command-context-specific texture
// create-or-update call (spec §6: "Format = BGRA8 unorm, dynamic usage,
// row pitch honored by the device driver") — this package has no GPU
// device binding of its own, so the host supplies it.
func (r *Registry) UploadReadyFramesToSysTex(upload UploadFunc) {
	for {
		frame, ok := r.pipeline.popReadyFrame()
		if !ok {
			return
		}
		handle := upload(frame.Pid, frame.Data, frame.Width, frame.Height)

		r.mu.Lock()
		e, exists := r.entries[frame.Pid]
		r.mu.Unlock()
		if !exists {
			continue
		}
		e.texture.Store(&handle)
	}
}

func (r *Registry) has(pid uint32) bool {
	r.mu.Lock()
	_, ok := r.entries[pid]
	r.mu.Unlock()
	return ok
}
