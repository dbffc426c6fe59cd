package lottie

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalerank/imlottie-sub000/internal/arena"
	"github.com/dalerank/imlottie-sub000/internal/errkind"
	"golang.org/x/sync/semaphore"
)

// Pipeline is the background worker described in spec §4.8/§5: a single
// cooperative loop that owns every live animation, advances timelines,
// keeps each one's prerender ring full, and publishes promoted frames to a
// ready queue the foreground drains via UploadReadyFramesToSysTex. The
// foreground never blocks on it.
type Pipeline struct {
	opts pipelineOptions
	log  *slog.Logger

	// cmdSem bounds the pending command count at opts.commandQueueCap;
	// enqueue silently drops once it is exhausted (spec §4.8's flood
	// control), rather than a hand-rolled length check against a mutex.
	cmdSem   *semaphore.Weighted
	cmdMu    sync.Mutex
	cmdQueue []command

	readyMu sync.Mutex
	ready   *arena.RingBuffer[ReadyFrame]

	// anims is owned exclusively by the worker goroutine once Start has
	// been called; nothing else may read or write it (spec §5).
	anims map[uint32]*lottieAnim

	terminate atomic.Bool
	running   atomic.Bool
	stopped   chan struct{}

	// clock returns the worker's current-time cursor in milliseconds.
	// Defaults to the wall clock; overridable in tests so timeline
	// advancement (spec §8 S4) is deterministic.
	clock func() float64
}

// NewPipeline builds a Pipeline. Start must be called before any enqueued
// command is processed.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	o := defaultPipelineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &Pipeline{
		opts:   o,
		log:    Logger(),
		cmdSem: semaphore.NewWeighted(int64(o.commandQueueCap)),
		anims:  make(map[uint32]*lottieAnim),
		clock:  msNow,
	}
	p.resizeReadyRing()
	return p
}

// Start launches the worker goroutine. Calling Start more than once is a
// no-op.
func (p *Pipeline) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.resizeReadyRing()
	p.stopped = make(chan struct{})
	go p.run()
}

// Close signals the worker to terminate at its next iteration boundary and
// blocks until it has exited or timeout elapses, whichever comes first —
// the joinable shutdown the design notes recommend over a detached thread.
func (p *Pipeline) Close() error {
	if !p.running.Load() {
		return nil
	}
	p.terminate.Store(true)
	select {
	case <-p.stopped:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("lottie: %s: pipeline did not stop within timeout", errkind.Terminated)
	}
}

func (p *Pipeline) run() {
	defer close(p.stopped)
	p.log.Debug("pipeline worker started")
	for {
		if p.terminate.Load() {
			p.log.Debug("pipeline worker stopped")
			return
		}
		if !p.step() {
			time.Sleep(time.Duration(p.opts.pollInterval) * time.Millisecond)
		}
	}
}

// step runs exactly one worker iteration (spec §4.8): drain at most one
// command, then tick every live animation. It reports whether any
// animation was ticked, so run's idle sleep only fires on a genuinely
// empty map. Exposed to tests so scenarios like S4's "poll three worker
// iterations" can be driven deterministically instead of racing real time.
func (p *Pipeline) step() bool {
	if cmd, ok := p.popCommand(); ok {
		p.resolveCommand(cmd)
	}
	if len(p.anims) == 0 {
		return false
	}
	for pid, anim := range p.anims {
		if p.terminate.Load() {
			return true
		}
		p.tickAnimation(pid, anim)
	}
	return true
}

func (p *Pipeline) resolveCommand(cmd command) {
	switch cmd.kind {
	case cmdAddConfig:
		p.resolveAddConfig(cmd)
	case cmdSetupPid:
		if a, ok := p.anims[cmd.propsHash]; ok {
			delete(p.anims, cmd.propsHash)
			a.pid = cmd.pid
			p.anims[cmd.pid] = a
		}
	case cmdSetupPlay:
		if a, ok := p.anims[cmd.pid]; ok {
			a.play = cmd.play
		}
	case cmdSetupRender:
		if a, ok := p.anims[cmd.pid]; ok {
			a.renderOnce = true
		}
	case cmdDiscardPid:
		if a, ok := p.anims[cmd.pid]; ok {
			a.canvas.Close()
			delete(p.anims, cmd.pid)
			p.resizeReadyRing()
		}
	}
}

func (p *Pipeline) resolveAddConfig(cmd command) {
	anim, err := LoadFromFile(cmd.path, cmd.width, cmd.height)
	if err != nil {
		p.log.Warn("add config", "kind", errkind.LoadError.String(), "pid", cmd.pid, "path", cmd.path, "error", err)
		return
	}
	now := p.clock()
	p.anims[cmd.pid] = &lottieAnim{
		pid:    cmd.pid,
		canvas: anim,
		timeline: timeline{
			durationMs: 1000 / anim.FrameRate(),
			lastMs:     now,
		},
		frame:                frameCounter{current: 0, total: int(anim.TotalFrames())},
		loop:                 cmd.loop,
		play:                 true,
		maxPrerenderedFrames: p.opts.prerenderRingCap,
		prerenderedFrames:    arena.NewRingBuffer[nextFrame](p.opts.prerenderRingCap),
	}
	p.resizeReadyRing()
}

// tickAnimation implements spec §4.8 step 3: promote a prerendered frame
// into currentFrame when its timeline has advanced a full frame, then top
// up the prerender ring.
func (p *Pipeline) tickAnimation(pid uint32, anim *lottieAnim) {
	if anim.play {
		if p.advanceTimeline(anim) {
			p.pushReady(anim.currentFrame)
		}
	}
	if anim.prerenderedFrames.Len() >= anim.prerenderedFrames.Cap() {
		return
	}
	if !anim.play && !anim.renderOnce {
		return
	}
	if p.prerenderNext(anim) {
		anim.renderOnce = false
	}
}

func (p *Pipeline) advanceTimeline(anim *lottieAnim) bool {
	if anim.timeline.durationMs <= 0 {
		return false
	}
	curTimeMs := p.clock()
	frameDiff := (curTimeMs - anim.timeline.lastMs) / anim.timeline.durationMs
	// A tiny epsilon absorbs floating-point drift in curTimeMs/lastMs
	// bookkeeping (and real clock jitter) so a frame boundary reached
	// within float64 precision of 1.0 still counts as elapsed.
	const frameEpsilon = 1e-9
	if frameDiff < 1-frameEpsilon {
		return false
	}
	nf, ok := anim.prerenderedFrames.Pop()
	if !ok {
		return false
	}
	w, h := anim.canvas.Size()
	anim.currentFrame = ReadyFrame{Pid: anim.pid, Data: nf.data, Width: w, Height: h}
	anim.frame.current++
	if anim.loop && anim.frame.total > 0 {
		anim.frame.current %= anim.frame.total
	}
	anim.timeline.lastMs += frameDiff * anim.timeline.durationMs
	return true
}

// prerenderNext renders the next missing prerender slot (frame.current +
// however many frames are already queued), looping the index when
// configured. It reports whether a frame was actually rendered — false
// when a non-looping animation has run past its last frame.
func (p *Pipeline) prerenderNext(anim *lottieAnim) bool {
	if anim.frame.total <= 0 {
		return false
	}
	nextIndex := anim.frame.current + anim.prerenderedFrames.Len()
	if anim.loop {
		nextIndex %= anim.frame.total
	} else if nextIndex >= anim.frame.total {
		return false
	}

	w, h := anim.canvas.Size()
	buf := make([]byte, w*h*4)
	if _, err := anim.canvas.RenderSync(float64(nextIndex), buf, w*4); err != nil {
		p.log.Warn("prerender frame", "pid", anim.pid, "frame", nextIndex, "error", err)
		return false
	}
	anim.prerenderedFrames.Push(nextFrame{index: nextIndex, data: buf})
	return true
}

func (p *Pipeline) enqueue(cmd command) {
	if !p.cmdSem.TryAcquire(1) {
		p.log.Debug("command queue full, dropping command", "kind", int(cmd.kind))
		return
	}
	p.cmdMu.Lock()
	p.cmdQueue = append(p.cmdQueue, cmd)
	p.cmdMu.Unlock()
}

func (p *Pipeline) popCommand() (command, bool) {
	p.cmdMu.Lock()
	if len(p.cmdQueue) == 0 {
		p.cmdMu.Unlock()
		return command{}, false
	}
	cmd := p.cmdQueue[0]
	p.cmdQueue = p.cmdQueue[1:]
	p.cmdMu.Unlock()
	p.cmdSem.Release(1)
	return cmd, true
}

// resizeReadyRing keeps the ready-frame queue sized to 2x the number of
// live animations (spec §3/§5), reallocating and carrying over any
// buffered frames when the live count changes. Called from the worker
// goroutine only, so no lock is needed around the len(p.anims) read.
func (p *Pipeline) resizeReadyRing() {
	want := p.opts.readyQueueCap
	if want <= 0 {
		want = 2 * len(p.anims)
		if want < 2 {
			want = 2
		}
	}

	p.readyMu.Lock()
	defer p.readyMu.Unlock()
	if p.ready != nil && p.ready.Cap() == want {
		return
	}
	next := arena.NewRingBuffer[ReadyFrame](want)
	if p.ready != nil {
		for {
			v, ok := p.ready.Pop()
			if !ok {
				break
			}
			next.Push(v)
		}
	}
	p.ready = next
}

func (p *Pipeline) pushReady(f ReadyFrame) {
	p.readyMu.Lock()
	p.ready.Push(f)
	p.readyMu.Unlock()
}

func (p *Pipeline) popReadyFrame() (ReadyFrame, bool) {
	p.readyMu.Lock()
	defer p.readyMu.Unlock()
	if p.ready == nil {
		return ReadyFrame{}, false
	}
	return p.ready.Pop()
}

// msNow is the worker's current-time cursor (spec §4.8's "current-time
// cursor set from the foreground"): this implementation reads the wall
// clock directly each tick rather than threading a foreground-supplied
// timestamp through a command, since nothing in the command set (§3)
// actually carries one.
func msNow() float64 {
	return float64(time.Now().UnixMilli())
}
