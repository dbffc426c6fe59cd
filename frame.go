package lottie

import "github.com/dalerank/imlottie-sub000/internal/arena"

// ReadyFrame is one frame promoted for upload: the pixel buffer a host
// hands to its texture-upload step (spec §3, §6's
// uploadReadyFramesToSysTex).
type ReadyFrame struct {
	Pid    uint32
	Data   []byte
	Width  int
	Height int
}

// nextFrame is one prerendered-but-not-yet-current frame sitting in an
// animation's prerender ring, tagged with the frame index it was rendered
// for so promotion can advance frame.current correctly even when the ring
// holds more than one slot.
type nextFrame struct {
	index int
	data  []byte
}

// timeline tracks an animation's wall-clock cursor against its authored
// per-frame duration (spec §4.8 step 3b: frameDiff =
// (curTime-last_ms)/duration_ms, where duration_ms is the time one frame
// occupies at the document's frame rate, i.e. 1000/frameRate).
type timeline struct {
	durationMs float64
	lastMs     float64
}

// frameCounter tracks playhead position separately from timeline, since
// advancing the frame index wraps modulo total when looping but the
// timeline cursor accumulates unboundedly.
type frameCounter struct {
	current int
	total   int
}

// lottieAnim is one live animation owned exclusively by the pipeline
// worker goroutine (spec §4.8's LottieAnim, §5: "worker's pid->LottieAnim
// map: accessed by worker only").
type lottieAnim struct {
	pid    uint32
	canvas *Animation

	timeline timeline
	frame    frameCounter

	loop                 bool
	play                 bool
	renderOnce           bool
	maxPrerenderedFrames int

	prerenderedFrames *arena.RingBuffer[nextFrame]
	currentFrame      ReadyFrame

	rendering bool // per-animation renderSync reentrancy guard (spec §5)
}
