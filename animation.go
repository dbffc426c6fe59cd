package lottie

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dalerank/imlottie-sub000/internal/compositor"
	"github.com/dalerank/imlottie-sub000/internal/errkind"
	"github.com/dalerank/imlottie-sub000/internal/model"
	"github.com/dalerank/imlottie-sub000/internal/parse"
	"github.com/dalerank/imlottie-sub000/internal/tree"
)

// Animation is a single parsed Lottie document, ready to render frames
// synchronously. It owns a reusable render surface sized to the
// dimensions passed at load time; concurrent RenderSync calls on the same
// Animation are rejected rather than serialized, since the surface and
// render tree are not safe for concurrent use.
type Animation struct {
	doc     *model.Document
	rtree   *tree.Tree
	surface *compositor.Surface

	width, height int
	rendering     atomic.Bool
	closed        atomic.Bool
}

// Load parses a Lottie document from JSON bytes into an Animation sized
// width x height.
func Load(data []byte, width, height int, opts ...AnimationOption) (*Animation, error) {
	return loadFrom(data, "", width, height, opts...)
}

// LoadFromFile reads and parses a Lottie document from path, resolving any
// file-based (non-embedded) image assets relative to path's directory.
func LoadFromFile(path string, width, height int, opts ...AnimationOption) (*Animation, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		Logger().Warn("read animation file", "kind", errkind.LoadError.String(), "path", path, "error", err)
		return nil, fmt.Errorf("lottie: read %q: %w", path, err)
	}
	return loadFrom(data, filepath.Dir(path), width, height, opts...)
}

func loadFrom(data []byte, docDir string, width, height int, opts ...AnimationOption) (*Animation, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("lottie: width/height must be positive, got %dx%d", width, height)
	}

	o := defaultAnimationOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	doc, err := parse.Parse(data, parse.Options{
		Logger:        log,
		DocDir:        docDir,
		NodeArenaHint: o.nodeArenaHint,
	})
	if err != nil {
		log.Warn("parse animation", "kind", errkind.ParseError.String(), "error", err)
		return nil, fmt.Errorf("lottie: %w", err)
	}
	if doc.Width <= 0 || doc.Height <= 0 || len(doc.Layers) == 0 {
		log.Warn("load animation", "kind", errkind.LoadError.String(), "error", "empty composition")
		return nil, fmt.Errorf("lottie: %w", errEmptyComposition)
	}

	anim := &Animation{
		doc:     doc,
		rtree:   tree.New(doc, log, o.decoder),
		surface: compositor.NewSurface(width, height),
		width:   width,
		height:  height,
	}
	log.Info("animation loaded", "width", width, "height", height, "frames", doc.TotalFrames(), "frame_rate", doc.FrameRate)
	return anim, nil
}

var errEmptyComposition = fmt.Errorf("document has no root layers or zero-sized composition")

// TotalFrames returns the document's playable duration in frames.
func (a *Animation) TotalFrames() float64 { return a.doc.TotalFrames() }

// Duration returns the document's playable duration in seconds.
func (a *Animation) Duration() float64 { return a.doc.Duration() }

// FrameRate returns the document's authored frame rate.
func (a *Animation) FrameRate() float64 { return a.doc.FrameRate }

// FrameAtPos maps a normalized playback position in [0,1] to an absolute
// frame number within [InPoint, OutPoint-1].
func (a *Animation) FrameAtPos(pos float64) float64 { return a.doc.FrameAtPos(pos) }

// Size returns the surface dimensions this Animation was created with.
func (a *Animation) Size() (width, height int) { return a.width, a.height }

// RenderSync rasterizes frameNo into dst, which must be at least
// width*4*height bytes of premultiplied BGRA (see compositor.Surface),
// returning the number of bytes written. Overlapping RenderSync calls on
// the same Animation are rejected with an error rather than serialized.
func (a *Animation) RenderSync(frameNo float64, dst []byte, stride int) (int, error) {
	if a.closed.Load() {
		return 0, fmt.Errorf("lottie: %s: animation closed", errkind.Terminated)
	}
	if !a.rendering.CompareAndSwap(false, true) {
		Logger().Warn("render rejected", "kind", errkind.ConcurrentRender.String())
		return 0, fmt.Errorf("lottie: %w", errConcurrentRender)
	}
	defer a.rendering.Store(false)

	if stride < a.surface.Stride() {
		return 0, fmt.Errorf("lottie: dst stride %d too small for %dx%d surface", stride, a.width, a.height)
	}

	a.rtree.Render(a.surface, frameNo)
	n := a.surface.CopyTo(dst)
	return n, nil
}

var errConcurrentRender = fmt.Errorf("overlapping RenderSync call on the same Animation")

// Close releases the Animation. It is safe to call multiple times.
func (a *Animation) Close() error {
	a.closed.Store(true)
	return nil
}
