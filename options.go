package lottie

import (
	"log/slog"

	"github.com/dalerank/imlottie-sub000/internal/imageasset"
)

// AnimationOption configures an Animation during creation.
//
// Example:
//
//	anim, err := lottie.LoadFromFile("a.json", 512, 512,
//	    lottie.WithImageDecoder(customDecoder),
//	)
type AnimationOption func(*animationOptions)

// animationOptions holds optional configuration for Animation creation.
type animationOptions struct {
	decoder       imageasset.ImageDecoder
	logger        *slog.Logger
	nodeArenaHint int
}

func defaultAnimationOptions() animationOptions {
	return animationOptions{
		nodeArenaHint: 256,
	}
}

// WithImageDecoder sets a custom image asset decoder. If unset, Animation
// uses a decoder backed by the standard library's image/png and image/jpeg
// packages.
func WithImageDecoder(d imageasset.ImageDecoder) AnimationOption {
	return func(o *animationOptions) { o.decoder = d }
}

// WithAnimationLogger scopes logging to a single Animation instead of the
// package-level logger set via SetLogger.
func WithAnimationLogger(l *slog.Logger) AnimationOption {
	return func(o *animationOptions) { o.logger = l }
}

// WithNodeArenaHint pre-sizes the render tree's node arena, avoiding
// reallocation for documents with a known approximate node count.
func WithNodeArenaHint(hint int) AnimationOption {
	return func(o *animationOptions) {
		if hint > 0 {
			o.nodeArenaHint = hint
		}
	}
}

// PipelineOption configures a Pipeline worker during creation.
type PipelineOption func(*pipelineOptions)

// pipelineOptions holds optional configuration for Pipeline creation.
type pipelineOptions struct {
	commandQueueCap  int
	readyQueueCap    int
	prerenderRingCap int
	pollInterval     int // milliseconds
}

func defaultPipelineOptions() pipelineOptions {
	return pipelineOptions{
		commandQueueCap:  100,
		readyQueueCap:    0, // resolved to 2*liveAnimations at Start
		prerenderRingCap: 2,
		pollInterval:     100,
	}
}

// WithCommandQueueCapacity overrides the pending-command flood-control
// limit (default 100).
func WithCommandQueueCapacity(n int) PipelineOption {
	return func(o *pipelineOptions) {
		if n > 0 {
			o.commandQueueCap = n
		}
	}
}

// WithReadyQueueCapacity overrides the ready-frame queue cap. If unset, the
// worker sizes it to 2x the number of live animations.
func WithReadyQueueCapacity(n int) PipelineOption {
	return func(o *pipelineOptions) {
		if n > 0 {
			o.readyQueueCap = n
		}
	}
}

// WithPrerenderRingCapacity overrides each animation's per-animation
// prerender ring capacity (default 2).
func WithPrerenderRingCapacity(n int) PipelineOption {
	return func(o *pipelineOptions) {
		if n > 0 {
			o.prerenderRingCap = n
		}
	}
}

// WithPollIntervalMillis overrides the worker's idle poll interval
// (default 100ms).
func WithPollIntervalMillis(ms int) PipelineOption {
	return func(o *pipelineOptions) {
		if ms > 0 {
			o.pollInterval = ms
		}
	}
}
