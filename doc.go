// Package lottie is a Pure Go, software-only renderer for Lottie (Bodymovin)
// vector animations, plus an asynchronous pipeline that prerenders frames on
// a background worker and hands them to a host for GPU upload.
//
// # Quick Start
//
//	import "github.com/dalerank/imlottie-sub000"
//
//	anim, err := lottie.LoadFromFile("animation.json", 512, 512)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer anim.Close()
//
//	buf := make([]byte, 512*512*4)
//	anim.RenderSync(0, buf, 512*4)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Animation (single-animation facade), Pipeline/Registry
//     (the async worker and its frontend)
//   - internal/model: the immutable, parsed scene graph
//   - internal/tree: the mutable per-frame render tree derived from it
//   - internal/parse: the bespoke streaming JSON reader
//   - internal/raster, internal/stroke: scanline rasterization and stroke
//     expansion into the compositor's span contract
//   - internal/compositor: brush evaluation, gradients and Porter-Duff
//     blending onto a premultiplied BGRA buffer
//   - internal/geom, internal/arena: shared geometry and node-storage
//     primitives
//
// # Coordinate System
//
// Origin (0,0) at top-left, X right, Y down, matching the Lottie/Bodymovin
// JSON convention and the host's expected pixel buffer layout.
package lottie
