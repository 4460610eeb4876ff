// Package pixels provides a tiny hardware-accelerated pixel frame buffer.
//
// # Overview
//
// pixels presents a small CPU-resident RGBA buffer, scaled up onto an
// arbitrary-sized window surface, without blurring or shimmering. It is
// built for emulators, retro-style games and procedural art: anything
// that thinks in "one pixel per logical cell" and wants the GPU to do
// the rest.
//
// The pipeline is deliberately simple. Every call to [Pixels.Render]
// uploads the whole frame to a GPU texture, draws it through a scaling
// transform that is recomputed only on resize, runs any registered
// custom render passes, and presents. All rendering goes through
// WebGPU via github.com/cogentcore/webgpu.
//
// # Quick Start
//
//	surface := pixels.NewSurfaceTexture(wgpuSurface, 640, 480)
//	p, err := pixels.NewBuilder(320, 240, surface).
//		EnableVsync(true).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Release()
//
//	for running {
//		frame := p.Frame() // row-major RGBA, 320*240*4 bytes
//		drawInto(frame)
//		if err := p.Render(); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Scaling
//
// Three scaling policies are available, selected with
// [Builder.ScalingMode]:
//
//   - [ScalingInteger] snaps magnification to the largest whole number
//     that fits and centers the image with letterbox bars. Scale never
//     drops below 1, even when the buffer is larger than the surface;
//     oversized buffers are clipped rather than shrunk.
//   - [ScalingFill] covers the whole surface with no bars, preserving
//     aspect ratio and cropping the overflow.
//   - [ScalingStretch] fills the surface exactly, distorting as needed.
//
// Non-integer scales are filtered with a texel-clamped bilinear filter
// that smooths pixel edges over exactly one output pixel, so images
// stay sharp without the seams of naive bilinear sampling.
//
// # Threading
//
// A Pixels instance is single-threaded: call Frame, Resize* and Render
// from the one goroutine that owns the event loop. On most platforms
// that goroutine must be locked to the main OS thread.
package pixels
