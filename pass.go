package pixels

import "github.com/cogentcore/webgpu/wgpu"

// RenderPass is one stage of the frame pipeline after the default
// scaling pass. Passes run in registration order; each consumes the
// previous stage's color output and writes its own. The final pass in
// the chain writes the swap surface.
//
// A pass is invoked from the render goroutine only and must encode all
// of its work into the provided encoder; the whole chain is submitted
// as a single command buffer, so queue ordering alone sequences the
// passes.
type RenderPass interface {
	// Resize is called once per surface-size change, never per frame.
	// Passes holding size-dependent resources reallocate them here.
	Resize(width, height uint32)

	// Render encodes the pass. input is the previous stage's color
	// texture; target is the attachment this pass must write. The
	// input view changes identity when the surface is resized, so
	// passes caching bind groups should key them on the view.
	//
	// A non-nil error abandons the frame: nothing is submitted and the
	// error is returned from Pixels.Render.
	Render(encoder *wgpu.CommandEncoder, input, target *wgpu.TextureView) error

	// Release frees the pass's GPU resources.
	Release()
}

// PassResources hands a render pass factory everything it needs to
// build pipelines compatible with the chain.
type PassResources struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	// Format is the color format of every chain attachment, including
	// the swap surface.
	Format wgpu.TextureFormat

	// SurfaceWidth and SurfaceHeight are the current surface size.
	SurfaceWidth  uint32
	SurfaceHeight uint32
}

// RenderPassFactory constructs a custom render pass at build time.
// Registered with Builder.AddRenderPass.
type RenderPassFactory func(res PassResources) (RenderPass, error)
