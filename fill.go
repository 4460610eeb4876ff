package pixels

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// identityTransform leaves the quad covering the whole target.
var identityTransform = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// fillSourceRect returns the normalized source rectangle of the
// integer-scaled image inside a surface-sized input texture:
// (origin_x, origin_y, width, height) in [0,1] texture coordinates.
func fillSourceRect(clipX, clipY, clipW, clipH, surfW, surfH uint32) [4]float32 {
	return [4]float32{
		float32(clipX) / float32(surfW),
		float32(clipY) / float32(surfH),
		float32(clipW) / float32(surfW),
		float32(clipH) / float32(surfH),
	}
}

// fillRenderer is the second stage of the two-pass smooth fill: the
// default pass integer-scales into an intermediate texture, then this
// pass stretches that sharp image over the whole surface with bilinear
// filtering. Integer-snap first, smooth-fill second avoids both the
// shimmer of single-pass nearest sampling at fractional scale and the
// blur of single-pass bilinear at arbitrary scale.
//
// Enabled with Builder.SmoothFill; always the first pass in the chain.
type fillRenderer struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	layout   *wgpu.BindGroupLayout
	sampler  *wgpu.Sampler
	locals   *wgpu.Buffer
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
	pipeline *wgpu.RenderPipeline
	bind     *wgpu.BindGroup

	// boundInput is the view the current bind group was built for.
	boundInput *wgpu.TextureView

	// clipRect reports the integer pass's image placement. It moves on
	// buffer resizes and scaling changes as well as surface resizes, so
	// Render compares it against lastSrc every frame.
	clipRect func() (x, y, w, h uint32)

	// lastSrc is the source rectangle last written to the uniform.
	lastSrc [4]float32

	surfW, surfH uint32
}

func newFillRenderer(res PassResources, clipRect func() (x, y, w, h uint32)) (RenderPass, error) {
	f := &fillRenderer{
		device:   res.Device,
		queue:    res.Queue,
		clipRect: clipRect,
		surfW:    res.SurfaceWidth,
		surfH:    res.SurfaceHeight,
	}

	var err error
	if f.layout, err = newPassBindGroupLayout(res.Device, "pixels.fill.layout"); err != nil {
		f.Release()
		return nil, err
	}
	if f.sampler, err = newPassSampler(res.Device, wgpu.FilterModeLinear, "pixels.fill"); err != nil {
		f.Release()
		return nil, err
	}

	src := f.currentSrc()
	data := f.localsData(src)
	if f.locals, err = res.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "pixels.fill.locals",
		Contents: wgpu.ToBytes(data[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}); err != nil {
		f.Release()
		return nil, fmt.Errorf("%w: fill locals buffer: %v", ErrAllocation, err)
	}
	f.lastSrc = src

	if f.vertices, f.indices, err = newQuadBuffers(res.Device); err != nil {
		f.Release()
		return nil, err
	}

	if f.pipeline, err = newPassPipeline(res.Device, f.layout, shaderSource("fill.wgsl"),
		"fs_main", res.Format, "pixels.fill"); err != nil {
		f.Release()
		return nil, err
	}

	return f, nil
}

// currentSrc computes the normalized source rectangle for the clip
// rect as it stands right now.
func (f *fillRenderer) currentSrc() [4]float32 {
	x, y, w, h := f.clipRect()
	return fillSourceRect(x, y, w, h, f.surfW, f.surfH)
}

func (f *fillRenderer) localsData(src [4]float32) [20]float32 {
	var d [20]float32
	copy(d[:16], identityTransform[:])
	copy(d[16:], src[:])
	return d
}

// Resize records the new surface geometry. The source rectangle is
// refreshed on the next Render, which also covers clip-rect moves that
// happen without a surface resize.
func (f *fillRenderer) Resize(width, height uint32) {
	f.surfW = width
	f.surfH = height
	// The input texture is recreated on resize; rebind lazily.
	f.boundInput = nil
}

func (f *fillRenderer) Render(encoder *wgpu.CommandEncoder, input, target *wgpu.TextureView) error {
	if src := f.currentSrc(); src != f.lastSrc {
		data := f.localsData(src)
		if err := f.queue.WriteBuffer(f.locals, 0, wgpu.ToBytes(data[:])); err != nil {
			return fmt.Errorf("%w: fill locals upload: %v", ErrAllocation, err)
		}
		f.lastSrc = src
	}

	if f.bind == nil || f.boundInput != input {
		if f.bind != nil {
			f.bind.Release()
			f.bind = nil
		}
		bg, err := newPassBindGroup(f.device, f.layout, input, f.sampler, f.locals, "pixels.fill")
		if err != nil {
			return err
		}
		f.bind = bg
		f.boundInput = input
	}

	rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "pixels.fill",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rp.SetPipeline(f.pipeline)
	rp.SetBindGroup(0, f.bind, nil)
	rp.SetVertexBuffer(0, f.vertices, 0, wgpu.WholeSize)
	rp.SetIndexBuffer(f.indices, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	rp.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
	rp.End()
	rp.Release()
	return nil
}

func (f *fillRenderer) Release() {
	if f.bind != nil {
		f.bind.Release()
		f.bind = nil
	}
	if f.pipeline != nil {
		f.pipeline.Release()
		f.pipeline = nil
	}
	if f.indices != nil {
		f.indices.Release()
		f.indices = nil
	}
	if f.vertices != nil {
		f.vertices.Release()
		f.vertices = nil
	}
	if f.locals != nil {
		f.locals.Release()
		f.locals = nil
	}
	if f.sampler != nil {
		f.sampler.Release()
		f.sampler = nil
	}
	if f.layout != nil {
		f.layout.Release()
		f.layout = nil
	}
	f.boundInput = nil
}
