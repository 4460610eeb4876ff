package pixels

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Pixels presents a CPU-resident RGBA pixel buffer onto a window
// surface through the scaling pipeline. Construct with Builder.Build.
//
// Pixels is single-threaded: Frame, the resize methods and Render must
// all be called from the one goroutine that owns the event loop.
type Pixels struct {
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
	surface *wgpu.Surface

	surfaceConfig *wgpu.SurfaceConfiguration

	bufW, bufH    uint32
	par           aspectRatio
	mode          ScalingMode
	textureFormat wgpu.TextureFormat
	renderFormat  wgpu.TextureFormat
	maxTextureDim uint32

	frame   []byte
	texture *pixelTexture
	scaler  *scalingRenderer

	// passes run after the scaling pass; targets[i] is the color
	// attachment feeding passes[i].
	passes  []RenderPass
	targets []*renderTarget

	released bool
}

// Frame returns the CPU pixel buffer: row-major RGBA, one texel per
// four bytes, stride = width*4. Write the next frame's texels into it,
// then call Render. The slice stays valid until ResizeBuffer or
// Release.
func (p *Pixels) Frame() []byte { return p.frame }

// Device returns the GPU device, for custom render passes that create
// resources outside their factory.
func (p *Pixels) Device() *wgpu.Device { return p.device }

// Queue returns the GPU queue shared by the whole pipeline. Only
// Render submits to it; passes may use it for buffer uploads.
func (p *Pixels) Queue() *wgpu.Queue { return p.queue }

// RenderTextureFormat returns the color format of the swap surface and
// every chain attachment.
func (p *Pixels) RenderTextureFormat() wgpu.TextureFormat { return p.renderFormat }

// ClipRect returns the scaled image's placement on the surface in
// physical pixels: the letterboxed region under integer scaling, the
// full surface under fill or stretch.
func (p *Pixels) ClipRect() (x, y, w, h uint32) {
	return p.scaler.matrix.ClipRect()
}

// WindowPosToPixel maps a physical surface position (for example a
// cursor position scaled by the DPI factor) to buffer texel
// coordinates. Positions outside the scaled image are clamped to the
// nearest texel and reported with inside == false.
func (p *Pixels) WindowPosToPixel(x, y float64) (px, py int, inside bool) {
	cx, cy, cw, ch := p.scaler.matrix.ClipRect()
	return posToPixel(x, y, cx, cy, cw, ch, p.bufW, p.bufH)
}

// Render uploads the frame, runs the scaling pass and every custom
// pass in order within one command buffer, submits and presents.
//
// An outdated surface is reconfigured and retried once internally;
// when that fails the error wraps ErrSurfaceOutdated and the caller
// should resize and try again. An error wrapping ErrSurfaceLost means
// the renderer must be released and rebuilt.
func (p *Pixels) Render() error {
	if p.released {
		return ErrReleased
	}
	if len(p.targets) != len(p.passes) {
		// Only reachable after a failed target reallocation.
		return fmt.Errorf("%w: render target chain incomplete", ErrAllocation)
	}

	frameTex, err := p.acquireFrame()
	if err != nil {
		return err
	}
	defer frameTex.Release()

	view, err := frameTex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("%w: surface view: %v", ErrAllocation, err)
	}
	defer view.Release()

	p.texture.upload(p.queue, p.frame)

	encoder, err := p.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("%w: command encoder: %v", ErrAllocation, err)
	}
	defer encoder.Release()

	if len(p.passes) == 0 {
		p.scaler.render(encoder, view)
	} else {
		p.scaler.render(encoder, p.targets[0].view)
		if err := p.encodePasses(encoder, view); err != nil {
			return err
		}
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("%w: encoder finish: %v", ErrAllocation, err)
	}
	p.queue.Submit(cmd)
	cmd.Release()

	p.surface.Present()
	return nil
}

// ResizeSurface reconfigures the swap surface for a new physical size,
// recomputes the scaling matrix and resizes every pass's
// size-dependent resources. Call it from the window resize handler.
func (p *Pixels) ResizeSurface(width, height uint32) error {
	if p.released {
		return ErrReleased
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: surface %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > p.maxTextureDim || height > p.maxTextureDim {
		return fmt.Errorf("%w: surface %dx%d, limit %d",
			ErrTextureTooLarge, width, height, p.maxTextureDim)
	}

	p.surfaceConfig.Width = width
	p.surfaceConfig.Height = height
	p.configureSurface()
	p.recomputeMatrix()

	if err := p.createTargets(); err != nil {
		return err
	}
	for _, pass := range p.passes {
		pass.Resize(width, height)
	}
	return nil
}

// ResizeBuffer reallocates the pixel buffer and its GPU texture for a
// new logical resolution. The previous frame contents are discarded.
func (p *Pixels) ResizeBuffer(width, height uint32) error {
	if p.released {
		return ErrReleased
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: buffer %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > p.maxTextureDim || height > p.maxTextureDim {
		return fmt.Errorf("%w: buffer %dx%d, limit %d",
			ErrTextureTooLarge, width, height, p.maxTextureDim)
	}

	tex, err := newPixelTexture(p.device, width, height, p.textureFormat)
	if err != nil {
		return err
	}
	p.texture.release()
	p.texture = tex
	p.bufW = width
	p.bufH = height
	p.frame = make([]byte, int(width)*int(height)*4)

	p.scaler.setBufferSize(width, height)
	if err := p.scaler.bindSource(p.texture.view); err != nil {
		return err
	}
	p.recomputeMatrix()
	return nil
}

// SetScalingMode switches the scaling policy and recomputes the
// transform. Note that SmoothFill relies on integer scaling for its
// first stage; changing the mode under it reintroduces letterboxing
// artifacts.
func (p *Pixels) SetScalingMode(m ScalingMode) {
	if p.released {
		return
	}
	p.mode = m
	p.recomputeMatrix()
}

// SetPixelAspectRatio changes the texel aspect ratio and recomputes
// the transform. Both components must be greater than zero.
func (p *Pixels) SetPixelAspectRatio(w, h uint32) error {
	if p.released {
		return ErrReleased
	}
	par := aspectRatio{w, h}
	if !par.valid() {
		return fmt.Errorf("%w: %d:%d", ErrInvalidAspectRatio, w, h)
	}
	p.par = par
	p.recomputeMatrix()
	return nil
}

// recomputeMatrix derives the scaling matrix from the current
// geometry. This is the only place the matrix is computed after
// construction; Render never touches it.
func (p *Pixels) recomputeMatrix() {
	m := newScalingMatrix(p.bufW, p.bufH, p.par,
		p.surfaceConfig.Width, p.surfaceConfig.Height, p.mode)
	p.scaler.setMatrix(m)
}

// encodePasses encodes the custom pass chain: passes[i] reads
// targets[i] and writes targets[i+1], with the final pass writing
// output. A pass error abandons the frame before submit.
func (p *Pixels) encodePasses(encoder *wgpu.CommandEncoder, output *wgpu.TextureView) error {
	for i, pass := range p.passes {
		target := output
		if i < len(p.passes)-1 {
			target = p.targets[i+1].view
		}
		if err := pass.Render(encoder, p.targets[i].view, target); err != nil {
			return fmt.Errorf("pixels: render pass %d: %w", i, err)
		}
	}
	return nil
}

// createTargets (re)allocates the intermediate render targets between
// passes at the current surface size. The old targets stay in place
// until the full new set exists, so a failed allocation never leaves
// the chain shorter than the pass list.
func (p *Pixels) createTargets() error {
	targets := make([]*renderTarget, 0, len(p.passes))
	for i := range p.passes {
		t, err := newRenderTarget(p.device,
			p.surfaceConfig.Width, p.surfaceConfig.Height,
			p.renderFormat, fmt.Sprintf("pixels.target.%d", i))
		if err != nil {
			for _, t := range targets {
				t.release()
			}
			return err
		}
		targets = append(targets, t)
	}
	for _, t := range p.targets {
		t.release()
	}
	p.targets = targets
	return nil
}

// Release frees every GPU resource owned by the renderer. The surface
// itself belongs to the windowing layer and is left untouched. Release
// is idempotent; after it, all other methods fail with ErrReleased.
func (p *Pixels) Release() {
	if p.released {
		return
	}
	p.released = true

	for _, pass := range p.passes {
		pass.Release()
	}
	p.passes = nil
	for _, t := range p.targets {
		t.release()
	}
	p.targets = nil
	if p.scaler != nil {
		p.scaler.release()
		p.scaler = nil
	}
	if p.texture != nil {
		p.texture.release()
		p.texture = nil
	}
	if p.device != nil {
		p.device.Release()
		p.device = nil
	}
	if p.adapter != nil {
		p.adapter.Release()
		p.adapter = nil
	}
	p.frame = nil
}
