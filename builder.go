package pixels

import (
	"errors"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// Builder configures and constructs a Pixels renderer.
//
// All options have working defaults: RGBA8 sRGB backing texture, the
// surface's preferred render format, vsync on, integer scaling and a
// square pixel aspect ratio.
type Builder struct {
	width, height uint32
	surface       SurfaceTexture

	mode       ScalingMode
	par        aspectRatio
	smoothFill bool

	adapterOptions   *wgpu.RequestAdapterOptions
	deviceDescriptor *wgpu.DeviceDescriptor
	presentMode      wgpu.PresentMode
	textureFormat    wgpu.TextureFormat
	renderFormat     wgpu.TextureFormat

	factories []RenderPassFactory
}

// NewBuilder starts building a renderer for a width x height pixel
// buffer presented onto the given surface.
func NewBuilder(width, height uint32, surface SurfaceTexture) *Builder {
	return &Builder{
		width:         width,
		height:        height,
		surface:       surface,
		mode:          ScalingInteger,
		par:           aspectRatio{1, 1},
		presentMode:   wgpu.PresentModeFifo,
		textureFormat: wgpu.TextureFormatRGBA8UnormSrgb,
	}
}

// ScalingMode selects how the buffer is fitted to the surface.
// The default is ScalingInteger.
func (b *Builder) ScalingMode(m ScalingMode) *Builder {
	b.mode = m
	return b
}

// PixelAspectRatio sets the width of one texel relative to its height
// as a rational w:h. The default is 1:1. Both components must be
// greater than zero; Build rejects invalid ratios.
func (b *Builder) PixelAspectRatio(w, h uint32) *Builder {
	b.par = aspectRatio{w, h}
	return b
}

// RequestAdapterOptions overrides the adapter request. The compatible
// surface is always set to the builder's surface. When unset, the
// power preference comes from the PIXELS_HIGH_PERF / PIXELS_LOW_POWER
// environment variables.
func (b *Builder) RequestAdapterOptions(o *wgpu.RequestAdapterOptions) *Builder {
	b.adapterOptions = o
	return b
}

// DeviceDescriptor overrides the device request.
func (b *Builder) DeviceDescriptor(d *wgpu.DeviceDescriptor) *Builder {
	b.deviceDescriptor = d
	return b
}

// EnableVsync selects Fifo presentation when on (the default) and
// Immediate when off.
func (b *Builder) EnableVsync(on bool) *Builder {
	if on {
		b.presentMode = wgpu.PresentModeFifo
	} else {
		b.presentMode = wgpu.PresentModeImmediate
	}
	return b
}

// PresentMode sets the surface present mode directly, overriding
// EnableVsync.
func (b *Builder) PresentMode(m wgpu.PresentMode) *Builder {
	b.presentMode = m
	return b
}

// TextureFormat sets the backing texture format the frame bytes are
// uploaded into. The default, RGBA8UnormSrgb, treats frame bytes as
// sRGB, which matches what image editors produce.
func (b *Builder) TextureFormat(f wgpu.TextureFormat) *Builder {
	b.textureFormat = f
	return b
}

// RenderTextureFormat sets the format of the swap surface and every
// chain attachment. The default is the surface's preferred format,
// falling back to BGRA8UnormSrgb.
func (b *Builder) RenderTextureFormat(f wgpu.TextureFormat) *Builder {
	b.renderFormat = f
	return b
}

// SmoothFill enables the built-in two-pass fill: a sharp integer
// scaling pass followed by a bilinear stretch that removes the
// letterbox. Forces integer scaling for the first pass.
func (b *Builder) SmoothFill(on bool) *Builder {
	b.smoothFill = on
	return b
}

// AddRenderPass registers a custom render pass factory. Passes run
// after the default scaling pass (and the smooth-fill pass, when
// enabled) in registration order; the last pass writes the swap
// surface.
func (b *Builder) AddRenderPass(f RenderPassFactory) *Builder {
	b.factories = append(b.factories, f)
	return b
}

// powerPreferenceFromEnv reads the adapter power preference from the
// environment. Checked once, at device acquisition.
func powerPreferenceFromEnv() wgpu.PowerPreference {
	if os.Getenv("PIXELS_HIGH_PERF") != "" {
		return wgpu.PowerPreferenceHighPerformance
	}
	if os.Getenv("PIXELS_LOW_POWER") != "" {
		return wgpu.PowerPreferenceLowPower
	}
	return wgpu.PowerPreferenceUndefined
}

// Build validates the configuration, acquires the GPU device and
// assembles the full pipeline. Configuration errors are returned
// before any GPU call is made.
func (b *Builder) Build() (*Pixels, error) {
	if b.width == 0 || b.height == 0 {
		return nil, fmt.Errorf("%w: buffer %dx%d", ErrInvalidDimensions, b.width, b.height)
	}
	if b.surface.Width == 0 || b.surface.Height == 0 {
		return nil, fmt.Errorf("%w: surface %dx%d", ErrInvalidDimensions, b.surface.Width, b.surface.Height)
	}
	if !b.par.valid() {
		return nil, fmt.Errorf("%w: %d:%d", ErrInvalidAspectRatio, b.par.w, b.par.h)
	}
	if b.surface.Surface == nil {
		return nil, errors.New("pixels: surface texture is required")
	}

	mode := b.mode
	if b.smoothFill {
		// The fill pass stretches the integer pass's output; any other
		// first-stage mode would defeat it.
		mode = ScalingInteger
	}

	instance := Instance()

	opts := wgpu.RequestAdapterOptions{PowerPreference: powerPreferenceFromEnv()}
	if b.adapterOptions != nil {
		opts = *b.adapterOptions
	}
	opts.CompatibleSurface = b.surface.Surface

	adapter, err := instance.RequestAdapter(&opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	info := adapter.GetInfo()
	Logger().Info("pixels: adapter selected",
		"name", info.Name, "driver", info.DriverDescription)

	device, err := adapter.RequestDevice(b.deviceDescriptor)
	if err != nil {
		adapter.Release()
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	queue := device.GetQueue()

	p := &Pixels{
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surface:       b.surface.Surface,
		bufW:          b.width,
		bufH:          b.height,
		par:           b.par,
		mode:          mode,
		textureFormat: b.textureFormat,
		maxTextureDim: device.GetLimits().Limits.MaxTextureDimension2D,
	}

	fail := func(err error) (*Pixels, error) {
		p.Release()
		return nil, err
	}

	if b.width > p.maxTextureDim || b.height > p.maxTextureDim {
		return fail(fmt.Errorf("%w: buffer %dx%d, limit %d",
			ErrTextureTooLarge, b.width, b.height, p.maxTextureDim))
	}
	if b.surface.Width > p.maxTextureDim || b.surface.Height > p.maxTextureDim {
		return fail(fmt.Errorf("%w: surface %dx%d, limit %d",
			ErrTextureTooLarge, b.surface.Width, b.surface.Height, p.maxTextureDim))
	}

	caps := b.surface.Surface.GetCapabilities(adapter)
	renderFormat := b.renderFormat
	if renderFormat == wgpu.TextureFormatUndefined {
		if len(caps.Formats) > 0 {
			renderFormat = caps.Formats[0]
		} else {
			renderFormat = wgpu.TextureFormatBGRA8UnormSrgb
		}
	}
	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}
	p.renderFormat = renderFormat

	p.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      renderFormat,
		Width:       b.surface.Width,
		Height:      b.surface.Height,
		PresentMode: b.presentMode,
		AlphaMode:   alphaMode,
	}
	p.configureSurface()

	p.frame = make([]byte, int(b.width)*int(b.height)*4)
	if p.texture, err = newPixelTexture(device, b.width, b.height, b.textureFormat); err != nil {
		return fail(err)
	}

	matrix := newScalingMatrix(b.width, b.height, b.par,
		b.surface.Width, b.surface.Height, mode)
	if p.scaler, err = newScalingRenderer(device, queue, p.texture.view,
		b.width, b.height, renderFormat, matrix); err != nil {
		return fail(err)
	}

	res := PassResources{
		Device:        device,
		Queue:         queue,
		Format:        renderFormat,
		SurfaceWidth:  b.surface.Width,
		SurfaceHeight: b.surface.Height,
	}
	factories := b.factories
	if b.smoothFill {
		fill := func(res PassResources) (RenderPass, error) {
			return newFillRenderer(res, p.ClipRect)
		}
		factories = append([]RenderPassFactory{fill}, factories...)
	}
	for i, factory := range factories {
		pass, err := factory(res)
		if err != nil {
			return fail(fmt.Errorf("pixels: render pass %d: %w", i, err))
		}
		p.passes = append(p.passes, pass)
	}
	if err = p.createTargets(); err != nil {
		return fail(err)
	}

	Logger().Info("pixels: renderer built",
		"bufferWidth", b.width, "bufferHeight", b.height,
		"surfaceWidth", b.surface.Width, "surfaceHeight", b.surface.Height,
		"mode", mode, "format", renderFormat, "passes", len(p.passes))
	return p, nil
}
