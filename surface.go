package pixels

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceTexture pairs a window surface with its physical size in
// pixels. The surface is created by the windowing collaborator (for
// example from a glfw window via wgpuglfw.GetSurfaceDescriptor); the
// size must track the window's framebuffer size, not its logical size.
type SurfaceTexture struct {
	Surface *wgpu.Surface
	Width   uint32
	Height  uint32
}

// NewSurfaceTexture wraps a wgpu surface with its current size.
func NewSurfaceTexture(surface *wgpu.Surface, width, height uint32) SurfaceTexture {
	return SurfaceTexture{Surface: surface, Width: width, Height: height}
}

// configureSurface (re)applies the current surface configuration.
// Called at build time and again whenever the surface is resized or
// reported outdated.
func (p *Pixels) configureSurface() {
	p.surface.Configure(p.adapter, p.device, p.surfaceConfig)
	Logger().Debug("pixels: surface configured",
		"width", p.surfaceConfig.Width,
		"height", p.surfaceConfig.Height,
		"format", p.surfaceConfig.Format,
		"presentMode", p.surfaceConfig.PresentMode)
}

// acquireFrame returns the next presentable surface texture. An
// outdated surface is reconfigured and retried exactly once; a second
// failure, or a lost surface, is returned to the caller.
func (p *Pixels) acquireFrame() (*wgpu.Texture, error) {
	tex, err := p.surface.GetCurrentTexture()
	if err == nil {
		return tex, nil
	}

	kind := classifySurfaceError(err)
	if kind != ErrSurfaceOutdated {
		return nil, wrapSurfaceError(kind, err)
	}

	Logger().Warn("pixels: surface outdated, reconfiguring", "err", err)
	p.configureSurface()
	tex, err = p.surface.GetCurrentTexture()
	if err != nil {
		return nil, wrapSurfaceError(classifySurfaceError(err), err)
	}
	return tex, nil
}

// wrapSurfaceError attaches the original binding error to a surface
// sentinel, or passes an unclassified error through unchanged.
func wrapSurfaceError(kind, err error) error {
	if kind == err {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}
