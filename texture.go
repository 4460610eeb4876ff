package pixels

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// pixelTexture is the GPU copy of the frame buffer. It is allocated
// exactly at buffer size and reused until the buffer is resized; every
// upload rewrites the full texture.
type pixelTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
	format  wgpu.TextureFormat
}

func newPixelTexture(device *wgpu.Device, width, height uint32, format wgpu.TextureFormat) (*pixelTexture, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "pixels.backing",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: backing texture %dx%d: %v", ErrAllocation, width, height, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: backing texture view: %v", ErrAllocation, err)
	}
	return &pixelTexture{
		texture: tex,
		view:    view,
		width:   width,
		height:  height,
		format:  format,
	}, nil
}

// upload copies the full frame into the texture. pix must hold
// width*height*4 bytes of row-major RGBA.
func (t *pixelTexture) upload(queue *wgpu.Queue, pix []byte) {
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * t.width,
			RowsPerImage: t.height,
		},
		&wgpu.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: 1,
		},
	)
}

func (t *pixelTexture) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// renderTarget is an intermediate color attachment between passes,
// always sized to the surface.
type renderTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func newRenderTarget(device *wgpu.Device, width, height uint32, format wgpu.TextureFormat, label string) (*renderTarget, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render target %dx%d: %v", ErrAllocation, width, height, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: render target view: %v", ErrAllocation, err)
	}
	return &renderTarget{texture: tex, view: view}, nil
}

func (t *renderTarget) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
