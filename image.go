package pixels

import (
	"image"

	"golang.org/x/image/draw"
)

// frameImage wraps the frame bytes as an image.RGBA sharing the same
// memory, so the x/image operators can write texels directly.
func (p *Pixels) frameImage() *image.RGBA {
	return &image.RGBA{
		Pix:    p.frame,
		Stride: int(p.bufW) * 4,
		Rect:   image.Rect(0, 0, int(p.bufW), int(p.bufH)),
	}
}

// DrawImage composites img into the frame with its top-left corner at
// (x, y) in texel coordinates, alpha-blending over the existing
// contents. Portions outside the frame are clipped.
func (p *Pixels) DrawImage(img image.Image, x, y int) {
	if p.released {
		return
	}
	dst := p.frameImage()
	b := img.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(dst, r, img, b.Min, draw.Over)
}

// DrawImageScaled scales img to cover the whole frame with
// nearest-neighbor sampling, replacing the existing contents.
func (p *Pixels) DrawImageScaled(img image.Image) {
	if p.released {
		return
	}
	dst := p.frameImage()
	draw.NearestNeighbor.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
}
