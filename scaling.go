package pixels

import "math"

// ScalingMode selects how the pixel buffer is fitted to the surface.
// Exactly one mode is active at a time.
type ScalingMode int

const (
	// ScalingInteger snaps magnification to the largest whole number
	// that fits and centers the image, letterboxing the remainder.
	// The scale is clamped to at least 1: a buffer larger than the
	// surface is clipped, never shrunk below its native size.
	ScalingInteger ScalingMode = iota

	// ScalingFill scales uniformly until the image covers the whole
	// surface, cropping whatever extends past the edges.
	ScalingFill

	// ScalingStretch scales each axis independently so the image fills
	// the surface exactly, distorting the aspect ratio as needed.
	ScalingStretch
)

func (m ScalingMode) String() string {
	switch m {
	case ScalingInteger:
		return "integer"
	case ScalingFill:
		return "fill"
	case ScalingStretch:
		return "stretch"
	default:
		return "unknown"
	}
}

// aspectRatio is a pixel aspect ratio: the width of one texel relative
// to its height. Both components must be greater than zero.
type aspectRatio struct {
	w, h uint32
}

func (a aspectRatio) valid() bool     { return a.w > 0 && a.h > 0 }
func (a aspectRatio) factor() float64 { return float64(a.w) / float64(a.h) }

// ScalingMatrix is the buffer-to-surface transform for one combination
// of buffer size, pixel aspect ratio, surface size and scaling mode.
// It is recomputed only when one of those inputs changes, never per
// frame.
type ScalingMatrix struct {
	// Transform maps the unit quad, expanded to normalized device
	// coordinates, onto the scaled image. Column-major, 2D only:
	// Z is fixed at 0 and W at 1.
	Transform [16]float32

	scaledW, scaledH   float64
	surfaceW, surfaceH float64
}

// newScalingMatrix computes the transform for the given geometry.
// Dimensions must already be validated as non-zero.
func newScalingMatrix(bufW, bufH uint32, par aspectRatio, surfW, surfH uint32, mode ScalingMode) ScalingMatrix {
	bw := float64(bufW) * par.factor()
	bh := float64(bufH)
	sw := float64(surfW)
	sh := float64(surfH)

	scaleX := sw / bw
	scaleY := sh / bh

	var scaledW, scaledH float64
	switch mode {
	case ScalingFill:
		scale := math.Max(scaleX, scaleY)
		scaledW = bw * scale
		scaledH = bh * scale
	case ScalingStretch:
		scaledW = sw
		scaledH = sh
	default: // ScalingInteger
		scale := math.Floor(math.Min(scaleX, scaleY))
		if scale < 1 {
			scale = 1
		}
		scaledW = bw * scale
		scaledH = bh * scale
	}

	// Translate by the fractional half-surface so that odd letterbox
	// margins keep texel edges aligned with pixel centers.
	tx := fract(sw/2) / sw
	ty := fract(sh/2) / sh

	fw := float32(scaledW / sw)
	fh := float32(scaledH / sh)

	return ScalingMatrix{
		Transform: [16]float32{
			fw, 0, 0, 0,
			0, fh, 0, 0,
			0, 0, 1, 0,
			float32(tx), float32(ty), 0, 1,
		},
		scaledW:  scaledW,
		scaledH:  scaledH,
		surfaceW: sw,
		surfaceH: sh,
	}
}

func fract(v float64) float64 { return v - math.Floor(v) }

// ClipRect returns the placement of the scaled image on the surface in
// physical pixels, clipped to the surface bounds. Opposite letterbox
// margins are equal within rounding.
func (s ScalingMatrix) ClipRect() (x, y, w, h uint32) {
	cw := math.Min(s.scaledW, s.surfaceW)
	ch := math.Min(s.scaledH, s.surfaceH)
	x = uint32((s.surfaceW - cw) / 2)
	y = uint32((s.surfaceH - ch) / 2)
	return x, y, uint32(cw), uint32(ch)
}

// wholeScale reports whether the transform maps texels onto whole
// output pixels on both axes, in which case nearest-neighbor sampling
// is exact and preferred.
func (s ScalingMatrix) wholeScale(bufW, bufH uint32) bool {
	const eps = 1e-6
	sx := s.scaledW / float64(bufW)
	sy := s.scaledH / float64(bufH)
	return math.Abs(sx-math.Round(sx)) < eps && math.Abs(sy-math.Round(sy)) < eps && sx == sy
}

// posToPixel maps a surface-space position to buffer texel coordinates
// given the image clip rect. Positions outside the image are clamped
// to the nearest texel and reported as outside.
func posToPixel(x, y float64, clipX, clipY, clipW, clipH, bufW, bufH uint32) (px, py int, inside bool) {
	inside = true

	fx := (x - float64(clipX)) / float64(clipW) * float64(bufW)
	fy := (y - float64(clipY)) / float64(clipH) * float64(bufH)

	px = int(math.Floor(fx))
	py = int(math.Floor(fy))

	if px < 0 {
		px = 0
		inside = false
	} else if px >= int(bufW) {
		px = int(bufW) - 1
		inside = false
	}
	if py < 0 {
		py = 0
		inside = false
	} else if py >= int(bufH) {
		py = int(bufH) - 1
		inside = false
	}
	return px, py, inside
}
