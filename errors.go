package pixels

import (
	"errors"
	"strings"
)

// Configuration errors. These are rejected before any GPU call is made.
var (
	// ErrInvalidDimensions reports a zero buffer or surface dimension.
	ErrInvalidDimensions = errors.New("pixels: width and height must be greater than zero")

	// ErrInvalidAspectRatio reports a pixel aspect ratio with a zero
	// component.
	ErrInvalidAspectRatio = errors.New("pixels: pixel aspect ratio components must be greater than zero")

	// ErrTextureTooLarge reports dimensions beyond the device's maximum
	// 2D texture size.
	ErrTextureTooLarge = errors.New("pixels: dimensions exceed the device texture limit")
)

// Device acquisition and resource errors.
var (
	// ErrNoAdapter means no GPU adapter satisfied the request options.
	ErrNoAdapter = errors.New("pixels: no suitable GPU adapter found")

	// ErrNoDevice means the adapter refused the device request.
	ErrNoDevice = errors.New("pixels: GPU device request failed")

	// ErrAllocation reports a failed GPU resource allocation. It is
	// fatal to the current operation and never retried internally.
	ErrAllocation = errors.New("pixels: GPU allocation failed")

	// ErrShaderCompile reports a shader module or pipeline build
	// failure. Pipelines are built at construction time only; this is
	// never produced during Render.
	ErrShaderCompile = errors.New("pixels: shader compilation failed")
)

// Surface errors returned by Render.
var (
	// ErrSurfaceOutdated means the swap surface no longer matches the
	// window. Render reconfigures and retries once before returning
	// this; when it surfaces, call ResizeSurface with the current
	// window size and render again.
	ErrSurfaceOutdated = errors.New("pixels: surface outdated")

	// ErrSurfaceLost means the surface or device is gone. Recovery
	// requires releasing the renderer and building a new one.
	ErrSurfaceLost = errors.New("pixels: surface lost")

	// ErrReleased reports use of a renderer after Release.
	ErrReleased = errors.New("pixels: renderer already released")
)

// classifySurfaceError maps a frame-acquisition failure onto the
// package surface sentinels. The binding reports surface status as
// error text, so classification is by substring.
func classifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "lost") || strings.Contains(msg, "device"):
		return ErrSurfaceLost
	case strings.Contains(msg, "outdated") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "suboptimal"):
		return ErrSurfaceOutdated
	default:
		return err
	}
}
