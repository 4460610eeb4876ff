// Command pixelsdemo runs Conway's Game of Life on a pixels frame
// buffer. Click to stamp a glider; resize the window to watch the
// scaling modes at work.
package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/pixels"
)

func init() {
	// glfw and the GPU both require the main OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		width  = flag.Int("width", 320, "buffer width in texels")
		height = flag.Int("height", 240, "buffer height in texels")
		mode   = flag.String("mode", "integer", "scaling mode: integer, fill or stretch")
		fill   = flag.Bool("smooth-fill", false, "two-pass smooth fill instead of letterboxing")
		vsync  = flag.Bool("vsync", true, "synchronize presentation to the display")
		debug  = flag.Bool("debug", false, "debug logging to stderr")
	)
	flag.Parse()

	if *debug {
		pixels.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw init: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(*width*3, *height*3, "Game of Life", nil, nil)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	surface := pixels.Instance().CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	defer pixels.Terminate()

	fbw, fbh := window.GetFramebufferSize()
	p, err := pixels.NewBuilder(uint32(*width), uint32(*height),
		pixels.NewSurfaceTexture(surface, uint32(fbw), uint32(fbh))).
		ScalingMode(parseMode(*mode)).
		SmoothFill(*fill).
		EnableVsync(*vsync).
		Build()
	if err != nil {
		log.Fatalf("build renderer: %v", err)
	}
	defer p.Release()

	life := newLife(*width, *height)

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		if w == 0 || h == 0 {
			return // minimized
		}
		if err := p.ResizeSurface(uint32(w), uint32(h)); err != nil {
			log.Printf("resize surface: %v", err)
		}
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || action != glfw.Press {
			return
		}
		cx, cy := w.GetCursorPos()
		// Cursor positions are in logical window coordinates; scale to
		// the physical surface before mapping to texels.
		ww, wh := w.GetSize()
		fw, fh := w.GetFramebufferSize()
		if ww > 0 && wh > 0 {
			cx *= float64(fw) / float64(ww)
			cy *= float64(fh) / float64(wh)
		}
		if x, y, inside := p.WindowPosToPixel(cx, cy); inside {
			life.stampGlider(x, y)
		}
	})

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for !window.ShouldClose() {
		glfw.PollEvents()
		<-ticker.C

		life.step()
		life.draw(p.Frame())

		switch err := p.Render(); {
		case err == nil:
		case errors.Is(err, pixels.ErrSurfaceOutdated):
			fw, fh := window.GetFramebufferSize()
			if err := p.ResizeSurface(uint32(fw), uint32(fh)); err != nil {
				log.Fatalf("recover surface: %v", err)
			}
		default:
			log.Fatalf("render: %v", err)
		}
	}
}

func parseMode(s string) pixels.ScalingMode {
	switch s {
	case "fill":
		return pixels.ScalingFill
	case "stretch":
		return pixels.ScalingStretch
	default:
		return pixels.ScalingInteger
	}
}

// life is a toroidal Game of Life grid.
type life struct {
	width, height int
	cells         []bool
	next          []bool
}

func newLife(width, height int) *life {
	l := &life{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
		next:   make([]bool, width*height),
	}
	for i := range l.cells {
		l.cells[i] = rand.IntN(8) == 0
	}
	return l
}

func (l *life) at(x, y int) bool {
	x = (x%l.width + l.width) % l.width
	y = (y%l.height + l.height) % l.height
	return l.cells[y*l.width+x]
}

func (l *life) step() {
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if (dx != 0 || dy != 0) && l.at(x+dx, y+dy) {
						n++
					}
				}
			}
			alive := l.cells[y*l.width+x]
			l.next[y*l.width+x] = n == 3 || (alive && n == 2)
		}
	}
	l.cells, l.next = l.next, l.cells
}

// draw writes the grid into an RGBA frame: white cells on near-black.
func (l *life) draw(frame []byte) {
	for i, alive := range l.cells {
		c := byte(0x10)
		if alive {
			c = 0xff
		}
		frame[i*4+0] = c
		frame[i*4+1] = c
		frame[i*4+2] = c
		frame[i*4+3] = 0xff
	}
}

var glider = [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}

func (l *life) stampGlider(x, y int) {
	for _, d := range glider {
		cx := ((x+d[0])%l.width + l.width) % l.width
		cy := ((y+d[1])%l.height + l.height) % l.height
		l.cells[cy*l.width+cx] = true
	}
}
