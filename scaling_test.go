package pixels

import (
	"math"
	"reflect"
	"testing"
)

func TestScalingModeString(t *testing.T) {
	tests := []struct {
		mode ScalingMode
		want string
	}{
		{ScalingInteger, "integer"},
		{ScalingFill, "fill"},
		{ScalingStretch, "stretch"},
		{ScalingMode(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("ScalingMode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestIntegerScaling(t *testing.T) {
	tests := []struct {
		name                   string
		bufW, bufH             uint32
		surfW, surfH           uint32
		wantScaleX, wantScaleY float32
		wantClip               [4]uint32
	}{
		{
			name: "exact 4x fit",
			bufW: 16, bufH: 16, surfW: 64, surfH: 64,
			wantScaleX: 1, wantScaleY: 1,
			wantClip: [4]uint32{0, 0, 64, 64},
		},
		{
			name: "4x with pillarbox",
			bufW: 16, bufH: 16, surfW: 70, surfH: 64,
			wantScaleX: 64.0 / 70.0, wantScaleY: 1,
			wantClip: [4]uint32{3, 0, 64, 64},
		},
		{
			name: "1x exact",
			bufW: 100, bufH: 100, surfW: 100, surfH: 100,
			wantScaleX: 1, wantScaleY: 1,
			wantClip: [4]uint32{0, 0, 100, 100},
		},
		{
			name: "buffer larger than surface clips, never shrinks",
			bufW: 100, bufH: 100, surfW: 50, surfH: 50,
			wantScaleX: 2, wantScaleY: 2,
			wantClip: [4]uint32{0, 0, 50, 50},
		},
		{
			name: "widescreen letterbox",
			bufW: 320, bufH: 240, surfW: 1920, surfH: 1080,
			wantScaleX: 1280.0 / 1920.0, wantScaleY: 960.0 / 1080.0,
			wantClip: [4]uint32{320, 60, 1280, 960},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newScalingMatrix(tt.bufW, tt.bufH, aspectRatio{1, 1}, tt.surfW, tt.surfH, ScalingInteger)
			if got := m.Transform[0]; !close32(got, tt.wantScaleX) {
				t.Errorf("x scale = %v, want %v", got, tt.wantScaleX)
			}
			if got := m.Transform[5]; !close32(got, tt.wantScaleY) {
				t.Errorf("y scale = %v, want %v", got, tt.wantScaleY)
			}
			x, y, w, h := m.ClipRect()
			if got := [4]uint32{x, y, w, h}; got != tt.wantClip {
				t.Errorf("ClipRect() = %v, want %v", got, tt.wantClip)
			}
		})
	}
}

func TestIntegerScaleAlwaysAtLeastOne(t *testing.T) {
	sizes := []uint32{1, 7, 16, 63, 64, 100, 333}
	for _, bw := range sizes {
		for _, sw := range sizes {
			m := newScalingMatrix(bw, bw, aspectRatio{1, 1}, sw, sw, ScalingInteger)
			scale := m.scaledW / float64(bw)
			if scale < 1 {
				t.Fatalf("buffer %d surface %d: scale %v < 1", bw, sw, scale)
			}
			if bw <= sw {
				want := math.Floor(float64(sw) / float64(bw))
				if scale != want {
					t.Fatalf("buffer %d surface %d: scale %v, want %v", bw, sw, scale, want)
				}
			}
		}
	}
}

func TestIntegerScalingCentered(t *testing.T) {
	// Opposite letterbox margins must be equal within rounding.
	m := newScalingMatrix(16, 16, aspectRatio{1, 1}, 70, 64, ScalingInteger)
	x, y, w, h := m.ClipRect()
	right := 70 - (x + w)
	bottom := 64 - (y + h)
	if diff := int(right) - int(x); diff < -1 || diff > 1 {
		t.Errorf("horizontal margins %d / %d differ by more than rounding", x, right)
	}
	if diff := int(bottom) - int(y); diff < -1 || diff > 1 {
		t.Errorf("vertical margins %d / %d differ by more than rounding", y, bottom)
	}
	if x != 3 || right > 4 {
		t.Errorf("expected 3px pillarbox, got left %d right %d", x, right)
	}
}

func TestPixelAspectRatio(t *testing.T) {
	// A 10x7 buffer with 8:7 texels on a 100x70 surface: the display
	// width becomes 10*8/7, so the horizontal fit is 8.75 and the
	// integer scale floors to 8.
	m := newScalingMatrix(10, 7, aspectRatio{8, 7}, 100, 70, ScalingInteger)

	wantW := 10.0 * 8.0 / 7.0 * 8.0 // 91.43
	wantH := 7.0 * 8.0             // 56
	if !close64(m.scaledW, wantW) {
		t.Errorf("scaled width = %v, want %v", m.scaledW, wantW)
	}
	if !close64(m.scaledH, wantH) {
		t.Errorf("scaled height = %v, want %v", m.scaledH, wantH)
	}

	x, y, w, h := m.ClipRect()
	if x != 4 || y != 7 || w != 91 || h != 56 {
		t.Errorf("ClipRect() = (%d,%d,%d,%d), want (4,7,91,56)", x, y, w, h)
	}

	// Non-square texels can never be sampled nearest.
	if m.wholeScale(10, 7) {
		t.Error("wholeScale() = true for non-square pixel aspect ratio")
	}
}

func TestScalingMatrixIdempotent(t *testing.T) {
	a := newScalingMatrix(16, 16, aspectRatio{1, 1}, 70, 64, ScalingInteger)
	b := newScalingMatrix(16, 16, aspectRatio{1, 1}, 70, 64, ScalingInteger)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different matrices:\n%+v\n%+v", a, b)
	}
}

func TestFillCoversSurface(t *testing.T) {
	tests := []struct {
		bufW, bufH, surfW, surfH uint32
	}{
		{16, 16, 70, 64},
		{16, 16, 64, 70},
		{320, 240, 1920, 1080},
		{100, 100, 33, 77},
	}
	for _, tt := range tests {
		m := newScalingMatrix(tt.bufW, tt.bufH, aspectRatio{1, 1}, tt.surfW, tt.surfH, ScalingFill)
		if m.scaledW < float64(tt.surfW) || m.scaledH < float64(tt.surfH) {
			t.Errorf("fill %dx%d onto %dx%d: scaled %vx%v leaves a gap",
				tt.bufW, tt.bufH, tt.surfW, tt.surfH, m.scaledW, m.scaledH)
		}
		x, y, w, h := m.ClipRect()
		if x != 0 || y != 0 || w != tt.surfW || h != tt.surfH {
			t.Errorf("fill clip = (%d,%d,%d,%d), want full surface %dx%d",
				x, y, w, h, tt.surfW, tt.surfH)
		}
	}
}

func TestStretchFillsExactly(t *testing.T) {
	m := newScalingMatrix(16, 16, aspectRatio{1, 1}, 70, 64, ScalingStretch)
	if m.scaledW != 70 || m.scaledH != 64 {
		t.Errorf("stretch scaled = %vx%v, want 70x64", m.scaledW, m.scaledH)
	}
	if !close32(m.Transform[0], 1) || !close32(m.Transform[5], 1) {
		t.Errorf("stretch transform scale = (%v,%v), want (1,1)", m.Transform[0], m.Transform[5])
	}
}

func TestHalfTexelTranslation(t *testing.T) {
	// Even surface dimensions need no correction.
	m := newScalingMatrix(16, 16, aspectRatio{1, 1}, 64, 64, ScalingInteger)
	if m.Transform[12] != 0 || m.Transform[13] != 0 {
		t.Errorf("even surface translation = (%v,%v), want (0,0)", m.Transform[12], m.Transform[13])
	}

	// Odd dimensions shift by the fractional half-surface.
	m = newScalingMatrix(16, 16, aspectRatio{1, 1}, 71, 65, ScalingInteger)
	if want := float32(0.5 / 71.0); !close32(m.Transform[12], want) {
		t.Errorf("odd surface tx = %v, want %v", m.Transform[12], want)
	}
	if want := float32(0.5 / 65.0); !close32(m.Transform[13], want) {
		t.Errorf("odd surface ty = %v, want %v", m.Transform[13], want)
	}
}

func TestWholeScale(t *testing.T) {
	tests := []struct {
		name         string
		bufW, bufH   uint32
		surfW, surfH uint32
		mode         ScalingMode
		want         bool
	}{
		{"integer 4x", 16, 16, 64, 64, ScalingInteger, true},
		{"integer 4x pillarboxed", 16, 16, 70, 64, ScalingInteger, true},
		{"fill fractional", 16, 16, 70, 64, ScalingFill, false},
		{"stretch fractional", 16, 16, 70, 64, ScalingStretch, false},
		{"stretch exact double", 16, 16, 32, 32, ScalingStretch, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newScalingMatrix(tt.bufW, tt.bufH, aspectRatio{1, 1}, tt.surfW, tt.surfH, tt.mode)
			if got := m.wholeScale(tt.bufW, tt.bufH); got != tt.want {
				t.Errorf("wholeScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPosToPixel(t *testing.T) {
	// 16x16 buffer integer-scaled 4x onto 70x64: image at (3,0) 64x64.
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY int
		wantInside   bool
	}{
		{"top left texel", 3, 0, 0, 0, true},
		{"interior", 35, 33, 8, 8, true},
		{"last texel", 66.9, 63.9, 15, 15, true},
		{"left of image clamps", 1, 10, 0, 2, false},
		{"right of image clamps", 69, 10, 15, 2, false},
		{"below image clamps", 35, 64.5, 8, 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py, inside := posToPixel(tt.x, tt.y, 3, 0, 64, 64, 16, 16)
			if px != tt.wantX || py != tt.wantY || inside != tt.wantInside {
				t.Errorf("posToPixel(%v,%v) = (%d,%d,%v), want (%d,%d,%v)",
					tt.x, tt.y, px, py, inside, tt.wantX, tt.wantY, tt.wantInside)
			}
		})
	}
}

func close32(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }
func close64(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
