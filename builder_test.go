package pixels

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

// Invalid configurations must be rejected before any GPU call, so
// these run headless.
func TestBuildRejectsInvalidConfig(t *testing.T) {
	surface := NewSurfaceTexture(nil, 640, 480)

	tests := []struct {
		name    string
		builder *Builder
		wantErr error
	}{
		{
			name:    "zero buffer width",
			builder: NewBuilder(0, 240, surface),
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "zero buffer height",
			builder: NewBuilder(320, 0, surface),
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "zero surface size",
			builder: NewBuilder(320, 240, NewSurfaceTexture(nil, 0, 0)),
			wantErr: ErrInvalidDimensions,
		},
		{
			name:    "zero aspect ratio component",
			builder: NewBuilder(320, 240, surface).PixelAspectRatio(0, 1),
			wantErr: ErrInvalidAspectRatio,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.builder.Build()
			if p != nil {
				t.Fatal("Build() returned a renderer for invalid config")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildRequiresSurface(t *testing.T) {
	p, err := NewBuilder(320, 240, NewSurfaceTexture(nil, 640, 480)).Build()
	if p != nil || err == nil {
		t.Fatalf("Build() = (%v, %v), want nil renderer and an error", p, err)
	}
}

func TestBuilderDefaults(t *testing.T) {
	b := NewBuilder(320, 240, NewSurfaceTexture(nil, 640, 480))
	if b.mode != ScalingInteger {
		t.Errorf("default mode = %v, want %v", b.mode, ScalingInteger)
	}
	if b.par != (aspectRatio{1, 1}) {
		t.Errorf("default aspect ratio = %v, want 1:1", b.par)
	}
	if b.presentMode != wgpu.PresentModeFifo {
		t.Errorf("default present mode = %v, want Fifo", b.presentMode)
	}
	if b.textureFormat != wgpu.TextureFormatRGBA8UnormSrgb {
		t.Errorf("default texture format = %v, want RGBA8UnormSrgb", b.textureFormat)
	}
}

func TestEnableVsync(t *testing.T) {
	b := NewBuilder(320, 240, NewSurfaceTexture(nil, 640, 480))
	if b.EnableVsync(false); b.presentMode != wgpu.PresentModeImmediate {
		t.Errorf("EnableVsync(false): present mode = %v, want Immediate", b.presentMode)
	}
	if b.EnableVsync(true); b.presentMode != wgpu.PresentModeFifo {
		t.Errorf("EnableVsync(true): present mode = %v, want Fifo", b.presentMode)
	}
}

func TestAddRenderPass(t *testing.T) {
	factory := func(PassResources) (RenderPass, error) { return nil, nil }
	b := NewBuilder(320, 240, NewSurfaceTexture(nil, 640, 480)).
		AddRenderPass(factory).
		AddRenderPass(factory)
	if len(b.factories) != 2 {
		t.Errorf("registered %d factories, want 2", len(b.factories))
	}
}

func TestPowerPreferenceFromEnv(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("PIXELS_HIGH_PERF", "")
		t.Setenv("PIXELS_LOW_POWER", "")
		if got := powerPreferenceFromEnv(); got != wgpu.PowerPreferenceUndefined {
			t.Errorf("powerPreferenceFromEnv() = %v, want Undefined", got)
		}
	})
	t.Run("high performance", func(t *testing.T) {
		t.Setenv("PIXELS_HIGH_PERF", "1")
		t.Setenv("PIXELS_LOW_POWER", "")
		if got := powerPreferenceFromEnv(); got != wgpu.PowerPreferenceHighPerformance {
			t.Errorf("powerPreferenceFromEnv() = %v, want HighPerformance", got)
		}
	})
	t.Run("low power", func(t *testing.T) {
		t.Setenv("PIXELS_HIGH_PERF", "")
		t.Setenv("PIXELS_LOW_POWER", "1")
		if got := powerPreferenceFromEnv(); got != wgpu.PowerPreferenceLowPower {
			t.Errorf("powerPreferenceFromEnv() = %v, want LowPower", got)
		}
	})
	t.Run("high perf wins over low power", func(t *testing.T) {
		t.Setenv("PIXELS_HIGH_PERF", "1")
		t.Setenv("PIXELS_LOW_POWER", "1")
		if got := powerPreferenceFromEnv(); got != wgpu.PowerPreferenceHighPerformance {
			t.Errorf("powerPreferenceFromEnv() = %v, want HighPerformance", got)
		}
	})
}
