package pixels

import (
	"errors"
	"testing"
)

func TestClassifySurfaceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"outdated", errors.New("Surface texture is Outdated"), ErrSurfaceOutdated},
		{"timeout is transient", errors.New("timeout acquiring next texture"), ErrSurfaceOutdated},
		{"suboptimal is transient", errors.New("surface is SubOptimal"), ErrSurfaceOutdated},
		{"lost", errors.New("Surface texture is Lost"), ErrSurfaceLost},
		{"device lost", errors.New("the Device was lost"), ErrSurfaceLost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySurfaceError(tt.err); got != tt.want {
				t.Errorf("classifySurfaceError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		if got := classifySurfaceError(nil); got != nil {
			t.Errorf("classifySurfaceError(nil) = %v", got)
		}
	})
	t.Run("unknown passes through", func(t *testing.T) {
		err := errors.New("validation failure")
		if got := classifySurfaceError(err); got != err {
			t.Errorf("classifySurfaceError() = %v, want the original error", got)
		}
	})
}

func TestWrapSurfaceError(t *testing.T) {
	orig := errors.New("Surface texture is Outdated")
	wrapped := wrapSurfaceError(ErrSurfaceOutdated, orig)
	if !errors.Is(wrapped, ErrSurfaceOutdated) {
		t.Errorf("wrapped error does not match ErrSurfaceOutdated: %v", wrapped)
	}

	unknown := errors.New("validation failure")
	if got := wrapSurfaceError(unknown, unknown); got != unknown {
		t.Errorf("wrapSurfaceError() = %v, want the original error unchanged", got)
	}
}
