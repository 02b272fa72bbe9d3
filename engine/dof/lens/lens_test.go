package lens

import (
	"math"
	"testing"
)

func approxEq(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestFStopTable(t *testing.T) {
	stops := FStops()
	if len(stops) != 17 {
		t.Fatalf("expected 17 f-stops, got %d", len(stops))
	}
	if stops[0] != 0.7 {
		t.Errorf("expected first stop 0.7, got %v", stops[0])
	}
	if stops[16] != 11.0 {
		t.Errorf("expected last stop 11.0, got %v", stops[16])
	}
	for i := 1; i < len(stops); i++ {
		if stops[i] <= stops[i-1] {
			t.Errorf("f-stop table not strictly increasing at index %d: %v <= %v", i, stops[i], stops[i-1])
		}
	}

	// Mutating the returned slice must not affect the table.
	stops[0] = 999
	if FStops()[0] != 0.7 {
		t.Error("FStops returned a live reference to the table")
	}
}

func TestFocalLengthFromFieldOfView(t *testing.T) {
	tests := []struct {
		name     string
		fov      float32
		expected float32
	}{
		{name: "90 degrees", fov: math.Pi / 2, expected: 0.5},
		{name: "60 degrees", fov: math.Pi / 3, expected: 0.8660254},
		{name: "25 degrees", fov: 25 * math.Pi / 180, expected: 2.2553065},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLens(WithFieldOfView(tt.fov))
			if got := l.FocalLength(); !approxEq(got, tt.expected, 1e-4) {
				t.Fatalf("expected focal length %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFStopIndexClamped(t *testing.T) {
	l := NewLens()
	l.SetFStopIndex(-5)
	if l.FStopIndex() != 0 {
		t.Errorf("expected index clamped to 0, got %d", l.FStopIndex())
	}
	l.SetFStopIndex(100)
	if l.FStopIndex() != FStopCount-1 {
		t.Errorf("expected index clamped to %d, got %d", FStopCount-1, l.FStopIndex())
	}
	l.SetFStopIndex(2)
	if l.FStop() != 1.0 {
		t.Errorf("expected f-stop 1.0 at index 2, got %v", l.FStop())
	}
}

func TestAperture(t *testing.T) {
	l := NewLens(WithFieldOfView(math.Pi / 2)) // focal length 0.5
	l.SetFStopIndex(2)                         // f/1.0
	if got := l.Aperture(); !approxEq(got, 0.5, 1e-6) {
		t.Fatalf("expected aperture 0.5, got %v", got)
	}
	l.SetFStopIndex(16) // f/11.0
	if got := l.Aperture(); !approxEq(got, 0.5/11.0, 1e-6) {
		t.Fatalf("expected aperture %v, got %v", 0.5/11.0, got)
	}
}

func TestFocalPlaneClampedToFocalLength(t *testing.T) {
	l := NewLens(WithFieldOfView(25 * math.Pi / 180)) // focal length ~2.2553
	l.SetFocalPlane(0.1)
	if got := l.FocalPlane(); !approxEq(got, l.FocalLength(), 1e-6) {
		t.Fatalf("expected focal plane clamped to focal length %v, got %v", l.FocalLength(), got)
	}

	l.SetFocalPlane(50)
	if got := l.FocalPlane(); got != 50 {
		t.Fatalf("expected focal plane 50, got %v", got)
	}

	// Narrowing the field of view raises the focal length; the clamp must
	// re-apply to a previously valid request.
	l.SetFocalPlane(3)
	l.SetFieldOfView(5 * math.Pi / 180)
	if l.FocalLength() <= 3 {
		t.Fatalf("test setup: expected focal length > 3, got %v", l.FocalLength())
	}
	if got := l.FocalPlane(); !approxEq(got, l.FocalLength(), 1e-6) {
		t.Fatalf("expected focal plane re-clamped to %v, got %v", l.FocalLength(), got)
	}
}

func TestCoCZeroAtFocalPlane(t *testing.T) {
	l := NewLens()
	l.SetFocalPlane(10)
	if got := l.CoC(l.FocalPlane()); got != 0 {
		t.Fatalf("expected CoC 0 at focal plane, got %v", got)
	}
}

func TestCoCSign(t *testing.T) {
	l := NewLens()
	l.SetFocalPlane(10)

	near := l.CoC(5)
	far := l.CoC(20)
	if near >= 0 {
		t.Errorf("expected negative CoC in front of focal plane, got %v", near)
	}
	if far <= 0 {
		t.Errorf("expected positive CoC behind focal plane, got %v", far)
	}
}

func TestCoCMonotonicAndSaturating(t *testing.T) {
	l := NewLens(WithFieldOfView(25 * math.Pi / 180))
	l.SetFStopIndex(0) // widest aperture for strong defocus
	l.SetFocalPlane(10)

	// Far side: increasing depth must not decrease |CoC|.
	prev := float32(0)
	for depth := float32(10); depth <= 100; depth += 1 {
		coc := l.CoC(depth)
		if coc < prev {
			t.Fatalf("far CoC not monotonic at depth %v: %v < %v", depth, coc, prev)
		}
		if coc > 1 {
			t.Fatalf("CoC exceeded saturation at depth %v: %v", depth, coc)
		}
		prev = coc
	}

	// Near side: decreasing depth must not decrease |CoC|.
	prev = 0
	for depth := float32(10); depth >= 0.5; depth -= 0.5 {
		mag := -l.CoC(depth)
		if mag < prev {
			t.Fatalf("near CoC not monotonic at depth %v: %v < %v", depth, mag, prev)
		}
		if mag > 1 {
			t.Fatalf("CoC exceeded saturation at depth %v: %v", depth, mag)
		}
		prev = mag
	}

	// Close to the camera the near field saturates fully.
	if got := l.CoC(0.01); got != -1 {
		t.Fatalf("expected near saturation -1, got %v", got)
	}
}

func TestCoCFocusAtFocalLength(t *testing.T) {
	// Focal plane clamped to the focal length itself: the denominator term
	// vanishes and everything off-plane is fully defocused.
	l := NewLens(WithFieldOfView(25 * math.Pi / 180))
	l.SetFocalPlane(0)

	if got := l.CoC(l.FocalPlane()); got != 0 {
		t.Fatalf("expected CoC 0 at focal plane, got %v", got)
	}
	if got := l.CoC(l.FocalPlane() + 10); got != 1 {
		t.Fatalf("expected far saturation 1, got %v", got)
	}
	if got := l.CoC(l.FocalPlane() / 2); got != -1 {
		t.Fatalf("expected near saturation -1, got %v", got)
	}
}

func TestCoCRadiusPixels(t *testing.T) {
	l := NewLens()
	l.SetFocalPlane(10)

	if got := l.CoCRadiusPixels(10, 8); got != 0 {
		t.Fatalf("expected radius 0 at focal plane, got %v", got)
	}

	coc := l.CoC(40)
	if got := l.CoCRadiusPixels(40, 8); !approxEq(got, coc*8, 1e-6) {
		t.Fatalf("expected radius %v, got %v", coc*8, got)
	}
	if got := l.CoCRadiusPixels(40, 8); got > 8 || got < -8 {
		t.Fatalf("radius %v outside saturation bounds", got)
	}
}
