package common

import (
	"math"
	"testing"
)

func approxEq(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = float32(i)
	}
	Identity(m)
	for i, v := range m {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if v != want {
			t.Errorf("m[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestMul4Identity(t *testing.T) {
	a := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	id := make([]float32, 16)
	Identity(id)

	out := make([]float32, 16)
	Mul4(out, a, id)
	for i := range a {
		if out[i] != a[i] {
			t.Errorf("a*I: out[%d] = %v, want %v", i, out[i], a[i])
		}
	}

	Mul4(out, id, a)
	for i := range a {
		if out[i] != a[i] {
			t.Errorf("I*a: out[%d] = %v, want %v", i, out[i], a[i])
		}
	}
}

func TestMul4Aliasing(t *testing.T) {
	// Mul4 must produce correct results when out aliases an input.
	a := make([]float32, 16)
	BuildModelMatrix(a, 1, 2, 3, 0.5, 0.25, 0.75, 1, 1, 1)
	b := make([]float32, 16)
	BuildModelMatrix(b, -4, 5, 0, 0, 1.2, 0, 2, 2, 2)

	want := make([]float32, 16)
	Mul4(want, a, b)

	Mul4(a, a, b)
	for i := range want {
		if !approxEq(a[i], want[i], 1e-6) {
			t.Fatalf("aliased Mul4 differs at %d: %v vs %v", i, a[i], want[i])
		}
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 3, -2, 7, 0.4, 1.1, -0.3, 1.5, 1.5, 1.5)

	inv := make([]float32, 16)
	if !Invert4(inv, m) {
		t.Fatal("Invert4 reported singular for an affine transform")
	}

	out := make([]float32, 16)
	Mul4(out, m, inv)
	for i := range out {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if !approxEq(out[i], want, 1e-4) {
			t.Errorf("m*inv(m)[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	m := make([]float32, 16) // all zeros
	out := make([]float32, 16)
	out[0] = 42
	if Invert4(out, m) {
		t.Fatal("Invert4 inverted a singular matrix")
	}
	if out[0] != 42 {
		t.Error("Invert4 modified output for a singular matrix")
	}
}

func TestPerspectiveClipRange(t *testing.T) {
	// WebGPU clip space maps near to z=0 and far to z=1 after the divide.
	m := make([]float32, 16)
	Perspective(m, float32(math.Pi/3), 16.0/9.0, 1, 100)

	nearPt := TransformPoint(m, 0, 0, -1)
	if !approxEq(nearPt[2], 0, 1e-5) {
		t.Errorf("near plane maps to z=%v, want 0", nearPt[2])
	}

	farPt := TransformPoint(m, 0, 0, -100)
	if !approxEq(farPt[2], 1, 1e-4) {
		t.Errorf("far plane maps to z=%v, want 1", farPt[2])
	}
}

func TestLookAtTransformsEyeToOrigin(t *testing.T) {
	m := make([]float32, 16)
	LookAt(m, 5, 3, 8, 0, 0, 0, 0, 1, 0)

	eye := TransformPoint(m, 5, 3, 8)
	for i, v := range eye {
		if !approxEq(v, 0, 1e-5) {
			t.Errorf("eye[%d] = %v, want 0", i, v)
		}
	}

	// The look target must land on the negative z axis in view space.
	target := TransformPoint(m, 0, 0, 0)
	if !approxEq(target[0], 0, 1e-5) || !approxEq(target[1], 0, 1e-5) {
		t.Errorf("target = %v, want on the -z axis", target)
	}
	if target[2] >= 0 {
		t.Errorf("target z = %v, want negative", target[2])
	}
}

func TestNormalize3(t *testing.T) {
	tests := []struct {
		name string
		in   [3]float32
		want [3]float32
	}{
		{"unit x", [3]float32{1, 0, 0}, [3]float32{1, 0, 0}},
		{"scaled y", [3]float32{0, 5, 0}, [3]float32{0, 1, 0}},
		{"diagonal", [3]float32{3, 0, 4}, [3]float32{0.6, 0, 0.8}},
		{"zero stays zero", [3]float32{0, 0, 0}, [3]float32{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize3(tt.in)
			for i := range got {
				if !approxEq(got[i], tt.want[i], 1e-6) {
					t.Errorf("Normalize3(%v) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestRotateAxisAngle(t *testing.T) {
	m := make([]float32, 16)

	// 90° around Y maps +X to -Z.
	RotateAxisAngle(m, 0, 0, 0, 0, 1, 0, float32(math.Pi/2))
	got := TransformPoint(m, 1, 0, 0)
	want := [3]float32{0, 0, -1}
	for i := range got {
		if !approxEq(got[i], want[i], 1e-6) {
			t.Fatalf("rotated point = %v, want %v", got, want)
		}
	}

	// Translation lands in the last column.
	RotateAxisAngle(m, 3, 4, 5, 1, 1, 1, 0.7)
	if m[12] != 3 || m[13] != 4 || m[14] != 5 {
		t.Errorf("translation = (%v,%v,%v), want (3,4,5)", m[12], m[13], m[14])
	}

	// A zero axis degenerates to a pure translation.
	RotateAxisAngle(m, 1, 2, 3, 0, 0, 0, 1.5)
	got = TransformPoint(m, 1, 0, 0)
	want = [3]float32{2, 2, 3}
	for i := range got {
		if !approxEq(got[i], want[i], 1e-6) {
			t.Fatalf("zero-axis point = %v, want %v", got, want)
		}
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := make([]float32, 16)
	Identity(m)
	m[12], m[13], m[14] = 100, 200, 300

	got := TransformDirection(m, 0, 0, -1)
	want := [3]float32{0, 0, -1}
	if got != want {
		t.Errorf("TransformDirection = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		v, lo, hi  float32
		want       float32
	}{
		{"below", -2, 0, 1, 0},
		{"inside", 0.5, 0, 1, 0.5},
		{"above", 7, 0, 1, 1},
		{"at lower bound", 0, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}
