package common

import (
	"math"
	"testing"
)

func TestRayIntersectSphere(t *testing.T) {
	tests := []struct {
		name    string
		ray     Ray
		sphere  Sphere
		wantHit bool
		wantT   float32
	}{
		{
			name:    "head-on hit",
			ray:     NewRay([3]float32{0, 0, 10}, [3]float32{0, 0, -1}),
			sphere:  Sphere{Center: [3]float32{0, 0, 0}, Radius: 2},
			wantHit: true,
			wantT:   8,
		},
		{
			name:    "grazing hit",
			ray:     NewRay([3]float32{2, 0, 10}, [3]float32{0, 0, -1}),
			sphere:  Sphere{Center: [3]float32{0, 0, 0}, Radius: 2},
			wantHit: true,
			wantT:   10,
		},
		{
			name:    "clean miss",
			ray:     NewRay([3]float32{5, 0, 10}, [3]float32{0, 0, -1}),
			sphere:  Sphere{Center: [3]float32{0, 0, 0}, Radius: 2},
			wantHit: false,
		},
		{
			name:    "sphere behind origin",
			ray:     NewRay([3]float32{0, 0, 10}, [3]float32{0, 0, 1}),
			sphere:  Sphere{Center: [3]float32{0, 0, 0}, Radius: 2},
			wantHit: false,
		},
		{
			name:    "origin inside sphere returns exit distance",
			ray:     NewRay([3]float32{0, 0, 0}, [3]float32{0, 0, -1}),
			sphere:  Sphere{Center: [3]float32{0, 0, 0}, Radius: 2},
			wantHit: true,
			wantT:   2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, hit := tt.ray.IntersectSphere(tt.sphere)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && !approxEq(gotT, tt.wantT, 1e-4) {
				t.Errorf("t = %v, want %v", gotT, tt.wantT)
			}
		})
	}
}

func TestNewRayNormalizesDirection(t *testing.T) {
	r := NewRay([3]float32{0, 0, 0}, [3]float32{0, 3, 4})
	lenSq := r.Direction[0]*r.Direction[0] + r.Direction[1]*r.Direction[1] + r.Direction[2]*r.Direction[2]
	if !approxEq(lenSq, 1, 1e-6) {
		t.Errorf("direction length squared = %v, want 1", lenSq)
	}
}

func TestSphereTransformed(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 10, -5, 2, 0, float32(math.Pi/4), 0, 3, 1, 2)

	s := Sphere{Center: [3]float32{0, 0, 0}, Radius: 1}
	got := s.Transformed(m)

	want := [3]float32{10, -5, 2}
	for i := range want {
		if !approxEq(got.Center[i], want[i], 1e-5) {
			t.Errorf("center[%d] = %v, want %v", i, got.Center[i], want[i])
		}
	}
	// Radius scales by the largest axis scale.
	if !approxEq(got.Radius, 3, 1e-5) {
		t.Errorf("radius = %v, want 3", got.Radius)
	}
}
