package scene

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/jdonald/dof-go/common"
)

func transformAt(data []byte, index int) []float32 {
	m := make([]float32, 16)
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[index*64+i*4 : index*64+i*4+4]))
	}
	return m
}

func TestInstanceCountAndDataSize(t *testing.T) {
	s := NewScene()
	if InstanceCount != 729 {
		t.Fatalf("expected 729 instances, got %d", InstanceCount)
	}
	if got := len(s.InstanceData()); got != InstanceCount*64 {
		t.Fatalf("expected %d bytes of instance data, got %d", InstanceCount*64, got)
	}
}

func TestGridPositions(t *testing.T) {
	s := NewScene()
	data := s.InstanceData()

	// Iteration order is z, then y, then x, each from -4 to 4. The first
	// instance sits at (-20,-20,-20), the middle one at the origin, the last
	// at (20,20,20). Translation is the last matrix column.
	first := transformAt(data, 0)
	if first[12] != -20 || first[13] != -20 || first[14] != -20 {
		t.Errorf("first instance at (%v,%v,%v), expected (-20,-20,-20)", first[12], first[13], first[14])
	}

	middle := transformAt(data, InstanceCount/2)
	if middle[12] != 0 || middle[13] != 0 || middle[14] != 0 {
		t.Errorf("middle instance at (%v,%v,%v), expected origin", middle[12], middle[13], middle[14])
	}

	last := transformAt(data, InstanceCount-1)
	if last[12] != 20 || last[13] != 20 || last[14] != 20 {
		t.Errorf("last instance at (%v,%v,%v), expected (20,20,20)", last[12], last[13], last[14])
	}
}

func TestAnimationIsDeterministic(t *testing.T) {
	a := NewScene()
	b := NewScene()

	// Same accumulated time, different step patterns.
	for i := 0; i < 60; i++ {
		a.Update(1.0 / 60.0)
	}
	b.Update(0.5)
	b.Update(0.5)

	if math.Abs(a.Time()-b.Time()) > 1e-9 {
		t.Fatalf("time diverged: %v vs %v", a.Time(), b.Time())
	}

	da, db := a.InstanceData(), b.InstanceData()
	for i := 0; i < len(da); i += 4 {
		va := math.Float32frombits(binary.LittleEndian.Uint32(da[i : i+4]))
		vb := math.Float32frombits(binary.LittleEndian.Uint32(db[i : i+4]))
		if math.Abs(float64(va-vb)) > 1e-5 {
			t.Fatalf("transforms diverged at byte %d: %v vs %v", i, va, vb)
		}
	}
}

func TestPausedUpdateKeepsTransforms(t *testing.T) {
	s := NewScene()
	s.Update(1.25)

	before := s.InstanceData()
	s.Update(0)
	after := s.InstanceData()

	if !bytes.Equal(before, after) {
		t.Fatal("zero-timestep update changed instance transforms")
	}
	if s.Time() != 1.25 {
		t.Fatalf("expected time 1.25, got %v", s.Time())
	}
}

func TestUpdateAdvancesRotation(t *testing.T) {
	s := NewScene()
	before := s.InstanceData()
	s.Update(1)
	after := s.InstanceData()

	if bytes.Equal(before, after) {
		t.Fatal("update did not change instance transforms")
	}

	// Translation must be unaffected by time.
	for _, idx := range []int{0, InstanceCount / 2, InstanceCount - 1} {
		b := transformAt(before, idx)
		a := transformAt(after, idx)
		if b[12] != a[12] || b[13] != a[13] || b[14] != a[14] {
			t.Fatalf("instance %d moved from (%v,%v,%v) to (%v,%v,%v)", idx, b[12], b[13], b[14], a[12], a[13], a[14])
		}
	}
}

func TestSceneMeshes(t *testing.T) {
	s := NewScene()

	if s.InstanceModel().MaterialName() != "gold" {
		t.Errorf("expected instance material %q, got %q", "gold", s.InstanceModel().MaterialName())
	}
	if s.BackdropModel().MaterialName() != "clay" {
		t.Errorf("expected backdrop material %q, got %q", "clay", s.BackdropModel().MaterialName())
	}

	if got := s.BackdropModel().BoundingRadius(); math.Abs(float64(got)-50) > 1e-4 {
		t.Errorf("expected backdrop radius 50, got %v", got)
	}
	if got := s.InstanceBounds().Radius; math.Abs(float64(got)-1.5) > 1e-4 {
		t.Errorf("expected instance bounds radius 1.5, got %v", got)
	}
	if got := s.BoundsModel().BoundingRadius(); math.Abs(float64(got-s.InstanceBounds().Radius)) > 1e-4 {
		t.Errorf("wire sphere radius %v does not match bounds radius %v", got, s.InstanceBounds().Radius)
	}
}

func TestAutoFocusHitsCenterInstance(t *testing.T) {
	s := NewScene()

	// Ray straight down the -Z axis from outside the grid toward the origin:
	// the nearest bounding sphere on that line is the (0,0,4)-cell instance
	// at z=20, so the hit distance is 30 - 20 - radius.
	ray := common.NewRay([3]float32{0, 0, 30}, [3]float32{0, 0, -1})
	dist, ok := s.AutoFocus(ray)
	if !ok {
		t.Fatal("expected a hit along the grid axis")
	}
	expected := float32(30 - 20 - 1.5)
	if math.Abs(float64(dist-expected)) > 1e-3 {
		t.Fatalf("expected nearest hit at %v, got %v", expected, dist)
	}
}

func TestAutoFocusMiss(t *testing.T) {
	s := NewScene()

	// Ray pointing away from the entire grid.
	ray := common.NewRay([3]float32{0, 0, 100}, [3]float32{0, 0, 1})
	if _, ok := s.AutoFocus(ray); ok {
		t.Fatal("expected no hit pointing away from the grid")
	}
}

func TestWithSeedChangesAnimation(t *testing.T) {
	a := NewScene()
	b := NewScene(WithSeed(99))
	a.Update(1)
	b.Update(1)

	if bytes.Equal(a.InstanceData(), b.InstanceData()) {
		t.Fatal("different seeds produced identical transforms")
	}
}
