package model

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestGPUVertexMarshalSize(t *testing.T) {
	v := GPUVertex{}
	if got := v.Size(); got != 64 {
		t.Fatalf("expected GPUVertex size 64, got %d", got)
	}
	if got := len(v.Marshal()); got != 64 {
		t.Fatalf("expected marshaled length 64, got %d", got)
	}
}

func TestGPUVertexMarshalLayout(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		TexCoord: [2]float32{0.25, 0.75},
		Color:    [4]float32{0.1, 0.2, 0.3, 0.4},
		Tangent:  [4]float32{1, 0, 0, -1},
	}
	buf := v.Marshal()

	readF32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
	}
	if got := readF32(0); got != 1 {
		t.Errorf("position.x at offset 0: expected 1, got %v", got)
	}
	if got := readF32(16); got != 1 {
		t.Errorf("normal.y at offset 16: expected 1, got %v", got)
	}
	if got := readF32(28); got != 0.75 {
		t.Errorf("texCoord.y at offset 28: expected 0.75, got %v", got)
	}
	if got := readF32(44); got != v.Color[3] {
		t.Errorf("color.a at offset 44: expected %v, got %v", v.Color[3], got)
	}
	if got := readF32(60); got != -1 {
		t.Errorf("tangent.w at offset 60: expected -1, got %v", got)
	}
}

func TestMarshalIndices(t *testing.T) {
	buf := MarshalIndices([]uint32{0, 1, 2, 70000})
	if len(buf) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[12:16]); got != 70000 {
		t.Fatalf("expected index 70000, got %d", got)
	}
}

func TestComputeBoundingRadius(t *testing.T) {
	tests := []struct {
		name     string
		vertices []GPUVertex
		expected float32
	}{
		{name: "empty", vertices: nil, expected: 0},
		{name: "single at origin", vertices: []GPUVertex{{}}, expected: 0},
		{
			name: "axis aligned",
			vertices: []GPUVertex{
				{Position: [3]float32{3, 0, 0}},
				{Position: [3]float32{0, -5, 0}},
				{Position: [3]float32{0, 0, 2}},
			},
			expected: 5,
		},
		{
			name:     "diagonal",
			vertices: []GPUVertex{{Position: [3]float32{1, 2, 2}}},
			expected: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeBoundingRadius(tt.vertices); got != tt.expected {
				t.Fatalf("expected radius %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewModelOptions(t *testing.T) {
	m := NewModel(
		WithName("instance"),
		WithMaterialName("gold"),
		WithBoundingRadius(1.5),
		WithIndexCount(36),
	)
	if m.Name() != "instance" {
		t.Errorf("expected name %q, got %q", "instance", m.Name())
	}
	if m.MaterialName() != "gold" {
		t.Errorf("expected material %q, got %q", "gold", m.MaterialName())
	}
	if m.BoundingRadius() != 1.5 {
		t.Errorf("expected bounding radius 1.5, got %v", m.BoundingRadius())
	}
	if m.IndexCount() != 36 {
		t.Errorf("expected index count 36, got %d", m.IndexCount())
	}
}

func TestNewSphereModelGeometry(t *testing.T) {
	const radius = 2.0
	const subdivisions = 4
	m := NewSphereModel("ball", "gold", radius, subdivisions, false)

	wantVerts := 6 * (subdivisions + 1) * (subdivisions + 1)
	if got := len(m.VertexData()) / 64; got != wantVerts {
		t.Fatalf("expected %d vertices, got %d", wantVerts, got)
	}
	wantIndices := 6 * subdivisions * subdivisions * 6
	if m.IndexCount() != wantIndices {
		t.Fatalf("expected %d indices, got %d", wantIndices, m.IndexCount())
	}
	if m.IndexCount()%3 != 0 {
		t.Fatalf("triangle index count %d not divisible by 3", m.IndexCount())
	}

	// Every vertex must sit on the sphere surface.
	data := m.VertexData()
	for i := 0; i < wantVerts; i++ {
		base := i * 64
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[base : base+4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(data[base+4 : base+8]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(data[base+8 : base+12]))
		dist := math.Sqrt(float64(x*x + y*y + z*z))
		if math.Abs(dist-radius) > 1e-5 {
			t.Fatalf("vertex %d at distance %v, expected %v", i, dist, radius)
		}
	}

	if got := m.BoundingRadius(); math.Abs(float64(got)-radius) > 1e-5 {
		t.Fatalf("expected bounding radius %v, got %v", radius, got)
	}
}

func TestNewSphereModelInwardFlipsNormals(t *testing.T) {
	outward := NewSphereModel("out", "clay", 1, 2, false)
	inward := NewSphereModel("in", "clay", 1, 2, true)

	readVec3 := func(data []byte, vertex, offset int) [3]float32 {
		base := vertex*64 + offset
		return [3]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(data[base : base+4])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[base+4 : base+8])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[base+8 : base+12])),
		}
	}

	vertCount := len(outward.VertexData()) / 64
	if got := len(inward.VertexData()) / 64; got != vertCount {
		t.Fatalf("vertex count mismatch: %d vs %d", vertCount, got)
	}
	for i := 0; i < vertCount; i++ {
		no := readVec3(outward.VertexData(), i, 12)
		ni := readVec3(inward.VertexData(), i, 12)
		for axis := 0; axis < 3; axis++ {
			if no[axis] != -ni[axis] {
				t.Fatalf("vertex %d normal axis %d: outward %v, inward %v", i, axis, no[axis], ni[axis])
			}
		}
	}
}

func TestNewWireSphereModelLineList(t *testing.T) {
	const segments = 16
	m := NewWireSphereModel("bounds", 1, segments)

	if got := len(m.VertexData()) / 64; got != 3*segments {
		t.Fatalf("expected %d vertices, got %d", 3*segments, got)
	}
	if m.IndexCount() != 3*segments*2 {
		t.Fatalf("expected %d indices, got %d", 3*segments*2, m.IndexCount())
	}
	if m.IndexCount()%2 != 0 {
		t.Fatalf("line-list index count %d not divisible by 2", m.IndexCount())
	}
}

func TestNewFullscreenTriangleModelCoversClipSpace(t *testing.T) {
	m := NewFullscreenTriangleModel("fullscreen")
	if got := len(m.VertexData()) / 64; got != 3 {
		t.Fatalf("expected 3 vertices, got %d", got)
	}
	if m.IndexCount() != 3 {
		t.Fatalf("expected 3 indices, got %d", m.IndexCount())
	}

	// The triangle's extents must reach past every clip-space corner so the
	// clipped region covers the whole viewport.
	data := m.VertexData()
	var minX, maxX, minY, maxY float32 = 10, -10, 10, -10
	for i := 0; i < 3; i++ {
		base := i * 64
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[base : base+4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(data[base+4 : base+8]))
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	if minX > -1 || maxX < 1 || minY > -1 || maxY < 1 {
		t.Fatalf("triangle extents [%v,%v]x[%v,%v] do not cover clip space", minX, maxX, minY, maxY)
	}
}
