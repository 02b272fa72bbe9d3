package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const blurTestSource = `
struct BlurUniforms {
    invSize: vec2f,
    radius: f32,
    invRadius: f32,
}

@group(0) @binding(0) var<uniform> blur: BlurUniforms;
@group(0) @binding(1) var sourceTexture: texture_2d<f32>;
@group(0) @binding(2) var sourceSampler: sampler;

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4f {
    return vec4f(0.0);
}

@fragment
fn fs_main() -> @location(0) vec4f {
    return vec4f(blur.radius);
}
`

const meshTestSource = `
struct VertexInput {
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) texCoord: vec2f,
    @location(3) color: vec4f,
    @location(4) tangent: vec4f,
}

struct VertexOutput {
    @builtin(position) position: vec4f,
    @location(0) viewDepth: f32,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    return out;
}
`

func TestParseEntryPoint(t *testing.T) {
	tests := []struct {
		name       string
		shaderType ShaderType
		want       string
	}{
		{"vertex", ShaderTypeVertex, "vs_main"},
		{"fragment", ShaderTypeFragment, "fs_main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseEntryPoint(blurTestSource, tt.shaderType); got != tt.want {
				t.Errorf("parseEntryPoint = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBindGroupLayouts(t *testing.T) {
	descs, varNames := parseBindGroupLayouts(blurTestSource, wgpu.ShaderStageFragment)

	desc, ok := descs[0]
	if !ok {
		t.Fatal("group 0 not parsed")
	}
	if len(desc.Entries) != 3 {
		t.Fatalf("group 0 has %d entries, want 3", len(desc.Entries))
	}

	buf := desc.Entries[0]
	if buf.Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Errorf("binding 0 type = %v, want uniform buffer", buf.Buffer.Type)
	}
	// BlurUniforms: vec2f (8) + f32 (4) + f32 (4), aligned to 8.
	if buf.Buffer.MinBindingSize != 16 {
		t.Errorf("binding 0 MinBindingSize = %d, want 16", buf.Buffer.MinBindingSize)
	}

	tex := desc.Entries[1]
	if tex.Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Errorf("binding 1 sample type = %v, want float", tex.Texture.SampleType)
	}
	if tex.Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Errorf("binding 1 view dimension = %v, want 2D", tex.Texture.ViewDimension)
	}

	smp := desc.Entries[2]
	if smp.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("binding 2 sampler type = %v, want filtering", smp.Sampler.Type)
	}

	if varNames[0][1] != "sourceTexture" {
		t.Errorf("binding 1 var name = %q, want %q", varNames[0][1], "sourceTexture")
	}
}

func TestParseVertexLayouts(t *testing.T) {
	layouts := parseVertexLayouts(meshTestSource)
	if len(layouts) != 1 {
		t.Fatalf("parsed %d layouts, want 1 (output struct must be excluded)", len(layouts))
	}

	layout := layouts[0][0]
	if layout.ArrayStride != 64 {
		t.Errorf("ArrayStride = %d, want 64", layout.ArrayStride)
	}
	if len(layout.Attributes) != 5 {
		t.Fatalf("parsed %d attributes, want 5", len(layout.Attributes))
	}

	wantFormats := []wgpu.VertexFormat{
		wgpu.VertexFormatFloat32x3,
		wgpu.VertexFormatFloat32x3,
		wgpu.VertexFormatFloat32x2,
		wgpu.VertexFormatFloat32x4,
		wgpu.VertexFormatFloat32x4,
	}
	wantOffsets := []uint64{0, 12, 24, 32, 48}
	for i, attr := range layout.Attributes {
		if attr.Format != wantFormats[i] {
			t.Errorf("attribute %d format = %v, want %v", i, attr.Format, wantFormats[i])
		}
		if attr.Offset != wantOffsets[i] {
			t.Errorf("attribute %d offset = %d, want %d", i, attr.Offset, wantOffsets[i])
		}
		if attr.ShaderLocation != uint32(i) {
			t.Errorf("attribute %d location = %d, want %d", i, attr.ShaderLocation, i)
		}
	}
}

func TestParseVertexLayoutsIgnoresFragmentOutputStruct(t *testing.T) {
	source := `
struct VertexInput {
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) texCoord: vec2f,
    @location(3) color: vec4f,
    @location(4) tangent: vec4f,
}

struct FragmentOutput {
    @location(0) near: vec4f,
    @location(1) far: vec4f,
}

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4f {
    return vec4f(in.position, 1.0);
}

@fragment
fn fs_main() -> FragmentOutput {
    var out: FragmentOutput;
    return out;
}
`
	layouts := parseVertexLayouts(source)
	if len(layouts) != 1 {
		t.Fatalf("parsed %d layouts, want 1 (fragment output struct must not become a vertex buffer)", len(layouts))
	}
	if layouts[0][0].ArrayStride != 64 {
		t.Errorf("ArrayStride = %d, want 64", layouts[0][0].ArrayStride)
	}
}

func TestNewShaderFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blur.wgsl")
	if err := os.WriteFile(path, []byte(blurTestSource), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewShader("blur_frag", ShaderTypeFragment, path)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.Key() != "blur_frag" {
		t.Errorf("Key = %q", s.Key())
	}
	if s.EntryPoint() != "fs_main" {
		t.Errorf("EntryPoint = %q, want fs_main", s.EntryPoint())
	}
	if s.Module() == nil || s.Module().WGSLDescriptor.Code == "" {
		t.Error("shader module descriptor not populated")
	}

	binding, ok := s.BindGroupFromVarName(0, "sourceSampler")
	if !ok || binding != 2 {
		t.Errorf("BindGroupFromVarName = (%d, %v), want (2, true)", binding, ok)
	}
}

func TestNewShaderErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := NewShader("nope", ShaderTypeVertex, filepath.Join(t.TempDir(), "missing.wgsl")); err == nil {
			t.Error("NewShader succeeded for a missing file")
		}
	})

	t.Run("no entry point", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "frag_only.wgsl")
		if err := os.WriteFile(path, []byte("@fragment\nfn fs_main() {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewShader("bad", ShaderTypeVertex, path); err == nil {
			t.Error("NewShader succeeded for a vertex shader with no @vertex entry")
		}
	})

	t.Run("broken directive", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "broken.wgsl")
		if err := os.WriteFile(path, []byte("#if FOO\n@vertex\nfn vs_main() {}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewShader("bad", ShaderTypeVertex, path); err == nil {
			t.Error("NewShader succeeded for an unterminated conditional")
		}
	})
}

func TestNewShaderWithDefines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "variant.wgsl")
	src := "#if HORIZONTAL\n@fragment\nfn fs_h() -> @location(0) vec4f { return vec4f(0.0); }\n#else\n@fragment\nfn fs_v() -> @location(0) vec4f { return vec4f(0.0); }\n#endif\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := NewShader("h", ShaderTypeFragment, path, WithDefines(map[string]string{"HORIZONTAL": "1"}))
	if err != nil {
		t.Fatalf("NewShader horizontal: %v", err)
	}
	if h.EntryPoint() != "fs_h" {
		t.Errorf("horizontal entry = %q, want fs_h", h.EntryPoint())
	}

	v, err := NewShader("v", ShaderTypeFragment, path)
	if err != nil {
		t.Fatalf("NewShader vertical: %v", err)
	}
	if v.EntryPoint() != "fs_v" {
		t.Errorf("vertical entry = %q, want fs_v", v.EntryPoint())
	}
}
