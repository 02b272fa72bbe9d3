package dof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/jdonald/dof-go/common"
	"github.com/jdonald/dof-go/engine/camera"
	"github.com/jdonald/dof-go/engine/loader"
	"github.com/jdonald/dof-go/engine/renderer"
	"github.com/jdonald/dof-go/engine/renderer/bind_group_provider"
	"github.com/jdonald/dof-go/engine/renderer/pipeline"
	"github.com/jdonald/dof-go/engine/scene"
)

const shaderDir = "../../assets/shaders"

// fakeTarget records the descriptor it was created from and whether it has
// been released.
type fakeTarget struct {
	desc     renderer.TargetDescriptor
	released bool
}

func (t *fakeTarget) Label() string { return t.desc.Label }
func (t *fakeTarget) Width() int    { return t.desc.Width }
func (t *fakeTarget) Height() int   { return t.desc.Height }
func (t *fakeTarget) Release()      { t.released = true }
func (t *fakeTarget) Format(i int) wgpu.TextureFormat {
	if i < 0 || i >= len(t.desc.ColorFormats) {
		return wgpu.TextureFormatUndefined
	}
	return t.desc.ColorFormats[i]
}
func (t *fakeTarget) ColorView(i int) *wgpu.TextureView { return nil }

// drawRecord captures one DrawCall for sequence assertions.
type drawRecord struct {
	pipelineKey   string
	instanceCount uint32
	groupCount    int
}

// fakeRenderer satisfies renderer.Renderer without touching the GPU, recording
// the calls the orchestrator makes.
type fakeRenderer struct {
	pipelines map[string]pipeline.Pipeline

	targets        []*fakeTarget
	draws          []drawRecord
	replacedKeys   []string
	beginFrames    int
	endFrames      int
	presents       int
	bindGroupInits int
	writeBatches   [][]bind_group_provider.BufferWrite
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline {
	return f.pipelines[key]
}

func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline {
	return f.pipelines
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) ReplacePipeline(p pipeline.Pipeline) error {
	f.pipelines[p.PipelineKey()] = p
	f.replacedKeys = append(f.replacedKeys, p.PipelineKey())
	return nil
}

func (f *fakeRenderer) SetPipeline(key string, p pipeline.Pipeline) {
	f.pipelines[key] = p
}

func (f *fakeRenderer) SetPipelines(pipelines map[string]pipeline.Pipeline) {
	f.pipelines = pipelines
}

func (f *fakeRenderer) Resize(width, height int) {}

func (f *fakeRenderer) MSAA() renderer.MSAASampleCount {
	return renderer.MSAA4x
}

func (f *fakeRenderer) SurfaceFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatBGRA8Unorm
}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (f *fakeRenderer) CreateRenderTarget(desc renderer.TargetDescriptor) (renderer.RenderTarget, error) {
	t := &fakeTarget{desc: desc}
	f.targets = append(f.targets, t)
	return t, nil
}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	provider.SetIndexCount(indexCount)
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	f.bindGroupInits++
	return nil
}

func (f *fakeRenderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return nil
}

func (f *fakeRenderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writeBatches = append(f.writeBatches, writes)
}

func (f *fakeRenderer) BeginFrame() error {
	f.beginFrames++
	return nil
}

func (f *fakeRenderer) BeginTargetPass(target renderer.RenderTarget) {}
func (f *fakeRenderer) BeginSurfacePass()                            {}
func (f *fakeRenderer) EndPass()                                     {}

func (f *fakeRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawRecord{
		pipelineKey:   pipelineKey,
		instanceCount: instanceCount,
		groupCount:    len(bindGroups),
	})
	return nil
}

func (f *fakeRenderer) EndFrame() { f.endFrames++ }
func (f *fakeRenderer) Present()  { f.presents++ }

var _ renderer.Renderer = &fakeRenderer{}

func newTestOrchestrator(t *testing.T, searchPath string) (Orchestrator, *fakeRenderer) {
	t.Helper()

	fake := newFakeRenderer()
	cam := camera.NewCamera(
		camera.WithController(camera.NewCameraController(camera.WithRadius(25))),
	)
	o := NewOrchestrator(
		WithRenderer(fake),
		WithLoader(loader.NewLoader(loader.BackendTypeFile, loader.WithSearchPaths(searchPath))),
		WithScene(scene.NewScene()),
		WithCamera(cam),
	)
	return o, fake
}

func TestInitializeCreatesTargetsAndPipelines(t *testing.T) {
	o, fake := newTestOrchestrator(t, shaderDir)

	if err := o.Initialize(960, 540); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if o.State() != StateReady {
		t.Fatalf("expected StateReady, got %d", o.State())
	}

	if len(fake.targets) != 3 {
		t.Fatalf("expected 3 render targets, got %d", len(fake.targets))
	}

	tests := []struct {
		name          string
		target        *fakeTarget
		width, height int
		colors        int
		sampleCount   uint32
		depth         bool
	}{
		{name: "scene capture", target: fake.targets[0], width: 960, height: 540, colors: 1, sampleCount: 4, depth: true},
		{name: "horizontal blur", target: fake.targets[1], width: 240, height: 540, colors: 2, sampleCount: 1},
		{name: "vertical blur", target: fake.targets[2], width: 240, height: 135, colors: 2, sampleCount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.target.desc
			if d.Width != tt.width || d.Height != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, d.Width, d.Height)
			}
			if len(d.ColorFormats) != tt.colors {
				t.Errorf("expected %d color attachments, got %d", tt.colors, len(d.ColorFormats))
			}
			if d.SampleCount != tt.sampleCount {
				t.Errorf("expected sample count %d, got %d", tt.sampleCount, d.SampleCount)
			}
			if d.DepthStencil != tt.depth {
				t.Errorf("expected depth %t, got %t", tt.depth, d.DepthStencil)
			}
		})
	}

	for _, key := range []string{"scene", "scene_bounds", "blur_horizontal", "blur_vertical", "composite"} {
		if fake.Pipeline(key) == nil {
			t.Errorf("pipeline %q not registered", key)
		}
	}
}

func TestResize(t *testing.T) {
	o, fake := newTestOrchestrator(t, shaderDir)
	if err := o.Initialize(960, 540); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	created := len(fake.targets)

	if err := o.Resize(960, 540); err != nil {
		t.Fatalf("same-size Resize failed: %v", err)
	}
	if len(fake.targets) != created {
		t.Fatalf("same-size Resize recreated targets: %d -> %d", created, len(fake.targets))
	}

	if err := o.Resize(1280, 720); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if o.State() != StateReady {
		t.Fatalf("expected StateReady after resize, got %d", o.State())
	}
	if len(fake.targets) != created+3 {
		t.Fatalf("expected 3 new targets, got %d", len(fake.targets)-created)
	}
	for _, old := range fake.targets[:created] {
		if !old.released {
			t.Errorf("target %q from the old size was not released", old.desc.Label)
		}
	}

	fresh := fake.targets[created:]
	if fresh[0].desc.Width != 1280 || fresh[0].desc.Height != 720 {
		t.Errorf("scene target not resized: %dx%d", fresh[0].desc.Width, fresh[0].desc.Height)
	}
	if fresh[1].desc.Width != 320 || fresh[1].desc.Height != 720 {
		t.Errorf("horizontal blur target wrong size: %dx%d", fresh[1].desc.Width, fresh[1].desc.Height)
	}
	if fresh[2].desc.Width != 320 || fresh[2].desc.Height != 180 {
		t.Errorf("vertical blur target wrong size: %dx%d", fresh[2].desc.Width, fresh[2].desc.Height)
	}
}

func TestResizeRejectsInvalidSize(t *testing.T) {
	o, _ := newTestOrchestrator(t, shaderDir)
	if err := o.Initialize(960, 540); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := o.Resize(0, 540); err == nil {
		t.Fatal("expected an error for zero width")
	}
}

func TestRenderRequiresReady(t *testing.T) {
	o, _ := newTestOrchestrator(t, shaderDir)
	if err := o.Render(RenderParameters{}); err == nil {
		t.Fatal("expected an error rendering before Initialize")
	}
}

func TestRenderDrawSequence(t *testing.T) {
	o, fake := newTestOrchestrator(t, shaderDir)
	if err := o.Initialize(960, 540); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	tests := []struct {
		name      string
		params    RenderParameters
		pipelines []string
	}{
		{
			name:      "without bounds",
			params:    RenderParameters{Aperture: 0.8, FocalLength: 2.2, FocalPlane: 10, MaxCoCRadiusPixels: 8, FarRadiusRescale: 1},
			pipelines: []string{"scene", "scene", "blur_horizontal", "blur_vertical", "composite"},
		},
		{
			name:      "with bounds",
			params:    RenderParameters{Aperture: 0.8, FocalLength: 2.2, FocalPlane: 10, MaxCoCRadiusPixels: 8, FarRadiusRescale: 1, ShowBounds: true},
			pipelines: []string{"scene", "scene", "scene_bounds", "blur_horizontal", "blur_vertical", "composite"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake.draws = nil
			if err := o.Render(tt.params); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if len(fake.draws) != len(tt.pipelines) {
				t.Fatalf("expected %d draw calls, got %d", len(tt.pipelines), len(fake.draws))
			}
			for i, want := range tt.pipelines {
				if fake.draws[i].pipelineKey != want {
					t.Errorf("draw %d: expected pipeline %q, got %q", i, want, fake.draws[i].pipelineKey)
				}
			}
			if fake.draws[0].instanceCount != scene.InstanceCount {
				t.Errorf("instanced draw expected %d instances, got %d", scene.InstanceCount, fake.draws[0].instanceCount)
			}
			if fake.draws[1].instanceCount != 1 {
				t.Errorf("backdrop draw expected 1 instance, got %d", fake.draws[1].instanceCount)
			}
		})
	}

	if fake.beginFrames != fake.endFrames || fake.endFrames != fake.presents {
		t.Errorf("unbalanced frame lifecycle: begin=%d end=%d present=%d", fake.beginFrames, fake.endFrames, fake.presents)
	}
}

func TestReloadShadersKeepsFailedProgram(t *testing.T) {
	// Copy the shaders to a scratch dir so one source can be removed after
	// the initial load.
	dir := t.TempDir()
	for _, name := range []string{"scene.wgsl", "bounds.wgsl", "blur.wgsl", "composite.wgsl"} {
		data, err := os.ReadFile(filepath.Join(shaderDir, name))
		if err != nil {
			t.Fatalf("failed to read %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("failed to copy %s: %v", name, err)
		}
	}

	o, fake := newTestOrchestrator(t, dir)
	if err := o.Initialize(960, 540); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	o.ReloadShaders()
	if len(fake.replacedKeys) != 5 {
		t.Fatalf("expected all 5 pipelines replaced, got %d", len(fake.replacedKeys))
	}
	if o.State() != StateReady {
		t.Fatalf("expected StateReady after reload, got %d", o.State())
	}

	if err := os.Remove(filepath.Join(dir, "scene.wgsl")); err != nil {
		t.Fatalf("failed to remove scene.wgsl: %v", err)
	}

	fake.replacedKeys = nil
	o.ReloadShaders()

	replaced := make(map[string]bool)
	for _, key := range fake.replacedKeys {
		replaced[key] = true
	}
	if replaced["scene"] {
		t.Error("pipeline with a broken program source was replaced")
	}
	for _, key := range []string{"scene_bounds", "blur_horizontal", "blur_vertical", "composite"} {
		if !replaced[key] {
			t.Errorf("pipeline %q was not replaced", key)
		}
	}
	if o.State() != StateReady {
		t.Fatalf("expected StateReady after partial reload, got %d", o.State())
	}
}

func TestUniformMarshalLayouts(t *testing.T) {
	tests := []struct {
		name string
		size int
		buf  []byte
	}{
		{name: "lens", size: 16, buf: (&GPULensUniform{Aperture: 0.8}).Marshal()},
		{name: "blur", size: 16, buf: (&GPUBlurUniform{MaxCoCRadius: 8}).Marshal()},
		{name: "composite", size: 16, buf: (&GPUCompositeUniform{FarRadiusRescale: 1}).Marshal()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.buf) != tt.size {
				t.Errorf("expected %d bytes, got %d", tt.size, len(tt.buf))
			}
		})
	}
}
