package dof

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/jdonald/dof-go/common"
	"github.com/jdonald/dof-go/engine/camera"
	"github.com/jdonald/dof-go/engine/loader"
	"github.com/jdonald/dof-go/engine/model"
	"github.com/jdonald/dof-go/engine/renderer"
	"github.com/jdonald/dof-go/engine/renderer/bind_group_provider"
	"github.com/jdonald/dof-go/engine/renderer/pipeline"
	"github.com/jdonald/dof-go/engine/renderer/shader"
	"github.com/jdonald/dof-go/engine/scene"
)

// State describes the orchestrator lifecycle.
type State int

const (
	// StateUninitialized is the state before Initialize has succeeded.
	StateUninitialized State = iota
	// StateReady means all GPU resources exist and Render may be called.
	StateReady
	// StateResizing means render targets are being recreated at a new size.
	StateResizing
	// StateReloadingShaders means shader programs are being swapped in.
	StateReloadingShaders
)

// colorFormat is the format of every offscreen color attachment. Half-float
// keeps the signed circle-of-confusion stored in the alpha channel.
const colorFormat = wgpu.TextureFormatRGBA16Float

// downsampleFactor is the reduction applied per blur axis: the horizontal
// pass shrinks width by this factor, the vertical pass shrinks height.
const downsampleFactor = 4

// Pipeline cache keys.
const (
	pipelineScene     = "scene"
	pipelineBounds    = "scene_bounds"
	pipelineBlurH     = "blur_horizontal"
	pipelineBlurV     = "blur_vertical"
	pipelineComposite = "composite"
)

// program is a reloadable vertex + fragment shader pair built from one WGSL
// source file, optionally specialized with pre-processor defines.
type program struct {
	name    string
	file    string
	defines map[string]string

	vertex   shader.Shader
	fragment shader.Shader
}

// load resolves the source file through the loader and compiles both stages.
// The previous shaders are kept when either stage fails so a reload never
// leaves the program half-replaced.
func (p *program) load(assets loader.Loader) error {
	path, err := assets.ShaderPath(p.file)
	if err != nil {
		return err
	}

	opts := []shader.ShaderOption{}
	if len(p.defines) > 0 {
		opts = append(opts, shader.WithDefines(p.defines))
	}

	vs, err := shader.NewShader(p.name+"_vs", shader.ShaderTypeVertex, path, opts...)
	if err != nil {
		return err
	}
	fs, err := shader.NewShader(p.name+"_fs", shader.ShaderTypeFragment, path, opts...)
	if err != nil {
		return err
	}

	p.vertex = vs
	p.fragment = fs
	return nil
}

// orchestrator is the implementation of the Orchestrator interface.
type orchestrator struct {
	mu sync.Mutex

	state State

	renderer renderer.Renderer
	assets   loader.Loader
	scene    scene.Scene
	camera   camera.Camera

	width, height int

	programs  map[string]*program
	pipelines map[string]pipeline.Pipeline
	// pipelinePrograms maps a pipeline key to the program it renders with,
	// used to swap shaders in after a reload.
	pipelinePrograms map[string]string

	targets    *pipelineResources
	fullscreen model.Model

	sceneDataProvider    bind_group_provider.BindGroupProvider
	backdropDataProvider bind_group_provider.BindGroupProvider
	goldMaterial         bind_group_provider.BindGroupProvider
	clayMaterial         bind_group_provider.BindGroupProvider
	blurHProvider        bind_group_provider.BindGroupProvider
	blurVProvider        bind_group_provider.BindGroupProvider
	compositeProvider    bind_group_provider.BindGroupProvider
}

// Orchestrator owns the depth-of-field render pipeline: the offscreen render
// targets, the shader programs and their GPU pipelines, and the bind groups
// wiring the scene, camera, materials, and post-processing passes together.
//
// The frame flow is: capture the scene with signed CoC in alpha into a
// multisampled half-float target, run a horizontal then a vertical separable
// blur that split the image into near and far layers at reduced resolution,
// and composite sharp, far, and near layers onto the surface.
type Orchestrator interface {
	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Initialize creates every GPU resource the pipeline needs: shader
	// programs, render pipelines, mesh buffers, textures, render targets, and
	// bind groups. Must be called once before Render.
	//
	// Parameters:
	//   - width, height: the surface dimensions in pixels
	//
	// Returns:
	//   - error: an error if any resource could not be created
	Initialize(width, height int) error

	// Resize recreates the offscreen render targets and their dependent bind
	// groups for a new surface size. A call with the current size is a no-op.
	//
	// Parameters:
	//   - width, height: the new surface dimensions in pixels
	//
	// Returns:
	//   - error: an error if target or bind group recreation fails
	Resize(width, height int) error

	// ReloadShaders recompiles every shader program from its source file and
	// swaps the rebuilt pipelines into the renderer cache. Each program
	// reloads independently: a program whose source fails to compile keeps
	// its previous shaders and pipelines, and the failure is logged.
	ReloadShaders()

	// Render draws one frame: uploads the per-frame uniforms, renders the
	// scene capture pass, both blur passes, and the surface composite pass,
	// then submits and presents.
	//
	// Parameters:
	//   - params: the per-frame lens and display parameters
	//
	// Returns:
	//   - error: an error if the orchestrator is not ready or a pass fails
	Render(params RenderParameters) error

	// Release frees every GPU resource owned by the orchestrator.
	Release()
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator creates a new Orchestrator with the specified options
// applied. The renderer, loader, scene, and camera options are all required
// before Initialize is called.
//
// Parameters:
//   - options: a variadic list of OrchestratorBuilderOption functions to configure the Orchestrator
//
// Returns:
//   - Orchestrator: a new instance of Orchestrator configured with the provided options
func NewOrchestrator(options ...OrchestratorBuilderOption) Orchestrator {
	o := &orchestrator{
		state: StateUninitialized,
		programs: map[string]*program{
			"scene":           {name: "scene", file: "scene.wgsl"},
			"bounds":          {name: "bounds", file: "bounds.wgsl"},
			"blur_horizontal": {name: "blur_horizontal", file: "blur.wgsl", defines: map[string]string{"HORIZONTAL": ""}},
			"blur_vertical":   {name: "blur_vertical", file: "blur.wgsl"},
			"composite":       {name: "composite", file: "composite.wgsl"},
		},
		pipelines: make(map[string]pipeline.Pipeline),
		pipelinePrograms: map[string]string{
			pipelineScene:     "scene",
			pipelineBounds:    "bounds",
			pipelineBlurH:     "blur_horizontal",
			pipelineBlurV:     "blur_vertical",
			pipelineComposite: "composite",
		},
	}
	for _, option := range options {
		option(o)
	}
	return o
}

func (o *orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *orchestrator) Initialize(width, height int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.renderer == nil || o.assets == nil || o.scene == nil || o.camera == nil {
		return fmt.Errorf("orchestrator requires a renderer, loader, scene, and camera")
	}
	if o.state != StateUninitialized {
		return fmt.Errorf("orchestrator already initialized")
	}

	for name, prog := range o.programs {
		if err := prog.load(o.assets); err != nil {
			return fmt.Errorf("program %q: %w", name, err)
		}
	}

	if err := o.registerPipelines(); err != nil {
		return err
	}
	if err := o.initMeshes(); err != nil {
		return err
	}
	if err := o.initSceneBindGroups(); err != nil {
		return err
	}
	if err := o.initMaterials(); err != nil {
		return err
	}
	if err := o.createTargets(width, height); err != nil {
		return err
	}
	if err := o.initPostBindGroups(); err != nil {
		return err
	}

	// The backdrop sphere is centered on the origin and never moves.
	identity := []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	o.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: o.backdropDataProvider, Binding: 0, Data: common.SliceToBytes(identity)},
	})

	o.width, o.height = width, height
	o.state = StateReady
	return nil
}

// registerPipelines builds every render pipeline from the loaded programs and
// registers them with the renderer.
func (o *orchestrator) registerPipelines() error {
	msaa := uint32(o.renderer.MSAA())
	sceneProg := o.programs["scene"]
	boundsProg := o.programs["bounds"]
	blurHProg := o.programs["blur_horizontal"]
	blurVProg := o.programs["blur_vertical"]
	compositeProg := o.programs["composite"]

	o.pipelines[pipelineScene] = pipeline.NewPipeline(pipelineScene,
		pipeline.WithVertexShader(sceneProg.vertex),
		pipeline.WithFragmentShader(sceneProg.fragment),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithTargetFormats(colorFormat),
		pipeline.WithSampleCount(msaa),
	)
	o.pipelines[pipelineBounds] = pipeline.NewPipeline(pipelineBounds,
		pipeline.WithVertexShader(boundsProg.vertex),
		pipeline.WithFragmentShader(boundsProg.fragment),
		pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithTargetFormats(colorFormat),
		pipeline.WithSampleCount(msaa),
	)
	o.pipelines[pipelineBlurH] = pipeline.NewPipeline(pipelineBlurH,
		pipeline.WithVertexShader(blurHProg.vertex),
		pipeline.WithFragmentShader(blurHProg.fragment),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithTargetFormats(colorFormat, colorFormat),
	)
	o.pipelines[pipelineBlurV] = pipeline.NewPipeline(pipelineBlurV,
		pipeline.WithVertexShader(blurVProg.vertex),
		pipeline.WithFragmentShader(blurVProg.fragment),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithTargetFormats(colorFormat, colorFormat),
	)
	o.pipelines[pipelineComposite] = pipeline.NewPipeline(pipelineComposite,
		pipeline.WithVertexShader(compositeProg.vertex),
		pipeline.WithFragmentShader(compositeProg.fragment),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)

	all := make([]pipeline.Pipeline, 0, len(o.pipelines))
	for _, p := range o.pipelines {
		all = append(all, p)
	}
	return o.renderer.RegisterPipelines(all...)
}

// initMeshes uploads vertex and index buffers for every mesh the pipeline
// draws, storing the GPU buffers on a provider attached to each model.
func (o *orchestrator) initMeshes() error {
	o.fullscreen = model.NewFullscreenTriangleModel("fullscreen")
	meshes := []model.Model{
		o.scene.InstanceModel(),
		o.scene.BackdropModel(),
		o.scene.BoundsModel(),
		o.fullscreen,
	}
	for _, m := range meshes {
		provider := bind_group_provider.NewBindGroupProvider("mesh_" + m.Name())
		if err := o.renderer.InitMeshBuffers(provider, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name(), err)
		}
		m.SetMeshProvider(provider)
	}
	return nil
}

// initSceneBindGroups creates the camera, instance-data, and backdrop-data
// bind groups from the scene program's layout declarations.
func (o *orchestrator) initSceneBindGroups() error {
	prog := o.programs["scene"]

	cameraLayout := mergedGroupLayout(prog.vertex, prog.fragment, 0)
	if err := o.renderer.InitBindGroup(o.camera.BindGroupProvider(), cameraLayout, nil, nil); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}

	// The model storage buffer is declared as a runtime-sized array, so the
	// parsed MinBindingSize covers a single matrix and the real capacity is
	// supplied here.
	dataLayout := mergedGroupLayout(prog.vertex, prog.fragment, 1)

	o.sceneDataProvider = bind_group_provider.NewBindGroupProvider("scene_data")
	if err := o.renderer.InitBindGroup(o.sceneDataProvider, dataLayout, nil, map[int]uint64{
		0: uint64(scene.InstanceCount) * 64,
	}); err != nil {
		return fmt.Errorf("scene data bind group: %w", err)
	}

	o.backdropDataProvider = bind_group_provider.NewBindGroupProvider("backdrop_data")
	if err := o.renderer.InitBindGroup(o.backdropDataProvider, dataLayout, nil, map[int]uint64{
		0: 64,
	}); err != nil {
		return fmt.Errorf("backdrop data bind group: %w", err)
	}

	return nil
}

// initMaterials loads the two demo textures and builds a material bind group
// for each.
func (o *orchestrator) initMaterials() error {
	prog := o.programs["scene"]
	layout := mergedGroupLayout(prog.vertex, prog.fragment, 2)

	build := func(name string) (bind_group_provider.BindGroupProvider, error) {
		tex, err := o.assets.LoadTexture(name)
		if err != nil {
			return nil, err
		}
		provider := bind_group_provider.NewBindGroupProvider("material_" + name)
		if err := o.renderer.InitTextureView(provider, 0, tex); err != nil {
			return nil, err
		}
		if err := o.renderer.InitSampler(provider, 1, common.SamplerStagingData{}); err != nil {
			return nil, err
		}
		if err := o.renderer.InitBindGroup(provider, layout, nil, nil); err != nil {
			return nil, err
		}
		return provider, nil
	}

	var err error
	if o.goldMaterial, err = build("gold"); err != nil {
		return fmt.Errorf("material gold: %w", err)
	}
	if o.clayMaterial, err = build("clay"); err != nil {
		return fmt.Errorf("material clay: %w", err)
	}
	return nil
}

// initPostBindGroups wires the post-processing providers to the current render
// targets' resolve views and creates their bind groups. The texture views are
// borrowed from the targets, never owned by the providers.
func (o *orchestrator) initPostBindGroups() error {
	if o.blurHProvider == nil {
		o.blurHProvider = bind_group_provider.NewBindGroupProvider("blur_horizontal_pass")
		o.blurVProvider = bind_group_provider.NewBindGroupProvider("blur_vertical_pass")
		o.compositeProvider = bind_group_provider.NewBindGroupProvider("composite_pass")

		if err := o.renderer.InitSampler(o.compositeProvider, 3, common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
		}); err != nil {
			return fmt.Errorf("composite sampler: %w", err)
		}
	}

	o.blurHProvider.SetTextureView(0, o.targets.scene.ColorView(0))
	o.blurVProvider.SetTextureView(0, o.targets.blurHorizontal.ColorView(0))
	o.blurVProvider.SetTextureView(1, o.targets.blurHorizontal.ColorView(1))
	o.compositeProvider.SetTextureView(0, o.targets.scene.ColorView(0))
	o.compositeProvider.SetTextureView(1, o.targets.blurVertical.ColorView(0))
	o.compositeProvider.SetTextureView(2, o.targets.blurVertical.ColorView(1))

	blurH := o.programs["blur_horizontal"]
	if err := o.renderer.InitBindGroup(o.blurHProvider, mergedGroupLayout(blurH.vertex, blurH.fragment, 0), nil, nil); err != nil {
		return fmt.Errorf("horizontal blur bind group: %w", err)
	}
	blurV := o.programs["blur_vertical"]
	if err := o.renderer.InitBindGroup(o.blurVProvider, mergedGroupLayout(blurV.vertex, blurV.fragment, 0), nil, nil); err != nil {
		return fmt.Errorf("vertical blur bind group: %w", err)
	}
	composite := o.programs["composite"]
	if err := o.renderer.InitBindGroup(o.compositeProvider, mergedGroupLayout(composite.vertex, composite.fragment, 0), nil, nil); err != nil {
		return fmt.Errorf("composite bind group: %w", err)
	}
	return nil
}

// createTargets allocates the three offscreen render targets for the given
// surface size.
func (o *orchestrator) createTargets(width, height int) error {
	targets, err := newPipelineResources(o.renderer, width, height)
	if err != nil {
		return err
	}
	o.targets = targets
	return nil
}

// detachPostViews removes the borrowed target views and stale bind groups from
// the post-processing providers so the targets can be released without the
// providers double-releasing the views.
func (o *orchestrator) detachPostViews() {
	for provider, bindings := range map[bind_group_provider.BindGroupProvider][]int{
		o.blurHProvider:     {0},
		o.blurVProvider:     {0, 1},
		o.compositeProvider: {0, 1, 2},
	} {
		if provider == nil {
			continue
		}
		for _, binding := range bindings {
			provider.SetTextureView(binding, nil)
		}
		if bg := provider.BindGroup(); bg != nil {
			bg.Release()
			provider.SetBindGroup(nil)
		}
	}
}

func (o *orchestrator) Resize(width, height int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateReady {
		return fmt.Errorf("cannot resize in state %d", o.state)
	}
	if width == o.width && height == o.height {
		return nil
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	o.state = StateResizing

	o.detachPostViews()
	o.targets.release()

	if err := o.createTargets(width, height); err != nil {
		o.state = StateUninitialized
		return err
	}
	if err := o.initPostBindGroups(); err != nil {
		o.state = StateUninitialized
		return err
	}

	o.width, o.height = width, height
	o.state = StateReady
	return nil
}

func (o *orchestrator) ReloadShaders() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateReady {
		return
	}
	o.state = StateReloadingShaders
	defer func() { o.state = StateReady }()

	reloaded := make(map[string]bool)
	names := make([]string, 0, len(o.programs))
	for name := range o.programs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := o.programs[name].load(o.assets); err != nil {
			log.Printf("[DoF] Shader reload failed for %q, keeping previous program: %v", name, err)
			continue
		}
		reloaded[name] = true
	}

	for key, progName := range o.pipelinePrograms {
		if !reloaded[progName] {
			continue
		}
		p := o.pipelines[key]
		prog := o.programs[progName]
		p.SetShaders(prog.vertex, prog.fragment)
		if err := o.renderer.ReplacePipeline(p); err != nil {
			log.Printf("[DoF] Pipeline rebuild failed for %q, keeping previous pipeline: %v", key, err)
			continue
		}
		log.Printf("[DoF] Reloaded pipeline %q", key)
	}
}

func (o *orchestrator) Render(params RenderParameters) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateReady {
		return fmt.Errorf("cannot render in state %d", o.state)
	}

	if err := o.renderer.BeginFrame(); err != nil {
		return err
	}

	o.writeFrameUniforms(params)

	// Scene capture with signed CoC in alpha.
	o.renderer.BeginTargetPass(o.targets.scene)
	if err := o.renderer.DrawCall(pipelineScene, o.scene.InstanceModel().MeshProvider(), scene.InstanceCount, []bind_group_provider.BindGroupProvider{
		o.camera.BindGroupProvider(), o.sceneDataProvider, o.goldMaterial,
	}); err != nil {
		return o.abortFrame(err)
	}
	if err := o.renderer.DrawCall(pipelineScene, o.scene.BackdropModel().MeshProvider(), 1, []bind_group_provider.BindGroupProvider{
		o.camera.BindGroupProvider(), o.backdropDataProvider, o.clayMaterial,
	}); err != nil {
		return o.abortFrame(err)
	}
	if params.ShowBounds {
		if err := o.renderer.DrawCall(pipelineBounds, o.scene.BoundsModel().MeshProvider(), scene.InstanceCount, []bind_group_provider.BindGroupProvider{
			o.camera.BindGroupProvider(), o.sceneDataProvider,
		}); err != nil {
			return o.abortFrame(err)
		}
	}
	o.renderer.EndPass()

	// Horizontal blur into near/far layers at quarter width.
	o.renderer.BeginTargetPass(o.targets.blurHorizontal)
	if err := o.renderer.DrawCall(pipelineBlurH, o.fullscreen.MeshProvider(), 1, []bind_group_provider.BindGroupProvider{
		o.blurHProvider,
	}); err != nil {
		return o.abortFrame(err)
	}
	o.renderer.EndPass()

	// Vertical blur down to quarter height.
	o.renderer.BeginTargetPass(o.targets.blurVertical)
	if err := o.renderer.DrawCall(pipelineBlurV, o.fullscreen.MeshProvider(), 1, []bind_group_provider.BindGroupProvider{
		o.blurVProvider,
	}); err != nil {
		return o.abortFrame(err)
	}
	o.renderer.EndPass()

	// Composite onto the surface.
	o.renderer.BeginSurfacePass()
	if err := o.renderer.DrawCall(pipelineComposite, o.fullscreen.MeshProvider(), 1, []bind_group_provider.BindGroupProvider{
		o.compositeProvider,
	}); err != nil {
		return o.abortFrame(err)
	}
	o.renderer.EndPass()

	o.renderer.EndFrame()
	o.renderer.Present()
	return nil
}

// abortFrame submits and presents whatever was encoded so the swapchain
// texture is not leaked, then returns the original error.
func (o *orchestrator) abortFrame(err error) error {
	o.renderer.EndFrame()
	o.renderer.Present()
	return err
}

// writeFrameUniforms uploads the camera, instance, lens, blur, and composite
// uniform data for the current frame.
func (o *orchestrator) writeFrameUniforms(params RenderParameters) {
	cam := camera.GPUCameraUniform{
		ViewProj: o.camera.ViewProjectionMatrix(),
		View:     o.camera.ViewMatrix(),
	}
	if ctrl := o.camera.Controller(); ctrl != nil {
		x, y, z := ctrl.Position()
		cam.CameraPosition = [3]float32{x, y, z}
	}

	lensUniform := GPULensUniform{
		Aperture:    params.Aperture,
		FocalLength: params.FocalLength,
		FocalPlane:  params.FocalPlane,
	}
	blurUniform := GPUBlurUniform{
		MaxCoCRadius: float32(params.MaxCoCRadiusPixels),
	}
	compositeUniform := GPUCompositeUniform{
		FarRadiusRescale: params.FarRadiusRescale,
		DebugMode:        uint32(params.Debug),
	}

	o.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: o.camera.BindGroupProvider(), Binding: 0, Data: cam.Marshal()},
		{Provider: o.sceneDataProvider, Binding: 0, Data: o.scene.InstanceData()},
		{Provider: o.sceneDataProvider, Binding: 1, Data: lensUniform.Marshal()},
		{Provider: o.backdropDataProvider, Binding: 1, Data: lensUniform.Marshal()},
		{Provider: o.blurHProvider, Binding: 1, Data: blurUniform.Marshal()},
		{Provider: o.blurVProvider, Binding: 2, Data: blurUniform.Marshal()},
		{Provider: o.compositeProvider, Binding: 4, Data: compositeUniform.Marshal()},
	})
}

func (o *orchestrator) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.detachPostViews()
	if o.targets != nil {
		o.targets.release()
		o.targets = nil
	}

	providers := []bind_group_provider.BindGroupProvider{
		o.sceneDataProvider, o.backdropDataProvider,
		o.goldMaterial, o.clayMaterial,
		o.blurHProvider, o.blurVProvider, o.compositeProvider,
	}
	for _, p := range providers {
		if p != nil {
			p.Release()
		}
	}
	o.sceneDataProvider, o.backdropDataProvider = nil, nil
	o.goldMaterial, o.clayMaterial = nil, nil
	o.blurHProvider, o.blurVProvider, o.compositeProvider = nil, nil, nil

	if o.camera != nil && o.camera.BindGroupProvider() != nil {
		o.camera.BindGroupProvider().Release()
	}
	if o.fullscreen != nil && o.fullscreen.MeshProvider() != nil {
		o.fullscreen.MeshProvider().Release()
	}
	if o.scene != nil {
		for _, m := range []model.Model{o.scene.InstanceModel(), o.scene.BackdropModel(), o.scene.BoundsModel()} {
			if m.MeshProvider() != nil {
				m.MeshProvider().Release()
			}
		}
	}

	o.state = StateUninitialized
}

// mergedGroupLayout merges one bind group's layout entries from a vertex and
// fragment shader, ORing visibility for bindings declared in both stages. The
// result matches the layout the renderer derives for the pipeline, so bind
// groups created from it are compatible with the pipeline at draw time.
func mergedGroupLayout(vs, fs shader.Shader, group int) wgpu.BindGroupLayoutDescriptor {
	vDesc := vs.BindGroupLayoutDescriptor(group)
	fDesc := fs.BindGroupLayoutDescriptor(group)

	entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
	for _, e := range vDesc.Entries {
		entryMap[e.Binding] = e
	}
	for _, e := range fDesc.Entries {
		if existing, ok := entryMap[e.Binding]; ok {
			existing.Visibility |= e.Visibility
			entryMap[e.Binding] = existing
		} else {
			entryMap[e.Binding] = e
		}
	}

	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
	for _, e := range entryMap {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})

	label := vDesc.Label
	if label == "" {
		label = fDesc.Label
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	}
}
