package dof

import (
	"github.com/jdonald/dof-go/engine/camera"
	"github.com/jdonald/dof-go/engine/loader"
	"github.com/jdonald/dof-go/engine/renderer"
	"github.com/jdonald/dof-go/engine/scene"
)

// OrchestratorBuilderOption is a functional option used to configure an Orchestrator during construction.
type OrchestratorBuilderOption func(*orchestrator)

// WithRenderer sets the Renderer the orchestrator records commands through.
//
// Parameters:
//   - r: the Renderer to use
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the renderer
func WithRenderer(r renderer.Renderer) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.renderer = r
	}
}

// WithLoader sets the Loader used to resolve shader sources and textures.
//
// Parameters:
//   - l: the Loader to use
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the loader
func WithLoader(l loader.Loader) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.assets = l
	}
}

// WithScene sets the Scene whose meshes and instance data the pipeline draws.
//
// Parameters:
//   - s: the Scene to render
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the scene
func WithScene(s scene.Scene) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.scene = s
	}
}

// WithCamera sets the Camera supplying the view and projection matrices.
//
// Parameters:
//   - c: the Camera to render from
//
// Returns:
//   - OrchestratorBuilderOption: a function that sets the camera
func WithCamera(c camera.Camera) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.camera = c
	}
}
