package dof

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/jdonald/dof-go/engine/renderer"
)

// pipelineResources holds the offscreen render targets for one surface size.
// The scene capture runs at full resolution with multisampling and a depth
// buffer; the blur targets run single-sampled at reduced resolution with two
// color attachments each (near and far layers).
type pipelineResources struct {
	scene          renderer.RenderTarget
	blurHorizontal renderer.RenderTarget
	blurVertical   renderer.RenderTarget
}

// newPipelineResources allocates the three targets for the given surface size.
// On any failure the targets already created are released before returning.
func newPipelineResources(r renderer.Renderer, width, height int) (*pipelineResources, error) {
	blurWidth := max(1, width/downsampleFactor)
	blurHeight := max(1, height/downsampleFactor)

	res := &pipelineResources{}

	var err error
	res.scene, err = r.CreateRenderTarget(renderer.TargetDescriptor{
		Label:        "Scene Capture",
		Width:        width,
		Height:       height,
		ColorFormats: []wgpu.TextureFormat{colorFormat},
		SampleCount:  uint32(r.MSAA()),
		DepthStencil: true,
		ClearColor:   wgpu.Color{R: 0, G: 0, B: 0, A: 0},
	})
	if err != nil {
		return nil, fmt.Errorf("scene capture target: %w", err)
	}

	res.blurHorizontal, err = r.CreateRenderTarget(renderer.TargetDescriptor{
		Label:        "Horizontal Blur",
		Width:        blurWidth,
		Height:       height,
		ColorFormats: []wgpu.TextureFormat{colorFormat, colorFormat},
		SampleCount:  1,
		ClearColor:   wgpu.Color{R: 0, G: 0, B: 0, A: 0},
	})
	if err != nil {
		res.release()
		return nil, fmt.Errorf("horizontal blur target: %w", err)
	}

	res.blurVertical, err = r.CreateRenderTarget(renderer.TargetDescriptor{
		Label:        "Vertical Blur",
		Width:        blurWidth,
		Height:       blurHeight,
		ColorFormats: []wgpu.TextureFormat{colorFormat, colorFormat},
		SampleCount:  1,
		ClearColor:   wgpu.Color{R: 0, G: 0, B: 0, A: 0},
	})
	if err != nil {
		res.release()
		return nil, fmt.Errorf("vertical blur target: %w", err)
	}

	return res, nil
}

// release frees every target. Safe to call on a partially constructed set.
func (p *pipelineResources) release() {
	if p.scene != nil {
		p.scene.Release()
		p.scene = nil
	}
	if p.blurHorizontal != nil {
		p.blurHorizontal.Release()
		p.blurHorizontal = nil
	}
	if p.blurVertical != nil {
		p.blurVertical.Release()
		p.blurVertical = nil
	}
}
