package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// TargetDescriptor describes an offscreen render target: its dimensions, color
// attachment formats, multisample count, and whether it carries a depth buffer.
type TargetDescriptor struct {
	// Label is a debug label applied to all GPU objects created for the target.
	Label string

	// Width and Height are the target dimensions in pixels.
	Width, Height int

	// ColorFormats lists the texture format of each color attachment.
	ColorFormats []wgpu.TextureFormat

	// SampleCount is the multisample count. When greater than 1, single-sampled
	// resolve textures are created alongside the multisampled attachments and
	// the render pass resolves into them.
	SampleCount uint32

	// DepthStencil creates a Depth24Plus depth attachment when true.
	DepthStencil bool

	// ClearColor is the clear value applied to every color attachment.
	ClearColor wgpu.Color
}

// RenderTarget is an offscreen set of color (and optionally depth) attachments
// that can be rendered into via Renderer.BeginTargetPass and sampled afterwards
// through the views returned by ColorView.
type RenderTarget interface {
	// Label returns the debug label of the target.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Width returns the target width in pixels.
	//
	// Returns:
	//   - int: the width in pixels
	Width() int

	// Height returns the target height in pixels.
	//
	// Returns:
	//   - int: the height in pixels
	Height() int

	// Format returns the texture format of the color attachment at the given index.
	//
	// Parameters:
	//   - index: the color attachment index
	//
	// Returns:
	//   - wgpu.TextureFormat: the attachment format
	Format(index int) wgpu.TextureFormat

	// ColorView returns the sampleable texture view of the color attachment at
	// the given index. For multisampled targets this is the resolved
	// single-sample view, not the multisampled attachment itself.
	//
	// Parameters:
	//   - index: the color attachment index
	//
	// Returns:
	//   - *wgpu.TextureView: the sampleable view, or nil if the index is out of range
	ColorView(index int) *wgpu.TextureView

	// Release releases all GPU resources held by the target.
	Release()
}

// renderTarget is the implementation of the RenderTarget interface.
type renderTarget struct {
	desc TargetDescriptor

	// colorTextures and colorViews are the render pass attachments, multisampled
	// when desc.SampleCount > 1.
	colorTextures []*wgpu.Texture
	colorViews    []*wgpu.TextureView

	// resolveTextures and resolveViews hold the single-sample resolve targets,
	// only populated when desc.SampleCount > 1.
	resolveTextures []*wgpu.Texture
	resolveViews    []*wgpu.TextureView

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

var _ RenderTarget = &renderTarget{}

// newRenderTarget allocates the textures and views for a TargetDescriptor.
func newRenderTarget(device *wgpu.Device, desc TargetDescriptor) (*renderTarget, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("render target %q: invalid dimensions %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if len(desc.ColorFormats) == 0 {
		return nil, fmt.Errorf("render target %q: no color formats", desc.Label)
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}

	t := &renderTarget{desc: desc}
	size := wgpu.Extent3D{
		Width:              uint32(desc.Width),
		Height:             uint32(desc.Height),
		DepthOrArrayLayers: 1,
	}
	multisampled := desc.SampleCount > 1

	for i, format := range desc.ColorFormats {
		usage := wgpu.TextureUsageRenderAttachment
		if !multisampled {
			// Single-sampled attachments double as the sampleable output.
			usage |= wgpu.TextureUsageTextureBinding
		}
		tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         fmt.Sprintf("%s Color %d", desc.Label, i),
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   desc.SampleCount,
			Dimension:     wgpu.TextureDimension2D,
			Format:        format,
			Usage:         usage,
		})
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("render target %q: color texture %d: %w", desc.Label, i, err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			t.Release()
			return nil, fmt.Errorf("render target %q: color view %d: %w", desc.Label, i, err)
		}
		t.colorTextures = append(t.colorTextures, tex)
		t.colorViews = append(t.colorViews, view)

		if multisampled {
			resolveTex, err := device.CreateTexture(&wgpu.TextureDescriptor{
				Label:         fmt.Sprintf("%s Resolve %d", desc.Label, i),
				Size:          size,
				MipLevelCount: 1,
				SampleCount:   1,
				Dimension:     wgpu.TextureDimension2D,
				Format:        format,
				Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
			})
			if err != nil {
				t.Release()
				return nil, fmt.Errorf("render target %q: resolve texture %d: %w", desc.Label, i, err)
			}
			resolveView, err := resolveTex.CreateView(nil)
			if err != nil {
				resolveTex.Release()
				t.Release()
				return nil, fmt.Errorf("render target %q: resolve view %d: %w", desc.Label, i, err)
			}
			t.resolveTextures = append(t.resolveTextures, resolveTex)
			t.resolveViews = append(t.resolveViews, resolveView)
		}
	}

	if desc.DepthStencil {
		depthTex, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         desc.Label + " Depth",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   desc.SampleCount,
			Dimension:     wgpu.TextureDimension2D,
			Format:        wgpu.TextureFormatDepth24Plus,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("render target %q: depth texture: %w", desc.Label, err)
		}
		t.depthTexture = depthTex
		t.depthView, err = depthTex.CreateView(nil)
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("render target %q: depth view: %w", desc.Label, err)
		}
	}

	return t, nil
}

func (t *renderTarget) Label() string {
	return t.desc.Label
}

func (t *renderTarget) Width() int {
	return t.desc.Width
}

func (t *renderTarget) Height() int {
	return t.desc.Height
}

func (t *renderTarget) Format(index int) wgpu.TextureFormat {
	if index < 0 || index >= len(t.desc.ColorFormats) {
		return wgpu.TextureFormatUndefined
	}
	return t.desc.ColorFormats[index]
}

func (t *renderTarget) ColorView(index int) *wgpu.TextureView {
	if t.desc.SampleCount > 1 {
		if index < 0 || index >= len(t.resolveViews) {
			return nil
		}
		return t.resolveViews[index]
	}
	if index < 0 || index >= len(t.colorViews) {
		return nil
	}
	return t.colorViews[index]
}

// passDescriptor builds the render pass descriptor for rendering into this
// target, wiring resolve targets for multisampled attachments.
func (t *renderTarget) passDescriptor() *wgpu.RenderPassDescriptor {
	multisampled := t.desc.SampleCount > 1
	attachments := make([]wgpu.RenderPassColorAttachment, len(t.colorViews))
	for i, view := range t.colorViews {
		storeOp := wgpu.StoreOpStore
		var resolve *wgpu.TextureView
		if multisampled {
			storeOp = wgpu.StoreOpDiscard
			resolve = t.resolveViews[i]
		}
		attachments[i] = wgpu.RenderPassColorAttachment{
			View:          view,
			ResolveTarget: resolve,
			LoadOp:        wgpu.LoadOpClear,
			StoreOp:       storeOp,
			ClearValue:    t.desc.ClearColor,
		}
	}

	desc := &wgpu.RenderPassDescriptor{
		Label:            t.desc.Label + " Pass",
		ColorAttachments: attachments,
	}
	if t.depthView != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            t.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		}
	}
	return desc
}

func (t *renderTarget) Release() {
	for _, v := range t.resolveViews {
		if v != nil {
			v.Release()
		}
	}
	t.resolveViews = nil
	for _, tex := range t.resolveTextures {
		if tex != nil {
			tex.Release()
		}
	}
	t.resolveTextures = nil
	for _, v := range t.colorViews {
		if v != nil {
			v.Release()
		}
	}
	t.colorViews = nil
	for _, tex := range t.colorTextures {
		if tex != nil {
			tex.Release()
		}
	}
	t.colorTextures = nil
	if t.depthView != nil {
		t.depthView.Release()
		t.depthView = nil
	}
	if t.depthTexture != nil {
		t.depthTexture.Release()
		t.depthTexture = nil
	}
}
