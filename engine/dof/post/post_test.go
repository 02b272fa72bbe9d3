package post

import (
	"math"
	"testing"

	"github.com/jdonald/dof-go/engine/dof"
)

func imagesEqual(a, b *Image, eps float32) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for i := range a.Pix {
		if float32(math.Abs(float64(a.Pix[i]-b.Pix[i]))) > eps {
			return false
		}
	}
	return true
}

// testFrame builds a frozen frame with color and CoC gradients so that every
// debug visualization has distinct content: near field on the left, far field
// on the right, in focus down the middle.
func testFrame(w, h int) *Image {
	im := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			coc := 2*float32(x)/float32(w-1) - 1
			im.SetRGBA(x, y, float32(x)/float32(w-1), float32(y)/float32(h-1), 0.5, coc)
		}
	}
	return im
}

func TestImageSampleClampsToEdge(t *testing.T) {
	im := NewImage(2, 2)
	im.SetRGBA(0, 0, 1, 0, 0, 1)
	im.SetRGBA(1, 0, 0, 1, 0, 1)
	im.SetRGBA(0, 1, 0, 0, 1, 1)
	im.SetRGBA(1, 1, 1, 1, 1, 1)

	r, _, _, _ := im.Sample(-1, -1)
	if r != 1 {
		t.Errorf("expected top-left clamp to return red, got r=%v", r)
	}
	r, g, b, _ := im.Sample(2, 2)
	if r != 1 || g != 1 || b != 1 {
		t.Errorf("expected bottom-right clamp to return white, got (%v,%v,%v)", r, g, b)
	}
}

func TestBlurTargetDimensions(t *testing.T) {
	p := NewProcessor(WithWorkers(2))
	src := NewImage(64, 32)

	nearH, farH := p.BlurHorizontal(src, 8)
	if nearH.Width != 16 || nearH.Height != 32 {
		t.Fatalf("horizontal near: expected 16x32, got %dx%d", nearH.Width, nearH.Height)
	}
	if farH.Width != 16 || farH.Height != 32 {
		t.Fatalf("horizontal far: expected 16x32, got %dx%d", farH.Width, farH.Height)
	}

	nearV, farV := p.BlurVertical(nearH, farH, 8)
	if nearV.Width != 16 || nearV.Height != 8 {
		t.Fatalf("vertical near: expected 16x8, got %dx%d", nearV.Width, nearV.Height)
	}
	if farV.Width != 16 || farV.Height != 8 {
		t.Fatalf("vertical far: expected 16x8, got %dx%d", farV.Width, farV.Height)
	}
}

func TestInFocusSceneIsPassedThrough(t *testing.T) {
	p := NewProcessor(WithWorkers(2))
	src := NewImage(32, 16)
	src.Fill(0.2, 0.4, 0.6, 0) // CoC 0 everywhere: fully in focus

	out := p.Process(src, Parameters{MaxCoCRadiusPixels: 8, FarRadiusRescale: 1})
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, b, _ := out.RGBA(x, y)
			if r != 0.2 || g != 0.4 || b != 0.6 {
				t.Fatalf("pixel (%d,%d): expected sharp passthrough (0.2,0.4,0.6), got (%v,%v,%v)", x, y, r, g, b)
			}
		}
	}
}

func TestFarPlaneCompositeEqualsFarLayer(t *testing.T) {
	// A single flat surface far behind the focal plane: CoC saturates at +1
	// everywhere, so the composite must equal the far-blurred layer exactly,
	// with zero near-layer contribution.
	p := NewProcessor(WithWorkers(2))
	src := NewImage(32, 16)
	src.Fill(0.8, 0.5, 0.2, 1)

	params := Parameters{MaxCoCRadiusPixels: 8, FarRadiusRescale: 1}
	nearH, farH := p.BlurHorizontal(src, params.MaxCoCRadiusPixels)
	nearV, farV := p.BlurVertical(nearH, farH, params.MaxCoCRadiusPixels)

	for i := 3; i < len(nearV.Pix); i += 4 {
		if nearV.Pix[i] != 0 {
			t.Fatalf("near layer coverage %v at index %d, expected 0", nearV.Pix[i], i)
		}
	}

	out := p.Composite(src, nearV, farV, params)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			u := (float32(x) + 0.5) / float32(out.Width)
			v := (float32(y) + 0.5) / float32(out.Height)
			fr, fg, fb, _ := farV.Sample(u, v)
			r, g, b, _ := out.RGBA(x, y)
			if r != fr || g != fg || b != fb {
				t.Fatalf("pixel (%d,%d): expected far layer (%v,%v,%v), got (%v,%v,%v)", x, y, fr, fg, fb, r, g, b)
			}
		}
	}
}

func TestCompositePremultipliedLaw(t *testing.T) {
	// A fully-opaque near sample composited over any background must
	// reproduce the sample's own color unchanged.
	p := NewProcessor(WithWorkers(1))

	sharp := NewImage(8, 8)
	sharp.Fill(0.9, 0.1, 0.3, 0.5) // arbitrary background, far CoC

	far := NewImage(2, 2)
	far.Fill(0.2, 0.2, 0.2, 0)

	near := NewImage(2, 2)
	near.Fill(0.4, 0.6, 0.1, 1) // premultiplied color, full coverage

	out := p.Composite(sharp, near, far, Parameters{MaxCoCRadiusPixels: 8, FarRadiusRescale: 1})
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, b, _ := out.RGBA(x, y)
			if r != 0.4 || g != 0.6 || b != 0.1 {
				t.Fatalf("pixel (%d,%d): expected near color (0.4,0.6,0.1), got (%v,%v,%v)", x, y, r, g, b)
			}
		}
	}
}

func TestNearFieldBleedsAcrossBoundary(t *testing.T) {
	// A near-field object must spread coverage past its geometric edge; that
	// bleed over in-focus neighbors is the visual point of the near layer.
	p := NewProcessor(WithWorkers(1))
	const w, h = 64, 8
	src := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				src.SetRGBA(x, y, 1, 0, 0, -1) // near-field red
			} else {
				src.SetRGBA(x, y, 0, 0, 1, 0) // in-focus blue
			}
		}
	}

	nearH, _ := p.BlurHorizontal(src, 8)

	// Output pixel just past the boundary: source center is in the blue
	// region, but near taps within the blur radius still cover it.
	boundary := (w / 2) / downsampleFactor
	_, _, _, coverage := nearH.RGBA(boundary, 0)
	if coverage <= 0 {
		t.Fatalf("expected near coverage past the boundary, got %v", coverage)
	}
	_, _, _, inside := nearH.RGBA(boundary-2, 0)
	if inside <= coverage {
		t.Fatalf("expected higher coverage inside the near region: inside %v, boundary %v", inside, coverage)
	}
}

func TestDebugModesDistinctAndDeterministic(t *testing.T) {
	p := NewProcessor(WithWorkers(2))
	src := testFrame(64, 32)
	base := Parameters{MaxCoCRadiusPixels: 8, FarRadiusRescale: 1}

	outputs := make([]*Image, dof.DebugModeCount)
	for mode := 0; mode < dof.DebugModeCount; mode++ {
		params := base
		params.Debug = dof.DebugMode(mode)

		first := p.Process(src, params)
		second := p.Process(src, params)
		if !imagesEqual(first, second, 0) {
			t.Fatalf("mode %v not deterministic", dof.DebugMode(mode))
		}
		outputs[mode] = first
	}

	for i := 0; i < len(outputs); i++ {
		for j := i + 1; j < len(outputs); j++ {
			if imagesEqual(outputs[i], outputs[j], 0) {
				t.Errorf("modes %v and %v produced identical output", dof.DebugMode(i), dof.DebugMode(j))
			}
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	src := testFrame(96, 48)
	params := Parameters{MaxCoCRadiusPixels: 8, FarRadiusRescale: 2}

	serial := NewProcessor(WithWorkers(1)).Process(src, params)
	parallel := NewProcessor(WithWorkers(8)).Process(src, params)

	if !imagesEqual(serial, parallel, 0) {
		t.Fatal("parallel execution diverged from serial execution")
	}
}

func TestFarRadiusRescaleScalesBackgroundBlend(t *testing.T) {
	p := NewProcessor(WithWorkers(1))

	sharp := NewImage(8, 8)
	sharp.Fill(1, 1, 1, 0.25) // mildly far

	near := NewImage(2, 2) // empty
	far := NewImage(2, 2)
	far.Fill(0, 0, 0, 0)

	weak := p.Composite(sharp, near, far, Parameters{FarRadiusRescale: 1})
	strong := p.Composite(sharp, near, far, Parameters{FarRadiusRescale: 4})

	wr, _, _, _ := weak.RGBA(4, 4)
	sr, _, _, _ := strong.RGBA(4, 4)
	if wr != 0.75 {
		t.Errorf("rescale 1: expected blend 0.75, got %v", wr)
	}
	if sr != 0 {
		t.Errorf("rescale 4: expected fully far-blurred 0, got %v", sr)
	}
}
