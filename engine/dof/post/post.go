package post

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/jdonald/dof-go/engine/dof"
)

// downsampleFactor is the linear reduction applied per blur axis: the
// horizontal pass emits width/4, the vertical pass height/4.
const downsampleFactor = 4

// Parameters configures a full CPU post-processing chain invocation.
type Parameters struct {
	// MaxCoCRadiusPixels is the saturation blur radius in pixels.
	MaxCoCRadiusPixels int

	// FarRadiusRescale scales background blur independent of foreground blur.
	FarRadiusRescale float32

	// Debug selects an intermediate-buffer visualization in the composite.
	Debug dof.DebugMode
}

// processor is the implementation of the Processor interface.
type processor struct {
	workers int
	pool    worker.DynamicWorkerPool
}

// Processor runs the depth-of-field post-processing chain on the CPU with the
// same semantics as the GPU shaders: a two-pass separable blur with near/far
// separation followed by a composite. Input images use the scene-capture
// convention of signed normalized CoC in the alpha channel.
//
// Kernels parallelize across scanline bands on a bounded worker pool; the
// pool's workers are reused across invocations.
type Processor interface {
	// BlurHorizontal downsamples the scene capture to width/4 and blurs along
	// the x axis, separating the image into a premultiplied near layer
	// (RGB = premultiplied color, A = coverage) and a far layer
	// (RGB = blurred color, A = the center pixel's signed CoC).
	//
	// Parameters:
	//   - src: full-resolution scene capture (RGB color, A signed CoC)
	//   - maxCoCRadiusPixels: the saturation blur radius in pixels
	//
	// Returns:
	//   - *Image: the near layer at width/4 × height
	//   - *Image: the far layer at width/4 × height
	BlurHorizontal(src *Image, maxCoCRadiusPixels int) (*Image, *Image)

	// BlurVertical downsamples both horizontal outputs to height/4 and blurs
	// along the y axis, producing the final near and far layers. The far
	// layer's CoC channel is not meaningful after this pass; compositing
	// decodes CoC from the sharp input instead.
	//
	// Parameters:
	//   - near: the near layer from BlurHorizontal
	//   - far: the far layer from BlurHorizontal
	//   - maxCoCRadiusPixels: the saturation blur radius in pixels
	//
	// Returns:
	//   - *Image: the near layer at width/4 × height/4
	//   - *Image: the far layer at width/4 × height/4
	BlurVertical(near, far *Image, maxCoCRadiusPixels int) (*Image, *Image)

	// Composite combines the sharp capture with the upsampled blurred layers:
	// the base is a sharp/far blend driven by the decoded CoC magnitude times
	// the far rescale factor, and the premultiplied near layer is applied over
	// it (result = near.rgb + base.rgb * (1 - near.a)). A non-default debug
	// mode bypasses the blend and emits the selected visualization instead.
	//
	// Parameters:
	//   - sharp: full-resolution scene capture (RGB color, A signed CoC)
	//   - near: the blurred near layer from BlurVertical
	//   - far: the blurred far layer from BlurVertical
	//   - params: rescale factor and debug mode
	//
	// Returns:
	//   - *Image: the composited image at the sharp input's resolution
	Composite(sharp, near, far *Image, params Parameters) *Image

	// Process runs the full chain (horizontal blur → vertical blur →
	// composite) over a scene capture.
	//
	// Parameters:
	//   - src: full-resolution scene capture (RGB color, A signed CoC)
	//   - params: blur radius, rescale factor and debug mode
	//
	// Returns:
	//   - *Image: the composited image at the input's resolution
	Process(src *Image, params Parameters) *Image
}

var _ Processor = &processor{}

// NewProcessor creates a new Processor with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ProcessorBuilderOption functions to configure the Processor
//
// Returns:
//   - Processor: a new instance of Processor configured with the provided options
func NewProcessor(options ...ProcessorBuilderOption) Processor {
	p := &processor{
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(p)
	}
	p.pool = worker.NewDynamicWorkerPool(p.workers, 256, 1*time.Second)
	return p
}

func (p *processor) BlurHorizontal(src *Image, maxCoCRadiusPixels int) (*Image, *Image) {
	outW := max(src.Width/downsampleFactor, 1)
	near := NewImage(outW, src.Height)
	far := NewImage(outW, src.Height)
	radius := maxCoCRadiusPixels

	p.parallelRows(src.Height, func(y int) {
		for outX := 0; outX < outW; outX++ {
			cx := outX * downsampleFactor
			_, _, _, cocCenter := src.RGBA(cx, y)

			var farR, farG, farB, farW float32
			var nearR, nearG, nearB, nearA float32
			taps := float32(2*radius + 1)

			for t := -radius; t <= radius; t++ {
				r, g, b, coc := src.RGBA(cx+t, y)

				// Far path: the center always contributes; any other tap
				// contributes when its own far blur circle reaches the center.
				tapRadius := coc * float32(radius)
				if t == 0 || tapRadius >= absFloat(float32(t)) {
					farR += r
					farG += g
					farB += b
					farW++
				}

				// Near path: coverage is the clamped negative CoC; a tap
				// contributes when its near blur circle reaches the center.
				cov := clampFloat(-coc, 0, 1)
				if cov*float32(radius) >= absFloat(float32(t)) && cov > 0 {
					nearR += r * cov
					nearG += g * cov
					nearB += b * cov
					nearA += cov
				}
			}

			far.SetRGBA(outX, y, farR/farW, farG/farW, farB/farW, cocCenter)
			near.SetRGBA(outX, y, nearR/taps, nearG/taps, nearB/taps, nearA/taps)
		}
	})

	return near, far
}

func (p *processor) BlurVertical(near, far *Image, maxCoCRadiusPixels int) (*Image, *Image) {
	outH := max(near.Height/downsampleFactor, 1)
	nearOut := NewImage(near.Width, outH)
	farOut := NewImage(far.Width, outH)
	radius := maxCoCRadiusPixels

	p.parallelRows(outH, func(outY int) {
		cy := outY * downsampleFactor
		for x := 0; x < near.Width; x++ {
			// Near layer is already premultiplied, so a plain average is the
			// correct second separable axis.
			var nR, nG, nB, nA float32
			taps := float32(2*radius + 1)
			for t := -radius; t <= radius; t++ {
				r, g, b, a := near.RGBA(x, cy+t)
				nR += r
				nG += g
				nB += b
				nA += a
			}
			nearOut.SetRGBA(x, outY, nR/taps, nG/taps, nB/taps, nA/taps)

			_, _, _, cocCenter := far.RGBA(x, cy)
			var fR, fG, fB, fW float32
			for t := -radius; t <= radius; t++ {
				r, g, b, coc := far.RGBA(x, cy+t)
				tapRadius := coc * float32(radius)
				if t == 0 || tapRadius >= absFloat(float32(t)) {
					fR += r
					fG += g
					fB += b
					fW++
				}
			}
			farOut.SetRGBA(x, outY, fR/fW, fG/fW, fB/fW, cocCenter)
		}
	})

	return nearOut, farOut
}

func (p *processor) Composite(sharp, near, far *Image, params Parameters) *Image {
	out := NewImage(sharp.Width, sharp.Height)

	p.parallelRows(sharp.Height, func(y int) {
		v := (float32(y) + 0.5) / float32(sharp.Height)
		for x := 0; x < sharp.Width; x++ {
			u := (float32(x) + 0.5) / float32(sharp.Width)

			sR, sG, sB, coc := sharp.RGBA(x, y)
			nR, nG, nB, nA := near.Sample(u, v)
			fR, fG, fB, _ := far.Sample(u, v)

			// Background blend amount: far CoC interpolates sharp → far,
			// exaggerated or reduced by the rescale factor. Near CoC
			// contributes only through the near layer.
			var amount float32
			if coc > 0 {
				amount = clampFloat(coc*params.FarRadiusRescale, 0, 1)
			}
			bR := sR + (fR-sR)*amount
			bG := sG + (fG-sG)*amount
			bB := sB + (fB-sB)*amount

			switch params.Debug {
			case dof.DebugShowCoC:
				m := absFloat(coc)
				out.SetRGBA(x, y, m, m, m, 1)
			case dof.DebugShowRegion:
				out.SetRGBA(x, y, clampFloat(-coc, 0, 1), 1-absFloat(coc), clampFloat(coc, 0, 1), 1)
			case dof.DebugShowNear:
				out.SetRGBA(x, y, nR, nG, nB, 1)
			case dof.DebugShowBlurry:
				out.SetRGBA(x, y, fR, fG, fB, 1)
			case dof.DebugShowInput:
				out.SetRGBA(x, y, sR, sG, sB, 1)
			case dof.DebugShowMidAndFar:
				out.SetRGBA(x, y, bR, bG, bB, 1)
			case dof.DebugShowSignedCoC:
				m := 0.5 + 0.5*coc
				out.SetRGBA(x, y, m, m, m, 1)
			default:
				// Premultiplied over: result = near.rgb + base.rgb * (1 - near.a).
				out.SetRGBA(x, y, nR+bR*(1-nA), nG+bG*(1-nA), nB+bB*(1-nA), 1)
			}
		}
	})

	return out
}

func (p *processor) Process(src *Image, params Parameters) *Image {
	nearH, farH := p.BlurHorizontal(src, params.MaxCoCRadiusPixels)
	nearV, farV := p.BlurVertical(nearH, farH, params.MaxCoCRadiusPixels)
	return p.Composite(src, nearV, farV, params)
}

// parallelRows splits rows into one contiguous band per worker and runs fn for
// every row on the pool. A WaitGroup provides the completion barrier since the
// pool itself has no per-batch wait.
func (p *processor) parallelRows(rows int, fn func(y int)) {
	bands := min(p.workers, rows)
	if bands <= 1 {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}

	var wg sync.WaitGroup
	bandSize := (rows + bands - 1) / bands
	for b := 0; b < bands; b++ {
		start := b * bandSize
		end := min(start+bandSize, rows)
		if start >= end {
			break
		}
		wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: b,
			Do: func() (any, error) {
				defer wg.Done()
				for y := start; y < end; y++ {
					fn(y)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func absFloat(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
