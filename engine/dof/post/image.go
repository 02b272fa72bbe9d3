package post

// Image is a float32 RGBA image used by the CPU reference kernels. Channel
// semantics follow the GPU pipeline: in a scene capture the alpha channel
// carries the signed normalized circle of confusion, not transparency; in a
// near layer RGB is premultiplied color and alpha is coverage.
type Image struct {
	// Width is the image width in pixels.
	Width int

	// Height is the image height in pixels.
	Height int

	// Pix holds interleaved RGBA samples, row-major, length Width*Height*4.
	Pix []float32
}

// NewImage allocates a zeroed image of the given dimensions.
//
// Parameters:
//   - width: image width in pixels (minimum 1)
//   - height: image height in pixels (minimum 1)
//
// Returns:
//   - *Image: the allocated image
func NewImage(width, height int) *Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*4),
	}
}

// RGBA returns the sample at (x, y). Coordinates outside the image are
// clamped to the nearest edge pixel.
//
// Parameters:
//   - x: pixel column
//   - y: pixel row
//
// Returns:
//   - r, g, b, a: the channel values
func (im *Image) RGBA(x, y int) (r, g, b, a float32) {
	if x < 0 {
		x = 0
	} else if x >= im.Width {
		x = im.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= im.Height {
		y = im.Height - 1
	}
	i := (y*im.Width + x) * 4
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2], im.Pix[i+3]
}

// SetRGBA writes the sample at (x, y). Out-of-bounds coordinates are ignored.
//
// Parameters:
//   - x: pixel column
//   - y: pixel row
//   - r, g, b, a: the channel values to write
func (im *Image) SetRGBA(x, y int, r, g, b, a float32) {
	if x < 0 || x >= im.Width || y < 0 || y >= im.Height {
		return
	}
	i := (y*im.Width + x) * 4
	im.Pix[i] = r
	im.Pix[i+1] = g
	im.Pix[i+2] = b
	im.Pix[i+3] = a
}

// Fill sets every pixel to the given value.
//
// Parameters:
//   - r, g, b, a: the channel values to write
func (im *Image) Fill(r, g, b, a float32) {
	for i := 0; i < len(im.Pix); i += 4 {
		im.Pix[i] = r
		im.Pix[i+1] = g
		im.Pix[i+2] = b
		im.Pix[i+3] = a
	}
}

// Sample performs bilinear sampling at normalized coordinates (u, v) with
// clamp-to-edge addressing, matching the GPU sampler used by the post passes.
// (0,0) maps to the top-left corner, (1,1) to the bottom-right.
//
// Parameters:
//   - u: horizontal normalized coordinate
//   - v: vertical normalized coordinate
//
// Returns:
//   - r, g, b, a: the filtered channel values
func (im *Image) Sample(u, v float32) (r, g, b, a float32) {
	fx := u*float32(im.Width) - 0.5
	fy := v*float32(im.Height) - 0.5

	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	r00, g00, b00, a00 := im.RGBA(x0, y0)
	r10, g10, b10, a10 := im.RGBA(x0+1, y0)
	r01, g01, b01, a01 := im.RGBA(x0, y0+1)
	r11, g11, b11, a11 := im.RGBA(x0+1, y0+1)

	lerp := func(p, q, t float32) float32 { return p + (q-p)*t }
	r = lerp(lerp(r00, r10, tx), lerp(r01, r11, tx), ty)
	g = lerp(lerp(g00, g10, tx), lerp(g01, g11, tx), ty)
	b = lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	a = lerp(lerp(a00, a10, tx), lerp(a01, a11, tx), ty)
	return r, g, b, a
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}
