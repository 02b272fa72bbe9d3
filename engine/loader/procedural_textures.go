package loader

import (
	"github.com/jdonald/dof-go/common"
)

// proceduralTextureSize is the edge length of generated fallback textures.
const proceduralTextureSize = 64

// proceduralGenerators maps material names to their fallback pixel generators.
// Used when no matching image file exists under the loader's search paths.
var proceduralGenerators = map[string]func() common.TextureStagingData{
	"gold": func() common.TextureStagingData {
		return generateNoiseTexture(212, 175, 55, 28)
	},
	"clay": func() common.TextureStagingData {
		return generateNoiseTexture(168, 120, 98, 14)
	},
}

// generateNoiseTexture produces a solid base color with deterministic per-pixel
// brightness variation, enough surface detail for blur kernels to act on.
func generateNoiseTexture(r, g, b uint8, amplitude int32) common.TextureStagingData {
	size := uint32(proceduralTextureSize)
	pixels := make([]byte, size*size*4)

	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			// Integer hash keeps the pattern stable across runs.
			h := x*374761393 + y*668265263
			h = (h ^ (h >> 13)) * 1274126177
			h ^= h >> 16

			offset := int32(h%uint32(2*amplitude+1)) - amplitude

			i := (y*size + x) * 4
			pixels[i+0] = clampByte(int32(r) + offset)
			pixels[i+1] = clampByte(int32(g) + offset)
			pixels[i+2] = clampByte(int32(b) + offset)
			pixels[i+3] = 255
		}
	}

	return common.TextureStagingData{
		Pixels: pixels,
		Width:  size,
		Height: size,
	}
}

func clampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
