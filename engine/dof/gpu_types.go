package dof

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULensUniform is the GPU-aligned representation of the lens uniform buffer.
// Matches the WGSL LensUniform struct layout exactly.
// Size: 16 bytes.
type GPULensUniform struct {
	Aperture    float32 // offset  0: lens aperture diameter (focal length / f-stop)
	FocalLength float32 // offset  4: focal length in sensor-height units
	FocalPlane  float32 // offset  8: in-focus distance along the view axis
	_pad        float32 // offset 12: padding to 16 bytes
}

// Size returns the size of the GPULensUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPULensUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULensUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPULensUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Aperture))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.FocalLength))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.FocalPlane))
	binary.LittleEndian.PutUint32(buf[12:], 0) // _pad
	return buf
}

// GPUBlurUniform is the GPU-aligned representation of the blur uniform buffer.
// Matches the WGSL BlurUniform struct layout exactly.
// Size: 16 bytes.
type GPUBlurUniform struct {
	MaxCoCRadius float32    // offset 0: saturation blur radius in pixels
	_pad         [3]float32 // offset 4: padding to 16 bytes
}

// Size returns the size of the GPUBlurUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUBlurUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBlurUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUBlurUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.MaxCoCRadius))
	return buf
}

// GPUCompositeUniform is the GPU-aligned representation of the composite
// uniform buffer. Matches the WGSL CompositeUniform struct layout exactly.
// Size: 16 bytes.
type GPUCompositeUniform struct {
	FarRadiusRescale float32    // offset 0: background blur rescale factor
	DebugMode        uint32     // offset 4: active DebugMode as a u32 selector
	_pad             [2]float32 // offset 8: padding to 16 bytes
}

// Size returns the size of the GPUCompositeUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUCompositeUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCompositeUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCompositeUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.FarRadiusRescale))
	binary.LittleEndian.PutUint32(buf[4:], g.DebugMode)
	return buf
}
