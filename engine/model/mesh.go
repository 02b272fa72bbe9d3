package model

import (
	"math"
)

// cubeFace describes one face of the unit cube used for box-subdivided spheres.
// origin is the face's lower-left corner, right and up span the face.
type cubeFace struct {
	origin [3]float32
	right  [3]float32
	up     [3]float32
}

var cubeFaces = [6]cubeFace{
	{origin: [3]float32{-1, -1, 1}, right: [3]float32{2, 0, 0}, up: [3]float32{0, 2, 0}},   // +Z
	{origin: [3]float32{1, -1, -1}, right: [3]float32{-2, 0, 0}, up: [3]float32{0, 2, 0}},  // -Z
	{origin: [3]float32{1, -1, 1}, right: [3]float32{0, 0, -2}, up: [3]float32{0, 2, 0}},   // +X
	{origin: [3]float32{-1, -1, -1}, right: [3]float32{0, 0, 2}, up: [3]float32{0, 2, 0}},  // -X
	{origin: [3]float32{-1, 1, 1}, right: [3]float32{2, 0, 0}, up: [3]float32{0, 0, -2}},   // +Y
	{origin: [3]float32{-1, -1, -1}, right: [3]float32{2, 0, 0}, up: [3]float32{0, 0, 2}},  // -Y
}

// NewSphereModel generates a box-subdivided sphere: each cube face is tessellated
// into subdivisions×subdivisions quads and every vertex is projected onto the
// sphere surface. Distributes vertices more evenly than a lat/long sphere and
// avoids pole pinching.
//
// When inward is true the triangle winding is reversed and normals point toward
// the center, so the sphere reads as an enclosing shell when viewed from inside
// with back-face culling active.
//
// Parameters:
//   - name: the model identifier
//   - materialName: the material key used to look up the texture in the Loader
//   - radius: the sphere radius
//   - subdivisions: quads per cube-face edge (minimum 1)
//   - inward: true to flip winding and normals for an enclosing shell
//
// Returns:
//   - Model: the generated sphere mesh
func NewSphereModel(name, materialName string, radius float32, subdivisions int, inward bool) Model {
	if subdivisions < 1 {
		subdivisions = 1
	}
	n := subdivisions
	verts := make([]GPUVertex, 0, 6*(n+1)*(n+1))
	indices := make([]uint32, 0, 6*n*n*6)

	for _, face := range cubeFaces {
		base := uint32(len(verts))
		for row := 0; row <= n; row++ {
			for col := 0; col <= n; col++ {
				u := float32(col) / float32(n)
				v := float32(row) / float32(n)
				var p [3]float32
				for i := 0; i < 3; i++ {
					p[i] = face.origin[i] + face.right[i]*u + face.up[i]*v
				}
				dir := normalize3(p)
				normal := dir
				if inward {
					normal = [3]float32{-dir[0], -dir[1], -dir[2]}
				}
				verts = append(verts, GPUVertex{
					Position: [3]float32{dir[0] * radius, dir[1] * radius, dir[2] * radius},
					Normal:   normal,
					TexCoord: [2]float32{u, 1 - v},
					Color:    [4]float32{1, 1, 1, 1},
					Tangent:  [4]float32{1, 0, 0, 1},
				})
			}
		}
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				i0 := base + uint32(row*(n+1)+col)
				i1 := i0 + 1
				i2 := i0 + uint32(n+1)
				i3 := i2 + 1
				if inward {
					indices = append(indices, i0, i1, i2, i1, i3, i2)
				} else {
					indices = append(indices, i0, i2, i1, i1, i2, i3)
				}
			}
		}
	}

	return NewModel(
		WithName(name),
		WithMaterialName(materialName),
		WithVertices(verts, indices),
	)
}

// NewWireSphereModel generates a wireframe sphere as three orthogonal great
// circles (XY, XZ, YZ planes) using line-list indices. Intended for drawing
// bounding-sphere visualizations with a line-topology pipeline.
//
// Parameters:
//   - name: the model identifier
//   - radius: the sphere radius
//   - segments: line segments per circle (minimum 3)
//
// Returns:
//   - Model: the generated wireframe mesh
func NewWireSphereModel(name string, radius float32, segments int) Model {
	if segments < 3 {
		segments = 3
	}
	verts := make([]GPUVertex, 0, 3*segments)
	indices := make([]uint32, 0, 3*segments*2)

	circle := func(point func(cos, sin float32) [3]float32) {
		base := uint32(len(verts))
		for i := 0; i < segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			c := float32(math.Cos(theta)) * radius
			s := float32(math.Sin(theta)) * radius
			p := point(c, s)
			verts = append(verts, GPUVertex{
				Position: p,
				Normal:   normalize3(p),
				Color:    [4]float32{1, 1, 1, 1},
				Tangent:  [4]float32{1, 0, 0, 1},
			})
		}
		for i := 0; i < segments; i++ {
			indices = append(indices, base+uint32(i), base+uint32((i+1)%segments))
		}
	}

	circle(func(c, s float32) [3]float32 { return [3]float32{c, s, 0} })
	circle(func(c, s float32) [3]float32 { return [3]float32{c, 0, s} })
	circle(func(c, s float32) [3]float32 { return [3]float32{0, c, s} })

	return NewModel(
		WithName(name),
		WithVertices(verts, indices),
	)
}

// NewFullscreenTriangleModel generates a single clip-space triangle that covers
// the entire viewport, with texture coordinates mapping the visible region to
// [0,1]². Used by post-processing passes that sample a source render target.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - Model: the fullscreen triangle mesh
func NewFullscreenTriangleModel(name string) Model {
	verts := []GPUVertex{
		{Position: [3]float32{-1, -1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}, Color: [4]float32{1, 1, 1, 1}, Tangent: [4]float32{1, 0, 0, 1}},
		{Position: [3]float32{3, -1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{2, 1}, Color: [4]float32{1, 1, 1, 1}, Tangent: [4]float32{1, 0, 0, 1}},
		{Position: [3]float32{-1, 3, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, -1}, Color: [4]float32{1, 1, 1, 1}, Tangent: [4]float32{1, 0, 0, 1}},
	}
	indices := []uint32{0, 1, 2}

	return NewModel(
		WithName(name),
		WithVertices(verts, indices),
	)
}

func normalize3(v [3]float32) [3]float32 {
	length := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if length == 0 {
		return v
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}
