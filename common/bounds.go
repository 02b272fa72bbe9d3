package common

import (
	"math"
)

// Ray represents a ray in 3D space with an origin and a unit-length direction.
type Ray struct {
	Origin    [3]float32
	Direction [3]float32
}

// Sphere is a bounding sphere used for coarse intersection queries.
type Sphere struct {
	Center [3]float32
	Radius float32
}

// NewRay constructs a Ray, normalizing the provided direction.
//
// Parameters:
//   - origin: ray origin in world space
//   - direction: ray direction (does not need to be unit length)
//
// Returns:
//   - Ray: the constructed ray
func NewRay(origin, direction [3]float32) Ray {
	return Ray{Origin: origin, Direction: Normalize3(direction)}
}

// IntersectSphere tests the ray against a bounding sphere and returns the
// distance along the ray to the nearest intersection point. Intersections
// behind the origin are rejected; if the origin is inside the sphere the
// exit distance is returned.
//
// Parameters:
//   - s: the sphere to test
//
// Returns:
//   - float32: distance along the ray to the hit point
//   - bool: true if the ray intersects the sphere
func (r Ray) IntersectSphere(s Sphere) (float32, bool) {
	ox := r.Origin[0] - s.Center[0]
	oy := r.Origin[1] - s.Center[1]
	oz := r.Origin[2] - s.Center[2]

	// Quadratic in t with a == 1 since the direction is unit length.
	b := ox*r.Direction[0] + oy*r.Direction[1] + oz*r.Direction[2]
	c := ox*ox + oy*oy + oz*oz - s.Radius*s.Radius

	disc := float64(b*b - c)
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(disc))
	t := -b - sqrtDisc
	if t < 0 {
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Transformed returns the sphere transformed by a 4x4 column-major matrix.
// The radius is scaled by the largest axis scale so the result still bounds
// the transformed geometry.
//
// Parameters:
//   - m: transform matrix (16 elements, column-major)
//
// Returns:
//   - Sphere: the transformed bounding sphere
func (s Sphere) Transformed(m []float32) Sphere {
	center := TransformPoint(m, s.Center[0], s.Center[1], s.Center[2])

	sx := float32(math.Sqrt(float64(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])))
	sy := float32(math.Sqrt(float64(m[4]*m[4] + m[5]*m[5] + m[6]*m[6])))
	sz := float32(math.Sqrt(float64(m[8]*m[8] + m[9]*m[9] + m[10]*m[10])))

	scale := sx
	if sy > scale {
		scale = sy
	}
	if sz > scale {
		scale = sz
	}

	return Sphere{Center: center, Radius: s.Radius * scale}
}
