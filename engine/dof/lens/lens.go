package lens

import (
	"math"
)

// fStops is the ordered table of standard photographic f-stops selectable
// through the parameter panel.
var fStops = [...]float32{0.7, 0.8, 1.0, 1.2, 1.4, 1.7, 2.0, 2.4, 2.8, 3.3, 4.0, 4.8, 5.6, 6.7, 8.0, 9.5, 11.0}

// FStopCount is the number of entries in the f-stop table.
const FStopCount = len(fStops)

// FStops returns a copy of the f-stop table, ordered from widest (0.7) to
// narrowest (11.0) aperture.
//
// Returns:
//   - []float32: the f-stop values
func FStops() []float32 {
	out := make([]float32, FStopCount)
	copy(out, fStops[:])
	return out
}

// lens is the implementation of the Lens interface.
type lens struct {
	fieldOfView float32 // vertical field of view in radians
	focalLength float32 // derived from fieldOfView
	fStopIndex  int
	focalPlane  float32 // requested focus distance, clamped on read
}

// Lens models a physical camera lens: it maps the user-facing parameters
// (field of view, f-stop, focus distance) to an aperture diameter and a
// signed normalized circle-of-confusion value per scene depth.
//
// All methods are pure computation over the lens's own fields. The lens is
// not safe for concurrent use; it is owned by the render thread.
type Lens interface {
	// FieldOfView returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: the field of view
	FieldOfView() float32

	// SetFieldOfView sets the vertical field of view and recomputes the focal
	// length as 1 / (2 * tan(fov/2)), the distance from a unit-height sensor
	// at which the frustum subtends the given angle.
	//
	// Parameters:
	//   - fov: the vertical field of view in radians (must be > 0 and < π)
	SetFieldOfView(fov float32)

	// FocalLength returns the focal length derived from the field of view.
	//
	// Returns:
	//   - float32: the focal length
	FocalLength() float32

	// FStopIndex returns the current index into the f-stop table.
	//
	// Returns:
	//   - int: the f-stop index
	FStopIndex() int

	// SetFStopIndex sets the f-stop table index, clamped to the table bounds.
	//
	// Parameters:
	//   - index: the index to select
	SetFStopIndex(index int)

	// FStop returns the selected f-stop value.
	//
	// Returns:
	//   - float32: the f-stop
	FStop() float32

	// Aperture returns the aperture diameter, focalLength / fStop.
	//
	// Returns:
	//   - float32: the aperture diameter
	Aperture() float32

	// FocalPlane returns the effective focus distance. The requested distance
	// is clamped so the result is never closer than the focal length: an
	// object cannot be brought into focus inside the lens.
	//
	// Returns:
	//   - float32: the effective focus distance
	FocalPlane() float32

	// SetFocalPlane sets the requested focus distance. Clamping against the
	// focal length happens on read, so a later field-of-view change re-applies
	// the invariant without losing the requested value.
	//
	// Parameters:
	//   - distance: the requested focus distance
	SetFocalPlane(distance float32)

	// CoC computes the signed normalized circle of confusion for a scene depth.
	// Negative values are in front of the focal plane (near field), positive
	// behind it (far field); the magnitude saturates at 1. A depth exactly at
	// the focal plane yields 0.
	//
	// Parameters:
	//   - depth: positive view-space distance from the camera
	//
	// Returns:
	//   - float32: signed CoC in [-1, 1]
	CoC(depth float32) float32

	// CoCRadiusPixels scales the signed CoC to a blur radius in pixels.
	//
	// Parameters:
	//   - depth: positive view-space distance from the camera
	//   - maxRadiusPixels: the saturation radius in pixels
	//
	// Returns:
	//   - float32: signed blur radius in [-maxRadiusPixels, maxRadiusPixels]
	CoCRadiusPixels(depth float32, maxRadiusPixels int) float32
}

var _ Lens = &lens{}

// NewLens creates a new Lens with the specified options applied. Defaults
// match the demo's initial state: 25° field of view, f/2.8, focus at 10 units.
//
// Parameters:
//   - options: a variadic list of LensBuilderOption functions to configure the Lens
//
// Returns:
//   - Lens: a new instance of Lens configured with the provided options
func NewLens(options ...LensBuilderOption) Lens {
	l := &lens{
		fStopIndex: 8,
		focalPlane: 10,
	}
	l.SetFieldOfView(float32(25 * math.Pi / 180))
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lens) FieldOfView() float32 {
	return l.fieldOfView
}

func (l *lens) SetFieldOfView(fov float32) {
	l.fieldOfView = fov
	l.focalLength = float32(1.0 / (2.0 * math.Tan(float64(fov)/2.0)))
}

func (l *lens) FocalLength() float32 {
	return l.focalLength
}

func (l *lens) FStopIndex() int {
	return l.fStopIndex
}

func (l *lens) SetFStopIndex(index int) {
	if index < 0 {
		index = 0
	}
	if index >= FStopCount {
		index = FStopCount - 1
	}
	l.fStopIndex = index
}

func (l *lens) FStop() float32 {
	return fStops[l.fStopIndex]
}

func (l *lens) Aperture() float32 {
	return l.focalLength / fStops[l.fStopIndex]
}

func (l *lens) FocalPlane() float32 {
	if l.focalPlane < l.focalLength {
		return l.focalLength
	}
	return l.focalPlane
}

func (l *lens) SetFocalPlane(distance float32) {
	l.focalPlane = distance
}

func (l *lens) CoC(depth float32) float32 {
	fp := l.FocalPlane()
	f := l.focalLength
	if depth == fp {
		return 0
	}

	denom := depth * (fp - f)
	if denom == 0 {
		// Focus at the focal length itself: everything off-plane is fully
		// defocused in the limit.
		if depth > fp {
			return 1
		}
		return -1
	}

	coc := l.Aperture() * f * (depth - fp) / denom
	if coc > 1 {
		return 1
	}
	if coc < -1 {
		return -1
	}
	return coc
}

func (l *lens) CoCRadiusPixels(depth float32, maxRadiusPixels int) float32 {
	return l.CoC(depth) * float32(maxRadiusPixels)
}
