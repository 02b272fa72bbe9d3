package lens

// LensBuilderOption is a functional option for configuring a Lens via NewLens.
type LensBuilderOption func(*lens)

// WithFieldOfView is an option builder that sets the vertical field of view and
// derives the focal length from it.
//
// Parameters:
//   - fov: the vertical field of view in radians
//
// Returns:
//   - LensBuilderOption: a function that applies the field of view option to a lens
func WithFieldOfView(fov float32) LensBuilderOption {
	return func(l *lens) {
		l.SetFieldOfView(fov)
	}
}

// WithFStopIndex is an option builder that selects the initial f-stop table index.
//
// Parameters:
//   - index: the f-stop index, clamped to the table bounds
//
// Returns:
//   - LensBuilderOption: a function that applies the f-stop option to a lens
func WithFStopIndex(index int) LensBuilderOption {
	return func(l *lens) {
		l.SetFStopIndex(index)
	}
}

// WithFocalPlane is an option builder that sets the requested focus distance.
//
// Parameters:
//   - distance: the requested focus distance
//
// Returns:
//   - LensBuilderOption: a function that applies the focus distance option to a lens
func WithFocalPlane(distance float32) LensBuilderOption {
	return func(l *lens) {
		l.focalPlane = distance
	}
}
