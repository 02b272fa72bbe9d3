package scene

// SceneBuilderOption is a functional option for configuring a Scene via NewScene.
type SceneBuilderOption func(*scene)

// WithInstanceRadius is an option builder that sets the radius of the grid
// instance mesh (and thereby its bounding sphere).
//
// Parameters:
//   - radius: the instance mesh radius (values <= 0 are ignored)
//
// Returns:
//   - SceneBuilderOption: a function that applies the instance radius option to a scene
func WithInstanceRadius(radius float32) SceneBuilderOption {
	return func(s *scene) {
		if radius > 0 {
			s.instanceRadius = radius
		}
	}
}

// WithBackdropRadius is an option builder that sets the radius of the
// enclosing backdrop sphere. It must comfortably exceed the grid extents so
// the camera always sits inside it.
//
// Parameters:
//   - radius: the backdrop radius (values <= 0 are ignored)
//
// Returns:
//   - SceneBuilderOption: a function that applies the backdrop radius option to a scene
func WithBackdropRadius(radius float32) SceneBuilderOption {
	return func(s *scene) {
		if radius > 0 {
			s.backdropRadius = radius
		}
	}
}

// WithSeed is an option builder that overrides the animation seed. The same
// seed and simulated time always produce the same instance transforms.
//
// Parameters:
//   - seed: the random seed to use
//
// Returns:
//   - SceneBuilderOption: a function that applies the seed option to a scene
func WithSeed(seed int64) SceneBuilderOption {
	return func(s *scene) {
		s.seed = seed
	}
}
