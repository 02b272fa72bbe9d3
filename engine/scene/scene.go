package scene

import (
	"math"
	"math/rand"
	"sync"

	"github.com/jdonald/dof-go/common"
	"github.com/jdonald/dof-go/engine/model"
)

const (
	// gridExtent is the half-width of the instance grid: instances occupy
	// integer coordinates in [-gridExtent, gridExtent] on every axis.
	gridExtent = 4

	// gridSpacing is the world-space distance between neighboring instances.
	gridSpacing = 5.0

	// animationSeed reseeds the transform generator every update so the
	// animation is a pure function of elapsed simulated time.
	animationSeed = 12345
)

// InstanceCount is the total number of grid instances (9×9×9).
const InstanceCount = (2*gridExtent + 1) * (2*gridExtent + 1) * (2*gridExtent + 1)

// scene is the implementation of the Scene interface.
type scene struct {
	mu sync.RWMutex

	time float64
	seed int64

	instanceRadius float32
	backdropRadius float32
	instanceModel  model.Model
	backdropModel  model.Model
	boundsModel    model.Model
	instanceBounds common.Sphere
	transforms     []float32 // InstanceCount × 16, column-major
}

// Scene owns the demo geometry: a 9×9×9 grid of rotating textured instances,
// an enclosing inward-facing backdrop sphere, and a wireframe sphere for
// bounds visualization. Each update regenerates every instance transform from
// a fixed random seed, so the animation depends only on the accumulated
// simulated time.
type Scene interface {
	// Update advances simulated time by the given timestep and regenerates
	// all instance transforms. Passing 0 recomputes transforms for the
	// current time without advancing it (the paused state).
	//
	// Parameters:
	//   - timestep: elapsed simulated time in seconds
	Update(timestep float64)

	// Time returns the accumulated simulated time in seconds.
	//
	// Returns:
	//   - float64: the simulated time
	Time() float64

	// InstanceModel returns the mesh drawn once per grid instance.
	//
	// Returns:
	//   - model.Model: the instance mesh
	InstanceModel() model.Model

	// BackdropModel returns the inward-facing enclosing sphere mesh.
	//
	// Returns:
	//   - model.Model: the backdrop mesh
	BackdropModel() model.Model

	// BoundsModel returns the wireframe sphere mesh matching the instance
	// bounding sphere, drawn once per instance when bounds visualization is on.
	//
	// Returns:
	//   - model.Model: the wireframe mesh
	BoundsModel() model.Model

	// InstanceBounds returns the local-space bounding sphere of the instance mesh.
	//
	// Returns:
	//   - common.Sphere: the bounding sphere
	InstanceBounds() common.Sphere

	// InstanceData returns the instance transforms marshaled as a contiguous
	// array of 4×4 column-major matrices for storage buffer upload. The
	// returned slice is a fresh copy.
	//
	// Returns:
	//   - []byte: InstanceCount × 64 bytes of transform data
	InstanceData() []byte

	// AutoFocus casts a ray against every instance's transformed bounding
	// sphere and returns the distance to the nearest hit.
	//
	// Parameters:
	//   - ray: the picking ray in world space
	//
	// Returns:
	//   - float32: distance along the ray to the nearest hit
	//   - bool: true if any instance was hit
	AutoFocus(ray common.Ray) (float32, bool)
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the specified options applied and
// generates its meshes and the initial (time zero) instance transforms.
//
// Parameters:
//   - options: a variadic list of SceneBuilderOption functions to configure the Scene
//
// Returns:
//   - Scene: a new instance of Scene configured with the provided options
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		seed:           animationSeed,
		instanceRadius: 1.5,
		backdropRadius: 50,
		transforms:     make([]float32, InstanceCount*16),
	}
	for _, option := range options {
		option(s)
	}

	s.instanceModel = model.NewSphereModel("instance", "gold", s.instanceRadius, 8, false)
	s.backdropModel = model.NewSphereModel("backdrop", "clay", s.backdropRadius, 16, true)
	s.boundsModel = model.NewWireSphereModel("bounds", s.instanceModel.BoundingRadius(), 32)
	s.instanceBounds = common.Sphere{Radius: s.instanceModel.BoundingRadius()}

	s.Update(0)
	return s
}

func (s *scene) Update(timestep float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.time += timestep

	rng := rand.New(rand.NewSource(s.seed))
	i := 0
	for z := -gridExtent; z <= gridExtent; z++ {
		for y := -gridExtent; y <= gridExtent; y++ {
			for x := -gridExtent; x <= gridExtent; x++ {
				axis := randUnitVec3(rng)
				angle := randFloat(rng, -180, 180) + randFloat(rng, 1, 90)*float32(s.time)

				common.RotateAxisAngle(
					s.transforms[i*16:(i+1)*16],
					float32(x)*gridSpacing, float32(y)*gridSpacing, float32(z)*gridSpacing,
					axis[0], axis[1], axis[2],
					angle*math.Pi/180,
				)
				i++
			}
		}
	}
}

func (s *scene) Time() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}

func (s *scene) InstanceModel() model.Model {
	return s.instanceModel
}

func (s *scene) BackdropModel() model.Model {
	return s.backdropModel
}

func (s *scene) BoundsModel() model.Model {
	return s.boundsModel
}

func (s *scene) InstanceBounds() common.Sphere {
	return s.instanceBounds
}

func (s *scene) InstanceData() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]byte, len(s.transforms)*4)
	copy(out, common.SliceToBytes(s.transforms))
	return out
}

func (s *scene) AutoFocus(ray common.Ray) (float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nearest := float32(math.MaxFloat32)
	hit := false
	for i := 0; i < InstanceCount; i++ {
		bounds := s.instanceBounds.Transformed(s.transforms[i*16 : (i+1)*16])
		if dist, ok := ray.IntersectSphere(bounds); ok && dist < nearest {
			nearest = dist
			hit = true
		}
	}
	if !hit {
		return 0, false
	}
	return nearest, true
}

// randUnitVec3 draws a uniformly distributed unit vector: a uniform z in
// [-1, 1] and a uniform azimuth around it.
func randUnitVec3(rng *rand.Rand) [3]float32 {
	z := randFloat(rng, -1, 1)
	theta := randFloat(rng, 0, 2*math.Pi)
	r := float32(math.Sqrt(math.Max(0, 1-float64(z*z))))
	return [3]float32{
		r * float32(math.Cos(float64(theta))),
		r * float32(math.Sin(float64(theta))),
		z,
	}
}

func randFloat(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}
