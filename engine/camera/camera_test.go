package camera

import (
	"math"
	"testing"
)

func approxEq(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestFocalLength(t *testing.T) {
	tests := []struct {
		name string
		fov  float32
		want float32
	}{
		{"90 degrees", float32(math.Pi / 2), 0.5},
		{"60 degrees", float32(math.Pi / 3), 0.8660254},
		{"narrow 10 degrees", float32(10.0 * math.Pi / 180.0), 5.715026},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(WithFov(tt.fov), WithController(NewCameraController()))
			if got := c.FocalLength(); !approxEq(got, tt.want, 1e-4) {
				t.Errorf("FocalLength() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFocalLengthGrowsAsFovNarrows(t *testing.T) {
	wide := NewCamera(WithFov(float32(math.Pi/2)), WithController(NewCameraController()))
	narrow := NewCamera(WithFov(float32(math.Pi/18)), WithController(NewCameraController()))
	if narrow.FocalLength() <= wide.FocalLength() {
		t.Errorf("narrow fov focal length %v should exceed wide fov focal length %v",
			narrow.FocalLength(), wide.FocalLength())
	}
}

func TestGenerateRayCenterPointsAtTarget(t *testing.T) {
	ctrl := NewCameraController(WithRadius(20), WithAzimuth(0.7), WithElevation(0.4))
	c := NewCamera(
		WithController(ctrl),
		WithAspect(16.0/9.0),
	)

	// The center pixel must unproject to a ray through the look-at target.
	ray := c.GenerateRay(480, 270, 960, 540)

	px, py, pz := ctrl.Position()
	if !approxEq(ray.Origin[0], px, 1e-2) || !approxEq(ray.Origin[1], py, 1e-2) || !approxEq(ray.Origin[2], pz, 1e-2) {
		t.Errorf("ray origin = %v, want camera position (%v, %v, %v)", ray.Origin, px, py, pz)
	}

	tx, ty, tz := ctrl.Target()
	// Walk the ray to the target's distance and check we arrive there.
	dx := tx - px
	dy := ty - py
	dz := tz - pz
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	hitX := ray.Origin[0] + ray.Direction[0]*dist
	hitY := ray.Origin[1] + ray.Direction[1]*dist
	hitZ := ray.Origin[2] + ray.Direction[2]*dist
	if !approxEq(hitX, tx, 1e-2) || !approxEq(hitY, ty, 1e-2) || !approxEq(hitZ, tz, 1e-2) {
		t.Errorf("center ray reaches (%v, %v, %v), want target (%v, %v, %v)", hitX, hitY, hitZ, tx, ty, tz)
	}
}

func TestGenerateRayIsNormalized(t *testing.T) {
	c := NewCamera(WithController(NewCameraController()))
	ray := c.GenerateRay(100, 100, 960, 540)
	length := float32(math.Sqrt(float64(
		ray.Direction[0]*ray.Direction[0] +
			ray.Direction[1]*ray.Direction[1] +
			ray.Direction[2]*ray.Direction[2])))
	if !approxEq(length, 1.0, 1e-4) {
		t.Errorf("ray direction length = %v, want 1.0", length)
	}
}

func TestControllerRadiusBounds(t *testing.T) {
	ctrl := NewCameraController(WithRadiusBounds(5, 45))

	ctrl.SetRadius(100)
	if got := ctrl.Radius(); got != 45 {
		t.Errorf("SetRadius(100) clamped to %v, want 45", got)
	}

	ctrl.SetRadius(1)
	if got := ctrl.Radius(); got != 5 {
		t.Errorf("SetRadius(1) clamped to %v, want 5", got)
	}
}

func TestControllerZoomClamps(t *testing.T) {
	ctrl := NewCameraController(WithRadius(10), WithRadiusBounds(5, 45), WithZoomSpeed(2))

	// Zooming in far past the minimum should stop at the minimum.
	for range 100 {
		ctrl.Zoom(1)
	}
	if got := ctrl.Radius(); got != 5 {
		t.Errorf("radius after zooming in = %v, want 5", got)
	}

	for range 100 {
		ctrl.Zoom(-1)
	}
	if got := ctrl.Radius(); got != 45 {
		t.Errorf("radius after zooming out = %v, want 45", got)
	}
}

func TestControllerDragClampsElevation(t *testing.T) {
	ctrl := NewCameraController(WithMouseSensitivity(0.01))

	for range 1000 {
		ctrl.Drag(0, 50)
	}
	if got := ctrl.Elevation(); got != ctrl.MaxElevation() {
		t.Errorf("elevation after dragging up = %v, want max %v", got, ctrl.MaxElevation())
	}

	for range 1000 {
		ctrl.Drag(0, -50)
	}
	if got := ctrl.Elevation(); got != ctrl.MinElevation() {
		t.Errorf("elevation after dragging down = %v, want min %v", got, ctrl.MinElevation())
	}
}

func TestControllerDragChangesAzimuth(t *testing.T) {
	ctrl := NewCameraController(WithAzimuth(0), WithMouseSensitivity(0.005))
	ctrl.Drag(100, 0)
	if got := ctrl.Azimuth(); !approxEq(got, -0.5, 1e-5) {
		t.Errorf("azimuth after Drag(100, 0) = %v, want -0.5", got)
	}
}

func TestControllerPositionFromSpherical(t *testing.T) {
	ctrl := NewCameraController(
		WithTarget(0, 0, 0),
		WithRadius(10),
		WithAzimuth(0),
		WithElevation(0),
	)
	x, y, z := ctrl.Position()
	// azimuth 0, elevation 0 places the camera on the +Z axis.
	if !approxEq(x, 0, 1e-5) || !approxEq(y, 0, 1e-5) || !approxEq(z, 10, 1e-5) {
		t.Errorf("Position() = (%v, %v, %v), want (0, 0, 10)", x, y, z)
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	u := GPUCameraUniform{}
	for i := range 16 {
		u.ViewProj[i] = float32(i)
		u.View[i] = float32(16 + i)
	}
	u.CameraPosition = [3]float32{1, 2, 3}

	buf := u.Marshal()
	if len(buf) != 144 {
		t.Fatalf("Marshal() length = %d, want 144", len(buf))
	}
	if u.Size() != 144 {
		t.Errorf("Size() = %d, want 144", u.Size())
	}
}
