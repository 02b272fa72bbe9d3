package dof

// DebugMode selects which intermediate buffer (or the final composite) the
// composite pass displays. Purely a read switch: selecting a mode has no
// effect on simulation or pipeline state.
type DebugMode int

const (
	// DebugOff renders the normal depth-of-field composite.
	DebugOff DebugMode = iota
	// DebugShowCoC visualizes the circle-of-confusion magnitude as grayscale.
	DebugShowCoC
	// DebugShowRegion visualizes the near/focused/far classification as RGB.
	DebugShowRegion
	// DebugShowNear shows the blurred premultiplied near layer alone.
	DebugShowNear
	// DebugShowBlurry shows the blurred far layer alone.
	DebugShowBlurry
	// DebugShowInput shows the sharp scene capture alone.
	DebugShowInput
	// DebugShowMidAndFar shows the sharp/far blend without the near overlay.
	DebugShowMidAndFar
	// DebugShowSignedCoC visualizes the signed CoC, mid-gray at zero.
	DebugShowSignedCoC

	// DebugModeCount is the number of selectable debug modes.
	DebugModeCount = int(DebugShowSignedCoC) + 1
)

var debugModeNames = [DebugModeCount]string{
	"Off",
	"Show CoC",
	"Show Region",
	"Show Near",
	"Show Blurry",
	"Show Input",
	"Show Mid & Far",
	"Show Signed CoC",
}

// String returns the display name of the debug mode.
//
// Returns:
//   - string: the mode name
func (d DebugMode) String() string {
	if d < 0 || int(d) >= DebugModeCount {
		return "Unknown"
	}
	return debugModeNames[d]
}

// Next returns the following debug mode, wrapping back to DebugOff.
//
// Returns:
//   - DebugMode: the next mode in cycle order
func (d DebugMode) Next() DebugMode {
	return DebugMode((int(d) + 1) % DebugModeCount)
}

// RenderParameters is the immutable per-frame parameter set handed to the
// pipeline. The caller builds a fresh value each frame from the lens model and
// the parameter panel; the pipeline never mutates it.
type RenderParameters struct {
	// Aperture is the lens aperture diameter.
	Aperture float32

	// FocalLength is the lens focal length derived from the field of view.
	FocalLength float32

	// FocalPlane is the effective focus distance (already clamped ≥ FocalLength).
	FocalPlane float32

	// MaxCoCRadiusPixels is the saturation blur radius in pixels.
	MaxCoCRadiusPixels int

	// FarRadiusRescale scales background blur independent of foreground blur.
	FarRadiusRescale float32

	// Debug selects an intermediate-buffer visualization in the composite pass.
	Debug DebugMode

	// ShowBounds draws wireframe bounding spheres over the scene capture.
	ShowBounds bool
}
