package params

import (
	"github.com/jdonald/dof-go/engine/dof"
)

// PanelBuilderOption is a functional option for configuring a Panel via NewPanel.
type PanelBuilderOption func(*panel)

// WithFocalDistance is an option builder that sets the initial focus distance.
//
// Parameters:
//   - distance: the focus distance, clamped to [0.1, 100]
//
// Returns:
//   - PanelBuilderOption: a function that applies the focus distance option to a panel
func WithFocalDistance(distance float32) PanelBuilderOption {
	return func(p *panel) {
		p.focalDistance = clamp(distance, 0.1, 100)
	}
}

// WithFStopIndex is an option builder that sets the initial f-stop table index.
//
// Parameters:
//   - index: the f-stop index
//
// Returns:
//   - PanelBuilderOption: a function that applies the f-stop option to a panel
func WithFStopIndex(index int) PanelBuilderOption {
	return func(p *panel) {
		p.fStopIndex = index
	}
}

// WithFieldOfView is an option builder that sets the initial vertical field of
// view in degrees.
//
// Parameters:
//   - degrees: the field of view, clamped to [5, 90]
//
// Returns:
//   - PanelBuilderOption: a function that applies the field of view option to a panel
func WithFieldOfView(degrees float32) PanelBuilderOption {
	return func(p *panel) {
		p.fieldOfView = clamp(degrees, 5, 90)
	}
}

// WithMaxCoCRadius is an option builder that sets the initial saturation blur
// radius in pixels.
//
// Parameters:
//   - radius: the radius, clamped to [1, 20]
//
// Returns:
//   - PanelBuilderOption: a function that applies the radius option to a panel
func WithMaxCoCRadius(radius int) PanelBuilderOption {
	return func(p *panel) {
		p.maxCoCRadius = int(clamp(float32(radius), 1, 20))
	}
}

// WithFarRadiusRescale is an option builder that sets the initial background
// blur rescale factor.
//
// Parameters:
//   - rescale: the rescale factor, clamped to [0.1, 20]
//
// Returns:
//   - PanelBuilderOption: a function that applies the rescale option to a panel
func WithFarRadiusRescale(rescale float32) PanelBuilderOption {
	return func(p *panel) {
		p.farRadiusRescale = clamp(rescale, 0.1, 20)
	}
}

// WithDebugMode is an option builder that sets the initial debug visualization mode.
//
// Parameters:
//   - mode: the debug mode to select
//
// Returns:
//   - PanelBuilderOption: a function that applies the debug mode option to a panel
func WithDebugMode(mode dof.DebugMode) PanelBuilderOption {
	return func(p *panel) {
		p.debug = mode
	}
}
