package params

import (
	"fmt"
	"log"
	"sync"

	"github.com/jdonald/dof-go/engine/dof"
	"github.com/jdonald/dof-go/engine/dof/lens"
)

// entry describes one keyboard-adjustable parameter: its display name, value
// range and step, and accessors into the panel's fields.
type entry struct {
	name string
	min  float32
	max  float32
	step float32
	get  func(*panel) float32
	set  func(*panel, float32)
	// format renders the value for logging; nil means plain numeric.
	format func(float32) string
}

// panel is the implementation of the Panel interface.
type panel struct {
	mu sync.Mutex

	focalDistance    float32
	fStopIndex       int
	fieldOfView      float32 // degrees
	maxCoCRadius     int
	farRadiusRescale float32
	debug            dof.DebugMode
	paused           bool
	showBounds       bool

	selected int
	entries  []entry
}

// Panel is the keyboard-driven parameter panel: an ordered set of adjustable
// values with ranges and steps, plus the toggles and the debug-mode cycle.
// One entry is selected at a time; SelectNext/SelectPrevious move the cursor
// and Adjust steps the selected value. Every change is logged.
type Panel interface {
	// FocalDistance returns the requested focus distance.
	//
	// Returns:
	//   - float32: the focus distance
	FocalDistance() float32

	// SetFocalDistance sets the requested focus distance, clamped to [0.1, 100].
	//
	// Parameters:
	//   - distance: the focus distance to set
	SetFocalDistance(distance float32)

	// FStopIndex returns the selected index into the f-stop table.
	//
	// Returns:
	//   - int: the f-stop index
	FStopIndex() int

	// SetFStopIndex sets the f-stop table index, clamped to the table bounds.
	//
	// Parameters:
	//   - index: the index to select
	SetFStopIndex(index int)

	// FieldOfView returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: the field of view in degrees
	FieldOfView() float32

	// SetFieldOfView sets the vertical field of view in degrees, clamped to [5, 90].
	//
	// Parameters:
	//   - degrees: the field of view to set
	SetFieldOfView(degrees float32)

	// MaxCoCRadius returns the saturation blur radius in pixels.
	//
	// Returns:
	//   - int: the radius in pixels
	MaxCoCRadius() int

	// SetMaxCoCRadius sets the saturation blur radius, clamped to [1, 20].
	//
	// Parameters:
	//   - radius: the radius in pixels
	SetMaxCoCRadius(radius int)

	// FarRadiusRescale returns the background blur rescale factor.
	//
	// Returns:
	//   - float32: the rescale factor
	FarRadiusRescale() float32

	// SetFarRadiusRescale sets the background blur rescale factor, clamped to [0.1, 20].
	//
	// Parameters:
	//   - rescale: the rescale factor to set
	SetFarRadiusRescale(rescale float32)

	// DebugMode returns the selected debug visualization mode.
	//
	// Returns:
	//   - dof.DebugMode: the debug mode
	DebugMode() dof.DebugMode

	// CycleDebugMode advances to the next debug mode, wrapping to Off.
	CycleDebugMode()

	// Paused reports whether simulation time is frozen.
	//
	// Returns:
	//   - bool: true when paused
	Paused() bool

	// TogglePaused flips the pause state.
	TogglePaused()

	// ShowBounds reports whether bounding-sphere visualization is enabled.
	//
	// Returns:
	//   - bool: true when bounds are drawn
	ShowBounds() bool

	// ToggleShowBounds flips the bounds-visualization state.
	ToggleShowBounds()

	// Selected returns the display name of the currently selected entry.
	//
	// Returns:
	//   - string: the entry name
	Selected() string

	// SelectNext moves the selection cursor to the next entry, wrapping.
	SelectNext()

	// SelectPrevious moves the selection cursor to the previous entry, wrapping.
	SelectPrevious()

	// Adjust steps the selected entry's value by steps × its step size,
	// clamping to the entry's range.
	//
	// Parameters:
	//   - steps: number of steps to apply (negative decreases)
	Adjust(steps int)
}

var _ Panel = &panel{}

// NewPanel creates a new Panel with the specified options applied. Defaults
// match the demo's initial state: focus at 10 units, f/2.8, 25° field of view,
// 8 pixel max CoC radius, rescale 1.
//
// Parameters:
//   - options: a variadic list of PanelBuilderOption functions to configure the Panel
//
// Returns:
//   - Panel: a new instance of Panel configured with the provided options
func NewPanel(options ...PanelBuilderOption) Panel {
	p := &panel{
		focalDistance:    10,
		fStopIndex:       8,
		fieldOfView:      25,
		maxCoCRadius:     8,
		farRadiusRescale: 1,
	}
	p.entries = []entry{
		{
			name: "Focal Distance", min: 0.1, max: 100, step: 0.1,
			get: func(p *panel) float32 { return p.focalDistance },
			set: func(p *panel, v float32) { p.focalDistance = v },
		},
		{
			name: "F-stop", min: 0, max: float32(lens.FStopCount - 1), step: 1,
			get: func(p *panel) float32 { return float32(p.fStopIndex) },
			set: func(p *panel, v float32) { p.fStopIndex = int(v) },
			format: func(v float32) string {
				return fmt.Sprintf("f/%.1f", lens.FStops()[int(v)])
			},
		},
		{
			name: "Field of View", min: 5, max: 90, step: 1,
			get: func(p *panel) float32 { return p.fieldOfView },
			set: func(p *panel, v float32) { p.fieldOfView = v },
		},
		{
			name: "Max CoC Radius", min: 1, max: 20, step: 1,
			get: func(p *panel) float32 { return float32(p.maxCoCRadius) },
			set: func(p *panel, v float32) { p.maxCoCRadius = int(v) },
		},
		{
			name: "Far Radius Rescale", min: 0.1, max: 20, step: 0.1,
			get: func(p *panel) float32 { return p.farRadiusRescale },
			set: func(p *panel, v float32) { p.farRadiusRescale = v },
		},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *panel) FocalDistance() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focalDistance
}

func (p *panel) SetFocalDistance(distance float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focalDistance = clamp(distance, 0.1, 100)
}

func (p *panel) FStopIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fStopIndex
}

func (p *panel) SetFStopIndex(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fStopIndex = int(clamp(float32(index), 0, float32(lens.FStopCount-1)))
}

func (p *panel) FieldOfView() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fieldOfView
}

func (p *panel) SetFieldOfView(degrees float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fieldOfView = clamp(degrees, 5, 90)
}

func (p *panel) MaxCoCRadius() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxCoCRadius
}

func (p *panel) SetMaxCoCRadius(radius int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxCoCRadius = int(clamp(float32(radius), 1, 20))
}

func (p *panel) FarRadiusRescale() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.farRadiusRescale
}

func (p *panel) SetFarRadiusRescale(rescale float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.farRadiusRescale = clamp(rescale, 0.1, 20)
}

func (p *panel) DebugMode() dof.DebugMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.debug
}

func (p *panel) CycleDebugMode() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.debug = p.debug.Next()
	log.Printf("[Params] Debug Option = %s", p.debug)
}

func (p *panel) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *panel) TogglePaused() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	log.Printf("[Params] Paused = %t", p.paused)
}

func (p *panel) ShowBounds() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.showBounds
}

func (p *panel) ToggleShowBounds() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showBounds = !p.showBounds
	log.Printf("[Params] Show Bounds = %t", p.showBounds)
}

func (p *panel) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries[p.selected].name
}

func (p *panel) SelectNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = (p.selected + 1) % len(p.entries)
	log.Printf("[Params] Selected %s", p.entries[p.selected].name)
}

func (p *panel) SelectPrevious() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = (p.selected + len(p.entries) - 1) % len(p.entries)
	log.Printf("[Params] Selected %s", p.entries[p.selected].name)
}

func (p *panel) Adjust(steps int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := &p.entries[p.selected]
	value := clamp(e.get(p)+float32(steps)*e.step, e.min, e.max)
	e.set(p, value)

	if e.format != nil {
		log.Printf("[Params] %s = %s", e.name, e.format(value))
	} else {
		log.Printf("[Params] %s = %.1f", e.name, value)
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
