package engine

import (
	"sync"
	"time"

	"github.com/jdonald/dof-go/engine/profiler"
	"github.com/jdonald/dof-go/engine/window"
)

const (
	// defaultTimestep is the fixed simulation step: 60 ticks per second.
	defaultTimestep = 1.0 / 60.0

	// maxFrameTime caps the elapsed time fed into the accumulator so a stall
	// (debugger pause, window drag) produces a bounded burst of catch-up ticks
	// instead of a spiral of death.
	maxFrameTime = 0.1
)

// engine is the implementation of the Engine interface.
// Runs a fixed-timestep simulation loop driven by the window message loop:
// each message-loop iteration accumulates real elapsed time and fires zero or
// more tick callbacks at the fixed step, then one draw callback.
type engine struct {
	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	timestep    float64
	accumulator float64
	lastFrame   time.Time
	started     bool

	tickCallback func(timestep float32)
	drawCallback func()

	quitOnce sync.Once
}

// Engine drives the demo's main loop. Simulation runs at a fixed timestep so
// the animation is deterministic regardless of frame rate; rendering runs once
// per window message-loop iteration. Everything executes on the window's
// thread, which is also the GPU submission thread.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables frame rate and memory statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called for each fixed simulation
	// step. A rendered frame may fire the callback zero or more times
	// depending on how much real time has accumulated.
	//
	// Parameters:
	//   - callback: function receiving the fixed timestep in seconds
	SetTickCallback(callback func(timestep float32))

	// SetDrawCallback registers the function called once per frame after the
	// simulation has caught up.
	//
	// Parameters:
	//   - callback: function to call each frame
	SetDrawCallback(callback func())

	// Run starts the main loop and blocks until the window closes.
	Run()

	// Quit closes the window, ending the main loop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, tick rate, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(),
		timestep: defaultTimestep,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		_ = e.window.Close()
	})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(timestep float32)) {
	e.tickCallback = callback
}

func (e *engine) SetDrawCallback(callback func()) {
	e.drawCallback = callback
}

// frame runs one message-loop iteration: advance the simulation by the real
// elapsed time, then draw.
func (e *engine) frame() {
	now := time.Now()
	if !e.started {
		e.lastFrame = now
		e.started = true
	}
	elapsed := now.Sub(e.lastFrame).Seconds()
	e.lastFrame = now

	e.advance(elapsed)

	if e.drawCallback != nil {
		e.drawCallback()
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

// advance accumulates elapsed real time and fires the tick callback once per
// whole fixed step. Elapsed time is capped at maxFrameTime before
// accumulating. The leftover fraction stays in the accumulator for the next
// frame.
//
// Returns:
//   - int: the number of ticks fired
func (e *engine) advance(elapsed float64) int {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxFrameTime {
		elapsed = maxFrameTime
	}

	e.accumulator += elapsed
	ticks := 0
	for e.accumulator >= e.timestep {
		if e.tickCallback != nil {
			e.tickCallback(float32(e.timestep))
		}
		e.accumulator -= e.timestep
		ticks++
	}
	return ticks
}
