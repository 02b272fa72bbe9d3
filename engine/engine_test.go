package engine

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/jdonald/dof-go/engine/window"
)

// stubWindow satisfies window.Window without creating a platform window.
type stubWindow struct {
	onUpdate func()
	running  bool
	closed   bool
}

func (w *stubWindow) SetUpdateCallback(callback func())                      { w.onUpdate = callback }
func (w *stubWindow) SetResizeCallback(callback func(width, height int))     {}
func (w *stubWindow) SetScrollCallback(callback func(delta float32))         {}
func (w *stubWindow) SetKeyDownCallback(callback func(keyCode uint32))       {}
func (w *stubWindow) SetKeyUpCallback(callback func(keyCode uint32))         {}
func (w *stubWindow) SetMouseDownCallback(callback func(x, y int32, b bool)) {}
func (w *stubWindow) SetMouseUpCallback(callback func(x, y int32))           {}
func (w *stubWindow) SetMouseMoveCallback(callback func(x, y int32))         {}
func (w *stubWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor             { return nil }
func (w *stubWindow) IsRunning() bool                                        { return w.running }
func (w *stubWindow) ProcessMessages()                                       {}
func (w *stubWindow) Width() int                                             { return 960 }
func (w *stubWindow) Height() int                                            { return 540 }

func (w *stubWindow) Close() error {
	w.closed = true
	w.running = false
	return nil
}

var _ window.Window = &stubWindow{}

func TestAdvanceFixedTimestep(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   []float64
		wantTicks []int
	}{
		{
			name:      "exact steps",
			elapsed:   []float64{1.0 / 60.0, 2.0 / 60.0},
			wantTicks: []int{1, 2},
		},
		{
			name:      "sub-step frames accumulate",
			elapsed:   []float64{1.0 / 120.0, 1.0 / 120.0, 1.0 / 120.0},
			wantTicks: []int{0, 1, 0},
		},
		{
			name:      "long stall is capped",
			elapsed:   []float64{5.0},
			wantTicks: []int{6}, // 0.1s cap / (1/60) = 6
		},
		{
			name:      "negative elapsed is ignored",
			elapsed:   []float64{-1.0, 1.0 / 60.0},
			wantTicks: []int{0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &engine{timestep: defaultTimestep}
			var fired int
			e.SetTickCallback(func(timestep float32) {
				fired++
				if timestep != float32(defaultTimestep) {
					t.Errorf("expected fixed timestep %v, got %v", defaultTimestep, timestep)
				}
			})

			total := 0
			for i, elapsed := range tt.elapsed {
				ticks := e.advance(elapsed)
				if ticks != tt.wantTicks[i] {
					t.Errorf("frame %d: expected %d ticks, got %d", i, tt.wantTicks[i], ticks)
				}
				total += ticks
			}
			if fired != total {
				t.Errorf("callback fired %d times, expected %d", fired, total)
			}
		})
	}
}

func TestAdvanceCarriesRemainder(t *testing.T) {
	e := &engine{timestep: defaultTimestep}

	// 1.5 steps leaves half a step in the accumulator.
	if ticks := e.advance(1.5 / 60.0); ticks != 1 {
		t.Fatalf("expected 1 tick, got %d", ticks)
	}
	// Half a step more completes the second tick.
	if ticks := e.advance(0.5 / 60.0); ticks != 1 {
		t.Fatalf("expected 1 tick from the carried remainder, got %d", ticks)
	}
}

func TestQuitClosesWindowOnce(t *testing.T) {
	w := &stubWindow{running: true}
	e := NewEngine(WithWindow(w))

	e.Quit()
	if !w.closed {
		t.Fatal("expected Quit to close the window")
	}

	// Second call must not panic or re-close.
	w.closed = false
	e.Quit()
	if w.closed {
		t.Error("expected the second Quit to be a no-op")
	}
}

func TestWithTickRate(t *testing.T) {
	e := NewEngine(WithWindow(&stubWindow{}), WithTickRate(30)).(*engine)
	if e.timestep != 1.0/30.0 {
		t.Errorf("expected timestep 1/30, got %v", e.timestep)
	}

	e = NewEngine(WithWindow(&stubWindow{}), WithTickRate(0)).(*engine)
	if e.timestep != defaultTimestep {
		t.Errorf("expected default timestep for zero rate, got %v", e.timestep)
	}
}
