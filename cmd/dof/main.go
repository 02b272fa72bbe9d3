package main

import (
	"log"
	"math"
	"runtime"

	"github.com/jdonald/dof-go/common"
	"github.com/jdonald/dof-go/engine"
	"github.com/jdonald/dof-go/engine/camera"
	"github.com/jdonald/dof-go/engine/dof"
	"github.com/jdonald/dof-go/engine/dof/lens"
	"github.com/jdonald/dof-go/engine/loader"
	"github.com/jdonald/dof-go/engine/params"
	"github.com/jdonald/dof-go/engine/renderer"
	"github.com/jdonald/dof-go/engine/scene"
	"github.com/jdonald/dof-go/engine/window"
)

const (
	windowWidth  = 960
	windowHeight = 540
)

func init() {
	// GLFW and wgpu surface presentation must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	win := window.NewWindow(
		window.WithTitle("Depth of Field"),
		window.WithWidth(windowWidth),
		window.WithHeight(windowHeight),
	)

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)

	assets := loader.NewLoader(loader.BackendTypeFile,
		loader.WithSearchPaths("assets/shaders", "assets/textures"),
	)

	controller := camera.NewCameraController(
		camera.WithRadius(25),
		camera.WithRadiusBounds(5, 45),
		camera.WithElevation(0.35),
	)
	cam := camera.NewCamera(
		camera.WithController(controller),
		camera.WithFov(25*math.Pi/180),
		camera.WithAspect(float32(windowWidth)/float32(windowHeight)),
		camera.WithFar(200),
	)

	demoScene := scene.NewScene()
	demoLens := lens.NewLens()
	panel := params.NewPanel()

	pipeline := dof.NewOrchestrator(
		dof.WithRenderer(r),
		dof.WithLoader(assets),
		dof.WithScene(demoScene),
		dof.WithCamera(cam),
	)
	if err := pipeline.Initialize(win.Width(), win.Height()); err != nil {
		log.Fatalf("[Demo] Failed to initialize render pipeline: %v", err)
	}
	defer pipeline.Release()

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(true),
	)

	eng.SetTickCallback(func(timestep float32) {
		demoLens.SetFieldOfView(panel.FieldOfView() * math.Pi / 180)
		demoLens.SetFStopIndex(panel.FStopIndex())
		demoLens.SetFocalPlane(panel.FocalDistance())
		cam.SetFov(demoLens.FieldOfView())

		if !panel.Paused() {
			demoScene.Update(float64(timestep))
		}
	})

	eng.SetDrawCallback(func() {
		cam.Update()
		err := pipeline.Render(dof.RenderParameters{
			Aperture:           demoLens.Aperture(),
			FocalLength:        demoLens.FocalLength(),
			FocalPlane:         demoLens.FocalPlane(),
			MaxCoCRadiusPixels: panel.MaxCoCRadius(),
			FarRadiusRescale:   panel.FarRadiusRescale(),
			Debug:              panel.DebugMode(),
			ShowBounds:         panel.ShowBounds(),
		})
		if err != nil {
			log.Printf("[Demo] Frame dropped: %v", err)
		}
	})

	win.SetResizeCallback(func(width, height int) {
		r.Resize(width, height)
		cam.SetAspect(float32(width) / float32(height))
		if err := pipeline.Resize(width, height); err != nil {
			log.Printf("[Demo] Resize failed: %v", err)
		}
	})

	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyEsc:
			eng.Quit()
		case common.KeySpace:
			panel.TogglePaused()
		case common.KeyR:
			pipeline.ReloadShaders()
		case common.KeyB:
			panel.ToggleShowBounds()
		case common.KeyD:
			panel.CycleDebugMode()
		case common.KeyUp:
			panel.SelectPrevious()
		case common.KeyDown:
			panel.SelectNext()
		case common.KeyLeft:
			panel.Adjust(-1)
		case common.KeyRight:
			panel.Adjust(1)
		}
	})

	var dragging bool
	var lastX, lastY int32

	win.SetMouseDownCallback(func(x, y int32, shift bool) {
		if shift {
			ray := cam.GenerateRay(float32(x), float32(y), win.Width(), win.Height())
			if dist, ok := demoScene.AutoFocus(ray); ok {
				panel.SetFocalDistance(dist)
				log.Printf("[Demo] Auto-focus at %.2f", dist)
			}
			return
		}
		dragging = true
		lastX, lastY = x, y
	})
	win.SetMouseUpCallback(func(x, y int32) {
		dragging = false
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		if !dragging {
			return
		}
		controller.Drag(float32(x-lastX), float32(y-lastY))
		lastX, lastY = x, y
	})
	win.SetScrollCallback(func(delta float32) {
		controller.Zoom(delta)
	})

	log.Printf("[Demo] Space = pause, B = bounds, D = debug view, R = reload shaders, arrows = adjust parameters, Shift+click = focus")
	eng.Run()
}
