package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/my3d/internal/config"
	"github.com/Faultbox/my3d/internal/debug"
	"github.com/Faultbox/my3d/internal/input"
	"github.com/Faultbox/my3d/internal/input/sdlinput"
	"github.com/Faultbox/my3d/internal/physics"
	"github.com/Faultbox/my3d/internal/render"
	"github.com/Faultbox/my3d/internal/scene"
	"github.com/Faultbox/my3d/internal/window"
)

// maxCatchUp bounds the physics steps run for one frame after a stall.
const maxCatchUp = 10

type viewer struct {
	cfg      *config.Config
	scene    *scene.Scene
	win      *window.Window
	lines    *render.LineRenderer
	queue    *input.Queue
	pump     *sdlinput.Pump
	camera   *render.OrbitCamera
	shots    *debug.Screenshots
	batch    debug.Lines
	overlay  debug.Overlay
	control  *physics.Body
	captured bool
	quit     bool
	shoot    bool
	log      *zap.Logger
}

func newViewer(cfg *config.Config, sc *scene.Scene, win *window.Window, lines *render.LineRenderer, queue *input.Queue, log *zap.Logger) *viewer {
	v := &viewer{
		cfg:    cfg,
		scene:  sc,
		win:    win,
		lines:  lines,
		queue:  queue,
		pump:   sdlinput.NewPump(),
		camera: render.NewOrbitCamera(cfg.Graphics.FOV),
		shots:  debug.NewScreenshots("screenshots", "my3d", debug.FormatPNG),
		overlay: debug.Overlay{
			Environment: cfg.Graphics.ShowBoxes,
			Tree:        cfg.Graphics.ShowTree,
			TreeDepth:   -1,
		},
		log: log,
	}
	if env := sc.World().Environment(); env != nil {
		v.camera.FitToBounds(env.Bounds())
	}
	if bodies := sc.World().Bodies(); len(bodies) > 0 {
		v.control = bodies[0]
		log.Info("controlling body", zap.String("body", v.control.Name()))
	}
	return v
}

// loop runs until the window closes, quit is requested or ctx ends.
func (v *viewer) loop(ctx context.Context) {
	step := v.cfg.Simulation.TimeStep
	var acc float32
	last := time.Now()
	lastTitle := last

	for !v.quit && ctx.Err() == nil {
		if v.pump.Update() {
			return
		}
		v.handleEvents()

		now := time.Now()
		acc += float32(now.Sub(last).Seconds())
		last = now

		v.queue.Drain(func(c input.Command) { v.apply(c, step) })

		n := 0
		for acc >= step && n < maxCatchUp {
			v.scene.Advance(step)
			acc -= step
			n++
		}
		if n == maxCatchUp {
			acc = 0
		}

		v.draw()

		if now.Sub(lastTitle) >= time.Second {
			v.win.SetTitle(fmt.Sprintf("my3d - %s - step %d", v.scene.Name(), v.scene.StepCount()))
			lastTitle = now
		}
	}
}

func (v *viewer) handleEvents() {
	for _, e := range v.pump.Events() {
		switch e.Type {
		case sdlinput.EventMouseMove:
			if v.captured {
				v.camera.HandleDrag(float32(e.DX), float32(e.DY))
			}
		case sdlinput.EventMouseWheel:
			v.camera.HandleZoom(float32(e.Wheel))
		case sdlinput.EventWindowResize:
			v.log.Debug("window resized", zap.Int("width", e.Width), zap.Int("height", e.Height))
		}
	}
}

func (v *viewer) apply(c input.Command, dt float32) {
	switch c.Action {
	case input.ActionMoveBody:
		if v.control != nil {
			v.control.SetBasis(v.camera.Basis())
			v.control.ApplyCommand(c.Direction)
		}
	case input.ActionMoveCamera:
		v.camera.Move(c.Direction, dt)
	case input.ActionQuit:
		v.quit = true
	case input.ActionToggleCursor:
		v.captured = !v.captured
		sdlinput.SetRelativeMouse(v.captured)
	case input.ActionScreenshot:
		v.shoot = true
	case input.ActionToggleOverlay:
		v.overlay.Tree = !v.overlay.Tree
		v.overlay.Normals = v.overlay.Tree
	}
}

// graphics returns the graphics settings as the session left them.
func (v *viewer) graphics() config.GraphicsConfig {
	g := v.cfg.Graphics
	g.Width, g.Height = v.win.WindowSize()
	g.ShowTree = v.overlay.Tree
	return g
}

func (v *viewer) draw() {
	width, height := v.win.Size()
	render.Clear(width, height)

	v.batch.Reset()
	debug.SceneLines(&v.batch, v.scene, v.overlay)
	v.lines.Upload(&v.batch)
	v.lines.Draw(v.camera.ViewProjection(v.win.Aspect()))

	if v.shoot {
		v.shoot = false
		name, err := v.shots.Capture(render.ReadPixels(width, height), width, height)
		if err != nil {
			v.log.Warn("screenshot failed", zap.Error(err))
		} else {
			v.log.Info("screenshot saved", zap.String("file", name))
		}
	}
	v.win.SwapBuffers()
}
