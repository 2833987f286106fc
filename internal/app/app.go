// Package app runs the ride demo: window, input, asset load and frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ridedemo/internal/config"
	"github.com/Faultbox/ridedemo/internal/engine/camera"
	"github.com/Faultbox/ridedemo/internal/engine/capture"
	"github.com/Faultbox/ridedemo/internal/engine/input"
	"github.com/Faultbox/ridedemo/internal/engine/lighting"
	"github.com/Faultbox/ridedemo/internal/engine/model"
	"github.com/Faultbox/ridedemo/internal/engine/renderer"
	"github.com/Faultbox/ridedemo/internal/engine/window"
	"github.com/Faultbox/ridedemo/internal/logger"
	"github.com/Faultbox/ridedemo/internal/motion"
)

// ErrLoadAborted is returned when the asset loader exits without a result.
var ErrLoadAborted = errors.New("asset load aborted")

// App is the demo instance.
type App struct {
	config  *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	camera  *camera.Perspective
	orbit   *camera.OrbitControls
	ambient *lighting.AmbientLight
	spot    *lighting.SpotLight
	state   *motion.State
	mixer   *model.Mixer
	action  *model.Action

	shots       *capture.Screenshots
	captureNext bool

	cancel  context.CancelFunc
	pending <-chan model.Result
}

// New creates the window and scene and starts loading the rider asset.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config: cfg,
		log:    logger.Named("app"),
	}

	a.log.Info("initializing demo",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("asset", cfg.Scene.AssetPath),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      "Ride Demo",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after window, the GL context must exist
	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:         width,
		Height:        height,
		Shadows:       cfg.Graphics.Shadows,
		ShadowMapSize: cfg.Lighting.Shadow.MapSize,
		GroundSize:    cfg.Scene.GroundSize,
		GroundColor:   cfg.Scene.GroundHex,
		Multisample:   a.window.Multisampled(),
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.shots = capture.New(cfg.Graphics.ScreenshotDir, "ridedemo")

	a.camera = newCamera(cfg.Scene, width, height)
	a.orbit = camera.NewOrbitControls(a.camera, mgl32.Vec3{})

	a.ambient, a.spot = newLights(cfg.Lighting, a.renderer.ShadowsActive())
	a.state = motion.NewState(motionParams(cfg.Motion), a.spot)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.pending = model.LoadAsync(ctx, cfg.Scene.AssetPath)

	a.log.Info("demo initialized", zap.Stringer("lifecycle", a.state.Lifecycle()))
	return a, nil
}

// Run drives the frame loop until quit. A failed asset load ends the loop
// with an error.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		a.dispatch(a.input.Events())
		a.orbit.Update()

		if err := a.pollLoad(); err != nil {
			return err
		}

		// Draw first, then advance, matching the frame order of the scene
		a.renderer.Render(a.frame())
		if a.captureNext {
			a.captureNext = false
			a.screenshot()
		}
		a.state.Step()

		a.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			a.log.Debug("fps",
				zap.Int("frames", frameCount),
				zap.Float64("fps", float64(frameCount)/elapsed.Seconds()),
				zap.Float64("accel", a.state.Accel),
			)
			if a.mixer != nil {
				a.log.Debug("animation",
					zap.Float64("mixerTime", a.mixer.Time()),
					zap.Float32("clipTime", a.action.Time()),
				)
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cancels a pending load and releases GPU and window resources.
func (a *App) Close() {
	a.log.Info("closing demo")

	if a.cancel != nil {
		a.cancel()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// dispatch routes input events to the viewport, motion state and orbit controls.
func (a *App) dispatch(events []input.Event) {
	for _, ev := range events {
		switch ev.Type {
		case input.EventWindowResize:
			// The drawable size differs from the event size on high-DPI displays
			w, h := a.window.DrawableSize()
			motion.Resize(a.camera, a.renderer, w, h)
		case input.EventKeyDown:
			if ev.IsEscape() {
				a.running = false
				continue
			}
			if ev.Keycode == input.KeyScreenshot && !ev.Repeat {
				a.captureNext = true
				continue
			}
			if ev.Char == 0 {
				continue
			}
			if cmd := a.state.HandleKey(ev.Char); cmd == motion.CommandRecolor {
				a.log.Debug("spot light recolored", zap.String("color", fmt.Sprintf("#%06x", a.spot.Color.Hex())))
			}
		case input.EventMouseDown:
			if ev.Button == input.ButtonLeft {
				a.orbit.BeginDrag()
			}
		case input.EventMouseUp:
			if ev.Button == input.ButtonLeft {
				a.orbit.EndDrag()
			}
		case input.EventMouseMove:
			a.orbit.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
		case input.EventMouseWheel:
			a.orbit.HandleZoom(ev.Wheel)
		}
	}
}

// pollLoad checks the pending load without blocking and installs the
// model once it arrives.
func (a *App) pollLoad() error {
	if a.pending == nil {
		return nil
	}

	select {
	case res, ok := <-a.pending:
		a.pending = nil
		if !ok {
			return ErrLoadAborted
		}
		if res.Err != nil {
			return fmt.Errorf("load rider: %w", res.Err)
		}
		return a.install(res.Model)
	default:
		return nil
	}
}

// install uploads a loaded model and makes the motion state Ready.
func (a *App) install(m *model.Model) error {
	actor, mixer, err := prepareModel(m, a.config.Scene.ModelScale)
	if err != nil {
		return fmt.Errorf("prepare rider: %w", err)
	}

	a.renderer.UploadModel(m)
	if err := a.state.Install(actor, mixer); err != nil {
		return fmt.Errorf("install rider: %w", err)
	}

	a.mixer = mixer
	a.action, _ = mixer.ClipAction(0)

	center := m.Bounds.Center()
	a.log.Info("rider ready",
		zap.String("path", m.Path),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("clips", len(m.Clips)),
		zap.Float32s("boundsMin", m.Bounds.Min[:]),
		zap.Float32s("boundsMax", m.Bounds.Max[:]),
		zap.Float32s("center", center[:]),
	)
	return nil
}

// screenshot saves the frame just rendered. Failures are logged, not fatal.
func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.SaveRGBA(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// frame gathers the per-frame render inputs.
func (a *App) frame() renderer.Frame {
	actor := mgl32.Ident4()
	if act := a.state.Actor(); act != nil {
		actor = act.Transform()
	}
	return renderer.Frame{
		View:       a.camera.View(),
		Projection: a.camera.Projection(),
		Ambient:    a.ambient,
		Spot:       a.spot,
		Actor:      actor,
	}
}
