package app

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/ridedemo/internal/config"
	"github.com/Faultbox/ridedemo/internal/engine/camera"
	"github.com/Faultbox/ridedemo/internal/engine/lighting"
	"github.com/Faultbox/ridedemo/internal/engine/model"
	"github.com/Faultbox/ridedemo/internal/motion"
)

// newLights builds the ambient and spot light rig from config.
func newLights(cfg config.LightingConfig, shadows bool) (*lighting.AmbientLight, *lighting.SpotLight) {
	ambient := lighting.NewAmbientLight(cfg.AmbientHex, cfg.AmbientIntensity)

	spot := lighting.NewSpotLight(cfg.SpotHex, cfg.SpotIntensity)
	spot.Position = mgl32.Vec3(cfg.SpotPosition)
	spot.Angle = cfg.SpotAngle
	spot.Penumbra = cfg.SpotPenumbra
	spot.Decay = cfg.SpotDecay
	spot.Distance = cfg.SpotDistance
	spot.Shadow = lighting.SpotShadow{
		Enabled: shadows,
		MapSize: cfg.Shadow.MapSize,
		Bias:    cfg.Shadow.Bias,
		Near:    cfg.Shadow.Near,
		Far:     cfg.Shadow.Far,
		Focus:   cfg.Shadow.Focus,
	}

	return &ambient, spot
}

// newCamera builds the perspective camera for a surface of the given size.
func newCamera(cfg config.SceneConfig, width, height int) *camera.Perspective {
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	cam := camera.NewPerspective(cfg.CameraFOV, aspect, cfg.CameraNear, cfg.CameraFar)
	cam.Position = mgl32.Vec3(cfg.CameraPos)
	return cam
}

// motionParams maps config to steering constants.
func motionParams(cfg config.MotionConfig) motion.Params {
	return motion.Params{
		DefaultAccel: cfg.DefaultAccel,
		AccelStep:    cfg.AccelStep,
		YawStep:      cfg.YawStep,
		Bound:        cfg.Bound,
		AnimStep:     cfg.AnimStep,
	}
}

// prepareModel readies a loaded model for the scene: every mesh casts and
// receives shadows and clip 0 plays on a fresh mixer.
func prepareModel(m *model.Model, scale [3]float64) (*motion.Actor, *model.Mixer, error) {
	m.SetShadows(true, true)

	mixer := model.NewMixer(m)
	action, err := mixer.ClipAction(0)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	action.Play()
	m.UpdateWorld()

	actor := motion.NewActor(mgl64.Vec3(scale))
	return actor, mixer, nil
}
