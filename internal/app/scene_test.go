package app

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/ridedemo/internal/config"
	"github.com/Faultbox/ridedemo/internal/engine/model"
	"github.com/Faultbox/ridedemo/internal/motion"
)

func riderModel(withClip bool) *model.Model {
	m := &model.Model{
		Path: "rider.gltf",
		Nodes: []model.Node{{
			Name:     "body",
			Parent:   -1,
			Mesh:     0,
			Skin:     -1,
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		}},
		Roots:  []int{0},
		Meshes: []model.Mesh{{Name: "body"}},
	}
	if withClip {
		m.Clips = []*model.Clip{{
			Name:     "ride",
			Duration: 1,
			Channels: []model.Channel{{
				Node:   0,
				Path:   model.PathTranslation,
				Interp: model.InterpLinear,
				Times:  []float32{0, 1},
				Values: []mgl32.Vec4{{0, 0, 0, 0}, {0, 2, 0, 0}},
			}},
		}}
	}
	return m
}

func TestPrepareModel(t *testing.T) {
	m := riderModel(true)

	actor, mixer, err := prepareModel(m, [3]float64{2, 0.6, 1})
	if err != nil {
		t.Fatalf("prepareModel failed: %v", err)
	}

	if actor.Scale != (mgl64.Vec3{2, 0.6, 1}) {
		t.Errorf("scale = %v, want (2, 0.6, 1)", actor.Scale)
	}
	if actor.Position != (mgl64.Vec3{}) || actor.Yaw != 0 {
		t.Errorf("actor should start at the origin facing +Z, got %v yaw %f", actor.Position, actor.Yaw)
	}
	if !m.Meshes[0].CastShadow || !m.Meshes[0].ReceiveShadow {
		t.Error("meshes should cast and receive shadows")
	}

	action, err := mixer.ClipAction(0)
	if err != nil {
		t.Fatalf("ClipAction(0) failed: %v", err)
	}
	if !action.IsRunning() {
		t.Error("clip 0 should be playing")
	}

	mixer.Update(0.5)
	if y := m.Nodes[0].Translation.Y(); math.Abs(float64(y-1)) > 1e-5 {
		t.Errorf("translation y after 0.5s = %f, want 1", y)
	}
}

func TestPrepareModelWithoutClip(t *testing.T) {
	_, _, err := prepareModel(riderModel(false), [3]float64{1, 1, 1})
	if !errors.Is(err, model.ErrClipIndex) {
		t.Errorf("expected ErrClipIndex, got %v", err)
	}
}

func TestPreparedModelInstalls(t *testing.T) {
	_, spot := newLights(config.Default().Lighting, true)
	state := motion.NewState(motion.DefaultParams(), spot)

	actor, mixer, err := prepareModel(riderModel(true), [3]float64{2, 0.6, 1})
	if err != nil {
		t.Fatalf("prepareModel failed: %v", err)
	}
	if err := state.Install(actor, mixer); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	state.Step()
	if spot.Target() != actor {
		t.Error("spot light should aim at the actor after a step")
	}
	if got := mixer.Time(); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("mixer time = %f, want 0.01", got)
	}
}

func TestNewLights(t *testing.T) {
	cfg := config.Default().Lighting

	ambient, spot := newLights(cfg, true)

	if ambient.Color.Hex() != 0xffffff || ambient.Intensity != 0.5 {
		t.Errorf("ambient = %+v", ambient)
	}
	if spot.Color.Hex() != 0xffffff || spot.Intensity != 0.7 {
		t.Errorf("spot color/intensity = %#06x/%f", spot.Color.Hex(), spot.Intensity)
	}
	if spot.Position != (mgl32.Vec3{2, 12, 2}) {
		t.Errorf("spot position = %v", spot.Position)
	}
	if math.Abs(float64(spot.Angle)-math.Pi/6) > 1e-6 {
		t.Errorf("spot angle = %f, want pi/6", spot.Angle)
	}
	if spot.Penumbra != 0.5 || spot.Decay != 1 || spot.Distance != 0 {
		t.Errorf("spot falloff = %f/%f/%f", spot.Penumbra, spot.Decay, spot.Distance)
	}
	if !spot.Shadow.Enabled || spot.Shadow.MapSize != 1024 || spot.Shadow.Bias != -0.001 {
		t.Errorf("spot shadow = %+v", spot.Shadow)
	}
	if spot.TargetPosition() != (mgl32.Vec3{}) {
		t.Errorf("spot should aim at the origin before load, got %v", spot.TargetPosition())
	}

	_, spot = newLights(cfg, false)
	if spot.Shadow.Enabled {
		t.Error("shadows should follow the renderer")
	}
}

func TestNewCamera(t *testing.T) {
	cfg := config.Default().Scene

	cam := newCamera(cfg, 1280, 720)
	if cam.Aspect != 1280.0/720.0 {
		t.Errorf("aspect = %f, want %f", cam.Aspect, 1280.0/720.0)
	}
	if cam.FOV != 40 || cam.Near != 0.1 || cam.Far != 1000 {
		t.Errorf("frustum = %f/%f/%f", cam.FOV, cam.Near, cam.Far)
	}
	if cam.Position != (mgl32.Vec3{18, 7, 12}) {
		t.Errorf("position = %v", cam.Position)
	}

	if cam := newCamera(cfg, 0, 0); cam.Aspect != 1 {
		t.Errorf("empty surface aspect = %f, want 1", cam.Aspect)
	}
}

func TestMotionParams(t *testing.T) {
	if got := motionParams(config.Default().Motion); got != motion.DefaultParams() {
		t.Errorf("params = %+v, want %+v", got, motion.DefaultParams())
	}
}
