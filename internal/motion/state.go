// Package motion owns the rider's steering state: the per-frame update and
// the keyboard bindings that mutate it.
package motion

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/ridedemo/internal/engine/lighting"
	"github.com/Faultbox/ridedemo/internal/logger"
)

// Errors returned by Install.
var (
	ErrAlreadyLoaded = errors.New("actor already installed")
	ErrNilActor      = errors.New("actor and animator are required")
)

// Lifecycle is the load state of the scene.
type Lifecycle int

const (
	// Unloaded means the model load has not completed. Every update is a no-op.
	Unloaded Lifecycle = iota
	// Ready means the actor and its animator are installed.
	Ready
)

func (l Lifecycle) String() string {
	switch l {
	case Unloaded:
		return "unloaded"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Params holds the steering constants.
type Params struct {
	DefaultAccel float64
	AccelStep    float64
	YawStep      float64
	Bound        float64 // Teleport threshold on |x| and |z|
	AnimStep     float64 // Clip seconds advanced per frame
}

// DefaultParams returns the stock steering constants.
func DefaultParams() Params {
	return Params{
		DefaultAccel: 0.01,
		AccelStep:    0.001,
		YawStep:      0.05,
		Bound:        30,
		AnimStep:     0.01,
	}
}

// Actor is the steerable model instance.
type Actor struct {
	Position mgl64.Vec3
	Yaw      float64 // Radians around Y, unbounded
	Scale    mgl64.Vec3
}

// NewActor creates an actor at the origin with the given scale.
func NewActor(scale mgl64.Vec3) *Actor {
	return &Actor{Scale: scale}
}

// WorldPosition implements lighting.Target.
func (a *Actor) WorldPosition() mgl32.Vec3 {
	return mgl32.Vec3{float32(a.Position.X()), float32(a.Position.Y()), float32(a.Position.Z())}
}

// Transform returns translate * rotateY(yaw) * scale.
func (a *Actor) Transform() mgl32.Mat4 {
	m := mgl64.Translate3D(a.Position.X(), a.Position.Y(), a.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(a.Yaw)).
		Mul4(mgl64.Scale3D(a.Scale.X(), a.Scale.Y(), a.Scale.Z()))
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// Animator advances the actor's animation clip.
type Animator interface {
	Update(dt float64)
}

// Light is the part of the spot light the controls touch.
type Light interface {
	SetTarget(t lighting.Target)
	SetHex(hex uint32)
}

// State owns the actor, its animator and the acceleration scalar.
// It is not safe for concurrent use; the frame loop and the key handler
// run on the same goroutine.
type State struct {
	params    Params
	lifecycle Lifecycle
	actor     *Actor
	animator  Animator
	light     Light
	colors    ColorSource

	// Accel is the forward distance covered per frame.
	Accel float64

	log *zap.Logger
}

// NewState creates an Unloaded state. light may be nil.
func NewState(params Params, light Light) *State {
	return &State{
		params:    params,
		lifecycle: Unloaded,
		light:     light,
		colors:    RandomColor,
		Accel:     params.DefaultAccel,
		log:       logger.Named("motion"),
	}
}

// SetColorSource replaces the generator used by the recolor key.
func (s *State) SetColorSource(src ColorSource) {
	s.colors = src
}

// Install transitions Unloaded to Ready.
func (s *State) Install(actor *Actor, animator Animator) error {
	if actor == nil || animator == nil {
		return ErrNilActor
	}
	if s.lifecycle == Ready {
		return ErrAlreadyLoaded
	}
	s.actor = actor
	s.animator = animator
	s.lifecycle = Ready
	s.log.Info("actor installed", zap.Float64("accel", s.Accel))
	return nil
}

// Lifecycle returns the current load state.
func (s *State) Lifecycle() Lifecycle {
	return s.lifecycle
}

// Actor returns the installed actor, or nil while Unloaded.
func (s *State) Actor() *Actor {
	return s.actor
}

// Params returns the steering constants.
func (s *State) Params() Params {
	return s.params
}

// Step runs one frame: advance the clip by the fixed step, move along the
// yaw direction, teleport home past the bound and re-aim the light.
func (s *State) Step() {
	if s.lifecycle != Ready {
		return
	}

	s.animator.Update(s.params.AnimStep)

	a := s.actor
	x, y, z := a.Position.X(), a.Position.Y(), a.Position.Z()
	x -= s.Accel * math.Sin(a.Yaw) * -1
	z += s.Accel * math.Cos(a.Yaw)
	a.Position = mgl64.Vec3{x, y, z}

	if math.Abs(x) > s.params.Bound || math.Abs(z) > s.params.Bound {
		a.Position = mgl64.Vec3{}
	}

	if s.light != nil {
		s.light.SetTarget(a)
	}
}

// Reset returns the actor home with zero yaw and the default acceleration.
func (s *State) Reset() {
	if s.lifecycle != Ready {
		return
	}
	s.actor.Position = mgl64.Vec3{}
	s.actor.Yaw = 0
	s.Accel = s.params.DefaultAccel
}
