package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Target is anything a spot light can aim at.
type Target interface {
	WorldPosition() mgl32.Vec3
}

// Point is a fixed aim target.
type Point mgl32.Vec3

// WorldPosition implements Target.
func (p Point) WorldPosition() mgl32.Vec3 {
	return mgl32.Vec3(p)
}

// SpotShadow holds shadow camera settings of a spot light.
type SpotShadow struct {
	Enabled bool
	MapSize int32
	Bias    float32
	Near    float32
	Far     float32
	Focus   float32 // Fraction of the cone covered by the shadow camera
}

// SpotLight emits a cone from Position toward its target.
type SpotLight struct {
	Position  mgl32.Vec3
	Color     Color
	Intensity float32
	Angle     float32 // Cone half-angle in radians
	Penumbra  float32 // 0..1 fraction of the cone that fades out
	Decay     float32
	Distance  float32 // 0 means unlimited range
	Shadow    SpotShadow

	target Target
}

// NewSpotLight creates a spot light aimed at the origin.
func NewSpotLight(hex uint32, intensity float32) *SpotLight {
	return &SpotLight{
		Color:     ColorFromHex(hex),
		Intensity: intensity,
		Angle:     math.Pi / 3,
		Penumbra:  0,
		Decay:     2,
		Shadow: SpotShadow{
			MapSize: 512,
			Near:    0.5,
			Far:     500,
			Focus:   1,
		},
		target: Point{},
	}
}

// SetHex replaces the light color.
func (s *SpotLight) SetHex(hex uint32) {
	s.Color = ColorFromHex(hex)
}

// SetTarget repoints the light. A nil target aims at the origin.
func (s *SpotLight) SetTarget(t Target) {
	if t == nil {
		t = Point{}
	}
	s.target = t
}

// Target returns the current aim target.
func (s *SpotLight) Target() Target {
	return s.target
}

// TargetPosition returns the world position the light is aimed at.
func (s *SpotLight) TargetPosition() mgl32.Vec3 {
	return s.target.WorldPosition()
}

// Direction returns the unit vector from the light toward its target.
// A target at the light position falls back to straight down.
func (s *SpotLight) Direction() mgl32.Vec3 {
	d := s.TargetPosition().Sub(s.Position)
	if d.Len() < 1e-6 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// ConeCos returns cos of the outer cone and cos of the inner, full-intensity cone.
func (s *SpotLight) ConeCos() (outer, inner float32) {
	outer = float32(math.Cos(float64(s.Angle)))
	inner = float32(math.Cos(float64(s.Angle * (1 - s.Penumbra))))
	return outer, inner
}

// ShadowFOV returns the vertical field of view of the shadow camera in radians.
func (s *SpotLight) ShadowFOV() float32 {
	fov := 2 * s.Angle * s.Shadow.Focus
	if fov > math.Pi*0.99 {
		fov = math.Pi * 0.99
	}
	return fov
}
