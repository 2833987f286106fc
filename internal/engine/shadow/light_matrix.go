package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ridedemo/internal/engine/lighting"
)

// SpotLightMatrix computes the view-projection of a spot light's shadow camera.
// The camera sits at the light position, looks at the light target and covers
// the cone scaled by the shadow focus.
func SpotLightMatrix(light *lighting.SpotLight) mgl32.Mat4 {
	far := light.Shadow.Far
	if light.Distance > 0 {
		far = light.Distance
	}
	near := light.Shadow.Near
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 1
	}
	return PerspectiveLightMatrix(light.Position, light.TargetPosition(), light.ShadowFOV(), near, far)
}

// PerspectiveLightMatrix builds a square perspective shadow camera at pos looking at target.
func PerspectiveLightMatrix(pos, target mgl32.Vec3, fov, near, far float32) mgl32.Mat4 {
	dir := target.Sub(pos)
	if dir.Len() < 1e-6 {
		dir = mgl32.Vec3{0, -1, 0}
		target = pos.Add(dir)
	}

	// Avoid an up vector parallel with the view direction
	up := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(dir.Normalize().Y())) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(pos, target, up)
	proj := mgl32.Perspective(fov, 1, near, far)
	return proj.Mul4(view)
}
