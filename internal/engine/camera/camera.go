// Package camera provides the perspective camera and its orbit controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective is a pinhole camera looking at a point.
type Perspective struct {
	FOV      float64 // Vertical field of view in degrees
	Aspect   float64 // Width / height
	Near     float64
	Far      float64
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float64) *Perspective {
	return &Perspective{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		LookAt: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
	}
}

// SetAspect updates the aspect ratio used by Projection.
func (c *Perspective) SetAspect(aspect float64) {
	c.Aspect = aspect
}

// Projection returns the projection matrix for the current aspect.
func (c *Perspective) Projection() mgl32.Mat4 {
	return mgl32.Perspective(
		mgl32.DegToRad(float32(c.FOV)),
		float32(c.Aspect),
		float32(c.Near),
		float32(c.Far),
	)
}

// View returns the view matrix.
func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.LookAt, c.Up)
}
