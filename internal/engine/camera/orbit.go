package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitControls rotates and zooms a camera around a target point.
type OrbitControls struct {
	camera *Perspective
	Target mgl32.Vec3

	// Spherical coordinates relative to Target
	Distance float32
	Pitch    float32 // Elevation above the XZ plane, radians
	Yaw      float32 // Rotation around Y, radians; 0 looks from +Z

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	dragging bool
}

// NewOrbitControls derives the orbit from the camera's current position.
func NewOrbitControls(cam *Perspective, target mgl32.Vec3) *OrbitControls {
	o := &OrbitControls{
		camera:          cam,
		Target:          target,
		MinDistance:     1,
		MaxDistance:     500,
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}

	offset := cam.Position.Sub(target)
	o.Distance = offset.Len()
	if o.Distance > 0 {
		o.Pitch = float32(math.Asin(float64(offset.Y() / o.Distance)))
		o.Yaw = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	}
	o.Update()
	return o
}

// Position returns the camera position implied by the orbit.
func (o *OrbitControls) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(o.Pitch)))
	return mgl32.Vec3{
		o.Target.X() + o.Distance*cp*float32(math.Sin(float64(o.Yaw))),
		o.Target.Y() + o.Distance*float32(math.Sin(float64(o.Pitch))),
		o.Target.Z() + o.Distance*cp*float32(math.Cos(float64(o.Yaw))),
	}
}

// Update writes the orbit into the camera.
func (o *OrbitControls) Update() {
	o.camera.Position = o.Position()
	o.camera.LookAt = o.Target
}

// BeginDrag starts rotating on mouse button press.
func (o *OrbitControls) BeginDrag() {
	o.dragging = true
}

// EndDrag stops rotating.
func (o *OrbitControls) EndDrag() {
	o.dragging = false
}

// HandleDrag rotates by a mouse delta in pixels. Ignored unless dragging.
func (o *OrbitControls) HandleDrag(deltaX, deltaY float32) {
	if !o.dragging {
		return
	}
	o.Yaw -= deltaX * o.DragSensitivity
	o.Pitch += deltaY * o.DragSensitivity
	o.Pitch = clamp(o.Pitch, o.MinPitch, o.MaxPitch)
	o.Update()
}

// HandleZoom moves toward (positive delta) or away from the target.
func (o *OrbitControls) HandleZoom(delta float32) {
	o.Distance -= delta * o.Distance * o.ZoomSensitivity
	o.Distance = clamp(o.Distance, o.MinDistance, o.MaxDistance)
	o.Update()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
