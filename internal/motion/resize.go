package motion

// AspectSetter is a camera whose projection depends on the viewport aspect.
type AspectSetter interface {
	SetAspect(aspect float64)
}

// Surface is a render target that follows the window size.
type Surface interface {
	SetSize(width, height int)
}

// Resize updates the camera aspect to width/height and resizes the surface.
// Non-positive sizes (a minimized window) are ignored.
func Resize(cam AspectSetter, surface Surface, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	cam.SetAspect(float64(width) / float64(height))
	surface.SetSize(width, height)
}
