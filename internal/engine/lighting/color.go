// Package lighting provides the ambient and spot lights of the scene.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGB color with float components (0.0 to 1.0).
type Color struct {
	R, G, B float32
}

// White is full-intensity white.
var White = Color{1, 1, 1}

// ColorFromHex converts a 0xRRGGBB sRGB value to linear RGB.
// Bits above 24 are ignored.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: SRGBToLinear(float32((hex>>16)&0xff) / 255.0),
		G: SRGBToLinear(float32((hex>>8)&0xff) / 255.0),
		B: SRGBToLinear(float32(hex&0xff) / 255.0),
	}
}

// Hex returns the color encoded as sRGB and packed as 0xRRGGBB.
func (c Color) Hex() uint32 {
	r := channel(LinearToSRGB(c.R))
	g := channel(LinearToSRGB(c.G))
	b := channel(LinearToSRGB(c.B))
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// SRGBToLinear decodes one sRGB channel in 0..1.
func SRGBToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}

// LinearToSRGB encodes one linear channel in 0..1. It matches the encoding
// in the scene fragment shader.
func LinearToSRGB(v float32) float32 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return float32(1.055*math.Pow(float64(v), 1/2.4) - 0.055)
}

// Scaled returns the color multiplied by an intensity, for shader upload.
func (c Color) Scaled(intensity float32) mgl32.Vec3 {
	return mgl32.Vec3{c.R * intensity, c.G * intensity, c.B * intensity}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Color     Color
	Intensity float32
}

// NewAmbientLight creates an ambient light from a hex color.
func NewAmbientLight(hex uint32, intensity float32) AmbientLight {
	return AmbientLight{Color: ColorFromHex(hex), Intensity: intensity}
}

// Radiance returns color * intensity.
func (a AmbientLight) Radiance() mgl32.Vec3 {
	return a.Color.Scaled(a.Intensity)
}
