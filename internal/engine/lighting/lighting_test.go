package lighting

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex  uint32
		want Color
	}{
		{0xffffff, Color{1, 1, 1}},
		{0x000000, Color{0, 0, 0}},
		{0xff0000, Color{1, 0, 0}},
		{0x00ff00, Color{0, 1, 0}},
		{0x0000ff, Color{0, 0, 1}},
	}
	for _, tt := range tests {
		if got := ColorFromHex(tt.hex); got != tt.want {
			t.Errorf("ColorFromHex(%#06x) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	for _, hex := range []uint32{0xbcbcbc, 0x123456, 0xfedcba, 0x010203} {
		if got := ColorFromHex(hex).Hex(); got != hex {
			t.Errorf("round trip %#06x -> %#06x", hex, got)
		}
	}
}

func TestColorFromHexDecodesSRGB(t *testing.T) {
	tests := []struct {
		hex  uint32
		want float32
	}{
		{0x808080, 0.2158605},
		{0xbcbcbc, 0.5028865},
		{0x0a0a0a, 0.0030353},
	}
	for _, tt := range tests {
		c := ColorFromHex(tt.hex)
		for i, v := range []float32{c.R, c.G, c.B} {
			if math.Abs(float64(v-tt.want)) > 1e-5 {
				t.Errorf("ColorFromHex(%#06x) channel %d = %f, want %f", tt.hex, i, v, tt.want)
			}
		}
	}

	// Mid grey must come out darker than its raw byte value
	if c := ColorFromHex(0x808080); c.R >= float32(0x80)/255 {
		t.Errorf("0x808080 decoded as %f, expected linear value below sRGB", c.R)
	}
}

func TestSRGBRoundTripAllBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		v := float32(b) / 255
		back := LinearToSRGB(SRGBToLinear(v))
		if math.Abs(float64(back-v)) > 0.5/255 {
			t.Errorf("byte %d: %f -> %f", b, v, back)
		}
	}
}

func TestColorFromHexIgnoresHighBits(t *testing.T) {
	if got := ColorFromHex(0xff00ff00); got != ColorFromHex(0x00ff00) {
		t.Errorf("expected high byte to be ignored, got %v", got)
	}
}

func TestAmbientRadiance(t *testing.T) {
	a := NewAmbientLight(0xffffff, 0.5)
	want := mgl32.Vec3{0.5, 0.5, 0.5}
	if got := a.Radiance(); got != want {
		t.Errorf("Radiance() = %v, want %v", got, want)
	}
}

type movingTarget struct{ pos mgl32.Vec3 }

func (m *movingTarget) WorldPosition() mgl32.Vec3 { return m.pos }

func TestSpotLightTarget(t *testing.T) {
	s := NewSpotLight(0xffffff, 0.7)
	s.Position = mgl32.Vec3{2, 12, 2}

	if got := s.TargetPosition(); got != (mgl32.Vec3{}) {
		t.Errorf("default target should be origin, got %v", got)
	}

	m := &movingTarget{pos: mgl32.Vec3{2, 0, 2}}
	s.SetTarget(m)
	dir := s.Direction()
	if !dir.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Direction() = %v, want straight down", dir)
	}

	// Target is a live reference
	m.pos = mgl32.Vec3{2, 12, 12}
	if dir := s.Direction(); !dir.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Direction() after move = %v, want +Z", dir)
	}

	s.SetTarget(nil)
	if got := s.TargetPosition(); got != (mgl32.Vec3{}) {
		t.Errorf("nil target should aim at origin, got %v", got)
	}
}

func TestSpotLightDegenerateDirection(t *testing.T) {
	s := NewSpotLight(0xffffff, 1)
	if dir := s.Direction(); dir != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("light at its own target should point down, got %v", dir)
	}
}

func TestSpotLightConeCos(t *testing.T) {
	s := NewSpotLight(0xffffff, 1)
	s.Angle = math.Pi / 6
	s.Penumbra = 0.5

	outer, inner := s.ConeCos()
	if math.Abs(float64(outer)-math.Cos(math.Pi/6)) > 1e-6 {
		t.Errorf("outer = %f, want cos(pi/6)", outer)
	}
	if math.Abs(float64(inner)-math.Cos(math.Pi/12)) > 1e-6 {
		t.Errorf("inner = %f, want cos(pi/12)", inner)
	}
	if inner <= outer {
		t.Error("inner cone cosine must exceed outer")
	}
}

func TestSpotLightSetHex(t *testing.T) {
	s := NewSpotLight(0xffffff, 1)
	s.SetHex(0x336699)
	if s.Color.Hex() != 0x336699 {
		t.Errorf("expected color 0x336699, got %#06x", s.Color.Hex())
	}
}
