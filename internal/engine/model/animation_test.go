package model

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b mgl32.Vec4) bool {
	return a.ApproxEqualThreshold(b, 1e-5)
}

func TestChannelSampleLinear(t *testing.T) {
	ch := Channel{
		Path:   PathTranslation,
		Interp: InterpLinear,
		Times:  []float32{0, 1, 3},
		Values: []mgl32.Vec4{{0, 0, 0, 0}, {10, 0, 0, 0}, {10, 20, 0, 0}},
	}

	tests := []struct {
		t    float32
		want mgl32.Vec4
	}{
		{-1, mgl32.Vec4{0, 0, 0, 0}},
		{0, mgl32.Vec4{0, 0, 0, 0}},
		{0.5, mgl32.Vec4{5, 0, 0, 0}},
		{1, mgl32.Vec4{10, 0, 0, 0}},
		{2, mgl32.Vec4{10, 10, 0, 0}},
		{3, mgl32.Vec4{10, 20, 0, 0}},
		{99, mgl32.Vec4{10, 20, 0, 0}},
	}
	for _, tt := range tests {
		if got := ch.Sample(tt.t); !near(got, tt.want) {
			t.Errorf("Sample(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestChannelSampleStep(t *testing.T) {
	ch := Channel{
		Path:   PathScale,
		Interp: InterpStep,
		Times:  []float32{0, 1},
		Values: []mgl32.Vec4{{1, 1, 1, 0}, {2, 2, 2, 0}},
	}
	if got := ch.Sample(0.99); !near(got, mgl32.Vec4{1, 1, 1, 0}) {
		t.Errorf("Sample(0.99) = %v, want previous key", got)
	}
	if got := ch.Sample(1); !near(got, mgl32.Vec4{2, 2, 2, 0}) {
		t.Errorf("Sample(1) = %v, want last key", got)
	}
}

func TestChannelSampleRotationSlerp(t *testing.T) {
	half := float32(math.Sqrt2 / 2)
	ch := Channel{
		Path:   PathRotation,
		Interp: InterpLinear,
		Times:  []float32{0, 1},
		// identity to 90 degrees about Y
		Values: []mgl32.Vec4{{0, 0, 0, 1}, {0, half, 0, half}},
	}

	got := ch.Sample(0.5)
	angle := math.Pi / 4
	want := mgl32.Vec4{0, float32(math.Sin(angle / 2)), 0, float32(math.Cos(angle / 2))}
	if !near(got, want) {
		t.Errorf("Sample(0.5) = %v, want %v", got, want)
	}
}

func TestChannelSampleEmpty(t *testing.T) {
	var ch Channel
	if got := ch.Sample(1); got != (mgl32.Vec4{}) {
		t.Errorf("empty channel should sample zero, got %v", got)
	}
}

func twoNodeModel() *Model {
	m := &Model{
		Nodes: []Node{
			{Name: "root", Parent: -1, Children: []int{1}, Mesh: -1, Skin: -1,
				Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
			{Name: "wheel", Parent: 0, Mesh: 0, Skin: -1,
				Translation: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		},
		Roots:  []int{0},
		Meshes: []Mesh{{Name: "wheel"}},
		Clips: []*Clip{{
			Name:     "roll",
			Duration: 2,
			Channels: []Channel{{
				Node:   0,
				Path:   PathTranslation,
				Interp: InterpLinear,
				Times:  []float32{0, 2},
				Values: []mgl32.Vec4{{0, 0, 0, 0}, {4, 0, 0, 0}},
			}},
		}},
	}
	m.UpdateWorld()
	return m
}

func TestUpdateWorldChainsParents(t *testing.T) {
	m := twoNodeModel()
	m.Nodes[0].Translation = mgl32.Vec3{5, 0, 0}
	m.UpdateWorld()

	p := m.Nodes[1].World.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(p, mgl32.Vec4{5, 1, 0, 1}) {
		t.Errorf("child world origin = %v, want (5, 1, 0)", p)
	}
}

func TestMixerLoopsClip(t *testing.T) {
	m := twoNodeModel()
	mx := NewMixer(m)

	action, err := mx.ClipAction(0)
	if err != nil {
		t.Fatalf("ClipAction: %v", err)
	}

	// Not playing yet: nothing moves
	mx.Update(0.5)
	if m.Nodes[0].Translation != (mgl32.Vec3{}) {
		t.Errorf("stopped action moved the node: %v", m.Nodes[0].Translation)
	}

	action.Play()
	mx.Update(0.5)
	if got := m.Nodes[0].Translation.X(); math.Abs(float64(got-1)) > 1e-5 {
		t.Errorf("after 0.5s x = %f, want 1", got)
	}

	// 0.5 + 2.0 wraps to 0.5 again
	mx.Update(2.0)
	if got := action.Time(); math.Abs(float64(got-0.5)) > 1e-5 {
		t.Errorf("looped time = %f, want 0.5", got)
	}
	if got := m.Nodes[0].Translation.X(); math.Abs(float64(got-1)) > 1e-5 {
		t.Errorf("after loop x = %f, want 1", got)
	}

	// World matrices follow the animated root
	p := m.Nodes[1].World.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(p, mgl32.Vec4{1, 1, 0, 1}) {
		t.Errorf("child world origin = %v, want (1, 1, 0)", p)
	}
	if math.Abs(mx.Time()-3.0) > 1e-9 {
		t.Errorf("mixer time = %f, want 3", mx.Time())
	}
}

func TestMixerFixedStepAccumulates(t *testing.T) {
	m := twoNodeModel()
	mx := NewMixer(m)
	a, _ := mx.ClipAction(0)
	a.Play()

	for i := 0; i < 100; i++ {
		mx.Update(0.01)
	}
	if got := a.Time(); math.Abs(float64(got-1)) > 1e-4 {
		t.Errorf("100 steps of 0.01 = %f, want 1", got)
	}
}

func TestMixerClipActionCached(t *testing.T) {
	mx := NewMixer(twoNodeModel())
	a1, _ := mx.ClipAction(0)
	a2, _ := mx.ClipAction(0)
	if a1 != a2 {
		t.Error("ClipAction should return the same action for the same clip")
	}
	if a1.Clip().Name != "roll" {
		t.Errorf("unexpected clip %q", a1.Clip().Name)
	}
}

func TestMixerClipActionOutOfRange(t *testing.T) {
	mx := NewMixer(twoNodeModel())
	if _, err := mx.ClipAction(1); err == nil {
		t.Error("expected error for missing clip")
	}
	if _, err := mx.ClipAction(-1); err == nil {
		t.Error("expected error for negative clip index")
	}
}

func TestJointMatrices(t *testing.T) {
	m := twoNodeModel()
	m.Skins = []Skin{{
		Joints:      []int{1},
		InverseBind: []mgl32.Mat4{mgl32.Translate3D(0, -1, 0)},
	}}

	mats := m.JointMatrices(0, nil)
	if len(mats) != 1 {
		t.Fatalf("expected 1 joint matrix, got %d", len(mats))
	}
	// Bind pose: world * inverseBind is identity
	if !mats[0].ApproxEqualThreshold(mgl32.Ident4(), 1e-5) {
		t.Errorf("bind pose joint matrix = %v, want identity", mats[0])
	}
}

func TestSetShadows(t *testing.T) {
	m := twoNodeModel()
	m.SetShadows(true, true)
	if !m.Meshes[0].CastShadow || !m.Meshes[0].ReceiveShadow {
		t.Error("expected mesh to cast and receive shadows")
	}
}
