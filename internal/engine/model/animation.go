package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Path is the node property a channel animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Interpolation is how a channel blends between keyframes.
type Interpolation int

const (
	InterpLinear Interpolation = iota
	InterpStep
	InterpCubicSpline
)

// Channel animates one property of one node. Values holds one entry per key;
// vec3 paths leave the fourth component zero, rotations are (x, y, z, w).
type Channel struct {
	Node   int
	Path   Path
	Interp Interpolation
	Times  []float32
	Values []mgl32.Vec4
}

// Clip is a named set of channels.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// ErrClipIndex is returned for a clip index the model does not have.
var ErrClipIndex = errors.New("clip index out of range")

// Sample returns the channel value at time t, clamped to the key range.
func (c *Channel) Sample(t float32) mgl32.Vec4 {
	n := len(c.Times)
	if n == 0 {
		return mgl32.Vec4{}
	}
	if n == 1 || t <= c.Times[0] {
		return c.Values[0]
	}
	if t >= c.Times[n-1] {
		return c.Values[n-1]
	}

	// Index of the first key after t
	next := sort.Search(n, func(i int) bool { return c.Times[i] > t })
	prev := next - 1

	if c.Interp == InterpStep {
		return c.Values[prev]
	}

	span := c.Times[next] - c.Times[prev]
	f := float32(0)
	if span > 0 {
		f = (t - c.Times[prev]) / span
	}

	a, b := c.Values[prev], c.Values[next]
	if c.Path == PathRotation {
		qa := mgl32.Quat{W: a[3], V: a.Vec3()}
		qb := mgl32.Quat{W: b[3], V: b.Vec3()}
		// Take the short way around
		if qa.Dot(qb) < 0 {
			qb = qb.Scale(-1)
		}
		q := mgl32.QuatSlerp(qa, qb, f).Normalize()
		return mgl32.Vec4{q.V[0], q.V[1], q.V[2], q.W}
	}
	return a.Add(b.Sub(a).Mul(f))
}

// apply writes the sampled value into the node's TRS.
func (c *Channel) apply(n *Node, t float32) {
	v := c.Sample(t)
	switch c.Path {
	case PathTranslation:
		n.Translation = v.Vec3()
	case PathRotation:
		n.Rotation = mgl32.Quat{W: v[3], V: v.Vec3()}
	case PathScale:
		n.Scale = v.Vec3()
	}
}

// Action is a playing instance of a clip.
type Action struct {
	clip    *Clip
	time    float32
	playing bool
}

// Play starts the action from its current time.
func (a *Action) Play() *Action {
	a.playing = true
	return a
}

// IsRunning reports whether the action advances on Update.
func (a *Action) IsRunning() bool {
	return a.playing
}

// Time returns the local clip time in seconds.
func (a *Action) Time() float32 {
	return a.time
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip {
	return a.clip
}

// advance moves the clip time forward, looping forever.
func (a *Action) advance(dt float64) {
	d := float64(a.clip.Duration)
	if d <= 0 {
		a.time = 0
		return
	}
	t := math.Mod(float64(a.time)+dt, d)
	if t < 0 {
		t += d
	}
	a.time = float32(t)
}

// Mixer drives the animation of one model.
type Mixer struct {
	model   *Model
	actions map[*Clip]*Action
	order   []*Action
	time    float64
}

// NewMixer creates a mixer bound to a model.
func NewMixer(m *Model) *Mixer {
	return &Mixer{
		model:   m,
		actions: make(map[*Clip]*Action),
	}
}

// ClipAction returns the action for clip index i, creating it on first use.
func (mx *Mixer) ClipAction(i int) (*Action, error) {
	if i < 0 || i >= len(mx.model.Clips) {
		return nil, fmt.Errorf("%w: %d of %d", ErrClipIndex, i, len(mx.model.Clips))
	}
	clip := mx.model.Clips[i]
	if a, ok := mx.actions[clip]; ok {
		return a, nil
	}
	a := &Action{clip: clip}
	mx.actions[clip] = a
	mx.order = append(mx.order, a)
	return a, nil
}

// Time returns the total seconds the mixer has been advanced.
func (mx *Mixer) Time() float64 {
	return mx.time
}

// Update advances every running action by dt seconds and re-poses the model.
func (mx *Mixer) Update(dt float64) {
	mx.time += dt
	for _, a := range mx.order {
		if !a.playing {
			continue
		}
		a.advance(dt)
		for i := range a.clip.Channels {
			ch := &a.clip.Channels[i]
			ch.apply(&mx.model.Nodes[ch.Node], a.time)
		}
	}
	mx.model.UpdateWorld()
}
