// Package model loads skinned glTF models and plays back their animation clips.
package model

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one GPU vertex of a skinned primitive.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Weights  [4]float32
	Joints   [4]uint16
}

// VertexStride is the size of Vertex in bytes.
const VertexStride = 4*3 + 4*3 + 4*4 + 2*4

// MaxJoints is the joint palette size supported by the skinning shader.
const MaxJoints = 128

// Primitive is an indexed triangle list with a single material color.
type Primitive struct {
	Vertices  []Vertex
	Indices   []uint32
	BaseColor [4]float32
	Skinned   bool
}

// Mesh groups primitives drawn with the same node transform.
type Mesh struct {
	Name          string
	Primitives    []Primitive
	CastShadow    bool
	ReceiveShadow bool
}

// Node is a transform in the scene hierarchy.
type Node struct {
	Name     string
	Parent   int // -1 for roots
	Children []int
	Mesh     int // -1 when the node carries no mesh
	Skin     int // -1 when the mesh is not skinned

	// Rest pose, animated in place by the mixer
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	// Fixed is set when the asset gives a matrix instead of TRS.
	Fixed  bool
	Matrix mgl32.Mat4

	World mgl32.Mat4
}

// Local returns the node's local transform.
func (n *Node) Local() mgl32.Mat4 {
	if n.Fixed {
		return n.Matrix
	}
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(n.Rotation.Mat4()).Mul4(s)
}

// Skin binds mesh vertices to joint nodes.
type Skin struct {
	Joints      []int
	InverseBind []mgl32.Mat4
}

// Bounds is an axis-aligned bounding box in model space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Model is a loaded asset: node hierarchy, meshes, skins and clips.
type Model struct {
	Path   string
	Nodes  []Node
	Roots  []int
	Meshes []Mesh
	Skins  []Skin
	Clips  []*Clip
	Bounds Bounds
}
