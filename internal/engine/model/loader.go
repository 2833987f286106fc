package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/ridedemo/internal/logger"
)

// Load errors.
var (
	ErrNoMesh      = errors.New("asset has no triangle mesh")
	ErrNoAnimation = errors.New("asset has no animation clip")
	ErrUnsupported = errors.New("unsupported accessor layout")
)

// LoadError wraps a failure with the asset path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Model *Model
	Err   error
}

// LoadAsync loads path on a separate goroutine. The channel receives exactly
// one Result and is then closed. Cancelling ctx yields ctx.Err().
func LoadAsync(ctx context.Context, path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		m, err := Load(ctx, path)
		if err == nil && ctx.Err() != nil {
			m, err = nil, &LoadError{Path: path, Err: ctx.Err()}
		}
		out <- Result{Model: m, Err: err}
	}()
	return out
}

// Load reads a .gltf or .glb file. The asset must contain at least one
// triangle mesh and one animation clip.
func Load(ctx context.Context, path string) (*Model, error) {
	log := logger.Named("loader")
	start := time.Now()

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	m, err := FromDocument(doc)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m.Path = path

	log.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("skins", len(m.Skins)),
		zap.Int("clips", len(m.Clips)),
		zap.Duration("took", time.Since(start)),
	)
	return m, nil
}

// FromDocument converts a decoded glTF document.
func FromDocument(doc *gltf.Document) (*Model, error) {
	m := &Model{}

	if err := readNodes(doc, m); err != nil {
		return nil, err
	}
	if err := readMeshes(doc, m); err != nil {
		return nil, err
	}
	if len(m.Meshes) == 0 {
		return nil, ErrNoMesh
	}
	if err := readSkins(doc, m); err != nil {
		return nil, err
	}
	if err := readAnimations(doc, m); err != nil {
		return nil, err
	}
	if len(m.Clips) == 0 {
		return nil, ErrNoAnimation
	}

	m.UpdateWorld()
	m.Bounds = computeBounds(m)
	return m, nil
}

func readNodes(doc *gltf.Document, m *Model) error {
	m.Nodes = make([]Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := Node{
			Name:   gn.Name,
			Parent: -1,
			Mesh:   -1,
			Skin:   -1,
		}
		if gn.Mesh != nil {
			n.Mesh = *gn.Mesh
		}
		if gn.Skin != nil {
			n.Skin = *gn.Skin
		}
		n.Children = append(n.Children, gn.Children...)

		t := gn.TranslationOrDefault()
		r := gn.RotationOrDefault()
		s := gn.ScaleOrDefault()
		n.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
		n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
		n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}

		mat := gn.MatrixOrDefault()
		if mat != identity64 {
			n.Fixed = true
			for k := range mat {
				n.Matrix[k] = float32(mat[k])
			}
		}
		m.Nodes[i] = n
	}

	for i := range m.Nodes {
		for _, c := range m.Nodes[i].Children {
			if c < 0 || c >= len(m.Nodes) {
				return fmt.Errorf("node %d: child %d out of range", i, c)
			}
			m.Nodes[c].Parent = i
		}
	}

	// Roots come from the default scene when present
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		m.Roots = append(m.Roots, doc.Scenes[*doc.Scene].Nodes...)
	} else if len(doc.Scenes) > 0 {
		m.Roots = append(m.Roots, doc.Scenes[0].Nodes...)
	} else {
		for i := range m.Nodes {
			if m.Nodes[i].Parent < 0 {
				m.Roots = append(m.Roots, i)
			}
		}
	}
	return nil
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func readMeshes(doc *gltf.Document, m *Model) error {
	m.Meshes = make([]Mesh, len(doc.Meshes))
	for i, gm := range doc.Meshes {
		mesh := Mesh{Name: gm.Name}
		for j, gp := range gm.Primitives {
			if gp.Mode != gltf.PrimitiveTriangles {
				continue
			}
			p, err := readPrimitive(doc, gp)
			if err != nil {
				return fmt.Errorf("mesh %d primitive %d: %w", i, j, err)
			}
			mesh.Primitives = append(mesh.Primitives, p)
		}
		m.Meshes[i] = mesh
	}

	// A model whose meshes are all empty has nothing to draw
	for _, mesh := range m.Meshes {
		if len(mesh.Primitives) > 0 {
			return nil
		}
	}
	m.Meshes = nil
	return nil
}

func readPrimitive(doc *gltf.Document, gp *gltf.Primitive) (Primitive, error) {
	p := Primitive{BaseColor: [4]float32{1, 1, 1, 1}}

	posIdx, ok := gp.Attributes["POSITION"]
	if !ok {
		return p, fmt.Errorf("missing POSITION: %w", ErrUnsupported)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return p, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := gp.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return p, fmt.Errorf("normals: %w", err)
		}
	}

	var joints [][4]uint16
	var weights [][4]float32
	jIdx, hasJoints := gp.Attributes["JOINTS_0"]
	wIdx, hasWeights := gp.Attributes["WEIGHTS_0"]
	if hasJoints && hasWeights {
		if joints, err = modeler.ReadJoints(doc, doc.Accessors[jIdx], nil); err != nil {
			return p, fmt.Errorf("joints: %w", err)
		}
		if weights, err = modeler.ReadWeights(doc, doc.Accessors[wIdx], nil); err != nil {
			return p, fmt.Errorf("weights: %w", err)
		}
		p.Skinned = true
	}

	p.Vertices = make([]Vertex, len(positions))
	for i, pos := range positions {
		v := Vertex{Position: pos}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if p.Skinned && i < len(joints) && i < len(weights) {
			v.Joints = joints[i]
			v.Weights = weights[i]
		}
		p.Vertices[i] = v
	}

	if gp.Indices != nil {
		if p.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*gp.Indices], nil); err != nil {
			return p, fmt.Errorf("indices: %w", err)
		}
	} else {
		p.Indices = make([]uint32, len(positions))
		for i := range p.Indices {
			p.Indices[i] = uint32(i)
		}
	}

	if normals == nil {
		computeNormals(&p)
	}

	if gp.Material != nil && *gp.Material < len(doc.Materials) {
		if pbr := doc.Materials[*gp.Material].PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			c := pbr.BaseColorFactor
			p.BaseColor = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		}
	}
	return p, nil
}

// computeNormals fills flat-accumulated vertex normals for meshes shipped without them.
func computeNormals(p *Primitive) {
	acc := make([]mgl32.Vec3, len(p.Vertices))
	for i := 0; i+2 < len(p.Indices); i += 3 {
		a, b, c := p.Indices[i], p.Indices[i+1], p.Indices[i+2]
		if int(a) >= len(acc) || int(b) >= len(acc) || int(c) >= len(acc) {
			continue
		}
		va := mgl32.Vec3(p.Vertices[a].Position)
		vb := mgl32.Vec3(p.Vertices[b].Position)
		vc := mgl32.Vec3(p.Vertices[c].Position)
		n := vb.Sub(va).Cross(vc.Sub(va))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i := range acc {
		if acc[i].Len() > 0 {
			p.Vertices[i].Normal = acc[i].Normalize()
		} else {
			p.Vertices[i].Normal = [3]float32{0, 1, 0}
		}
	}
}

func readSkins(doc *gltf.Document, m *Model) error {
	for i, gs := range doc.Skins {
		s := Skin{Joints: append([]int(nil), gs.Joints...)}
		if len(s.Joints) > MaxJoints {
			return fmt.Errorf("skin %d: %d joints exceeds %d: %w", i, len(s.Joints), MaxJoints, ErrUnsupported)
		}
		s.InverseBind = make([]mgl32.Mat4, len(s.Joints))
		for k := range s.InverseBind {
			s.InverseBind[k] = mgl32.Ident4()
		}
		if gs.InverseBindMatrices != nil {
			data, err := modeler.ReadAccessor(doc, doc.Accessors[*gs.InverseBindMatrices], nil)
			if err != nil {
				return fmt.Errorf("skin %d inverse bind: %w", i, err)
			}
			mats, ok := data.([][4][4]float32)
			if !ok {
				return fmt.Errorf("skin %d inverse bind %T: %w", i, data, ErrUnsupported)
			}
			// modeler decodes MAT4 as [row][col]; mgl32 is column-major
			for k := 0; k < len(mats) && k < len(s.InverseBind); k++ {
				for col := 0; col < 4; col++ {
					for row := 0; row < 4; row++ {
						s.InverseBind[k][col*4+row] = mats[k][row][col]
					}
				}
			}
		}
		m.Skins = append(m.Skins, s)
	}
	return nil
}

func readAnimations(doc *gltf.Document, m *Model) error {
	for ai, ga := range doc.Animations {
		clip := &Clip{Name: ga.Name}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("clip%d", ai)
		}

		for ci, gc := range ga.Channels {
			if gc.Target.Node == nil {
				continue
			}
			var path Path
			switch gc.Target.Path {
			case gltf.TRSTranslation:
				path = PathTranslation
			case gltf.TRSRotation:
				path = PathRotation
			case gltf.TRSScale:
				path = PathScale
			default:
				// Morph target weights are not played back
				continue
			}
			if node := *gc.Target.Node; node < 0 || node >= len(m.Nodes) {
				return fmt.Errorf("animation %q channel %d: node %d out of range", clip.Name, ci, node)
			}
			if gc.Sampler < 0 || gc.Sampler >= len(ga.Samplers) {
				return fmt.Errorf("animation %q channel %d: sampler %d out of range", clip.Name, ci, gc.Sampler)
			}
			gs := ga.Samplers[gc.Sampler]

			ch := Channel{Node: *gc.Target.Node, Path: path}
			switch gs.Interpolation {
			case gltf.InterpolationStep:
				ch.Interp = InterpStep
			case gltf.InterpolationCubicSpline:
				ch.Interp = InterpCubicSpline
			default:
				ch.Interp = InterpLinear
			}

			times, err := readScalars(doc, gs.Input)
			if err != nil {
				return fmt.Errorf("animation %q channel %d input: %w", clip.Name, ci, err)
			}
			values, err := readVectors(doc, gs.Output)
			if err != nil {
				return fmt.Errorf("animation %q channel %d output: %w", clip.Name, ci, err)
			}
			if ch.Interp == InterpCubicSpline {
				values = splineValues(values)
				// Played back as linear between the spline keys
				ch.Interp = InterpLinear
			}
			if len(values) < len(times) {
				return fmt.Errorf("animation %q channel %d: %d keys but %d values", clip.Name, ci, len(times), len(values))
			}
			ch.Times = times
			ch.Values = values[:len(times)]

			if n := len(times); n > 0 && times[n-1] > clip.Duration {
				clip.Duration = times[n-1]
			}
			clip.Channels = append(clip.Channels, ch)
		}
		m.Clips = append(m.Clips, clip)
	}
	return nil
}

// splineValues keeps the value of each (in-tangent, value, out-tangent) triple.
func splineValues(v []mgl32.Vec4) []mgl32.Vec4 {
	out := make([]mgl32.Vec4, 0, len(v)/3)
	for i := 1; i < len(v); i += 3 {
		out = append(out, v[i])
	}
	return out
}

func readScalars(doc *gltf.Document, acc int) ([]float32, error) {
	data, err := modeler.ReadAccessor(doc, doc.Accessors[acc], nil)
	if err != nil {
		return nil, err
	}
	f, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("%T: %w", data, ErrUnsupported)
	}
	return f, nil
}

func readVectors(doc *gltf.Document, acc int) ([]mgl32.Vec4, error) {
	data, err := modeler.ReadAccessor(doc, doc.Accessors[acc], nil)
	if err != nil {
		return nil, err
	}
	switch d := data.(type) {
	case [][3]float32:
		out := make([]mgl32.Vec4, len(d))
		for i, v := range d {
			out[i] = mgl32.Vec4{v[0], v[1], v[2], 0}
		}
		return out, nil
	case [][4]float32:
		out := make([]mgl32.Vec4, len(d))
		for i, v := range d {
			out[i] = mgl32.Vec4(v)
		}
		return out, nil
	case [][4]int16:
		out := make([]mgl32.Vec4, len(d))
		for i, v := range d {
			for k := range v {
				out[i][k] = max(float32(v[k])/32767, -1)
			}
		}
		return out, nil
	case [][4]int8:
		out := make([]mgl32.Vec4, len(d))
		for i, v := range d {
			for k := range v {
				out[i][k] = max(float32(v[k])/127, -1)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T: %w", data, ErrUnsupported)
	}
}

// computeBounds measures the bind-pose extent of every primitive.
func computeBounds(m *Model) Bounds {
	b := Bounds{
		Min: mgl32.Vec3{math32Max, math32Max, math32Max},
		Max: mgl32.Vec3{-math32Max, -math32Max, -math32Max},
	}
	found := false
	m.Traverse(func(_ int, n *Node) {
		if n.Mesh < 0 || n.Mesh >= len(m.Meshes) {
			return
		}
		for _, p := range m.Meshes[n.Mesh].Primitives {
			for _, v := range p.Vertices {
				w := n.World.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1}).Vec3()
				for k := 0; k < 3; k++ {
					b.Min[k] = min(b.Min[k], w[k])
					b.Max[k] = max(b.Max[k], w[k])
				}
				found = true
			}
		}
	})
	if !found {
		return Bounds{}
	}
	return b
}

const math32Max = 3.4e38
