// Package renderer draws the ground plane and the loaded model with
// ambient and spot lighting and spot light shadows.
package renderer

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ridedemo/internal/engine/lighting"
	"github.com/Faultbox/ridedemo/internal/engine/model"
	"github.com/Faultbox/ridedemo/internal/engine/renderer/shaders"
	"github.com/Faultbox/ridedemo/internal/engine/shader"
	"github.com/Faultbox/ridedemo/internal/engine/shadow"
	"github.com/Faultbox/ridedemo/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	Shadows       bool
	ShadowMapSize int32
	GroundSize    float32
	GroundColor   uint32
	Multisample   bool
}

// Frame is everything needed to draw one frame.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Ambient    *lighting.AmbientLight
	Spot       *lighting.SpotLight
	Actor      mgl32.Mat4 // Placement of the uploaded model
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	sceneProg *shader.Program
	depthProg *shader.Program
	shadowMap *shadow.Map

	ground       *gpuPrimitive
	groundMatrix mgl32.Mat4

	model  *model.Model
	meshes [][]*gpuPrimitive // Indexed like model.Meshes
	joints []mgl32.Mat4
	drawn  []int
}

// gpuPrimitive is an uploaded indexed triangle list.
type gpuPrimitive struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	baseColor  [4]float32
	skinned    bool
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
		joints: make([]mgl32.Mat4, 0, model.MaxJoints),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0, 0, 0, 1)
	if cfg.Multisample {
		gl.Enable(gl.MULTISAMPLE)
	}

	var err error
	r.sceneProg, err = shader.New("scene", shaders.SceneVertexShader, shaders.SceneFragmentShader)
	if err != nil {
		return nil, err
	}
	r.depthProg, err = shader.New("depth", shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		r.sceneProg.Delete()
		return nil, err
	}

	if cfg.Shadows {
		r.shadowMap, err = shadow.NewMap(cfg.ShadowMapSize)
		if err != nil {
			// Shadows are cosmetic; keep rendering without them
			r.log.Warn("shadows disabled", zap.Error(err))
		}
	}

	ground := groundPrimitive(cfg.GroundSize, cfg.GroundColor)
	r.ground = upload(&ground)
	r.groundMatrix = mgl32.HomogRotate3DX(-math.Pi / 2)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.releaseModel()
	if r.ground != nil {
		r.ground.release()
		r.ground = nil
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	if r.sceneProg != nil {
		r.sceneProg.Delete()
	}
	if r.depthProg != nil {
		r.depthProg.Delete()
	}
}

// Resize sets the drawing surface size.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetSize is Resize under the name used by surfaces.
func (r *Renderer) SetSize(width, height int) {
	r.Resize(width, height)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// ShadowsActive reports whether a shadow map is available.
func (r *Renderer) ShadowsActive() bool {
	return r.shadowMap.IsValid()
}

// UploadModel sends every mesh primitive of m to the GPU, replacing any
// previously uploaded model.
func (r *Renderer) UploadModel(m *model.Model) {
	r.releaseModel()

	r.model = m
	r.meshes = make([][]*gpuPrimitive, len(m.Meshes))
	prims := 0
	for i := range m.Meshes {
		for j := range m.Meshes[i].Primitives {
			p := &m.Meshes[i].Primitives[j]
			if len(p.Vertices) == 0 || len(p.Indices) == 0 {
				continue
			}
			r.meshes[i] = append(r.meshes[i], upload(p))
			prims++
		}
	}

	r.log.Info("model uploaded",
		zap.String("path", m.Path),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("primitives", prims),
	)
}

func (r *Renderer) releaseModel() {
	for _, mesh := range r.meshes {
		for _, p := range mesh {
			p.release()
		}
	}
	r.meshes = nil
	r.model = nil
}

// Render draws the shadow pass, then the lit scene.
func (r *Renderer) Render(f Frame) {
	lightVP := shadow.SpotLightMatrix(f.Spot)
	shadows := r.shadowMap.IsValid() && f.Spot.Shadow.Enabled

	if shadows {
		r.depthPass(f, lightVP)
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.sceneProg
	p.Use()
	p.SetMat4("uView", f.View)
	p.SetMat4("uProjection", f.Projection)
	p.SetMat4("uLightViewProj", lightVP)

	p.SetVec3("uAmbient", f.Ambient.Radiance())
	outer, inner := f.Spot.ConeCos()
	p.SetVec3("uSpotColor", f.Spot.Color.Scaled(f.Spot.Intensity))
	p.SetVec3("uSpotPosition", f.Spot.Position)
	p.SetVec3("uSpotDirection", f.Spot.Direction())
	p.SetFloat("uSpotConeOuter", outer)
	p.SetFloat("uSpotConeInner", inner)
	p.SetFloat("uSpotDistance", f.Spot.Distance)
	p.SetFloat("uSpotDecay", f.Spot.Decay)

	p.SetBool("uShadowsEnabled", shadows)
	p.SetInt("uShadowMap", 1)
	if shadows {
		r.shadowMap.BindTexture(gl.TEXTURE1)
		p.SetFloat("uShadowBias", f.Spot.Shadow.Bias)
		p.SetFloat("uShadowTexel", 1/float32(r.shadowMap.Resolution))
	}

	// The ground receives shadows but never casts
	p.SetBool("uSkinned", false)
	p.SetBool("uReceiveShadow", true)
	p.SetMat4("uModel", r.groundMatrix)
	p.SetVec4("uBaseColor", r.ground.baseColor)
	r.ground.draw()

	r.drawModel(p, f.Actor, false)

	gl.BindVertexArray(0)
}

// depthPass renders shadow casters into the shadow map.
func (r *Renderer) depthPass(f Frame, lightVP mgl32.Mat4) {
	r.shadowMap.Bind()
	r.depthProg.Use()
	r.depthProg.SetMat4("uLightViewProj", lightVP)
	r.drawModel(r.depthProg, f.Actor, true)
	r.shadowMap.Unbind()
}

// drawModel draws every mesh node of the uploaded model. With casters set
// only shadow casting meshes are drawn and material uniforms are skipped.
func (r *Renderer) drawModel(p *shader.Program, actor mgl32.Mat4, casters bool) {
	m := r.model
	if m == nil {
		return
	}

	r.drawn = drawList(m, len(r.meshes), casters, r.drawn)
	for _, i := range r.drawn {
		n := &m.Nodes[i]
		mesh := &m.Meshes[n.Mesh]

		// Skinned vertices are placed by their joints, not the mesh node
		world := actor.Mul4(n.World)
		skinned := n.Skin >= 0
		if skinned {
			r.joints = m.JointMatrices(n.Skin, r.joints)
			p.SetMat4Array("uJoints", r.joints)
			world = actor
		}
		p.SetMat4("uModel", world)
		if !casters {
			p.SetBool("uReceiveShadow", mesh.ReceiveShadow)
		}

		for _, gp := range r.meshes[n.Mesh] {
			p.SetBool("uSkinned", skinned && gp.skinned)
			if !casters {
				p.SetVec4("uBaseColor", gp.baseColor)
			}
			gp.draw()
		}
	}
}

// drawList collects the mesh nodes reachable from the scene roots, the same
// set UpdateWorld keeps posed. With casters set only shadow casters are kept.
func drawList(m *model.Model, uploaded int, casters bool, out []int) []int {
	out = out[:0]
	m.Traverse(func(idx int, n *model.Node) {
		if n.Mesh < 0 || n.Mesh >= uploaded {
			return
		}
		if casters && !m.Meshes[n.Mesh].CastShadow {
			return
		}
		out = append(out, idx)
	})
	return out
}

// upload creates the vertex array for a primitive.
func upload(p *model.Primitive) *gpuPrimitive {
	gp := &gpuPrimitive{
		indexCount: int32(len(p.Indices)),
		baseColor:  p.BaseColor,
		skinned:    p.Skinned,
	}

	gl.GenVertexArrays(1, &gp.vao)
	gl.BindVertexArray(gp.vao)

	gl.GenBuffers(1, &gp.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gp.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(p.Vertices)*model.VertexStride, unsafe.Pointer(&p.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexStride, 0)
	// Normal
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, model.VertexStride, 3*4)
	// Weights
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, model.VertexStride, 6*4)
	// Joints
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribIPointerWithOffset(3, 4, gl.UNSIGNED_SHORT, model.VertexStride, 10*4)

	gl.GenBuffers(1, &gp.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gp.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, unsafe.Pointer(&p.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return gp
}

func (gp *gpuPrimitive) draw() {
	gl.BindVertexArray(gp.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, gp.indexCount, gl.UNSIGNED_INT, 0)
}

func (gp *gpuPrimitive) release() {
	if gp.vao != 0 {
		gl.DeleteVertexArrays(1, &gp.vao)
	}
	if gp.vbo != 0 {
		gl.DeleteBuffers(1, &gp.vbo)
	}
	if gp.ebo != 0 {
		gl.DeleteBuffers(1, &gp.ebo)
	}
}
