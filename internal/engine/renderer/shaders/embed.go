// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SceneVertexShader transforms and skins lit geometry.
//
//go:embed scene.vert
var SceneVertexShader string

// SceneFragmentShader shades with ambient and spot light plus shadow lookup.
//
//go:embed scene.frag
var SceneFragmentShader string

// DepthVertexShader transforms shadow casters into light space.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string
