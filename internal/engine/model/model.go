package model

import "github.com/go-gl/mathgl/mgl32"

// Traverse visits every node depth-first from the roots.
func (m *Model) Traverse(fn func(idx int, n *Node)) {
	var walk func(idx int)
	walk = func(idx int) {
		fn(idx, &m.Nodes[idx])
		for _, c := range m.Nodes[idx].Children {
			walk(c)
		}
	}
	for _, r := range m.Roots {
		walk(r)
	}
}

// SetShadows flags every mesh as casting and receiving shadows.
func (m *Model) SetShadows(cast, receive bool) {
	m.Traverse(func(_ int, n *Node) {
		if n.Mesh < 0 {
			return
		}
		m.Meshes[n.Mesh].CastShadow = cast
		m.Meshes[n.Mesh].ReceiveShadow = receive
	})
}

// UpdateWorld recomputes world matrices from the current local transforms.
func (m *Model) UpdateWorld() {
	m.Traverse(func(_ int, n *Node) {
		local := n.Local()
		if n.Parent < 0 {
			n.World = local
			return
		}
		n.World = m.Nodes[n.Parent].World.Mul4(local)
	})
}

// JointMatrices fills out with world(joint) * inverseBind(joint) for a skin.
// out is grown as needed and returned.
func (m *Model) JointMatrices(skin int, out []mgl32.Mat4) []mgl32.Mat4 {
	s := &m.Skins[skin]
	out = out[:0]
	for i, j := range s.Joints {
		out = append(out, m.Nodes[j].World.Mul4(s.InverseBind[i]))
	}
	return out
}
