package renderer

import (
	"github.com/Faultbox/ridedemo/internal/engine/lighting"
	"github.com/Faultbox/ridedemo/internal/engine/model"
)

// groundPrimitive builds a size x size quad in the XY plane facing +Z.
// It is laid flat by rotating -90 degrees about X.
func groundPrimitive(size float32, hex uint32) model.Primitive {
	h := size / 2
	normal := [3]float32{0, 0, 1}
	c := lighting.ColorFromHex(hex)

	return model.Primitive{
		Vertices: []model.Vertex{
			{Position: [3]float32{-h, -h, 0}, Normal: normal},
			{Position: [3]float32{h, -h, 0}, Normal: normal},
			{Position: [3]float32{h, h, 0}, Normal: normal},
			{Position: [3]float32{-h, h, 0}, Normal: normal},
		},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		BaseColor: [4]float32{c.R, c.G, c.B, 1},
	}
}
