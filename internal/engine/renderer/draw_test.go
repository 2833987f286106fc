package renderer

import (
	"slices"
	"testing"

	"github.com/Faultbox/ridedemo/internal/engine/model"
)

// sceneModel has a mesh node outside the default scene (node 2) that
// UpdateWorld never poses.
func sceneModel() *model.Model {
	return &model.Model{
		Nodes: []model.Node{
			{Name: "body", Parent: -1, Children: []int{1}, Mesh: 0, Skin: -1},
			{Name: "saddle", Parent: 0, Mesh: 1, Skin: -1},
			{Name: "stray", Parent: -1, Mesh: 0, Skin: -1},
			{Name: "hip", Parent: -1, Mesh: -1, Skin: -1},
		},
		Roots: []int{0, 3},
		Meshes: []model.Mesh{
			{Name: "body", CastShadow: true},
			{Name: "saddle"},
		},
	}
}

func TestDrawList(t *testing.T) {
	tests := []struct {
		name     string
		uploaded int
		casters  bool
		want     []int
	}{
		{"lit pass", 2, false, []int{0, 1}},
		{"depth pass keeps casters", 2, true, []int{0}},
		{"meshes not uploaded", 1, false, []int{0}},
		{"nothing uploaded", 0, false, []int{}},
	}

	m := sceneModel()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drawList(m, tt.uploaded, tt.casters, nil)
			if !slices.Equal(got, tt.want) {
				t.Errorf("drawList = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawListSkipsNodesOutsideScene(t *testing.T) {
	m := sceneModel()
	for _, idx := range drawList(m, len(m.Meshes), false, nil) {
		if idx == 2 {
			t.Fatal("node outside the scene roots must not be drawn")
		}
	}
}

func TestDrawListReusesBuffer(t *testing.T) {
	m := sceneModel()
	buf := make([]int, 0, 8)
	buf = drawList(m, 2, false, buf)
	buf = drawList(m, 2, true, buf)
	if len(buf) != 1 || buf[0] != 0 || cap(buf) != 8 {
		t.Errorf("reused buffer = %v (cap %d)", buf, cap(buf))
	}
}
