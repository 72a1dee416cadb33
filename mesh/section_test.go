package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeshSectionCubeThroughCenter(t *testing.T) {
	cube := cubeMesh(1)
	result := MeshSection(cube.Verts, cube.Tris, Vec3{0, 0, 0}, Vec3{1, 0, 0})
	assert.NotEmpty(t, result.Segments, "expected the plane x=0 to cut the cube in at least one segment")
	for _, seg := range result.Segments {
		assert.InDelta(t, 0, seg.A.X, 1e-9)
		assert.InDelta(t, 0, seg.B.X, 1e-9)
	}
}

func TestMeshSectionMissesEntirely(t *testing.T) {
	cube := cubeMesh(1)
	result := MeshSection(cube.Verts, cube.Tris, Vec3{10, 0, 0}, Vec3{1, 0, 0})
	assert.Empty(t, result.Segments)
}
