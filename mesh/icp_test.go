package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunICPRefinesSmallTranslation(t *testing.T) {
	cube := cubeMesh(2)
	src := cube.Verts
	translation := Matrix4{M: [4][4]float64{
		{1, 0, 0, 0.2},
		{0, 1, 0, 0.1},
		{0, 0, 1, -0.15},
		{0, 0, 0, 1},
	}}
	tgt := TransformVerts(src, translation)
	tgtNormals := OrientNormalsOutward(tgt, VertexNormals(Mesh{Verts: tgt, Tris: cube.Tris}))
	tgtTree := NewPointTree(tgt)

	cfg := DefaultICPConfig(5.0)
	result := RunICP(src, tgt, tgtNormals, tgtTree, Identity4(), cfg)

	aligned := TransformVerts(src, result.Transform)
	for i, p := range aligned {
		assert.LessOrEqual(t, p.Sub(tgt[i]).Norm(), 0.05, "vertex %d should align closely", i)
	}
}

func TestRunICPStopsWhenNoCorrespondences(t *testing.T) {
	src := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0, 0, 1}, {1, 0, 1}}
	tgt := []Vec3{{1000, 1000, 1000}}
	tgtNormals := []Vec3{{0, 0, 1}}
	tgtTree := NewPointTree(tgt)
	cfg := DefaultICPConfig(0.1)
	result := RunICP(src, tgt, tgtNormals, tgtTree, Identity4(), cfg)
	assert.LessOrEqual(t, result.Iterations, 1)
}
