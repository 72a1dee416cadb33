package mesh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSamplePointsLieOnCubeSurface(t *testing.T) {
	cube := cubeMesh(1)
	pts := SamplePoints(cube, 200, rand.New(rand.NewSource(7)))
	assert.Len(t, pts, 200)
	for _, p := range pts {
		onFace := math.Abs(math.Abs(p.X)-1) < 1e-9 || math.Abs(math.Abs(p.Y)-1) < 1e-9 || math.Abs(math.Abs(p.Z)-1) < 1e-9
		assert.True(t, onFace, "expected sampled point to lie on a cube face, got %+v", p)
	}
}

func TestSamplePointsBarePointCloudCycles(t *testing.T) {
	cloud := Mesh{Verts: []Vec3{{0, 0, 0}, {1, 1, 1}}}
	pts := SamplePoints(cloud, 5, rand.New(rand.NewSource(1)))
	assert.Len(t, pts, 5)
	for i, p := range pts {
		assert.Equal(t, cloud.Verts[i%2], p)
	}
}

func TestSamplePointsEmptyMesh(t *testing.T) {
	pts := SamplePoints(Mesh{}, 10, rand.New(rand.NewSource(1)))
	assert.Nil(t, pts)
}

func TestVoxelDownsampleMergesPointsInSameCell(t *testing.T) {
	pts := []Vec3{
		{0, 0, 0},
		{0.1, 0, 0},
		{5, 5, 5},
	}
	out := VoxelDownsample(pts, 1.0)
	assert.Len(t, out, 2, "the two nearby points should merge into one cell")

	var sawOrigin, sawFar bool
	for _, p := range out {
		if p.Sub(Vec3{0.05, 0, 0}).Norm() < 1e-9 {
			sawOrigin = true
		}
		if p == (Vec3{5, 5, 5}) {
			sawFar = true
		}
	}
	assert.True(t, sawOrigin, "expected the centroid of the two nearby points")
	assert.True(t, sawFar, "expected the lone far point unchanged")
}

func TestVoxelDownsampleRejectsEmptyOrInvalidVoxel(t *testing.T) {
	assert.Nil(t, VoxelDownsample(nil, 1.0))
	assert.Nil(t, VoxelDownsample([]Vec3{{0, 0, 0}}, 0))
	assert.Nil(t, VoxelDownsample([]Vec3{{0, 0, 0}}, -1))
}
