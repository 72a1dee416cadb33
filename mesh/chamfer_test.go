package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChamferDistanceZeroForIdenticalClouds(t *testing.T) {
	pts := cubeMesh(1).Verts
	d := ChamferDistance(pts, pts)
	assert.InDelta(t, 0, d, 1e-9)
}

func TestChamferDistancePositiveForOffsetClouds(t *testing.T) {
	a := cubeMesh(1).Verts
	b := TransformVerts(a, Matrix4{M: [4][4]float64{
		{1, 0, 0, 10},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}})
	d := ChamferDistance(a, b)
	assert.Greater(t, d, 0.0)
}

func TestChamferDistanceSentinelForEmptySet(t *testing.T) {
	d := ChamferDistance(nil, cubeMesh(1).Verts)
	assert.Equal(t, 1e9, d)
}
