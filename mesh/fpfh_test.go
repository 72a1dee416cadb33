package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFPFHDimensionsAndNoNeighbors(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	normals := []Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	neighbors := [][]int{{1, 2}, {0, 2}, {}}

	fpfh := ComputeFPFH(pts, normals, neighbors)
	assert.Len(t, fpfh, 3)
	for i, d := range fpfh {
		assert.Len(t, d, 3*fpfhBins, "descriptor %d", i)
	}
	for _, v := range fpfh[2] {
		assert.Equal(t, 0.0, v, "expected an all-zero descriptor for a point with no neighbors")
	}
}

func TestComputeFPFHIdenticalNeighborhoodsMatch(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	normals := []Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	neighbors := [][]int{
		{1, 2, 3},
		{0, 2, 3},
		{0, 1, 3},
		{0, 1, 2},
	}
	a := ComputeFPFH(pts, normals, neighbors)
	b := ComputeFPFH(pts, normals, neighbors)
	assert.Equal(t, a, b, "expected deterministic FPFH output")
}
