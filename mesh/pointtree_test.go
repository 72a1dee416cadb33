package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointTreeNearest(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}, {5, 5, 5}}
	tree := NewPointTree(pts)
	idx, dist := tree.Nearest(Vec3{0.1, 0.1, 0.1})
	assert.Equal(t, 0, idx)
	assert.Greater(t, dist, 0.0)
}

func TestPointTreeRadiusSearch(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {100, 0, 0}}
	tree := NewPointTree(pts)
	found := tree.RadiusSearch(Vec3{0, 0, 0}, 1.5)
	assert.Len(t, found, 2)
}

func TestPointTreeKNN(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	tree := NewPointTree(pts)
	nn := tree.KNN(Vec3{0, 0, 0}, 2)
	assert.Len(t, nn, 2)
	assert.Equal(t, 0, nn[0], "expected self as nearest")
}

func TestPointTreeEmpty(t *testing.T) {
	tree := NewPointTree(nil)
	idx, _ := tree.Nearest(Vec3{0, 0, 0})
	assert.Equal(t, -1, idx)
}
