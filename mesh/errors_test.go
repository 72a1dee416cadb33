package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := errInvalid("voxel", -1.0, "must be positive")
	assert.Equal(t, "voxel=-1: must be positive", err.Error())
}

func TestValidatePositive(t *testing.T) {
	assert.NoError(t, validatePositive("x", 1))
	assert.Error(t, validatePositive("x", 0))
	assert.Error(t, validatePositive("x", -1))
}

func TestValidateNonNegative(t *testing.T) {
	assert.NoError(t, validateNonNegative("x", 0))
	assert.Error(t, validateNonNegative("x", -0.1))
}

func TestValidateMeshRejectsEmptyAndOutOfRange(t *testing.T) {
	assert.Error(t, validateMesh("m", Mesh{}))

	m := Mesh{Verts: []Vec3{{0, 0, 0}, {1, 0, 0}}, Tris: []Tri{{A: 0, B: 1, C: 5}}}
	assert.Error(t, validateMesh("m", m))
}

func TestValidateMeshAcceptsBarePointCloud(t *testing.T) {
	m := Mesh{Verts: []Vec3{{0, 0, 0}, {1, 0, 0}}}
	assert.NoError(t, validateMesh("m", m))
}
