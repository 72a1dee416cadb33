package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateRigidTransformRecoversKnownRotationTranslation(t *testing.T) {
	src := []Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	}
	want := Identity4()
	// 90 degree rotation about Z, plus translation.
	want.M[0][0], want.M[0][1] = 0, -1
	want.M[1][0], want.M[1][1] = 1, 0
	want.M[0][3], want.M[1][3], want.M[2][3] = 5, -2, 3

	dst := TransformVerts(src, want)
	got, err := EstimateRigidTransform(src, dst)
	require.NoError(t, err)

	for i, p := range src {
		gotP := got.Apply(p)
		wantP := want.Apply(p)
		assert.LessOrEqual(t, gotP.Sub(wantP).Norm(), 1e-6, "point %d", i)
	}
}

func TestEstimateRigidTransformIdentityForCoincidentClouds(t *testing.T) {
	pts := cubeMesh(2).Verts
	got, err := EstimateRigidTransform(pts, pts)
	require.NoError(t, err)
	for _, p := range pts {
		assert.LessOrEqual(t, got.Apply(p).Sub(p).Norm(), 1e-6)
	}
}

func TestEstimateRigidTransformRejectsLengthMismatch(t *testing.T) {
	_, err := EstimateRigidTransform([]Vec3{{0, 0, 0}}, []Vec3{{0, 0, 0}, {1, 0, 0}})
	assert.Error(t, err)
}

func TestEstimateWeightedRigidTransformIgnoresZeroWeightOutliers(t *testing.T) {
	src := cubeMesh(1).Verts
	want := Identity4()
	want.M[0][3] = 2
	dst := TransformVerts(src, want)

	// Corrupt one point but give it zero weight.
	dst[0] = dst[0].Add(Vec3{50, 50, 50})
	weights := make([]float64, len(src))
	for i := range weights {
		weights[i] = 1
	}
	weights[0] = 0

	got, err := EstimateWeightedRigidTransform(src, dst, weights)
	require.NoError(t, err)
	for i := 1; i < len(src); i++ {
		assert.LessOrEqual(t, got.Apply(src[i]).Sub(want.Apply(src[i])).Norm(), 1e-6, "point %d", i)
	}
}
