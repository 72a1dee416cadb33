package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignICPRejectsInvalidVoxel(t *testing.T) {
	src := cubeMesh(1)
	tgt := cubeMesh(1)
	_, err := AlignICP(src, tgt, 0, 1.5, 0.9)
	assert.Error(t, err)
}

func TestAlignICPWithMirrorPrefersDirectOnTie(t *testing.T) {
	src := cubeMesh(2)
	tgt := cubeMesh(2)
	result, err := AlignICPWithMirror(src, tgt, 0.3, 1.5, 0.9)
	require.NoError(t, err)
	assert.False(t, result.Mirrored, "expected the non-mirrored variant to win a tie (strict less-than rule)")
	assert.LessOrEqual(t, result.Chamfer, 0.5)
}

// scaleneTetrahedron returns a generic (no two edges equal) tetrahedron.
// Scalene tetrahedra are chiral: no rotation/translation maps one onto its
// YZ-mirror image, only reflection does — which makes this a minimal test
// case for the mirror-selection branch of AlignICPWithMirror.
func scaleneTetrahedron() Mesh {
	v := []Vec3{
		{0, 0, 0},
		{4, 0, 0},
		{1, 3, 0},
		{1, 1, 5},
	}
	tris := []Tri{
		{0, 1, 2},
		{0, 1, 3},
		{0, 2, 3},
		{1, 2, 3},
	}
	return Mesh{Verts: v, Tris: tris}
}

func TestAlignICPWithMirrorDetectsChiralMatch(t *testing.T) {
	tgt := scaleneTetrahedron()
	src := Mesh{Verts: TransformVerts(tgt.Verts, YZMirror()), Tris: tgt.Tris}

	direct, err := AlignICP(src, tgt, 0.5, 3.0, 2.0)
	require.NoError(t, err)

	result, err := AlignICPWithMirror(src, tgt, 0.5, 3.0, 2.0)
	require.NoError(t, err)

	assert.True(t, result.Mirrored, "a chiral target/candidate pair should require the mirrored variant")
	assert.Less(t, result.Chamfer, direct.Chamfer, "the mirrored attempt should beat the non-mirrored attempt")
}

func TestAlignICPMultiStartPicksBestPreset(t *testing.T) {
	src := cubeMesh(2)
	tgt := cubeMesh(2)
	result, err := AlignICPMultiStart(src, tgt, 0.3, 1.5, 0.9)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Chamfer, 0.0)
}
