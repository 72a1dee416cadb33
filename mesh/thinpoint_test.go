package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinClearancePointFindsWorstVertex(t *testing.T) {
	target := cubeMesh(2)
	candidate := cubeMesh(3)
	tp := MinClearancePoint(target, candidate)
	assert.True(t, tp.Found, "expected a thinnest point since the target sits inside the candidate")
	assert.InDelta(t, 1.0, tp.MinClearance, 1e-6) // candidate face at 3, target vertices at 2
	assert.GreaterOrEqual(t, tp.VertexIndex, 0)
	assert.Less(t, tp.VertexIndex, len(target.Verts))
}

func TestMinClearancePointNotFoundWhenOutside(t *testing.T) {
	target := cubeMeshAt(Vec3{100, 100, 100}, 1)
	candidate := cubeMesh(1)
	tp := MinClearancePoint(target, candidate)
	assert.False(t, tp.Found, "expected no thinnest point when target lies entirely outside candidate")
}
