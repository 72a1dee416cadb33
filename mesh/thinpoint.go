package mesh

import "math"

// ThinnestPoint is the single worst-clearance location between a target and
// a candidate (C11).
type ThinnestPoint struct {
	Found        bool
	MinClearance float64
	TargetPoint  Vec3
	CandidatePoint Vec3
	VertexIndex  int
}

// MinClearancePoint finds the target vertex with the smallest clearance
// from candidate's surface, following the reference core's
// min_clearance_point: evaluate candidate's signed distance at every target
// vertex (not a sample set, so the result is exact for the mesh's actual
// vertices), keep only vertices with sd<=0 (inside candidate), and return
// the argmin of abs(sd) together with its closest point on candidate.
func MinClearancePoint(target, candidate Mesh) ThinnestPoint {
	sdf := NewSDF(CleanMesh(candidate))
	best := ThinnestPoint{MinClearance: math.Inf(1)}
	for i, v := range target.Verts {
		sd := sdf.SignedDistance(v)
		if sd > 0 {
			continue
		}
		c := math.Abs(sd)
		if c < best.MinClearance {
			closest, _ := nearestSurfacePoint(sdf, v)
			best = ThinnestPoint{
				Found:          true,
				MinClearance:   c,
				TargetPoint:    v,
				CandidatePoint: closest,
				VertexIndex:    i,
			}
		}
	}
	return best
}

// nearestSurfacePoint returns the closest point on the SDF's underlying
// mesh surface to p, and the squared distance to it.
func nearestSurfacePoint(sdf *SDF, p Vec3) (Vec3, float64) {
	if sdf.root == nil {
		return Vec3{}, math.Inf(1)
	}
	state := &sdfSearchState{bestDist2: math.Inf(1)}
	sdf.nearest(sdf.root, p, state)
	if state.leaf == nil {
		return Vec3{}, math.Inf(1)
	}
	closest, _ := closestPointOnTriangle(
		sdf.mesh.Verts[state.leaf.tri.A],
		sdf.mesh.Verts[state.leaf.tri.B],
		sdf.mesh.Verts[state.leaf.tri.C],
		p,
	)
	return closest, state.bestDist2
}
