package mesh

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ThinRegion is a connected cluster of target vertices where the candidate's
// clearance drops below a threshold (C12), with a skeleton (two endpoints
// along the cluster's dominant axis) and, once labeled, an anatomical name.
type ThinRegion struct {
	MinClearance float64
	Centroid     Vec3
	EndpointA    Vec3
	EndpointB    Vec3
	VertexIdx    []int
	Label        string // "toe/medial", "toe/lateral", "heel/medial", "heel/lateral" once labeled
}

// ThinRegions finds clusters of target vertices thinner than thrMM,
// following the reference core's thin_regions: select target vertices
// where the candidate's signed distance is <=0 and abs(sd)<thrMM, then
// greedily cluster them by a fixed radius (the reference core's own
// comment calls this a "simple greedy" approach and notes it could be
// replaced with a KD-tree; this engine keeps the same greedy algorithm for
// behavioral fidelity, comparing candidate points against cluster members
// by brute force with no spatial index). Each cluster's skeleton
// endpoints are the extreme projections of its points onto the dominant PCA
// axis of the cluster.
func ThinRegions(target, candidate Mesh, thrMM, radiusMM float64) []ThinRegion {
	sdf := NewSDF(CleanMesh(candidate))

	var thin []thinVert
	for i, v := range target.Verts {
		sd := sdf.SignedDistance(v)
		if sd <= 0 && -sd < thrMM {
			thin = append(thin, thinVert{idx: i, clear: -sd})
		}
	}
	if len(thin) == 0 {
		return nil
	}

	assigned := make([]bool, len(thin))
	var regions []ThinRegion
	r2 := radiusMM * radiusMM

	for i := range thin {
		if assigned[i] {
			continue
		}
		cluster := []int{i}
		assigned[i] = true
		// Fixpoint growth: repeatedly sweep for any unassigned point within
		// radiusMM of any point already in the cluster, until no more join.
		for {
			grew := false
			for j := range thin {
				if assigned[j] {
					continue
				}
				pj := target.Verts[thin[j].idx]
				for _, ci := range cluster {
					pc := target.Verts[thin[ci].idx]
					if pj.Sub(pc).Dot(pj.Sub(pc)) <= r2 {
						cluster = append(cluster, j)
						assigned[j] = true
						grew = true
						break
					}
				}
			}
			if !grew {
				break
			}
		}

		regions = append(regions, buildThinRegion(target.Verts, thin, cluster))
	}

	return regions
}

type thinVert struct {
	idx   int
	clear float64
}

func buildThinRegion(verts []Vec3, thin []thinVert, cluster []int) ThinRegion {
	idxList := make([]int, len(cluster))
	points := make([]Vec3, len(cluster))
	minClear := math.Inf(1)
	for i, ci := range cluster {
		idxList[i] = thin[ci].idx
		points[i] = verts[thin[ci].idx]
		if thin[ci].clear < minClear {
			minClear = thin[ci].clear
		}
	}
	centroid := Centroid(points)
	axis := dominantAxis(points, centroid)

	sort.Slice(idxList, func(a, b int) bool { return idxList[a] < idxList[b] })

	minProj, maxProj := math.Inf(1), math.Inf(-1)
	var pA, pB Vec3
	for _, p := range points {
		proj := p.Sub(centroid).Dot(axis)
		if proj < minProj {
			minProj = proj
			pA = p
		}
		if proj > maxProj {
			maxProj = proj
			pB = p
		}
	}

	return ThinRegion{
		MinClearance: minClear,
		Centroid:     centroid,
		EndpointA:    pA,
		EndpointB:    pB,
		VertexIdx:    idxList,
	}
}

// dominantAxis returns the unit eigenvector of the largest eigenvalue of the
// covariance of points about centroid.
func dominantAxis(points []Vec3, centroid Vec3) Vec3 {
	if len(points) < 2 {
		return Vec3{1, 0, 0}
	}
	sym := covarianceMatrix(points, centroid)
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return Vec3{1, 0, 0}
	}
	return eigenvectorForLargest(&eig)
}

// secondAxis returns the unit eigenvector of the second-largest eigenvalue.
func secondAxis(points []Vec3, centroid Vec3) Vec3 {
	if len(points) < 2 {
		return Vec3{0, 1, 0}
	}
	sym := covarianceMatrix(points, centroid)
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return Vec3{0, 1, 0}
	}
	return eigenvectorForRank(&eig, 1)
}

func covarianceMatrix(points []Vec3, centroid Vec3) *mat.SymDense {
	data := mat.NewDense(3, 3, nil)
	for _, p := range points {
		d := p.Sub(centroid)
		dd := [3]float64{d.X, d.Y, d.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				data.Set(r, c, data.At(r, c)+dd[r]*dd[c])
			}
		}
	}
	sym := mat.NewSymDense(3, nil)
	for r := 0; r < 3; r++ {
		for c := r; c < 3; c++ {
			sym.SetSym(r, c, data.At(r, c))
		}
	}
	return sym
}

// eigenvectorForLargest returns the unit eigenvector with the largest eigenvalue.
func eigenvectorForLargest(eig *mat.EigenSym) Vec3 {
	return eigenvectorForRank(eig, 0)
}

// eigenvectorForRank returns the unit eigenvector ranked by descending
// eigenvalue: rank 0 is the largest, rank 1 the second-largest, etc.
func eigenvectorForRank(eig *mat.EigenSym, rank int) Vec3 {
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	col := order[rank]
	v := Vec3{vecs.At(0, col), vecs.At(1, col), vecs.At(2, col)}
	return v.Unit()
}

// LabelRegions assigns an anatomical label to each region based on the
// global PCA of the target's vertices, following the reference core's
// label_regions: the length axis (largest eigenvalue) distinguishes
// toe (positive projection) from heel (negative); the width axis
// (second-largest eigenvalue) distinguishes lateral (positive) from medial
// (negative, including exact ties, since the reference core's own
// comparison is a strict ">"). Returns a new slice; does not mutate regions.
func LabelRegions(targetVerts []Vec3, regions []ThinRegion) []ThinRegion {
	mean := Centroid(targetVerts)
	lengthAxis := dominantAxis(targetVerts, mean)
	widthAxis := secondAxis(targetVerts, mean)

	out := make([]ThinRegion, len(regions))
	for i, r := range regions {
		d := r.Centroid.Sub(mean)
		foreaft := "heel"
		if lengthAxis.Dot(d) > 0 {
			foreaft = "toe"
		}
		side := "medial"
		if widthAxis.Dot(d) > 0 {
			side = "lateral"
		}
		r.Label = foreaft + "/" + side
		out[i] = r
	}
	return out
}
