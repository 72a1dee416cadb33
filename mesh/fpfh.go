package mesh

import "math"

// fpfhBins is the per-angle histogram resolution used by the reference
// core's ComputeFPFHFeature (11 bins per angle, 3 angles => 33 dims).
const fpfhBins = 11

// ComputeFPFH computes the Fast Point Feature Histogram descriptor of every
// point in pts given its unit normal and a neighbor index list (typically a
// fixed-radius or k-NN search), following Rusu et al.: first the Simplified
// PFH (SPFH) of each point from its own neighborhood, then the FPFH as the
// point's own SPFH plus a distance-weighted sum of its neighbors' SPFH.
func ComputeFPFH(pts []Vec3, normals []Vec3, neighborIdx [][]int) [][]float64 {
	spfh := make([][]float64, len(pts))
	for i := range pts {
		spfh[i] = computeSPFH(pts, normals, i, neighborIdx[i])
	}

	fpfh := make([][]float64, len(pts))
	for i := range pts {
		out := make([]float64, 3*fpfhBins)
		copy(out, spfh[i])
		nbrs := neighborIdx[i]
		if len(nbrs) > 0 {
			weighted := make([]float64, 3*fpfhBins)
			for _, j := range nbrs {
				d := pts[i].Sub(pts[j]).Norm()
				if d == 0 {
					continue
				}
				w := 1 / d
				for k := range weighted {
					weighted[k] += spfh[j][k] * w
				}
			}
			invK := 1 / float64(len(nbrs))
			for k := range out {
				out[k] += weighted[k] * invK
			}
		}
		fpfh[i] = out
	}
	return fpfh
}

// computeSPFH computes the 33-dim Simplified Point Feature Histogram for
// point i from the Darboux-frame angles (alpha, phi, theta) between its
// normal and each neighbor's normal/offset.
func computeSPFH(pts, normals []Vec3, i int, nbrs []int) []float64 {
	hist := make([]float64, 3*fpfhBins)
	if len(nbrs) == 0 {
		return hist
	}
	p1 := pts[i]
	n1 := normals[i]
	for _, j := range nbrs {
		if j == i {
			continue
		}
		p2 := pts[j]
		n2 := normals[j]

		d := p2.Sub(p1)
		dist := d.Norm()
		if dist == 0 {
			continue
		}
		u := n1
		v := u.Cross(d.Unit())
		w := u.Cross(v)

		alpha := v.Dot(n2)
		phi := u.Dot(d) / dist
		theta := math.Atan2(w.Dot(n2), u.Dot(n2))

		addToBin(hist, 0, alpha, -1, 1)
		addToBin(hist, 1, phi, -1, 1)
		addToBin(hist, 2, theta, -math.Pi, math.Pi)
	}
	total := float64(len(nbrs))
	if total > 0 {
		for k := range hist {
			hist[k] /= total
		}
	}
	return hist
}

func addToBin(hist []float64, group int, value, lo, hi float64) {
	if value < lo {
		value = lo
	}
	if value > hi {
		value = hi
	}
	frac := (value - lo) / (hi - lo)
	bin := int(frac * float64(fpfhBins))
	if bin >= fpfhBins {
		bin = fpfhBins - 1
	}
	if bin < 0 {
		bin = 0
	}
	hist[group*fpfhBins+bin]++
}
