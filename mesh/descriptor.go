package mesh

import "math"

const (
	descriptorThetaBins = 8
	descriptorPhiBins   = 16
)

// CoarseDescriptor is a cheap, rotation-sensitive shape summary used to
// prune obviously-incompatible candidates before running full registration:
// bounding-box extents, surface area, enclosed volume, and a coarse
// histogram of face-normal directions.
type CoarseDescriptor struct {
	Extent    Vec3
	Area      float64
	Volume    float64
	Histogram [descriptorThetaBins][descriptorPhiBins]float64
}

// CoarseFeatures computes a CoarseDescriptor for mesh (v,f), following the
// reference core's coarse_features_from_mesh: extents from the AABB,
// area as the sum of triangle areas, volume as the absolute value of the
// sum of signed tetrahedron volumes from the origin (works for any closed,
// consistently-wound mesh regardless of its position relative to the
// origin), and a theta/phi histogram of face normal directions normalized
// to sum to 1 (left all-zero if the mesh has no triangles).
func CoarseFeatures(v []Vec3, f []Tri) CoarseDescriptor {
	box := ComputeAABB(v)
	desc := CoarseDescriptor{Extent: box.Extent()}

	var area float64
	var volume float64
	var histSum float64
	for _, t := range f {
		a, b, c := v[t.A], v[t.B], v[t.C]
		cross := b.Sub(a).Cross(c.Sub(a))
		area += cross.Norm() * 0.5
		volume += a.Dot(b.Cross(c))

		n := cross.Unit()
		if n == (Vec3{}) {
			continue
		}
		theta := math.Acos(clamp(n.Z, -1, 1))
		phi := math.Atan2(n.Y, n.X)
		if phi < 0 {
			phi += 2 * math.Pi
		}
		ti := int(theta / math.Pi * float64(descriptorThetaBins))
		if ti > descriptorThetaBins-1 {
			ti = descriptorThetaBins - 1
		}
		pj := int(phi / (2 * math.Pi) * float64(descriptorPhiBins))
		if pj > descriptorPhiBins-1 {
			pj = descriptorPhiBins - 1
		}
		desc.Histogram[ti][pj]++
		histSum++
	}
	desc.Area = area
	desc.Volume = math.Abs(volume) / 6
	if histSum > 0 {
		for i := range desc.Histogram {
			for j := range desc.Histogram[i] {
				desc.Histogram[i][j] /= histSum
			}
		}
	}
	return desc
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
