package mesh

import (
	"math"
	"math/rand"
)

// SamplePoints draws n points uniformly from the surface of m. If m has no
// triangles, it is treated as a bare point cloud and its vertices are
// returned directly (matching the reference core's mesh_from_np/sample_pcd
// convention), cycling if n exceeds len(m.Verts).
func SamplePoints(m Mesh, n int, rng *rand.Rand) []Vec3 {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if len(m.Tris) == 0 {
		if len(m.Verts) == 0 {
			return nil
		}
		out := make([]Vec3, n)
		for i := range out {
			out[i] = m.Verts[i%len(m.Verts)]
		}
		return out
	}

	areas := make([]float64, len(m.Tris))
	var total float64
	for i, t := range m.Tris {
		a, b, c := m.Verts[t.A], m.Verts[t.B], m.Verts[t.C]
		area := b.Sub(a).Cross(c.Sub(a)).Norm() * 0.5
		areas[i] = area
		total += area
	}
	if total == 0 {
		out := make([]Vec3, n)
		for i := range out {
			out[i] = m.Verts[i%len(m.Verts)]
		}
		return out
	}

	cum := make([]float64, len(areas))
	var running float64
	for i, a := range areas {
		running += a
		cum[i] = running
	}

	out := make([]Vec3, n)
	for i := 0; i < n; i++ {
		target := rng.Float64() * total
		ti := searchCumulative(cum, target)
		t := m.Tris[ti]
		out[i] = sampleTriangle(m.Verts[t.A], m.Verts[t.B], m.Verts[t.C], rng)
	}
	return out
}

// VoxelDownsample partitions ℝ³ into a regular grid of cells with side
// length voxel and emits one point per non-empty cell: the centroid of the
// points that fell into it. This mirrors the reference core's
// VoxelDownSample(voxel) call, used ahead of RANSAC/ICP to bound the number
// of correspondence candidates independently of how densely pts was sampled.
// Order of the returned points is unspecified (driven by map iteration).
func VoxelDownsample(pts []Vec3, voxel float64) []Vec3 {
	if len(pts) == 0 || voxel <= 0 {
		return nil
	}

	type cellKey struct{ i, j, k int }
	type cellAccum struct {
		sum   Vec3
		count int
	}

	cells := make(map[cellKey]*cellAccum)
	for _, p := range pts {
		key := cellKey{
			i: int(math.Floor(p.X / voxel)),
			j: int(math.Floor(p.Y / voxel)),
			k: int(math.Floor(p.Z / voxel)),
		}
		acc := cells[key]
		if acc == nil {
			acc = &cellAccum{}
			cells[key] = acc
		}
		acc.sum = acc.sum.Add(p)
		acc.count++
	}

	out := make([]Vec3, 0, len(cells))
	for _, acc := range cells {
		n := float64(acc.count)
		out = append(out, Vec3{X: acc.sum.X / n, Y: acc.sum.Y / n, Z: acc.sum.Z / n})
	}
	return out
}

func searchCumulative(cum []float64, target float64) int {
	lo, hi := 0, len(cum)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cum[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// sampleTriangle draws a uniformly distributed point inside triangle abc
// using the standard square-root barycentric trick.
func sampleTriangle(a, b, c Vec3, rng *rand.Rand) Vec3 {
	r1 := rng.Float64()
	r2 := rng.Float64()
	sr1 := math.Sqrt(r1)
	u := 1 - sr1
	v := sr1 * (1 - r2)
	w := sr1 * r2
	return Vec3{
		X: u*a.X + v*b.X + w*c.X,
		Y: u*a.Y + v*b.Y + w*c.Y,
		Z: u*a.Z + v*b.Z + w*c.Z,
	}
}
