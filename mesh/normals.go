package mesh

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FaceNormal returns the unnormalized (area-weighted) normal of triangle t.
func FaceNormal(verts []Vec3, t Tri) Vec3 {
	a, b, c := verts[t.A], verts[t.B], verts[t.C]
	return b.Sub(a).Cross(c.Sub(a))
}

// VertexNormals estimates a unit normal per vertex of m by averaging the
// area-weighted normals of incident triangles, matching Open3D's default
// vertex-normal-from-triangle-normals behaviour (EstimateNormals on a mesh).
// Normal direction is not globally consistent; see OrientNormalsOutward.
func VertexNormals(m Mesh) []Vec3 {
	acc := make([]Vec3, len(m.Verts))
	for _, t := range m.Tris {
		n := FaceNormal(m.Verts, t)
		acc[t.A] = acc[t.A].Add(n)
		acc[t.B] = acc[t.B].Add(n)
		acc[t.C] = acc[t.C].Add(n)
	}
	out := make([]Vec3, len(acc))
	for i, n := range acc {
		out[i] = n.Unit()
	}
	return out
}

// OrientNormalsOutward flips each vertex normal that points toward the
// mesh's centroid, so normals consistently point away from the solid's
// interior. This assumes the mesh is roughly star-shaped about its centroid,
// sufficient for the blank/last solids this engine operates on.
func OrientNormalsOutward(verts []Vec3, normals []Vec3) []Vec3 {
	centroid := Centroid(verts)
	out := make([]Vec3, len(normals))
	for i, n := range normals {
		d := verts[i].Sub(centroid)
		if d.Dot(n) < 0 {
			out[i] = n.Scale(-1)
		} else {
			out[i] = n
		}
	}
	return out
}

// Centroid returns the mean of verts, or the zero vector if verts is empty.
func Centroid(verts []Vec3) Vec3 {
	if len(verts) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, v := range verts {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(verts)))
}

// NormalsFromNeighborhood estimates a unit normal per point using local PCA:
// the normal is the eigenvector of the smallest eigenvalue of the covariance
// matrix of the neighbours listed for that point in neighborIdx, mirroring Open3D's
// EstimateNormals(KDTreeSearchParamHybrid) used on bare point clouds that
// have no triangle connectivity to derive face normals from.
func NormalsFromNeighborhood(points []Vec3, neighborIdx [][]int) []Vec3 {
	out := make([]Vec3, len(points))
	for i, nbrs := range neighborIdx {
		if len(nbrs) < 3 {
			out[i] = Vec3{0, 0, 1}
			continue
		}
		out[i] = pcaSmallestAxis(points, nbrs)
	}
	return out
}

// pcaSmallestAxis returns the unit eigenvector of the smallest eigenvalue of
// the covariance matrix of points indexed by idx.
func pcaSmallestAxis(points []Vec3, idx []int) Vec3 {
	var mean Vec3
	for _, i := range idx {
		mean = mean.Add(points[i])
	}
	mean = mean.Scale(1 / float64(len(idx)))

	data := mat.NewDense(3, 3, nil)
	for _, i := range idx {
		d := points[i].Sub(mean)
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

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return Vec3{0, 0, 1}
	}
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	minIdx := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[minIdx] {
			minIdx = i
		}
	}
	v := Vec3{vecs.At(0, minIdx), vecs.At(1, minIdx), vecs.At(2, minIdx)}
	return v.Unit()
}

// PseudoNormals computes the angle-weighted vertex pseudo-normals and the
// edge pseudo-normals needed for the Baerentzen-Aanaes signed-distance
// convention used by the SDF oracle (C8): a closest point that lands on a
// vertex or edge of the mesh needs a normal other than that of a single
// adjacent face to classify inside/outside robustly.
type PseudoNormals struct {
	Vertex []Vec3          // per-vertex angle-weighted pseudo-normal
	Edge   map[edge]Vec3   // per-undirected-edge pseudo-normal (sum of the two adjacent face normals)
	Face   []Vec3          // per-triangle unit face normal
}

type edge struct{ lo, hi int }

func makeEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// ComputePseudoNormals builds the pseudo-normal tables for m, deriving every
// normal from the triangle winding, so m must be consistently wound with
// outward-facing triangles.
func ComputePseudoNormals(m Mesh) PseudoNormals {
	pn := PseudoNormals{
		Vertex: make([]Vec3, len(m.Verts)),
		Edge:   make(map[edge]Vec3),
		Face:   make([]Vec3, len(m.Tris)),
	}
	edgeAccum := make(map[edge]Vec3)

	for ti, t := range m.Tris {
		n := FaceNormal(m.Verts, t).Unit()
		pn.Face[ti] = n

		verts := [3]int{t.A, t.B, t.C}
		for k := 0; k < 3; k++ {
			prev := verts[(k+2)%3]
			cur := verts[k]
			next := verts[(k+1)%3]
			v1 := m.Verts[prev].Sub(m.Verts[cur]).Unit()
			v2 := m.Verts[next].Sub(m.Verts[cur]).Unit()
			angle := angleBetween(v1, v2)
			pn.Vertex[cur] = pn.Vertex[cur].Add(n.Scale(angle))
		}

		edges := [3]edge{makeEdge(t.A, t.B), makeEdge(t.B, t.C), makeEdge(t.C, t.A)}
		for _, e := range edges {
			edgeAccum[e] = edgeAccum[e].Add(n)
		}
	}

	for i, v := range pn.Vertex {
		pn.Vertex[i] = v.Unit()
	}
	for e, sum := range edgeAccum {
		pn.Edge[e] = sum.Unit()
	}
	return pn
}

func angleBetween(a, b Vec3) float64 {
	cos := a.Dot(b)
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}
