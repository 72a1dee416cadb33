package mesh

import "sort"

// sortedTri returns the triangle with indices sorted ascending, used as a
// degeneracy/duplication key independent of winding order.
func sortedTri(t Tri) Tri {
	idx := []int{t.A, t.B, t.C}
	sort.Ints(idx)
	return Tri{idx[0], idx[1], idx[2]}
}

// CleanMesh removes degenerate triangles (two or more shared vertex
// indices), duplicate triangles (same vertex set regardless of winding),
// duplicate vertices (coincident positions, merged to the first occurrence),
// and vertices left unreferenced by any surviving triangle. It mirrors the
// reference core's mesh_from_np cleanup order: degenerate, then duplicate
// triangles, then duplicate vertices, then unreferenced vertices.
func CleanMesh(m Mesh) Mesh {
	tris := removeDegenerateTriangles(m.Tris)
	if len(tris) > 0 {
		tris = removeDuplicateTriangles(tris)
	}
	verts, tris := removeDuplicateVertices(m.Verts, tris)
	verts, tris = removeUnreferencedVertices(verts, tris)
	return Mesh{Verts: verts, Tris: tris}
}

func removeDegenerateTriangles(tris []Tri) []Tri {
	out := make([]Tri, 0, len(tris))
	for _, t := range tris {
		if t.A == t.B || t.B == t.C || t.A == t.C {
			continue
		}
		out = append(out, t)
	}
	return out
}

func removeDuplicateTriangles(tris []Tri) []Tri {
	seen := make(map[Tri]struct{}, len(tris))
	out := make([]Tri, 0, len(tris))
	for _, t := range tris {
		key := sortedTri(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func removeDuplicateVertices(verts []Vec3, tris []Tri) ([]Vec3, []Tri) {
	remap := make([]int, len(verts))
	index := make(map[Vec3]int, len(verts))
	out := make([]Vec3, 0, len(verts))
	for i, v := range verts {
		if j, ok := index[v]; ok {
			remap[i] = j
			continue
		}
		j := len(out)
		out = append(out, v)
		index[v] = j
		remap[i] = j
	}
	newTris := make([]Tri, len(tris))
	for i, t := range tris {
		newTris[i] = Tri{remap[t.A], remap[t.B], remap[t.C]}
	}
	return out, newTris
}

func removeUnreferencedVertices(verts []Vec3, tris []Tri) ([]Vec3, []Tri) {
	if len(tris) == 0 {
		// Bare point cloud: every vertex is "referenced" by definition.
		return verts, tris
	}
	used := make([]bool, len(verts))
	for _, t := range tris {
		used[t.A] = true
		used[t.B] = true
		used[t.C] = true
	}
	remap := make([]int, len(verts))
	out := make([]Vec3, 0, len(verts))
	for i, v := range verts {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(out)
		out = append(out, v)
	}
	newTris := make([]Tri, len(tris))
	for i, t := range tris {
		newTris[i] = Tri{remap[t.A], remap[t.B], remap[t.C]}
	}
	return out, newTris
}
