package mesh

// cubeMesh returns a closed, outward-wound triangle mesh of an axis-aligned
// cube centered at the origin with the given half-extent.
func cubeMesh(half float64) Mesh {
	v := []Vec3{
		{-half, -half, -half}, // 0
		{half, -half, -half},  // 1
		{half, half, -half},   // 2
		{-half, half, -half},  // 3
		{-half, -half, half},  // 4
		{half, -half, half},   // 5
		{half, half, half},    // 6
		{-half, half, half},   // 7
	}
	tris := []Tri{
		// -Z face
		{0, 2, 1}, {0, 3, 2},
		// +Z face
		{4, 5, 6}, {4, 6, 7},
		// -Y face
		{0, 1, 5}, {0, 5, 4},
		// +Y face
		{3, 7, 6}, {3, 6, 2},
		// -X face
		{0, 4, 7}, {0, 7, 3},
		// +X face
		{1, 2, 6}, {1, 6, 5},
	}
	return Mesh{Verts: v, Tris: tris}
}

func cubeMeshAt(center Vec3, half float64) Mesh {
	m := cubeMesh(half)
	out := make([]Vec3, len(m.Verts))
	for i, v := range m.Verts {
		out[i] = v.Add(center)
	}
	return Mesh{Verts: out, Tris: m.Tris}
}
