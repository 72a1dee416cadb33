package mesh

// Segment is one line segment of a mesh/plane intersection.
type Segment struct {
	A, B Vec3
}

// SectionResult is the full set of segments where a plane cuts a mesh.
type SectionResult struct {
	Segments []Segment
}

// MeshSection intersects mesh (v,f) with the plane through p0 with unit
// normal n, following the reference core's mesh_section: for each triangle,
// compute signed distances of its three vertices to the plane; skip
// triangles entirely on one side (all three distances share a strict sign);
// otherwise, for each edge whose endpoints have strictly opposite signs,
// linearly interpolate the zero crossing; a triangle contributes a segment
// only when exactly two such crossings are found.
func MeshSection(v []Vec3, f []Tri, p0, n Vec3) SectionResult {
	normal := n.Unit()
	var segments []Segment

	for _, t := range f {
		da := normal.Dot(v[t.A].Sub(p0))
		db := normal.Dot(v[t.B].Sub(p0))
		dc := normal.Dot(v[t.C].Sub(p0))

		pos := 0
		neg := 0
		for _, d := range [3]float64{da, db, dc} {
			if d > 0 {
				pos++
			} else if d < 0 {
				neg++
			}
		}
		if pos == 3 || neg == 3 {
			continue
		}

		var pts []Vec3
		type edgePair struct {
			p, q       Vec3
			dp, dq     float64
		}
		edges := [3]edgePair{
			{v[t.A], v[t.B], da, db},
			{v[t.B], v[t.C], db, dc},
			{v[t.C], v[t.A], dc, da},
		}
		for _, e := range edges {
			if (e.dp > 0 && e.dq < 0) || (e.dp < 0 && e.dq > 0) {
				tt := e.dp / (e.dp - e.dq)
				x := e.p.Add(e.q.Sub(e.p).Scale(tt))
				pts = append(pts, x)
			}
		}
		if len(pts) == 2 {
			segments = append(segments, Segment{A: pts[0], B: pts[1]})
		}
	}

	return SectionResult{Segments: segments}
}
