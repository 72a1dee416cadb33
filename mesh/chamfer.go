package mesh

// ChamferDistance returns the symmetric mean nearest-neighbor distance
// between point sets a and b, following the reference core's chamfer():
// for each point in a, the distance to its nearest neighbor in b, and vice
// versa; the result is the sum of both directions' distances divided by the
// total point count. Returns 1e9 if either set is empty (no correspondence
// possible), matching the reference core's sentinel for "nothing matched".
func ChamferDistance(a, b []Vec3) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 1e9
	}
	treeB := NewPointTree(b)
	treeA := NewPointTree(a)

	var sum float64
	for _, p := range a {
		_, d := treeB.Nearest(p)
		sum += d
	}
	for _, p := range b {
		_, d := treeA.Nearest(p)
		sum += d
	}
	return sum / float64(len(a)+len(b))
}
