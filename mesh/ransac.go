package mesh

import "math/rand"

// RANSACConfig controls coarse feature-correspondence registration (C4).
type RANSACConfig struct {
	Voxel          float64 // voxel size the defaults were derived from; not read by CoarseAlign
	CorrespondDist float64 // max distance for CorrespondenceCheckerBasedOnDistance
	Iterations     int     // number of RANSAC trials; all of them always run
	ValidationIter int     // how many correspondences, in order, each trial is scored against (<=0: all)
	SampleSize     int     // correspondences per RANSAC iteration
	RNG            *rand.Rand
}

// DefaultRANSACConfig mirrors the reference core's ransac() defaults:
// threshold = voxel*3, 4-point minimal set, 8000 trials, each scored against
// at most the first 1000 correspondences. There is no early stop once enough
// hypotheses have been validated.
func DefaultRANSACConfig(voxel float64) RANSACConfig {
	return RANSACConfig{
		Voxel:          voxel,
		CorrespondDist: voxel * 3,
		Iterations:     8000,
		ValidationIter: 1000,
		SampleSize:     4,
		RNG:            rand.New(rand.NewSource(1)),
	}
}

// Correspondence is a matched pair of point indices, src[i] <-> dst[j].
type Correspondence struct {
	Src, Dst int
}

// CoarseAlign estimates an initial rigid transform aligning srcPts onto
// dstPts using RANSAC over descriptor-based correspondences, following
// RegistrationRANSACBasedOnFeatureMatching in the reference core: repeatedly
// sample SampleSize correspondences, estimate a candidate transform with
// EstimateRigidTransform, and score it by how many of the first
// ValidationIter correspondences (all of them when ValidationIter is <= 0 or
// not smaller than their count) fall within CorrespondDist after applying it
// ("distance checker" inlier count). The best-scoring candidate over all
// Iterations trials, refined by one least-squares fit over its inlier set,
// is returned.
func CoarseAlign(srcPts, dstPts []Vec3, correspondences []Correspondence, cfg RANSACConfig) (Matrix4, error) {
	if len(correspondences) < cfg.SampleSize {
		return Matrix4{}, errInvalid("correspondences", len(correspondences), "fewer than SampleSize available")
	}
	rng := cfg.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	var best Matrix4
	bestScore := -1
	var bestInliers []Correspondence
	found := false

	for iter := 0; iter < cfg.Iterations; iter++ {
		sample := sampleCorrespondences(correspondences, cfg.SampleSize, rng)
		src := make([]Vec3, len(sample))
		dst := make([]Vec3, len(sample))
		for i, c := range sample {
			src[i] = srcPts[c.Src]
			dst[i] = dstPts[c.Dst]
		}
		cand, err := EstimateRigidTransform(src, dst)
		if err != nil {
			continue
		}

		score := 0
		var inliers []Correspondence
		checkEvery := 1
		validation := cfg.ValidationIter
		if validation <= 0 {
			validation = len(correspondences)
		}
		limit := len(correspondences)
		if validation < limit {
			limit = validation
		}
		for i := 0; i < limit; i += checkEvery {
			c := correspondences[i]
			p := cand.Apply(srcPts[c.Src])
			if p.Sub(dstPts[c.Dst]).Norm() <= cfg.CorrespondDist {
				score++
				inliers = append(inliers, c)
			}
		}
		if score > bestScore {
			bestScore = score
			best = cand
			bestInliers = inliers
			found = true
		}
	}

	if !found || len(bestInliers) < 3 {
		return Matrix4{}, errInvalid("correspondences", bestScore, "RANSAC found no viable inlier set")
	}

	src := make([]Vec3, len(bestInliers))
	dst := make([]Vec3, len(bestInliers))
	for i, c := range bestInliers {
		src[i] = srcPts[c.Src]
		dst[i] = dstPts[c.Dst]
	}
	refined, err := EstimateRigidTransform(src, dst)
	if err != nil {
		return best, nil
	}
	return refined, nil
}

func sampleCorrespondences(pool []Correspondence, n int, rng *rand.Rand) []Correspondence {
	if n >= len(pool) {
		out := make([]Correspondence, len(pool))
		copy(out, pool)
		return out
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]Correspondence, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// FeatureCorrespondences builds a candidate correspondence set between two
// FPFH descriptor sets by mutual nearest-descriptor matching, the input
// CoarseAlign expects. Brute-force over descriptors: fine for the
// registration-scale point counts this engine operates on (FPFH is
// typically computed on a downsampled cloud).
func FeatureCorrespondences(srcDesc, dstDesc [][]float64) []Correspondence {
	srcBest := make([]int, len(srcDesc))
	for i, d := range srcDesc {
		srcBest[i] = nearestDescriptor(d, dstDesc)
	}
	dstBest := make([]int, len(dstDesc))
	for j, d := range dstDesc {
		dstBest[j] = nearestDescriptor(d, srcDesc)
	}

	var out []Correspondence
	for i, j := range srcBest {
		if j >= 0 && dstBest[j] == i {
			out = append(out, Correspondence{Src: i, Dst: j})
		}
	}
	return out
}

func nearestDescriptor(query []float64, pool [][]float64) int {
	best := -1
	bestDist := -1.0
	for i, d := range pool {
		dist := descriptorDistance(query, d)
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

func descriptorDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
