package mesh

import "math/rand"

// RegistrationResult is the outcome of a coarse+fine alignment.
type RegistrationResult struct {
	Transform Matrix4
	Chamfer   float64
	ICP       ICPResult
}

// MirrorRegistrationResult additionally reports whether the YZ-mirrored
// source variant won (C7).
type MirrorRegistrationResult struct {
	RegistrationResult
	Mirrored bool
}

// AlignICP performs coarse RANSAC registration followed by point-to-plane
// ICP refinement of src onto tgt (C4, C5), following the reference core's
// align_icp: sample_pcd(..., 50000)->VoxelDownSample(voxel) for both clouds,
// ransac(src, tgt, fpfhRadius, voxel) for the initial transform, then
// icp(src, tgt, T0, icpThr) to refine it.
func AlignICP(src, tgt Mesh, voxel, fpfhRadius, icpThr float64) (RegistrationResult, error) {
	if err := validateMesh("src", src); err != nil {
		return RegistrationResult{}, err
	}
	if err := validateMesh("tgt", tgt); err != nil {
		return RegistrationResult{}, err
	}
	if err := validatePositive("voxel", voxel); err != nil {
		return RegistrationResult{}, err
	}

	srcPts := VoxelDownsample(SamplePoints(src, 50000, rand.New(rand.NewSource(1))), voxel)
	tgtPts := VoxelDownsample(SamplePoints(tgt, 50000, rand.New(rand.NewSource(2))), voxel)

	srcNormals := estimateCloudNormals(srcPts, fpfhRadius)
	tgtNormals := estimateCloudNormals(tgtPts, fpfhRadius)

	srcNbrs := radiusNeighbors(srcPts, fpfhRadius)
	tgtNbrs := radiusNeighbors(tgtPts, fpfhRadius)
	srcDesc := ComputeFPFH(srcPts, srcNormals, srcNbrs)
	tgtDesc := ComputeFPFH(tgtPts, tgtNormals, tgtNbrs)

	corr := FeatureCorrespondences(srcDesc, tgtDesc)
	ransacCfg := DefaultRANSACConfig(voxel)
	t0, err := CoarseAlign(srcPts, tgtPts, corr, ransacCfg)
	if err != nil {
		t0 = Identity4()
	}

	tgtTree := NewPointTree(tgtPts)
	icpCfg := DefaultICPConfig(icpThr)
	icpResult := RunICP(srcPts, tgtPts, tgtNormals, tgtTree, t0, icpCfg)

	sampledSrc := SamplePoints(src, 20000, rand.New(rand.NewSource(3)))
	transformed := TransformVerts(sampledSrc, icpResult.Transform)
	sampledTgt := SamplePoints(tgt, 20000, rand.New(rand.NewSource(4)))
	chamfer := ChamferDistance(transformed, sampledTgt)

	return RegistrationResult{Transform: icpResult.Transform, Chamfer: chamfer, ICP: icpResult}, nil
}

// AlignICPWithMirror runs AlignICP twice — once on src as given, once on its
// YZ-mirror (negate X) — and keeps whichever has the lower Chamfer distance,
// breaking ties in favor of the non-mirrored variant, following the
// reference core's align_icp_with_mirror (strict less-than: mirrored wins
// only if its Chamfer distance is strictly smaller). This is how the engine
// supports candidate blanks usable for either foot via reflection (C7).
func AlignICPWithMirror(src, tgt Mesh, voxel, fpfhRadius, icpThr float64) (MirrorRegistrationResult, error) {
	direct, err := AlignICP(src, tgt, voxel, fpfhRadius, icpThr)
	if err != nil {
		return MirrorRegistrationResult{}, err
	}

	mirror := YZMirror()
	mirroredSrc := Mesh{Verts: TransformVerts(src.Verts, mirror), Tris: src.Tris}
	mirroredResult, err := AlignICP(mirroredSrc, tgt, voxel, fpfhRadius, icpThr)
	if err != nil {
		return MirrorRegistrationResult{RegistrationResult: direct, Mirrored: false}, nil
	}

	if mirroredResult.Chamfer < direct.Chamfer {
		combined := mirroredResult.Transform.Mul(mirror)
		return MirrorRegistrationResult{
			RegistrationResult: RegistrationResult{Transform: combined, Chamfer: mirroredResult.Chamfer, ICP: mirroredResult.ICP},
			Mirrored:           true,
		}, nil
	}
	return MirrorRegistrationResult{RegistrationResult: direct, Mirrored: false}, nil
}

// alignParams is one parameter preset tried by AlignICPMultiStart.
type alignParams struct {
	Voxel, FPFHRadius, ICPThr float64
}

// AlignICPMultiStart tries AlignICPWithMirror under three parameter presets
// — the caller-given values, and +/-20% variants — and keeps the result
// with the lowest Chamfer distance. This supplements the core registration
// contract with the multi-start retry strategy the reference Python driver
// layers on top of the C++ core for difficult candidate/target pairs.
func AlignICPMultiStart(src, tgt Mesh, voxel, fpfhRadius, icpThr float64) (MirrorRegistrationResult, error) {
	presets := []alignParams{
		{voxel, fpfhRadius, icpThr},
		{voxel * 0.8, fpfhRadius * 0.8, icpThr * 0.8},
		{voxel * 1.2, fpfhRadius * 1.2, icpThr * 1.2},
	}

	var best MirrorRegistrationResult
	bestSet := false
	for _, p := range presets {
		result, err := AlignICPWithMirror(src, tgt, p.Voxel, p.FPFHRadius, p.ICPThr)
		if err != nil {
			continue
		}
		if !bestSet || result.Chamfer < best.Chamfer {
			best = result
			bestSet = true
		}
	}
	if !bestSet {
		return MirrorRegistrationResult{}, errInvalid("src", src, "no parameter preset produced a valid alignment")
	}
	return best, nil
}

func estimateCloudNormals(pts []Vec3, radius float64) []Vec3 {
	nbrs := radiusNeighbors(pts, radius)
	normals := NormalsFromNeighborhood(pts, nbrs)
	return OrientNormalsOutward(pts, normals)
}

func radiusNeighbors(pts []Vec3, radius float64) [][]int {
	tree := NewPointTree(pts)
	out := make([][]int, len(pts))
	for i, p := range pts {
		nbrs := tree.RadiusSearch(p, radius)
		filtered := nbrs[:0:0]
		for _, j := range nbrs {
			if j != i {
				filtered = append(filtered, j)
			}
		}
		if len(filtered) < 3 {
			filtered = tree.KNN(p, 10)
		}
		out[i] = filtered
	}
	return out
}
