package mesh

import (
	"fmt"
	"math"
)

// maxGridCells bounds the number of cells ClearanceSDFVolume will allocate
// and visit. A caller-supplied voxel/bandMM combination that would exceed it
// fails fast with a descriptive error instead of hanging on an unreasonably
// fine grid.
const maxGridCells = 50_000_000

// ClearanceVolumeReport is the narrow-band voxel SDF verification result
// for a single target/candidate pair (C10).
type ClearanceVolumeReport struct {
	Pass         bool
	Reason       string
	MinClearance float64
	MeanClearance float64
	Voxel        float64
	BandMM       float64
	Eps          float64
	InsideRatio  float64
}

// ClearanceSDFVolume verifies candidate's clearance from target on a
// narrow-band voxel grid around the target surface, providing a provable
// worst-case error bound the surface-sample evaluator (C9) cannot offer,
// following the reference core's clearance_sdf_volume: build a grid over
// the target's AABB expanded by bandMM on every side at pitch voxel; keep
// only cells within bandMM of the target surface (the "band"); for band
// cells inside the candidate (signed distance <= 0), clearance is the
// absolute signed distance; eps = sqrt(3)/2 * voxel is the maximum possible
// distance from any point in a cubic cell to its center, so
// pass = MinClearance - eps >= clearance is a sound lower bound on the true
// continuous clearance even though only cell centers are sampled.
func ClearanceSDFVolume(target, candidate Mesh, clearance, voxel, bandMM float64) (ClearanceVolumeReport, error) {
	if err := validateMesh("target", target); err != nil {
		return ClearanceVolumeReport{}, err
	}
	if err := validateMesh("candidate", candidate); err != nil {
		return ClearanceVolumeReport{}, err
	}
	if err := validatePositive("voxel", voxel); err != nil {
		return ClearanceVolumeReport{}, err
	}
	if err := validatePositive("clearance", clearance); err != nil {
		return ClearanceVolumeReport{}, err
	}

	cleanTarget := CleanMesh(target)
	cleanCandidate := CleanMesh(candidate)
	targetSDF := NewSDF(cleanTarget)
	candidateSDF := NewSDF(cleanCandidate)

	box := ComputeAABB(cleanTarget.Verts)
	box.Min = box.Min.Sub(Vec3{bandMM, bandMM, bandMM})
	box.Max = box.Max.Add(Vec3{bandMM, bandMM, bandMM})

	nx := int(math.Ceil((box.Max.X - box.Min.X) / voxel))
	ny := int(math.Ceil((box.Max.Y - box.Min.Y) / voxel))
	nz := int(math.Ceil((box.Max.Z - box.Min.Z) / voxel))
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return ClearanceVolumeReport{Pass: false, Reason: "degenerate grid extent"}, nil
	}
	if cells := float64(nx) * float64(ny) * float64(nz); cells > maxGridCells {
		return ClearanceVolumeReport{}, fmt.Errorf("clearance grid %dx%dx%d (%.0f cells) exceeds the %d-cell cap: increase voxel or reduce bandMM", nx, ny, nz, cells, maxGridCells)
	}

	eps := (math.Sqrt(3) / 2) * voxel
	var minC = math.Inf(1)
	var sumC float64
	insideCount := 0
	bandCount := 0

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				center := Vec3{
					X: box.Min.X + (float64(i)+0.5)*voxel,
					Y: box.Min.Y + (float64(j)+0.5)*voxel,
					Z: box.Min.Z + (float64(k)+0.5)*voxel,
				}
				dTarget := math.Abs(targetSDF.SignedDistance(center))
				if dTarget > bandMM {
					continue
				}
				bandCount++
				sd := candidateSDF.SignedDistance(center)
				if sd <= 0 {
					insideCount++
					c := -sd
					sumC += c
					if c < minC {
						minC = c
					}
				}
			}
		}
	}

	if bandCount == 0 {
		return ClearanceVolumeReport{Pass: false, Reason: "no samples in band", Voxel: voxel, BandMM: bandMM, Eps: eps}, nil
	}

	report := ClearanceVolumeReport{
		Voxel:       voxel,
		BandMM:      bandMM,
		Eps:         eps,
		InsideRatio: float64(insideCount) / float64(bandCount),
	}
	if insideCount == 0 {
		report.Reason = "no band samples inside candidate"
		return report, nil
	}
	report.MinClearance = minC
	report.MeanClearance = sumC / float64(insideCount)
	report.Pass = report.MinClearance-eps >= clearance
	return report, nil
}
