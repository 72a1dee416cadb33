package mesh

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// BatchResult is one candidate's outcome from a batch driver run. Exactly
// one of the result fields is meaningful, selected by which driver produced
// it; Error is set instead of either when the candidate failed.
type BatchResult struct {
	CandidateIndex int
	Sampling       *ClearanceSamplingReport
	Volume         *ClearanceVolumeReport
	Alignment      *MirrorRegistrationResult
	Error          string
}

// BatchAlignAndCheck aligns target against every candidate in candidates
// and evaluates each aligned pair with ClearanceSampling, following the
// reference core's batch_align_and_check. Unlike the bare ClearanceSampling
// evaluator, the batch path's pass rule requires
// MinC >= clearance+safetyDelta (cfg.Clearance, cfg.SafetyDelta), matching
// the reference core's inline duplicate of the clearance logic in its batch
// function, which is stricter than its own bare clearance_sampling(). Work
// is distributed across cfg.ResolvedThreads() goroutines; results are
// written into a pre-sized slice by candidate index so output order always
// matches input order regardless of completion order. ctx is checked once
// per candidate dispatched; it is not consulted inside a candidate's own
// alignment/clearance computation.
func BatchAlignAndCheck(ctx context.Context, target Mesh, candidates []Mesh, cfg BatchConfig) []BatchResult {
	results := make([]BatchResult, len(candidates))
	runBatch(ctx, len(candidates), cfg.ResolvedThreads(), func(i int) {
		results[i] = alignAndCheckOne(target, candidates[i], i, cfg)
	})
	return results
}

func alignAndCheckOne(target, candidate Mesh, index int, cfg BatchConfig) BatchResult {
	return recoverBatch(index, func() (BatchResult, error) {
		alignment, err := AlignICPWithMirror(candidate, target, cfg.Voxel, cfg.FPFHRadius, cfg.ICPThreshold)
		if err != nil {
			return BatchResult{}, fmt.Errorf("aligning candidate %d: %w", index, err)
		}
		aligned := Mesh{Verts: TransformVerts(candidate.Verts, alignment.Transform), Tris: candidate.Tris}

		report, err := ClearanceSampling(target, aligned, cfg.Clearance, cfg.SafetyDelta, cfg.Samples)
		if err != nil {
			return BatchResult{}, fmt.Errorf("checking candidate %d: %w", index, err)
		}
		report.PassStrict = report.InsideRatio >= 0.999 && report.MinC >= cfg.Clearance+cfg.SafetyDelta

		return BatchResult{
			CandidateIndex: index,
			Sampling:       &report,
			Alignment:      &alignment,
		}, nil
	})
}

// BatchFormalCheck is the narrow-band voxel analogue of BatchAlignAndCheck,
// following the reference core's batch_formal_check: each candidate is
// aligned, then verified with ClearanceSDFVolume instead of
// ClearanceSampling.
func BatchFormalCheck(ctx context.Context, target Mesh, candidates []Mesh, cfg BatchConfig) []BatchResult {
	results := make([]BatchResult, len(candidates))
	runBatch(ctx, len(candidates), cfg.ResolvedThreads(), func(i int) {
		results[i] = formalCheckOne(target, candidates[i], i, cfg)
	})
	return results
}

func formalCheckOne(target, candidate Mesh, index int, cfg BatchConfig) BatchResult {
	return recoverBatch(index, func() (BatchResult, error) {
		alignment, err := AlignICPWithMirror(candidate, target, cfg.Voxel, cfg.FPFHRadius, cfg.ICPThreshold)
		if err != nil {
			return BatchResult{}, fmt.Errorf("aligning candidate %d: %w", index, err)
		}
		aligned := Mesh{Verts: TransformVerts(candidate.Verts, alignment.Transform), Tris: candidate.Tris}

		report, err := ClearanceSDFVolume(target, aligned, cfg.Clearance, cfg.VoxelSDF, cfg.BandMM)
		if err != nil {
			return BatchResult{}, fmt.Errorf("checking candidate %d: %w", index, err)
		}

		return BatchResult{
			CandidateIndex: index,
			Volume:         &report,
			Alignment:      &alignment,
		}, nil
	})
}

// recoverBatch runs fn and converts both returned errors and panics into a
// BatchResult.Error slot, isolating one candidate's failure from the rest of
// the batch, matching the reference core's per-candidate try/catch.
func recoverBatch(index int, fn func() (BatchResult, error)) (result BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = BatchResult{CandidateIndex: index, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()
	res, err := fn()
	if err != nil {
		return BatchResult{CandidateIndex: index, Error: err.Error()}
	}
	return res
}

// runBatch dispatches n items across a bounded pool of workers, invoking
// work(i) for each item index, and stops dispatching new items once ctx is
// done (already-dispatched items still run to completion).
func runBatch(ctx context.Context, n, workers int, work func(i int)) {
	if n == 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				work(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			log.Printf("batch cancelled after dispatching %d/%d candidates", i, n)
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}
