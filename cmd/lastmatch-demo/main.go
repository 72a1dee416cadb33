// Command lastmatch-demo exercises the mesh package's alignment and
// clearance pipeline against procedurally generated box-shaped blanks, since
// this engine is a library and does not ship its own mesh I/O or reporting.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kwv/lastmatch/mesh"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	configFile   = flag.String("config", "", "Path to a BatchConfig YAML file (optional; defaults are used if omitted)")
	targetHalf   = flag.Float64("target-half", 40.0, "Half-extent (mm) of the procedurally generated target box")
	numCandidate = flag.Int("candidates", 3, "Number of procedurally generated candidate blanks to batch against the target")
	growth       = flag.Float64("growth", 3.0, "Half-extent step (mm) between successive candidate blanks; candidate i is (i+1) steps larger than the target")
	formal       = flag.Bool("formal", false, "Run the narrow-band voxel verifier instead of the surface-sample evaluator")
)

func main() {
	flag.Parse()
	fmt.Printf("lastmatch-demo version: %s\n", Version)

	cfg := mesh.DefaultBatchConfig()
	if *configFile != "" {
		loaded, err := mesh.LoadBatchConfig(*configFile)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = *loaded
	}

	target := boxMesh(*targetHalf)
	candidates := make([]mesh.Mesh, *numCandidate)
	for i := range candidates {
		candidates[i] = boxMesh(*targetHalf + float64(i+1)*(*growth))
	}

	ctx := context.Background()
	var results []mesh.BatchResult
	if *formal {
		results = mesh.BatchFormalCheck(ctx, target, candidates, cfg)
	} else {
		results = mesh.BatchAlignAndCheck(ctx, target, candidates, cfg)
	}

	exit := 0
	for _, r := range results {
		if r.Error != "" {
			log.Printf("candidate %d: error: %s", r.CandidateIndex, r.Error)
			exit = 1
			continue
		}
		switch {
		case r.Sampling != nil:
			log.Printf("candidate %d: pass=%v minClearance=%.3f meanClearance=%.3f insideRatio=%.4f",
				r.CandidateIndex, r.Sampling.PassStrict, r.Sampling.MinC, r.Sampling.MeanC, r.Sampling.InsideRatio)
		case r.Volume != nil:
			log.Printf("candidate %d: pass=%v (%s) minClearance=%.3f eps=%.3f",
				r.CandidateIndex, r.Volume.Pass, r.Volume.Reason, r.Volume.MinClearance, r.Volume.Eps)
		}
	}
	os.Exit(exit)
}

// boxMesh returns a 12-triangle, outward-wound cube of the given half-extent
// centered at the origin — a stand-in last blank for demo purposes only.
func boxMesh(half float64) mesh.Mesh {
	v := []mesh.Vec3{
		{X: -half, Y: -half, Z: -half},
		{X: half, Y: -half, Z: -half},
		{X: half, Y: half, Z: -half},
		{X: -half, Y: half, Z: -half},
		{X: -half, Y: -half, Z: half},
		{X: half, Y: -half, Z: half},
		{X: half, Y: half, Z: half},
		{X: -half, Y: half, Z: half},
	}
	t := []mesh.Tri{
		{A: 0, B: 2, C: 1}, {A: 0, B: 3, C: 2}, // -Z
		{A: 4, B: 5, C: 6}, {A: 4, B: 6, C: 7}, // +Z
		{A: 0, B: 1, C: 5}, {A: 0, B: 5, C: 4}, // -Y
		{A: 3, B: 7, C: 6}, {A: 3, B: 6, C: 2}, // +Y
		{A: 0, B: 4, C: 7}, {A: 0, B: 7, C: 3}, // -X
		{A: 1, B: 2, C: 6}, {A: 1, B: 6, C: 5}, // +X
	}
	return mesh.Mesh{Verts: v, Tris: t}
}
