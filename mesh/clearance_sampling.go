package mesh

import (
	"math"
	"math/rand"
	"sort"
)

// ClearanceSamplingReport is the surface-sample clearance evaluation result
// for a single target/candidate pair (C9), including the percentile pass
// ladder supplemented from the reference Python driver's
// compute_detailed_clearance_metrics.
type ClearanceSamplingReport struct {
	InsideRatio float64
	MinC        float64
	MeanC       float64
	P01         float64
	P05         float64
	P10         float64
	P15         float64
	P20         float64
	P50         float64

	PassStrict bool
	PassP10    bool
	PassP15    bool
	PassP20    bool
}

// ClearanceSampling estimates the wall-thickness margin between target and
// candidate by sampling K points on the target surface and classifying each
// against the candidate's SDF oracle, following the reference core's
// clearance_sampling: a point is "inside" if the candidate's signed distance
// is <= 0; its clearance is the absolute value of that signed distance
// (normalizing the reference core's own sign inconsistency between its bare
// clearance_sampling, which uses abs(sd), and its batch path, which uses
// -sd — this engine always uses abs(sd), so reported clearances are never
// negative). inside_ratio is the fraction of sampled points classified
// inside; PassStrict requires full containment (inside_ratio>=0.999) and
// MinC>=clearance. The percentile fields are derived by linear
// interpolation between MinC and P01 as in the reference driver:
// p{K} = MinC + (P01-MinC)*K.
func ClearanceSampling(target, candidate Mesh, clearance, safetyDelta float64, samples int) (ClearanceSamplingReport, error) {
	if err := validateMesh("target", target); err != nil {
		return ClearanceSamplingReport{}, err
	}
	if err := validateMesh("candidate", candidate); err != nil {
		return ClearanceSamplingReport{}, err
	}
	if err := validatePositive("clearance", clearance); err != nil {
		return ClearanceSamplingReport{}, err
	}
	if samples <= 0 {
		return ClearanceSamplingReport{}, errInvalid("samples", samples, "must be positive")
	}
	_ = safetyDelta // unused by the bare evaluator's pass rule, see BatchAlignAndCheck

	pts := SamplePoints(target, samples, rand.New(rand.NewSource(7)))
	sdf := NewSDF(CleanMesh(candidate))

	var inner []float64
	insideCount := 0
	for _, p := range pts {
		sd := sdf.SignedDistance(p)
		if sd <= 0 {
			insideCount++
			inner = append(inner, math.Abs(sd))
		}
	}

	report := ClearanceSamplingReport{
		InsideRatio: float64(insideCount) / float64(maxInt(1, len(pts))),
	}
	if len(inner) == 0 {
		return report, nil
	}

	sort.Float64s(inner)
	n := len(inner)
	report.MinC = inner[0]
	var sum float64
	for _, c := range inner {
		sum += c
	}
	report.MeanC = sum / float64(n)

	p01Idx := int(math.Floor(0.01 * float64(n)))
	if p01Idx < 0 {
		p01Idx = 0
	}
	if p01Idx > n-1 {
		p01Idx = n - 1
	}
	report.P01 = inner[p01Idx]

	report.P05 = report.MinC + (report.P01-report.MinC)*5.0
	report.P10 = report.MinC + (report.P01-report.MinC)*10.0
	report.P15 = report.MinC + (report.P01-report.MinC)*15.0
	report.P20 = report.MinC + (report.P01-report.MinC)*20.0
	report.P50 = report.MeanC

	fullyContained := report.InsideRatio >= 0.999
	report.PassStrict = fullyContained && report.MinC >= clearance
	report.PassP10 = fullyContained && report.P10 >= clearance
	report.PassP15 = fullyContained && report.P15 >= clearance
	report.PassP20 = fullyContained && report.P20 >= clearance

	return report, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
