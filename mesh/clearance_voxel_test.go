package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearanceSDFVolumePassesForRoomyCandidate(t *testing.T) {
	target := cubeMesh(1)
	candidate := cubeMesh(5)
	report, err := ClearanceSDFVolume(target, candidate, 2.0, 0.5, 3.0)
	require.NoError(t, err)
	assert.True(t, report.Pass, "expected pass for a much larger candidate")
	assert.Positive(t, report.Eps)
}

func TestClearanceSDFVolumeFailsForTightCandidate(t *testing.T) {
	target := cubeMesh(5)
	candidate := cubeMesh(5.1)
	report, err := ClearanceSDFVolume(target, candidate, 2.0, 0.5, 3.0)
	require.NoError(t, err)
	assert.False(t, report.Pass, "expected pass false when candidate barely clears target")
}

func TestClearanceSDFVolumeEpsBound(t *testing.T) {
	target := cubeMesh(1)
	candidate := cubeMesh(3)
	voxel := 0.4
	report, err := ClearanceSDFVolume(target, candidate, 1.0, voxel, 2.0)
	require.NoError(t, err)
	wantEps := 0.8660254037844386 * voxel // sqrt(3)/2
	assert.InDelta(t, wantEps, report.Eps, 1e-9)
}

func TestClearanceSDFVolumeNoSamplesInBand(t *testing.T) {
	target := cubeMesh(1)
	candidate := cubeMesh(5)
	report, err := ClearanceSDFVolume(target, candidate, 1.0, 2.0, 0.001)
	require.NoError(t, err)
	assert.False(t, report.Pass)
	assert.NotEmpty(t, report.Reason)
}

func TestClearanceSDFVolumeNoBandSamplesInsideCandidate(t *testing.T) {
	target := cubeMesh(1)
	candidate := cubeMesh(0.1)
	report, err := ClearanceSDFVolume(target, candidate, 1.0, 0.3, 2.0)
	require.NoError(t, err)
	assert.False(t, report.Pass)
	assert.Contains(t, []string{"no band samples inside candidate", "no samples in band"}, report.Reason)
}

func TestClearanceSDFVolumeRejectsNonPositiveVoxel(t *testing.T) {
	_, err := ClearanceSDFVolume(cubeMesh(1), cubeMesh(3), 1.0, 0, 2.0)
	assert.Error(t, err)
}

func TestClearanceSDFVolumeRejectsGridOverCap(t *testing.T) {
	target := cubeMesh(1)
	candidate := cubeMesh(3)
	_, err := ClearanceSDFVolume(target, candidate, 1.0, 0.001, 1000.0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cap")
}
