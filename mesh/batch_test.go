package mesh

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunBatchPreservesOrderAndDispatchesAll(t *testing.T) {
	n := 20
	results := make([]int, n)
	runBatch(context.Background(), n, 4, func(i int) {
		results[i] = i * i
	})
	for i, v := range results {
		assert.Equal(t, i*i, v, "index %d", i)
	}
}

func TestRunBatchRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Int64
	runBatch(ctx, 50, 4, func(i int) {
		ran.Add(1)
	})
	assert.NotEqual(t, int64(50), ran.Load(), "expected cancellation to stop dispatch before all 50 items ran")
}

func TestRunBatchZeroItems(t *testing.T) {
	called := false
	runBatch(context.Background(), 0, 4, func(i int) { called = true })
	assert.False(t, called)
}

func TestBatchAlignAndCheckIsolatesPerCandidateFailure(t *testing.T) {
	target := cubeMesh(1)
	candidates := []Mesh{
		cubeMesh(3), // valid
		{},          // invalid: triggers a validation error, not a panic
	}
	cfg := DefaultBatchConfig()
	cfg.Threads = 1
	cfg.Samples = 50

	results := BatchAlignAndCheck(context.Background(), target, candidates, cfg)
	assert.Len(t, results, 2)
	assert.Equal(t, 0, results[0].CandidateIndex)
	assert.Equal(t, 1, results[1].CandidateIndex)
	assert.NotEmpty(t, results[1].Error, "expected candidate 1 to report an error for an empty mesh")
	assert.Empty(t, results[0].Error, "expected candidate 0 to succeed")
}
