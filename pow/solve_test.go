package pow_test

import (
	"context"
	"encoding/hex"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redpwn/powupload/pow"
)

func fixedParallelism(n int) func() int {
	return func() int { return n }
}

func TestWorkerCount(t *testing.T) {
	s := pow.NewSolver()

	s.Parallelism = fixedParallelism(8)
	assert.Equal(t, 7, s.WorkerCount(), "one cpu left to the caller")

	s.Parallelism = fixedParallelism(1)
	assert.Equal(t, 1, s.WorkerCount(), "floor")

	s.Parallelism = fixedParallelism(128)
	assert.Equal(t, pow.DefaultWorkers, s.WorkerCount(), "ceiling")

	s.Workers = 3
	assert.Equal(t, 3, s.WorkerCount())
}

func TestSolveZeroDifficulty(t *testing.T) {
	s := pow.NewSolver()
	sol, err := s.Solve(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Len(t, sol.Suffix, pow.DefaultSuffixSize)
	assert.Len(t, sol.Hex(), 2*pow.DefaultSuffixSize)
	assert.NotZero(t, sol.Attempts)
}

func TestSolve(t *testing.T) {
	s := pow.NewSolver()
	s.Parallelism = fixedParallelism(5)
	prefix := []byte("some prefix")

	for _, bits := range []uint32{1, 7, 8, 11, 16} {
		sol, err := s.Solve(context.Background(), prefix, bits)
		require.NoError(t, err, "bits=%d", bits)
		assert.True(t, pow.Verify(prefix, sol.Suffix, bits), "bits=%d", bits)
		assert.Less(t, sol.Worker, 4)
		assert.NotZero(t, sol.Attempts)
	}
}

func TestSolveSuffixSize(t *testing.T) {
	s := pow.NewSolver()
	s.SuffixSize = 8
	sol, err := s.Solve(context.Background(), []byte{1, 2, 3}, 12)
	require.NoError(t, err)
	assert.Len(t, sol.Suffix, 8)
	assert.True(t, pow.Verify([]byte{1, 2, 3}, sol.Suffix, 12))
}

func TestChallengeSolve(t *testing.T) {
	c := pow.GenerateChallenge(14)
	sol, err := c.Solve(context.Background(), pow.NewSolver())
	require.NoError(t, err)
	ok, err := c.Check(hex.EncodeToString(sol.Suffix))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSolveUnsatisfiable(t *testing.T) {
	s := pow.NewSolver()
	_, err := s.Solve(context.Background(), []byte("x"), pow.MaxDifficulty+1)
	assert.True(t, errors.Is(err, pow.ErrUnsatisfiableDifficulty))
}

func TestSolveCancelled(t *testing.T) {
	s := pow.NewSolver()
	s.Parallelism = fixedParallelism(3)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// 200 bits is satisfiable but will not be found before the deadline
	_, err := s.Solve(ctx, []byte("x"), 200)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSolveProgress(t *testing.T) {
	var mu sync.Mutex
	calls := map[int]uint64{}

	s := pow.NewSolver()
	s.Parallelism = fixedParallelism(3)
	s.ProgressInterval = 100
	s.Progress = func(worker int, attempts uint64) {
		mu.Lock()
		defer mu.Unlock()
		assert.Zero(t, attempts%100)
		calls[worker] = attempts
	}
	_, err := s.Solve(context.Background(), []byte("progress"), 20)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, calls)
	for w := range calls {
		assert.Less(t, w, 2)
	}
}

func TestSolveSingleWinner(t *testing.T) {
	// every candidate wins at difficulty 0, so all workers race to publish
	s := pow.NewSolver()
	s.Parallelism = fixedParallelism(17)
	for i := 0; i < 50; i++ {
		sol, err := s.Solve(context.Background(), []byte("race"), 0)
		require.NoError(t, err)
		assert.True(t, pow.Verify([]byte("race"), sol.Suffix, 0))
		assert.Less(t, sol.Worker, s.WorkerCount())
	}
}

func TestSolveWorkersExit(t *testing.T) {
	baseline := runtime.NumGoroutine()

	s := pow.NewSolver()
	s.Parallelism = fixedParallelism(17)
	prefix := []byte("workers exit")
	for i := 0; i < 20; i++ {
		sol, err := s.Solve(context.Background(), prefix, 8)
		require.NoError(t, err)
		assert.True(t, pow.Verify(prefix, sol.Suffix, 8))
		assert.Less(t, sol.Worker, s.WorkerCount())
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, time.Second, 10*time.Millisecond, "solver goroutines still running")
}

func TestSolveNoProgressAfterReturn(t *testing.T) {
	var returned atomic.Bool
	var late atomic.Uint64

	s := pow.NewSolver()
	s.Parallelism = fixedParallelism(9)
	s.ProgressInterval = 1
	s.Progress = func(worker int, attempts uint64) {
		if returned.Load() {
			late.Add(1)
		}
	}
	for i := 0; i < 20; i++ {
		returned.Store(false)
		_, err := s.Solve(context.Background(), []byte("late progress"), 10)
		returned.Store(true)
		require.NoError(t, err)
	}

	// give any straggler time to reach its next progress point
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, late.Load())
}
