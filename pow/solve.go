package pow

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redpwn/powupload/internal/cpu"
)

const (
	DefaultWorkers          = 32
	DefaultSuffixSize       = 64
	DefaultProgressInterval = 10000
)

// Solver searches for suffixes with a pool of independent workers.
type Solver struct {
	// Workers caps the pool size.
	Workers int
	// SuffixSize is the length in bytes of every candidate.
	SuffixSize int
	// ProgressInterval is the number of attempts between Progress calls; 0 disables them.
	ProgressInterval uint64
	// Progress is called from worker goroutines and must not block.
	Progress func(worker int, attempts uint64)
	// Parallelism returns the number of CPUs available to the process.
	Parallelism func() int
}

type Solution struct {
	Suffix   []byte
	Worker   int
	Attempts uint64
	Elapsed  time.Duration
}

func (s *Solution) Hex() string {
	return hex.EncodeToString(s.Suffix)
}

func NewSolver() *Solver {
	return &Solver{
		Workers:          DefaultWorkers,
		SuffixSize:       DefaultSuffixSize,
		ProgressInterval: DefaultProgressInterval,
		Parallelism:      cpu.Available,
	}
}

// WorkerCount leaves one CPU to the caller and never returns less than 1.
func (s *Solver) WorkerCount() int {
	hint := cpu.Available
	if s.Parallelism != nil {
		hint = s.Parallelism
	}
	n := hint() - 1
	if s.Workers > 0 && s.Workers < n {
		n = s.Workers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// attempts are published to the shared total in batches of this size
const flushEvery = 1024

type worker struct {
	id       int
	rng      *rand.ChaCha8
	attempts uint64
	pending  uint64
}

func newWorker(id int, entropy [32]byte) *worker {
	seed := entropy
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(id))
	for i, b := range idx {
		seed[24+i] ^= b
	}
	return &worker{id: id, rng: rand.NewChaCha8(seed)}
}

type search struct {
	prefix   []byte
	bits     uint32
	size     int
	interval uint64
	progress func(int, uint64)
	total    atomic.Uint64
	found    chan *Solution

	// guards progress calls against a finished search
	mu   sync.RWMutex
	done bool
}

func (s *search) report(ctx context.Context, worker int, attempts uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.done || ctx.Err() != nil {
		return
	}
	s.progress(worker, attempts)
}

// finish blocks until in-flight progress calls return; none start afterwards.
func (s *search) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
}

func (w *worker) run(ctx context.Context, s *search) {
	buf := make([]byte, len(s.prefix)+s.size)
	copy(buf, s.prefix)
	candidate := buf[len(s.prefix):]
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.rng.Read(candidate)
		d := Digest(buf, nil)
		w.attempts++
		w.pending++
		if HasLeadingZeroBits(d[:], s.bits) {
			sol := &Solution{
				Suffix:   append([]byte(nil), candidate...),
				Worker:   w.id,
				Attempts: s.total.Add(w.pending),
			}
			// first winner only
			select {
			case s.found <- sol:
			default:
			}
			return
		}
		if w.pending == flushEvery {
			s.total.Add(w.pending)
			w.pending = 0
		}
		if s.progress != nil && s.interval > 0 && w.attempts%s.interval == 0 {
			s.report(ctx, w.id, w.attempts)
		}
	}
}

// Solve returns a suffix such that Digest(prefix, suffix) starts with bits zero bits.
// It returns as soon as one worker succeeds; the others stop at their next iteration.
func (s *Solver) Solve(ctx context.Context, prefix []byte, bits uint32) (*Solution, error) {
	if bits > MaxDifficulty {
		return nil, fmt.Errorf("%d bits: %w", bits, ErrUnsatisfiableDifficulty)
	}
	size := s.SuffixSize
	if size <= 0 {
		size = DefaultSuffixSize
	}
	var entropy [32]byte
	if _, err := crand.Read(entropy[:]); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sr := &search{
		prefix:   prefix,
		bits:     bits,
		size:     size,
		interval: s.ProgressInterval,
		progress: s.Progress,
		found:    make(chan *Solution, 1),
	}
	defer sr.finish()
	n := s.WorkerCount()
	start := time.Now()
	for i := 0; i < n; i++ {
		go newWorker(i, entropy).run(ctx, sr)
	}
	select {
	case sol := <-sr.found:
		sol.Elapsed = time.Since(start)
		return sol, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("solve: %w", ctx.Err())
	}
}

func (c *Challenge) Solve(ctx context.Context, s *Solver) (*Solution, error) {
	return s.Solve(ctx, c.Prefix, c.Difficulty)
}
