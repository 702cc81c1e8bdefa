package resample

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"groupwise/ports"
)

// Pool runs permutation/bootstrap iterations concurrently. Each iteration
// gets its own RNG stream derived from (name, index, seed), so the output
// slice is bit-identical no matter how many workers run it; callers combine
// iterations only through order-independent aggregates.
type Pool struct {
	rng     ports.RNGPort
	workers int
}

// NewPool creates a pool. workers <= 0 selects GOMAXPROCS.
func NewPool(rng ports.RNGPort, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{rng: rng, workers: workers}
}

// Run executes n iterations of fn and returns the per-iteration values,
// indexed by iteration. Cancellation is honored between iterations.
func (p *Pool) Run(ctx context.Context, name string, seed int64, n int, fn func(r *rand.Rand) float64) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("resample count must be >= 1, got %d", n)
	}
	out := make([]float64, n)

	g, gctx := errgroup.WithContext(ctx)
	workers := p.workers
	if workers > n {
		workers = n
	}
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; i < n; i += workers {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				r, err := p.rng.SeededStream(gctx, fmt.Sprintf("%s#%d", name, i), seed)
				if err != nil {
					return err
				}
				out[i] = fn(r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TailCount counts iterations at or above the observed statistic. The count
// is invariant to iteration order.
func TailCount(values []float64, observed float64) int {
	count := 0
	for _, v := range values {
		if v >= observed {
			count++
		}
	}
	return count
}

// PercentileInterval returns the percentile-bootstrap interval at the given
// confidence level.
func PercentileInterval(values []float64, level float64) (lower, upper float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	alpha := 1 - level
	lo := int(float64(len(sorted)) * alpha / 2)
	hi := int(float64(len(sorted)) * (1 - alpha/2))
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	if lo > hi {
		lo = hi
	}
	return sorted[lo], sorted[hi]
}

// Shuffle permutes xs in place with Fisher-Yates.
func Shuffle(r *rand.Rand, xs []float64) {
	for i := len(xs) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Resample fills dst with a with-replacement draw from src.
func Resample(r *rand.Rand, dst, src []float64) {
	for i := range dst {
		dst[i] = src[r.Intn(len(src))]
	}
}
