package resample

import (
	"context"
	"math/rand"
	"testing"

	"groupwise/adapters/rng"
)

func TestRun_WorkerCountDoesNotChangeResults(t *testing.T) {
	adapter := rng.NewSeededAdapter()
	fn := func(r *rand.Rand) float64 { return r.Float64() }

	var baseline []float64
	for _, workers := range []int{1, 2, 4, 7} {
		pool := NewPool(adapter, workers)
		values, err := pool.Run(context.Background(), "test/run", 99, 200, fn)
		if err != nil {
			t.Fatalf("Run with %d workers failed: %v", workers, err)
		}
		if baseline == nil {
			baseline = values
			continue
		}
		for i := range values {
			if values[i] != baseline[i] {
				t.Fatalf("Iteration %d differs with %d workers: %v vs %v",
					i, workers, values[i], baseline[i])
			}
		}
	}
}

func TestRun_RejectsZeroIterations(t *testing.T) {
	pool := NewPool(rng.NewSeededAdapter(), 1)
	if _, err := pool.Run(context.Background(), "test/run", 0, 0, func(r *rand.Rand) float64 { return 0 }); err == nil {
		t.Error("Expected error for n=0")
	}
}

func TestRun_HonorsCancellation(t *testing.T) {
	pool := NewPool(rng.NewSeededAdapter(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.Run(ctx, "test/run", 1, 50, func(r *rand.Rand) float64 { return 0 }); err == nil {
		t.Error("Expected error after cancellation")
	}
}

func TestTailCount(t *testing.T) {
	values := []float64{0.1, 0.5, 0.9, 1.2, 0.5}
	if got := TailCount(values, 0.5); got != 4 {
		t.Errorf("TailCount(0.5) = %d, expected 4 (ties count)", got)
	}
	if got := TailCount(values, 2.0); got != 0 {
		t.Errorf("TailCount(2.0) = %d, expected 0", got)
	}
}

func TestPercentileInterval(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1) // 1..100
	}
	lower, upper := PercentileInterval(values, 0.95)
	if lower < 1 || lower > 5 {
		t.Errorf("Lower bound %v outside expected 2.5%% tail", lower)
	}
	if upper < 96 || upper > 100 {
		t.Errorf("Upper bound %v outside expected 97.5%% tail", upper)
	}
	if lower >= upper {
		t.Errorf("Interval inverted: [%v, %v]", lower, upper)
	}
}

func TestShuffle_PermutesValues(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	sum := func(vs []float64) float64 {
		var s float64
		for _, v := range vs {
			s += v
		}
		return s
	}
	before := sum(xs)
	Shuffle(r, xs)
	if sum(xs) != before {
		t.Error("Shuffle changed the multiset of values")
	}
}

func TestResample_DrawsFromSource(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	src := []float64{10, 20, 30}
	dst := make([]float64, 50)
	Resample(r, dst, src)
	for i, v := range dst {
		if v != 10 && v != 20 && v != 30 {
			t.Fatalf("Draw %d = %v not in source", i, v)
		}
	}
}
