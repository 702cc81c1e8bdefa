package rng

import (
	"context"
	"hash/fnv"
	"math/rand"
)

// SeededAdapter derives independent deterministic streams by folding the
// operation name into the base seed. Two streams with different names never
// collide even when they share a seed, which is what lets resample
// iterations be seeded individually.
type SeededAdapter struct{}

// NewSeededAdapter creates the default RNG adapter.
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

// SeededStream implements ports.RNGPort.
func (a *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	derived := int64(h.Sum64()) ^ seed
	return rand.New(rand.NewSource(derived)), nil
}
