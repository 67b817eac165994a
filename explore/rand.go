package explore

import mathrand "math/rand"

// A Rand is a seeded pseudo-random decision source with a step budget, the
// random counterpart of Gen. The budget bounds how many decisions a run may
// consume so random drivers terminate; drain outstanding work with
// interleave.Drain once the source is empty.
type Rand struct {
	rng   *mathrand.Rand
	steps int
}

// NewRand returns a source drawing decisions from seed with the given budget.
// The same seed and budget always yield the same decisions.
func NewRand(seed int64, budget int) *Rand {
	return &Rand{
		rng:   mathrand.New(mathrand.NewSource(seed)),
		steps: budget,
	}
}

// Empty reports whether the budget is used up.
func (r *Rand) Empty() bool {
	return r.steps <= 0
}

// Intn returns a decision in [0, n), consuming one step of budget. Drawing
// from an empty source is a driver bug and panics.
func (r *Rand) Intn(n int) int {
	if r.steps <= 0 {
		panic("explore: random decision source exhausted")
	}
	r.steps--
	return r.rng.Intn(n)
}

// Flip returns a boolean decision.
func (r *Rand) Flip() bool {
	return r.Intn(2) == 1
}
