// Package explore provides decision sources for driving interleave workers: a
// deterministic exhaustive enumerator and a budgeted seeded random source,
// plus a tracer that fingerprints decision sequences for determinism checks.
//
// The harness core consumes nothing but small-integer decisions, so any other
// strategy, like coverage-guided search or a human single-stepping, can stand
// in for these sources.
package explore

// A Gen enumerates every decision sequence reachable by a deterministic
// driver, depth-first. Use it in a loop:
//
//	g := explore.NewGen()
//	for !g.Done() {
//		// drive one run, consuming decisions via g.Intn and g.Flip
//	}
//
// Within a run the driver must derive its behavior only from prior answers
// and other deterministic state: Gen replays a recorded prefix of decisions
// and extends it, so a driver that asks different questions on a replayed
// prefix tears the enumeration (and panics where detectable).
type Gen struct {
	digits  []digit
	idx     int
	started bool
}

// A digit is one recorded decision together with its largest allowed value,
// making the sequence of decisions an odometer.
type digit struct {
	value, max int
}

// NewGen returns an enumerator positioned before the first sequence.
func NewGen() *Gen {
	return &Gen{}
}

// Done advances to the next unexplored decision sequence and reports whether
// the space is exhausted instead. The first call always returns false and
// starts the all-zeros sequence.
func (g *Gen) Done() bool {
	g.idx = 0
	if !g.started {
		g.started = true
		return false
	}
	for len(g.digits) > 0 {
		last := &g.digits[len(g.digits)-1]
		if last.value < last.max {
			last.value++
			return false
		}
		g.digits = g.digits[:len(g.digits)-1]
	}
	return true
}

// Intn returns a decision in [0, n), replaying the recorded prefix of the
// current sequence and answering 0 beyond it.
func (g *Gen) Intn(n int) int {
	if n <= 0 {
		panic("explore: Intn bound must be positive")
	}
	if g.idx < len(g.digits) {
		d := g.digits[g.idx]
		g.idx++
		if d.value >= n {
			panic("explore: decision bound shrank during replay; driver is not deterministic")
		}
		return d.value
	}
	g.digits = append(g.digits, digit{value: 0, max: n - 1})
	g.idx++
	return 0
}

// Flip returns a boolean decision.
func (g *Gen) Flip() bool {
	return g.Intn(2) == 1
}
