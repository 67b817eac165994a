package interleave_test

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jellevandenhooff/interleave"
	"github.com/jellevandenhooff/interleave/explore"
	"github.com/jellevandenhooff/interleave/internal/counter"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// exploreIncrements enumerates every interleaving of workers each submitting
// fn increments times, and returns how many interleavings were explored
// together with the final counter value of each, in enumeration order.
//
// The driver is deterministic given the decision source: at every step it
// collects the workers that can act (paused, or idle with increments left)
// and asks the source which one moves.
func exploreIncrements(fn func(*counter.Counter), workers, increments int, tracer *explore.Tracer) (int, []uint32) {
	g := explore.NewGen()
	runs := 0
	var finals []uint32
	for !g.Done() {
		tracer.Record(explore.TraceKeyRunStarted, 0, uint64(runs))

		var c counter.Counter
		handles := make([]*interleave.Handle[*counter.Counter], workers)
		remaining := make([]int, workers)
		for i := range handles {
			handles[i] = interleave.Spawn(&c)
			remaining[i] = increments
		}

		for {
			var ready []int
			for i, h := range handles {
				if h.IsPaused() || remaining[i] > 0 {
					ready = append(ready, i)
				}
			}
			if len(ready) == 0 {
				break
			}
			i := ready[g.Intn(len(ready))]
			if handles[i].IsPaused() {
				handles[i].Unpause()
				tracer.Record(explore.TraceKeyUnpause, uint64(i), 0)
			} else {
				handles[i].Submit(fn)
				remaining[i]--
				tracer.Record(explore.TraceKeySubmit, uint64(i), 0)
			}
		}

		for _, h := range handles {
			h.Join()
		}

		final := c.Get()
		tracer.Record(explore.TraceKeyRunFinished, 0, uint64(final))
		finals = append(finals, final)
		runs++
	}
	return runs, finals
}

func distinct(values []uint32) []uint32 {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// Two workers each run one racy increment. Every increment is a submit plus
// four single-step resumes, so the interleavings of the two five-action
// sequences number 10 choose 5 = 252. Some of them lose an update.
func TestExhaustiveRacyCounter(t *testing.T) {
	runs, finals := exploreIncrements(increment, 2, 1, explore.NewTracer(discardLogger()))

	if runs != 252 {
		t.Errorf("explored %d interleavings, want 252", runs)
	}
	if diff := cmp.Diff([]uint32{1, 2}, distinct(finals)); diff != "" {
		t.Errorf("final values mismatch (-want +got):\n%s", diff)
	}
}

// The atomic increment is a submit plus two resumes, giving 6 choose 3 = 20
// interleavings, and none of them can lose an update.
func TestExhaustiveAtomicCounter(t *testing.T) {
	runs, finals := exploreIncrements(incrementAtomic, 2, 1, explore.NewTracer(discardLogger()))

	if runs != 20 {
		t.Errorf("explored %d interleavings, want 20", runs)
	}
	if diff := cmp.Diff([]uint32{2}, distinct(finals)); diff != "" {
		t.Errorf("final values mismatch (-want +got):\n%s", diff)
	}
}

// Exploring the same space twice must take the exact same decisions in the
// exact same order. The tracer checksum covers every step of every run.
func TestExhaustiveDeterminism(t *testing.T) {
	first := explore.NewTracer(discardLogger())
	firstRuns, firstFinals := exploreIncrements(increment, 2, 1, first)

	second := explore.NewTracer(discardLogger())
	secondRuns, secondFinals := exploreIncrements(increment, 2, 1, second)

	if firstRuns != secondRuns {
		t.Errorf("run counts differ: %d then %d", firstRuns, secondRuns)
	}
	if diff := cmp.Diff(firstFinals, secondFinals); diff != "" {
		t.Errorf("final values differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Finalize(), second.Finalize()); diff != "" {
		t.Errorf("trace checksums differ (-first +second):\n%s", diff)
	}
}

// randomIncrements drives two workers from a seeded random source until its
// budget runs out, then drains and joins.
func randomIncrements(seed int64, budget int, tracer *explore.Tracer) uint32 {
	r := explore.NewRand(seed, budget)

	var c counter.Counter
	w1 := interleave.Spawn(&c)
	w2 := interleave.Spawn(&c)
	handles := []*interleave.Handle[*counter.Counter]{w1, w2}

	for !r.Empty() {
		i := r.Intn(len(handles))
		if handles[i].IsPaused() {
			handles[i].Unpause()
			tracer.Record(explore.TraceKeyUnpause, uint64(i), 0)
		} else {
			handles[i].Submit(increment)
			tracer.Record(explore.TraceKeySubmit, uint64(i), 0)
		}
	}

	interleave.Drain(w1, w2)
	w1.Join()
	w2.Join()
	return c.Get()
}

func TestRandomSourceDeterminism(t *testing.T) {
	first := explore.NewTracer(discardLogger())
	firstFinal := randomIncrements(1, 100, first)

	second := explore.NewTracer(discardLogger())
	secondFinal := randomIncrements(1, 100, second)

	if firstFinal != secondFinal {
		t.Errorf("final values differ: %d then %d", firstFinal, secondFinal)
	}
	if first.Steps() != second.Steps() {
		t.Errorf("step counts differ: %d then %d", first.Steps(), second.Steps())
	}
	if diff := cmp.Diff(first.Finalize(), second.Finalize()); diff != "" {
		t.Errorf("trace checksums differ (-first +second):\n%s", diff)
	}
}
