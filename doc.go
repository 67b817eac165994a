/*
Package interleave is a deterministic concurrency-testing harness: it lets a
test drive the exact interleaving of operations executed by worker goroutines
against shared state, so that concurrency bugs can be reproduced
deterministically, explored exhaustively, or searched for with properties.

# Managed workers

[Spawn] starts a worker goroutine owning a piece of state. The driver hands
the worker closures with [Handle.Submit]; the worker runs each closure against
its state one at a time. Inside a closure, every access to an instrumented
register from [github.com/jellevandenhooff/interleave/atomic] suspends the
worker before and after the raw memory operation, handing control back to the
driver. The driver observes suspensions with [Handle.IsPaused] and grants
single steps with [Handle.Unpause].

Submit and Unpause are synchronous: they return only once the worker has
reached a stable state again, either paused at the next suspension point or
idle with the closure complete. The driver therefore never needs to poll, and
at any instant at most one of the two parties is running.

# Driving interleavings

Which worker advances next is the unit of nondeterminism under test, and it is
entirely the driver's choice. The
[github.com/jellevandenhooff/interleave/explore] package provides a seeded
random source and an exhaustive enumerator; any other supplier of small
integer decisions works as well.

A typical exhaustive exploration of two workers incrementing a shared counter:

	g := explore.NewGen()
	for !g.Done() {
		var reg atomic.Uint32
		w1, w2 := interleave.Spawn(&reg), interleave.Spawn(&reg)
		// consume decisions from g to submit work and unpause workers,
		// checking invariants on reg after every run
		interleave.Drain(w1, w2)
		w1.Join()
		w2.Join()
	}

# Contract

Handles follow a strict state machine: submitting while a worker is busy, or
unpausing a worker that is not paused, is a bug in the driver and panics.
Recovering would mask exactly the races this harness exists to expose.
*/
package interleave
