package interleave

import (
	"sync/atomic"

	"github.com/jellevandenhooff/interleave/internal/gate"
)

var nextWorkerID atomic.Int64

// A Handle controls one managed worker goroutine owning a value of type T.
// The state is moved into the worker at spawn time and is never touched by
// the driver directly; all interaction goes through submitted closures.
//
// A Handle is driven by a single logical driver: at most one control
// operation (Submit, Unpause, Join) may be in flight at a time. IsPaused may
// be called at any moment.
type Handle[T any] struct {
	id   int64
	gate *gate.Gate
	work chan func(T)
	done chan struct{}

	joined bool
}

// A Worker is the state-independent driver surface of a Handle, for code
// driving handles with different state types together.
type Worker interface {
	IsPaused() bool
	Unpause()
	Join()
}

// Spawn starts a worker goroutine owning state and returns its Handle, in the
// idle state. The worker registers its pause gate for the calling goroutine,
// then loops receiving closures until the handle is joined. Receiving is the
// one indefinite block in the protocol; it only happens while no work and no
// suspension is outstanding.
func Spawn[T any](state T) *Handle[T] {
	h := &Handle[T]{
		id:   nextWorkerID.Add(1),
		gate: gate.New(),
		// The submit precondition guarantees at most one closure is ever
		// outstanding, so a buffer of one keeps the enqueue under the gate
		// lock from blocking.
		work: make(chan func(T), 1),
		done: make(chan struct{}),
	}
	go h.run(state)
	logger().Debug("spawned worker", "worker", h.id)
	return h
}

func (h *Handle[T]) run(state T) {
	defer close(h.done)
	unbind := gate.Bind(h.gate)
	defer unbind()
	for fn := range h.work {
		fn(state)
		h.gate.Complete()
	}
}

// Submit hands fn to the worker for execution against its state and blocks
// until the worker either pauses at a suspension point inside fn or completes
// it. Immediately after Submit returns, IsPaused accurately reflects which of
// the two happened.
//
// The handle must be idle. Submitting while the worker is running or paused
// is a contract violation and panics.
func (h *Handle[T]) Submit(fn func(T)) {
	h.gate.Submit(func() { h.work <- fn })
	logger().Debug("submitted work", "worker", h.id, "paused", h.gate.Paused())
}

// IsPaused reports whether the worker is blocked inside a suspension point.
// It is a non-blocking snapshot.
func (h *Handle[T]) IsPaused() bool {
	return h.gate.Paused()
}

// Unpause lets a paused worker proceed exactly one step, blocking until the
// worker pauses at the next suspension point or completes its closure.
//
// The worker must be paused; unpausing an idle or running worker panics.
func (h *Handle[T]) Unpause() {
	h.gate.Resume()
	logger().Debug("unpaused worker", "worker", h.id, "paused", h.gate.Paused())
}

// Join shuts the worker down and waits for its goroutine to exit. If the
// worker is paused mid-closure, Join first resumes it repeatedly so the
// closure runs to completion; Join never deadlocks on a paused worker.
//
// After Join the handle must not be used.
func (h *Handle[T]) Join() {
	if h.joined {
		panic("interleave: handle already joined")
	}
	h.joined = true
	for h.IsPaused() {
		h.Unpause()
	}
	close(h.work)
	<-h.done
	logger().Debug("joined worker", "worker", h.id)
}

// Drain resumes every paused worker until none is paused, running all
// outstanding closures to completion. Use it to wind down deterministically
// when a decision source runs out of steps while workers are still
// mid-closure, so no worker is left stranded.
func Drain(workers ...Worker) {
	for {
		resumed := false
		for _, w := range workers {
			if w.IsPaused() {
				w.Unpause()
				resumed = true
			}
		}
		if !resumed {
			return
		}
	}
}
