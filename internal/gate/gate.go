// Package gate implements the rendezvous protocol between a managed worker
// goroutine and the driver controlling it.
//
// A Gate holds a three-state variable guarded by a mutex with a single
// condition variable shared by both parties. The worker moves the state from
// running to paused (inside a suspension point) or from running to ready
// (when a closure completes); the driver moves it from ready to running
// (submitting a closure) or from paused to running (resuming). Driver-facing
// transitions block until the worker reaches a stable state again, so after
// Submit or Resume returns the driver knows the worker is either paused or
// ready and never has to poll.
//
// All preconditions are programming contracts, not recoverable conditions,
// and are enforced with panics.
package gate

import "sync"

// A State is the worker's position in the handshake with its driver.
type State int

const (
	// StateReady means the worker is idle with no closure in flight.
	StateReady State = iota
	// StateRunning means the worker is executing a closure and is not inside
	// a suspension point.
	StateRunning
	// StatePaused means the worker is blocked inside a suspension point
	// awaiting driver permission to continue.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "invalid"
	}
}

// A Gate coordinates exactly one worker goroutine with one driver. The zero
// value is not usable; call New.
type Gate struct {
	mu    sync.Mutex
	cond  sync.Cond // signals every state transition, shared by both parties
	state State
}

// New returns a Gate in the ready state.
func New() *Gate {
	g := &Gate{state: StateReady}
	g.cond.L = &g.mu
	return g
}

// Submit transitions the gate from ready to running and calls enqueue while
// holding the gate lock; enqueue must hand the closure to the worker without
// blocking. Submit then blocks until the worker either pauses at a suspension
// point or completes the closure.
//
// Called only by the driver, only while the gate is ready.
func (g *Gate) Submit(enqueue func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateReady {
		panic("gate: submit while " + g.state.String())
	}
	g.state = StateRunning
	enqueue()
	for g.state == StateRunning {
		g.cond.Wait()
	}
}

// Resume transitions the gate from paused to running, wakes the worker, and
// blocks until the worker either pauses at the next suspension point or
// completes its closure.
//
// Called only by the driver, only while the gate is paused.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePaused {
		panic("gate: resume while " + g.state.String())
	}
	g.state = StateRunning
	g.cond.Broadcast()
	for g.state == StateRunning {
		g.cond.Wait()
	}
}

// Suspend marks the worker paused, wakes the driver, and blocks until the
// driver resumes the worker. The suspension point never touches the state the
// worker operates on; it only yields control.
//
// Called only by the worker, only while the gate is running.
func (g *Gate) Suspend() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateRunning {
		panic("gate: suspend while " + g.state.String())
	}
	g.state = StatePaused
	g.cond.Broadcast()
	for g.state == StatePaused {
		g.cond.Wait()
	}
	if g.state != StateRunning {
		panic("gate: woke from suspend while " + g.state.String())
	}
}

// Complete transitions the gate from running to ready and wakes the driver
// blocked in Submit or Resume.
//
// Called only by the worker, after its closure returns.
func (g *Gate) Complete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateRunning {
		panic("gate: complete while " + g.state.String())
	}
	g.state = StateReady
	g.cond.Broadcast()
}

// State returns a snapshot of the gate state. It never blocks waiting for a
// transition.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Paused reports whether the worker is currently blocked inside a suspension
// point.
func (g *Gate) Paused() bool {
	return g.State() == StatePaused
}
