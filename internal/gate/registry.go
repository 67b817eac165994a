package gate

import "sync"

// Gates are looked up by the worker's goroutine ID so instrumented registers
// can find the gate of their calling goroutine without being told about it.
// The registry is scoped per goroutine rather than process-wide state so
// independent workers in one process never interfere.
var (
	registryMu sync.RWMutex
	registry   = make(map[int64]*Gate)
)

// Bind associates g with the calling goroutine and returns a function that
// removes the association. Must be called from the worker goroutine itself,
// before it runs any submitted closure.
func Bind(g *Gate) (unbind func()) {
	id := GoroutineID()
	registryMu.Lock()
	if _, ok := registry[id]; ok {
		registryMu.Unlock()
		panic("gate: goroutine already bound to a gate")
	}
	registry[id] = g
	registryMu.Unlock()

	return func() {
		registryMu.Lock()
		delete(registry, id)
		registryMu.Unlock()
	}
}

// Current returns the gate bound to the calling goroutine, or nil if the
// goroutine is not managed.
func Current() *Gate {
	id := GoroutineID()
	registryMu.RLock()
	g := registry[id]
	registryMu.RUnlock()
	return g
}

// SuspendCurrent suspends the calling goroutine at a pause point if it is
// managed. On unmanaged goroutines it is a no-op, which makes instrumented
// registers drop-in usable outside any harness.
func SuspendCurrent() {
	if g := Current(); g != nil {
		g.Suspend()
	}
}
