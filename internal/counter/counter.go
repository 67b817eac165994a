// Package counter holds the shared register scenario the harness demonstrates
// itself on: a counter whose increment is a plain load-then-store, not an
// atomic read-modify-write. Two workers incrementing concurrently can both
// read the same value and lose an update, which an adversarial interleaving
// reproduces deterministically.
package counter

import "github.com/jellevandenhooff/interleave/atomic"

// A Counter counts up on an instrumented register. The zero value is zero.
type Counter struct {
	value atomic.Uint32
}

// Increment adds one using a separate load and store. The non-atomic
// read-modify-write is intentional; it is the bug the harness exists to
// expose. See IncrementAtomic for the correct version.
func (c *Counter) Increment() {
	value := c.value.Load(atomic.SeqCst)
	c.value.Store(value+1, atomic.SeqCst)
}

// IncrementAtomic adds one using a single atomic read-modify-write. No
// interleaving of suspension points can lose an update through this path.
func (c *Counter) IncrementAtomic() {
	c.value.Add(1, atomic.SeqCst)
}

// Get returns the current count.
func (c *Counter) Get() uint32 {
	return c.value.Load(atomic.SeqCst)
}
