// Package atomic provides atomic integer registers whose every access is a
// suspension point for the interleave harness.
//
// Each operation decomposes into suspend, raw atomic access, suspend. When the
// calling goroutine is a managed worker each suspension hands control back to
// the driver, which is the granularity needed to expose check-then-act races
// such as a load followed by a separate store. On goroutines that are not
// managed the suspensions are no-ops and the types behave exactly like their
// sync/atomic counterparts, so code under test can use them unconditionally.
package atomic

import (
	sysatomic "sync/atomic"

	"github.com/jellevandenhooff/interleave/internal/gate"
)

// A MemoryOrder names the ordering constraint of an atomic operation.
//
// Go's sync/atomic executes every operation with sequentially consistent
// ordering, so the order argument is carried through unchanged for API
// fidelity but never weakens the underlying operation. The suspension points
// themselves carry no ordering guarantee.
type MemoryOrder int

const (
	Relaxed MemoryOrder = iota
	Acquire
	Release
	AcqRel
	SeqCst
)

func (o MemoryOrder) String() string {
	switch o {
	case Relaxed:
		return "relaxed"
	case Acquire:
		return "acquire"
	case Release:
		return "release"
	case AcqRel:
		return "acqrel"
	case SeqCst:
		return "seqcst"
	default:
		return "invalid"
	}
}

// A Uint32 is an instrumented atomic uint32 register. The zero value is zero.
type Uint32 struct {
	v sysatomic.Uint32
}

// Load returns the current value.
func (u *Uint32) Load(order MemoryOrder) uint32 {
	gate.SuspendCurrent()
	v := u.v.Load()
	gate.SuspendCurrent()
	return v
}

// Store sets the value.
func (u *Uint32) Store(value uint32, order MemoryOrder) {
	gate.SuspendCurrent()
	u.v.Store(value)
	gate.SuspendCurrent()
}

// Add atomically adds delta to the value and returns the previous value.
func (u *Uint32) Add(delta uint32, order MemoryOrder) uint32 {
	gate.SuspendCurrent()
	v := u.v.Add(delta) - delta
	gate.SuspendCurrent()
	return v
}

// A Uint64 is an instrumented atomic uint64 register. The zero value is zero.
type Uint64 struct {
	v sysatomic.Uint64
}

// Load returns the current value.
func (u *Uint64) Load(order MemoryOrder) uint64 {
	gate.SuspendCurrent()
	v := u.v.Load()
	gate.SuspendCurrent()
	return v
}

// Store sets the value.
func (u *Uint64) Store(value uint64, order MemoryOrder) {
	gate.SuspendCurrent()
	u.v.Store(value)
	gate.SuspendCurrent()
}

// Add atomically adds delta to the value and returns the previous value.
func (u *Uint64) Add(delta uint64, order MemoryOrder) uint64 {
	gate.SuspendCurrent()
	v := u.v.Add(delta) - delta
	gate.SuspendCurrent()
	return v
}
