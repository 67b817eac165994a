package explore

import (
	"context"
	"encoding/binary"
	"log/slog"
)

// A Tracer fingerprints the sequence of decisions a driver takes so two runs
// can be compared for determinism. It keeps a running FNV-1 hash over every
// recorded step and optionally logs each step at debug level.
//
// The checksum is an in-memory test aid; it is not a persisted replay format.
type Tracer struct {
	step   int
	hash   fnv64
	logger *slog.Logger
}

// A TraceKey labels what kind of decision a recorded step was.
type TraceKey byte

const (
	// TraceKeySubmit records the driver submitting a closure to a worker.
	TraceKeySubmit TraceKey = iota
	// TraceKeyUnpause records the driver resuming a paused worker.
	TraceKeyUnpause
	// TraceKeyRunStarted and TraceKeyRunFinished bracket one explored run.
	TraceKeyRunStarted
	TraceKeyRunFinished
)

func (k TraceKey) String() string {
	switch k {
	case TraceKeySubmit:
		return "submit"
	case TraceKeyUnpause:
		return "unpause"
	case TraceKeyRunStarted:
		return "run-started"
	case TraceKeyRunFinished:
		return "run-finished"
	default:
		return "invalid"
	}
}

// NewTracer returns a Tracer logging steps to logger, which may not be nil;
// pass a logger with a high level to discard the step log.
func NewTracer(logger *slog.Logger) *Tracer {
	return &Tracer{
		step:   0,
		hash:   newFnv64(),
		logger: logger,
	}
}

// Record hashes one decision step: which kind of control action, which
// worker, and an action-specific argument (such as the observed final state).
func (t *Tracer) Record(key TraceKey, worker, arg uint64) {
	t.hash.Hash([]byte{byte(key)})
	t.hash.HashInt(worker)
	t.hash.HashInt(arg)

	if t.logger.Enabled(context.TODO(), slog.LevelDebug) {
		t.logger.LogAttrs(context.TODO(), slog.LevelDebug, "trace",
			slog.Int("step", t.step),
			slog.String("key", key.String()),
			slog.Int("worker", int(worker)),
			slog.Int("arg", int(arg)),
			slog.Uint64("sum", t.hash.Sum()))
	}
	t.step++
}

// Steps returns how many decisions have been recorded.
func (t *Tracer) Steps() int {
	return t.step
}

// Finalize returns the checksum over all recorded steps, laid out in
// little-endian byte order.
func (t *Tracer) Finalize() []byte {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], t.hash.Sum())
	return n[:]
}
