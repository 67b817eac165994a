package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/jellevandenhooff/interleave"
	"github.com/jellevandenhooff/interleave/explore"
	"github.com/jellevandenhooff/interleave/internal/counter"
)

const doc = `Interleave explores thread interleavings of a shared counter.

Usage: interleave [flags]

The counter's increment is a separate load and store, so two workers
incrementing concurrently can lose an update. Interleave drives managed
workers one suspension point at a time and reports which interleavings
lose updates.

In exhaustive mode every interleaving of the configured workload is
enumerated. In random mode a fixed number of seeded random schedules is
run instead; the same seed always produces the same schedules.

The flags are:

    -mode        exhaustive or random (default exhaustive)
    -workers     number of workers (default 2)
    -increments  increments submitted per worker (default 1)
    -atomic      use the atomic read-modify-write increment
    -seed        base seed for random mode (default 1)
    -runs        schedules to run in random mode (default 10)
    -budget      decisions per schedule in random mode (default 50)
`

var (
	modeFlag       = flag.String("mode", "exhaustive", "exploration mode (exhaustive|random)")
	workersFlag    = flag.Int("workers", 2, "number of workers")
	incrementsFlag = flag.Int("increments", 1, "increments submitted per worker")
	atomicFlag     = flag.Bool("atomic", false, "use the atomic increment")
	seedFlag       = flag.Int64("seed", 1, "base seed for random mode")
	runsFlag       = flag.Int("runs", 10, "schedules to run in random mode")
	budgetFlag     = flag.Int("budget", 50, "decisions per schedule in random mode")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), doc)
	}
	flag.Parse()

	if *workersFlag < 1 || *incrementsFlag < 0 {
		fmt.Fprintln(os.Stderr, "interleave: need at least one worker and a non-negative increment count")
		return 2
	}

	fn := (*counter.Counter).Increment
	if *atomicFlag {
		fn = (*counter.Counter).IncrementAtomic
	}

	switch *modeFlag {
	case "exhaustive":
		runExhaustive(fn, *workersFlag, *incrementsFlag)
	case "random":
		runRandom(fn, *workersFlag, *incrementsFlag, *seedFlag, *runsFlag, *budgetFlag)
	default:
		fmt.Fprintf(os.Stderr, "interleave: unknown mode %q\n", *modeFlag)
		return 2
	}
	return 0
}

// driveOnce runs one schedule: at every step it collects the workers that can
// act (paused, or idle with increments left) and asks pick which one moves.
// When pick reports the decision source is out, outstanding closures are
// drained so every submitted increment still completes.
func driveOnce(fn func(*counter.Counter), workers, increments int, pick func(n int) (int, bool)) uint32 {
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
		choice, ok := pick(len(ready))
		if !ok {
			break
		}
		i := ready[choice]
		if handles[i].IsPaused() {
			handles[i].Unpause()
		} else {
			handles[i].Submit(fn)
			remaining[i]--
		}
	}

	all := make([]interleave.Worker, len(handles))
	for i, h := range handles {
		all[i] = h
	}
	interleave.Drain(all...)
	for _, h := range handles {
		h.Join()
	}
	return c.Get()
}

func runExhaustive(fn func(*counter.Counter), workers, increments int) {
	expected := uint32(workers * increments)
	g := explore.NewGen()

	runs, lost := 0, 0
	minFinal := expected
	for !g.Done() {
		final := driveOnce(fn, workers, increments, func(n int) (int, bool) {
			return g.Intn(n), true
		})
		runs++
		if final < expected {
			lost++
			if final < minFinal {
				minFinal = final
			}
		}
	}

	fmt.Printf("explored %d interleavings\n", runs)
	if lost == 0 {
		fmt.Println("no lost updates")
	} else {
		fmt.Printf("lost updates in %d of %d interleavings (min final %d, expected %d)\n",
			lost, runs, minFinal, expected)
	}
}

func runRandom(fn func(*counter.Counter), workers, increments int, seed int64, runs, budget int) {
	expected := uint32(workers * increments)

	// Schedules are independent, so they run in parallel; results are
	// aggregated by index to keep the report deterministic.
	finals := make([]uint32, runs)
	var group errgroup.Group
	for i := range finals {
		group.Go(func() error {
			r := explore.NewRand(seed+int64(i), budget)
			finals[i] = driveOnce(fn, workers, increments, func(n int) (int, bool) {
				if r.Empty() {
					return 0, false
				}
				return r.Intn(n), true
			})
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		panic(err)
	}

	lost := 0
	minFinal := expected
	for _, final := range finals {
		if final < expected {
			lost++
			if final < minFinal {
				minFinal = final
			}
		}
	}

	fmt.Printf("ran %d random schedules (seed %d, budget %d)\n", runs, seed, budget)
	if lost == 0 {
		fmt.Println("no lost updates")
	} else {
		fmt.Printf("lost updates in %d of %d schedules (min final %d, expected %d)\n",
			lost, runs, minFinal, expected)
	}
}
