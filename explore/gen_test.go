package explore

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestGenFixedShape(t *testing.T) {
	// A driver that always asks the same two questions enumerates the full
	// cross product, last decision fastest.
	g := NewGen()
	var got [][2]int
	for !g.Done() {
		got = append(got, [2]int{g.Intn(3), g.Intn(2)})
	}
	want := [][2]int{
		{0, 0}, {0, 1},
		{1, 0}, {1, 1},
		{2, 0}, {2, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sequences mismatch (-want +got):\n%s", diff)
	}
}

func TestGenDependentShape(t *testing.T) {
	// Later questions may depend on earlier answers; the enumeration follows
	// whatever tree the driver spans.
	g := NewGen()
	var got [][]int
	for !g.Done() {
		seq := []int{g.Intn(2)}
		if seq[0] == 1 {
			seq = append(seq, g.Intn(2))
		}
		got = append(got, seq)
	}
	want := [][]int{{0}, {1, 0}, {1, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sequences mismatch (-want +got):\n%s", diff)
	}
}

func TestGenFlip(t *testing.T) {
	g := NewGen()
	var got []bool
	for !g.Done() {
		got = append(got, g.Flip())
	}
	if diff := cmp.Diff([]bool{false, true}, got); diff != "" {
		t.Errorf("flips mismatch (-want +got):\n%s", diff)
	}
}

func TestGenSingletonDecisionsDoNotMultiply(t *testing.T) {
	// Intn(1) has only one answer, so it must not add runs.
	g := NewGen()
	runs := 0
	for !g.Done() {
		g.Intn(1)
		g.Intn(2)
		g.Intn(1)
		runs++
	}
	if runs != 2 {
		t.Errorf("explored %d runs, want 2", runs)
	}
}

func TestGenIntnBoundPanics(t *testing.T) {
	g := NewGen()
	g.Done()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-positive bound")
		}
	}()
	g.Intn(0)
}

func TestGenShrunkBoundPanics(t *testing.T) {
	// A driver that asks a narrower question on a replayed prefix is not
	// deterministic and must be caught.
	g := NewGen()
	g.Done()
	g.Intn(2)
	g.Done()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for shrunk bound during replay")
		}
	}()
	g.Intn(1)
}

func TestGenCoversProduct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		arities := rapid.SliceOfN(rapid.IntRange(1, 3), 1, 4).Draw(t, "arities")
		product := 1
		for _, n := range arities {
			product *= n
		}

		g := NewGen()
		seen := map[string]bool{}
		runs := 0
		for !g.Done() {
			var seq []int
			for _, n := range arities {
				seq = append(seq, g.Intn(n))
			}
			key := fmt.Sprint(seq)
			if seen[key] {
				t.Errorf("sequence %s enumerated twice", key)
			}
			seen[key] = true
			runs++
		}

		if runs != product {
			t.Errorf("explored %d runs, want %d", runs, product)
		}
	})
}
