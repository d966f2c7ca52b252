package sat

import "testing"

func TestLubySequence(t *testing.T) {
	// The first 15 values of the canonical Luby sequence.
	want := []int{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		if got := luby(i + 1); got != w {
			t.Errorf("luby(%d) = %d, want %d", i+1, got, w)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int64{1, 2, 4, 8, 16, 1024} {
		if !isPowerOfTwo(n) {
			t.Errorf("isPowerOfTwo(%d) = false, want true", n)
		}
	}
	for _, n := range []int64{0, 3, 5, 6, 7, 9, -1} {
		if isPowerOfTwo(n) {
			t.Errorf("isPowerOfTwo(%d) = true, want false", n)
		}
	}
}

func TestEMASeedsOnFirstAdd(t *testing.T) {
	e := NewEMA(0.9)
	e.Add(5)
	if got := e.Val(); got != 5 {
		t.Errorf("first Add: Val() = %f, want 5", got)
	}
	e.Add(5)
	if got := e.Val(); got != 5 {
		t.Errorf("steady-state Add: Val() = %f, want 5", got)
	}
}

func TestStageManagerModeTogglesAtSegmentBoundary(t *testing.T) {
	o := DefaultOptions
	o.RestartStep = 1
	sm := NewStageManager(o)

	initial := sm.Mode()
	sawToggle := false
	// The first segment boundary occurs once segmentCycles becomes a
	// power of two; drive enough conflicts to guarantee at least one
	// stage (and likely several cycles) without depending on exact
	// timing, since lubyBaseInterval scales the budget.
	for i := 0; i < lubyBaseInterval*40; i++ {
		ev := sm.onConflict(2, 10)
		if ev.endSegment && sm.Mode() != initial {
			sawToggle = true
			break
		}
	}
	if !sawToggle {
		t.Error("StageManager never toggled mode across many conflicts")
	}
}
