package sat

import "testing"

func TestVarHeapNextDecisionUsesSavedPhase(t *testing.T) {
	h := newVarHeap(0.9, 0.99, true)
	h.addVar()
	h.addVar()

	h.phases[0] = False
	h.phases[1] = True

	assigned := map[int]bool{}
	isAssigned := func(v int) bool { return assigned[v] }

	lits := map[int]Literal{}
	for i := 0; i < 2; i++ {
		l := h.NextDecision(isAssigned)
		lits[l.VarID()] = l
		assigned[l.VarID()] = true
	}

	if lits[0].IsPositive() {
		t.Error("variable 0 should have been decided negative (saved phase False)")
	}
	if !lits[1].IsPositive() {
		t.Error("variable 1 should have been decided positive (saved phase True)")
	}
}

func TestVarHeapNextDecisionSkipsAssigned(t *testing.T) {
	h := newVarHeap(0.9, 0.99, true)
	h.addVar()
	h.addVar()

	assigned := map[int]bool{0: true}
	isAssigned := func(v int) bool { return assigned[v] }

	l := h.NextDecision(isAssigned)
	if l.VarID() != 1 {
		t.Errorf("NextDecision returned var %d, want 1 (var 0 is already assigned)", l.VarID())
	}
}

func TestVarHeapOnUnassignBlendsRewardAndSavesPhase(t *testing.T) {
	h := newVarHeap(0.5, 0.99, true)
	h.addVar()

	h.onAssign(0, 10)
	h.bumpParticipation(0)
	h.bumpParticipation(0)
	// interval = 15-10 = 5, reward = 2/5 = 0.4
	h.onUnassign(0, True, 15)

	want := 0.5*0 + 0.5*0.4
	if diff := h.scores[0] - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("scores[0] = %f, want %f", h.scores[0], want)
	}
	if h.phases[0] != True {
		t.Errorf("phases[0] = %v, want True", h.phases[0])
	}
	if h.assignedAt[0] != -1 {
		t.Errorf("assignedAt[0] = %d, want -1 after unassign", h.assignedAt[0])
	}
}

func TestVarHeapSetModeSwitchesDecayRate(t *testing.T) {
	h := newVarHeap(0.8, 0.95, false)
	if h.decayRate != 0.8 {
		t.Fatalf("initial decayRate = %f, want 0.8 (focused)", h.decayRate)
	}
	h.SetMode(modeExploitation)
	if h.decayRate != 0.95 {
		t.Errorf("decayRate after SetMode(exploitation) = %f, want 0.95", h.decayRate)
	}
	h.SetMode(modeExploration)
	if h.decayRate != 0.8 {
		t.Errorf("decayRate after SetMode(exploration) = %f, want 0.8", h.decayRate)
	}
}

func TestVarHeapRephaseCopiesBestPhases(t *testing.T) {
	h := newVarHeap(0.9, 0.99, true)
	h.addVar()
	h.phases[0] = False
	h.NoteTrailLength(1) // snapshots current (False) phase as best
	h.phases[0] = True    // diverges from best without a new trail-length record
	h.Rephase()
	if h.phases[0] != False {
		t.Errorf("phases[0] after Rephase = %v, want False (restored from best)", h.phases[0])
	}
}
