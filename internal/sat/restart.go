package sat

// EMA is an exponential moving average: value = decay*value + x*(1-decay),
// with the first Add simply seeding the average.
type EMA struct {
	decay float64
	value float64
	init  bool
}

// NewEMA returns an EMA with the given decay in [0, 1).
func NewEMA(decay float64) EMA {
	return EMA{decay: decay}
}

// emaForWindow derives a decay factor from a documented "window length"
// option (e.g. --rll/--rls/--ral/--ras), using the standard N-sample EMA
// approximation decay = 1 - 1/N.
func emaForWindow(window int) EMA {
	return NewEMA(1 - 1/float64(window))
}

// Add folds x into the average.
func (e *EMA) Add(x float64) {
	if !e.init {
		e.init = true
		e.value = x
		return
	}
	e.value = e.decay*e.value + x*(1-e.decay)
}

// Val returns the current average.
func (e *EMA) Val() float64 { return e.value }

// luby returns the n-th (1-indexed) element of the Luby sequence
// (1,1,2,1,1,2,4,1,...), used to scale stage lengths (§4.5).
func luby(n int) int {
	k := 1
	for (1<<uint(k))-1 < n {
		k++
	}
	if (1<<uint(k))-1 == n {
		return 1 << uint(k-1)
	}
	return luby(n - (1 << uint(k-1)) + 1)
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// lubyBaseInterval is the number of conflicts one unit of Luby scale
// represents; a stage with luby(n) == 1 lasts lubyBaseInterval*RestartStep
// conflicts (§4.5).
const lubyBaseInterval = 100

// StageManager is the Restart/StageManager component of §4.5: it tracks
// the EMAs used to trigger and block restarts, and the nested Luby
// stage/cycle/segment scheduler that gates reduction, vivification,
// rephasing, and subsumption+BVE.
type StageManager struct {
	emaLBDFast EMA
	emaLBDSlow EMA
	emaAsgFast EMA
	emaAsgSlow EMA

	rlt float64 // restart LBD threshold
	rat float64 // restart blocking (asg) threshold
	rs  int     // Luby base-interval multiplier ("rst_step")

	aboveCount int // conflicts in a row above the forcing-restart ratio

	stageIndex     int
	stageConflicts int64
	stageBudget    int64
	maxLuby        int
	cycleCount     int64
	segmentCycles  int64

	// reductionMode/heap decay mode alternate with the stage segment
	// (§4.3, §4.5, §4.6).
	mode reductionMode
}

// NewStageManager configures a StageManager from solver options.
func NewStageManager(o Options) *StageManager {
	sm := &StageManager{
		emaLBDFast: emaForWindow(o.RestartLBDFastWindow),
		emaLBDSlow: emaForWindow(o.RestartLBDSlowWindow),
		emaAsgFast: emaForWindow(o.RestartAsgFastWindow),
		emaAsgSlow: emaForWindow(o.RestartAsgSlowWindow),
		rlt:        o.RestartLBDThreshold,
		rat:        o.RestartBlockingThreshold,
		rs:         o.RestartStep,
		stageIndex: 1,
	}
	sm.maxLuby = luby(1)
	sm.stageBudget = int64(sm.maxLuby) * lubyBaseInterval * int64(sm.rs)
	return sm
}

// stageEvent reports which scheduling boundaries a conflict crossed
// (§4.5); several can be true simultaneously since a segment boundary
// implies a cycle boundary implies a stage boundary.
type stageEvent struct {
	endStage, endCycle, endSegment bool
}

// onConflict advances the EMAs and the Luby scheduler exactly once per
// conflict (§5 ordering guarantee), returning which boundaries were
// crossed and whether a forcing restart is due (subject to the caller
// checking blocking separately).
func (sm *StageManager) onConflict(lbd int, trailLen int) stageEvent {
	sm.emaLBDFast.Add(float64(lbd))
	sm.emaLBDSlow.Add(float64(lbd))
	sm.emaAsgFast.Add(float64(trailLen))
	sm.emaAsgSlow.Add(float64(trailLen))

	if sm.forcingRatio() > sm.rlt {
		sm.aboveCount++
	} else {
		sm.aboveCount = 0
	}

	sm.stageConflicts++
	if sm.stageConflicts < sm.stageBudget {
		return stageEvent{}
	}

	sm.stageConflicts = 0
	sm.stageIndex++
	lv := luby(sm.stageIndex)
	sm.stageBudget = int64(lv) * lubyBaseInterval * int64(sm.rs)

	ev := stageEvent{endStage: true}
	if lv > sm.maxLuby {
		sm.maxLuby = lv
		sm.cycleCount++
		sm.segmentCycles++
		ev.endCycle = true

		if isPowerOfTwo(sm.segmentCycles) {
			ev.endSegment = true
			sm.mode = toggleMode(sm.mode)
		}
	}

	return ev
}

func toggleMode(m reductionMode) reductionMode {
	if m == modeExploration {
		return modeExploitation
	}
	return modeExploration
}

// Mode returns the current exploration/exploitation mode, flipped at
// segment boundaries (§4.3, §4.5, §4.6).
func (sm *StageManager) Mode() reductionMode { return sm.mode }

func (sm *StageManager) forcingRatio() float64 {
	if sm.emaLBDSlow.Val() == 0 {
		return 0
	}
	return sm.emaLBDFast.Val() / sm.emaLBDSlow.Val()
}

// ForcingRestart reports whether the fast/slow LBD EMA ratio has stayed
// above rlt for a Luby-scaled number of conflicts (§4.5).
func (sm *StageManager) ForcingRestart() bool {
	sustain := luby(sm.stageIndex)
	if sustain < 1 {
		sustain = 1
	}
	return sm.aboveCount >= sustain
}

// Blocked reports whether the current trail length is large relative to
// the slow assignment-length EMA, meaning the search is making enough
// progress that a pending forcing restart should be suppressed (§4.5).
func (sm *StageManager) Blocked(trailLen int) bool {
	if sm.emaAsgSlow.Val() == 0 {
		return false
	}
	return float64(trailLen)/sm.emaAsgSlow.Val() > sm.rat
}

// ResetAfterRestart clears the forcing-restart hysteresis counter.
func (sm *StageManager) ResetAfterRestart() {
	sm.aboveCount = 0
}
