package sat

import "github.com/rhartert/yagh"

// VarHeap is the VarActivity + max-heap component of §4.6: it orders
// unassigned variables by LRB (Learning-Rate-Based) activity, remembers
// each variable's last and best-known phase, and exclusively owns the
// priority queue (§3 "Ownership").
//
// The underlying heap (github.com/rhartert/yagh) is a min-heap keyed by
// float64, so scores are stored negated: popping the minimum key yields
// the variable with the highest activity.
type VarHeap struct {
	order *yagh.IntMap[float64]

	scores []float64 // LRB activity, >= 0

	// LRB bookkeeping (§4.6): participated[v] counts how many times v took
	// part in conflict resolution (directly, or via reason-side rewarding)
	// since it was last assigned; assignedAt[v] is the global conflict
	// counter at the moment v was assigned, or -1 if v is unassigned.
	participated []int64
	assignedAt   []int64

	// decayRate blends the freshly computed reward into the running
	// score. It cycles between two values at stage-segment boundaries
	// (§4.5, §4.6 "reward annealing"): focusedDecay during the
	// exploration mode segments and stableDecay during exploitation mode
	// segments.
	decayRate    float64
	focusedDecay float64
	stableDecay  float64

	phases     []LBool
	bestPhases []LBool

	phaseSaving bool

	// bestTrailLen is the longest conflict-free trail observed; when the
	// trail exceeds it, the current phases are snapshotted as best (§4.6).
	bestTrailLen int
}

func newVarHeap(focusedDecay, stableDecay float64, phaseSaving bool) *VarHeap {
	return &VarHeap{
		order:        yagh.New[float64](0),
		decayRate:    focusedDecay,
		focusedDecay: focusedDecay,
		stableDecay:  stableDecay,
		phaseSaving:  phaseSaving,
	}
}

// addVar registers a new variable with a neutral score and a default
// (positive) phase.
func (h *VarHeap) addVar() {
	v := len(h.scores)
	h.scores = append(h.scores, 0)
	h.participated = append(h.participated, 0)
	h.assignedAt = append(h.assignedAt, -1)
	h.phases = append(h.phases, True)
	h.bestPhases = append(h.bestPhases, True)

	h.order.GrowBy(1)
	h.order.Put(v, 0)
}

// SetMode toggles the decay rate used by reward blending between the
// "exploration" (focused) and "exploitation" (stable) rates (§4.5, §4.6).
func (h *VarHeap) SetMode(mode reductionMode) {
	if mode == modeExploitation {
		h.decayRate = h.stableDecay
	} else {
		h.decayRate = h.focusedDecay
	}
}

// onAssign records that v has just been assigned, starting its
// learning-rate interval.
func (h *VarHeap) onAssign(v int, conflictCount int64) {
	h.assignedAt[v] = conflictCount
	h.participated[v] = 0
}

// bumpParticipation increments v's participation counter for the conflict
// currently being analyzed (§4.6 "reason-side rewarding" bumps reason
// literals in addition to resolution participants).
func (h *VarHeap) bumpParticipation(v int) {
	if h.assignedAt[v] >= 0 {
		h.participated[v]++
	}
}

// onUnassign closes out v's learning-rate interval, blends the observed
// reward into its score, and reinserts it into the heap (§4.6).
func (h *VarHeap) onUnassign(v int, val LBool, conflictCount int64) {
	if h.phaseSaving && val != Unknown {
		h.phases[v] = val
	}

	if at := h.assignedAt[v]; at >= 0 {
		if interval := conflictCount - at; interval > 0 {
			reward := float64(h.participated[v]) / float64(interval)
			h.scores[v] = h.decayRate*h.scores[v] + (1-h.decayRate)*reward
		}
	}
	h.assignedAt[v] = -1
	h.participated[v] = 0

	h.order.Put(v, -h.scores[v])
}

// rescaleIfNeeded keeps scores bounded, rescaling all activities down
// together once the maximum grows too large (§4.6).
func (h *VarHeap) rescaleIfNeeded() {
	max := 0.0
	for _, s := range h.scores {
		if s > max {
			max = s
		}
	}
	if max <= 1e100 {
		return
	}
	for v, s := range h.scores {
		h.scores[v] = s * 1e-100
		if h.order.Contains(v) {
			h.order.Put(v, -h.scores[v])
		}
	}
}

// NextDecision pops the unassigned variable with the highest score and
// returns the literal to assign, using the saved phase (§4.6). The best
// phase is used only through Rephase, which copies it over the saved phase.
func (h *VarHeap) NextDecision(isAssigned func(int) bool) Literal {
	for {
		next, ok := h.order.Pop()
		if !ok {
			panic("sat: VarHeap.NextDecision called with no unassigned variables")
		}
		if isAssigned(next.Elem) {
			continue // lazily deleted: was assigned after being pushed
		}
		v := next.Elem
		switch h.phases[v] {
		case False:
			return NegativeLiteral(v)
		default:
			return PositiveLiteral(v)
		}
	}
}

// NoteTrailLength updates the best-phase snapshot (§4.6) when the trail
// reaches a new all-time maximum length without a conflict.
func (h *VarHeap) NoteTrailLength(trailLen int) {
	if trailLen <= h.bestTrailLen {
		return
	}
	h.bestTrailLen = trailLen
	copy(h.bestPhases, h.phases)
}

// Rephase copies the best-known phase over the saved phase for every
// variable (§4.5 "end of cycle").
func (h *VarHeap) Rephase() {
	copy(h.phases, h.bestPhases)
}
