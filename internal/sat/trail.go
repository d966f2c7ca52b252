package sat

// reasonKind tags which of the four AssignReason variants is active (§3).
type reasonKind uint8

const (
	reasonNone reasonKind = iota
	reasonDecision
	reasonBinary
	reasonClause
)

// AssignReason explains why a literal was assigned. Binary-clause reasons
// store the other literal inline so conflict analysis never has to look the
// clause up (§3).
type AssignReason struct {
	kind   reasonKind
	lit    Literal // valid when kind == reasonBinary
	clause *Clause // valid when kind == reasonClause
}

var noReason = AssignReason{kind: reasonNone}
var decisionReason = AssignReason{kind: reasonDecision}

func binaryReason(other Literal) AssignReason {
	return AssignReason{kind: reasonBinary, lit: other}
}

func clauseReason(c *Clause) AssignReason {
	return AssignReason{kind: reasonClause, clause: c}
}

// IsDecision reports whether the literal was assigned by a branching
// decision rather than implied by propagation.
func (r AssignReason) IsDecision() bool { return r.kind == reasonDecision }

// IsNone reports whether the literal is unassigned.
func (r AssignReason) IsNone() bool { return r.kind == reasonNone }

// savedEntry is one literal parked in the trail-saving buffer on backjump
// (§4.7): an implied literal popped by the backjump, together with its
// reason. Every implied literal is parked; replaySaved re-asserts only those
// whose reason still forces them at the next propagation.
type savedEntry struct {
	lit    Literal
	reason AssignReason
}

// Trail is the AssignStack of §3/§4: the chronological sequence of assigned
// literals, the decision-level boundaries within it, and the per-variable
// assignment state (value, level, reason). It exclusively owns
// per-variable assignment state (§3 "Ownership").
type Trail struct {
	lits []Literal

	// levelBounds[i] is the index into lits at which decision level i+1
	// begins; len(levelBounds) is the current decision level.
	levelBounds []int

	assigns []LBool        // indexed by Literal
	level   []int          // indexed by VarID
	reason  []AssignReason // indexed by VarID

	// qHead is the index of the next trail literal to propagate (§3).
	qHead int

	// saveBuf holds literals parked by trail saving (§4.7), replayed at
	// the start of the next Propagate call before consulting watch lists.
	saveBuf []savedEntry
}

func newTrail() *Trail {
	return &Trail{}
}

func (t *Trail) growTo(nVars int) {
	for len(t.level) < nVars {
		t.assigns = append(t.assigns, Unknown, Unknown)
		t.level = append(t.level, -1)
		t.reason = append(t.reason, noReason)
	}
}

// DecisionLevel returns the current decision level; level 0 is the root.
func (t *Trail) DecisionLevel() int { return len(t.levelBounds) }

// Len returns the number of currently assigned literals.
func (t *Trail) Len() int { return len(t.lits) }

// LitValue returns the current value of literal l.
func (t *Trail) LitValue(l Literal) LBool { return t.assigns[l] }

// VarValue returns the current value of variable v, expressed as the value
// of its positive literal.
func (t *Trail) VarValue(v int) LBool { return t.assigns[PositiveLiteral(v)] }

// LevelOf returns the decision level at which variable v was assigned, or
// -1 if it is unassigned.
func (t *Trail) LevelOf(v int) int { return t.level[v] }

// ReasonOf returns the AssignReason for variable v.
func (t *Trail) ReasonOf(v int) AssignReason { return t.reason[v] }

// newDecisionLevel opens a new decision level at the current trail
// position.
func (t *Trail) newDecisionLevel() {
	t.levelBounds = append(t.levelBounds, len(t.lits))
}

// levelStart returns the trail index at which level (1-based) begins.
func (t *Trail) levelStart(level int) int {
	if level == 0 {
		return 0
	}
	return t.levelBounds[level-1]
}

// push assigns l to true at the current decision level with the given
// reason and appends it to the trail. The caller must have already checked
// that l is unassigned.
func (t *Trail) push(l Literal, reason AssignReason) {
	v := l.VarID()
	t.assigns[l] = True
	t.assigns[l.Opposite()] = False
	t.level[v] = t.DecisionLevel()
	t.reason[v] = reason
	t.lits = append(t.lits, l)
}

// pushAt is like push but assigns the literal at an explicit decision
// level; Solver.learn uses it to assert a learnt clause's first literal at
// the backjump (or chronoBT) level, or at level 0 for a unit.
func (t *Trail) pushAt(l Literal, level int, reason AssignReason) {
	v := l.VarID()
	t.assigns[l] = True
	t.assigns[l.Opposite()] = False
	t.level[v] = level
	t.reason[v] = reason
	t.lits = append(t.lits, l)
}

// popOne undoes the most recently assigned trail literal and returns it
// along with its reason, so callers (VarHeap for phase saving, Trail
// saving) can react before the state is cleared.
func (t *Trail) popOne() (Literal, AssignReason) {
	l := t.lits[len(t.lits)-1]
	t.lits = t.lits[:len(t.lits)-1]
	v := l.VarID()
	r := t.reason[v]
	t.assigns[l] = Unknown
	t.assigns[l.Opposite()] = Unknown
	t.reason[v] = noReason
	t.level[v] = -1
	return l, r
}

// truncateLevel pops every literal assigned above the given level, keeping
// that level's own assignments, and invokes onPop for every undone literal
// in LIFO order. It is a no-op if the trail is already at or below level.
func (t *Trail) truncateLevel(level int, onPop func(Literal, AssignReason)) {
	if level >= t.DecisionLevel() {
		return
	}
	target := t.levelStart(level + 1)
	for len(t.lits) > target {
		l, r := t.popOne()
		onPop(l, r)
	}
	t.levelBounds = t.levelBounds[:level]
	if t.qHead > len(t.lits) {
		t.qHead = len(t.lits)
	}
}

// clearSaveBuffer discards any pending trail-saving entries, used when
// they can no longer be trusted (e.g. the clause database changed under
// them).
func (t *Trail) clearSaveBuffer() {
	t.saveBuf = t.saveBuf[:0]
}
