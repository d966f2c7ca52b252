package sat

// analyzeResult packs the output of conflict analysis (§4.2).
type analyzeResult struct {
	learnt        []Literal // learnt[0] is the asserting literal (1-UIP)
	backjumpLevel int       // max level among learnt[1:], or 0 if len(learnt) == 1
	lbd           int       // number of distinct decision levels in learnt
}

// explainConflict returns the antecedent literals of a falsified clause:
// the negation of every literal (all of which are currently false), which
// is the set of currently-true literals responsible for the conflict
// (§4.2 step 1).
func (s *Solver) explainConflict(c *Clause) []Literal {
	s.tmpReason = s.tmpReason[:0]
	for _, l := range c.Literals() {
		s.tmpReason = append(s.tmpReason, l.Opposite())
	}
	if c.IsLearnt() {
		s.cdb.bumpActivity(c)
	}
	return s.tmpReason
}

// explainAssign returns the antecedent literals that forced variable v's
// current assignment, following the reason stored on the trail (§3
// AssignReason, §4.2).
func (s *Solver) explainAssign(v int) []Literal {
	s.tmpReason = s.tmpReason[:0]
	switch r := s.trail.ReasonOf(v); r.kind {
	case reasonBinary:
		s.tmpReason = append(s.tmpReason, r.lit.Opposite())
	case reasonClause:
		for _, l := range r.clause.Literals()[1:] {
			s.tmpReason = append(s.tmpReason, l.Opposite())
		}
		if r.clause.IsLearnt() {
			s.cdb.bumpActivity(r.clause)
		}
		r.clause.MarkUsed()
	}
	return s.tmpReason
}

// rewardReasonSide applies §4.6's reason-side rewarding: in addition to the
// variables directly visited during resolution, the variables mentioned in
// THEIR reason clause are also credited with one unit of participation.
func (s *Solver) rewardReasonSide(v int) {
	switch r := s.trail.ReasonOf(v); r.kind {
	case reasonBinary:
		s.heap.bumpParticipation(r.lit.VarID())
	case reasonClause:
		for _, l := range r.clause.Literals()[1:] {
			s.heap.bumpParticipation(l.VarID())
		}
	}
}

// analyze performs 1-UIP conflict analysis starting from the falsified
// clause confl, returning the learnt clause, its LBD, and the backjump
// level (§4.2).
func (s *Solver) analyze(confl *Clause) analyzeResult {
	s.seenVar.Clear()

	// nPending counts literals from the current decision level that still
	// need to be resolved away; reaching 1 means the single remaining
	// current-level literal is the 1-UIP.
	nPending := 0

	s.tmpLearnt = s.tmpLearnt[:0]
	s.tmpLearnt = append(s.tmpLearnt, -1) // placeholder for the UIP literal

	backjumpLevel := 0
	currentLevel := s.trail.DecisionLevel()

	nextIdx := len(s.trail.lits) - 1
	var l Literal = -1 // the literal currently being resolved away; -1 for the initial conflict

	for {
		var antecedents []Literal
		if l == -1 {
			antecedents = s.explainConflict(confl)
		} else {
			antecedents = s.explainAssign(l.VarID())
		}

		for _, q := range antecedents {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)
			s.heap.bumpParticipation(v)
			s.rewardReasonSide(v)

			if s.trail.LevelOf(v) == currentLevel {
				nPending++
				continue
			}
			s.tmpLearnt = append(s.tmpLearnt, q.Opposite())
			if lvl := s.trail.LevelOf(v); lvl > backjumpLevel {
				backjumpLevel = lvl
			}
		}

		// Find the next seen literal walking the trail backwards.
		for {
			l = s.trail.lits[nextIdx]
			nextIdx--
			if s.seenVar.Contains(l.VarID()) {
				break
			}
		}

		nPending--
		if nPending <= 0 {
			break
		}
	}

	s.tmpLearnt[0] = l.Opposite()

	s.minimize()
	lbd := s.computeLBD(s.tmpLearnt)

	return analyzeResult{
		learnt:        append([]Literal(nil), s.tmpLearnt...),
		backjumpLevel: backjumpLevel,
		lbd:           lbd,
	}
}

// computeLBD returns the number of distinct decision levels among lits
// (§3, §4.2 step 5).
func (s *Solver) computeLBD(lits []Literal) int {
	count := 0
	stamp := s.lbdStamp + 1
	s.lbdStamp = stamp
	seen := s.lbdSeen
	for _, l := range lits {
		lvl := s.trail.LevelOf(l.VarID())
		for len(seen) <= lvl {
			seen = append(seen, 0)
		}
		if seen[lvl] != stamp {
			seen[lvl] = stamp
			count++
		}
	}
	s.lbdSeen = seen
	return count
}

// minimize drops literals of tmpLearnt whose reason clause's other
// literals are all already "seen" (i.e. dominated by the kept literals),
// the standard bounded self-subsumption minimisation (§4.2 step 4). The
// asserting literal (index 0) is never removed.
func (s *Solver) minimize() {
	lits := s.tmpLearnt
	j := 1
	for i := 1; i < len(lits); i++ {
		if s.literalIsRedundant(lits[i]) {
			continue
		}
		lits[j] = lits[i]
		j++
	}
	s.tmpLearnt = lits[:j]
}

// literalIsRedundant reports whether l can be dropped from the learnt
// clause: it is redundant when it was implied (not a decision) and every
// other literal of its reason clause is itself seen (transitively
// dominated by the clause being built).
func (s *Solver) literalIsRedundant(l Literal) bool {
	v := l.VarID()
	r := s.trail.ReasonOf(v)
	if r.IsNone() || r.IsDecision() {
		return false
	}

	switch r.kind {
	case reasonBinary:
		return s.seenVar.Contains(r.lit.VarID())
	case reasonClause:
		for _, q := range r.clause.Literals()[1:] {
			if !s.seenVar.Contains(q.VarID()) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// shouldChronoBT reports whether the conflict should be handled with
// chronological backtracking instead of the computed non-chronological
// backjump (§4.2, §9 open question): the conflict's decision level must be
// at or above the threshold, and the computed backjump level must be more
// than one level below it (otherwise chronoBT and the regular backjump
// target coincide anyway).
func (s *Solver) shouldChronoBT(conflictLevel, backjumpLevel, threshold int) bool {
	return conflictLevel >= threshold && backjumpLevel < conflictLevel-1
}
