package sat

// Processor implements the Processor component of §2/§4.4: subsumption,
// self-subsuming resolution (clause strengthening), bounded variable
// elimination (BVE), and vivification. A full pass runs when the trail is
// at level 0 and the conflict count is a multiple of
// Options.InprocessInterval (§4.8); a multiple passed while the trail stays
// above level 0 until the next conflict gets no pass. Vivification and
// subsumption+BVE alone also run at cycle and segment boundaries
// respectively (§4.5), deferred to the next time the trail is at level 0.
//
// Processor never deletes a variable's meaning: BVE removes a variable
// from future decisions and clauses, but records enough of the removed
// clauses on the extension stack to recover its value once a model for
// the reduced formula is found (§4.4, §6 model reconstruction).
type Processor struct {
	eliminated []bool
	extension  []elimStep
}

// elimStep records the clauses removed while eliminating a variable, used
// to extend a satisfying assignment of the reduced formula back to the
// full variable set (§4.4, §6).
type elimStep struct {
	v       int
	clauses [][]Literal
}

func newProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) growTo(nVars int) {
	for len(p.eliminated) < nVars {
		p.eliminated = append(p.eliminated, false)
	}
}

// IsEliminated reports whether v was removed from the formula by BVE.
func (p *Processor) IsEliminated(v int) bool {
	return v < len(p.eliminated) && p.eliminated[v]
}

// occurrences builds a fresh literal -> clause-ids map over every live
// (original and learnt) clause. Inprocessing runs rarely enough (every
// InprocessInterval conflicts) that rebuilding it from scratch each time
// is simpler, and no less correct, than maintaining it incrementally
// alongside the watch lists.
func (p *Processor) occurrences(db *ClauseDB, nVars int) [][]int32 {
	occ := make([][]int32, 2*nVars)
	for _, c := range db.original {
		if c.IsDead() {
			continue
		}
		for _, l := range c.Literals() {
			occ[l] = append(occ[l], c.ID())
		}
	}
	for _, c := range db.learnt {
		if c.IsDead() {
			continue
		}
		for _, l := range c.Literals() {
			occ[l] = append(occ[l], c.ID())
		}
	}
	return occ
}

// Run performs one inprocessing pass: subsumption/strengthening, then
// bounded variable elimination, then vivification (§4.4). It is a no-op
// once the solver is already past the root decision level's
// simplifications would be unsound.
func (p *Processor) Run(s *Solver) error {
	if s.trail.DecisionLevel() != 0 {
		return nil
	}

	if err := p.subsumeAndEliminate(s); err != nil {
		return err
	}
	return p.vivify(s)
}

// subsumeAndEliminate runs the subsumption/strengthening pass followed by
// bounded variable elimination over a freshly rebuilt occurrence list, the
// pairing the Solver schedules at the end of a segment (§4.4, §4.5).
func (p *Processor) subsumeAndEliminate(s *Solver) error {
	p.growTo(len(s.heap.scores))
	occ := p.occurrences(s.cdb, len(s.heap.scores))

	if err := p.subsume(s, occ); err != nil {
		return err
	}
	return p.eliminate(s, occ)
}

// subsetOf reports whether every literal of a is present in b.
func subsetOf(a, b []Literal) bool {
	for _, l := range a {
		found := false
		for _, m := range b {
			if l == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// subsume removes clauses subsumed by a shorter clause, and strengthens
// clauses that are subsumed after flipping exactly one literal
// (self-subsuming resolution), the standard combined SimpSolver-style
// simplification pass.
func (p *Processor) subsume(s *Solver, occ [][]int32) error {
	check := func(c *Clause) error {
		if c.IsDead() || c.Len() == 0 {
			return nil
		}
		// Use the rarest literal's occurrence list as the candidate pool.
		rarest := c.Literals()[0]
		for _, l := range c.Literals()[1:] {
			if len(occ[l]) < len(occ[rarest]) {
				rarest = l
			}
		}

		for _, oid := range append([]int32(nil), occ[rarest]...) {
			o := s.cdb.clauseByID(oid)
			if o == nil || o.IsDead() || o == c || o.Len() < c.Len() {
				continue
			}
			if subsetOf(c.Literals(), o.Literals()) {
				s.cdb.remove(o, s)
				continue
			}
		}

		for _, l := range c.Literals() {
			for _, oid := range append([]int32(nil), occ[l.Opposite()]...) {
				o := s.cdb.clauseByID(oid)
				if o == nil || o.IsDead() || o == c {
					continue
				}
				if !selfSubsumesExceptOne(c.Literals(), o.Literals(), l) {
					continue
				}
				p.strengthen(s, o, l.Opposite(), occ)
			}
		}
		return nil
	}

	for _, c := range append([]*Clause(nil), s.cdb.original...) {
		if err := check(c); err != nil {
			return err
		}
	}
	for _, c := range append([]*Clause(nil), s.cdb.learnt...) {
		if err := check(c); err != nil {
			return err
		}
	}
	s.cdb.compactDead()
	return nil
}

// selfSubsumesExceptOne reports whether a subsumes b after removing
// exactly the literal drop from a and its negation from b, i.e. whether
// a\{drop} is a subset of b\{¬drop}.
func selfSubsumesExceptOne(a, b []Literal, drop Literal) bool {
	for _, l := range a {
		if l == drop {
			continue
		}
		found := false
		for _, m := range b {
			if m == drop.Opposite() {
				continue
			}
			if l == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// strengthen rewrites o by removing the offending literal drop, via
// delete-then-recreate since Clause literal storage is fixed-size once
// watched; the DRAT proof records the strengthened clause as an addition
// followed by deletion of the original (§6).
func (p *Processor) strengthen(s *Solver, o *Clause, drop Literal, occ [][]int32) {
	lits := make([]Literal, 0, o.Len()-1)
	for _, l := range o.Literals() {
		if l != drop {
			lits = append(lits, l)
		}
	}
	if len(lits) == 0 {
		return
	}
	if s.cdb.drat != nil {
		s.cdb.drat.Add(lits)
	}
	s.cdb.remove(o, s)
	if len(lits) == 1 {
		s.enqueue(lits[0], noReason)
		return
	}
	nc := s.cdb.newClause(lits, o.IsLearnt(), o.LBD())
	for _, l := range lits {
		occ[l] = append(occ[l], nc.ID())
	}
}

// eliminate runs bounded variable elimination over every variable not
// already eliminated, assigned, or a decision-level-0 unit (§4.4).
func (p *Processor) eliminate(s *Solver, occ [][]int32) error {
	for v := 0; v < len(p.eliminated); v++ {
		if p.eliminated[v] || s.trail.VarValue(v) != Unknown {
			continue
		}
		pos := liveClauses(s.cdb, occ[PositiveLiteral(v)])
		neg := liveClauses(s.cdb, occ[NegativeLiteral(v)])
		if len(pos) == 0 || len(neg) == 0 {
			continue // pure or unused variable; BVE skips it and search decides it
		}
		if len(pos)+len(neg) > s.opts.ElimVarOccLimit {
			continue
		}

		resolvents, ok := resolveAll(v, pos, neg, s.opts.ElimClauseLimit)
		if !ok {
			continue
		}
		if len(resolvents) > len(pos)+len(neg)+s.opts.ElimGrow {
			continue
		}

		for _, r := range resolvents {
			if len(r) == 0 {
				return newError(RootLevelConflict, "variable elimination resolved to the empty clause")
			}
		}

		step := elimStep{v: v}
		for _, c := range pos {
			step.clauses = append(step.clauses, append([]Literal(nil), c.Literals()...))
			s.cdb.remove(c, s)
		}
		for _, c := range neg {
			step.clauses = append(step.clauses, append([]Literal(nil), c.Literals()...))
			s.cdb.remove(c, s)
		}
		p.extension = append(p.extension, step)
		p.eliminated[v] = true

		for _, r := range resolvents {
			if len(r) == 1 {
				s.enqueue(r[0], noReason)
				continue
			}
			nc := s.cdb.newClause(r, false, 0)
			if s.cdb.drat != nil {
				s.cdb.drat.Add(r)
			}
			for _, l := range r {
				occ[l] = append(occ[l], nc.ID())
			}
		}
	}
	s.cdb.compactDead()
	return nil
}

func liveClauses(db *ClauseDB, ids []int32) []*Clause {
	var out []*Clause
	for _, id := range ids {
		if c := db.clauseByID(id); c != nil && !c.IsDead() {
			out = append(out, c)
		}
	}
	return out
}

// resolveAll computes every non-tautological resolvent of pos x neg on
// their shared variable, aborting (ok=false) if any resolvent would
// exceed limit literals.
func resolveAll(v int, pos, neg []*Clause, limit int) ([][]Literal, bool) {
	var out [][]Literal
	for _, p := range pos {
		for _, n := range neg {
			r, taut := resolve(p.Literals(), n.Literals(), v)
			if taut {
				continue
			}
			if len(r) > limit {
				return nil, false
			}
			out = append(out, r)
		}
	}
	return out, true
}

// resolve returns the resolvent of a and b on variable v (a contains v
// positively, b negatively), deduplicated, and reports whether it is a
// tautology (contains both x and ¬x for some variable other than v).
func resolve(a, b []Literal, v int) ([]Literal, bool) {
	seen := map[Literal]bool{}
	var out []Literal
	add := func(l Literal) bool {
		if l.VarID() == v {
			return true
		}
		if seen[l.Opposite()] {
			return false
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
		return true
	}
	for _, l := range a {
		if !add(l) {
			return nil, true
		}
	}
	for _, l := range b {
		if !add(l) {
			return nil, true
		}
	}
	return out, false
}

// Extend recovers the value of every eliminated variable once model has
// a value for every remaining variable, processing elimination steps in
// reverse order (§4.4, §6).
func (p *Processor) Extend(model []LBool) {
	for i := len(p.extension) - 1; i >= 0; i-- {
		step := p.extension[i]
		val := False
		for _, cl := range step.clauses {
			satisfied := false
			for _, l := range cl {
				if l.VarID() == step.v {
					continue
				}
				if litSatisfied(model, l) {
					satisfied = true
					break
				}
			}
			if satisfied {
				continue
			}
			for _, l := range cl {
				if l.VarID() == step.v {
					if l.IsPositive() {
						val = True
					} else {
						val = False
					}
				}
			}
			break
		}
		model[step.v] = val
	}
}

func litSatisfied(model []LBool, l Literal) bool {
	v := model[l.VarID()]
	if l.IsPositive() {
		return v == True
	}
	return v == False
}

// vivify attempts to shrink every clause by assuming the negation of its
// literals one at a time under unit propagation: if propagation conflicts
// before the last literal is assumed, the clause can be strengthened to
// drop the unreached tail (§4.4).
func (p *Processor) vivify(s *Solver) error {
	for _, c := range append([]*Clause(nil), s.cdb.original...) {
		if c.IsDead() || c.Len() < 3 {
			continue
		}
		if err := p.vivifyOne(s, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) vivifyOne(s *Solver, c *Clause) error {
	lits := append([]Literal(nil), c.Literals()...)

	s.trail.newDecisionLevel()
	kept := lits[:0:0]
	conflict := false
	for _, l := range lits {
		if s.trail.LitValue(l) == True {
			// l is already implied by the earlier negated assumptions, so
			// the clause is subsumed by its prefix including l.
			kept = append(kept, l)
			conflict = true
			break
		}
		if s.trail.LitValue(l) == False {
			continue
		}
		kept = append(kept, l)
		s.enqueue(l.Opposite(), decisionReason)
		if confl := s.propagate(); confl != nil {
			conflict = true
			break
		}
	}
	s.trail.truncateLevel(s.trail.DecisionLevel()-1, func(ul Literal, _ AssignReason) {
		s.heap.onUnassign(ul.VarID(), Lift(ul.IsPositive()), s.stats.conflicts)
	})

	if conflict && len(kept) < len(lits) {
		s.cdb.remove(c, s)
		if len(kept) == 0 {
			return newError(RootLevelConflict, "vivification reduced a clause to empty")
		}
		if len(kept) == 1 {
			s.enqueue(kept[0], noReason)
			return nil
		}
		s.cdb.newClause(kept, c.IsLearnt(), c.LBD())
		if s.cdb.drat != nil {
			s.cdb.drat.Add(kept)
		}
	}
	return nil
}
