package sat

import (
	"context"
	"time"
)

// Solver is the CDCL engine of §2: it owns every other component (ClauseDB,
// Trail, VarHeap, StageManager, Processor) and mediates all cross-component
// mutation rather than scattering state behind interfaces.
type Solver struct {
	opts Options

	cdb      *ClauseDB
	trail    *Trail
	heap     *VarHeap
	stageMgr *StageManager
	proc     *Processor
	drat     *DRATWriter
	logger   Logger

	unsat bool

	startTime time.Time

	stats struct {
		conflicts    int64
		restarts     int64
		decisions    int64
		propagations int64
	}

	// Scratch buffers shared across calls to avoid per-call allocation on
	// the hot path.
	tmpWatchers []watcher
	tmpReason   []Literal
	tmpLearnt   []Literal

	seenVar *ResetSet

	lbdSeen  []int64
	lbdStamp int64

	// blocking holds the negated models already reported by NextModel,
	// as fresh original clauses, so that repeated search never returns
	// the same model twice (§6 "all-models iterator").
	blocking [][]Literal

	// pendingVivify/pendingSubsumeBVE record cycle/segment boundaries
	// crossed while the trail was above decision level 0; they are acted
	// on the next time the trail returns to level 0, since Processor
	// operations are only sound there (§4.4, §4.5).
	pendingVivify     bool
	pendingSubsumeBVE bool
}

// NewSolver configures a Solver from opts, returning an OutOfRange *Error
// if any option is invalid (§7).
func NewSolver(opts Options) (*Solver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		opts:     opts,
		cdb:      newClauseDB(opts.ClauseDecay),
		trail:    newTrail(),
		heap:     newVarHeap(opts.VarDecayRate, annealedDecay(opts.VarDecayRate), opts.PhaseSaving),
		stageMgr: NewStageManager(opts),
		proc:     newProcessor(),
		logger:   NopLogger{},
		seenVar:  &ResetSet{},
	}
	return s, nil
}

// annealedDecay derives the "stable" decay rate used during exploitation
// segments from the configured base rate: higher (closer to 1) so that
// activity changes more slowly once the search has settled (§4.5, §4.6
// "reward annealing").
func annealedDecay(base float64) float64 {
	stable := base + (1-base)*0.5
	if stable >= 1 {
		stable = 0.999
	}
	return stable
}

// markUnsat permanently marks the formula unsatisfiable and, if a proof is
// being recorded, emits the mandatory terminating empty-clause addition
// line exactly once (§4.8, §6). Every path that declares UNSAT, whether
// from AddClause's root-level simplification or from search, must route
// through here so the DRAT trace is never left without its closing line.
func (s *Solver) markUnsat() {
	if s.unsat {
		return
	}
	s.unsat = true
	if s.drat != nil {
		s.drat.Add(nil)
	}
}

// finishUnsat marks the solver unsat and returns the terminal UNSAT
// certificate, for use at every search path that detects a root-level
// conflict (§4.8).
func (s *Solver) finishUnsat() Certificate {
	s.markUnsat()
	return Certificate{Outcome: Unsatisfiable}
}

// SetLogger installs an ambient logger; the default is NopLogger.
func (s *Solver) SetLogger(l Logger) { s.logger = l }

// Certify enables DRAT proof emission to w (§6 -c/--certify).
func (s *Solver) Certify(w *DRATWriter) {
	s.drat = w
	s.cdb.drat = w
}

// NumVariables returns the number of variables registered so far.
func (s *Solver) NumVariables() int { return len(s.heap.scores) }

// ModelsEnumerated returns the number of distinct models NextModel has
// returned so far.
func (s *Solver) ModelsEnumerated() int { return len(s.blocking) }

// Stats exposes the search counters for progress reporting (§6).
type Stats struct {
	Conflicts    int64
	Restarts     int64
	Decisions    int64
	Propagations int64
}

// Stats returns a snapshot of the solver's search counters.
func (s *Solver) Stats() Stats {
	return Stats{
		Conflicts:    s.stats.conflicts,
		Restarts:     s.stats.restarts,
		Decisions:    s.stats.decisions,
		Propagations: s.stats.propagations,
	}
}

// AddVariable registers a new boolean variable and returns its 0-based id.
func (s *Solver) AddVariable() int {
	v := s.NumVariables()
	s.trail.growTo(v + 1)
	s.heap.addVar()
	s.cdb.growTo(v + 1)
	s.proc.growTo(v + 1)
	s.seenVar.Expand()
	for len(s.lbdSeen) <= v {
		s.lbdSeen = append(s.lbdSeen, 0)
	}
	return v
}

// AddClause adds an original clause to the formula (§6 add_clause). It may
// only be called at decision level 0. A clause containing a literal and
// its negation is a tautology and is silently dropped. Duplicate literals
// are merged. An empty clause (after simplification, a clause with no
// literals) marks the solver permanently unsat and returns a
// RootLevelConflict *Error.
func (s *Solver) AddClause(lits []Literal) error {
	if s.trail.DecisionLevel() != 0 {
		return newError(Inconsistent, "AddClause called at decision level > 0")
	}
	if s.unsat {
		return newError(Inconsistent, "AddClause called on an unsat solver")
	}
	if len(lits) == 0 {
		s.markUnsat()
		return newError(EmptyClause, "clause has no literals")
	}

	clean, tautology := simplifyClauseLiterals(lits)
	if tautology {
		return nil
	}

	// Drop literals already falsified at the root, and detect literals
	// already satisfied at the root (the whole clause is satisfied).
	out := clean[:0:0]
	for _, l := range clean {
		switch s.trail.LitValue(l) {
		case True:
			return nil
		case False:
			continue
		default:
			out = append(out, l)
		}
	}

	switch len(out) {
	case 0:
		s.markUnsat()
		return newError(RootLevelConflict, "clause is empty after root-level simplification")
	case 1:
		s.enqueue(out[0], noReason)
		if confl := s.propagate(); confl != nil {
			s.markUnsat()
			return newError(RootLevelConflict, "unit clause conflicts with root assignment")
		}
		return nil
	default:
		c := s.cdb.newClause(out, false, 0)
		if s.drat != nil {
			s.drat.Add(c.Literals())
		}
		return nil
	}
}

// simplifyClauseLiterals deduplicates lits and reports whether the clause
// is a tautology (contains both a literal and its negation).
func simplifyClauseLiterals(lits []Literal) ([]Literal, bool) {
	seen := map[Literal]bool{}
	out := make([]Literal, 0, len(lits))
	for _, l := range lits {
		if seen[l.Opposite()] {
			return nil, true
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, false
}

// AddAssignment permanently asserts l, equivalent to AddClause with a
// single-literal clause (§6 add_assignment).
func (s *Solver) AddAssignment(l Literal) error {
	return s.AddClause([]Literal{l})
}

// Reset undoes every assignment back to decision level 0 and clears any
// pending trail-saving state, readying the solver for another Solve call
// with the same clause database (§6 reset).
func (s *Solver) Reset() {
	s.trail.truncateLevel(0, func(l Literal, _ AssignReason) {
		s.heap.onUnassign(l.VarID(), Lift(l.IsPositive()), s.stats.conflicts)
	})
	s.trail.clearSaveBuffer()
}

// Solve runs CDCL search to completion, to the configured stop condition,
// or until ctx is cancelled (§4.8, §6). A Certificate is always returned;
// Outcome is Unsolved if a stop condition was hit before a verdict. A
// violated internal invariant (e.g. VarHeap.NextDecision finding no
// unassigned variable left to decide) is recovered and surfaced as a
// SolverBug *Error instead of crashing the process (§4.9, §7).
func (s *Solver) Solve(ctx context.Context) (cert Certificate, err error) {
	defer func() {
		if r := recover(); r != nil {
			cert = Certificate{}
			err = newError(SolverBug, "internal invariant violation: %v", r)
		}
	}()

	if s.unsat {
		return Certificate{Outcome: Unsatisfiable}, nil
	}
	s.startTime = time.Now()

	for {
		select {
		case <-ctx.Done():
			return Certificate{Outcome: Unsolved}, nil
		default:
		}
		switch s.checkStop() {
		case stopTimeout:
			return Certificate{Outcome: Unsolved}, newError(TimeOut, "solve exceeded timeout of %s", s.opts.Timeout)
		case stopMaxConflicts:
			return Certificate{Outcome: Unsolved}, nil
		}

		confl := s.propagate()
		s.stats.propagations++

		if confl != nil {
			s.stats.conflicts++

			if s.trail.DecisionLevel() == 0 {
				return s.finishUnsat(), nil
			}

			res := s.analyze(confl)
			ev := s.stageMgr.onConflict(res.lbd, s.trail.Len())

			conflictLevel := s.trail.DecisionLevel()
			target := res.backjumpLevel
			if s.shouldChronoBT(conflictLevel, res.backjumpLevel, s.opts.ChronoBTThreshold) {
				target = conflictLevel - 1
			}
			s.backjumpTo(target)

			s.learn(res, target)

			s.cdb.decayActivity()

			if err := s.onConflictScheduling(ev); err != nil {
				if se, ok := err.(*Error); ok && se.Kind == RootLevelConflict {
					return s.finishUnsat(), nil
				}
				return Certificate{}, err
			}

			if s.stageMgr.ForcingRestart() && !s.stageMgr.Blocked(s.trail.Len()) {
				s.restart()
			}
			continue
		}

		s.heap.NoteTrailLength(s.trail.Len())

		if s.trail.DecisionLevel() == 0 {
			if s.stats.conflicts > 0 && s.stats.conflicts%s.opts.InprocessInterval == 0 {
				if err := s.proc.Run(s); err != nil {
					if se, ok := err.(*Error); ok && se.Kind == RootLevelConflict {
						return s.finishUnsat(), nil
					}
					return Certificate{}, err
				}
			}
			if err := s.runPendingInprocessing(); err != nil {
				if se, ok := err.(*Error); ok && se.Kind == RootLevelConflict {
					return s.finishUnsat(), nil
				}
				return Certificate{}, err
			}
		}

		if s.NumVariables() > 0 && s.trail.Len() == s.countDecidable() {
			return s.buildCertificate(), nil
		}

		l := s.heap.NextDecision(func(v int) bool {
			return s.trail.VarValue(v) != Unknown || s.proc.IsEliminated(v)
		})
		s.trail.newDecisionLevel()
		s.enqueue(l, decisionReason)
		s.stats.decisions++
	}
}

// countDecidable returns the number of variables that still need a value
// directly from search (i.e. excluding ones removed by BVE, which are
// filled in during model extension instead).
func (s *Solver) countDecidable() int {
	n := 0
	for v := 0; v < s.NumVariables(); v++ {
		if !s.proc.IsEliminated(v) {
			n++
		}
	}
	return n
}

func (s *Solver) buildCertificate() Certificate {
	model := make([]LBool, s.NumVariables())
	for v := range model {
		model[v] = s.trail.VarValue(v)
		if model[v] == Unknown {
			model[v] = True // eliminated variable, filled in below
		}
	}
	s.proc.Extend(model)
	return Certificate{Outcome: Satisfiable, Model: model}
}

// NextModel returns the certificate found by Solve and, if it was
// Satisfiable, permanently blocks that exact assignment by adding its
// negation as a new original clause before returning, so the next call
// enumerates a different model (§6 "all-models iterator").
func (s *Solver) NextModel(ctx context.Context) (Certificate, error) {
	cert, err := s.Solve(ctx)
	if err != nil || cert.Outcome != Satisfiable {
		return cert, err
	}

	block := make([]Literal, 0, len(cert.Model))
	for v, val := range cert.Model {
		if s.proc.IsEliminated(v) {
			continue
		}
		if val == True {
			block = append(block, NegativeLiteral(v))
		} else {
			block = append(block, PositiveLiteral(v))
		}
	}
	s.blocking = append(s.blocking, block)
	s.backjumpTo(0)
	if err := s.AddClause(block); err != nil {
		if se, ok := err.(*Error); ok && se.Kind == RootLevelConflict {
			// No more models: the blocking clause set is now unsatisfiable.
			return cert, nil
		}
		return cert, err
	}
	return cert, nil
}

// stopReason distinguishes why checkStop fired, so Solve can surface a
// TimeOut *Error specifically for budget exhaustion (§4.9, §7) while a
// conflict-count cap remains a plain Unsolved outcome.
type stopReason int

const (
	stopNone stopReason = iota
	stopMaxConflicts
	stopTimeout
)

func (s *Solver) checkStop() stopReason {
	if s.opts.MaxConflicts >= 0 && s.stats.conflicts >= s.opts.MaxConflicts {
		return stopMaxConflicts
	}
	if s.opts.Timeout > 0 && time.Since(s.startTime) >= s.opts.Timeout {
		return stopTimeout
	}
	return stopNone
}

// backjumpTo undoes the trail down to level, running trail-saving (§4.7):
// every implied (non-decision) literal it pops is kept aside in the trail's
// save buffer with its reason, instead of being entirely forgotten;
// replaySaved re-asserts those whose reason still forces them.
func (s *Solver) backjumpTo(level int) {
	var saved []savedEntry
	s.trail.truncateLevel(level, func(l Literal, r AssignReason) {
		s.heap.onUnassign(l.VarID(), Lift(l.IsPositive()), s.stats.conflicts)
		if !r.IsDecision() && !r.IsNone() {
			saved = append(saved, savedEntry{lit: l, reason: r})
		}
	})
	// Saved entries must replay in the order they were originally
	// derived (oldest first); truncateLevel visits them newest-first.
	for i, j := 0, len(saved)-1; i < j; i, j = i+1, j-1 {
		saved[i], saved[j] = saved[j], saved[i]
	}
	s.trail.saveBuf = saved
}

// learn adds the clause produced by analyze to the database and asserts
// its first literal at the backjump level (§4.2 step 6).
func (s *Solver) learn(res analyzeResult, level int) {
	if len(res.learnt) == 1 {
		s.trail.pushAt(res.learnt[0], 0, noReason)
		s.heap.onAssign(res.learnt[0].VarID(), s.stats.conflicts)
		return
	}

	c := s.cdb.newClause(res.learnt, true, res.lbd)
	c.timestamp = s.stats.conflicts
	if s.drat != nil {
		s.drat.Add(c.Literals())
	}
	s.trail.pushAt(res.learnt[0], level, clauseReason(c))
	s.heap.onAssign(res.learnt[0].VarID(), s.stats.conflicts)
}

// restart undoes the trail to level 0 (without forgetting learnt clauses)
// and resets the forcing-restart hysteresis counter (§4.5).
func (s *Solver) restart() {
	s.backjumpTo(0)
	s.stats.restarts++
	s.stageMgr.ResetAfterRestart()
}

// onConflictScheduling reacts to stage/cycle/segment boundaries crossed
// by the last conflict: clause-database reduction happens once per stage,
// rephasing once per cycle, and heap decay-rate cycling and rescaling
// once per segment (§4.3, §4.5, §4.6). Vivification (end of cycle) and
// subsumption+BVE (end of segment) are also due at these boundaries, but
// Processor operations require decision level 0 (§4.4) and a conflict is
// by construction above level 0, so they are only flagged here and run by
// runPendingInprocessing the next time the trail returns to level 0.
func (s *Solver) onConflictScheduling(ev stageEvent) error {
	if ev.endStage {
		s.cdb.reduce(s, s.stageMgr.Mode(), s.opts.ClauseDBReduceGrowthRate)
	}
	if ev.endCycle {
		s.heap.Rephase()
		s.pendingVivify = true
	}
	if ev.endSegment {
		s.heap.SetMode(s.stageMgr.Mode())
		s.heap.rescaleIfNeeded()
		s.pendingSubsumeBVE = true
	}
	return s.runPendingInprocessing()
}

// runPendingInprocessing executes any vivification or subsumption+BVE pass
// deferred from a cycle/segment boundary reached above decision level 0.
// It is a no-op unless the trail is currently at level 0, matching the
// Processor precondition of §4.4.
func (s *Solver) runPendingInprocessing() error {
	if s.trail.DecisionLevel() != 0 {
		return nil
	}
	if s.pendingVivify {
		s.pendingVivify = false
		if err := s.proc.vivify(s); err != nil {
			return err
		}
	}
	if s.pendingSubsumeBVE {
		s.pendingSubsumeBVE = false
		if err := s.proc.subsumeAndEliminate(s); err != nil {
			return err
		}
	}
	return nil
}
