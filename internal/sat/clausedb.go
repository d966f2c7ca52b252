package sat

import "sort"

// watcher represents a clause attached to the watch list of a literal, i.e.
// a clause whose position 0 or 1 holds the negation of that literal (§3).
type watcher struct {
	clause *Clause

	// guard is one of the clause's other literals. If it is true under the
	// current assignment there is no need to inspect the clause at all.
	// This is purely an optimization: it changes propagation order but
	// never its result.
	guard Literal
}

// binLink is an entry in a literal's binary-link adjacency list: for every
// binary clause {l, other}, l's list holds {other, cid} (§3).
type binLink struct {
	other Literal
	cid   int32
}

// ClauseDB owns all clauses and the watch/binary-link indexes used by BCP
// (§3, §4.1). It is the sole writer of clause storage; every other
// component refers to clauses by the weak *Clause handle and must check
// IsDead before trusting it.
type ClauseDB struct {
	// all is every clause ever created, original and learnt, indexed by
	// id-1. Dead clauses remain in this slice (weak back-reference
	// stability) but carry a nil literal slice.
	all []*Clause

	// original and learnt additionally partition non-dead clauses for
	// iteration (reduction only ever walks learnt; subsumption/BVE walk
	// both).
	original []*Clause
	learnt   []*Clause

	watchers    [][]watcher
	binaryLinks [][]binLink

	clauseInc   float64
	clauseDecay float64

	drat *DRATWriter
}

func newClauseDB(clauseDecay float64) *ClauseDB {
	return &ClauseDB{
		clauseInc:   1,
		clauseDecay: clauseDecay,
	}
}

// growTo grows the per-literal indexes to cover nVars variables.
func (db *ClauseDB) growTo(nVars int) {
	for len(db.watchers) < 2*nVars {
		db.watchers = append(db.watchers, nil)
		db.binaryLinks = append(db.binaryLinks, nil)
	}
}

func (db *ClauseDB) watch(c *Clause, watch Literal, guard Literal) {
	db.watchers[watch] = append(db.watchers[watch], watcher{clause: c, guard: guard})
}

func (db *ClauseDB) unwatch(c *Clause, watch Literal) {
	ws := db.watchers[watch]
	j := 0
	for i := 0; i < len(ws); i++ {
		if ws[i].clause != c {
			ws[j] = ws[i]
			j++
		}
	}
	db.watchers[watch] = ws[:j]
}

func (db *ClauseDB) linkBinary(a, b Literal, cid int32) {
	db.binaryLinks[a] = append(db.binaryLinks[a], binLink{other: b, cid: cid})
	db.binaryLinks[b] = append(db.binaryLinks[b], binLink{other: a, cid: cid})
}

func (db *ClauseDB) unlinkBinary(a, b Literal, cid int32) {
	unlinkOne := func(lit Literal) {
		links := db.binaryLinks[lit]
		for i, bl := range links {
			if bl.cid == cid {
				links[i] = links[len(links)-1]
				db.binaryLinks[lit] = links[:len(links)-1]
				return
			}
		}
	}
	unlinkOne(a)
	unlinkOne(b)
}

// clauseByID returns the clause for a stable id, or nil if it has never
// existed. The caller must still check IsDead.
func (db *ClauseDB) clauseByID(cid int32) *Clause {
	if cid <= 0 || int(cid) > len(db.all) {
		return nil
	}
	return db.all[cid-1]
}

// newClause allocates bookkeeping for a (already literal-reduced) clause of
// at least two literals and registers its watches/binary link. It does not
// perform root-level simplification; callers (AddClause/record) do that
// first.
func (db *ClauseDB) newClause(lits []Literal, learnt bool, lbd int) *Clause {
	c := &Clause{
		id:        int32(len(db.all)) + 1,
		literals:  append([]Literal(nil), lits...),
		prevPos:   2,
		lbd:       lbd,
		timestamp: int64(len(db.all)),
	}
	if learnt {
		c.flags |= flagLearnt
	}
	db.all = append(db.all, c)
	if learnt {
		db.learnt = append(db.learnt, c)
	} else {
		db.original = append(db.original, c)
	}

	// Binary clauses propagate exclusively through the binary-link
	// adjacency lists (§3, §4.1 step 1); they are never registered in the
	// two-watched-literal index, which only carries clauses of length >= 3
	// (§4.1 step 2).
	if len(c.literals) == 2 {
		db.linkBinary(c.literals[0], c.literals[1], c.id)
	} else {
		db.watch(c, c.literals[0].Opposite(), c.literals[1])
		db.watch(c, c.literals[1].Opposite(), c.literals[0])
	}

	return c
}

// remove marks c dead and unlinks it from every index. It does not compact
// db.all/db.original/db.learnt; compaction happens in bulk during
// compactDead.
func (db *ClauseDB) remove(c *Clause, s *Solver) {
	if c.IsDead() {
		return
	}
	if db.drat != nil {
		db.drat.Delete(c.literals)
	}
	if len(c.literals) == 2 {
		db.unlinkBinary(c.literals[0], c.literals[1], c.id)
	} else {
		db.unwatch(c, c.literals[0].Opposite())
		db.unwatch(c, c.literals[1].Opposite())
	}
	c.markDead()
}

// compactDead drops dead entries from original/learnt (but never from
// all, which must keep ids stable).
func (db *ClauseDB) compactDead() {
	j := 0
	for _, c := range db.original {
		if !c.IsDead() {
			db.original[j] = c
			j++
		}
	}
	db.original = db.original[:j]

	j = 0
	for _, c := range db.learnt {
		if !c.IsDead() {
			db.learnt[j] = c
			j++
		}
	}
	db.learnt = db.learnt[:j]
}

func (db *ClauseDB) bumpActivity(c *Clause) {
	c.activity += db.clauseInc
	if c.activity > 1e100 {
		db.clauseInc *= 1e-100
		for _, l := range db.learnt {
			l.activity *= 1e-100
		}
	}
}

func (db *ClauseDB) decayActivity() {
	db.clauseInc *= db.clauseDecay
}

// reductionMode selects between the exploration (aggressive, low-LBD
// favoring) and exploitation (conservative, recency favoring) policies that
// alternate with the stage segment (§4.3, §4.5).
type reductionMode int

const (
	modeExploration reductionMode = iota
	modeExploitation
)

// reduce removes the least valuable learnt clauses, keeping:
//   - every clause with LBD <= 2 (precious, §4.3);
//   - every clause used as a reason since the last reduction;
//   - the top fraction by rank, where rank depends on the active mode.
//
// locked(c) reports whether clause c is the current propagation reason for
// one of its own watched variables (clauses locked by the trail can never
// be removed without corrupting reasons, §3 invariant 2).
func (db *ClauseDB) reduce(s *Solver, mode reductionMode, growthRate float64) {
	learnts := db.learnt
	if len(learnts) == 0 {
		return
	}

	locked := func(c *Clause) bool {
		r := s.trail.reason[c.literals[0].VarID()]
		return r.kind == reasonClause && r.clause == c
	}

	switch mode {
	case modeExploitation:
		sort.SliceStable(learnts, func(i, j int) bool {
			return learnts[i].timestamp > learnts[j].timestamp
		})
	default: // modeExploration
		sort.SliceStable(learnts, func(i, j int) bool {
			if learnts[i].lbd != learnts[j].lbd {
				return learnts[i].lbd < learnts[j].lbd
			}
			return learnts[i].activity > learnts[j].activity
		})
	}

	keepCount := int(float64(len(learnts)) * growthRate)
	removed := 0
	for i, c := range learnts {
		if c.IsDead() {
			continue
		}
		if c.lbd <= 2 || c.IsUsed() || locked(c) || i < keepCount {
			continue
		}
		db.remove(c, s)
		removed++
	}

	for _, c := range db.learnt {
		if !c.IsDead() {
			c.ClearUsed()
		}
	}

	db.compactDead()
	s.logger.Logf("reduceDB: removed %d of %d learnt clauses", removed, len(learnts))
}
