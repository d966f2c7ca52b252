package sat

import "testing"

func TestClauseDBNewClauseRegistersBinaryLink(t *testing.T) {
	db := newClauseDB(0.999)
	db.growTo(4)

	a, b := PositiveLiteral(0), PositiveLiteral(1)
	c := db.newClause([]Literal{a, b}, false, 0)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if len(db.watchers[a.Opposite()]) != 0 || len(db.watchers[b.Opposite()]) != 0 {
		t.Error("binary clause must not be registered in the watch index")
	}
	found := false
	for _, bl := range db.binaryLinks[a] {
		if bl.other == b && bl.cid == c.ID() {
			found = true
		}
	}
	if !found {
		t.Error("binary clause not linked from literal a")
	}
}

func TestClauseDBNewClauseRegistersWatchers(t *testing.T) {
	db := newClauseDB(0.999)
	db.growTo(6)

	lits := []Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}
	c := db.newClause(lits, false, 0)

	if len(db.watchers[lits[0].Opposite()]) != 1 {
		t.Errorf("watchers[~lits[0]] = %d entries, want 1", len(db.watchers[lits[0].Opposite()]))
	}
	if len(db.watchers[lits[1].Opposite()]) != 1 {
		t.Errorf("watchers[~lits[1]] = %d entries, want 1", len(db.watchers[lits[1].Opposite()]))
	}
	if len(db.binaryLinks[lits[0]]) != 0 {
		t.Error("ternary clause must not be linked as binary")
	}
	if c.IsDead() {
		t.Error("fresh clause reported dead")
	}
}

func TestClauseDBRemoveUnlinksAndMarksDead(t *testing.T) {
	s := mustSolver(t, nil)
	for i := 0; i < 4; i++ {
		s.AddVariable()
	}
	db := s.cdb
	lits := []Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}
	c := db.newClause(lits, false, 0)

	db.remove(c, s)

	if !c.IsDead() {
		t.Fatal("clause not marked dead after remove")
	}
	if c.Literals() != nil {
		t.Error("dead clause should have released its literal storage")
	}
	for _, w := range db.watchers[lits[0].Opposite()] {
		if w.clause == c {
			t.Error("removed clause still present in watch list")
		}
	}
}

func TestClauseDBCompactDeadDropsFromOriginalAndLearnt(t *testing.T) {
	s := mustSolver(t, nil)
	for i := 0; i < 6; i++ {
		s.AddVariable()
	}
	db := s.cdb

	keep := db.newClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, false, 0)
	drop := db.newClause([]Literal{PositiveLiteral(3), PositiveLiteral(4), PositiveLiteral(5)}, false, 0)
	db.remove(drop, s)
	db.compactDead()

	for _, c := range db.original {
		if c == drop {
			t.Fatal("compactDead left a dead clause in original")
		}
	}
	found := false
	for _, c := range db.original {
		if c == keep {
			found = true
		}
	}
	if !found {
		t.Error("compactDead dropped a live clause")
	}
}

func TestClauseDBBumpAndDecayActivity(t *testing.T) {
	db := newClauseDB(0.5)
	db.growTo(6)
	c := db.newClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, true, 2)

	db.bumpActivity(c)
	if c.activity != db.clauseInc {
		t.Errorf("activity = %f, want %f", c.activity, db.clauseInc)
	}
	incBefore := db.clauseInc
	db.decayActivity()
	if db.clauseInc != incBefore*0.5 {
		t.Errorf("clauseInc after decay = %f, want %f", db.clauseInc, incBefore*0.5)
	}
}
