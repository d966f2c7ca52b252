package sat

import "testing"

func TestSubsetOf(t *testing.T) {
	a := []Literal{PositiveLiteral(0), PositiveLiteral(1)}
	b := []Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}
	if !subsetOf(a, b) {
		t.Error("a should be a subset of b")
	}
	if subsetOf(b, a) {
		t.Error("b should not be a subset of a")
	}
}

func TestResolveProducesExpectedLiterals(t *testing.T) {
	// (x v a) resolved with (~x v b) on x gives (a v b).
	a, b := PositiveLiteral(1), PositiveLiteral(2)
	x := PositiveLiteral(0)
	pos := []Literal{x, a}
	neg := []Literal{x.Opposite(), b}

	r, taut := resolve(pos, neg, 0)
	if taut {
		t.Fatal("resolve reported a tautology for a non-tautological resolvent")
	}
	want := map[Literal]bool{a: true, b: true}
	if len(r) != 2 {
		t.Fatalf("resolve returned %v, want 2 literals", r)
	}
	for _, l := range r {
		if !want[l] {
			t.Errorf("unexpected literal %v in resolvent", l)
		}
	}
}

func TestResolveDetectsTautology(t *testing.T) {
	// (x v a) resolved with (~x v ~a) on x is a tautology (contains a, ~a).
	a := PositiveLiteral(1)
	x := PositiveLiteral(0)
	pos := []Literal{x, a}
	neg := []Literal{x.Opposite(), a.Opposite()}

	_, taut := resolve(pos, neg, 0)
	if !taut {
		t.Error("resolve should have reported a tautology")
	}
}

func TestSubsumeRemovesSubsumedClause(t *testing.T) {
	s := mustSolver(t, nil)
	a, b, c := s.AddVariable(), s.AddVariable(), s.AddVariable()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	// The binary clause (a v b) subsumes the ternary (a v b v c).
	must(s.AddClause([]Literal{PositiveLiteral(a), PositiveLiteral(b)}))
	long := s.cdb.newClause([]Literal{PositiveLiteral(a), PositiveLiteral(b), PositiveLiteral(c)}, false, 0)

	occ := s.proc.occurrences(s.cdb, s.NumVariables())
	if err := s.proc.subsume(s, occ); err != nil {
		t.Fatalf("subsume: %v", err)
	}
	if !long.IsDead() {
		t.Error("the ternary clause should have been removed as subsumed by the binary clause")
	}
}

func TestEliminateProducesResolventsAndExtendsModel(t *testing.T) {
	s := mustSolver(t, nil)
	x, a, b := s.AddVariable(), s.AddVariable(), s.AddVariable()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	// (~x v a) & (x v b): eliminating x resolves to (a v b).
	must(s.AddClause([]Literal{NegativeLiteral(x), PositiveLiteral(a)}))
	must(s.AddClause([]Literal{PositiveLiteral(x), PositiveLiteral(b)}))

	occ := s.proc.occurrences(s.cdb, s.NumVariables())
	if err := s.proc.eliminate(s, occ); err != nil {
		t.Fatalf("eliminate: %v", err)
	}
	if !s.proc.IsEliminated(x) {
		t.Fatal("x should have been eliminated")
	}
	if len(s.proc.extension) != 1 {
		t.Fatalf("len(extension) = %d, want 1", len(s.proc.extension))
	}

	// Force the reduced formula's remaining variables to a=false, b=true, and
	// confirm Extend finds a value for x consistent with the original
	// clauses: x must be false to satisfy (x v b) is already satisfied by b,
	// and (~x v a) requires x=false since a=false.
	model := make([]LBool, s.NumVariables())
	model[a] = False
	model[b] = True
	s.proc.Extend(model)
	if model[x] != False {
		t.Errorf("model[x] = %v, want False", model[x])
	}
}

func TestVivifyShrinksClauseUnderForcedConflict(t *testing.T) {
	s := mustSolver(t, nil)
	a, b, c, g := s.AddVariable(), s.AddVariable(), s.AddVariable(), s.AddVariable()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	// g is forced false at the root, so AddClause reduces (b v g) to the
	// root unit b. Vivifying (a v b v c) assumes ~a, then finds b already
	// true, so the clause should shrink to (a v b), dropping c.
	must(s.AddClause([]Literal{NegativeLiteral(g)}))
	must(s.AddClause([]Literal{PositiveLiteral(b), PositiveLiteral(g)}))
	long := s.cdb.newClause([]Literal{PositiveLiteral(a), PositiveLiteral(b), PositiveLiteral(c)}, false, 0)

	if err := s.proc.vivifyOne(s, long); err != nil {
		t.Fatalf("vivifyOne: %v", err)
	}
	if !long.IsDead() {
		t.Fatal("original clause should have been replaced by a shrunk one")
	}
	found := false
	for _, nc := range s.cdb.original {
		if nc.IsDead() || nc.Len() != 2 {
			continue
		}
		hasA, hasB := false, false
		for _, l := range nc.Literals() {
			if l == PositiveLiteral(a) {
				hasA = true
			}
			if l == PositiveLiteral(b) {
				hasB = true
			}
		}
		if hasA && hasB {
			found = true
		}
	}
	if !found {
		t.Error("expected vivification to shrink the clause to (a v b)")
	}
}
