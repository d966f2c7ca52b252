package sat

import "testing"

func TestPropagateBinaryChain(t *testing.T) {
	s := mustSolver(t, nil)
	a, b, c := s.AddVariable(), s.AddVariable(), s.AddVariable()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	must(s.AddClause([]Literal{NegativeLiteral(a), PositiveLiteral(b)}))
	must(s.AddClause([]Literal{NegativeLiteral(b), PositiveLiteral(c)}))

	s.enqueue(PositiveLiteral(a), decisionReason)
	if conflict := s.propagate(); conflict != nil {
		t.Fatalf("propagate() returned a conflict: %v", conflict)
	}
	if s.trail.VarValue(b) != True {
		t.Errorf("b = %v, want True", s.trail.VarValue(b))
	}
	if s.trail.VarValue(c) != True {
		t.Errorf("c = %v, want True", s.trail.VarValue(c))
	}
}

func TestPropagateDetectsBinaryConflict(t *testing.T) {
	s := mustSolver(t, nil)
	a, b := s.AddVariable(), s.AddVariable()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("AddClause: %v", err)
		}
	}
	must(s.AddClause([]Literal{NegativeLiteral(a), PositiveLiteral(b)}))
	must(s.AddClause([]Literal{NegativeLiteral(a), NegativeLiteral(b)}))

	s.enqueue(PositiveLiteral(a), decisionReason)
	if conflict := s.propagate(); conflict == nil {
		t.Fatal("propagate() = nil, want a conflict")
	}
}

func TestPropagateWatchersDerivesLastLiteral(t *testing.T) {
	s := mustSolver(t, nil)
	a, b, c := s.AddVariable(), s.AddVariable(), s.AddVariable()
	if err := s.AddClause([]Literal{PositiveLiteral(a), PositiveLiteral(b), PositiveLiteral(c)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	s.enqueue(NegativeLiteral(a), decisionReason)
	if conflict := s.propagate(); conflict != nil {
		t.Fatalf("unexpected conflict: %v", conflict)
	}
	s.trail.newDecisionLevel()
	s.enqueue(NegativeLiteral(b), decisionReason)
	if conflict := s.propagate(); conflict != nil {
		t.Fatalf("unexpected conflict: %v", conflict)
	}
	if s.trail.VarValue(c) != True {
		t.Errorf("c = %v, want True (forced by the long clause)", s.trail.VarValue(c))
	}
}

func TestPropagateWatchersDetectsConflict(t *testing.T) {
	s := mustSolver(t, nil)
	a, b, c := s.AddVariable(), s.AddVariable(), s.AddVariable()
	if err := s.AddClause([]Literal{PositiveLiteral(a), PositiveLiteral(b), PositiveLiteral(c)}); err != nil {
		t.Fatalf("AddClause: %v", err)
	}

	s.enqueue(NegativeLiteral(a), decisionReason)
	s.propagate()
	s.trail.newDecisionLevel()
	s.enqueue(NegativeLiteral(b), decisionReason)
	s.propagate()
	s.trail.newDecisionLevel()
	s.enqueue(NegativeLiteral(c), decisionReason)
	if conflict := s.propagate(); conflict == nil {
		t.Fatal("propagate() = nil, want a conflict once all three literals are false")
	}
}

func TestEnqueueIsNoOpWhenAlreadyTrue(t *testing.T) {
	s := mustSolver(t, nil)
	a := s.AddVariable()
	s.enqueue(PositiveLiteral(a), decisionReason)
	lenBefore := s.trail.Len()
	s.enqueue(PositiveLiteral(a), decisionReason)
	if s.trail.Len() != lenBefore {
		t.Errorf("trail grew on a redundant enqueue of an already-true literal")
	}
}
