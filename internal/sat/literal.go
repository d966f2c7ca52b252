package sat

import "fmt"

// Literal represents a literal, which either represent a boolean variable or
// its negation.
//
// A literal packs a variable id and a sign into a single int: variable v's
// positive literal is 2*v and its negative literal is 2*v+1. Negation is
// thus a single XOR, and literals can index directly into per-literal
// slices (watch lists, binary links, assignment arrays).
type Literal int

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v int) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v int) Literal {
	return Literal(v*2 + 1)
}

// VarID returns the ID of the literal's variable.
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive returns true if and only if the literal represent the value of
// its boolean variable (i.e. not its negation)
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the opposite literal.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	} else {
		return fmt.Sprintf("!%d", l.VarID())
	}
}

// DimacsLiteral converts a signed, 1-based DIMACS literal into a Literal.
// The variable ids it produces are 0-based, matching AddVariable's return
// value. DimacsLiteral panics if x is 0: the DIMACS sentinel must never
// reach the core (§3).
func DimacsLiteral(x int) Literal {
	if x == 0 {
		panic("sat: 0 is the DIMACS clause terminator, not a literal")
	}
	if x < 0 {
		return NegativeLiteral(-x - 1)
	}
	return PositiveLiteral(x - 1)
}

// Dimacs converts l back into a signed, 1-based DIMACS literal.
func (l Literal) Dimacs() int {
	if l.IsPositive() {
		return l.VarID() + 1
	}
	return -(l.VarID() + 1)
}
