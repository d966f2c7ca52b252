package sat

import "strings"

// clauseFlag packs the boolean properties of a clause into a single byte
// rather than one bool field per property.
type clauseFlag uint8

const (
	flagLearnt clauseFlag = 1 << iota
	flagDead
	flagUsed
)

// Clause is an ordered sequence of distinct literals with at least two
// literals (§3). Positions 0 and 1 are always the watched literals.
//
// ClauseDB is the sole owner of Clause values; a *Clause handed out to
// another component (e.g. as an AssignReason) is a weak back-reference
// that may later be marked dead (§3 "Ownership").
type Clause struct {
	id int32

	literals []Literal

	// prevPos speeds up the search for a new literal to watch by resuming
	// from the position the previous watch move landed on.
	prevPos int

	flags clauseFlag

	// lbd is the Literal Block Distance computed at learning time (§4.2).
	// Zero for original (non-learnt) clauses.
	lbd int

	// activity ranks learnt clauses for reduction (§4.3); higher is more
	// valuable.
	activity float64

	// timestamp orders learnt clauses by recency for exploitation-mode
	// reduction (§4.3, §4.5).
	timestamp int64
}

// ID returns the clause's stable, non-zero identifier.
func (c *Clause) ID() int32 { return c.id }

// Literals returns the clause's current literals. The returned slice must
// not be mutated by the caller. It is nil once the clause is Dead.
func (c *Clause) Literals() []Literal { return c.literals }

// Len returns the number of literals currently in the clause.
func (c *Clause) Len() int { return len(c.literals) }

// IsLearnt reports whether the clause was produced by conflict analysis
// (as opposed to being part of the original formula).
func (c *Clause) IsLearnt() bool { return c.flags&flagLearnt != 0 }

// IsDead reports whether the clause has been removed from the database.
// Dead clauses keep their id (weak back-reference) but drop their literal
// storage.
func (c *Clause) IsDead() bool { return c.flags&flagDead != 0 }

// IsUsed reports whether the clause has served as a propagation reason
// since the last clause-database reduction (§4.3).
func (c *Clause) IsUsed() bool { return c.flags&flagUsed != 0 }

// MarkUsed sets the recently-used bit (§4.3).
func (c *Clause) MarkUsed() { c.flags |= flagUsed }

// ClearUsed resets the recently-used bit; called at the end of each
// reduction pass on the clauses it keeps.
func (c *Clause) ClearUsed() { c.flags &^= flagUsed }

// LBD returns the clause's Literal Block Distance.
func (c *Clause) LBD() int { return c.lbd }

// markDead releases the clause's literal storage and flags it dead. The
// caller (ClauseDB) is responsible for unwatching it first.
func (c *Clause) markDead() {
	c.flags |= flagDead
	c.literals = nil
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
