// Package cnf wires the external github.com/rhartert/dimacs parser into a
// sat.Solver, and writes SAT-competition result files (§6).
package cnf

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/tobsch/dratsat/internal/sat"
)

// SATSolver is the subset of sat.Solver's API a CNF loader needs.
type SATSolver interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(f)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			f.Close()
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file at filename and loads its formula
// into solver via AddVariable/AddClause (§6).
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) (nVars, nClauses int, err error) {
	r, err := open(filename, gzipped)
	if err != nil {
		return 0, 0, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &builder{solver: solver}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		if _, ok := err.(*sat.Error); ok {
			return 0, 0, err
		}
		return 0, 0, &sat.Error{Kind: sat.InvalidInput, Msg: fmt.Sprintf("error parsing file %q", filename), Err: err}
	}
	return b.nVars, b.nClauses, nil
}

// builder adapts an SATSolver to dimacs.Builder.
type builder struct {
	solver   SATSolver
	nVars    int
	nClauses int
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return &sat.Error{Kind: sat.InvalidInput, Msg: fmt.Sprintf("problem type %q is not supported", problem)}
	}
	b.nVars = nVars
	b.nClauses = nClauses
	for i := 0; i < nVars; i++ {
		b.solver.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmp []int) error {
	clause := make([]sat.Literal, len(tmp))
	for i, l := range tmp {
		if l == 0 || abs(l) > b.nVars {
			return &sat.Error{Kind: sat.InvalidInput, Msg: fmt.Sprintf("literal %d out of range for %d declared variables", l, b.nVars)}
		}
		clause[i] = sat.DimacsLiteral(l)
	}
	return b.solver.AddClause(clause)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (b *builder) Comment(string) error {
	return nil
}
