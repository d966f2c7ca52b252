package cnf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tobsch/dratsat/internal/sat"
)

// fakeSolver records AddVariable/AddClause calls without any real solving,
// so load_test.go can check the parser wiring in isolation from sat.Solver.
type fakeSolver struct {
	nVars   int
	clauses [][]sat.Literal
}

func (f *fakeSolver) AddVariable() int {
	v := f.nVars
	f.nVars++
	return v
}

func (f *fakeSolver) AddClause(lits []sat.Literal) error {
	f.clauses = append(f.clauses, lits)
	return nil
}

func writeTempCNF(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.cnf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDIMACSParsesSimpleInstance(t *testing.T) {
	path := writeTempCNF(t, "c a comment\np cnf 3 2\n1 -2 0\n2 3 0\n")

	f := &fakeSolver{}
	nVars, nClauses, err := LoadDIMACS(path, false, f)
	if err != nil {
		t.Fatalf("LoadDIMACS: %v", err)
	}
	if nVars != 3 {
		t.Errorf("nVars = %d, want 3", nVars)
	}
	if nClauses != 2 {
		t.Errorf("nClauses = %d, want 2", nClauses)
	}
	if f.nVars != 3 {
		t.Errorf("solver.AddVariable called %d times, want 3", f.nVars)
	}
	if len(f.clauses) != 2 {
		t.Fatalf("solver received %d clauses, want 2", len(f.clauses))
	}
	if f.clauses[0][0] != sat.DimacsLiteral(1) || f.clauses[0][1] != sat.DimacsLiteral(-2) {
		t.Errorf("first clause = %v, want [1 -2] in internal literal form", f.clauses[0])
	}
}

func TestLoadDIMACSRejectsMissingFile(t *testing.T) {
	f := &fakeSolver{}
	if _, _, err := LoadDIMACS("/nonexistent/path.cnf", false, f); err == nil {
		t.Fatal("LoadDIMACS on a missing file returned nil error")
	}
}
