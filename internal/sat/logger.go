package sat

import (
	"fmt"
	"io"
)

// Logger is the ambient logging seam: Solver calls it with sparse,
// human-readable progress lines (search-state rows, inprocessing
// summaries) rather than taking a dependency on a structured-logging
// library, since nothing else in the solver's hot path needs structured
// fields. See the project's logging notes for the reasoning.
type Logger interface {
	Logf(format string, args ...any)
}

// NopLogger discards every message; it is the default when no logger is
// configured.
type NopLogger struct{}

func (NopLogger) Logf(string, ...any) {}

// WriterLogger writes a "c " (DIMACS comment) prefixed line per message to
// w, matching the SAT-competition convention for solver progress output
// (§6).
type WriterLogger struct {
	W io.Writer
}

func (l WriterLogger) Logf(format string, args ...any) {
	fmt.Fprintf(l.W, "c "+format+"\n", args...)
}
