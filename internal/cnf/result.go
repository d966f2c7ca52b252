package cnf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tobsch/dratsat/internal/sat"
)

// WriteResult writes cert in the SAT-competition 2011 result-file format
// (§6): an "s" status line, followed for a Satisfiable model by
// "v"-prefixed value lines of at most ten literals each and a final
// "v 0" terminator line.
func WriteResult(w io.Writer, cert sat.Certificate) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "s %s\n", cert.Outcome); err != nil {
		return err
	}

	if cert.Outcome == sat.Satisfiable {
		const perLine = 10
		for i := 0; i < len(cert.Model); i += perLine {
			if _, err := bw.WriteString("v"); err != nil {
				return err
			}
			end := i + perLine
			if end > len(cert.Model) {
				end = len(cert.Model)
			}
			for v := i; v < end; v++ {
				lit := sat.PositiveLiteral(v)
				if cert.Model[v] != sat.True {
					lit = sat.NegativeLiteral(v)
				}
				if _, err := fmt.Fprintf(bw, " %d", lit.Dimacs()); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("v 0\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}
