package sat

import (
	"bufio"
	"fmt"
	"io"
)

// DRATWriter emits a DRAT (Delete Resolution Asymmetric Tautology) proof,
// the unsatisfiability certificate format of §6. Additions are written as
// the clause's DIMACS literals terminated by 0; deletions are prefixed with
// "d ". Only the plain-text encoding is implemented, matching the format
// `drat-trim` accepts with no flags.
type DRATWriter struct {
	w   *bufio.Writer
	buf []byte
	err error
}

// NewDRATWriter wraps w for proof emission. The caller is responsible for
// calling Flush once the proof is complete.
func NewDRATWriter(w io.Writer) *DRATWriter {
	return &DRATWriter{w: bufio.NewWriter(w)}
}

// Add records a clause addition (an original or learnt clause that has
// been derived, §4.2/§4.4).
func (d *DRATWriter) Add(lits []Literal) {
	d.writeLine("", lits)
}

// Delete records a clause deletion (reduction, subsumption, or BVE, §4.3,
// §4.4).
func (d *DRATWriter) Delete(lits []Literal) {
	d.writeLine("d ", lits)
}

func (d *DRATWriter) writeLine(prefix string, lits []Literal) {
	if d.err != nil {
		return
	}
	if prefix != "" {
		if _, err := d.w.WriteString(prefix); err != nil {
			d.err = err
			return
		}
	}
	d.buf = d.buf[:0]
	for _, l := range lits {
		d.buf = append(d.buf, []byte(fmt.Sprintf("%d ", l.Dimacs()))...)
	}
	d.buf = append(d.buf, '0', '\n')
	if _, err := d.w.Write(d.buf); err != nil {
		d.err = err
	}
}

// Flush pushes any buffered proof lines to the underlying writer. A
// failure at any point while writing the proof is surfaced as an IOError
// (§7), since the DRAT output stream is owned by the writer and an
// incomplete proof is otherwise silently unusable.
func (d *DRATWriter) Flush() error {
	if d.err != nil {
		return wrapError(IOError, d.err, "drat: proof write failed")
	}
	if err := d.w.Flush(); err != nil {
		return wrapError(IOError, err, "drat: proof flush failed")
	}
	return nil
}

// Err returns the first error encountered while writing, if any, tagged
// IOError (§7).
func (d *DRATWriter) Err() error {
	if d.err == nil {
		return nil
	}
	return wrapError(IOError, d.err, "drat: proof write failed")
}
