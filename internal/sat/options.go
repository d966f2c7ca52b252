package sat

import "time"

// Options configures a Solver: every tunable named by the CLI surface
// (§6), alongside the legacy clause/variable decay and stop-condition
// knobs.
type Options struct {
	// Clause/variable activity decay (legacy VSIDS-style knobs kept for
	// clause activity; variable activity itself is driven by LRB, see
	// VarDecayRate below).
	ClauseDecay float64

	// Stop conditions. Negative values mean "no bound".
	MaxConflicts int64
	Timeout      time.Duration

	// PhaseSaving enables remembering the last assigned polarity of each
	// variable across backtracks (§4.6).
	PhaseSaving bool

	// Certify turns on DRAT proof emission (-c/--certify).
	Certify bool

	// ChronoBTThreshold is the decision level (--cbt) at or above which
	// chronological backtracking is considered instead of the computed
	// backjump level (§4.2). Default 100.
	ChronoBTThreshold int

	// ClauseDBReduceGrowthRate is the learnt-clause reduction growth
	// factor (--cdr). Default 0.95.
	ClauseDBReduceGrowthRate float64

	// InprocessInterval sets when full Processor runs happen (--ii, §4.8
	// "c-ip-int"). Default 10000. A full run happens when the trail is at
	// decision level 0 and the conflict count is a multiple of this value;
	// if the trail stays above level 0 until the next conflict, that
	// multiple gets no run. Vivification and
	// subsumption+BVE also run independently at cycle and segment
	// boundaries respectively (§4.5), regardless of this interval.
	InprocessInterval int64

	// ElimClauseLimit bounds the length of BVE resolvents (--ecl,
	// "elm-cls-lim"). Default 18.
	ElimClauseLimit int

	// ElimGrow bounds how many more clauses BVE may introduce than it
	// removes (--evl, "grow"). Default 0.
	ElimGrow int

	// ElimVarOccLimit skips BVE candidates with more than this many
	// occurrences (--evo, "elm-var-occ"). Default 20000.
	ElimVarOccLimit int

	// RestartAsgFastWindow is the EMA window for trail length, fast (--ral).
	// Default 24.
	RestartAsgFastWindow int

	// RestartAsgSlowWindow is the EMA window for trail length, slow (--ras).
	// Default 8192.
	RestartAsgSlowWindow int

	// RestartBlockingThreshold is "rat": trailLen/ema_asg_slow above this
	// suppresses a forcing restart. Default 0.60.
	RestartBlockingThreshold float64

	// RestartLBDFastWindow is the EMA window for LBD, fast (--rll).
	// Default 8.
	RestartLBDFastWindow int

	// RestartLBDSlowWindow is the EMA window for LBD, slow (--rls).
	// Default 8192.
	RestartLBDSlowWindow int

	// RestartLBDThreshold is "rlt": ema_lbd_fast/ema_lbd_slow above this,
	// sustained, forces a restart. Default 1.60.
	RestartLBDThreshold float64

	// RestartStep scales the Luby base interval in conflicts (--rs).
	// Default 2.
	RestartStep int

	// VarDecayRate is the LRB decay rate "vrw_dcy_rat" (--vdr). Default
	// 0.94.
	VarDecayRate float64
}

// DefaultOptions mirrors the documented CLI defaults of §6.
var DefaultOptions = Options{
	ClauseDecay:              0.999,
	MaxConflicts:             -1,
	Timeout:                  5000 * time.Second,
	PhaseSaving:              true,
	Certify:                  false,
	ChronoBTThreshold:        100,
	ClauseDBReduceGrowthRate: 0.95,
	InprocessInterval:        10000,
	ElimClauseLimit:          18,
	ElimGrow:                 0,
	ElimVarOccLimit:          20000,
	RestartAsgFastWindow:     24,
	RestartAsgSlowWindow:     8192,
	RestartBlockingThreshold: 0.60,
	RestartLBDFastWindow:     8,
	RestartLBDSlowWindow:     8192,
	RestartLBDThreshold:      1.60,
	RestartStep:              2,
	VarDecayRate:             0.94,
}

// Validate checks that every option is within its documented range,
// returning an OutOfRange *Error naming the first violation found.
func (o Options) Validate() error {
	switch {
	case o.ClauseDecay <= 0 || o.ClauseDecay >= 1:
		return newError(OutOfRange, "clause decay %f must be in (0, 1)", o.ClauseDecay)
	case o.ChronoBTThreshold < 0:
		return newError(OutOfRange, "cbt %d must be >= 0", o.ChronoBTThreshold)
	case o.ClauseDBReduceGrowthRate <= 0:
		return newError(OutOfRange, "cdr %f must be > 0", o.ClauseDBReduceGrowthRate)
	case o.InprocessInterval <= 0:
		return newError(OutOfRange, "ii %d must be > 0", o.InprocessInterval)
	case o.ElimClauseLimit <= 0:
		return newError(OutOfRange, "ecl %d must be > 0", o.ElimClauseLimit)
	case o.ElimGrow < 0:
		return newError(OutOfRange, "evl %d must be >= 0", o.ElimGrow)
	case o.ElimVarOccLimit <= 0:
		return newError(OutOfRange, "evo %d must be > 0", o.ElimVarOccLimit)
	case o.RestartAsgFastWindow <= 0 || o.RestartAsgSlowWindow <= 0:
		return newError(OutOfRange, "ral/ras must be > 0")
	case o.RestartBlockingThreshold <= 0:
		return newError(OutOfRange, "rat %f must be > 0", o.RestartBlockingThreshold)
	case o.RestartLBDFastWindow <= 0 || o.RestartLBDSlowWindow <= 0:
		return newError(OutOfRange, "rll/rls must be > 0")
	case o.RestartLBDThreshold <= 1:
		return newError(OutOfRange, "rlt %f must be > 1", o.RestartLBDThreshold)
	case o.RestartStep <= 0:
		return newError(OutOfRange, "rs %d must be > 0", o.RestartStep)
	case o.VarDecayRate <= 0 || o.VarDecayRate >= 1:
		return newError(OutOfRange, "vdr %f must be in (0, 1)", o.VarDecayRate)
	}
	return nil
}
