// Command dratsat reads a DIMACS CNF instance, runs the CDCL solver, and
// prints a SAT-competition 2011 result (§6).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/tobsch/dratsat/internal/cnf"
	"github.com/tobsch/dratsat/internal/sat"
)

var (
	flagCPUProfile = flag.Bool("cpuprof", false, "save pprof CPU profile to ./cpuprof")
	flagMemProfile = flag.Bool("memprof", false, "save pprof memory profile to ./memprof")
	flagGzip       = flag.Bool("gzip", false, "the instance file is gzip-compressed")

	flagCertify = flag.Bool("c", false, "emit a DRAT proof to the file named by -proof")
	flagProof   = flag.String("proof", "proof.drat", "DRAT proof output path, used with -c")

	flagMaxConflicts = flag.Int64("maxconflicts", -1, "stop after this many conflicts (-1: unbounded)")
	flagTimeout      = flag.Duration("timeout", sat.DefaultOptions.Timeout, "wall-clock search budget")
	flagPhaseSaving  = flag.Bool("phase-saving", sat.DefaultOptions.PhaseSaving, "remember the last polarity of each variable")

	flagCBT = flag.Int("cbt", sat.DefaultOptions.ChronoBTThreshold, "chronological-backtracking decision-level threshold")
	flagCDR = flag.Float64("cdr", sat.DefaultOptions.ClauseDBReduceGrowthRate, "learnt clause database reduction growth rate")
	flagII  = flag.Int64("ii", sat.DefaultOptions.InprocessInterval, "conflicts between inprocessing passes")

	flagECL = flag.Int("ecl", sat.DefaultOptions.ElimClauseLimit, "bounded variable elimination resolvent length limit")
	flagEVL = flag.Int("evl", sat.DefaultOptions.ElimGrow, "bounded variable elimination clause growth allowance")
	flagEVO = flag.Int("evo", sat.DefaultOptions.ElimVarOccLimit, "bounded variable elimination occurrence limit")

	flagRAL = flag.Int("ral", sat.DefaultOptions.RestartAsgFastWindow, "fast trail-length EMA window")
	flagRAS = flag.Int("ras", sat.DefaultOptions.RestartAsgSlowWindow, "slow trail-length EMA window")
	flagRAT = flag.Float64("rat", sat.DefaultOptions.RestartBlockingThreshold, "restart blocking threshold")
	flagRLL = flag.Int("rll", sat.DefaultOptions.RestartLBDFastWindow, "fast LBD EMA window")
	flagRLS = flag.Int("rls", sat.DefaultOptions.RestartLBDSlowWindow, "slow LBD EMA window")
	flagRLT = flag.Float64("rlt", sat.DefaultOptions.RestartLBDThreshold, "forcing restart LBD ratio threshold")
	flagRS  = flag.Int("rs", sat.DefaultOptions.RestartStep, "Luby restart schedule base-interval multiplier")

	flagVDR = flag.Float64("vdr", sat.DefaultOptions.VarDecayRate, "LRB variable activity decay rate")

	flagAllModels = flag.Int("all-models", 0, "enumerate up to N models instead of stopping at the first (0: just one)")
)

func optionsFromFlags() sat.Options {
	o := sat.DefaultOptions
	o.MaxConflicts = *flagMaxConflicts
	o.Timeout = *flagTimeout
	o.PhaseSaving = *flagPhaseSaving
	o.Certify = *flagCertify
	o.ChronoBTThreshold = *flagCBT
	o.ClauseDBReduceGrowthRate = *flagCDR
	o.InprocessInterval = *flagII
	o.ElimClauseLimit = *flagECL
	o.ElimGrow = *flagEVL
	o.ElimVarOccLimit = *flagEVO
	o.RestartAsgFastWindow = *flagRAL
	o.RestartAsgSlowWindow = *flagRAS
	o.RestartBlockingThreshold = *flagRAT
	o.RestartLBDFastWindow = *flagRLL
	o.RestartLBDSlowWindow = *flagRLS
	o.RestartLBDThreshold = *flagRLT
	o.RestartStep = *flagRS
	o.VarDecayRate = *flagVDR
	return o
}

// exit codes follow the SAT-competition convention (§6): 10 SATISFIABLE,
// 20 UNSATISFIABLE, everything else is an UNKNOWN/error result.
const (
	exitSAT     = 10
	exitUNSAT   = 20
	exitUnknown = 0
	exitError   = 1
)

func run() (int, error) {
	flag.Parse()
	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return exitError, fmt.Errorf("missing instance file")
	}
	instanceFile := flag.Arg(0)

	if *flagCPUProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			return exitError, err
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	opts := optionsFromFlags()
	s, err := sat.NewSolver(opts)
	if err != nil {
		return exitError, err
	}
	s.SetLogger(sat.WriterLogger{W: os.Stdout})

	var proofFile *os.File
	var drat *sat.DRATWriter
	if opts.Certify {
		proofFile, err = os.Create(*flagProof)
		if err != nil {
			return exitError, err
		}
		defer proofFile.Close()
		drat = sat.NewDRATWriter(proofFile)
		s.Certify(drat)
	}

	nVars, nClauses, err := cnf.LoadDIMACS(instanceFile, *flagGzip, s)
	if err != nil {
		return exitError, fmt.Errorf("could not parse instance: %w", err)
	}
	fmt.Printf("c variables:  %d\n", nVars)
	fmt.Printf("c clauses:    %d\n", nClauses)

	ctx := context.Background()
	start := time.Now()

	var cert sat.Certificate
	found := 0
	for {
		if *flagAllModels > 0 {
			cert, err = s.NextModel(ctx)
		} else {
			cert, err = s.Solve(ctx)
		}
		if err != nil {
			return exitError, err
		}
		if cert.Outcome != sat.Satisfiable {
			break
		}
		found++
		if *flagAllModels == 0 || found >= *flagAllModels {
			break
		}
	}

	if drat != nil {
		if err := drat.Flush(); err != nil {
			return exitError, err
		}
	}

	elapsed := time.Since(start)
	st := s.Stats()
	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", st.Conflicts, float64(st.Conflicts)/elapsed.Seconds())
	fmt.Printf("c restarts:   %d\n", st.Restarts)
	if *flagAllModels > 0 {
		fmt.Printf("c models:     %d\n", found)
	}

	if err := cnf.WriteResult(os.Stdout, cert); err != nil {
		return exitError, err
	}

	if *flagMemProfile {
		f, err := os.Create("memprof")
		if err != nil {
			return exitError, err
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	switch cert.Outcome {
	case sat.Satisfiable:
		return exitSAT, nil
	case sat.Unsatisfiable:
		return exitUNSAT, nil
	default:
		return exitUnknown, nil
	}
}

func main() {
	code, err := run()
	if err != nil {
		log.Print(err)
	}
	os.Exit(code)
}
