package fraig

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gocec/gocec/solver"
	"github.com/gocec/gocec/solver/giniback"
)

// newSatSolver creates the SAT solver described by cfg.
func newSatSolver(cfg Config, log *logrus.Logger) (solver.Interface, error) {
	ownSolver := func() (*solver.Solver, error) {
		opts, err := solver.ParseOptions(cfg.SatOptions)
		if err != nil {
			return nil, errors.Wrap(err, "invalid sat_options")
		}
		return solver.New(append(opts, solver.WithLogger(log))...), nil
	}
	switch cfg.SatBackend {
	case BackendGini:
		return giniback.New(), nil
	case BackendSatlog:
		s, err := ownSolver()
		if err != nil {
			return nil, err
		}
		w := cfg.SatLog
		if w == nil {
			w = os.Stdout
		}
		return solver.NewRecorder(w, s), nil
	case BackendDefault:
	default:
		log.WithField("backend", cfg.SatBackend).Warn("unknown SAT backend, using the default one")
	}
	return ownSolver()
}

// A TimeStat accumulates the duration of a class of SAT checks.
type TimeStat struct {
	Count int
	Total time.Duration
	Max   time.Duration
}

func (ts *TimeStat) add(d time.Duration) {
	ts.Count++
	ts.Total += d
	if d > ts.Max {
		ts.Max = d
	}
}

func (ts TimeStat) dump(w io.Writer, name string) {
	if ts.Count == 0 {
		return
	}
	avg := ts.Total / time.Duration(ts.Count)
	fmt.Fprintf(w, " In %s(total/ave./max): %v / %v / %v\n", name, ts.Total, avg, ts.Max)
}

// A SatStat gathers the results of a kind of SAT check.
// A check succeeds when it proves the property, fails when it finds a counterexample
// and aborts when the solver gives up.
type SatStat struct {
	Total   int
	Success TimeStat
	Failure TimeStat
	Abort   TimeStat
}

func (ss *SatStat) record(res solver.Bool3, d time.Duration) {
	ss.Total++
	switch res {
	case solver.True:
		ss.Success.add(d)
	case solver.False:
		ss.Failure.add(d)
	default:
		ss.Abort.add(d)
	}
}

func (ss SatStat) dump(w io.Writer) {
	fmt.Fprintf(w, "%d / %d\n", ss.Success.Count, ss.Total)
	ss.Success.dump(w, "success")
	ss.Failure.dump(w, "failure")
	ss.Abort.dump(w, "abort")
}

// solve calls the SAT solver and keeps its model.
func (m *Mgr) solve(assumptions ...solver.Lit) solver.Bool3 {
	res, model := m.sat.Solve(assumptions)
	if res == solver.True {
		m.model = model
	}
	return res
}

// checkConst checks whether n (inverted if inv) is always 0.
// It returns True if it is, False if a counterexample was found, Unknown if the solver gave up.
func (m *Mgr) checkConst(n *node, inv bool) solver.Bool3 {
	start := time.Now()
	lit := n.v.SignedLit(inv)
	var res solver.Bool3
	switch m.solve(lit) {
	case solver.False:
		m.sat.AddClause(lit.Negation())
		res = solver.True
	case solver.True:
		res = solver.False
	default:
		res = solver.Unknown
	}
	m.constStat.record(res, time.Since(start))
	if m.logLevel >= 1 {
		m.log.WithFields(logrus.Fields{
			"node":   Handle{n: n, inv: inv},
			"result": res,
		}).Info("check_const")
	}
	return res
}

// checkEquiv checks whether n1 and n2 (inverted if inv) are equivalent.
// It returns True if they are, False if a counterexample was found, Unknown if the solver gave up.
func (m *Mgr) checkEquiv(n1, n2 *node, inv bool) solver.Bool3 {
	start := time.Now()
	lit1 := n1.v.Lit()
	lit2 := n2.v.SignedLit(inv)
	res := solver.Unknown
	switch m.solve(lit1.Negation(), lit2) {
	case solver.True:
		res = solver.False
	case solver.False:
		switch m.solve(lit1, lit2.Negation()) {
		case solver.True:
			res = solver.False
		case solver.False:
			m.sat.AddClause(lit1.Negation(), lit2)
			m.sat.AddClause(lit1, lit2.Negation())
			res = solver.True
		}
	}
	m.equivStat.record(res, time.Since(start))
	if m.logLevel >= 1 {
		m.log.WithFields(logrus.Fields{
			"node1":  Handle{n: n1},
			"node2":  Handle{n: n2, inv: inv},
			"result": res,
		}).Info("check_equiv")
	}
	return res
}

// DumpStats writes statistics about the simulation and the SAT checks on w.
func (m *Mgr) DumpStats(w io.Writer) {
	fmt.Fprintln(w, "=====<< AigMgr Statistics >> =====")
	fmt.Fprintf(w, "simulation:\n total %d loops\n total %v\n", m.simCount, m.simTime)
	fmt.Fprintln(w, "----------------------------------")
	fmt.Fprintln(w, "check_const:")
	m.constStat.dump(w)
	fmt.Fprintln(w, "----------------------------------")
	fmt.Fprintln(w, "check_equiv:")
	m.equivStat.dump(w)
	fmt.Fprintln(w)
	stats := m.sat.Stats()
	fmt.Fprintln(w, "----------------------------------")
	fmt.Fprintln(w, "sat stat:")
	fmt.Fprintf(w, "  restarts          : %d\n", stats.NbRestarts)
	fmt.Fprintf(w, "  conflicts         : %d\n", stats.NbConflicts)
	fmt.Fprintf(w, "  decisions         : %d\n", stats.NbDecisions)
	fmt.Fprintf(w, "  propagations      : %d\n", stats.NbPropagations)
	fmt.Fprintf(w, "  conflict literals : %d\n", stats.NbLearntLits)
}

// ConstStats returns the statistics of the constant checks.
func (m *Mgr) ConstStats() SatStat { return m.constStat }

// EquivStats returns the statistics of the equivalence checks.
func (m *Mgr) EquivStats() SatStat { return m.equivStat }

// SatStats returns the statistics of the underlying SAT solver.
func (m *Mgr) SatStats() solver.Stats { return m.sat.Stats() }
