// Package giniback implements solver.Interface on top of the gini SAT solver.
//
// It is selected with the "gini" backend name in the fraig package, and is mostly useful
// to cross-check the results of the built-in solver.
package giniback

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/gocec/gocec/solver"
)

// Solver wraps a gini solver.
// Gini has no conflict budget: SetMaxConflict is recorded but calls to Solve always run to completion.
type Solver struct {
	g           *gini.Gini
	nbVars      int
	nbClauses   int
	nbLits      int
	maxConflict int
	sane        bool
	buf         []z.Lit
}

var _ solver.Interface = (*Solver)(nil)

// New returns an empty gini-backed solver.
func New() *Solver {
	return &Solver{g: gini.New(), sane: true}
}

func toZ(l solver.Lit) z.Lit {
	return z.Dimacs2Lit(int(l.Int()))
}

// NewVar implements solver.Interface.
func (s *Solver) NewVar() solver.Var {
	v := solver.Var(s.nbVars)
	s.nbVars++
	for s.g.MaxVar() < z.Var(s.nbVars) {
		s.g.Lit()
	}
	return v
}

func (s *Solver) checkLit(l solver.Lit) {
	if l < 0 || int(l.Var()) >= s.nbVars {
		panic("giniback: literal out of range")
	}
}

// AddClause implements solver.Interface.
// The empty clause is not sent to gini: the solver is simply marked unsatisfiable.
func (s *Solver) AddClause(lits ...solver.Lit) {
	s.nbClauses++
	if len(lits) == 0 {
		s.sane = false
		return
	}
	for _, l := range lits {
		s.checkLit(l)
	}
	for _, l := range lits {
		s.g.Add(toZ(l))
	}
	s.g.Add(z.LitNull)
	s.nbLits += len(lits)
}

// Solve implements solver.Interface.
func (s *Solver) Solve(assumptions []solver.Lit) (solver.Bool3, []solver.Bool3) {
	if !s.sane {
		return solver.False, nil
	}
	s.buf = s.buf[:0]
	for _, l := range assumptions {
		s.checkLit(l)
		s.buf = append(s.buf, toZ(l))
	}
	s.g.Assume(s.buf...)
	switch s.g.Solve() {
	case 1:
		model := make([]solver.Bool3, s.nbVars)
		for i := range model {
			model[i] = solver.FromBool(s.g.Value(z.Var(i + 1).Pos()))
		}
		return solver.True, model
	case -1:
		if len(assumptions) == 0 {
			s.sane = false
		}
		return solver.False, nil
	default:
		return solver.Unknown, nil
	}
}

// Sane implements solver.Interface.
func (s *Solver) Sane() bool {
	return s.sane
}

// Stats implements solver.Interface.
// Only the size of the problem is known; gini does not expose its search statistics.
func (s *Solver) Stats() solver.Stats {
	return solver.Stats{
		NbVars:          s.nbVars,
		NbConstrClauses: s.nbClauses,
		NbConstrLits:    s.nbLits,
	}
}

// SetMaxConflict implements solver.Interface.
// The limit is only recorded: gini does not stop after a given # of conflicts.
func (s *Solver) SetMaxConflict(n int) int {
	old := s.maxConflict
	s.maxConflict = n
	return old
}
